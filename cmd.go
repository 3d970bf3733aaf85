package main

import (
	"io"
	"io/ioutil"
	"os"
	"path/filepath"

	gojson "github.com/goccy/go-json"
	"github.com/nicored/csv-recast/csv"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v2"
)

// DialectConfig is the symbolic form of one side's lexical rules. Values
// are tokens ("comma", "tab", "\\n", a literal character...) resolved by
// the csv package.
type DialectConfig struct {
	FieldSeparator         string `yaml:"fieldSeparator" json:"fieldSeparator"`
	RecordSeparator        string `yaml:"recordSeparator" json:"recordSeparator"`
	Quote                  string `yaml:"quote" json:"quote"`
	QuoteMode              string `yaml:"quoteMode" json:"quoteMode"`
	Escape                 string `yaml:"escape" json:"escape"`
	IgnoreSurroundingSpace bool   `yaml:"ignoreSurroundingSpace" json:"ignoreSurroundingSpace"`
	IgnoreEmptyLines       bool   `yaml:"ignoreEmptyLines" json:"ignoreEmptyLines"`
}

// withDefaults fills the unset tokens with the historical defaults of the
// tool: comma-separated, newline-terminated, double-quoted.
func (dc *DialectConfig) withDefaults(quoteMode string) {
	if dc.FieldSeparator == "" {
		dc.FieldSeparator = "comma"
	}
	if dc.RecordSeparator == "" {
		dc.RecordSeparator = "newline"
	}
	if dc.Quote == "" {
		dc.Quote = "double"
	}
	if dc.QuoteMode == "" {
		dc.QuoteMode = quoteMode
	}
}

// dialect resolves the symbolic configuration to a csv.Dialect.
func (dc *DialectConfig) dialect() (csv.Dialect, error) {
	var d csv.Dialect
	var err error

	if d.Delimiter, err = csv.ResolveChar("field separator", dc.FieldSeparator); err != nil {
		return d, err
	}
	if d.Quote, err = csv.ResolveChar("quote", dc.Quote); err != nil {
		return d, err
	}
	if d.Escape, err = csv.ResolveChar("escape", dc.Escape); err != nil {
		return d, err
	}
	if d.QuoteMode, err = csv.ResolveQuoteMode(dc.QuoteMode); err != nil {
		return d, err
	}
	d.RecordSeparator = csv.ResolveSeparator(dc.RecordSeparator)
	d.IgnoreSurroundingSpace = dc.IgnoreSurroundingSpace
	d.IgnoreEmptyLines = dc.IgnoreEmptyLines

	return d, d.Validate()
}

type Config struct {
	Input            DialectConfig `yaml:"input" json:"input"`
	Output           DialectConfig `yaml:"output" json:"output"`
	CleaningStrategy string        `yaml:"cleaningStrategy" json:"cleaningStrategy"`
	Flatten          bool          `yaml:"flatten" json:"flatten"`
	Transforms       []string      `yaml:"transforms" json:"transforms"`
	JsTransforms     []string      `yaml:"jsTransforms" json:"jsTransforms"`
	OutputFile       string        `yaml:"outputFile" json:"outputFile"`
}

type Data struct {
	Config    *Config
	Converter *csv.Converter

	configFile string
	csvFile    string
}

func main() {
	if len(os.Args) < 2 || len(os.Args) > 3 {
		logrus.Fatal("expecting the configuration file and optionally a csv file. eg. csv-recast myconfig.yml mycsv.csv")
	}

	csvFile := ""
	if len(os.Args) == 3 {
		csvFile = os.Args[2]
	}

	d, err := NewData(os.Args[1], csvFile)
	if err != nil {
		logrus.Fatal(err)
	}

	if err = d.Do(); err != nil {
		logrus.Fatal(err)
	}
}

func NewData(configFile string, csvFile string) (data *Data, err error) {
	data = &Data{
		configFile: configFile,
		csvFile:    csvFile,
	}

	if err = data.parseConfig(); err != nil {
		return
	}

	return
}

// Do runs the conversion, reading the csv file or stdin and writing the
// configured output file or stdout.
func (d *Data) Do() error {
	in := io.Reader(os.Stdin)
	if d.csvFile != "" {
		f, err := os.Open(d.csvFile)
		if err != nil {
			return err
		}
		defer f.Close()
		in = f
	}

	out := io.Writer(os.Stdout)
	if d.Config.OutputFile != "" {
		f, err := os.Create(d.Config.OutputFile)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}

	return d.Converter.Run(in, out)
}

func (d *Data) parseConfig() error {
	content, err := ioutil.ReadFile(d.configFile)
	if err != nil {
		return err
	}

	conf := &Config{}
	if filepath.Ext(d.configFile) == ".json" {
		err = gojson.Unmarshal(content, conf)
	} else {
		err = yaml.Unmarshal(content, conf)
	}
	if err != nil {
		return err
	}

	d.Config = conf
	conf.Input.withDefaults("minimal")
	conf.Output.withDefaults("all")

	return d.buildConverter()
}

func (d *Data) buildConverter() error {
	in, err := d.Config.Input.dialect()
	if err != nil {
		return err
	}

	out, err := d.Config.Output.dialect()
	if err != nil {
		return err
	}

	strategy, err := csv.ResolveStrategy(d.Config.CleaningStrategy)
	if err != nil {
		return err
	}

	transforms, err := d.buildTransforms(out)
	if err != nil {
		return err
	}

	d.Converter = &csv.Converter{
		In:         in,
		Out:        out,
		Strategy:   strategy,
		Transforms: transforms,
		Log:        logrus.StandardLogger(),
	}
	return nil
}

// buildTransforms assembles the field transform chain: named built-ins
// first, then javascript transforms, then flatten last so nothing
// reintroduces control characters behind its back.
func (d *Data) buildTransforms(out csv.Dialect) ([]csv.TransformI, error) {
	var list []csv.TransformI

	for _, name := range d.Config.Transforms {
		t, err := csv.GetTransform(name)
		if err != nil {
			return nil, err
		}
		list = append(list, t)
	}

	for _, jsFilepath := range d.Config.JsTransforms {
		t, err := csv.NewJSTransform(jsFilepath)
		if err != nil {
			return nil, err
		}

		if err = csv.AddTransforms(t); err != nil {
			return nil, err
		}
		list = append(list, t)
	}

	if d.Config.Flatten {
		if out.Escape == 0 {
			return nil, &csv.ConfigError{Setting: "flatten", Reason: "cannot flatten fields without an escape character"}
		}
		list = append(list, csv.Flatten(out.Escape))
	}

	return list, nil
}
