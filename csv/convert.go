package csv

import (
	"io"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Converter wires a Parser, a Validator, the configured transforms, and a
// Printer into a single-threaded pull pipeline: each record is fully
// validated, transformed, and written before the next one is read.
type Converter struct {
	In         Dialect
	Out        Dialect
	Strategy   CleaningStrategy
	Transforms []TransformI
	Log        logrus.FieldLogger
}

// Run converts every record readable from r and writes it to w. Output
// buffered so far is flushed on every exit path; on failure the output is
// left wherever the failure caught it.
func (c *Converter) Run(r io.Reader, w io.Writer) error {
	if err := c.In.Validate(); err != nil {
		return errors.Wrap(err, "input dialect")
	}
	if err := c.Out.Validate(); err != nil {
		return errors.Wrap(err, "output dialect")
	}

	parser := NewParser(r, c.In)
	printer := NewPrinter(w, c.Out)
	validator := &Validator{Strategy: c.Strategy, Log: c.Log}

	err := c.run(parser, validator, printer)
	if ferr := printer.Flush(); ferr != nil && err == nil {
		err = ferr
	}
	return err
}

func (c *Converter) run(parser *Parser, validator *Validator, printer *Printer) error {
	for {
		rec, err := parser.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}

		ok, err := validator.Check(rec)
		if err != nil {
			return err
		}
		if !ok {
			continue
		}

		if rec, err = c.apply(rec, validator.Records()); err != nil {
			return err
		}

		if err := printer.Write(rec); err != nil {
			return err
		}
	}
}

// apply runs the configured transforms over every present field of the
// record, in order. Null fields pass through untouched.
func (c *Converter) apply(rec Record, num int) (Record, error) {
	if len(c.Transforms) == 0 {
		return rec, nil
	}

	out := make(Record, len(rec))
	for i, f := range rec {
		if f.IsNull() {
			out[i] = f
			continue
		}

		value := f.String()
		for _, t := range c.Transforms {
			var err error
			if value, err = t.Apply(value); err != nil {
				return nil, errors.Wrapf(err, "error running transform '%s' on field %d in record %d", t.Name(), i+1, num)
			}
		}
		out[i] = NewField(value)
	}

	return out, nil
}
