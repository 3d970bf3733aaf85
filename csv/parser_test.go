package csv

import (
	"errors"
	"io"
	"reflect"
	"strings"
	"testing"
)

func defaultInput() Dialect {
	return Dialect{
		Delimiter:       ',',
		Quote:           '"',
		RecordSeparator: "\n",
	}
}

func TestParserReadRecords(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		dialect func(d *Dialect)
		want    [][]string
	}{
		{
			name:  "basicRecords",
			input: "one,two\nthree,four\n",
			want: [][]string{
				{"one", "two"},
				{"three", "four"},
			},
		},
		{
			name:  "finalRecordWithoutTerminator",
			input: "alpha,beta,gamma",
			want: [][]string{
				{"alpha", "beta", "gamma"},
			},
		},
		{
			name:  "windowsLineEndings",
			input: "a,b\r\nc,d\r\n",
			want: [][]string{
				{"a", "b"},
				{"c", "d"},
			},
		},
		{
			name:  "mixedLineEndings",
			input: "a,b\nc,d\r\ne,f\rg,h",
			want: [][]string{
				{"a", "b"},
				{"c", "d"},
				{"e", "f"},
				{"g", "h"},
			},
		},
		{
			name:  "quotedDelimiterAndSeparator",
			input: "a,\"b,c\nd\",e\n",
			want: [][]string{
				{"a", "b,c\nd", "e"},
			},
		},
		{
			name:  "doubledQuote",
			input: "a,\"b\"\"c\",d\n",
			want: [][]string{
				{"a", "b\"c", "d"},
			},
		},
		{
			name:  "emptyFields",
			input: ",,\n",
			want: [][]string{
				{"", "", ""},
			},
		},
		{
			name:  "trailingDelimiter",
			input: "a,b,\n",
			want: [][]string{
				{"a", "b", ""},
			},
		},
		{
			name:  "quotedEOF",
			input: "\"quoted\"",
			want: [][]string{
				{"quoted"},
			},
		},
		{
			name:  "emptyQuotedField",
			input: "a,\"\",c\n",
			want: [][]string{
				{"a", "", "c"},
			},
		},
		{
			name:  "blankLineKeptByDefault",
			input: "a,b\n\nc,d\n",
			want: [][]string{
				{"a", "b"},
				{""},
				{"c", "d"},
			},
		},
		{
			name:  "blankLinesSkipped",
			input: "a,b\n\n\nc,d\n\n",
			dialect: func(d *Dialect) {
				d.IgnoreEmptyLines = true
			},
			want: [][]string{
				{"a", "b"},
				{"c", "d"},
			},
		},
		{
			name:  "semicolonDelimiter",
			input: "left;right\nup;down\n",
			dialect: func(d *Dialect) {
				d.Delimiter = ';'
			},
			want: [][]string{
				{"left", "right"},
				{"up", "down"},
			},
		},
		{
			name:  "noQuoteCharacter",
			input: "a,\"b\",c\n",
			dialect: func(d *Dialect) {
				d.Quote = 0
			},
			want: [][]string{
				{"a", "\"b\"", "c"},
			},
		},
		{
			name:  "surroundingSpaceTrimmed",
			input: "  a  , \"b b\" ,\tc\t\n",
			dialect: func(d *Dialect) {
				d.IgnoreSurroundingSpace = true
			},
			want: [][]string{
				{"a", "b b", "c"},
			},
		},
		{
			name:  "surroundingSpaceKeptByDefault",
			input: " a , b \n",
			want: [][]string{
				{" a ", " b "},
			},
		},
		{
			name:  "quotedSpacePreserved",
			input: "\" a \",b\n",
			dialect: func(d *Dialect) {
				d.IgnoreSurroundingSpace = true
			},
			want: [][]string{
				{" a ", "b"},
			},
		},
		{
			name:  "escapeShortCodes",
			input: "a\\tb,c\\nd,e\\\\f\n",
			dialect: func(d *Dialect) {
				d.Escape = '\\'
			},
			want: [][]string{
				{"a\tb", "c\nd", "e\\f"},
			},
		},
		{
			name:  "escapedDelimiter",
			input: "a\\,b,c\n",
			dialect: func(d *Dialect) {
				d.Escape = '\\'
			},
			want: [][]string{
				{"a,b", "c"},
			},
		},
		{
			name:  "escapedQuoteInsideQuotes",
			input: "\"a\\\"b\",c\n",
			dialect: func(d *Dialect) {
				d.Escape = '\\'
			},
			want: [][]string{
				{"a\"b", "c"},
			},
		},
		{
			name:  "bomSkipped",
			input: "\xef\xbb\xbfa,b\n",
			want: [][]string{
				{"a", "b"},
			},
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			d := defaultInput()
			if tc.dialect != nil {
				tc.dialect(&d)
			}

			records, err := NewParser(strings.NewReader(tc.input), d).ReadAll()
			if err != nil {
				t.Fatalf("ReadAll: %v", err)
			}

			var got [][]string
			for _, rec := range records {
				got = append(got, rec.Strings())
			}
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("got %q, want %q", got, tc.want)
			}
		})
	}
}

func TestParserUnterminatedQuote(t *testing.T) {
	t.Parallel()

	p := NewParser(strings.NewReader("a,\"bcd"), defaultInput())

	_, err := p.Read()
	if !errors.Is(err, ErrUnterminatedQuote) {
		t.Fatalf("err = %v, want ErrUnterminatedQuote", err)
	}

	var uq *UnterminatedQuoteError
	if !errors.As(err, &uq) {
		t.Fatalf("err = %T, want *UnterminatedQuoteError", err)
	}
	if uq.Record != 1 {
		t.Fatalf("record = %d, want 1", uq.Record)
	}
}

func TestParserUnterminatedQuoteLaterRecord(t *testing.T) {
	t.Parallel()

	p := NewParser(strings.NewReader("a,b\nc,d\ne,\"f"), defaultInput())

	if _, err := p.Read(); err != nil {
		t.Fatalf("record 1: %v", err)
	}
	if _, err := p.Read(); err != nil {
		t.Fatalf("record 2: %v", err)
	}

	_, err := p.Read()
	var uq *UnterminatedQuoteError
	if !errors.As(err, &uq) {
		t.Fatalf("err = %v, want *UnterminatedQuoteError", err)
	}
	if uq.Record != 3 {
		t.Fatalf("record = %d, want 3", uq.Record)
	}
}

func TestParserSinglePass(t *testing.T) {
	t.Parallel()

	p := NewParser(strings.NewReader("a,b\n"), defaultInput())

	if _, err := p.Read(); err != nil {
		t.Fatalf("first read: %v", err)
	}
	if _, err := p.Read(); err != io.EOF {
		t.Fatalf("second read err = %v, want io.EOF", err)
	}
	if _, err := p.Read(); err != io.EOF {
		t.Fatalf("read after EOF err = %v, want io.EOF", err)
	}
}

func TestParserEmptyInput(t *testing.T) {
	t.Parallel()

	if _, err := NewParser(strings.NewReader(""), defaultInput()).Read(); err != io.EOF {
		t.Fatalf("err = %v, want io.EOF", err)
	}
}
