package csv

import (
	"bufio"
	"io"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/pkg/errors"
)

// Printer writes records to a character sink under an output dialect.
// Quote doubling and escape-character escaping are mutually exclusive: when
// the dialect has an escape character, doubling is not used.
type Printer struct {
	w *bufio.Writer
	d Dialect
}

// NewPrinter returns a Printer writing to w under dialect d.
func NewPrinter(w io.Writer, d Dialect) *Printer {
	return &Printer{w: bufio.NewWriter(w), d: d}
}

// Write serializes one record followed by the configured record separator,
// written verbatim.
func (p *Printer) Write(rec Record) error {
	for i, f := range rec {
		if i > 0 {
			if _, err := p.w.WriteRune(p.d.Delimiter); err != nil {
				return errors.Wrap(err, "csv: write")
			}
		}
		if err := p.writeField(f); err != nil {
			return err
		}
	}
	if _, err := p.w.WriteString(p.d.RecordSeparator); err != nil {
		return errors.Wrap(err, "csv: write")
	}
	return nil
}

// Flush writes any buffered output to the underlying sink.
func (p *Printer) Flush() error {
	return errors.Wrap(p.w.Flush(), "csv: flush")
}

// writeField decides per quote mode whether the field is quoted, then
// renders it.
func (p *Printer) writeField(f Field) error {
	var quoted bool
	switch p.d.QuoteMode {
	case QuoteAll:
		quoted = p.d.Quote != 0
	case QuoteAllNonNull:
		quoted = p.d.Quote != 0 && !f.IsNull()
	case QuoteNone:
		quoted = false
	case QuoteNonNumeric:
		quoted = p.d.Quote != 0 && !f.IsNull() && !isNumeric(f.String())
	default: // QuoteMinimal
		quoted = p.d.Quote != 0 && !f.IsNull() && needsQuoting(f.String(), p.d)
	}

	var out string
	if quoted {
		out = quoteField(f.String(), p.d)
	} else {
		var err error
		if out, err = escapeField(f.String(), p.d); err != nil {
			return err
		}
	}
	if _, err := p.w.WriteString(out); err != nil {
		return errors.Wrap(err, "csv: write")
	}
	return nil
}

// needsQuoting reports whether a field must be quoted under the minimal
// policy to survive re-parsing: it contains the delimiter, the quote
// character, a line break, any character of the record separator, or has
// leading or trailing whitespace.
func needsQuoting(s string, d Dialect) bool {
	if s == "" {
		return false
	}
	if strings.ContainsRune(s, d.Delimiter) {
		return true
	}
	if d.Quote != 0 && strings.ContainsRune(s, d.Quote) {
		return true
	}
	if strings.ContainsAny(s, "\r\n") || strings.ContainsAny(s, d.RecordSeparator) {
		return true
	}
	first, _ := utf8.DecodeRuneInString(s)
	last, _ := utf8.DecodeLastRuneInString(s)
	return unicode.IsSpace(first) || unicode.IsSpace(last)
}

// isNumeric reports whether the whole field parses as a signed decimal
// number: an optional leading minus, digits, and at most one decimal point.
func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	i := 0
	if s[0] == '-' {
		i++
	}
	digits := 0
	dot := false
	for ; i < len(s); i++ {
		switch {
		case s[i] >= '0' && s[i] <= '9':
			digits++
		case s[i] == '.' && !dot:
			dot = true
		default:
			return false
		}
	}
	return digits > 0
}

// quoteField wraps the field in quote characters, protecting interior
// quotes by doubling or, when an escape character is configured, by
// escaping. Nothing but the quote character is touched, so a flattened
// field keeps its escape sequences as written.
func quoteField(s string, d Dialect) string {
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteRune(d.Quote)
	for _, r := range s {
		switch {
		case d.Escape != 0 && r == d.Quote:
			b.WriteRune(d.Escape)
			b.WriteRune(r)
		case d.Escape == 0 && r == d.Quote:
			b.WriteRune(r)
			b.WriteRune(r)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteRune(d.Quote)
	return b.String()
}

// escapeField renders a field without quotes, escaping every special
// character. Line breaks and tabs take their short code so the output stays
// on one line.
func escapeField(s string, d Dialect) (string, error) {
	if !strings.ContainsFunc(s, func(r rune) bool { return isSpecial(r, d) }) {
		return s, nil
	}
	if d.Escape == 0 {
		return "", &UnescapableFieldError{Field: s}
	}
	var b strings.Builder
	b.Grow(len(s) * 2)
	for _, r := range s {
		if !isSpecial(r, d) {
			b.WriteRune(r)
			continue
		}
		b.WriteRune(d.Escape)
		switch r {
		case '\n':
			b.WriteByte('n')
		case '\r':
			b.WriteByte('r')
		case '\t':
			b.WriteByte('t')
		default:
			b.WriteRune(r)
		}
	}
	return b.String(), nil
}

// isSpecial reports whether r would be misread if written bare outside
// quotes under dialect d.
func isSpecial(r rune, d Dialect) bool {
	if r == d.Delimiter || r == '\n' || r == '\r' {
		return true
	}
	if d.Quote != 0 && r == d.Quote {
		return true
	}
	if d.Escape != 0 && r == d.Escape {
		return true
	}
	return strings.ContainsRune(d.RecordSeparator, r)
}
