package csv

import (
	"bufio"
	"io"

	"github.com/pkg/errors"
)

// parseState is the lexer mode of the parser. Each state has exactly one
// transition arm, keyed off the next rune of the stream.
type parseState int

const (
	// stateFieldStart is the position before the first character of a field.
	stateFieldStart parseState = iota
	// stateUnquoted accumulates a field outside any quoted region.
	stateUnquoted
	// stateQuoted accumulates a field between quote characters.
	stateQuoted
	// stateQuoteEnd follows a quote inside a quoted field; the quote either
	// closed the field or, when doubled, was a literal quote.
	stateQuoteEnd
	// stateEscaped consumes exactly one character after the escape character.
	stateEscaped
)

// Parser reads records from a character stream under an input dialect.
// It is single-pass: once Read returns io.EOF the stream is exhausted, and
// a fresh Parser must be constructed to re-read it.
//
// Record separation on input is permissive regardless of the configured
// separator: "\n", "\r\n", and a lone "\r" all terminate a record, so files
// with mixed line endings parse cleanly.
type Parser struct {
	r *bufio.Reader
	d Dialect

	state       parseState
	fromQuoted  bool
	field       []rune
	record      Record
	quotedField bool
	recordDone  bool
	recordNum   int
	done        bool
}

// NewParser returns a Parser reading from r under dialect d. A leading
// UTF-8 byte order mark is skipped.
func NewParser(r io.Reader, d Dialect) *Parser {
	br := bufio.NewReader(r)
	if b, err := br.Peek(3); err == nil && b[0] == 0xef && b[1] == 0xbb && b[2] == 0xbf {
		br.Discard(3)
	}
	return &Parser{r: br, d: d, state: stateFieldStart}
}

// Read parses and returns the next record. It returns io.EOF once the
// stream is exhausted. Lines skipped by IgnoreEmptyLines produce no record
// and do not advance the record count.
func (p *Parser) Read() (Record, error) {
	if p.done {
		return nil, io.EOF
	}

	for {
		r, _, err := p.r.ReadRune()
		if err == io.EOF {
			return p.finish()
		}
		if err != nil {
			return nil, errors.Wrap(err, "csv: read")
		}

		if err := p.transition(r); err != nil {
			return nil, err
		}

		if p.recordDone {
			p.recordDone = false
			if rec, ok := p.takeRecord(); ok {
				return rec, nil
			}
			// skipped empty line, keep reading
		}
	}
}

// ReadAll exhausts the parser, collecting records until io.EOF.
func (p *Parser) ReadAll() ([]Record, error) {
	var records []Record
	for {
		rec, err := p.Read()
		if err == io.EOF {
			return records, nil
		}
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
}

// transition applies one input rune to the current state.
func (p *Parser) transition(r rune) error {
	switch p.state {
	case stateFieldStart:
		switch {
		case r == p.d.Delimiter:
			p.endField()
		case r == '\n' || r == '\r':
			return p.endRecord(r)
		case p.d.IgnoreSurroundingSpace && (r == ' ' || r == '\t'):
			// leading space, dropped
		case p.d.Quote != 0 && r == p.d.Quote:
			p.state = stateQuoted
			p.quotedField = true
		case p.d.Escape != 0 && r == p.d.Escape:
			p.state = stateEscaped
			p.fromQuoted = false
		default:
			p.field = append(p.field, r)
			p.state = stateUnquoted
		}

	case stateUnquoted:
		switch {
		case r == p.d.Delimiter:
			p.endField()
			p.state = stateFieldStart
		case r == '\n' || r == '\r':
			return p.endRecord(r)
		case p.d.Escape != 0 && r == p.d.Escape:
			p.state = stateEscaped
			p.fromQuoted = false
		default:
			p.field = append(p.field, r)
		}

	case stateQuoted:
		switch {
		case p.d.Escape != 0 && r == p.d.Escape:
			p.state = stateEscaped
			p.fromQuoted = true
		case r == p.d.Quote:
			p.state = stateQuoteEnd
		default:
			p.field = append(p.field, r)
		}

	case stateQuoteEnd:
		switch {
		case r == p.d.Quote && p.d.Escape == 0:
			// doubled quote, a literal quote character
			p.field = append(p.field, r)
			p.state = stateQuoted
		case r == p.d.Delimiter:
			p.endField()
			p.state = stateFieldStart
		case r == '\n' || r == '\r':
			return p.endRecord(r)
		case r == ' ' || r == '\t':
			// space between the closing quote and the delimiter, dropped
		default:
			p.field = append(p.field, r)
			p.state = stateUnquoted
		}

	case stateEscaped:
		p.field = append(p.field, unescapeRune(r))
		if p.fromQuoted {
			p.state = stateQuoted
		} else {
			p.state = stateUnquoted
		}
	}
	return nil
}

// unescapeRune maps the short codes of the escape convention back to their
// control character. Any other character is taken literally.
func unescapeRune(r rune) rune {
	switch r {
	case 'n':
		return '\n'
	case 'r':
		return '\r'
	case 't':
		return '\t'
	}
	return r
}

// endRecord consumes the "\n" of a "\r\n" pair and marks the record done.
func (p *Parser) endRecord(r rune) error {
	if r == '\r' {
		next, _, err := p.r.ReadRune()
		if err == nil && next != '\n' {
			p.r.UnreadRune()
		}
		if err != nil && err != io.EOF {
			return errors.Wrap(err, "csv: read")
		}
	}
	p.recordDone = true
	return nil
}

// endField closes the field in progress, trimming trailing spaces from
// unquoted fields when the dialect asks for it.
func (p *Parser) endField() {
	field := p.field
	if p.d.IgnoreSurroundingSpace && !p.quotedField {
		for len(field) > 0 {
			last := field[len(field)-1]
			if last != ' ' && last != '\t' {
				break
			}
			field = field[:len(field)-1]
		}
	}
	p.record = append(p.record, NewField(string(field)))
	p.field = p.field[:0]
	p.quotedField = false
}

// takeRecord finalizes the record in progress. It reports false for a line
// with no content at all when IgnoreEmptyLines is set.
func (p *Parser) takeRecord() (Record, bool) {
	if len(p.record) == 0 && len(p.field) == 0 && !p.quotedField && p.d.IgnoreEmptyLines {
		p.state = stateFieldStart
		return nil, false
	}
	p.endField()
	rec := p.record
	p.record = nil
	p.state = stateFieldStart
	p.recordNum++
	return rec, true
}

// finish handles the end of the stream for whatever state the lexer is in.
func (p *Parser) finish() (Record, error) {
	p.done = true

	switch p.state {
	case stateQuoted:
		return nil, &UnterminatedQuoteError{Record: p.recordNum + 1}
	case stateEscaped:
		if p.fromQuoted {
			return nil, &UnterminatedQuoteError{Record: p.recordNum + 1}
		}
		// dangling escape at end of stream, kept literally
		p.field = append(p.field, p.d.Escape)
	}

	if len(p.record) == 0 && len(p.field) == 0 && !p.quotedField {
		return nil, io.EOF
	}
	rec, _ := p.takeRecord()
	return rec, nil
}
