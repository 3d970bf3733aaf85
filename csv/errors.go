package csv

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrInvalidConfig is returned when a dialect setting cannot be resolved
	// or the resulting dialect is inconsistent.
	ErrInvalidConfig = errors.New("csv: invalid configuration")
	// ErrUnterminatedQuote is returned when a quoted field is not closed
	// before the end of the stream.
	ErrUnterminatedQuote = errors.New("csv: unterminated quoted field")
	// ErrUnescapableField is returned when the output dialect cannot
	// represent a field without quoting and has no escape character.
	ErrUnescapableField = errors.New("csv: field cannot be escaped")
	// ErrRaggedRecord is returned under the fail cleaning strategy when a
	// record's width differs from the first record's.
	ErrRaggedRecord = errors.New("csv: wrong number of fields")
)

// ConfigError reports a dialect setting that could not be resolved or
// validated.
type ConfigError struct {
	Setting string
	Token   string
	Reason  string
}

// Error formats the configuration error message.
func (e *ConfigError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("%s: %s", e.Setting, e.Reason)
	}
	return fmt.Sprintf("cannot map %q to a %s", e.Token, e.Setting)
}

// Unwrap returns ErrInvalidConfig so ConfigError participates in errors.Is.
func (e *ConfigError) Unwrap() error {
	return ErrInvalidConfig
}

// UnterminatedQuoteError carries the 1-based number of the record whose
// quoted field reached the end of the stream unclosed.
type UnterminatedQuoteError struct {
	Record int
}

// Error formats the parse error message with the stored record number.
func (e *UnterminatedQuoteError) Error() string {
	return fmt.Sprintf("record %d: unterminated quoted field", e.Record)
}

// Unwrap returns ErrUnterminatedQuote so the error participates in errors.Is.
func (e *UnterminatedQuoteError) Unwrap() error {
	return ErrUnterminatedQuote
}

// UnescapableFieldError reports a field whose content cannot be written
// safely under the output dialect.
type UnescapableFieldError struct {
	Field string
}

// Error formats the printing error message with the offending field.
func (e *UnescapableFieldError) Error() string {
	return fmt.Sprintf("field %q needs an escape character and none is configured", e.Field)
}

// Unwrap returns ErrUnescapableField so the error participates in errors.Is.
func (e *UnescapableFieldError) Unwrap() error {
	return ErrUnescapableField
}

// RaggedRecordError reports a record whose field count differs from the
// width established by the first record.
type RaggedRecordError struct {
	RecordNumber int
	Width        int
	Expected     int
	Record       Record
}

// Error formats the validation error with the full record context.
func (e *RaggedRecordError) Error() string {
	return fmt.Sprintf("record %d has %d fields (expected %d): %s",
		e.RecordNumber, e.Width, e.Expected, e.Record)
}

// Unwrap returns ErrRaggedRecord so the error participates in errors.Is.
func (e *RaggedRecordError) Unwrap() error {
	return ErrRaggedRecord
}
