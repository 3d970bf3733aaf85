package csv

import "strings"

// Field is a single cell of a record. A null field is distinct from an
// empty string; the distinction drives the notnull quote mode.
type Field struct {
	value string
	null  bool
}

// NewField returns a present field holding the given value.
func NewField(value string) Field {
	return Field{value: value}
}

// NullField returns the null field.
func NullField() Field {
	return Field{null: true}
}

// String returns the field value; a null field returns the empty string.
func (f Field) String() string {
	return f.value
}

// IsNull reports whether the field is null rather than an empty string.
func (f Field) IsNull() bool {
	return f.null
}

// Record is one row of fields. Records are not retained by the engine
// beyond one pass through the pipeline.
type Record []Field

// NewRecord builds a record of present fields from the given values.
func NewRecord(values ...string) Record {
	rec := make(Record, len(values))
	for i, v := range values {
		rec[i] = NewField(v)
	}
	return rec
}

// Width returns the number of fields in the record.
func (r Record) Width() int {
	return len(r)
}

// Strings returns the field values; null fields yield empty strings.
func (r Record) Strings() []string {
	out := make([]string, len(r))
	for i, f := range r {
		out[i] = f.String()
	}
	return out
}

// String renders the record for diagnostics.
func (r Record) String() string {
	return strings.Join(r.Strings(), ", ")
}
