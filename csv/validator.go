package csv

import (
	"github.com/sirupsen/logrus"
)

// CleaningStrategy decides what happens to records whose field count
// differs from the first record's.
type CleaningStrategy int

const (
	// Fail aborts the run on the first ragged record.
	Fail CleaningStrategy = iota
	// Keep logs a diagnostic and passes the record through unchanged.
	Keep
	// Drop logs a diagnostic and discards the record.
	Drop
)

// ResolveStrategy resolves a cleaning strategy token. The empty token
// resolves to Fail.
func ResolveStrategy(token string) (CleaningStrategy, error) {
	switch token {
	case "fail", "":
		return Fail, nil
	case "keep":
		return Keep, nil
	case "drop":
		return Drop, nil
	}
	return Fail, &ConfigError{Setting: "cleaning strategy", Token: token}
}

// Validator enforces a uniform field count across records. The first record
// it sees establishes the expected width; it is never checked itself. The
// validator does not reshape records, Keep is purely advisory.
type Validator struct {
	Strategy CleaningStrategy
	Log      logrus.FieldLogger

	expected int
	num      int
}

// Check registers the next record and reports whether it should be passed
// on. Under Fail a ragged record returns a RaggedRecordError; under Keep
// and Drop the deviation is logged to the diagnostic sink instead.
func (v *Validator) Check(rec Record) (bool, error) {
	v.num++
	if v.num == 1 {
		v.expected = rec.Width()
		return true, nil
	}
	if rec.Width() == v.expected {
		return true, nil
	}

	switch v.Strategy {
	case Drop:
		v.warn(rec)
		return false, nil
	case Keep:
		v.warn(rec)
		return true, nil
	default:
		return false, &RaggedRecordError{
			RecordNumber: v.num,
			Width:        rec.Width(),
			Expected:     v.expected,
			Record:       rec,
		}
	}
}

// Records returns the number of records checked so far.
func (v *Validator) Records() int {
	return v.num
}

func (v *Validator) warn(rec Record) {
	if v.Log == nil {
		return
	}
	v.Log.Warnf("record %d has %d fields (expected %d): %s", v.num, rec.Width(), v.expected, rec)
}
