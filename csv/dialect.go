package csv

import (
	"unicode/utf8"
)

// QuoteMode selects the output quoting policy applied per field.
type QuoteMode int

const (
	// QuoteMinimal quotes a field only when its content requires it.
	QuoteMinimal QuoteMode = iota
	// QuoteAll quotes every field, null fields included.
	QuoteAll
	// QuoteAllNonNull quotes every present field; nulls stay unquoted.
	QuoteAllNonNull
	// QuoteNone never quotes and escapes special characters instead.
	QuoteNone
	// QuoteNonNumeric quotes every field that is not a plain decimal number.
	QuoteNonNumeric
)

// String returns the configuration token of the quote mode.
func (m QuoteMode) String() string {
	switch m {
	case QuoteMinimal:
		return "minimal"
	case QuoteAll:
		return "all"
	case QuoteAllNonNull:
		return "notnull"
	case QuoteNone:
		return "none"
	case QuoteNonNumeric:
		return "text"
	}
	return "unknown"
}

// Dialect bundles the lexical rules of one side of a conversion. The zero
// rune disables the optional Quote and Escape characters.
type Dialect struct {
	Delimiter              rune
	Quote                  rune
	Escape                 rune
	QuoteMode              QuoteMode
	RecordSeparator        string
	IgnoreSurroundingSpace bool
	IgnoreEmptyLines       bool
}

// Validate checks that the dialect is internally consistent: a delimiter is
// set, a record separator is set, and delimiter, quote, and escape are
// pairwise distinct.
func (d Dialect) Validate() error {
	if d.Delimiter == 0 {
		return &ConfigError{Setting: "field separator", Reason: "a delimiter is required"}
	}
	if d.RecordSeparator == "" {
		return &ConfigError{Setting: "record separator", Reason: "a record separator is required"}
	}
	if d.Quote != 0 && d.Quote == d.Delimiter {
		return &ConfigError{Setting: "quote", Reason: "quote and field separator must differ"}
	}
	if d.Escape != 0 && d.Escape == d.Delimiter {
		return &ConfigError{Setting: "escape", Reason: "escape and field separator must differ"}
	}
	if d.Escape != 0 && d.Quote != 0 && d.Escape == d.Quote {
		return &ConfigError{Setting: "escape", Reason: "escape and quote must differ"}
	}
	return nil
}

// resolveToken maps a symbolic configuration token to its literal value.
// Unknown tokens pass through unchanged.
func resolveToken(token string) string {
	switch token {
	case "null":
		return ""
	case "\\n", "newline", "nl":
		return "\n"
	case "\\r", "linefeed", "lf":
		return "\r"
	case "\\r\\n", "linefeed+newline", "lf+nl":
		return "\r\n"
	case "comma":
		return ","
	case "semicolon":
		return ";"
	case "double", "doublequote", "\\\"":
		return "\""
	case "single", "singlequote", "\\'":
		return "'"
	case "backslash", "\\", "\\\\":
		return "\\"
	case "tab", "\\t":
		return "\t"
	}
	return token
}

// ResolveChar resolves a token for a character-valued setting. The empty
// token and "null" resolve to the zero rune, leaving the setting unset.
func ResolveChar(setting, token string) (rune, error) {
	if token == "" {
		return 0, nil
	}
	s := resolveToken(token)
	if s == "" {
		return 0, nil
	}
	if utf8.RuneCountInString(s) != 1 {
		return 0, &ConfigError{Setting: setting, Token: token}
	}
	r, _ := utf8.DecodeRuneInString(s)
	return r, nil
}

// ResolveSeparator resolves a token for the record separator. Unknown
// tokens are taken verbatim, so arbitrary separator strings are allowed.
func ResolveSeparator(token string) string {
	return resolveToken(token)
}

// ResolveQuoteMode resolves a quote mode token.
func ResolveQuoteMode(token string) (QuoteMode, error) {
	switch token {
	case "minimal":
		return QuoteMinimal, nil
	case "all":
		return QuoteAll, nil
	case "notnull":
		return QuoteAllNonNull, nil
	case "none":
		return QuoteNone, nil
	case "text":
		return QuoteNonNumeric, nil
	}
	return QuoteMinimal, &ConfigError{Setting: "quote mode", Token: token}
}
