package csv

import (
	"strings"
)

func init() {
	// Loading all built-in transforms
	err := AddTransforms(
		lowercaseTransform,
		uppercaseTransform,
		trimTransform,
	)

	// This should not happen
	if err != nil {
		panic(err)
	}
}

var lowercaseTransform = &Transform{
	name: "lowercase",
	fn: func(value string) (string, error) {
		return strings.ToLower(value), nil
	},
}

var uppercaseTransform = &Transform{
	name: "uppercase",
	fn: func(value string) (string, error) {
		return strings.ToUpper(value), nil
	},
}

var trimTransform = &Transform{
	name: "trim",
	fn: func(value string) (string, error) {
		return strings.TrimSpace(value), nil
	},
}

// Flatten returns the transform replacing line feeds, carriage returns,
// and tabs in a field with the escape character followed by the matching
// short code. A field with none of those comes back untouched.
func Flatten(escape rune) TransformI {
	return &Transform{
		name: "flatten",
		fn: func(value string) (string, error) {
			return flatten(value, escape), nil
		},
	}
}

func flatten(field string, escape rune) string {
	var b *strings.Builder
	for i, r := range field {
		switch r {
		case '\n', '\r', '\t':
			if b == nil {
				b = &strings.Builder{}
				b.Grow(len(field) * 2)
				b.WriteString(field[:i])
			}
			b.WriteRune(escape)
			switch r {
			case '\n':
				b.WriteByte('n')
			case '\r':
				b.WriteByte('r')
			case '\t':
				b.WriteByte('t')
			}
		default:
			if b != nil {
				b.WriteRune(r)
			}
		}
	}
	if b == nil {
		return field
	}
	return b.String()
}
