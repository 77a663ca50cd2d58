package model

import (
	"encoding/json"
	"strings"
)

// FieldKind identifies which variant a Field holds.
type FieldKind int

// Field kinds.
const (
	FieldEmpty FieldKind = iota
	FieldBool
	FieldText
)

// Field is a role attribute that the source sheet fills with either a
// boolean or free text. Empty cells are their own kind so rules can tell
// "missing" apart from an explicit false.
type Field struct {
	Kind FieldKind
	Bool bool
	Text string
}

// TextField returns a Field holding s. Blank text yields an empty Field.
func TextField(s string) Field {
	s = strings.TrimSpace(s)
	if s == "" {
		return Field{}
	}
	return Field{Kind: FieldText, Text: s}
}

// BoolField returns a Field holding b.
func BoolField(b bool) Field {
	return Field{Kind: FieldBool, Bool: b}
}

// ParseField coerces a raw cell. The tokens "true" and "false" become
// booleans regardless of case; everything else passes through as text.
func ParseField(raw string) Field {
	if b, ok := ParseBoolToken(raw); ok {
		return BoolField(b)
	}
	return TextField(raw)
}

// ParseBoolToken reports whether raw is a case-insensitive "true" or "false".
func ParseBoolToken(raw string) (value bool, ok bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "true":
		return true, true
	case "false":
		return false, true
	}
	return false, false
}

// IsEmpty reports whether the cell was blank.
func (f Field) IsEmpty() bool { return f.Kind == FieldEmpty }

// IsBool reports whether the cell held a boolean token.
func (f Field) IsBool() bool { return f.Kind == FieldBool }

// Truthy mirrors spreadsheet truthiness: blank is false, booleans are
// themselves, and any non-blank text is true.
func (f Field) Truthy() bool {
	switch f.Kind {
	case FieldBool:
		return f.Bool
	case FieldText:
		return true
	}
	return false
}

// String renders the field the way it appeared in the sheet.
func (f Field) String() string {
	switch f.Kind {
	case FieldBool:
		if f.Bool {
			return "true"
		}
		return "false"
	case FieldText:
		return f.Text
	}
	return ""
}

// MarshalJSON encodes booleans as JSON booleans, text as strings and
// empty fields as null.
func (f Field) MarshalJSON() ([]byte, error) {
	switch f.Kind {
	case FieldBool:
		return json.Marshal(f.Bool)
	case FieldText:
		return json.Marshal(f.Text)
	}
	return []byte("null"), nil
}

// UnmarshalJSON accepts a boolean, a string or null.
func (f *Field) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	switch t := v.(type) {
	case nil:
		*f = Field{}
	case bool:
		*f = BoolField(t)
	case string:
		*f = ParseField(t)
	default:
		*f = TextField(strings.TrimSpace(string(data)))
	}
	return nil
}
