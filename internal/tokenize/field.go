package tokenize

import "fmt"

// Field identifies the structural part of a document a token came from.
type Field uint8

const (
	FieldTitle Field = iota
	FieldHeading
	FieldFilename
	FieldCode
	FieldBody
	// FieldQuery tags tokens produced from search input. It is never stored.
	FieldQuery
)

var fieldNames = [...]string{
	FieldTitle:    "title",
	FieldHeading:  "heading",
	FieldFilename: "filename",
	FieldCode:     "code",
	FieldBody:     "body",
	FieldQuery:    "query",
}

func (f Field) String() string {
	if int(f) < len(fieldNames) {
		return fieldNames[f]
	}
	return fmt.Sprintf("field(%d)", uint8(f))
}

// ParseField returns the field named s.
func ParseField(s string) (Field, error) {
	for i, name := range fieldNames {
		if name == s {
			return Field(i), nil
		}
	}
	return 0, fmt.Errorf("unknown field %q", s)
}

// IndexedFields lists the fields stored in the index, in the order they are
// tokenized for a document.
func IndexedFields() []Field {
	return []Field{FieldTitle, FieldHeading, FieldFilename, FieldCode, FieldBody}
}

// Indexed reports whether f is a stored document field.
func (f Field) Indexed() bool {
	return f < FieldQuery
}
