package model

import "encoding/json"

// Document is the loosely typed JSON value returned by the extraction
// backend as ai_structured_output. The AI is free to return any shape:
// an object, an array, a bare string, a number, a bool, or null. Field
// lookups degrade to "absent" on non-object values so callers never
// have to type-assert the underlying value themselves.
type Document struct {
	value any
}

// NewDocument wraps an already-decoded JSON value.
func NewDocument(v any) Document {
	return Document{value: v}
}

// UnmarshalJSON decodes any JSON value into the document.
func (d *Document) UnmarshalJSON(data []byte) error {
	return json.Unmarshal(data, &d.value)
}

// MarshalJSON re-encodes the wrapped value.
func (d Document) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.value)
}

// Value returns the wrapped JSON value.
func (d Document) Value() any {
	return d.value
}

// IsObject reports whether the document is a JSON object.
func (d Document) IsObject() bool {
	_, ok := d.value.(map[string]any)
	return ok
}

// Field returns the value for key when the document is an object and
// the key is present.
func (d Document) Field(key string) (any, bool) {
	obj, ok := d.value.(map[string]any)
	if !ok {
		return nil, false
	}
	v, ok := obj[key]
	return v, ok
}

// StringField returns the value for key when it is present and is a
// string. The empty string is returned with ok=true; callers decide
// whether blank values count.
func (d Document) StringField(key string) (string, bool) {
	v, ok := d.Field(key)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// Serialize returns the compact JSON encoding of the document.
// ok is false when the value cannot be encoded.
func (d Document) Serialize() (string, bool) {
	data, err := json.Marshal(d.value)
	if err != nil {
		return "", false
	}
	return string(data), true
}
