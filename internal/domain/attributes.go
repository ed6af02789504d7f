package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
)

type attrKind uint8

const (
	attrAbsent attrKind = iota
	attrText
	attrList
)

// AttributeValue is either a single text value or an ordered list of
// strings (multi-select attributes such as favorite colors). The zero
// value means "unknown". Consumers never see an undefined read; absence
// is a typed case.
type AttributeValue struct {
	kind attrKind
	text string
	list []string
}

// Text wraps a single-valued attribute.
func Text(s string) AttributeValue {
	return AttributeValue{kind: attrText, text: s}
}

// List wraps a multi-valued attribute, preserving order.
func List(items ...string) AttributeValue {
	return AttributeValue{kind: attrList, list: items}
}

// IsZero reports whether the value is absent or carries nothing usable.
func (v AttributeValue) IsZero() bool {
	switch v.kind {
	case attrText:
		return v.text == ""
	case attrList:
		return len(v.list) == 0
	default:
		return true
	}
}

// TextValue returns the single value, if this is a text attribute.
func (v AttributeValue) TextValue() (string, bool) {
	if v.kind != attrText || v.text == "" {
		return "", false
	}
	return v.text, true
}

// ListValue returns the ordered items, if this is a list attribute.
func (v AttributeValue) ListValue() ([]string, bool) {
	if v.kind != attrList || len(v.list) == 0 {
		return nil, false
	}
	out := make([]string, len(v.list))
	copy(out, v.list)
	return out, true
}

// First returns the text value, or the first element of a list value.
// ok is false when the value is absent or empty.
func (v AttributeValue) First() (string, bool) {
	switch v.kind {
	case attrText:
		return v.text, v.text != ""
	case attrList:
		if len(v.list) == 0 || v.list[0] == "" {
			return "", false
		}
		return v.list[0], true
	default:
		return "", false
	}
}

// MarshalJSON emits a bare string for text values and an array for lists,
// matching the profile document shape the stores persist.
func (v AttributeValue) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case attrText:
		return json.Marshal(v.text)
	case attrList:
		return json.Marshal(v.list)
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON accepts a string, a string array, or a bare number
// (numbers are normalized to their decimal string form). Legacy profile
// documents mix all three for the same keys.
func (v *AttributeValue) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, []byte("null")) {
		*v = AttributeValue{}
		return nil
	}
	var s string
	if err := json.Unmarshal(trimmed, &s); err == nil {
		*v = Text(s)
		return nil
	}
	var list []string
	if err := json.Unmarshal(trimmed, &list); err == nil {
		*v = List(list...)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(trimmed, &n); err == nil {
		*v = Text(n.String())
		return nil
	}
	return fmt.Errorf("attribute value %s is neither string, list, nor number", trimmed)
}
