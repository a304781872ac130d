// Package models holds the document value the editor works on.
//
// JSONValue is a closed variant over the six JSON shapes. Values are immutable:
// every With*/Without*/Append method returns a new value that shares the
// untouched children of the receiver, so an edit deep in a document only
// rebuilds the path from the root to the edited node.
package models

import (
	"strconv"
)

// Kind identifies which JSON shape a JSONValue holds.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
)

// String returns the JSON name of the kind.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "boolean"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return "unknown"
	}
}

// Field is one member of a JSON object. Object members keep insertion order.
type Field struct {
	Key   string
	Value JSONValue
}

// JSONValue is any JSON value. The zero value is null.
type JSONValue struct {
	kind   Kind
	flag   bool
	text   string // string contents, or the number literal as written in the source
	items  []JSONValue
	fields []Field
}

// Null returns the JSON null value.
func Null() JSONValue { return JSONValue{} }

// Bool wraps a boolean.
func Bool(b bool) JSONValue { return JSONValue{kind: KindBool, flag: b} }

// Number wraps a number literal. The literal is kept verbatim so that
// re-encoding a document reproduces its numbers exactly.
func Number(literal string) JSONValue { return JSONValue{kind: KindNumber, text: literal} }

// Int wraps an integer.
func Int(n int64) JSONValue { return Number(strconv.FormatInt(n, 10)) }

// String wraps a string.
func String(s string) JSONValue { return JSONValue{kind: KindString, text: s} }

// Array builds an array from the given items.
func Array(items ...JSONValue) JSONValue {
	out := make([]JSONValue, len(items))
	copy(out, items)
	return JSONValue{kind: KindArray, items: out}
}

// Object builds an object from the given fields. A repeated key replaces the
// earlier value in its original position.
func Object(fields ...Field) JSONValue {
	out := make([]Field, 0, len(fields))
	for _, f := range fields {
		if i := indexOfKey(out, f.Key); i >= 0 {
			out[i].Value = f.Value
			continue
		}
		out = append(out, f)
	}
	return JSONValue{kind: KindObject, fields: out}
}

// Kind reports the shape of the value.
func (v JSONValue) Kind() Kind { return v.kind }

// IsNull reports whether the value is null.
func (v JSONValue) IsNull() bool { return v.kind == KindNull }

// IsArray reports whether the value is an array.
func (v JSONValue) IsArray() bool { return v.kind == KindArray }

// IsObject reports whether the value is an object.
func (v JSONValue) IsObject() bool { return v.kind == KindObject }

// IsScalar reports whether the value is neither an array nor an object.
func (v JSONValue) IsScalar() bool { return v.kind != KindArray && v.kind != KindObject }

// BoolValue returns the boolean held by a bool value.
func (v JSONValue) BoolValue() bool { return v.flag }

// NumberLiteral returns the source literal of a number value.
func (v JSONValue) NumberLiteral() string {
	if v.kind != KindNumber {
		return ""
	}
	return v.text
}

// StringValue returns the contents of a string value and "" for anything else.
func (v JSONValue) StringValue() string {
	if v.kind != KindString {
		return ""
	}
	return v.text
}

// Text is the display form used by the scalar editor: strings verbatim,
// numbers by literal, booleans and null by their JSON spelling. Containers
// render as compact JSON.
func (v JSONValue) Text() string {
	switch v.kind {
	case KindNull:
		return "null"
	case KindBool:
		return strconv.FormatBool(v.flag)
	case KindNumber, KindString:
		return v.text
	default:
		return v.String()
	}
}

// String returns the compact JSON encoding of the value.
func (v JSONValue) String() string {
	b, err := v.MarshalJSON()
	if err != nil {
		return "<invalid>"
	}
	return string(b)
}

// Truthy follows the loose truthiness used to spot tagged objects: false,
// null, 0 and "" are falsy, everything else (containers included) is truthy.
func (v JSONValue) Truthy() bool {
	switch v.kind {
	case KindNull:
		return false
	case KindBool:
		return v.flag
	case KindString:
		return v.text != ""
	case KindNumber:
		f, err := strconv.ParseFloat(v.text, 64)
		return err != nil || f != 0
	default:
		return true
	}
}

// Len returns the number of array items or object fields, 0 for scalars.
func (v JSONValue) Len() int {
	switch v.kind {
	case KindArray:
		return len(v.items)
	case KindObject:
		return len(v.fields)
	default:
		return 0
	}
}

// Items returns a copy of the array items.
func (v JSONValue) Items() []JSONValue {
	if v.kind != KindArray {
		return nil
	}
	out := make([]JSONValue, len(v.items))
	copy(out, v.items)
	return out
}

// Index returns the array item at i.
func (v JSONValue) Index(i int) (JSONValue, bool) {
	if v.kind != KindArray || i < 0 || i >= len(v.items) {
		return JSONValue{}, false
	}
	return v.items[i], true
}

// Fields returns a copy of the object members in order.
func (v JSONValue) Fields() []Field {
	if v.kind != KindObject {
		return nil
	}
	out := make([]Field, len(v.fields))
	copy(out, v.fields)
	return out
}

// Keys returns the object keys in order.
func (v JSONValue) Keys() []string {
	if v.kind != KindObject {
		return nil
	}
	keys := make([]string, len(v.fields))
	for i, f := range v.fields {
		keys[i] = f.Key
	}
	return keys
}

// Get returns the member stored under key.
func (v JSONValue) Get(key string) (JSONValue, bool) {
	if v.kind != KindObject {
		return JSONValue{}, false
	}
	if i := indexOfKey(v.fields, key); i >= 0 {
		return v.fields[i].Value, true
	}
	return JSONValue{}, false
}

// Has reports whether the object has a member named key.
func (v JSONValue) Has(key string) bool {
	_, ok := v.Get(key)
	return ok
}

// WithField returns a copy of the object with key set to val. An existing key
// keeps its position; a new key is appended. Calling it on a non-object
// starts from an empty object.
func (v JSONValue) WithField(key string, val JSONValue) JSONValue {
	var fields []Field
	if v.kind == KindObject {
		fields = v.fields
	}
	out := make([]Field, len(fields), len(fields)+1)
	copy(out, fields)
	if i := indexOfKey(out, key); i >= 0 {
		out[i].Value = val
	} else {
		out = append(out, Field{Key: key, Value: val})
	}
	return JSONValue{kind: KindObject, fields: out}
}

// WithoutField returns a copy of the object without key. Remaining keys keep
// their order.
func (v JSONValue) WithoutField(key string) JSONValue {
	if v.kind != KindObject {
		return v
	}
	i := indexOfKey(v.fields, key)
	if i < 0 {
		return v
	}
	out := make([]Field, 0, len(v.fields)-1)
	out = append(out, v.fields[:i]...)
	out = append(out, v.fields[i+1:]...)
	return JSONValue{kind: KindObject, fields: out}
}

// WithIndex returns a copy of the array with item i replaced. It panics when
// the receiver is not an array or i is out of range.
func (v JSONValue) WithIndex(i int, val JSONValue) JSONValue {
	v.mustIndex(i)
	out := make([]JSONValue, len(v.items))
	copy(out, v.items)
	out[i] = val
	return JSONValue{kind: KindArray, items: out}
}

// WithoutIndex returns a copy of the array with item i removed and the
// following items shifted down. It panics when i is out of range.
func (v JSONValue) WithoutIndex(i int) JSONValue {
	v.mustIndex(i)
	out := make([]JSONValue, 0, len(v.items)-1)
	out = append(out, v.items[:i]...)
	out = append(out, v.items[i+1:]...)
	return JSONValue{kind: KindArray, items: out}
}

// Append returns a copy of the array with vals added at the end. Calling it
// on a non-array starts from an empty array.
func (v JSONValue) Append(vals ...JSONValue) JSONValue {
	var items []JSONValue
	if v.kind == KindArray {
		items = v.items
	}
	out := make([]JSONValue, len(items), len(items)+len(vals))
	copy(out, items)
	out = append(out, vals...)
	return JSONValue{kind: KindArray, items: out}
}

// Equal reports deep equality. Object comparison is order sensitive because
// field order is part of the document.
func (v JSONValue) Equal(o JSONValue) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindNull:
		return true
	case KindBool:
		return v.flag == o.flag
	case KindNumber, KindString:
		return v.text == o.text
	case KindArray:
		if len(v.items) != len(o.items) {
			return false
		}
		for i := range v.items {
			if !v.items[i].Equal(o.items[i]) {
				return false
			}
		}
		return true
	case KindObject:
		if len(v.fields) != len(o.fields) {
			return false
		}
		for i := range v.fields {
			if v.fields[i].Key != o.fields[i].Key || !v.fields[i].Value.Equal(o.fields[i].Value) {
				return false
			}
		}
		return true
	}
	return false
}

func (v JSONValue) mustIndex(i int) {
	if v.kind != KindArray {
		panic("models: index on " + v.kind.String())
	}
	if i < 0 || i >= len(v.items) {
		panic("models: index " + strconv.Itoa(i) + " out of range [0," + strconv.Itoa(len(v.items)) + ")")
	}
}

func indexOfKey(fields []Field, key string) int {
	for i := range fields {
		if fields[i].Key == key {
			return i
		}
	}
	return -1
}
