package jsonhl

import (
	"fmt"
	"strconv"
)

// Kind identifies the shape of a Value.
type Kind uint8

// Value kinds. The zero Kind is KindNull.
const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
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

// Value is a generic JSON-like tree. The zero Value is null.
//
// Numbers are held in their textual form so that a decoded document is
// written back exactly as it was read.
type Value struct {
	kind    Kind
	b       bool
	text    string
	items   []Value
	members []Member
}

// Member is a single key/value pair of an object.
type Member struct {
	Key   string
	Value Value
}

// Null returns the null value.
func Null() Value { return Value{} }

// Bool returns a boolean value.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// String returns a string value.
func String(s string) Value { return Value{kind: KindString, text: s} }

// Number returns a number from its JSON textual form. The text is validated
// when the value is written.
func Number(text string) Value { return Value{kind: KindNumber, text: text} }

// Int returns an integer number.
func Int(i int64) Value { return Number(strconv.FormatInt(i, 10)) }

// Float returns a floating point number. Non-finite values are kept as-is
// and rejected with ErrInvalidValue when written.
func Float(f float64) Value { return Number(strconv.FormatFloat(f, 'g', -1, 64)) }

// Array returns an array of the given items.
func Array(items ...Value) Value { return Value{kind: KindArray, items: items} }

// Object returns an object with the given members, in order.
func Object(members ...Member) Value { return Value{kind: KindObject, members: members} }

// Field returns an object member.
func Field(key string, v Value) Member { return Member{Key: key, Value: v} }

// Kind returns the shape of v.
func (v Value) Kind() Kind { return v.kind }

// AsBool returns the boolean held by v.
func (v Value) AsBool() bool { return v.b }

// Text returns the string held by a string value or the textual form of a
// number.
func (v Value) Text() string { return v.text }

// Items returns the elements of an array.
func (v Value) Items() []Value { return v.items }

// Members returns the members of an object, in order.
func (v Value) Members() []Member { return v.members }

// Get returns the value of the member named key.
func (v Value) Get(key string) (Value, bool) {
	for _, m := range v.members {
		if m.Key == key {
			return m.Value, true
		}
	}
	return Value{}, false
}

// Write writes v with a depth-first traversal over the event methods. The
// output is identical to the equivalent sequence of manual calls.
func (w *Writer) Write(v Value) error {
	switch v.kind {
	case KindNull:
		return w.Null()
	case KindBool:
		return w.Bool(v.b)
	case KindNumber:
		return w.Number(v.text)
	case KindString:
		return w.String(v.text)
	case KindArray:
		if err := w.BeginArray(); err != nil {
			return err
		}
		for _, item := range v.items {
			if err := w.Write(item); err != nil {
				return err
			}
		}
		return w.EndArray()
	case KindObject:
		if err := w.BeginObject(); err != nil {
			return err
		}
		for _, m := range v.members {
			if err := w.Name(m.Key); err != nil {
				return err
			}
			if err := w.Write(m.Value); err != nil {
				return err
			}
		}
		return w.EndObject()
	default:
		return w.fail(fmt.Errorf("%w: unknown kind %d", ErrInvalidValue, v.kind))
	}
}

// Format writes v to a fresh Writer and returns the resulting document.
func Format(v Value, opts ...Option) (*Document, error) {
	w := NewWriter(opts...)
	if err := w.Write(v); err != nil {
		return nil, err
	}
	return w.Close()
}
