// Package models holds the in-memory representation of a JSON document.
//
// A Value is one node of a self-contained tree. It is exactly one of six
// kinds; its zero value is the JSON null. Objects keep unique keys and are
// always walked in lexicographic key order, never in insertion order.
package models

import (
	"fmt"
	"sort"

	"github.com/yirassssindaba-coder/asset-inventory/internal/errors"
)

// Kind is an enum for the JSON value kinds.
type Kind uint8

// Kinds a Value can take. The zero value is Null.
const (
	Null Kind = iota
	Bool
	Number
	String
	Array
	Object
)

var kindNames = [...]string{
	Null:   "null",
	Bool:   "boolean",
	Number: "number",
	String: "string",
	Array:  "array",
	Object: "object",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// Value is one node of a JSON tree.
// Depending on its kind only one of the payload fields is meaningful:
//
//	Kind	Field
//	Null	-
//	Bool	b
//	Number	num
//	String	str
//	Array	arr
//	Object	obj
type Value struct {
	kind Kind
	b    bool
	num  float64
	str  string
	arr  []Value
	obj  map[string]Value
}

// NullValue returns the JSON null.
func NullValue() Value { return Value{} }

// BoolValue wraps a boolean.
func BoolValue(b bool) Value { return Value{kind: Bool, b: b} }

// NumberValue wraps a number. Integers and floats are not distinguished.
func NumberValue(f float64) Value { return Value{kind: Number, num: f} }

// StringValue wraps a string.
func StringValue(s string) Value { return Value{kind: String, str: s} }

// ArrayValue builds an array owning a copy of elems.
func ArrayValue(elems ...Value) Value {
	arr := make([]Value, len(elems))
	copy(arr, elems)
	return Value{kind: Array, arr: arr}
}

// ObjectValue builds an object owning a copy of members.
func ObjectValue(members map[string]Value) Value {
	obj := make(map[string]Value, len(members))
	for k, v := range members {
		obj[k] = v
	}
	return Value{kind: Object, obj: obj}
}

// Kind reports the active variant.
func (v Value) Kind() Kind { return v.kind }

func (v Value) IsNull() bool   { return v.kind == Null }
func (v Value) IsBool() bool   { return v.kind == Bool }
func (v Value) IsNumber() bool { return v.kind == Number }
func (v Value) IsString() bool { return v.kind == String }
func (v Value) IsArray() bool  { return v.kind == Array }
func (v Value) IsObject() bool { return v.kind == Object }

func (v Value) mustBe(k Kind) {
	if v.kind != k {
		panic(fmt.Errorf("%w: want %s, got %s", errors.ErrWrongKind, k, v.kind))
	}
}

// AsBool returns the boolean payload. It panics if v is not a Bool.
func (v Value) AsBool() bool {
	v.mustBe(Bool)
	return v.b
}

// AsNumber returns the numeric payload. It panics if v is not a Number.
func (v Value) AsNumber() float64 {
	v.mustBe(Number)
	return v.num
}

// AsString returns the string payload. It panics if v is not a String.
func (v Value) AsString() string {
	v.mustBe(String)
	return v.str
}

// Elems returns the elements of an array. The slice is shared with v and
// must not be modified. It panics if v is not an Array.
func (v Value) Elems() []Value {
	v.mustBe(Array)
	return v.arr
}

// Index returns the i-th array element. Bounds are the caller's concern:
// an index out of range panics like a slice access.
func (v Value) Index(i int) Value {
	v.mustBe(Array)
	return v.arr[i]
}

// Has reports whether v is an object holding key. It never fails.
func (v Value) Has(key string) bool {
	if v.kind != Object {
		return false
	}
	_, ok := v.obj[key]
	return ok
}

// At returns the member stored under key. A missing key, or a receiver
// that is not an object, yields a *KeyNotFoundError.
func (v Value) At(key string) (Value, error) {
	if v.kind == Object {
		if m, ok := v.obj[key]; ok {
			return m, nil
		}
	}
	return Value{}, &KeyNotFoundError{Key: key, Kind: v.kind}
}

// Keys returns the object keys in lexicographic order, or nil for
// non-objects.
func (v Value) Keys() []string {
	if v.kind != Object {
		return nil
	}
	keys := make([]string, 0, len(v.obj))
	for k := range v.obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Len gives the number of elements of an array or members of an object
// and 0 for scalars.
func (v Value) Len() int {
	switch v.kind {
	case Array:
		return len(v.arr)
	case Object:
		return len(v.obj)
	default:
		return 0
	}
}

// Equal compares two trees. Object member order plays no role.
func Equal(a, b Value) bool {
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case Null:
		return true
	case Bool:
		return a.b == b.b
	case Number:
		return a.num == b.num
	case String:
		return a.str == b.str
	case Array:
		if len(a.arr) != len(b.arr) {
			return false
		}
		for i := range a.arr {
			if !Equal(a.arr[i], b.arr[i]) {
				return false
			}
		}
		return true
	case Object:
		if len(a.obj) != len(b.obj) {
			return false
		}
		for k, av := range a.obj {
			bv, ok := b.obj[k]
			if !ok || !Equal(av, bv) {
				return false
			}
		}
		return true
	}
	return false
}

// KeyNotFoundError is returned by At for a key the object does not hold.
type KeyNotFoundError struct {
	Key  string
	Kind Kind
}

func (e *KeyNotFoundError) Error() string {
	if e.Kind != Object {
		return fmt.Sprintf("missing key: %s (value is %s, not object)", e.Key, e.Kind)
	}
	return "missing key: " + e.Key
}

// Unwrap lets errors.Is match errors.ErrKeyNotFound.
func (e *KeyNotFoundError) Unwrap() error { return errors.ErrKeyNotFound }
