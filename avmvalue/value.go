// Package avmvalue implements the AVM2 runtime value and object model:
// a tagged value type uniformly capable of appearing on the operand
// stack, in a register, in a property slot, or as a scope object, plus
// the ECMAScript-derived coercion and equality rules the instruction set
// relies on.
package avmvalue

import "fmt"

// Kind tags the variant a Value currently holds.
type Kind uint8

const (
	KindUndefined Kind = iota
	KindNull
	KindBoolean
	KindInt32
	KindUint32
	KindDouble
	KindString
	KindNamespace
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindUndefined:
		return "undefined"
	case KindNull:
		return "null"
	case KindBoolean:
		return "boolean"
	case KindInt32:
		return "int"
	case KindUint32:
		return "uint"
	case KindDouble:
		return "double"
	case KindString:
		return "string"
	case KindNamespace:
		return "namespace"
	case KindObject:
		return "object"
	default:
		return "unknown"
	}
}

// Value is the tagged variant every AVM2 storage location (operand
// stack slot, register, property, scope entry) holds. Exactly one of
// the typed fields is meaningful, selected by Kind; Undefined is the
// zero value.
type Value struct {
	kind Kind
	b    bool
	i32  int32
	u32  uint32
	f64  float64
	str  string
	obj  *Object
}

// Undefined is the AVM2 "undefined" value.
var Undefined = Value{kind: KindUndefined}

// Null is the AVM2 "null" value.
var Null = Value{kind: KindNull}

// Bool wraps a boolean.
func Bool(b bool) Value { return Value{kind: KindBoolean, b: b} }

// Int32 wraps a signed 32-bit integer.
func Int32(v int32) Value { return Value{kind: KindInt32, i32: v} }

// Uint32 wraps an unsigned 32-bit integer.
func Uint32(v uint32) Value { return Value{kind: KindUint32, u32: v} }

// Double wraps a float64.
func Double(v float64) Value { return Value{kind: KindDouble, f64: v} }

// String wraps a string value.
func String(v string) Value { return Value{kind: KindString, str: v} }

// NamespaceValue wraps a namespace value (a kind-tagged string at the value
// level, stored here by its resolved name).
func NamespaceValue(name string) Value { return Value{kind: KindNamespace, str: name} }

// FromObject wraps an Object reference.
func FromObject(o *Object) Value {
	if o == nil {
		return Null
	}
	return Value{kind: KindObject, obj: o}
}

// Kind returns the variant tag.
func (v Value) Kind() Kind { return v.kind }

// IsUndefined reports whether v is the undefined value.
func (v Value) IsUndefined() bool { return v.kind == KindUndefined }

// IsNull reports whether v is the null value.
func (v Value) IsNull() bool { return v.kind == KindNull }

// IsNullOrUndefined reports whether v is null or undefined.
func (v Value) IsNullOrUndefined() bool { return v.kind == KindNull || v.kind == KindUndefined }

// Bool returns the boolean payload; valid only when Kind() == KindBoolean.
func (v Value) Bool() bool { return v.b }

// Int32Raw returns the int32 payload; valid only when Kind() == KindInt32.
func (v Value) Int32Raw() int32 { return v.i32 }

// Uint32Raw returns the uint32 payload; valid only when Kind() == KindUint32.
func (v Value) Uint32Raw() uint32 { return v.u32 }

// DoubleRaw returns the float64 payload; valid only when Kind() == KindDouble.
func (v Value) DoubleRaw() float64 { return v.f64 }

// StringRaw returns the string payload; valid for KindString and
// KindNamespace.
func (v Value) StringRaw() string { return v.str }

// Object returns the object payload, or nil if v is not an object.
func (v Value) Object() *Object {
	if v.kind != KindObject {
		return nil
	}
	return v.obj
}

func (v Value) String() string { return fmt.Sprintf("%s(%v)", v.kind, v.debugPayload()) }

func (v Value) debugPayload() any {
	switch v.kind {
	case KindBoolean:
		return v.b
	case KindInt32:
		return v.i32
	case KindUint32:
		return v.u32
	case KindDouble:
		return v.f64
	case KindString, KindNamespace:
		return v.str
	case KindObject:
		return v.obj
	default:
		return nil
	}
}
