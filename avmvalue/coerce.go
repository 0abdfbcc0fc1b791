package avmvalue

import (
	"math"
	"strconv"
)

// ToBoolean implements the ECMA-262 ToBoolean abstract operation as
// AVM2 applies it: undefined, null, false, 0, NaN and "" are falsy;
// every object reference is truthy.
func ToBoolean(v Value) bool {
	switch v.Kind() {
	case KindUndefined, KindNull:
		return false
	case KindBoolean:
		return v.Bool()
	case KindInt32:
		return v.Int32Raw() != 0
	case KindUint32:
		return v.Uint32Raw() != 0
	case KindDouble:
		d := v.DoubleRaw()
		return d != 0 && !math.IsNaN(d)
	case KindString:
		return v.StringRaw() != ""
	case KindNamespace:
		return true
	case KindObject:
		return true
	default:
		return false
	}
}

// ToNumber implements ToNumber: undefined converts to NaN, null to 0,
// booleans to 0/1, strings by numeric parse (NaN on failure, consistent
// with ECMAScript's Number(string) except for the empty string which
// yields 0), and objects are not supported here (callers resolve
// valueOf/toString through the resolver before reaching this far).
func ToNumber(v Value) float64 {
	switch v.Kind() {
	case KindUndefined:
		return math.NaN()
	case KindNull:
		return 0
	case KindBoolean:
		if v.Bool() {
			return 1
		}
		return 0
	case KindInt32:
		return float64(v.Int32Raw())
	case KindUint32:
		return float64(v.Uint32Raw())
	case KindDouble:
		return v.DoubleRaw()
	case KindString:
		s := v.StringRaw()
		if s == "" {
			return 0
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return math.NaN()
		}
		return f
	default:
		return math.NaN()
	}
}

// ToInt32 implements ToInt32: ToNumber followed by modulo-2^32
// reduction into the signed range, with NaN/Infinity mapping to 0.
func ToInt32(v Value) int32 {
	n := ToNumber(v)
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return 0
	}
	u := uint32(int64(math.Trunc(n)))
	return int32(u)
}

// ToUint32 implements ToUint32: identical bit pattern to ToInt32, read
// as unsigned.
func ToUint32(v Value) uint32 {
	n := ToNumber(v)
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return 0
	}
	return uint32(int64(math.Trunc(n)))
}

// ToStringValue implements ToString for the primitive kinds the
// instruction set converts directly; object-to-string (toString/
// valueOf dispatch) is the resolver's responsibility.
func ToStringValue(v Value) string {
	switch v.Kind() {
	case KindUndefined:
		return "undefined"
	case KindNull:
		return "null"
	case KindBoolean:
		if v.Bool() {
			return "true"
		}
		return "false"
	case KindInt32:
		return strconv.FormatInt(int64(v.Int32Raw()), 10)
	case KindUint32:
		return strconv.FormatUint(uint64(v.Uint32Raw()), 10)
	case KindDouble:
		d := v.DoubleRaw()
		switch {
		case math.IsNaN(d):
			return "NaN"
		case math.IsInf(d, 1):
			return "Infinity"
		case math.IsInf(d, -1):
			return "-Infinity"
		default:
			return strconv.FormatFloat(d, 'g', -1, 64)
		}
	case KindString:
		return v.StringRaw()
	case KindNamespace:
		return v.StringRaw()
	case KindObject:
		if o := v.Object(); o != nil {
			return o.String()
		}
		return "null"
	default:
		return "undefined"
	}
}
