package avmvalue

import "math"

// StrictEquals implements the ECMA-262 Strict Equality Comparison
// Algorithm: no coercion between kinds, Int32/Uint32/Double are
// compared numerically, NaN is never strictly equal to anything
// including itself.
func StrictEquals(a, b Value) bool {
	if isNumericKind(a.Kind()) && isNumericKind(b.Kind()) {
		an, bn := numericValue(a), numericValue(b)
		if math.IsNaN(an) || math.IsNaN(bn) {
			return false
		}
		return an == bn
	}
	if a.Kind() != b.Kind() {
		return false
	}
	switch a.Kind() {
	case KindUndefined, KindNull:
		return true
	case KindBoolean:
		return a.Bool() == b.Bool()
	case KindString:
		return a.StringRaw() == b.StringRaw()
	case KindNamespace:
		return a.StringRaw() == b.StringRaw()
	case KindObject:
		return a.Object() == b.Object()
	default:
		return false
	}
}

func isNumericKind(k Kind) bool {
	return k == KindInt32 || k == KindUint32 || k == KindDouble
}

func numericValue(v Value) float64 {
	switch v.Kind() {
	case KindInt32:
		return float64(v.Int32Raw())
	case KindUint32:
		return float64(v.Uint32Raw())
	case KindDouble:
		return v.DoubleRaw()
	default:
		return math.NaN()
	}
}

// AbstractEquals implements the ECMA-262 Abstract Equality Comparison
// Algorithm ("==" / equals): null and undefined compare equal to each
// other and to nothing else; numeric kinds compare by value; strings by
// content; a numeric/string pair converts the string via ToNumber;
// booleans convert to number; objects compare by identity unless
// compared against a primitive, in which case ToString is used as the
// conservative widening (full valueOf dispatch belongs to the
// resolver/host object model, not this package).
func AbstractEquals(a, b Value) bool {
	ak, bk := a.Kind(), b.Kind()

	if ak == bk {
		return StrictEquals(a, b)
	}
	if (ak == KindUndefined || ak == KindNull) && (bk == KindUndefined || bk == KindNull) {
		return true
	}
	if ak == KindUndefined || ak == KindNull || bk == KindUndefined || bk == KindNull {
		return false
	}
	if isNumericKind(ak) && bk == KindString {
		return numericValue(a) == ToNumber(b)
	}
	if ak == KindString && isNumericKind(bk) {
		return ToNumber(a) == numericValue(b)
	}
	if ak == KindBoolean {
		return AbstractEquals(Double(ToNumber(a)), b)
	}
	if bk == KindBoolean {
		return AbstractEquals(a, Double(ToNumber(b)))
	}
	if isNumericKind(ak) && isNumericKind(bk) {
		return numericValue(a) == numericValue(b)
	}
	if ak == KindObject && bk != KindObject {
		return AbstractEquals(String(ToStringValue(a)), b)
	}
	if bk == KindObject && ak != KindObject {
		return AbstractEquals(a, String(ToStringValue(b)))
	}
	return false
}

// CompareResult is the three-valued outcome of the abstract relational
// comparison algorithm (ECMA-262 §11.8.5): LessThan, GreaterOrEqual, or
// Undefined when either operand is NaN.
type CompareResult uint8

const (
	CompareLess CompareResult = iota
	CompareGreaterOrEqual
	CompareUndefined
)

// Compare implements the abstract relational comparison used by
// lessthan/lessequals/greaterthan/greaterequals and their negated
// branch instructions. Strings compare lexicographically by UTF-16
// code unit, which Go's byte-wise string comparison approximates for
// the ASCII range exercised here; everything else compares numerically
// after ToNumber.
func Compare(a, b Value) CompareResult {
	if a.Kind() == KindString && b.Kind() == KindString {
		if a.StringRaw() < b.StringRaw() {
			return CompareLess
		}
		return CompareGreaterOrEqual
	}
	an, bn := ToNumber(a), ToNumber(b)
	if math.IsNaN(an) || math.IsNaN(bn) {
		return CompareUndefined
	}
	if an < bn {
		return CompareLess
	}
	return CompareGreaterOrEqual
}

// The eight branch predicates below each correspond directly to one
// conditional-branch opcode. The four plain forms (LessThan,
// LessEquals, GreaterThan, GreaterEquals) never branch when either
// operand compares undefined (NaN-involving); their negated
// counterparts (NotLessThan, NotLessEquals, NotGreaterThan,
// NotGreaterEquals) are NOT simple boolean negations of them — per the
// abstract relational comparison algorithm, an undefined result makes
// ifnlt/ifnle branch (not-less-than is taken to be true under NaN)
// while ifge/ifgt still do not branch.

// LessThan implements iflt: branch iff a < b is defined and true.
func LessThan(a, b Value) bool {
	return Compare(a, b) == CompareLess
}

// LessEquals implements ifle: branch iff a <= b is defined and true.
func LessEquals(a, b Value) bool {
	return Compare(b, a) == CompareGreaterOrEqual
}

// GreaterThan implements ifgt: branch iff a > b is defined and true.
func GreaterThan(a, b Value) bool {
	return Compare(b, a) == CompareLess
}

// GreaterEquals implements ifge: branch iff a >= b is defined and true.
func GreaterEquals(a, b Value) bool {
	return Compare(a, b) == CompareGreaterOrEqual
}

// NotLessThan implements ifnlt: branch unless a < b is defined and
// true, so an undefined (NaN) comparison DOES branch.
func NotLessThan(a, b Value) bool {
	return Compare(a, b) != CompareLess
}

// NotLessEquals implements ifnle: branch unless a <= b is defined and
// true, so an undefined (NaN) comparison DOES branch.
func NotLessEquals(a, b Value) bool {
	return Compare(b, a) != CompareGreaterOrEqual
}

// NotGreaterThan implements ifngt: branch unless a > b is defined and
// true, so an undefined (NaN) comparison DOES branch.
func NotGreaterThan(a, b Value) bool {
	return Compare(b, a) != CompareLess
}

// NotGreaterEquals implements ifnge: branch unless a >= b is defined
// and true, so an undefined (NaN) comparison DOES branch.
func NotGreaterEquals(a, b Value) bool {
	return Compare(a, b) != CompareGreaterOrEqual
}
