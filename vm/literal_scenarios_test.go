package vm

import (
	"testing"

	"github.com/avm2run/avm2/abc"
	"github.com/avm2run/avm2/avmvalue"
)

// These cases reproduce, byte for byte, the canonical bytecode snippets
// used to describe add/add_i/branch/stack/divide/property-access
// semantics: literal opcode sequences rather than whatever happens to
// exercise the same opcode.

func TestLiteralAddBytesToSeven(t *testing.T) {
	code := []byte{
		byte(OpPushByte), 3,
		byte(OpPushByte), 4,
		byte(OpAdd),
		byte(OpReturnValue),
	}
	m := newTestVM(fileWithMethod(0, 1, code))
	result, err := m.CallBytecode(0, avmvalue.Undefined, nil, nil)
	if err != nil {
		t.Fatalf("CallBytecode: %v", err)
	}
	if got := avmvalue.ToNumber(result); got != 7 {
		t.Fatalf("expected 7, got %v", got)
	}
}

func TestLiteralAddIAddsAsInt32(t *testing.T) {
	// pushdouble(2.5); pushdouble(3.7); add_i; returnvalue -- add_i
	// truncates each operand to int32 before adding, so 2+3=5, not 6.2.
	f := fileWithMethod(0, 1, []byte{
		byte(OpPushDouble), 1,
		byte(OpPushDouble), 2,
		byte(OpAddI),
		byte(OpReturnValue),
	})
	f.ConstantPool.Doubles = []float64{0, 2.5, 3.7}
	m := newTestVM(f)

	result, err := m.CallBytecode(0, avmvalue.Undefined, nil, nil)
	if err != nil {
		t.Fatalf("CallBytecode: %v", err)
	}
	if got := avmvalue.ToInt32(result); got != 5 {
		t.Fatalf("expected 5, got %v", got)
	}
}

func TestLiteralIfLTBranchTaken(t *testing.T) {
	// pushbyte 1; pushbyte 2; iflt +3 (skip "pushbyte 10; returnvalue");
	// pushbyte 20; returnvalue -- 1 < 2 so the branch is taken.
	code := []byte{
		byte(OpPushByte), 1,
		byte(OpPushByte), 2,
		byte(OpIfLT), 0x03, 0x00, 0x00,
		byte(OpPushByte), 10,
		byte(OpReturnValue),
		byte(OpPushByte), 20,
		byte(OpReturnValue),
	}
	m := newTestVM(fileWithMethod(0, 1, code))
	result, err := m.CallBytecode(0, avmvalue.Undefined, nil, nil)
	if err != nil {
		t.Fatalf("CallBytecode: %v", err)
	}
	if got := avmvalue.ToNumber(result); got != 20 {
		t.Fatalf("expected branch taken to land on pushbyte 20, got %v", got)
	}
}

func TestLiteralDupPopPopLeavesFirstValue(t *testing.T) {
	// pushbyte 1; pushbyte 2; dup; pop; pop; returnvalue -- dup/pop
	// cancel out the top, the second pop discards pushbyte 2, leaving 1.
	code := []byte{
		byte(OpPushByte), 1,
		byte(OpPushByte), 2,
		byte(OpDup),
		byte(OpPop),
		byte(OpPop),
		byte(OpReturnValue),
	}
	m := newTestVM(fileWithMethod(0, 1, code))
	result, err := m.CallBytecode(0, avmvalue.Undefined, nil, nil)
	if err != nil {
		t.Fatalf("CallBytecode: %v", err)
	}
	if got := avmvalue.ToNumber(result); got != 1 {
		t.Fatalf("expected 1, got %v", got)
	}
}

func TestLiteralDivideProducesFraction(t *testing.T) {
	f := fileWithMethod(0, 1, []byte{
		byte(OpPushDouble), 1,
		byte(OpPushDouble), 2,
		byte(OpDivide),
		byte(OpReturnValue),
	})
	f.ConstantPool.Doubles = []float64{0, 10.0, 4.0}
	m := newTestVM(f)

	result, err := m.CallBytecode(0, avmvalue.Undefined, nil, nil)
	if err != nil {
		t.Fatalf("CallBytecode: %v", err)
	}
	if got := avmvalue.ToNumber(result); got != 2.5 {
		t.Fatalf("expected 2.5, got %v", got)
	}
}

func TestLiteralInitPropertyThenGetPropertyRoundTrips(t *testing.T) {
	// getlocal0; pushbyte 42; initproperty "::x"; getlocal0;
	// getproperty "::x"; returnvalue -- initproperty writes the dynamic
	// property on `this`, getproperty reads it back through the same
	// runtime-resolved QName. Exercises the pop order of both: the
	// value is popped before the identifiers, and the identifiers
	// before the object.
	qname := abc.Multiname{Kind: abc.MultinameKindQName, NamespaceIndex: 1, NameIndex: 2}
	f := &abc.File{
		ConstantPool: &abc.ConstantPool{
			Strings:    []string{abc.AnyName, "", "x"},
			Namespaces: []abc.Namespace{{}, {Kind: abc.NamespaceKindPackage, NameIndex: 1}},
			Multinames: []abc.Multiname{{}, qname},
		},
		Methods: []abc.Method{{}},
		MethodBodies: []abc.MethodBody{{
			MethodIndex: 0,
			LocalCount:  1,
			Code: []byte{
				byte(OpGetLocal0),
				byte(OpPushByte), 42,
				byte(OpInitProperty), 1,
				byte(OpGetLocal0),
				byte(OpGetProperty), 1,
				byte(OpReturnValue),
			},
		}},
	}
	m := newTestVM(f)
	receiver := avmvalue.FromObject(avmvalue.NewObject("Object"))

	result, err := m.CallBytecode(0, receiver, nil, nil)
	if err != nil {
		t.Fatalf("CallBytecode: %v", err)
	}
	if got := avmvalue.ToNumber(result); got != 42 {
		t.Fatalf("expected 42, got %v", got)
	}
}
