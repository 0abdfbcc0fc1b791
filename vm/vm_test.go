package vm

import (
	"testing"

	"github.com/avm2run/avm2/abc"
	"github.com/avm2run/avm2/abcbyte"
	"github.com/avm2run/avm2/avmvalue"
)

// fileWithMethod builds a minimal single-method abc.File: one method
// with localCount registers, body code, and no traits, suitable for
// driving CallBytecode directly in tests without going through the
// binary decoder.
func fileWithMethod(paramCount uint32, localCount uint32, code []byte) *abc.File {
	f := &abc.File{
		ConstantPool: &abc.ConstantPool{
			Strings: []string{abc.AnyName},
		},
		Methods: []abc.Method{
			{ParamCount: paramCount},
		},
		MethodBodies: []abc.MethodBody{
			{MethodIndex: 0, LocalCount: localCount, Code: code},
		},
	}
	return f
}

func newTestVM(f *abc.File) *VM {
	prog, err := Link(f)
	if err != nil {
		panic(err)
	}
	return NewVM(prog)
}

func TestCallBytecodeAddsTwoBytes(t *testing.T) {
	code := []byte{
		byte(OpPushByte), 2,
		byte(OpPushByte), 3,
		byte(OpAdd),
		byte(OpReturnValue),
	}
	m := newTestVM(fileWithMethod(0, 1, code))
	result, err := m.CallBytecode(0, avmvalue.Undefined, nil, nil)
	if err != nil {
		t.Fatalf("CallBytecode: %v", err)
	}
	if got := avmvalue.ToNumber(result); got != 5 {
		t.Fatalf("expected 5, got %v", got)
	}
}

func TestCallBytecodeRegisterFillFromArgs(t *testing.T) {
	// getlocal1; getlocal2; add; returnvalue -- params land in registers 1, 2.
	code := []byte{
		byte(OpGetLocal1), byte(OpGetLocal2), byte(OpAdd), byte(OpReturnValue),
	}
	m := newTestVM(fileWithMethod(2, 3, code))
	result, err := m.CallBytecode(0, avmvalue.Undefined, []avmvalue.Value{avmvalue.Int32(10), avmvalue.Int32(32)}, nil)
	if err != nil {
		t.Fatalf("CallBytecode: %v", err)
	}
	if got := avmvalue.ToNumber(result); got != 42 {
		t.Fatalf("expected 42, got %v", got)
	}
}

func TestCallBytecodeOptionalParameterDefault(t *testing.T) {
	code := []byte{byte(OpGetLocal1), byte(OpReturnValue)}
	f := fileWithMethod(1, 2, code)
	f.Methods[0].Options = []abc.OptionDetail{{ValueIndex: 1, Kind: abc.ConstantInt}}
	f.ConstantPool.Integers = []int32{0, 7}
	m := newTestVM(f)

	result, err := m.CallBytecode(0, avmvalue.Undefined, nil, nil)
	if err != nil {
		t.Fatalf("CallBytecode: %v", err)
	}
	if got := avmvalue.ToNumber(result); got != 7 {
		t.Fatalf("expected default 7, got %v", got)
	}
}

func TestCallBytecodeNeedRestCollectsTrailingArgs(t *testing.T) {
	code := []byte{byte(OpGetLocal1), byte(OpReturnValue)}
	f := fileWithMethod(0, 2, code)
	f.Methods[0].Flags = abc.MethodNeedRest
	m := newTestVM(f)

	result, err := m.CallBytecode(0, avmvalue.Undefined, []avmvalue.Value{avmvalue.Int32(1), avmvalue.Int32(2)}, nil)
	if err != nil {
		t.Fatalf("CallBytecode: %v", err)
	}
	arr := result.Object()
	if arr == nil || len(arr.Elements) != 2 {
		t.Fatalf("expected rest array of 2 elements, got %v", result)
	}
}

func TestConditionalBranchTaken(t *testing.T) {
	// pushbyte 1; iftrue +2 (skip pushbyte 9); pushbyte 9; pushbyte 2; returnvalue
	code := []byte{
		byte(OpPushByte), 1,
		byte(OpIfTrue), 0x02, 0x00, 0x00, // skip over "pushbyte 9" (2 bytes) straight to "pushbyte 2"
		byte(OpPushByte), 9,
		byte(OpPushByte), 2,
		byte(OpReturnValue),
	}
	m := newTestVM(fileWithMethod(0, 1, code))
	result, err := m.CallBytecode(0, avmvalue.Undefined, nil, nil)
	if err != nil {
		t.Fatalf("CallBytecode: %v", err)
	}
	if got := avmvalue.ToNumber(result); got != 2 {
		t.Fatalf("expected branch taken to skip pushbyte 9, got %v", got)
	}
}

func TestCallHostOrBytecodeInvokesHostFunction(t *testing.T) {
	result, err := NewVM(mustLink(fileWithMethod(0, 1, nil))).CallHostOrBytecode(
		avmvalue.NewHostFunction("test", func(avmvalue.Value, []avmvalue.Value) (avmvalue.Value, error) {
			o := avmvalue.NewObject("Object")
			o.SetProperty(avmvalue.QName{Name: "x"}, avmvalue.Int32(5))
			return avmvalue.FromObject(o), nil
		}), avmvalue.Undefined, nil)
	if err != nil {
		t.Fatalf("CallHostOrBytecode: %v", err)
	}
	if got := result.Object().GetProperty(avmvalue.QName{Name: "x"}); avmvalue.ToNumber(got) != 5 {
		t.Fatalf("expected 5, got %v", got)
	}
}

func mustLink(f *abc.File) *Program {
	p, err := Link(f)
	if err != nil {
		panic(err)
	}
	return p
}

func TestEnumerableKeysOrdersElementsThenSortedProps(t *testing.T) {
	o := avmvalue.NewArray([]avmvalue.Value{avmvalue.Int32(10), avmvalue.Int32(20)})
	o.SetProperty(avmvalue.QName{Name: "b"}, avmvalue.Int32(1))
	o.SetProperty(avmvalue.QName{Name: "a"}, avmvalue.Int32(2))

	keys := enumerableKeys(o)
	if len(keys) != 4 {
		t.Fatalf("expected 4 keys, got %d", len(keys))
	}
	if keys[0].Name != "0" || keys[1].Name != "1" {
		t.Fatalf("expected element indices first, got %v", keys[:2])
	}
	if keys[2].Name != "a" || keys[3].Name != "b" {
		t.Fatalf("expected sorted prop names, got %v", keys[2:])
	}
}

func TestHasNext2WalksPrototypeChain(t *testing.T) {
	base := avmvalue.NewObject("Base")
	base.SetProperty(avmvalue.QName{Name: "baseProp"}, avmvalue.Int32(1))
	derived := avmvalue.NewObject("Derived")
	derived.Prototype = base

	env := NewEnvironment(2)
	env.SetLocal(0, avmvalue.FromObject(derived))
	env.SetLocal(1, avmvalue.Uint32(0))

	// hasnext2 operands: object register 0, index register 1.
	f := &frame{env: env, code: abcbyte.NewReader([]byte{0, 1})}
	if err := f.execHasNext2(); err != nil {
		t.Fatalf("execHasNext2: %v", err)
	}
	if !avmvalue.ToBoolean(env.Pop()) {
		t.Fatalf("expected more elements (derived has no own props but base does)")
	}
}

func TestNewClassCachesObject(t *testing.T) {
	f := &abc.File{
		ConstantPool: &abc.ConstantPool{Strings: []string{abc.AnyName, "MyClass"}},
		Methods:      []abc.Method{{}, {}},
		Instances:    []abc.Instance{{NameIndex: 1, InitIndex: 0}},
		Classes:      []abc.Class{{InitIndex: 1}},
		MethodBodies: []abc.MethodBody{
			{MethodIndex: 0, Code: []byte{byte(OpReturnVoid)}},
			{MethodIndex: 1, Code: []byte{byte(OpReturnVoid)}},
		},
	}
	m := newTestVM(f)
	first, err := m.newClass(0, avmvalue.Null)
	if err != nil {
		t.Fatalf("newClass: %v", err)
	}
	second, err := m.newClass(0, avmvalue.Null)
	if err != nil {
		t.Fatalf("newClass: %v", err)
	}
	if first != second {
		t.Fatalf("expected cached class object to be returned on second call")
	}
	if first.ClassName != "MyClass" {
		t.Fatalf("expected class name MyClass, got %q", first.ClassName)
	}
}
