package vm

import (
	"testing"

	"github.com/avm2run/avm2/abc"
	"github.com/avm2run/avm2/avmvalue"
)

func TestSessionStepsToCompletion(t *testing.T) {
	code := []byte{
		byte(OpPushByte), 2,
		byte(OpPushByte), 3,
		byte(OpAdd),
		byte(OpReturnValue),
	}
	m := newTestVM(fileWithMethod(0, 1, code))
	session, err := NewSession(m, 0, avmvalue.Undefined, nil, nil)
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}

	steps := 0
	for !session.Done() {
		if _, err := session.Step(); err != nil {
			t.Fatalf("Step: %v", err)
		}
		steps++
		if steps > 10 {
			t.Fatalf("session never finished")
		}
	}

	result, err := session.Result()
	if err != nil {
		t.Fatalf("Result: %v", err)
	}
	if got := avmvalue.ToNumber(result); got != 5 {
		t.Fatalf("expected 5, got %v", got)
	}
	if steps != 4 {
		t.Fatalf("expected 4 fetched instructions, got %d", steps)
	}
}

func TestSessionStepMatchesRunToCompletion(t *testing.T) {
	code := []byte{
		byte(OpPushByte), 10,
		byte(OpPushByte), 32,
		byte(OpAdd),
		byte(OpReturnValue),
	}
	f := fileWithMethod(0, 1, code)

	stepped := newTestVM(f)
	session, err := NewSession(stepped, 0, avmvalue.Undefined, nil, nil)
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	for !session.Done() {
		if _, err := session.Step(); err != nil {
			t.Fatalf("Step: %v", err)
		}
	}
	steppedResult, err := session.Result()
	if err != nil {
		t.Fatalf("Result: %v", err)
	}

	direct := newTestVM(f)
	directResult, err := direct.CallBytecode(0, avmvalue.Undefined, nil, nil)
	if err != nil {
		t.Fatalf("CallBytecode: %v", err)
	}

	if avmvalue.ToNumber(steppedResult) != avmvalue.ToNumber(directResult) {
		t.Fatalf("stepped result %v differs from run-to-completion result %v", steppedResult, directResult)
	}
}

func TestSessionRunStopsAtBreakpoint(t *testing.T) {
	code := []byte{
		byte(OpPushByte), 1, // offset 0-1
		byte(OpPushByte), 2, // offset 2-3
		byte(OpAdd),         // offset 4
		byte(OpReturnValue), // offset 5
	}
	m := newTestVM(fileWithMethod(0, 1, code))
	session, err := NewSession(m, 0, avmvalue.Undefined, nil, nil)
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}

	if err := session.Run(map[int]bool{4: true}); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if session.Done() {
		t.Fatalf("expected session to pause at breakpoint, not finish")
	}
	if session.Position() != 4 {
		t.Fatalf("expected to stop at offset 4, stopped at %d", session.Position())
	}

	if err := session.Run(nil); err != nil {
		t.Fatalf("Run to completion: %v", err)
	}
	if !session.Done() {
		t.Fatalf("expected session to finish after resuming")
	}
}

func TestNewScriptSessionBindsGlobalTraitsAndRuns(t *testing.T) {
	code := []byte{byte(OpPushByte), 7, byte(OpReturnValue)}
	f := &abc.File{
		ConstantPool: &abc.ConstantPool{Strings: []string{abc.AnyName}},
		Methods:      []abc.Method{{}},
		MethodBodies: []abc.MethodBody{{MethodIndex: 0, LocalCount: 1, Code: code}},
		Scripts:      []abc.Script{{InitIndex: 0}},
	}
	m := newTestVM(f)

	session, err := NewScriptSession(m, 0)
	if err != nil {
		t.Fatalf("NewScriptSession: %v", err)
	}
	if err := session.Run(nil); err != nil {
		t.Fatalf("Run: %v", err)
	}
	result, err := session.Result()
	if err != nil {
		t.Fatalf("Result: %v", err)
	}
	if got := avmvalue.ToNumber(result); got != 7 {
		t.Fatalf("expected 7, got %v", got)
	}
}

func TestNewScriptSessionRejectsOutOfRangeIndex(t *testing.T) {
	m := newTestVM(fileWithMethod(0, 1, []byte{byte(OpReturnVoid)}))
	if _, err := NewScriptSession(m, 3); err == nil {
		t.Fatalf("expected error for out-of-range script index")
	}
}
