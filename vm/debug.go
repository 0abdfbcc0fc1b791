package vm

import (
	"fmt"

	"github.com/avm2run/avm2/abc"
	"github.com/avm2run/avm2/abcbyte"
	"github.com/avm2run/avm2/avmvalue"
)

// Session drives a single method body one instruction at a time, for
// the debugger and API server: Step executes exactly one opcode and
// reports where execution landed, instead of running to completion the
// way CallBytecode/RunScript do. A call or construct instruction still
// runs the callee to completion within a single Step, since nothing in
// this interpreter threads a call stack back out to the driver.
type Session struct {
	m    *VM
	f    *frame
	done bool
	last avmvalue.Value
	err  error
}

// NewSession prepares method methodIndex for stepped execution with the
// same scope setup CallBytecode uses, filling register 0 with receiver
// and registers 1..param_count with args. Unlike CallBytecode it does
// not apply optional-parameter defaults or bind a rest/arguments array.
func NewSession(m *VM, methodIndex uint32, receiver avmvalue.Value, args []avmvalue.Value, outerScope []avmvalue.Value) (*Session, error) {
	method, err := m.Program.method(methodIndex)
	if err != nil {
		return nil, err
	}
	body, ok := m.Program.BodyForMethod(methodIndex)
	if !ok {
		return nil, fmt.Errorf("method %d has no body", methodIndex)
	}

	env := NewEnvironment(body.LocalCount)
	for _, v := range outerScope {
		env.PushScope(v)
	}
	env.Registers[0] = receiver
	paramCount := int(method.ParamCount)
	for i := 0; i < paramCount && i+1 < len(env.Registers); i++ {
		if i < len(args) {
			env.Registers[i+1] = args[i]
		}
	}

	code := abcbyte.NewReader(body.Code)
	return &Session{m: m, f: &frame{m: m, code: code, env: env, body: body, receiver: receiver}}, nil
}

// NewScriptSession prepares scripts[index]'s initializer for stepped
// execution, installing its exported traits onto the global object
// first, matching RunScript.
func NewScriptSession(m *VM, index int) (*Session, error) {
	if index < 0 || index >= len(m.Program.File.Scripts) {
		return nil, fmt.Errorf("script index %d out of range", index)
	}
	script := m.Program.File.Scripts[index]
	if err := m.bindTraits(m.Global, script.Traits); err != nil {
		return nil, err
	}
	return NewSession(m, script.InitIndex, avmvalue.FromObject(m.Global), nil, nil)
}

// Done reports whether the session's method has returned.
func (s *Session) Done() bool { return s.done }

// Result returns the value last returned by the method, valid once
// Done reports true.
func (s *Session) Result() (avmvalue.Value, error) { return s.last, s.err }

// Position returns the current byte offset into the method body's code.
func (s *Session) Position() int { return s.f.code.Position() }

// Body returns the method body currently executing, for disassembly
// and breakpoint-offset validation.
func (s *Session) Body() *abc.MethodBody { return s.f.body }

// Environment exposes the register file and stacks for inspection.
func (s *Session) Environment() *Environment { return s.f.env }

// Step executes exactly one instruction and returns the opcode that
// ran. Once the session is Done it executes nothing and returns an
// error.
func (s *Session) Step() (Opcode, error) {
	if s.done {
		return 0, fmt.Errorf("session already finished")
	}

	code := s.f.code
	if code.AtEnd() {
		s.done, s.err = true, fmt.Errorf("fell off the end of method code without returnvoid/returnvalue")
		return 0, s.err
	}

	startPos := code.Position()
	opByte, err := code.ReadU8()
	if err != nil {
		s.done, s.err = true, err
		return 0, err
	}
	op := Opcode(opByte)

	if s.m.ExecutionTrace != nil {
		s.m.ExecutionTrace.recordFetch(startPos, op)
	}
	if s.m.Statistics != nil {
		s.m.Statistics.recordInstruction(op)
	}

	outcome, err := s.f.step(op, startPos)
	if err != nil {
		s.done, s.err = true, fmt.Errorf("%s at offset %d: %w", op.Mnemonic(), startPos, err)
		return op, s.err
	}

	switch outcome.kind {
	case outcomeJump:
		code.SetPosition(outcome.offset)
	case outcomeReturn:
		s.done, s.last = true, outcome.value
	case outcomeThrow:
		handlerTarget, handled := findHandler(s.f.body.Exceptions, startPos)
		if !handled {
			s.done, s.err = true, fmt.Errorf("unhandled throw: %s", avmvalue.ToStringValue(outcome.value))
			return op, s.err
		}
		s.f.env.Push(outcome.value)
		code.SetPosition(int(handlerTarget))
	}
	return op, nil
}

// Run steps until Done, honoring breakpoints: a byte offset in
// breakAt halts the run before executing the instruction at that
// offset (unless it's the offset Run started at).
func (s *Session) Run(breakAt map[int]bool) error {
	startPos := s.Position()
	for !s.done {
		if pos := s.Position(); pos != startPos && breakAt[pos] {
			return nil
		}
		if _, err := s.Step(); err != nil {
			return err
		}
	}
	return nil
}
