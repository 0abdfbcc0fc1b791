package vm

import (
	"fmt"

	"github.com/avm2run/avm2/abc"
	"github.com/avm2run/avm2/abcbyte"
	"github.com/avm2run/avm2/avmvalue"
)

// frame bundles the state one call-stack level of `run` needs to pass
// down to individual instruction handlers without threading five
// separate parameters through every call.
type frame struct {
	m        *VM
	code     *abcbyte.Reader
	env      *Environment
	body     *abc.MethodBody
	receiver avmvalue.Value
}

// run drives the fetch-decode-execute loop over one method body's code
// until a returnvalue/returnvoid outcome, an unhandled throw, or a
// RuntimeError terminates it.
func (m *VM) run(code *abcbyte.Reader, env *Environment, body *abc.MethodBody, receiver avmvalue.Value) (avmvalue.Value, error) {
	f := &frame{m: m, code: code, env: env, body: body, receiver: receiver}

	for {
		if m.MaxCycles > 0 {
			m.cycles++
			if m.cycles > m.MaxCycles {
				return avmvalue.Undefined, fmt.Errorf("cycle limit exceeded (%d)", m.MaxCycles)
			}
		}
		if code.AtEnd() {
			return avmvalue.Undefined, fmt.Errorf("fell off the end of method code without returnvoid/returnvalue")
		}

		startPos := code.Position()
		opByte, err := code.ReadU8()
		if err != nil {
			return avmvalue.Undefined, err
		}
		op := Opcode(opByte)

		if m.ExecutionTrace != nil {
			m.ExecutionTrace.recordFetch(startPos, op)
		}
		if m.Statistics != nil {
			m.Statistics.recordInstruction(op)
		}

		outcome, err := f.step(op, startPos)
		if err != nil {
			return avmvalue.Undefined, fmt.Errorf("%s at offset %d: %w", op.Mnemonic(), startPos, err)
		}

		switch outcome.kind {
		case outcomeContinue:
			continue
		case outcomeJump:
			code.SetPosition(outcome.offset)
		case outcomeReturn:
			return outcome.value, nil
		case outcomeThrow:
			handlerTarget, handled := findHandler(body.Exceptions, startPos)
			if !handled {
				return avmvalue.Undefined, fmt.Errorf("unhandled throw: %s", avmvalue.ToStringValue(outcome.value))
			}
			env.Push(outcome.value)
			code.SetPosition(int(handlerTarget))
		}
	}
}

// findHandler returns the first exception-table entry whose [From, To)
// byte range contains position. ExcTypeIndex is not checked, so every
// entry acts as a catch-all (not only those with ExcTypeIndex == 0),
// since this interpreter does not carry the full class hierarchy
// needed to test exception-type assignability.
func findHandler(exceptions []abc.Exception, position int) (target uint32, ok bool) {
	pos := uint32(position)
	for _, exc := range exceptions {
		if pos >= exc.From && pos < exc.To {
			return exc.Target, true
		}
	}
	return 0, false
}

// branchTarget computes the absolute byte offset a relative s24 branch
// operand addresses: relative to the position immediately after the
// fully parsed branch instruction, i.e. the reader's position right
// after the offset field itself has been consumed.
func branchTarget(code *abcbyte.Reader, relative int32) int {
	return code.Position() + int(relative)
}
