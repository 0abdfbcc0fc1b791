package vm

import "github.com/avm2run/avm2/avmvalue"

// outcomeKind tags the non-local control transfer an instruction
// handler requests, replacing the exception-based control flow of a
// tree-walking original with an explicit return value an interpreter
// loop switches on.
type outcomeKind uint8

const (
	outcomeContinue outcomeKind = iota
	outcomeJump
	outcomeReturn
	outcomeThrow
)

// InstructionOutcome is returned by every opcode handler to tell Step
// what should happen next: fall through to the next instruction, jump
// to an absolute code offset, return from the method, or propagate a
// thrown value for exception-table matching.
type InstructionOutcome struct {
	kind   outcomeKind
	offset int
	value  avmvalue.Value
}

// Continue is the outcome of an ordinary instruction: advance to the
// next instruction in sequence.
var Continue = InstructionOutcome{kind: outcomeContinue}

// Jump requests an absolute repositioning of the code cursor, used by
// jump, the conditional branches, and lookupswitch.
func Jump(absoluteOffset int) InstructionOutcome {
	return InstructionOutcome{kind: outcomeJump, offset: absoluteOffset}
}

// Return requests termination of the current method with value as its
// result. returnvoid passes avmvalue.Undefined.
func Return(value avmvalue.Value) InstructionOutcome {
	return InstructionOutcome{kind: outcomeReturn, value: value}
}

// ThrowOutcome requests that value be raised as an exception, to be
// matched against the method body's exception table.
func ThrowOutcome(value avmvalue.Value) InstructionOutcome {
	return InstructionOutcome{kind: outcomeThrow, value: value}
}
