package vm

import "github.com/avm2run/avm2/avmvalue"

// execConditionalBranch decodes the common iffoo operand schema (a
// single s24 relative offset) and evaluates the opcode-specific
// predicate against one or two popped operands, returning a Jump
// outcome when the branch is taken and Continue otherwise.
func (f *frame) execConditionalBranch(op Opcode) (InstructionOutcome, error) {
	rel, err := f.code.ReadS24()
	if err != nil {
		return Continue, err
	}
	target := branchTarget(f.code, rel)

	var taken bool
	switch op {
	case OpIfTrue:
		taken = oneOperandBranch(f.env, avmvalue.ToBoolean)
	case OpIfFalse:
		taken = oneOperandBranch(f.env, func(v avmvalue.Value) bool { return !avmvalue.ToBoolean(v) })
	case OpIfEq:
		taken = twoOperandBranch(f.env, avmvalue.AbstractEquals)
	case OpIfNE:
		taken = twoOperandBranch(f.env, func(a, b avmvalue.Value) bool { return !avmvalue.AbstractEquals(a, b) })
	case OpIfStrictEq:
		taken = twoOperandBranch(f.env, avmvalue.StrictEquals)
	case OpIfStrictNE:
		taken = twoOperandBranch(f.env, func(a, b avmvalue.Value) bool { return !avmvalue.StrictEquals(a, b) })
	case OpIfLT:
		taken = twoOperandBranch(f.env, avmvalue.LessThan)
	case OpIfLE:
		taken = twoOperandBranch(f.env, avmvalue.LessEquals)
	case OpIfGT:
		taken = twoOperandBranch(f.env, avmvalue.GreaterThan)
	case OpIfGE:
		taken = twoOperandBranch(f.env, avmvalue.GreaterEquals)
	case OpIfNLT:
		taken = twoOperandBranch(f.env, avmvalue.NotLessThan)
	case OpIfNLE:
		taken = twoOperandBranch(f.env, avmvalue.NotLessEquals)
	case OpIfNGT:
		taken = twoOperandBranch(f.env, avmvalue.NotGreaterThan)
	case OpIfNGE:
		taken = twoOperandBranch(f.env, avmvalue.NotGreaterEquals)
	}

	f.m.Statistics.recordBranch(taken)
	if taken {
		return Jump(target), nil
	}
	return Continue, nil
}

// execLookupSwitch decodes a default offset and a case_count+1-sized
// table of case offsets (all relative to the position of the
// instruction's own opcode byte, per the ABC encoding), pops the
// selector, and jumps to the selected case or the default when the
// selector is out of range.
func (f *frame) execLookupSwitch() (InstructionOutcome, error) {
	instructionBase := f.code.Position() - 1 // position of the opcode byte itself
	defaultOffset, err := f.code.ReadS24()
	if err != nil {
		return Continue, err
	}
	caseCount, err := f.code.ReadVarUint32()
	if err != nil {
		return Continue, err
	}
	offsets := make([]int32, caseCount+1)
	for i := range offsets {
		if offsets[i], err = f.code.ReadS24(); err != nil {
			return Continue, err
		}
	}

	selector := avmvalue.ToInt32(f.env.Pop())
	if selector >= 0 && int(selector) < len(offsets) {
		return Jump(instructionBase + int(offsets[selector])), nil
	}
	return Jump(instructionBase + int(defaultOffset)), nil
}
