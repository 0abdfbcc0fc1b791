package vm

import "github.com/avm2run/avm2/avmvalue"

// execLocalIncDec implements inclocal/declocal and their integer-suffixed
// variants: read-modify-write a register in place without touching the
// operand stack.
func (f *frame) execLocalIncDec(op Opcode) error {
	idx, err := f.code.ReadVarUint32()
	if err != nil {
		return err
	}
	cur := f.env.GetLocal(idx)
	switch op {
	case OpIncLocal:
		f.env.SetLocal(idx, avmvalue.Double(avmvalue.ToNumber(cur)+1))
	case OpDecLocal:
		f.env.SetLocal(idx, avmvalue.Double(avmvalue.ToNumber(cur)-1))
	case OpIncLocalI:
		f.env.SetLocal(idx, avmvalue.Int32(avmvalue.ToInt32(cur)+1))
	case OpDecLocalI:
		f.env.SetLocal(idx, avmvalue.Int32(avmvalue.ToInt32(cur)-1))
	}
	return nil
}
