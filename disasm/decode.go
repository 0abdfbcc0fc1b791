// Package disasm renders an ABC method body's bytecode as a static,
// human-readable instruction listing, independent of actually
// executing it: each instruction's mnemonic plus its decoded operand
// values, the way objdump or javap render a compiled method without
// running it.
package disasm

import (
	"fmt"

	"github.com/avm2run/avm2/abc"
	"github.com/avm2run/avm2/abcbyte"
	"github.com/avm2run/avm2/vm"
)

// Instruction is one decoded, non-executed instruction: its offset,
// opcode, and operand values in declaration order.
type Instruction struct {
	Offset   int
	Length   int
	Opcode   vm.Opcode
	Mnemonic string
	Operands []int64
}

// operandShapes lists how many variable-length or fixed-width operand
// fields an opcode carries, so Listing can skip them without
// interpreting their meaning (no constant-pool lookups, no stack
// effects) the way executing the opcode would.
type operandKind int

const (
	opU8 operandKind = iota
	opU30
	opS24
	opU8U30 // debug: u8 then u30 then u8 then u30
)

var operandShapes = map[vm.Opcode][]operandKind{
	vm.OpPushByte:        {opU8},
	vm.OpPushShort:       {opU30},
	vm.OpPushInt:         {opU30},
	vm.OpPushUInt:        {opU30},
	vm.OpPushDouble:      {opU30},
	vm.OpPushString:      {opU30},
	vm.OpPushNamespace:   {opU30},
	vm.OpKill:            {opU30},
	vm.OpGetLocal:        {opU30},
	vm.OpSetLocal:        {opU30},
	vm.OpGetScopeObject:  {opU30},
	vm.OpNewCatch:        {opU30},
	vm.OpDXNS:            {opU30},
	vm.OpGetSlot:         {opU30},
	vm.OpSetSlot:         {opU30},
	vm.OpGetGlobalSlot:   {opU30},
	vm.OpSetGlobalSlot:   {opU30},
	vm.OpCoerce:          {opU30},
	vm.OpAsType:          {opU30},
	vm.OpIsType:          {opU30},
	vm.OpIncLocal:        {opU30},
	vm.OpDecLocal:        {opU30},
	vm.OpIncLocalI:       {opU30},
	vm.OpDecLocalI:       {opU30},
	vm.OpDebugLine:       {opU30},
	vm.OpDebugFile:       {opU30},
	vm.OpNewObject:       {opU30},
	vm.OpNewArray:        {opU30},
	vm.OpNewFunction:     {opU30},
	vm.OpNewClass:        {opU30},
	vm.OpCallMethod:      {opU30, opU30},
	vm.OpCallStatic:      {opU30, opU30},
	vm.OpCallSuper:       {opU30, opU30},
	vm.OpCallSuperVoid:   {opU30, opU30},
	vm.OpCallProperty:    {opU30, opU30},
	vm.OpCallPropVoid:    {opU30, opU30},
	vm.OpConstructProp:   {opU30, opU30},
	vm.OpCall:            {opU30},
	vm.OpConstruct:       {opU30},
	vm.OpConstructSuper:  {opU30},
	vm.OpGetProperty:     {opU30},
	vm.OpSetProperty:     {opU30},
	vm.OpInitProperty:    {opU30},
	vm.OpDeleteProperty:  {opU30},
	vm.OpFindProperty:    {opU30},
	vm.OpFindPropStrict:  {opU30},
	vm.OpGetLex:          {opU30},
	vm.OpGetSuper:        {opU30},
	vm.OpSetSuper:        {opU30},
	vm.OpGetDescendants:  {opU30},
	vm.OpHasNext2:        {opU30, opU30},
	vm.OpCheckFilter:     {},
	vm.OpAsTypeLate:      {},
	vm.OpIsTypeLate:      {},
	vm.OpJump:            {opS24},
	vm.OpIfTrue:          {opS24},
	vm.OpIfFalse:         {opS24},
	vm.OpIfEq:            {opS24},
	vm.OpIfNE:            {opS24},
	vm.OpIfLT:            {opS24},
	vm.OpIfLE:            {opS24},
	vm.OpIfGT:            {opS24},
	vm.OpIfGE:            {opS24},
	vm.OpIfStrictEq:      {opS24},
	vm.OpIfStrictNE:      {opS24},
	vm.OpIfNLT:           {opS24},
	vm.OpIfNLE:           {opS24},
	vm.OpIfNGT:           {opS24},
	vm.OpIfNGE:           {opS24},
	vm.OpDebug:           {opU8U30},
}

// Listing decodes every instruction in body.Code in order, without
// executing any of them. lookupswitch's variable-length case table is
// handled specially since its shape depends on a decoded operand.
func Listing(body *abc.MethodBody) ([]Instruction, error) {
	code := abcbyte.NewReader(body.Code)
	var out []Instruction

	for !code.AtEnd() {
		offset := code.Position()
		opByte, err := code.ReadU8()
		if err != nil {
			return out, fmt.Errorf("reading opcode at %d: %w", offset, err)
		}
		op := vm.Opcode(opByte)

		var operands []int64
		if op == vm.OpLookupSwitch {
			operands, err = decodeLookupSwitch(code)
		} else {
			operands, err = decodeFixedShape(code, op)
		}
		if err != nil {
			return out, fmt.Errorf("reading operands for %s at %d: %w", op.Mnemonic(), offset, err)
		}

		out = append(out, Instruction{
			Offset:   offset,
			Length:   code.Position() - offset,
			Opcode:   op,
			Mnemonic: op.Mnemonic(),
			Operands: operands,
		})
	}
	return out, nil
}

func decodeFixedShape(code *abcbyte.Reader, op vm.Opcode) ([]int64, error) {
	shape, ok := operandShapes[op]
	if !ok {
		return nil, nil
	}
	operands := make([]int64, 0, len(shape))
	for _, kind := range shape {
		switch kind {
		case opU8:
			v, err := code.ReadU8()
			if err != nil {
				return operands, err
			}
			operands = append(operands, int64(v))
		case opU30:
			v, err := code.ReadVarUint32()
			if err != nil {
				return operands, err
			}
			operands = append(operands, int64(v))
		case opS24:
			v, err := code.ReadS24()
			if err != nil {
				return operands, err
			}
			operands = append(operands, int64(v))
		case opU8U30:
			for _, sub := range []operandKind{opU8, opU30, opU8, opU30} {
				if sub == opU8 {
					v, err := code.ReadU8()
					if err != nil {
						return operands, err
					}
					operands = append(operands, int64(v))
				} else {
					v, err := code.ReadVarUint32()
					if err != nil {
						return operands, err
					}
					operands = append(operands, int64(v))
				}
			}
		}
	}
	return operands, nil
}

func decodeLookupSwitch(code *abcbyte.Reader) ([]int64, error) {
	defaultOffset, err := code.ReadS24()
	if err != nil {
		return nil, err
	}
	caseCount, err := code.ReadVarUint32()
	if err != nil {
		return nil, err
	}
	operands := []int64{int64(defaultOffset), int64(caseCount)}
	for i := uint32(0); i <= caseCount; i++ {
		off, err := code.ReadS24()
		if err != nil {
			return operands, err
		}
		operands = append(operands, int64(off))
	}
	return operands, nil
}
