package vm

import (
	"fmt"

	"github.com/avm2run/avm2/abc"
	"github.com/avm2run/avm2/avmvalue"
)

func (f *frame) pool() *abc.ConstantPool { return f.m.Program.File.ConstantPool }

// step decodes op's operands from f.code and executes it, returning the
// control-transfer outcome the run loop should apply.
func (f *frame) step(op Opcode, startPos int) (InstructionOutcome, error) {
	env := f.env
	code := f.code

	switch op {
	// --- constant pushers -------------------------------------------------
	case OpPushNull:
		env.Push(avmvalue.Null)
	case OpPushUndefined:
		env.Push(avmvalue.Undefined)
	case OpPushTrue:
		env.Push(avmvalue.Bool(true))
	case OpPushFalse:
		env.Push(avmvalue.Bool(false))
	case OpPushNaN:
		env.Push(avmvalue.Double(nan()))
	case OpPushByte:
		v, err := code.ReadU8()
		if err != nil {
			return Continue, err
		}
		env.Push(avmvalue.Int32(int32(int8(v))))
	case OpPushShort:
		v, err := code.ReadVarInt32()
		if err != nil {
			return Continue, err
		}
		env.Push(avmvalue.Int32(v))
	case OpPushInt:
		idx, err := code.ReadVarUint32()
		if err != nil {
			return Continue, err
		}
		env.Push(avmvalue.Int32(f.pool().Int(idx)))
	case OpPushUInt:
		idx, err := code.ReadVarUint32()
		if err != nil {
			return Continue, err
		}
		env.Push(avmvalue.Uint32(f.pool().UInt(idx)))
	case OpPushDouble:
		idx, err := code.ReadVarUint32()
		if err != nil {
			return Continue, err
		}
		env.Push(avmvalue.Double(f.pool().Double(idx)))
	case OpPushString:
		idx, err := code.ReadVarUint32()
		if err != nil {
			return Continue, err
		}
		env.Push(avmvalue.String(f.pool().String(idx)))
	case OpPushNamespace:
		idx, err := code.ReadVarUint32()
		if err != nil {
			return Continue, err
		}
		ns := f.pool().NamespaceAt(idx)
		env.Push(avmvalue.NamespaceValue(f.pool().NamespaceName(ns)))

	// --- arithmetic/bitwise -------------------------------------------------
	case OpAdd:
		execAdd(env)
	case OpSubtract:
		execSubtract(env)
	case OpMultiply:
		execMultiply(env)
	case OpDivide:
		execDivide(env)
	case OpModulo:
		execModulo(env)
	case OpNegate:
		execNegate(env)
	case OpIncrement:
		execIncrement(env)
	case OpDecrement:
		execDecrement(env)
	case OpAddI:
		execAddI(env)
	case OpSubtractI:
		execSubtractI(env)
	case OpMultiplyI:
		execMultiplyI(env)
	case OpNegateI:
		execNegateI(env)
	case OpIncrementI:
		execIncrementI(env)
	case OpDecrementI:
		execDecrementI(env)
	case OpBitAnd:
		execBitAnd(env)
	case OpBitOr:
		execBitOr(env)
	case OpBitXor:
		execBitXor(env)
	case OpBitNot:
		execBitNot(env)
	case OpLShift:
		execLShift(env)
	case OpRShift:
		execRShift(env)
	case OpURShift:
		execURShift(env)
	case OpIncLocal, OpDecLocal, OpIncLocalI, OpDecLocalI:
		return Continue, f.execLocalIncDec(op)

	// --- comparison -----------------------------------------------------
	case OpEquals:
		execEquals(env)
	case OpStrictEquals:
		execStrictEquals(env)
	case OpLessThan:
		execLessThan(env)
	case OpLessEquals:
		execLessEquals(env)
	case OpGreaterThan:
		execGreaterThan(env)
	case OpGreaterEquals:
		execGreaterEquals(env)
	case OpNot:
		execNot(env)
	case OpTypeOf:
		env.Push(avmvalue.String(typeOfValue(env.Pop())))
	case OpInstanceOf:
		b, a := env.Pop(), env.Pop()
		env.Push(avmvalue.Bool(instanceOf(a, b)))
	case OpIn:
		nameVal, obj := env.Pop(), env.Pop()
		o := obj.Object()
		env.Push(avmvalue.Bool(o != nil && o.HasProperty(avmvalue.QName{Name: avmvalue.ToStringValue(nameVal)})))

	// --- stack ------------------------------------------------------------
	case OpDup:
		env.Push(env.Peek())
	case OpPop:
		env.Pop()
	case OpSwap:
		b, a := env.Pop(), env.Pop()
		env.Push(b)
		env.Push(a)
	case OpLabel, OpNop, OpBkpt, OpDebug, OpDebugLine, OpDebugFile:
		if err := f.skipDebugOperands(op); err != nil {
			return Continue, err
		}
	case OpKill:
		idx, err := code.ReadVarUint32()
		if err != nil {
			return Continue, err
		}
		env.SetLocal(idx, avmvalue.Undefined)

	// --- registers ----------------------------------------------------------
	case OpGetLocal:
		idx, err := code.ReadVarUint32()
		if err != nil {
			return Continue, err
		}
		env.Push(env.GetLocal(idx))
	case OpSetLocal:
		idx, err := code.ReadVarUint32()
		if err != nil {
			return Continue, err
		}
		env.SetLocal(idx, env.Pop())
	case OpGetLocal0, OpGetLocal1, OpGetLocal2, OpGetLocal3:
		env.Push(env.GetLocal(uint32(op - OpGetLocal0)))
	case OpSetLocal0, OpSetLocal1, OpSetLocal2, OpSetLocal3:
		env.SetLocal(uint32(op-OpSetLocal0), env.Pop())

	// --- scope ----------------------------------------------------------
	case OpPushScope:
		env.PushScope(env.Pop())
	case OpPushWith:
		env.PushScope(env.Pop())
	case OpPopScope:
		env.PopScope()
	case OpGetScopeObject:
		idx, err := code.ReadVarUint32()
		if err != nil {
			return Continue, err
		}
		env.Push(env.ScopeAt(int(idx)))
	case OpGetGlobalScope:
		env.Push(avmvalue.FromObject(f.m.Global))
	case OpNewActivation:
		env.Push(avmvalue.FromObject(avmvalue.NewObject("Activation")))
	case OpNewCatch:
		if _, err := code.ReadVarUint32(); err != nil {
			return Continue, err
		}
		env.Push(avmvalue.FromObject(avmvalue.NewObject("Catch")))
	case OpDXNS:
		idx, err := code.ReadVarUint32()
		if err != nil {
			return Continue, err
		}
		env.DefaultXMLNamespace = f.pool().String(idx)
	case OpDXNSLate:
		env.DefaultXMLNamespace = avmvalue.ToStringValue(env.Pop())

	// --- property ---------------------------------------------------------
	case OpFindProperty, OpFindPropStrict, OpGetLex, OpGetProperty, OpSetProperty,
		OpInitProperty, OpDeleteProperty, OpGetSuper, OpSetSuper, OpGetSlot,
		OpSetSlot, OpGetGlobalSlot, OpSetGlobalSlot, OpGetDescendants, OpCheckFilter:
		return f.execProperty(op)

	// --- calls and construction --------------------------------------------
	case OpCall, OpCallMethod, OpCallStatic, OpCallSuper, OpCallSuperVoid,
		OpCallProperty, OpCallPropVoid, OpConstruct, OpConstructSuper,
		OpConstructProp, OpNewObject, OpNewArray, OpNewFunction, OpNewClass:
		return f.execCallOrConstruct(op)

	// --- control flow -------------------------------------------------------
	case OpJump:
		rel, err := code.ReadS24()
		if err != nil {
			return Continue, err
		}
		return Jump(branchTarget(code, rel)), nil
	case OpReturnVoid:
		return Return(avmvalue.Undefined), nil
	case OpReturnValue:
		return Return(env.Pop()), nil
	case OpThrow:
		return ThrowOutcome(env.Pop()), nil
	case OpIfTrue, OpIfFalse, OpIfEq, OpIfNE, OpIfLT, OpIfLE, OpIfGT, OpIfGE,
		OpIfStrictEq, OpIfStrictNE, OpIfNLT, OpIfNLE, OpIfNGT, OpIfNGE:
		return f.execConditionalBranch(op)
	case OpLookupSwitch:
		return f.execLookupSwitch()

	// --- iteration ----------------------------------------------------------
	case OpHasNext:
		return Continue, f.execHasNext()
	case OpHasNext2:
		return Continue, f.execHasNext2()
	case OpNextName:
		f.execNextName()
	case OpNextValue:
		f.execNextValue()

	// --- coercions ----------------------------------------------------------
	case OpCoerce:
		if _, err := code.ReadVarUint32(); err != nil {
			return Continue, err
		}
		// Coercion to a declared type is a verifier-time concern for a
		// fully type-checked AVM2; this interpreter accepts the value
		// unchanged, matching coerce_a's semantics for the common case.
	case OpCoerceA:
		// no-op: coerce to Any leaves the value unchanged.
	case OpCoerceS:
		if env.Peek().IsNullOrUndefined() {
			env.Pop()
			env.Push(avmvalue.Null)
		} else {
			env.Push(avmvalue.String(avmvalue.ToStringValue(env.Pop())))
		}
	case OpConvertI:
		env.Push(avmvalue.Int32(avmvalue.ToInt32(env.Pop())))
	case OpConvertU:
		env.Push(avmvalue.Uint32(avmvalue.ToUint32(env.Pop())))
	case OpConvertD:
		env.Push(avmvalue.Double(avmvalue.ToNumber(env.Pop())))
	case OpConvertB:
		env.Push(avmvalue.Bool(avmvalue.ToBoolean(env.Pop())))
	case OpConvertS:
		env.Push(avmvalue.String(avmvalue.ToStringValue(env.Pop())))
	case OpConvertO:
		// Object coercion: null/undefined is a TypeError in full AVM2;
		// this interpreter passes objects through unchanged.
	case OpAsType:
		if _, err := code.ReadVarUint32(); err != nil {
			return Continue, err
		}
	case OpAsTypeLate:
		env.Pop()
	case OpIsType:
		if _, err := code.ReadVarUint32(); err != nil {
			return Continue, err
		}
		env.Pop()
		env.Push(avmvalue.Bool(true))
	case OpIsTypeLate:
		env.Pop()
		env.Pop()
		env.Push(avmvalue.Bool(true))
	case OpEscXElem, OpEscXAttr:
		env.Push(avmvalue.String(avmvalue.ToStringValue(env.Pop())))

	default:
		return Continue, fmt.Errorf("unimplemented opcode %#02x (%s)", byte(op), op.Mnemonic())
	}
	return Continue, nil
}

func nan() float64 {
	var zero float64
	return zero / zero
}

func (f *frame) skipDebugOperands(op Opcode) error {
	switch op {
	case OpDebug:
		if _, err := f.code.ReadU8(); err != nil {
			return err
		}
		if _, err := f.code.ReadVarUint32(); err != nil {
			return err
		}
		if _, err := f.code.ReadU8(); err != nil {
			return err
		}
		_, err := f.code.ReadVarUint32()
		return err
	case OpDebugLine:
		_, err := f.code.ReadVarUint32()
		return err
	case OpDebugFile:
		_, err := f.code.ReadVarUint32()
		return err
	default:
		return nil
	}
}

func typeOfValue(v avmvalue.Value) string {
	switch v.Kind() {
	case avmvalue.KindUndefined:
		return "undefined"
	case avmvalue.KindBoolean:
		return "boolean"
	case avmvalue.KindInt32, avmvalue.KindUint32, avmvalue.KindDouble:
		return "number"
	case avmvalue.KindString:
		return "string"
	case avmvalue.KindObject:
		if o := v.Object(); o != nil && o.IsCallable() {
			return "function"
		}
		return "object"
	default:
		return "object"
	}
}

func instanceOf(a, b avmvalue.Value) bool {
	ao, bo := a.Object(), b.Object()
	if ao == nil || bo == nil {
		return false
	}
	return ao.ClassName == bo.ClassName
}
