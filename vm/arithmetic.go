package vm

import (
	"math"

	"github.com/avm2run/avm2/avmvalue"
)

func execAdd(env *Environment) {
	b := env.Pop()
	a := env.Pop()
	if a.Kind() == avmvalue.KindString || b.Kind() == avmvalue.KindString {
		env.Push(avmvalue.String(avmvalue.ToStringValue(a) + avmvalue.ToStringValue(b)))
		return
	}
	env.Push(avmvalue.Double(avmvalue.ToNumber(a) + avmvalue.ToNumber(b)))
}

func binaryDouble(env *Environment, fn func(a, b float64) float64) {
	b := avmvalue.ToNumber(env.Pop())
	a := avmvalue.ToNumber(env.Pop())
	env.Push(avmvalue.Double(fn(a, b)))
}

func binaryInt32(env *Environment, fn func(a, b int32) int32) {
	b := avmvalue.ToInt32(env.Pop())
	a := avmvalue.ToInt32(env.Pop())
	env.Push(avmvalue.Int32(fn(a, b)))
}

func execSubtract(env *Environment)  { binaryDouble(env, func(a, b float64) float64 { return a - b }) }
func execMultiply(env *Environment)  { binaryDouble(env, func(a, b float64) float64 { return a * b }) }
func execDivide(env *Environment)    { binaryDouble(env, func(a, b float64) float64 { return a / b }) }
func execModulo(env *Environment)    { binaryDouble(env, math.Mod) }

func execNegate(env *Environment) {
	env.Push(avmvalue.Double(-avmvalue.ToNumber(env.Pop())))
}

func execIncrement(env *Environment) {
	env.Push(avmvalue.Double(avmvalue.ToNumber(env.Pop()) + 1))
}

func execDecrement(env *Environment) {
	env.Push(avmvalue.Double(avmvalue.ToNumber(env.Pop()) - 1))
}

func execAddI(env *Environment)      { binaryInt32(env, func(a, b int32) int32 { return a + b }) }
func execSubtractI(env *Environment) { binaryInt32(env, func(a, b int32) int32 { return a - b }) }
func execMultiplyI(env *Environment) { binaryInt32(env, func(a, b int32) int32 { return a * b }) }
func execNegateI(env *Environment) {
	env.Push(avmvalue.Int32(-avmvalue.ToInt32(env.Pop())))
}
func execIncrementI(env *Environment) {
	env.Push(avmvalue.Int32(avmvalue.ToInt32(env.Pop()) + 1))
}
func execDecrementI(env *Environment) {
	env.Push(avmvalue.Int32(avmvalue.ToInt32(env.Pop()) - 1))
}

func execBitAnd(env *Environment) { binaryInt32(env, func(a, b int32) int32 { return a & b }) }
func execBitOr(env *Environment)  { binaryInt32(env, func(a, b int32) int32 { return a | b }) }
func execBitXor(env *Environment) { binaryInt32(env, func(a, b int32) int32 { return a ^ b }) }
func execBitNot(env *Environment) {
	env.Push(avmvalue.Int32(^avmvalue.ToInt32(env.Pop())))
}

func execLShift(env *Environment) {
	shift := avmvalue.ToUint32(env.Pop()) & 0x1F
	a := avmvalue.ToInt32(env.Pop())
	env.Push(avmvalue.Int32(a << shift))
}

func execRShift(env *Environment) {
	shift := avmvalue.ToUint32(env.Pop()) & 0x1F
	a := avmvalue.ToInt32(env.Pop())
	env.Push(avmvalue.Int32(a >> shift))
}

func execURShift(env *Environment) {
	shift := avmvalue.ToUint32(env.Pop()) & 0x1F
	a := avmvalue.ToUint32(env.Pop())
	env.Push(avmvalue.Uint32(a >> shift))
}
