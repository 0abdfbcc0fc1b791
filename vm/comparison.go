package vm

import "github.com/avm2run/avm2/avmvalue"

func execEquals(env *Environment) {
	b, a := env.Pop(), env.Pop()
	env.Push(avmvalue.Bool(avmvalue.AbstractEquals(a, b)))
}

func execStrictEquals(env *Environment) {
	b, a := env.Pop(), env.Pop()
	env.Push(avmvalue.Bool(avmvalue.StrictEquals(a, b)))
}

func execLessThan(env *Environment) {
	b, a := env.Pop(), env.Pop()
	env.Push(avmvalue.Bool(avmvalue.LessThan(a, b)))
}

func execLessEquals(env *Environment) {
	b, a := env.Pop(), env.Pop()
	env.Push(avmvalue.Bool(avmvalue.LessEquals(a, b)))
}

func execGreaterThan(env *Environment) {
	b, a := env.Pop(), env.Pop()
	env.Push(avmvalue.Bool(avmvalue.GreaterThan(a, b)))
}

func execGreaterEquals(env *Environment) {
	b, a := env.Pop(), env.Pop()
	env.Push(avmvalue.Bool(avmvalue.GreaterEquals(a, b)))
}

func execNot(env *Environment) {
	env.Push(avmvalue.Bool(!avmvalue.ToBoolean(env.Pop())))
}

// branchPredicate returns the two-operand branch test matching a
// conditional opcode, to share the pop-two/compute/branch shape across
// every if-family instruction.
type branchPredicate func(a, b avmvalue.Value) bool

func twoOperandBranch(env *Environment, predicate branchPredicate) bool {
	b, a := env.Pop(), env.Pop()
	return predicate(a, b)
}

func oneOperandBranch(env *Environment, predicate func(avmvalue.Value) bool) bool {
	return predicate(env.Pop())
}
