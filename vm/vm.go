// Package vm implements the AVM2 stack-machine interpreter: method
// activation, the scope-search name resolver wiring, and the per-opcode
// instruction handlers that drive execution of a linked Program.
package vm

import (
	"fmt"

	"github.com/avm2run/avm2/abc"
	"github.com/avm2run/avm2/avmvalue"
	"github.com/avm2run/avm2/host"
	"github.com/avm2run/avm2/resolver"
)

// ExecutionState mirrors the coarse run/halt/error states a caller
// (CLI, debugger, API server) needs to react to between Step calls.
type ExecutionState int

const (
	StateReady ExecutionState = iota
	StateRunning
	StateHalted
	StateError
)

// VM ties a linked Program to the runtime objects (global object, host
// built-ins) and diagnostics (trace, statistics) needed to execute it.
type VM struct {
	Program  *Program
	Global   *avmvalue.Object
	Registry host.Registry

	State    ExecutionState
	LastError error

	MaxCycles uint64
	cycles    uint64

	ExecutionTrace *ExecutionTrace
	Statistics     *PerformanceStatistics
}

// NewVM creates a VM over prog with the default host built-in registry
// and a fresh global object.
func NewVM(prog *Program) *VM {
	return &VM{
		Program:   prog,
		Global:    avmvalue.NewObject("global"),
		Registry:  host.NewDefaultRegistry(),
		State:     StateReady,
		MaxCycles: 10_000_000,
	}
}

// RunScript executes the initializer of scripts[index], installing the
// script's exported traits onto the global object first so the
// initializer's own code can reference siblings declared earlier in the
// same script, matching how a SWF's scripts execute in file order.
func (m *VM) RunScript(index int) (avmvalue.Value, error) {
	if index < 0 || index >= len(m.Program.File.Scripts) {
		return avmvalue.Undefined, fmt.Errorf("script index %d out of range", index)
	}
	script := m.Program.File.Scripts[index]
	if err := m.bindTraits(m.Global, script.Traits); err != nil {
		return avmvalue.Undefined, err
	}
	return m.CallBytecode(script.InitIndex, avmvalue.FromObject(m.Global), nil, nil)
}

// bindTraits materializes a trait list onto target: slots/consts get
// their declared default value (or Undefined), methods/getters/setters
// become bytecode-function-valued properties, and class traits are
// recorded as their class index (a uint value); reading such a
// property returns that index, and the class-object itself is only
// created by a newclass instruction.
func (m *VM) bindTraits(target *avmvalue.Object, traits []abc.Trait) error {
	pool := m.Program.File.ConstantPool
	for _, tr := range traits {
		name := pool.String(tr.NameIndex)
		key := avmvalue.QName{Name: name}
		switch tr.Kind {
		case abc.TraitSlot, abc.TraitConst:
			target.SetProperty(key, defaultSlotValue(pool, tr.Slot))
		case abc.TraitMethod, abc.TraitGetter, abc.TraitSetter:
			target.SetProperty(key, avmvalue.FromObject(avmvalue.NewBytecodeFunction(tr.Method.MethodIndex, -1)))
		case abc.TraitFunction:
			target.SetProperty(key, avmvalue.FromObject(avmvalue.NewBytecodeFunction(tr.Function.FunctionIndex, -1)))
		case abc.TraitClass:
			target.SetProperty(key, avmvalue.Uint32(tr.Class.ClassIndex))
		}
	}
	return nil
}

func defaultSlotValue(pool *abc.ConstantPool, slot abc.TraitSlotValue) avmvalue.Value {
	if slot.ValueIndex == 0 {
		return avmvalue.Undefined
	}
	switch slot.ValueKind {
	case abc.ConstantInt:
		return avmvalue.Int32(pool.Int(slot.ValueIndex))
	case abc.ConstantUInt:
		return avmvalue.Uint32(pool.UInt(slot.ValueIndex))
	case abc.ConstantDouble:
		return avmvalue.Double(pool.Double(slot.ValueIndex))
	case abc.ConstantUtf8:
		return avmvalue.String(pool.String(slot.ValueIndex))
	case abc.ConstantTrue:
		return avmvalue.Bool(true)
	case abc.ConstantFalse:
		return avmvalue.Bool(false)
	case abc.ConstantNull:
		return avmvalue.Null
	default:
		return avmvalue.Undefined
	}
}

// searchListFor builds the receiver-then-scope-stack resolution order used
// by findproperty/findpropstrict/getlex, innermost scope last on the
// scope stack but first in search order.
func searchListFor(receiver avmvalue.Value, env *Environment) []resolver.Scope {
	list := make([]resolver.Scope, 0, len(env.ScopeStack())+1)
	list = append(list, resolver.Scope{Object: receiver.Object()})
	stack := env.ScopeStack()
	for i := len(stack) - 1; i >= 0; i-- {
		list = append(list, resolver.Scope{Object: stack[i].Object()})
	}
	return list
}
