package vm

import (
	"fmt"

	"github.com/avm2run/avm2/abc"
	"github.com/avm2run/avm2/abcbyte"
	"github.com/avm2run/avm2/avmvalue"
)

// CallBytecode invokes the method at methodIndex as a bytecode method:
// it fills registers per the ABC calling convention, pushes outerScope
// as the callee's initial (closure) scope chain, and runs the method
// body to completion. args is in left-to-right order.
func (m *VM) CallBytecode(methodIndex uint32, receiver avmvalue.Value, args []avmvalue.Value, outerScope []avmvalue.Value) (avmvalue.Value, error) {
	method, err := m.Program.method(methodIndex)
	if err != nil {
		return avmvalue.Undefined, err
	}
	body, ok := m.Program.BodyForMethod(methodIndex)
	if !ok {
		return avmvalue.Undefined, fmt.Errorf("method %d has no body (native methods are resolved through host.Registry by the caller)", methodIndex)
	}

	env := NewEnvironment(body.LocalCount)
	for _, v := range outerScope {
		env.PushScope(v)
	}

	// Register-fill: register 0 is `this`; registers 1..param_count hold
	// the supplied arguments; any declared optional parameters missing
	// from args take their default value; everything else up to
	// local_count-1 starts Undefined (already the Environment zero
	// value). NEED_REST/NEED_ARGUMENTS bind the trailing arguments array
	// at register param_count+1.
	env.SetLocal(0, receiver)
	paramCount := int(method.ParamCount)
	for i := 0; i < paramCount && i+1 < len(env.Registers); i++ {
		if i < len(args) {
			env.Registers[i+1] = args[i]
		}
	}
	if len(method.Options) > 0 {
		pool := m.Program.File.ConstantPool
		firstOptional := paramCount - len(method.Options)
		for i, opt := range method.Options {
			paramIndex := firstOptional + i
			if paramIndex < len(args) {
				continue
			}
			if paramIndex+1 < len(env.Registers) {
				env.Registers[paramIndex+1] = optionDefaultValue(pool, opt)
			}
		}
	}
	if method.Flags.Has(abc.MethodNeedRest) || method.Flags.Has(abc.MethodNeedArguments) {
		restIndex := paramCount + 1
		var rest []avmvalue.Value
		if len(args) > paramCount {
			rest = append([]avmvalue.Value(nil), args[paramCount:]...)
		}
		if restIndex < len(env.Registers) {
			env.Registers[restIndex] = avmvalue.FromObject(avmvalue.NewArray(rest))
		}
	}

	if m.Statistics != nil {
		m.Statistics.recordCall(methodIndex)
	}

	code := abcbyte.NewReader(body.Code)
	return m.run(code, env, body, receiver)
}

func optionDefaultValue(pool *abc.ConstantPool, opt abc.OptionDetail) avmvalue.Value {
	return defaultSlotValue(pool, abc.TraitSlotValue{ValueIndex: opt.ValueIndex, ValueKind: opt.Kind})
}

// CallHostOrBytecode invokes target: a bytecode function runs its
// method body through CallBytecode with the global object as its scope,
// and a host function runs its own Go closure. It does not consult
// host.Registry; callProperty looks registry built-ins up itself before
// or instead of calling through here.
func (m *VM) CallHostOrBytecode(target *avmvalue.Object, receiver avmvalue.Value, args []avmvalue.Value) (avmvalue.Value, error) {
	if target == nil || !target.IsCallable() {
		return avmvalue.Undefined, fmt.Errorf("value is not callable")
	}
	switch target.FunctionKind {
	case avmvalue.FunctionBytecode:
		scope := []avmvalue.Value{avmvalue.FromObject(m.Global)}
		return m.CallBytecode(target.Bytecode.MethodIndex, receiver, args, scope)
	case avmvalue.FunctionHost:
		return target.Host(receiver, args)
	default:
		return avmvalue.Undefined, fmt.Errorf("unsupported function kind")
	}
}
