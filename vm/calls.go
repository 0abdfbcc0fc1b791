package vm

import (
	"github.com/avm2run/avm2/avmvalue"
	"github.com/avm2run/avm2/resolver"
)

// execCallOrConstruct decodes and executes the call/construction family.
// Per the uniform calling convention, every variant pops arg_count
// arguments in reverse (so PopN restores left-to-right order), then
// pops whatever combination of receiver/callable the opcode dictates.
func (f *frame) execCallOrConstruct(op Opcode) (InstructionOutcome, error) {
	env := f.env

	switch op {
	case OpNewObject:
		count, err := f.code.ReadVarUint32()
		if err != nil {
			return Continue, err
		}
		obj := avmvalue.NewObject("Object")
		pairs := env.PopN(int(count) * 2)
		for i := 0; i+1 < len(pairs); i += 2 {
			obj.SetProperty(avmvalue.QName{Name: avmvalue.ToStringValue(pairs[i])}, pairs[i+1])
		}
		env.Push(avmvalue.FromObject(obj))
		return Continue, nil

	case OpNewArray:
		count, err := f.code.ReadVarUint32()
		if err != nil {
			return Continue, err
		}
		elements := env.PopN(int(count))
		env.Push(avmvalue.FromObject(avmvalue.NewArray(elements)))
		return Continue, nil

	case OpNewFunction:
		methodIdx, err := f.code.ReadVarUint32()
		if err != nil {
			return Continue, err
		}
		env.Push(avmvalue.FromObject(avmvalue.NewBytecodeFunction(methodIdx, -1)))
		return Continue, nil

	case OpNewClass:
		classIdx, err := f.code.ReadVarUint32()
		if err != nil {
			return Continue, err
		}
		obj, err := f.m.newClass(int(classIdx), env.Pop())
		if err != nil {
			return Continue, err
		}
		env.Push(avmvalue.FromObject(obj))
		return Continue, nil

	case OpCall:
		argCount, err := f.code.ReadVarUint32()
		if err != nil {
			return Continue, err
		}
		args := env.PopN(int(argCount))
		receiver := env.Pop()
		callable := env.Pop()
		result, err := f.m.CallHostOrBytecode(callable.Object(), receiver, args)
		if err != nil {
			return Continue, err
		}
		env.Push(result)
		return Continue, nil

	case OpCallMethod, OpCallStatic:
		if _, err := f.code.ReadVarUint32(); err != nil {
			return Continue, err
		}
		argCount, err := f.code.ReadVarUint32()
		if err != nil {
			return Continue, err
		}
		args := env.PopN(int(argCount))
		receiver := env.Pop()
		env.Push(resultOrUndefined(f.m.CallHostOrBytecode(nil, receiver, args)))
		return Continue, nil

	case OpCallSuper, OpCallSuperVoid:
		idx, err := f.code.ReadVarUint32()
		if err != nil {
			return Continue, err
		}
		argCount, err := f.code.ReadVarUint32()
		if err != nil {
			return Continue, err
		}
		args := env.PopN(int(argCount))
		receiver := env.Pop()
		multiname := f.pool().MultinameAt(idx)
		ids := resolver.ResolveIdentifiers(f.pool(), env.Pop, multiname)
		result, callErr := f.callOnPrototype(receiver, ids.Name, args)
		if op == OpCallSuperVoid {
			if callErr != nil {
				return Continue, callErr
			}
			return Continue, nil
		}
		env.Push(resultOrUndefined(result, callErr))
		return Continue, nil

	case OpCallProperty, OpCallPropVoid:
		idx, err := f.code.ReadVarUint32()
		if err != nil {
			return Continue, err
		}
		argCount, err := f.code.ReadVarUint32()
		if err != nil {
			return Continue, err
		}
		args := env.PopN(int(argCount))
		multiname := f.pool().MultinameAt(idx)
		ids := resolver.ResolveIdentifiers(f.pool(), env.Pop, multiname)
		receiver := env.Pop()
		result, callErr := f.callProperty(receiver, ids.Name, args)
		if op == OpCallPropVoid {
			if callErr != nil {
				return Continue, callErr
			}
			return Continue, nil
		}
		env.Push(resultOrUndefined(result, callErr))
		return Continue, nil

	case OpConstruct:
		argCount, err := f.code.ReadVarUint32()
		if err != nil {
			return Continue, err
		}
		args := env.PopN(int(argCount))
		callable := env.Pop()
		instance, err := f.m.constructInstance(callable.Object(), args)
		if err != nil {
			return Continue, err
		}
		env.Push(avmvalue.FromObject(instance))
		return Continue, nil

	case OpConstructProp:
		idx, err := f.code.ReadVarUint32()
		if err != nil {
			return Continue, err
		}
		argCount, err := f.code.ReadVarUint32()
		if err != nil {
			return Continue, err
		}
		args := env.PopN(int(argCount))
		multiname := f.pool().MultinameAt(idx)
		ids := resolver.ResolveIdentifiers(f.pool(), env.Pop, multiname)
		target := env.Pop()
		o := target.Object()
		if o == nil {
			return Continue, newRuntimeError(ErrTypeError, f.code.Position(), op, "constructprop on non-object")
		}
		classVal := o.GetProperty(avmvalue.QName{Name: ids.Name})
		instance, err := f.m.constructInstance(classVal.Object(), args)
		if err != nil {
			return Continue, err
		}
		env.Push(avmvalue.FromObject(instance))
		return Continue, nil

	case OpConstructSuper:
		argCount, err := f.code.ReadVarUint32()
		if err != nil {
			return Continue, err
		}
		args := env.PopN(int(argCount))
		receiver := env.Pop()
		if receiver.IsNullOrUndefined() {
			return Continue, newRuntimeError(ErrTypeError, f.code.Position(), op, "constructsuper on null/undefined receiver")
		}
		o := receiver.Object()
		if o != nil && o.Prototype != nil && o.Prototype.IsCallable() {
			if _, err := f.m.CallHostOrBytecode(o.Prototype, receiver, args); err != nil {
				return Continue, err
			}
		}
		return Continue, nil
	}
	return Continue, nil
}

func resultOrUndefined(v avmvalue.Value, err ...error) avmvalue.Value {
	for _, e := range err {
		if e != nil {
			return avmvalue.Undefined
		}
	}
	return v
}

// callProperty resolves name on receiver's own properties first, then
// falls through to the host registry keyed by receiver's class name,
// matching how a built-in method call looks identical to a bytecode
// one at the call site.
func (f *frame) callProperty(receiver avmvalue.Value, name string, args []avmvalue.Value) (avmvalue.Value, error) {
	o := receiver.Object()
	if o != nil {
		if v := o.GetProperty(avmvalue.QName{Name: name}); v.Kind() == avmvalue.KindObject && v.Object() != nil && v.Object().IsCallable() {
			return f.m.CallHostOrBytecode(v.Object(), receiver, args)
		}
		if f.m.Registry != nil && f.m.Registry.Has(o.ClassName, name) {
			return f.m.Registry.Call(o.ClassName, name, receiver, args)
		}
	}
	if f.m.Registry != nil {
		className := typeOfValue(receiver)
		if f.m.Registry.Has(className, name) {
			return f.m.Registry.Call(className, name, receiver, args)
		}
	}
	return avmvalue.Undefined, newRuntimeError(ErrReferenceError, f.code.Position(), OpCallProperty, "no such method %q", name)
}

func (f *frame) callOnPrototype(receiver avmvalue.Value, name string, args []avmvalue.Value) (avmvalue.Value, error) {
	o := receiver.Object()
	if o == nil || o.Prototype == nil {
		return avmvalue.Undefined, newRuntimeError(ErrTypeError, f.code.Position(), OpCallSuper, "no superclass for %q", name)
	}
	v := o.Prototype.GetProperty(avmvalue.QName{Name: name})
	if v.Object() == nil || !v.Object().IsCallable() {
		return avmvalue.Undefined, newRuntimeError(ErrReferenceError, f.code.Position(), OpCallSuper, "no such super method %q", name)
	}
	return f.m.CallHostOrBytecode(v.Object(), receiver, args)
}

// constructInstance allocates a new instance object whose prototype is
// classObj (so super lookups and constructsuper can walk to it), and
// invokes classObj's instance initializer on it.
func (m *VM) constructInstance(classObj *avmvalue.Object, args []avmvalue.Value) (*avmvalue.Object, error) {
	if classObj == nil {
		return nil, newRuntimeError(ErrTypeError, 0, OpConstruct, "construct on non-class value")
	}
	instance := avmvalue.NewObject(classObj.ClassName)
	instance.Prototype = classObj
	if classObj.IsCallable() {
		if _, err := m.CallHostOrBytecode(classObj, avmvalue.FromObject(instance), args); err != nil {
			return nil, err
		}
	}
	return instance, nil
}
