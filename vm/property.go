package vm

import (
	"github.com/avm2run/avm2/avmvalue"
	"github.com/avm2run/avm2/resolver"
)

// execProperty decodes and executes the property-access family. Every
// member except the slot/global-slot variants and checkfilter takes a
// multiname index operand. findproperty/findpropstrict/getlex resolve
// it over the scope chain augmented with the receiver, per the name
// resolution contract; the other members look the name up on the
// object they pop (or on its Prototype, for getsuper/setsuper).
func (f *frame) execProperty(op Opcode) (InstructionOutcome, error) {
	env := f.env

	switch op {
	case OpGetSlot, OpSetSlot, OpGetGlobalSlot, OpSetGlobalSlot:
		return Continue, f.execSlotAccess(op)
	case OpCheckFilter:
		return Continue, nil
	}

	idx, err := f.code.ReadVarUint32()
	if err != nil {
		return Continue, err
	}
	multiname := f.pool().MultinameAt(idx)

	switch op {
	case OpFindProperty, OpFindPropStrict, OpGetLex:
		ids := resolver.ResolveIdentifiers(f.pool(), env.Pop, multiname)
		searchList := searchListFor(f.receiver, env)
		if op == OpFindPropStrict || op == OpGetLex {
			owner, ns, err := resolver.Strict(searchList, ids)
			if err != nil {
				return Continue, err
			}
			if op == OpGetLex {
				env.Push(owner.GetProperty(avmvalue.QName{Namespace: ns, Name: ids.Name}))
			} else {
				env.Push(avmvalue.FromObject(owner))
			}
			return Continue, nil
		}
		owner := resolver.Lenient(searchList, ids, f.m.Global)
		env.Push(avmvalue.FromObject(owner))
		return Continue, nil

	case OpGetProperty:
		ids := resolver.ResolveIdentifiers(f.pool(), env.Pop, multiname)
		target := env.Pop()
		if target.Kind() == avmvalue.KindString && isArrayIndex(ids.Name) {
			env.Push(stringCharAt(target.StringRaw(), ids.Name))
			return Continue, nil
		}
		if arr := target.Object(); arr != nil && arr.ClassName == "Array" && isArrayIndex(ids.Name) {
			env.Push(arrayElementGet(arr, ids.Name))
			return Continue, nil
		}
		searchList := []resolver.Scope{{Object: target.Object()}}
		owner := resolver.Lenient(searchList, ids, nil)
		if owner == nil {
			env.Push(avmvalue.Undefined)
			return Continue, nil
		}
		env.Push(owner.GetProperty(avmvalue.QName{Name: ids.Name}))
		return Continue, nil

	case OpSetProperty:
		value := env.Pop()
		ids := resolver.ResolveIdentifiers(f.pool(), env.Pop, multiname)
		target := env.Pop()
		o := target.Object()
		if o == nil {
			return Continue, newRuntimeError(ErrTypeError, f.code.Position(), op, "cannot set property on non-object")
		}
		if o.ClassName == "Array" && isArrayIndex(ids.Name) {
			arrayElementSet(o, ids.Name, value)
			return Continue, nil
		}
		o.SetProperty(avmvalue.QName{Name: ids.Name}, value)
		return Continue, nil

	case OpInitProperty:
		value := env.Pop()
		ids := resolver.ResolveIdentifiers(f.pool(), env.Pop, multiname)
		target := env.Pop()
		o := target.Object()
		if o == nil {
			return Continue, newRuntimeError(ErrTypeError, f.code.Position(), op, "cannot init property on non-object")
		}
		searchList := []resolver.Scope{{Object: o}}
		if owner, ns, ok := resolver.Resolve(searchList, ids); ok {
			owner.SetProperty(avmvalue.QName{Namespace: ns, Name: ids.Name}, value)
		} else {
			o.SetProperty(avmvalue.QName{Name: ids.Name}, value)
		}
		return Continue, nil

	case OpDeleteProperty:
		ids := resolver.ResolveIdentifiers(f.pool(), env.Pop, multiname)
		target := env.Pop()
		o := target.Object()
		if o == nil {
			env.Push(avmvalue.Bool(false))
			return Continue, nil
		}
		env.Push(avmvalue.Bool(o.DeleteProperty(avmvalue.QName{Name: ids.Name})))
		return Continue, nil

	case OpGetSuper:
		ids := resolver.ResolveIdentifiers(f.pool(), env.Pop, multiname)
		target := env.Pop()
		o := target.Object()
		if o == nil || o.Prototype == nil {
			env.Push(avmvalue.Undefined)
			return Continue, nil
		}
		env.Push(o.Prototype.GetProperty(avmvalue.QName{Name: ids.Name}))
		return Continue, nil

	case OpSetSuper:
		value := env.Pop()
		ids := resolver.ResolveIdentifiers(f.pool(), env.Pop, multiname)
		target := env.Pop()
		o := target.Object()
		if o != nil && o.Prototype != nil {
			o.Prototype.SetProperty(avmvalue.QName{Name: ids.Name}, value)
		}
		return Continue, nil

	case OpGetDescendants:
		env.Pop()
		env.Pop()
		env.Push(avmvalue.FromObject(avmvalue.NewArray(nil)))
		return Continue, nil

	case OpCheckFilter:
		return Continue, nil
	}
	return Continue, nil
}

func (f *frame) execSlotAccess(op Opcode) error {
	idx, err := f.code.ReadVarUint32()
	if err != nil {
		return err
	}
	env := f.env
	slotKey := avmvalue.QName{Name: slotName(idx)}

	switch op {
	case OpGetSlot:
		target := env.Pop()
		o := target.Object()
		if o == nil {
			env.Push(avmvalue.Undefined)
			return nil
		}
		env.Push(o.GetProperty(slotKey))
	case OpSetSlot:
		value := env.Pop()
		target := env.Pop()
		if o := target.Object(); o != nil {
			o.SetProperty(slotKey, value)
		}
	case OpGetGlobalSlot:
		env.Push(f.m.Global.GetProperty(slotKey))
	case OpSetGlobalSlot:
		f.m.Global.SetProperty(slotKey, env.Pop())
	}
	return nil
}

func slotName(index uint32) string {
	return "__slot" + itoa(index)
}

func itoa(v uint32) string {
	if v == 0 {
		return "0"
	}
	var buf [10]byte
	i := len(buf)
	for v > 0 {
		i--
		buf[i] = byte('0' + v%10)
		v /= 10
	}
	return string(buf[i:])
}

func isArrayIndex(name string) bool {
	if name == "" {
		return false
	}
	for _, r := range name {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// stringCharAt implements the String-indexing fallback getproperty uses
// when the target is a plain string rather than an Array object: a
// numeric multiname indexes the string's characters, out of range
// yielding undefined rather than an error.
func stringCharAt(s, name string) avmvalue.Value {
	idx := atoi(name)
	runes := []rune(s)
	if idx < 0 || idx >= len(runes) {
		return avmvalue.Undefined
	}
	return avmvalue.String(string(runes[idx]))
}

func arrayElementGet(o *avmvalue.Object, name string) avmvalue.Value {
	idx := atoi(name)
	if idx < 0 || idx >= len(o.Elements) {
		return avmvalue.Undefined
	}
	return o.Elements[idx]
}

func arrayElementSet(o *avmvalue.Object, name string, value avmvalue.Value) {
	idx := atoi(name)
	if idx < 0 {
		return
	}
	for len(o.Elements) <= idx {
		o.Elements = append(o.Elements, avmvalue.Undefined)
	}
	o.Elements[idx] = value
}

func atoi(s string) int {
	n := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			return -1
		}
		n = n*10 + int(r-'0')
	}
	return n
}
