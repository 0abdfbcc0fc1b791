package vm

import (
	"sort"

	"github.com/avm2run/avm2/avmvalue"
)

// enumerableKeys returns the property keys for-in/for-each walks, in a
// deterministic order: indexed elements first (by index), then named
// properties sorted by name, since Object.Props is a Go map with no
// inherent iteration order.
func enumerableKeys(o *avmvalue.Object) []avmvalue.QName {
	if o == nil {
		return nil
	}
	keys := make([]avmvalue.QName, 0, len(o.Elements)+len(o.Props))
	for i := range o.Elements {
		keys = append(keys, avmvalue.QName{Name: itoa(uint32(i))})
	}
	named := make([]avmvalue.QName, 0, len(o.Props))
	for k := range o.Props {
		named = append(named, k)
	}
	sort.Slice(named, func(i, j int) bool {
		if named[i].Namespace != named[j].Namespace {
			return named[i].Namespace < named[j].Namespace
		}
		return named[i].Name < named[j].Name
	})
	return append(keys, named...)
}

// execHasNext implements the simple form: read the object and index
// register operands, push the 1-based index of the next enumerable
// property or 0 when exhausted, without touching the registers.
func (f *frame) execHasNext() error {
	objIdx, err := f.code.ReadVarUint32()
	if err != nil {
		return err
	}
	idxIdx, err := f.code.ReadVarUint32()
	if err != nil {
		return err
	}
	obj := f.env.GetLocal(objIdx).Object()
	cur := avmvalue.ToUint32(f.env.GetLocal(idxIdx))
	keys := enumerableKeys(obj)
	if int(cur) < len(keys) {
		f.env.Push(avmvalue.Uint32(cur + 1))
	} else {
		f.env.Push(avmvalue.Uint32(0))
	}
	return nil
}

// execHasNext2 implements the register-pair form used by for-in/for-each
// compiled loops: it walks up the prototype chain when the current
// object is exhausted, writes the (possibly advanced) object and next
// index back into the two registers, and pushes whether iteration can
// continue.
func (f *frame) execHasNext2() error {
	objIdx, err := f.code.ReadVarUint32()
	if err != nil {
		return err
	}
	idxIdx, err := f.code.ReadVarUint32()
	if err != nil {
		return err
	}
	obj := f.env.GetLocal(objIdx).Object()
	cur := avmvalue.ToUint32(f.env.GetLocal(idxIdx))

	for obj != nil {
		keys := enumerableKeys(obj)
		if int(cur) < len(keys) {
			f.env.SetLocal(objIdx, avmvalue.FromObject(obj))
			f.env.SetLocal(idxIdx, avmvalue.Uint32(cur+1))
			f.env.Push(avmvalue.Bool(true))
			return nil
		}
		obj = obj.Prototype
		cur = 0
	}
	f.env.SetLocal(objIdx, avmvalue.Null)
	f.env.SetLocal(idxIdx, avmvalue.Uint32(0))
	f.env.Push(avmvalue.Bool(false))
	return nil
}

// execNextName pops a 1-based index and an object and pushes the
// enumerable property name at that position, or the empty string when
// out of range.
func (f *frame) execNextName() {
	idx := avmvalue.ToUint32(f.env.Pop())
	obj := f.env.Pop().Object()
	keys := enumerableKeys(obj)
	if idx == 0 || int(idx) > len(keys) {
		f.env.Push(avmvalue.String(""))
		return
	}
	f.env.Push(avmvalue.String(keys[idx-1].Name))
}

// execNextValue pops a 1-based index and an object and pushes the value
// stored under the enumerable property at that position.
func (f *frame) execNextValue() {
	idx := avmvalue.ToUint32(f.env.Pop())
	obj := f.env.Pop().Object()
	keys := enumerableKeys(obj)
	if obj == nil || idx == 0 || int(idx) > len(keys) {
		f.env.Push(avmvalue.Undefined)
		return
	}
	key := keys[idx-1]
	if isArrayIndex(key.Name) {
		f.env.Push(arrayElementGet(obj, key.Name))
		return
	}
	f.env.Push(obj.GetProperty(key))
}
