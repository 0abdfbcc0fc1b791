package vm

import (
	"fmt"

	"github.com/avm2run/avm2/abc"
	"github.com/avm2run/avm2/avmvalue"
)

// newClass implements the newclass opcode: materialize (and cache) the
// runtime class-object for classIndex, allocate default-valued
// properties for its static const traits, run the class initializer
// once with the class-object as receiver, and return it.
func (m *VM) newClass(classIndex int, baseType avmvalue.Value) (*avmvalue.Object, error) {
	if cached, ok := m.Program.classCache[classIndex]; ok {
		return cached.Object, nil
	}
	f := m.Program.File
	if classIndex < 0 || classIndex >= len(f.Instances) || classIndex >= len(f.Classes) {
		return nil, fmt.Errorf("class index %d out of range", classIndex)
	}
	inst := f.Instances[classIndex]
	class := f.Classes[classIndex]
	pool := f.ConstantPool
	qualifiedName := pool.String(inst.NameIndex)

	classObj := avmvalue.NewObject(qualifiedName)
	if bt := baseType.Object(); bt != nil {
		classObj.Prototype = bt
	}

	// Static traits (including const defaults) live directly on the
	// class-object; instance traits live on it too, since instances
	// point their Prototype at classObj and look properties up there.
	// A real AVM2 keeps these in separate trait tables, but nothing in
	// this interpreter's resolver distinguishes "static" access from
	// "instance" access once a property name is found.
	for _, tr := range class.Traits {
		if tr.Kind != abc.TraitConst {
			continue
		}
		name := pool.String(tr.NameIndex)
		classObj.SetProperty(avmvalue.QName{Name: name}, defaultSlotValue(pool, tr.Slot))
	}
	if err := m.bindTraits(classObj, class.Traits); err != nil {
		return nil, err
	}
	if err := m.bindTraits(classObj, inst.Traits); err != nil {
		return nil, err
	}
	classObj.Bytecode = &avmvalue.BytecodeFunction{MethodIndex: inst.InitIndex, ClassIndex: classIndex}
	classObj.FunctionKind = avmvalue.FunctionBytecode

	m.Program.classCache[classIndex] = &ClassObject{
		ClassIndex:    classIndex,
		QualifiedName: qualifiedName,
		Object:        classObj,
	}

	if _, err := m.CallBytecode(class.InitIndex, avmvalue.FromObject(classObj), nil, []avmvalue.Value{avmvalue.FromObject(m.Global)}); err != nil {
		return nil, err
	}
	return classObj, nil
}
