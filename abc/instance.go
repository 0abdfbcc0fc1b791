package abc

import "github.com/avm2run/avm2/abcbyte"

// Instance describes a class as defined: its name, superclass,
// interfaces and instance traits. Instances and Classes share an index
// space (the Nth instance and the Nth class together describe one
// ActionScript class).
type Instance struct {
	NameIndex              uint32
	SuperNameIndex         uint32
	Flags                  ClassFlags
	ProtectedNamespaceIndex uint32 // valid iff Flags has ClassProtectedNs
	InterfaceIndices       []uint32
	InitIndex              uint32
	Traits                 []Trait
}

func decodeInstance(r *abcbyte.Reader) (Instance, error) {
	var inst Instance
	var err error
	if inst.NameIndex, err = r.ReadVarUint32(); err != nil {
		return Instance{}, err
	}
	if inst.SuperNameIndex, err = r.ReadVarUint32(); err != nil {
		return Instance{}, err
	}
	flags, err := r.ReadU8()
	if err != nil {
		return Instance{}, err
	}
	inst.Flags = ClassFlags(flags)
	if inst.Flags.Has(ClassProtectedNs) {
		if inst.ProtectedNamespaceIndex, err = r.ReadVarUint32(); err != nil {
			return Instance{}, err
		}
	}
	if inst.InterfaceIndices, err = readVarUintArray(r); err != nil {
		return Instance{}, err
	}
	if inst.InitIndex, err = r.ReadVarUint32(); err != nil {
		return Instance{}, err
	}
	if inst.Traits, err = decodeTraits(r); err != nil {
		return Instance{}, err
	}
	return inst, nil
}

func decodeInstances(r *abcbyte.Reader, count uint32) ([]Instance, error) {
	out := make([]Instance, count)
	for i := range out {
		var err error
		if out[i], err = decodeInstance(r); err != nil {
			return nil, newDecodeError(r.Position(), err, "instance %d", i)
		}
	}
	return out, nil
}

// Class holds the static half of a class: its class initializer and
// static traits.
type Class struct {
	InitIndex uint32
	Traits    []Trait
}

func decodeClass(r *abcbyte.Reader) (Class, error) {
	var c Class
	var err error
	if c.InitIndex, err = r.ReadVarUint32(); err != nil {
		return Class{}, err
	}
	if c.Traits, err = decodeTraits(r); err != nil {
		return Class{}, err
	}
	return c, nil
}

func decodeClasses(r *abcbyte.Reader, count uint32) ([]Class, error) {
	out := make([]Class, count)
	for i := range out {
		var err error
		if out[i], err = decodeClass(r); err != nil {
			return nil, newDecodeError(r.Position(), err, "class %d", i)
		}
	}
	return out, nil
}

// Script is a top-level compilation unit: its initializer method and the
// traits it exports into the global scope.
type Script struct {
	InitIndex uint32
	Traits    []Trait
}

func decodeScript(r *abcbyte.Reader) (Script, error) {
	var s Script
	var err error
	if s.InitIndex, err = r.ReadVarUint32(); err != nil {
		return Script{}, err
	}
	if s.Traits, err = decodeTraits(r); err != nil {
		return Script{}, err
	}
	return s, nil
}

func decodeScripts(r *abcbyte.Reader) ([]Script, error) {
	count, err := r.ReadVarUint32()
	if err != nil {
		return nil, err
	}
	out := make([]Script, count)
	for i := range out {
		if out[i], err = decodeScript(r); err != nil {
			return nil, newDecodeError(r.Position(), err, "script %d", i)
		}
	}
	return out, nil
}
