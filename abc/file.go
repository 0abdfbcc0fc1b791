// Package abc decodes the ABC binary program format into an immutable,
// index-addressable in-memory representation. Decoding is purely
// syntactic: it does not validate semantic constraints such as whether
// max_stack is respected by a method body's code. Malformed programs
// surface as runtime errors during execution instead.
package abc

import "github.com/avm2run/avm2/abcbyte"

// File is a fully decoded ABC program. It is constructed once by Decode
// and is read-only thereafter.
type File struct {
	MinorVersion uint16
	MajorVersion uint16
	ConstantPool *ConstantPool
	Methods      []Method
	Metadata     []Metadata
	Instances    []Instance
	Classes      []Class
	Scripts      []Script
	MethodBodies []MethodBody
}

// Decode parses a byte range containing exactly one ABC file, as
// delivered by a SWF DoABC tag. The layout is
//
//	u16 minor, u16 major, constant_pool, methods[], metadata[],
//	class_count, instances[class_count], classes[class_count],
//	scripts[], method_bodies[]
func Decode(data []byte) (*File, error) {
	r := abcbyte.NewReader(data)
	f := &File{}

	var err error
	if f.MinorVersion, err = r.ReadU16(); err != nil {
		return nil, newDecodeError(r.Position(), err, "minor version")
	}
	if f.MajorVersion, err = r.ReadU16(); err != nil {
		return nil, newDecodeError(r.Position(), err, "major version")
	}
	if f.ConstantPool, err = decodeConstantPool(r); err != nil {
		return nil, newDecodeError(r.Position(), err, "constant pool")
	}
	if f.Methods, err = decodeMethods(r); err != nil {
		return nil, newDecodeError(r.Position(), err, "methods")
	}
	if f.Metadata, err = decodeMetadataTable(r); err != nil {
		return nil, newDecodeError(r.Position(), err, "metadata")
	}
	classCount, err := r.ReadVarUint32()
	if err != nil {
		return nil, newDecodeError(r.Position(), err, "class count")
	}
	if f.Instances, err = decodeInstances(r, classCount); err != nil {
		return nil, newDecodeError(r.Position(), err, "instances")
	}
	if f.Classes, err = decodeClasses(r, classCount); err != nil {
		return nil, newDecodeError(r.Position(), err, "classes")
	}
	if f.Scripts, err = decodeScripts(r); err != nil {
		return nil, newDecodeError(r.Position(), err, "scripts")
	}
	if f.MethodBodies, err = decodeMethodBodies(r); err != nil {
		return nil, newDecodeError(r.Position(), err, "method bodies")
	}
	return f, nil
}

// QualifiedName resolves a QName multiname to its "namespace.name" form.
// The multiname at index must be of kind QName; any other kind is a
// LinkError-class condition the caller should have ruled out.
func (f *File) QualifiedName(multinameIndex uint32) (string, bool) {
	m := f.ConstantPool.MultinameAt(multinameIndex)
	if m.Kind != MultinameKindQName && m.Kind != MultinameKindQNameA {
		return "", false
	}
	ns := f.ConstantPool.NamespaceAt(m.NamespaceIndex)
	nsName := f.ConstantPool.NamespaceName(ns)
	name := f.ConstantPool.String(m.NameIndex)
	if nsName == "" {
		return name, true
	}
	return nsName + "." + name, true
}
