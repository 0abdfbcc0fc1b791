package abc

import (
	"math"

	"github.com/avm2run/avm2/abcbyte"
)

// ConstantPool holds the seven constant tables of an ABC file. Every
// table is indexed from 1; index 0 always resolves to the kind's default
// sentinel listed below, matching the original's
// read_array_with_default behaviour.
type ConstantPool struct {
	Integers         []int32    // index 0 default: 0
	UnsignedIntegers []uint32   // index 0 default: 0
	Doubles          []float64  // index 0 default: NaN
	Strings          []string   // index 0 default: "any" sentinel (see AnyName)
	Namespaces       []Namespace // index 0 default: the "any" namespace
	NamespaceSets    []NamespaceSet // index 0 default: empty set
	Multinames       []Multiname // index 0 default: the "any" multiname
}

// AnyName is the sentinel string constant-pool index 0 resolves to.
const AnyName = "*"

// Int returns the integer at index, or the default sentinel at index 0.
func (p *ConstantPool) Int(index uint32) int32 {
	if index == 0 || int(index) >= len(p.Integers) {
		return 0
	}
	return p.Integers[index]
}

// UInt returns the unsigned integer at index, or the default sentinel.
func (p *ConstantPool) UInt(index uint32) uint32 {
	if index == 0 || int(index) >= len(p.UnsignedIntegers) {
		return 0
	}
	return p.UnsignedIntegers[index]
}

// Double returns the double at index, or NaN at index 0.
func (p *ConstantPool) Double(index uint32) float64 {
	if index == 0 || int(index) >= len(p.Doubles) {
		return math.NaN()
	}
	return p.Doubles[index]
}

// String returns the string at index, or AnyName at index 0.
func (p *ConstantPool) String(index uint32) string {
	if index == 0 || int(index) >= len(p.Strings) {
		return AnyName
	}
	return p.Strings[index]
}

// NamespaceAt returns the namespace at index, or the "any" namespace
// sentinel at index 0.
func (p *ConstantPool) NamespaceAt(index uint32) Namespace {
	if index == 0 || int(index) >= len(p.Namespaces) {
		return Namespace{Kind: NamespaceKindPackage, NameIndex: 0}
	}
	return p.Namespaces[index]
}

// NamespaceSetAt returns the namespace set at index, or the empty set at
// index 0.
func (p *ConstantPool) NamespaceSetAt(index uint32) NamespaceSet {
	if index == 0 || int(index) >= len(p.NamespaceSets) {
		return NamespaceSet{}
	}
	return p.NamespaceSets[index]
}

// MultinameAt returns the multiname at index, or the "any" multiname
// sentinel at index 0.
func (p *ConstantPool) MultinameAt(index uint32) Multiname {
	if index == 0 || int(index) >= len(p.Multinames) {
		return Multiname{Kind: MultinameKindMultinameL}
	}
	return p.Multinames[index]
}

// NamespaceName resolves a namespace's string name through the pool.
func (p *ConstantPool) NamespaceName(ns Namespace) string {
	return p.String(ns.NameIndex)
}

// MultinameName resolves a multiname's local-name component for
// display purposes (disassembly, tracing): the QName(A)/RTQName(A)/
// Multiname(A) kinds all carry a compile-time NameIndex; the
// runtime-named kinds (RTQNameL, MultinameL and their attribute forms)
// have no compile-time name to show.
func (p *ConstantPool) MultinameName(index uint32) string {
	m := p.MultinameAt(index)
	if m.IsRuntimeName() {
		return "<runtime name>"
	}
	return p.String(m.NameIndex)
}

func decodeConstantPool(r *abcbyte.Reader) (*ConstantPool, error) {
	pool := &ConstantPool{}
	var err error

	if pool.Integers, err = readCountedDefaulted(r, int32(0), readVarInt32); err != nil {
		return nil, err
	}
	if pool.UnsignedIntegers, err = readCountedDefaulted(r, uint32(0), readVarUint32); err != nil {
		return nil, err
	}
	if pool.Doubles, err = readCountedDefaulted(r, math.NaN(), (*abcbyte.Reader).ReadDouble); err != nil {
		return nil, err
	}
	if pool.Strings, err = readCountedDefaulted(r, AnyName, readPoolString); err != nil {
		return nil, err
	}
	if pool.Namespaces, err = readCountedDefaulted(r, Namespace{}, decodeNamespace); err != nil {
		return nil, err
	}
	if pool.NamespaceSets, err = readCountedDefaulted(r, NamespaceSet{}, decodeNamespaceSet); err != nil {
		return nil, err
	}
	if pool.Multinames, err = readCountedDefaulted(r, Multiname{}, decodeMultiname); err != nil {
		return nil, err
	}
	return pool, nil
}

func readVarInt32(r *abcbyte.Reader) (int32, error)  { return r.ReadVarInt32() }
func readVarUint32(r *abcbyte.Reader) (uint32, error) { return r.ReadVarUint32() }
func readPoolString(r *abcbyte.Reader) (string, error) { return r.ReadString() }

// readCountedDefaulted reads a count-prefixed array where the count
// includes the reserved index-0 slot: n-1 entries are read for a count
// of n, filling slots 1..n-1, and the slot at index 0 is set to def. This mirrors ABC's
// constant-pool table layout, where a count of 0 or 1 means "only the
// default".
func readCountedDefaulted[T any](r *abcbyte.Reader, def T, readOne func(*abcbyte.Reader) (T, error)) ([]T, error) {
	count, err := r.ReadVarUint32()
	if err != nil {
		return nil, newDecodeError(r.Position(), err, "constant pool count")
	}
	out := make([]T, count)
	if count > 0 {
		out[0] = def
	}
	for i := uint32(1); i < count; i++ {
		v, err := readOne(r)
		if err != nil {
			return nil, newDecodeError(r.Position(), err, "constant pool entry %d", i)
		}
		out[i] = v
	}
	return out, nil
}
