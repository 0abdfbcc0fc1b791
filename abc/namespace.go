package abc

import "github.com/avm2run/avm2/abcbyte"

// Namespace is a kind-tagged string used to disambiguate otherwise
// identical names.
type Namespace struct {
	Kind      NamespaceKind
	NameIndex uint32
}

func decodeNamespace(r *abcbyte.Reader) (Namespace, error) {
	kind, err := r.ReadU8()
	if err != nil {
		return Namespace{}, err
	}
	nameIndex, err := r.ReadVarUint32()
	if err != nil {
		return Namespace{}, err
	}
	return Namespace{Kind: NamespaceKind(kind), NameIndex: nameIndex}, nil
}

// NamespaceSet is an unordered set of namespace constant-pool indices,
// searched in the order listed when resolving a Multiname.
type NamespaceSet struct {
	Namespaces []uint32
}

func decodeNamespaceSet(r *abcbyte.Reader) (NamespaceSet, error) {
	indices, err := readVarUintArray(r)
	if err != nil {
		return NamespaceSet{}, err
	}
	return NamespaceSet{Namespaces: indices}, nil
}

func readVarUintArray(r *abcbyte.Reader) ([]uint32, error) {
	count, err := r.ReadVarUint32()
	if err != nil {
		return nil, err
	}
	out := make([]uint32, count)
	for i := range out {
		v, err := r.ReadVarUint32()
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}
