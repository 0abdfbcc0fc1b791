package abc

import "github.com/avm2run/avm2/abcbyte"

// Multiname is a late-bound name carrying zero or more candidate
// namespaces plus (usually) a local name, with the static/runtime
// components determined by Kind.
type Multiname struct {
	Kind MultinameKind

	NamespaceIndex    uint32   // QName, QNameA
	NameIndex         uint32   // QName(A), RTQName(A), Multiname(A)
	NamespaceSetIndex uint32   // Multiname(A), MultinameL(A)
	QNameIndex        uint32   // TypeName
	TypeArgIndices    []uint32 // TypeName
}

// IsRuntimeName reports whether the name component is supplied at
// runtime (popped off the operand stack) rather than resolved at decode
// time.
func (m Multiname) IsRuntimeName() bool {
	switch m.Kind {
	case MultinameKindRTQNameL, MultinameKindRTQNameLA, MultinameKindMultinameL, MultinameKindMultinameLA:
		return true
	default:
		return false
	}
}

// IsRuntimeNamespace reports whether the namespace component is supplied
// at runtime.
func (m Multiname) IsRuntimeNamespace() bool {
	switch m.Kind {
	case MultinameKindRTQName, MultinameKindRTQNameA, MultinameKindRTQNameL, MultinameKindRTQNameLA:
		return true
	default:
		return false
	}
}

// HasNamespaceSet reports whether namespace resolution must scan a set
// of candidate namespaces rather than a single resolved one.
func (m Multiname) HasNamespaceSet() bool {
	switch m.Kind {
	case MultinameKindMultiname, MultinameKindMultinameA, MultinameKindMultinameL, MultinameKindMultinameLA:
		return true
	default:
		return false
	}
}

// IsAttribute reports whether the multiname addresses an XML attribute
// (the "A" suffixed kinds).
func (m Multiname) IsAttribute() bool {
	switch m.Kind {
	case MultinameKindQNameA, MultinameKindRTQNameA, MultinameKindRTQNameLA, MultinameKindMultinameA, MultinameKindMultinameLA:
		return true
	default:
		return false
	}
}

func decodeMultiname(r *abcbyte.Reader) (Multiname, error) {
	kindByte, err := r.ReadU8()
	if err != nil {
		return Multiname{}, err
	}
	m := Multiname{Kind: MultinameKind(kindByte)}
	switch m.Kind {
	case MultinameKindQName, MultinameKindQNameA:
		if m.NamespaceIndex, err = r.ReadVarUint32(); err != nil {
			return Multiname{}, err
		}
		if m.NameIndex, err = r.ReadVarUint32(); err != nil {
			return Multiname{}, err
		}
	case MultinameKindRTQName, MultinameKindRTQNameA:
		if m.NameIndex, err = r.ReadVarUint32(); err != nil {
			return Multiname{}, err
		}
	case MultinameKindRTQNameL, MultinameKindRTQNameLA:
		// Both namespace and name are supplied at runtime; no fields here.
	case MultinameKindMultiname, MultinameKindMultinameA:
		if m.NameIndex, err = r.ReadVarUint32(); err != nil {
			return Multiname{}, err
		}
		if m.NamespaceSetIndex, err = r.ReadVarUint32(); err != nil {
			return Multiname{}, err
		}
	case MultinameKindMultinameL, MultinameKindMultinameLA:
		if m.NamespaceSetIndex, err = r.ReadVarUint32(); err != nil {
			return Multiname{}, err
		}
	case MultinameKindTypeName:
		if m.QNameIndex, err = r.ReadVarUint32(); err != nil {
			return Multiname{}, err
		}
		if m.TypeArgIndices, err = readVarUintArray(r); err != nil {
			return Multiname{}, err
		}
	default:
		return Multiname{}, newDecodeError(r.Position(), nil, "unknown multiname kind %#x", kindByte)
	}
	return m, nil
}
