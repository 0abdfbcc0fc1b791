package abc

import "github.com/avm2run/avm2/abcbyte"

// Method is an ASMethod entry in the method table: a signature shared by
// every method body, function closure, and class initializer that refers
// to it by index.
type Method struct {
	ParamCount       uint32
	ReturnTypeIndex  uint32
	ParamTypeIndices []uint32
	NameIndex        uint32
	Flags            MethodFlags
	Options          []OptionDetail // present iff Flags has MethodHasOptional
	ParamNameIndices []uint32       // present iff Flags has MethodHasParamNames
}

// OptionDetail is one entry of a method's default-value list for
// optional trailing parameters.
type OptionDetail struct {
	ValueIndex uint32
	Kind       ConstantKind
}

func decodeMethod(r *abcbyte.Reader) (Method, error) {
	var m Method
	var err error
	if m.ParamCount, err = r.ReadVarUint32(); err != nil {
		return Method{}, err
	}
	if m.ReturnTypeIndex, err = r.ReadVarUint32(); err != nil {
		return Method{}, err
	}
	m.ParamTypeIndices = make([]uint32, m.ParamCount)
	for i := range m.ParamTypeIndices {
		if m.ParamTypeIndices[i], err = r.ReadVarUint32(); err != nil {
			return Method{}, err
		}
	}
	if m.NameIndex, err = r.ReadVarUint32(); err != nil {
		return Method{}, err
	}
	flags, err := r.ReadU8()
	if err != nil {
		return Method{}, err
	}
	m.Flags = MethodFlags(flags)

	if m.Flags.Has(MethodHasOptional) {
		count, err := r.ReadVarUint32()
		if err != nil {
			return Method{}, err
		}
		m.Options = make([]OptionDetail, count)
		for i := range m.Options {
			if m.Options[i].ValueIndex, err = r.ReadVarUint32(); err != nil {
				return Method{}, err
			}
			kind, err := r.ReadU8()
			if err != nil {
				return Method{}, err
			}
			m.Options[i].Kind = ConstantKind(kind)
		}
	}
	if m.Flags.Has(MethodHasParamNames) {
		m.ParamNameIndices = make([]uint32, m.ParamCount)
		for i := range m.ParamNameIndices {
			if m.ParamNameIndices[i], err = r.ReadVarUint32(); err != nil {
				return Method{}, err
			}
		}
	}
	return m, nil
}

func decodeMethods(r *abcbyte.Reader) ([]Method, error) {
	count, err := r.ReadVarUint32()
	if err != nil {
		return nil, err
	}
	out := make([]Method, count)
	for i := range out {
		if out[i], err = decodeMethod(r); err != nil {
			return nil, newDecodeError(r.Position(), err, "method %d", i)
		}
	}
	return out, nil
}

// Metadata is a named bag of key/value string pairs attached via the
// METADATA trait attribute.
type Metadata struct {
	NameIndex uint32
	Items     []MetadataItem
}

// MetadataItem is one key/value entry of a Metadata bag.
type MetadataItem struct {
	KeyIndex   uint32
	ValueIndex uint32
}

func decodeMetadataEntry(r *abcbyte.Reader) (Metadata, error) {
	var md Metadata
	var err error
	if md.NameIndex, err = r.ReadVarUint32(); err != nil {
		return Metadata{}, err
	}
	count, err := r.ReadVarUint32()
	if err != nil {
		return Metadata{}, err
	}
	md.Items = make([]MetadataItem, count)
	for i := range md.Items {
		if md.Items[i].KeyIndex, err = r.ReadVarUint32(); err != nil {
			return Metadata{}, err
		}
		if md.Items[i].ValueIndex, err = r.ReadVarUint32(); err != nil {
			return Metadata{}, err
		}
	}
	return md, nil
}

func decodeMetadataTable(r *abcbyte.Reader) ([]Metadata, error) {
	count, err := r.ReadVarUint32()
	if err != nil {
		return nil, err
	}
	out := make([]Metadata, count)
	for i := range out {
		if out[i], err = decodeMetadataEntry(r); err != nil {
			return nil, newDecodeError(r.Position(), err, "metadata %d", i)
		}
	}
	return out, nil
}
