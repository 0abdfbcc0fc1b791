package abc

import "github.com/avm2run/avm2/abcbyte"

// Trait is a declared member of an instance, class, script, or method
// body. Kind selects which of the Slot/Class/Function/Method payload
// fields is populated.
type Trait struct {
	NameIndex  uint32
	Kind       TraitKind
	Attributes TraitAttributes

	Slot     TraitSlotValue
	Class    TraitClassValue
	Function TraitFunctionValue
	Method   TraitMethodValue

	MetadataIndices []uint32 // only set when Attributes has TraitAttrMetadata
}

// TraitSlotValue is the payload for TraitSlot and TraitConst kinds.
type TraitSlotValue struct {
	SlotID        uint32
	TypeNameIndex uint32
	ValueIndex    uint32
	ValueKind     ConstantKind // only meaningful when ValueIndex != 0
}

// TraitClassValue is the payload for TraitClass kind traits (a nested class).
type TraitClassValue struct {
	SlotID     uint32
	ClassIndex uint32
}

// TraitFunctionValue is the payload for TraitFunction kind traits (a
// nested function).
type TraitFunctionValue struct {
	SlotID        uint32
	FunctionIndex uint32
}

// TraitMethodValue is the payload shared by TraitMethod, TraitGetter
// and TraitSetter kinds.
type TraitMethodValue struct {
	DispositionID uint32
	MethodIndex   uint32
}

func decodeTrait(r *abcbyte.Reader) (Trait, error) {
	var t Trait
	var err error
	if t.NameIndex, err = r.ReadVarUint32(); err != nil {
		return Trait{}, err
	}
	kindByte, err := r.ReadU8()
	if err != nil {
		return Trait{}, err
	}
	t.Kind = TraitKind(kindByte & 0x0F)
	t.Attributes = TraitAttributes(kindByte >> 4)

	switch t.Kind {
	case TraitSlot, TraitConst:
		if t.Slot, err = decodeTraitSlot(r); err != nil {
			return Trait{}, err
		}
	case TraitClass:
		if t.Class, err = decodeTraitClass(r); err != nil {
			return Trait{}, err
		}
	case TraitFunction:
		if t.Function, err = decodeTraitFunction(r); err != nil {
			return Trait{}, err
		}
	case TraitMethod, TraitGetter, TraitSetter:
		if t.Method, err = decodeTraitMethod(r); err != nil {
			return Trait{}, err
		}
	default:
		return Trait{}, newDecodeError(r.Position(), nil, "unknown trait kind %d", t.Kind)
	}

	if t.Attributes.Has(TraitAttrMetadata) {
		if t.MetadataIndices, err = readVarUintArray(r); err != nil {
			return Trait{}, err
		}
	}
	return t, nil
}

func decodeTraitSlot(r *abcbyte.Reader) (TraitSlotValue, error) {
	var s TraitSlotValue
	var err error
	if s.SlotID, err = r.ReadVarUint32(); err != nil {
		return s, err
	}
	if s.TypeNameIndex, err = r.ReadVarUint32(); err != nil {
		return s, err
	}
	if s.ValueIndex, err = r.ReadVarUint32(); err != nil {
		return s, err
	}
	if s.ValueIndex != 0 {
		kind, err := r.ReadU8()
		if err != nil {
			return s, err
		}
		s.ValueKind = ConstantKind(kind)
	}
	return s, nil
}

func decodeTraitClass(r *abcbyte.Reader) (TraitClassValue, error) {
	var c TraitClassValue
	var err error
	if c.SlotID, err = r.ReadVarUint32(); err != nil {
		return c, err
	}
	if c.ClassIndex, err = r.ReadVarUint32(); err != nil {
		return c, err
	}
	return c, nil
}

func decodeTraitFunction(r *abcbyte.Reader) (TraitFunctionValue, error) {
	var f TraitFunctionValue
	var err error
	if f.SlotID, err = r.ReadVarUint32(); err != nil {
		return f, err
	}
	if f.FunctionIndex, err = r.ReadVarUint32(); err != nil {
		return f, err
	}
	return f, nil
}

func decodeTraitMethod(r *abcbyte.Reader) (TraitMethodValue, error) {
	var m TraitMethodValue
	var err error
	if m.DispositionID, err = r.ReadVarUint32(); err != nil {
		return m, err
	}
	if m.MethodIndex, err = r.ReadVarUint32(); err != nil {
		return m, err
	}
	return m, nil
}

func decodeTraits(r *abcbyte.Reader) ([]Trait, error) {
	count, err := r.ReadVarUint32()
	if err != nil {
		return nil, err
	}
	out := make([]Trait, count)
	for i := range out {
		if out[i], err = decodeTrait(r); err != nil {
			return nil, newDecodeError(r.Position(), err, "trait %d", i)
		}
	}
	return out, nil
}
