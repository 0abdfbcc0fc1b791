package abc

import "github.com/avm2run/avm2/abcbyte"

// MethodBody is the executable half of a method: its register/stack
// sizing, raw code bytes, exception table, and body-local traits
// (activation slots).
type MethodBody struct {
	MethodIndex    uint32
	MaxStack       uint32
	LocalCount     uint32
	InitScopeDepth uint32
	MaxScopeDepth  uint32
	Code           []byte
	Exceptions     []Exception
	Traits         []Trait
}

// Exception is one entry of a method body's exception table: the byte
// range [From, To) that is protected, the handler entry point Target,
// and the declared catch type and bound variable name.
type Exception struct {
	From          uint32
	To            uint32
	Target        uint32
	ExcTypeIndex  uint32
	VarNameIndex  uint32
}

func decodeException(r *abcbyte.Reader) (Exception, error) {
	var e Exception
	var err error
	if e.From, err = r.ReadVarUint32(); err != nil {
		return Exception{}, err
	}
	if e.To, err = r.ReadVarUint32(); err != nil {
		return Exception{}, err
	}
	if e.Target, err = r.ReadVarUint32(); err != nil {
		return Exception{}, err
	}
	if e.ExcTypeIndex, err = r.ReadVarUint32(); err != nil {
		return Exception{}, err
	}
	if e.VarNameIndex, err = r.ReadVarUint32(); err != nil {
		return Exception{}, err
	}
	return e, nil
}

func decodeExceptions(r *abcbyte.Reader) ([]Exception, error) {
	count, err := r.ReadVarUint32()
	if err != nil {
		return nil, err
	}
	out := make([]Exception, count)
	for i := range out {
		if out[i], err = decodeException(r); err != nil {
			return nil, newDecodeError(r.Position(), err, "exception %d", i)
		}
	}
	return out, nil
}

func decodeMethodBody(r *abcbyte.Reader) (MethodBody, error) {
	var b MethodBody
	var err error
	if b.MethodIndex, err = r.ReadVarUint32(); err != nil {
		return MethodBody{}, err
	}
	if b.MaxStack, err = r.ReadVarUint32(); err != nil {
		return MethodBody{}, err
	}
	if b.LocalCount, err = r.ReadVarUint32(); err != nil {
		return MethodBody{}, err
	}
	if b.InitScopeDepth, err = r.ReadVarUint32(); err != nil {
		return MethodBody{}, err
	}
	if b.MaxScopeDepth, err = r.ReadVarUint32(); err != nil {
		return MethodBody{}, err
	}
	codeLen, err := r.ReadVarUint32()
	if err != nil {
		return MethodBody{}, err
	}
	if b.Code, err = r.ReadBytes(int(codeLen)); err != nil {
		return MethodBody{}, err
	}
	if b.Exceptions, err = decodeExceptions(r); err != nil {
		return MethodBody{}, err
	}
	if b.Traits, err = decodeTraits(r); err != nil {
		return MethodBody{}, err
	}
	return b, nil
}

func decodeMethodBodies(r *abcbyte.Reader) ([]MethodBody, error) {
	count, err := r.ReadVarUint32()
	if err != nil {
		return nil, err
	}
	out := make([]MethodBody, count)
	for i := range out {
		if out[i], err = decodeMethodBody(r); err != nil {
			return nil, newDecodeError(r.Position(), err, "method body %d", i)
		}
	}
	return out, nil
}
