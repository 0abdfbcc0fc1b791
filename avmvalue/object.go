package avmvalue

import "fmt"

// QName is the runtime key a property is stored and looked up under: a
// resolved namespace name paired with a local name. The empty
// namespace ("") is the public namespace.
type QName struct {
	Namespace string
	Name      string
}

func (q QName) String() string {
	if q.Namespace == "" {
		return q.Name
	}
	return q.Namespace + "::" + q.Name
}

// FunctionKind selects which of an Object's call variants Call and
// Construct dispatch to.
type FunctionKind uint8

const (
	FunctionNone FunctionKind = iota
	FunctionBytecode
	FunctionHost
	FunctionClass
)

// BytecodeFunction is the AVM2 representation of a method body bound to
// its originating class index, resolved lazily by the vm package at
// call time rather than stored here as an opaque pointer, to keep this
// package free of a dependency on the abc or vm packages.
type BytecodeFunction struct {
	MethodIndex uint32
	ClassIndex  int // -1 if not a class member
}

// HostFunction is a built-in implemented in Go. Receiver is the `this`
// binding already resolved to a Value by the caller.
type HostFunction func(receiver Value, args []Value) (Value, error)

// Object is the single backing representation for every AVM2 reference
// type: plain objects, class instances, Array/String wrapper objects,
// function closures, and class objects themselves. Which fields are
// meaningful is determined by the combination of ClassName and
// FunctionKind.
type Object struct {
	ClassName string
	Props     map[QName]Value

	// Indexed storage backs Array objects; the vm's getproperty and
	// setproperty use it instead of Props for a numeric name when
	// ClassName is "Array".
	Elements []Value

	FunctionKind FunctionKind
	Bytecode     *BytecodeFunction
	Host         HostFunction

	// Prototype is the object searched when a property lookup misses
	// Props, mirroring the prototype chain fallback used for dynamic
	// property resolution.
	Prototype *Object
}

// NewObject creates a plain dynamic object of the given class name.
func NewObject(className string) *Object {
	return &Object{ClassName: className, Props: make(map[QName]Value)}
}

// NewArray creates an Array-backed object with initial elements.
func NewArray(elements []Value) *Object {
	return &Object{ClassName: "Array", Props: make(map[QName]Value), Elements: append([]Value(nil), elements...)}
}

// NewBytecodeFunction wraps a method body reference as a callable
// object.
func NewBytecodeFunction(methodIndex uint32, classIndex int) *Object {
	return &Object{
		ClassName:    "Function",
		Props:        make(map[QName]Value),
		FunctionKind: FunctionBytecode,
		Bytecode:     &BytecodeFunction{MethodIndex: methodIndex, ClassIndex: classIndex},
	}
}

// NewHostFunction wraps a Go closure as a callable object.
func NewHostFunction(name string, fn HostFunction) *Object {
	return &Object{ClassName: name, Props: make(map[QName]Value), FunctionKind: FunctionHost, Host: fn}
}

// GetProperty looks up a named property, falling back to the prototype
// chain, then to Undefined. It does not perform indexed-element
// fallback for Array objects; callers needing array semantics read
// Elements directly when the name is a valid array index.
func (o *Object) GetProperty(key QName) Value {
	for cur := o; cur != nil; cur = cur.Prototype {
		if v, ok := cur.Props[key]; ok {
			return v
		}
	}
	return Undefined
}

// SetProperty stores a value under key, creating the Props map if
// necessary.
func (o *Object) SetProperty(key QName, v Value) {
	if o.Props == nil {
		o.Props = make(map[QName]Value)
	}
	o.Props[key] = v
}

// HasProperty reports whether key resolves somewhere along the
// prototype chain.
func (o *Object) HasProperty(key QName) bool {
	for cur := o; cur != nil; cur = cur.Prototype {
		if _, ok := cur.Props[key]; ok {
			return true
		}
	}
	return false
}

// DeleteProperty removes key from this object only (not the prototype
// chain), reporting whether it was present.
func (o *Object) DeleteProperty(key QName) bool {
	if _, ok := o.Props[key]; ok {
		delete(o.Props, key)
		return true
	}
	return false
}

// IsCallable reports whether the object can be used as the target of a
// call instruction.
func (o *Object) IsCallable() bool {
	return o.FunctionKind != FunctionNone
}

func (o *Object) String() string {
	return fmt.Sprintf("[object %s]", o.ClassName)
}
