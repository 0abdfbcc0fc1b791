// Package host implements the built-in class library the vm package
// consults whenever executed bytecode calls into a native method
// instead of one described by a method body: Object, String, Array,
// and Math.
package host

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/avm2run/avm2/avmvalue"
)

// Registry resolves calls against native (non-bytecode) methods. The vm
// package consults it whenever a resolved property turns out not to be
// backed by a method body.
type Registry interface {
	// Call invokes className.methodName with receiver and args, the way
	// callproperty and its relatives would, returning the built-in's
	// result or an error if no such native method is registered.
	Call(className, methodName string, receiver avmvalue.Value, args []avmvalue.Value) (avmvalue.Value, error)
	// Has reports whether className.methodName resolves to a native
	// method, so the vm package can decide whether to fall through to
	// bytecode dispatch first.
	Has(className, methodName string) bool
}

type nativeMethod func(receiver avmvalue.Value, args []avmvalue.Value) (avmvalue.Value, error)

// DefaultRegistry is the reference Registry implementation covering the
// small slice of ActionScript's built-in library that bytecode produced
// by typical compilers exercises directly: Object.toString/hasOwnProperty,
// String's indexing and search methods, Array's push/pop/join/slice/sort,
// and the Math static namespace.
type DefaultRegistry struct {
	methods map[string]nativeMethod
}

// NewDefaultRegistry builds a DefaultRegistry with every built-in
// method wired in.
func NewDefaultRegistry() *DefaultRegistry {
	r := &DefaultRegistry{methods: make(map[string]nativeMethod)}
	r.registerObject()
	r.registerString()
	r.registerArray()
	r.registerMath()
	return r
}

func key(className, methodName string) string { return className + "." + methodName }

// Has reports whether className.methodName is registered.
func (r *DefaultRegistry) Has(className, methodName string) bool {
	_, ok := r.methods[key(className, methodName)]
	return ok
}

// Call invokes the registered native method, or reports an error if
// none matches.
func (r *DefaultRegistry) Call(className, methodName string, receiver avmvalue.Value, args []avmvalue.Value) (avmvalue.Value, error) {
	fn, ok := r.methods[key(className, methodName)]
	if !ok {
		return avmvalue.Undefined, fmt.Errorf("no native method %s.%s", className, methodName)
	}
	return fn(receiver, args)
}

func (r *DefaultRegistry) registerObject() {
	r.methods[key("Object", "toString")] = func(receiver avmvalue.Value, _ []avmvalue.Value) (avmvalue.Value, error) {
		return avmvalue.String(avmvalue.ToStringValue(receiver)), nil
	}
	r.methods[key("Object", "hasOwnProperty")] = func(receiver avmvalue.Value, args []avmvalue.Value) (avmvalue.Value, error) {
		o := receiver.Object()
		if o == nil || len(args) == 0 {
			return avmvalue.Bool(false), nil
		}
		name := avmvalue.ToStringValue(args[0])
		_, ok := o.Props[avmvalue.QName{Name: name}]
		return avmvalue.Bool(ok), nil
	}
}

func (r *DefaultRegistry) registerString() {
	r.methods[key("String", "charAt")] = func(receiver avmvalue.Value, args []avmvalue.Value) (avmvalue.Value, error) {
		s := []rune(avmvalue.ToStringValue(receiver))
		idx := 0
		if len(args) > 0 {
			idx = int(avmvalue.ToInt32(args[0]))
		}
		if idx < 0 || idx >= len(s) {
			return avmvalue.String(""), nil
		}
		return avmvalue.String(string(s[idx])), nil
	}
	r.methods[key("String", "charCodeAt")] = func(receiver avmvalue.Value, args []avmvalue.Value) (avmvalue.Value, error) {
		s := []rune(avmvalue.ToStringValue(receiver))
		idx := 0
		if len(args) > 0 {
			idx = int(avmvalue.ToInt32(args[0]))
		}
		if idx < 0 || idx >= len(s) {
			return avmvalue.Double(math.NaN()), nil
		}
		return avmvalue.Double(float64(s[idx])), nil
	}
	r.methods[key("String", "indexOf")] = func(receiver avmvalue.Value, args []avmvalue.Value) (avmvalue.Value, error) {
		if len(args) == 0 {
			return avmvalue.Int32(-1), nil
		}
		s := avmvalue.ToStringValue(receiver)
		sub := avmvalue.ToStringValue(args[0])
		return avmvalue.Int32(int32(strings.Index(s, sub))), nil
	}
	r.methods[key("String", "split")] = func(receiver avmvalue.Value, args []avmvalue.Value) (avmvalue.Value, error) {
		s := avmvalue.ToStringValue(receiver)
		sep := ""
		if len(args) > 0 {
			sep = avmvalue.ToStringValue(args[0])
		}
		var parts []string
		if sep == "" {
			for _, r := range s {
				parts = append(parts, string(r))
			}
		} else {
			parts = strings.Split(s, sep)
		}
		values := make([]avmvalue.Value, len(parts))
		for i, p := range parts {
			values[i] = avmvalue.String(p)
		}
		return avmvalue.FromObject(avmvalue.NewArray(values)), nil
	}
	r.methods[key("String", "toUpperCase")] = func(receiver avmvalue.Value, _ []avmvalue.Value) (avmvalue.Value, error) {
		return avmvalue.String(strings.ToUpper(avmvalue.ToStringValue(receiver))), nil
	}
	r.methods[key("String", "toLowerCase")] = func(receiver avmvalue.Value, _ []avmvalue.Value) (avmvalue.Value, error) {
		return avmvalue.String(strings.ToLower(avmvalue.ToStringValue(receiver))), nil
	}
	r.methods[key("String", "substring")] = func(receiver avmvalue.Value, args []avmvalue.Value) (avmvalue.Value, error) {
		s := []rune(avmvalue.ToStringValue(receiver))
		start, end := 0, len(s)
		if len(args) > 0 {
			start = clampIndex(int(avmvalue.ToInt32(args[0])), len(s))
		}
		if len(args) > 1 {
			end = clampIndex(int(avmvalue.ToInt32(args[1])), len(s))
		}
		if start > end {
			start, end = end, start
		}
		return avmvalue.String(string(s[start:end])), nil
	}
}

func clampIndex(i, length int) int {
	if i < 0 {
		return 0
	}
	if i > length {
		return length
	}
	return i
}

func (r *DefaultRegistry) registerArray() {
	r.methods[key("Array", "push")] = func(receiver avmvalue.Value, args []avmvalue.Value) (avmvalue.Value, error) {
		o := receiver.Object()
		if o == nil {
			return avmvalue.Undefined, fmt.Errorf("Array.push on non-object")
		}
		o.Elements = append(o.Elements, args...)
		return avmvalue.Int32(int32(len(o.Elements))), nil
	}
	r.methods[key("Array", "pop")] = func(receiver avmvalue.Value, _ []avmvalue.Value) (avmvalue.Value, error) {
		o := receiver.Object()
		if o == nil || len(o.Elements) == 0 {
			return avmvalue.Undefined, nil
		}
		n := len(o.Elements)
		v := o.Elements[n-1]
		o.Elements = o.Elements[:n-1]
		return v, nil
	}
	r.methods[key("Array", "join")] = func(receiver avmvalue.Value, args []avmvalue.Value) (avmvalue.Value, error) {
		o := receiver.Object()
		sep := ","
		if len(args) > 0 {
			sep = avmvalue.ToStringValue(args[0])
		}
		if o == nil {
			return avmvalue.String(""), nil
		}
		parts := make([]string, len(o.Elements))
		for i, v := range o.Elements {
			parts[i] = avmvalue.ToStringValue(v)
		}
		return avmvalue.String(strings.Join(parts, sep)), nil
	}
	r.methods[key("Array", "slice")] = func(receiver avmvalue.Value, args []avmvalue.Value) (avmvalue.Value, error) {
		o := receiver.Object()
		if o == nil {
			return avmvalue.FromObject(avmvalue.NewArray(nil)), nil
		}
		start, end := 0, len(o.Elements)
		if len(args) > 0 {
			start = clampIndex(int(avmvalue.ToInt32(args[0])), len(o.Elements))
		}
		if len(args) > 1 {
			end = clampIndex(int(avmvalue.ToInt32(args[1])), len(o.Elements))
		}
		if start > end {
			start = end
		}
		return avmvalue.FromObject(avmvalue.NewArray(o.Elements[start:end])), nil
	}
	r.methods[key("Array", "sort")] = func(receiver avmvalue.Value, _ []avmvalue.Value) (avmvalue.Value, error) {
		o := receiver.Object()
		if o == nil {
			return receiver, nil
		}
		sort.SliceStable(o.Elements, func(i, j int) bool {
			return avmvalue.ToStringValue(o.Elements[i]) < avmvalue.ToStringValue(o.Elements[j])
		})
		return receiver, nil
	}
}

func (r *DefaultRegistry) registerMath() {
	unary := func(name string, fn func(float64) float64) {
		r.methods[key("Math", name)] = func(_ avmvalue.Value, args []avmvalue.Value) (avmvalue.Value, error) {
			if len(args) == 0 {
				return avmvalue.Double(math.NaN()), nil
			}
			return avmvalue.Double(fn(avmvalue.ToNumber(args[0]))), nil
		}
	}
	unary("abs", math.Abs)
	unary("floor", math.Floor)
	unary("ceil", math.Ceil)
	unary("sqrt", math.Sqrt)
	unary("round", math.Round)

	r.methods[key("Math", "max")] = func(_ avmvalue.Value, args []avmvalue.Value) (avmvalue.Value, error) {
		if len(args) == 0 {
			return avmvalue.Double(math.Inf(-1)), nil
		}
		m := avmvalue.ToNumber(args[0])
		for _, a := range args[1:] {
			m = math.Max(m, avmvalue.ToNumber(a))
		}
		return avmvalue.Double(m), nil
	}
	r.methods[key("Math", "min")] = func(_ avmvalue.Value, args []avmvalue.Value) (avmvalue.Value, error) {
		if len(args) == 0 {
			return avmvalue.Double(math.Inf(1)), nil
		}
		m := avmvalue.ToNumber(args[0])
		for _, a := range args[1:] {
			m = math.Min(m, avmvalue.ToNumber(a))
		}
		return avmvalue.Double(m), nil
	}
	r.methods[key("Math", "pow")] = func(_ avmvalue.Value, args []avmvalue.Value) (avmvalue.Value, error) {
		if len(args) < 2 {
			return avmvalue.Double(math.NaN()), nil
		}
		return avmvalue.Double(math.Pow(avmvalue.ToNumber(args[0]), avmvalue.ToNumber(args[1]))), nil
	}
}
