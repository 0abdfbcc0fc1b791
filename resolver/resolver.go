// Package resolver implements AVM2 multiname resolution: turning a
// constant-pool multiname, possibly completed by runtime operand-stack
// components, into a concrete owner object and (namespace, name) pair
// by searching a scope chain innermost-first.
package resolver

import (
	"fmt"

	"github.com/avm2run/avm2/abc"
	"github.com/avm2run/avm2/avmvalue"
)

// NotFoundError is returned by Strict when no scope-chain entry
// contains a matching property. Callers map it to a ReferenceError at
// the instruction level.
type NotFoundError struct {
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("reference error: property %q not found", e.Name)
}

// Identifiers is the (name, candidate namespaces) pair a multiname
// resolves to once any runtime-supplied components have been read off
// the operand stack. A static QName resolves to exactly one namespace
// candidate; a namespace-set multiname resolves to the set's members in
// declared order.
type Identifiers struct {
	Name       string
	Namespaces []string
}

// Popper supplies operand-stack values to runtime multiname components,
// in the order the multiname's runtime fields are declared (namespace
// before name, when both are runtime). It is satisfied by a one-line
// closure over the caller's operand stack, keeping this package free of
// a dependency on the vm package's stack implementation.
type Popper func() avmvalue.Value

// ResolveIdentifiers extracts the (name, namespace candidates) pair for
// multiname, popping its runtime components from pop in declared order:
// namespace first, then name, matching the ABC encoding order used by
// RTQNameL/RTQNameLA/MultinameL/MultinameLA.
func ResolveIdentifiers(pool *abc.ConstantPool, pop Popper, m abc.Multiname) Identifiers {
	var ids Identifiers

	switch m.Kind {
	case abc.MultinameKindQName, abc.MultinameKindQNameA:
		ns := pool.NamespaceAt(m.NamespaceIndex)
		ids.Name = pool.String(m.NameIndex)
		ids.Namespaces = []string{pool.NamespaceName(ns)}

	case abc.MultinameKindRTQName, abc.MultinameKindRTQNameA:
		nsVal := pop()
		ids.Name = pool.String(m.NameIndex)
		ids.Namespaces = []string{avmvalue.ToStringValue(nsVal)}

	case abc.MultinameKindRTQNameL, abc.MultinameKindRTQNameLA:
		nsVal := pop()
		nameVal := pop()
		ids.Name = avmvalue.ToStringValue(nameVal)
		ids.Namespaces = []string{avmvalue.ToStringValue(nsVal)}

	case abc.MultinameKindMultiname, abc.MultinameKindMultinameA:
		ids.Name = pool.String(m.NameIndex)
		ids.Namespaces = namespaceSetNames(pool, m.NamespaceSetIndex)

	case abc.MultinameKindMultinameL, abc.MultinameKindMultinameLA:
		nameVal := pop()
		ids.Name = avmvalue.ToStringValue(nameVal)
		ids.Namespaces = namespaceSetNames(pool, m.NamespaceSetIndex)

	default:
		ids.Name = pool.String(m.NameIndex)
		ids.Namespaces = []string{""}
	}
	return ids
}

func namespaceSetNames(pool *abc.ConstantPool, setIndex uint32) []string {
	set := pool.NamespaceSetAt(setIndex)
	names := make([]string, len(set.Namespaces))
	for i, nsIdx := range set.Namespaces {
		names[i] = pool.NamespaceName(pool.NamespaceAt(nsIdx))
	}
	return names
}

// Scope is one entry of the search list passed to Resolve: the scope
// chain augmented with the receiver (registers[0]) and the global
// object, innermost first. IsWith marks `with`-scopes, which expose
// their dynamic properties in addition to declared traits; ordinary
// scopes expose declared traits only.
type Scope struct {
	Object *avmvalue.Object
	IsWith bool
}

// Resolve scans searchList innermost-first; for each entry, it tries
// each candidate namespace in order and returns the first entry whose
// object has a matching property. Non-with scopes are still searched
// via Object.HasProperty, since declared traits are materialized as
// ordinary properties on the scope object by the vm package at scope
// push time — only dynamic-property creation is gated by IsWith at
// write time, not lookup time.
func Resolve(searchList []Scope, ids Identifiers) (owner *avmvalue.Object, namespace string, found bool) {
	for _, scope := range searchList {
		if scope.Object == nil {
			continue
		}
		for _, ns := range ids.Namespaces {
			key := avmvalue.QName{Namespace: ns, Name: ids.Name}
			if scope.Object.HasProperty(key) {
				return scope.Object, ns, true
			}
		}
	}
	return nil, "", false
}

// Strict resolves ids against searchList, returning a *NotFoundError
// when no scope entry matches. Used by findpropstrict and getlex.
func Strict(searchList []Scope, ids Identifiers) (*avmvalue.Object, string, error) {
	owner, ns, ok := Resolve(searchList, ids)
	if !ok {
		return nil, "", &NotFoundError{Name: ids.Name}
	}
	return owner, ns, nil
}

// Lenient resolves ids against searchList, falling back to fallback
// when nothing matches. Used by findproperty (fallback: global object)
// and getproperty (fallback: undefined, represented by a nil owner).
func Lenient(searchList []Scope, ids Identifiers, fallback *avmvalue.Object) *avmvalue.Object {
	owner, _, ok := Resolve(searchList, ids)
	if !ok {
		return fallback
	}
	return owner
}
