package vm

import (
	"fmt"

	"github.com/avm2run/avm2/abc"
	"github.com/avm2run/avm2/avmvalue"
)

// Program is a linked, ready-to-run view over a decoded ABC file: fast
// lookup from method index to its body, computed once at load time
// instead of scanned per call, and a cache of class-objects by class
// index, filled by newclass as each class is first created.
type Program struct {
	File *abc.File

	methodBodyByMethod map[uint32]int
	classCache         map[int]*ClassObject
}

// ClassObject is the materialized runtime counterpart of an abc.Class +
// abc.Instance pair: the cached class-object newclass produces.
type ClassObject struct {
	ClassIndex    int
	QualifiedName string
	Object        *avmvalue.Object
}

// Link builds a Program from a decoded ABC file, indexing method
// bodies by method index for O(1) lookup during call dispatch.
func Link(f *abc.File) (*Program, error) {
	p := &Program{
		File:               f,
		methodBodyByMethod: make(map[uint32]int, len(f.MethodBodies)),
		classCache:         make(map[int]*ClassObject),
	}
	for i, body := range f.MethodBodies {
		p.methodBodyByMethod[body.MethodIndex] = i
	}
	return p, nil
}

// BodyForMethod returns the method body bound to methodIndex, if the
// method has one (native methods do not).
func (p *Program) BodyForMethod(methodIndex uint32) (*abc.MethodBody, bool) {
	i, ok := p.methodBodyByMethod[methodIndex]
	if !ok {
		return nil, false
	}
	return &p.File.MethodBodies[i], true
}

func (p *Program) method(index uint32) (*abc.Method, error) {
	if int(index) >= len(p.File.Methods) {
		return nil, fmt.Errorf("method index %d out of range", index)
	}
	return &p.File.Methods[index], nil
}
