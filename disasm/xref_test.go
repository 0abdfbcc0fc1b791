package disasm

import (
	"testing"

	"github.com/avm2run/avm2/abc"
	"github.com/avm2run/avm2/vm"
)

func TestBuildMethodRefsResolvesCallTargets(t *testing.T) {
	f := &abc.File{
		ConstantPool: &abc.ConstantPool{
			Strings: []string{abc.AnyName, "doThing"},
			Multinames: []abc.Multiname{
				{Kind: abc.MultinameKindMultinameL},
				{Kind: abc.MultinameKindQName, NameIndex: 1},
			},
		},
		Methods: []abc.Method{{}},
		MethodBodies: []abc.MethodBody{
			{MethodIndex: 0, Code: []byte{
				byte(vm.OpFindPropStrict), 1,
				byte(vm.OpCallProperty), 1, 0,
				byte(vm.OpReturnVoid),
			}},
		},
	}

	refs, err := BuildMethodRefs(f)
	if err != nil {
		t.Fatalf("BuildMethodRefs: %v", err)
	}
	if len(refs) != 1 {
		t.Fatalf("expected 1 method ref, got %d", len(refs))
	}
	if len(refs[0].Calls) != 1 || refs[0].Calls[0] != "doThing" {
		t.Fatalf("expected call to doThing, got %v", refs[0].Calls)
	}
}

func TestBuildMethodRefsHandlesRuntimeName(t *testing.T) {
	f := &abc.File{
		ConstantPool: &abc.ConstantPool{
			Strings:    []string{abc.AnyName},
			Multinames: []abc.Multiname{{Kind: abc.MultinameKindMultinameL}, {Kind: abc.MultinameKindMultinameL}},
		},
		Methods: []abc.Method{{}},
		MethodBodies: []abc.MethodBody{
			{MethodIndex: 0, Code: []byte{byte(vm.OpGetProperty), 1, byte(vm.OpReturnVoid)}},
		},
	}

	refs, err := BuildMethodRefs(f)
	if err != nil {
		t.Fatalf("BuildMethodRefs: %v", err)
	}
	if len(refs[0].Calls) != 1 || refs[0].Calls[0] != "<runtime name>" {
		t.Fatalf("expected runtime-name placeholder, got %v", refs[0].Calls)
	}
}

func TestBuildClassRefsResolvesNamesAndMethods(t *testing.T) {
	f := &abc.File{
		ConstantPool: &abc.ConstantPool{
			Strings: []string{abc.AnyName, "Widget", "Object"},
			Multinames: []abc.Multiname{
				{Kind: abc.MultinameKindMultinameL},
				{Kind: abc.MultinameKindQName, NameIndex: 1},
				{Kind: abc.MultinameKindQName, NameIndex: 2},
			},
		},
		Methods: []abc.Method{{}, {}},
		Instances: []abc.Instance{
			{
				NameIndex:      1,
				SuperNameIndex: 2,
				InitIndex:      0,
				Traits:         []abc.Trait{{Kind: abc.TraitMethod, Method: abc.TraitMethodValue{MethodIndex: 1}}},
			},
		},
		Classes: []abc.Class{{InitIndex: 0}},
	}

	refs := BuildClassRefs(f)
	if len(refs) != 1 {
		t.Fatalf("expected 1 class ref, got %d", len(refs))
	}
	if refs[0].Name != "Widget" || refs[0].SuperName != "Object" {
		t.Fatalf("unexpected names: %+v", refs[0])
	}
	if len(refs[0].Methods) != 1 || refs[0].Methods[0] != 1 {
		t.Fatalf("expected instance method 1, got %v", refs[0].Methods)
	}
}
