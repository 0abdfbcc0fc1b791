package disasm

import (
	"fmt"
	"sort"
	"strings"

	"github.com/avm2run/avm2/abc"
)

// MethodRef is one cross-reference entry: a method body and the
// resolved names of methods it calls or properties it touches by
// constant-pool multiname, collected by a single static scan of its
// instruction listing.
type MethodRef struct {
	MethodIndex uint32
	Name        string
	Calls       []string
}

// ClassRef summarizes one class: its local name, base type, and
// the methods declared on its instance and static trait lists.
type ClassRef struct {
	ClassIndex uint32
	Name       string
	SuperName  string
	Methods    []uint32
}

// BuildMethodRefs scans every method body in f and reports the
// resolved multiname of each property-touching instruction it
// contains, deduplicated and sorted by name.
func BuildMethodRefs(f *abc.File) ([]MethodRef, error) {
	pool := f.ConstantPool
	refs := make([]MethodRef, 0, len(f.MethodBodies))
	for _, body := range f.MethodBodies {
		instrs, err := Listing(&body)
		if err != nil {
			return nil, fmt.Errorf("method %d: %w", body.MethodIndex, err)
		}
		seen := make(map[string]bool)
		var calls []string
		for _, in := range instrs {
			if name := operandComment(in, pool); name != "" && isCallLike(in.Mnemonic) {
				if !seen[name] {
					seen[name] = true
					calls = append(calls, name)
				}
			}
		}
		sort.Strings(calls)
		refs = append(refs, MethodRef{
			MethodIndex: body.MethodIndex,
			Name:        methodName(f, body.MethodIndex),
			Calls:       calls,
		})
	}
	return refs, nil
}

func isCallLike(mnemonic string) bool {
	switch mnemonic {
	case "callproperty", "callpropvoid", "constructprop", "getproperty", "setproperty":
		return true
	default:
		return false
	}
}

func methodName(f *abc.File, methodIndex uint32) string {
	if int(methodIndex) >= len(f.Methods) {
		return fmt.Sprintf("method_%d", methodIndex)
	}
	name := f.ConstantPool.String(f.Methods[methodIndex].NameIndex)
	if name == abc.AnyName || name == "" {
		return fmt.Sprintf("method_%d", methodIndex)
	}
	return name
}

// BuildClassRefs reports each class declared in f alongside the
// methods its instance and static trait lists name.
func BuildClassRefs(f *abc.File) []ClassRef {
	pool := f.ConstantPool
	refs := make([]ClassRef, 0, len(f.Classes))
	for i, class := range f.Classes {
		if i >= len(f.Instances) {
			break
		}
		inst := f.Instances[i]
		ref := ClassRef{
			ClassIndex: uint32(i),
			Name:       pool.MultinameName(inst.NameIndex),
			SuperName:  pool.MultinameName(inst.SuperNameIndex),
		}
		for _, tr := range inst.Traits {
			if tr.Kind == abc.TraitMethod || tr.Kind == abc.TraitGetter || tr.Kind == abc.TraitSetter {
				ref.Methods = append(ref.Methods, tr.Method.MethodIndex)
			}
		}
		for _, tr := range class.Traits {
			if tr.Kind == abc.TraitMethod || tr.Kind == abc.TraitGetter || tr.Kind == abc.TraitSetter {
				ref.Methods = append(ref.Methods, tr.Method.MethodIndex)
			}
		}
		refs = append(refs, ref)
	}
	return refs
}

// FormatXref renders method and class cross-reference tables as text.
func FormatXref(f *abc.File) (string, error) {
	methodRefs, err := BuildMethodRefs(f)
	if err != nil {
		return "", err
	}
	classRefs := BuildClassRefs(f)

	var b strings.Builder
	b.WriteString("Classes:\n")
	for _, c := range classRefs {
		fmt.Fprintf(&b, "  %s extends %s (%d methods)\n", c.Name, c.SuperName, len(c.Methods))
	}
	b.WriteString("\nMethods:\n")
	for _, m := range methodRefs {
		fmt.Fprintf(&b, "  %s (index %d)", m.Name, m.MethodIndex)
		if len(m.Calls) > 0 {
			fmt.Fprintf(&b, " -> %s", strings.Join(m.Calls, ", "))
		}
		b.WriteString("\n")
	}
	return b.String(), nil
}
