package disasm

import (
	"fmt"
	"strings"

	"github.com/avm2run/avm2/abc"
)

// Format renders a decoded instruction listing as text, resolving
// constant-pool operand indices (string/int/namespace pushes, method
// indices) into readable comments where the pool is available.
func Format(body *abc.MethodBody, pool *abc.ConstantPool) (string, error) {
	instrs, err := Listing(body)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	for _, in := range instrs {
		fmt.Fprintf(&b, "%6d  %-16s", in.Offset, in.Mnemonic)
		for i, operand := range in.Operands {
			if i > 0 {
				b.WriteString(", ")
			} else {
				b.WriteString(" ")
			}
			fmt.Fprintf(&b, "%d", operand)
		}
		if comment := operandComment(in, pool); comment != "" {
			fmt.Fprintf(&b, "  ; %s", comment)
		}
		b.WriteString("\n")
	}
	return b.String(), nil
}

// operandComment annotates the instructions whose first operand is a
// constant-pool index with the pooled value itself, the way a
// disassembler shows `pushstring "foo"` instead of a bare index.
func operandComment(in Instruction, pool *abc.ConstantPool) string {
	if pool == nil || len(in.Operands) == 0 {
		return ""
	}
	idx := uint32(in.Operands[0])
	switch in.Mnemonic {
	case "pushstring":
		return fmt.Sprintf("%q", pool.String(idx))
	case "pushint":
		return fmt.Sprintf("%d", pool.Int(idx))
	case "pushuint":
		return fmt.Sprintf("%d", pool.UInt(idx))
	case "pushdouble":
		return fmt.Sprintf("%g", pool.Double(idx))
	case "getproperty", "setproperty", "initproperty", "findproperty", "findpropstrict",
		"getlex", "deleteproperty", "callproperty", "callpropvoid", "constructprop":
		// the property/call family all carry the multiname index first,
		// with an optional trailing arg_count the name doesn't need.
		return pool.MultinameName(idx)
	}
	return ""
}
