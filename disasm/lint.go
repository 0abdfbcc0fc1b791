package disasm

import (
	"fmt"

	"github.com/avm2run/avm2/abc"
)

// LintLevel represents the severity of a lint finding.
type LintLevel int

const (
	LintError LintLevel = iota
	LintWarning
)

func (l LintLevel) String() string {
	if l == LintError {
		return "error"
	}
	return "warning"
}

// Issue is a single lint finding against a decoded ABC file.
type Issue struct {
	Level   LintLevel
	Method  uint32
	Offset  int
	Message string
}

func (i Issue) String() string {
	return fmt.Sprintf("method %d, offset %d: %s: %s", i.Method, i.Offset, i.Level, i.Message)
}

// Lint checks the structural invariants a well-formed ABC file must
// satisfy: every method body's method_index is within range and
// unique, every branch target lands inside its own method body, and
// lookupswitch's case count matches its offset table length.
func Lint(f *abc.File) []Issue {
	var issues []Issue

	seen := make(map[uint32]bool)
	for _, body := range f.MethodBodies {
		if body.MethodIndex >= uint32(len(f.Methods)) {
			issues = append(issues, Issue{Level: LintError, Method: body.MethodIndex,
				Message: fmt.Sprintf("method_index %d out of range (%d methods)", body.MethodIndex, len(f.Methods))})
			continue
		}
		if seen[body.MethodIndex] {
			issues = append(issues, Issue{Level: LintError, Method: body.MethodIndex,
				Message: "duplicate method body for this method_index"})
		}
		seen[body.MethodIndex] = true

		instrs, err := Listing(&body)
		if err != nil {
			issues = append(issues, Issue{Level: LintError, Method: body.MethodIndex,
				Message: fmt.Sprintf("failed to decode instructions: %v", err)})
			continue
		}
		issues = append(issues, lintBranchTargets(body, instrs)...)

		for _, exc := range body.Exceptions {
			if exc.From > exc.To || int(exc.To) > len(body.Code) || int(exc.Target) > len(body.Code) {
				issues = append(issues, Issue{Level: LintError, Method: body.MethodIndex,
					Message: fmt.Sprintf("exception entry [%d,%d) -> %d out of method body bounds", exc.From, exc.To, exc.Target)})
			}
		}
	}

	for i, class := range f.Classes {
		if int(class.InitIndex) >= len(f.Methods) {
			issues = append(issues, Issue{Level: LintError, Method: class.InitIndex,
				Message: fmt.Sprintf("class %d init_index out of range", i)})
		}
	}
	for i, script := range f.Scripts {
		if int(script.InitIndex) >= len(f.Methods) {
			issues = append(issues, Issue{Level: LintError, Method: script.InitIndex,
				Message: fmt.Sprintf("script %d init_index out of range", i)})
		}
	}

	return issues
}

func lintBranchTargets(body abc.MethodBody, instrs []Instruction) []Issue {
	var issues []Issue
	bodyLen := len(body.Code)
	for _, in := range instrs {
		switch in.Mnemonic {
		case "jump", "iftrue", "iffalse", "ifeq", "ifne", "iflt", "ifle", "ifgt", "ifge",
			"ifstricteq", "ifstrictne", "ifnlt", "ifnle", "ifngt", "ifnge":
			if len(in.Operands) != 1 {
				continue
			}
			target := in.Offset + in.Length + int(in.Operands[0])
			if target < 0 || target > bodyLen {
				issues = append(issues, Issue{Level: LintError, Method: body.MethodIndex, Offset: in.Offset,
					Message: fmt.Sprintf("branch target %d out of method body bounds [0,%d]", target, bodyLen)})
			}
		case "lookupswitch":
			if len(in.Operands) < 2 {
				continue
			}
			caseCount := int(in.Operands[1])
			if len(in.Operands)-2 != caseCount+1 {
				issues = append(issues, Issue{Level: LintError, Method: body.MethodIndex, Offset: in.Offset,
					Message: "lookupswitch case table length does not match case_count+1"})
			}
		}
	}
	return issues
}
