// Command avm2disasm inspects a decoded ABC file without executing
// it: dumping a method's instruction listing, cross-referencing
// classes and methods, or linting the file's structural invariants.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/avm2run/avm2/abc"
	"github.com/avm2run/avm2/disasm"
)

func main() {
	root := &cobra.Command{
		Use:   "avm2disasm",
		Short: "Inspect ABC bytecode without executing it",
	}

	root.AddCommand(dumpCmd(), xrefCmd(), lintCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func decodeFile(path string) (*abc.File, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- user-specified input path
	if err != nil {
		return nil, err
	}
	return abc.Decode(data)
}

func dumpCmd() *cobra.Command {
	var methodIndex uint32
	cmd := &cobra.Command{
		Use:   "dump <file.abc>",
		Short: "Pretty-print one method body's instruction listing",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			file, err := decodeFile(args[0])
			if err != nil {
				return err
			}
			body, ok := bodyForMethod(file, methodIndex)
			if !ok {
				return fmt.Errorf("no method body for method_index %d", methodIndex)
			}
			text, err := disasm.Format(body, file.ConstantPool)
			if err != nil {
				return err
			}
			fmt.Print(text)
			return nil
		},
	}
	cmd.Flags().Uint32Var(&methodIndex, "method", 0, "method_index to disassemble")
	return cmd
}

func xrefCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "xref <file.abc>",
		Short: "Print class and method cross-reference tables",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			file, err := decodeFile(args[0])
			if err != nil {
				return err
			}
			text, err := disasm.FormatXref(file)
			if err != nil {
				return err
			}
			fmt.Print(text)
			return nil
		},
	}
}

func lintCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lint <file.abc>",
		Short: "Check structural invariants (method index ranges, branch targets, exception bounds)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			file, err := decodeFile(args[0])
			if err != nil {
				return err
			}
			issues := disasm.Lint(file)
			for _, issue := range issues {
				fmt.Println(issue.String())
			}
			if len(issues) > 0 {
				return fmt.Errorf("%d lint issue(s) found", len(issues))
			}
			fmt.Println("no issues found")
			return nil
		},
	}
	return cmd
}

func bodyForMethod(f *abc.File, methodIndex uint32) (*abc.MethodBody, bool) {
	for i := range f.MethodBodies {
		if f.MethodBodies[i].MethodIndex == methodIndex {
			return &f.MethodBodies[i], true
		}
	}
	return nil, false
}
