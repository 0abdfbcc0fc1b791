// Package debugger provides an interactive, command-driven frontend
// over a vm.Session: single-stepping a script's initializer, setting
// breakpoints on bytecode offsets, and inspecting the register file
// and operand/scope stacks between steps.
package debugger

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/avm2run/avm2/disasm"
	"github.com/avm2run/avm2/vm"
)

// Debugger holds one stepping session over a VM plus the breakpoint
// set and command history a front end (TUI or plain REPL) drives it
// through.
type Debugger struct {
	VM          *vm.VM
	Session     *vm.Session
	Breakpoints *BreakpointManager
	History     []string
	Running     bool

	LastCommand string
	Output      strings.Builder
}

// New creates a Debugger over machine with no session loaded yet;
// call Load to start stepping a script.
func New(machine *vm.VM) *Debugger {
	return &Debugger{VM: machine, Breakpoints: NewBreakpointManager()}
}

// Load starts a fresh stepping session over scripts[index]'s
// initializer.
func (d *Debugger) Load(scriptIndex int) error {
	session, err := vm.NewScriptSession(d.VM, scriptIndex)
	if err != nil {
		return err
	}
	d.Session = session
	d.Running = true
	return nil
}

// Run loads the requested script, then hands control to the tview TUI
// (NewTUI), which reads and executes commands until it exits. It always
// starts the TUI; there is no plain-text mode.
func (d *Debugger) Run(scriptIndex int) error {
	if err := d.Load(scriptIndex); err != nil {
		return err
	}
	tui := NewTUI(d)
	return tui.Run()
}

// ExecuteCommand parses and dispatches one command line, appending
// non-empty lines to History.
func (d *Debugger) ExecuteCommand(line string) error {
	line = strings.TrimSpace(line)
	if line == "" {
		line = d.LastCommand
	}
	if line != "" {
		d.History = append(d.History, line)
		d.LastCommand = line
	}

	parts := strings.Fields(line)
	if len(parts) == 0 {
		return nil
	}
	cmd, args := strings.ToLower(parts[0]), parts[1:]

	switch cmd {
	case "step", "s":
		return d.cmdStep()
	case "continue", "c":
		return d.cmdContinue()
	case "break", "b":
		return d.cmdBreak(args)
	case "delete", "d":
		return d.cmdDelete(args)
	case "print", "p":
		return d.cmdPrint(args)
	case "info", "i":
		return d.cmdInfo(args)
	case "list", "l":
		return d.cmdList()
	case "help", "h", "?":
		d.cmdHelp()
		return nil
	default:
		return fmt.Errorf("unknown command: %s (type help for a list)", cmd)
	}
}

func (d *Debugger) cmdStep() error {
	if d.Session == nil || d.Session.Done() {
		return fmt.Errorf("no running session")
	}
	op, err := d.Session.Step()
	if err != nil {
		d.Printf("execution stopped: %v\n", err)
		return nil
	}
	d.Printf("%s at offset %d\n", op.Mnemonic(), d.Session.Position())
	if d.Session.Done() {
		result, _ := d.Session.Result()
		d.Printf("script finished, result: %s\n", result.String())
	}
	return nil
}

func (d *Debugger) cmdContinue() error {
	if d.Session == nil || d.Session.Done() {
		return fmt.Errorf("no running session")
	}
	err := d.Session.Run(d.Breakpoints.Offsets())
	if err != nil {
		d.Printf("execution stopped: %v\n", err)
		return nil
	}
	if d.Session.Done() {
		result, _ := d.Session.Result()
		d.Printf("script finished, result: %s\n", result.String())
		return nil
	}
	if bp, ok := d.Breakpoints.At(d.Session.Position()); ok {
		d.Breakpoints.Hit(bp)
		d.Printf("breakpoint %d hit at offset %d\n", bp.ID, bp.Offset)
	}
	return nil
}

func (d *Debugger) cmdBreak(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: break <offset>")
	}
	offset, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid offset %q: %w", args[0], err)
	}
	bp := d.Breakpoints.Add(offset, false)
	d.Printf("breakpoint %d at offset %d\n", bp.ID, bp.Offset)
	return nil
}

func (d *Debugger) cmdDelete(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: delete <id>")
	}
	id, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid id %q: %w", args[0], err)
	}
	if err := d.Breakpoints.Delete(id); err != nil {
		return err
	}
	d.Printf("breakpoint %d deleted\n", id)
	return nil
}

func (d *Debugger) cmdPrint(args []string) error {
	if d.Session == nil {
		return fmt.Errorf("no running session")
	}
	if len(args) == 0 {
		return fmt.Errorf("usage: print local<N> | stack")
	}
	switch {
	case args[0] == "stack":
		for i, v := range d.Session.Environment().OperandStack() {
			d.Printf("  [%d] %s\n", i, v.String())
		}
	case strings.HasPrefix(args[0], "local"):
		idx, err := strconv.Atoi(strings.TrimPrefix(args[0], "local"))
		if err != nil {
			return fmt.Errorf("invalid register %q: %w", args[0], err)
		}
		d.Printf("local%d = %s\n", idx, d.Session.Environment().GetLocal(uint32(idx)).String())
	default:
		return fmt.Errorf("unknown expression %q", args[0])
	}
	return nil
}

func (d *Debugger) cmdInfo(args []string) error {
	if d.Session == nil {
		return fmt.Errorf("no running session")
	}
	if len(args) > 0 && args[0] == "breakpoints" {
		for _, bp := range d.Breakpoints.List() {
			d.Printf("  %d: offset %d, enabled=%v, hits=%d\n", bp.ID, bp.Offset, bp.Enabled, bp.HitCount)
		}
		return nil
	}
	env := d.Session.Environment()
	d.Printf("offset=%d stack_depth=%d scope_depth=%d\n", d.Session.Position(), env.StackDepth(), len(env.ScopeStack()))
	for i, v := range env.Registers {
		d.Printf("  local%d = %s\n", i, v.String())
	}
	return nil
}

func (d *Debugger) cmdList() error {
	if d.Session == nil {
		return fmt.Errorf("no running session")
	}
	instrs, err := disasm.Listing(d.Session.Body())
	if err != nil {
		return err
	}
	pos := d.Session.Position()
	for _, in := range instrs {
		marker := "  "
		if in.Offset == pos {
			marker = "->"
		}
		d.Printf("%s %6d  %s\n", marker, in.Offset, in.Mnemonic)
	}
	return nil
}

func (d *Debugger) cmdHelp() {
	d.Printf("commands: step(s) continue(c) break(b) <off> delete(d) <id> print(p) local<N>|stack info(i) [breakpoints] list(l) help(h)\n")
}

// Printf writes formatted output to the debugger's output buffer.
func (d *Debugger) Printf(format string, args ...any) {
	fmt.Fprintf(&d.Output, format, args...)
}

// GetOutput returns and clears the buffered output.
func (d *Debugger) GetOutput() string {
	out := d.Output.String()
	d.Output.Reset()
	return out
}
