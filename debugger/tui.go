package debugger

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

// TUI is the text user interface wrapping a Debugger: a registers/
// stack pane, a disassembly pane with a current-instruction marker, an
// output log, and a command input line.
type TUI struct {
	Debugger *Debugger
	App      *tview.Application

	RegistersView   *tview.TextView
	DisassemblyView *tview.TextView
	OutputView      *tview.TextView
	CommandInput    *tview.InputField
}

// NewTUI builds the screen layout over d without starting the
// application event loop.
func NewTUI(d *Debugger) *TUI {
	t := &TUI{Debugger: d, App: tview.NewApplication()}

	t.RegistersView = tview.NewTextView().SetDynamicColors(true)
	t.RegistersView.SetBorder(true).SetTitle(" Registers / Stack ")

	t.DisassemblyView = tview.NewTextView().SetDynamicColors(true).SetScrollable(true)
	t.DisassemblyView.SetBorder(true).SetTitle(" Disassembly ")

	t.OutputView = tview.NewTextView().SetDynamicColors(true).SetScrollable(true)
	t.OutputView.SetBorder(true).SetTitle(" Output ")

	t.CommandInput = tview.NewInputField().SetLabel("> ")
	t.CommandInput.SetBorder(true).SetTitle(" Command ")
	t.CommandInput.SetDoneFunc(t.handleCommand)

	top := tview.NewFlex().
		AddItem(t.DisassemblyView, 0, 2, false).
		AddItem(t.RegistersView, 0, 1, false)

	layout := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(top, 0, 3, false).
		AddItem(t.OutputView, 0, 2, false).
		AddItem(t.CommandInput, 3, 0, true)

	t.App.SetRoot(layout, true).SetFocus(t.CommandInput)
	t.App.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if event.Key() == tcell.KeyEsc {
			t.App.Stop()
			return nil
		}
		return event
	})

	return t
}

// Run starts the event loop, refreshing every pane after each command.
func (t *TUI) Run() error {
	t.refresh()
	return t.App.Run()
}

func (t *TUI) handleCommand(key tcell.Key) {
	if key != tcell.KeyEnter {
		return
	}
	line := t.CommandInput.GetText()
	t.CommandInput.SetText("")

	if line == "quit" || line == "q" {
		t.App.Stop()
		return
	}

	if err := t.Debugger.ExecuteCommand(line); err != nil {
		t.Debugger.Printf("error: %v\n", err)
	}
	t.refresh()

	if t.Debugger.Session != nil && t.Debugger.Session.Done() {
		t.Debugger.Running = false
	}
}

func (t *TUI) refresh() {
	fmt.Fprint(t.OutputView, t.Debugger.GetOutput())
	t.OutputView.ScrollToEnd()

	t.RegistersView.Clear()
	if t.Debugger.Session != nil {
		env := t.Debugger.Session.Environment()
		for i, v := range env.Registers {
			fmt.Fprintf(t.RegistersView, "local%d = %s\n", i, v.String())
		}
		fmt.Fprintf(t.RegistersView, "\nstack:\n")
		for i, v := range env.OperandStack() {
			fmt.Fprintf(t.RegistersView, "  [%d] %s\n", i, v.String())
		}
	}

	t.DisassemblyView.Clear()
	if t.Debugger.Session != nil {
		_ = t.Debugger.cmdList()
		fmt.Fprint(t.DisassemblyView, t.Debugger.GetOutput())
	}
}
