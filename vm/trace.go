package vm

import (
	"fmt"
	"io"
	"strings"
	"time"
)

// TraceEntry represents a single fetched-and-executed instruction.
type TraceEntry struct {
	Sequence    uint64
	Position    int
	Opcode      Opcode
	StackDepth  int
	ScopeDepth  int
	Duration    time.Duration
}

// ExecutionTrace manages opt-in execution tracing: recordFetch is called
// once per fetched instruction from the run loop and is a no-op unless
// Enabled, keeping tracing effectively free when turned off.
type ExecutionTrace struct {
	Enabled       bool
	Writer        io.Writer
	IncludeStack  bool
	IncludeTiming bool
	MaxEntries    int

	entries   []TraceEntry
	startTime time.Time
}

// NewExecutionTrace creates a trace that writes formatted entries to w.
func NewExecutionTrace(w io.Writer) *ExecutionTrace {
	return &ExecutionTrace{
		Enabled:       true,
		Writer:        w,
		IncludeStack:  true,
		IncludeTiming: true,
		MaxEntries:    100000,
		entries:       make([]TraceEntry, 0, 1000),
	}
}

// Start resets sequence numbering and timing for a fresh run.
func (t *ExecutionTrace) Start() {
	t.startTime = time.Now()
	t.entries = t.entries[:0]
}

// recordFetch appends a trace entry for one fetched instruction. Called
// from the run loop before the instruction's operands are decoded, so
// Position is the address of the opcode byte itself.
func (t *ExecutionTrace) recordFetch(position int, op Opcode) {
	if t == nil || !t.Enabled {
		return
	}
	if t.MaxEntries > 0 && len(t.entries) >= t.MaxEntries {
		return
	}
	entry := TraceEntry{
		Sequence: uint64(len(t.entries)),
		Position: position,
		Opcode:   op,
	}
	if t.IncludeTiming {
		entry.Duration = time.Since(t.startTime)
	}
	t.entries = append(t.entries, entry)
}

// Flush writes all recorded entries to Writer.
func (t *ExecutionTrace) Flush() error {
	if t.Writer == nil {
		return nil
	}
	for _, entry := range t.entries {
		if err := t.writeEntry(entry); err != nil {
			return err
		}
	}
	return nil
}

func (t *ExecutionTrace) writeEntry(entry TraceEntry) error {
	line := fmt.Sprintf("[%06d] 0x%04X: %-16s", entry.Sequence, entry.Position, entry.Opcode.Mnemonic())
	if t.IncludeTiming {
		line += fmt.Sprintf(" | %v", entry.Duration)
	}
	line += "\n"
	_, err := t.Writer.Write([]byte(line))
	return err
}

// GetEntries returns all recorded trace entries.
func (t *ExecutionTrace) GetEntries() []TraceEntry { return t.entries }

// Clear discards all recorded entries without resetting the start time.
func (t *ExecutionTrace) Clear() { t.entries = t.entries[:0] }

// String renders the trace as a plain-text report, mainly for debugger
// and test use where a Writer isn't wired up.
func (t *ExecutionTrace) String() string {
	var sb strings.Builder
	for _, entry := range t.entries {
		sb.WriteString(fmt.Sprintf("[%06d] 0x%04X: %s\n", entry.Sequence, entry.Position, entry.Opcode.Mnemonic()))
	}
	return sb.String()
}
