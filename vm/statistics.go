package vm

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"
)

// InstructionStats tracks how often one mnemonic was executed.
type InstructionStats struct {
	Mnemonic string
	Count    uint64
}

// FunctionStats tracks call counts for one bytecode method.
type FunctionStats struct {
	MethodIndex uint32
	CallCount   uint64
}

// HotPathEntry represents a frequently executed bytecode position.
type HotPathEntry struct {
	Position int
	Count    uint64
}

// PerformanceStatistics tracks execution statistics, the AVM2 analogue
// of instruction and call-site profiling: recordInstruction and
// recordCall are cheap no-ops when Enabled is false.
type PerformanceStatistics struct {
	Enabled bool

	TotalInstructions  uint64
	ExecutionTime      time.Duration
	InstructionsPerSec float64

	InstructionCounts map[string]uint64

	BranchCount      uint64
	BranchTakenCount uint64

	FunctionCalls map[uint32]*FunctionStats
	HotPath       map[int]uint64

	startTime time.Time
}

// NewPerformanceStatistics creates an enabled statistics tracker.
func NewPerformanceStatistics() *PerformanceStatistics {
	return &PerformanceStatistics{
		Enabled:           true,
		InstructionCounts: make(map[string]uint64),
		FunctionCalls:     make(map[uint32]*FunctionStats),
		HotPath:           make(map[int]uint64),
	}
}

// Start resets all counters and begins timing a fresh run.
func (s *PerformanceStatistics) Start() {
	s.startTime = time.Now()
	s.TotalInstructions = 0
	s.InstructionCounts = make(map[string]uint64)
	s.BranchCount = 0
	s.BranchTakenCount = 0
	s.FunctionCalls = make(map[uint32]*FunctionStats)
	s.HotPath = make(map[int]uint64)
}

// recordInstruction records one fetched instruction, called from the
// run loop before the opcode's operands are decoded.
func (s *PerformanceStatistics) recordInstruction(op Opcode) {
	if s == nil || !s.Enabled {
		return
	}
	s.TotalInstructions++
	s.InstructionCounts[op.Mnemonic()]++
}

// recordBranch records whether a conditional branch was taken.
func (s *PerformanceStatistics) recordBranch(taken bool) {
	if s == nil || !s.Enabled {
		return
	}
	s.BranchCount++
	if taken {
		s.BranchTakenCount++
	}
}

// recordCall records one bytecode method invocation, called from
// CallBytecode after register fill, before the body runs.
func (s *PerformanceStatistics) recordCall(methodIndex uint32) {
	if s == nil || !s.Enabled {
		return
	}
	if stats, ok := s.FunctionCalls[methodIndex]; ok {
		stats.CallCount++
	} else {
		s.FunctionCalls[methodIndex] = &FunctionStats{MethodIndex: methodIndex, CallCount: 1}
	}
}

// Finalize computes derived metrics (instructions/sec) once a run ends.
func (s *PerformanceStatistics) Finalize() {
	s.ExecutionTime = time.Since(s.startTime)
	if s.ExecutionTime.Seconds() > 0 {
		s.InstructionsPerSec = float64(s.TotalInstructions) / s.ExecutionTime.Seconds()
	}
}

// GetTopInstructions returns the n most frequently executed mnemonics,
// or all of them when n <= 0.
func (s *PerformanceStatistics) GetTopInstructions(n int) []InstructionStats {
	stats := make([]InstructionStats, 0, len(s.InstructionCounts))
	for mnemonic, count := range s.InstructionCounts {
		stats = append(stats, InstructionStats{Mnemonic: mnemonic, Count: count})
	}
	sort.Slice(stats, func(i, j int) bool { return stats[i].Count > stats[j].Count })
	if n > 0 && n < len(stats) {
		return stats[:n]
	}
	return stats
}

// GetTopFunctions returns the n most frequently called methods, or all
// of them when n <= 0.
func (s *PerformanceStatistics) GetTopFunctions(n int) []*FunctionStats {
	functions := make([]*FunctionStats, 0, len(s.FunctionCalls))
	for _, stats := range s.FunctionCalls {
		functions = append(functions, stats)
	}
	sort.Slice(functions, func(i, j int) bool { return functions[i].CallCount > functions[j].CallCount })
	if n > 0 && n < len(functions) {
		return functions[:n]
	}
	return functions
}

// ExportJSON writes a JSON summary of the collected statistics.
func (s *PerformanceStatistics) ExportJSON(w io.Writer) error {
	s.Finalize()
	data := map[string]interface{}{
		"total_instructions":   s.TotalInstructions,
		"execution_time_ms":    s.ExecutionTime.Milliseconds(),
		"instructions_per_sec": s.InstructionsPerSec,
		"branch_count":         s.BranchCount,
		"branch_taken":         s.BranchTakenCount,
		"top_instructions":     s.GetTopInstructions(20),
		"top_functions":        s.GetTopFunctions(20),
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// String renders a plain-text summary report.
func (s *PerformanceStatistics) String() string {
	s.Finalize()
	var sb strings.Builder
	sb.WriteString("Performance Statistics\n")
	sb.WriteString("======================\n\n")
	sb.WriteString(fmt.Sprintf("Total Instructions:  %d\n", s.TotalInstructions))
	sb.WriteString(fmt.Sprintf("Execution Time:      %v\n", s.ExecutionTime))
	sb.WriteString(fmt.Sprintf("Instructions/Sec:    %.2f\n\n", s.InstructionsPerSec))
	sb.WriteString(fmt.Sprintf("Branch Count:        %d\n", s.BranchCount))
	sb.WriteString(fmt.Sprintf("Branches Taken:      %d\n\n", s.BranchTakenCount))

	sb.WriteString("Top Instructions:\n")
	for i, stat := range s.GetTopInstructions(10) {
		var pct float64
		if s.TotalInstructions > 0 {
			pct = float64(stat.Count) / float64(s.TotalInstructions) * 100
		}
		sb.WriteString(fmt.Sprintf("  %2d. %-14s %8d (%.1f%%)\n", i+1, stat.Mnemonic, stat.Count, pct))
	}
	return sb.String()
}
