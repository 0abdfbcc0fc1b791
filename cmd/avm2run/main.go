// Command avm2run loads an ABC program (standalone or embedded in an
// SWF's DoABC tags), links it, and executes one of its scripts, with
// optional execution tracing, performance statistics, a TUI debugger,
// or an HTTP/WebSocket API server in place of direct execution.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/avm2run/avm2/abc"
	"github.com/avm2run/avm2/apiserver"
	"github.com/avm2run/avm2/config"
	"github.com/avm2run/avm2/debugger"
	"github.com/avm2run/avm2/swf"
	"github.com/avm2run/avm2/vm"
)

// Version information - can be overridden at build time with:
// go build -ldflags "-X main.Version=v1.2.3"
var (
	Version = "dev"     // Version number (set by git tag at build time)
	Commit  = "unknown" // Git commit hash
	Date    = "unknown" // Build date
)

func main() {
	var (
		showVersion = flag.Bool("version", false, "Show version information")
		showHelp    = flag.Bool("help", false, "Show help information")
		debugMode   = flag.Bool("debug", false, "Start in debugger mode")
		tuiMode     = flag.Bool("tui", false, "Use TUI (Text User Interface) debugger")
		apiServer   = flag.Bool("api-server", false, "Start HTTP API server mode")
		apiPort     = flag.Int("port", 8080, "API server port (used with -api-server)")

		swfFile = flag.String("swf", "", "Load ABC from the DoABC tags of an SWF file")
		abcFile = flag.String("abc", "", "Load a standalone ABC (.abc) file")
		entry   = flag.Int("entry", 0, "Script index to run")

		maxInstructions = flag.Uint64("max-instructions", 10_000_000, "Maximum instructions before halt")
		verboseMode     = flag.Bool("verbose", false, "Verbose output")

		enableTrace = flag.Bool("trace", false, "Enable execution trace")
		traceFile   = flag.String("trace-file", "", "Trace output file (default: trace.log in log dir)")
		traceFilter = flag.String("trace-filter", "", "Filter trace by opcode mnemonics (comma-separated)")
		enableStats = flag.Bool("stats", false, "Enable performance statistics")
		statsFile   = flag.String("stats-file", "", "Statistics output file (default: stats.json in log dir)")
	)

	flag.Parse()

	if *showVersion {
		fmt.Printf("avm2run %s\n", Version)
		if Commit != "unknown" {
			fmt.Printf("Commit: %s\n", Commit)
		}
		if Date != "unknown" {
			fmt.Printf("Built: %s\n", Date)
		}
		os.Exit(0)
	}

	if *showHelp {
		printHelp()
		os.Exit(0)
	}

	if *apiServer {
		runAPIServer(*apiPort)
		return
	}

	if *swfFile == "" && *abcFile == "" {
		printHelp()
		os.Exit(1)
	}

	abcBytes, err := loadABCBytes(*swfFile, *abcFile, *verboseMode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading ABC: %v\n", err)
		os.Exit(1)
	}

	file, err := abc.Decode(abcBytes)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error decoding ABC: %v\n", err)
		os.Exit(1)
	}
	if *verboseMode {
		fmt.Printf("Decoded ABC: %d methods, %d classes, %d scripts\n",
			len(file.Methods), len(file.Classes), len(file.Scripts))
	}

	program, err := vm.Link(file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error linking program: %v\n", err)
		os.Exit(1)
	}

	machine := vm.NewVM(program)
	machine.MaxCycles = *maxInstructions

	if *enableTrace {
		tracePath := *traceFile
		if tracePath == "" {
			tracePath = filepath.Join(config.GetLogPath(), "trace.log")
		}
		traceWriter, err := os.Create(tracePath) // #nosec G304 -- user-specified trace output path
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating trace file: %v\n", err)
			os.Exit(1)
		}
		defer func() {
			if err := traceWriter.Close(); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: failed to close trace file: %v\n", err)
			}
		}()

		machine.ExecutionTrace = vm.NewExecutionTrace(traceWriter)
		machine.ExecutionTrace.Start()
		if *traceFilter != "" {
			if *verboseMode {
				fmt.Printf("Trace filter requested: %s (opcode-level filtering happens at trace review time)\n", strings.Join(strings.Split(*traceFilter, ","), ", "))
			}
		}
		if *verboseMode {
			fmt.Printf("Execution trace enabled: %s\n", tracePath)
		}
	}

	if *enableStats {
		machine.Statistics = vm.NewPerformanceStatistics()
		machine.Statistics.Start()
	}

	if *debugMode || *tuiMode {
		dbg := debugger.New(machine)
		if err := dbg.Run(*entry); err != nil {
			fmt.Fprintf(os.Stderr, "Debugger error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	result, runErr := machine.RunScript(*entry)

	if machine.ExecutionTrace != nil {
		if err := machine.ExecutionTrace.Flush(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to flush trace: %v\n", err)
		}
	}
	if machine.Statistics != nil {
		machine.Statistics.Finalize()
		statsPath := *statsFile
		if statsPath == "" {
			statsPath = filepath.Join(config.GetLogPath(), "stats.json")
		}
		statsWriter, err := os.Create(statsPath) // #nosec G304 -- user-specified stats output path
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to create stats file: %v\n", err)
		} else {
			if err := machine.Statistics.ExportJSON(statsWriter); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: failed to export stats: %v\n", err)
			}
			statsWriter.Close()
		}
		if *verboseMode {
			fmt.Print(machine.Statistics.String())
		}
	}

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Execution error: %v\n", runErr)
		os.Exit(1)
	}
	fmt.Printf("Script %d returned: %s\n", *entry, result.String())
}

// loadABCBytes resolves the raw ABC bytes to decode from either a
// standalone .abc file or the first DoABC tag of an SWF container.
func loadABCBytes(swfPath, abcPath string, verbose bool) ([]byte, error) {
	if abcPath != "" {
		if verbose {
			fmt.Printf("Loading standalone ABC file: %s\n", abcPath)
		}
		return os.ReadFile(abcPath) // #nosec G304 -- user-specified input path
	}

	if verbose {
		fmt.Printf("Loading SWF file: %s\n", swfPath)
	}
	sf, err := swf.Open(swfPath)
	if err != nil {
		return nil, err
	}
	defer sf.Close()

	tags, err := swf.ParseTags(sf.Bytes())
	if err != nil {
		return nil, err
	}
	abcTags, err := swf.ExtractDoABC(tags)
	if err != nil {
		return nil, err
	}
	if len(abcTags) == 0 {
		return nil, fmt.Errorf("no DoABC tags found in %s", swfPath)
	}
	if verbose {
		for _, t := range abcTags {
			fmt.Printf("Found DoABC tag %q (%d bytes)\n", t.Name, len(t.ABCBytes))
		}
	}
	return abcTags[0].ABCBytes, nil
}

func runAPIServer(port int) {
	server := apiserver.NewServer(port)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	var shutdownOnce sync.Once
	performShutdown := func() {
		shutdownOnce.Do(func() {
			fmt.Println("\nShutting down API server...")
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := server.Shutdown(ctx); err != nil {
				fmt.Fprintf(os.Stderr, "Error during shutdown: %v\n", err)
				os.Exit(1)
			}
			fmt.Println("API server stopped")
			os.Exit(0)
		})
	}

	go func() {
		if err := server.Start(); err != nil && err != http.ErrServerClosed {
			fmt.Fprintf(os.Stderr, "API server error: %v\n", err)
			os.Exit(1)
		}
	}()

	<-sigChan
	performShutdown()
}

func printHelp() {
	fmt.Println("avm2run - an AVM2 (ActionScript Virtual Machine 2) bytecode interpreter")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  avm2run -abc program.abc [-entry N] [-trace] [-stats]")
	fmt.Println("  avm2run -swf movie.swf [-entry N]")
	fmt.Println("  avm2run -abc program.abc -debug")
	fmt.Println("  avm2run -api-server -port 8080")
	fmt.Println()
	flag.PrintDefaults()
}
