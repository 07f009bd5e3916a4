package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"quadform/internal/trace"
	"quadform/internal/version"
)

var rootCmd = &cobra.Command{
	Use:               "quadform",
	Short:             "Binary quadratic form arithmetic",
	Long:              `quadform reduces and squares binary quadratic forms of negative discriminant`,
	SilenceUsage:      true,
	PersistentPreRunE: prepareRun,
}

func init() {
	// version for the automatic --version flag
	rootCmd.Version = version.Version

	rootCmd.AddCommand(squareCmd)
	rootCmd.AddCommand(batchCmd)
	rootCmd.AddCommand(discriminantCmd)
	rootCmd.AddCommand(selftestCmd)
	rootCmd.AddCommand(versionCmd)
	for _, c := range kernelCmds {
		rootCmd.AddCommand(c)
	}

	// global flags
	rootCmd.PersistentFlags().String("config", "", "path to quadform.toml (default: search upwards)")
	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().Bool("quiet", false, "suppress non-essential output")
	rootCmd.PersistentFlags().Bool("timings", false, "show timing information")

	rootCmd.PersistentFlags().String("trace", "", "trace output file (- for stderr)")
	rootCmd.PersistentFlags().String("trace-level", "off", "trace level (off|error|phase|detail|debug)")
	rootCmd.PersistentFlags().String("trace-mode", "stream", "trace storage (stream|ring|both)")
	rootCmd.PersistentFlags().String("trace-format", "auto", "trace format (auto|text|ndjson)")
	rootCmd.PersistentFlags().Int("trace-ring-size", 4096, "events kept by the ring tracer")
	rootCmd.PersistentFlags().Duration("trace-heartbeat", 0, "heartbeat interval, 0 disables")

	rootCmd.PersistentFlags().String("cpu-profile", "", "write a CPU profile to file")
	rootCmd.PersistentFlags().String("mem-profile", "", "write a heap profile to file on exit")
	rootCmd.PersistentFlags().String("runtime-trace", "", "write a runtime execution trace to file")
}

// main executes the root command. Tracing and profiling set up by
// prepareRun are torn down before the process exits; a failing command
// exits with status 1.
func main() {
	err := rootCmd.Execute()
	if err != nil {
		dumpRing(os.Stderr)
	}
	finishRun()
	if err != nil {
		os.Exit(1)
	}
}

// prepareRun applies global flags before any subcommand runs.
func prepareRun(cmd *cobra.Command, _ []string) error {
	colorFlag, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return err
	}
	useColor, err := colorEnabled(colorFlag, os.Stdout)
	if err != nil {
		return err
	}
	color.NoColor = !useColor

	if err := setupTracing(cmd); err != nil {
		return err
	}
	return setupProfiling(cmd)
}

// cleanups run in reverse order from finishRun.
var cleanups []func()

func onFinish(fn func()) { cleanups = append(cleanups, fn) }

func finishRun() {
	for i := len(cleanups) - 1; i >= 0; i-- {
		cleanups[i]()
	}
	cleanups = nil
}

var errBadColor = errors.New("invalid --color value")

func colorEnabled(value string, f *os.File) (bool, error) {
	switch value {
	case "on":
		return true, nil
	case "off":
		return false, nil
	case "auto", "":
		return isTerminal(f), nil
	}
	return false, fmt.Errorf("%w %q (expected auto|on|off)", errBadColor, value)
}

// isTerminal reports whether f is a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// isQuiet reads the global --quiet flag.
func isQuiet(cmd *cobra.Command) bool {
	quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
	return err == nil && quiet
}

// activeTracer is the tracer installed by setupTracing, if any.
var activeTracer trace.Tracer = trace.Nop
