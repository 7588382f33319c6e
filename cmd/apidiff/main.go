package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"apidiff/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "apidiff",
	Short: "Compare two versions of the OpenHarmony C API headers",
	Long: `apidiff pairs the headers of two SDK trees, compares every declaration
structurally and by its doc comment, and reports classified API changes.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		useColor, err := colorEnabled(cmd)
		if err != nil {
			return err
		}
		color.NoColor = !useColor
		levelStr, err := cmd.Root().PersistentFlags().GetString("log-level")
		if err != nil {
			return err
		}
		ctx, err := setupLogging(cmd.Context(), os.Stderr, levelStr, useColor)
		if err != nil {
			return err
		}
		cmd.SetContext(ctx)
		return nil
	},
}

// main регистрирует команды и глобальные флаги и запускает корневую команду.
func main() {
	rootCmd.Version = version.Version
	rootCmd.SetVersionTemplate("{{.Version}}\n")

	rootCmd.AddCommand(diffCmd)
	rootCmd.AddCommand(unitCmd)
	rootCmd.AddCommand(labelsCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(initCmd)

	// Глобальные флаги
	pf := rootCmd.PersistentFlags()
	pf.String("color", "auto", "colorize output (auto|on|off)")
	pf.Bool("no-color", false, "disable colors (same as --color=off)")
	pf.String("log-level", "warn", "log level (debug|info|warn|error)")
	pf.String("config", "", "path to apidiff.toml (default: search upwards from the new root)")
	pf.Bool("timings", false, "report pipeline timings")
	pf.Uint("max-warnings", 200, "maximum number of warnings kept (0 = unlimited)")

	pf.String("trace", "", "trace output file (- for stderr)")
	pf.String("trace-level", "off", "trace level (off|run|file|decl)")
	pf.String("trace-mode", "ring", "trace storage (stream|ring|both)")
	pf.String("trace-format", "auto", "trace format (auto|text|ndjson)")
	pf.Int("trace-ring-size", 4096, "events kept by the trace ring buffer")
	pf.Duration("trace-heartbeat", 0, "emit a heartbeat trace event at this interval (0 = off)")

	pf.String("cpu-profile", "", "write a CPU profile to this file")
	pf.String("mem-profile", "", "write a heap profile to this file")
	pf.String("runtime-trace", "", "write a runtime trace to this file")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "apidiff: %v\n", err)
		os.Exit(exitCode(err))
	}
}

// exitError carries a non-default exit status.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

func exitCode(err error) int {
	if e, ok := err.(*exitError); ok {
		return e.code
	}
	return 1
}

func colorEnabled(cmd *cobra.Command) (bool, error) {
	pf := cmd.Root().PersistentFlags()
	if off, err := pf.GetBool("no-color"); err != nil || off {
		return false, err
	}
	mode, err := pf.GetString("color")
	if err != nil {
		return false, err
	}
	switch strings.ToLower(mode) {
	case "on", "always", "yes":
		return true, nil
	case "off", "never", "no":
		return false, nil
	case "auto", "":
		return isTerminal(os.Stdout) && os.Getenv("NO_COLOR") == "", nil
	default:
		return false, fmt.Errorf("invalid --color value %q (expected auto|on|off)", mode)
	}
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
