package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"apidiff/internal/diag"
	"apidiff/internal/diagfmt"
	"apidiff/internal/diff"
)

// reportFlags are shared by diff and unit.
type reportFlags struct {
	format             string
	output             string
	pathMode           string
	showText           bool
	notes              bool
	maxEvents          int
	failOnIncompatible bool
}

func (f *reportFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.format, "format", "f", "auto", "report format (auto|pretty|json|ndjson|tsv); auto is pretty on a terminal, tsv otherwise")
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "write the report to a file instead of stdout")
	cmd.Flags().StringVar(&f.pathMode, "path-mode", "auto", "path display (auto|absolute|relative|basename)")
	cmd.Flags().BoolVar(&f.showText, "show-text", false, "show old and new declaration text (pretty)")
	cmd.Flags().BoolVar(&f.notes, "notes", false, "include diagnostic notes")
	cmd.Flags().IntVar(&f.maxEvents, "max-events", 0, "maximum number of events to print (0 = all)")
	cmd.Flags().BoolVar(&f.failOnIncompatible, "fail-on-incompatible", false, "exit with status 2 when an incompatible change is found")
}

type reportInput struct {
	events  []diff.Event
	diags   []diag.Diagnostic
	files   int
	skipped int
	baseDir string
}

// writeReport renders in to the selected output. Pretty output ends with
// the warnings and a summary.
func writeReport(cmd *cobra.Command, f *reportFlags, in reportInput, useColor bool) error {
	name := f.format
	if strings.EqualFold(name, "auto") {
		name = "tsv"
		if f.output == "" && isTerminal(os.Stdout) {
			name = "pretty"
		}
	}
	format, err := diagfmt.ParseFormat(name)
	if err != nil {
		return err
	}
	pathMode, err := diagfmt.ParsePathMode(f.pathMode)
	if err != nil {
		return err
	}

	var out io.Writer = cmd.OutOrStdout()
	if f.output != "" {
		file, err := os.Create(f.output)
		if err != nil {
			return err
		}
		defer file.Close()
		out = file
		useColor = false
	}
	opts := diagfmt.Opts{
		Color:        useColor,
		PathMode:     pathMode,
		BaseDir:      in.baseDir,
		ShowText:     f.showText,
		IncludeNotes: f.notes,
		Max:          f.maxEvents,
	}

	switch format {
	case diagfmt.FormatJSON:
		err = diagfmt.JSON(out, in.events, in.diags, opts)
	case diagfmt.FormatNDJSON:
		err = diagfmt.NDJSON(out, in.events, in.diags, opts)
	case diagfmt.FormatTSV:
		err = diagfmt.TSV(out, in.events, opts)
		if err == nil {
			err = writeShortDiagnostics(cmd.ErrOrStderr(), in, f.notes)
		}
	default:
		err = writePretty(out, in, opts)
	}
	if err != nil {
		return err
	}

	if f.failOnIncompatible {
		for _, ev := range in.events {
			if !ev.Compatible {
				return &exitError{code: 2, err: errors.New("incompatible API changes found")}
			}
		}
	}
	return nil
}

func writePretty(out io.Writer, in reportInput, opts diagfmt.Opts) error {
	if err := diagfmt.Pretty(out, in.events, opts); err != nil {
		return err
	}
	warnings := 0
	for _, d := range in.diags {
		if d.Severity >= diag.SevWarning {
			warnings++
		}
	}
	if len(in.diags) > 0 {
		if _, err := fmt.Fprintln(out); err != nil {
			return err
		}
		if err := diagfmt.PrettyDiagnostics(out, in.diags, opts); err != nil {
			return err
		}
	}
	return diagfmt.WriteSummary(out, diagfmt.Summary{
		Files:    in.files,
		Skipped:  in.skipped,
		Events:   in.events,
		Warnings: warnings,
	}, opts)
}

// writeShortDiagnostics prints one plain line per diagnostic.
func writeShortDiagnostics(w io.Writer, in reportInput, notes bool) error {
	text := diag.FormatShortDiagnostics(in.diags, in.baseDir, notes)
	if text == "" {
		return nil
	}
	_, err := fmt.Fprintln(w, text)
	return err
}
