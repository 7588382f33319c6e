package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"
	diffpatch "github.com/sergi/go-diff/diffmatchpatch"

	"apidiff/internal/diag"
	"apidiff/internal/diff"
)

type palette struct {
	add, del, change, dim, bold, warn, err *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		add:    color.New(color.FgGreen),
		del:    color.New(color.FgRed),
		change: color.New(color.FgYellow),
		dim:    color.New(color.Faint),
		bold:   color.New(color.Bold),
		warn:   color.New(color.FgYellow, color.Bold),
		err:    color.New(color.FgRed, color.Bold),
	}
	for _, c := range []*color.Color{p.add, p.del, p.change, p.dim, p.bold, p.warn, p.err} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) mark(t diff.Type) *color.Color {
	switch t.Mark() {
	case "+":
		return p.add
	case "-":
		return p.del
	default:
		return p.change
	}
}

// Pretty prints one block per event:
//
//	~ FUNCTION_RETURN_CHANGE  OH_Open  a.h:10:5  (prototype changed)
//
// followed, with ShowText, by an inline diff of the rendered declarations.
func Pretty(w io.Writer, events []diff.Event, opts Opts) error {
	p := newPalette(opts.Color)
	events = truncate(events, opts.Max)

	typeWidth := 0
	for _, ev := range events {
		typeWidth = max(typeWidth, len(ev.Type.String()))
	}
	for _, ev := range events {
		var sb strings.Builder
		mc := p.mark(ev.Type)
		sb.WriteString(mc.Sprint(ev.Type.Mark()))
		sb.WriteByte(' ')
		sb.WriteString(mc.Sprint(runewidth.FillRight(ev.Type.String(), typeWidth)))
		sb.WriteString("  ")
		name := ev.Name
		if name == "" {
			name = "<anonymous>"
		}
		sb.WriteString(p.bold.Sprint(name))
		if loc := location(opts.path(ev.File), ev.Line, ev.Column); loc != "" {
			sb.WriteString("  ")
			sb.WriteString(p.dim.Sprint(loc))
		}
		sb.WriteString(p.dim.Sprintf("  (%s)", ev.Type.Category()))
		if !ev.Compatible {
			sb.WriteString("  ")
			sb.WriteString(p.err.Sprint("incompatible"))
		}
		sb.WriteByte('\n')
		if opts.ShowText {
			writeTextDiff(&sb, p, ev.OldText, ev.NewText)
		}
		if _, err := io.WriteString(w, sb.String()); err != nil {
			return err
		}
	}
	return nil
}

func location(file string, line, col int) string {
	switch {
	case file == "":
		return ""
	case line <= 0:
		return file
	case col <= 0:
		return fmt.Sprintf("%s:%d", file, line)
	default:
		return fmt.Sprintf("%s:%d:%d", file, line, col)
	}
}

// writeTextDiff shows a one-sided text as a whole and otherwise an inline
// character diff, cleaned up to word-ish boundaries.
func writeTextDiff(sb *strings.Builder, p palette, oldText, newText string) {
	const indent = "    "
	switch {
	case oldText == "" && newText == "":
		return
	case oldText == "":
		writeIndented(sb, indent, p.add.Sprint(strings.TrimRight(newText, "\n")))
		return
	case newText == "":
		writeIndented(sb, indent, p.del.Sprint(strings.TrimRight(oldText, "\n")))
		return
	}
	dmp := diffpatch.New()
	diffs := dmp.DiffCleanupSemantic(dmp.DiffMain(oldText, newText, false))
	var out strings.Builder
	for _, d := range diffs {
		switch d.Type {
		case diffpatch.DiffInsert:
			out.WriteString(p.add.Sprint("{+" + d.Text + "+}"))
		case diffpatch.DiffDelete:
			out.WriteString(p.del.Sprint("[-" + d.Text + "-]"))
		case diffpatch.DiffEqual:
			out.WriteString(d.Text)
		}
	}
	writeIndented(sb, indent, strings.TrimRight(out.String(), "\n"))
}

func writeIndented(sb *strings.Builder, indent, text string) {
	for _, line := range strings.Split(text, "\n") {
		sb.WriteString(indent)
		sb.WriteString(line)
		sb.WriteByte('\n')
	}
}

// PrettyDiagnostics prints "<path>:<line>:<col>: <SEV> <CODE>: <message>"
// per diagnostic, notes indented below when requested.
func PrettyDiagnostics(w io.Writer, diags []diag.Diagnostic, opts Opts) error {
	p := newPalette(opts.Color)
	for _, d := range diags {
		sev := p.warn
		switch d.Severity {
		case diag.SevError:
			sev = p.err
		case diag.SevInfo:
			sev = p.dim
		}
		loc := location(opts.path(d.Primary.File), d.Primary.Line, d.Primary.Column)
		if loc == "" {
			loc = "<run>"
		}
		msg := d.Message
		if d.Primary.Decl != "" {
			msg = d.Primary.Decl + ": " + msg
		}
		if _, err := fmt.Fprintf(w, "%s: %s %s: %s\n", loc, sev.Sprint(d.Severity), d.Code.ID(), msg); err != nil {
			return err
		}
		if !opts.IncludeNotes {
			continue
		}
		for _, n := range d.Notes {
			nloc := location(opts.path(n.Pos.File), n.Pos.Line, n.Pos.Column)
			if nloc == "" {
				nloc = "note"
			}
			if _, err := fmt.Fprintf(w, "    %s: %s\n", p.dim.Sprint(nloc), n.Msg); err != nil {
				return err
			}
		}
	}
	return nil
}

// Summary is the closing tally of a run.
type Summary struct {
	Files, Skipped int
	Events         []diff.Event
	Warnings       int
}

// WriteSummary prints counts per category, the incompatible count and the
// number of warnings.
func WriteSummary(w io.Writer, s Summary, opts Opts) error {
	p := newPalette(opts.Color)
	counts := make(map[diff.Category]int)
	incompatible := 0
	for _, ev := range s.Events {
		counts[ev.Type.Category()]++
		if !ev.Compatible {
			incompatible++
		}
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s %d file pairs (%d identical), %d events\n", p.bold.Sprint("summary:"), s.Files, s.Skipped, len(s.Events))
	for _, c := range []diff.Category{diff.CategoryAPIAdded, diff.CategoryAPIRemoved, diff.CategoryPrototype, diff.CategoryDoc, diff.CategoryConstraint} {
		if counts[c] == 0 {
			continue
		}
		fmt.Fprintf(&sb, "  %s %d\n", runewidth.FillRight(c.String(), 20), counts[c])
	}
	if incompatible > 0 {
		fmt.Fprintf(&sb, "  %s %d\n", p.err.Sprint(runewidth.FillRight("incompatible", 20)), incompatible)
	}
	if s.Warnings > 0 {
		fmt.Fprintf(&sb, "  %s %d\n", p.warn.Sprint(runewidth.FillRight("warnings", 20)), s.Warnings)
	}
	_, err := io.WriteString(w, sb.String())
	return err
}
