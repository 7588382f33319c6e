package diagfmt

import (
	"encoding/json"
	"io"

	"apidiff/internal/diag"
	"apidiff/internal/diff"
)

// EventJSON is the serialized event. The type is written by name and the
// report category is spelled out so consumers need no catalogue.
type EventJSON struct {
	Type       string `json:"type"`
	Category   string `json:"category"`
	Name       string `json:"name"`
	Kind       string `json:"kind"`
	File       string `json:"file"`
	Line       int    `json:"line,omitempty"`
	Column     int    `json:"column,omitempty"`
	Kit        string `json:"kit,omitempty"`
	Subsystem  string `json:"subsystem,omitempty"`
	ClassName  string `json:"class_name,omitempty"`
	OldText    string `json:"old_text"`
	NewText    string `json:"new_text"`
	Compatible bool   `json:"compatible"`
	APIChange  bool   `json:"api_change"`
}

// LocationJSON is a position inside an API file.
type LocationJSON struct {
	File   string `json:"file,omitempty"`
	Line   int    `json:"line,omitempty"`
	Column int    `json:"column,omitempty"`
	Decl   string `json:"decl,omitempty"`
}

// NoteJSON is an additional note of a diagnostic.
type NoteJSON struct {
	Message  string       `json:"message"`
	Location LocationJSON `json:"location"`
}

// DiagnosticJSON is a run warning in JSON form.
type DiagnosticJSON struct {
	Severity string       `json:"severity"`
	Code     string       `json:"code"`
	Message  string       `json:"message"`
	Location LocationJSON `json:"location"`
	Notes    []NoteJSON   `json:"notes,omitempty"`
}

// ReportJSON is the root of the json format.
type ReportJSON struct {
	Events      []EventJSON      `json:"events"`
	Count       int              `json:"count"`
	Diagnostics []DiagnosticJSON `json:"diagnostics,omitempty"`
}

// MakeEvent converts one event.
func MakeEvent(ev diff.Event, opts Opts) EventJSON {
	return EventJSON{
		Type:       ev.Type.String(),
		Category:   ev.Type.Category().String(),
		Name:       ev.Name,
		Kind:       string(ev.Kind),
		File:       opts.path(ev.File),
		Line:       ev.Line,
		Column:     ev.Column,
		Kit:        ev.Kit,
		Subsystem:  ev.Subsystem,
		ClassName:  ev.ClassName,
		OldText:    ev.OldText,
		NewText:    ev.NewText,
		Compatible: ev.Compatible,
		APIChange:  ev.APIChange,
	}
}

func makeLocation(p diag.Position, opts Opts) LocationJSON {
	return LocationJSON{File: opts.path(p.File), Line: p.Line, Column: p.Column, Decl: p.Decl}
}

// MakeDiagnostic converts one diagnostic. Timing notes are always kept.
func MakeDiagnostic(d diag.Diagnostic, opts Opts) DiagnosticJSON {
	out := DiagnosticJSON{
		Severity: d.Severity.String(),
		Code:     d.Code.ID(),
		Message:  d.Message,
		Location: makeLocation(d.Primary, opts),
	}
	if (opts.IncludeNotes || d.Code == diag.ObsTimings) && len(d.Notes) > 0 {
		out.Notes = make([]NoteJSON, len(d.Notes))
		for i, note := range d.Notes {
			out.Notes[i] = NoteJSON{Message: note.Msg, Location: makeLocation(note.Pos, opts)}
		}
	}
	return out
}

// BuildReport assembles the json document without serializing it.
func BuildReport(events []diff.Event, diags []diag.Diagnostic, opts Opts) ReportJSON {
	events = truncate(events, opts.Max)
	out := ReportJSON{
		Events: make([]EventJSON, 0, len(events)),
		Count:  len(events),
	}
	for _, ev := range events {
		out.Events = append(out.Events, MakeEvent(ev, opts))
	}
	for _, d := range diags {
		out.Diagnostics = append(out.Diagnostics, MakeDiagnostic(d, opts))
	}
	return out
}

// JSON writes one indented document with events and diagnostics.
func JSON(w io.Writer, events []diff.Event, diags []diag.Diagnostic, opts Opts) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)
	return encoder.Encode(BuildReport(events, diags, opts))
}

// NDJSON writes one event per line. Diagnostics follow as lines wrapped in
// {"diagnostic": ...} so a reader can tell them apart.
func NDJSON(w io.Writer, events []diff.Event, diags []diag.Diagnostic, opts Opts) error {
	encoder := json.NewEncoder(w)
	encoder.SetEscapeHTML(false)
	for _, ev := range truncate(events, opts.Max) {
		if err := encoder.Encode(MakeEvent(ev, opts)); err != nil {
			return err
		}
	}
	for _, d := range diags {
		line := struct {
			Diagnostic DiagnosticJSON `json:"diagnostic"`
		}{MakeDiagnostic(d, opts)}
		if err := encoder.Encode(line); err != nil {
			return err
		}
	}
	return nil
}

func truncate(events []diff.Event, limit int) []diff.Event {
	if limit > 0 && limit < len(events) {
		return events[:limit]
	}
	return events
}
