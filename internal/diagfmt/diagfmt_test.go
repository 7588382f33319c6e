package diagfmt_test

import (
	"bufio"
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"apidiff/internal/diag"
	"apidiff/internal/diagfmt"
	"apidiff/internal/diff"
)

func sampleEvents() []diff.Event {
	return []diff.Event{
		{
			Type: diff.FunctionReturnChange, Name: "OH_Open", Kind: "FUNCTION_DECL",
			File: "/sdk/media/a.h", Line: 10, Column: 5, Kit: "MediaKit", Subsystem: "multimedia",
			OldText:    "class: ;\napi: OH_Open;\ncontent: int OH_Open(void);\nposition: 10,5\n",
			NewText:    "class: ;\napi: OH_Open;\ncontent: long OH_Open(void);\nposition: 10,5\n",
			Compatible: true, APIChange: true,
		},
		{
			Type: diff.DocTagPermissionRangeSmaller, Name: "OH_Close", Kind: "FUNCTION_DECL",
			File: "/sdk/media/a.h", Line: 12, Column: 5,
			OldText: "old\ttext", NewText: "new",
			Compatible: false, APIChange: true,
		},
	}
}

func TestJSONReport(t *testing.T) {
	var buf bytes.Buffer
	diags := []diag.Diagnostic{diag.NewWarning(diag.IOParseError, diag.Position{File: "/sdk/media/b.h"}, "parse failed")}
	opts := diagfmt.Opts{PathMode: diagfmt.PathModeRelative, BaseDir: "/sdk"}
	if err := diagfmt.JSON(&buf, sampleEvents(), diags, opts); err != nil {
		t.Fatal(err)
	}

	var out diagfmt.ReportJSON
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, buf.String())
	}
	if out.Count != 2 || len(out.Events) != 2 {
		t.Fatalf("count %d", out.Count)
	}
	ev := out.Events[1]
	if ev.Type != "DOC_TAG_PERMISSION_RANGE_SMALLER" || ev.Category != "constraint changed" || ev.Compatible {
		t.Fatalf("event: %+v", ev)
	}
	if ev.File != "media/a.h" {
		t.Fatalf("relative path: %q", ev.File)
	}
	if len(out.Diagnostics) != 1 || out.Diagnostics[0].Code != "IO2002" || out.Diagnostics[0].Location.File != "media/b.h" {
		t.Fatalf("diagnostics: %+v", out.Diagnostics)
	}
}

func TestNDJSONOneLinePerRecord(t *testing.T) {
	var buf bytes.Buffer
	diags := []diag.Diagnostic{diag.NewWarning(diag.DiffMalformedNode, diag.Position{Decl: "f"}, "null parameter")}
	if err := diagfmt.NDJSON(&buf, sampleEvents(), diags, diagfmt.Opts{}); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d:\n%s", len(lines), buf.String())
	}
	if !strings.Contains(lines[2], `"diagnostic":`) || !strings.Contains(lines[2], `"DIF1001"`) {
		t.Fatalf("diagnostic line: %s", lines[2])
	}
}

func TestTSVColumns(t *testing.T) {
	var buf bytes.Buffer
	if err := diagfmt.TSV(&buf, sampleEvents(), diagfmt.Opts{PathMode: diagfmt.PathModeBasename}); err != nil {
		t.Fatal(err)
	}
	sc := bufio.NewScanner(&buf)
	var rows [][]string
	for sc.Scan() {
		rows = append(rows, strings.Split(sc.Text(), "\t"))
	}
	if len(rows) != 3 {
		t.Fatalf("expected header + 2 rows, got %d", len(rows))
	}
	for i, row := range rows {
		if len(row) != len(diagfmt.TSVHeader) {
			t.Fatalf("row %d has %d cells: %q", i, len(row), row)
		}
	}
	want := []string{"DOC_TAG_PERMISSION_RANGE_SMALLER", `old\ttext`, "new", "no", "a.h", "", "", "yes", "constraint changed"}
	for i, cell := range want {
		if rows[2][i] != cell {
			t.Fatalf("cell %d (%s) = %q, want %q", i, diagfmt.TSVHeader[i], rows[2][i], cell)
		}
	}
	if !strings.HasPrefix(rows[1][1], `class: ;\napi: OH_Open;`) {
		t.Fatalf("newlines not escaped: %q", rows[1][1])
	}
}

func TestPrettyWithoutColor(t *testing.T) {
	var buf bytes.Buffer
	opts := diagfmt.Opts{ShowText: true, PathMode: diagfmt.PathModeBasename}
	if err := diagfmt.Pretty(&buf, sampleEvents(), opts); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if strings.Contains(out, "\x1b[") {
		t.Fatal("color codes with Color=false")
	}
	for _, want := range []string{
		"~ FUNCTION_RETURN_CHANGE",
		"OH_Open  a.h:10:5  (prototype changed)",
		"[-",
		"{+",
		"incompatible",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in:\n%s", want, out)
		}
	}
}

func TestSummaryAndDiagnostics(t *testing.T) {
	var buf bytes.Buffer
	err := diagfmt.WriteSummary(&buf, diagfmt.Summary{Files: 3, Skipped: 1, Events: sampleEvents(), Warnings: 2}, diagfmt.Opts{})
	if err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.Contains(out, "3 file pairs (1 identical), 2 events") || !strings.Contains(out, "incompatible") {
		t.Fatalf("summary:\n%s", out)
	}

	buf.Reset()
	d := diag.NewWarning(diag.DiffTokenizerTimeout, diag.Position{File: "a.h", Line: 3, Column: 1, Decl: "OH_Open"}, "timed out").
		WithNote(diag.Position{File: "old/a.h", Line: 3}, "old declaration")
	if err := diagfmt.PrettyDiagnostics(&buf, []diag.Diagnostic{d}, diagfmt.Opts{IncludeNotes: true}); err != nil {
		t.Fatal(err)
	}
	if got := buf.String(); !strings.Contains(got, "a.h:3:1:") || !strings.Contains(got, "DIF1003: OH_Open: timed out") || !strings.Contains(got, "old/a.h:3: old declaration") {
		t.Fatalf("diagnostics:\n%s", got)
	}
}
