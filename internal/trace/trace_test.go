package trace_test

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"apidiff/internal/trace"
)

func TestLevelFiltersScopes(t *testing.T) {
	if trace.LevelRun.ShouldEmit(trace.ScopeFile) {
		t.Fatal("run level must drop file spans")
	}
	if !trace.LevelFile.ShouldEmit(trace.ScopeFile) || trace.LevelFile.ShouldEmit(trace.ScopeDecl) {
		t.Fatal("file level wrong")
	}
	if trace.LevelOff.ShouldEmit(trace.ScopeRun) {
		t.Fatal("off emits")
	}
	if _, err := trace.ParseLevel("verbose"); err == nil {
		t.Fatal("expected error")
	}
}

func TestStreamNDJSON(t *testing.T) {
	var buf bytes.Buffer
	tr := trace.NewStreamTracer(&buf, trace.LevelFile, trace.FormatNDJSON)
	ctx := trace.WithTracer(context.Background(), tr)

	ctx, run := trace.Start(ctx, trace.ScopeRun, "diff")
	_, file := trace.Start(ctx, trace.ScopeFile, "a.h")
	file.WithExtra("events", "3").End("")
	_, decl := trace.Start(ctx, trace.ScopeDecl, "OH_Open") // отфильтруется
	decl.End("")
	run.End("ok")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected 4 events, got %d:\n%s", len(lines), buf.String())
	}
	var ev struct {
		Kind     string            `json:"kind"`
		Name     string            `json:"name"`
		ParentID uint64            `json:"parent_id"`
		Extra    map[string]string `json:"extra"`
	}
	if err := json.Unmarshal([]byte(lines[2]), &ev); err != nil {
		t.Fatal(err)
	}
	if ev.Kind != "end" || ev.Name != "a.h" || ev.ParentID != run.ID() || ev.Extra["events"] != "3" {
		t.Fatalf("unexpected file end event: %+v", ev)
	}
}

func TestRingKeepsLast(t *testing.T) {
	r := trace.NewRingTracer(2, trace.LevelRun)
	for _, name := range []string{"a", "b", "c"} {
		trace.Point(r, trace.ScopeRun, name, "")
	}
	snap := r.Snapshot()
	if len(snap) != 2 || snap[0].Name != "b" || snap[1].Name != "c" {
		t.Fatalf("snapshot: %+v", snap)
	}
	multi := trace.NewMultiTracer(trace.LevelRun, trace.Nop, r)
	if trace.FindRing(multi) != r {
		t.Fatal("ring not found in multi tracer")
	}
}

func TestNopSpanIsInert(t *testing.T) {
	ctx, span := trace.Start(context.Background(), trace.ScopeRun, "x")
	if span.ID() != 0 || trace.SpanFromContext(ctx) != 0 {
		t.Fatal("nop span has an id")
	}
	if span.End("") != 0 {
		t.Fatal("nop span measured time")
	}
	var h *trace.Heartbeat
	h.Stop()
}
