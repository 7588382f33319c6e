package driver_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/google/go-cmp/cmp"

	"apidiff/internal/apinode"
	"apidiff/internal/diag"
	"apidiff/internal/diff"
	"apidiff/internal/doctag"
	"apidiff/internal/driver"
	"apidiff/internal/parser"
	"apidiff/internal/pipeline"
	"apidiff/internal/project"
	"apidiff/internal/testkit"
)

const unitV1 = `{
  "name": "/sdk/a.json", "kind": "TRANSLATION_UNIT", "comment": "/** @file a.h */",
  "location": {"location_path": "/sdk/a.json", "location_line": 1, "location_column": 1},
  "children": [
    {"name": "OH_Open", "kind": "FUNCTION_DECL", "return_type": "int", "parm": [],
     "location": {"location_path": "/sdk/a.json", "location_line": 10, "location_column": 5}},
    {"name": "OH_Close", "kind": "FUNCTION_DECL", "return_type": "void", "parm": [],
     "location": {"location_path": "/sdk/a.json", "location_line": 12, "location_column": 5}}
  ]
}`

const unitV2 = `{
  "name": "/sdk/a.json", "kind": "TRANSLATION_UNIT", "comment": "/** @file a.h */",
  "location": {"location_path": "/sdk/a.json", "location_line": 1, "location_column": 1},
  "children": [
    {"name": "OH_Open", "kind": "FUNCTION_DECL", "return_type": "long", "parm": [],
     "location": {"location_path": "/sdk/a.json", "location_line": 10, "location_column": 5}},
    {"name": "OH_Reset", "kind": "FUNCTION_DECL", "return_type": "void", "parm": [],
     "location": {"location_path": "/sdk/a.json", "location_line": 14, "location_column": 5}}
  ]
}`

func write(t *testing.T, path, body string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
}

func options() driver.Options {
	return driver.Options{
		Parser:     parser.JSONParser{},
		Differ:     diff.New(nil, nil),
		Extensions: []string{".json"},
		Jobs:       4,
	}
}

func types(events []diff.Event) []diff.Type {
	out := make([]diff.Type, 0, len(events))
	for _, ev := range events {
		out = append(out, ev.Type)
	}
	return out
}

func TestDiffCommonFile(t *testing.T) {
	root := t.TempDir()
	write(t, filepath.Join(root, "old", "a.json"), unitV1)
	write(t, filepath.Join(root, "new", "a.json"), unitV2)

	res, err := driver.Diff(context.Background(), filepath.Join(root, "old"), filepath.Join(root, "new"), options())
	if err != nil {
		t.Fatal(err)
	}
	// порядок: ключи old, затем новые ключи new; корень TU последним на каждой стороне
	want := []diff.Type{diff.FunctionReturnChange, diff.ReduceAPI, diff.AddAPI}
	if d := cmp.Diff(want, types(res.Events)); d != "" {
		t.Fatalf("events (-want +got):\n%s", d)
	}
	if err := testkit.CheckEvents(res.Events); err != nil {
		t.Fatal(err)
	}
	if res.Files != 1 || res.Skipped != 0 || res.Bag.Len() != 0 {
		t.Fatalf("unexpected result: files=%d skipped=%d diags=%v", res.Files, res.Skipped, res.Bag.Items())
	}
}

func TestDiffOneSidedFileAddsEveryDeclaration(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "old"), 0o755); err != nil {
		t.Fatal(err)
	}
	write(t, filepath.Join(root, "new", "sub", "a.json"), unitV1)

	res, err := driver.Diff(context.Background(), filepath.Join(root, "old"), filepath.Join(root, "new"), options())
	if err != nil {
		t.Fatal(err)
	}
	// две функции + сам translation unit
	if d := cmp.Diff([]diff.Type{diff.AddAPI, diff.AddAPI, diff.AddAPI}, types(res.Events)); d != "" {
		t.Fatalf("events (-want +got):\n%s", d)
	}
	if err := testkit.CheckEvents(res.Events); err != nil {
		t.Fatal(err)
	}
}

func TestDiffSkipsIdenticalFilesAndFilters(t *testing.T) {
	root := t.TempDir()
	write(t, filepath.Join(root, "old", "a.json"), unitV1)
	write(t, filepath.Join(root, "new", "a.json"), unitV1)
	write(t, filepath.Join(root, "new", "notes.txt"), "ignored")

	var parses atomic.Int32
	opts := options()
	opts.Parser = parser.Func(func(ctx context.Context, path string) ([]*apinode.Node, error) {
		parses.Add(1)
		return parser.JSONParser{}.Parse(ctx, path)
	})
	res, err := driver.Diff(context.Background(), filepath.Join(root, "old"), filepath.Join(root, "new"), opts)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Events) != 0 || res.Skipped != 1 || res.Files != 1 || parses.Load() != 0 {
		t.Fatalf("identical file must be skipped unparsed: %+v parses=%d", res, parses.Load())
	}
}

func TestDiffOrderIsStableUnderParallelism(t *testing.T) {
	root := t.TempDir()
	names := []string{"b.json", "a.json", "d/c.json", "e.json"}
	for _, name := range names {
		write(t, filepath.Join(root, "new", name), unitV1)
	}
	if err := os.MkdirAll(filepath.Join(root, "old"), 0o755); err != nil {
		t.Fatal(err)
	}

	opts := options()
	opts.Jobs = 8
	first, err := driver.Diff(context.Background(), filepath.Join(root, "old"), filepath.Join(root, "new"), opts)
	if err != nil {
		t.Fatal(err)
	}
	opts.Jobs = 1
	second, err := driver.Diff(context.Background(), filepath.Join(root, "old"), filepath.Join(root, "new"), opts)
	if err != nil {
		t.Fatal(err)
	}
	if d := cmp.Diff(first.Events, second.Events); d != "" {
		t.Fatalf("parallel order differs from sequential:\n%s", d)
	}
	if len(first.Events) != 3*len(names) {
		t.Fatalf("got %d events", len(first.Events))
	}
}

func TestDiffContainsFailures(t *testing.T) {
	root := t.TempDir()
	write(t, filepath.Join(root, "old", "a.json"), unitV1)
	write(t, filepath.Join(root, "new", "a.json"), `{"name": "broken"}`)
	write(t, filepath.Join(root, "old", "b.json"), unitV1)
	write(t, filepath.Join(root, "new", "b.json"), unitV2)

	res, err := driver.Diff(context.Background(), filepath.Join(root, "old"), filepath.Join(root, "new"), options())
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Events) != 3 {
		t.Fatalf("b.json must still be compared, got %v", types(res.Events))
	}
	items := res.Bag.Items()
	if len(items) != 1 || items[0].Code != diag.IOParseError {
		t.Fatalf("expected one parse warning, got %+v", items)
	}
}

func TestDiffMalformedDeclarationIsWarning(t *testing.T) {
	root := t.TempDir()
	old := `{"name":"u","kind":"TRANSLATION_UNIT","children":[{"name":"f","kind":"FUNCTION_DECL","comment":"/** a */"}]}`
	new := `{"name":"u","kind":"TRANSLATION_UNIT","children":[{"name":"f","kind":"FUNCTION_DECL","comment":"/** b */"}]}`
	write(t, filepath.Join(root, "old.json"), old)
	write(t, filepath.Join(root, "new.json"), new)

	opts := options()
	opts.Differ = diff.New(doctag.TokenizerFunc(func(context.Context, string) ([]doctag.Doc, error) {
		return nil, doctag.ErrTimeout
	}), nil)
	res, err := driver.Diff(context.Background(), filepath.Join(root, "old.json"), filepath.Join(root, "new.json"), opts)
	if err != nil {
		t.Fatal(err)
	}
	items := res.Bag.Items()
	if len(items) != 1 || items[0].Code != diag.DiffTokenizerTimeout || items[0].Primary.Decl != "f" {
		t.Fatalf("expected tokenizer timeout warning for f, got %+v", items)
	}
}

func TestDiffEnrichesKits(t *testing.T) {
	root := t.TempDir()
	write(t, filepath.Join(root, "old", "a.json"), unitV1)
	write(t, filepath.Join(root, "new", "a.json"), unitV2)

	opts := options()
	opts.Kits = project.NewKitTable([]project.KitEntry{{Path: "/sdk", Kit: "MediaKit", Subsystem: "multimedia"}})
	var progress pipeline.Recorder
	opts.Progress = &progress

	res, err := driver.Diff(context.Background(), filepath.Join(root, "old"), filepath.Join(root, "new"), opts)
	if err != nil {
		t.Fatal(err)
	}
	for _, ev := range res.Events {
		if ev.Kit != "MediaKit" || ev.Subsystem != "multimedia" {
			t.Fatalf("event not enriched: %+v", ev)
		}
	}
	events := progress.Events()
	last := events[len(events)-1]
	if last.Status != pipeline.StatusDone || last.File != "a.json" || last.Events != 3 {
		t.Fatalf("last progress event: %+v", last)
	}
}

func TestDiffCancelled(t *testing.T) {
	root := t.TempDir()
	write(t, filepath.Join(root, "old", "a.json"), unitV1)
	write(t, filepath.Join(root, "new", "a.json"), unitV2)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := driver.Diff(ctx, filepath.Join(root, "old"), filepath.Join(root, "new"), options())
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected cancellation, got %v", err)
	}
}

func TestListPairsKindMismatch(t *testing.T) {
	root := t.TempDir()
	write(t, filepath.Join(root, "old", "x.json", "inner.json"), unitV1)
	write(t, filepath.Join(root, "new", "x.json"), unitV1)

	pairs, problems, err := driver.ListPairs(filepath.Join(root, "old"), filepath.Join(root, "new"), []string{".json"})
	if err != nil {
		t.Fatal(err)
	}
	if len(pairs) != 0 || len(problems) != 1 || problems[0].Rel != "x.json" {
		t.Fatalf("pairs=%v problems=%v", pairs, problems)
	}
}

func TestDiffUnreadableSubdirectoryIsWarning(t *testing.T) {
	root := t.TempDir()
	write(t, filepath.Join(root, "old", "a.json"), unitV1)
	write(t, filepath.Join(root, "new", "a.json"), unitV2)
	locked := filepath.Join(root, "new", "locked")
	write(t, filepath.Join(locked, "b.json"), unitV1)
	if err := os.Chmod(locked, 0); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chmod(locked, 0o755) })
	if _, err := os.ReadDir(locked); err == nil {
		t.Skip("directory permissions are not enforced for this user")
	}

	res, err := driver.Diff(context.Background(), filepath.Join(root, "old"), filepath.Join(root, "new"), options())
	if err != nil {
		t.Fatalf("one unreadable directory must not abort the run: %v", err)
	}
	want := []diff.Type{diff.FunctionReturnChange, diff.ReduceAPI, diff.AddAPI}
	if d := cmp.Diff(want, types(res.Events)); d != "" {
		t.Fatalf("sibling file events (-want +got):\n%s", d)
	}
	items := res.Bag.Items()
	if len(items) != 1 || items[0].Code != diag.IOWalkError || items[0].Primary.File != "locked" {
		t.Fatalf("expected one walk warning for locked, got %+v", items)
	}
}

func TestListPairsUnreadableRootFails(t *testing.T) {
	root := t.TempDir()
	write(t, filepath.Join(root, "new", "a.json"), unitV1)
	oldRoot := filepath.Join(root, "old")
	if err := os.MkdirAll(oldRoot, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.Chmod(oldRoot, 0); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chmod(oldRoot, 0o755) })
	if _, err := os.ReadDir(oldRoot); err == nil {
		t.Skip("directory permissions are not enforced for this user")
	}

	if _, _, err := driver.ListPairs(oldRoot, filepath.Join(root, "new"), []string{".json"}); err == nil {
		t.Fatal("unreadable root accepted")
	}
}
