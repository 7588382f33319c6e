package diag

import (
	"testing"
)

func TestFormatShortDiagnostics(t *testing.T) {
	diags := []Diagnostic{
		{
			Severity: SevWarning,
			Code:     DiffTokenizerTimeout,
			Message:  "first line\nsecond",
			Primary:  Position{File: "/work/old/b.h", Line: 3, Column: 1, Decl: "OH_Foo"},
		},
		NewWarning(IOParseError, Position{File: "/work/old/a.h"}, "exit status 1").
			WithNote(Position{File: "/work/new/a.h"}, "new side"),
	}

	expected := "note IO2002 new/a.h:0:0 new side\n" +
		"warning IO2002 old/a.h:0:0 exit status 1\n" +
		"warning DIF1003 old/b.h:3:1 OH_Foo: first line second"

	if got := FormatShortDiagnostics(diags, "/work", true); got != expected {
		t.Fatalf("unexpected short diagnostics:\nwant:\n%s\n\ngot:\n%s", expected, got)
	}
}

func TestBagLimitAndDedup(t *testing.T) {
	b := NewBag(2)
	d := NewWarning(DiffMalformedNode, Position{File: "a.h", Decl: "f"}, "no kind")
	if !b.Add(d) || !b.Add(d) {
		t.Fatal("first two diagnostics must fit")
	}
	if b.Add(d) {
		t.Fatal("limit not enforced")
	}
	if b.Dropped() != 1 {
		t.Fatalf("dropped = %d", b.Dropped())
	}
	b.Dedup()
	if b.Len() != 1 {
		t.Fatalf("dedup left %d items", b.Len())
	}
	if !b.HasWarnings() || b.HasErrors() {
		t.Fatal("severity queries wrong")
	}
}

func TestDedupReporter(t *testing.T) {
	bag := NewBag(0)
	r := NewDedupReporter(BagReporter{Bag: bag})
	ReportWarning(r, IOLoadFileError, Position{File: "x.h"}, "denied").Emit()
	ReportWarning(r, IOLoadFileError, Position{File: "x.h"}, "denied").Emit()
	ReportWarning(r, IOLoadFileError, Position{File: "y.h"}, "denied").Emit()
	if bag.Len() != 2 {
		t.Fatalf("expected 2 unique diagnostics, got %d", bag.Len())
	}
}

func TestCodeID(t *testing.T) {
	cases := map[Code]string{
		DiffMalformedNode: "DIF1001",
		IOLoadFileError:   "IO2001",
		LabelMalformedAPI: "LBL3001",
		ObsTimings:        "OBS6001",
		UnknownCode:       "E0000",
	}
	for code, want := range cases {
		if got := code.ID(); got != want {
			t.Fatalf("%d: got %s want %s", code, got, want)
		}
	}
}
