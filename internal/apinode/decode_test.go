package apinode_test

import (
	"errors"
	"strings"
	"testing"

	"apidiff/internal/apinode"
)

func TestDecodeKeepsAbsentVsEmpty(t *testing.T) {
	doc := `{
		"name": "demo.h", "kind": "TRANSLATION_UNIT", "comment": "none_comment",
		"children": [
			{"name": "f", "kind": "FUNCTION_DECL", "return_type": "int", "parm": []},
			{"name": "g", "kind": "FUNCTION_DECL", "return_type": "void"},
			{"name": "K", "kind": "MACRO_DEFINITION", "text": "1"}
		]
	}`
	roots, err := apinode.Decode(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(roots) != 1 {
		t.Fatalf("expected 1 root, got %d", len(roots))
	}
	kids := roots[0].Children
	if kids[0].Params == nil {
		t.Fatal("empty parm list decoded as absent")
	}
	if kids[1].Params != nil {
		t.Fatal("missing parm list decoded as present")
	}
	if kids[2].Text == nil || *kids[2].Text != "1" {
		t.Fatalf("macro text lost: %#v", kids[2].Text)
	}
	if roots[0].HasComment() {
		t.Fatal("sentinel comment treated as real comment")
	}
}

func TestDecodeArrayOfRoots(t *testing.T) {
	roots, err := apinode.DecodeBytes([]byte(` [{"name":"a.h","kind":"TRANSLATION_UNIT"},{"name":"b.h","kind":"TRANSLATION_UNIT"}]`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(roots) != 2 || roots[1].Name != "b.h" {
		t.Fatalf("unexpected roots: %+v", roots)
	}
}

func TestDecodeRejectsMissingKind(t *testing.T) {
	_, err := apinode.DecodeBytes([]byte(`{"name":"a.h","kind":"TRANSLATION_UNIT","children":[{"name":"x"}]}`))
	if !errors.Is(err, apinode.ErrMissingKind) {
		t.Fatalf("expected ErrMissingKind, got %v", err)
	}
	if !strings.Contains(err.Error(), "a.h/x") {
		t.Fatalf("error should carry node path: %v", err)
	}
}

func TestTopLevelSkipsAnonymousAndAppendsRoot(t *testing.T) {
	root := &apinode.Node{
		Name: "demo.h",
		Kind: apinode.KindTranslationUnit,
		Children: []*apinode.Node{
			{Name: "A", Kind: apinode.KindStruct},
			{Name: "", Kind: apinode.KindEnum},
			{Name: "F", Kind: apinode.KindFunction},
		},
	}
	decls := apinode.TopLevel([]*apinode.Node{root})
	if len(decls) != 3 {
		t.Fatalf("expected 3 declarations, got %d", len(decls))
	}
	if decls[2].Kind != apinode.KindTranslationUnit || decls[2].Children != nil {
		t.Fatalf("root must come last without children: %+v", decls[2])
	}
	// исходное дерево не должно меняться
	if len(root.Children) != 3 {
		t.Fatal("TopLevel mutated the root")
	}
}

func TestEnrichFillsOnlyMissing(t *testing.T) {
	root := &apinode.Node{
		Name:     "a.h",
		Kind:     apinode.KindTranslationUnit,
		Location: apinode.Location{Path: "multimedia/a.h"},
		Children: []*apinode.Node{
			{Name: "F", Kind: apinode.KindFunction, KitName: "Own", Location: apinode.Location{Path: "multimedia/a.h"}},
		},
	}
	apinode.Enrich(root, func(string) (string, string, bool) { return "MediaKit", "multimedia", true })
	if root.KitName != "MediaKit" || root.SubSystem != "multimedia" {
		t.Fatalf("root not enriched: %+v", root)
	}
	if f := root.Children[0]; f.KitName != "Own" || f.SubSystem != "multimedia" {
		t.Fatalf("child enrichment wrong: %+v", f)
	}
}
