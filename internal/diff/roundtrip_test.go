package diff_test

import (
	"context"
	"testing"

	"apidiff/internal/apinode"
	"apidiff/internal/diff"
	"apidiff/internal/pairing"
	"apidiff/internal/testkit"
)

// deepUnit builds a unit with nested anonymous aggregates and doc comments.
func deepUnit() []*apinode.Node {
	anonEnum := &apinode.Node{Kind: apinode.KindEnum, Members: []*apinode.Node{
		{Name: "A", Kind: apinode.KindEnumConstant, Value: i64(0)},
		{Name: "B", Kind: apinode.KindEnumConstant, Value: i64(1)},
	}}
	inner := &apinode.Node{Kind: apinode.KindStruct, Location: loc(3), Members: []*apinode.Node{
		field("x", "int"),
		{Kind: apinode.KindUnion, Members: []*apinode.Node{field("i", "int"), field("f", "float")}},
	}}
	outer := &apinode.Node{Name: "Outer", Kind: apinode.KindStruct, Location: loc(2), Comment: "/** @brief Outer. @since 9 */", Members: []*apinode.Node{
		{Name: "inner", Kind: apinode.KindField, Type: "struct (anonymous)", Location: loc(3)},
		inner,
		anonEnum,
	}}
	td := &apinode.Node{Name: "Outer_t", Kind: apinode.KindTypedef, Children: []*apinode.Node{inner, anonEnum}}
	f := fn("int", param("fd", "int"), param("buf", "char *"))
	f.Comment = "/**\n * @brief Reads.\n * @param fd handle\n * @permission ohos.permission.READ or ohos.permission.WRITE\n */"
	macro := &apinode.Node{Name: "OH_MAX", Kind: apinode.KindMacro, Text: str("16")}
	v := &apinode.Node{Name: "kLimit", Kind: apinode.KindVariable, Type: "const int", IsConst: yes(),
		Children: []*apinode.Node{{Kind: "INTEGER_LITERAL", Content: apinode.Content{Text: "3"}}}}
	root := &apinode.Node{Name: "a.h", Kind: apinode.KindTranslationUnit, Comment: "/** @addtogroup X @{ */\n/** @file a.h */",
		Children: []*apinode.Node{outer, td, f, macro, v}}
	return []*apinode.Node{root}
}

func TestDiffAgainstItselfIsEmpty(t *testing.T) {
	roots := deepUnit()
	if testkit.CountNodes(roots...) < 15 {
		t.Fatal("fixture too shallow")
	}
	decls := apinode.TopLevel(roots)
	d := diff.New(nil, nil)
	for _, pair := range pairing.Merge(decls, decls).Pairs() {
		events, err := d.Declaration(context.Background(), pair.Old, pair.New)
		if err != nil {
			t.Fatalf("%s: %v", pair.Key, err)
		}
		if len(events) != 0 {
			t.Fatalf("%s: self diff produced %v", pair.Key, typesOf(events))
		}
	}
}

func TestEventInvariantsHold(t *testing.T) {
	old := deepUnit()
	new := deepUnit()
	nf := new[0].Children[2]
	nf.ReturnType = "long"
	nf.Params = nf.Params[:1]
	nf.Comment = "/**\n * @brief Reads.\n * @param fd handle\n * @permission ohos.permission.READ\n */"
	new[0].Children[3].Text = str("32")

	d := diff.New(nil, nil)
	var all []diff.Event
	for _, pair := range pairing.Merge(apinode.TopLevel(old), apinode.TopLevel(new)).Pairs() {
		events, err := d.Declaration(context.Background(), pair.Old, pair.New)
		if err != nil {
			t.Fatal(err)
		}
		all = append(all, events...)
	}
	expectTypes(t, all,
		diff.DocTagPermissionRangeSmaller,
		diff.FunctionReturnChange,
		diff.FunctionParamReduce,
		diff.DefineTextChange,
	)
	if err := testkit.CheckEvents(all); err != nil {
		t.Fatal(err)
	}
}
