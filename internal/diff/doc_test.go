package diff_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"apidiff/internal/apinode"
	"apidiff/internal/diag"
	"apidiff/internal/diff"
	"apidiff/internal/doctag"
)

func commented(kind apinode.Kind, comment string) *apinode.Node {
	n := &apinode.Node{Name: "OH_Decl", Kind: kind, Comment: comment, Location: loc(20)}
	if kind == apinode.KindFunction {
		n.Params = []*apinode.Node{}
	}
	return n
}

func docDiff(t *testing.T, old, new *apinode.Node) []diff.Event {
	t.Helper()
	events, err := diff.New(nil, nil).Doc(context.Background(), old, new)
	if err != nil {
		t.Fatalf("Doc: %v", err)
	}
	return events
}

func TestDocSentinels(t *testing.T) {
	with := commented(apinode.KindFunction, "/** @since 10 */")
	without := commented(apinode.KindFunction, apinode.NoComment)
	expectTypes(t, docDiff(t, without, with), diff.AddDoc)
	expectTypes(t, docDiff(t, with, without), diff.ReduceDoc)
	expectTypes(t, docDiff(t, with, with))

	empty := commented(apinode.KindFunction, "")
	expectTypes(t, docDiff(t, empty, without))
}

func TestDocBlockCountDecides(t *testing.T) {
	one := commented(apinode.KindFunction, "/** @since 10 */")
	two := commented(apinode.KindFunction, "/** @brief a */\n/** @since 10 */")
	expectTypes(t, docDiff(t, one, two), diff.AddDoc)
	expectTypes(t, docDiff(t, two, one), diff.ReduceDoc)
}

func TestDocOnlyLastBlockCompared(t *testing.T) {
	old := commented(apinode.KindFunction, "/** @brief a */\n/** @since 10 */")
	new := commented(apinode.KindFunction, "/** @brief b */\n/** @since 11 */")
	expectTypes(t, docDiff(t, old, new), diff.DocTagSinceAToB)
}

func TestDocTranslationUnitPositional(t *testing.T) {
	old := commented(apinode.KindTranslationUnit, "/** @addtogroup Media */\n/** @file a.h */")
	new := commented(apinode.KindTranslationUnit, "/** @addtogroup Player */\n/** @file a.h */\n/** @since 12 */")
	expectTypes(t, docDiff(t, old, new), diff.DocTagAddToGroupAToB, diff.AddDoc)
}

func TestDocTagRules(t *testing.T) {
	tests := []struct {
		name     string
		old, new string
		want     []diff.Type
	}{
		{"brief changed", "@brief Open it.", "@brief Open the file.", []diff.Type{diff.DocTagBriefAToB}},
		{"since added", "@brief x", "@brief x\n * @since 12", []diff.Type{diff.DocTagSinceNAToHave}},
		{"deprecated removed", "@deprecated since 11\n * @since 9", "@since 9", []diff.Type{diff.DocTagDeprecatedHaveToNA}},
		{"param name and text", "@param fd file", "@param fh handle", []diff.Type{diff.DocTagParamNameAToB, diff.DocTagParamAToB}},
		{"second param added", "@param a x", "@param a x\n * @param b y", []diff.Type{diff.DocTagParamNAToHave}},
		{"library description ignored", "@library libA.so old", "@library libA.so new", nil},
		{"file renamed", "@file a.h", "@file b.h", []diff.Type{diff.DocTagFileAToB}},
		{"syscap", "@syscap SystemCapability.A", "@syscap SystemCapability.B", []diff.Type{diff.DocTagSyscapAToB}},
		{"return ignored", "@return 0", "@since 9", []diff.Type{diff.DocTagSinceNAToHave}},
		{"braces presence only", "@{", "@}", []diff.Type{diff.DocTagLeftBraceHaveToNA, diff.DocTagRightBraceNAToHave}},
		{"unknown tags skipped", "@kit A", "@kit B", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			old := commented(apinode.KindFunction, fmt.Sprintf("/**\n * %s\n */", tt.old))
			new := commented(apinode.KindFunction, fmt.Sprintf("/**\n * %s\n */", tt.new))
			expectTypes(t, docDiff(t, old, new), tt.want...)
		})
	}
}

func TestDocPermissionRange(t *testing.T) {
	a := commented(apinode.KindFunction, "/** @permission ohos.PERMISSION.A */")
	ab := commented(apinode.KindFunction, "/** @permission ohos.PERMISSION.A or ohos.PERMISSION.B */")

	widened := docDiff(t, a, ab)
	expectTypes(t, widened, diff.DocTagPermissionRangeBigger)
	if !widened[0].Compatible {
		t.Fatal("widening must stay compatible")
	}

	narrowed := docDiff(t, ab, a)
	expectTypes(t, narrowed, diff.DocTagPermissionRangeSmaller)
	if narrowed[0].Compatible {
		t.Fatal("narrowing must be incompatible")
	}

	b := commented(apinode.KindFunction, "/** @permission ohos.PERMISSION.B */")
	expectTypes(t, docDiff(t, a, b), diff.DocTagPermissionRangeChange)

	reordered := commented(apinode.KindFunction, "/** @permission ohos.PERMISSION.B or ohos.PERMISSION.A */")
	expectTypes(t, docDiff(t, ab, reordered))
}

func TestDocPermissionParseFailureWarns(t *testing.T) {
	bag := diag.NewBag(0)
	d := diff.New(nil, diag.BagReporter{Bag: bag})
	old := commented(apinode.KindFunction, "/** @permission ohos.PERMISSION.A */")
	new := commented(apinode.KindFunction, "/** @permission ohos.PERMISSION.A or ( */")
	events, err := d.Doc(context.Background(), old, new)
	if err != nil {
		t.Fatal(err)
	}
	expectTypes(t, events, diff.DocTagPermissionRangeChange)
	if bag.Len() != 1 || bag.Items()[0].Code != diag.DiffPermissionParse {
		t.Fatalf("expected one permission warning, got %+v", bag.Items())
	}
}

func TestDocTokenizerFailureIsMalformed(t *testing.T) {
	tok := doctag.TokenizerFunc(func(context.Context, string) ([]doctag.Doc, error) {
		return nil, fmt.Errorf("%w after 1s", doctag.ErrTimeout)
	})
	d := diff.New(tok, nil)
	_, err := d.Doc(context.Background(),
		commented(apinode.KindFunction, "/** a */"), commented(apinode.KindFunction, "/** b */"))
	if !errors.Is(err, diff.ErrMalformed) || !errors.Is(err, doctag.ErrTimeout) {
		t.Fatalf("expected malformed timeout, got %v", err)
	}
}
