package doctag_test

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"

	"apidiff/internal/doctag"
)

func TestParseCommentFunction(t *testing.T) {
	comment := `/**
 * @brief Opens the player.
 *        Second line.
 * @param {int} fd file descriptor
 * @permission ohos.permission.A or ohos.permission.B
 * @return result code
 * @since 10
 */`
	got := doctag.ParseComment(comment)
	want := []doctag.Doc{{
		Tags: []doctag.Tag{
			{Tag: "brief", Name: "Opens", Description: "the player. Second line."},
			{Tag: "param", Name: "fd", Description: "file descriptor"},
			{Tag: "permission", Name: "ohos.permission.A", Description: "or ohos.permission.B"},
			{Tag: "return", Name: "result", Description: "code"},
			{Tag: "since", Name: "10"},
		},
	}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("docs mismatch (-want +got):\n%s", diff)
	}
}

func TestParseCommentBlocksAndBraces(t *testing.T) {
	comment := `/**
 * @addtogroup Media
 * @{
 */
/* plain comment is ignored */
/**
 * Free text.
 * @file player.h
 */
/**/`
	got := doctag.ParseComment(comment)
	want := []doctag.Doc{
		{Tags: []doctag.Tag{{Tag: "addtogroup", Name: "Media"}, {Tag: "{"}}},
		{Description: "Free text.", Tags: []doctag.Tag{{Tag: "file", Name: "player.h"}}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("docs mismatch (-want +got):\n%s", diff)
	}
}

func TestBuiltinHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := (doctag.Builtin{}).Tokenize(ctx, "/** @since 1 */"); err == nil {
		t.Fatal("expected context error")
	}
}

func TestGroupedKeepsFirstSeenOrder(t *testing.T) {
	d := doctag.Doc{Tags: []doctag.Tag{
		{Tag: "param", Name: "a"}, {Tag: "since", Name: "9"}, {Tag: "param", Name: "b"},
	}}
	groups := d.Grouped()
	if len(groups) != 2 || groups[0].Tag != "param" || len(groups[0].Tags) != 2 || groups[1].Tag != "since" {
		t.Fatalf("unexpected groups: %+v", groups)
	}
	if doctag.KindOf("{") != doctag.KindLeftBrace || doctag.KindOf("kit") != doctag.KindUnknown {
		t.Fatal("kind lookup broken")
	}
}
