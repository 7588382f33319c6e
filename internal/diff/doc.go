package diff

import (
	"context"
	"errors"
	"fmt"

	"apidiff/internal/apinode"
	"apidiff/internal/diag"
	"apidiff/internal/doctag"
	"apidiff/internal/permission"
)

// Doc compares the doc comments of a matched pair.
func (d *Differ) Doc(ctx context.Context, old, new *apinode.Node) ([]Event, error) {
	if old == nil || new == nil {
		return nil, nil
	}
	oldNone, newNone := apinode.IsNoComment(old.Comment), apinode.IsNoComment(new.Comment)
	switch {
	case old.Comment == new.Comment, oldNone && newNone:
		return nil, nil
	case oldNone:
		return []Event{newEvent(AddDoc, old, new)}, nil
	case newNone:
		return []Event{newEvent(ReduceDoc, old, new)}, nil
	}

	oldDocs, err := d.tokenize(ctx, old)
	if err != nil {
		return nil, err
	}
	newDocs, err := d.tokenize(ctx, new)
	if err != nil {
		return nil, err
	}

	if new.Kind == apinode.KindTranslationUnit {
		return d.compareDocList(oldDocs, newDocs, old, new), nil
	}
	switch {
	case len(oldDocs) > len(newDocs):
		return []Event{newEvent(ReduceDoc, old, new)}, nil
	case len(oldDocs) < len(newDocs):
		return []Event{newEvent(AddDoc, old, new)}, nil
	case len(oldDocs) == 0:
		return nil, nil
	}
	// у декларации значим только последний блок перед ней
	last := len(oldDocs) - 1
	return d.compareDoc(oldDocs[last], newDocs[last], old, new), nil
}

func (d *Differ) tokenize(ctx context.Context, n *apinode.Node) ([]doctag.Doc, error) {
	docs, err := d.tokenizer.Tokenize(ctx, n.Comment)
	if err == nil {
		return docs, nil
	}
	if errors.Is(err, doctag.ErrTimeout) || errors.Is(err, context.DeadlineExceeded) {
		return nil, malformed(n, "doc comment tokenizer timed out", err)
	}
	return nil, malformed(n, "doc comment tokenizer failed", err)
}

// compareDocList walks two doc lists by position and stops at the first index
// only one side has.
func (d *Differ) compareDocList(oldDocs, newDocs []doctag.Doc, old, new *apinode.Node) []Event {
	var out []Event
	for i := 0; i < max(len(oldDocs), len(newDocs)); i++ {
		if i >= len(oldDocs) {
			return append(out, newEvent(AddDoc, old, new))
		}
		if i >= len(newDocs) {
			return append(out, newEvent(ReduceDoc, old, new))
		}
		out = append(out, d.compareDoc(oldDocs[i], newDocs[i], old, new)...)
	}
	return out
}

// compareDoc diffs tags spelling by spelling, in first-seen order (old doc,
// then new doc). Shorter occurrence lists are padded with absent tags.
func (d *Differ) compareDoc(oldDoc, newDoc doctag.Doc, old, new *apinode.Node) []Event {
	oldGroups, newGroups := oldDoc.Grouped(), newDoc.Grouped()
	byTag := make(map[string][2][]doctag.Tag)
	var order []string
	for side, groups := range [][]doctag.Group{oldGroups, newGroups} {
		for _, g := range groups {
			entry, seen := byTag[g.Tag]
			if !seen {
				order = append(order, g.Tag)
			}
			entry[side] = g.Tags
			byTag[g.Tag] = entry
		}
	}

	var out []Event
	for _, tag := range order {
		kind := doctag.KindOf(tag)
		if kind == doctag.KindUnknown {
			continue
		}
		entry := byTag[tag]
		for i := 0; i < max(len(entry[0]), len(entry[1])); i++ {
			out = append(out, d.compareTag(kind, tagAt(entry[0], i), tagAt(entry[1], i), old, new)...)
		}
	}
	return out
}

func tagAt(tags []doctag.Tag, i int) *doctag.Tag {
	if i < len(tags) {
		return &tags[i]
	}
	return nil
}

type tagTypes struct {
	added, removed, changed Type
}

var tagRules = map[doctag.TagKind]tagTypes{
	doctag.KindAddToGroup: {DocTagAddToGroupNAToHave, DocTagAddToGroupHaveToNA, DocTagAddToGroupAToB},
	doctag.KindBrief:      {DocTagBriefNAToHave, DocTagBriefHaveToNA, DocTagBriefAToB},
	doctag.KindDeprecated: {DocTagDeprecatedNAToHave, DocTagDeprecatedHaveToNA, DocTagDeprecatedAToB},
	doctag.KindFile:       {DocTagFileNAToHave, DocTagFileHaveToNA, DocTagFileAToB},
	doctag.KindLibrary:    {DocTagLibraryNAToHave, DocTagLibraryHaveToNA, DocTagLibraryAToB},
	doctag.KindParam:      {DocTagParamNAToHave, DocTagParamHaveToNA, DocTagParamAToB},
	doctag.KindPermission: {DocTagPermissionNAToHave, DocTagPermissionHaveToNA, DocTagPermissionRangeChange},
	doctag.KindSince:      {DocTagSinceNAToHave, DocTagSinceHaveToNA, DocTagSinceAToB},
	doctag.KindSyscap:     {DocTagSyscapNAToHave, DocTagSyscapHaveToNA, DocTagSyscapAToB},
	doctag.KindLeftBrace:  {DocTagLeftBraceNAToHave, DocTagLeftBraceHaveToNA, TypeUnknown},
	doctag.KindRightBrace: {DocTagRightBraceNAToHave, DocTagRightBraceHaveToNA, TypeUnknown},
}

func (d *Differ) compareTag(kind doctag.TagKind, o, n *doctag.Tag, old, new *apinode.Node) []Event {
	if kind == doctag.KindReturn {
		return nil
	}
	types, ok := tagRules[kind]
	if !ok {
		return nil
	}
	switch {
	case o == nil && n == nil:
		return nil
	case o == nil:
		return []Event{newEvent(types.added, old, new)}
	case n == nil:
		return []Event{newEvent(types.removed, old, new)}
	}

	switch kind {
	case doctag.KindAddToGroup, doctag.KindFile, doctag.KindLibrary:
		if o.Name != n.Name {
			return []Event{newEvent(types.changed, old, new)}
		}
	case doctag.KindBrief, doctag.KindDeprecated, doctag.KindSince, doctag.KindSyscap:
		if o.Text() != n.Text() {
			return []Event{newEvent(types.changed, old, new)}
		}
	case doctag.KindParam:
		var out []Event
		if o.Name != n.Name {
			out = append(out, newEvent(DocTagParamNameAToB, old, new))
		}
		if o.Description != n.Description {
			out = append(out, newEvent(DocTagParamAToB, old, new))
		}
		return out
	case doctag.KindPermission:
		if o.Text() != n.Text() {
			return d.comparePermission(o.Text(), n.Text(), old, new)
		}
	}
	return nil
}

func (d *Differ) comparePermission(oldExpr, newExpr string, old, new *apinode.Node) []Event {
	rng, err := permission.Classify(oldExpr, newExpr)
	if err != nil {
		diag.ReportWarning(d.reporter, diag.DiffPermissionParse, position(new), fmt.Sprintf("%v; treated as changed", err)).Emit()
	}
	switch rng {
	case permission.Narrowed:
		return []Event{newEvent(DocTagPermissionRangeSmaller, old, new).incompatible()}
	case permission.Widened:
		return []Event{newEvent(DocTagPermissionRangeBigger, old, new)}
	case permission.Changed:
		return []Event{newEvent(DocTagPermissionRangeChange, old, new)}
	default:
		return nil
	}
}

func position(n *apinode.Node) diag.Position {
	if n == nil {
		return diag.Position{}
	}
	return diag.Position{
		File:   n.Location.Path,
		Line:   n.Location.Line,
		Column: n.Location.Column,
		Decl:   n.Name,
	}
}
