// Package diff compares two versions of an API declaration.
//
// Differ.Declaration is the entry point for one matched pair: an absent side
// yields ADD_API or REDUCE_API, otherwise the doc comments are compared first
// and the structural rule for the kind second. Every call returns its own
// event slice; the caller concatenates them in pairing order.
package diff

import (
	"context"

	"apidiff/internal/apinode"
	"apidiff/internal/diag"
	"apidiff/internal/doctag"
)

// Differ holds the collaborators of the doc comparison.
// It is safe for concurrent use when its tokenizer and reporter are.
type Differ struct {
	tokenizer doctag.Tokenizer
	reporter  diag.Reporter
}

// New returns a Differ. A nil tokenizer means doctag.Builtin; a nil reporter
// drops non-fatal warnings.
func New(tok doctag.Tokenizer, r diag.Reporter) *Differ {
	if tok == nil {
		tok = doctag.Builtin{}
	}
	if r == nil {
		r = diag.NopReporter{}
	}
	return &Differ{tokenizer: tok, reporter: r}
}

// Declaration compares one matched pair. Either side may be nil.
// A *MalformedError means this pair could not be compared; callers report it
// and move on.
func (d *Differ) Declaration(ctx context.Context, old, new *apinode.Node) ([]Event, error) {
	switch {
	case old == nil && new == nil:
		return nil, nil
	case old == nil:
		return []Event{newEvent(AddAPI, nil, new)}, nil
	case new == nil:
		return []Event{newEvent(ReduceAPI, old, nil)}, nil
	}

	events, err := d.Doc(ctx, old, new)
	if err != nil {
		return nil, err
	}
	if !HasStructuralRule(new.Kind) {
		return events, nil
	}
	structural, err := Structural(old, new)
	if err != nil {
		return nil, err
	}
	return append(events, structural...), nil
}
