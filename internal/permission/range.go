// Package permission classifies how a permission requirement changed between
// two versions of a doc comment.
//
// A requirement is a boolean expression over permission names, for example
// "ohos.permission.A or ohos.permission.B". The old and new expressions are
// turned into one circuit and the solver decides implication both ways:
// if every caller allowed before is still allowed, the range widened; if every
// caller allowed now was allowed before, it narrowed.
package permission

// Range is the classification of a permission change.
type Range uint8

const (
	// Unchanged means the two expressions accept the same callers.
	Unchanged Range = iota
	// Widened means new accepts a strict superset of old.
	Widened
	// Narrowed means new accepts a strict subset of old.
	Narrowed
	// Changed means neither side implies the other, or the direction is unknown.
	Changed
)

func (r Range) String() string {
	switch r {
	case Unchanged:
		return "unchanged"
	case Widened:
		return "widened"
	case Narrowed:
		return "narrowed"
	case Changed:
		return "changed"
	default:
		return "unknown"
	}
}

// Compatible reports whether callers of the old API keep working.
func (r Range) Compatible() bool {
	return r != Narrowed
}
