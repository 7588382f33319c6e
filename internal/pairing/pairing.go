// Package pairing matches two sibling sequences of API nodes by identity key.
package pairing

import (
	"strconv"

	"apidiff/internal/apinode"
)

// Key identifies a node among its siblings.
type Key string

// Pair is the old and new node that share a key. Either side may be nil.
type Pair struct {
	Key Key
	Old *apinode.Node
	New *apinode.Node
}

// Added reports a key present only in the new sequence.
func (p Pair) Added() bool { return p.Old == nil && p.New != nil }

// Removed reports a key present only in the old sequence.
func (p Pair) Removed() bool { return p.Old != nil && p.New == nil }

// Both reports a key present on both sides.
func (p Pair) Both() bool { return p.Old != nil && p.New != nil }

// Set is an ordered mapping from key to pair.
type Set struct {
	order []Key
	pairs map[Key]*Pair
}

// Keys returns keys in first-seen order (old sequence, then new).
func (s *Set) Keys() []Key {
	return s.order
}

// Len returns the number of distinct keys.
func (s *Set) Len() int {
	return len(s.order)
}

// Old returns the old node stored under k.
func (s *Set) Old(k Key) *apinode.Node {
	if p := s.pairs[k]; p != nil {
		return p.Old
	}
	return nil
}

// New returns the new node stored under k.
func (s *Set) New(k Key) *apinode.Node {
	if p := s.pairs[k]; p != nil {
		return p.New
	}
	return nil
}

// Pairs returns every pair in key order.
func (s *Set) Pairs() []Pair {
	out := make([]Pair, 0, len(s.order))
	for _, k := range s.order {
		out = append(out, *s.pairs[k])
	}
	return out
}

// Merge pairs old and new siblings.
// Keys are assigned per side: anonymous ordinals restart for the new sequence,
// so anonymous siblings pair by position.
func Merge(old, new []*apinode.Node) *Set {
	s := &Set{pairs: make(map[Key]*Pair, len(old)+len(new))}
	for _, kn := range AssignKeys(old) {
		s.slot(kn.Key).Old = kn.Node
	}
	for _, kn := range AssignKeys(new) {
		s.slot(kn.Key).New = kn.Node
	}
	return s
}

func (s *Set) slot(k Key) *Pair {
	p, ok := s.pairs[k]
	if !ok {
		p = &Pair{Key: k}
		s.pairs[k] = p
		s.order = append(s.order, k)
	}
	return p
}

// Keyed is a node together with its derived key.
type Keyed struct {
	Key  Key
	Node *apinode.Node
}

// AssignKeys derives keys for one sibling sequence.
//
// Named nodes get name#kind. Anonymous nodes get anon#<ordinal>#kind with the
// ordinal counting anonymous nodes from 1 in encounter order. A repeated key
// (a forward declaration followed by the definition, say) gets #<occurrence>
// appended so every node stays addressable. Nil entries are skipped.
func AssignKeys(nodes []*apinode.Node) []Keyed {
	out := make([]Keyed, 0, len(nodes))
	seen := make(map[Key]int, len(nodes))
	ordinal := 0
	for _, n := range nodes {
		if n == nil {
			continue
		}
		var k Key
		if n.Anonymous() {
			ordinal++
			k = Key("anon#" + strconv.Itoa(ordinal) + "#" + string(n.Kind))
		} else {
			k = Key(n.Name + "#" + string(n.Kind))
		}
		seen[k]++
		if c := seen[k]; c > 1 {
			k = Key(string(k) + "#" + strconv.Itoa(c))
		}
		out = append(out, Keyed{Key: k, Node: n})
	}
	return out
}
