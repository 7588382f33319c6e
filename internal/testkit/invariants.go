// Package testkit holds checks shared by package tests.
package testkit

import (
	"fmt"

	"fortio.org/safecast"

	"apidiff/internal/apinode"
	"apidiff/internal/diff"
)

// CheckEvents verifies the properties every event sequence must have:
//  1. ADD_API carries only the new text, REDUCE_API only the old text
//  2. only a narrowed permission is incompatible
//  3. events on macros never count as API changes, all others do
//  4. every type is a known one and positions are non-negative
func CheckEvents(events []diff.Event) error {
	for i, ev := range events {
		if ev.Type == diff.TypeUnknown || ev.Type.Category() == diff.CategoryNone {
			return fmt.Errorf("event %d: unknown type %v", i, ev.Type)
		}
		switch ev.Type {
		case diff.AddAPI:
			if ev.OldText != "" || ev.NewText == "" {
				return fmt.Errorf("event %d: ADD_API must have only new text", i)
			}
		case diff.ReduceAPI:
			if ev.NewText != "" || ev.OldText == "" {
				return fmt.Errorf("event %d: REDUCE_API must have only old text", i)
			}
		}
		if !ev.Compatible && ev.Type != diff.DocTagPermissionRangeSmaller {
			return fmt.Errorf("event %d: %v marked incompatible", i, ev.Type)
		}
		if ev.Type == diff.DocTagPermissionRangeSmaller && ev.Compatible {
			return fmt.Errorf("event %d: narrowed permission marked compatible", i)
		}
		if ev.Kind != "" && ev.APIChange == ev.Kind.IsMacro() {
			return fmt.Errorf("event %d: api_change=%v for kind %s", i, ev.APIChange, ev.Kind)
		}
		if _, err := safecast.Conv[uint32](ev.Line); err != nil {
			return fmt.Errorf("event %d: line: %w", i, err)
		}
		if _, err := safecast.Conv[uint32](ev.Column); err != nil {
			return fmt.Errorf("event %d: column: %w", i, err)
		}
	}
	return nil
}

// CountNodes returns how many nodes the trees hold, roots included.
func CountNodes(roots ...*apinode.Node) int {
	n := 0
	for _, root := range roots {
		_ = apinode.Walk(root, func(node *apinode.Node, _ []string) error {
			if node != nil {
				n++
			}
			return nil
		})
	}
	return n
}
