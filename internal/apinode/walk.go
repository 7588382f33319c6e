package apinode

import "strings"

// WalkFunc is called for every node in depth-first order.
// path lists the names (or kinds for anonymous nodes) from the root to node.
type WalkFunc func(node *Node, path []string) error

// Walk visits n and its params, members and children, in that order.
// A nil node is still passed to fn so callers can reject it.
func Walk(n *Node, fn WalkFunc) error {
	return walk(n, nil, fn)
}

func walk(n *Node, path []string, fn WalkFunc) error {
	if n == nil {
		return fn(nil, path)
	}
	path = append(path, label(n))
	if err := fn(n, path); err != nil {
		return err
	}
	for _, group := range [][]*Node{n.Params, n.Members, n.Children} {
		for _, child := range group {
			if err := walk(child, path, fn); err != nil {
				return err
			}
		}
	}
	return nil
}

func label(n *Node) string {
	if n.Name != "" {
		return n.Name
	}
	return "<" + strings.ToLower(string(n.Kind)) + ">"
}

func joinPath(path []string) string {
	if len(path) == 0 {
		return "<root>"
	}
	return strings.Join(path, "/")
}

// TopLevel returns the declarations the orchestrator pairs for one unit:
// named direct children of every root, followed by each root without its children.
// Anonymous top-level children are skipped; typedefs own them.
func TopLevel(roots []*Node) []*Node {
	var out []*Node
	for _, root := range roots {
		if root == nil {
			continue
		}
		for _, child := range root.Children {
			if child == nil || child.Anonymous() {
				continue
			}
			out = append(out, child)
		}
	}
	for _, root := range roots {
		if root == nil {
			continue
		}
		out = append(out, root.Shallow())
	}
	return out
}

// Enrich fills kit and subsystem on every node that lacks them.
func Enrich(n *Node, lookup func(path string) (kit, subsystem string, ok bool)) {
	if lookup == nil {
		return
	}
	_ = Walk(n, func(node *Node, _ []string) error {
		if node == nil || (node.KitName != "" && node.SubSystem != "") {
			return nil
		}
		kit, sub, ok := lookup(node.Location.Path)
		if !ok {
			return nil
		}
		if node.KitName == "" {
			node.KitName = kit
		}
		if node.SubSystem == "" {
			node.SubSystem = sub
		}
		return nil
	})
}
