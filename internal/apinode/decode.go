package apinode

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// ErrMissingKind is returned when a decoded node has no kind.
var ErrMissingKind = errors.New("node without kind")

// Decode reads the parser output for one source unit.
// The document is either a single root object or an array of roots.
func Decode(r io.Reader) ([]*Node, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read node tree: %w", err)
	}
	return DecodeBytes(data)
}

// DecodeBytes is Decode over an in-memory document.
func DecodeBytes(data []byte) ([]*Node, error) {
	trimmed := bytes.TrimLeft(data, " \t\r\n\ufeff")
	if len(trimmed) == 0 {
		return nil, nil
	}
	var roots []*Node
	if trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &roots); err != nil {
			return nil, fmt.Errorf("decode node tree: %w", err)
		}
	} else {
		var root Node
		if err := json.Unmarshal(trimmed, &root); err != nil {
			return nil, fmt.Errorf("decode node tree: %w", err)
		}
		roots = []*Node{&root}
	}
	for _, root := range roots {
		if err := Validate(root); err != nil {
			return nil, err
		}
	}
	return roots, nil
}

// Validate checks the structural contract of the tree rooted at n:
// every node has a kind and no child slot holds null.
func Validate(n *Node) error {
	return Walk(n, func(node *Node, path []string) error {
		if node == nil {
			return fmt.Errorf("%s: null node", joinPath(path))
		}
		if node.Kind == "" {
			return fmt.Errorf("%s: %w", joinPath(path), ErrMissingKind)
		}
		return nil
	})
}
