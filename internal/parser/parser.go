// Package parser turns one source file into API node trees.
//
// Header parsing is delegated: ExecParser runs an external front end that
// prints the node tree as JSON, JSONParser reads a tree produced earlier.
// Both hand the document to apinode.Decode, so the rest of the pipeline only
// ever sees validated trees.
package parser

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"apidiff/internal/apinode"
)

// ErrParse wraps every failure of the front end itself, as opposed to IO
// errors on the input file.
var ErrParse = errors.New("parse failed")

// Parser produces the node trees of one file.
type Parser interface {
	Parse(ctx context.Context, path string) ([]*apinode.Node, error)
}

// Func adapts a plain function to Parser.
type Func func(ctx context.Context, path string) ([]*apinode.Node, error)

// Parse implements Parser.
func (f Func) Parse(ctx context.Context, path string) ([]*apinode.Node, error) {
	return f(ctx, path)
}

// JSONParser reads node trees that were dumped to disk beforehand.
type JSONParser struct{}

// Parse implements Parser.
func (JSONParser) Parse(ctx context.Context, path string) ([]*apinode.Node, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	roots, err := apinode.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrParse, path, err)
	}
	return roots, nil
}

// ByExtension dispatches to a parser chosen by the file extension.
// Files without a registered extension go to Fallback.
type ByExtension struct {
	Parsers  map[string]Parser
	Fallback Parser
}

// Parse implements Parser.
func (b ByExtension) Parse(ctx context.Context, path string) ([]*apinode.Node, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if p, ok := b.Parsers[ext]; ok && p != nil {
		return p.Parse(ctx, path)
	}
	if b.Fallback == nil {
		return nil, fmt.Errorf("%w: no parser for %q", ErrParse, ext)
	}
	return b.Fallback.Parse(ctx, path)
}
