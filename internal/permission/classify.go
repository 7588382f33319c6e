package permission

import (
	"errors"
	"fmt"
	"strings"

	"github.com/expr-lang/expr/ast"
	"github.com/expr-lang/expr/parser"
	"github.com/go-air/gini"
	"github.com/go-air/gini/logic"
	"github.com/go-air/gini/z"
)

// ErrEmpty is returned for a blank permission expression.
var ErrEmpty = errors.New("empty permission expression")

// Classify compares two permission expressions.
// On a parse error the range is Changed and the error says which side failed.
func Classify(oldExpr, newExpr string) (Range, error) {
	oldExpr = strings.TrimSpace(oldExpr)
	newExpr = strings.TrimSpace(newExpr)
	if oldExpr == newExpr {
		return Unchanged, nil
	}

	oldTree, err := parseExpr(oldExpr)
	if err != nil {
		return Changed, fmt.Errorf("old permission %q: %w", oldExpr, err)
	}
	newTree, err := parseExpr(newExpr)
	if err != nil {
		return Changed, fmt.Errorf("new permission %q: %w", newExpr, err)
	}

	b := newBuilder()
	oldLit, err := b.build(oldTree)
	if err != nil {
		return Changed, fmt.Errorf("old permission %q: %w", oldExpr, err)
	}
	newLit, err := b.build(newTree)
	if err != nil {
		return Changed, fmt.Errorf("new permission %q: %w", newExpr, err)
	}

	g := gini.New()
	b.c.ToCnf(g)

	oldImpliesNew := !satisfiable(g, oldLit, newLit.Not())
	newImpliesOld := !satisfiable(g, newLit, oldLit.Not())

	switch {
	case oldImpliesNew && newImpliesOld:
		return Unchanged, nil
	case oldImpliesNew:
		return Widened, nil
	case newImpliesOld:
		return Narrowed, nil
	default:
		return Changed, nil
	}
}

// satisfiable checks the conjunction of lits under the circuit already in g.
// Assumptions are dropped by gini after every Solve.
func satisfiable(g *gini.Gini, lits ...z.Lit) bool {
	g.Assume(lits...)
	return g.Solve() == 1
}

func parseExpr(s string) (ast.Node, error) {
	if s == "" {
		return nil, ErrEmpty
	}
	tree, err := parser.Parse(s)
	if err != nil {
		return nil, err
	}
	return tree.Node, nil
}

// builder maps permission names to circuit inputs shared by both sides.
type builder struct {
	c    *logic.C
	vars map[string]z.Lit
}

func newBuilder() *builder {
	return &builder{c: logic.NewC(), vars: make(map[string]z.Lit)}
}

func (b *builder) build(node ast.Node) (z.Lit, error) {
	switch n := node.(type) {
	case *ast.BinaryNode:
		left, err := b.build(n.Left)
		if err != nil {
			return 0, err
		}
		right, err := b.build(n.Right)
		if err != nil {
			return 0, err
		}
		switch n.Operator {
		case "or", "||":
			return b.c.Or(left, right), nil
		case "and", "&&":
			return b.c.And(left, right), nil
		default:
			return 0, fmt.Errorf("unsupported operator %q", n.Operator)
		}
	case *ast.UnaryNode:
		if n.Operator != "not" && n.Operator != "!" {
			return 0, fmt.Errorf("unsupported operator %q", n.Operator)
		}
		inner, err := b.build(n.Node)
		if err != nil {
			return 0, err
		}
		return inner.Not(), nil
	case *ast.IdentifierNode, *ast.MemberNode, *ast.StringNode:
		name, err := permissionName(node)
		if err != nil {
			return 0, err
		}
		return b.variable(name), nil
	case *ast.BoolNode:
		if n.Value {
			return b.c.T, nil
		}
		return b.c.F, nil
	default:
		return 0, fmt.Errorf("unsupported term %T", node)
	}
}

func (b *builder) variable(name string) z.Lit {
	if lit, ok := b.vars[name]; ok {
		return lit
	}
	lit := b.c.Lit()
	b.vars[name] = lit
	return lit
}

// permissionName renders a dotted member chain back to its source spelling.
func permissionName(node ast.Node) (string, error) {
	switch n := node.(type) {
	case *ast.IdentifierNode:
		return n.Value, nil
	case *ast.StringNode:
		return n.Value, nil
	case *ast.MemberNode:
		base, err := permissionName(n.Node)
		if err != nil {
			return "", err
		}
		prop, ok := n.Property.(*ast.StringNode)
		if !ok {
			return "", fmt.Errorf("unsupported member access %T", n.Property)
		}
		return base + "." + prop.Value, nil
	default:
		return "", fmt.Errorf("unsupported term %T", node)
	}
}
