package diff

import (
	"strings"

	"apidiff/internal/apinode"
	"apidiff/internal/pairing"
)

// HasStructuralRule reports whether Structural compares declarations of kind k.
func HasStructuralRule(k apinode.Kind) bool {
	switch k {
	case apinode.KindFunction, apinode.KindMacro, apinode.KindStruct, apinode.KindUnion,
		apinode.KindEnum, apinode.KindVariable, apinode.KindTypedef:
		return true
	default:
		return false
	}
}

// Structural compares two matched declarations of the same kind.
// Kinds without a rule, and pairs whose kinds differ, produce no events.
func Structural(old, new *apinode.Node) ([]Event, error) {
	if old == nil || new == nil {
		return nil, nil
	}
	if new.Kind == "" {
		return nil, malformed(new, "missing kind", nil)
	}
	if old.Kind != new.Kind {
		return nil, nil
	}
	switch new.Kind {
	case apinode.KindFunction:
		return compareFunction(old, new)
	case apinode.KindMacro:
		return compareMacro(old, new), nil
	case apinode.KindStruct:
		return compareAggregate(old, new, structTypes)
	case apinode.KindUnion:
		return compareAggregate(old, new, unionTypes)
	case apinode.KindEnum:
		return compareEnum(old, new), nil
	case apinode.KindVariable:
		return compareVariable(old, new)
	case apinode.KindTypedef:
		return compareTypedef(old, new)
	default:
		return nil, nil
	}
}

func compareFunction(old, new *apinode.Node) ([]Event, error) {
	var out []Event
	if old.ReturnType != new.ReturnType {
		out = append(out, newEvent(FunctionReturnChange, old, new))
	}

	switch {
	case old.Params == nil && new.Params == nil:
		return nil, malformed(new, "function without parameter list", nil)
	case old.Params == nil:
		return append(out, newEvent(FunctionParamAdd, old, new)), nil
	case new.Params == nil:
		return append(out, newEvent(FunctionParamReduce, old, new)), nil
	}

	n := max(len(old.Params), len(new.Params))
	for i := 0; i < n; i++ {
		switch {
		case i >= len(new.Params):
			out = append(out, newEvent(FunctionParamReduce, old.Params[i], nil))
		case i >= len(old.Params):
			out = append(out, newEvent(FunctionParamAdd, nil, new.Params[i]))
		default:
			op, np := old.Params[i], new.Params[i]
			if op == nil || np == nil {
				return nil, malformed(new, "null parameter", nil)
			}
			if op.Type != np.Type {
				out = append(out, newEvent(FunctionParamTypeChange, op, np))
			}
			if op.Name != np.Name {
				out = append(out, newEvent(FunctionParamNameChange, op, np))
			}
		}
	}
	return out, nil
}

// compareMacro reports any body difference as one TEXT_CHANGE; whether the
// body was added or removed is not distinguished.
func compareMacro(old, new *apinode.Node) []Event {
	var out []Event
	if old.Name != new.Name {
		out = append(out, newEvent(DefineNameChange, old, new))
	}
	switch {
	case old.Text == nil && new.Text == nil:
	case old.Text == nil || new.Text == nil, *old.Text != *new.Text:
		out = append(out, newEvent(DefineTextChange, old, new))
	}
	return out
}

type aggregateTypes struct {
	name, add, reduce, memberType, memberName Type
}

var (
	structTypes = aggregateTypes{StructNameChange, StructMemberAdd, StructMemberReduce, StructMemberTypeChange, StructMemberNameChange}
	unionTypes  = aggregateTypes{UnionNameChange, UnionMemberAdd, UnionMemberReduce, UnionMemberTypeChange, UnionMemberNameChange}
)

func compareAggregate(old, new *apinode.Node, types aggregateTypes) ([]Event, error) {
	var out []Event
	if old.Name != new.Name {
		out = append(out, newEvent(types.name, old, new))
	}

	switch {
	case old.Members == nil && new.Members == nil:
		return out, nil
	case old.Members == nil:
		return append(out, newEvent(types.add, old, new)), nil
	case new.Members == nil:
		return append(out, newEvent(types.reduce, old, new)), nil
	}

	for _, p := range pairing.Merge(old.Members, new.Members).Pairs() {
		switch {
		case p.Added():
			out = append(out, newEvent(types.add, nil, p.New))
		case p.Removed():
			out = append(out, newEvent(types.reduce, p.Old, nil))
		default:
			events, err := compareMember(p.Old, p.New, types)
			if err != nil {
				return nil, err
			}
			out = append(out, events...)
		}
	}
	return out, nil
}

func compareMember(old, new *apinode.Node, types aggregateTypes) ([]Event, error) {
	var out []Event
	// вложенный агрегат сравниваем целиком, своими типами событий
	if old.Kind == new.Kind && old.Kind.IsAggregate() {
		nested, err := Structural(old, new)
		if err != nil {
			return nil, err
		}
		out = append(out, nested...)
	}

	if !selfReferential(old) && !selfReferential(new) && old.Type != new.Type {
		out = append(out, newEvent(types.memberType, old, new))
	}
	if old.Name != new.Name {
		out = append(out, newEvent(types.memberName, old, new))
	}
	return out, nil
}

// selfReferential approximates "the type spelling names the member's own
// declaration": clang spells anonymous aggregates with their file path, as in
// "struct (unnamed at /x/a.h:3:5)". A path that merely occurs in unrelated
// type text is misread as a self-reference. An unknown path never matches.
func selfReferential(n *apinode.Node) bool {
	path := n.Location.Path
	return path != "" && strings.Contains(n.Type, path)
}

func compareEnum(old, new *apinode.Node) []Event {
	var out []Event
	if old.Name != new.Name {
		out = append(out, newEvent(EnumNameChange, old, new))
	}

	switch {
	case old.Members == nil && new.Members == nil:
		return out
	case old.Members == nil:
		return append(out, newEvent(EnumMemberAdd, old, new))
	case new.Members == nil:
		return append(out, newEvent(EnumMemberReduce, old, new))
	}

	for _, p := range pairing.Merge(old.Members, new.Members).Pairs() {
		switch {
		case p.Added():
			out = append(out, newEvent(EnumMemberAdd, nil, p.New))
		case p.Removed():
			out = append(out, newEvent(EnumMemberReduce, p.Old, nil))
		default:
			if !sameValue(p.Old.Value, p.New.Value) {
				out = append(out, newEvent(EnumMemberValueChange, p.Old, p.New))
			}
			if p.Old.Name != p.New.Name {
				out = append(out, newEvent(EnumMemberNameChange, p.Old, p.New))
			}
		}
	}
	return out
}

func sameValue(a, b *int64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

type variableTypes struct {
	name, typ, value Type
}

var (
	variableRule = variableTypes{VariableNameChange, VariableTypeChange, VariableValueChange}
	constantRule = variableTypes{ConstantNameChange, ConstantTypeChange, ConstantValueChange}
)

// compareVariable branches on the old side's is_const flag. The parser always
// sets it on VAR_DECL, so a missing flag is malformed input.
func compareVariable(old, new *apinode.Node) ([]Event, error) {
	isConst, ok := old.Const()
	if !ok {
		return nil, malformed(old, "variable without is_const", nil)
	}
	types := variableRule
	if isConst {
		types = constantRule
	}

	var out []Event
	if old.Name != new.Name {
		out = append(out, newEvent(types.name, old, new))
	}
	if old.Type != new.Type {
		out = append(out, newEvent(types.typ, old, new))
	}

	oldInit, newInit := initializer(old), initializer(new)
	switch {
	case oldInit == nil && newInit == nil:
	case oldInit == nil || newInit == nil:
		out = append(out, newEvent(types.value, oldInit, newInit))
	case oldInit.Content.Text != newInit.Content.Text:
		out = append(out, newEvent(types.value, oldInit, newInit))
	}
	return out, nil
}

func initializer(n *apinode.Node) *apinode.Node {
	if len(n.Children) == 0 {
		return nil
	}
	return n.Children[0]
}

// compareTypedef only recurses into positions where both sides hold an
// anonymous aggregate of the same kind.
func compareTypedef(old, new *apinode.Node) ([]Event, error) {
	var out []Event
	if old.Name != new.Name {
		out = append(out, newEvent(TypedefNameTypeChange, old, new))
	}
	if old.Children == nil || new.Children == nil {
		return out, nil
	}
	n := min(len(old.Children), len(new.Children))
	for i := 0; i < n; i++ {
		oc, nc := old.Children[i], new.Children[i]
		if oc == nil || nc == nil || !oc.Anonymous() || !nc.Anonymous() {
			continue
		}
		if oc.Kind != nc.Kind || !oc.Kind.IsAggregate() {
			continue
		}
		nested, err := Structural(oc, nc)
		if err != nil {
			return nil, err
		}
		out = append(out, nested...)
	}
	return out, nil
}
