package labelcheck

import (
	"strings"
)

// ErrorType classifies a finding.
type ErrorType string

const (
	MutexLabel                  ErrorType = "mutex_label"
	EnumMissingLabel            ErrorType = "enum_missing_label"
	EnumValueMissingLabel       ErrorType = "enum_value_missing_label"
	PairedFunctionMissingLabel  ErrorType = "paired_function_omission_label"
	MethodMissingLabel          ErrorType = "method_missing_label"
	ParamMissingLabel           ErrorType = "param_missing_label"
	ReturnMissingLabel          ErrorType = "return_missing_label"
	ParamObjectMissingLabel     ErrorType = "param_anonymous_object_missing_label"
	ReturnObjectMissingLabel    ErrorType = "return_anonymous_object_missing_label"
	PropertyMissingLabel        ErrorType = "property_missing_label"
	ReferenceMissingLabel       ErrorType = "property_of_reference_missing_label"
	ReferenceObjectMissingLabel ErrorType = "property_of_reference_obj_missing_label"
)

// ParentMissingLabel is the error type for a container of the given API
// type whose members carry a label it lacks, e.g. "Class_missing_label".
func ParentMissingLabel(apiType string) ErrorType {
	return ErrorType(apiType + "_missing_label")
}

// Message templates: '$' is the subject, '&' the label display name.
const (
	msgMutex             = "In the same API, [$] tag and [&] tag are mutually exclusive"
	msgPaired            = "Functions that appear in pairs,[$] function missing [&] tag"
	msgEnumValue         = "The enumeration type [$] is labeled with [&], but none of the enumeration values are labeled with this label"
	msgEnum              = "The enumeration type [$] is not marked with [&], but the enumeration value is marked with this label"
	msgParentHasMethodNo = "[$] has a [&] label, but none of its methods have a [&] label"
	msgMethodHasParentNo = "[$]does not have [&] label，but the methods below it has [&] label"
	msgParam             = "functions have [&] label, but the param do not have [&] label"
	msgReturn            = "functions have [&] label, but the return value do not have [&] label"
	msgParamObj          = "functions have [&] label, but the argument anonymous object do not have [&] label"
	msgReturnObj         = "functions have [&] label, but the return anonymous objects do not have [&] label"
	msgPropHasRefNo      = "property have [&] label, but the reference of property do not have [&] label"
	msgRefHasPropNo      = "reference of property have [&] label, but the property do not have [&] label"
	msgPropHasRefObjNo   = "property have [&] label, but the reference_obj of property do not have [&] label"
	msgRefObjHasPropNo   = "reference_obj of property have [&] label, but the property do not have [&] label"
)

func render(tmpl, subject string, l Label) string {
	s := strings.ReplaceAll(tmpl, "$", subject)
	return strings.ReplaceAll(s, "&", l.Display())
}

// Finding is one label violation.
type Finding struct {
	FilePath     string    `json:"filePath"`
	ErrorType    ErrorType `json:"errorType"`
	DefinedText  string    `json:"definedText"`
	Position     string    `json:"position"`
	ErrorMessage string    `json:"errorMessage"`

	// Line and Column repeat Position for diagnostics.
	Line   int `json:"-"`
	Column int `json:"-"`
}

func findingAt(at *API, text string, typ ErrorType, msg string) Finding {
	return Finding{
		FilePath:     at.FilePath,
		ErrorType:    typ,
		DefinedText:  text,
		Position:     at.Pos.String(),
		ErrorMessage: msg,
		Line:         at.Pos.Line + 1,
		Column:       at.Pos.Column(),
	}
}

// Column is the one based column of the position.
func (p Pos) Column() int { return p.Character + 1 }

// checkMethod: a labeled function needs the label on every parameter type
// and on the return type. One finding per parameter and reference kind.
func checkMethod(m *API, l Label) []Finding {
	parent := m.Doc()
	if parent == nil {
		return nil
	}
	pv, pok := parent.Has(l)
	if !pok || !pv {
		return nil
	}
	var out []Finding
	for _, p := range m.Params {
		if p == nil {
			continue
		}
		if hasUnlabeled(p.TypeLocations, l) {
			out = append(out, findingAt(m, p.DefinedText, ParamMissingLabel, render(msgParam, "", l)))
		}
		if hasUnlabeled(p.ObjLocations, l) {
			out = append(out, findingAt(m, p.DefinedText, ParamObjectMissingLabel, render(msgParamObj, "", l)))
		}
	}
	if hasUnlabeled(m.TypeLocations, l) {
		out = append(out, findingAt(m, m.DefinedText, ReturnMissingLabel, render(msgReturn, "", l)))
	}
	if hasUnlabeled(m.ObjLocations, l) {
		out = append(out, findingAt(m, m.DefinedText, ReturnObjectMissingLabel, render(msgReturnObj, "", l)))
	}
	return out
}

// hasUnlabeled reports a reference that states the label as false.
// References that do not mention the label are ignored.
func hasUnlabeled(refs []Ref, l Label) bool {
	for _, r := range refs {
		if v, ok := r.Flags.Has(l); ok && !v {
			return true
		}
	}
	return false
}

// checkReferences compares a member against the types it references.
func checkReferences(member *API, l Label) []Finding {
	cur := member.Doc()
	if cur == nil {
		return nil
	}
	var out []Finding
	out = append(out, referenceFindings(member, cur, member.TypeLocations, l, ReferenceMissingLabel, msgPropHasRefNo, msgRefHasPropNo)...)
	out = append(out, referenceFindings(member, cur, member.ObjLocations, l, ReferenceObjectMissingLabel, msgPropHasRefObjNo, msgRefObjHasPropNo)...)
	return out
}

func referenceFindings(member *API, cur Flags, refs []Ref, l Label, refType ErrorType, refMsg, propMsg string) []Finding {
	cv, cok := cur.Has(l)
	if !cok {
		return nil
	}
	var out []Finding
	for _, r := range refs {
		rv, rok := r.Flags.Has(l)
		if !rok {
			continue
		}
		switch {
		case cv && !rv:
			msg := "(" + r.TypeName + ");" + render(refMsg, "", l)
			out = append(out, findingAt(member, member.DefinedText, refType, msg))
		case !cv && rv:
			// the member itself is wrong; one finding is enough
			out = append(out, findingAt(member, member.DefinedText, PropertyMissingLabel, render(propMsg, "", l)))
			return out
		}
	}
	return out
}

// checkContainer applies the parent/child rules to a class, interface,
// namespace or struct, after the per-member reference checks.
func checkContainer(c *API, l Label) []Finding {
	if c.Children == nil {
		return nil
	}
	var out []Finding
	for _, child := range c.Children {
		if child != nil {
			out = append(out, checkReferences(child, l)...)
		}
	}
	if f, ok := parentVerdict(c, l); ok {
		out = append(out, f)
	}
	return out
}

func parentVerdict(c *API, l Label) (Finding, bool) {
	parentMissing := func() Finding {
		return findingAt(c, c.DefinedText, ParentMissingLabel(c.Type), render(msgMethodHasParentNo, c.Type, l))
	}
	parent := c.Doc()
	if parent == nil {
		for _, child := range c.Children {
			if v, ok := child.Doc().Has(l); ok && v {
				return parentMissing(), true
			}
		}
		return Finding{}, false
	}

	pv, pok := parent.Has(l)
	unlabeled := 0
loop:
	for _, child := range c.Children {
		if child == nil || child.Docs == nil {
			if pv {
				unlabeled++
			}
			continue
		}
		doc := child.Doc()
		if doc == nil {
			unlabeled++
			continue
		}
		cv, cok := doc.Has(l)
		if !pok || !cok {
			continue
		}
		switch {
		case pv && cv:
			break loop
		case pv && !cv:
			unlabeled++
		case !pv && cv:
			return parentMissing(), true
		}
	}
	if len(c.Children) > 0 && unlabeled == len(c.Children) {
		return findingAt(c, c.DefinedText, MethodMissingLabel, render(msgParentHasMethodNo, c.Type, l)), true
	}
	return Finding{}, false
}

// checkEnum: a labeled enum needs at least one labeled value, and a labeled
// value needs a labeled enum.
func checkEnum(e *API, l Label) []Finding {
	ev, _ := e.Doc().Has(l)
	anyValue := false
	for _, v := range e.Children {
		if lv, ok := v.Doc().Has(l); ok && lv {
			anyValue = true
			break
		}
	}
	switch {
	case ev && !anyValue && len(e.Children) > 0:
		return []Finding{findingAt(e, e.DefinedText, EnumValueMissingLabel, render(msgEnumValue, e.Name, l))}
	case !ev && anyValue:
		return []Finding{findingAt(e, e.DefinedText, EnumMissingLabel, render(msgEnum, e.Name, l))}
	}
	return nil
}

// checkPaired looks at on/off style method pairs among the members of c.
// When one side carries the label and the other does not, the bare side
// is reported.
func checkPaired(c *API, l Label) []Finding {
	type side struct {
		first   *API
		labeled bool
	}
	methods := make(map[string]*side)
	var order []string
	for _, child := range c.Children {
		if child == nil || child.Type != "Method" || child.Name == "" {
			continue
		}
		s, ok := methods[child.Name]
		if !ok {
			s = &side{first: child}
			methods[child.Name] = s
			order = append(order, child.Name)
		}
		if v, ok := child.Doc().Has(l); ok && v {
			s.labeled = true
		}
	}
	var out []Finding
	for _, name := range order {
		rest, ok := strings.CutPrefix(name, "on")
		if !ok {
			continue
		}
		on, off := methods[name], methods["off"+rest]
		if off == nil || on.labeled == off.labeled {
			continue
		}
		bare := off
		if !on.labeled {
			bare = on
		}
		out = append(out, findingAt(bare.first, bare.first.DefinedText, PairedFunctionMissingLabel,
			render(msgPaired, bare.first.Name, l)))
	}
	return out
}

// checkMutex reports a node whose doc sets both labels of a pair.
func checkMutex(a *API, pair [2]Label) []Finding {
	doc := a.Doc()
	av, _ := doc.Has(pair[0])
	bv, _ := doc.Has(pair[1])
	if !av || !bv {
		return nil
	}
	msg := strings.ReplaceAll(msgMutex, "$", pair[0].Display())
	msg = strings.ReplaceAll(msg, "&", pair[1].Display())
	return []Finding{findingAt(a, a.DefinedText, MutexLabel, msg)}
}
