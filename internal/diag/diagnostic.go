package diag

import "fmt"

// Position locates a diagnostic: a header file and, when known, the
// declaration inside it.
type Position struct {
	File   string
	Line   int
	Column int
	Decl   string
}

func (p Position) String() string {
	s := p.File
	if s == "" {
		s = "<unknown>"
	}
	if p.Line > 0 {
		s = fmt.Sprintf("%s:%d:%d", s, p.Line, p.Column)
	}
	if p.Decl != "" {
		s += " (" + p.Decl + ")"
	}
	return s
}

type Note struct {
	Pos Position
	Msg string
}

type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Primary  Position
	Notes    []Note
}

func New(sev Severity, code Code, primary Position, msg string) Diagnostic {
	return Diagnostic{
		Severity: sev,
		Code:     code,
		Primary:  primary,
		Message:  msg,
	}
}

func NewWarning(code Code, primary Position, msg string) Diagnostic {
	return New(SevWarning, code, primary, msg)
}

func (d Diagnostic) WithNote(pos Position, msg string) Diagnostic {
	d.Notes = append(d.Notes, Note{Pos: pos, Msg: msg})
	return d
}
