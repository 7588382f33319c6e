package diff

import (
	"fmt"

	"apidiff/internal/apinode"
)

// Event is one reported difference. Events are values; nothing downstream
// mutates them.
type Event struct {
	Type Type `json:"type"`

	Name      string       `json:"name"`
	Kind      apinode.Kind `json:"kind"`
	File      string       `json:"file"`
	Line      int          `json:"line"`
	Column    int          `json:"column"`
	Kit       string       `json:"kit,omitempty"`
	Subsystem string       `json:"subsystem,omitempty"`
	ClassName string       `json:"class_name,omitempty"`

	OldText string `json:"old_text"`
	NewText string `json:"new_text"`

	Compatible bool `json:"compatible"`
	APIChange  bool `json:"api_change"`
}

// newEvent builds an event from the affected sides. Identity fields come from
// the new side when it exists, otherwise from the old one.
func newEvent(t Type, old, new *apinode.Node) Event {
	ev := Event{Type: t, Compatible: true}
	if old != nil {
		ev.identify(old)
		ev.OldText = Render(old)
	}
	if new != nil {
		ev.identify(new)
		ev.NewText = Render(new)
	}
	return ev
}

func (ev *Event) identify(n *apinode.Node) {
	if !ev.APIChange && n.Kind != "" && !n.Kind.IsMacro() {
		ev.APIChange = true
	}
	ev.Name = n.Name
	ev.Kind = n.Kind
	ev.File = n.Location.Path
	ev.Line = n.Location.Line
	ev.Column = n.Location.Column
	ev.Kit = n.KitName
	ev.Subsystem = n.SubSystem
	ev.ClassName = n.ClassName
}

func (ev Event) incompatible() Event {
	ev.Compatible = false
	return ev
}

// Render is the human-readable text of one side of an event.
func Render(n *apinode.Node) string {
	if n == nil {
		return ""
	}
	return fmt.Sprintf("class: %s;\napi: %s;\ncontent: %s;\nposition: %d,%d\n",
		n.ClassName, n.Name, n.Content.Text, n.Location.Line, n.Location.Column)
}
