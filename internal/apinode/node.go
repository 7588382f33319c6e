package apinode

// NoComment is the sentinel the parser emits for declarations without a doc comment.
const NoComment = "none_comment"

// Location points at the declaration in the original header.
type Location struct {
	Path   string `json:"location_path"`
	Line   int    `json:"location_line"`
	Column int    `json:"location_column"`
}

// Content holds the raw source slice of a node.
type Content struct {
	Text string `json:"content,omitempty"`
}

// Node is one parsed declaration or sub-declaration.
//
// Nil slices and nil pointers mean "field absent"; an empty non-nil slice means
// the parser emitted the field with no elements. Comparators rely on that.
type Node struct {
	Name       string   `json:"name"`
	Kind       Kind     `json:"kind"`
	Type       string   `json:"type,omitempty"`
	ReturnType string   `json:"return_type,omitempty"`
	Location   Location `json:"location"`
	Content    Content  `json:"node_content"`
	Comment    string   `json:"comment,omitempty"`

	IsExtern *bool   `json:"is_extern,omitempty"`
	IsConst  *bool   `json:"is_const,omitempty"`
	Text     *string `json:"text,omitempty"`
	Value    *int64  `json:"value,omitempty"`

	Params   []*Node `json:"parm,omitempty"`
	Members  []*Node `json:"members,omitempty"`
	Children []*Node `json:"children,omitempty"`

	KitName        string `json:"kit_name,omitempty"`
	SubSystem      string `json:"sub_system,omitempty"`
	ClassName      string `json:"class_name,omitempty"`
	Syscap         string `json:"syscap,omitempty"`
	Since          string `json:"since,omitempty"`
	Permission     string `json:"permission,omitempty"`
	ModuleName     string `json:"module_name,omitempty"`
	DeprecateSince string `json:"deprecate_since,omitempty"`
}

// HasComment reports whether the node carries a real doc comment.
func (n *Node) HasComment() bool {
	return n != nil && !IsNoComment(n.Comment)
}

// IsNoComment reports whether c is the "no comment" sentinel.
// The parser uses an empty string before it fills the sentinel in, so both count.
func IsNoComment(c string) bool {
	return c == "" || c == NoComment
}

// Anonymous reports whether the node has no name.
func (n *Node) Anonymous() bool {
	return n.Name == ""
}

// Const reports the is_const flag and whether it was present at all.
func (n *Node) Const() (value, ok bool) {
	if n.IsConst == nil {
		return false, false
	}
	return *n.IsConst, true
}

// Shallow returns a copy of n with every child sequence dropped.
// The orchestrator uses it to treat a translation unit as its own declaration.
func (n *Node) Shallow() *Node {
	if n == nil {
		return nil
	}
	cp := *n
	cp.Params = nil
	cp.Members = nil
	cp.Children = nil
	return &cp
}
