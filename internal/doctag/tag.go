// Package doctag models doc-comment tags and the tokenizers that produce them.
package doctag

// TagKind is the closed set of tags the differ has rules for.
// Tags outside the set are kept in Doc.Tags but map to KindUnknown.
type TagKind uint8

const (
	KindUnknown TagKind = iota
	KindAddToGroup
	KindBrief
	KindDeprecated
	KindFile
	KindLibrary
	KindParam
	KindPermission
	KindReturn
	KindSince
	KindSyscap
	KindLeftBrace
	KindRightBrace
)

var kindByTag = map[string]TagKind{
	"addtogroup": KindAddToGroup,
	"brief":      KindBrief,
	"deprecated": KindDeprecated,
	"file":       KindFile,
	"library":    KindLibrary,
	"param":      KindParam,
	"permission": KindPermission,
	"return":     KindReturn,
	"since":      KindSince,
	"syscap":     KindSyscap,
	"{":          KindLeftBrace,
	"}":          KindRightBrace,
}

// KindOf maps a raw tag spelling (without '@') to its kind.
func KindOf(tag string) TagKind {
	return kindByTag[tag]
}

func (k TagKind) String() string {
	switch k {
	case KindAddToGroup:
		return "addtogroup"
	case KindBrief:
		return "brief"
	case KindDeprecated:
		return "deprecated"
	case KindFile:
		return "file"
	case KindLibrary:
		return "library"
	case KindParam:
		return "param"
	case KindPermission:
		return "permission"
	case KindReturn:
		return "return"
	case KindSince:
		return "since"
	case KindSyscap:
		return "syscap"
	case KindLeftBrace:
		return "{"
	case KindRightBrace:
		return "}"
	default:
		return "unknown"
	}
}

// Tag is one tag occurrence: @tag name description.
type Tag struct {
	Tag         string `json:"tag" msgpack:"tag"`
	Name        string `json:"name" msgpack:"name"`
	Description string `json:"description" msgpack:"description"`
}

// Kind returns the tag's kind.
func (t Tag) Kind() TagKind {
	return KindOf(t.Tag)
}

// Text is name and description joined by one space, the form most rules compare.
func (t Tag) Text() string {
	return t.Name + " " + t.Description
}

// Doc is one parsed comment block.
type Doc struct {
	Description string `json:"description" msgpack:"description"`
	Tags        []Tag  `json:"tags" msgpack:"tags"`
}

// Group is the occurrences of one tag spelling in a doc, in source order.
type Group struct {
	Tag  string
	Tags []Tag
}

// Grouped splits the doc's tags by spelling.
// Groups keep the order in which each spelling first appears.
func (d Doc) Grouped() []Group {
	var out []Group
	index := make(map[string]int)
	for _, t := range d.Tags {
		i, ok := index[t.Tag]
		if !ok {
			i = len(out)
			index[t.Tag] = i
			out = append(out, Group{Tag: t.Tag})
		}
		out[i].Tags = append(out[i].Tags, t)
	}
	return out
}
