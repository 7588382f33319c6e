// Package labelcheck verifies that platform labels written in JS API doc
// comments are consistent between a declaration and its members, parameters,
// return values and referenced types.
//
// Unlike the diff engine it looks at one SDK version only.
package labelcheck

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// ErrUnknownLabel is returned by ParseLabels for a name outside the catalogue.
var ErrUnknownLabel = errors.New("unknown label")

// Label is the doc flag key as it appears in jsDocInfos.
type Label string

const (
	CrossPlatform Label = "isCrossPlatForm"
	Form          Label = "isForm"
	AtomicService Label = "isAtomicService"
)

// AllLabels is what "default" expands to.
var AllLabels = []Label{CrossPlatform, Form, AtomicService}

var labelNames = map[string]Label{
	"crossplatform": CrossPlatform,
	"form":          Form,
	"atomicservice": AtomicService,
}

// Display is the label name used in messages.
func (l Label) Display() string {
	return strings.ReplaceAll(string(l), "is", "")
}

// ParseLabels accepts a comma separated list of label names.
// An empty list and "default" both select every label.
func ParseLabels(s string) ([]Label, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "default") {
		return append([]Label(nil), AllLabels...), nil
	}
	var out []Label
	seen := make(map[Label]bool)
	for _, part := range strings.Split(s, ",") {
		name := strings.ToLower(strings.TrimSpace(part))
		if name == "" {
			continue
		}
		if name == "default" {
			return append([]Label(nil), AllLabels...), nil
		}
		l, ok := labelNames[name]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownLabel, part)
		}
		if !seen[l] {
			seen[l] = true
			out = append(out, l)
		}
	}
	return out, nil
}

// Flags keeps the boolean entries of a doc or reference object.
// A missing key and a false value are different things to the rules.
type Flags map[string]bool

func (f *Flags) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := make(Flags)
	for k, v := range raw {
		var b bool
		if json.Unmarshal(v, &b) == nil {
			out[k] = b
		}
	}
	*f = out
	return nil
}

// Has reports whether the flag is present, and its value.
func (f Flags) Has(l Label) (value, ok bool) {
	value, ok = f[string(l)]
	return value, ok
}

// Ref is a type or anonymous object referenced from a declaration.
type Ref struct {
	TypeName string
	Flags    Flags
}

func (r *Ref) UnmarshalJSON(data []byte) error {
	var head struct {
		TypeName string `json:"typeName"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return err
	}
	var flags Flags
	if err := json.Unmarshal(data, &flags); err != nil {
		return err
	}
	r.TypeName = head.TypeName
	r.Flags = flags
	return nil
}

// Pos is the zero based source position reported by the SDK parser.
type Pos struct {
	Line      int `json:"line"`
	Character int `json:"character"`
}

func (p Pos) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Character)
}

// API is one node of the JS API tree.
//
// A nil Docs means the parser emitted no jsDocInfos field at all.
type API struct {
	Name          string  `json:"apiName"`
	Type          string  `json:"apiType"`
	DefinedText   string  `json:"definedText"`
	FilePath      string  `json:"filePath"`
	Pos           Pos     `json:"pos"`
	Docs          []Flags `json:"jsDocInfos"`
	Children      []*API  `json:"childApis"`
	Params        []*API  `json:"params"`
	TypeLocations []Ref   `json:"typeLocations"`
	ObjLocations  []Ref   `json:"objLocations"`
}

// Doc returns the latest doc block, or nil when there is none.
func (a *API) Doc() Flags {
	if a == nil || len(a.Docs) == 0 {
		return nil
	}
	return a.Docs[len(a.Docs)-1]
}

// Decode reads an API tree document: one root object or an array of roots.
func Decode(r io.Reader) ([]*API, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read api tree: %w", err)
	}
	trimmed := bytes.TrimLeft(data, " \t\r\n\ufeff")
	if len(trimmed) == 0 {
		return nil, nil
	}
	var roots []*API
	if trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &roots); err != nil {
			return nil, fmt.Errorf("decode api tree: %w", err)
		}
	} else {
		var root API
		if err := json.Unmarshal(trimmed, &root); err != nil {
			return nil, fmt.Errorf("decode api tree: %w", err)
		}
		roots = []*API{&root}
	}
	for i, root := range roots {
		if root == nil {
			return nil, fmt.Errorf("decode api tree: root %d is null", i)
		}
	}
	return roots, nil
}

// Load decodes the API tree stored at path.
func Load(path string) ([]*API, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	roots, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return roots, nil
}
