// Package diagfmt renders diff events and run diagnostics.
package diagfmt

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Format selects a report writer.
type Format uint8

const (
	FormatPretty Format = iota
	FormatJSON
	FormatNDJSON
	FormatTSV
)

func (f Format) String() string {
	switch f {
	case FormatPretty:
		return "pretty"
	case FormatJSON:
		return "json"
	case FormatNDJSON:
		return "ndjson"
	case FormatTSV:
		return "tsv"
	default:
		return "unknown"
	}
}

// ParseFormat converts a --format value.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "pretty", "":
		return FormatPretty, nil
	case "json":
		return FormatJSON, nil
	case "ndjson", "jsonl":
		return FormatNDJSON, nil
	case "tsv", "table":
		return FormatTSV, nil
	default:
		return FormatPretty, fmt.Errorf("unknown format %q (expected: pretty|json|ndjson|tsv)", s)
	}
}

// PathMode specifies how file paths are displayed.
type PathMode uint8

const (
	// PathModeAuto shows paths as the parser reported them.
	PathModeAuto PathMode = iota
	PathModeAbsolute
	PathModeRelative // relative to Opts.BaseDir
	PathModeBasename
)

// Opts configures all writers. Writers ignore fields they have no use for.
type Opts struct {
	Color    bool
	PathMode PathMode
	BaseDir  string
	// ShowText prints the rendered old/new declarations under each event.
	ShowText bool
	// IncludeNotes adds diagnostic notes to the output.
	IncludeNotes bool
	// Max truncates the event list; 0 means no limit.
	Max int
}

func (o Opts) path(p string) string {
	if p == "" {
		return p
	}
	switch o.PathMode {
	case PathModeAbsolute:
		if abs, err := filepath.Abs(p); err == nil {
			return filepath.ToSlash(abs)
		}
	case PathModeRelative:
		if o.BaseDir != "" {
			if rel, err := filepath.Rel(o.BaseDir, p); err == nil && !strings.HasPrefix(rel, "..") {
				return filepath.ToSlash(rel)
			}
		}
	case PathModeBasename:
		return filepath.Base(p)
	}
	return filepath.ToSlash(p)
}

// ParsePathMode converts a --path-mode value.
func ParsePathMode(s string) (PathMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return PathModeAuto, nil
	case "absolute", "abs":
		return PathModeAbsolute, nil
	case "relative", "rel":
		return PathModeRelative, nil
	case "basename", "base":
		return PathModeBasename, nil
	default:
		return PathModeAuto, fmt.Errorf("unknown path mode %q (expected: auto|absolute|relative|basename)", s)
	}
}
