package trace

import (
	"fmt"
	"strings"
)

// Level controls tracing verbosity.
type Level uint8

const (
	LevelOff  Level = iota
	LevelRun        // run-wide phases
	LevelFile       // + file pairs
	LevelDecl       // + declaration pairs
)

func (l Level) String() string {
	switch l {
	case LevelOff:
		return "off"
	case LevelRun:
		return "run"
	case LevelFile:
		return "file"
	case LevelDecl:
		return "decl"
	default:
		return "unknown"
	}
}

// ParseLevel converts a flag value to a Level.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "off", "":
		return LevelOff, nil
	case "run":
		return LevelRun, nil
	case "file":
		return LevelFile, nil
	case "decl":
		return LevelDecl, nil
	default:
		return LevelOff, fmt.Errorf("invalid trace level: %q (expected: off|run|file|decl)", s)
	}
}

// ShouldEmit reports whether events of scope pass this level.
func (l Level) ShouldEmit(scope Scope) bool {
	if l == LevelOff {
		return false
	}
	return uint8(scope) <= uint8(l)
}
