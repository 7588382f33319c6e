package driver

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// FilePair is one unit of work: a relative path and the file on each side.
// An empty Old or New means the file exists on one side only.
type FilePair struct {
	Rel string
	Old string
	New string
}

func (p FilePair) display() string {
	return filepath.ToSlash(p.Rel)
}

// walker pairs two directory trees level by level.
type walker struct {
	exts     map[string]bool
	pairs    []FilePair
	problems []WalkProblem
}

// WalkProblem is an entry the walk could not pair.
type WalkProblem struct {
	Rel string
	Err error
}

var errKindMismatch = errors.New("directory on one side, file on the other")

func newWalker(extensions []string) *walker {
	exts := make(map[string]bool, len(extensions))
	for _, ext := range extensions {
		exts[strings.ToLower(ext)] = true
	}
	return &walker{exts: exts}
}

func (w *walker) keep(name string, isDir bool) bool {
	return isDir || w.exts[strings.ToLower(filepath.Ext(name))]
}

type entry struct {
	name  string
	isDir bool
}

func (w *walker) list(dir string) (map[string]entry, error) {
	if dir == "" {
		return nil, nil
	}
	items, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	out := make(map[string]entry, len(items))
	for _, it := range items {
		isDir := it.IsDir()
		if it.Type()&fs.ModeSymlink != 0 {
			if info, err := os.Stat(filepath.Join(dir, it.Name())); err == nil {
				isDir = info.IsDir()
			}
		}
		if w.keep(it.Name(), isDir) {
			out[it.Name()] = entry{name: it.Name(), isDir: isDir}
		}
	}
	return out, nil
}

// dir compares one directory level. Either side may be "" for a directory
// that exists on the other side only. Only an unreadable root is fatal; a
// subdirectory that cannot be listed becomes a WalkProblem and is skipped.
func (w *walker) dir(oldDir, newDir, rel string) error {
	oldEntries, err := w.list(oldDir)
	if err != nil {
		return w.unreadable(oldDir, rel, err)
	}
	newEntries, err := w.list(newDir)
	if err != nil {
		return w.unreadable(newDir, rel, err)
	}

	names := make([]string, 0, len(oldEntries)+len(newEntries))
	for name := range oldEntries {
		names = append(names, name)
	}
	for name := range newEntries {
		if _, dup := oldEntries[name]; !dup {
			names = append(names, name)
		}
	}
	slices.Sort(names)

	for _, name := range names {
		o, inOld := oldEntries[name]
		n, inNew := newEntries[name]
		childRel := filepath.Join(rel, name)
		oldPath, newPath := "", ""
		if inOld {
			oldPath = filepath.Join(oldDir, name)
		}
		if inNew {
			newPath = filepath.Join(newDir, name)
		}

		switch {
		case inOld && inNew && o.isDir != n.isDir:
			w.problems = append(w.problems, WalkProblem{Rel: childRel, Err: errKindMismatch})
		case (inOld && o.isDir) || (inNew && n.isDir):
			if err := w.dir(oldPath, newPath, childRel); err != nil {
				return err
			}
		default:
			w.pairs = append(w.pairs, FilePair{Rel: childRel, Old: oldPath, New: newPath})
		}
	}
	return nil
}

func (w *walker) unreadable(dir, rel string, err error) error {
	err = fmt.Errorf("read %s: %w", dir, err)
	if rel == "" {
		return err
	}
	w.problems = append(w.problems, WalkProblem{Rel: rel, Err: err})
	return nil
}
