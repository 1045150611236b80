package keymap

import (
	"golang.org/x/text/cases"

	"github.com/bizoo/KeymapTools/internal/model"
)

// foldName case-folds a package name. A Caser keeps state, so each call
// gets its own.
func foldName(name string) string {
	return cases.Fold().String(name)
}

// IgnoreSet is a case-insensitive set of package names.
type IgnoreSet map[string]struct{}

// NewIgnoreSet builds a set from package names.
func NewIgnoreSet(names ...string) IgnoreSet {
	s := make(IgnoreSet, len(names))
	for _, n := range names {
		s.Add(n)
	}
	return s
}

// Add inserts a package name.
func (s IgnoreSet) Add(name string) {
	s[foldName(name)] = struct{}{}
}

// Contains reports whether pkg is ignored, ignoring case.
func (s IgnoreSet) Contains(pkg string) bool {
	if len(s) == 0 {
		return false
	}
	_, ok := s[foldName(pkg)]
	return ok
}

// Aggregate flattens per-file batches into one collection, dropping records
// from ignored packages. Records keep the package name as written.
func Aggregate(batches [][]model.Keybinding, ignored IgnoreSet) model.Collection {
	n := 0
	for _, b := range batches {
		n += len(b)
	}
	out := make(model.Collection, 0, n)
	for _, b := range batches {
		for _, kb := range b {
			if ignored.Contains(kb.Package) {
				continue
			}
			out = append(out, kb)
		}
	}
	return out
}
