// Package report groups a collection of keybindings into the three reports:
// every binding, redeclared bindings, and multi part bindings shadowed by a
// single chord binding.
//
// Every generator copies its input before sorting, so generators can run in
// any order (or concurrently) over the same collection.
package report

import (
	"bytes"
	"cmp"
	"slices"

	"github.com/bizoo/KeymapTools/internal/model"
)

// Report titles.
const (
	TitleAll       = "All Keymaps"
	TitleConflicts = "Keymaps redeclared"
	TitleShadowing = "Multi part Keymaps that start with an existing single part Keymap"
)

// AllKeymaps lists every binding, one group per key sequence.
func AllKeymaps(c model.Collection) model.GroupedReport {
	sorted := sortedCopy(c, byKeysPackage)

	var groups []model.Group
	for _, run := range runs(sorted, sameKeys) {
		groups = append(groups, model.Group{Key: slices.Clone(run[0].Keys), Bindings: run})
	}
	return model.GroupedReport{{Title: TitleAll, Groups: nonNil(groups)}}
}

// ConflictKeymaps lists key sequences bound more than once in the same context.
func ConflictKeymaps(c model.Collection) model.GroupedReport {
	return model.GroupedReport{conflicts(c)}
}

func conflicts(c model.Collection) model.Report {
	sorted := sortedCopy(c, byKeysContext)

	var groups []model.Group
	for _, run := range runs(sorted, sameKeysAndContext) {
		if len(run) < 2 {
			continue
		}
		groups = append(groups, model.Group{Key: slices.Clone(run[0].Keys), Bindings: run})
	}
	return model.Report{Title: TitleConflicts, Groups: nonNil(groups)}
}

// ShadowingKeymaps returns the conflict report followed by the multi part
// bindings whose first chord is also bound on its own in the same context.
func ShadowingKeymaps(c model.Collection) model.GroupedReport {
	sorted := sortedCopy(c, byKeysContext)

	type shadowKey struct {
		first   string
		context string
		present bool
	}

	// Members sharing a first chord are not necessarily adjacent once other
	// contexts sort between them, so group through a map and keep the order
	// in which groups first appear.
	index := make(map[shadowKey]int)
	var candidates [][]model.Keybinding
	for _, kb := range sorted {
		k := shadowKey{first: kb.Keys[0], context: kb.Context.String(), present: kb.Context.Present()}
		i, ok := index[k]
		if !ok {
			i = len(candidates)
			index[k] = i
			candidates = append(candidates, nil)
		}
		candidates[i] = append(candidates[i], kb)
	}

	var groups []model.Group
	for _, members := range candidates {
		if len(members) < 2 {
			continue
		}
		single := slices.ContainsFunc(members, func(kb model.Keybinding) bool { return !kb.IsMultiChord() })
		multi := slices.ContainsFunc(members, model.Keybinding.IsMultiChord)
		if !single || !multi {
			continue
		}
		groups = append(groups, model.Group{Key: members[0].Keys.First(), Bindings: members})
	}

	return model.GroupedReport{
		conflicts(c),
		{Title: TitleShadowing, Groups: nonNil(groups)},
	}
}

func sortedCopy(c model.Collection, less func(a, b model.Keybinding) int) []model.Keybinding {
	out := slices.Clone([]model.Keybinding(c))
	slices.SortStableFunc(out, less)
	return out
}

// runs splits a sorted slice into maximal runs of consecutive members.
func runs(sorted []model.Keybinding, same func(a, b model.Keybinding) bool) [][]model.Keybinding {
	if len(sorted) == 0 {
		return nil
	}
	var out [][]model.Keybinding
	start := 0
	for i := 1; i <= len(sorted); i++ {
		if i == len(sorted) || !same(sorted[start], sorted[i]) {
			out = append(out, sorted[start:i:i])
			start = i
		}
	}
	return out
}

func sameKeys(a, b model.Keybinding) bool {
	return a.Keys.Equal(b.Keys)
}

func sameKeysAndContext(a, b model.Keybinding) bool {
	return a.Keys.Equal(b.Keys) && a.Context.Equal(b.Context)
}

// byKeysPackage orders by (keys, package, command, context).
func byKeysPackage(a, b model.Keybinding) int {
	return cmp.Or(
		a.Keys.Compare(b.Keys),
		cmp.Compare(a.Package, b.Package),
		cmp.Compare(a.Command, b.Command),
		a.Context.Compare(b.Context),
		tieBreak(a, b),
	)
}

// byKeysContext orders by (keys, context, package, command).
func byKeysContext(a, b model.Keybinding) int {
	return cmp.Or(
		a.Keys.Compare(b.Keys),
		a.Context.Compare(b.Context),
		cmp.Compare(a.Package, b.Package),
		cmp.Compare(a.Command, b.Command),
		tieBreak(a, b),
	)
}

// tieBreak separates records the report columns do not distinguish, so the
// output never depends on the order files were read in.
func tieBreak(a, b model.Keybinding) int {
	return cmp.Or(
		bytes.Compare(a.Args, b.Args),
		cmp.Compare(a.Source, b.Source),
	)
}

func nonNil(groups []model.Group) []model.Group {
	if groups == nil {
		return []model.Group{}
	}
	return groups
}
