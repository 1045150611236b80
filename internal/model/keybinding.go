package model

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"
)

// KeySequence is an ordered list of normalized chords, e.g. ["ctrl+k", "ctrl+b"].
type KeySequence []string

// Compare orders sequences chord by chord; a shorter sequence sorts first
// when it is a prefix of the other.
func (s KeySequence) Compare(o KeySequence) int {
	return slices.Compare(s, o)
}

// Equal reports whether both sequences hold the same chords.
func (s KeySequence) Equal(o KeySequence) bool {
	return slices.Equal(s, o)
}

// First returns the first chord as a one-chord sequence.
func (s KeySequence) First() KeySequence {
	if len(s) == 0 {
		return nil
	}
	return KeySequence{s[0]}
}

// String joins the chords with ", " (quick panel style).
func (s KeySequence) String() string {
	return strings.Join(s, ", ")
}

// Quoted renders the sequence as ["a", "b"] (report header style).
func (s KeySequence) Quoted() string {
	parts := make([]string, len(s))
	for i, c := range s {
		parts[i] = fmt.Sprintf("%q", c)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// Context is the set of predicates restricting when a binding is active.
//
// A binding without a context list and a binding with an empty context list
// are different values. Descriptors are canonical compact JSON strings kept
// in sorted order, so two contexts with the same predicates compare equal
// whatever order they were written in.
type Context struct {
	present     bool
	descriptors []string
}

// AbsentContext returns the context of a binding that declares none.
func AbsentContext() Context {
	return Context{}
}

// NewContext returns a present context holding the given canonical descriptors.
// The descriptors are copied and sorted. A nil or empty slice yields an empty
// (but present) context.
func NewContext(descriptors []string) Context {
	d := slices.Clone(descriptors)
	if d == nil {
		d = []string{}
	}
	slices.Sort(d)
	return Context{present: true, descriptors: d}
}

// Present reports whether the binding declared a context list at all.
func (c Context) Present() bool {
	return c.present
}

// Descriptors returns a copy of the canonical descriptors.
func (c Context) Descriptors() []string {
	return slices.Clone(c.descriptors)
}

// Compare defines a total order: absent sorts before any present context,
// present contexts compare descriptor by descriptor, then by length.
func (c Context) Compare(o Context) int {
	switch {
	case !c.present && !o.present:
		return 0
	case !c.present:
		return -1
	case !o.present:
		return 1
	}
	return slices.Compare(c.descriptors, o.descriptors)
}

// Equal reports whether both contexts are absent or hold the same descriptors.
func (c Context) Equal(o Context) bool {
	return c.Compare(o) == 0
}

// String returns "" for an absent context and the JSON array otherwise.
func (c Context) String() string {
	if !c.present {
		return ""
	}
	return "[" + strings.Join(c.descriptors, ", ") + "]"
}

// MarshalJSON emits null for an absent context and an array otherwise.
func (c Context) MarshalJSON() ([]byte, error) {
	if !c.present {
		return []byte("null"), nil
	}
	return []byte("[" + strings.Join(c.descriptors, ",") + "]"), nil
}

// RawEntry is one validated object from a keymap file, before normalization.
type RawEntry struct {
	Keys       []string
	Command    string
	Args       json.RawMessage   // nil when the entry has no args
	Context    []json.RawMessage // only meaningful when HasContext is set
	HasContext bool
}

// Keybinding is a normalized keybinding record.
type Keybinding struct {
	Keys    KeySequence     `json:"keys"`
	Command string          `json:"command"`
	Args    json.RawMessage `json:"args,omitempty"` // canonical, display only
	Context Context         `json:"context"`
	Package string          `json:"package"`
	Source  string          `json:"source,omitempty"` // file the binding came from
}

// IsMultiChord reports whether the binding needs more than one chord.
func (k Keybinding) IsMultiChord() bool {
	return len(k.Keys) > 1
}

// Batch holds the entries parsed from a single keymap file.
type Batch struct {
	Path      string
	Package   string
	Entries   []RawEntry
	Malformed []MalformedEntryError
}

// Collection is the flat set of normalized bindings produced by one scan.
type Collection []Keybinding
