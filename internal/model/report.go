package model

import "fmt"

// Group is one set of bindings sharing a group key.
type Group struct {
	Key      KeySequence  `json:"key"`
	Bindings []Keybinding `json:"bindings"`
}

// Report is a titled list of groups.
type Report struct {
	Title  string  `json:"title"`
	Groups []Group `json:"groups"`
}

// GroupedReport is the ordered output of a report generator. Renderers
// iterate it as is; all sorting and grouping is already done.
type GroupedReport []Report

// Bindings counts the records across every group.
func (r Report) Bindings() int {
	n := 0
	for _, g := range r.Groups {
		n += len(g.Bindings)
	}
	return n
}

// ScanResult contains everything one scan produced.
type ScanResult struct {
	Root       string                `json:"root"`
	Platform   string                `json:"platform"`
	Files      []string              `json:"files"`
	Collection Collection            `json:"-"`
	Failures   []FileFailure         `json:"failures"`
	Malformed  []MalformedEntryError `json:"malformed"`
	Ignored    int                   `json:"ignored"`
}

// Diagnostics returns one human readable line per skipped file or entry.
func (r ScanResult) Diagnostics() []string {
	var out []string
	for _, f := range r.Failures {
		out = append(out, fmt.Sprintf("skipped file %s: %v", f.Path, f.Err))
	}
	for i := range r.Malformed {
		m := r.Malformed[i]
		out = append(out, fmt.Sprintf("skipped entry in %s: %s", m.Path, m.Error()))
	}
	return out
}
