package keymap

import (
	"encoding/json"
	"slices"
	"strings"

	"github.com/tidwall/pretty"

	"github.com/bizoo/KeymapTools/internal/model"
)

// Modifiers is the fixed modifier vocabulary. Matching is exact, the editor
// only understands lowercase modifier names.
var Modifiers = []string{"alt", "ctrl", "shift", "super"}

func isModifier(token string) bool {
	return slices.Contains(Modifiers, token)
}

// NormalizeChord rewrites a chord so its modifiers come first in sorted
// order, followed by the remaining tokens in their original order.
// "shift+ctrl+k" and "k+ctrl+shift" both become "ctrl+shift+k".
func NormalizeChord(chord string) string {
	var mods, keys []string
	for _, token := range strings.Split(chord, "+") {
		if isModifier(token) {
			mods = append(mods, token)
		} else {
			keys = append(keys, token)
		}
	}
	slices.Sort(mods)
	return strings.Join(append(mods, keys...), "+")
}

// NormalizeKeys normalizes every chord of a sequence into a new slice.
func NormalizeKeys(keys []string) model.KeySequence {
	out := make(model.KeySequence, len(keys))
	for i, k := range keys {
		out[i] = NormalizeChord(k)
	}
	return out
}

// CanonicalJSON returns the compact form of a JSON value with object keys
// sorted, so structurally equal values produce identical strings.
func CanonicalJSON(raw json.RawMessage) string {
	sorted := pretty.PrettyOptions(raw, &pretty.Options{SortKeys: true})
	return string(pretty.Ugly(sorted))
}

// NormalizeContext converts raw context descriptors into a canonical context.
// An absent context stays absent and an empty list stays an empty list.
func NormalizeContext(raw []json.RawMessage, present bool) model.Context {
	if !present {
		return model.AbsentContext()
	}
	descriptors := make([]string, 0, len(raw))
	for _, r := range raw {
		descriptors = append(descriptors, CanonicalJSON(r))
	}
	return model.NewContext(descriptors)
}

// Normalize turns a raw entry into a keybinding record owned by pkg.
func Normalize(e model.RawEntry, pkg string) model.Keybinding {
	kb := model.Keybinding{
		Keys:    NormalizeKeys(e.Keys),
		Command: e.Command,
		Context: NormalizeContext(e.Context, e.HasContext),
		Package: pkg,
	}
	if e.Args != nil {
		kb.Args = json.RawMessage(CanonicalJSON(e.Args))
	}
	return kb
}

// NormalizeBatch normalizes every entry of a batch, tagging each record
// with the batch's package and source path.
func NormalizeBatch(b model.Batch) []model.Keybinding {
	out := make([]model.Keybinding, 0, len(b.Entries))
	for _, e := range b.Entries {
		kb := Normalize(e, b.Package)
		kb.Source = b.Path
		out = append(out, kb)
	}
	return out
}
