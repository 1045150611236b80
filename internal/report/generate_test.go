package report

import (
	"bytes"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bizoo/KeymapTools/internal/keymap"
	"github.com/bizoo/KeymapTools/internal/model"
)

func kb(pkg, command string, keys ...string) model.Keybinding {
	return model.Keybinding{Keys: keymap.NormalizeKeys(keys), Command: command, Package: pkg}
}

func withContext(k model.Keybinding, descriptors ...string) model.Keybinding {
	k.Context = model.NewContext(descriptors)
	return k
}

func commands(g model.Group) []string {
	out := make([]string, len(g.Bindings))
	for i, b := range g.Bindings {
		out[i] = b.Command
	}
	return out
}

func TestAllKeymaps(t *testing.T) {
	c := model.Collection{
		kb("P2", "a", "ctrl+k"),
		kb("P1", "b", "k+ctrl"),
		kb("P1", "c", "k"),
		kb("P1", "d", "k", "j"),
		withContext(kb("P1", "e", "k"), `{"key":"x"}`),
	}

	gr := AllKeymaps(c)
	require.Len(t, gr, 1)
	assert.Equal(t, TitleAll, gr[0].Title)

	groups := gr[0].Groups
	require.Len(t, groups, 3)
	assert.Equal(t, model.KeySequence{"ctrl+k"}, groups[0].Key)
	assert.Equal(t, []string{"b", "a"}, commands(groups[0]), "ordered by package within a group")
	assert.Equal(t, model.KeySequence{"k"}, groups[1].Key)
	assert.Equal(t, []string{"c", "e"}, commands(groups[1]), "absent context sorts first")
	assert.Equal(t, model.KeySequence{"k", "j"}, groups[2].Key)

	// Every record lands in exactly one group, grouped only by keys.
	total := 0
	for _, g := range groups {
		for _, b := range g.Bindings {
			assert.True(t, g.Key.Equal(b.Keys))
		}
		total += len(g.Bindings)
	}
	assert.Equal(t, len(c), total)
}

func TestConflictKeymaps(t *testing.T) {
	// Token order differs in the source but both normalize to ctrl+k.
	c := model.Collection{
		kb("P2", "b", "k+ctrl"),
		kb("P1", "a", "ctrl+k"),
	}

	gr := ConflictKeymaps(c)
	require.Len(t, gr, 1)
	assert.Equal(t, TitleConflicts, gr[0].Title)
	require.Len(t, gr[0].Groups, 1)
	assert.Equal(t, model.KeySequence{"ctrl+k"}, gr[0].Groups[0].Key)
	assert.Equal(t, []string{"a", "b"}, commands(gr[0].Groups[0]))
	assert.Equal(t, "P1", gr[0].Groups[0].Bindings[0].Package)
}

func TestConflictKeymapsRespectsContext(t *testing.T) {
	c := model.Collection{
		kb("P1", "absent", "ctrl+s"),
		withContext(kb("P2", "empty", "ctrl+s")),
		withContext(kb("P1", "xy", "ctrl+s"), `{"key":"x"}`, `{"key":"y"}`),
		withContext(kb("P3", "yx", "ctrl+s"), `{"key":"y"}`, `{"key":"x"}`),
		kb("P1", "single", "ctrl+q"),
	}

	gr := ConflictKeymaps(c)
	require.Len(t, gr[0].Groups, 1, "absent and empty contexts never conflict")
	g := gr[0].Groups[0]
	assert.Equal(t, model.KeySequence{"ctrl+s"}, g.Key)
	assert.Equal(t, []string{"xy", "yx"}, commands(g))

	for _, grp := range gr[0].Groups {
		require.GreaterOrEqual(t, len(grp.Bindings), 2)
		for _, b := range grp.Bindings[1:] {
			assert.True(t, grp.Bindings[0].Keys.Equal(b.Keys))
			assert.True(t, grp.Bindings[0].Context.Equal(b.Context))
		}
	}
}

func TestShadowingKeymaps(t *testing.T) {
	c := model.Collection{
		kb("P1", "A", "k"),
		kb("P2", "B", "k", "j"),
	}

	gr := ShadowingKeymaps(c)
	require.Len(t, gr, 2)
	assert.Equal(t, TitleConflicts, gr[0].Title)
	assert.Empty(t, gr[0].Groups)

	assert.Equal(t, TitleShadowing, gr[1].Title)
	require.Len(t, gr[1].Groups, 1)
	assert.Equal(t, model.KeySequence{"k"}, gr[1].Groups[0].Key)
	assert.Equal(t, []string{"A", "B"}, commands(gr[1].Groups[0]))
}

func TestShadowingKeymapsIncludesConflicts(t *testing.T) {
	c := model.Collection{
		kb("P1", "a", "ctrl+k"),
		kb("P2", "b", "ctrl+k"),
	}
	gr := ShadowingKeymaps(c)
	require.Len(t, gr, 2)
	assert.Equal(t, ConflictKeymaps(c)[0], gr[0])
	assert.Empty(t, gr[1].Groups, "two single chord bindings do not shadow")
}

func TestShadowingKeymapsExclusions(t *testing.T) {
	tests := []struct {
		name string
		c    model.Collection
	}{
		{"only multi part", model.Collection{kb("P1", "a", "k", "j"), kb("P1", "b", "k", "l")}},
		{"only single part", model.Collection{kb("P1", "a", "k"), kb("P2", "b", "k")}},
		{"lone binding", model.Collection{kb("P1", "a", "k", "j")}},
		{"different context", model.Collection{
			kb("P1", "a", "k"),
			withContext(kb("P1", "b", "k", "j"), `{"key":"x"}`),
		}},
		{"absent versus empty context", model.Collection{
			kb("P1", "a", "k"),
			withContext(kb("P1", "b", "k", "j")),
		}},
		{"different first chord", model.Collection{kb("P1", "a", "k"), kb("P1", "b", "j", "k")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gr := ShadowingKeymaps(tt.c)
			assert.Empty(t, gr[1].Groups)
		})
	}
}

func TestShadowingKeymapsNonAdjacentMembers(t *testing.T) {
	x := `{"key":"x"}`
	c := model.Collection{
		withContext(kb("P1", "single", "k"), x),
		kb("P1", "other context", "k", "a"),
		withContext(kb("P2", "multi", "k", "b"), x),
	}

	gr := ShadowingKeymaps(c)
	require.Len(t, gr[1].Groups, 1)
	g := gr[1].Groups[0]
	assert.Equal(t, model.KeySequence{"k"}, g.Key)
	assert.Equal(t, []string{"single", "multi"}, commands(g))

	for _, b := range g.Bindings {
		assert.Equal(t, "k", b.Keys[0])
		assert.True(t, b.Context.Equal(g.Bindings[0].Context))
	}
}

func TestGeneratorsOnEmptyInput(t *testing.T) {
	for _, k := range Kinds() {
		gr, err := Generate(k, nil)
		require.NoError(t, err)
		require.NotEmpty(t, gr)
		for _, r := range gr {
			assert.NotNil(t, r.Groups)
			assert.Empty(t, r.Groups)
		}
	}
}

func sampleCollection() model.Collection {
	x := `{"key":"x"}`
	return model.Collection{
		kb("Default", "save", "ctrl+s"),
		kb("Git", "git_status", "ctrl+s"),
		withContext(kb("Vintage", "enter_insert", "i"), x),
		withContext(kb("Vintage", "insert_line", "i", "o"), x),
		kb("Default", "toggle_side_bar", "ctrl+k", "ctrl+b"),
		kb("Emmet", "expand", "ctrl+k"),
		kb("Default", "save", "ctrl+s"),
		{Keys: model.KeySequence{"ctrl+s"}, Command: "save", Package: "Default", Source: "/b"},
		{Keys: model.KeySequence{"ctrl+s"}, Command: "save", Package: "Default", Source: "/a"},
	}
}

func TestGeneratorsAreDeterministic(t *testing.T) {
	c := sampleCollection()
	reversed := slices.Clone(c)
	slices.Reverse(reversed)
	rotated := append(slices.Clone(c[3:]), c[:3]...)

	for _, k := range Kinds() {
		t.Run(string(k), func(t *testing.T) {
			want, err := Generate(k, c)
			require.NoError(t, err)

			var wantJSON bytes.Buffer
			require.NoError(t, RenderJSON(&wantJSON, want, model.ScanResult{}))

			for _, in := range []model.Collection{c, reversed, rotated} {
				got, err := Generate(k, in)
				require.NoError(t, err)
				assert.Equal(t, want, got)

				var gotJSON bytes.Buffer
				require.NoError(t, RenderJSON(&gotJSON, got, model.ScanResult{}))
				assert.Equal(t, wantJSON.String(), gotJSON.String())
			}
		})
	}
}

func TestGeneratorsDoNotMutateInput(t *testing.T) {
	c := sampleCollection()
	before := slices.Clone(c)

	AllKeymaps(c)
	ConflictKeymaps(c)
	ShadowingKeymaps(c)

	assert.Equal(t, before, c)
}

func TestGenerateUnknownKind(t *testing.T) {
	_, err := Generate(Kind("bogus"), nil)
	assert.Error(t, err)
}

func TestParseKind(t *testing.T) {
	k, err := ParseKind(" Conflicts ")
	require.NoError(t, err)
	assert.Equal(t, KindConflicts, k)

	_, err = ParseKind("everything")
	assert.Error(t, err)
}
