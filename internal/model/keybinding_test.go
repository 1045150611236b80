package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeySequence(t *testing.T) {
	s := KeySequence{"ctrl+k", "ctrl+b"}
	assert.Equal(t, "ctrl+k, ctrl+b", s.String())
	assert.Equal(t, `["ctrl+k", "ctrl+b"]`, s.Quoted())
	assert.Equal(t, KeySequence{"ctrl+k"}, s.First())
	assert.Nil(t, KeySequence{}.First())

	assert.Negative(t, KeySequence{"ctrl+k"}.Compare(s), "prefix sorts first")
	assert.Positive(t, KeySequence{"ctrl+l"}.Compare(s))
	assert.True(t, s.Equal(KeySequence{"ctrl+k", "ctrl+b"}))
}

func TestContext(t *testing.T) {
	absent := AbsentContext()
	empty := NewContext(nil)
	xy := NewContext([]string{`{"key":"y"}`, `{"key":"x"}`})
	yx := NewContext([]string{`{"key":"x"}`, `{"key":"y"}`})

	assert.False(t, absent.Present())
	assert.True(t, empty.Present())
	assert.Empty(t, empty.Descriptors())

	assert.False(t, absent.Equal(empty))
	assert.Negative(t, absent.Compare(empty))
	assert.Negative(t, empty.Compare(xy))
	assert.True(t, xy.Equal(yx))
	assert.Equal(t, []string{`{"key":"x"}`, `{"key":"y"}`}, xy.Descriptors())

	assert.Equal(t, "", absent.String())
	assert.Equal(t, "[]", empty.String())
	assert.Equal(t, `[{"key":"x"}, {"key":"y"}]`, xy.String())
}

func TestNewContextCopiesInput(t *testing.T) {
	in := []string{"b", "a"}
	c := NewContext(in)
	assert.Equal(t, []string{"b", "a"}, in)

	d := c.Descriptors()
	d[0] = "z"
	assert.Equal(t, []string{"a", "b"}, c.Descriptors())
}

func TestKeybindingJSON(t *testing.T) {
	k := Keybinding{Keys: KeySequence{"ctrl+k", "ctrl+b"}, Command: "toggle_side_bar", Package: "Default"}
	assert.True(t, k.IsMultiChord())

	b, err := json.Marshal(k)
	require.NoError(t, err)
	assert.JSONEq(t, `{"keys":["ctrl+k","ctrl+b"],"command":"toggle_side_bar","context":null,"package":"Default"}`, string(b))

	k.Context = NewContext([]string{`{"key":"x"}`})
	k.Args = json.RawMessage(`{"a":1}`)
	b, err = json.Marshal(k)
	require.NoError(t, err)
	assert.JSONEq(t, `{"keys":["ctrl+k","ctrl+b"],"command":"toggle_side_bar","args":{"a":1},"context":[{"key":"x"}],"package":"Default"}`, string(b))
}

func TestPackageName(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/packages/Vintage/Default.sublime-keymap", "Vintage"},
		{`C:\Packages\Emmet\Default (Windows).sublime-keymap`, "Emmet"},
		{"User/Default.sublime-keymap", "User"},
		{"Default.sublime-keymap", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, PackageName(tt.path), tt.path)
	}
}

func TestIsKeymapFile(t *testing.T) {
	tests := []struct {
		name     string
		platform string
		want     bool
	}{
		{"Default.sublime-keymap", "linux", true},
		{"default.sublime-keymap", "osx", true},
		{"Default (Linux).sublime-keymap", "linux", true},
		{"Default (OSX).sublime-keymap", "osx", true},
		{"Default (OSX).sublime-keymap", "linux", false},
		{"Default (Windows).sublime-keymap", "windows", true},
		{"Main.sublime-keymap", "linux", false},
		{"Default.sublime-settings", "linux", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, IsKeymapFile(tt.name, tt.platform), "%s on %s", tt.name, tt.platform)
	}
}

func TestScanResultDiagnostics(t *testing.T) {
	r := ScanResult{
		Failures: []FileFailure{{Path: "/p/Broken/Default.sublime-keymap", Package: "Broken", Err: &ParseError{Package: "Broken", Err: assert.AnError}}},
		Malformed: []MalformedEntryError{{Path: "/p/P1/Default.sublime-keymap", Package: "P1", Index: 2, Reason: "missing command"}},
	}

	d := r.Diagnostics()
	require.Len(t, d, 2)
	assert.Contains(t, d[0], "skipped file /p/Broken/Default.sublime-keymap")
	assert.Contains(t, d[1], "missing command")
	assert.Empty(t, ScanResult{}.Diagnostics())
}
