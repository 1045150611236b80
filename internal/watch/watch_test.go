package watch

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testDebounce = 50 * time.Millisecond

func isKeymap(name string) bool {
	return strings.HasSuffix(strings.ToLower(name), ".sublime-keymap")
}

func startWatcher(t *testing.T, root string) (*Watcher, <-chan []string) {
	t.Helper()
	w, err := New(root, isKeymap, testDebounce, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	changes := make(chan []string, 8)
	done := make(chan error, 1)
	go func() {
		done <- w.Run(ctx, func(paths []string) { changes <- paths })
	}()
	t.Cleanup(func() {
		cancel()
		select {
		case err := <-done:
			assert.NoError(t, err)
		case <-time.After(2 * time.Second):
			t.Error("watcher did not stop")
		}
	})
	return w, changes
}

func waitChange(t *testing.T, changes <-chan []string) []string {
	t.Helper()
	select {
	case paths := <-changes:
		return paths
	case <-time.After(3 * time.Second):
		t.Fatal("no change reported")
		return nil
	}
}

func TestNewWatchesEveryDirectory(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "P1", "nested"), 0o755))

	w, err := New(root, nil, 0, nil)
	require.NoError(t, err)
	defer w.fsw.Close()

	list := w.WatchList()
	slices.Sort(list)
	assert.Equal(t, []string{root, filepath.Join(root, "P1"), filepath.Join(root, "P1", "nested")}, list)
	assert.Equal(t, DefaultDebounce, w.debounce)
}

func TestNewMissingRoot(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "missing"), nil, 0, nil)
	assert.Error(t, err)
}

func TestRunReportsKeymapChanges(t *testing.T) {
	root := t.TempDir()
	pkg := filepath.Join(root, "P1")
	require.NoError(t, os.Mkdir(pkg, 0o755))
	_, changes := startWatcher(t, root)

	require.NoError(t, os.WriteFile(filepath.Join(pkg, "notes.txt"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(pkg, ".Default.sublime-keymap.swp"), []byte("x"), 0o644))
	keymap := filepath.Join(pkg, "Default.sublime-keymap")
	require.NoError(t, os.WriteFile(keymap, []byte("[]"), 0o644))

	assert.Equal(t, []string{keymap}, waitChange(t, changes))
}

func TestRunDebouncesBursts(t *testing.T) {
	root := t.TempDir()
	_, changes := startWatcher(t, root)

	a := filepath.Join(root, "a.sublime-keymap")
	b := filepath.Join(root, "b.sublime-keymap")
	for i := 0; i < 3; i++ {
		require.NoError(t, os.WriteFile(a, []byte("[]"), 0o644))
		require.NoError(t, os.WriteFile(b, []byte("[]"), 0o644))
	}

	assert.Equal(t, []string{a, b}, waitChange(t, changes))
	select {
	case extra := <-changes:
		t.Fatalf("unexpected second change %v", extra)
	case <-time.After(4 * testDebounce):
	}
}

func TestRunWatchesNewDirectories(t *testing.T) {
	root := t.TempDir()
	w, changes := startWatcher(t, root)

	pkg := filepath.Join(root, "NewPackage")
	require.NoError(t, os.Mkdir(pkg, 0o755))
	require.Eventually(t, func() bool {
		return slices.Contains(w.WatchList(), pkg)
	}, 3*time.Second, 10*time.Millisecond)

	keymap := filepath.Join(pkg, "Default.sublime-keymap")
	require.NoError(t, os.WriteFile(keymap, []byte("[]"), 0o644))
	assert.Equal(t, []string{keymap}, waitChange(t, changes))
}

func TestRunStopsOnCancel(t *testing.T) {
	w, err := New(t.TempDir(), nil, 0, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.NoError(t, w.Run(ctx, func([]string) { t.Error("unexpected change") }))
}
