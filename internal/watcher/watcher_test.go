package watcher

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newTestWatcher(t *testing.T) (string, <-chan struct{}) {
	t.Helper()

	dir := t.TempDir()
	path := filepath.Join(dir, "plotline.yaml")
	require.NoError(t, os.WriteFile(path, []byte("auto_reload: true\n"), 0o600))

	w, err := New(Config{Path: path, DebounceDur: 50 * time.Millisecond})
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Stop() })

	ch, err := w.Start()
	require.NoError(t, err)
	return path, ch
}

func TestWatcher_SignalsOnWrite(t *testing.T) {
	path, ch := newTestWatcher(t)

	require.NoError(t, os.WriteFile(path, []byte("auto_reload: false\n"), 0o600))

	select {
	case <-ch:
	case <-time.After(2 * time.Second):
		t.Fatal("expected change signal after write")
	}
}

func TestWatcher_SignalsOnAtomicRename(t *testing.T) {
	path, ch := newTestWatcher(t)

	tmp := path + ".tmp"
	require.NoError(t, os.WriteFile(tmp, []byte("auto_reload: false\n"), 0o600))
	require.NoError(t, os.Rename(tmp, path))

	select {
	case <-ch:
	case <-time.After(2 * time.Second):
		t.Fatal("expected change signal after rename")
	}
}

func TestWatcher_IgnoresOtherFiles(t *testing.T) {
	path, ch := newTestWatcher(t)

	other := filepath.Join(filepath.Dir(path), "notes.txt")
	require.NoError(t, os.WriteFile(other, []byte("hi\n"), 0o600))

	select {
	case <-ch:
		t.Fatal("unexpected signal for unrelated file")
	case <-time.After(300 * time.Millisecond):
	}
}

func TestWatcher_DebouncesBursts(t *testing.T) {
	path, ch := newTestWatcher(t)

	for i := 0; i < 5; i++ {
		require.NoError(t, os.WriteFile(path, []byte("auto_reload: true\n"), 0o600))
		time.Sleep(5 * time.Millisecond)
	}

	select {
	case <-ch:
	case <-time.After(2 * time.Second):
		t.Fatal("expected one signal for the burst")
	}

	// The burst coalesces; no second signal arrives.
	select {
	case <-ch:
		t.Fatal("expected burst to coalesce into a single signal")
	case <-time.After(300 * time.Millisecond):
	}
}

func TestWatcher_StopIsClean(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "plotline.yaml")
	require.NoError(t, os.WriteFile(path, []byte("x: 1\n"), 0o600))

	w, err := New(DefaultConfig(path))
	require.NoError(t, err)
	_, err = w.Start()
	require.NoError(t, err)

	require.NoError(t, w.Stop())
}
