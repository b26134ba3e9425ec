package watch

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func waitEvent(t *testing.T, w *Watcher) {
	t.Helper()
	select {
	case <-w.Events():
	case <-time.After(5 * time.Second):
		t.Fatal("no change event")
	}
}

func TestWatcherSeesWrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "input.txt")
	if err := os.WriteFile(path, []byte("one"), 0o644); err != nil {
		t.Fatal(err)
	}
	w, err := New(path)
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	if err := os.WriteFile(path, []byte("two"), 0o644); err != nil {
		t.Fatal(err)
	}
	waitEvent(t, w)
}

func TestPollingWatcher(t *testing.T) {
	path := filepath.Join(t.TempDir(), "preset.yaml")
	if err := os.WriteFile(path, []byte("font: 10px serif\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	w, err := NewPolling(10*time.Millisecond, path)
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	later := time.Now().Add(time.Hour)
	if err := os.Chtimes(path, later, later); err != nil {
		t.Fatal(err)
	}
	waitEvent(t, w)
}

func TestNewRequiresPaths(t *testing.T) {
	if _, err := New(); err == nil {
		t.Fatal("expected error without paths")
	}
}

func TestCloseTwice(t *testing.T) {
	path := filepath.Join(t.TempDir(), "x")
	w, err := NewPolling(time.Hour, path)
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
}
