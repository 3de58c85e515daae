package watcher

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"
)

func TestFileWatcher_detectsWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "synonyms.txt")
	if err := os.WriteFile(path, []byte("a b\n"), 0600); err != nil {
		t.Fatal(err)
	}

	var changes atomic.Int32
	w := NewFileWatcher(path, func(string) { changes.Add(1) }, WithDebounce(50*time.Millisecond))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := w.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer w.Stop()

	if err := os.WriteFile(path, []byte("a b c\n"), 0600); err != nil {
		t.Fatal(err)
	}

	deadline := time.Now().Add(3 * time.Second)
	for changes.Load() == 0 && time.Now().Before(deadline) {
		time.Sleep(20 * time.Millisecond)
	}
	if changes.Load() == 0 {
		t.Fatal("no change callback after write")
	}
}

func TestFileWatcher_ignoresSiblingFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "synonyms.txt")
	if err := os.WriteFile(path, []byte("a b\n"), 0600); err != nil {
		t.Fatal(err)
	}

	var changes atomic.Int32
	w := NewFileWatcher(path, func(string) { changes.Add(1) }, WithDebounce(30*time.Millisecond))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := w.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer w.Stop()

	if err := os.WriteFile(filepath.Join(dir, "other.txt"), []byte("x\n"), 0600); err != nil {
		t.Fatal(err)
	}
	time.Sleep(300 * time.Millisecond)
	if changes.Load() != 0 {
		t.Errorf("callback fired %d times for a sibling file", changes.Load())
	}
}

func TestFileWatcher_stopIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "synonyms.txt")
	w := NewFileWatcher(path, nil)
	if err := w.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	w.Stop()
	w.Stop()
}

func TestFileWatcher_missingDirFails(t *testing.T) {
	w := NewFileWatcher(filepath.Join(t.TempDir(), "no", "such", "file.txt"), nil)
	if err := w.Start(context.Background()); err == nil {
		w.Stop()
		t.Error("expected error for missing parent directory")
	}
}
