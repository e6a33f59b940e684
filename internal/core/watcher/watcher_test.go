package watcher

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestWatchHandsOffSettledFiles(t *testing.T) {
	dir := t.TempDir()
	got := make(chan string, 4)

	w, err := New(func(name string) bool {
		return strings.HasSuffix(name, ".pdf")
	}, func(path string) { got <- path }, 50*time.Millisecond, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := w.Watch(ctx, dir); err != nil {
		t.Fatalf("Watch: %v", err)
	}

	if err := os.WriteFile(filepath.Join(dir, "notes.md"), []byte("skip"), 0o644); err != nil {
		t.Fatal(err)
	}
	want := filepath.Join(dir, "outline.pdf")
	if err := os.WriteFile(want, []byte("%PDF-1.4"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case p := <-got:
		if p != want {
			t.Fatalf("got %q want %q", p, want)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no event delivered")
	}

	// create and write on the same file collapse into one hand-off
	select {
	case p := <-got:
		t.Fatalf("unexpected second hand-off: %q", p)
	case <-time.After(300 * time.Millisecond):
	}
}

func TestWatchMissingDir(t *testing.T) {
	w, err := New(nil, func(string) {}, 0, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()
	if err := w.Watch(context.Background(), filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Fatal("expected error for a missing directory")
	}
}
