package assets

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/goleak"
)

func TestWatcherReportsChanges(t *testing.T) {
	defer goleak.VerifyNone(t)

	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "english", "intro"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	changes := make(chan string, 16)
	w, err := NewWatcher(root, func(rel string) { changes <- rel }, WithDebounce(10*time.Millisecond))
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}
	if err := w.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer w.Stop()

	target := filepath.Join(root, "english", "intro", "01_intro.md")
	if err := os.WriteFile(target, []byte("# Intro"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	deadline := time.After(5 * time.Second)
	for {
		select {
		case rel := <-changes:
			if rel == "english/intro/01_intro.md" {
				return
			}
		case <-deadline:
			t.Fatalf("timed out waiting for change notification")
		}
	}
}

func TestWatcherInvalidatesCache(t *testing.T) {
	defer goleak.VerifyNone(t)

	root := t.TempDir()
	dir := filepath.Join(root, "english", "intro")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	path := filepath.Join(dir, "01_intro.md")
	if err := os.WriteFile(path, []byte("old"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	cache := NewCache(NewResolver(os.DirFS(root)))
	ctx := context.Background()
	if _, err := cache.Resolve(ctx, "english", "intro", "01_intro.md"); err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	invalidated := make(chan struct{}, 16)
	w, err := NewWatcher(root, func(rel string) {
		cache.Invalidate(rel)
		invalidated <- struct{}{}
	}, WithDebounce(10*time.Millisecond))
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}
	if err := w.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer w.Stop()

	if err := os.WriteFile(path, []byte("new"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	select {
	case <-invalidated:
	case <-time.After(5 * time.Second):
		t.Fatalf("timed out waiting for invalidation")
	}

	asset, err := cache.Resolve(ctx, "english", "intro", "01_intro.md")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if string(asset.Content) != "new" {
		t.Fatalf("expected fresh content after invalidation, got %q", asset.Content)
	}
}

func TestWatcherStopWithoutStart(t *testing.T) {
	defer goleak.VerifyNone(t)

	w, err := NewWatcher(t.TempDir(), func(string) {})
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}
	w.Stop()
	w.Stop()

	if _, err := NewWatcher(t.TempDir(), nil); err == nil {
		t.Fatalf("expected error without callback")
	}
}
