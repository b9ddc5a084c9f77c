package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/MrSnakeDoc/lombahub/internal/kv"
)

func newTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "data")
	s, err := New(dir)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s, dir
}

func TestStoreGetSet(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	if _, err := s.Get(ctx, "missing"); !errors.Is(err, kv.ErrNotFound) {
		t.Fatalf("Get(missing) error = %v, want kv.ErrNotFound", err)
	}

	if err := s.Set(ctx, kv.ViewModeKey("s1"), "grid"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := s.Set(ctx, kv.ViewModeKey("s1"), "poster"); err != nil {
		t.Fatalf("Set() overwrite error = %v", err)
	}

	got, err := s.Get(ctx, kv.ViewModeKey("s1"))
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got != "poster" {
		t.Errorf("Get() = %q, want poster", got)
	}
}

func TestStoreSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	s, dir := newTestStore(t)

	if err := s.Set(ctx, kv.BookmarksKey("s1"), `["a","b"]`); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	reopened, err := New(dir)
	if err != nil {
		t.Fatalf("New() reopen error = %v", err)
	}
	defer reopened.Close()

	got, err := reopened.Get(ctx, kv.BookmarksKey("s1"))
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got != `["a","b"]` {
		t.Errorf("Get() = %s", got)
	}
}

func TestStoreCountKeys(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	for _, key := range []string{kv.BookmarksKey("a"), kv.BookmarksKey("b"), kv.ViewModeKey("a")} {
		if err := s.Set(ctx, key, "x"); err != nil {
			t.Fatalf("Set(%s) error = %v", key, err)
		}
	}

	n, err := s.CountKeys(ctx, kv.KeyPrefixBookmarks)
	if err != nil {
		t.Fatalf("CountKeys() error = %v", err)
	}
	if n != 2 {
		t.Errorf("CountKeys(bookmarks) = %d, want 2", n)
	}
}
