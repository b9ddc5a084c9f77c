// Package prefs holds the per-session preferences that survive a reload:
// the bookmark set and the view mode.
package prefs

import (
	"context"
	"encoding/json"
	"errors"
	"slices"

	"github.com/MrSnakeDoc/lombahub/internal/kv"
	"github.com/MrSnakeDoc/lombahub/internal/logger"
)

// BookmarkStore is a persisted, ordered set of competition IDs.
// It never returns storage errors: unreadable data starts empty and an
// unavailable store switches it to memory-only for the rest of its life.
// A BookmarkStore is not safe for concurrent use.
type BookmarkStore struct {
	store kv.Store
	key   string
	log   logger.Logger

	ids      []string
	index    map[string]struct{}
	degraded bool
}

// NewBookmarkStore reads the persisted set stored under key.
// A nil store yields a memory-only set.
func NewBookmarkStore(ctx context.Context, store kv.Store, key string, log logger.Logger) *BookmarkStore {
	b := &BookmarkStore{
		store:    store,
		key:      key,
		log:      log,
		index:    make(map[string]struct{}),
		degraded: store == nil,
	}
	if b.degraded {
		return b
	}

	getCtx, cancel := storageContext(ctx)
	raw, err := store.Get(getCtx, key)
	cancel()
	switch {
	case errors.Is(err, kv.ErrNotFound):
		return b
	case err != nil:
		log.Warn("Bookmark storage unavailable, keeping bookmarks in memory",
			logger.String("key", key), logger.Error(err))
		b.degraded = true
		return b
	}

	var ids []string
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		log.Warn("Ignoring unreadable bookmark set",
			logger.String("key", key), logger.Error(err))
		return b
	}

	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := b.index[id]; ok {
			continue
		}
		b.index[id] = struct{}{}
		b.ids = append(b.ids, id)
	}
	return b
}

// Toggle adds id when absent and removes it otherwise, then persists the set.
// It returns whether id is bookmarked afterwards.
func (b *BookmarkStore) Toggle(ctx context.Context, id string) bool {
	_, present := b.index[id]
	if present {
		delete(b.index, id)
		if i := slices.Index(b.ids, id); i >= 0 {
			b.ids = slices.Delete(b.ids, i, i+1)
		}
	} else {
		b.index[id] = struct{}{}
		b.ids = append(b.ids, id)
	}

	b.persist(ctx)
	return !present
}

// IsBookmarked reports whether id is in the set.
func (b *BookmarkStore) IsBookmarked(id string) bool {
	_, ok := b.index[id]
	return ok
}

// List returns the bookmarked IDs in insertion order.
func (b *BookmarkStore) List() []string {
	out := make([]string, len(b.ids))
	copy(out, b.ids)
	return out
}

// Len returns the number of bookmarks.
func (b *BookmarkStore) Len() int {
	return len(b.ids)
}

// Degraded reports whether the set is no longer persisted.
func (b *BookmarkStore) Degraded() bool {
	return b.degraded
}

func (b *BookmarkStore) persist(ctx context.Context) {
	if b.degraded {
		return
	}

	ids := b.ids
	if ids == nil {
		ids = []string{}
	}
	data, err := json.Marshal(ids)
	if err != nil {
		b.log.Error("Failed to encode bookmark set", logger.Error(err))
		return
	}

	setCtx, cancel := storageContext(ctx)
	defer cancel()
	if err := b.store.Set(setCtx, b.key, string(data)); err != nil {
		b.log.Warn("Bookmark storage failed, keeping bookmarks in memory",
			logger.String("key", b.key), logger.Error(err))
		b.degraded = true
	}
}
