// Package kv defines the string key-value contract used to persist
// per-session preferences, plus an in-memory implementation.
package kv

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when the key has never been written.
var ErrNotFound = errors.New("kv: key not found")

// Store is a minimal string key-value store. Implementations may be local or
// network-backed; ctx carries cancellation for the latter.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
}

const (
	// KeyPrefix namespaces every key written by the service
	KeyPrefix = "lombahub:"
	// KeyPrefixBookmarks is the prefix of bookmark set keys
	KeyPrefixBookmarks = KeyPrefix + "bookmarks:"
	// KeyPrefixViewMode is the prefix of view mode keys
	KeyPrefixViewMode = KeyPrefix + "view-mode:"
)

// BookmarksKey returns the key of a session's bookmark set
func BookmarksKey(sessionID string) string {
	return KeyPrefixBookmarks + sessionID
}

// ViewModeKey returns the key of a session's view mode
func ViewModeKey(sessionID string) string {
	return KeyPrefixViewMode + sessionID
}

// Counter is implemented by stores that can report how many keys share a prefix.
type Counter interface {
	CountKeys(ctx context.Context, prefix string) (int, error)
}
