// Package redis stores the catalog cache and session preferences in Redis.
package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/lombahub/internal/kv"
)

// Store handles Redis operations for the catalog cache and preferences.
// It implements kv.Store.
type Store struct {
	client *redis.Client
}

var _ kv.Store = (*Store)(nil)

// NewStore creates a new Redis store
func NewStore(client *redis.Client) *Store {
	return &Store{
		client: client,
	}
}

// Get returns the value under key, or kv.ErrNotFound
func (s *Store) Get(ctx context.Context, key string) (string, error) {
	val, err := s.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", kv.ErrNotFound
		}
		return "", fmt.Errorf("failed to get %s: %w", key, err)
	}
	return val, nil
}

// Set stores value under key without expiry
func (s *Store) Set(ctx context.Context, key, value string) error {
	if err := s.client.Set(ctx, key, value, 0).Err(); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}
	return nil
}

// CountKeys counts keys starting with prefix
func (s *Store) CountKeys(ctx context.Context, prefix string) (int, error) {
	n := 0
	iter := s.client.Scan(ctx, 0, prefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		n++
	}
	if err := iter.Err(); err != nil {
		return 0, fmt.Errorf("failed to scan %s*: %w", prefix, err)
	}
	return n, nil
}

// Ping checks that the server answers
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
