package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/MrSnakeDoc/lombahub/internal/domain"
)

// SaveCatalog replaces the cached catalog: the ordered ID list and one JSON
// document per competition are written in a single transaction, then
// records that left the catalog are removed.
func (s *Store) SaveCatalog(ctx context.Context, list []*domain.Competition) error {
	keep := make(map[string]struct{}, len(list))
	pipe := s.client.TxPipeline()
	pipe.Del(ctx, KeyCatalogIDs)

	for _, c := range list {
		data, err := json.Marshal(c)
		if err != nil {
			return fmt.Errorf("failed to marshal competition %s: %w", c.ID, err)
		}
		pipe.Set(ctx, CompetitionKey(c.ID), data, 0)
		pipe.RPush(ctx, KeyCatalogIDs, c.ID)
		keep[c.ID] = struct{}{}
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save catalog: %w", err)
	}

	return s.pruneCompetitions(ctx, keep)
}

// LoadCatalog returns the cached catalog in the order it was saved.
// IDs whose document is missing or unreadable are skipped.
func (s *Store) LoadCatalog(ctx context.Context) ([]*domain.Competition, error) {
	ids, err := s.client.LRange(ctx, KeyCatalogIDs, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get catalog ids: %w", err)
	}
	if len(ids) == 0 {
		return []*domain.Competition{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = CompetitionKey(id)
	}

	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get cached competitions: %w", err)
	}

	list := make([]*domain.Competition, 0, len(values))
	for _, v := range values {
		raw, ok := v.(string)
		if !ok {
			continue
		}
		var c domain.Competition
		if err := json.Unmarshal([]byte(raw), &c); err != nil {
			continue
		}
		list = append(list, &c)
	}
	return list, nil
}

func (s *Store) pruneCompetitions(ctx context.Context, keep map[string]struct{}) error {
	iter := s.client.Scan(ctx, 0, KeyPrefixCompetition+"*", 0).Iterator()
	for iter.Next(ctx) {
		id, err := ExtractCompetitionID(iter.Val())
		if err != nil {
			continue
		}
		if _, ok := keep[id]; ok {
			continue
		}
		if err := s.client.Del(ctx, iter.Val()).Err(); err != nil {
			return fmt.Errorf("failed to delete stale competition %s: %w", id, err)
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("failed to scan cached competitions: %w", err)
	}
	return nil
}
