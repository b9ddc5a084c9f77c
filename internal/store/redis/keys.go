package redis

import (
	"fmt"
	"strings"

	"github.com/MrSnakeDoc/lombahub/internal/kv"
)

const (
	// KeyCatalogIDs is the list of competition IDs in catalog order
	KeyCatalogIDs = kv.KeyPrefix + "catalog:ids"
	// KeyPrefixCompetition is the prefix of cached competition records
	KeyPrefixCompetition = kv.KeyPrefix + "catalog:competition:"
)

// CompetitionKey returns the Redis key of a cached competition
func CompetitionKey(id string) string {
	return KeyPrefixCompetition + id
}

// ExtractCompetitionID extracts the competition ID from a Redis key
func ExtractCompetitionID(key string) (string, error) {
	if !strings.HasPrefix(key, KeyPrefixCompetition) || len(key) == len(KeyPrefixCompetition) {
		return "", fmt.Errorf("invalid competition key: %s", key)
	}
	return key[len(KeyPrefixCompetition):], nil
}
