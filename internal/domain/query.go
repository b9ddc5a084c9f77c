package domain

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// SortOption selects the order of a result list.
type SortOption string

const (
	// SortDeadline orders by deadline, earliest first.
	SortDeadline SortOption = "deadline"
	// SortName orders by title using locale-aware collation.
	SortName SortOption = "name"
)

// DefaultSort is the order a fresh list session starts with.
const DefaultSort = SortDeadline

// ErrUnknownSortOption is returned by ParseSortOption.
var ErrUnknownSortOption = errors.New("unknown sort option")

// CollationLanguage drives title ordering.
var CollationLanguage = language.Indonesian

// ParseSortOption maps user input to a SortOption. Empty input yields DefaultSort.
func ParseSortOption(s string) (SortOption, error) {
	switch SortOption(strings.ToLower(strings.TrimSpace(s))) {
	case "":
		return DefaultSort, nil
	case SortDeadline:
		return SortDeadline, nil
	case SortName:
		return SortName, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownSortOption, s)
	}
}

// MatchesSearch reports whether query occurs, case-insensitively, in the
// title, description, organizer or category. An empty query matches everything.
func MatchesSearch(c *Competition, query string) bool {
	if query == "" {
		return true
	}
	q := strings.ToLower(query)
	return strings.Contains(strings.ToLower(c.Title), q) ||
		strings.Contains(strings.ToLower(c.Description), q) ||
		strings.Contains(strings.ToLower(c.Organizer), q) ||
		strings.Contains(strings.ToLower(c.Category), q)
}

// Compute filters the catalog by search query and facets, then sorts it.
// The input slice is never modified. Both orders are stable, so records
// that compare equal keep their catalog order.
func Compute(catalog []*Competition, query string, filters FilterState, sortBy SortOption) []*Competition {
	result := make([]*Competition, 0, len(catalog))
	for _, c := range catalog {
		if c == nil {
			continue
		}
		if !MatchesSearch(c, query) {
			continue
		}
		if !filters.Matches(c) {
			continue
		}
		result = append(result, c)
	}

	Sort(result, sortBy)
	return result
}

// Sort orders list in place. Unknown options leave the order untouched.
func Sort(list []*Competition, sortBy SortOption) {
	switch sortBy {
	case SortDeadline:
		slices.SortStableFunc(list, func(a, b *Competition) int {
			return a.Deadline.Compare(b.Deadline)
		})
	case SortName:
		// A Collator keeps internal buffers, so each call gets its own.
		col := collate.New(CollationLanguage)
		slices.SortStableFunc(list, func(a, b *Competition) int {
			return col.CompareString(a.Title, b.Title)
		})
	}
}
