package domain

import (
	"errors"
	"fmt"
	"strings"
)

// All disables a single-valued facet.
const All = "all"

const (
	FormatAll        Format            = All
	ParticipationAll ParticipationType = All
	StatusAll        Status            = All
)

// ErrInvalidFilter wraps every facet value rejected by Validate.
var ErrInvalidFilter = errors.New("invalid filter")

// FilterState holds the facet selection of a list session.
// An empty Categories or Levels slice means "no restriction", never "match nothing".
type FilterState struct {
	Categories        []string          `json:"categories"`
	Levels            []Level           `json:"levels"`
	Format            Format            `json:"format"`
	ParticipationType ParticipationType `json:"participation_type"`
	Status            Status            `json:"status"`
}

// DefaultFilters returns the cleared filter state.
func DefaultFilters() FilterState {
	return FilterState{
		Categories:        []string{},
		Levels:            []Level{},
		Format:            FormatAll,
		ParticipationType: ParticipationAll,
		Status:            StatusAll,
	}
}

// Normalize fills empty single-valued facets with "all" and drops duplicate
// and blank set members, keeping first-seen order.
func (f FilterState) Normalize() FilterState {
	out := FilterState{
		Categories:        dedupe(f.Categories),
		Levels:            dedupe(f.Levels),
		Format:            f.Format,
		ParticipationType: f.ParticipationType,
		Status:            f.Status,
	}
	if out.Format == "" {
		out.Format = FormatAll
	}
	if out.ParticipationType == "" {
		out.ParticipationType = ParticipationAll
	}
	if out.Status == "" {
		out.Status = StatusAll
	}
	return out
}

// Validate rejects facet values outside the enumerations.
// Categories are not checked: a category outside the fixed list simply matches nothing.
func (f FilterState) Validate() error {
	for _, l := range f.Levels {
		if !l.Valid() {
			return fmt.Errorf("%w: unknown level %q", ErrInvalidFilter, l)
		}
	}
	if f.Format != FormatAll && !f.Format.Valid() {
		return fmt.Errorf("%w: unknown format %q", ErrInvalidFilter, f.Format)
	}
	if f.ParticipationType != ParticipationAll && !f.ParticipationType.Valid() {
		return fmt.Errorf("%w: unknown participation type %q", ErrInvalidFilter, f.ParticipationType)
	}
	if f.Status != StatusAll && !f.Status.Valid() {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidFilter, f.Status)
	}
	return nil
}

// IsActive reports whether any facet restricts the result list.
func (f FilterState) IsActive() bool {
	f = f.Normalize()
	return len(f.Categories) > 0 ||
		len(f.Levels) > 0 ||
		f.Format != FormatAll ||
		f.ParticipationType != ParticipationAll ||
		f.Status != StatusAll
}

// Equal compares two filter states; multi-select facets compare as sets.
func (f FilterState) Equal(other FilterState) bool {
	a, b := f.Normalize(), other.Normalize()
	return a.Format == b.Format &&
		a.ParticipationType == b.ParticipationType &&
		a.Status == b.Status &&
		sameSet(a.Categories, b.Categories) &&
		sameSet(a.Levels, b.Levels)
}

// Matches applies every facet to c. All active facets must pass.
func (f FilterState) Matches(c *Competition) bool {
	if len(f.Categories) > 0 && !contains(f.Categories, c.Category) {
		return false
	}

	if len(f.Levels) > 0 {
		shared := false
		for _, l := range c.Levels {
			if contains(f.Levels, l) {
				shared = true
				break
			}
		}
		if !shared {
			return false
		}
	}

	if f.Format != FormatAll && f.Format != "" && c.Format != f.Format {
		return false
	}
	if f.ParticipationType != ParticipationAll && f.ParticipationType != "" && c.ParticipationType != f.ParticipationType {
		return false
	}
	if f.Status != StatusAll && f.Status != "" && c.Status != f.Status {
		return false
	}

	return true
}

func contains[T comparable](list []T, v T) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}

func dedupe[T ~string](list []T) []T {
	out := make([]T, 0, len(list))
	seen := make(map[T]bool, len(list))
	for _, v := range list {
		v = T(strings.TrimSpace(string(v)))
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}

func sameSet[T comparable](a, b []T) bool {
	if len(a) != len(b) {
		return false
	}
	set := make(map[T]bool, len(a))
	for _, v := range a {
		set[v] = true
	}
	for _, v := range b {
		if !set[v] {
			return false
		}
	}
	return true
}
