package listing

import (
	"errors"

	"github.com/MrSnakeDoc/lombahub/internal/domain"
)

// ErrInvalidSelectionIndex is returned when Select is called with an index
// outside the current result list. The previous selection is kept.
var ErrInvalidSelectionIndex = errors.New("listing: selection index out of range")

// Selection is either empty or an index into the current result list.
type Selection struct {
	index  int
	active bool
}

// Select focuses index i of a list holding total records.
func (s *Selection) Select(i, total int) error {
	if i < 0 || i >= total {
		return ErrInvalidSelectionIndex
	}
	s.index = i
	s.active = true
	return nil
}

// Close clears the selection.
func (s *Selection) Close() {
	s.index = 0
	s.active = false
}

// Previous moves one record back. It is a no-op at index 0 or without a selection.
func (s *Selection) Previous() bool {
	if !s.active || s.index == 0 {
		return false
	}
	s.index--
	return true
}

// Next moves one record forward. It is a no-op on the last record or without a selection.
func (s *Selection) Next(total int) bool {
	if !s.active || s.index >= total-1 {
		return false
	}
	s.index++
	return true
}

// Index returns the selected index and whether a selection exists.
func (s Selection) Index() (int, bool) {
	return s.index, s.active
}

// Current returns the selected record of results, or nil.
func (s Selection) Current(results []*domain.Competition) *domain.Competition {
	if !s.active || s.index >= len(results) {
		return nil
	}
	return results[s.index]
}
