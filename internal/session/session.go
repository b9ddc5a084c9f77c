package session

import (
	"context"
	"sync"
	"time"

	"github.com/MrSnakeDoc/lombahub/internal/domain"
	"github.com/MrSnakeDoc/lombahub/internal/listing"
	"github.com/MrSnakeDoc/lombahub/internal/metrics"
	"github.com/MrSnakeDoc/lombahub/internal/prefs"
)

// Session is the browsing state of one visitor: the list engine plus the
// persisted bookmark set and view mode. All access goes through its mutex.
type Session struct {
	ID string

	mu        sync.Mutex
	view      *listing.View
	bookmarks *prefs.BookmarkStore
	viewMode  *prefs.ViewModePreference
	lastSeen  time.Time
}

// Item is one visible competition with its bookmark flag.
type Item struct {
	Competition *domain.Competition `json:"competition"`
	Bookmarked  bool                `json:"bookmarked"`
}

// Snapshot is the rendering output of a session.
type Snapshot struct {
	ID            string                 `json:"id"`
	Query         string                 `json:"query"`
	Filters       domain.FilterState     `json:"filters"`
	FiltersActive bool                   `json:"filters_active"`
	Sort          domain.SortOption      `json:"sort"`
	Total         int                    `json:"total"`
	ResultIDs     []string               `json:"result_ids"`
	VisibleCount  int                    `json:"visible_count"`
	Items         []Item                 `json:"items"`
	HasMore       bool                   `json:"has_more"`
	Remaining     int                    `json:"remaining"`
	Selected      *listing.SelectedState `json:"selected"`
	ViewMode      prefs.ViewMode         `json:"view_mode"`
	Bookmarks     int                    `json:"bookmarks"`
}

// Update runs fn against the list engine and returns the resulting snapshot.
// The snapshot is returned even when fn fails, so callers can render the
// unchanged state next to the error.
func (s *Session) Update(fn func(v *listing.View) error) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := fn(s.view)
	return s.snapshot(), err
}

// Snapshot renders the current state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

// SetViewMode changes and persists the layout.
func (s *Session) SetViewMode(ctx context.Context, mode prefs.ViewMode) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.viewMode.Set(ctx, mode)
	return s.snapshot(), err
}

// ToggleBookmark flips the bookmark of id and reports the new state.
func (s *Session) ToggleBookmark(ctx context.Context, id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	added := s.bookmarks.Toggle(ctx, id)
	metrics.IncBookmark(added)
	return added
}

// Bookmarks returns the bookmarked IDs in insertion order.
func (s *Session) Bookmarks() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bookmarks.List()
}

// IsBookmarked reports whether id is bookmarked.
func (s *Session) IsBookmarked(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bookmarks.IsBookmarked(id)
}

// Degraded reports whether any preference fell back to memory-only storage.
func (s *Session) Degraded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bookmarks.Degraded() || s.viewMode.Degraded()
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

// snapshot must be called with s.mu held.
func (s *Session) snapshot() Snapshot {
	st := s.view.Snapshot()

	items := make([]Item, 0, len(st.Visible))
	for _, c := range st.Visible {
		items = append(items, Item{
			Competition: c,
			Bookmarked:  s.bookmarks.IsBookmarked(c.ID),
		})
	}

	return Snapshot{
		ID:            s.ID,
		Query:         st.Query,
		Filters:       st.Filters,
		FiltersActive: st.FiltersActive,
		Sort:          st.Sort,
		Total:         st.Total,
		ResultIDs:     st.ResultIDs,
		VisibleCount:  st.VisibleCount,
		Items:         items,
		HasMore:       st.HasMore,
		Remaining:     st.Remaining,
		Selected:      st.Selected,
		ViewMode:      s.viewMode.Get(),
		Bookmarks:     s.bookmarks.Len(),
	}
}
