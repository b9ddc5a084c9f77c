// Package listing implements the stateful list engine of one browsing session:
// query state, the "load more" window and the selection/detail controller.
package listing

import "github.com/MrSnakeDoc/lombahub/internal/domain"

// Source provides the current catalog snapshot and its version.
// The version must change whenever the snapshot is replaced.
type Source interface {
	Snapshot() ([]*domain.Competition, uint64)
}

// View glues the query engine, the pagination window and the selection
// controller together and applies the reset rules between them.
// A View is not safe for concurrent use.
type View struct {
	source Source

	query   string
	filters domain.FilterState
	sort    domain.SortOption

	window    Window
	selection Selection

	results []*domain.Competition
	version uint64
	dirty   bool
}

// SelectedState describes the focused record.
type SelectedState struct {
	Index       int                 `json:"index"`
	Competition *domain.Competition `json:"competition"`
	HasPrevious bool                `json:"has_previous"`
	HasNext     bool                `json:"has_next"`
}

// State is a read-only rendering of the view.
type State struct {
	Query         string
	Filters       domain.FilterState
	Sort          domain.SortOption
	Total         int
	ResultIDs     []string
	VisibleCount  int
	Visible       []*domain.Competition
	HasMore       bool
	Remaining     int
	Selected      *SelectedState
	FiltersActive bool
}

// NewView creates a view over src with an empty query, default filters,
// deadline order, the first page and no selection.
func NewView(src Source) *View {
	_, version := src.Snapshot()
	return &View{
		source:  src,
		filters: domain.DefaultFilters(),
		sort:    domain.DefaultSort,
		window:  NewWindow(),
		version: version,
		dirty:   true,
	}
}

// refresh recomputes the result list when the query or the catalog changed.
// A new catalog version resets the window and the selection.
func (v *View) refresh() {
	catalog, version := v.source.Snapshot()
	if version != v.version {
		v.version = version
		v.window.Reset()
		v.selection.Close()
		v.dirty = true
	}
	if !v.dirty {
		return
	}
	v.results = domain.Compute(catalog, v.query, v.filters, v.sort)
	v.dirty = false
}

// invalidate marks the results stale and resets the window and the selection
// in the same step, so a stale index is never read against a new list.
func (v *View) invalidate() {
	v.window.Reset()
	v.selection.Close()
	v.dirty = true
}

// ─────────────────────────────
// Query state
// ─────────────────────────────

// Query returns the current search text.
func (v *View) Query() string { return v.query }

// Filters returns the current facet selection.
func (v *View) Filters() domain.FilterState { return v.filters }

// Sort returns the current order.
func (v *View) Sort() domain.SortOption { return v.sort }

// SetSearch replaces the search text. Setting the same text is not a change.
func (v *View) SetSearch(query string) bool {
	if query == v.query {
		return false
	}
	v.query = query
	v.invalidate()
	return true
}

// SetFilters replaces the facet selection. Equal filter states (compared as
// sets) are not a change.
func (v *View) SetFilters(f domain.FilterState) (bool, error) {
	f = f.Normalize()
	if err := f.Validate(); err != nil {
		return false, err
	}
	if f.Equal(v.filters) {
		return false, nil
	}
	v.filters = f
	v.invalidate()
	return true, nil
}

// ClearFilters restores the default facet selection.
func (v *View) ClearFilters() bool {
	changed, _ := v.SetFilters(domain.DefaultFilters())
	return changed
}

// SetSort changes the order. The window is kept, and a selected record stays
// selected at its position in the new order.
func (v *View) SetSort(s domain.SortOption) bool {
	if s == v.sort {
		return false
	}

	v.refresh()
	selected := v.selection.Current(v.results)

	v.sort = s
	v.dirty = true
	v.refresh()

	if selected != nil {
		for i, c := range v.results {
			if c.ID == selected.ID {
				_ = v.selection.Select(i, len(v.results))
				break
			}
		}
	}
	return true
}

// Reset restores the initial query state: empty search, default filters,
// deadline order, first page and no selection.
func (v *View) Reset() {
	v.query = ""
	v.filters = domain.DefaultFilters()
	v.sort = domain.DefaultSort
	v.invalidate()
}

// ─────────────────────────────
// Window
// ─────────────────────────────

// LoadMore reveals the next page.
func (v *View) LoadMore() {
	v.refresh()
	v.window.LoadMore()
}

// Results returns the full filtered and sorted list.
func (v *View) Results() []*domain.Competition {
	v.refresh()
	return v.results
}

// Visible returns the revealed prefix of Results.
func (v *View) Visible() []*domain.Competition {
	v.refresh()
	return v.window.Slice(v.results)
}

// VisibleCount returns the requested window size.
func (v *View) VisibleCount() int {
	v.refresh()
	return v.window.Count()
}

// HasMore reports whether LoadMore would reveal more records.
func (v *View) HasMore() bool {
	v.refresh()
	return v.window.HasMore(len(v.results))
}

// Remaining returns how many records are still hidden.
func (v *View) Remaining() int {
	v.refresh()
	return v.window.Remaining(len(v.results))
}

// ─────────────────────────────
// Selection
// ─────────────────────────────

// Select focuses index i of the full result list.
func (v *View) Select(i int) error {
	v.refresh()
	return v.selection.Select(i, len(v.results))
}

// CloseSelection clears the selection.
func (v *View) CloseSelection() {
	v.selection.Close()
}

// Previous moves the selection one record back.
func (v *View) Previous() bool {
	v.refresh()
	return v.selection.Previous()
}

// Next moves the selection one record forward.
func (v *View) Next() bool {
	v.refresh()
	return v.selection.Next(len(v.results))
}

// Selected returns the focused record, or nil when nothing is selected.
func (v *View) Selected() *SelectedState {
	v.refresh()
	idx, ok := v.selection.Index()
	if !ok {
		return nil
	}
	c := v.selection.Current(v.results)
	if c == nil {
		return nil
	}
	return &SelectedState{
		Index:       idx,
		Competition: c,
		HasPrevious: idx > 0,
		HasNext:     idx < len(v.results)-1,
	}
}

// Snapshot renders the whole view state.
func (v *View) Snapshot() State {
	v.refresh()

	ids := make([]string, 0, len(v.results))
	for _, c := range v.results {
		ids = append(ids, c.ID)
	}

	return State{
		Query:         v.query,
		Filters:       v.filters,
		Sort:          v.sort,
		Total:         len(v.results),
		ResultIDs:     ids,
		VisibleCount:  v.window.Count(),
		Visible:       v.window.Slice(v.results),
		HasMore:       v.window.HasMore(len(v.results)),
		Remaining:     v.window.Remaining(len(v.results)),
		Selected:      v.Selected(),
		FiltersActive: v.filters.IsActive(),
	}
}
