package listing

import "github.com/MrSnakeDoc/lombahub/internal/domain"

// PageSize is the number of records revealed by each page of the window.
const PageSize = 20

// Window is a growing prefix over an ordered result list.
// The zero value is not ready for use; call NewWindow.
type Window struct {
	visible int
}

// NewWindow returns a window showing the first page.
func NewWindow() Window {
	return Window{visible: PageSize}
}

// LoadMore reveals one more page. It is never clamped: slicing past the end
// of the list simply yields the whole list.
func (w *Window) LoadMore() {
	w.visible += PageSize
}

// Reset goes back to the first page.
func (w *Window) Reset() {
	w.visible = PageSize
}

// Count returns the requested visible count, which may exceed the list length.
func (w Window) Count() int {
	return w.visible
}

// Slice returns the visible prefix of results.
func (w Window) Slice(results []*domain.Competition) []*domain.Competition {
	return results[:min(w.visible, len(results))]
}

// HasMore reports whether records beyond the window exist.
func (w Window) HasMore(total int) bool {
	return w.visible < total
}

// Remaining returns how many records are hidden past the window.
func (w Window) Remaining(total int) int {
	return max(total-w.visible, 0)
}
