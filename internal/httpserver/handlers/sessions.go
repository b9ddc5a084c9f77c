package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/lombahub/internal/domain"
	"github.com/MrSnakeDoc/lombahub/internal/httpserver/deps"
	"github.com/MrSnakeDoc/lombahub/internal/listing"
	"github.com/MrSnakeDoc/lombahub/internal/metrics"
	"github.com/MrSnakeDoc/lombahub/internal/prefs"
)

type createSessionRequest struct {
	Mobile bool `json:"mobile"`
}

type searchRequest struct {
	Query string `json:"query"`
}

type sortRequest struct {
	Sort string `json:"sort"`
}

type selectRequest struct {
	Index *int `json:"index"`
}

type viewModeRequest struct {
	Mode string `json:"mode"`
}

type bookmarkToggleResponse struct {
	ID         string `json:"id"`
	Bookmarked bool   `json:"bookmarked"`
	Count      int    `json:"count"`
}

type bookmarksResponse struct {
	IDs          []string              `json:"ids"`
	Competitions []*domain.Competition `json:"competitions"`
	Missing      []string              `json:"missing,omitempty"`
}

// CreateSession starts a list session. The body is optional; {"mobile": true}
// makes the poster layout the default view mode.
func CreateSession(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createSessionRequest
		if err := decodeJSON(w, r, &req); err != nil && !errors.Is(err, io.EOF) {
			writeDomainError(w, d.Logger, err)
			return
		}
		s := d.Sessions.Create(r.Context(), req.Mobile)
		writeJSON(w, d.Logger, http.StatusCreated, s.Snapshot())
	}
}

// GetSession renders a session. A session that is no longer live is rebuilt
// from its persisted preferences, like a reloaded page (?mobile=true picks
// the device default for a missing view mode).
func GetSession(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mobile, _ := strconv.ParseBool(r.URL.Query().Get("mobile"))
		s, err := d.Sessions.Open(r.Context(), chi.URLParam(r, "id"), mobile)
		if err != nil {
			writeDomainError(w, d.Logger, err)
			return
		}
		writeJSON(w, d.Logger, http.StatusOK, s.Snapshot())
	}
}

// SetSearch replaces the search text of a session.
func SetSearch(d deps.Deps) http.HandlerFunc {
	return updateSession(d, func(r *http.Request, w http.ResponseWriter) (func(*listing.View) error, error) {
		var req searchRequest
		if err := decodeJSON(w, r, &req); err != nil {
			return nil, err
		}
		return func(v *listing.View) error {
			if v.SetSearch(req.Query) {
				metrics.IncQuery("search")
			}
			return nil
		}, nil
	})
}

// SetFilters replaces the facet selection of a session.
func SetFilters(d deps.Deps) http.HandlerFunc {
	return updateSession(d, func(r *http.Request, w http.ResponseWriter) (func(*listing.View) error, error) {
		var f domain.FilterState
		if err := decodeJSON(w, r, &f); err != nil {
			return nil, err
		}
		return func(v *listing.View) error {
			changed, err := v.SetFilters(f)
			if changed {
				metrics.IncQuery("filters")
			}
			return err
		}, nil
	})
}

// ClearFilters restores the default facet selection.
func ClearFilters(d deps.Deps) http.HandlerFunc {
	return updateSession(d, staticUpdate(func(v *listing.View) error {
		if v.ClearFilters() {
			metrics.IncQuery("filters")
		}
		return nil
	}))
}

// SetSort changes the order of a session.
func SetSort(d deps.Deps) http.HandlerFunc {
	return updateSession(d, func(r *http.Request, w http.ResponseWriter) (func(*listing.View) error, error) {
		var req sortRequest
		if err := decodeJSON(w, r, &req); err != nil {
			return nil, err
		}
		sortBy, err := domain.ParseSortOption(req.Sort)
		if err != nil {
			return nil, err
		}
		return func(v *listing.View) error {
			if v.SetSort(sortBy) {
				metrics.IncQuery("sort")
			}
			return nil
		}, nil
	})
}

// LoadMore reveals the next page.
func LoadMore(d deps.Deps) http.HandlerFunc {
	return updateSession(d, staticUpdate(func(v *listing.View) error {
		v.LoadMore()
		return nil
	}))
}

// ResetSession restores the initial list state.
func ResetSession(d deps.Deps) http.HandlerFunc {
	return updateSession(d, staticUpdate(func(v *listing.View) error {
		v.Reset()
		metrics.IncQuery("reset")
		return nil
	}))
}

// Select opens the detail of one record of the full result list.
func Select(d deps.Deps) http.HandlerFunc {
	return updateSession(d, func(r *http.Request, w http.ResponseWriter) (func(*listing.View) error, error) {
		var req selectRequest
		if err := decodeJSON(w, r, &req); err != nil {
			return nil, err
		}
		if req.Index == nil {
			return nil, fmt.Errorf("%w: index is required", errBadBody)
		}
		return func(v *listing.View) error {
			return v.Select(*req.Index)
		}, nil
	})
}

// CloseSelection closes the detail view.
func CloseSelection(d deps.Deps) http.HandlerFunc {
	return updateSession(d, staticUpdate(func(v *listing.View) error {
		v.CloseSelection()
		return nil
	}))
}

// PreviousSelection moves the detail view one record back.
func PreviousSelection(d deps.Deps) http.HandlerFunc {
	return updateSession(d, staticUpdate(func(v *listing.View) error {
		v.Previous()
		return nil
	}))
}

// NextSelection moves the detail view one record forward.
func NextSelection(d deps.Deps) http.HandlerFunc {
	return updateSession(d, staticUpdate(func(v *listing.View) error {
		v.Next()
		return nil
	}))
}

// SetViewMode switches and persists the layout.
func SetViewMode(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, err := d.Sessions.Get(chi.URLParam(r, "id"))
		if err != nil {
			writeDomainError(w, d.Logger, err)
			return
		}
		var req viewModeRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeDomainError(w, d.Logger, err)
			return
		}
		mode, err := prefs.ParseViewMode(req.Mode)
		if err != nil {
			writeDomainError(w, d.Logger, err)
			return
		}
		snap, err := s.SetViewMode(r.Context(), mode)
		if err != nil {
			writeDomainError(w, d.Logger, err)
			return
		}
		writeJSON(w, d.Logger, http.StatusOK, snap)
	}
}

// Bookmarks lists the bookmarked competitions of a session in insertion
// order. IDs no longer present in the catalog are reported as missing.
func Bookmarks(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, err := d.Sessions.Get(chi.URLParam(r, "id"))
		if err != nil {
			writeDomainError(w, d.Logger, err)
			return
		}

		ids := s.Bookmarks()
		resp := bookmarksResponse{IDs: ids, Competitions: make([]*domain.Competition, 0, len(ids))}
		for _, id := range ids {
			if c, ok := d.Index.Get(id); ok {
				resp.Competitions = append(resp.Competitions, c)
				continue
			}
			resp.Missing = append(resp.Missing, id)
		}
		writeJSON(w, d.Logger, http.StatusOK, resp)
	}
}

// ToggleBookmark flips the bookmark of a competition. Unknown competitions can
// only be removed, so a bookmark outliving a catalog reload can still be cleared.
func ToggleBookmark(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, err := d.Sessions.Get(chi.URLParam(r, "id"))
		if err != nil {
			writeDomainError(w, d.Logger, err)
			return
		}

		id := chi.URLParam(r, "competitionID")
		if _, ok := d.Index.Get(id); !ok && !s.IsBookmarked(id) {
			writeError(w, d.Logger, http.StatusNotFound, fmt.Sprintf("competition %q not found", id))
			return
		}

		added := s.ToggleBookmark(r.Context(), id)
		writeJSON(w, d.Logger, http.StatusOK, bookmarkToggleResponse{
			ID:         id,
			Bookmarked: added,
			Count:      len(s.Bookmarks()),
		})
	}
}

// updateFunc decodes a request into a list engine mutation.
type updateFunc func(r *http.Request, w http.ResponseWriter) (func(*listing.View) error, error)

func staticUpdate(fn func(*listing.View) error) updateFunc {
	return func(*http.Request, http.ResponseWriter) (func(*listing.View) error, error) {
		return fn, nil
	}
}

// updateSession resolves the live session, applies the mutation under the
// session lock and renders the resulting snapshot.
func updateSession(d deps.Deps, decode updateFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, err := d.Sessions.Get(chi.URLParam(r, "id"))
		if err != nil {
			writeDomainError(w, d.Logger, err)
			return
		}
		fn, err := decode(r, w)
		if err != nil {
			writeDomainError(w, d.Logger, err)
			return
		}
		snap, err := s.Update(fn)
		if err != nil {
			writeDomainError(w, d.Logger, err)
			return
		}
		writeJSON(w, d.Logger, http.StatusOK, snap)
	}
}
