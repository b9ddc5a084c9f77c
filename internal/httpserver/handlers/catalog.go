package handlers

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/lombahub/internal/domain"
	"github.com/MrSnakeDoc/lombahub/internal/httpserver/deps"
	"github.com/MrSnakeDoc/lombahub/internal/index"
	"github.com/MrSnakeDoc/lombahub/internal/listing"
	"github.com/MrSnakeDoc/lombahub/internal/metrics"
)

const maxLimit = 100

type metaResponse struct {
	Language           string                     `json:"language"`
	Categories         []string                   `json:"categories"`
	Levels             []domain.Level             `json:"levels"`
	Formats            []domain.Format            `json:"formats"`
	ParticipationTypes []domain.ParticipationType `json:"participation_types"`
	Statuses           []domain.Status            `json:"statuses"`
	SortOptions        []domain.SortOption        `json:"sort_options"`
	PageSize           int                        `json:"page_size"`
	Labels             domain.Labels              `json:"labels"`
}

type listResponse struct {
	Total        int                   `json:"total"`
	Offset       int                   `json:"offset"`
	Limit        int                   `json:"limit"`
	Competitions []*domain.Competition `json:"competitions"`
}

type categoryResponse struct {
	Category     string                `json:"category"`
	Tag          string                `json:"tag,omitempty"`
	Total        int                   `json:"total"`
	Competitions []*domain.Competition `json:"competitions"`
}

// Meta lists the enumerations and their display labels (?lang=id|en).
func Meta(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		labels, lang := domain.LabelsFor(r.URL.Query().Get("lang"))
		writeJSON(w, d.Logger, http.StatusOK, metaResponse{
			Language:           lang,
			Categories:         domain.Categories,
			Levels:             domain.Levels,
			Formats:            domain.Formats,
			ParticipationTypes: domain.ParticipationTypes,
			Statuses:           domain.Statuses,
			SortOptions:        []domain.SortOption{domain.SortDeadline, domain.SortName},
			PageSize:           listing.PageSize,
			Labels:             labels,
		})
	}
}

// Competitions runs a one-shot query over the catalog without a session.
func Competitions(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()

		filters, err := filtersFromQuery(q)
		if err != nil {
			writeDomainError(w, d.Logger, err)
			return
		}
		sortBy, err := domain.ParseSortOption(q.Get("sort"))
		if err != nil {
			writeDomainError(w, d.Logger, err)
			return
		}
		limit, err := intParam(q, "limit", listing.PageSize, 1, maxLimit)
		if err != nil {
			writeError(w, d.Logger, http.StatusBadRequest, err.Error())
			return
		}
		offset, err := intParam(q, "offset", 0, 0, -1)
		if err != nil {
			writeError(w, d.Logger, http.StatusBadRequest, err.Error())
			return
		}

		catalog, _ := d.Index.Snapshot()
		results := domain.Compute(catalog, q.Get("q"), filters, sortBy)
		metrics.IncQuery("stateless")

		page := []*domain.Competition{}
		if offset < len(results) {
			page = results[offset:min(offset+limit, len(results))]
		}
		writeJSON(w, d.Logger, http.StatusOK, listResponse{
			Total:        len(results),
			Offset:       offset,
			Limit:        limit,
			Competitions: page,
		})
	}
}

// Competition returns one record by ID.
func Competition(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		c, ok := d.Index.Get(id)
		if !ok {
			writeError(w, d.Logger, http.StatusNotFound, fmt.Sprintf("competition %q not found", id))
			return
		}
		writeJSON(w, d.Logger, http.StatusOK, c)
	}
}

// Categories returns the competition count of every category.
func Categories(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, d.Logger, http.StatusOK, struct {
			Categories []index.CategoryCount `json:"categories"`
		}{Categories: d.Index.CategoryStats()})
	}
}

// CategoryCompetitions serves a category page in deadline order, optionally narrowed by ?tag=.
func CategoryCompetitions(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := chi.URLParam(r, "name")
		if !knownCategory(name) {
			writeError(w, d.Logger, http.StatusNotFound, fmt.Sprintf("category %q not found", name))
			return
		}
		tag := strings.TrimSpace(r.URL.Query().Get("tag"))
		list := d.Index.ByCategory(name, tag)
		writeJSON(w, d.Logger, http.StatusOK, categoryResponse{
			Category:     canonicalCategory(name),
			Tag:          tag,
			Total:        len(list),
			Competitions: list,
		})
	}
}

// CategoryTags lists the distinct tags used within a category.
func CategoryTags(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := chi.URLParam(r, "name")
		if !knownCategory(name) {
			writeError(w, d.Logger, http.StatusNotFound, fmt.Sprintf("category %q not found", name))
			return
		}
		writeJSON(w, d.Logger, http.StatusOK, struct {
			Category string   `json:"category"`
			Tags     []string `json:"tags"`
		}{Category: canonicalCategory(name), Tags: d.Index.TagsForCategory(name)})
	}
}

// InstitutionCompetitions serves an institution page in deadline order.
func InstitutionCompetitions(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := chi.URLParam(r, "name")
		list := d.Index.ByInstitution(name)
		writeJSON(w, d.Logger, http.StatusOK, struct {
			Institution  string                `json:"institution"`
			Total        int                   `json:"total"`
			Competitions []*domain.Competition `json:"competitions"`
		}{Institution: name, Total: len(list), Competitions: list})
	}
}

// filtersFromQuery reads category and level (repeatable or comma separated),
// format, participation and status.
func filtersFromQuery(q url.Values) (domain.FilterState, error) {
	f := domain.DefaultFilters()
	f.Categories = multiParam(q, "category")
	for _, l := range multiParam(q, "level") {
		f.Levels = append(f.Levels, domain.Level(strings.ToLower(l)))
	}
	f.Format = domain.Format(strings.ToLower(q.Get("format")))
	f.ParticipationType = domain.ParticipationType(strings.ToLower(q.Get("participation")))
	f.Status = domain.Status(strings.ToLower(q.Get("status")))

	f = f.Normalize()
	if err := f.Validate(); err != nil {
		return domain.FilterState{}, err
	}
	return f, nil
}

func multiParam(q url.Values, key string) []string {
	var out []string
	for _, raw := range q[key] {
		for _, part := range strings.Split(raw, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// intParam parses an integer query parameter; maxVal < 0 disables the upper bound.
func intParam(q url.Values, key string, def, minVal, maxVal int) (int, error) {
	raw := q.Get(key)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < minVal || (maxVal >= 0 && n > maxVal) {
		if maxVal >= 0 {
			return 0, fmt.Errorf("%s must be an integer between %d and %d", key, minVal, maxVal)
		}
		return 0, fmt.Errorf("%s must be an integer >= %d", key, minVal)
	}
	return n, nil
}

func knownCategory(name string) bool {
	return canonicalCategory(name) != ""
}

func canonicalCategory(name string) string {
	for _, c := range domain.Categories {
		if strings.EqualFold(c, name) {
			return c
		}
	}
	return ""
}
