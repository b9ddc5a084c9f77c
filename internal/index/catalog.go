package index

import (
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/MrSnakeDoc/lombahub/internal/domain"
)

// CatalogIndex holds the current catalog snapshot in catalog order.
// Snapshots are never modified in place: Update swaps in a new slice and
// bumps the version, so readers may keep the slice they got.
type CatalogIndex struct {
	mu         sync.RWMutex
	list       []*domain.Competition
	byID       map[string]*domain.Competition
	version    uint64
	lastReload time.Time
}

// CategoryCount is the number of competitions in one category.
type CategoryCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// NewCatalogIndex creates an empty index at version 0.
func NewCatalogIndex() *CatalogIndex {
	return &CatalogIndex{
		list: []*domain.Competition{},
		byID: make(map[string]*domain.Competition),
	}
}

// Update replaces the catalog. Records with an ID already seen are dropped,
// the first one wins. The version only moves when the ordered content
// differs from the current snapshot.
func (idx *CatalogIndex) Update(list []*domain.Competition) {
	byID := make(map[string]*domain.Competition, len(list))
	ordered := make([]*domain.Competition, 0, len(list))
	for _, c := range list {
		if c == nil {
			continue
		}
		if _, dup := byID[c.ID]; dup {
			continue
		}
		byID[c.ID] = c
		ordered = append(ordered, c)
	}

	idx.mu.Lock()
	defer idx.mu.Unlock()

	idx.lastReload = time.Now()
	if sameCatalog(idx.list, ordered) {
		return
	}
	idx.list = ordered
	idx.byID = byID
	idx.version++
}

func sameCatalog(a, b []*domain.Competition) bool {
	return slices.EqualFunc(a, b, func(x, y *domain.Competition) bool {
		return x.Equal(y)
	})
}

// Snapshot returns the ordered catalog and its version.
// The returned slice must be treated as read-only.
func (idx *CatalogIndex) Snapshot() ([]*domain.Competition, uint64) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	return idx.list, idx.version
}

// Get retrieves a competition by ID
func (idx *CatalogIndex) Get(id string) (*domain.Competition, bool) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	c, ok := idx.byID[id]
	return c, ok
}

// Count returns the number of competitions
func (idx *CatalogIndex) Count() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	return len(idx.list)
}

// Version returns the number of updates applied so far
func (idx *CatalogIndex) Version() uint64 {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	return idx.version
}

// LastReload returns when the catalog was last replaced
func (idx *CatalogIndex) LastReload() time.Time {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	return idx.lastReload
}

// ─────────────────────────────────────────────────────────────────
// Browse helpers
// ─────────────────────────────────────────────────────────────────

// CategoryStats counts competitions per category, in the fixed category order.
// Categories without competitions are listed with a zero count.
func (idx *CatalogIndex) CategoryStats() []CategoryCount {
	list, _ := idx.Snapshot()

	counts := make(map[string]int, len(domain.Categories))
	for _, c := range list {
		counts[c.Category]++
	}

	out := make([]CategoryCount, 0, len(domain.Categories))
	for _, name := range domain.Categories {
		out = append(out, CategoryCount{Name: name, Count: counts[name]})
	}
	return out
}

// ByCategory returns the competitions of a category (case-insensitive) in
// deadline order. A non-empty tag keeps only records carrying it.
func (idx *CatalogIndex) ByCategory(category, tag string) []*domain.Competition {
	list, _ := idx.Snapshot()

	out := make([]*domain.Competition, 0)
	for _, c := range list {
		if !strings.EqualFold(c.Category, category) {
			continue
		}
		if tag != "" && !c.HasTag(tag) {
			continue
		}
		out = append(out, c)
	}
	domain.Sort(out, domain.SortDeadline)
	return out
}

// TagsForCategory returns the distinct tags used in a category, sorted.
func (idx *CatalogIndex) TagsForCategory(category string) []string {
	list, _ := idx.Snapshot()

	seen := make(map[string]struct{})
	tags := make([]string, 0)
	for _, c := range list {
		if !strings.EqualFold(c.Category, category) {
			continue
		}
		for _, t := range c.Tags {
			if _, ok := seen[t]; ok {
				continue
			}
			seen[t] = struct{}{}
			tags = append(tags, t)
		}
	}
	slices.Sort(tags)
	return tags
}

// ByInstitution returns the competitions hosted by an institution
// (case-insensitive) in deadline order.
func (idx *CatalogIndex) ByInstitution(name string) []*domain.Competition {
	list, _ := idx.Snapshot()

	out := make([]*domain.Competition, 0)
	for _, c := range list {
		if c.HasInstitution(name) {
			out = append(out, c)
		}
	}
	domain.Sort(out, domain.SortDeadline)
	return out
}
