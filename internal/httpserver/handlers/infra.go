package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/MrSnakeDoc/lombahub/internal/httpserver/deps"
	"github.com/MrSnakeDoc/lombahub/internal/kv"
)

const (
	infraPingTimeout = 2 * time.Second
	storageMemory    = "memory"
)

type componentStatus struct {
	OK                bool    `json:"ok"`
	CompetitionsCount *int    `json:"competitions_loaded,omitempty"`
	CatalogVersion    *uint64 `json:"catalog_version,omitempty"`
	LastReload        string  `json:"last_reload,omitempty"`
	Backend           string  `json:"backend,omitempty"`
	Persisted         *int    `json:"persisted_bookmark_sets,omitempty"`
	Live              *int    `json:"live,omitempty"`
	Mode              string  `json:"mode,omitempty"`
	Impact            string  `json:"impact,omitempty"`
	Error             string  `json:"error,omitempty"`
}

type infraResponse struct {
	ServiceMode string                     `json:"service_mode"`
	Components  map[string]componentStatus `json:"components"`
}

// Infra reports the state of the catalog, the preference storage and the catalog cache.
func Infra(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), infraPingTimeout)
		defer cancel()

		count := d.Index.Count()
		version := d.Index.Version()
		lastReload := d.Index.LastReload()
		lastReloadStr := "never"
		if !lastReload.IsZero() {
			lastReloadStr = lastReload.Format("2006-01-02 15:04:05")
		}
		live := d.Sessions.Count()

		components := map[string]componentStatus{
			"catalog": {
				OK:                count > 0,
				CompetitionsCount: &count,
				CatalogVersion:    &version,
				LastReload:        lastReloadStr,
			},
			"storage":       checkStorage(ctx, d),
			"catalog_cache": checkCatalogCache(ctx, d),
			"sessions": {
				OK:   true,
				Live: &live,
			},
		}

		writeJSON(w, d.Logger, http.StatusOK, infraResponse{
			ServiceMode: determineServiceMode(components),
			Components:  components,
		})
	}
}

func determineServiceMode(components map[string]componentStatus) string {
	if catalog, exists := components["catalog"]; exists && !catalog.OK {
		return "critical" // nothing to list
	}
	if storage, exists := components["storage"]; exists && !storage.OK {
		return "degraded" // preferences fall back to memory-only
	}
	return "optimal"
}

func checkStorage(ctx context.Context, d deps.Deps) componentStatus {
	status := componentStatus{OK: true, Backend: d.Storage, Mode: "persistent"}
	if d.Store == nil || d.Storage == storageMemory {
		status.Backend = storageMemory
		status.Mode = "ephemeral"
		status.Impact = "preferences-lost-on-restart"
	}
	if d.Store == nil {
		return status
	}

	if p, ok := d.Store.(deps.Pinger); ok {
		if err := p.Ping(ctx); err != nil {
			return componentStatus{
				OK:      false,
				Backend: d.Storage,
				Mode:    "degraded",
				Impact:  "preferences-memory-only",
				Error:   err.Error(),
			}
		}
	}
	if c, ok := d.Store.(kv.Counter); ok {
		if n, err := c.CountKeys(ctx, kv.KeyPrefixBookmarks); err == nil {
			status.Persisted = &n
		}
	}
	return status
}

func checkCatalogCache(ctx context.Context, d deps.Deps) componentStatus {
	if d.CatalogCache == nil {
		return componentStatus{
			OK:     true,
			Mode:   "disabled",
			Impact: "cold-start-from-file",
		}
	}
	if err := d.CatalogCache.Ping(ctx); err != nil {
		return componentStatus{
			OK:     false,
			Mode:   "degraded",
			Impact: "cold-start-from-file",
			Error:  "timeout",
		}
	}
	return componentStatus{OK: true, Mode: "optimal"}
}
