package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "lombahub"

var (
	ListQueries = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "list_queries_total",
		Help:      "List state changes by kind (search, filters, sort, reset, stateless)",
	}, []string{"kind"})

	BookmarkToggles = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "bookmark_toggles_total",
		Help:      "Bookmark toggles by resulting action",
	}, []string{"action"})

	ActiveSessions = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "active_sessions",
		Help:      "Live list sessions held in memory",
	})

	CatalogSize = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "catalog_competitions",
		Help:      "Competitions in the current catalog snapshot",
	})

	CatalogStale = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "catalog_stale_competitions",
		Help:      "Competitions whose static status is not closed although the deadline passed",
	})

	CatalogReloads = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "catalog_reloads_total",
		Help:      "Catalog reload attempts by status",
	}, []string{"status"})

	Submissions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "submissions_total",
		Help:      "Submitted competitions by validation result",
	}, []string{"result"})

	HTTPRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency by route pattern and status class",
		Buckets:   prometheus.DefBuckets,
	}, []string{"route", "status"})
)

// MustRegister registers every collector of the service.
func MustRegister(registerer prometheus.Registerer) {
	registerer.MustRegister(
		ListQueries,
		BookmarkToggles,
		ActiveSessions,
		CatalogSize,
		CatalogStale,
		CatalogReloads,
		Submissions,
		HTTPRequestDuration,
	)
}

// Handler serves the default gatherer in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.Handler()
}

// IncQuery counts one list state change.
func IncQuery(kind string) {
	ListQueries.WithLabelValues(kind).Inc()
}

// IncBookmark counts one toggle; added reports the resulting state.
func IncBookmark(added bool) {
	action := "removed"
	if added {
		action = "added"
	}
	BookmarkToggles.WithLabelValues(action).Inc()
}

// ObserveReload records the outcome of a catalog reload.
func ObserveReload(size, stale int, err error) {
	if err != nil {
		CatalogReloads.WithLabelValues("error").Inc()
		return
	}
	CatalogReloads.WithLabelValues("success").Inc()
	CatalogSize.Set(float64(size))
	CatalogStale.Set(float64(stale))
}

// ObserveRequest records the latency of one HTTP request.
func ObserveRequest(route string, status int, start time.Time) {
	if route == "" {
		route = "unmatched"
	}
	HTTPRequestDuration.WithLabelValues(route, statusClass(status)).Observe(time.Since(start).Seconds())
}

func statusClass(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}
