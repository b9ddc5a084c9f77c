package deps

import (
	"context"
	"time"

	"github.com/MrSnakeDoc/lombahub/internal/index"
	"github.com/MrSnakeDoc/lombahub/internal/kv"
	"github.com/MrSnakeDoc/lombahub/internal/logger"
	"github.com/MrSnakeDoc/lombahub/internal/session"
)

// Pinger is implemented by network or file backed components that can report liveness.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Deps struct {
	Logger       logger.Logger
	StartTime    time.Time
	Version      string
	Commit       string
	BuildDate    string
	GoVersion    string
	TimeNow      func() time.Time // for testing, defaults to time.Now
	AllowedHosts []string         // Host headers allowed on operator routes
	AllowedCIDRS []string         // IPs allowed on operator routes (infra, reload, metrics)
	TrustProxy   bool             // true if running behind a trusted reverse proxy (e.g., cloudflared)
	CORSOrigins  []string         // browser origins allowed to call /api
	SubmitBurst  int              // submission rate limit burst per client IP
	SubmitPerMin int              // submission rate limit refill per client IP and minute

	CatalogFile   string              // Path to the catalog file
	Index         *index.CatalogIndex // Current catalog snapshot
	Sessions      *session.Manager    // Live list sessions
	Storage       string              // Preference backend name (memory, sqlite, redis)
	Store         kv.Store            // Preference backend, nil means memory-only
	CatalogCache  Pinger              // Redis catalog cache (nil if not configured)
	ReloadTrigger chan struct{}       // Channel to trigger manual catalog reload
}

// Now returns the current time through TimeNow when set.
func (d Deps) Now() time.Time {
	if d.TimeNow != nil {
		return d.TimeNow()
	}
	return time.Now()
}
