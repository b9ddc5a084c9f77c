package version

import (
	"fmt"
	"runtime"
	"time"
)

// Overridden at build time with -ldflags "-X github.com/MrSnakeDoc/lombahub/internal/version.Version=..."
var (
	Version   = "dev"                           // ex: v0.3.0
	Commit    = "none"                          // ex: 9f1c2ab
	BuildDate = time.Now().Format(time.RFC3339) // ex: 2025-11-02T09:12:00Z
	GoVersion = runtime.Version()
)

// String renders the build metadata on a single line.
func String() string {
	return fmt.Sprintf("%s (commit=%s, built=%s, go=%s)", Version, Commit, BuildDate, GoVersion)
}
