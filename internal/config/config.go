package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Storage backends for session preferences.
const (
	StorageMemory = "memory"
	StorageSQLite = "sqlite"
	StorageRedis  = "redis"
)

type Config struct {
	ListenPort      string        // ex: ":8080"
	ShutdownTimeout time.Duration // ex: 5s

	LogLevel  string // "debug" | "info" | "warn" | "error"
	PrettyLog bool   // true => zap dev (color), false => zap prod (JSON)

	CatalogFile    string        // path to catalog.yaml
	ReloadInterval time.Duration // interval to reload the catalog file (default: 1h)

	Storage        string        // "memory" | "sqlite" | "redis"
	SQLiteDir      string        // directory of lombahub.db when Storage=sqlite
	SessionIdleTTL time.Duration // idle time before a session leaves memory
	SweepInterval  time.Duration // interval of the idle session sweep

	// Redis (preferences when Storage=redis, catalog cache whenever RedisAddr is set)
	RedisAddr           string        // ex: "localhost:6379"
	RedisUser           string        // optional
	RedisPassword       string        // optional
	RedisDB             int           // Redis DB number
	RedisDT             time.Duration // Redis dial timeout (ex: 5s)
	RedisRT             time.Duration // Redis read timeout (ex: 3s)
	RedisWT             time.Duration // Redis write timeout (ex: 3s)
	RedisMaxWait        time.Duration // max wait between retries (ex: 10s)
	RedisPingTimeout    time.Duration // timeout for each ping attempt (ex: 5s)
	RedisPoolSize       int           // Redis connection pool size
	RedisConnectTimeout time.Duration // Total time to retry connecting (ex: 30s)
	RedisRetryInterval  time.Duration // Initial wait between retries (ex: 2s, grows exponentially)
	RedisWarnThreshold  int           // warn after this many attempts

	AllowedHosts []string // optional, Host headers accepted on operator routes
	AllowedCIDRS []string // optional, client IPs/CIDRs accepted on operator routes
	TrustProxy   bool     // true => trust X-Forwarded-For headers (e.g. cloudflared)
	CORSOrigins  []string // origins allowed to call the API from a browser ("*" = any)

	SubmitBurst  int // submissions accepted in a burst per client IP
	SubmitPerMin int // submission tokens refilled per client IP and minute
}

// Load reads the configuration from the environment. A .env file in the
// working directory is applied first when present; real environment
// variables take precedence over it.
func Load() *Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		panic(fmt.Sprintf("❌ FATAL: Failed to read .env file: %v", err))
	}

	cfg := &Config{
		// Server settings
		ListenPort:      getenv("LOMBAHUB_LISTEN_PORT", ":8080"),
		ShutdownTimeout: mustDuration("LOMBAHUB_SHUTDOWN_TIMEOUT", 5*time.Second),

		// Logging
		LogLevel:  getenv("LOMBAHUB_LOG_LEVEL", "info"),
		PrettyLog: mustBool("LOMBAHUB_PRETTY_LOG", false),

		// Catalog
		CatalogFile:    getenv("LOMBAHUB_CATALOG_FILE", "/app/catalog.yaml"),
		ReloadInterval: mustDuration("LOMBAHUB_RELOAD_INTERVAL", time.Hour),

		// Sessions
		Storage:        strings.ToLower(getenv("LOMBAHUB_STORAGE", StorageSQLite)),
		SQLiteDir:      getenv("LOMBAHUB_SQLITE_DIR", "./data"),
		SessionIdleTTL: mustDuration("LOMBAHUB_SESSION_IDLE_TTL", 30*time.Minute),
		SweepInterval:  mustDuration("LOMBAHUB_SWEEP_INTERVAL", 5*time.Minute),

		// Redis settings
		RedisAddr:           getenv("LOMBAHUB_REDIS_ADDR", ""),
		RedisUser:           getenv("LOMBAHUB_REDIS_USERNAME", ""),
		RedisPassword:       getenv("LOMBAHUB_REDIS_PASSWORD", ""),
		RedisDB:             getenvInt("LOMBAHUB_REDIS_DB", 0),
		RedisDT:             mustDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
		RedisRT:             mustDuration("REDIS_READ_TIMEOUT", 3*time.Second),
		RedisWT:             mustDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		RedisMaxWait:        mustDuration("REDIS_MAX_WAIT", 10*time.Second),
		RedisPingTimeout:    mustDuration("REDIS_PING_TIMEOUT", 5*time.Second),
		RedisPoolSize:       getenvInt("REDIS_POOL_SIZE", 10),
		RedisConnectTimeout: mustDuration("REDIS_CONNECT_TIMEOUT", 30*time.Second),
		RedisRetryInterval:  mustDuration("REDIS_RETRY_INTERVAL", 2*time.Second),
		RedisWarnThreshold:  getenvInt("REDIS_WARN_THRESHOLD", 3),

		// Access restrictions
		AllowedHosts: splitAndTrim(getenv("LOMBAHUB_ALLOWED_HOSTS", "")),
		AllowedCIDRS: splitAndTrim(getenv("LOMBAHUB_ALLOWED_CIDRS", "")),
		TrustProxy:   mustBool("LOMBAHUB_TRUST_PROXY", false),
		CORSOrigins:  splitAndTrim(getenv("LOMBAHUB_CORS_ORIGINS", "")),

		// Submission form throttling
		SubmitBurst:  getenvInt("LOMBAHUB_SUBMIT_BURST", 5),
		SubmitPerMin: getenvInt("LOMBAHUB_SUBMIT_PER_MIN", 2),
	}

	switch cfg.Storage {
	case StorageMemory, StorageSQLite:
	case StorageRedis:
		cfg.RedisAddr = requireEnv("LOMBAHUB_REDIS_ADDR")
	default:
		panic(fmt.Sprintf("❌ FATAL: Invalid LOMBAHUB_STORAGE %q (want memory, sqlite or redis)", cfg.Storage))
	}

	// Log config only in debug mode with redacted sensitive fields
	if cfg.LogLevel == "debug" {
		cfgCopy := *cfg
		cfgCopy.RedisPassword = "***REDACTED***"
		if cfg.RedisUser != "" {
			cfgCopy.RedisUser = "***REDACTED***"
		}
		log.Printf("[DEBUG] cfg: %+v\n", cfgCopy)
	}

	return cfg
}

// UsesRedis reports whether a Redis connection is needed.
func (c *Config) UsesRedis() bool {
	return c.RedisAddr != ""
}

// helpers
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func requireEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		panic(fmt.Sprintf("❌ FATAL: Required environment variable %s is not set", key))
	}
	return v
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func mustBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func mustDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func splitAndTrim(s string) []string {
	if s == "" {
		return nil
	}
	raw := strings.Split(s, ",")
	parts := make([]string, 0, len(raw))
	for _, part := range raw {
		trimmed := strings.TrimSpace(part)
		// Remove surrounding quotes if present
		trimmed = strings.Trim(trimmed, `"'`)
		if trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return parts
}
