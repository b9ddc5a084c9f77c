package config

import (
	"testing"
	"time"
)

func TestRequireEnv(t *testing.T) {
	tests := []struct {
		name      string
		key       string
		value     string
		wantPanic bool
	}{
		{
			name:  "variable set",
			key:   "LOMBAHUB_TEST_VAR",
			value: "test_value",
		},
		{
			name:      "variable not set",
			key:       "LOMBAHUB_TEST_VAR_MISSING",
			wantPanic: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)

			if tt.wantPanic {
				defer func() {
					if r := recover(); r == nil {
						t.Errorf("requireEnv() should have panicked")
					}
				}()
			}

			result := requireEnv(tt.key)
			if !tt.wantPanic && result != tt.value {
				t.Errorf("requireEnv() = %v, want %v", result, tt.value)
			}
		})
	}
}

func TestGetenvInt(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		def      int
		expected int
	}{
		{name: "valid integer", value: "42", def: 1, expected: 42},
		{name: "invalid integer uses default", value: "lots", def: 7, expected: 7},
		{name: "missing variable uses default", value: "", def: 3, expected: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("LOMBAHUB_TEST_INT", tt.value)
			if got := getenvInt("LOMBAHUB_TEST_INT", tt.def); got != tt.expected {
				t.Errorf("getenvInt() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestSplitAndTrim(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		expected []string
	}{
		{name: "empty", value: "", expected: nil},
		{name: "single value", value: "lomba.id", expected: []string{"lomba.id"}},
		{name: "spaces and quotes", value: ` "10.0.0.0/8", '127.0.0.1' ,`, expected: []string{"10.0.0.0/8", "127.0.0.1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := splitAndTrim(tt.value)
			if len(got) != len(tt.expected) {
				t.Fatalf("splitAndTrim() = %v, want %v", got, tt.expected)
			}
			for i := range got {
				if got[i] != tt.expected[i] {
					t.Errorf("splitAndTrim()[%d] = %q, want %q", i, got[i], tt.expected[i])
				}
			}
		})
	}
}

func TestMustDuration(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		def      time.Duration
		expected time.Duration
	}{
		{name: "valid duration", value: "5s", def: time.Second, expected: 5 * time.Second},
		{name: "invalid duration uses default", value: "invalid", def: 10 * time.Second, expected: 10 * time.Second},
		{name: "missing variable uses default", value: "", def: 15 * time.Second, expected: 15 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("LOMBAHUB_TEST_DURATION", tt.value)
			if got := mustDuration("LOMBAHUB_TEST_DURATION", tt.def); got != tt.expected {
				t.Errorf("mustDuration() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestMustBool(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		def      bool
		expected bool
	}{
		{name: "true value", value: "true", def: false, expected: true},
		{name: "false value", value: "false", def: true, expected: false},
		{name: "invalid value uses default", value: "invalid", def: true, expected: true},
		{name: "missing variable uses default", value: "", def: false, expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("LOMBAHUB_TEST_BOOL", tt.value)
			if got := mustBool("LOMBAHUB_TEST_BOOL", tt.def); got != tt.expected {
				t.Errorf("mustBool() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("LOMBAHUB_STORAGE", "")
	t.Setenv("LOMBAHUB_REDIS_ADDR", "")
	t.Setenv("LOMBAHUB_LISTEN_PORT", "")

	cfg := Load()
	if cfg.Storage != StorageSQLite {
		t.Errorf("Storage = %q, want %q", cfg.Storage, StorageSQLite)
	}
	if cfg.ListenPort != ":8080" {
		t.Errorf("ListenPort = %q, want :8080", cfg.ListenPort)
	}
	if cfg.SessionIdleTTL != 30*time.Minute {
		t.Errorf("SessionIdleTTL = %v, want 30m", cfg.SessionIdleTTL)
	}
	if cfg.UsesRedis() {
		t.Error("UsesRedis() = true without LOMBAHUB_REDIS_ADDR")
	}
}

func TestLoadStorage(t *testing.T) {
	tests := []struct {
		name      string
		storage   string
		redisAddr string
		want      string
		wantPanic bool
	}{
		{name: "memory", storage: "memory", want: StorageMemory},
		{name: "case insensitive", storage: "SQLite", want: StorageSQLite},
		{name: "redis with address", storage: "redis", redisAddr: "localhost:6379", want: StorageRedis},
		{name: "redis without address", storage: "redis", wantPanic: true},
		{name: "unknown backend", storage: "postgres", wantPanic: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("LOMBAHUB_STORAGE", tt.storage)
			t.Setenv("LOMBAHUB_REDIS_ADDR", tt.redisAddr)

			if tt.wantPanic {
				defer func() {
					if r := recover(); r == nil {
						t.Errorf("Load() should have panicked")
					}
				}()
			}

			cfg := Load()
			if !tt.wantPanic && cfg.Storage != tt.want {
				t.Errorf("Storage = %q, want %q", cfg.Storage, tt.want)
			}
		})
	}
}
