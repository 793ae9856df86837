package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	chdir(t, t.TempDir()) // no .env here
	for _, k := range []string{"HTTP_ADDR", "CART_STORAGE", "CART_TTL", "OTEL_ENABLED", "CART_OPEN_SESSIONS"} {
		t.Setenv(k, "")
	}

	cfg := Load()
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "memory", cfg.CartStorage)
	assert.Equal(t, 30*24*time.Hour, cfg.CartTTL)
	assert.Equal(t, 4096, cfg.OpenSessions)
	assert.False(t, cfg.OTelEnabled)
}

func TestLoad_Overrides(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("HTTP_ADDR", ":9999")
	t.Setenv("CART_STORAGE", "redis")
	t.Setenv("CART_TTL", "2h")
	t.Setenv("OTEL_ENABLED", "true")
	t.Setenv("CART_OPEN_SESSIONS", "12")
	t.Setenv("SHUTDOWN_TIMEOUT", "not-a-duration")

	cfg := Load()
	assert.Equal(t, ":9999", cfg.HTTPAddr)
	assert.Equal(t, "redis", cfg.CartStorage)
	assert.Equal(t, 2*time.Hour, cfg.CartTTL)
	assert.True(t, cfg.OTelEnabled)
	assert.Equal(t, 12, cfg.OpenSessions)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
}

// chdir switches into dir for the duration of the test (testing.T.Chdir needs Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })
}
