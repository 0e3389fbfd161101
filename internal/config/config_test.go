package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"ADDR", "API_BASE", "DB_DRIVER", "MAX_ANALYSIS_TIME", "CONFIDENCE_THRESHOLD", "HISTORY_MAX_ITEMS", "RATE_LIMIT_QPS"} {
		t.Setenv(k, "")
	}
	c := Load()
	assert.Equal(t, ":8080", c.Addr)
	assert.Equal(t, "/api", c.APIBase)
	assert.Equal(t, "sqlite3", c.DBDriver)
	assert.Equal(t, 30*time.Second, c.MaxAnalysisTime)
	assert.Equal(t, 70, c.ConfidenceThreshold)
	assert.Equal(t, 50, c.HistoryMaxItems)
	assert.Equal(t, 200, c.RateLimitQPS)
	assert.True(t, c.OverpassEnabled())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("API_BASE", "v1/")
	t.Setenv("MAX_ANALYSIS_TIME", "5000")
	t.Setenv("CONFIDENCE_THRESHOLD", "80")
	t.Setenv("NEARBY_RADIUS_KM", "2.5")
	t.Setenv("RATE_LIMIT_ENABLED", "true")
	t.Setenv("RATE_LIMIT_QPS", "-3")
	t.Setenv("OVERPASS_URL", "off")
	t.Setenv("REVERSE_GEO_CACHE_TTL_S", "60")
	t.Setenv("TRUSTED_PROXIES", "10.0.0.0/8,203.0.113.7")
	c := Load()
	assert.Equal(t, "/v1", c.APIBase)
	assert.Equal(t, 5*time.Second, c.MaxAnalysisTime)
	assert.Equal(t, 80, c.ConfidenceThreshold)
	assert.Equal(t, 2.5, c.NearbyRadiusKm)
	assert.True(t, c.RateLimitEnabled)
	assert.Equal(t, 200, c.RateLimitQPS)
	assert.False(t, c.OverpassEnabled())
	assert.Equal(t, time.Minute, c.ReverseGeoCacheTTL)
	assert.Equal(t, "10.0.0.0/8,203.0.113.7", c.TrustedProxies)
}

func TestGetEnvDuration(t *testing.T) {
	t.Setenv("X_DUR", "1m30s")
	assert.Equal(t, 90*time.Second, getEnvDuration("X_DUR", time.Second))
	t.Setenv("X_DUR", "garbage")
	assert.Equal(t, time.Second, getEnvDuration("X_DUR", time.Second))
	t.Setenv("X_DUR", "-5s")
	assert.Equal(t, time.Second, getEnvDuration("X_DUR", time.Second))
}

func TestNormalizeBase(t *testing.T) {
	assert.Equal(t, "/api", normalizeBase("/api/"))
	assert.Equal(t, "/api", normalizeBase("api"))
	assert.Equal(t, "", normalizeBase("/"))
}

func TestDotEnvFile(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(p, []byte("PATRIO_TEST_KEY=from-file\n"), 0o644))
	env, err := godotenv.Read(p)
	require.NoError(t, err)
	assert.Equal(t, "from-file", env["PATRIO_TEST_KEY"])
}
