package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func baseEnv() map[string]string {
	return map[string]string{
		"DATABASE_URL":             "postgres://localhost/turismo",
		"REDIS_URL":                "redis://localhost:6379/0",
		"JWT_SECRET":               "secret",
		"PRICING_TAX_RATE":         "",
		"REVIEW_BLOCKLIST":         "",
		"REVIEW_TX_MAX_RETRIES":    "",
		"RATE_LIMIT_BACKEND":       "",
		"CATALOG_CACHE_TTL":        "",
		"MIGRATE_ON_START":         "",
		"OBS_ENABLE_PROMETHEUS":    "",
		"REVIEW_RATE_LIMIT_WINDOW": "",
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := LoadForTests(baseEnv())
	require.NoError(t, err)

	require.Equal(t, "0.12", cfg.TaxRate.String())
	require.Equal(t, 3, cfg.ReviewTxMaxRetries)
	require.Equal(t, DefaultReviewBlocklist, cfg.ReviewBlocklist)
	require.Equal(t, RateLimitSliding, cfg.RateLimitBackend)
	require.Equal(t, 5*time.Minute, cfg.CatalogCacheTTL)
	require.Equal(t, time.Minute, cfg.ReviewRateLimitWindow)
	require.False(t, cfg.MigrateOnStart)
	require.True(t, cfg.Obs.MetricsEnabled)
	require.Equal(t, ":8080", cfg.HTTPAddr())
}

func TestLoadOverrides(t *testing.T) {
	env := baseEnv()
	env["PRICING_TAX_RATE"] = "0.15"
	env["REVIEW_BLOCKLIST"] = "feo, malo"
	env["REVIEW_TX_MAX_RETRIES"] = "5"
	env["RATE_LIMIT_BACKEND"] = "fixed"
	env["CATALOG_CACHE_TTL"] = "30s"
	env["MIGRATE_ON_START"] = "true"
	env["OBS_ENABLE_PROMETHEUS"] = "false"

	cfg, err := LoadForTests(env)
	require.NoError(t, err)
	require.Equal(t, "0.15", cfg.TaxRate.String())
	require.Equal(t, []string{"feo", "malo"}, cfg.ReviewBlocklist)
	require.Equal(t, 5, cfg.ReviewTxMaxRetries)
	require.Equal(t, RateLimitFixed, cfg.RateLimitBackend)
	require.Equal(t, 30*time.Second, cfg.CatalogCacheTTL)
	require.True(t, cfg.MigrateOnStart)
	require.False(t, cfg.Obs.MetricsEnabled)
}

func TestLoadKeepsZeroTaxRate(t *testing.T) {
	env := baseEnv()
	env["PRICING_TAX_RATE"] = "0"
	cfg, err := LoadForTests(env)
	require.NoError(t, err)
	require.True(t, cfg.TaxRate.IsZero())
}

func TestLoadRejectsInvalidTaxRate(t *testing.T) {
	env := baseEnv()
	env["PRICING_TAX_RATE"] = "doce"
	_, err := LoadForTests(env)
	require.Error(t, err)

	env["PRICING_TAX_RATE"] = "-0.12"
	_, err = LoadForTests(env)
	require.Error(t, err)
}

func TestLoadRejectsUnknownRateLimitBackend(t *testing.T) {
	env := baseEnv()
	env["RATE_LIMIT_BACKEND"] = "memcached"
	_, err := LoadForTests(env)
	require.Error(t, err)
}

func TestLoadRequiresDatabaseURL(t *testing.T) {
	env := baseEnv()
	env["DATABASE_URL"] = ""
	_, err := LoadForTests(env)
	require.Error(t, err)
}
