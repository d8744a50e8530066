package config

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func newViper(values map[string]any) *viper.Viper {
	v := viper.New()
	v.SetDefault("DB_DRIVER", DriverSQLite)
	v.SetDefault("PORT", "8080")
	v.SetDefault("RATE_LIMIT", defaultRateLimit)
	v.SetDefault("RECENT_MOVEMENTS_LIMIT", defaultRecentMovementsLimit)
	v.SetDefault("SESSION_HISTORY_SIZE", defaultSessionHistorySize)
	v.SetDefault("RECONCILE_SCHEDULE", "@every 1h")
	for k, val := range values {
		v.Set(k, val)
	}
	return v
}

func TestFromViper_Defaults(t *testing.T) {
	cfg := fromViper(newViper(nil))

	assert.Equal(t, DriverSQLite, cfg.DBDriver)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, defaultRateLimit, cfg.RateLimit)
	assert.Equal(t, 10, cfg.RecentMovementsLimit)
	assert.Equal(t, 5, cfg.SessionHistorySize)
	assert.Equal(t, "@every 1h", cfg.ReconcileSchedule)
	assert.Equal(t, defaultJWTSecret, cfg.JWTSecret)
	assert.Empty(t, cfg.CORSAllowedOrigins)
}

func TestFromViper_InvalidValuesFallBack(t *testing.T) {
	cfg := fromViper(newViper(map[string]any{
		"DB_DRIVER":              "oracle",
		"RATE_LIMIT":             "lots",
		"RECENT_MOVEMENTS_LIMIT": -3,
		"SESSION_HISTORY_SIZE":   0,
		"RECONCILE_SCHEDULE":     "whenever",
	}))

	assert.Equal(t, DriverSQLite, cfg.DBDriver)
	assert.Equal(t, defaultRateLimit, cfg.RateLimit)
	assert.Equal(t, defaultRecentMovementsLimit, cfg.RecentMovementsLimit)
	assert.Equal(t, defaultSessionHistorySize, cfg.SessionHistorySize)
	assert.Empty(t, cfg.ReconcileSchedule, "invalid schedule disables the job")
}

func TestFromViper_Overrides(t *testing.T) {
	cfg := fromViper(newViper(map[string]any{
		"DB_DRIVER":            "Postgres",
		"PGSQL_URL":            "postgres://ledger@localhost/ledger",
		"CORS_ALLOWED_ORIGINS": "https://a.example, https://b.example,,",
		"RATE_LIMIT":           "10-S",
		"RECONCILE_SCHEDULE":   "",
		"JWT_SECRET":           "s3cr3t",
	}))

	assert.Equal(t, DriverPostgres, cfg.DBDriver)
	assert.Equal(t, "postgres://ledger@localhost/ledger", cfg.DatabaseURL)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, "10-S", cfg.RateLimit)
	assert.Empty(t, cfg.ReconcileSchedule)
	assert.Equal(t, "s3cr3t", cfg.JWTSecret)
}
