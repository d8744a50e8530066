package config

import (
	"log"
	"strings"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"github.com/spf13/viper"
	"github.com/ulule/limiter/v3"
)

// Supported storage drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

const (
	defaultRateLimit            = "100-M"
	defaultRecentMovementsLimit = 10
	defaultSessionHistorySize   = 5
	defaultJWTSecret            = "a-very-secret-key-should-be-longer-and-random"
)

// Config holds application configuration.
type Config struct {
	DBDriver     string
	DatabaseURL  string
	SQLitePath   string
	Port         string
	IsProduction bool

	JWTSecret string
	JWTIssuer string

	RateLimit          string
	CORSAllowedOrigins []string

	// Events
	AMQPURL        string
	EventsExchange string

	// Ledger
	RecentMovementsLimit int
	SessionHistorySize   int
	ReconcileSchedule    string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	v := viper.New()
	v.SetDefault("DB_DRIVER", DriverSQLite)
	v.SetDefault("PGSQL_URL", "")
	v.SetDefault("SQLITE_PATH", "data/ledger.db")
	v.SetDefault("PORT", "8080")
	v.SetDefault("IS_PRODUCTION", false)
	v.SetDefault("JWT_SECRET", defaultJWTSecret)
	v.SetDefault("JWT_ISSUER", "personal-ledger")
	v.SetDefault("RATE_LIMIT", defaultRateLimit)
	v.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	v.SetDefault("AMQP_URL", "")
	v.SetDefault("EVENTS_EXCHANGE", "ledger_events")
	v.SetDefault("RECENT_MOVEMENTS_LIMIT", defaultRecentMovementsLimit)
	v.SetDefault("SESSION_HISTORY_SIZE", defaultSessionHistorySize)
	v.SetDefault("RECONCILE_SCHEDULE", "@every 1h")
	v.AutomaticEnv()

	return fromViper(v), nil
}

func fromViper(v *viper.Viper) *Config {
	cfg := &Config{
		DBDriver:       strings.ToLower(strings.TrimSpace(v.GetString("DB_DRIVER"))),
		DatabaseURL:    v.GetString("PGSQL_URL"),
		SQLitePath:     v.GetString("SQLITE_PATH"),
		Port:           v.GetString("PORT"),
		IsProduction:   v.GetBool("IS_PRODUCTION"),
		JWTSecret:      v.GetString("JWT_SECRET"),
		JWTIssuer:      v.GetString("JWT_ISSUER"),
		RateLimit:      v.GetString("RATE_LIMIT"),
		AMQPURL:        v.GetString("AMQP_URL"),
		EventsExchange: v.GetString("EVENTS_EXCHANGE"),
	}

	switch cfg.DBDriver {
	case DriverPostgres:
		if cfg.DatabaseURL == "" {
			log.Println("Warning: DB_DRIVER is postgres but PGSQL_URL environment variable not set.")
		}
	case DriverSQLite:
	default:
		log.Printf("Warning: Unknown DB_DRIVER ('%s'). Defaulting to %s.\n", cfg.DBDriver, DriverSQLite)
		cfg.DBDriver = DriverSQLite
	}

	if cfg.Port == "" {
		cfg.Port = "8080"
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}

	if cfg.JWTSecret == "" || cfg.JWTSecret == defaultJWTSecret {
		cfg.JWTSecret = defaultJWTSecret // !! CHANGE IN PRODUCTION !!
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}

	if _, err := limiter.NewRateFromFormatted(cfg.RateLimit); err != nil {
		log.Printf("Warning: Invalid value for RATE_LIMIT ('%s'). Defaulting to %s.\n", cfg.RateLimit, defaultRateLimit)
		cfg.RateLimit = defaultRateLimit
	}

	for _, origin := range strings.Split(v.GetString("CORS_ALLOWED_ORIGINS"), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, origin)
		}
	}

	cfg.RecentMovementsLimit = v.GetInt("RECENT_MOVEMENTS_LIMIT")
	if cfg.RecentMovementsLimit <= 0 {
		log.Printf("Warning: Invalid value for RECENT_MOVEMENTS_LIMIT. Defaulting to %d.\n", defaultRecentMovementsLimit)
		cfg.RecentMovementsLimit = defaultRecentMovementsLimit
	}

	cfg.SessionHistorySize = v.GetInt("SESSION_HISTORY_SIZE")
	if cfg.SessionHistorySize <= 0 {
		log.Printf("Warning: Invalid value for SESSION_HISTORY_SIZE. Defaulting to %d.\n", defaultSessionHistorySize)
		cfg.SessionHistorySize = defaultSessionHistorySize
	}

	// An empty schedule disables the reconciliation job.
	cfg.ReconcileSchedule = strings.TrimSpace(v.GetString("RECONCILE_SCHEDULE"))
	if cfg.ReconcileSchedule != "" {
		if _, err := cron.ParseStandard(cfg.ReconcileSchedule); err != nil {
			log.Printf("Warning: Invalid value for RECONCILE_SCHEDULE ('%s'). Reconciliation job disabled.\n", cfg.ReconcileSchedule)
			cfg.ReconcileSchedule = ""
		}
	}

	return cfg
}
