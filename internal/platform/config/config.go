package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Storage drivers.
const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL        string
	StorageDriver      string
	Port               string
	IsProduction       bool
	JWTSecret          string
	JWTIssuer          string
	JWTExpiryDuration  time.Duration
	RedisURL           string
	CacheTTL           time.Duration
	KafkaBrokers       []string
	KafkaTopic         string
	RateLimit          string
	PostingLockTimeout time.Duration
	// StrictExchangeRates makes a missing rate an error instead of a 1.0 fallback.
	StrictExchangeRates bool
	CORSAllowedOrigins  []string
	// SeedFile is YAML reference data loaded into the memory store at startup.
	SeedFile string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("STORAGE_DRIVER", StoragePostgres)
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	viper.SetDefault("JWT_ISSUER", "ledger-posting-engine")
	viper.SetDefault("JWT_EXPIRY_DURATION", "1h")
	viper.SetDefault("REDIS_URL", "")
	viper.SetDefault("CACHE_TTL", "5m")
	viper.SetDefault("KAFKA_BROKERS", "")
	viper.SetDefault("KAFKA_TOPIC", "journal-events")
	viper.SetDefault("RATE_LIMIT", "100-M")
	viper.SetDefault("POSTING_LOCK_TIMEOUT", "5s")
	viper.SetDefault("STRICT_EXCHANGE_RATES", false)
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	viper.SetDefault("SEED_FILE", "")

	viper.AutomaticEnv()

	cfg := &Config{
		DatabaseURL:         viper.GetString("PGSQL_URL"),
		StorageDriver:       strings.ToLower(viper.GetString("STORAGE_DRIVER")),
		Port:                viper.GetString("PORT"),
		IsProduction:        viper.GetBool("IS_PRODUCTION"),
		JWTSecret:           viper.GetString("JWT_SECRET"),
		JWTIssuer:           viper.GetString("JWT_ISSUER"),
		RedisURL:            viper.GetString("REDIS_URL"),
		KafkaBrokers:        splitList(viper.GetString("KAFKA_BROKERS")),
		KafkaTopic:          viper.GetString("KAFKA_TOPIC"),
		RateLimit:           viper.GetString("RATE_LIMIT"),
		StrictExchangeRates: viper.GetBool("STRICT_EXCHANGE_RATES"),
		CORSAllowedOrigins:  splitList(viper.GetString("CORS_ALLOWED_ORIGINS")),
		SeedFile:            viper.GetString("SEED_FILE"),
	}

	var err error
	if cfg.JWTExpiryDuration, err = durationSetting("JWT_EXPIRY_DURATION"); err != nil {
		return nil, err
	}
	if cfg.CacheTTL, err = durationSetting("CACHE_TTL"); err != nil {
		return nil, err
	}
	if cfg.PostingLockTimeout, err = durationSetting("POSTING_LOCK_TIMEOUT"); err != nil {
		return nil, err
	}

	switch cfg.StorageDriver {
	case StoragePostgres:
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("PGSQL_URL is required when STORAGE_DRIVER=%s", StoragePostgres)
		}
	case StorageMemory:
		log.Println("Warning: STORAGE_DRIVER=memory, postings are lost on restart.")
	default:
		return nil, fmt.Errorf("unknown STORAGE_DRIVER %q", cfg.StorageDriver)
	}

	if cfg.JWTSecret == "a-very-secret-key-should-be-longer-and-random" {
		if cfg.IsProduction {
			return nil, fmt.Errorf("JWT_SECRET must be set in production")
		}
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}
	if !cfg.StrictExchangeRates {
		log.Println("Warning: STRICT_EXCHANGE_RATES is off, missing exchange rates resolve to 1.0.")
	}

	return cfg, nil
}

func durationSetting(key string) (time.Duration, error) {
	raw := viper.GetString(key)
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid value for %s (%q): %w", key, raw, err)
	}
	return d, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
