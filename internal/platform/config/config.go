package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Storage drivers accepted in STORAGE_DRIVER.
const (
	StorageDriverPostgres = "postgres"
	StorageDriverMemory   = "memory"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL    string
	Port           string
	IsProduction   bool
	EnableDBCheck  bool
	StorageDriver  string
	MigrationsPath string
	DBMaxConns     int32

	JWTSecret string
	JWTIssuer string

	RedisURL     string
	RateCacheTTL time.Duration

	RateLimit          string
	CORSAllowedOrigins []string

	RecalcChunkSize int
	RecalcWorkers   int

	RoundingRefreshSpec string
	LocalCurrencyCode   string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("ENABLE_DB_CHECK", false)
	viper.SetDefault("STORAGE_DRIVER", StorageDriverPostgres)
	viper.SetDefault("MIGRATIONS_PATH", "file://migrations")
	viper.SetDefault("DB_MAX_CONNS", 10)
	viper.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	viper.SetDefault("JWT_ISSUER", "pricing-engine")
	viper.SetDefault("REDIS_URL", "")
	viper.SetDefault("RATE_CACHE_TTL", "10m")
	viper.SetDefault("RATE_LIMIT", "300-M")
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	viper.SetDefault("RECALC_CHUNK_SIZE", 500)
	viper.SetDefault("RECALC_WORKERS", 8)
	viper.SetDefault("ROUNDING_REFRESH_SPEC", "@every 1m")
	viper.SetDefault("LOCAL_CURRENCY_CODE", "")

	// Real environment variables override .env values, which override the defaults above.
	viper.AutomaticEnv()

	cfg := &Config{
		DatabaseURL:         viper.GetString("PGSQL_URL"),
		Port:                viper.GetString("PORT"),
		IsProduction:        viper.GetBool("IS_PRODUCTION"),
		EnableDBCheck:       viper.GetBool("ENABLE_DB_CHECK"),
		StorageDriver:       strings.ToLower(viper.GetString("STORAGE_DRIVER")),
		MigrationsPath:      viper.GetString("MIGRATIONS_PATH"),
		DBMaxConns:          viper.GetInt32("DB_MAX_CONNS"),
		JWTSecret:           viper.GetString("JWT_SECRET"),
		JWTIssuer:           viper.GetString("JWT_ISSUER"),
		RedisURL:            viper.GetString("REDIS_URL"),
		RateLimit:           viper.GetString("RATE_LIMIT"),
		RecalcChunkSize:     viper.GetInt("RECALC_CHUNK_SIZE"),
		RecalcWorkers:       viper.GetInt("RECALC_WORKERS"),
		RoundingRefreshSpec: viper.GetString("ROUNDING_REFRESH_SPEC"),
		LocalCurrencyCode:   strings.ToUpper(viper.GetString("LOCAL_CURRENCY_CODE")),
	}

	for _, origin := range strings.Split(viper.GetString("CORS_ALLOWED_ORIGINS"), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, origin)
		}
	}

	ttlStr := viper.GetString("RATE_CACHE_TTL")
	ttl, err := time.ParseDuration(ttlStr)
	if err != nil {
		ttl = 10 * time.Minute
		log.Printf("Warning: Invalid value for RATE_CACHE_TTL ('%s'). Defaulting to %s.\n", ttlStr, ttl)
	}
	cfg.RateCacheTTL = ttl

	if cfg.Port == "" {
		cfg.Port = "8080"
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}
	if cfg.RecalcChunkSize <= 0 {
		cfg.RecalcChunkSize = 500
	}
	if cfg.RecalcWorkers <= 0 {
		cfg.RecalcWorkers = 1
	}

	switch cfg.StorageDriver {
	case StorageDriverPostgres:
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("PGSQL_URL is required when STORAGE_DRIVER is %q", StorageDriverPostgres)
		}
	case StorageDriverMemory:
	default:
		return nil, fmt.Errorf("unknown STORAGE_DRIVER %q", cfg.StorageDriver)
	}

	if cfg.IsProduction && cfg.JWTSecret == "a-very-secret-key-should-be-longer-and-random" {
		return nil, fmt.Errorf("JWT_SECRET must be set in production")
	}
	if cfg.JWTSecret == "a-very-secret-key-should-be-longer-and-random" {
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}

	return cfg, nil
}
