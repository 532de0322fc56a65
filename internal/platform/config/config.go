package config

import (
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const defaultJWTSecret = "a-very-secret-key-should-be-longer-and-random"

// Config holds application configuration.
type Config struct {
	DatabaseURL    string
	MigrationsPath string
	Port           string
	IsProduction   bool
	EnableDBCheck  bool

	JWTSecret string
	JWTIssuer string

	RateLimit          string // ulule/limiter format, e.g. "100-M"
	CORSAllowedOrigins []string

	RedisURL     string // Empty disables the rate cache
	RateCacheTTL time.Duration

	EFRISURL      string // Empty disables fiscal notifications
	EFRISTIN      string
	EFRISDeviceNo string
	EFRISTimeout  time.Duration
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	v := viper.New()
	v.SetDefault("PGSQL_URL", "")
	v.SetDefault("MIGRATIONS_PATH", "file://migrations")
	v.SetDefault("PORT", "8080")
	v.SetDefault("IS_PRODUCTION", false)
	v.SetDefault("ENABLE_DB_CHECK", false)
	v.SetDefault("JWT_SECRET", defaultJWTSecret)
	v.SetDefault("JWT_ISSUER", "ledger-engine")
	v.SetDefault("RATE_LIMIT", "100-M")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	v.SetDefault("REDIS_URL", "")
	v.SetDefault("RATE_CACHE_TTL", "5m")
	v.SetDefault("EFRIS_URL", "")
	v.SetDefault("EFRIS_TIN", "")
	v.SetDefault("EFRIS_DEVICE_NO", "")
	v.SetDefault("EFRIS_TIMEOUT", "10s")

	v.AutomaticEnv()

	cfg := &Config{
		DatabaseURL:    v.GetString("PGSQL_URL"),
		MigrationsPath: v.GetString("MIGRATIONS_PATH"),
		Port:           v.GetString("PORT"),
		IsProduction:   v.GetBool("IS_PRODUCTION"),
		EnableDBCheck:  v.GetBool("ENABLE_DB_CHECK"),
		JWTSecret:      v.GetString("JWT_SECRET"),
		JWTIssuer:      v.GetString("JWT_ISSUER"),
		RateLimit:      v.GetString("RATE_LIMIT"),
		RedisURL:       v.GetString("REDIS_URL"),
		EFRISURL:       v.GetString("EFRIS_URL"),
		EFRISTIN:       v.GetString("EFRIS_TIN"),
		EFRISDeviceNo:  v.GetString("EFRIS_DEVICE_NO"),
	}

	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}
	if cfg.Port == "" {
		cfg.Port = "8080"
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}
	if cfg.JWTSecret == defaultJWTSecret {
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}

	for _, origin := range strings.Split(v.GetString("CORS_ALLOWED_ORIGINS"), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, origin)
		}
	}

	cfg.RateCacheTTL = parseDuration(v, "RATE_CACHE_TTL", 5*time.Minute)
	cfg.EFRISTimeout = parseDuration(v, "EFRIS_TIMEOUT", 10*time.Second)

	if cfg.EFRISURL != "" && cfg.EFRISTIN == "" {
		log.Println("Warning: EFRIS_URL is set but EFRIS_TIN is empty. Fiscal notifications will be rejected.")
	}

	return cfg, nil
}

func parseDuration(v *viper.Viper, key string, fallback time.Duration) time.Duration {
	raw := v.GetString(key)
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		if raw != "" {
			log.Printf("Warning: Invalid value for %s ('%s'). Defaulting to %s.\n", key, raw, fallback)
		}
		return fallback
	}
	return d
}
