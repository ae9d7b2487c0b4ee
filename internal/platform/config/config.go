package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Storage backends.
const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL    string
	StorageBackend string
	MigrationsPath string
	Port           string
	IsProduction   bool
	LogLevel       string

	JWTSecret string

	// Processing
	LockTimeout               time.Duration
	FraudAmountThreshold      decimal.Decimal
	FraudLookbackMonths       int
	CreditTransferDestination bool

	// HTTP
	RateLimit          string
	CORSAllowedOrigins []string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	v := viper.New()
	v.SetDefault("PGSQL_URL", "")
	v.SetDefault("STORAGE_BACKEND", StoragePostgres)
	v.SetDefault("MIGRATIONS_PATH", "file://migrations")
	v.SetDefault("PORT", "8080")
	v.SetDefault("IS_PRODUCTION", false)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("LOCK_TIMEOUT", "5s")
	v.SetDefault("FRAUD_AMOUNT_THRESHOLD", "10000")
	v.SetDefault("FRAUD_LOOKBACK_MONTHS", 3)
	v.SetDefault("CREDIT_TRANSFER_DESTINATION", false)
	v.SetDefault("RATE_LIMIT", "100-S")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "")
	v.AutomaticEnv()

	cfg := &Config{
		DatabaseURL:               v.GetString("PGSQL_URL"),
		StorageBackend:            strings.ToLower(v.GetString("STORAGE_BACKEND")),
		MigrationsPath:            v.GetString("MIGRATIONS_PATH"),
		Port:                      v.GetString("PORT"),
		IsProduction:              v.GetBool("IS_PRODUCTION"),
		LogLevel:                  v.GetString("LOG_LEVEL"),
		JWTSecret:                 v.GetString("JWT_SECRET"),
		FraudLookbackMonths:       v.GetInt("FRAUD_LOOKBACK_MONTHS"),
		CreditTransferDestination: v.GetBool("CREDIT_TRANSFER_DESTINATION"),
		RateLimit:                 v.GetString("RATE_LIMIT"),
	}

	switch cfg.StorageBackend {
	case StoragePostgres:
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("PGSQL_URL is required when STORAGE_BACKEND=%s", StoragePostgres)
		}
	case StorageMemory:
		log.Println("Warning: STORAGE_BACKEND=memory, ledger state is not durable.")
	default:
		return nil, fmt.Errorf("unknown STORAGE_BACKEND %q", cfg.StorageBackend)
	}

	if cfg.Port == "" {
		cfg.Port = "8080"
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}

	if cfg.JWTSecret == "" {
		if cfg.IsProduction {
			return nil, fmt.Errorf("JWT_SECRET is required in production")
		}
		cfg.JWTSecret = "insecure-development-secret"
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}

	lockTimeout, err := time.ParseDuration(v.GetString("LOCK_TIMEOUT"))
	if err != nil || lockTimeout <= 0 {
		return nil, fmt.Errorf("invalid LOCK_TIMEOUT %q", v.GetString("LOCK_TIMEOUT"))
	}
	cfg.LockTimeout = lockTimeout

	threshold, err := decimal.NewFromString(v.GetString("FRAUD_AMOUNT_THRESHOLD"))
	if err != nil || threshold.IsNegative() {
		return nil, fmt.Errorf("invalid FRAUD_AMOUNT_THRESHOLD %q", v.GetString("FRAUD_AMOUNT_THRESHOLD"))
	}
	cfg.FraudAmountThreshold = threshold

	if cfg.FraudLookbackMonths <= 0 {
		return nil, fmt.Errorf("FRAUD_LOOKBACK_MONTHS must be positive, got %d", cfg.FraudLookbackMonths)
	}

	if origins := strings.TrimSpace(v.GetString("CORS_ALLOWED_ORIGINS")); origins != "" {
		for _, o := range strings.Split(origins, ",") {
			if o = strings.TrimSpace(o); o != "" {
				cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, o)
			}
		}
	}

	return cfg, nil
}
