package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config carries every tunable the backend reads from the environment.
// Pricing constants default to the values the product launched with:
// stories start at the floor price, valuations may never go below the
// minimum, and withdrawals unlock at the threshold.
type Config struct {
	Port string
	Env  string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	JWTSecret     string
	SessionSecret string

	FloorPrice          float64
	MinimumValuation    float64
	WithdrawalThreshold float64

	AllowedOrigins []string

	SettlementEndpoint string
	SettlementAPIKey   string

	TickerInterval time.Duration

	SeedDemo bool
}

const (
	DefaultFloorPrice          = 0.7
	DefaultMinimumValuation    = 0.7
	DefaultWithdrawalThreshold = 1.00
)

// Load reads .env when present and builds the config from the environment.
func Load() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		Port:                getEnv("PORT", "8080"),
		Env:                 getEnv("APP_ENV", "development"),
		DBHost:              os.Getenv("DB_HOST"),
		DBPort:              getEnv("DB_PORT", "5432"),
		DBUser:              os.Getenv("DB_USER"),
		DBPassword:          os.Getenv("DB_PASSWORD"),
		DBName:              os.Getenv("DB_NAME"),
		DBSSLMode:           getEnv("DB_SSLMODE", "disable"),
		JWTSecret:           getEnv("JWT_SECRET", "dev-only-secret"),
		SessionSecret:       getEnv("SESSION_SECRET", "something-very-secret"),
		FloorPrice:          getEnvFloat("FLOOR_PRICE", DefaultFloorPrice),
		MinimumValuation:    getEnvFloat("MINIMUM_VALUATION", DefaultMinimumValuation),
		WithdrawalThreshold: getEnvFloat("WITHDRAWAL_THRESHOLD", DefaultWithdrawalThreshold),
		AllowedOrigins:      []string{getEnv("ALLOWED_ORIGIN", "*")},
		SettlementEndpoint:  os.Getenv("SETTLEMENT_ENDPOINT"),
		SettlementAPIKey:    os.Getenv("SETTLEMENT_API_KEY"),
		TickerInterval:      getEnvDuration("TICKER_INTERVAL", 10*time.Second),
		SeedDemo:            getEnv("SEED_DEMO", "") == "true",
	}
	return cfg
}

// HasDatabase reports whether Postgres connection settings were provided.
// Without them the server runs on the in-memory stores.
func (c *Config) HasDatabase() bool {
	return c.DBHost != "" && c.DBName != ""
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return f
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}
