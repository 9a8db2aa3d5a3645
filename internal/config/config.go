package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/XavierBriggs/fortuna/services/pick-service/pkg/models"
	"github.com/joho/godotenv"
)

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Addr            string
	CORSOrigins     []string
	ShutdownTimeout time.Duration
}

// RedisConfig holds Redis connection configuration. Password and DB override the URL when set.
type RedisConfig struct {
	URL      string
	Password string
	DB       int
}

// PostgresConfig holds the strategy store DSN. An empty DSN disables persistence.
type PostgresConfig struct {
	DSN string
}

// ESPNConfig controls the upstream sports data client
type ESPNConfig struct {
	BaseURL       string
	Timeout       time.Duration
	RetryAttempts int
	RetryDelay    time.Duration
	RateLimit     int // Requests per minute across replicas; 0 disables
}

// EngineConfig controls the projection engine
type EngineConfig struct {
	BatchSize int
	Sports    []string
}

// StrategyConfig holds allocator defaults for requests that omit them
type StrategyConfig struct {
	DefaultBankroll float64
	DefaultRiskMode models.RiskMode
}

// SlateConfig controls the background slate runner
type SlateConfig struct {
	Enabled  bool
	Interval time.Duration
}

// StreamConfig controls Redis stream publishing
type StreamConfig struct {
	MaxLen   int64
	DedupTTL time.Duration // 0 publishes every analysis
}

// LogConfig controls logger construction
type LogConfig struct {
	Level  string
	Format string
}

// Config holds all application configuration
type Config struct {
	Server   ServerConfig
	Redis    RedisConfig
	Postgres PostgresConfig
	ESPN     ESPNConfig
	Engine   EngineConfig
	Strategy StrategyConfig
	Slate    SlateConfig
	Stream   StreamConfig
	Log      LogConfig
}

// LoadConfig loads an optional .env file and then reads configuration from the environment.
// Variables already set in the environment win over the file.
func LoadConfig() *Config {
	_ = godotenv.Load(getEnv("ENV_FILE", ".env"))

	return &Config{
		Server: ServerConfig{
			Addr:            getEnv("SERVER_ADDR", ":8090"),
			CORSOrigins:     splitList(getEnv("CORS_ORIGINS", "*")),
			ShutdownTimeout: getDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		Redis: RedisConfig{
			URL:      getEnv("REDIS_URL", "redis://localhost:6380"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getInt("REDIS_DB", 0),
		},
		Postgres: PostgresConfig{
			DSN: getEnv("DATABASE_URL", ""),
		},
		ESPN: ESPNConfig{
			BaseURL:       getEnv("ESPN_BASE_URL", "https://site.api.espn.com/apis/site/v2/sports"),
			Timeout:       getDuration("ESPN_TIMEOUT", 15*time.Second),
			RetryAttempts: getInt("ESPN_RETRY_ATTEMPTS", 3),
			RetryDelay:    getDuration("ESPN_RETRY_DELAY", 500*time.Millisecond),
			RateLimit:     getInt("ESPN_RATE_LIMIT", 120),
		},
		Engine: EngineConfig{
			BatchSize: getInt("ANALYSIS_BATCH_SIZE", 3),
			Sports:    splitList(getEnv("SPORTS", "basketball_nba")),
		},
		Strategy: StrategyConfig{
			DefaultBankroll: getFloat("DEFAULT_BANKROLL", 100),
			DefaultRiskMode: models.RiskMode(getEnv("DEFAULT_RISK_MODE", string(models.RiskBalanced))),
		},
		Slate: SlateConfig{
			Enabled:  getBool("SLATE_RUNNER_ENABLED", true),
			Interval: getDuration("SLATE_INTERVAL", 15*time.Minute),
		},
		Stream: StreamConfig{
			MaxLen:   int64(getInt("STREAM_MAX_LEN", 10000)),
			DedupTTL: getDuration("STREAM_DEDUP_TTL", 6*time.Hour),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "text"),
		},
	}
}

// Validate rejects configurations the service cannot start with
func (c *Config) Validate() error {
	if c.Engine.BatchSize < 1 {
		return fmt.Errorf("ANALYSIS_BATCH_SIZE must be at least 1, got %d", c.Engine.BatchSize)
	}
	if len(c.Engine.Sports) == 0 {
		return fmt.Errorf("SPORTS must list at least one sport")
	}
	if !c.Strategy.DefaultRiskMode.Valid() {
		return fmt.Errorf("DEFAULT_RISK_MODE %q is not one of conservative, balanced, aggressive", c.Strategy.DefaultRiskMode)
	}
	if c.Strategy.DefaultBankroll < 0 {
		return fmt.Errorf("DEFAULT_BANKROLL must not be negative")
	}
	if c.Slate.Enabled && c.Slate.Interval <= 0 {
		return fmt.Errorf("SLATE_INTERVAL must be positive")
	}
	return nil
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getInt(key string, defaultValue int) int {
	if v, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return v
	}
	return defaultValue
}

func getFloat(key string, defaultValue float64) float64 {
	if v, err := strconv.ParseFloat(os.Getenv(key), 64); err == nil {
		return v
	}
	return defaultValue
}

func getBool(key string, defaultValue bool) bool {
	if v, err := strconv.ParseBool(os.Getenv(key)); err == nil {
		return v
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	if v, err := time.ParseDuration(os.Getenv(key)); err == nil {
		return v
	}
	return defaultValue
}

// splitList parses a comma-separated list, dropping blanks
func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
