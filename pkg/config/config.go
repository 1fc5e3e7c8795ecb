package config

import (
	"errors"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Server   ServerConfig
	Database DatabaseConfig
	Scoring  ScoringConfig
	Jobs     JobsConfig
}

type AppConfig struct {
	Name        string
	Version     string
	Environment string
}

type ServerConfig struct {
	Port           string
	RateLimitRPS   float64
	AllowOrigins   []string
	RequestTimeout int
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

type ScoringConfig struct {
	// optional YAML/JSON file overriding the built-in scoring constants
	ConfigFile           string
	ConfigCacheTTLSecond int
	ConfigCacheMaxItems  int64
}

type JobsConfig struct {
	RecomputeCron         string
	RecomputeLookbackDays int
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	rateLimit, err := strconv.ParseFloat(getEnv("RATE_LIMIT_RPS", "20"), 64)
	if err != nil {
		return nil, errors.New("invalid rate limit")
	}

	cacheTTL, err := strconv.Atoi(getEnv("CONFIG_CACHE_TTL_SECONDS", "300"))
	if err != nil {
		return nil, errors.New("invalid config cache ttl")
	}

	cacheItems, err := strconv.ParseInt(getEnv("CONFIG_CACHE_MAX_ITEMS", "1000"), 10, 64)
	if err != nil {
		return nil, errors.New("invalid config cache size")
	}

	lookback, err := strconv.Atoi(getEnv("RECOMPUTE_LOOKBACK_DAYS", "14"))
	if err != nil {
		return nil, errors.New("invalid recompute lookback")
	}

	requestTimeout, err := strconv.Atoi(getEnv("REQUEST_TIMEOUT_SECONDS", "10"))
	if err != nil {
		return nil, errors.New("invalid request timeout")
	}

	cfg := &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", "Ad Fatigue API"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
			Environment: getEnv("APP_ENV", "development"),
		},
		Server: ServerConfig{
			Port:           getEnv("PORT", "8080"),
			RateLimitRPS:   rateLimit,
			AllowOrigins:   []string{getEnv("CORS_ORIGIN", "http://localhost:3000")},
			RequestTimeout: requestTimeout,
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Name:     getEnv("DB_NAME", "ad_fatigue"),
			SSLMode:  getEnv("DB_SSL_MODE", "disable"),
		},
		Scoring: ScoringConfig{
			ConfigFile:           getEnv("SCORING_CONFIG_FILE", ""),
			ConfigCacheTTLSecond: cacheTTL,
			ConfigCacheMaxItems:  cacheItems,
		},
		Jobs: JobsConfig{
			RecomputeCron:         getEnv("RECOMPUTE_CRON", "0 */6 * * *"),
			RecomputeLookbackDays: lookback,
		},
	}

	if cfg.Database.Password == "" {
		return nil, errors.New("missing database password")
	}

	if cfg.Server.RateLimitRPS <= 0 {
		return nil, errors.New("rate limit must be positive")
	}

	return cfg, nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}

	return defaultVal
}
