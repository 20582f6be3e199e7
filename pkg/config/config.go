package config

import (
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Redis      RedisConfig
	CORS       CORSConfig
	Log        LogConfig
	Dataset    DatasetConfig
	Dashboard  DashboardConfig
	ChartCache ChartCacheConfig
	Charts     ChartsConfig
	Exports    ExportsConfig
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// DatasetConfig points at the survey CSV every chart reads.
type DatasetConfig struct {
	Path string
}

// DashboardConfig tunes the shared selection state.
type DashboardConfig struct {
	SettleWindow    time.Duration
	ShutdownTimeout time.Duration
}

// ChartCacheConfig governs Redis caching of rendered chart models.
type ChartCacheConfig struct {
	Enabled       bool
	TTL           time.Duration
	WarmupWorkers int
}

// ChartsConfig tunes chart models.
type ChartsConfig struct {
	PieKeepEmptySlices bool
}

// ExportsConfig toggles chart table downloads.
type ExportsConfig struct {
	Enabled bool
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	return fromViper(v), nil
}

func fromViper(v *viper.Viper) *Config {
	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Dataset = DatasetConfig{Path: v.GetString("DATASET_PATH")}

	cfg.Dashboard = DashboardConfig{
		SettleWindow:    parseDuration(v.GetString("DASHBOARD_SETTLE_WINDOW"), 500*time.Millisecond),
		ShutdownTimeout: parseDuration(v.GetString("SHUTDOWN_TIMEOUT"), 10*time.Second),
	}

	cfg.ChartCache = ChartCacheConfig{
		Enabled:       v.GetBool("ENABLE_CHART_CACHE"),
		TTL:           parseDuration(v.GetString("CHART_CACHE_TTL"), 5*time.Minute),
		WarmupWorkers: v.GetInt("CHART_CACHE_WARMUP_WORKERS"),
	}

	cfg.Charts = ChartsConfig{PieKeepEmptySlices: v.GetBool("PIE_KEEP_EMPTY_SLICES")}

	cfg.Exports = ExportsConfig{Enabled: v.GetBool("ENABLE_EXPORTS")}

	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("DATASET_PATH", "./data/Student Mental health.csv")
	v.SetDefault("DASHBOARD_SETTLE_WINDOW", "500ms")
	v.SetDefault("SHUTDOWN_TIMEOUT", "10s")

	v.SetDefault("ENABLE_CHART_CACHE", false)
	v.SetDefault("CHART_CACHE_TTL", "5m")
	v.SetDefault("CHART_CACHE_WARMUP_WORKERS", 2)
	v.SetDefault("PIE_KEEP_EMPTY_SLICES", false)
	v.SetDefault("ENABLE_EXPORTS", true)
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
