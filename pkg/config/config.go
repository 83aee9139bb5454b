package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/hmtc-its/hmtc-portal/internal/models"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Cache backends.
const (
	CacheBackendMemory = "memory"
	CacheBackendRedis  = "redis"
)

// StorePostgres selects the SQL applicant store.
const StorePostgres = "postgres"

type Config struct {
	Env  string
	Port int

	API      APIConfig
	Schedule ScheduleConfig
	Cache    CacheConfig
	Redis    RedisConfig
	Database DatabaseConfig
	CORS     CORSConfig
	Log      LogConfig
	Uploads  UploadsConfig
	Magang   MagangConfig
	Docs     bool
	Fake     FakeBackendConfig
}

// APIConfig points the clients at the backend REST API and the site routes.
type APIConfig struct {
	BackendURL string
	SiteURL    string
	Timeout    time.Duration
	UserAgent  string
}

// ScheduleConfig drives both the pollers and the site's schedule windows.
type ScheduleConfig struct {
	PollInterval time.Duration
	Paths        []string
	Windows      []models.ScheduleWindow
}

// CacheConfig toggles the query cache used by the gateway BFF routes.
type CacheConfig struct {
	Enabled bool
	Backend string
	TTL     time.Duration
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// UploadsConfig controls where uploaded files are stored.
type UploadsConfig struct {
	Dir          string
	MaxFileBytes int64
}

// MagangConfig selects the applicant store and sizes the export pool.
type MagangConfig struct {
	Store         string
	ExportWorkers int
}

// FakeBackendConfig configures cmd/fakeapi.
type FakeBackendConfig struct {
	JWTSecret     string
	TokenTTL      time.Duration
	AdminNRP      string
	AdminPassword string
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

	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.Docs = v.GetBool("DOCS_ENABLED")

	cfg.API = APIConfig{
		BackendURL: v.GetString("BACKEND_URL"),
		SiteURL:    v.GetString("SITE_URL"),
		Timeout:    parseDuration(v.GetString("API_TIMEOUT"), 15*time.Second),
		UserAgent:  v.GetString("API_USER_AGENT"),
	}

	windows, err := parseWindows(v.GetString("SCHEDULE_WINDOWS"))
	if err != nil {
		return nil, err
	}
	cfg.Schedule = ScheduleConfig{
		PollInterval: parseDuration(v.GetString("SCHEDULE_POLL_INTERVAL"), 5*time.Second),
		Paths:        splitAndTrim(v.GetString("SCHEDULE_PATHS")),
		Windows:      windows,
	}

	cfg.Cache = CacheConfig{
		Enabled: v.GetBool("CACHE_ENABLED"),
		Backend: strings.ToLower(v.GetString("CACHE_BACKEND")),
		TTL:     parseDuration(v.GetString("CACHE_TTL"), time.Minute),
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.Database = DatabaseConfig{
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	maxUpload := v.GetInt64("UPLOADS_MAX_FILE_SIZE")
	if maxUpload <= 0 {
		maxUpload = 10 * 1024 * 1024
	}
	cfg.Uploads = UploadsConfig{
		Dir:          v.GetString("UPLOADS_DIR"),
		MaxFileBytes: maxUpload,
	}

	cfg.Magang = MagangConfig{
		Store:         strings.ToLower(v.GetString("MAGANG_STORE")),
		ExportWorkers: v.GetInt("MAGANG_EXPORT_WORKERS"),
	}

	cfg.Fake = FakeBackendConfig{
		JWTSecret:     v.GetString("FAKE_JWT_SECRET"),
		TokenTTL:      parseDuration(v.GetString("FAKE_TOKEN_TTL"), 24*time.Hour),
		AdminNRP:      v.GetString("FAKE_ADMIN_NRP"),
		AdminPassword: v.GetString("FAKE_ADMIN_PASSWORD"),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("DOCS_ENABLED", true)

	v.SetDefault("BACKEND_URL", "http://localhost:8081/api/v1")
	v.SetDefault("SITE_URL", "http://localhost:8080")
	v.SetDefault("API_TIMEOUT", "15s")
	v.SetDefault("API_USER_AGENT", "hmtc-portal/1.0")

	v.SetDefault("SCHEDULE_POLL_INTERVAL", "5s")
	v.SetDefault("SCHEDULE_PATHS", "/magang")
	v.SetDefault("SCHEDULE_WINDOWS", "")

	v.SetDefault("CACHE_ENABLED", true)
	v.SetDefault("CACHE_BACKEND", CacheBackendMemory)
	v.SetDefault("CACHE_TTL", "1m")

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "hmtc_portal")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("UPLOADS_DIR", "./uploads")
	v.SetDefault("UPLOADS_MAX_FILE_SIZE", 10*1024*1024)
	v.SetDefault("MAGANG_STORE", CacheBackendMemory)
	v.SetDefault("MAGANG_EXPORT_WORKERS", 1)

	v.SetDefault("FAKE_JWT_SECRET", "dev_secret")
	v.SetDefault("FAKE_TOKEN_TTL", "24h")
	v.SetDefault("FAKE_ADMIN_NRP", "5025000000")
	v.SetDefault("FAKE_ADMIN_PASSWORD", "admin12345")
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
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

// parseWindows reads "path|start|end;path|start|end" with RFC3339 timestamps.
func parseWindows(raw string) ([]models.ScheduleWindow, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	var windows []models.ScheduleWindow
	for _, entry := range strings.Split(raw, ";") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		parts := strings.Split(entry, "|")
		if len(parts) != 3 {
			return nil, fmt.Errorf("schedule window %q: want path|start|end", entry)
		}
		start, err := time.Parse(time.RFC3339, strings.TrimSpace(parts[1]))
		if err != nil {
			return nil, fmt.Errorf("schedule window %q start: %w", entry, err)
		}
		end, err := time.Parse(time.RFC3339, strings.TrimSpace(parts[2]))
		if err != nil {
			return nil, fmt.Errorf("schedule window %q end: %w", entry, err)
		}
		if !end.After(start) {
			return nil, fmt.Errorf("schedule window %q: end must be after start", entry)
		}
		windows = append(windows, models.ScheduleWindow{Path: strings.TrimSpace(parts[0]), Start: start, End: end})
	}
	return windows, nil
}
