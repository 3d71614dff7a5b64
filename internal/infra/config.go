package infra

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Supported persistence backends.
const (
	StoreDriverFile     = "file"
	StoreDriverMemory   = "memory"
	StoreDriverSQLite   = "sqlite"
	StoreDriverPostgres = "postgres"
	StoreDriverRedis    = "redis"
)

// Supported generation client variants.
const (
	GenerationClientHTTP   = "http"
	GenerationClientCanned = "canned"
)

// Config represents application configuration loaded from environment variables.
type Config struct {
	AppEnv            string
	Port              string
	StoreDriver       string
	StoragePath       string
	SQLitePath        string
	DatabaseURL       string
	RedisURL          string
	GenerationClient  string
	GenerationBaseURL string
	GenerationTimeout time.Duration
	CannedLatency     time.Duration
	FreeDailyLimit    int
	QuotaWindow       time.Duration
	MediaLibraryDir   string
	CameraDir         string
	LogFile           string
	HTTPReadTimeout   time.Duration
	HTTPWriteTimeout  time.Duration
	HTTPIdleTimeout   time.Duration
	CORSOrigins       []string
	ProxyRateLimit    int
	ProxyMaxUpload    int64
}

// LoadConfig loads configuration from environment variables and applies defaults where needed.
func LoadConfig() (*Config, error) {
	appEnv := getEnv("APP_ENV", "development")
	defaultClient := GenerationClientHTTP
	if appEnv == "development" {
		defaultClient = GenerationClientCanned
	}

	cfg := &Config{
		AppEnv:            appEnv,
		Port:              getEnv("PORT", "8080"),
		StoreDriver:       strings.ToLower(getEnv("STORE_DRIVER", StoreDriverFile)),
		StoragePath:       getEnv("STORAGE_PATH", "./storage"),
		SQLitePath:        getEnv("SQLITE_PATH", "./storage/interiorai.db"),
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		RedisURL:          os.Getenv("REDIS_URL"),
		GenerationClient:  strings.ToLower(getEnv("GENERATION_CLIENT", defaultClient)),
		GenerationBaseURL: getEnv("GENERATION_BASE_URL", "https://your-proxy-server.com/api"),
		GenerationTimeout: time.Second * time.Duration(getEnvInt("GENERATION_TIMEOUT_SECONDS", 60)),
		CannedLatency:     time.Millisecond * time.Duration(getEnvInt("CANNED_LATENCY_MS", 0)),
		FreeDailyLimit:    getEnvInt("FREE_DAILY_LIMIT", 3),
		QuotaWindow:       time.Hour * time.Duration(getEnvInt("QUOTA_WINDOW_HOURS", 24)),
		MediaLibraryDir:   os.Getenv("MEDIA_LIBRARY_DIR"),
		CameraDir:         os.Getenv("CAMERA_DIR"),
		LogFile:           os.Getenv("LOG_FILE"),
		HTTPReadTimeout:   time.Second * time.Duration(getEnvInt("HTTP_READ_TIMEOUT_SECONDS", 15)),
		HTTPWriteTimeout:  time.Second * time.Duration(getEnvInt("HTTP_WRITE_TIMEOUT_SECONDS", 30)),
		HTTPIdleTimeout:   time.Second * time.Duration(getEnvInt("HTTP_IDLE_TIMEOUT_SECONDS", 60)),
		CORSOrigins:       splitList(getEnv("CORS_ORIGINS", "http://localhost:8081,http://localhost:19006")),
		ProxyRateLimit:    getEnvInt("PROXY_RATE_LIMIT_PER_MINUTE", 30),
		ProxyMaxUpload:    int64(getEnvInt("PROXY_MAX_UPLOAD_MB", 10)) << 20,
	}

	switch cfg.StoreDriver {
	case StoreDriverFile, StoreDriverMemory, StoreDriverSQLite:
	case StoreDriverPostgres:
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required for the postgres store")
		}
	case StoreDriverRedis:
		if cfg.RedisURL == "" {
			return nil, fmt.Errorf("REDIS_URL is required for the redis store")
		}
	default:
		return nil, fmt.Errorf("unsupported STORE_DRIVER %q", cfg.StoreDriver)
	}

	switch cfg.GenerationClient {
	case GenerationClientHTTP, GenerationClientCanned:
	default:
		return nil, fmt.Errorf("unsupported GENERATION_CLIENT %q", cfg.GenerationClient)
	}

	if cfg.FreeDailyLimit < 0 {
		return nil, fmt.Errorf("FREE_DAILY_LIMIT must not be negative")
	}
	if cfg.QuotaWindow <= 0 {
		return nil, fmt.Errorf("QUOTA_WINDOW_HOURS must be positive")
	}

	if cfg.ProxyRateLimit <= 0 {
		return nil, fmt.Errorf("PROXY_RATE_LIMIT_PER_MINUTE must be positive")
	}
	if cfg.ProxyMaxUpload <= 0 {
		return nil, fmt.Errorf("PROXY_MAX_UPLOAD_MB must be positive")
	}

	return cfg, nil
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}
