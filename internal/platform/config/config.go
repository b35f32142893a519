package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is centralized process configuration.
// Values come from an optional YAML file named by HANAFI_CONFIG and are then
// overridden by environment variables.
type Config struct {
	ServiceName string `yaml:"service_name"`
	HTTPPort    string `yaml:"http_port"`
	PostgresDSN string `yaml:"postgres_dsn"`
	LogLevel    string `yaml:"log_level"`

	ElasticsearchURL     string        `yaml:"elasticsearch_url"`
	ElasticsearchTimeout time.Duration `yaml:"elasticsearch_timeout"`
	SearchCacheTTL       time.Duration `yaml:"search_cache_ttl"`

	TelegramBotToken string `yaml:"telegram_bot_token"`

	JWTSecret       string        `yaml:"jwt_secret"`
	AccessTokenTTL  time.Duration `yaml:"access_token_ttl"`
	RefreshTokenTTL time.Duration `yaml:"refresh_token_ttl"`

	CORSAllowedOrigins []string `yaml:"cors_allowed_origins"`
	SiteURL            string   `yaml:"site_url"`
	PageSize           int      `yaml:"page_size"`

	WorkerPollInterval time.Duration `yaml:"worker_poll_interval"`

	AutoMigrate         bool `yaml:"auto_migrate"`
	EnableSearchSync    bool `yaml:"enable_search_sync"`
	EnableAnnouncements bool `yaml:"enable_announcements"`
}

func Defaults() Config {
	return Config{
		ServiceName:          "hanafiyah",
		HTTPPort:             "8080",
		LogLevel:             "info",
		ElasticsearchURL:     "http://elasticsearch:9200",
		ElasticsearchTimeout: 30 * time.Second,
		SearchCacheTTL:       5 * time.Minute,
		AccessTokenTTL:       time.Hour,
		RefreshTokenTTL:      24 * time.Hour,
		CORSAllowedOrigins:   []string{"http://localhost:3000"},
		SiteURL:              "https://al-hanafiyah.com",
		PageSize:             10,
		WorkerPollInterval:   2 * time.Second,
		AutoMigrate:          false,
		EnableSearchSync:     true,
		EnableAnnouncements:  true,
	}
}

func Load() (Config, error) {
	cfg := Defaults()

	if path := strings.TrimSpace(os.Getenv("HANAFI_CONFIG")); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	cfg.ServiceName = envString("SERVICE_NAME", cfg.ServiceName)
	cfg.HTTPPort = envString("HTTP_PORT", cfg.HTTPPort)
	cfg.PostgresDSN = envString("POSTGRES_DSN", cfg.PostgresDSN)
	cfg.LogLevel = envString("LOG_LEVEL", cfg.LogLevel)
	cfg.ElasticsearchURL = envString("ELASTICSEARCH_URL", cfg.ElasticsearchURL)
	cfg.TelegramBotToken = envString("TELEGRAM_BOT_TOKEN", cfg.TelegramBotToken)
	cfg.JWTSecret = envString("JWT_SECRET", cfg.JWTSecret)
	cfg.SiteURL = strings.TrimRight(envString("SITE_URL", cfg.SiteURL), "/")

	var err error
	if cfg.ElasticsearchTimeout, err = envDuration("ELASTICSEARCH_TIMEOUT", cfg.ElasticsearchTimeout); err != nil {
		return Config{}, err
	}
	if cfg.SearchCacheTTL, err = envDuration("SEARCH_CACHE_TTL", cfg.SearchCacheTTL); err != nil {
		return Config{}, err
	}
	if cfg.AccessTokenTTL, err = envDuration("ACCESS_TOKEN_TTL", cfg.AccessTokenTTL); err != nil {
		return Config{}, err
	}
	if cfg.RefreshTokenTTL, err = envDuration("REFRESH_TOKEN_TTL", cfg.RefreshTokenTTL); err != nil {
		return Config{}, err
	}
	if cfg.WorkerPollInterval, err = envDuration("WORKER_POLL_INTERVAL", cfg.WorkerPollInterval); err != nil {
		return Config{}, err
	}
	if raw := strings.TrimSpace(os.Getenv("PAGE_SIZE")); raw != "" {
		size, convErr := strconv.Atoi(raw)
		if convErr != nil || size <= 0 {
			return Config{}, fmt.Errorf("PAGE_SIZE must be a positive integer, got %q", raw)
		}
		cfg.PageSize = size
	}

	var origins []string
	for _, value := range strings.Split(os.Getenv("CORS_ALLOWED_ORIGINS"), ",") {
		value = strings.TrimSpace(value)
		if value != "" {
			origins = append(origins, value)
		}
	}
	if len(origins) > 0 {
		cfg.CORSAllowedOrigins = origins
	}

	cfg.AutoMigrate = envBool("AUTO_MIGRATE", cfg.AutoMigrate)
	cfg.EnableSearchSync = envBool("ENABLE_SEARCH_SYNC", cfg.EnableSearchSync)
	cfg.EnableAnnouncements = envBool("ENABLE_ANNOUNCEMENTS", cfg.EnableAnnouncements)

	return cfg, nil
}

func envString(name string, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(name)); value != "" {
		return value
	}
	return fallback
}

func envDuration(name string, fallback time.Duration) (time.Duration, error) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return fallback, nil
	}
	if seconds, err := strconv.Atoi(raw); err == nil {
		return time.Duration(seconds) * time.Second, nil
	}
	value, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be a duration: %w", name, err)
	}
	return value, nil
}

func envBool(name string, fallback bool) bool {
	raw := strings.TrimSpace(strings.ToLower(os.Getenv(name)))
	if raw == "" {
		return fallback
	}
	switch raw {
	case "1", "true", "t", "yes", "y", "on":
		return true
	case "0", "false", "f", "no", "n", "off":
		return false
	default:
		return fallback
	}
}
