package config

import (
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

// DefaultUserAgent is the default User-Agent string sent with all HTTP requests.
const DefaultUserAgent = "ShowCatalog/1.0 (+https://github.com/Belphemur/ShowCatalog)"

// DefaultAPIBaseURL is the TVMaze-compatible API used when none is configured.
const DefaultAPIBaseURL = "https://api.tvmaze.com"

type Config struct {
	ProxyConnectionString string `mapstructure:"proxy_connection_string"`
	APIBaseURL            string `mapstructure:"api_base_url"`
	ClientTimeout         string `mapstructure:"client_timeout"` // Go duration string like "30s", "1h", etc.
	UserAgent             string `mapstructure:"user_agent"`
	Server                struct {
		Port        int    `mapstructure:"port"`
		Address     string `mapstructure:"address"`
		CORSOrigins string `mapstructure:"cors_origins"` // Comma-separated; empty allows any origin
	} `mapstructure:"server"`
	GRPC struct {
		Enabled bool `mapstructure:"enabled"`
		Port    int  `mapstructure:"port"`
	} `mapstructure:"grpc"`
	Metrics struct {
		Enabled bool `mapstructure:"enabled"`
		Port    int  `mapstructure:"port"`
	} `mapstructure:"metrics"`
	LogLevel string `mapstructure:"log_level"`
	Cache    struct {
		Type  string `mapstructure:"type"` // "memory" or "redis"
		Size  int    `mapstructure:"size"` // Maximum number of entries in the LRU cache
		TTL   string `mapstructure:"ttl"`  // Go duration string like "1h", "24h", etc.
		Redis struct {
			Address  string `mapstructure:"address"`
			Password string `mapstructure:"password"`
			DB       int    `mapstructure:"db"`
		} `mapstructure:"redis"`
	} `mapstructure:"cache"`
	Retry struct {
		MaxRetries int    `mapstructure:"max_retries"`
		Delay      string `mapstructure:"delay"`
		MaxDelay   string `mapstructure:"max_delay"`
	} `mapstructure:"retry"`
	Catalog struct {
		Pages   int  `mapstructure:"pages"`   // Number of upstream /shows pages loaded into the catalog
		Preload bool `mapstructure:"preload"` // Load the catalog at startup instead of on first visit
	} `mapstructure:"catalog"`
	Sentry struct {
		DSN         string `mapstructure:"dsn"`
		Environment string `mapstructure:"environment"`
	} `mapstructure:"sentry"`
}

var (
	globalConfig *Config
	logger       zerolog.Logger
)

func init() {
	// Initialize zerolog with console writer for human-readable output
	logger = zerolog.New(zerolog.ConsoleWriter{
		Out:     os.Stdout,
		NoColor: false,
	}).With().Timestamp().Logger()

	config, err := LoadConfig()
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to load config")
	}

	level := zerolog.InfoLevel
	if config.LogLevel != "" {
		if parsedLevel, err := zerolog.ParseLevel(config.LogLevel); err == nil {
			level = parsedLevel
		} else {
			logger.Warn().Str("invalid_level", config.LogLevel).Msg("Invalid log level, using default 'info'")
		}
	}

	zerolog.SetGlobalLevel(level)
	logger = logger.Level(level)

	logger.Info().Str("level", level.String()).Msg("Logging configured")
	globalConfig = config
	logger.Info().Msg("Configuration loaded successfully")
}

func LoadConfig() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	// Environment variable support
	v.AutomaticEnv()
	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	_ = v.BindEnv("log_level", "LOG_LEVEL")
	_ = v.BindEnv("sentry.dsn", "SENTRY_DSN")

	v.SetDefault("api_base_url", DefaultAPIBaseURL)
	v.SetDefault("client_timeout", "30s")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.address", "localhost")
	v.SetDefault("server.cors_origins", "")
	v.SetDefault("grpc.enabled", true)
	v.SetDefault("grpc.port", 9000)
	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.port", 9090)
	v.SetDefault("cache.type", "memory")
	v.SetDefault("cache.size", 500)
	v.SetDefault("cache.ttl", "1h")
	v.SetDefault("retry.max_retries", 3)
	v.SetDefault("retry.delay", "200ms")
	v.SetDefault("retry.max_delay", "5s")
	v.SetDefault("catalog.pages", 1)
	v.SetDefault("catalog.preload", false)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}
	if config.UserAgent == "" {
		config.UserAgent = DefaultUserAgent
	}

	return &config, nil
}

// ParseDurationOr parses a Go duration string, falling back to the given default
// (with a warning) when the value is empty or invalid.
func ParseDurationOr(value string, fallback time.Duration, field string) time.Duration {
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		logger.Warn().Err(err).Str("field", field).Str("value", value).Dur("fallback", fallback).Msg("Invalid duration, using default")
		return fallback
	}
	return parsed
}

func GetConfig() *Config {
	return globalConfig
}

func GetUserAgent() string {
	if globalConfig != nil && globalConfig.UserAgent != "" {
		return globalConfig.UserAgent
	}

	return DefaultUserAgent
}

func GetLogger() zerolog.Logger {
	return logger
}
