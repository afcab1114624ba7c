package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/treasurehunter/watcher/internal/domain"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Catalog  CatalogConfig  `mapstructure:"catalog"`
	Telegram TelegramConfig `mapstructure:"telegram"`
	Watch    WatchConfig    `mapstructure:"watch"`
	Matching MatchingConfig `mapstructure:"matching"`
}

// ServerConfig holds status-server configuration
type ServerConfig struct {
	Enabled        bool     `mapstructure:"enabled"`
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// CatalogConfig holds catalog search configuration
type CatalogConfig struct {
	BaseURL           string        `mapstructure:"base_url"`
	SearchPath        string        `mapstructure:"search_path"`
	UserAgent         string        `mapstructure:"user_agent"`
	Timeout           time.Duration `mapstructure:"timeout"`
	RequestsPerSecond float64       `mapstructure:"requests_per_second"`
	MaxResults        int           `mapstructure:"max_results"`
}

// TelegramConfig holds Telegram Bot API configuration
type TelegramConfig struct {
	BotToken   string        `mapstructure:"bot_token"`
	ChatID     string        `mapstructure:"chat_id"`
	APIBaseURL string        `mapstructure:"api_base_url"`
	ParseMode  string        `mapstructure:"parse_mode"`
	Timeout    time.Duration `mapstructure:"timeout"`
}

// WatchConfig holds the watch list and round pacing
type WatchConfig struct {
	Targets             []domain.WatchTarget `mapstructure:"targets"`
	TargetDelay         time.Duration        `mapstructure:"target_delay"`
	PollIntervalSeconds int                  `mapstructure:"poll_interval_seconds"`
}

// RoundInterval is the pause between two rounds
func (w WatchConfig) RoundInterval() time.Duration {
	return time.Duration(w.PollIntervalSeconds) * time.Second
}

// MatchingConfig holds the name-matching gate thresholds
type MatchingConfig struct {
	SimilarityThreshold   float64 `mapstructure:"similarity_threshold"`
	TokenOverlapThreshold float64 `mapstructure:"token_overlap_threshold"`
	EnableDebugLogging    bool    `mapstructure:"enable_debug_logging"`
}

// defaultTargets is the treasure list watched when no config file provides one
var defaultTargets = []map[string]interface{}{
	{"name": "Hisense Inverter Air Conditioner", "price": 4379},
	{"name": "Nexus 4 Burner Gas Cooker", "price": 1487},
	{"name": "Hisense 20 Litre Microwave", "price": 770},
	{"name": "Syinix Swallow Maker", "price": 1120},
	{"name": `TCL 55" UHD 4K Smart TV`, "price": 4600},
	{"name": "Aeon 90 Litres Chest Freezer", "price": 1799},
}

// legacyEnv maps config keys to the plain variable names older deployments use
var legacyEnv = map[string]string{
	"telegram.bot_token":          "TELEGRAM_BOT_TOKEN",
	"telegram.chat_id":            "TELEGRAM_CHAT_ID",
	"catalog.user_agent":          "USER_AGENT",
	"catalog.base_url":            "TARGET_URL",
	"watch.poll_interval_seconds": "POLL_INTERVAL_SECONDS",
}

// Load loads configuration from .env, environment variables and config files.
// Credentials are required; use LoadWithoutCredentials for commands that never notify.
func Load() (*Config, error) {
	cfg, err := load()
	if err != nil {
		return nil, err
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// LoadWithoutCredentials loads configuration and validates everything but the Telegram credentials
func LoadWithoutCredentials() (*Config, error) {
	cfg, err := load()
	if err != nil {
		return nil, err
	}

	if err := validateWatch(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func load() (*Config, error) {
	if err := loadEnvFile(); err != nil {
		return nil, fmt.Errorf("error reading .env file: %w", err)
	}

	v := viper.New()

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/treasurehunter/")

	// Environment variable settings
	v.SetEnvPrefix("TREASURE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)
	if err := bindEnv(v); err != nil {
		return nil, err
	}

	// Read config file (optional - will use env vars if file doesn't exist)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	return &config, nil
}

// loadEnvFile loads .env from the working directory without overriding existing variables
func loadEnvFile() error {
	err := godotenv.Load(".env")
	if err == nil || errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// bindEnv binds every key to its prefixed variable and, where one exists, its legacy name.
// The prefixed name wins when both are set.
func bindEnv(v *viper.Viper) error {
	for key, legacy := range legacyEnv {
		prefixed := "TREASURE_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		if err := v.BindEnv(key, prefixed, legacy); err != nil {
			return fmt.Errorf("binding %s: %w", key, err)
		}
	}
	return nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.enabled", false)
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:*"})

	// Catalog defaults
	v.SetDefault("catalog.base_url", "https://www.jumia.com.ng")
	v.SetDefault("catalog.search_path", "/catalog/?q=")
	v.SetDefault("catalog.user_agent", "Mozilla/5.0 (compatible; TreasureHunter/3.0)")
	v.SetDefault("catalog.timeout", "12s")
	v.SetDefault("catalog.requests_per_second", 1.0)
	v.SetDefault("catalog.max_results", 0)

	// Telegram defaults
	v.SetDefault("telegram.bot_token", "")
	v.SetDefault("telegram.chat_id", "")
	v.SetDefault("telegram.api_base_url", "https://api.telegram.org")
	v.SetDefault("telegram.parse_mode", "Markdown")
	v.SetDefault("telegram.timeout", "12s")

	// Watch defaults
	v.SetDefault("watch.targets", defaultTargets)
	v.SetDefault("watch.target_delay", "2s")
	v.SetDefault("watch.poll_interval_seconds", 60)

	// Matching defaults
	v.SetDefault("matching.similarity_threshold", 0.55)
	v.SetDefault("matching.token_overlap_threshold", 0.5)
	v.SetDefault("matching.enable_debug_logging", false)
}

// validate validates the configuration
func validate(config *Config) error {
	if config.Telegram.BotToken == "" {
		return fmt.Errorf("%w: Telegram bot token is required (set TELEGRAM_BOT_TOKEN)", domain.ErrMissingCredentials)
	}
	if config.Telegram.ChatID == "" {
		return fmt.Errorf("%w: Telegram chat id is required (set TELEGRAM_CHAT_ID)", domain.ErrMissingCredentials)
	}
	return validateWatch(config)
}

// validateWatch validates everything the watch loop needs besides credentials
func validateWatch(config *Config) error {
	if len(config.Watch.Targets) == 0 {
		return fmt.Errorf("%w: at least one watch target is required", domain.ErrInvalidTarget)
	}
	for _, target := range config.Watch.Targets {
		if err := target.Validate(); err != nil {
			return err
		}
	}

	if config.Watch.TargetDelay < 0 {
		return fmt.Errorf("target delay must not be negative, got: %s", config.Watch.TargetDelay)
	}
	if config.Watch.PollIntervalSeconds < 0 {
		return fmt.Errorf("poll interval must not be negative, got: %d", config.Watch.PollIntervalSeconds)
	}

	if !inUnitRange(config.Matching.SimilarityThreshold) {
		return fmt.Errorf("similarity threshold must be in (0, 1], got: %v", config.Matching.SimilarityThreshold)
	}
	if !inUnitRange(config.Matching.TokenOverlapThreshold) {
		return fmt.Errorf("token overlap threshold must be in (0, 1], got: %v", config.Matching.TokenOverlapThreshold)
	}

	if config.Catalog.BaseURL == "" {
		return fmt.Errorf("catalog base URL is required")
	}

	return nil
}

func inUnitRange(v float64) bool {
	return v > 0 && v <= 1
}
