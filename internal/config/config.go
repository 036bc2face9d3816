package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	API     APIConfig     `mapstructure:"api"`
	Data    DataConfig    `mapstructure:"data"`
	Player  PlayerConfig  `mapstructure:"player"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// APIConfig holds directory API configuration
type APIConfig struct {
	Mirrors      []string      `mapstructure:"mirrors"`       // Ordered mirror base URLs
	CacheTTL     time.Duration `mapstructure:"cache_ttl"`     // Response cache validity window
	ProbeTimeout time.Duration `mapstructure:"probe_timeout"` // Per-mirror health probe timeout
}

// DataConfig holds local persistence configuration
type DataConfig struct {
	Dir string `mapstructure:"dir"` // Directory for the user-data database
}

// PlayerConfig holds playback configuration
type PlayerConfig struct {
	Volume int `mapstructure:"volume"` // Initial volume (0-100) when none is persisted
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

// defaultMirrors is the fixed list of Radio Browser API mirrors, probed in order.
var defaultMirrors = []string{
	"https://de1.api.radio-browser.info/json",
	"https://fr1.api.radio-browser.info/json",
	"https://at1.api.radio-browser.info/json",
	"https://nl1.api.radio-browser.info/json",
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		API: APIConfig{
			Mirrors:      defaultMirrors,
			CacheTTL:     5 * time.Minute,
			ProbeTimeout: 2 * time.Second,
		},
		Data: DataConfig{
			Dir: defaultDataPath(),
		},
		Player: PlayerConfig{
			Volume: 100,
		},
		Logging: LoggingConfig{
			File:  defaultLogPath(),
			Level: "INFO",
		},
	}
}

// defaultLogPath returns the default log file path for the current OS
func defaultLogPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "airwave", "airwave.log")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", "airwave", "airwave.log")
	}
}

// defaultDataPath returns the default user-data directory for the current OS
func defaultDataPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("LOCALAPPDATA"), "airwave")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", "airwave")
	}
}

// defaultConfigPath returns the default config file path for the current OS
func defaultConfigPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "airwave")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "airwave")
	}
}

// LoadConfig loads configuration from file and environment
func LoadConfig() (*Config, error) {
	cfg := DefaultConfig()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(defaultConfigPath())
	viper.AddConfigPath(".")

	// Environment variable overrides
	viper.SetEnvPrefix("AIRWAVE")
	viper.AutomaticEnv()

	// Read config file if it exists
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, use defaults
	}

	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	if len(cfg.API.Mirrors) == 0 {
		cfg.API.Mirrors = defaultMirrors
	}
	if cfg.API.CacheTTL <= 0 {
		cfg.API.CacheTTL = 5 * time.Minute
	}
	if cfg.API.ProbeTimeout <= 0 {
		cfg.API.ProbeTimeout = 2 * time.Second
	}

	return cfg, nil
}

// SaveConfig saves the current configuration to file
func SaveConfig(cfg *Config) error {
	configPath := defaultConfigPath()

	if err := os.MkdirAll(configPath, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	viper.Set("api.mirrors", cfg.API.Mirrors)
	viper.Set("api.cache_ttl", cfg.API.CacheTTL)
	viper.Set("api.probe_timeout", cfg.API.ProbeTimeout)
	viper.Set("data.dir", cfg.Data.Dir)
	viper.Set("player.volume", cfg.Player.Volume)
	viper.Set("logging.file", cfg.Logging.File)
	viper.Set("logging.level", cfg.Logging.Level)

	configFile := filepath.Join(configPath, "config.yaml")
	if err := viper.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
