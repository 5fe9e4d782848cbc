package app

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"github.com/yourusername/podgrab-go/internal/domain"
)

// DefaultConfigPath is the config file used when none is given
const DefaultConfigPath = "config.json"

// LoadConfig loads configuration from file and environment.
// A missing config file is created holding only the default download folder.
func LoadConfig(configPath string) (*domain.Config, error) {
	if configPath == "" {
		configPath = DefaultConfigPath
	}

	// Start with default config
	config := domain.DefaultConfig()

	if err := initializeConfigFile(configPath, config.DownloadFolder); err != nil {
		return nil, err
	}

	// Set up viper
	v := viper.New()
	v.SetConfigType("json")
	v.SetConfigFile(configPath)
	setDefaults(v, config)

	// Read environment variables
	v.SetEnvPrefix("PODGRAB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Unmarshal into config struct
	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Expand environment variables in paths
	config = expandPaths(config)

	// Validate config
	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// initializeConfigFile writes {"download_folder": ...} when path does not exist yet
func initializeConfigFile(path, folder string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to stat config file: %w", err)
	}

	v := viper.New()
	v.SetConfigType("json")
	v.Set("download_folder", folder)

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("failed to write default config file: %w", err)
	}
	return nil
}

// setDefaults registers every key so environment overrides apply on Unmarshal
func setDefaults(v *viper.Viper, config *domain.Config) {
	v.SetDefault("download_folder", config.DownloadFolder)
	v.SetDefault("library_path", config.LibraryPath)
	v.SetDefault("history_path", config.HistoryPath)
	v.SetDefault("http.user_agent", config.HTTP.UserAgent)
	v.SetDefault("http.timeout", config.HTTP.Timeout)
	v.SetDefault("http.max_retries", config.HTTP.MaxRetries)
	v.SetDefault("http.retry_delay", config.HTTP.RetryDelay)
	v.SetDefault("feed.cache_ttl", config.Feed.CacheTTL)
	v.SetDefault("server.host", config.Server.Host)
	v.SetDefault("server.port", config.Server.Port)
	v.SetDefault("notification.enabled", config.Notification.Enabled)
	v.SetDefault("notification.method", config.Notification.Method)
	v.SetDefault("logging.level", config.Logging.Level)
	v.SetDefault("logging.format", config.Logging.Format)
	v.SetDefault("logging.output_path", config.Logging.OutputPath)
}

// expandPaths expands environment variables in path configurations
func expandPaths(config *domain.Config) *domain.Config {
	config.DownloadFolder = expandPath(config.DownloadFolder)
	config.LibraryPath = expandPath(config.LibraryPath)
	config.HistoryPath = expandPath(config.HistoryPath)

	if config.Logging.OutputPath != "stdout" && config.Logging.OutputPath != "stderr" {
		config.Logging.OutputPath = expandPath(config.Logging.OutputPath)
	}

	return config
}

// expandPath expands environment variables and ~ in paths
func expandPath(path string) string {
	// Expand environment variables
	path = os.ExpandEnv(path)

	// Expand home directory
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			path = filepath.Join(home, path[2:])
		}
	}

	return path
}

// validateConfig validates the configuration
func validateConfig(config *domain.Config) error {
	if strings.TrimSpace(config.DownloadFolder) == "" {
		return fmt.Errorf("download folder not configured")
	}

	if config.LibraryPath == "" {
		return fmt.Errorf("library path not configured")
	}

	if config.HTTP.MaxRetries < 0 {
		return fmt.Errorf("max retries cannot be negative")
	}

	if config.HTTP.RetryDelay < 0 {
		return fmt.Errorf("retry delay cannot be negative")
	}

	if config.Server.Port < 1 || config.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", config.Server.Port)
	}

	if config.HTTP.UserAgent == "" {
		config.HTTP.UserAgent = domain.DefaultConfig().HTTP.UserAgent
	}

	if config.Logging.Level == "" {
		config.Logging.Level = "warn"
	}

	return nil
}

// SaveConfig saves configuration to file
func SaveConfig(config *domain.Config, path string) error {
	v := viper.New()
	v.SetConfigType("json")

	v.Set("download_folder", config.DownloadFolder)
	v.Set("library_path", config.LibraryPath)
	v.Set("history_path", config.HistoryPath)
	v.Set("http.user_agent", config.HTTP.UserAgent)
	v.Set("http.timeout", config.HTTP.Timeout.String())
	v.Set("http.max_retries", config.HTTP.MaxRetries)
	v.Set("http.retry_delay", config.HTTP.RetryDelay.String())
	v.Set("feed.cache_ttl", config.Feed.CacheTTL.String())
	v.Set("server.host", config.Server.Host)
	v.Set("server.port", config.Server.Port)
	v.Set("notification.enabled", config.Notification.Enabled)
	v.Set("notification.method", config.Notification.Method)
	v.Set("logging.level", config.Logging.Level)
	v.Set("logging.format", config.Logging.Format)
	v.Set("logging.output_path", config.Logging.OutputPath)

	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Write config file
	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
