package domain

import "time"

// Config represents the application configuration
type Config struct {
	DownloadFolder string             `mapstructure:"download_folder"`
	LibraryPath    string             `mapstructure:"library_path"`
	HistoryPath    string             `mapstructure:"history_path"`
	HTTP           HTTPConfig         `mapstructure:"http"`
	Feed           FeedConfig         `mapstructure:"feed"`
	Server         ServerConfig       `mapstructure:"server"`
	Notification   NotificationConfig `mapstructure:"notification"`
	Logging        LoggingConfig      `mapstructure:"logging"`
}

// HTTPConfig contains transfer-related configuration
type HTTPConfig struct {
	UserAgent  string        `mapstructure:"user_agent"`
	Timeout    time.Duration `mapstructure:"timeout"` // 0 disables the whole-request timeout
	MaxRetries int           `mapstructure:"max_retries"`
	RetryDelay time.Duration `mapstructure:"retry_delay"`
}

// FeedConfig contains feed retrieval configuration
type FeedConfig struct {
	CacheTTL time.Duration `mapstructure:"cache_ttl"`
}

// ServerConfig contains server-related configuration
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

// NotificationConfig contains notification-related configuration
type NotificationConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Method  string `mapstructure:"method"` // osascript, notify-send
}

// LoggingConfig contains logging-related configuration
type LoggingConfig struct {
	Level      string `mapstructure:"level"`       // debug, info, warn, error
	Format     string `mapstructure:"format"`      // json, console
	OutputPath string `mapstructure:"output_path"` // stdout, stderr, or file path
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	return &Config{
		DownloadFolder: "podcasts",
		LibraryPath:    "podcast_library.json",
		HistoryPath:    "podgrab.db",
		HTTP: HTTPConfig{
			UserAgent:  "PodGrabber/1.0",
			Timeout:    0,
			MaxRetries: 2,
			RetryDelay: 2 * time.Second,
		},
		Feed: FeedConfig{
			CacheTTL: 10 * time.Minute,
		},
		Server: ServerConfig{
			Host: "localhost",
			Port: 8080,
		},
		Notification: NotificationConfig{
			Enabled: false,
			Method:  "notify-send",
		},
		Logging: LoggingConfig{
			Level:      "warn",
			Format:     "console",
			OutputPath: "stderr",
		},
	}
}
