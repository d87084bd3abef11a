package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Library  LibraryConfig  `yaml:"library"`
	Playback PlaybackConfig `yaml:"playback"`
	Log      LogConfig      `yaml:"log"`
}

type ServerConfig struct {
	HTTPPort       int        `yaml:"http_port"`
	WebDAVPort     int        `yaml:"webdav_port"`  // 0 disables the WebDAV share
	MetricsPort    int        `yaml:"metrics_port"` // 0 disables /metrics
	AllowedOrigins []string   `yaml:"allowed_origins"`
	Auth           AuthConfig `yaml:"auth"`
}

// AuthConfig guards both the REST API and the WebDAV share with HTTP basic auth.
type AuthConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

type LibraryConfig struct {
	Folder      string `yaml:"folder"`    // loaded at startup when set
	SpoolDir    string `yaml:"spool_dir"` // temp area for folder uploads
	MaxUploadMB int64  `yaml:"max_upload_mb"`
}

type PlaybackConfig struct {
	DecodeTimeout    int   `yaml:"decode_timeout"` // seconds
	MaxSubtitleBytes int64 `yaml:"max_subtitle_bytes"`
}

type LogConfig struct {
	Level      string `yaml:"level"`
	File       string `yaml:"file"`        // empty logs to stdout
	MaxSizeMB  int    `yaml:"max_size_mb"` // rotation threshold for File
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
}

// DefaultConfig returns configuration with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort:       4545,
			AllowedOrigins: []string{"*"},
		},
		Library: LibraryConfig{
			SpoolDir:    "./data/uploads",
			MaxUploadMB: 8192,
		},
		Playback: PlaybackConfig{
			DecodeTimeout:    30,
			MaxSubtitleBytes: 5 * 1024 * 1024,
		},
		Log: LogConfig{
			Level:      "info",
			MaxSizeMB:  50,
			MaxBackups: 3,
			MaxAgeDays: 14,
		},
	}
}

// Load reads configuration from a YAML file
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil // Use defaults if no config file
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate rejects values the servers cannot start with.
func (c *Config) Validate() error {
	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		return fmt.Errorf("invalid server.http_port: %d", c.Server.HTTPPort)
	}
	for name, port := range map[string]int{
		"server.webdav_port":  c.Server.WebDAVPort,
		"server.metrics_port": c.Server.MetricsPort,
	} {
		if port < 0 || port > 65535 {
			return fmt.Errorf("invalid %s: %d", name, port)
		}
	}
	if c.Server.Auth.Enabled && c.Server.Auth.Username == "" {
		return fmt.Errorf("server.auth.enabled requires a username")
	}
	if c.Library.SpoolDir == "" {
		return fmt.Errorf("library.spool_dir must not be empty")
	}
	if c.Library.MaxUploadMB <= 0 {
		return fmt.Errorf("invalid library.max_upload_mb: %d", c.Library.MaxUploadMB)
	}
	if c.Playback.DecodeTimeout <= 0 {
		return fmt.Errorf("invalid playback.decode_timeout: %d", c.Playback.DecodeTimeout)
	}
	if c.Playback.MaxSubtitleBytes <= 0 {
		return fmt.Errorf("invalid playback.max_subtitle_bytes: %d", c.Playback.MaxSubtitleBytes)
	}
	return nil
}

// EnsureDirectories creates required directories
func (c *Config) EnsureDirectories() error {
	if err := os.MkdirAll(c.Library.SpoolDir, 0755); err != nil {
		return fmt.Errorf("failed to create spool dir: %w", err)
	}
	return nil
}

// DecodeTimeout returns the subtitle decode deadline.
func (c *Config) DecodeTimeout() time.Duration {
	return time.Duration(c.Playback.DecodeTimeout) * time.Second
}

// MaxUploadBytes returns the folder upload size limit in bytes.
func (c *Config) MaxUploadBytes() int64 {
	return c.Library.MaxUploadMB << 20
}

// SlogLevel maps log.level onto slog levels, defaulting to info.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(strings.TrimSpace(c.Log.Level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
