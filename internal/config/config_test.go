package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	t.Parallel()
	require := require.New(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(err)
	require.Equal(DefaultConfig(), cfg)
}

func TestLoadOverridesDefaults(t *testing.T) {
	t.Parallel()
	require := require.New(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte(`
server:
  http_port: 8088
  webdav_port: 8089
library:
  folder: /srv/videos
playback:
  decode_timeout: 5
log:
  level: debug
`)
	require.NoError(os.WriteFile(path, data, 0644))

	cfg, err := Load(path)
	require.NoError(err)
	require.Equal(8088, cfg.Server.HTTPPort)
	require.Equal(8089, cfg.Server.WebDAVPort)
	require.Equal("/srv/videos", cfg.Library.Folder)
	require.Equal("./data/uploads", cfg.Library.SpoolDir, "unset keys keep defaults")
	require.Equal(5*time.Second, cfg.DecodeTimeout())
	require.Equal(slog.LevelDebug, cfg.SlogLevel())
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		yaml string
	}{
		{"bad port", "server:\n  http_port: 70000\n"},
		{"negative webdav port", "server:\n  webdav_port: -1\n"},
		{"auth without user", "server:\n  auth:\n    enabled: true\n"},
		{"zero timeout", "playback:\n  decode_timeout: 0\n"},
		{"zero subtitle limit", "playback:\n  max_subtitle_bytes: 0\n"},
		{"malformed", "server: [\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.yaml), 0644))

			_, err := Load(path)
			require.Error(t, err)
		})
	}
}

func TestEnsureDirectories(t *testing.T) {
	t.Parallel()
	require := require.New(t)

	cfg := DefaultConfig()
	cfg.Library.SpoolDir = filepath.Join(t.TempDir(), "spool", "nested")
	require.NoError(cfg.EnsureDirectories())

	info, err := os.Stat(cfg.Library.SpoolDir)
	require.NoError(err)
	require.True(info.IsDir())
}

func TestSlogLevel(t *testing.T) {
	tests := []struct {
		level string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"WARN", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}

	for _, tt := range tests {
		cfg := DefaultConfig()
		cfg.Log.Level = tt.level
		if got := cfg.SlogLevel(); got != tt.want {
			t.Errorf("SlogLevel(%q) = %v, want %v", tt.level, got, tt.want)
		}
	}
}
