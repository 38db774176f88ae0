package internal

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, "novaparse.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, t.TempDir(), `
app_name: demo
shell:
  prompt: "sql> "
  format: json
server:
  addr: ":6000"
  cache_size: 8
log:
  level: debug
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "demo", cfg.AppName)
	assert.Equal(t, "sql> ", cfg.Shell.Prompt)
	assert.Equal(t, "json", cfg.Shell.Format)
	assert.Equal(t, ":6000", cfg.Server.Addr)
	assert.Equal(t, 8, cfg.Server.CacheSize)
	assert.Equal(t, "debug", cfg.Log.Level)

	// untouched keys keep their defaults
	assert.Equal(t, 1000, cfg.Shell.HistoryMax)
	assert.False(t, cfg.Server.Debug)
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "novaparse", cfg.AppName)
	assert.Equal(t, "tree", cfg.Shell.Format)
	assert.Equal(t, 256, cfg.Server.CacheSize)
	require.NoError(t, cfg.Validate())
}

func TestLoadConfig_Errors(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read config")

	path := writeConfig(t, t.TempDir(), "shell:\n  format: html\n")
	_, err = LoadConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "shell.format")

	path = writeConfig(t, t.TempDir(), "log:\n  level: loud\n")
	_, err = LoadConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "log.level")
}

func TestParseLogLevel(t *testing.T) {
	lvl, err := ParseLogLevel("warn")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelWarn, lvl)

	lvl, err = ParseLogLevel("DEBUG")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, lvl)
}

func TestWatchConfig(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "shell:\n  format: tree\n")

	changed := make(chan *Config, 16)
	cfg, err := WatchConfig(path, func(c *Config) {
		select {
		case changed <- c:
		default:
		}
	})
	require.NoError(t, err)
	assert.Equal(t, "tree", cfg.Shell.Format)

	require.NoError(t, os.WriteFile(path, []byte("shell:\n  format: yaml\n"), 0o644))

	// a rewrite can surface as several events, the first one possibly seeing
	// a truncated file
	deadline := time.After(5 * time.Second)
	for {
		select {
		case next := <-changed:
			if next.Shell.Format == "yaml" {
				return
			}
		case <-deadline:
			t.Fatal("no reload after rewriting the config file")
		}
	}
}
