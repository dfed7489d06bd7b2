package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	require.NoError(t, cfg.Validate())
	assert.Equal(t, int64(10<<20), cfg.Engine.MaxInputBytes)
	assert.Equal(t, "memory", cfg.Store.Backend)

	open, page, total := cfg.Engine.Durations()
	assert.Equal(t, 5*time.Second, open)
	assert.Equal(t, 3*time.Second, page)
	assert.Equal(t, 15*time.Second, total)
}

func TestParse(t *testing.T) {
	cfg, err := Parse(`
[engine]
max-input-bytes = 2048
total-timeout = 20s

[store]
backend = redis
redis-addr = cache:6379
redis-db = 2

[log]
level = debug
json = true
`)
	require.NoError(t, err)

	assert.Equal(t, int64(2048), cfg.Engine.MaxInputBytes)
	assert.Equal(t, "5s", cfg.Engine.OpenTimeout, "unset keys keep defaults")
	assert.Equal(t, "20s", cfg.Engine.TotalTimeout)
	assert.Equal(t, "redis", cfg.Store.Backend)
	assert.Equal(t, "cache:6379", cfg.Store.RedisAddr)
	assert.Equal(t, 2, cfg.Store.RedisDB)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.True(t, cfg.Log.JSON)
}

func TestParseInvalid(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"bad duration", "[engine]\npage-timeout = soon\n"},
		{"negative duration", "[engine]\npage-timeout = -1s\n"},
		{"zero size", "[engine]\nmax-input-bytes = 0\n"},
		{"unknown section", "[nowhere]\nkey = value\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.text)
			assert.Error(t, err)
		})
	}
}

func TestLoad(t *testing.T) {
	t.Run("empty filename uses defaults", func(t *testing.T) {
		cfg, err := Load("")
		require.NoError(t, err)
		assert.Equal(t, Default(), cfg)
	})

	t.Run("reads file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "importer.ini")
		require.NoError(t, os.WriteFile(path, []byte("[server]\naddr = :9090\n"), 0o644))

		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, ":9090", cfg.Server.Addr)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "absent.ini"))
		assert.Error(t, err)
	})
}
