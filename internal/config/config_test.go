package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	t.Run("Should apply defaults when only the secret is set", func(t *testing.T) {
		t.Setenv("SESSION_SECRET", "s3cret")
		cfg, err := LoadConfig(t.TempDir())
		require.NoError(t, err)
		assert.Equal(t, "127.0.0.1:8080", cfg.Server.Address)
		assert.Equal(t, "http://localhost:5000", cfg.Remote.BaseURL)
		assert.Equal(t, time.Duration(0), cfg.Remote.Timeout)
		assert.Equal(t, DriverBadger, cfg.Storage.Driver)
		assert.Equal(t, SourceLocal, cfg.DBManager.Source)
		assert.Equal(t, "s3cret", cfg.Session.Secret)
	})
	t.Run("Should read config.yaml and let env override it", func(t *testing.T) {
		dir := t.TempDir()
		yaml := "remote:\n  base_url: http://backend:5000\n  timeout: 3s\nsession:\n  secret: from-file\n  ttl: 24h\nstorage:\n  driver: memory\n"
		require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o600))
		t.Setenv("DBMANAGER_SOURCE", "remote")
		cfg, err := LoadConfig(dir)
		require.NoError(t, err)
		assert.Equal(t, "http://backend:5000", cfg.Remote.BaseURL)
		assert.Equal(t, 3*time.Second, cfg.Remote.Timeout)
		assert.Equal(t, 24*time.Hour, cfg.Session.TTL)
		assert.Equal(t, DriverMemory, cfg.Storage.Driver)
		assert.Equal(t, SourceRemote, cfg.DBManager.Source)
	})
	t.Run("Should load values from a .env file", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("SESSION_SECRET=dotenv\n"), 0o600))
		t.Setenv("SESSION_SECRET", "") // restored after the test
		require.NoError(t, os.Unsetenv("SESSION_SECRET"))
		cfg, err := LoadConfig(dir)
		require.NoError(t, err)
		assert.Equal(t, "dotenv", cfg.Session.Secret)
	})
	t.Run("Should reject a missing secret", func(t *testing.T) {
		t.Setenv("SESSION_SECRET", "")
		_, err := LoadConfig(t.TempDir())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "session.secret")
	})
	t.Run("Should reject an unknown db manager source", func(t *testing.T) {
		t.Setenv("SESSION_SECRET", "x")
		t.Setenv("DBMANAGER_SOURCE", "both")
		_, err := LoadConfig(t.TempDir())
		require.Error(t, err)
	})
}
