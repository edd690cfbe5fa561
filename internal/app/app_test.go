package app

import (
	"context"
	"testing"

	"fitwise/fitness-client/internal/cache"
	"fitwise/fitness-client/internal/config"
	"fitwise/fitness-client/internal/domain"
	"fitwise/fitness-client/internal/logger"
	"fitwise/fitness-client/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(source string) config.Config {
	return config.Config{
		Remote:    config.RemoteConfig{BaseURL: "http://127.0.0.1:1"},
		Storage:   config.StorageConfig{Driver: config.DriverMemory},
		Session:   config.SessionConfig{Secret: "test"},
		DBManager: config.DBManagerConfig{Source: source},
	}
}

func TestNew(t *testing.T) {
	a, err := New(context.Background(), testConfig(config.SourceLocal), logger.Discard())
	require.NoError(t, err)
	defer a.Close()

	assert.Equal(t, domain.RoleAnonymous, a.Auth.Current().Role)
	assert.Equal(t, cache.StatusSeeded, a.Cache.Status())
	assert.Equal(t, config.SourceLocal, a.DBManager.Source())
	assert.NotEmpty(t, a.DBManager.Notice())
}

func TestRestartRestoresSessionAndCache(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()

	first, err := NewWithStore(ctx, testConfig(config.SourceLocal), store, logger.Discard())
	require.NoError(t, err)
	_, err = first.Auth.Login(ctx, domain.RoleDBManager, "dbmanager@gmail.com", "db123")
	require.NoError(t, err)
	require.NoError(t, first.DBManager.DeleteUser(ctx, 1))

	second, err := NewWithStore(ctx, testConfig(config.SourceLocal), store, logger.Discard())
	require.NoError(t, err)
	assert.Equal(t, domain.RoleDBManager, second.Auth.Current().Role)
	assert.Equal(t, cache.StatusRestored, second.Cache.Status())
	assert.Empty(t, second.DBManager.Notice())
	users, err := second.DBManager.ListUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 5)
}

func TestRemoteSourceUsesTheBackend(t *testing.T) {
	ctx := context.Background()
	a, err := NewWithStore(ctx, testConfig(config.SourceRemote), storage.NewMemoryStore(), logger.Discard())
	require.NoError(t, err)

	assert.Equal(t, config.SourceRemote, a.DBManager.Source())
	assert.Empty(t, a.DBManager.Notice())
	_, err = a.DBManager.ListUsers(ctx)
	assert.ErrorIs(t, err, domain.ErrRemoteUnreachable)
}
