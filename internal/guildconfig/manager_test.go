package guildconfig_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wardenbot/warden/internal/database/types"
	"github.com/wardenbot/warden/internal/guildconfig"
	"go.uber.org/zap"
)

// memoryStore backs the manager with maps and an optional injected failure.
type memoryStore struct {
	mu        sync.Mutex
	configs   map[uint64]types.GuildConfig
	logging   map[uint64]types.LoggingConfig
	upsertErr error
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		configs: make(map[uint64]types.GuildConfig),
		logging: make(map[uint64]types.LoggingConfig),
	}
}

func (s *memoryStore) UpsertConfig(_ context.Context, config *types.GuildConfig) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.upsertErr != nil {
		return s.upsertErr
	}

	s.configs[config.GuildID] = *config

	return nil
}

func (s *memoryStore) UpsertLogging(_ context.Context, config *types.LoggingConfig) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.upsertErr != nil {
		return s.upsertErr
	}

	s.logging[config.GuildID] = *config

	return nil
}

func (s *memoryStore) AllConfigs(_ context.Context) ([]*types.GuildConfig, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows := make([]*types.GuildConfig, 0, len(s.configs))
	for _, config := range s.configs {
		clone := config
		rows = append(rows, &clone)
	}

	return rows, nil
}

func (s *memoryStore) AllLogging(_ context.Context) ([]*types.LoggingConfig, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows := make([]*types.LoggingConfig, 0, len(s.logging))
	for _, config := range s.logging {
		clone := config
		rows = append(rows, &clone)
	}

	return rows, nil
}

func (s *memoryStore) DeleteGuild(_ context.Context, guildID uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.configs, guildID)
	delete(s.logging, guildID)

	return nil
}

func TestManagerDefaultsForUnknownGuild(t *testing.T) {
	t.Parallel()

	m := guildconfig.NewManager(newMemoryStore(), zap.NewNop())

	config := m.Config(123)
	assert.Equal(t, uint64(123), config.GuildID)
	assert.Empty(t, config.Prefix)
	assert.False(t, config.Snipe)
	assert.Zero(t, config.MuteRole)

	assert.Zero(t, m.LogChannel(123, guildconfig.LogBan))
}

func TestManagerUpdatePersistsBeforePublishing(t *testing.T) {
	t.Parallel()

	store := newMemoryStore()
	m := guildconfig.NewManager(store, zap.NewNop())

	require.NoError(t, m.SetPrefix(context.Background(), 123, "!"))
	require.NoError(t, m.SetSnipe(context.Background(), 123, true))
	require.NoError(t, m.SetMuteRole(context.Background(), 123, 456))

	config := m.Config(123)
	assert.Equal(t, "!", config.Prefix)
	assert.True(t, config.Snipe)
	assert.Equal(t, uint64(456), config.MuteRole)

	stored := store.configs[123]
	assert.Equal(t, config, stored)
}

func TestManagerFailedWriteLeavesCacheUntouched(t *testing.T) {
	t.Parallel()

	store := newMemoryStore()
	m := guildconfig.NewManager(store, zap.NewNop())

	require.NoError(t, m.SetPrefix(context.Background(), 123, "!"))

	store.upsertErr = errors.New("connection lost")

	err := m.SetPrefix(context.Background(), 123, "?")
	require.Error(t, err)

	// Readers keep seeing the last durable value.
	assert.Equal(t, "!", m.Config(123).Prefix)
}

func TestManagerLogChannels(t *testing.T) {
	t.Parallel()

	m := guildconfig.NewManager(newMemoryStore(), zap.NewNop())

	require.NoError(t, m.SetLogChannel(context.Background(), 123, guildconfig.LogBan, 777))
	require.NoError(t, m.SetLogChannel(context.Background(), 123, guildconfig.LogKick, 888))

	assert.Equal(t, uint64(777), uint64(m.LogChannel(123, guildconfig.LogBan)))
	assert.Equal(t, uint64(888), uint64(m.LogChannel(123, guildconfig.LogKick)))
	assert.Zero(t, m.LogChannel(123, guildconfig.LogMute))

	// Clearing sets the channel back to 0.
	require.NoError(t, m.SetLogChannel(context.Background(), 123, guildconfig.LogBan, 0))
	assert.Zero(t, m.LogChannel(123, guildconfig.LogBan))

	err := m.SetLogChannel(context.Background(), 123, guildconfig.LogEvent("bogus"), 1)
	require.Error(t, err)
}

func TestManagerLoadReplacesCache(t *testing.T) {
	t.Parallel()

	store := newMemoryStore()
	store.configs[123] = types.GuildConfig{GuildID: 123, Prefix: ";", Snipe: true}
	store.logging[123] = types.LoggingConfig{GuildID: 123, BanChannel: 777}

	m := guildconfig.NewManager(store, zap.NewNop())
	require.NoError(t, m.Load(context.Background()))

	assert.Equal(t, ";", m.Config(123).Prefix)
	assert.True(t, m.Config(123).Snipe)
	assert.Equal(t, uint64(777), uint64(m.LogChannel(123, guildconfig.LogBan)))
}

func TestManagerForget(t *testing.T) {
	t.Parallel()

	store := newMemoryStore()
	m := guildconfig.NewManager(store, zap.NewNop())

	require.NoError(t, m.SetPrefix(context.Background(), 123, "!"))
	require.NoError(t, m.SetLogChannel(context.Background(), 123, guildconfig.LogBan, 777))

	require.NoError(t, m.Forget(context.Background(), 123))

	assert.Empty(t, m.Config(123).Prefix)
	assert.Zero(t, m.LogChannel(123, guildconfig.LogBan))
	assert.Empty(t, store.configs)
	assert.Empty(t, store.logging)
}
