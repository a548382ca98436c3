package guildconfig

import (
	"context"
	"fmt"
	"sync"

	"github.com/disgoorg/snowflake/v2"
	"github.com/wardenbot/warden/internal/database/types"
	"go.uber.org/zap"
)

// LogEvent names a moderation event that can be routed to a logging channel.
type LogEvent string

const (
	LogKick   LogEvent = "kick"
	LogBan    LogEvent = "ban"
	LogPurge  LogEvent = "purge"
	LogDelete LogEvent = "delete"
	LogMute   LogEvent = "mute"
)

// Store persists guild settings. Writes must commit before returning so the
// in-memory cache is only ever published after the row is durable.
type Store interface {
	UpsertConfig(ctx context.Context, config *types.GuildConfig) error
	UpsertLogging(ctx context.Context, config *types.LoggingConfig) error
	AllConfigs(ctx context.Context) ([]*types.GuildConfig, error)
	AllLogging(ctx context.Context) ([]*types.LoggingConfig, error)
	DeleteGuild(ctx context.Context, guildID uint64) error
}

// Manager caches per-guild settings in memory. Cached values are treated as
// immutable; updates copy, persist, then swap the published pointer, so
// readers never observe a half-applied change.
type Manager struct {
	store  Store
	logger *zap.Logger

	mu      sync.RWMutex
	configs map[uint64]*types.GuildConfig
	logging map[uint64]*types.LoggingConfig
}

// NewManager creates a manager with an empty cache; call Load before use.
func NewManager(store Store, logger *zap.Logger) *Manager {
	return &Manager{
		store:   store,
		logger:  logger.Named("guild_config"),
		configs: make(map[uint64]*types.GuildConfig),
		logging: make(map[uint64]*types.LoggingConfig),
	}
}

// Load replaces the cache with every stored row.
func (m *Manager) Load(ctx context.Context) error {
	configs, err := m.store.AllConfigs(ctx)
	if err != nil {
		return fmt.Errorf("failed to load guild configs: %w", err)
	}

	logging, err := m.store.AllLogging(ctx)
	if err != nil {
		return fmt.Errorf("failed to load logging configs: %w", err)
	}

	configMap := make(map[uint64]*types.GuildConfig, len(configs))
	for _, config := range configs {
		configMap[config.GuildID] = config
	}

	loggingMap := make(map[uint64]*types.LoggingConfig, len(logging))
	for _, config := range logging {
		loggingMap[config.GuildID] = config
	}

	m.mu.Lock()
	m.configs = configMap
	m.logging = loggingMap
	m.mu.Unlock()

	m.logger.Info("Loaded guild configs",
		zap.Int("configs", len(configMap)),
		zap.Int("logging", len(loggingMap)))

	return nil
}

// Config returns the guild's settings, or zero-valued defaults for guilds
// that never changed anything.
func (m *Manager) Config(guildID snowflake.ID) types.GuildConfig {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if config, ok := m.configs[uint64(guildID)]; ok {
		return *config
	}

	return types.GuildConfig{GuildID: uint64(guildID)}
}

// Logging returns the guild's logging channel assignments.
func (m *Manager) Logging(guildID snowflake.ID) types.LoggingConfig {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if config, ok := m.logging[uint64(guildID)]; ok {
		return *config
	}

	return types.LoggingConfig{GuildID: uint64(guildID)}
}

// LogChannel returns the channel configured for an event, or 0 if unset.
func (m *Manager) LogChannel(guildID snowflake.ID, event LogEvent) snowflake.ID {
	config := m.Logging(guildID)

	switch event {
	case LogKick:
		return snowflake.ID(config.KickChannel)
	case LogBan:
		return snowflake.ID(config.BanChannel)
	case LogPurge:
		return snowflake.ID(config.PurgeChannel)
	case LogDelete:
		return snowflake.ID(config.DeleteChannel)
	case LogMute:
		return snowflake.ID(config.MuteChannel)
	default:
		return 0
	}
}

// SetPrefix updates the guild's command prefix.
func (m *Manager) SetPrefix(ctx context.Context, guildID snowflake.ID, prefix string) error {
	return m.updateConfig(ctx, guildID, func(config *types.GuildConfig) {
		config.Prefix = prefix
	})
}

// SetSnipe toggles the deleted-message cache for the guild.
func (m *Manager) SetSnipe(ctx context.Context, guildID snowflake.ID, enabled bool) error {
	return m.updateConfig(ctx, guildID, func(config *types.GuildConfig) {
		config.Snipe = enabled
	})
}

// SetMuteRole updates the role applied by mute actions; 0 clears it.
func (m *Manager) SetMuteRole(ctx context.Context, guildID snowflake.ID, roleID snowflake.ID) error {
	return m.updateConfig(ctx, guildID, func(config *types.GuildConfig) {
		config.MuteRole = uint64(roleID)
	})
}

// SetLogChannel routes an event's summaries to a channel; 0 disables it.
func (m *Manager) SetLogChannel(
	ctx context.Context, guildID snowflake.ID, event LogEvent, channelID snowflake.ID,
) error {
	updated := m.Logging(guildID)

	switch event {
	case LogKick:
		updated.KickChannel = uint64(channelID)
	case LogBan:
		updated.BanChannel = uint64(channelID)
	case LogPurge:
		updated.PurgeChannel = uint64(channelID)
	case LogDelete:
		updated.DeleteChannel = uint64(channelID)
	case LogMute:
		updated.MuteChannel = uint64(channelID)
	default:
		return fmt.Errorf("unknown log event %q", event)
	}

	if err := m.store.UpsertLogging(ctx, &updated); err != nil {
		return fmt.Errorf("failed to store logging config: %w", err)
	}

	m.mu.Lock()
	m.logging[uint64(guildID)] = &updated
	m.mu.Unlock()

	return nil
}

// Forget drops a guild the bot can no longer see from the store and cache.
func (m *Manager) Forget(ctx context.Context, guildID snowflake.ID) error {
	if err := m.store.DeleteGuild(ctx, uint64(guildID)); err != nil {
		return fmt.Errorf("failed to delete guild rows: %w", err)
	}

	m.mu.Lock()
	delete(m.configs, uint64(guildID))
	delete(m.logging, uint64(guildID))
	m.mu.Unlock()

	m.logger.Debug("Forgot guild", zap.Uint64("guildID", uint64(guildID)))

	return nil
}

// updateConfig copies the current settings, applies the mutation, persists
// the row, then publishes the copy.
func (m *Manager) updateConfig(
	ctx context.Context, guildID snowflake.ID, mutate func(*types.GuildConfig),
) error {
	updated := m.Config(guildID)
	mutate(&updated)

	if err := m.store.UpsertConfig(ctx, &updated); err != nil {
		return fmt.Errorf("failed to store guild config: %w", err)
	}

	m.mu.Lock()
	m.configs[uint64(guildID)] = &updated
	m.mu.Unlock()

	return nil
}
