package models

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
	"github.com/wardenbot/warden/internal/database/dbretry"
	"github.com/wardenbot/warden/internal/database/types"
	"go.uber.org/zap"
)

// GuildConfigModel handles database operations for per-guild settings.
type GuildConfigModel struct {
	db     *bun.DB
	logger *zap.Logger
}

// NewGuildConfig creates a new guild config model instance.
func NewGuildConfig(db *bun.DB, logger *zap.Logger) *GuildConfigModel {
	return &GuildConfigModel{
		db:     db,
		logger: logger.Named("db_guild_config"),
	}
}

// UpsertConfig writes a guild's settings, replacing any existing row.
func (m *GuildConfigModel) UpsertConfig(ctx context.Context, config *types.GuildConfig) error {
	err := dbretry.NoResult(ctx, func(ctx context.Context) error {
		_, err := m.db.NewInsert().
			Model(config).
			On("CONFLICT (guild_id) DO UPDATE").
			Set("prefix = EXCLUDED.prefix").
			Set("snipe = EXCLUDED.snipe").
			Set("mute_role = EXCLUDED.mute_role").
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to upsert guild config: %w", err)
		}

		return nil
	})
	if err != nil {
		return err
	}

	m.logger.Debug("Upserted guild config", zap.Uint64("guildID", config.GuildID))

	return nil
}

// UpsertLogging writes a guild's logging channels, replacing any existing row.
func (m *GuildConfigModel) UpsertLogging(ctx context.Context, config *types.LoggingConfig) error {
	err := dbretry.NoResult(ctx, func(ctx context.Context) error {
		_, err := m.db.NewInsert().
			Model(config).
			On("CONFLICT (guild_id) DO UPDATE").
			Set("kick_channel = EXCLUDED.kick_channel").
			Set("ban_channel = EXCLUDED.ban_channel").
			Set("purge_channel = EXCLUDED.purge_channel").
			Set("delete_channel = EXCLUDED.delete_channel").
			Set("mute_channel = EXCLUDED.mute_channel").
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to upsert logging config: %w", err)
		}

		return nil
	})
	if err != nil {
		return err
	}

	m.logger.Debug("Upserted logging config", zap.Uint64("guildID", config.GuildID))

	return nil
}

// AllConfigs returns every stored guild config.
func (m *GuildConfigModel) AllConfigs(ctx context.Context) ([]*types.GuildConfig, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) ([]*types.GuildConfig, error) {
		var configs []*types.GuildConfig

		err := m.db.NewSelect().Model(&configs).Scan(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to get guild configs: %w", err)
		}

		return configs, nil
	})
}

// AllLogging returns every stored logging config.
func (m *GuildConfigModel) AllLogging(ctx context.Context) ([]*types.LoggingConfig, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) ([]*types.LoggingConfig, error) {
		var configs []*types.LoggingConfig

		err := m.db.NewSelect().Model(&configs).Scan(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to get logging configs: %w", err)
		}

		return configs, nil
	})
}

// DeleteGuild removes both config rows for a guild the bot can no longer see.
func (m *GuildConfigModel) DeleteGuild(ctx context.Context, guildID uint64) error {
	return dbretry.NoResult(ctx, func(ctx context.Context) error {
		if _, err := m.db.NewDelete().
			Model((*types.GuildConfig)(nil)).
			Where("guild_id = ?", guildID).
			Exec(ctx); err != nil {
			return fmt.Errorf("failed to delete guild config: %w", err)
		}

		if _, err := m.db.NewDelete().
			Model((*types.LoggingConfig)(nil)).
			Where("guild_id = ?", guildID).
			Exec(ctx); err != nil {
			return fmt.Errorf("failed to delete logging config: %w", err)
		}

		return nil
	})
}
