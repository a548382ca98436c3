package models

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
	"github.com/wardenbot/warden/internal/database/dbretry"
	"github.com/wardenbot/warden/internal/database/types"
	"go.uber.org/zap"
)

// BatchLogModel handles database operations for batch action audit logs.
type BatchLogModel struct {
	db     *bun.DB
	logger *zap.Logger
}

// NewBatchLog creates a new batch log model instance.
func NewBatchLog(db *bun.DB, logger *zap.Logger) *BatchLogModel {
	return &BatchLogModel{
		db:     db,
		logger: logger.Named("db_batch_log"),
	}
}

// Log stores a completed batch action.
func (m *BatchLogModel) Log(ctx context.Context, log *types.BatchActionLog) error {
	err := dbretry.NoResult(ctx, func(ctx context.Context) error {
		_, err := m.db.NewInsert().Model(log).Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to log batch action: %w", err)
		}

		return nil
	})
	if err != nil {
		return err
	}

	m.logger.Debug("Logged batch action",
		zap.Uint64("guildID", log.GuildID),
		zap.Uint64("actorID", log.ActorID),
		zap.String("verb", log.Verb),
		zap.Int("succeeded", log.SucceededCount),
		zap.Int("failed", log.FailedCount))

	return nil
}

// Recent returns the latest batch actions for a guild, newest first.
func (m *BatchLogModel) Recent(ctx context.Context, guildID uint64, limit int) ([]*types.BatchActionLog, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) ([]*types.BatchActionLog, error) {
		var logs []*types.BatchActionLog

		err := m.db.NewSelect().
			Model(&logs).
			Where("guild_id = ?", guildID).
			Order("timestamp DESC").
			Limit(limit).
			Scan(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to get batch action logs: %w", err)
		}

		return logs, nil
	})
}
