package database

import (
	"github.com/uptrace/bun"
	"github.com/wardenbot/warden/internal/database/models"
	"go.uber.org/zap"
)

// Repository provides access to all database models.
type Repository struct {
	reminder    *models.ReminderModel
	guildConfig *models.GuildConfigModel
	batchLog    *models.BatchLogModel
}

// NewRepository creates a new repository instance with all models.
func NewRepository(db *bun.DB, logger *zap.Logger) *Repository {
	return &Repository{
		reminder:    models.NewReminder(db, logger),
		guildConfig: models.NewGuildConfig(db, logger),
		batchLog:    models.NewBatchLog(db, logger),
	}
}

// Reminder returns the reminder model repository.
func (r *Repository) Reminder() *models.ReminderModel {
	return r.reminder
}

// GuildConfig returns the guild config model repository.
func (r *Repository) GuildConfig() *models.GuildConfigModel {
	return r.guildConfig
}

// BatchLog returns the batch action log model repository.
func (r *Repository) BatchLog() *models.BatchLogModel {
	return r.batchLog
}
