package models

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
	"github.com/wardenbot/warden/internal/database/dbretry"
	"github.com/wardenbot/warden/internal/database/types"
	"go.uber.org/zap"
)

// ReminderModel handles database operations for pending reminders.
type ReminderModel struct {
	db     *bun.DB
	logger *zap.Logger
}

// NewReminder creates a new reminder model instance.
func NewReminder(db *bun.DB, logger *zap.Logger) *ReminderModel {
	return &ReminderModel{
		db:     db,
		logger: logger.Named("db_reminder"),
	}
}

// Insert persists a reminder row and fills in its assigned identifier.
// The statement commits before returning, so a crash right after creation
// cannot lose the reminder.
func (m *ReminderModel) Insert(ctx context.Context, reminder *types.Reminder) error {
	err := dbretry.NoResult(ctx, func(ctx context.Context) error {
		_, err := m.db.NewInsert().
			Model(reminder).
			Returning("id").
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to insert reminder: %w", err)
		}

		return nil
	})
	if err != nil {
		return err
	}

	m.logger.Debug("Inserted reminder",
		zap.Int64("id", reminder.ID),
		zap.Uint64("userID", reminder.UserID),
		zap.Int64("endTime", reminder.EndTime))

	return nil
}

// Delete removes a reminder row. Deleting an already-removed row is a no-op,
// which keeps delivery-side and cancel-side cleanup safe to race.
func (m *ReminderModel) Delete(ctx context.Context, id int64) error {
	err := dbretry.NoResult(ctx, func(ctx context.Context) error {
		_, err := m.db.NewDelete().
			Model((*types.Reminder)(nil)).
			Where("id = ?", id).
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to delete reminder: %w", err)
		}

		return nil
	})
	if err != nil {
		return err
	}

	m.logger.Debug("Deleted reminder", zap.Int64("id", id))

	return nil
}

// All returns every pending reminder row, oldest due first.
func (m *ReminderModel) All(ctx context.Context) ([]*types.Reminder, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) ([]*types.Reminder, error) {
		var reminders []*types.Reminder

		err := m.db.NewSelect().
			Model(&reminders).
			Order("end_time ASC").
			Scan(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to get reminders: %w", err)
		}

		return reminders, nil
	})
}
