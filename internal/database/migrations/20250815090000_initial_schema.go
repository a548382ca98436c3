package migrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
	"github.com/wardenbot/warden/internal/database/types"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		models := []any{
			(*types.Reminder)(nil),
			(*types.GuildConfig)(nil),
			(*types.LoggingConfig)(nil),
			(*types.BatchActionLog)(nil),
		}

		for _, model := range models {
			_, err := db.NewCreateTable().
				Model(model).
				IfNotExists().
				Exec(ctx)
			if err != nil {
				return fmt.Errorf("failed to create table for %T: %w", model, err)
			}
		}

		// Recovery scans reminders by due time; batch log lookups are per guild.
		_, err := db.NewRaw(`
			CREATE INDEX IF NOT EXISTS idx_reminders_end_time
			ON reminders (end_time ASC);
		`).Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to create reminders end_time index: %w", err)
		}

		_, err = db.NewRaw(`
			CREATE INDEX IF NOT EXISTS idx_batch_action_logs_guild_timestamp
			ON batch_action_logs (guild_id, timestamp DESC);
		`).Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to create batch action log index: %w", err)
		}

		return nil
	}, func(ctx context.Context, db *bun.DB) error {
		models := []any{
			(*types.BatchActionLog)(nil),
			(*types.LoggingConfig)(nil),
			(*types.GuildConfig)(nil),
			(*types.Reminder)(nil),
		}

		for _, model := range models {
			_, err := db.NewDropTable().
				Model(model).
				IfExists().
				Exec(ctx)
			if err != nil {
				return fmt.Errorf("failed to drop table for %T: %w", model, err)
			}
		}

		return nil
	})
}
