package bot

import (
	"context"
	"fmt"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/rest"
	"github.com/disgoorg/snowflake/v2"

	"github.com/wardenbot/warden/internal/database/types"
)

// restNotifier delivers due reminders over the Discord REST API. Reminders
// without an explicit destination go to the creator's DMs.
type restNotifier struct {
	rest rest.Rest
}

func (n *restNotifier) Notify(ctx context.Context, row *types.Reminder) error {
	channelID := snowflake.ID(row.Destination)

	if channelID == 0 {
		channel, err := n.rest.CreateDMChannel(snowflake.ID(row.UserID), rest.WithCtx(ctx))
		if err != nil {
			return fmt.Errorf("failed to open DM channel: %w", err)
		}

		channelID = channel.ID()
	}

	_, err := n.rest.CreateMessage(channelID, discord.NewMessageCreateBuilder().
		SetContentf("<@%d> Reminder: %s", row.UserID, row.Reminder).
		Build(), rest.WithCtx(ctx))
	if err != nil {
		return fmt.Errorf("failed to send reminder message: %w", err)
	}

	return nil
}

// restResolver checks that stored reminder references still exist before
// the scheduler re-arms them after a restart.
type restResolver struct {
	rest rest.Rest
}

func (r *restResolver) ResolveUser(ctx context.Context, id snowflake.ID) error {
	if _, err := r.rest.GetUser(id, rest.WithCtx(ctx)); err != nil {
		return fmt.Errorf("failed to resolve user %d: %w", id, err)
	}

	return nil
}

func (r *restResolver) ResolveChannel(ctx context.Context, id snowflake.ID) error {
	if _, err := r.rest.GetChannel(id, rest.WithCtx(ctx)); err != nil {
		return fmt.Errorf("failed to resolve channel %d: %w", id, err)
	}

	return nil
}
