package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/events"
	"github.com/disgoorg/snowflake/v2"

	"github.com/wardenbot/warden/internal/bot/constants"
	"github.com/wardenbot/warden/internal/reminder"
)

// handleRemind creates a reminder due after the given duration, delivered
// to the user's DMs or an explicitly chosen channel.
func (b *Bot) handleRemind(ctx context.Context, event *events.ApplicationCommandInteractionCreate) {
	data := event.SlashCommandInteractionData()

	duration, err := time.ParseDuration(data.String("duration"))
	if err != nil || duration <= 0 {
		b.respondError(event, fmt.Sprintf("%q is not a duration like 45m or 12h.", data.String("duration")))
		return
	}

	if duration > constants.MaxReminderDuration {
		b.respondError(event, fmt.Sprintf("Reminders are capped at %s.", constants.MaxReminderDuration))
		return
	}

	var destination snowflake.ID
	if channel, ok := data.OptChannel("channel"); ok {
		destination = channel.ID
	}

	row, err := b.scheduler.Create(ctx, event.User().ID, data.String("message"), time.Now().Add(duration), destination)
	if err != nil {
		b.respondError(event, "Couldn't save your reminder. Try again.")
		return
	}

	where := "in your DMs"
	if destination != 0 {
		where = fmt.Sprintf("in <#%s>", destination)
	}

	b.respondEmbed(event, discord.Embed{
		Title:       "Reminder created",
		Description: fmt.Sprintf("Reminder **#%d** fires <t:%d:R> %s.", row.ID, row.EndTime, where),
		Color:       constants.SuccessEmbedColor,
	})
}

// handleReminders lists the calling user's pending reminders.
func (b *Bot) handleReminders(event *events.ApplicationCommandInteractionCreate) {
	rows := b.scheduler.ListForUser(event.User().ID)
	if len(rows) == 0 {
		b.respondText(event, "You have no pending reminders.")
		return
	}

	var sb strings.Builder
	for _, row := range rows {
		fmt.Fprintf(&sb, "**#%d** — <t:%d:R>: %s\n", row.ID, row.EndTime, row.Reminder)
	}

	b.respondEmbed(event, discord.Embed{
		Title:       "Your reminders",
		Description: sb.String(),
		Color:       constants.NeutralEmbedColor,
	})
}

// handleCancelReminder cancels one of the calling user's reminders.
func (b *Bot) handleCancelReminder(ctx context.Context, event *events.ApplicationCommandInteractionCreate) {
	id := int64(event.SlashCommandInteractionData().Int("id"))

	err := b.scheduler.Cancel(ctx, id, event.User().ID)

	switch {
	case errors.Is(err, reminder.ErrNotFound):
		b.respondError(event, fmt.Sprintf("Reminder #%d doesn't exist or already fired.", id))
	case errors.Is(err, reminder.ErrNotOwner):
		b.respondError(event, "That reminder belongs to someone else.")
	case err != nil:
		b.respondError(event, "Couldn't cancel the reminder. Try again.")
	default:
		b.respondText(event, fmt.Sprintf("Reminder #%d cancelled.", id))
	}
}
