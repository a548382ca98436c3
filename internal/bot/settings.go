package bot

import (
	"context"
	"fmt"

	"github.com/disgoorg/disgo/events"
	"github.com/disgoorg/snowflake/v2"
	"go.uber.org/zap"

	"github.com/wardenbot/warden/internal/guildconfig"
)

// handleConfig routes the config subcommands. Every write goes through the
// guild config manager, which persists before publishing to readers.
func (b *Bot) handleConfig(ctx context.Context, event *events.ApplicationCommandInteractionCreate) {
	if event.GuildID() == nil {
		b.respondError(event, "This command only works inside a guild.")
		return
	}

	guildID := *event.GuildID()
	data := event.SlashCommandInteractionData()

	if data.SubCommandName == nil {
		b.respondError(event, "Missing subcommand.")
		return
	}

	var (
		err     error
		confirm string
	)

	switch *data.SubCommandName {
	case "prefix":
		value := data.String("value")
		err = b.configs.SetPrefix(ctx, guildID, value)
		confirm = fmt.Sprintf("Prefix set to `%s`.", value)
	case "snipe":
		enabled := data.Bool("enabled")

		err = b.configs.SetSnipe(ctx, guildID, enabled)
		if err == nil && !enabled {
			// Drop already-cached messages so the toggle takes effect now.
			b.snipes.Clear(guildID)
		}

		confirm = fmt.Sprintf("Sniping %s.", enabledWord(enabled))
	case "muterole":
		role := data.Role("role")
		err = b.configs.SetMuteRole(ctx, guildID, role.ID)
		confirm = fmt.Sprintf("Mute role set to <@&%s>.", role.ID)
	case "logchannel":
		logEvent := guildconfig.LogEvent(data.String("event"))

		var channelID snowflake.ID
		if channel, ok := data.OptChannel("channel"); ok {
			channelID = channel.ID
		}

		err = b.configs.SetLogChannel(ctx, guildID, logEvent, channelID)

		if channelID == 0 {
			confirm = fmt.Sprintf("Logging for %s summaries disabled.", logEvent)
		} else {
			confirm = fmt.Sprintf("%s summaries now go to <#%s>.", logEvent, channelID)
		}
	default:
		b.respondError(event, "Unknown config subcommand.")
		return
	}

	if err != nil {
		b.logger.Error("Failed to update guild config",
			zap.Uint64("guildID", uint64(guildID)), zap.Error(err))
		b.respondError(event, "Couldn't save the setting. Try again.")

		return
	}

	b.respondText(event, confirm)
}

func enabledWord(enabled bool) string {
	if enabled {
		return "enabled"
	}

	return "disabled"
}
