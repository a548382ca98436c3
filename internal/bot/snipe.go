package bot

import (
	"fmt"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/events"
	"github.com/disgoorg/snowflake/v2"

	"github.com/wardenbot/warden/internal/bot/constants"
)

// handleSnipe shows the most recently deleted message, optionally filtered
// by channel or author.
func (b *Bot) handleSnipe(event *events.ApplicationCommandInteractionCreate) {
	if event.GuildID() == nil {
		b.respondError(event, "This command only works inside a guild.")
		return
	}

	guildID := *event.GuildID()
	if !b.configs.Config(guildID).Snipe {
		b.respondError(event, fmt.Sprintf("Sniping is disabled here; enable it with /%s snipe.", constants.ConfigCommandName))
		return
	}

	data := event.SlashCommandInteractionData()

	var channelID, authorID snowflake.ID
	if channel, ok := data.OptChannel("channel"); ok {
		channelID = channel.ID
	}

	if user, ok := data.OptUser("user"); ok {
		authorID = user.ID
	}

	msg, ok := b.snipes.Latest(guildID, channelID, authorID)
	if !ok {
		b.respondText(event, "Nothing to snipe.")
		return
	}

	b.respondEmbed(event, discord.Embed{
		Title:       fmt.Sprintf("Deleted by %s", msg.AuthorTag),
		Description: fmt.Sprintf("%s\n\nin <#%s>", msg.Content, msg.ChannelID),
		Color:       constants.NeutralEmbedColor,
		Timestamp:   &msg.DeletedAt,
	})
}
