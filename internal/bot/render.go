package bot

import (
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/events"
	"go.uber.org/zap"

	"github.com/wardenbot/warden/internal/bot/constants"
	"github.com/wardenbot/warden/internal/moderation"
)

// reportEmbed renders a batch action report. The core produces bounded
// text, so the embed never has to truncate.
func reportEmbed(report moderation.Report) discord.Embed {
	var color int

	switch report.Tone {
	case moderation.ToneSuccess:
		color = constants.SuccessEmbedColor
	case moderation.ToneWarning:
		color = constants.WarningEmbedColor
	case moderation.ToneFailure:
		color = constants.FailureEmbedColor
	default:
		color = constants.NeutralEmbedColor
	}

	fields := make([]discord.EmbedField, 0, len(report.Fields))
	for _, field := range report.Fields {
		fields = append(fields, discord.EmbedField{
			Name:  field.Name,
			Value: field.Value,
		})
	}

	return discord.Embed{
		Title:       report.Title,
		Description: report.Description,
		Color:       color,
		Fields:      fields,
	}
}

// respondEmbed replaces the deferred interaction response with an embed.
func (b *Bot) respondEmbed(event *events.ApplicationCommandInteractionCreate, embed discord.Embed) {
	_, err := b.client.Rest().UpdateInteractionResponse(event.ApplicationID(), event.Token(),
		discord.NewMessageUpdateBuilder().SetEmbeds(embed).Build())
	if err != nil {
		b.logger.Error("Failed to update interaction response", zap.Error(err))
	}
}

// respondText replaces the deferred interaction response with plain text.
func (b *Bot) respondText(event *events.ApplicationCommandInteractionCreate, content string) {
	_, err := b.client.Rest().UpdateInteractionResponse(event.ApplicationID(), event.Token(),
		discord.NewMessageUpdateBuilder().SetContent(content).Build())
	if err != nil {
		b.logger.Error("Failed to update interaction response", zap.Error(err))
	}
}

// respondError reports a command failure in a red embed.
func (b *Bot) respondError(event *events.ApplicationCommandInteractionCreate, message string) {
	b.respondEmbed(event, discord.Embed{
		Title:       "Something went wrong",
		Description: message,
		Color:       constants.FailureEmbedColor,
	})
}
