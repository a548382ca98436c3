package bot

import (
	"context"
	"fmt"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/events"
	"github.com/disgoorg/disgo/rest"
	"github.com/disgoorg/snowflake/v2"
	"go.uber.org/zap"

	"github.com/wardenbot/warden/internal/bot/constants"
	"github.com/wardenbot/warden/internal/database/types"
	"github.com/wardenbot/warden/internal/guildconfig"
	"github.com/wardenbot/warden/internal/moderation"
)

// batchCommandSpec fixes how one slash command maps onto the batch engine:
// the past-tense verb reports are written with and the logging channel its
// summaries route to.
type batchCommandSpec struct {
	verb     string
	logEvent guildconfig.LogEvent
}

var batchCommandSpecs = map[string]batchCommandSpec{
	constants.BanCommandName:       {verb: "banned", logEvent: guildconfig.LogBan},
	constants.UnbanCommandName:     {verb: "unbanned", logEvent: guildconfig.LogBan},
	constants.SoftbanCommandName:   {verb: "softbanned", logEvent: guildconfig.LogBan},
	constants.KickCommandName:      {verb: "kicked", logEvent: guildconfig.LogKick},
	constants.MuteCommandName:      {verb: "muted", logEvent: guildconfig.LogMute},
	constants.UnmuteCommandName:    {verb: "unmuted", logEvent: guildconfig.LogMute},
	constants.RenameCommandName:    {verb: "renamed"},
	constants.TimeoutCommandName:   {verb: "timed out", logEvent: guildconfig.LogMute},
	constants.UntimeoutCommandName: {verb: "released", logEvent: guildconfig.LogMute},
	constants.AsciifyCommandName:   {verb: "asciified"},
}

// handleModerationCommand runs one batch moderation command end to end:
// parse targets, snapshot the hierarchy, execute, report, audit.
func (b *Bot) handleModerationCommand(
	ctx context.Context, event *events.ApplicationCommandInteractionCreate, commandName string,
) {
	if event.GuildID() == nil || event.Member() == nil {
		b.respondError(event, "This command only works inside a guild.")
		return
	}

	guildID := *event.GuildID()
	data := event.SlashCommandInteractionData()

	reason := constants.DefaultReason
	if value, ok := data.OptString("reason"); ok && value != "" {
		reason = value
	}

	targetIDs, err := parseTargets(data.String("targets"))
	if err != nil {
		b.respondError(event, err.Error())
		return
	}

	action, err := b.buildAction(ctx, event, guildID, commandName, reason)
	if err != nil {
		b.respondError(event, err.Error())
		return
	}

	roster, err := b.fetchRoster(ctx, guildID)
	if err != nil {
		b.logger.Error("Failed to snapshot guild hierarchy", zap.Error(err))
		b.respondError(event, "Couldn't read this guild's role hierarchy. Try again.")

		return
	}

	actor := roster.memberEntity(event.Member().Member)

	system, err := b.resolveEntity(ctx, roster, b.client.ID())
	if err != nil {
		b.logger.Error("Failed to resolve bot member", zap.Error(err))
		b.respondError(event, "Couldn't resolve the bot's own roles. Try again.")

		return
	}

	targets := make([]moderation.Entity, 0, len(targetIDs))

	for _, id := range targetIDs {
		target, err := b.resolveEntity(ctx, roster, id)
		if err != nil {
			b.logger.Error("Failed to resolve target", zap.Uint64("targetID", uint64(id)), zap.Error(err))
			b.respondError(event, fmt.Sprintf("Couldn't resolve user %s.", id))

			return
		}

		targets = append(targets, target)
	}

	spec := batchCommandSpecs[commandName]

	result, err := b.executor.Execute(ctx, actor, targets, action, system)
	if err != nil {
		b.logger.Error("Batch action aborted",
			zap.String("command", commandName), zap.Error(err))
		b.respondError(event, "The action failed partway through; Discord rejected a request unexpectedly.")

		return
	}

	report := moderation.Summarize(actor, spec.verb, reason, result)
	b.respondEmbed(event, reportEmbed(report))

	b.recordBatch(ctx, guildID, actor, spec, reason, result, report)
}

// buildAction binds a command's fixed parameters into the per-target action.
func (b *Bot) buildAction(
	ctx context.Context, event *events.ApplicationCommandInteractionCreate,
	guildID snowflake.ID, commandName, reason string,
) (moderation.Action, error) {
	data := event.SlashCommandInteractionData()

	switch commandName {
	case constants.BanCommandName:
		return b.actions.Ban(guildID, reason), nil
	case constants.UnbanCommandName:
		return b.actions.Unban(guildID, reason), nil
	case constants.SoftbanCommandName:
		ban := b.actions.Ban(guildID, reason)
		unban := b.actions.Unban(guildID, reason)

		return func(ctx context.Context, target moderation.Entity) error {
			if err := ban(ctx, target); err != nil {
				return err
			}

			return unban(ctx, target)
		}, nil
	case constants.KickCommandName:
		return b.actions.Kick(guildID, reason), nil
	case constants.MuteCommandName, constants.UnmuteCommandName:
		roleID := snowflake.ID(b.configs.Config(guildID).MuteRole)
		if roleID == 0 {
			return nil, fmt.Errorf("no mute role configured; set one with /%s muterole", constants.ConfigCommandName)
		}

		if commandName == constants.MuteCommandName {
			return b.actions.Mute(guildID, roleID, reason), nil
		}

		return b.actions.Unmute(guildID, roleID, reason), nil
	case constants.RenameCommandName:
		nickname := data.String("nickname")
		if len(nickname) > moderation.NicknameMaxLength {
			return nil, fmt.Errorf("nicknames are capped at %d characters", moderation.NicknameMaxLength)
		}

		return b.actions.Rename(guildID, nickname, reason), nil
	case constants.TimeoutCommandName:
		duration, err := time.ParseDuration(data.String("duration"))
		if err != nil || duration <= 0 {
			return nil, fmt.Errorf("%q is not a duration like 10m or 2h30m", data.String("duration"))
		}

		if duration > constants.MaxTimeoutDuration {
			return nil, fmt.Errorf("timeouts are capped at %s", constants.MaxTimeoutDuration)
		}

		return b.actions.Timeout(guildID, time.Now().Add(duration), reason), nil
	case constants.UntimeoutCommandName:
		return b.actions.RemoveTimeout(guildID, reason), nil
	case constants.AsciifyCommandName:
		return b.actions.Asciify(guildID, reason), nil
	default:
		return nil, fmt.Errorf("unknown command %q", commandName)
	}
}

// recordBatch writes the audit row and mirrors the report to the guild's
// configured logging channel. Both are best-effort; the action already ran.
func (b *Bot) recordBatch(
	ctx context.Context, guildID snowflake.ID, actor moderation.Entity,
	spec batchCommandSpec, reason string, result moderation.BatchResult, report moderation.Report,
) {
	succeededIDs := make([]uint64, len(result.Succeeded))
	for i, target := range result.Succeeded {
		succeededIDs[i] = uint64(target.ID)
	}

	err := b.db.Model().BatchLog().Log(ctx, &types.BatchActionLog{
		GuildID:        uint64(guildID),
		ActorID:        uint64(actor.ID),
		Verb:           spec.verb,
		Reason:         reason,
		SucceededCount: len(result.Succeeded),
		FailedCount:    len(result.Failed),
		SucceededIDs:   succeededIDs,
		Timestamp:      time.Now(),
	})
	if err != nil {
		b.logger.Error("Failed to write batch audit log",
			zap.Uint64("guildID", uint64(guildID)), zap.Error(err))
	}

	if spec.logEvent == "" {
		return
	}

	channelID := b.configs.LogChannel(guildID, spec.logEvent)
	if channelID == 0 {
		return
	}

	embed := reportEmbed(report)
	embed.Footer = &discord.EmbedFooter{Text: fmt.Sprintf("Moderator: %s", actor.String())}

	_, err = b.client.Rest().CreateMessage(channelID,
		discord.NewMessageCreateBuilder().SetEmbeds(embed).Build(), rest.WithCtx(ctx))
	if err != nil {
		b.logger.Warn("Failed to mirror report to logging channel",
			zap.Uint64("guildID", uint64(guildID)),
			zap.Uint64("channelID", uint64(channelID)),
			zap.Error(err))
	}
}
