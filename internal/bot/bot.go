package bot

import (
	"context"
	"fmt"
	"time"

	"github.com/disgoorg/disgo"
	"github.com/disgoorg/disgo/bot"
	"github.com/disgoorg/disgo/cache"
	"github.com/disgoorg/disgo/events"
	"github.com/disgoorg/disgo/gateway"
	"github.com/redis/rueidis"
	"go.uber.org/zap"

	"github.com/wardenbot/warden/internal/bot/constants"
	"github.com/wardenbot/warden/internal/database"
	"github.com/wardenbot/warden/internal/guildconfig"
	"github.com/wardenbot/warden/internal/moderation"
	"github.com/wardenbot/warden/internal/reminder"
	"github.com/wardenbot/warden/internal/setup/config"
	"github.com/wardenbot/warden/internal/snipe"
	"github.com/wardenbot/warden/internal/status"
)

// Bot wires the moderation engine, the reminder scheduler and the per-guild
// configuration cache to the Discord gateway. Command handlers stay thin:
// they parse options, build entities and delegate to the core packages.
type Bot struct {
	client    bot.Client
	db        database.Client
	configs   *guildconfig.Manager
	scheduler *reminder.Scheduler
	executor  *moderation.Executor
	actions   *moderation.Actions
	snipes    *snipe.Cache
	reporter  *status.Reporter
	logger    *zap.Logger
	timeout   time.Duration
}

// New initializes a Bot instance with all required managers. The Discord
// client is configured with the gateway intents the listeners need; message
// caching is enabled so deleted messages still carry their content.
func New(
	cfg *config.Config,
	db database.Client,
	statusClient rueidis.Client,
	logger *zap.Logger,
) (*Bot, error) {
	b := &Bot{
		db:       db,
		configs:  guildconfig.NewManager(db.Model().GuildConfig(), logger),
		executor: moderation.NewExecutor(logger),
		snipes:   snipe.NewCache(cfg.Bot.SnipeCapacity),
		reporter: status.NewReporter(statusClient, "bot", logger),
		logger:   logger.Named("bot"),
		timeout:  time.Duration(cfg.Bot.RequestTimeout) * time.Millisecond,
	}

	client, err := disgo.New(cfg.Bot.Discord.Token,
		bot.WithGatewayConfigOpts(
			gateway.WithIntents(
				gateway.IntentGuilds,
				gateway.IntentGuildMessages,
				gateway.IntentDirectMessages,
				gateway.IntentMessageContent,
			),
		),
		bot.WithCacheConfigOpts(
			cache.WithCaches(cache.FlagGuilds, cache.FlagMessages),
		),
		bot.WithEventListeners(&events.ListenerAdapter{
			OnApplicationCommandInteraction: b.handleApplicationCommandInteraction,
			OnGuildMessageDelete:            b.handleGuildMessageDelete,
			OnGuildLeave:                    b.handleGuildLeave,
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create Discord client: %w", err)
	}

	b.client = client
	b.actions = moderation.NewActions(client.Rest())
	b.scheduler = reminder.NewScheduler(
		db.Model().Reminder(),
		&restNotifier{rest: client.Rest()},
		&restResolver{rest: client.Rest()},
		logger,
	)

	return b, nil
}

// Start registers global commands, restores persisted state and opens the
// gateway connection.
func (b *Bot) Start(ctx context.Context) error {
	b.logger.Info("Registering commands")

	_, err := b.client.Rest().SetGlobalCommands(b.client.ApplicationID(), commandCreates())
	if err != nil {
		return fmt.Errorf("failed to register commands: %w", err)
	}

	if err := b.configs.Load(ctx); err != nil {
		return err
	}

	armed, err := b.scheduler.LoadAll(ctx)
	if err != nil {
		return err
	}

	b.reporter.UpdateCounts(armed, 0)
	b.reporter.Start(ctx)

	b.logger.Info("Starting bot", zap.Int("restoredReminders", armed))

	return b.client.OpenGateway(ctx)
}

// Close gracefully shuts down the gateway connection and in-memory timers.
// Pending reminder rows stay in the store and are re-armed on next start.
func (b *Bot) Close(ctx context.Context) {
	b.logger.Info("Closing bot")
	b.reporter.Stop()
	b.scheduler.Close()
	b.client.Close(ctx)
}

// handleApplicationCommandInteraction processes slash commands by first
// deferring the response, then handling the command in a goroutine so slow
// REST sequences cannot block the gateway reader.
func (b *Bot) handleApplicationCommandInteraction(event *events.ApplicationCommandInteractionCreate) {
	go func() {
		// Defer response to prevent Discord timeout while processing
		if err := event.DeferCreateMessage(false); err != nil {
			b.logger.Error("Failed to defer create message", zap.Error(err))
			return
		}

		commandName := event.SlashCommandInteractionData().CommandName()
		start := time.Now()

		defer func() {
			if r := recover(); r != nil {
				b.logger.Error("Panic in application command handler",
					zap.String("command", commandName), zap.Any("panic", r))
				b.respondError(event, "Internal error. Please report this to an administrator.")
			}

			b.logger.Debug("Application command handled",
				zap.String("command", commandName),
				zap.Duration("duration", time.Since(start)))
		}()

		ctx, cancel := context.WithTimeout(context.Background(), b.timeout)
		defer cancel()

		switch commandName {
		case constants.BanCommandName, constants.UnbanCommandName, constants.SoftbanCommandName,
			constants.KickCommandName, constants.MuteCommandName, constants.UnmuteCommandName,
			constants.RenameCommandName, constants.TimeoutCommandName, constants.UntimeoutCommandName,
			constants.AsciifyCommandName:
			b.handleModerationCommand(ctx, event, commandName)
		case constants.RemindCommandName:
			b.handleRemind(ctx, event)
		case constants.RemindersCommandName:
			b.handleReminders(event)
		case constants.CancelReminderCommand:
			b.handleCancelReminder(ctx, event)
		case constants.SnipeCommandName:
			b.handleSnipe(event)
		case constants.ConfigCommandName:
			b.handleConfig(ctx, event)
		default:
			b.respondError(event, "This command is not available.")
		}
	}()
}

// handleGuildMessageDelete feeds the snipe cache for guilds that opted in.
// The message body comes from the gateway cache and may be empty if the
// message predates this session.
func (b *Bot) handleGuildMessageDelete(event *events.GuildMessageDelete) {
	if !b.configs.Config(event.GuildID).Snipe {
		return
	}

	if event.Message.Content == "" {
		return
	}

	b.snipes.Add(snipe.Message{
		GuildID:   event.GuildID,
		ChannelID: event.ChannelID,
		AuthorID:  event.Message.Author.ID,
		AuthorTag: event.Message.Author.Username,
		Content:   event.Message.Content,
		DeletedAt: time.Now(),
	})
}

// handleGuildLeave drops stored settings for guilds that removed the bot.
func (b *Bot) handleGuildLeave(event *events.GuildLeave) {
	ctx, cancel := context.WithTimeout(context.Background(), b.timeout)
	defer cancel()

	b.snipes.Clear(event.GuildID)

	if err := b.configs.Forget(ctx, event.GuildID); err != nil {
		b.logger.Error("Failed to drop settings for left guild",
			zap.Uint64("guildID", uint64(event.GuildID)), zap.Error(err))
	}
}
