package bot

import (
	"github.com/disgoorg/disgo/discord"

	"github.com/wardenbot/warden/internal/bot/constants"
	"github.com/wardenbot/warden/internal/guildconfig"
)

// commandCreates returns the global slash command set. Batch moderation
// commands share the targets/reason shape; targets is a space-separated
// list of mentions or raw user IDs.
func commandCreates() []discord.ApplicationCommandCreate {
	targetsOption := discord.ApplicationCommandOptionString{
		Name:        "targets",
		Description: "Users to act on, as mentions or IDs separated by spaces",
		Required:    true,
	}
	reasonOption := discord.ApplicationCommandOptionString{
		Name:        "reason",
		Description: "Reason recorded in the audit log",
	}

	batchCommand := func(name, description string, extra ...discord.ApplicationCommandOption) discord.SlashCommandCreate {
		options := []discord.ApplicationCommandOption{targetsOption}
		options = append(options, extra...)
		options = append(options, reasonOption)

		return discord.SlashCommandCreate{
			Name:        name,
			Description: description,
			Options:     options,
		}
	}

	return []discord.ApplicationCommandCreate{
		batchCommand(constants.BanCommandName, "Ban the given users"),
		batchCommand(constants.UnbanCommandName, "Lift bans for the given users"),
		batchCommand(constants.SoftbanCommandName, "Ban and immediately unban the given users to prune their messages"),
		batchCommand(constants.KickCommandName, "Kick the given users"),
		batchCommand(constants.MuteCommandName, "Assign the configured mute role to the given users"),
		batchCommand(constants.UnmuteCommandName, "Remove the configured mute role from the given users"),
		batchCommand(constants.RenameCommandName, "Set a nickname for the given users",
			discord.ApplicationCommandOptionString{
				Name:        "nickname",
				Description: "Nickname to apply (up to 32 characters)",
				Required:    true,
			},
		),
		batchCommand(constants.TimeoutCommandName, "Time out the given users",
			discord.ApplicationCommandOptionString{
				Name:        "duration",
				Description: "How long, e.g. 10m or 2h30m (up to 28 days)",
				Required:    true,
			},
		),
		batchCommand(constants.UntimeoutCommandName, "Lift an active timeout for the given users"),
		batchCommand(constants.AsciifyCommandName, "Fold the given users' display names down to plain ASCII"),

		discord.SlashCommandCreate{
			Name:        constants.RemindCommandName,
			Description: "Create a reminder",
			Options: []discord.ApplicationCommandOption{
				discord.ApplicationCommandOptionString{
					Name:        "duration",
					Description: "How long from now, e.g. 45m or 12h",
					Required:    true,
				},
				discord.ApplicationCommandOptionString{
					Name:        "message",
					Description: "What to be reminded about",
					Required:    true,
				},
				discord.ApplicationCommandOptionChannel{
					Name:        "channel",
					Description: "Deliver to this channel instead of your DMs",
				},
			},
		},
		discord.SlashCommandCreate{
			Name:        constants.RemindersCommandName,
			Description: "List your pending reminders",
		},
		discord.SlashCommandCreate{
			Name:        constants.CancelReminderCommand,
			Description: "Cancel one of your reminders",
			Options: []discord.ApplicationCommandOption{
				discord.ApplicationCommandOptionInt{
					Name:        "id",
					Description: "Reminder ID from /reminders",
					Required:    true,
				},
			},
		},
		discord.SlashCommandCreate{
			Name:        constants.SnipeCommandName,
			Description: "Show the most recently deleted message",
			Options: []discord.ApplicationCommandOption{
				discord.ApplicationCommandOptionChannel{
					Name:        "channel",
					Description: "Only messages deleted in this channel",
				},
				discord.ApplicationCommandOptionUser{
					Name:        "user",
					Description: "Only messages deleted from this user",
				},
			},
		},
		discord.SlashCommandCreate{
			Name:        constants.ConfigCommandName,
			Description: "Configure this guild",
			Options: []discord.ApplicationCommandOption{
				discord.ApplicationCommandOptionSubCommand{
					Name:        "prefix",
					Description: "Set the command prefix shown in help output",
					Options: []discord.ApplicationCommandOption{
						discord.ApplicationCommandOptionString{
							Name:        "value",
							Description: "New prefix",
							Required:    true,
						},
					},
				},
				discord.ApplicationCommandOptionSubCommand{
					Name:        "snipe",
					Description: "Toggle the deleted-message cache",
					Options: []discord.ApplicationCommandOption{
						discord.ApplicationCommandOptionBool{
							Name:        "enabled",
							Description: "Whether deleted messages may be sniped",
							Required:    true,
						},
					},
				},
				discord.ApplicationCommandOptionSubCommand{
					Name:        "muterole",
					Description: "Set the role used by mute and unmute",
					Options: []discord.ApplicationCommandOption{
						discord.ApplicationCommandOptionRole{
							Name:        "role",
							Description: "Role assigned to muted users",
							Required:    true,
						},
					},
				},
				discord.ApplicationCommandOptionSubCommand{
					Name:        "logchannel",
					Description: "Route action summaries to a channel",
					Options: []discord.ApplicationCommandOption{
						discord.ApplicationCommandOptionString{
							Name:        "event",
							Description: "Which summaries to route",
							Required:    true,
							Choices: []discord.ApplicationCommandOptionChoiceString{
								{Name: "kick", Value: string(guildconfig.LogKick)},
								{Name: "ban", Value: string(guildconfig.LogBan)},
								{Name: "purge", Value: string(guildconfig.LogPurge)},
								{Name: "delete", Value: string(guildconfig.LogDelete)},
								{Name: "mute", Value: string(guildconfig.LogMute)},
							},
						},
						discord.ApplicationCommandOptionChannel{
							Name:        "channel",
							Description: "Destination channel; omit to disable",
						},
					},
				},
			},
		},
	}
}
