package constants

import "time"

const (
	// Commands.
	BanCommandName        = "ban"
	UnbanCommandName      = "unban"
	SoftbanCommandName    = "softban"
	KickCommandName       = "kick"
	MuteCommandName       = "mute"
	UnmuteCommandName     = "unmute"
	RenameCommandName     = "rename"
	TimeoutCommandName    = "timeout"
	UntimeoutCommandName  = "untimeout"
	AsciifyCommandName    = "asciify"
	RemindCommandName     = "remind"
	RemindersCommandName  = "reminders"
	CancelReminderCommand = "cancelreminder"
	SnipeCommandName      = "snipe"
	ConfigCommandName     = "config"

	// Embed colors per outcome.
	SuccessEmbedColor = 0x2ECC71
	WarningEmbedColor = 0xE67E22
	FailureEmbedColor = 0xE74C3C
	NeutralEmbedColor = 0x312D2B

	// DefaultReason is recorded when a moderator gives none.
	DefaultReason = "No reason provided"

	// MaxTimeoutDuration is Discord's cap on communication timeouts.
	MaxTimeoutDuration = 28 * 24 * time.Hour

	// MaxReminderDuration keeps reminder due times within a sane horizon.
	MaxReminderDuration = 365 * 24 * time.Hour
)
