package types

// GuildConfig holds per-guild settings. Treated as an immutable value:
// updates build a modified copy, persist it, then swap the cached entry.
type GuildConfig struct {
	GuildID  uint64 `bun:",pk"`       // Discord guild ID
	Prefix   string `bun:",nullzero"` // Custom command prefix, empty for default
	Snipe    bool   `bun:",notnull"`  // Whether the deleted-message cache is enabled
	MuteRole uint64 `bun:",nullzero"` // Role assigned by mute, 0 when unset
}

// LoggingConfig holds the per-guild destinations for moderation log
// notifications. A zero channel ID disables logging for that action.
type LoggingConfig struct {
	GuildID       uint64 `bun:",pk"`
	KickChannel   uint64 `bun:",nullzero"`
	BanChannel    uint64 `bun:",nullzero"`
	PurgeChannel  uint64 `bun:",nullzero"`
	DeleteChannel uint64 `bun:",nullzero"`
	MuteChannel   uint64 `bun:",nullzero"`
}
