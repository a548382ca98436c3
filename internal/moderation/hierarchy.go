package moderation

import (
	"github.com/disgoorg/snowflake/v2"
)

// Entity is a guild participant as seen by the moderation engine. The same
// shape is used for the acting moderator, the bot itself and each target of
// a batch action.
type Entity struct {
	ID   snowflake.ID
	Name string
	// Rank is the position of the entity's highest role. Higher means more
	// privileged. Only meaningful when Member is true.
	Rank int
	// Member reports whether the entity is part of the guild's ranked
	// hierarchy. Users referenced only by ID (banned or departed) are not.
	Member bool
	// Owner marks the guild owner, who is never punishable.
	Owner bool
}

// Mention returns the Discord mention string for the entity.
func (e Entity) Mention() string {
	return "<@" + e.ID.String() + ">"
}

// String renders the entity for listings, preferring the cached name.
func (e Entity) String() string {
	if e.Name != "" {
		return e.Name
	}

	return e.ID.String()
}

// CanPunish reports whether the actor and the bot both structurally outrank
// the target. Targets outside the ranked hierarchy are always punishable
// since there is no rank to compare against. Equal rank is not sufficient;
// a moderator cannot punish someone at or above their own level, and neither
// can the bot.
func CanPunish(actor, target, system Entity) bool {
	if target.Owner {
		return false
	}

	if !target.Member {
		return true
	}

	return actor.Rank > target.Rank && system.Rank > target.Rank
}
