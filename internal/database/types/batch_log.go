package types

import "time"

// BatchActionLog records one completed batch moderation action for auditing.
type BatchActionLog struct {
	ID             int64     `bun:",pk,autoincrement"`
	GuildID        uint64    `bun:",notnull"`   // Guild the action ran in
	ActorID        uint64    `bun:",notnull"`   // Moderator who issued the action
	Verb           string    `bun:",notnull"`   // Past-tense action name ("banned", "kicked")
	Reason         string    `bun:",type:text"` // Reason supplied by the moderator
	SucceededCount int       `bun:",notnull"`
	FailedCount    int       `bun:",notnull"`
	SucceededIDs   []uint64  `bun:",array"` // Targets the action was applied to
	Timestamp      time.Time `bun:",notnull"`
}
