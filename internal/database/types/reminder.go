package types

import "time"

// Reminder is one pending scheduled notification. The identifier is the
// autoincrement primary key assigned at insert and stays stable across
// restarts; the in-memory scheduler never invents its own numbering.
type Reminder struct {
	ID          int64  `bun:",pk,autoincrement"` // Canonical reminder identifier
	UserID      uint64 `bun:",notnull"`          // Discord ID of the creating user
	Reminder    string `bun:",notnull,type:text"` // Free-text reminder body
	EndTime     int64  `bun:",notnull"`          // Absolute due time, unix seconds UTC
	Destination uint64 `bun:",nullzero"`         // Channel ID, 0 for the creator's DMs
}

// DueAt returns the absolute due time.
func (r *Reminder) DueAt() time.Time {
	return time.Unix(r.EndTime, 0).UTC()
}
