package reminder

import (
	"context"
	"errors"

	"github.com/disgoorg/snowflake/v2"
	"github.com/wardenbot/warden/internal/database/types"
)

var (
	// ErrNotFound is returned when a reminder identifier does not match any
	// pending reminder.
	ErrNotFound = errors.New("reminder not found")
	// ErrNotOwner is returned when a user tries to cancel a reminder that
	// belongs to someone else.
	ErrNotOwner = errors.New("reminder belongs to another user")
)

// Store persists reminder rows. Insert assigns the canonical identifier
// before returning; Delete must tolerate rows that are already gone.
type Store interface {
	Insert(ctx context.Context, reminder *types.Reminder) error
	Delete(ctx context.Context, id int64) error
	All(ctx context.Context) ([]*types.Reminder, error)
}

// Notifier delivers a due reminder to its destination.
type Notifier interface {
	Notify(ctx context.Context, reminder *types.Reminder) error
}

// IdentityResolver checks that the user and destination referenced by a
// stored reminder still exist before the scheduler re-arms it.
type IdentityResolver interface {
	ResolveUser(ctx context.Context, id snowflake.ID) error
	ResolveChannel(ctx context.Context, id snowflake.ID) error
}
