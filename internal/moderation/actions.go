package moderation

import (
	"context"
	"strings"
	"time"
	"unicode"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/rest"
	"github.com/disgoorg/json"
	"github.com/disgoorg/snowflake/v2"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// NicknameMaxLength is Discord's limit for member nicknames.
const NicknameMaxLength = 32

// asciifyFallback replaces nicknames that fold down to nothing.
const asciifyFallback = "Unreadable"

// Actions builds the per-operation action functions the executor runs.
// Each method binds the operation's fixed parameters and returns a closure
// making one REST call per target.
type Actions struct {
	rest rest.Rest
}

// NewActions creates an action factory over the given REST client.
func NewActions(restClient rest.Rest) *Actions {
	return &Actions{rest: restClient}
}

// Ban bans each target from the guild. Works for users no longer in the
// guild since bans are keyed by user ID.
func (a *Actions) Ban(guildID snowflake.ID, reason string) Action {
	return func(_ context.Context, target Entity) error {
		return a.rest.AddBan(guildID, target.ID, 0, rest.WithReason(reason))
	}
}

// Unban lifts the ban for each target.
func (a *Actions) Unban(guildID snowflake.ID, reason string) Action {
	return func(_ context.Context, target Entity) error {
		return a.rest.DeleteBan(guildID, target.ID, rest.WithReason(reason))
	}
}

// Kick removes each target from the guild.
func (a *Actions) Kick(guildID snowflake.ID, reason string) Action {
	return func(_ context.Context, target Entity) error {
		return a.rest.RemoveMember(guildID, target.ID, rest.WithReason(reason))
	}
}

// Mute assigns the guild's configured mute role to each target.
func (a *Actions) Mute(guildID, roleID snowflake.ID, reason string) Action {
	return func(_ context.Context, target Entity) error {
		return a.rest.AddMemberRole(guildID, target.ID, roleID, rest.WithReason(reason))
	}
}

// Unmute removes the guild's configured mute role from each target.
func (a *Actions) Unmute(guildID, roleID snowflake.ID, reason string) Action {
	return func(_ context.Context, target Entity) error {
		return a.rest.RemoveMemberRole(guildID, target.ID, roleID, rest.WithReason(reason))
	}
}

// Rename sets each target's nickname to the given value.
func (a *Actions) Rename(guildID snowflake.ID, nickname, reason string) Action {
	return func(_ context.Context, target Entity) error {
		_, err := a.rest.UpdateMember(guildID, target.ID, discord.MemberUpdate{
			Nick: &nickname,
		}, rest.WithReason(reason))

		return err
	}
}

// Timeout disables communication for each target until the given time.
func (a *Actions) Timeout(guildID snowflake.ID, until time.Time, reason string) Action {
	return func(_ context.Context, target Entity) error {
		_, err := a.rest.UpdateMember(guildID, target.ID, discord.MemberUpdate{
			CommunicationDisabledUntil: json.NewNullablePtr(until),
		}, rest.WithReason(reason))

		return err
	}
}

// RemoveTimeout clears an active timeout for each target.
func (a *Actions) RemoveTimeout(guildID snowflake.ID, reason string) Action {
	return func(_ context.Context, target Entity) error {
		_, err := a.rest.UpdateMember(guildID, target.ID, discord.MemberUpdate{
			CommunicationDisabledUntil: json.NullPtr[time.Time](),
		}, rest.WithReason(reason))

		return err
	}
}

// Asciify renames each target to the ASCII fold of its current display name.
func (a *Actions) Asciify(guildID snowflake.ID, reason string) Action {
	return func(_ context.Context, target Entity) error {
		nick := AsciifyName(target.Name)

		_, err := a.rest.UpdateMember(guildID, target.ID, discord.MemberUpdate{
			Nick: &nick,
		}, rest.WithReason(reason))

		return err
	}
}

// AsciifyName folds a display name down to plain ASCII. Accented letters
// are decomposed and stripped of combining marks; anything that still isn't
// ASCII afterwards is dropped. Names that fold to nothing get a readable
// placeholder.
func AsciifyName(name string) string {
	folded, _, err := transform.String(
		transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC),
		name,
	)
	if err != nil {
		folded = name
	}

	var b strings.Builder

	for _, r := range folded {
		if r > unicode.MaxASCII {
			continue
		}

		b.WriteRune(r)
	}

	ascii := strings.TrimSpace(b.String())
	if ascii == "" {
		return asciifyFallback
	}

	if len(ascii) >= NicknameMaxLength {
		ascii = ascii[:NicknameMaxLength-1]
	}

	return ascii
}
