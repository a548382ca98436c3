package bot

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/rest"
	"github.com/disgoorg/snowflake/v2"

	"github.com/wardenbot/warden/internal/moderation"
)

// guildRoster is the per-command snapshot of a guild's ranked hierarchy:
// who owns it and where each role sits. Fetched once per batch so every
// entity in the batch is ranked against the same state.
type guildRoster struct {
	guildID   snowflake.ID
	ownerID   snowflake.ID
	positions map[snowflake.ID]int
}

// fetchRoster loads the guild's owner and role positions.
func (b *Bot) fetchRoster(ctx context.Context, guildID snowflake.ID) (*guildRoster, error) {
	guild, err := b.client.Rest().GetGuild(guildID, false, rest.WithCtx(ctx))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch guild: %w", err)
	}

	roles, err := b.client.Rest().GetRoles(guildID, rest.WithCtx(ctx))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch guild roles: %w", err)
	}

	positions := make(map[snowflake.ID]int, len(roles))
	for _, role := range roles {
		positions[role.ID] = role.Position
	}

	return &guildRoster{
		guildID:   guildID,
		ownerID:   guild.OwnerID,
		positions: positions,
	}, nil
}

// rank returns the position of the member's highest role. Members with no
// roles sit at the @everyone baseline of 0.
func (r *guildRoster) rank(roleIDs []snowflake.ID) int {
	highest := 0

	for _, roleID := range roleIDs {
		if pos, ok := r.positions[roleID]; ok && pos > highest {
			highest = pos
		}
	}

	return highest
}

// memberEntity converts a fetched member into a ranked entity.
func (r *guildRoster) memberEntity(member discord.Member) moderation.Entity {
	return moderation.Entity{
		ID:     member.User.ID,
		Name:   displayName(member),
		Rank:   r.rank(member.RoleIDs),
		Member: true,
		Owner:  member.User.ID == r.ownerID,
	}
}

// resolveEntity looks up one user ID within the guild. Users who are not
// members resolve to unranked entities so ID-keyed operations like unban
// still work on them.
func (b *Bot) resolveEntity(ctx context.Context, roster *guildRoster, userID snowflake.ID) (moderation.Entity, error) {
	member, err := b.client.Rest().GetMember(roster.guildID, userID, rest.WithCtx(ctx))
	if err == nil {
		return roster.memberEntity(*member), nil
	}

	var restErr *rest.Error
	if !errors.As(err, &restErr) || restErr.Response == nil || restErr.Response.StatusCode != http.StatusNotFound {
		return moderation.Entity{}, fmt.Errorf("failed to fetch member %d: %w", userID, err)
	}

	// Not in the guild; fall back to the bare user for a display name.
	name := ""
	if user, err := b.client.Rest().GetUser(userID, rest.WithCtx(ctx)); err == nil {
		name = user.Username
	}

	return moderation.Entity{ID: userID, Name: name}, nil
}

// parseTargets extracts user IDs from a space-separated list of mentions
// or raw IDs, preserving order and dropping duplicates.
func parseTargets(input string) ([]snowflake.ID, error) {
	fields := strings.Fields(input)
	if len(fields) == 0 {
		return nil, errors.New("no targets given")
	}

	seen := make(map[snowflake.ID]struct{}, len(fields))
	ids := make([]snowflake.ID, 0, len(fields))

	for _, field := range fields {
		raw := strings.TrimSuffix(strings.TrimPrefix(strings.TrimPrefix(field, "<@"), "!"), ">")

		id, err := snowflake.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("%q is not a user mention or ID", field)
		}

		if _, ok := seen[id]; ok {
			continue
		}

		seen[id] = struct{}{}
		ids = append(ids, id)
	}

	return ids, nil
}

// displayName prefers the guild nickname over the account name.
func displayName(member discord.Member) string {
	if member.Nick != nil && *member.Nick != "" {
		return *member.Nick
	}

	return member.User.Username
}
