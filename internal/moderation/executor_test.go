package moderation_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/disgoorg/disgo/rest"
	"github.com/disgoorg/snowflake/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wardenbot/warden/internal/moderation"
	"go.uber.org/zap"
)

func entity(id uint64, rank int) moderation.Entity {
	return moderation.Entity{ID: snowflake.ID(id), Rank: rank, Member: true}
}

func restError(status int) error {
	return &rest.Error{Response: &http.Response{StatusCode: status}}
}

func TestExecuteFullSuccess(t *testing.T) {
	t.Parallel()

	executor := moderation.NewExecutor(zap.NewNop())
	actor := entity(1, 100)
	system := entity(2, 100)
	targets := []moderation.Entity{entity(10, 1), entity(11, 2), entity(12, 3)}

	var attempted []snowflake.ID

	result, err := executor.Execute(context.Background(), actor, targets,
		func(_ context.Context, target moderation.Entity) error {
			attempted = append(attempted, target.ID)
			return nil
		}, system)
	require.NoError(t, err)

	assert.Equal(t, targets, result.Succeeded)
	assert.Empty(t, result.Failed)
	assert.Equal(t, []snowflake.ID{10, 11, 12}, attempted)
}

func TestExecuteHierarchyRejectsComeFirst(t *testing.T) {
	t.Parallel()

	executor := moderation.NewExecutor(zap.NewNop())
	actor := entity(1, 50)
	system := entity(2, 100)

	passes := entity(10, 1)
	rejected := entity(11, 60)
	attempted := entity(12, 2)

	result, err := executor.Execute(context.Background(), actor,
		[]moderation.Entity{passes, rejected, attempted},
		func(_ context.Context, target moderation.Entity) error {
			if target.ID == attempted.ID {
				return restError(http.StatusForbidden)
			}
			return nil
		}, system)
	require.NoError(t, err)

	assert.Equal(t, []moderation.Entity{passes}, result.Succeeded)
	// The hierarchy reject is listed before the attempted-and-failed target.
	assert.Equal(t, []moderation.Entity{rejected, attempted}, result.Failed)
}

func TestExecutePartitionCompleteness(t *testing.T) {
	t.Parallel()

	executor := moderation.NewExecutor(zap.NewNop())
	actor := entity(1, 50)
	system := entity(2, 100)

	targets := make([]moderation.Entity, 0, 20)
	for i := 0; i < 20; i++ {
		targets = append(targets, entity(uint64(100+i), i*5))
	}

	invocations := make(map[snowflake.ID]int)

	result, err := executor.Execute(context.Background(), actor, targets,
		func(_ context.Context, target moderation.Entity) error {
			invocations[target.ID]++
			if target.ID%2 == 0 {
				return restError(http.StatusNotFound)
			}
			return nil
		}, system)
	require.NoError(t, err)

	assert.Equal(t, len(targets), result.Total())

	seen := make(map[snowflake.ID]int)
	for _, e := range append(result.Succeeded, result.Failed...) {
		seen[e.ID]++
	}

	for _, target := range targets {
		assert.Equal(t, 1, seen[target.ID], "target %d must appear exactly once", target.ID)
	}

	for id, count := range invocations {
		assert.Equal(t, 1, count, "target %d must be attempted exactly once", id)
	}
}

func TestExecuteUnexpectedErrorPropagates(t *testing.T) {
	t.Parallel()

	executor := moderation.NewExecutor(zap.NewNop())
	actor := entity(1, 100)
	system := entity(2, 100)
	boom := errors.New("gateway exploded")

	_, err := executor.Execute(context.Background(), actor,
		[]moderation.Entity{entity(10, 1)},
		func(_ context.Context, _ moderation.Entity) error {
			return boom
		}, system)
	require.ErrorIs(t, err, boom)
}

func TestExecuteServerErrorPropagates(t *testing.T) {
	t.Parallel()

	executor := moderation.NewExecutor(zap.NewNop())
	actor := entity(1, 100)
	system := entity(2, 100)

	_, err := executor.Execute(context.Background(), actor,
		[]moderation.Entity{entity(10, 1)},
		func(_ context.Context, _ moderation.Entity) error {
			return restError(http.StatusInternalServerError)
		}, system)
	require.Error(t, err)
}

func TestExecuteEmptyInput(t *testing.T) {
	t.Parallel()

	executor := moderation.NewExecutor(zap.NewNop())

	result, err := executor.Execute(context.Background(), entity(1, 100), nil,
		func(_ context.Context, _ moderation.Entity) error {
			t.Fatal("action must not run for empty input")
			return nil
		}, entity(2, 100))
	require.NoError(t, err)

	assert.Empty(t, result.Succeeded)
	assert.Empty(t, result.Failed)
}
