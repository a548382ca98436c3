package moderation

import (
	"context"
	"errors"
	"net/http"

	"github.com/disgoorg/disgo/rest"
	"go.uber.org/zap"
)

// Action applies a single moderation operation to one target. Implementations
// wrap a Discord REST call with the operation's fixed parameters bound.
type Action func(ctx context.Context, target Entity) error

// BatchResult partitions the input targets of a batch action. Every input
// target lands in exactly one of the two slices, in processing order;
// hierarchy rejects come before attempted-and-failed targets in Failed.
type BatchResult struct {
	Succeeded []Entity
	Failed    []Entity
}

// Total returns the number of targets the batch processed.
func (r BatchResult) Total() int {
	return len(r.Succeeded) + len(r.Failed)
}

// Executor runs a moderation action against a batch of targets with
// per-target failure isolation.
type Executor struct {
	logger *zap.Logger
}

// NewExecutor creates a batch action executor.
func NewExecutor(logger *zap.Logger) *Executor {
	return &Executor{
		logger: logger.Named("batch_executor"),
	}
}

// Execute applies the action to every target the actor and the bot are
// allowed to punish, strictly in input order. Targets that fail the
// hierarchy check are never attempted. A 403 or 404 from the action is a
// per-target failure and does not stop the batch; any other error aborts
// the batch and is returned with the partial result discarded.
//
// Attempts are sequential on purpose: the calls mutate a shared rate-limited
// upstream and their ordering is visible in the guild's audit log.
func (e *Executor) Execute(
	ctx context.Context, actor Entity, targets []Entity, action Action, system Entity,
) (BatchResult, error) {
	var result BatchResult

	candidates := make([]Entity, 0, len(targets))

	for _, target := range targets {
		if CanPunish(actor, target, system) {
			candidates = append(candidates, target)
		} else {
			result.Failed = append(result.Failed, target)
		}
	}

	for _, target := range candidates {
		err := action(ctx, target)
		if err != nil {
			if !recoverableActionError(err) {
				return BatchResult{}, err
			}

			e.logger.Debug("Action rejected for target",
				zap.Uint64("targetID", uint64(target.ID)),
				zap.Error(err))

			result.Failed = append(result.Failed, target)

			continue
		}

		result.Succeeded = append(result.Succeeded, target)
	}

	e.logger.Debug("Batch action finished",
		zap.Uint64("actorID", uint64(actor.ID)),
		zap.Int("succeeded", len(result.Succeeded)),
		zap.Int("failed", len(result.Failed)))

	return result, nil
}

// recoverableActionError reports whether the error is an expected per-target
// outcome: the upstream denied the operation (403) or the target is already
// gone (404). Everything else is a programming or environment error.
func recoverableActionError(err error) bool {
	var restErr *rest.Error
	if !errors.As(err, &restErr) {
		return false
	}

	if restErr.Response == nil {
		return false
	}

	switch restErr.Response.StatusCode {
	case http.StatusForbidden, http.StatusNotFound:
		return true
	default:
		return false
	}
}
