package reminder

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/sourcegraph/conc/pool"
	"github.com/wardenbot/warden/internal/database/types"
	"go.uber.org/zap"
)

// DeliveryTimeout bounds how long a single reminder delivery may take.
const DeliveryTimeout = 30 * time.Second

// pendingReminder pairs an armed reminder row with the cancel function
// that tears down its waiting goroutine.
type pendingReminder struct {
	row    *types.Reminder
	cancel context.CancelFunc
}

// Scheduler arms one goroutine per pending reminder and fires them at their
// due time. Rows are persisted before they are armed, so reminders survive
// restarts; LoadAll rebuilds the in-memory state from the store.
type Scheduler struct {
	store    Store
	notifier Notifier
	resolver IdentityResolver
	logger   *zap.Logger

	ctx       context.Context
	ctxCancel context.CancelFunc

	mu      sync.Mutex
	pending map[int64]*pendingReminder
}

// NewScheduler creates a scheduler with no reminders armed.
func NewScheduler(store Store, notifier Notifier, resolver IdentityResolver, logger *zap.Logger) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())

	return &Scheduler{
		store:     store,
		notifier:  notifier,
		resolver:  resolver,
		logger:    logger.Named("reminder_scheduler"),
		ctx:       ctx,
		ctxCancel: cancel,
		pending:   make(map[int64]*pendingReminder),
	}
}

// Create persists a new reminder and arms it. The row is committed before
// the timer starts, so a crash between the two steps loses the timer but
// never the reminder. Destination 0 means the creator's DMs.
func (s *Scheduler) Create(
	ctx context.Context, userID snowflake.ID, message string, dueAt time.Time, destination snowflake.ID,
) (*types.Reminder, error) {
	row := &types.Reminder{
		UserID:      uint64(userID),
		Reminder:    message,
		EndTime:     dueAt.UTC().Unix(),
		Destination: uint64(destination),
	}

	if err := s.store.Insert(ctx, row); err != nil {
		return nil, fmt.Errorf("failed to persist reminder: %w", err)
	}

	s.arm(row)
	s.logger.Debug("Created reminder",
		zap.Int64("id", row.ID),
		zap.Uint64("userID", row.UserID),
		zap.Time("dueAt", row.DueAt()))

	return row, nil
}

// Cancel tears down a pending reminder owned by the given user. Cancelling a
// reminder that already fired or was already cancelled returns ErrNotFound.
func (s *Scheduler) Cancel(ctx context.Context, id int64, userID snowflake.ID) error {
	s.mu.Lock()

	p, ok := s.pending[id]
	if !ok {
		s.mu.Unlock()
		return ErrNotFound
	}

	if p.row.UserID != uint64(userID) {
		s.mu.Unlock()
		return ErrNotOwner
	}

	delete(s.pending, id)
	s.mu.Unlock()

	p.cancel()

	if err := s.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete reminder: %w", err)
	}

	s.logger.Debug("Cancelled reminder", zap.Int64("id", id), zap.Uint64("userID", uint64(userID)))

	return nil
}

// ListForUser returns the user's pending reminders ordered by due time.
func (s *Scheduler) ListForUser(userID snowflake.ID) []*types.Reminder {
	s.mu.Lock()

	rows := make([]*types.Reminder, 0, len(s.pending))
	for _, p := range s.pending {
		if p.row.UserID == uint64(userID) {
			rows = append(rows, p.row)
		}
	}

	s.mu.Unlock()

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].EndTime != rows[j].EndTime {
			return rows[i].EndTime < rows[j].EndTime
		}

		return rows[i].ID < rows[j].ID
	})

	return rows
}

// LoadAll restores persisted reminders after a restart. Each row keeps its
// stored identifier, rows whose user or destination no longer resolves are
// deleted, and rows that came due while the process was down fire
// immediately. Returns the number of reminders armed.
func (s *Scheduler) LoadAll(ctx context.Context) (int, error) {
	rows, err := s.store.All(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to load reminders: %w", err)
	}

	var (
		p     = pool.New().WithContext(ctx)
		mu    sync.Mutex
		armed int
	)

	for _, row := range rows {
		row := row
		p.Go(func(ctx context.Context) error {
			if !s.resolve(ctx, row) {
				if err := s.store.Delete(ctx, row.ID); err != nil {
					s.logger.Warn("Failed to delete unresolvable reminder",
						zap.Int64("id", row.ID), zap.Error(err))
				}

				return nil
			}

			s.arm(row)

			mu.Lock()
			armed++
			mu.Unlock()

			return nil
		})
	}

	if err := p.Wait(); err != nil {
		return armed, fmt.Errorf("failed to restore reminders: %w", err)
	}

	s.logger.Info("Restored reminders",
		zap.Int("armed", armed),
		zap.Int("dropped", len(rows)-armed))

	return armed, nil
}

// Close cancels every pending timer without deleting the stored rows;
// the next LoadAll picks them back up.
func (s *Scheduler) Close() {
	s.ctxCancel()

	s.mu.Lock()
	s.pending = make(map[int64]*pendingReminder)
	s.mu.Unlock()
}

// resolve reports whether the reminder's user and destination still exist.
func (s *Scheduler) resolve(ctx context.Context, row *types.Reminder) bool {
	if err := s.resolver.ResolveUser(ctx, snowflake.ID(row.UserID)); err != nil {
		s.logger.Debug("Dropping reminder with unresolvable user",
			zap.Int64("id", row.ID), zap.Uint64("userID", row.UserID), zap.Error(err))
		return false
	}

	if row.Destination != 0 {
		if err := s.resolver.ResolveChannel(ctx, snowflake.ID(row.Destination)); err != nil {
			s.logger.Debug("Dropping reminder with unresolvable destination",
				zap.Int64("id", row.ID), zap.Uint64("destination", row.Destination), zap.Error(err))
			return false
		}
	}

	return true
}

// arm registers the row and starts its waiting goroutine. A due time in the
// past fires the reminder immediately.
func (s *Scheduler) arm(row *types.Reminder) {
	runCtx, cancel := context.WithCancel(s.ctx)

	s.mu.Lock()
	s.pending[row.ID] = &pendingReminder{row: row, cancel: cancel}
	s.mu.Unlock()

	go s.wait(runCtx, row)
}

// wait blocks until the reminder is due or cancelled, then delivers it.
// Delivery failures are logged and swallowed; cleanup happens either way so
// a broken destination cannot wedge a reminder in the store forever.
func (s *Scheduler) wait(ctx context.Context, row *types.Reminder) {
	timer := time.NewTimer(time.Until(row.DueAt()))
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return
	case <-timer.C:
	}

	deliverCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), DeliveryTimeout)
	defer cancel()

	if err := s.notifier.Notify(deliverCtx, row); err != nil {
		s.logger.Warn("Failed to deliver reminder",
			zap.Int64("id", row.ID),
			zap.Uint64("userID", row.UserID),
			zap.Error(err))
	}

	s.mu.Lock()
	delete(s.pending, row.ID)
	s.mu.Unlock()

	if err := s.store.Delete(deliverCtx, row.ID); err != nil {
		s.logger.Warn("Failed to delete delivered reminder",
			zap.Int64("id", row.ID), zap.Error(err))
	}
}
