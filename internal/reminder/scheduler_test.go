package reminder_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wardenbot/warden/internal/database/types"
	"github.com/wardenbot/warden/internal/reminder"
	"go.uber.org/zap"
)

// memoryStore is an in-memory Store with autoincrement identifiers.
type memoryStore struct {
	mu     sync.Mutex
	nextID int64
	rows   map[int64]*types.Reminder
}

func newMemoryStore() *memoryStore {
	return &memoryStore{rows: make(map[int64]*types.Reminder)}
}

func (s *memoryStore) Insert(_ context.Context, row *types.Reminder) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	row.ID = s.nextID
	clone := *row
	s.rows[row.ID] = &clone

	return nil
}

func (s *memoryStore) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.rows, id)

	return nil
}

func (s *memoryStore) All(_ context.Context) ([]*types.Reminder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows := make([]*types.Reminder, 0, len(s.rows))
	for _, row := range s.rows {
		clone := *row
		rows = append(rows, &clone)
	}

	return rows, nil
}

func (s *memoryStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.rows)
}

// channelNotifier pushes every delivered reminder onto a channel.
type channelNotifier struct {
	delivered chan *types.Reminder
	err       error
}

func newChannelNotifier() *channelNotifier {
	return &channelNotifier{delivered: make(chan *types.Reminder, 16)}
}

func (n *channelNotifier) Notify(_ context.Context, row *types.Reminder) error {
	n.delivered <- row
	return n.err
}

// stubResolver fails resolution for the configured identifiers.
type stubResolver struct {
	badUsers    map[snowflake.ID]bool
	badChannels map[snowflake.ID]bool
}

func (r *stubResolver) ResolveUser(_ context.Context, id snowflake.ID) error {
	if r.badUsers[id] {
		return errors.New("unknown user")
	}

	return nil
}

func (r *stubResolver) ResolveChannel(_ context.Context, id snowflake.ID) error {
	if r.badChannels[id] {
		return errors.New("unknown channel")
	}

	return nil
}

func newScheduler(t *testing.T, store *memoryStore, notifier *channelNotifier, resolver *stubResolver) *reminder.Scheduler {
	t.Helper()

	if resolver == nil {
		resolver = &stubResolver{}
	}

	s := reminder.NewScheduler(store, notifier, resolver, zap.NewNop())
	t.Cleanup(s.Close)

	return s
}

func TestSchedulerCreateAssignsIdentifiers(t *testing.T) {
	t.Parallel()

	store := newMemoryStore()
	s := newScheduler(t, store, newChannelNotifier(), nil)

	dueAt := time.Now().Add(time.Hour)

	first, err := s.Create(context.Background(), 100, "first", dueAt, 0)
	require.NoError(t, err)

	second, err := s.Create(context.Background(), 100, "second", dueAt, 0)
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, 2, store.count())
}

func TestSchedulerDeliversPastDueImmediately(t *testing.T) {
	t.Parallel()

	store := newMemoryStore()
	notifier := newChannelNotifier()
	s := newScheduler(t, store, notifier, nil)

	row, err := s.Create(context.Background(), 100, "overdue", time.Now().Add(-time.Minute), 0)
	require.NoError(t, err)

	select {
	case delivered := <-notifier.delivered:
		assert.Equal(t, row.ID, delivered.ID)
		assert.Equal(t, "overdue", delivered.Reminder)
	case <-time.After(time.Second):
		t.Fatal("past-due reminder was not delivered within a second")
	}

	require.Eventually(t, func() bool {
		return store.count() == 0
	}, time.Second, 10*time.Millisecond, "delivered reminder row was not cleaned up")
}

func TestSchedulerDeliveryFailureStillCleansUp(t *testing.T) {
	t.Parallel()

	store := newMemoryStore()
	notifier := newChannelNotifier()
	notifier.err = errors.New("destination gone")
	s := newScheduler(t, store, notifier, nil)

	_, err := s.Create(context.Background(), 100, "doomed", time.Now().Add(-time.Second), 0)
	require.NoError(t, err)

	select {
	case <-notifier.delivered:
	case <-time.After(time.Second):
		t.Fatal("reminder delivery was never attempted")
	}

	require.Eventually(t, func() bool {
		return store.count() == 0 && len(s.ListForUser(100)) == 0
	}, time.Second, 10*time.Millisecond)
}

func TestSchedulerCancel(t *testing.T) {
	t.Parallel()

	store := newMemoryStore()
	notifier := newChannelNotifier()
	s := newScheduler(t, store, notifier, nil)

	row, err := s.Create(context.Background(), 100, "cancel me", time.Now().Add(time.Hour), 0)
	require.NoError(t, err)

	// A different user must not be able to cancel it.
	err = s.Cancel(context.Background(), row.ID, 200)
	require.ErrorIs(t, err, reminder.ErrNotOwner)
	assert.Equal(t, 1, store.count())

	require.NoError(t, s.Cancel(context.Background(), row.ID, 100))
	assert.Equal(t, 0, store.count())
	assert.Empty(t, s.ListForUser(100))

	// Cancelling again reports not found instead of failing loudly.
	err = s.Cancel(context.Background(), row.ID, 100)
	require.ErrorIs(t, err, reminder.ErrNotFound)

	select {
	case <-notifier.delivered:
		t.Fatal("cancelled reminder was delivered")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestSchedulerCancelUnknownID(t *testing.T) {
	t.Parallel()

	s := newScheduler(t, newMemoryStore(), newChannelNotifier(), nil)

	err := s.Cancel(context.Background(), 999, 100)
	require.ErrorIs(t, err, reminder.ErrNotFound)
}

func TestSchedulerListForUser(t *testing.T) {
	t.Parallel()

	s := newScheduler(t, newMemoryStore(), newChannelNotifier(), nil)

	later, err := s.Create(context.Background(), 100, "later", time.Now().Add(2*time.Hour), 0)
	require.NoError(t, err)

	sooner, err := s.Create(context.Background(), 100, "sooner", time.Now().Add(time.Hour), 555)
	require.NoError(t, err)

	_, err = s.Create(context.Background(), 200, "other user", time.Now().Add(time.Hour), 0)
	require.NoError(t, err)

	rows := s.ListForUser(100)
	require.Len(t, rows, 2)
	assert.Equal(t, sooner.ID, rows[0].ID)
	assert.Equal(t, later.ID, rows[1].ID)

	assert.Empty(t, s.ListForUser(300))
}

func TestSchedulerLoadAllRestoresWithOriginalIDs(t *testing.T) {
	t.Parallel()

	store := newMemoryStore()
	dueAt := time.Now().Add(time.Hour)

	for _, row := range []*types.Reminder{
		{UserID: 100, Reminder: "first", EndTime: dueAt.Unix()},
		{UserID: 100, Reminder: "second", EndTime: dueAt.Add(time.Minute).Unix(), Destination: 555},
	} {
		require.NoError(t, store.Insert(context.Background(), row))
	}

	s := newScheduler(t, store, newChannelNotifier(), nil)

	armed, err := s.LoadAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, armed)

	rows := s.ListForUser(100)
	require.Len(t, rows, 2)
	assert.Equal(t, int64(1), rows[0].ID)
	assert.Equal(t, "first", rows[0].Reminder)
	assert.Equal(t, int64(2), rows[1].ID)
	assert.Equal(t, uint64(555), rows[1].Destination)

	// Cancelling by the stored identifier works after the restore.
	require.NoError(t, s.Cancel(context.Background(), 1, 100))
}

func TestSchedulerLoadAllDropsUnresolvableRows(t *testing.T) {
	t.Parallel()

	store := newMemoryStore()
	dueAt := time.Now().Add(time.Hour)

	for _, row := range []*types.Reminder{
		{UserID: 100, Reminder: "keep", EndTime: dueAt.Unix()},
		{UserID: 200, Reminder: "gone user", EndTime: dueAt.Unix()},
		{UserID: 100, Reminder: "gone channel", EndTime: dueAt.Unix(), Destination: 999},
	} {
		require.NoError(t, store.Insert(context.Background(), row))
	}

	resolver := &stubResolver{
		badUsers:    map[snowflake.ID]bool{200: true},
		badChannels: map[snowflake.ID]bool{999: true},
	}
	s := newScheduler(t, store, newChannelNotifier(), resolver)

	armed, err := s.LoadAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, armed)

	// Unresolvable rows are purged from the store, not just skipped.
	assert.Equal(t, 1, store.count())

	rows := s.ListForUser(100)
	require.Len(t, rows, 1)
	assert.Equal(t, "keep", rows[0].Reminder)
}

func TestSchedulerLoadAllFiresOverdueRows(t *testing.T) {
	t.Parallel()

	store := newMemoryStore()
	require.NoError(t, store.Insert(context.Background(), &types.Reminder{
		UserID:   100,
		Reminder: "missed while down",
		EndTime:  time.Now().Add(-time.Hour).Unix(),
	}))

	notifier := newChannelNotifier()
	s := newScheduler(t, store, notifier, nil)

	armed, err := s.LoadAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, armed)

	select {
	case delivered := <-notifier.delivered:
		assert.Equal(t, "missed while down", delivered.Reminder)
	case <-time.After(time.Second):
		t.Fatal("overdue reminder did not fire after restore")
	}
}
