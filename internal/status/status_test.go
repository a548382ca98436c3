package status_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/rueidis"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wardenbot/warden/internal/status"
	"go.uber.org/zap"
)

func setupTest(t *testing.T) (*miniredis.Miniredis, rueidis.Client) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)

	client, err := rueidis.NewClient(rueidis.ClientOption{
		InitAddress:  []string{mr.Addr()},
		DisableCache: true,
	})
	require.NoError(t, err)

	t.Cleanup(func() {
		client.Close()
		mr.Close()
	})

	return mr, client
}

func TestReportAndGetStatuses(t *testing.T) {
	t.Parallel()

	_, client := setupTest(t)
	monitor := status.NewMonitor(client, zap.NewNop())

	err := monitor.ReportStatus(context.Background(), status.Status{
		InstanceID:       "instance-a",
		Service:          "bot",
		PendingReminders: 3,
		Guilds:           12,
		IsHealthy:        true,
	})
	require.NoError(t, err)

	err = monitor.ReportStatus(context.Background(), status.Status{
		InstanceID: "instance-b",
		Service:    "scheduler",
		IsHealthy:  false,
	})
	require.NoError(t, err)

	statuses, err := monitor.GetAllStatuses(context.Background())
	require.NoError(t, err)
	require.Len(t, statuses, 2)

	byID := make(map[string]status.Status, len(statuses))
	for _, s := range statuses {
		byID[s.InstanceID] = s
	}

	bot := byID["instance-a"]
	assert.Equal(t, "bot", bot.Service)
	assert.Equal(t, 3, bot.PendingReminders)
	assert.Equal(t, 12, bot.Guilds)
	assert.True(t, bot.IsHealthy)
	assert.WithinDuration(t, time.Now(), bot.LastSeen, time.Minute)
	assert.False(t, bot.IsStale())

	assert.False(t, byID["instance-b"].IsHealthy)
}

func TestReportStatusSetsTTL(t *testing.T) {
	t.Parallel()

	mr, client := setupTest(t)
	monitor := status.NewMonitor(client, zap.NewNop())

	err := monitor.ReportStatus(context.Background(), status.Status{
		InstanceID: "instance-a",
		Service:    "bot",
		IsHealthy:  true,
	})
	require.NoError(t, err)

	// Expired heartbeats disappear instead of lingering as ghost instances.
	mr.FastForward(status.HeartbeatTTL + time.Second)

	statuses, err := monitor.GetAllStatuses(context.Background())
	require.NoError(t, err)
	assert.Empty(t, statuses)
}

func TestStatusIsStale(t *testing.T) {
	t.Parallel()

	fresh := status.Status{LastSeen: time.Now()}
	assert.False(t, fresh.IsStale())

	stale := status.Status{LastSeen: time.Now().Add(-2 * status.StaleThreshold)}
	assert.True(t, stale.IsStale())
}

func TestReporterLifecycle(t *testing.T) {
	t.Parallel()

	_, client := setupTest(t)

	reporter := status.NewReporter(client, "bot", zap.NewNop())
	assert.NotEmpty(t, reporter.InstanceID())

	reporter.UpdateCounts(5, 2)
	reporter.Start(context.Background())

	monitor := status.NewMonitor(client, zap.NewNop())

	require.Eventually(t, func() bool {
		statuses, err := monitor.GetAllStatuses(context.Background())
		return err == nil && len(statuses) == 1
	}, time.Second, 10*time.Millisecond)

	statuses, err := monitor.GetAllStatuses(context.Background())
	require.NoError(t, err)
	assert.Equal(t, reporter.InstanceID(), statuses[0].InstanceID)
	assert.Equal(t, 5, statuses[0].PendingReminders)
	assert.Equal(t, 2, statuses[0].Guilds)

	// Stop is idempotent.
	reporter.Stop()
	reporter.Stop()
}
