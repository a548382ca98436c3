package status

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/rueidis"
	"go.uber.org/zap"
)

// Reporter handles automatic periodic status reporting for a service.
type Reporter struct {
	monitor  *Monitor
	status   Status
	stopChan chan struct{}
	stopped  bool
	mu       sync.Mutex
	logger   *zap.Logger
}

// NewReporter creates a status reporter for one service instance.
func NewReporter(client rueidis.Client, service string, logger *zap.Logger) *Reporter {
	return &Reporter{
		monitor: NewMonitor(client, logger),
		status: Status{
			InstanceID: uuid.New().String(),
			Service:    service,
			IsHealthy:  true,
		},
		stopChan: make(chan struct{}),
		logger:   logger.Named("status_reporter"),
	}
}

// Start begins periodic status reporting.
func (r *Reporter) Start(ctx context.Context) {
	r.mu.Lock()

	if r.stopped {
		r.mu.Unlock()
		return
	}

	r.mu.Unlock()

	go func() {
		ticker := time.NewTicker(HeartbeatInterval)
		defer ticker.Stop()

		r.report(ctx)

		for {
			select {
			case <-ticker.C:
				r.report(ctx)
			case <-ctx.Done():
				return
			case <-r.stopChan:
				return
			}
		}
	}()
}

// Stop ends status reporting.
func (r *Reporter) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.stopped {
		close(r.stopChan)
		r.stopped = true
	}
}

// UpdateCounts refreshes the gauges included in the next heartbeat.
func (r *Reporter) UpdateCounts(pendingReminders, guilds int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.status.PendingReminders = pendingReminders
	r.status.Guilds = guilds
}

// SetHealthy updates the health flag.
func (r *Reporter) SetHealthy(healthy bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.status.IsHealthy = healthy
}

// InstanceID returns the unique instance identifier.
func (r *Reporter) InstanceID() string {
	return r.status.InstanceID
}

func (r *Reporter) report(ctx context.Context) {
	r.mu.Lock()
	current := r.status
	r.mu.Unlock()

	if err := r.monitor.ReportStatus(ctx, current); err != nil {
		r.logger.Error("Failed to report status", zap.Error(err))
	}
}
