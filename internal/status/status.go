package status

import (
	"context"
	"fmt"
	"time"

	"github.com/bytedance/sonic"
	"github.com/redis/rueidis"
	"go.uber.org/zap"
)

const (
	// HeartbeatInterval is how often services report their status.
	HeartbeatInterval = 10 * time.Second

	// HeartbeatTTL is how long a service's status remains valid.
	HeartbeatTTL = 10 * time.Minute

	// StaleThreshold is how long before a service is considered offline.
	StaleThreshold = 1 * time.Minute
)

// Status represents a service instance's current state.
type Status struct {
	InstanceID       string    `json:"instanceId"`
	Service          string    `json:"service"`
	LastSeen         time.Time `json:"lastSeen"`
	PendingReminders int       `json:"pendingReminders"`
	Guilds           int       `json:"guilds"`
	IsHealthy        bool      `json:"isHealthy"`
}

// Monitor handles service status reporting and querying.
type Monitor struct {
	client rueidis.Client
	logger *zap.Logger
}

// NewMonitor creates a new service status monitor.
func NewMonitor(client rueidis.Client, logger *zap.Logger) *Monitor {
	return &Monitor{
		client: client,
		logger: logger,
	}
}

// ReportStatus updates a service's status in Redis.
func (m *Monitor) ReportStatus(ctx context.Context, status Status) error {
	status.LastSeen = time.Now()

	data, err := sonic.Marshal(status)
	if err != nil {
		return fmt.Errorf("failed to marshal status: %w", err)
	}

	key := fmt.Sprintf("service:%s:%s", status.Service, status.InstanceID)

	err = m.client.Do(ctx, m.client.B().Set().Key(key).Value(string(data)).Ex(HeartbeatTTL).Build()).Error()
	if err != nil {
		return fmt.Errorf("failed to store status: %w", err)
	}

	return nil
}

// GetAllStatuses retrieves every reported service status.
func (m *Monitor) GetAllStatuses(ctx context.Context) ([]Status, error) {
	keys, err := m.client.Do(ctx, m.client.B().Keys().Pattern("service:*").Build()).AsStrSlice()
	if err != nil {
		return nil, fmt.Errorf("failed to get service keys: %w", err)
	}

	statuses := make([]Status, 0, len(keys))

	for _, key := range keys {
		data, err := m.client.Do(ctx, m.client.B().Get().Key(key).Build()).AsBytes()
		if err != nil {
			m.logger.Error("Failed to get service status", zap.String("key", key), zap.Error(err))
			continue
		}

		var status Status
		if err := sonic.Unmarshal(data, &status); err != nil {
			m.logger.Error("Failed to unmarshal service status", zap.String("key", key), zap.Error(err))
			continue
		}

		statuses = append(statuses, status)
	}

	return statuses, nil
}

// IsStale reports whether a status is old enough to count as offline.
func (s Status) IsStale() bool {
	return time.Since(s.LastSeen) > StaleThreshold
}
