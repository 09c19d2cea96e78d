package notify

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/toruke/2tm1-ParkEase/internal/logger"
	"github.com/toruke/2tm1-ParkEase/internal/metrics"
)

const alertQueue = "parkease:alerts"

// Alert is the payload queued when the lot runs low on spaces.
type Alert struct {
	Available int       `json:"available"`
	Total     int       `json:"total"`
	At        time.Time `json:"at"`
}

// LogNotifier writes low-capacity alerts to the log. The default when no
// redis is configured.
type LogNotifier struct{}

func (LogNotifier) LowCapacity(_ context.Context, available, total int) {
	metrics.RecordCapacityAlert()
	logger.Info("parking lot is almost full",
		"available", available,
		"total", total,
	)
}

// RedisNotifier queues low-capacity alerts onto a redis list for an
// external consumer (signage, paging). Delivery is best effort: a queue
// failure is logged, never surfaced to the check-in that triggered it.
type RedisNotifier struct {
	client *redis.Client
}

func NewRedisNotifier(client *redis.Client) *RedisNotifier {
	return &RedisNotifier{client: client}
}

func (n *RedisNotifier) LowCapacity(ctx context.Context, available, total int) {
	metrics.RecordCapacityAlert()

	data, err := json.Marshal(Alert{Available: available, Total: total, At: time.Now()})
	if err != nil {
		logger.Errorf("Failed to marshal capacity alert: %v", err)
		return
	}

	if err := n.client.LPush(ctx, alertQueue, string(data)).Err(); err != nil {
		logger.Errorf("Failed to queue capacity alert: %v", err)
		return
	}

	logger.Info("capacity alert queued", "available", available, "total", total)
}

func (n *RedisNotifier) Close() error {
	return n.client.Close()
}
