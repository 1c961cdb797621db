package queue

import (
	"fmt"
	"sync/atomic"
)

// Stats is a point-in-time view of the crop queue and this process's workers.
type Stats struct {
	Name      string `json:"name"`
	Pending   int    `json:"pending"`
	Consumers int    `json:"consumers"`
	Workers   int64  `json:"workers"`
	Completed int64  `json:"completed"`
	Failed    int64  `json:"failed"`
}

type counters struct {
	workers   atomic.Int64
	completed atomic.Int64
	failed    atomic.Int64
}

// Counts returns the local worker counters without touching the broker.
func (q *QueueService) Counts() Stats {
	return Stats{
		Name:      q.queueName,
		Workers:   q.counts.workers.Load(),
		Completed: q.counts.completed.Load(),
		Failed:    q.counts.failed.Load(),
	}
}

func (q *QueueService) GetQueueStats() (Stats, error) {
	stats := q.Counts()
	if q.channel == nil {
		return stats, fmt.Errorf("queue channel not available")
	}

	queueInfo, err := q.channel.QueueInspect(q.queueName)
	if err != nil {
		return stats, fmt.Errorf("failed to inspect queue: %w", err)
	}
	stats.Pending = queueInfo.Messages
	stats.Consumers = queueInfo.Consumers

	return stats, nil
}

// HealthCheck reports whether the broker connection is usable
func (q *QueueService) HealthCheck() string {
	if q.conn == nil || q.conn.IsClosed() {
		return "unhealthy: connection closed"
	}

	if q.channel == nil {
		return "unhealthy: channel not available"
	}

	return "healthy"
}
