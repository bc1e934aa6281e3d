package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log"

	"github.com/redis/go-redis/v9"
)

const notificationQueueKey = "notification_queue"

// NotificationQueue is the single FIFO queue of pending outbound
// notifications. Producers LPUSH to the head, the consumer RPOPs the
// tail, so the oldest item is always dequeued first. Delivery is
// at-most-once: a popped item is gone whether or not the consumer
// manages to send it, and the queue does not survive a store restart.
type NotificationQueue struct {
	client *Client
}

// NewNotificationQueue creates the queue over the shared client.
func NewNotificationQueue(client *Client) *NotificationQueue {
	return &NotificationQueue{client: client}
}

// Enqueue pushes a serialized item onto the queue. Returns false (and
// logs) when the store is unreachable; the notification is dropped, not
// retried — callers needing durability must not rely on this queue.
func (q *NotificationQueue) Enqueue(ctx context.Context, item any) bool {
	rdb, ok := q.client.cmd()
	if !ok {
		return false
	}

	data, err := json.Marshal(item)
	if err != nil {
		log.Printf("❌ [QUEUE] Failed to serialize notification: %v", err)
		return false
	}

	if err := rdb.LPush(ctx, notificationQueueKey, data).Err(); err != nil {
		log.Printf("❌ [QUEUE] Enqueue failed: %v", err)
		q.client.demote(err)
		return false
	}

	queueOps.WithLabelValues("enqueue").Inc()
	return true
}

// Dequeue pops the oldest item, decoding it into dest. StatusMiss means
// the queue is empty; StatusUnavailable means the store is down.
func (q *NotificationQueue) Dequeue(ctx context.Context, dest any) Status {
	rdb, ok := q.client.cmd()
	if !ok {
		return StatusUnavailable
	}

	data, err := rdb.RPop(ctx, notificationQueueKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			queueOps.WithLabelValues("empty").Inc()
			return StatusMiss
		}
		log.Printf("⚠️  [QUEUE] Dequeue failed: %v", err)
		q.client.demote(err)
		return StatusUnavailable
	}

	if err := json.Unmarshal(data, dest); err != nil {
		// The item is already popped; at-most-once means it is lost.
		log.Printf("⚠️  [QUEUE] Dropping undecodable notification: %v", err)
		return StatusMiss
	}

	queueOps.WithLabelValues("dequeue").Inc()
	return StatusOK
}

// Len reports the number of pending notifications, 0 when unavailable.
func (q *NotificationQueue) Len(ctx context.Context) int64 {
	rdb, ok := q.client.cmd()
	if !ok {
		return 0
	}
	n, err := rdb.LLen(ctx, notificationQueueKey).Result()
	if err != nil {
		q.client.demote(err)
		return 0
	}
	return n
}
