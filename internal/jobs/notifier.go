package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"ecocollect/internal/cache"

	"github.com/go-co-op/gocron/v2"
	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

// Notification is the payload the platform enqueues for outbound delivery.
type Notification struct {
	Type      string          `json:"type"` // e.g. "pickup_scheduled", "donation_received"
	Recipient string          `json:"recipient"`
	Payload   json.RawMessage `json:"payload,omitempty"`
	CreatedAt time.Time       `json:"created_at,omitempty"`
}

// Sender delivers one notification to its recipient. Implementations
// live with the messaging collaborator; LogSender is the in-repo default.
type Sender interface {
	Send(ctx context.Context, n Notification) error
}

// LogSender writes notifications to the process log. Used in development
// and as the fallback when no real sender is configured.
type LogSender struct{}

// Send implements Sender.
func (LogSender) Send(_ context.Context, n Notification) error {
	log.Printf("📨 [NOTIFY] %s -> %s", n.Type, n.Recipient)
	return nil
}

// NotificationDispatcher periodically drains the notification queue and
// hands each item to the Sender, throttled so a burst of enqueued
// notifications does not flood the downstream provider. Delivery stays
// at-most-once: a failed send is logged and dropped, never requeued.
type NotificationDispatcher struct {
	queue      *cache.NotificationQueue
	sender     Sender
	scheduler  gocron.Scheduler
	throttle   *rate.Limiter
	interval   time.Duration
	batchSize  int
	instanceID string
}

// NewNotificationDispatcher creates a dispatcher draining the queue
// every interval, at most batchSize items per run, sending at most
// perSecond notifications per second.
func NewNotificationDispatcher(queue *cache.NotificationQueue, sender Sender, interval time.Duration, batchSize int, perSecond float64) (*NotificationDispatcher, error) {
	scheduler, err := gocron.NewScheduler(gocron.WithLocation(time.UTC))
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	if sender == nil {
		sender = LogSender{}
	}

	return &NotificationDispatcher{
		queue:      queue,
		sender:     sender,
		scheduler:  scheduler,
		throttle:   rate.NewLimiter(rate.Limit(perSecond), 1),
		interval:   interval,
		batchSize:  batchSize,
		instanceID: uuid.New().String(),
	}, nil
}

// Start registers the drain job and starts the scheduler.
func (d *NotificationDispatcher) Start() error {
	_, err := d.scheduler.NewJob(
		gocron.DurationJob(d.interval),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), d.interval)
			defer cancel()
			d.Drain(ctx)
		}),
	)
	if err != nil {
		return fmt.Errorf("failed to schedule notification dispatch: %w", err)
	}

	d.scheduler.Start()
	log.Printf("⏰ [NOTIFY] Dispatcher started (instance %s, every %s)", d.instanceID, d.interval)
	return nil
}

// Stop shuts the scheduler down, waiting for a running drain to finish.
func (d *NotificationDispatcher) Stop() error {
	log.Println("🛑 [NOTIFY] Stopping dispatcher...")
	return d.scheduler.Shutdown()
}

// Drain pops and sends up to the batch size of pending notifications.
// Returns the number of notifications handed to the sender.
func (d *NotificationDispatcher) Drain(ctx context.Context) int {
	sent := 0
	for i := 0; i < d.batchSize; i++ {
		var n Notification
		status := d.queue.Dequeue(ctx, &n)
		if status != cache.StatusOK {
			break // empty queue or store unavailable; next tick retries
		}

		if err := d.throttle.Wait(ctx); err != nil {
			log.Printf("⚠️  [NOTIFY] Drain cancelled with %s undelivered", n.Type)
			break
		}

		if err := d.sender.Send(ctx, n); err != nil {
			// At-most-once: the item is already off the queue.
			log.Printf("❌ [NOTIFY] Failed to send %s to %s: %v", n.Type, n.Recipient, err)
			continue
		}
		sent++
	}

	if sent > 0 {
		log.Printf("✅ [NOTIFY] Dispatched %d notification(s)", sent)
	}
	return sent
}
