package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"sync"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// subscriptionBuffer is the per-subscriber delivery buffer. Pub/sub is
// fire-and-forget: when a subscriber falls this far behind, further
// messages are dropped rather than blocking the pump.
const subscriptionBuffer = 64

// Broker fans JSON messages out to live subscribers over Redis pub/sub.
// Each subscription holds its own dedicated connection (a connection in
// subscribe mode cannot issue ordinary commands), while Publish goes out
// over the shared client. Messages have no persistence or backlog: a
// message published with no live subscriber is lost silently.
type Broker struct {
	client *Client

	mu   sync.Mutex
	subs map[string]*Subscription
}

// Subscription is a live, cancellable subscription to one channel.
// Messages arrive on C until Close is called or the connection dies.
type Subscription struct {
	ID      string
	Channel string
	C       <-chan json.RawMessage

	broker *Broker
	pubsub *redis.PubSub
	once   sync.Once
}

// NewBroker creates a pub/sub broker over the shared client.
func NewBroker(client *Client) *Broker {
	return &Broker{
		client: client,
		subs:   make(map[string]*Subscription),
	}
}

// Publish serializes message and broadcasts it on channel. Returns false
// when serialization fails or the store is unreachable; there is no
// acknowledgement of delivery either way.
func (b *Broker) Publish(ctx context.Context, channel string, message any) bool {
	rdb, ok := b.client.cmd()
	if !ok {
		return false
	}

	data, err := json.Marshal(message)
	if err != nil {
		log.Printf("❌ [PUBSUB] Failed to serialize message for channel %s: %v", channel, err)
		return false
	}

	if err := rdb.Publish(ctx, channel, data).Err(); err != nil {
		log.Printf("❌ [PUBSUB] Publish failed on channel %s: %v", channel, err)
		b.client.demote(err)
		return false
	}
	return true
}

// Subscribe opens a dedicated pub/sub connection for channel and returns
// a handle delivering each message on its C channel. Malformed payloads
// are logged and skipped without ending the subscription. Closing the
// handle never affects other subscribers on the same channel.
func (b *Broker) Subscribe(ctx context.Context, channel string) (*Subscription, error) {
	rdb, ok := b.client.cmd()
	if !ok {
		return nil, errors.New("cache client not ready")
	}

	ps := rdb.Subscribe(ctx, channel)

	// Confirm the subscription before handing out the handle so a
	// message published after Subscribe returns is not missed.
	if _, err := ps.Receive(ctx); err != nil {
		ps.Close()
		return nil, err
	}

	out := make(chan json.RawMessage, subscriptionBuffer)
	sub := &Subscription{
		ID:      uuid.New().String(),
		Channel: channel,
		C:       out,
		broker:  b,
		pubsub:  ps,
	}

	b.mu.Lock()
	b.subs[sub.ID] = sub
	b.mu.Unlock()
	pubsubSubscribers.Inc()

	go sub.pump(out)

	log.Printf("📡 [PUBSUB] Subscribed to channel %s (sub %s)", channel, sub.ID)
	return sub, nil
}

// SubscriberCount returns the number of live subscriptions on this broker.
func (b *Broker) SubscriberCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}

// CloseAll closes every live subscription; used at shutdown.
func (b *Broker) CloseAll() {
	b.mu.Lock()
	subs := make([]*Subscription, 0, len(b.subs))
	for _, s := range b.subs {
		subs = append(subs, s)
	}
	b.mu.Unlock()

	for _, s := range subs {
		s.Close()
	}
}

// pump moves messages from the dedicated connection to the handle's
// channel until the connection closes.
func (s *Subscription) pump(out chan<- json.RawMessage) {
	defer close(out)

	for msg := range s.pubsub.Channel() {
		payload := json.RawMessage(msg.Payload)
		if !json.Valid(payload) {
			log.Printf("⚠️  [PUBSUB] Skipping malformed message on channel %s", s.Channel)
			continue
		}

		select {
		case out <- payload:
		default:
			// Subscriber is not keeping up; fire-and-forget drops it.
			log.Printf("⚠️  [PUBSUB] Dropping message for slow subscriber %s on channel %s", s.ID, s.Channel)
		}
	}
}

// Close ends this subscription and releases its dedicated connection.
// Safe to call more than once.
func (s *Subscription) Close() error {
	var err error
	s.once.Do(func() {
		s.broker.mu.Lock()
		delete(s.broker.subs, s.ID)
		s.broker.mu.Unlock()
		pubsubSubscribers.Dec()

		err = s.pubsub.Close()
		log.Printf("👋 [PUBSUB] Unsubscribed from channel %s (sub %s)", s.Channel, s.ID)
	})
	return err
}
