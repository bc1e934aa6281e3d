package cache

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// State is the lifecycle state of the Client's connection to Redis.
type State int

const (
	StateDisconnected State = iota
	StateConnecting
	StateConnected
	StateReady
	StateEnded
)

// String implements fmt.Stringer.
func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	case StateReady:
		return "ready"
	case StateEnded:
		return "ended"
	default:
		return "unknown"
	}
}

// HealthStatus is the snapshot returned by HealthCheck.
type HealthStatus struct {
	Status    string `json:"status"` // "healthy" or "degraded"
	Connected bool   `json:"connected"`
}

// Client owns the single shared Redis connection used for ordinary
// request/response commands. It is constructed explicitly and passed by
// reference to every component that needs it; there is no package-level
// singleton. Pub/sub subscriptions open their own dedicated connections
// (see Broker) and only borrow the client, never own it.
type Client struct {
	opts    *redis.Options
	backoff BackoffPolicy

	mu           sync.RWMutex
	rdb          *redis.Client
	state        State
	reconnecting bool
}

// NewClient builds a client from a redis:// URL. The connection is not
// opened until Connect is called.
func NewClient(redisURL string, backoff BackoffPolicy) (*Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	// Connection pool tuning
	opts.PoolSize = 10
	opts.MinIdleConns = 2
	opts.MaxRetries = 3
	opts.DialTimeout = 5 * time.Second
	opts.ReadTimeout = 3 * time.Second
	opts.WriteTimeout = 3 * time.Second

	return NewClientWithOptions(opts, backoff), nil
}

// NewClientWithOptions builds a client from pre-built options. Used by
// tests to point at an in-process Redis.
func NewClientWithOptions(opts *redis.Options, backoff BackoffPolicy) *Client {
	return &Client{
		opts:    opts,
		backoff: backoff,
		state:   StateDisconnected,
	}
}

// Connect opens the connection and verifies it with a ping. On ping
// failure the client starts its background reconnect loop and Connect
// still returns nil: the cache layer starts degraded rather than failing
// the host process. Only a second Connect on a live client is an error.
func (c *Client) Connect(ctx context.Context) error {
	c.mu.Lock()
	if c.state == StateConnecting || c.state == StateConnected || c.state == StateReady {
		c.mu.Unlock()
		return errors.New("cache client already connected")
	}
	c.state = StateConnecting
	if c.rdb != nil {
		c.rdb.Close()
	}
	c.rdb = redis.NewClient(c.opts)
	rdb := c.rdb
	c.mu.Unlock()

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := rdb.Ping(pingCtx).Err(); err != nil {
		log.Printf("⚠️  [CACHE] Initial connection failed, retrying in background: %v", err)
		c.setState(StateDisconnected)
		c.kickReconnect()
		return nil
	}

	c.setState(StateConnected)
	c.setState(StateReady)
	log.Println("✅ [CACHE] Redis connection established")
	return nil
}

// Disconnect ends the client permanently. A new Connect call is required
// to use it again.
func (c *Client) Disconnect() error {
	c.mu.Lock()
	c.state = StateEnded
	rdb := c.rdb
	c.rdb = nil
	c.mu.Unlock()

	if rdb != nil {
		log.Println("👋 [CACHE] Redis connection closed")
		return rdb.Close()
	}
	return nil
}

// Ready reports whether ordinary operations may be issued. Every
// component checks this before touching the store and fails open when
// it is false.
func (c *Client) Ready() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state == StateReady && c.rdb != nil
}

// State returns the current lifecycle state.
func (c *Client) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// HealthCheck reports connectivity for the /health endpoint. It never
// returns an error: an unreachable store is "degraded", not a failure.
func (c *Client) HealthCheck(ctx context.Context) HealthStatus {
	rdb, ok := c.cmd()
	if !ok {
		return HealthStatus{Status: "degraded", Connected: false}
	}

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := rdb.Ping(pingCtx).Err(); err != nil {
		log.Printf("⚠️  [CACHE] Health ping failed: %v", err)
		c.demote(err)
		return HealthStatus{Status: "degraded", Connected: false}
	}
	return HealthStatus{Status: "healthy", Connected: true}
}

func (c *Client) redis() *redis.Client {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.rdb
}

// cmd returns the shared connection iff the client is Ready. Components
// use this so the readiness check and the handle come from one snapshot.
func (c *Client) cmd() (*redis.Client, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.state != StateReady || c.rdb == nil {
		return nil, false
	}
	return c.rdb, true
}

func (c *Client) setState(s State) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == StateEnded {
		return // a disconnected client stays ended
	}
	c.state = s
}

// demote records a transport error seen by an operation: the client
// drops out of Ready and a fresh reconnect cycle starts. redis.Nil is a
// miss, not a transport error, and never reaches here.
func (c *Client) demote(err error) {
	if errors.Is(err, redis.Nil) {
		return
	}

	c.mu.Lock()
	if c.state != StateReady {
		c.mu.Unlock()
		return
	}
	c.state = StateDisconnected
	c.mu.Unlock()

	log.Printf("❌ [CACHE] Connection lost: %v", err)
	c.kickReconnect()
}

// kickReconnect starts the background retry loop unless one is already
// running. The loop is the only recurring background activity in the
// cache layer.
func (c *Client) kickReconnect() {
	c.mu.Lock()
	if c.reconnecting || c.state == StateEnded {
		c.mu.Unlock()
		return
	}
	c.reconnecting = true
	c.mu.Unlock()

	go c.reconnectLoop()
}

func (c *Client) reconnectLoop() {
	defer func() {
		c.mu.Lock()
		c.reconnecting = false
		c.mu.Unlock()
	}()

	var elapsed time.Duration
	for attempt := 1; ; attempt++ {
		if c.State() == StateEnded {
			return
		}

		delay := c.backoff.Delay(attempt)
		time.Sleep(delay)
		elapsed += delay

		rdb := c.redis()
		if rdb == nil {
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err := rdb.Ping(ctx).Err()
		cancel()

		if err == nil {
			c.setState(StateReady)
			log.Printf("✅ [CACHE] Reconnected to Redis after %d attempt(s)", attempt)
			return
		}

		log.Printf("⚠️  [CACHE] Reconnect attempt %d/%d failed: %v", attempt, c.backoff.MaxAttempts, err)

		if c.backoff.Exhausted(attempt, elapsed) {
			log.Printf("❌ [CACHE] Giving up after %d attempts (%s elapsed); cache stays unavailable until reconnected", attempt, elapsed)
			return
		}
	}
}
