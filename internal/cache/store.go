package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// Store is the generic JSON cache over the shared client. Every write
// carries a TTL; nothing in the store lives forever. All operations fail
// open: when the store is unreachable they return safe defaults and the
// only side effect is a log line. The cache is a read-through
// accelerator, never the system of record.
type Store struct {
	client *Client
}

// NewStore creates the cache store over a connected (or connecting) client.
func NewStore(client *Client) *Store {
	return &Store{client: client}
}

// Set serializes value as JSON and writes it under key with the given
// TTL. Returns false (and logs) on failure; never returns an error.
func (s *Store) Set(ctx context.Context, key string, value any, ttl time.Duration) bool {
	rdb, ok := s.client.cmd()
	if !ok {
		cacheWrites.WithLabelValues("unavailable").Inc()
		return false
	}

	data, err := json.Marshal(value)
	if err != nil {
		log.Printf("❌ [CACHE] Failed to serialize value for key %s: %v", key, err)
		cacheWrites.WithLabelValues("failed").Inc()
		return false
	}

	if err := rdb.Set(ctx, key, data, ttl).Err(); err != nil {
		log.Printf("❌ [CACHE] Set failed for key %s: %v", key, err)
		s.client.demote(err)
		cacheWrites.WithLabelValues("failed").Inc()
		return false
	}

	cacheWrites.WithLabelValues("ok").Inc()
	return true
}

// Get reads key and decodes its JSON payload into dest. A payload that
// fails to decode is treated as a miss, not an error: the entry is
// reconstructible from the authoritative store, so a corrupt cache line
// is simply ignored.
func (s *Store) Get(ctx context.Context, key string, dest any) Status {
	rdb, ok := s.client.cmd()
	if !ok {
		cacheReads.WithLabelValues("unavailable").Inc()
		return StatusUnavailable
	}

	data, err := rdb.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			cacheReads.WithLabelValues("miss").Inc()
			return StatusMiss
		}
		log.Printf("⚠️  [CACHE] Get failed for key %s: %v", key, err)
		s.client.demote(err)
		cacheReads.WithLabelValues("unavailable").Inc()
		return StatusUnavailable
	}

	if err := json.Unmarshal(data, dest); err != nil {
		log.Printf("⚠️  [CACHE] Discarding undecodable entry at key %s: %v", key, err)
		cacheReads.WithLabelValues("miss").Inc()
		return StatusMiss
	}

	cacheReads.WithLabelValues("ok").Inc()
	return StatusOK
}

// Delete removes a key. Returns false when the store is unreachable or
// the delete fails.
func (s *Store) Delete(ctx context.Context, key string) bool {
	rdb, ok := s.client.cmd()
	if !ok {
		return false
	}

	if err := rdb.Del(ctx, key).Err(); err != nil {
		log.Printf("❌ [CACHE] Delete failed for key %s: %v", key, err)
		s.client.demote(err)
		return false
	}
	return true
}

// Exists checks key presence. StatusOK = present, StatusMiss = absent,
// StatusUnavailable = store unreachable.
func (s *Store) Exists(ctx context.Context, key string) Status {
	rdb, ok := s.client.cmd()
	if !ok {
		return StatusUnavailable
	}

	n, err := rdb.Exists(ctx, key).Result()
	if err != nil {
		log.Printf("⚠️  [CACHE] Exists failed for key %s: %v", key, err)
		s.client.demote(err)
		return StatusUnavailable
	}
	if n == 0 {
		return StatusMiss
	}
	return StatusOK
}

// Expire resets the TTL on an existing key. Returns false if the key
// does not exist or the store is unreachable.
func (s *Store) Expire(ctx context.Context, key string, ttl time.Duration) bool {
	rdb, ok := s.client.cmd()
	if !ok {
		return false
	}

	res, err := rdb.Expire(ctx, key, ttl).Result()
	if err != nil {
		log.Printf("❌ [CACHE] Expire failed for key %s: %v", key, err)
		s.client.demote(err)
		return false
	}
	return res
}
