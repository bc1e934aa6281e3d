package cache

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	activityKeyPrefix = "user_activity:"
	activityMaxLen    = 100
	activityTTL       = 30 * 24 * time.Hour
)

// ActivityEntry is one event in a subject's activity log.
type ActivityEntry struct {
	Timestamp time.Time       `json:"timestamp"`
	Activity  json.RawMessage `json:"activity"`
}

// ActivityLog keeps a bounded, time-ordered event log per subject in a
// Redis sorted set scored by timestamp. After every append the set is
// trimmed to the most recent 100 entries and its 30-day TTL is refreshed.
// The bound is eventually consistent: concurrent writers on the same
// subject may transiently exceed it between their append and trim steps.
type ActivityLog struct {
	client *Client
}

// NewActivityLog creates an activity log over the shared client.
func NewActivityLog(client *Client) *ActivityLog {
	return &ActivityLog{client: client}
}

func activityKey(subjectID string) string {
	return activityKeyPrefix + subjectID
}

// Track appends an event to the subject's log, trims to the most recent
// 100 entries and refreshes the 30-day TTL on the whole log.
func (a *ActivityLog) Track(ctx context.Context, subjectID string, activity any) bool {
	rdb, ok := a.client.cmd()
	if !ok {
		return false
	}

	entry := ActivityEntry{Timestamp: time.Now()}
	raw, err := json.Marshal(activity)
	if err != nil {
		log.Printf("❌ [ACTIVITY] Failed to serialize activity for %s: %v", subjectID, err)
		return false
	}
	entry.Activity = raw

	data, err := json.Marshal(entry)
	if err != nil {
		log.Printf("❌ [ACTIVITY] Failed to serialize entry for %s: %v", subjectID, err)
		return false
	}

	key := activityKey(subjectID)

	if err := rdb.ZAdd(ctx, key, redis.Z{
		Score:  float64(entry.Timestamp.UnixNano()),
		Member: data,
	}).Err(); err != nil {
		log.Printf("❌ [ACTIVITY] Append failed for %s: %v", subjectID, err)
		a.client.demote(err)
		return false
	}

	// Keep only the 100 highest-scored (most recent) members.
	if err := rdb.ZRemRangeByRank(ctx, key, 0, int64(-(activityMaxLen + 1))).Err(); err != nil {
		log.Printf("⚠️  [ACTIVITY] Trim failed for %s: %v", subjectID, err)
	}
	if err := rdb.Expire(ctx, key, activityTTL).Err(); err != nil {
		log.Printf("⚠️  [ACTIVITY] TTL refresh failed for %s: %v", subjectID, err)
	}
	return true
}

// Recent returns up to limit entries for the subject, newest first.
// Entries that fail to decode are skipped, not surfaced.
func (a *ActivityLog) Recent(ctx context.Context, subjectID string, limit int64) ([]ActivityEntry, Status) {
	rdb, ok := a.client.cmd()
	if !ok {
		return nil, StatusUnavailable
	}
	if limit <= 0 {
		return nil, StatusOK
	}

	members, err := rdb.ZRevRange(ctx, activityKey(subjectID), 0, limit-1).Result()
	if err != nil {
		log.Printf("⚠️  [ACTIVITY] Read failed for %s: %v", subjectID, err)
		a.client.demote(err)
		return nil, StatusUnavailable
	}

	entries := make([]ActivityEntry, 0, len(members))
	for _, m := range members {
		var e ActivityEntry
		if err := json.Unmarshal([]byte(m), &e); err != nil {
			log.Printf("⚠️  [ACTIVITY] Skipping undecodable entry for %s: %v", subjectID, err)
			continue
		}
		entries = append(entries, e)
	}
	return entries, StatusOK
}
