package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"
)

func TestActivityLogBoundedAt100(t *testing.T) {
	_, client := newTestClient(t)
	activity := NewActivityLog(client)
	ctx := context.Background()

	for i := 0; i < 150; i++ {
		if !activity.Track(ctx, "user-1", map[string]string{"action": fmt.Sprintf("drop-off-%d", i)}) {
			t.Fatalf("Track %d should succeed", i)
		}
	}

	entries, status := activity.Recent(ctx, "user-1", 1000)
	if status != StatusOK {
		t.Fatalf("Expected ok, got %s", status)
	}
	if len(entries) != 100 {
		t.Fatalf("Expected exactly 100 entries after trim, got %d", len(entries))
	}

	// Newest first, and the oldest 50 must be the ones trimmed away.
	var first map[string]string
	if err := json.Unmarshal(entries[0].Activity, &first); err != nil {
		t.Fatalf("Failed to decode newest entry: %v", err)
	}
	if first["action"] != "drop-off-149" {
		t.Errorf("Expected newest entry drop-off-149 first, got %s", first["action"])
	}

	for i := 1; i < len(entries); i++ {
		if entries[i].Timestamp.After(entries[i-1].Timestamp) {
			t.Fatalf("Entries out of order at index %d", i)
		}
	}
}

func TestActivityLogCarries30DayTTL(t *testing.T) {
	mr, client := newTestClient(t)
	activity := NewActivityLog(client)

	activity.Track(context.Background(), "user-2", "signup")
	if ttl := mr.TTL("user_activity:user-2"); ttl != 30*24*time.Hour {
		t.Errorf("Expected 30-day TTL on the log, got %s", ttl)
	}
}

func TestActivityRecentHonorsLimit(t *testing.T) {
	_, client := newTestClient(t)
	activity := NewActivityLog(client)
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		activity.Track(ctx, "user-3", i)
	}

	entries, status := activity.Recent(ctx, "user-3", 4)
	if status != StatusOK {
		t.Fatalf("Expected ok, got %s", status)
	}
	if len(entries) != 4 {
		t.Errorf("Expected 4 entries, got %d", len(entries))
	}
}

func TestActivityRecentSkipsUndecodableEntries(t *testing.T) {
	mr, client := newTestClient(t)
	activity := NewActivityLog(client)
	ctx := context.Background()

	activity.Track(ctx, "user-4", "good")
	mr.ZAdd("user_activity:user-4", 1, "{broken")

	entries, status := activity.Recent(ctx, "user-4", 10)
	if status != StatusOK {
		t.Fatalf("Expected ok, got %s", status)
	}
	if len(entries) != 1 {
		t.Errorf("Expected the broken entry to be skipped, got %d entries", len(entries))
	}
}

func TestActivityFailsOpenWhenOffline(t *testing.T) {
	activity := NewActivityLog(newOfflineClient())
	ctx := context.Background()

	if activity.Track(ctx, "user-5", "x") {
		t.Error("Track should return false when the store is down")
	}
	entries, status := activity.Recent(ctx, "user-5", 10)
	if status != StatusUnavailable {
		t.Errorf("Expected unavailable, got %s", status)
	}
	if entries != nil {
		t.Errorf("Expected no entries, got %d", len(entries))
	}
}
