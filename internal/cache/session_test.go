package cache

import (
	"context"
	"testing"
	"time"
)

type sessionPayload struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
}

func TestSessionLifecycle(t *testing.T) {
	mr, client := newTestClient(t)
	sessions := NewSessionStore(NewStore(client))
	ctx := context.Background()

	in := sessionPayload{UserID: "u-17", Role: "collector"}
	if !sessions.Set(ctx, "abc123", in) {
		t.Fatal("Set should succeed while connected")
	}

	// Sessions live under their own prefix with the default TTL.
	if !mr.Exists("session:abc123") {
		t.Fatal("Session should be stored under the session: prefix")
	}
	if ttl := mr.TTL("session:abc123"); ttl != DefaultSessionTTL {
		t.Errorf("Expected %s TTL, got %s", DefaultSessionTTL, ttl)
	}

	var out sessionPayload
	if status := sessions.Get(ctx, "abc123", &out); status != StatusOK {
		t.Fatalf("Expected ok, got %s", status)
	}
	if out != in {
		t.Errorf("Session mismatch: wrote %+v, read %+v", in, out)
	}

	if !sessions.Delete(ctx, "abc123") {
		t.Fatal("Delete should succeed")
	}
	if status := sessions.Get(ctx, "abc123", &out); status != StatusMiss {
		t.Errorf("Expected miss after logout, got %s", status)
	}
}

func TestSessionReadDoesNotRenew(t *testing.T) {
	mr, client := newTestClient(t)
	sessions := NewSessionStore(NewStore(client))
	ctx := context.Background()

	sessions.Set(ctx, "sticky", sessionPayload{UserID: "u-1"})
	mr.FastForward(6 * time.Hour)

	var out sessionPayload
	sessions.Get(ctx, "sticky", &out)

	if ttl := mr.TTL("session:sticky"); ttl > DefaultSessionTTL-6*time.Hour {
		t.Errorf("Reading a session must not extend its TTL, got %s", ttl)
	}
}

func TestSessionExpiresNaturally(t *testing.T) {
	mr, client := newTestClient(t)
	sessions := NewSessionStore(NewStore(client))
	ctx := context.Background()

	sessions.Set(ctx, "doomed", sessionPayload{UserID: "u-2"})
	mr.FastForward(DefaultSessionTTL + time.Minute)

	var out sessionPayload
	if status := sessions.Get(ctx, "doomed", &out); status != StatusMiss {
		t.Errorf("Expected expired session to read as miss, got %s", status)
	}
}
