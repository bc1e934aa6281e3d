package cache

import (
	"context"
	"time"
)

const (
	sessionKeyPrefix  = "session:"
	DefaultSessionTTL = 24 * time.Hour
)

// SessionStore keeps user session blobs under the session: prefix.
// Sessions are created on login and destroyed on logout or expiry;
// reading a session never extends its TTL — callers that want renewal
// re-set explicitly.
type SessionStore struct {
	store *Store
	ttl   time.Duration
}

// NewSessionStore creates a session store with the default 24h TTL.
func NewSessionStore(store *Store) *SessionStore {
	return &SessionStore{store: store, ttl: DefaultSessionTTL}
}

// Set writes the session payload under sessionID.
func (s *SessionStore) Set(ctx context.Context, sessionID string, payload any) bool {
	return s.store.Set(ctx, sessionKeyPrefix+sessionID, payload, s.ttl)
}

// Get reads the session payload into dest without touching its TTL.
func (s *SessionStore) Get(ctx context.Context, sessionID string, dest any) Status {
	return s.store.Get(ctx, sessionKeyPrefix+sessionID, dest)
}

// Delete destroys a session (logout).
func (s *SessionStore) Delete(ctx context.Context, sessionID string) bool {
	return s.store.Delete(ctx, sessionKeyPrefix+sessionID)
}
