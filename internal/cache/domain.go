package cache

import (
	"context"
	"encoding/base64"
	"time"
)

// Domain cache helpers: fixed key prefixes and TTLs over the generic
// store, one per hot read path in the platform. These carry no logic of
// their own.
const (
	healthDataTTL      = 30 * time.Minute
	collectionStatsTTL = 5 * time.Minute
	aiResponseTTL      = 1 * time.Hour
	analyticsTTL       = 10 * time.Minute
)

// DomainCaches bundles the pre-configured caches handed to route handlers.
type DomainCaches struct {
	store *Store
}

// NewDomainCaches creates the domain helpers over the generic store.
func NewDomainCaches(store *Store) *DomainCaches {
	return &DomainCaches{store: store}
}

// SetHealthData caches the environmental health snapshot for a location.
func (d *DomainCaches) SetHealthData(ctx context.Context, location string, data any) bool {
	return d.store.Set(ctx, "health_data:"+location, data, healthDataTTL)
}

// GetHealthData reads the cached health snapshot for a location.
func (d *DomainCaches) GetHealthData(ctx context.Context, location string, dest any) Status {
	return d.store.Get(ctx, "health_data:"+location, dest)
}

// SetCollectionStats caches the platform-wide collection statistics.
func (d *DomainCaches) SetCollectionStats(ctx context.Context, stats any) bool {
	return d.store.Set(ctx, "collection_stats", stats, collectionStatsTTL)
}

// GetCollectionStats reads the cached collection statistics.
func (d *DomainCaches) GetCollectionStats(ctx context.Context, dest any) Status {
	return d.store.Get(ctx, "collection_stats", dest)
}

func aiResponseKey(query string) string {
	return "ai_response:" + base64.StdEncoding.EncodeToString([]byte(query))
}

// SetAIResponse memoizes an assistant response for a query.
func (d *DomainCaches) SetAIResponse(ctx context.Context, query string, response any) bool {
	return d.store.Set(ctx, aiResponseKey(query), response, aiResponseTTL)
}

// GetAIResponse reads the memoized assistant response for a query.
func (d *DomainCaches) GetAIResponse(ctx context.Context, query string, dest any) Status {
	return d.store.Get(ctx, aiResponseKey(query), dest)
}

// SetAnalytics caches an analytics snapshot by type.
func (d *DomainCaches) SetAnalytics(ctx context.Context, analyticsType string, data any) bool {
	return d.store.Set(ctx, "analytics:"+analyticsType, data, analyticsTTL)
}

// GetAnalytics reads a cached analytics snapshot by type.
func (d *DomainCaches) GetAnalytics(ctx context.Context, analyticsType string, dest any) Status {
	return d.store.Get(ctx, "analytics:"+analyticsType, dest)
}
