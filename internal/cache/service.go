package cache

// Layer bundles the cache components over one shared client. Route
// handlers and background jobs receive this by reference; its lifecycle
// (Connect / Disconnect) belongs to the process entrypoint.
type Layer struct {
	Client   *Client
	Store    *Store
	Sessions *SessionStore
	Limiter  *RateLimiter
	Activity *ActivityLog
	Queue    *NotificationQueue
	Broker   *Broker
	Domains  *DomainCaches
}

// NewLayer wires every component over the given client.
func NewLayer(client *Client) *Layer {
	store := NewStore(client)
	return &Layer{
		Client:   client,
		Store:    store,
		Sessions: NewSessionStore(store),
		Limiter:  NewRateLimiter(client),
		Activity: NewActivityLog(client),
		Queue:    NewNotificationQueue(client),
		Broker:   NewBroker(client),
		Domains:  NewDomainCaches(store),
	}
}
