// Package transport provides the bidirectional message channel the
// reconciliation engine consumes. The engine only depends on the Channel
// interface; the WebSocket and NATS adapters in this package are the two
// concrete implementations.
package transport

import "context"

// Callbacks receive channel lifecycle and message notifications. OnMessage
// is invoked once per inbound frame in arrival order. OnClose and OnError
// each fire at most once per Start.
type Callbacks struct {
	OnOpen    func()
	OnMessage func(data []byte)
	OnClose   func()
	OnError   func(err error)
}

// Channel is a long-lived bidirectional message channel to the world
// server.
type Channel interface {
	// Start opens the channel and begins delivering callbacks. It returns
	// once the channel is established; delivery continues until the channel
	// closes or ctx is cancelled.
	Start(ctx context.Context, cb Callbacks) error

	// Send transmits one outbound frame.
	Send(data []byte) error

	// Close tears the channel down. Pending callbacks may still fire.
	Close() error
}
