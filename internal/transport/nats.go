package transport

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog/log"
)

// NATSConfig holds configuration for a NATS-backed channel.
type NATSConfig struct {
	URL            string
	EventSubject   string // inbound world events, e.g. "world.events.<player>"
	CommandSubject string // outbound commands, e.g. "world.commands"
	MaxReconnects  int
	ReconnectWait  time.Duration
}

// DefaultNATSConfig returns the default NATS channel configuration.
func DefaultNATSConfig() NATSConfig {
	return NATSConfig{
		URL:            nats.DefaultURL,
		EventSubject:   "world.events",
		CommandSubject: "world.commands",
		MaxReconnects:  -1,
		ReconnectWait:  2 * time.Second,
	}
}

// NATSChannel implements Channel over a NATS subject pair: it subscribes
// to the event subject for inbound frames and publishes outbound frames
// to the command subject.
type NATSChannel struct {
	config NATSConfig

	nc  *nats.Conn
	sub *nats.Subscription

	closeOnce sync.Once
	done      chan struct{}
}

// NewNATSChannel creates an unconnected NATS channel.
func NewNATSChannel(config NATSConfig) *NATSChannel {
	return &NATSChannel{
		config: config,
		done:   make(chan struct{}),
	}
}

// Start connects to NATS and subscribes to the event subject.
func (c *NATSChannel) Start(ctx context.Context, cb Callbacks) error {
	opts := []nats.Option{
		nats.MaxReconnects(c.config.MaxReconnects),
		nats.ReconnectWait(c.config.ReconnectWait),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			log.Error().Err(err).Msg("NATS disconnected")
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Info().Str("url", nc.ConnectedUrl()).Msg("NATS reconnected")
		}),
		// Async errors (slow consumer, subscription errors) are non-fatal;
		// the connection stays live, so they are logged only.
		nats.ErrorHandler(func(nc *nats.Conn, sub *nats.Subscription, err error) {
			log.Error().Err(err).Msg("NATS error")
		}),
		// ClosedHandler is the terminal path: it fires once when the
		// connection is permanently gone, reconnects exhausted included.
		nats.ClosedHandler(func(nc *nats.Conn) {
			deliverTerminal(cb, nc.LastError())
		}),
	}

	nc, err := nats.Connect(c.config.URL, opts...)
	if err != nil {
		return fmt.Errorf("connect to NATS: %w", err)
	}
	c.nc = nc

	sub, err := nc.Subscribe(c.config.EventSubject, func(msg *nats.Msg) {
		if cb.OnMessage != nil {
			cb.OnMessage(msg.Data)
		}
	})
	if err != nil {
		nc.Close()
		return fmt.Errorf("subscribe %s: %w", c.config.EventSubject, err)
	}
	c.sub = sub

	log.Info().
		Str("url", c.config.URL).
		Str("event_subject", c.config.EventSubject).
		Msg("NATS channel established")

	if cb.OnOpen != nil {
		cb.OnOpen()
	}

	go func() {
		select {
		case <-ctx.Done():
			c.Close()
		case <-c.done:
		}
	}()
	return nil
}

// deliverTerminal reports the connection's permanent loss exactly once:
// as OnError when the connection recorded a failure, otherwise as a clean
// OnClose.
func deliverTerminal(cb Callbacks, err error) {
	if err != nil && cb.OnError != nil {
		cb.OnError(err)
		return
	}
	if cb.OnClose != nil {
		cb.OnClose()
	}
}

// Send publishes one outbound frame to the command subject.
func (c *NATSChannel) Send(data []byte) error {
	if c.nc == nil {
		return fmt.Errorf("NATS channel not started")
	}
	if err := c.nc.Publish(c.config.CommandSubject, data); err != nil {
		return fmt.Errorf("publish %s: %w", c.config.CommandSubject, err)
	}
	return nil
}

// Close drains the subscription and closes the connection. The configured
// ClosedHandler delivers the OnClose callback.
func (c *NATSChannel) Close() error {
	var err error
	c.closeOnce.Do(func() {
		close(c.done)
		if c.sub != nil {
			err = c.sub.Unsubscribe()
		}
		if c.nc != nil {
			c.nc.Close()
		}
	})
	return err
}
