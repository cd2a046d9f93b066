package transport

import (
	"context"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

// WebSocketConfig holds tunables for a WebSocket channel.
type WebSocketConfig struct {
	WriteTimeout   time.Duration
	ReadTimeout    time.Duration
	PingInterval   time.Duration
	MaxMessageSize int64
	SendBuffer     int
}

// DefaultWebSocketConfig returns the default WebSocket configuration.
func DefaultWebSocketConfig() WebSocketConfig {
	return WebSocketConfig{
		WriteTimeout:   10 * time.Second,
		ReadTimeout:    60 * time.Second,
		PingInterval:   30 * time.Second,
		MaxMessageSize: 64 * 1024,
		SendBuffer:     256,
	}
}

// WebSocketChannel connects to the world server's /connect endpoint and
// implements Channel over a single gorilla/websocket connection.
type WebSocketChannel struct {
	id         string
	serverURL  string
	playerName string
	config     WebSocketConfig

	conn *websocket.Conn
	send chan []byte

	closeOnce sync.Once
	done      chan struct{}
}

// NewWebSocketChannel creates a channel that will dial
// ws://<serverURL>/connect?name=<playerName>.
func NewWebSocketChannel(serverURL, playerName string, config WebSocketConfig) *WebSocketChannel {
	return &WebSocketChannel{
		id:         uuid.New().String(),
		serverURL:  serverURL,
		playerName: playerName,
		config:     config,
		send:       make(chan []byte, config.SendBuffer),
		done:       make(chan struct{}),
	}
}

// Start dials the server and launches the read and write pumps.
func (c *WebSocketChannel) Start(ctx context.Context, cb Callbacks) error {
	u, err := url.Parse(c.serverURL)
	if err != nil {
		return fmt.Errorf("parse server url: %w", err)
	}
	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	}
	u.Path = "/connect"
	u.RawQuery = url.Values{"name": []string{c.playerName}}.Encode()

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, u.String(), nil)
	if err != nil {
		return fmt.Errorf("dial %s: %w", u.String(), err)
	}
	c.conn = conn

	log.Info().
		Str("channel_id", c.id).
		Str("url", u.String()).
		Msg("websocket channel established")

	if cb.OnOpen != nil {
		cb.OnOpen()
	}

	go c.writePump(ctx)
	go c.readPump(ctx, cb)
	return nil
}

// Send queues a frame for the write pump.
func (c *WebSocketChannel) Send(data []byte) error {
	select {
	case <-c.done:
		return fmt.Errorf("websocket channel %s is closed", c.id)
	default:
	}
	select {
	case c.send <- data:
		return nil
	case <-c.done:
		return fmt.Errorf("websocket channel %s is closed", c.id)
	}
}

// Close tears the connection down.
func (c *WebSocketChannel) Close() error {
	var err error
	c.closeOnce.Do(func() {
		close(c.done)
		if c.conn != nil {
			err = c.conn.Close()
		}
	})
	return err
}

func (c *WebSocketChannel) writePump(ctx context.Context) {
	ticker := time.NewTicker(c.config.PingInterval)
	defer func() {
		ticker.Stop()
		c.Close()
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case <-c.done:
			return
		case data := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(c.config.WriteTimeout))
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				log.Error().
					Err(err).
					Str("channel_id", c.id).
					Msg("websocket write failed")
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(c.config.WriteTimeout))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				log.Error().
					Err(err).
					Str("channel_id", c.id).
					Msg("websocket ping failed")
				return
			}
		}
	}
}

func (c *WebSocketChannel) readPump(ctx context.Context, cb Callbacks) {
	defer c.Close()

	c.conn.SetReadLimit(c.config.MaxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(c.config.ReadTimeout))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(c.config.ReadTimeout))
		return nil
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			select {
			case <-c.done:
			default:
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					log.Error().
						Err(err).
						Str("channel_id", c.id).
						Msg("unexpected websocket close")
					if cb.OnError != nil {
						cb.OnError(err)
						return
					}
				}
			}
			if cb.OnClose != nil {
				cb.OnClose()
			}
			return
		}
		if cb.OnMessage != nil {
			cb.OnMessage(data)
		}
		select {
		case <-ctx.Done():
			return
		default:
		}
	}
}
