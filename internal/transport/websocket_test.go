package transport

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
)

func TestWebSocketChannelRoundTrip(t *testing.T) {
	upgrader := websocket.Upgrader{}
	serverGot := make(chan []byte, 1)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/connect", r.URL.Path)
		require.Equal(t, "alice", r.URL.Query().Get("name"))

		conn, err := upgrader.Upgrade(w, r, nil)
		require.NoError(t, err)
		defer conn.Close()

		err = conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"game_start","id":"g1","payload":{}}`))
		require.NoError(t, err)

		_, data, err := conn.ReadMessage()
		require.NoError(t, err)
		serverGot <- data

		conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second))
	}))
	defer srv.Close()

	messages := make(chan []byte, 1)
	closed := make(chan struct{})
	cb := Callbacks{
		OnMessage: func(data []byte) { messages <- data },
		OnClose:   func() { close(closed) },
		OnError:   func(err error) { t.Errorf("unexpected transport error: %v", err) },
	}

	ch := NewWebSocketChannel(srv.URL, "alice", DefaultWebSocketConfig())
	require.NoError(t, ch.Start(context.Background(), cb))
	defer ch.Close()

	select {
	case data := <-messages:
		require.JSONEq(t, `{"type":"game_start","id":"g1","payload":{}}`, string(data))
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for inbound message")
	}

	require.NoError(t, ch.Send([]byte(`{"type":"ready","payload":{"game_id":"g1"}}`)))
	select {
	case data := <-serverGot:
		require.JSONEq(t, `{"type":"ready","payload":{"game_id":"g1"}}`, string(data))
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for outbound message")
	}

	select {
	case <-closed:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for close callback")
	}
}

func TestWebSocketChannelDialFailure(t *testing.T) {
	ch := NewWebSocketChannel("http://127.0.0.1:1", "alice", DefaultWebSocketConfig())
	err := ch.Start(context.Background(), Callbacks{})
	require.Error(t, err)
}

func TestSendAfterCloseFails(t *testing.T) {
	ch := NewWebSocketChannel("http://127.0.0.1:1", "alice", DefaultWebSocketConfig())
	require.NoError(t, ch.Close())
	require.Error(t, ch.Send([]byte("x")))
}
