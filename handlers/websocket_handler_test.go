package handlers

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Dosada05/sports-api/events"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestServeWsDeliversEvents(t *testing.T) {
	defer goleak.VerifyNone(t)

	hub := events.NewHub(slog.New(slog.NewTextHandler(io.Discard, nil)))
	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(stopped)
	}()

	srv := httptest.NewServer(http.HandlerFunc(NewWebSocketHandler(hub, []string{"*"}).ServeWs))
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 10*time.Millisecond)

	hub.Publish(events.Event{Type: events.SportCreated, Payload: map[string]any{"id": 1, "name": "Basketball"}})

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var got events.Event
	require.NoError(t, conn.ReadJSON(&got))
	assert.Equal(t, events.SportCreated, got.Type)
	assert.Equal(t, map[string]any{"id": float64(1), "name": "Basketball"}, got.Payload)

	cancel()
	<-stopped

	// Остановленный hub закрывает соединение.
	_, _, err = conn.ReadMessage()
	assert.Error(t, err)
}

func TestServeWsRejectsForeignOrigin(t *testing.T) {
	hub := events.NewHub(slog.New(slog.NewTextHandler(io.Discard, nil)))
	h := NewWebSocketHandler(hub, []string{"https://app.example"})

	req := httptest.NewRequest(http.MethodGet, "/ws/sports", nil)
	req.Header.Set("Connection", "Upgrade")
	req.Header.Set("Upgrade", "websocket")
	req.Header.Set("Sec-WebSocket-Version", "13")
	req.Header.Set("Sec-WebSocket-Key", "dGhlIHNhbXBsZSBub25jZQ==")
	req.Header.Set("Origin", "https://evil.example")
	rec := httptest.NewRecorder()

	h.ServeWs(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Zero(t, hub.ClientCount())
}
