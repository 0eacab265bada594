package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"translator/internal/models"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Extension pages connect from chrome-extension:// origins.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// wsClient is an observer backed by one WebSocket connection. Events are
// queued on send and written by a dedicated goroutine.
type wsClient struct {
	conn *websocket.Conn
	send chan []byte
	done chan struct{}
	once sync.Once
}

func (c *wsClient) Notify(_ context.Context, event models.Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	select {
	case <-c.done:
		return ErrObserverClosed
	default:
	}

	select {
	case c.send <- payload:
		return nil
	default:
		return ErrObserverBusy
	}
}

func (c *wsClient) Close() error {
	c.once.Do(func() {
		close(c.done)
	})
	return c.conn.Close()
}

func (c *wsClient) writeLoop(cfg models.WebSocketConfig) {
	ticker := time.NewTicker(cfg.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.done:
			_ = c.conn.WriteControl(websocket.CloseMessage, []byte{}, time.Now().Add(time.Second))
			return
		case msg := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(cfg.WriteTimeout))
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				slog.Debug("WebSocket write failed", "error", err)
				c.Close()
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(cfg.WriteTimeout))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.Close()
				return
			}
		}
	}
}

// NewWebSocketHandler upgrades requests to WebSocket connections and
// subscribes each one to hub until the peer disconnects.
func NewWebSocketHandler(hub *Hub, cfg models.WebSocketConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			slog.Warn("WebSocket upgrade failed", "error", err, "remote_addr", r.RemoteAddr)
			return
		}

		client := &wsClient{
			conn: conn,
			send: make(chan []byte, cfg.SendBuffer),
			done: make(chan struct{}),
		}
		id := hub.Subscribe(client)
		slog.Info("WebSocket observer connected", "subscription_id", id, "remote_addr", r.RemoteAddr)

		go client.writeLoop(cfg)

		// Inbound frames are ignored; reading keeps control frames flowing
		// and detects disconnects.
		conn.SetReadLimit(4096)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				break
			}
		}

		hub.Unsubscribe(id)
		client.Close()
		slog.Info("WebSocket observer disconnected", "subscription_id", id)
	}
}
