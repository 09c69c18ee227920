package ws

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/drawhive/drawhive/internal/dependencies/random"
	"github.com/drawhive/drawhive/internal/model"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong before the connection is dropped
	pongWait = 60 * time.Second

	// Time between keepalive pings, must be shorter than pongWait
	pingPeriod = 30 * time.Second

	// Inbound frame size cap
	maxMessageSize = 64 * 1024

	// Buffer size for outgoing messages
	sendBufferSize = 256

	connectionIDLength   = 16
	connectionIDAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"
)

// Handler receives decoded inbound events from client connections
type Handler interface {
	HandleEvent(ctx context.Context, conn model.ConnectionID, event string, data json.RawMessage)
	HandleDisconnect(ctx context.Context, conn model.ConnectionID)
}

// Client is one live websocket connection. done is closed exactly once, by
// the hub on unregister; send is never closed, so a broadcast racing a
// disconnect can at worst queue a frame nobody will read.
type Client struct {
	id   model.ConnectionID
	conn *websocket.Conn
	send chan []byte
	done chan struct{}
}

// Server upgrades HTTP requests to websocket connections and pumps their
// events into the handler
type Server struct {
	hub      *Hub
	handler  Handler
	random   random.Random
	upgrader websocket.Upgrader
	logger   *slog.Logger
}

// NewServer creates a new websocket server
func NewServer(hub *Hub, handler Handler, rand random.Random, logger *slog.Logger) *Server {
	return &Server{
		hub:     hub,
		handler: handler,
		random:  rand,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		logger: logger,
	}
}

// ServeHTTP upgrades the request and runs the connection until it closes
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", slog.String("error", err.Error()))
		return
	}

	client := &Client{
		id:   model.ConnectionID(s.random.String(connectionIDLength, connectionIDAlphabet)),
		conn: conn,
		send: make(chan []byte, sendBufferSize),
		done: make(chan struct{}),
	}
	s.hub.register(client)

	go s.writePump(client)
	s.readPump(client)
}

// readPump reads inbound frames until the socket closes, then reports the
// disconnect so the roster can react
func (s *Server) readPump(client *Client) {
	defer func() {
		s.hub.unregister(client)
		s.handler.HandleDisconnect(context.Background(), client.id)
		_ = client.conn.Close()
	}()

	client.conn.SetReadLimit(maxMessageSize)
	_ = client.conn.SetReadDeadline(time.Now().Add(pongWait))
	client.conn.SetPongHandler(func(string) error {
		return client.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := client.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Warn("websocket read error",
					slog.String("connection_id", string(client.id)),
					slog.String("error", err.Error()),
				)
			}
			return
		}

		var frame envelope
		if err := json.Unmarshal(raw, &frame); err != nil {
			s.logger.Warn("dropping malformed frame",
				slog.String("connection_id", string(client.id)),
				slog.String("error", err.Error()),
			)
			continue
		}
		s.handler.HandleEvent(context.Background(), client.id, frame.Event, frame.Data)
	}
}

// writePump drains the client's send buffer and keeps the connection alive
func (s *Server) writePump(client *Client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = client.conn.Close()
	}()

	for {
		select {
		case frame := <-client.send:
			_ = client.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := client.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				return
			}

		case <-client.done:
			_ = client.conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = client.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return

		case <-ticker.C:
			_ = client.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := client.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
