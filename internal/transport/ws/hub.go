package ws

import (
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/drawhive/drawhive/internal/model"
	"github.com/drawhive/drawhive/internal/transport"
)

// envelope is the wire frame for every event in both directions
type envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// Hub tracks every live connection and its lobby room, and is the single
// implementation of both transport.Emitter and transport.Rooms. Sends are
// non-blocking; a client whose buffer is full has the message dropped.
type Hub struct {
	mu      sync.RWMutex
	clients map[model.ConnectionID]*Client
	rooms   map[model.LobbyName]map[model.ConnectionID]*Client
	logger  *slog.Logger
}

// Ensure Hub implements the transport contracts
var (
	_ transport.Emitter = (*Hub)(nil)
	_ transport.Rooms   = (*Hub)(nil)
)

// NewHub creates a new Hub
func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		clients: make(map[model.ConnectionID]*Client),
		rooms:   make(map[model.LobbyName]map[model.ConnectionID]*Client),
		logger:  logger,
	}
}

func (h *Hub) register(client *Client) {
	h.mu.Lock()
	h.clients[client.id] = client
	clientCount := len(h.clients)
	h.mu.Unlock()

	h.logger.Info("client connected",
		slog.String("connection_id", string(client.id)),
		slog.Int("total_clients", clientCount),
	)
}

func (h *Hub) unregister(client *Client) {
	h.mu.Lock()
	if _, ok := h.clients[client.id]; !ok {
		h.mu.Unlock()
		return
	}
	delete(h.clients, client.id)
	for name, room := range h.rooms {
		if _, ok := room[client.id]; ok {
			delete(room, client.id)
			if len(room) == 0 {
				delete(h.rooms, name)
			}
		}
	}
	clientCount := len(h.clients)
	h.mu.Unlock()

	// Signal the writePump through done rather than closing send, which a
	// concurrent broadcast may still be writing to
	close(client.done)
	h.logger.Info("client disconnected",
		slog.String("connection_id", string(client.id)),
		slog.Int("total_clients", clientCount),
	)
}

// JoinRoom subscribes a connection to a lobby's broadcasts
func (h *Hub) JoinRoom(lobby model.LobbyName, conn model.ConnectionID) {
	h.mu.Lock()
	defer h.mu.Unlock()

	client, ok := h.clients[conn]
	if !ok {
		return
	}
	room, ok := h.rooms[lobby]
	if !ok {
		room = make(map[model.ConnectionID]*Client)
		h.rooms[lobby] = room
	}
	room[conn] = client
}

// LeaveRoom unsubscribes a connection from a lobby's broadcasts
func (h *Hub) LeaveRoom(lobby model.LobbyName, conn model.ConnectionID) {
	h.mu.Lock()
	defer h.mu.Unlock()

	room, ok := h.rooms[lobby]
	if !ok {
		return
	}
	delete(room, conn)
	if len(room) == 0 {
		delete(h.rooms, lobby)
	}
}

// ToLobby sends an event to every connection in a lobby's room
func (h *Hub) ToLobby(lobby model.LobbyName, event string, payload any) {
	h.emitToRoom(lobby, "", event, payload)
}

// ToLobbyExcept sends an event to every connection in a lobby's room apart
// from the given one, typically the originator of the event
func (h *Hub) ToLobbyExcept(lobby model.LobbyName, except model.ConnectionID, event string, payload any) {
	h.emitToRoom(lobby, except, event, payload)
}

// ToConnection sends an event to a single connection
func (h *Hub) ToConnection(conn model.ConnectionID, event string, payload any) {
	frame, err := h.encode(event, payload)
	if err != nil {
		return
	}

	h.mu.RLock()
	client, ok := h.clients[conn]
	h.mu.RUnlock()
	if !ok {
		return
	}
	h.deliver(client, frame, event)
}

func (h *Hub) emitToRoom(lobby model.LobbyName, except model.ConnectionID, event string, payload any) {
	frame, err := h.encode(event, payload)
	if err != nil {
		return
	}

	h.mu.RLock()
	targets := make([]*Client, 0, len(h.rooms[lobby]))
	for id, client := range h.rooms[lobby] {
		if except != "" && id == except {
			continue
		}
		targets = append(targets, client)
	}
	h.mu.RUnlock()

	for _, client := range targets {
		h.deliver(client, frame, event)
	}
}

func (h *Hub) deliver(client *Client, frame []byte, event string) {
	select {
	case <-client.done:
		return
	default:
	}

	select {
	case client.send <- frame:
	case <-client.done:
	default:
		h.logger.Warn("message dropped - client buffer full",
			slog.String("connection_id", string(client.id)),
			slog.String("event", event),
		)
	}
}

func (h *Hub) encode(event string, payload any) ([]byte, error) {
	var data json.RawMessage
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			h.logger.Error("failed to encode event payload",
				slog.String("event", event),
				slog.String("error", err.Error()),
			)
			return nil, err
		}
		data = encoded
	}
	return json.Marshal(envelope{Event: event, Data: data})
}
