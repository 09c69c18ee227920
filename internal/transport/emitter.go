// Package transport defines the outbound event surface of the game server:
// the Emitter abstraction over the realtime fabric, the event names, and
// their payload types. The websocket implementation lives in transport/ws.
package transport

import "github.com/drawhive/drawhive/internal/model"

// Emitter delivers server events to clients. Rooms are keyed by lobby name;
// unicast is addressed by connection id. Implementations carry no game
// state and never block the caller.
type Emitter interface {
	// ToLobby broadcasts an event to every member of a lobby
	ToLobby(lobby model.LobbyName, event string, payload any)

	// ToLobbyExcept broadcasts to every member of a lobby except one connection
	ToLobbyExcept(lobby model.LobbyName, except model.ConnectionID, event string, payload any)

	// ToConnection sends an event to a single connection
	ToConnection(conn model.ConnectionID, event string, payload any)
}
