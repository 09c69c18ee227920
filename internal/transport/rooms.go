package transport

import (
	"github.com/drawhive/drawhive/internal/model"
)

// Rooms manages which connections receive a lobby's broadcasts. The hub
// implements this alongside Emitter; connections are removed from all rooms
// automatically when their socket closes.
type Rooms interface {
	JoinRoom(lobby model.LobbyName, conn model.ConnectionID)
	LeaveRoom(lobby model.LobbyName, conn model.ConnectionID)
}
