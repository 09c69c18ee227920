package mocks

import (
	"sync"

	"github.com/drawhive/drawhive/internal/model"
	"github.com/drawhive/drawhive/internal/transport"
)

// MockRooms records room membership changes for assertion in tests
type MockRooms struct {
	mu     sync.Mutex
	Joined map[model.LobbyName][]model.ConnectionID
	Left   map[model.LobbyName][]model.ConnectionID
}

// Ensure MockRooms implements Rooms
var _ transport.Rooms = (*MockRooms)(nil)

// NewMockRooms creates a new MockRooms
func NewMockRooms() *MockRooms {
	return &MockRooms{
		Joined: map[model.LobbyName][]model.ConnectionID{},
		Left:   map[model.LobbyName][]model.ConnectionID{},
	}
}

func (r *MockRooms) JoinRoom(lobby model.LobbyName, conn model.ConnectionID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Joined[lobby] = append(r.Joined[lobby], conn)
}

func (r *MockRooms) LeaveRoom(lobby model.LobbyName, conn model.ConnectionID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Left[lobby] = append(r.Left[lobby], conn)
}
