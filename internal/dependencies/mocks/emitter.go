package mocks

import (
	"sync"

	"github.com/drawhive/drawhive/internal/model"
	"github.com/drawhive/drawhive/internal/transport"
)

// Emission is one captured outbound event
type Emission struct {
	Lobby   model.LobbyName    // empty for pure unicast
	Conn    model.ConnectionID // target for unicast, excluded sender for room-except
	Except  bool               // true when Conn is an exclusion, not a target
	Event   string
	Payload any
}

// MockEmitter records every emission for assertion in tests
type MockEmitter struct {
	mu        sync.Mutex
	Emissions []Emission
}

// Ensure MockEmitter implements Emitter
var _ transport.Emitter = (*MockEmitter)(nil)

// NewMockEmitter creates a new MockEmitter
func NewMockEmitter() *MockEmitter {
	return &MockEmitter{}
}

func (e *MockEmitter) ToLobby(lobby model.LobbyName, event string, payload any) {
	e.record(Emission{Lobby: lobby, Event: event, Payload: payload})
}

func (e *MockEmitter) ToLobbyExcept(lobby model.LobbyName, except model.ConnectionID, event string, payload any) {
	e.record(Emission{Lobby: lobby, Conn: except, Except: true, Event: event, Payload: payload})
}

func (e *MockEmitter) ToConnection(conn model.ConnectionID, event string, payload any) {
	e.record(Emission{Conn: conn, Event: event, Payload: payload})
}

func (e *MockEmitter) record(em Emission) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.Emissions = append(e.Emissions, em)
}

// OfEvent returns all captured emissions with the given event name
func (e *MockEmitter) OfEvent(event string) []Emission {
	e.mu.Lock()
	defer e.mu.Unlock()
	var out []Emission
	for _, em := range e.Emissions {
		if em.Event == event {
			out = append(out, em)
		}
	}
	return out
}

// LastOfEvent returns the most recent emission with the given event name,
// or nil if none was captured
func (e *MockEmitter) LastOfEvent(event string) *Emission {
	all := e.OfEvent(event)
	if len(all) == 0 {
		return nil
	}
	return &all[len(all)-1]
}

// Reset clears all captured emissions
func (e *MockEmitter) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.Emissions = nil
}
