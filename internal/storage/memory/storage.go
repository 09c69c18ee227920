package memory

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/drawhive/drawhive/internal/model"
	"github.com/drawhive/drawhive/internal/storage"
)

// Storage is an in-memory implementation of the storage interface. Lobbies
// are deep-copied on the way in and out so callers never share a document
// between handler invocations, matching the external-store ownership model.
type Storage struct {
	mu sync.RWMutex

	lobbies map[model.LobbyName]*model.Lobby
	words   []string
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		lobbies: make(map[model.LobbyName]*model.Lobby),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Lobby operations

func (s *Storage) SaveLobby(ctx context.Context, lobby *model.Lobby) error {
	copied, err := copyLobby(lobby)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lobbies[lobby.Name] = copied
	return nil
}

func (s *Storage) GetLobby(ctx context.Context, name model.LobbyName) (*model.Lobby, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	lobby, ok := s.lobbies[name]
	if !ok {
		return nil, model.ErrLobbyNotFound
	}
	return copyLobby(lobby)
}

func (s *Storage) DeleteLobby(ctx context.Context, name model.LobbyName) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.lobbies, name)
	return nil
}

func (s *Storage) LobbyExists(ctx context.Context, name model.LobbyName) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.lobbies[name]
	return ok, nil
}

func (s *Storage) ListLobbies(ctx context.Context) ([]*model.Lobby, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	lobbies := make([]*model.Lobby, 0, len(s.lobbies))
	for _, lobby := range s.lobbies {
		copied, err := copyLobby(lobby)
		if err != nil {
			return nil, err
		}
		lobbies = append(lobbies, copied)
	}
	return lobbies, nil
}

func (s *Storage) FindLobbyByConnection(ctx context.Context, connID model.ConnectionID) (*model.Lobby, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, lobby := range s.lobbies {
		if lobby.GetPlayerByConnection(connID) != nil {
			return copyLobby(lobby)
		}
	}
	return nil, model.ErrLobbyNotFound
}

// Word list operations

func (s *Storage) SaveWordList(ctx context.Context, words []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.words = make([]string, len(words))
	copy(s.words, words)
	return nil
}

func (s *Storage) GetWordList(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.words == nil {
		return nil, model.ErrWordsNotLoaded
	}
	result := make([]string, len(s.words))
	copy(result, s.words)
	return result, nil
}

// copyLobby deep-copies a lobby document via JSON round trip, the same
// shape documents take in the Redis backend
func copyLobby(lobby *model.Lobby) (*model.Lobby, error) {
	data, err := json.Marshal(lobby)
	if err != nil {
		return nil, err
	}
	var copied model.Lobby
	if err := json.Unmarshal(data, &copied); err != nil {
		return nil, err
	}
	return &copied, nil
}
