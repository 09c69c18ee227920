package storage

import (
	"context"

	"github.com/drawhive/drawhive/internal/model"
)

// Storage defines the interface for lobby persistence. The store is the
// single source of truth between event handlers; there is no in-process
// cache of lobby documents.
type Storage interface {
	// Lobby operations
	SaveLobby(ctx context.Context, lobby *model.Lobby) error
	GetLobby(ctx context.Context, name model.LobbyName) (*model.Lobby, error)
	DeleteLobby(ctx context.Context, name model.LobbyName) error
	LobbyExists(ctx context.Context, name model.LobbyName) (bool, error)
	ListLobbies(ctx context.Context) ([]*model.Lobby, error)

	// FindLobbyByConnection returns the lobby whose roster contains the
	// given connection id, or model.ErrLobbyNotFound
	FindLobbyByConnection(ctx context.Context, connID model.ConnectionID) (*model.Lobby, error)

	// Word list operations
	SaveWordList(ctx context.Context, words []string) error
	GetWordList(ctx context.Context) ([]string, error)
}
