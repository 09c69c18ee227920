package redis

import (
	"fmt"

	"github.com/drawhive/drawhive/internal/model"
)

// Key prefix for all lobby-related data
const keyPrefix = "drawhive"

// lobbyKey returns the Redis key for a Lobby document
func lobbyKey(name model.LobbyName) string {
	return fmt.Sprintf("%s:lobby:%s", keyPrefix, name)
}

// lobbyIndexKey returns the Redis key for the SET of all lobby names
func lobbyIndexKey() string {
	return fmt.Sprintf("%s:idx:lobbies", keyPrefix)
}

// connIndexKey returns the Redis key for the connection_id -> lobby_name index
func connIndexKey(connID model.ConnectionID) string {
	return fmt.Sprintf("%s:idx:conn:%s", keyPrefix, connID)
}

// wordListKey returns the Redis key for the word list
func wordListKey() string {
	return fmt.Sprintf("%s:words", keyPrefix)
}
