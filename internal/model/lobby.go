package model

import (
	"time"
	"unicode"
)

// LobbyName is the unique human-chosen identifier for a lobby
type LobbyName string

// LobbyStatus represents the current phase of a lobby
type LobbyStatus string

const (
	StatusOpen        LobbyStatus = "open"        // Lobby created, no game started
	StatusPickingWord LobbyStatus = "pickingWord" // Drawer is choosing a word
	StatusPlaying     LobbyStatus = "playing"     // Round in progress
	StatusRoundOver   LobbyStatus = "roundOver"   // Between rounds, showing scoreboard
	StatusGameOver    LobbyStatus = "gameOver"    // Game finished
)

// MaxPlayers is the roster cap for a single lobby
const MaxPlayers = 10

// Lobby represents one game session: a named roster plus optional game state
type Lobby struct {
	Name      LobbyName   `json:"name"`
	Status    LobbyStatus `json:"status"`
	Players   []Player    `json:"players"` // join order, meaningful for turn rotation
	GameState *GameState  `json:"gameState,omitempty"`
	CreatedAt time.Time   `json:"createdAt"`
	UpdatedAt time.Time   `json:"updatedAt"`
}

// InGame reports whether a game is active (any status past open, before gameOver)
func (l *Lobby) InGame() bool {
	return l.Status == StatusPickingWord || l.Status == StatusPlaying || l.Status == StatusRoundOver
}

// GetPlayer returns the player with the given id, or nil if not present
func (l *Lobby) GetPlayer(id PlayerID) *Player {
	for i := range l.Players {
		if l.Players[i].PlayerID == id {
			return &l.Players[i]
		}
	}
	return nil
}

// GetPlayerByConnection returns the player holding the given connection id
func (l *Lobby) GetPlayerByConnection(connID ConnectionID) *Player {
	for i := range l.Players {
		if l.Players[i].ConnectionID == connID {
			return &l.Players[i]
		}
	}
	return nil
}

// GetOwner returns the current owner, or nil if the roster is empty
func (l *Lobby) GetOwner() *Player {
	for i := range l.Players {
		if l.Players[i].IsOwner {
			return &l.Players[i]
		}
	}
	return nil
}

// RemovePlayer deletes the player with the given id from the roster,
// preserving join order. No-op if the player is not present.
func (l *Lobby) RemovePlayer(id PlayerID) {
	for i := range l.Players {
		if l.Players[i].PlayerID == id {
			l.Players = append(l.Players[:i], l.Players[i+1:]...)
			return
		}
	}
}

// ConnectedPlayers returns all players currently connected, in roster order
func (l *Lobby) ConnectedPlayers() []Player {
	var connected []Player
	for _, p := range l.Players {
		if p.Connected {
			connected = append(connected, p)
		}
	}
	return connected
}

// ConnectedCount returns the number of connected players
func (l *Lobby) ConnectedCount() int {
	n := 0
	for _, p := range l.Players {
		if p.Connected {
			n++
		}
	}
	return n
}

// MaskWord replaces every non-whitespace rune of a secret word with an
// underscore, preserving whitespace so guessers can see the word shape
func MaskWord(word string) string {
	masked := []rune(word)
	for i, r := range masked {
		if !unicode.IsSpace(r) {
			masked[i] = '_'
		}
	}
	return string(masked)
}
