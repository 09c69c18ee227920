package model

import "encoding/json"

// DefaultTotalRounds is the number of rounds in a game
const DefaultTotalRounds = 3

// Winner records one correct guess, in guess order
type Winner struct {
	PlayerID     PlayerID     `json:"playerId"`
	ConnectionID ConnectionID `json:"connectionId"`
}

// Hint is a single revealed letter/position pair of the secret word
type Hint struct {
	Index  int    `json:"index"`
	Letter string `json:"letter"`
}

// Canvas entry types
const (
	CanvasEntryLine = "line"
	CanvasEntryFill = "fill"
)

// CanvasEntry is one persisted stroke or fill in the append-only canvas log.
// Content is kept opaque; the server never interprets drawing payloads.
type CanvasEntry struct {
	Type    string          `json:"type"`
	Content json.RawMessage `json:"content"`
}

// GameState holds per-game and per-round state. It is created on startGame
// and retained (with arrays emptied) once the game is over.
type GameState struct {
	TotalRounds int      `json:"totalRounds"`
	RoundNo     int      `json:"roundNo"` // 1-indexed, <= TotalRounds
	DrawingUser PlayerID `json:"drawingUser"`

	WordToGuess       string        `json:"wordToGuess,omitempty"`
	RoundWinners      []Winner      `json:"roundWinners"` // guess order, excludes drawer
	RoundEndTimestamp int64         `json:"roundEndTimeStamp,omitempty"`
	Hints             []Hint        `json:"hints"`
	Canvas            []CanvasEntry `json:"canvas"`

	// Generation increments on every round transition. Deferred actions are
	// stamped with the generation they were scheduled under and discarded if
	// the lobby has moved on by the time they fire.
	Generation int64 `json:"generation"`
}

// IsWinner reports whether the player already guessed correctly this round
func (g *GameState) IsWinner(id PlayerID) bool {
	for _, w := range g.RoundWinners {
		if w.PlayerID == id {
			return true
		}
	}
	return false
}

// WinnerRank returns the zero-based guess-order rank, or -1 if not a winner
func (g *GameState) WinnerRank(id PlayerID) int {
	for i, w := range g.RoundWinners {
		if w.PlayerID == id {
			return i
		}
	}
	return -1
}

// ResetRound clears all per-round fields ahead of the next round (or the
// final scoreboard screen); rotation fields are left to the caller
func (g *GameState) ResetRound() {
	g.WordToGuess = ""
	g.RoundWinners = []Winner{}
	g.RoundEndTimestamp = 0
	g.Hints = []Hint{}
	g.Canvas = []CanvasEntry{}
	g.Generation++
}
