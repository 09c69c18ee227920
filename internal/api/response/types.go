package response

import (
	"github.com/drawhive/drawhive/internal/model"
)

// Player represents a lobby member in API responses. Connection ids are
// internal and never exposed here.
type Player struct {
	Name      string `json:"name"`
	Connected bool   `json:"connected"`
	IsOwner   bool   `json:"isOwner"`
	Score     int    `json:"score"`
}

// PlayerFromModel converts a model.Player to a response Player
func PlayerFromModel(p model.Player) Player {
	return Player{
		Name:      string(p.PlayerID),
		Connected: p.Connected,
		IsOwner:   p.IsOwner,
		Score:     p.Score,
	}
}

// Lobby represents a lobby in API responses
type Lobby struct {
	Name        string   `json:"name"`
	Status      string   `json:"status"`
	Players     []Player `json:"players"`
	PlayerCount int      `json:"playerCount"`
	RoundNo     int      `json:"roundNo,omitempty"`
	TotalRounds int      `json:"totalRounds,omitempty"`
}

// LobbyFromModel converts model.Lobby
func LobbyFromModel(l *model.Lobby) Lobby {
	players := make([]Player, len(l.Players))
	for i, p := range l.Players {
		players[i] = PlayerFromModel(p)
	}

	resp := Lobby{
		Name:        string(l.Name),
		Status:      string(l.Status),
		Players:     players,
		PlayerCount: len(players),
	}
	if l.GameState != nil {
		resp.RoundNo = l.GameState.RoundNo
		resp.TotalRounds = l.GameState.TotalRounds
	}
	return resp
}

// LobbySummary is the per-lobby entry in the lobby list
type LobbySummary struct {
	Name        string `json:"name"`
	Status      string `json:"status"`
	PlayerCount int    `json:"playerCount"`
	Joinable    bool   `json:"joinable"`
}

// LobbySummaryFromModel converts model.Lobby to a list entry
func LobbySummaryFromModel(l *model.Lobby) LobbySummary {
	return LobbySummary{
		Name:        string(l.Name),
		Status:      string(l.Status),
		PlayerCount: len(l.Players),
		Joinable:    l.Status == model.StatusOpen && len(l.Players) < model.MaxPlayers,
	}
}

// LobbyList is the response for the lobby listing endpoint
type LobbyList struct {
	Lobbies []LobbySummary `json:"lobbies"`
}
