package model

// PlayerID is the stable human-chosen player name; it survives reconnects
type PlayerID string

// ConnectionID identifies one transport session; it changes on reconnect
type ConnectionID string

// Player represents a lobby roster entry
type Player struct {
	PlayerID     PlayerID     `json:"playerId"`
	ConnectionID ConnectionID `json:"connectionId"`
	Connected    bool         `json:"connected"`
	IsOwner      bool         `json:"isOwner"`
	Score        int          `json:"score"`
}
