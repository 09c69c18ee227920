package transport

import (
	"encoding/json"

	"github.com/drawhive/drawhive/internal/model"
)

// Inbound event names, sent by clients
const (
	EventJoin                 = "join"
	EventStartGame            = "startGame"
	EventWordPick             = "wordPick"
	EventDraw                 = "draw"
	EventFillCanvas           = "fill"
	EventFullLine             = "fullLine"
	EventUndo                 = "undo"
	EventTriggerRoundEndTimer = "triggerRoundEndByTimer"
	EventTriggerHint          = "triggerHint"
)

// JoinRequest asks to join a lobby, optionally resuming a previous seat
type JoinRequest struct {
	LobbyName             model.LobbyName    `json:"lobbyName"`
	UserName              model.PlayerID     `json:"userName"`
	LastKnownConnectionID model.ConnectionID `json:"lastKnownConnectionId,omitempty"`
}

// InboundMessage is a chat message or guess
type InboundMessage struct {
	Content string `json:"messageContent"`
}

// WordPickRequest is the drawer's chosen word
type WordPickRequest struct {
	Word string `json:"pickedWord"`
}

// DrawingData carries an in-progress stroke segment, opaque to the server
type DrawingData struct {
	NewLine json.RawMessage `json:"newLine"`
}

// FillData carries a flood fill, opaque to the server
type FillData struct {
	FillInfo json.RawMessage `json:"fillInfo"`
}

// FullLineData carries a completed stroke for the canvas history
type FullLineData struct {
	FullLine json.RawMessage `json:"fullLine"`
}

// HintRequest asks to reveal the prepared hint at the given index
type HintRequest struct {
	Index int `json:"index"`
}
