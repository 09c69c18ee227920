package transport

import (
	"encoding/json"

	"github.com/drawhive/drawhive/internal/model"
)

// Server -> client event names
const (
	EventConnectAttemptResponse = "connectAttemptResponse"
	EventUserStateChange        = "userStateChange"
	EventMessage                = "message"
	EventLobbyStatusChange      = "lobbyStatusChange"
	EventPickAWord              = "pickAWord"
	EventStartDrawing           = "startDrawing"
	EventNewLine                = "newLine"
	EventFill                   = "fill"
	EventHint                   = "hint"
	EventCanvasAfterUndo        = "canvasAfterUndo"
	EventNewRoundEndTimestamp   = "newRoundEndTimeStamp"
	EventUnmaskedWord           = "unmaskedWord"
	EventActionDenied           = "actionDenied"
	EventCanvasState            = "canvasState"
)

// Chat message types carried inside EventMessage
const (
	MessageTypePlain        = "message"
	MessageTypeJoinLeave    = "playerJoiningOrLeaving"
	MessageTypeCorrectGuess = "correctGuess"
	MessageTypeCloseGuess   = "closeGuess"
	MessageTypeWinnersOnly  = "winnersOnly"
)

// ConnectAttemptResponse acknowledges a join attempt to the connecting client
type ConnectAttemptResponse struct {
	AllGood       bool   `json:"allGood"`
	AlreadyActive bool   `json:"alreadyActive,omitempty"`
	Reason        string `json:"reason,omitempty"`
}

// UserStateChange carries the full roster after any roster mutation
type UserStateChange struct {
	NewUserState []model.Player `json:"newUserState"`
}

// ChatMessage is the inner message object of an EventMessage payload
type ChatMessage struct {
	Type    string `json:"type"`
	Content string `json:"content"`
}

// Message is a chat line or system alert delivered to clients
type Message struct {
	Message       ChatMessage    `json:"message"`
	UserName      model.PlayerID `json:"userName,omitempty"`
	ServerMessage bool           `json:"serverMessage"`
}

// StatusInfo carries status-specific details alongside a lobbyStatusChange
type StatusInfo struct {
	DrawingUser       model.PlayerID `json:"drawingUser,omitempty"`
	DrawingNext       model.PlayerID `json:"drawingNext,omitempty"`
	MaskedWord        string         `json:"maskedWord,omitempty"`
	UnmaskedWord      string         `json:"unmaskedWord,omitempty"`
	RoundEndTimestamp int64          `json:"roundEndTimeStamp,omitempty"`
	RoundScoreboard   []RoundScore   `json:"roundScoreboard,omitempty"`
	Players           []model.Player `json:"players,omitempty"`
	Notice            string         `json:"notice,omitempty"`
}

// LobbyStatusChange announces a lobby status transition
type LobbyStatusChange struct {
	NewStatus model.LobbyStatus `json:"newStatus"`
	Info      *StatusInfo       `json:"info,omitempty"`
}

// RoundScore is one scoreboard line for the round that just ended
type RoundScore struct {
	PlayerID model.PlayerID `json:"playerId"`
	Score    int            `json:"score"`
}

// PickAWord privately offers the drawer their word candidates
type PickAWord struct {
	ArrayOfWordOptions []string `json:"arrayOfWordOptions"`
}

// StartDrawing privately acknowledges the drawer's word pick
type StartDrawing struct {
	WordToDraw string `json:"wordToDraw"`
}

// NewLine relays an ephemeral stroke to the rest of the lobby
type NewLine struct {
	NewLine json.RawMessage `json:"newLine"`
}

// Fill relays a fill action to the rest of the lobby
type Fill struct {
	FillInfo json.RawMessage `json:"fillInfo"`
}

// HintReveal delivers a single letter/position hint
type HintReveal struct {
	Hint model.Hint `json:"hint"`
}

// CanvasAfterUndo resyncs the whole canvas after an undo
type CanvasAfterUndo struct {
	NewCanvas     []model.CanvasEntry `json:"newCanvas"`
	IsCanvasEmpty bool                `json:"isCanvasEmpty"`
}

// CanvasState replays the persisted canvas to a reconnecting client
type CanvasState struct {
	Canvas []model.CanvasEntry `json:"canvas"`
}

// NewRoundEndTimestamp announces a shortened round deadline
type NewRoundEndTimestamp struct {
	NewRoundEndTimestamp int64 `json:"newRoundEndTimeStamp"`
}

// UnmaskedWord privately reveals the secret word
type UnmaskedWord struct {
	UnmaskedWord string `json:"unmaskedWord"`
}

// ActionDenied tells a requester their action was rejected
type ActionDenied struct {
	Action string `json:"action"`
	Reason string `json:"reason"`
}
