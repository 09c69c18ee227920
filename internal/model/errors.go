package model

import "errors"

// Common errors used across the application
var (
	// Lobby errors
	ErrLobbyNotFound          = errors.New("lobby not found")
	ErrLobbyNameConflict      = errors.New("lobby with this name already exists")
	ErrLobbyFull              = errors.New("lobby is full")
	ErrAlreadyActiveElsewhere = errors.New("player is already active in another lobby")
	ErrNoLobbies              = errors.New("no lobbies found")
	ErrPlayerNameTaken        = errors.New("player name already in use in this lobby")

	// Authorization errors
	ErrNotOwner  = errors.New("player is not the lobby owner")
	ErrNotDrawer = errors.New("player is not the current drawer")

	// Game errors
	ErrNoGameInProgress = errors.New("no game in progress")

	// Word source errors
	ErrWordsNotLoaded = errors.New("word list not loaded")
)
