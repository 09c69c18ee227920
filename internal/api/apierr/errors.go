package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/drawhive/drawhive/internal/model"
)

// APIError represents an API error response
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps an APIError
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// Common error codes
const (
	CodeInvalidRequest    = "INVALID_REQUEST"
	CodeLobbyNotFound     = "LOBBY_NOT_FOUND"
	CodeNoLobbies         = "NO_LOBBIES"
	CodeLobbyNameConflict = "LOBBY_NAME_CONFLICT"
	CodeLobbyFull         = "LOBBY_FULL"
	CodePlayerNameTaken   = "PLAYER_NAME_TAKEN"
	CodeAlreadyActive     = "ALREADY_ACTIVE"
	CodeNotOwner          = "NOT_OWNER"
	CodeNotDrawer         = "NOT_DRAWER"
	CodeNoGameInProgress  = "NO_GAME_IN_PROGRESS"
	CodeInternalError     = "INTERNAL_ERROR"
)

// httpError combines an HTTP status code with an APIError
type httpError struct {
	status   int
	apiError APIError
}

// Error implements error interface
func (e *httpError) Error() string {
	return e.apiError.Message
}

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(he.status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: he.apiError})
}

// toHTTPError converts an error to an httpError
func toHTTPError(err error) *httpError {
	// Check for specific error types
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	// Map model errors
	switch {
	case errors.Is(err, model.ErrLobbyNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeLobbyNotFound, "Lobby not found"}}
	case errors.Is(err, model.ErrNoLobbies):
		return &httpError{http.StatusNotFound, APIError{CodeNoLobbies, "No lobbies exist"}}
	case errors.Is(err, model.ErrLobbyNameConflict):
		return &httpError{http.StatusConflict, APIError{CodeLobbyNameConflict, "A lobby with this name already exists"}}
	case errors.Is(err, model.ErrLobbyFull):
		return &httpError{http.StatusConflict, APIError{CodeLobbyFull, "Lobby is full"}}
	case errors.Is(err, model.ErrPlayerNameTaken):
		return &httpError{http.StatusConflict, APIError{CodePlayerNameTaken, "Player name already in use in this lobby"}}
	case errors.Is(err, model.ErrAlreadyActiveElsewhere):
		return &httpError{http.StatusConflict, APIError{CodeAlreadyActive, "Already active in another lobby"}}
	case errors.Is(err, model.ErrNotOwner):
		return &httpError{http.StatusForbidden, APIError{CodeNotOwner, "Only the lobby owner can perform this action"}}
	case errors.Is(err, model.ErrNotDrawer):
		return &httpError{http.StatusForbidden, APIError{CodeNotDrawer, "Only the current drawer can perform this action"}}
	case errors.Is(err, model.ErrNoGameInProgress):
		return &httpError{http.StatusNotFound, APIError{CodeNoGameInProgress, "No game in progress"}}

	default:
		return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
	}
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, message}}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
}
