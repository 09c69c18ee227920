package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/drawhive/drawhive/internal/api/apierr"
	"github.com/drawhive/drawhive/internal/api/response"
	"github.com/drawhive/drawhive/internal/model"
	"github.com/drawhive/drawhive/internal/services/roster"
)

// LobbyHandler handles lobby-related endpoints
type LobbyHandler struct {
	rosterController *roster.Controller
}

// NewLobbyHandler creates a new lobby handler
func NewLobbyHandler(rosterController *roster.Controller) *LobbyHandler {
	return &LobbyHandler{rosterController: rosterController}
}

// CreateLobbyRequest is the body for POST /api/v1/lobbies
type CreateLobbyRequest struct {
	Name string `json:"name"`
}

// List handles GET /api/v1/lobbies
func (h *LobbyHandler) List(w http.ResponseWriter, r *http.Request) {
	lobbies, err := h.rosterController.ListLobbies(r.Context())
	if err != nil {
		apierr.WriteError(w, err)
		return
	}
	if len(lobbies) == 0 {
		apierr.WriteError(w, model.ErrNoLobbies)
		return
	}

	summaries := make([]response.LobbySummary, len(lobbies))
	for i, l := range lobbies {
		summaries[i] = response.LobbySummaryFromModel(l)
	}
	response.JSON(w, http.StatusOK, response.LobbyList{Lobbies: summaries})
}

// Get handles GET /api/v1/lobbies/{name}
func (h *LobbyHandler) Get(w http.ResponseWriter, r *http.Request) {
	name := model.LobbyName(mux.Vars(r)["name"])

	lobby, err := h.rosterController.GetLobby(r.Context(), name)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.LobbyFromModel(lobby))
}

// Create handles POST /api/v1/lobbies
func (h *LobbyHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateLobbyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierr.WriteError(w, apierr.NewInvalidRequestError("invalid request body"))
		return
	}
	if req.Name == "" {
		apierr.WriteError(w, apierr.NewInvalidRequestError("name is required"))
		return
	}

	lobby, err := h.rosterController.CreateLobby(r.Context(), model.LobbyName(req.Name))
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.LobbyFromModel(lobby))
}

// JoinPreflight handles POST /api/v1/lobbies/{name}/join. It only reports
// whether a join would currently be admitted; the actual seat is taken over
// the websocket connection.
func (h *LobbyHandler) JoinPreflight(w http.ResponseWriter, r *http.Request) {
	name := model.LobbyName(mux.Vars(r)["name"])

	lobby, err := h.rosterController.GetLobby(r.Context(), name)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}
	if len(lobby.Players) >= model.MaxPlayers {
		apierr.WriteError(w, model.ErrLobbyFull)
		return
	}

	response.JSON(w, http.StatusOK, response.LobbySummaryFromModel(lobby))
}
