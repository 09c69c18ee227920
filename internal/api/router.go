package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/drawhive/drawhive/internal/api/apierr"
	"github.com/drawhive/drawhive/internal/api/handler"
	"github.com/drawhive/drawhive/internal/middleware"
	"github.com/drawhive/drawhive/internal/services/roster"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger           *slog.Logger
	RosterController *roster.Controller

	// WebsocketHandler, when set, is mounted at /ws outside the logging
	// middleware so the upgrade handshake sees the raw response writer
	WebsocketHandler http.Handler
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	lobbyHandler := handler.NewLobbyHandler(cfg.RosterController)

	loggingMiddleware := middleware.Logging(cfg.Logger)
	recoveryMiddleware := middleware.Recovery(cfg.Logger, apiPanicHandler)

	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(recoveryMiddleware)
	api.Use(loggingMiddleware)

	api.HandleFunc("/lobbies", lobbyHandler.List).Methods(http.MethodGet)
	api.HandleFunc("/lobbies", lobbyHandler.Create).Methods(http.MethodPost)
	api.HandleFunc("/lobbies/{name}", lobbyHandler.Get).Methods(http.MethodGet)
	api.HandleFunc("/lobbies/{name}/join", lobbyHandler.JoinPreflight).Methods(http.MethodPost)

	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	if cfg.WebsocketHandler != nil {
		r.Handle("/ws", cfg.WebsocketHandler)
	}

	return r
}

func apiPanicHandler(w http.ResponseWriter, _ *http.Request, _ any) {
	apierr.WriteError(w, apierr.NewInternalError())
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
