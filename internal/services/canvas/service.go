package canvas

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/drawhive/drawhive/internal/lock"
	"github.com/drawhive/drawhive/internal/model"
	"github.com/drawhive/drawhive/internal/storage"
	"github.com/drawhive/drawhive/internal/transport"
)

// Service relays drawing traffic and keeps the replayable canvas history.
// In-progress strokes are ephemeral; only completed strokes and fills are
// persisted, which is what undo and reconnect replay operate on.
type Service struct {
	storage storage.Storage
	locks   *lock.KeyedMutex
	emitter transport.Emitter
	logger  *slog.Logger
}

// New creates a new canvas service
func New(storage storage.Storage, locks *lock.KeyedMutex, emitter transport.Emitter, logger *slog.Logger) *Service {
	return &Service{
		storage: storage,
		locks:   locks,
		emitter: emitter,
		logger:  logger,
	}
}

// Draw relays an in-progress stroke segment to everyone but the drawer.
// Segments are not recorded; the full stroke arrives separately when the
// drawer lifts the pen.
func (s *Service) Draw(ctx context.Context, name model.LobbyName, sender model.ConnectionID, newLine json.RawMessage) error {
	s.emitter.ToLobbyExcept(name, sender, transport.EventNewLine, transport.NewLine{NewLine: newLine})
	return nil
}

// Fill relays a flood fill and records it in the history
func (s *Service) Fill(ctx context.Context, name model.LobbyName, sender model.ConnectionID, fillInfo json.RawMessage) error {
	s.emitter.ToLobbyExcept(name, sender, transport.EventFill, transport.Fill{FillInfo: fillInfo})
	return s.appendEntry(ctx, name, model.CanvasEntry{
		Type:    model.CanvasEntryFill,
		Content: fillInfo,
	})
}

// FullLine records a completed stroke in the history. The stroke was already
// streamed segment by segment, so nothing is broadcast here.
func (s *Service) FullLine(ctx context.Context, name model.LobbyName, fullLine json.RawMessage) error {
	return s.appendEntry(ctx, name, model.CanvasEntry{
		Type:    model.CanvasEntryLine,
		Content: fullLine,
	})
}

// Undo removes the newest history entry and pushes the full remaining canvas
// to the room. Undo on an empty canvas is a no-op apart from the broadcast.
func (s *Service) Undo(ctx context.Context, name model.LobbyName) error {
	s.locks.Lock(name)
	defer s.locks.Unlock(name)

	lobby, err := s.storage.GetLobby(ctx, name)
	if err != nil {
		return err
	}
	gs := lobby.GameState
	if gs == nil {
		return model.ErrNoGameInProgress
	}

	if len(gs.Canvas) > 0 {
		gs.Canvas = gs.Canvas[:len(gs.Canvas)-1]
		if err := s.storage.SaveLobby(ctx, lobby); err != nil {
			return err
		}
	}

	s.emitter.ToLobby(name, transport.EventCanvasAfterUndo, transport.CanvasAfterUndo{
		NewCanvas:     gs.Canvas,
		IsCanvasEmpty: len(gs.Canvas) == 0,
	})
	return nil
}

// Replay sends the stored canvas to a single connection, used when a player
// reconnects mid-round
func (s *Service) Replay(lobby *model.Lobby, conn model.ConnectionID) {
	gs := lobby.GameState
	if gs == nil || len(gs.Canvas) == 0 {
		return
	}
	s.emitter.ToConnection(conn, transport.EventCanvasState, transport.CanvasState{
		Canvas: gs.Canvas,
	})
}

func (s *Service) appendEntry(ctx context.Context, name model.LobbyName, entry model.CanvasEntry) error {
	s.locks.Lock(name)
	defer s.locks.Unlock(name)

	lobby, err := s.storage.GetLobby(ctx, name)
	if err != nil {
		return err
	}
	gs := lobby.GameState
	if gs == nil {
		return model.ErrNoGameInProgress
	}

	gs.Canvas = append(gs.Canvas, entry)
	if err := s.storage.SaveLobby(ctx, lobby); err != nil {
		s.logger.Error("failed to persist canvas entry",
			slog.String("lobby", string(name)),
			slog.String("type", entry.Type),
			slog.String("error", err.Error()),
		)
		return err
	}
	return nil
}
