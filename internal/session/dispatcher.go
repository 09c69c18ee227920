package session

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/drawhive/drawhive/internal/model"
	"github.com/drawhive/drawhive/internal/services/canvas"
	"github.com/drawhive/drawhive/internal/services/guess"
	"github.com/drawhive/drawhive/internal/services/roster"
	"github.com/drawhive/drawhive/internal/services/round"
	"github.com/drawhive/drawhive/internal/storage"
	"github.com/drawhive/drawhive/internal/transport"
)

// Dispatcher decodes inbound client events and routes them to the owning
// service. Apart from connectAttempt, every event's sender is resolved from
// the connection's stored seat, never trusted from the payload.
type Dispatcher struct {
	storage storage.Storage
	roster  *roster.Controller
	rounds  *round.Controller
	guesses *guess.Classifier
	canvas  *canvas.Service
	logger  *slog.Logger
}

// NewDispatcher creates a new inbound event dispatcher
func NewDispatcher(
	storage storage.Storage,
	rosterController *roster.Controller,
	roundController *round.Controller,
	guessClassifier *guess.Classifier,
	canvasService *canvas.Service,
	logger *slog.Logger,
) *Dispatcher {
	return &Dispatcher{
		storage: storage,
		roster:  rosterController,
		rounds:  roundController,
		guesses: guessClassifier,
		canvas:  canvasService,
		logger:  logger,
	}
}

// HandleEvent routes one decoded frame from a connection
func (d *Dispatcher) HandleEvent(ctx context.Context, conn model.ConnectionID, event string, data json.RawMessage) {
	var err error
	switch event {
	case transport.EventJoin:
		err = d.handleJoin(ctx, conn, data)
	case transport.EventMessage:
		err = d.handleMessage(ctx, conn, data)
	case transport.EventStartGame:
		err = d.withSeat(ctx, conn, func(name model.LobbyName, player model.PlayerID) error {
			return d.rounds.StartGame(ctx, name, player)
		})
	case transport.EventWordPick:
		err = d.handleWordPick(ctx, conn, data)
	case transport.EventDraw:
		err = d.handleDraw(ctx, conn, data)
	case transport.EventFillCanvas:
		err = d.handleFill(ctx, conn, data)
	case transport.EventFullLine:
		err = d.handleFullLine(ctx, conn, data)
	case transport.EventUndo:
		err = d.withSeat(ctx, conn, func(name model.LobbyName, _ model.PlayerID) error {
			return d.canvas.Undo(ctx, name)
		})
	case transport.EventTriggerRoundEndTimer:
		err = d.withSeat(ctx, conn, func(name model.LobbyName, player model.PlayerID) error {
			return d.rounds.TriggerRoundEnd(ctx, name, player)
		})
	case transport.EventTriggerHint:
		err = d.handleHint(ctx, conn, data)
	default:
		d.logger.Warn("unknown event",
			slog.String("connection_id", string(conn)),
			slog.String("event", event),
		)
		return
	}

	if err != nil {
		d.logger.Debug("event rejected",
			slog.String("connection_id", string(conn)),
			slog.String("event", event),
			slog.String("error", err.Error()),
		)
	}
}

// HandleDisconnect reports a closed connection to the roster
func (d *Dispatcher) HandleDisconnect(ctx context.Context, conn model.ConnectionID) {
	if err := d.roster.Disconnect(ctx, conn); err != nil {
		d.logger.Error("disconnect handling failed",
			slog.String("connection_id", string(conn)),
			slog.String("error", err.Error()),
		)
	}
}

func (d *Dispatcher) handleJoin(ctx context.Context, conn model.ConnectionID, data json.RawMessage) error {
	var payload transport.JoinRequest
	if err := json.Unmarshal(data, &payload); err != nil {
		return err
	}
	return d.roster.Join(ctx, payload.LobbyName, payload.UserName, conn, payload.LastKnownConnectionID)
}

func (d *Dispatcher) handleMessage(ctx context.Context, conn model.ConnectionID, data json.RawMessage) error {
	var payload transport.InboundMessage
	if err := json.Unmarshal(data, &payload); err != nil {
		return err
	}
	return d.withSeat(ctx, conn, func(name model.LobbyName, player model.PlayerID) error {
		return d.guesses.HandleMessage(ctx, name, player, payload.Content)
	})
}

func (d *Dispatcher) handleWordPick(ctx context.Context, conn model.ConnectionID, data json.RawMessage) error {
	var payload transport.WordPickRequest
	if err := json.Unmarshal(data, &payload); err != nil {
		return err
	}
	return d.withSeat(ctx, conn, func(name model.LobbyName, player model.PlayerID) error {
		return d.rounds.WordPick(ctx, name, player, payload.Word)
	})
}

func (d *Dispatcher) handleDraw(ctx context.Context, conn model.ConnectionID, data json.RawMessage) error {
	var payload transport.DrawingData
	if err := json.Unmarshal(data, &payload); err != nil {
		return err
	}
	return d.withSeat(ctx, conn, func(name model.LobbyName, _ model.PlayerID) error {
		return d.canvas.Draw(ctx, name, conn, payload.NewLine)
	})
}

func (d *Dispatcher) handleFill(ctx context.Context, conn model.ConnectionID, data json.RawMessage) error {
	var payload transport.FillData
	if err := json.Unmarshal(data, &payload); err != nil {
		return err
	}
	return d.withSeat(ctx, conn, func(name model.LobbyName, _ model.PlayerID) error {
		return d.canvas.Fill(ctx, name, conn, payload.FillInfo)
	})
}

func (d *Dispatcher) handleFullLine(ctx context.Context, conn model.ConnectionID, data json.RawMessage) error {
	var payload transport.FullLineData
	if err := json.Unmarshal(data, &payload); err != nil {
		return err
	}
	return d.withSeat(ctx, conn, func(name model.LobbyName, _ model.PlayerID) error {
		return d.canvas.FullLine(ctx, name, payload.FullLine)
	})
}

func (d *Dispatcher) handleHint(ctx context.Context, conn model.ConnectionID, data json.RawMessage) error {
	var payload transport.HintRequest
	if err := json.Unmarshal(data, &payload); err != nil {
		return err
	}
	return d.withSeat(ctx, conn, func(name model.LobbyName, player model.PlayerID) error {
		return d.rounds.TriggerHint(ctx, name, player, payload.Index)
	})
}

// withSeat resolves the lobby and player bound to a connection and invokes
// fn with them. Events from connections without a seat are dropped.
func (d *Dispatcher) withSeat(ctx context.Context, conn model.ConnectionID, fn func(model.LobbyName, model.PlayerID) error) error {
	lobby, err := d.storage.FindLobbyByConnection(ctx, conn)
	if err != nil {
		if errors.Is(err, model.ErrLobbyNotFound) {
			return nil
		}
		return err
	}
	player := lobby.GetPlayerByConnection(conn)
	if player == nil {
		return nil
	}
	return fn(lobby.Name, player.PlayerID)
}
