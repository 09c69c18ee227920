package roster

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/drawhive/drawhive/internal/dependencies/clock"
	"github.com/drawhive/drawhive/internal/lock"
	"github.com/drawhive/drawhive/internal/model"
	"github.com/drawhive/drawhive/internal/services/canvas"
	"github.com/drawhive/drawhive/internal/services/round"
	"github.com/drawhive/drawhive/internal/storage"
	"github.com/drawhive/drawhive/internal/transport"
)

// Controller owns lobby membership: creation, joining, reconnection, and
// the fallout of a connection dropping (ownership transfer, drawer
// replacement, lobby teardown).
type Controller struct {
	storage storage.Storage
	locks   *lock.KeyedMutex
	emitter transport.Emitter
	rooms   transport.Rooms
	clock   clock.Clock
	rounds  *round.Controller
	canvas  *canvas.Service
	logger  *slog.Logger
}

// NewController creates a new roster controller
func NewController(
	storage storage.Storage,
	locks *lock.KeyedMutex,
	emitter transport.Emitter,
	rooms transport.Rooms,
	clk clock.Clock,
	rounds *round.Controller,
	canvasService *canvas.Service,
	logger *slog.Logger,
) *Controller {
	return &Controller{
		storage: storage,
		locks:   locks,
		emitter: emitter,
		rooms:   rooms,
		clock:   clk,
		rounds:  rounds,
		canvas:  canvasService,
		logger:  logger,
	}
}

// CreateLobby registers a new empty lobby
func (c *Controller) CreateLobby(ctx context.Context, name model.LobbyName) (*model.Lobby, error) {
	trimmed := model.LobbyName(strings.TrimSpace(string(name)))
	if trimmed == "" {
		return nil, fmt.Errorf("lobby name must not be empty")
	}

	c.locks.Lock(trimmed)
	defer c.locks.Unlock(trimmed)

	exists, err := c.storage.LobbyExists(ctx, trimmed)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, model.ErrLobbyNameConflict
	}

	now := c.clock.Now()
	lobby := &model.Lobby{
		Name:      trimmed,
		Status:    model.StatusOpen,
		Players:   []model.Player{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := c.storage.SaveLobby(ctx, lobby); err != nil {
		return nil, err
	}

	c.logger.Info("lobby created", slog.String("lobby", string(trimmed)))
	return lobby, nil
}

// GetLobby fetches a single lobby
func (c *Controller) GetLobby(ctx context.Context, name model.LobbyName) (*model.Lobby, error) {
	return c.storage.GetLobby(ctx, name)
}

// ListLobbies returns all lobbies
func (c *Controller) ListLobbies(ctx context.Context) ([]*model.Lobby, error) {
	return c.storage.ListLobbies(ctx)
}

// Join admits a player into a lobby, or resumes their previous seat when
// lastKnown identifies a live membership. Every outcome is acknowledged on
// the joining connection before any broadcast.
func (c *Controller) Join(ctx context.Context, name model.LobbyName, playerID model.PlayerID, conn model.ConnectionID, lastKnown model.ConnectionID) error {
	if lastKnown != "" {
		previous, err := c.storage.FindLobbyByConnection(ctx, lastKnown)
		switch {
		case err == nil && previous.Name == name:
			return c.reconnect(ctx, name, conn, lastKnown)
		case err == nil:
			c.emitter.ToConnection(conn, transport.EventConnectAttemptResponse, transport.ConnectAttemptResponse{
				AlreadyActive: true,
				Reason:        "you are still active in another lobby",
			})
			return model.ErrAlreadyActiveElsewhere
		case !errors.Is(err, model.ErrLobbyNotFound):
			return err
		}
	}
	return c.freshJoin(ctx, name, playerID, conn)
}

func (c *Controller) freshJoin(ctx context.Context, name model.LobbyName, playerID model.PlayerID, conn model.ConnectionID) error {
	c.locks.Lock(name)
	defer c.locks.Unlock(name)

	lobby, err := c.storage.GetLobby(ctx, name)
	if err != nil {
		if errors.Is(err, model.ErrLobbyNotFound) {
			c.refuse(conn, "lobby does not exist")
		}
		return err
	}

	if len(lobby.Players) >= model.MaxPlayers {
		c.refuse(conn, "lobby is full")
		return model.ErrLobbyFull
	}
	if lobby.GetPlayer(playerID) != nil {
		c.refuse(conn, "that name is already in use here")
		return model.ErrPlayerNameTaken
	}

	lobby.Players = append(lobby.Players, model.Player{
		PlayerID:     playerID,
		ConnectionID: conn,
		Connected:    true,
		IsOwner:      len(lobby.Players) == 0,
	})
	lobby.UpdatedAt = c.clock.Now()

	if err := c.storage.SaveLobby(ctx, lobby); err != nil {
		return err
	}

	c.logger.Info("player joined",
		slog.String("lobby", string(name)),
		slog.String("player", string(playerID)),
		slog.Int("players", len(lobby.Players)),
	)

	c.rooms.JoinRoom(name, conn)
	c.emitter.ToConnection(conn, transport.EventConnectAttemptResponse, transport.ConnectAttemptResponse{
		AllGood: true,
	})
	c.broadcastRoster(lobby)
	c.systemMessage(name, fmt.Sprintf("%s joined the lobby", playerID))
	return nil
}

func (c *Controller) reconnect(ctx context.Context, name model.LobbyName, conn model.ConnectionID, lastKnown model.ConnectionID) error {
	c.locks.Lock(name)
	defer c.locks.Unlock(name)

	lobby, err := c.storage.GetLobby(ctx, name)
	if err != nil {
		if errors.Is(err, model.ErrLobbyNotFound) {
			c.refuse(conn, "lobby does not exist")
		}
		return err
	}

	player := lobby.GetPlayerByConnection(lastKnown)
	if player == nil {
		// The seat disappeared between lookup and lock (e.g. teardown)
		c.refuse(conn, "previous session no longer exists")
		return model.ErrLobbyNotFound
	}

	player.ConnectionID = conn
	player.Connected = true
	lobby.UpdatedAt = c.clock.Now()

	if err := c.storage.SaveLobby(ctx, lobby); err != nil {
		return err
	}

	c.logger.Info("player reconnected",
		slog.String("lobby", string(name)),
		slog.String("player", string(player.PlayerID)),
	)

	c.rooms.JoinRoom(name, conn)
	c.emitter.ToConnection(conn, transport.EventConnectAttemptResponse, transport.ConnectAttemptResponse{
		AllGood: true,
	})
	c.broadcastRoster(lobby)
	c.systemMessage(name, fmt.Sprintf("%s reconnected", player.PlayerID))

	// A rejoining player missed the strokes drawn while they were away
	if lobby.InGame() {
		c.canvas.Replay(lobby, conn)
	}
	return nil
}

// Disconnect handles a dropped connection. Outside a game the seat is
// removed; mid-game it is retained so the player can reconnect with their
// score intact.
func (c *Controller) Disconnect(ctx context.Context, conn model.ConnectionID) error {
	lobby, err := c.storage.FindLobbyByConnection(ctx, conn)
	if err != nil {
		if errors.Is(err, model.ErrLobbyNotFound) {
			return nil
		}
		return err
	}
	name := lobby.Name

	c.locks.Lock(name)
	defer c.locks.Unlock(name)

	lobby, err = c.storage.GetLobby(ctx, name)
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

	leaverID := player.PlayerID
	wasOwner := player.IsOwner
	inGame := lobby.InGame()
	wasDrawer := inGame && lobby.GameState != nil && lobby.GameState.DrawingUser == leaverID

	if inGame {
		player.Connected = false
	} else {
		lobby.RemovePlayer(leaverID)
	}
	if wasOwner {
		c.transferOwnership(lobby, leaverID)
	}
	lobby.UpdatedAt = c.clock.Now()

	c.logger.Info("player disconnected",
		slog.String("lobby", string(name)),
		slog.String("player", string(leaverID)),
		slog.Bool("was_drawer", wasDrawer),
	)

	connected := lobby.ConnectedCount()
	switch {
	case connected == 0:
		if err := c.storage.DeleteLobby(ctx, name); err != nil {
			return err
		}
		c.logger.Info("lobby torn down", slog.String("lobby", string(name)))
		return nil

	case connected == 1 && inGame:
		if err := c.rounds.EndGame(ctx, lobby, "not enough players to continue"); err != nil {
			return err
		}

	case wasDrawer && (lobby.Status == model.StatusPlaying || lobby.Status == model.StatusPickingWord):
		if err := c.rounds.AdvanceRound(ctx, lobby); err != nil {
			return err
		}

	default:
		if err := c.storage.SaveLobby(ctx, lobby); err != nil {
			return err
		}
	}

	c.broadcastRoster(lobby)
	verb := "left"
	if inGame {
		verb = "disconnected"
	}
	c.systemMessage(name, fmt.Sprintf("%s %s", leaverID, verb))
	return nil
}

// transferOwnership hands the owner flag to the first connected non-owner.
// The leaver keeps nothing; if nobody qualifies the flag simply lapses
// until the lobby empties out.
func (c *Controller) transferOwnership(lobby *model.Lobby, leaver model.PlayerID) {
	for i := range lobby.Players {
		p := &lobby.Players[i]
		if p.PlayerID == leaver {
			p.IsOwner = false
		}
	}
	for i := range lobby.Players {
		p := &lobby.Players[i]
		if p.Connected && p.PlayerID != leaver {
			p.IsOwner = true
			c.logger.Info("ownership transferred",
				slog.String("lobby", string(lobby.Name)),
				slog.String("new_owner", string(p.PlayerID)),
			)
			return
		}
	}
}

func (c *Controller) refuse(conn model.ConnectionID, reason string) {
	c.emitter.ToConnection(conn, transport.EventConnectAttemptResponse, transport.ConnectAttemptResponse{
		AllGood: false,
		Reason:  reason,
	})
}

func (c *Controller) broadcastRoster(lobby *model.Lobby) {
	c.emitter.ToLobby(lobby.Name, transport.EventUserStateChange, transport.UserStateChange{
		NewUserState: lobby.Players,
	})
}

func (c *Controller) systemMessage(name model.LobbyName, content string) {
	c.emitter.ToLobby(name, transport.EventMessage, transport.Message{
		ServerMessage: true,
		Message: transport.ChatMessage{
			Type:    transport.MessageTypeJoinLeave,
			Content: content,
		},
	})
}
