package guess

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/drawhive/drawhive/internal/dependencies/clock"
	"github.com/drawhive/drawhive/internal/lock"
	"github.com/drawhive/drawhive/internal/model"
	"github.com/drawhive/drawhive/internal/services/round"
	"github.com/drawhive/drawhive/internal/storage"
	"github.com/drawhive/drawhive/internal/transport"
)

// ClosenessPolicy decides whether a wrong guess was near enough to the
// secret word to deserve a private nudge
type ClosenessPolicy interface {
	IsClose(guess, word string) bool
}

// NoPolicy never considers a guess close
type NoPolicy struct{}

func (NoPolicy) IsClose(string, string) bool { return false }

// Classifier routes every inbound chat message while a round is live:
// correct guesses, close guesses, winners-only chatter, and plain chat.
type Classifier struct {
	storage storage.Storage
	locks   *lock.KeyedMutex
	emitter transport.Emitter
	clock   clock.Clock
	rounds  *round.Controller
	policy  ClosenessPolicy
	cfg     round.Config
	logger  *slog.Logger
}

// NewClassifier creates a new guess classifier
func NewClassifier(
	storage storage.Storage,
	locks *lock.KeyedMutex,
	emitter transport.Emitter,
	clk clock.Clock,
	rounds *round.Controller,
	policy ClosenessPolicy,
	cfg round.Config,
	logger *slog.Logger,
) *Classifier {
	if policy == nil {
		policy = NoPolicy{}
	}
	return &Classifier{
		storage: storage,
		locks:   locks,
		emitter: emitter,
		clock:   clk,
		rounds:  rounds,
		policy:  policy,
		cfg:     cfg,
		logger:  logger,
	}
}

// HandleMessage classifies one chat message from a player and routes it
func (c *Classifier) HandleMessage(ctx context.Context, name model.LobbyName, sender model.PlayerID, content string) error {
	c.locks.Lock(name)
	defer c.locks.Unlock(name)

	lobby, err := c.storage.GetLobby(ctx, name)
	if err != nil {
		return err
	}

	player := lobby.GetPlayer(sender)
	if player == nil {
		return nil
	}

	gs := lobby.GameState
	roundLive := lobby.Status == model.StatusPlaying && gs != nil && gs.WordToGuess != ""

	if !roundLive || sender == gs.DrawingUser {
		c.broadcastChat(name, sender, content)
		return nil
	}

	if gs.IsWinner(sender) {
		c.routeWinnersOnly(lobby, sender, content)
		return nil
	}

	if c.matches(content, gs.WordToGuess) {
		return c.recordCorrectGuess(ctx, lobby, player, content)
	}

	if c.policy.IsClose(normalize(content), normalize(gs.WordToGuess)) {
		c.emitter.ToConnection(player.ConnectionID, transport.EventMessage, transport.Message{
			ServerMessage: true,
			Message: transport.ChatMessage{
				Type:    transport.MessageTypeCloseGuess,
				Content: content,
			},
		})
	}

	c.broadcastChat(name, sender, content)
	return nil
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func (c *Classifier) matches(guess, word string) bool {
	return normalize(guess) == normalize(word)
}

// recordCorrectGuess appends the winner, clamps the deadline on the first
// correct guess, and ends the round early once every guesser has it
func (c *Classifier) recordCorrectGuess(ctx context.Context, lobby *model.Lobby, player *model.Player, content string) error {
	gs := lobby.GameState

	firstWinner := len(gs.RoundWinners) == 0
	gs.RoundWinners = append(gs.RoundWinners, model.Winner{
		PlayerID:     player.PlayerID,
		ConnectionID: player.ConnectionID,
	})

	if firstWinner {
		c.maybeClampDeadline(lobby)
	}
	lobby.UpdatedAt = c.clock.Now()

	if err := c.storage.SaveLobby(ctx, lobby); err != nil {
		c.logger.Error("failed to save lobby on correct guess",
			slog.String("lobby", string(lobby.Name)),
			slog.String("error", err.Error()),
		)
		return err
	}

	c.logger.Info("correct guess",
		slog.String("lobby", string(lobby.Name)),
		slog.String("player", string(player.PlayerID)),
		slog.Int("rank", len(gs.RoundWinners)-1),
	)

	// The guess itself is never echoed to the room; the alert names the
	// guesser instead
	c.emitter.ToLobby(lobby.Name, transport.EventMessage, transport.Message{
		ServerMessage: true,
		Message: transport.ChatMessage{
			Type:    transport.MessageTypeCorrectGuess,
			Content: string(player.PlayerID),
		},
	})
	c.emitter.ToConnection(player.ConnectionID, transport.EventUnmaskedWord, transport.UnmaskedWord{
		UnmaskedWord: gs.WordToGuess,
	})

	if len(gs.RoundWinners) == len(lobby.Players)-1 {
		return c.rounds.AdvanceRound(ctx, lobby)
	}
	return nil
}

// maybeClampDeadline shortens the round after the first correct guess, but
// never extends it
func (c *Classifier) maybeClampDeadline(lobby *model.Lobby) {
	gs := lobby.GameState
	now := c.clock.Now()
	remaining := time.Duration(gs.RoundEndTimestamp-now.Unix()) * time.Second
	if remaining < c.cfg.FirstGuessThreshold {
		return
	}

	gs.RoundEndTimestamp = now.Add(c.cfg.FirstGuessClamp).Unix()
	c.emitter.ToLobby(lobby.Name, transport.EventNewRoundEndTimestamp, transport.NewRoundEndTimestamp{
		NewRoundEndTimestamp: gs.RoundEndTimestamp,
	})
}

// routeWinnersOnly delivers a winner's message to the other winners and the
// drawer, keeping the secret away from players still guessing
func (c *Classifier) routeWinnersOnly(lobby *model.Lobby, sender model.PlayerID, content string) {
	gs := lobby.GameState

	payload := transport.Message{
		UserName: sender,
		Message: transport.ChatMessage{
			Type:    transport.MessageTypeWinnersOnly,
			Content: content,
		},
	}

	for _, winner := range gs.RoundWinners {
		if winner.PlayerID == sender {
			continue
		}
		if p := lobby.GetPlayer(winner.PlayerID); p != nil && p.Connected {
			c.emitter.ToConnection(p.ConnectionID, transport.EventMessage, payload)
		}
	}
	if drawer := lobby.GetPlayer(gs.DrawingUser); drawer != nil && drawer.Connected {
		c.emitter.ToConnection(drawer.ConnectionID, transport.EventMessage, payload)
	}
}

func (c *Classifier) broadcastChat(name model.LobbyName, sender model.PlayerID, content string) {
	c.emitter.ToLobby(name, transport.EventMessage, transport.Message{
		UserName: sender,
		Message: transport.ChatMessage{
			Type:    transport.MessageTypePlain,
			Content: content,
		},
	})
}
