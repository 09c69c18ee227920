package round

import (
	"context"
	"log/slog"
	"time"

	"github.com/drawhive/drawhive/internal/dependencies/clock"
	"github.com/drawhive/drawhive/internal/dependencies/scheduler"
	"github.com/drawhive/drawhive/internal/lock"
	"github.com/drawhive/drawhive/internal/model"
	"github.com/drawhive/drawhive/internal/services/hint"
	"github.com/drawhive/drawhive/internal/services/scoring"
	"github.com/drawhive/drawhive/internal/services/words"
	"github.com/drawhive/drawhive/internal/storage"
	"github.com/drawhive/drawhive/internal/transport"
)

// Config holds the round lifecycle timing and sizing knobs
type Config struct {
	TotalRounds int
	WordOptions int

	// RoundDuration is the full time a drawer has per round
	RoundDuration time.Duration
	// FirstGuessClamp shortens the round once somebody guesses correctly;
	// it only applies when more than FirstGuessThreshold remains
	FirstGuessClamp     time.Duration
	FirstGuessThreshold time.Duration

	// NextRoundDelay is the pause between roundOver and the next word pick;
	// GameOverDelay is the pause between the final roundOver and gameOver
	NextRoundDelay time.Duration
	GameOverDelay  time.Duration
}

// DefaultConfig returns the standard game timing
func DefaultConfig() Config {
	return Config{
		TotalRounds:         model.DefaultTotalRounds,
		WordOptions:         3,
		RoundDuration:       60 * time.Second,
		FirstGuessClamp:     30 * time.Second,
		FirstGuessThreshold: 31 * time.Second,
		NextRoundDelay:      10 * time.Second,
		GameOverDelay:       7500 * time.Millisecond,
	}
}

// Controller drives the lobby status machine through a game: start, word
// pick, round end, drawer rotation, and the deferred roundOver transitions.
// All mutating entry points serialize on the lobby key.
type Controller struct {
	storage   storage.Storage
	locks     *lock.KeyedMutex
	emitter   transport.Emitter
	clock     clock.Clock
	scheduler scheduler.Scheduler
	scoring   *scoring.Service
	hints     *hint.Generator
	words     words.ServiceInterface
	cfg       Config
	logger    *slog.Logger
}

// NewController creates a new round lifecycle controller
func NewController(
	storage storage.Storage,
	locks *lock.KeyedMutex,
	emitter transport.Emitter,
	clk clock.Clock,
	sched scheduler.Scheduler,
	scoringService *scoring.Service,
	hintGenerator *hint.Generator,
	wordSource words.ServiceInterface,
	cfg Config,
	logger *slog.Logger,
) *Controller {
	return &Controller{
		storage:   storage,
		locks:     locks,
		emitter:   emitter,
		clock:     clk,
		scheduler: sched,
		scoring:   scoringService,
		hints:     hintGenerator,
		words:     wordSource,
		cfg:       cfg,
		logger:    logger,
	}
}

// StartGame begins a game. Only the lobby owner may start; anyone else gets
// an explicit denial rather than a silent drop.
func (c *Controller) StartGame(ctx context.Context, name model.LobbyName, requester model.PlayerID) error {
	c.locks.Lock(name)
	defer c.locks.Unlock(name)

	lobby, err := c.storage.GetLobby(ctx, name)
	if err != nil {
		return err
	}

	player := lobby.GetPlayer(requester)
	if player == nil || !player.IsOwner {
		c.deny(lobby, requester, "startGame", "only the lobby owner can start the game")
		return model.ErrNotOwner
	}

	drawer := lobby.Players[len(lobby.Players)-1]

	lobby.Status = model.StatusPickingWord
	lobby.GameState = &model.GameState{
		TotalRounds:  c.cfg.TotalRounds,
		RoundNo:      1,
		DrawingUser:  drawer.PlayerID,
		RoundWinners: []model.Winner{},
		Hints:        []model.Hint{},
		Canvas:       []model.CanvasEntry{},
		Generation:   1,
	}
	lobby.UpdatedAt = c.clock.Now()

	if err := c.storage.SaveLobby(ctx, lobby); err != nil {
		c.logger.Error("failed to save lobby on game start",
			slog.String("lobby", string(name)),
			slog.String("error", err.Error()),
		)
		return err
	}

	c.logger.Info("game started",
		slog.String("lobby", string(name)),
		slog.String("drawer", string(drawer.PlayerID)),
		slog.Int("players", len(lobby.Players)),
	)

	c.emitter.ToLobby(name, transport.EventLobbyStatusChange, transport.LobbyStatusChange{
		NewStatus: model.StatusPickingWord,
		Info:      &transport.StatusInfo{DrawingUser: drawer.PlayerID},
	})
	c.offerWords(name, drawer.ConnectionID)

	return nil
}

// WordPick sets the secret word and opens the round for guessing
func (c *Controller) WordPick(ctx context.Context, name model.LobbyName, requester model.PlayerID, pickedWord string) error {
	c.locks.Lock(name)
	defer c.locks.Unlock(name)

	lobby, err := c.storage.GetLobby(ctx, name)
	if err != nil {
		return err
	}

	gs := lobby.GameState
	if gs == nil {
		return model.ErrNoGameInProgress
	}
	if gs.DrawingUser != requester {
		c.deny(lobby, requester, "wordPick", "only the current drawer can pick the word")
		return model.ErrNotDrawer
	}

	drawer := lobby.GetPlayer(requester)
	c.emitter.ToConnection(drawer.ConnectionID, transport.EventStartDrawing, transport.StartDrawing{
		WordToDraw: pickedWord,
	})

	now := c.clock.Now()
	deadline := now.Add(c.cfg.RoundDuration).Unix()

	lobby.Status = model.StatusPlaying
	gs.WordToGuess = pickedWord
	gs.RoundEndTimestamp = deadline
	gs.Hints = c.hints.Generate(pickedWord)
	lobby.UpdatedAt = now

	if err := c.storage.SaveLobby(ctx, lobby); err != nil {
		c.logger.Error("failed to save lobby on word pick",
			slog.String("lobby", string(name)),
			slog.String("error", err.Error()),
		)
		return err
	}

	// Guessers only ever see the masked shape of the word
	c.emitter.ToLobby(name, transport.EventLobbyStatusChange, transport.LobbyStatusChange{
		NewStatus: model.StatusPlaying,
		Info: &transport.StatusInfo{
			MaskedWord:        model.MaskWord(pickedWord),
			DrawingUser:       requester,
			RoundEndTimestamp: deadline,
		},
	})

	return nil
}

// TriggerRoundEnd handles the drawer's client reporting timer expiry
func (c *Controller) TriggerRoundEnd(ctx context.Context, name model.LobbyName, requester model.PlayerID) error {
	c.locks.Lock(name)
	defer c.locks.Unlock(name)

	lobby, err := c.storage.GetLobby(ctx, name)
	if err != nil {
		return err
	}

	if lobby.GameState == nil {
		return model.ErrNoGameInProgress
	}
	if lobby.GameState.DrawingUser != requester {
		c.deny(lobby, requester, "triggerRoundEndByTimer", "only the current drawer can end the round")
		return model.ErrNotDrawer
	}

	return c.AdvanceRound(ctx, lobby)
}

// TriggerHint reveals one of the prepared hints to everyone except the drawer
func (c *Controller) TriggerHint(ctx context.Context, name model.LobbyName, requester model.PlayerID, index int) error {
	c.locks.Lock(name)
	defer c.locks.Unlock(name)

	lobby, err := c.storage.GetLobby(ctx, name)
	if err != nil {
		return err
	}

	gs := lobby.GameState
	if gs == nil {
		return model.ErrNoGameInProgress
	}
	if gs.DrawingUser != requester {
		c.deny(lobby, requester, "triggerHint", "only the current drawer can reveal hints")
		return model.ErrNotDrawer
	}
	if index < 0 || index >= len(gs.Hints) {
		return nil
	}

	drawer := lobby.GetPlayer(requester)
	c.emitter.ToLobbyExcept(name, drawer.ConnectionID, transport.EventHint, transport.HintReveal{
		Hint: gs.Hints[index],
	})
	return nil
}

// NextDrawer selects the next drawer: the connected player closest before
// the current drawer in roster order. Returns nil when the backward sweep
// is exhausted and the round number must advance.
func NextDrawer(lobby *model.Lobby) *model.Player {
	gs := lobby.GameState
	if gs == nil {
		return nil
	}

	drawerIdx := -1
	for i := range lobby.Players {
		if lobby.Players[i].PlayerID == gs.DrawingUser {
			drawerIdx = i
			break
		}
	}

	var candidate *model.Player
	for i := 0; i < drawerIdx; i++ {
		if lobby.Players[i].Connected {
			candidate = &lobby.Players[i]
		}
	}
	return candidate
}

// AdvanceRound scores the finished round, rotates the drawer, and either
// moves to the next round or ends the game. The caller must hold the lobby
// lock and pass the freshly loaded document.
func (c *Controller) AdvanceRound(ctx context.Context, lobby *model.Lobby) error {
	gs := lobby.GameState
	if gs == nil {
		return model.ErrNoGameInProgress
	}

	scoreboard := c.scoring.Scoreboard(lobby.Players, gs.RoundWinners, gs.DrawingUser)
	c.scoring.Apply(lobby.Players, scoreboard)

	unmaskedWord := gs.WordToGuess
	nextDrawer := NextDrawer(lobby)

	gs.ResetRound()
	lobby.Status = model.StatusRoundOver
	lobby.UpdatedAt = c.clock.Now()

	if nextDrawer == nil && gs.RoundNo == gs.TotalRounds {
		return c.finishGame(ctx, lobby, unmaskedWord, scoreboard)
	}

	if nextDrawer == nil {
		// Sweep exhausted with rounds remaining: restart from the newest
		// connected player
		gs.RoundNo++
		connected := lobby.ConnectedPlayers()
		last := connected[len(connected)-1]
		gs.DrawingUser = last.PlayerID
	} else {
		gs.DrawingUser = nextDrawer.PlayerID
	}

	if err := c.storage.SaveLobby(ctx, lobby); err != nil {
		c.logger.Error("failed to save lobby on round end",
			slog.String("lobby", string(lobby.Name)),
			slog.String("error", err.Error()),
		)
		return err
	}

	c.logger.Info("round over",
		slog.String("lobby", string(lobby.Name)),
		slog.Int("round", gs.RoundNo),
		slog.String("next_drawer", string(gs.DrawingUser)),
	)

	c.emitter.ToLobby(lobby.Name, transport.EventLobbyStatusChange, transport.LobbyStatusChange{
		NewStatus: model.StatusRoundOver,
		Info: &transport.StatusInfo{
			DrawingNext:     gs.DrawingUser,
			UnmaskedWord:    unmaskedWord,
			RoundScoreboard: scoreboard,
			Players:         lobby.Players,
		},
	})

	name := lobby.Name
	generation := gs.Generation
	c.scheduler.After(c.cfg.NextRoundDelay, func() {
		c.promptWordPick(name, generation)
	})

	return nil
}

// finishGame handles the terminal branch: final roundOver now, gameOver
// after the reveal delay
func (c *Controller) finishGame(ctx context.Context, lobby *model.Lobby, unmaskedWord string, scoreboard []transport.RoundScore) error {
	if err := c.storage.SaveLobby(ctx, lobby); err != nil {
		c.logger.Error("failed to save lobby on game end",
			slog.String("lobby", string(lobby.Name)),
			slog.String("error", err.Error()),
		)
		return err
	}

	c.logger.Info("final round over", slog.String("lobby", string(lobby.Name)))

	c.emitter.ToLobby(lobby.Name, transport.EventLobbyStatusChange, transport.LobbyStatusChange{
		NewStatus: model.StatusRoundOver,
		Info: &transport.StatusInfo{
			UnmaskedWord:    unmaskedWord,
			RoundScoreboard: scoreboard,
			Players:         lobby.Players,
		},
	})

	name := lobby.Name
	generation := lobby.GameState.Generation
	c.scheduler.After(c.cfg.GameOverDelay, func() {
		c.completeGameOver(name, generation)
	})

	return nil
}

// EndGame terminates a game immediately (e.g. too few players remain). The
// caller must hold the lobby lock.
func (c *Controller) EndGame(ctx context.Context, lobby *model.Lobby, notice string) error {
	gs := lobby.GameState
	if gs == nil {
		return model.ErrNoGameInProgress
	}

	gs.ResetRound()
	lobby.Status = model.StatusGameOver
	lobby.UpdatedAt = c.clock.Now()

	if err := c.storage.SaveLobby(ctx, lobby); err != nil {
		return err
	}

	c.logger.Info("game ended early",
		slog.String("lobby", string(lobby.Name)),
		slog.String("notice", notice),
	)

	c.emitter.ToLobby(lobby.Name, transport.EventLobbyStatusChange, transport.LobbyStatusChange{
		NewStatus: model.StatusGameOver,
		Info:      &transport.StatusInfo{Notice: notice, Players: lobby.Players},
	})
	return nil
}

// promptWordPick is the deferred transition from roundOver to pickingWord.
// It revalidates against the stored lobby so a fire scheduled under an
// earlier round (or a since-ended game) is discarded.
func (c *Controller) promptWordPick(name model.LobbyName, generation int64) {
	ctx := context.Background()

	c.locks.Lock(name)
	defer c.locks.Unlock(name)

	lobby, err := c.storage.GetLobby(ctx, name)
	if err != nil {
		return
	}
	gs := lobby.GameState
	if gs == nil || gs.Generation != generation || lobby.Status != model.StatusRoundOver {
		c.logger.Debug("discarding stale word pick prompt",
			slog.String("lobby", string(name)),
			slog.Int64("generation", generation),
		)
		return
	}

	drawer := lobby.GetPlayer(gs.DrawingUser)
	if drawer == nil || !drawer.Connected {
		drawer = c.replaceAbsentDrawer(ctx, lobby)
		if drawer == nil {
			return
		}
	}

	lobby.Status = model.StatusPickingWord
	lobby.UpdatedAt = c.clock.Now()
	if err := c.storage.SaveLobby(ctx, lobby); err != nil {
		c.logger.Error("failed to save lobby on word pick prompt",
			slog.String("lobby", string(name)),
			slog.String("error", err.Error()),
		)
		return
	}

	c.emitter.ToLobby(name, transport.EventLobbyStatusChange, transport.LobbyStatusChange{
		NewStatus: model.StatusPickingWord,
		Info:      &transport.StatusInfo{DrawingUser: gs.DrawingUser},
	})
	c.offerWords(name, drawer.ConnectionID)
}

// replaceAbsentDrawer hands the pen to a connected player when the upcoming
// drawer left during the roundOver pause, resuming the backward sweep from
// the absent drawer's slot. An exhausted sweep advances the round number, or
// ends the game when no rounds remain. Returns nil once the game is over.
// The caller must hold the lobby lock.
func (c *Controller) replaceAbsentDrawer(ctx context.Context, lobby *model.Lobby) *model.Player {
	gs := lobby.GameState

	if next := NextDrawer(lobby); next != nil {
		gs.DrawingUser = next.PlayerID
		return next
	}

	if gs.RoundNo == gs.TotalRounds {
		lobby.Status = model.StatusGameOver
		lobby.UpdatedAt = c.clock.Now()
		if err := c.storage.SaveLobby(ctx, lobby); err != nil {
			c.logger.Error("failed to save lobby on game over",
				slog.String("lobby", string(lobby.Name)),
				slog.String("error", err.Error()),
			)
			return nil
		}
		c.logger.Info("game over", slog.String("lobby", string(lobby.Name)))
		c.emitter.ToLobby(lobby.Name, transport.EventLobbyStatusChange, transport.LobbyStatusChange{
			NewStatus: model.StatusGameOver,
		})
		return nil
	}

	connected := lobby.ConnectedPlayers()
	if len(connected) == 0 {
		return nil
	}
	gs.RoundNo++
	gs.DrawingUser = connected[len(connected)-1].PlayerID
	return lobby.GetPlayer(gs.DrawingUser)
}

// completeGameOver is the deferred transition from the final roundOver to
// gameOver, discarded if the lobby moved on (e.g. restarted) meanwhile
func (c *Controller) completeGameOver(name model.LobbyName, generation int64) {
	ctx := context.Background()

	c.locks.Lock(name)
	defer c.locks.Unlock(name)

	lobby, err := c.storage.GetLobby(ctx, name)
	if err != nil {
		return
	}
	gs := lobby.GameState
	if gs == nil || gs.Generation != generation || lobby.Status != model.StatusRoundOver {
		c.logger.Debug("discarding stale game over transition",
			slog.String("lobby", string(name)),
			slog.Int64("generation", generation),
		)
		return
	}

	lobby.Status = model.StatusGameOver
	lobby.UpdatedAt = c.clock.Now()
	if err := c.storage.SaveLobby(ctx, lobby); err != nil {
		c.logger.Error("failed to save lobby on game over",
			slog.String("lobby", string(name)),
			slog.String("error", err.Error()),
		)
		return
	}

	c.logger.Info("game over", slog.String("lobby", string(name)))

	c.emitter.ToLobby(name, transport.EventLobbyStatusChange, transport.LobbyStatusChange{
		NewStatus: model.StatusGameOver,
	})
}

// offerWords samples word candidates and offers them privately to the drawer
func (c *Controller) offerWords(name model.LobbyName, drawerConn model.ConnectionID) {
	options, err := c.words.Sample(c.cfg.WordOptions)
	if err != nil {
		c.logger.Error("failed to sample words",
			slog.String("lobby", string(name)),
			slog.String("error", err.Error()),
		)
		return
	}
	c.emitter.ToConnection(drawerConn, transport.EventPickAWord, transport.PickAWord{
		ArrayOfWordOptions: options,
	})
}

// deny sends an explicit rejection to an unauthorized requester
func (c *Controller) deny(lobby *model.Lobby, requester model.PlayerID, action, reason string) {
	player := lobby.GetPlayer(requester)
	if player == nil {
		return
	}
	c.emitter.ToConnection(player.ConnectionID, transport.EventActionDenied, transport.ActionDenied{
		Action: action,
		Reason: reason,
	})
}
