package factory

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/drawhive/drawhive/internal/dependencies/clock"
	"github.com/drawhive/drawhive/internal/dependencies/random"
	"github.com/drawhive/drawhive/internal/dependencies/scheduler"
	"github.com/drawhive/drawhive/internal/lock"
	"github.com/drawhive/drawhive/internal/services/canvas"
	"github.com/drawhive/drawhive/internal/services/guess"
	"github.com/drawhive/drawhive/internal/services/hint"
	"github.com/drawhive/drawhive/internal/services/roster"
	"github.com/drawhive/drawhive/internal/services/round"
	"github.com/drawhive/drawhive/internal/services/scoring"
	"github.com/drawhive/drawhive/internal/services/words"
	"github.com/drawhive/drawhive/internal/session"
	"github.com/drawhive/drawhive/internal/storage"
	"github.com/drawhive/drawhive/internal/storage/memory"
	redisstorage "github.com/drawhive/drawhive/internal/storage/redis"
	"github.com/drawhive/drawhive/internal/transport"
	"github.com/drawhive/drawhive/internal/transport/ws"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock     clock.Clock
	Random    random.Random
	Scheduler scheduler.Scheduler

	// Transport
	Hub        *ws.Hub
	Dispatcher *session.Dispatcher

	// Services
	WordService      *words.Service
	ScoringService   *scoring.Service
	HintGenerator    *hint.Generator
	RoundController  *round.Controller
	GuessClassifier  *guess.Classifier
	CanvasService    *canvas.Service
	RosterController *roster.Controller
}

// Config holds configuration for the application factory
type Config struct {
	// WordsPath is the path to the word list file (optional)
	// If set, the list is loaded at startup; a list already present in
	// storage takes precedence. If empty, words must be loaded manually
	WordsPath string
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory" or "redis")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
	// RoundConfig holds game timing; zero value means round.DefaultConfig()
	RoundConfig round.Config
	// ClosenessPolicy decides near-miss guesses (optional)
	// If nil, no guess is ever considered close
	ClosenessPolicy guess.ClosenessPolicy
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	// Create storage based on type
	var store storage.Storage
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		store = memory.New()
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		store = redisStore
	default:
		return nil, errors.New("invalid StorageType: must be 'memory' or 'redis'")
	}

	// Create external dependencies
	clk := clock.New()
	rnd := random.New()
	sched := scheduler.New()

	roundCfg := cfg.RoundConfig
	if roundCfg.RoundDuration == 0 {
		roundCfg = round.DefaultConfig()
	}

	hub := ws.NewHub(logger)
	app := newWithDependencies(store, clk, rnd, sched, hub, hub, roundCfg, cfg.ClosenessPolicy, logger)

	if cfg.WordsPath != "" {
		ctx := context.Background()
		if err := app.WordService.LoadFromStorage(ctx); err != nil {
			if err := app.WordService.LoadFromFile(ctx, cfg.WordsPath); err != nil {
				return nil, err
			}
		}
	}

	return app, nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(
	store storage.Storage,
	clk clock.Clock,
	rnd random.Random,
	sched scheduler.Scheduler,
	emitter transport.Emitter,
	rooms transport.Rooms,
	roundCfg round.Config,
	policy guess.ClosenessPolicy,
	logger *slog.Logger,
) *App {
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	locks := lock.New()

	wordService := words.New(store, rnd, logger)
	scoringService := scoring.New()
	hintGenerator := hint.New(rnd)
	roundController := round.NewController(store, locks, emitter, clk, sched, scoringService, hintGenerator, wordService, roundCfg, logger)
	guessClassifier := guess.NewClassifier(store, locks, emitter, clk, roundController, policy, roundCfg, logger)
	canvasService := canvas.New(store, locks, emitter, logger)
	rosterController := roster.NewController(store, locks, emitter, rooms, clk, roundController, canvasService, logger)
	dispatcher := session.NewDispatcher(store, rosterController, roundController, guessClassifier, canvasService, logger)

	var hub *ws.Hub
	if h, ok := emitter.(*ws.Hub); ok {
		hub = h
	}

	return &App{
		Storage:          store,
		Clock:            clk,
		Random:           rnd,
		Scheduler:        sched,
		Hub:              hub,
		Dispatcher:       dispatcher,
		WordService:      wordService,
		ScoringService:   scoringService,
		HintGenerator:    hintGenerator,
		RoundController:  roundController,
		GuessClassifier:  guessClassifier,
		CanvasService:    canvasService,
		RosterController: rosterController,
	}
}
