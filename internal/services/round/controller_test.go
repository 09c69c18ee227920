package round_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/drawhive/drawhive/internal/dependencies/mocks"
	"github.com/drawhive/drawhive/internal/lock"
	"github.com/drawhive/drawhive/internal/model"
	"github.com/drawhive/drawhive/internal/services/hint"
	"github.com/drawhive/drawhive/internal/services/round"
	"github.com/drawhive/drawhive/internal/services/scoring"
	"github.com/drawhive/drawhive/internal/services/words"
	"github.com/drawhive/drawhive/internal/storage/memory"
	"github.com/drawhive/drawhive/internal/testutil"
	"github.com/drawhive/drawhive/internal/transport"
)

type RoundControllerTestSuite struct {
	suite.Suite
	ctx        context.Context
	storage    *memory.Storage
	emitter    *mocks.MockEmitter
	clock      *mocks.MockClock
	random     *mocks.MockRandom
	scheduler  *mocks.MockScheduler
	words      *words.Service
	controller *round.Controller
}

func TestRoundControllerTestSuite(t *testing.T) {
	suite.Run(t, new(RoundControllerTestSuite))
}

func (s *RoundControllerTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.storage = memory.New()
	s.emitter = mocks.NewMockEmitter()
	s.clock = mocks.NewMockClock(time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC))
	s.random = mocks.NewMockRandom()
	s.scheduler = mocks.NewMockScheduler()

	logger := testutil.NopLogger()
	s.words = words.New(s.storage, s.random, logger)
	s.words.LoadWords([]string{"apple", "banana", "cherry", "dragon", "eagle"})

	s.controller = round.NewController(
		s.storage,
		lock.New(),
		s.emitter,
		s.clock,
		s.scheduler,
		scoring.New(),
		hint.New(s.random),
		s.words,
		round.DefaultConfig(),
		logger,
	)
}

// seedLobby stores an open lobby with the given connected players, the first
// marked as owner
func (s *RoundControllerTestSuite) seedLobby(name model.LobbyName, players ...model.PlayerID) *model.Lobby {
	lobby := &model.Lobby{
		Name:    name,
		Status:  model.StatusOpen,
		Players: []model.Player{},
	}
	for i, id := range players {
		lobby.Players = append(lobby.Players, model.Player{
			PlayerID:     id,
			ConnectionID: model.ConnectionID("conn-" + string(id)),
			Connected:    true,
			IsOwner:      i == 0,
		})
	}
	s.Require().NoError(s.storage.SaveLobby(s.ctx, lobby))
	return lobby
}

func (s *RoundControllerTestSuite) loadLobby(name model.LobbyName) *model.Lobby {
	lobby, err := s.storage.GetLobby(s.ctx, name)
	s.Require().NoError(err)
	return lobby
}

func (s *RoundControllerTestSuite) TestStartGame() {
	s.seedLobby("den", "alice", "bob", "carol")

	err := s.controller.StartGame(s.ctx, "den", "alice")
	s.Require().NoError(err)

	lobby := s.loadLobby("den")
	s.Equal(model.StatusPickingWord, lobby.Status)
	s.Require().NotNil(lobby.GameState)
	s.Equal(1, lobby.GameState.RoundNo)
	s.Equal(3, lobby.GameState.TotalRounds)
	// The newest joiner draws first
	s.Equal(model.PlayerID("carol"), lobby.GameState.DrawingUser)

	statusChange := s.emitter.LastOfEvent(transport.EventLobbyStatusChange)
	s.Require().NotNil(statusChange)
	s.Equal(model.LobbyName("den"), statusChange.Lobby)

	pick := s.emitter.LastOfEvent(transport.EventPickAWord)
	s.Require().NotNil(pick)
	s.Equal(model.ConnectionID("conn-carol"), pick.Conn)
	s.Len(pick.Payload.(transport.PickAWord).ArrayOfWordOptions, 3)
}

func (s *RoundControllerTestSuite) TestStartGameNotOwnerDenied() {
	s.seedLobby("den", "alice", "bob")

	err := s.controller.StartGame(s.ctx, "den", "bob")
	s.Require().ErrorIs(err, model.ErrNotOwner)

	lobby := s.loadLobby("den")
	s.Equal(model.StatusOpen, lobby.Status)
	s.Nil(lobby.GameState)

	denied := s.emitter.LastOfEvent(transport.EventActionDenied)
	s.Require().NotNil(denied)
	s.Equal(model.ConnectionID("conn-bob"), denied.Conn)
	s.Equal("startGame", denied.Payload.(transport.ActionDenied).Action)
}

func (s *RoundControllerTestSuite) TestWordPick() {
	s.seedLobby("den", "alice", "bob", "carol")
	s.Require().NoError(s.controller.StartGame(s.ctx, "den", "alice"))
	s.emitter.Reset()

	err := s.controller.WordPick(s.ctx, "den", "carol", "apple")
	s.Require().NoError(err)

	lobby := s.loadLobby("den")
	s.Equal(model.StatusPlaying, lobby.Status)
	s.Equal("apple", lobby.GameState.WordToGuess)
	s.Equal(s.clock.Now().Add(60*time.Second).Unix(), lobby.GameState.RoundEndTimestamp)
	s.Len(lobby.GameState.Hints, 2)

	ack := s.emitter.LastOfEvent(transport.EventStartDrawing)
	s.Require().NotNil(ack)
	s.Equal(model.ConnectionID("conn-carol"), ack.Conn)
	s.Equal("apple", ack.Payload.(transport.StartDrawing).WordToDraw)

	statusChange := s.emitter.LastOfEvent(transport.EventLobbyStatusChange)
	s.Require().NotNil(statusChange)
	info := statusChange.Payload.(transport.LobbyStatusChange).Info
	s.Equal("_____", info.MaskedWord)
	s.Empty(info.UnmaskedWord)
	s.Equal(lobby.GameState.RoundEndTimestamp, info.RoundEndTimestamp)
}

func (s *RoundControllerTestSuite) TestWordPickNotDrawerDenied() {
	s.seedLobby("den", "alice", "bob", "carol")
	s.Require().NoError(s.controller.StartGame(s.ctx, "den", "alice"))
	s.emitter.Reset()

	err := s.controller.WordPick(s.ctx, "den", "bob", "apple")
	s.Require().ErrorIs(err, model.ErrNotDrawer)

	lobby := s.loadLobby("den")
	s.Equal(model.StatusPickingWord, lobby.Status)
	s.Empty(lobby.GameState.WordToGuess)

	denied := s.emitter.LastOfEvent(transport.EventActionDenied)
	s.Require().NotNil(denied)
	s.Equal(model.ConnectionID("conn-bob"), denied.Conn)
}

// startPlaying drives a seeded lobby through startGame and wordPick so the
// round is live. Returns the drawer's player id.
func (s *RoundControllerTestSuite) startPlaying(name model.LobbyName, word string) model.PlayerID {
	lobby := s.loadLobby(name)
	owner := lobby.GetOwner()
	s.Require().NotNil(owner)
	s.Require().NoError(s.controller.StartGame(s.ctx, name, owner.PlayerID))

	lobby = s.loadLobby(name)
	drawer := lobby.GameState.DrawingUser
	s.Require().NoError(s.controller.WordPick(s.ctx, name, drawer, word))
	s.emitter.Reset()
	return drawer
}

func (s *RoundControllerTestSuite) TestTriggerHint() {
	s.seedLobby("den", "alice", "bob", "carol")
	s.startPlaying("den", "apple")

	err := s.controller.TriggerHint(s.ctx, "den", "carol", 0)
	s.Require().NoError(err)

	reveal := s.emitter.LastOfEvent(transport.EventHint)
	s.Require().NotNil(reveal)
	s.True(reveal.Except)
	s.Equal(model.ConnectionID("conn-carol"), reveal.Conn)
	s.Equal(model.Hint{Index: 0, Letter: "a"}, reveal.Payload.(transport.HintReveal).Hint)
}

func (s *RoundControllerTestSuite) TestTriggerHintOutOfRangeIgnored() {
	s.seedLobby("den", "alice", "bob", "carol")
	s.startPlaying("den", "apple")

	s.Require().NoError(s.controller.TriggerHint(s.ctx, "den", "carol", 5))
	s.Nil(s.emitter.LastOfEvent(transport.EventHint))
}

func (s *RoundControllerTestSuite) TestTriggerHintNotDrawerDenied() {
	s.seedLobby("den", "alice", "bob", "carol")
	s.startPlaying("den", "apple")

	err := s.controller.TriggerHint(s.ctx, "den", "alice", 0)
	s.Require().ErrorIs(err, model.ErrNotDrawer)
	s.Nil(s.emitter.LastOfEvent(transport.EventHint))
}

func (s *RoundControllerTestSuite) TestRoundEndRotatesDrawerBackward() {
	s.seedLobby("den", "alice", "bob", "carol")
	s.startPlaying("den", "apple")

	err := s.controller.TriggerRoundEnd(s.ctx, "den", "carol")
	s.Require().NoError(err)

	lobby := s.loadLobby("den")
	s.Equal(model.StatusRoundOver, lobby.Status)
	s.Equal(model.PlayerID("bob"), lobby.GameState.DrawingUser)
	s.Equal(1, lobby.GameState.RoundNo)
	s.Empty(lobby.GameState.WordToGuess)
	s.Empty(lobby.GameState.RoundWinners)
	s.Empty(lobby.GameState.Hints)
	s.Empty(lobby.GameState.Canvas)

	statusChange := s.emitter.LastOfEvent(transport.EventLobbyStatusChange)
	s.Require().NotNil(statusChange)
	info := statusChange.Payload.(transport.LobbyStatusChange).Info
	s.Equal(model.PlayerID("bob"), info.DrawingNext)
	s.Equal("apple", info.UnmaskedWord)
	s.Len(info.RoundScoreboard, 3)

	s.Equal(1, s.scheduler.PendingCount())
	s.Equal(10*time.Second, s.scheduler.Scheduled[0].Delay)
}

func (s *RoundControllerTestSuite) TestRoundEndSkipsDisconnectedPlayers() {
	lobby := s.seedLobby("den", "alice", "bob", "carol")
	lobby.Players[1].Connected = false
	s.Require().NoError(s.storage.SaveLobby(s.ctx, lobby))
	s.startPlaying("den", "apple")

	s.Require().NoError(s.controller.TriggerRoundEnd(s.ctx, "den", "carol"))

	s.Equal(model.PlayerID("alice"), s.loadLobby("den").GameState.DrawingUser)
}

func (s *RoundControllerTestSuite) TestRoundExhaustionAdvancesRoundNumber() {
	s.seedLobby("den", "alice", "bob")
	s.startPlaying("den", "apple")

	// bob draws first; alice is next and last in the sweep
	s.Require().NoError(s.controller.TriggerRoundEnd(s.ctx, "den", "bob"))
	s.scheduler.FireAll()
	s.Require().NoError(s.controller.WordPick(s.ctx, "den", "alice", "cherry"))
	s.Require().NoError(s.controller.TriggerRoundEnd(s.ctx, "den", "alice"))

	lobby := s.loadLobby("den")
	s.Equal(2, lobby.GameState.RoundNo)
	// The sweep restarts from the newest connected player
	s.Equal(model.PlayerID("bob"), lobby.GameState.DrawingUser)
}

func (s *RoundControllerTestSuite) TestDeferredWordPickPrompt() {
	s.seedLobby("den", "alice", "bob", "carol")
	s.startPlaying("den", "apple")
	s.Require().NoError(s.controller.TriggerRoundEnd(s.ctx, "den", "carol"))
	s.emitter.Reset()

	s.scheduler.FireAll()

	lobby := s.loadLobby("den")
	s.Equal(model.StatusPickingWord, lobby.Status)

	statusChange := s.emitter.LastOfEvent(transport.EventLobbyStatusChange)
	s.Require().NotNil(statusChange)
	s.Equal(model.StatusPickingWord, statusChange.Payload.(transport.LobbyStatusChange).NewStatus)

	pick := s.emitter.LastOfEvent(transport.EventPickAWord)
	s.Require().NotNil(pick)
	s.Equal(model.ConnectionID("conn-bob"), pick.Conn)
}

func (s *RoundControllerTestSuite) TestDeferredPromptSkipsDisconnectedDrawer() {
	s.seedLobby("den", "alice", "bob", "carol")
	s.startPlaying("den", "apple")
	s.Require().NoError(s.controller.TriggerRoundEnd(s.ctx, "den", "carol"))

	// bob is due to draw next but leaves during the pause
	lobby := s.loadLobby("den")
	lobby.GetPlayer("bob").Connected = false
	s.Require().NoError(s.storage.SaveLobby(s.ctx, lobby))
	s.emitter.Reset()

	s.scheduler.FireAll()

	lobby = s.loadLobby("den")
	s.Equal(model.StatusPickingWord, lobby.Status)
	s.Equal(model.PlayerID("alice"), lobby.GameState.DrawingUser)

	pick := s.emitter.LastOfEvent(transport.EventPickAWord)
	s.Require().NotNil(pick)
	s.Equal(model.ConnectionID("conn-alice"), pick.Conn)
}

func (s *RoundControllerTestSuite) TestDeferredPromptRestartsSweepWhenDrawerAbsent() {
	s.seedLobby("den", "alice", "bob", "carol")
	s.startPlaying("den", "apple")
	s.Require().NoError(s.controller.TriggerRoundEnd(s.ctx, "den", "carol"))

	// Everyone ahead of carol in the sweep leaves during the pause
	lobby := s.loadLobby("den")
	lobby.GetPlayer("bob").Connected = false
	lobby.GetPlayer("alice").Connected = false
	s.Require().NoError(s.storage.SaveLobby(s.ctx, lobby))
	s.emitter.Reset()

	s.scheduler.FireAll()

	lobby = s.loadLobby("den")
	s.Equal(model.StatusPickingWord, lobby.Status)
	s.Equal(2, lobby.GameState.RoundNo)
	s.Equal(model.PlayerID("carol"), lobby.GameState.DrawingUser)

	pick := s.emitter.LastOfEvent(transport.EventPickAWord)
	s.Require().NotNil(pick)
	s.Equal(model.ConnectionID("conn-carol"), pick.Conn)
}

func (s *RoundControllerTestSuite) TestDeferredPromptEndsGameWhenFinalDrawerAbsent() {
	s.seedLobby("den", "alice", "bob")
	s.startPlaying("den", "apple")

	// Drive the game to the last turn of round three
	wordQueue := []string{"banana", "cherry", "dragon", "eagle"}
	order := []model.PlayerID{"bob", "alice", "bob", "alice", "bob"}
	for i, drawer := range order {
		s.Require().NoError(s.controller.TriggerRoundEnd(s.ctx, "den", drawer))
		if i == len(order)-1 {
			break
		}
		s.scheduler.FireAll()
		s.Require().NoError(s.controller.WordPick(s.ctx, "den", order[i+1], wordQueue[i%len(wordQueue)]))
	}

	// alice is due to draw the final turn but leaves during the pause
	lobby := s.loadLobby("den")
	s.Require().Equal(3, lobby.GameState.RoundNo)
	s.Require().Equal(model.PlayerID("alice"), lobby.GameState.DrawingUser)
	lobby.GetPlayer("alice").Connected = false
	s.Require().NoError(s.storage.SaveLobby(s.ctx, lobby))
	s.emitter.Reset()

	s.scheduler.FireAll()

	s.Equal(model.StatusGameOver, s.loadLobby("den").Status)

	statusChange := s.emitter.LastOfEvent(transport.EventLobbyStatusChange)
	s.Require().NotNil(statusChange)
	s.Equal(model.StatusGameOver, statusChange.Payload.(transport.LobbyStatusChange).NewStatus)
	s.Nil(s.emitter.LastOfEvent(transport.EventPickAWord))
}

func (s *RoundControllerTestSuite) TestStaleDeferredActionDiscarded() {
	s.seedLobby("den", "alice", "bob", "carol")
	s.startPlaying("den", "apple")
	s.Require().NoError(s.controller.TriggerRoundEnd(s.ctx, "den", "carol"))

	// The game ends before the deferred prompt fires
	lobby := s.loadLobby("den")
	s.Require().NoError(s.controller.EndGame(s.ctx, lobby, "not enough players"))
	s.emitter.Reset()

	s.scheduler.FireAll()

	s.Equal(model.StatusGameOver, s.loadLobby("den").Status)
	s.Empty(s.emitter.Emissions)
}

func (s *RoundControllerTestSuite) TestGameOverAfterFinalRound() {
	s.seedLobby("den", "alice", "bob")
	s.startPlaying("den", "apple")

	// Three full rounds: bob, alice, then sweep restart each round
	order := []model.PlayerID{"bob", "alice", "bob", "alice", "bob", "alice"}
	wordQueue := []string{"banana", "cherry", "dragon", "eagle", "apple"}
	for i, drawer := range order {
		s.Require().NoError(s.controller.TriggerRoundEnd(s.ctx, "den", drawer))
		if i == len(order)-1 {
			break
		}
		s.scheduler.FireAll()
		next := s.loadLobby("den").GameState.DrawingUser
		s.Require().NoError(s.controller.WordPick(s.ctx, "den", next, wordQueue[i%len(wordQueue)]))
	}

	lobby := s.loadLobby("den")
	s.Equal(model.StatusRoundOver, lobby.Status)
	s.Equal(3, lobby.GameState.RoundNo)

	s.Require().Equal(1, s.scheduler.PendingCount())
	s.Equal(7500*time.Millisecond, s.scheduler.Scheduled[0].Delay)
	s.scheduler.FireAll()

	s.Equal(model.StatusGameOver, s.loadLobby("den").Status)
}

func (s *RoundControllerTestSuite) TestRoundEndScoresWinnersAndDrawer() {
	s.seedLobby("den", "alice", "bob", "carol")
	s.startPlaying("den", "apple")

	lobby := s.loadLobby("den")
	lobby.GameState.RoundWinners = []model.Winner{
		{PlayerID: "alice", ConnectionID: "conn-alice"},
		{PlayerID: "bob", ConnectionID: "conn-bob"},
	}
	s.Require().NoError(s.storage.SaveLobby(s.ctx, lobby))

	s.Require().NoError(s.controller.TriggerRoundEnd(s.ctx, "den", "carol"))

	lobby = s.loadLobby("den")
	s.Equal(500, lobby.GetPlayer("alice").Score)
	s.Equal(450, lobby.GetPlayer("bob").Score)
	s.Equal(300, lobby.GetPlayer("carol").Score)
}

func (s *RoundControllerTestSuite) TestEndGameEarly() {
	s.seedLobby("den", "alice", "bob")
	s.startPlaying("den", "apple")

	lobby := s.loadLobby("den")
	err := s.controller.EndGame(s.ctx, lobby, "not enough players to continue")
	s.Require().NoError(err)

	s.Equal(model.StatusGameOver, s.loadLobby("den").Status)

	statusChange := s.emitter.LastOfEvent(transport.EventLobbyStatusChange)
	s.Require().NotNil(statusChange)
	payload := statusChange.Payload.(transport.LobbyStatusChange)
	s.Equal(model.StatusGameOver, payload.NewStatus)
	s.Equal("not enough players to continue", payload.Info.Notice)
}

