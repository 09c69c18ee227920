package factory

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/drawhive/drawhive/internal/model"
	"github.com/drawhive/drawhive/internal/transport"
)

type IntegrationSuite struct {
	suite.Suite
	app *TestApp
	ctx context.Context
}

func TestIntegrationSuite(t *testing.T) {
	suite.Run(t, new(IntegrationSuite))
}

func (s *IntegrationSuite) SetupTest() {
	s.app = NewTestApp()
	s.ctx = context.Background()
	s.app.LoadTestWords()
}

func (s *IntegrationSuite) join(name model.LobbyName, id model.PlayerID) {
	err := s.app.RosterController.Join(s.ctx, name, id, model.ConnectionID("conn-"+string(id)), "")
	s.Require().NoError(err)
}

func (s *IntegrationSuite) loadLobby(name model.LobbyName) *model.Lobby {
	lobby, err := s.app.Storage.GetLobby(s.ctx, name)
	s.Require().NoError(err)
	return lobby
}

// Test: the factory loads the word list from the configured file
func (s *IntegrationSuite) TestNewLoadsWordList() {
	path := filepath.Join(s.T().TempDir(), "words.txt")
	s.Require().NoError(os.WriteFile(path, []byte("apple\nbanana\ncherry\n"), 0o644))

	app, err := New(Config{WordsPath: path})
	s.Require().NoError(err)
	s.True(app.WordService.IsLoaded())
	s.Equal(3, app.WordService.WordCount())
}

// Test: a missing word list file fails factory construction
func (s *IntegrationSuite) TestNewMissingWordListFails() {
	_, err := New(Config{WordsPath: filepath.Join(s.T().TempDir(), "absent.txt")})
	s.Error(err)
}

// Test: complete game flow from lobby creation to game over
func (s *IntegrationSuite) TestCompleteGameFlow() {
	// Step 1: Create a lobby and seat three players
	_, err := s.app.RosterController.CreateLobby(s.ctx, "den")
	s.Require().NoError(err)
	s.join("den", "alice")
	s.join("den", "bob")
	s.join("den", "carol")

	// Step 2: The owner starts the game; the newest joiner draws first
	err = s.app.RoundController.StartGame(s.ctx, "den", "alice")
	s.Require().NoError(err)
	lobby := s.loadLobby("den")
	s.Equal(model.StatusPickingWord, lobby.Status)
	s.Equal(model.PlayerID("carol"), lobby.GameState.DrawingUser)

	// Step 3: The drawer picks a word and the round opens
	err = s.app.RoundController.WordPick(s.ctx, "den", "carol", "apple")
	s.Require().NoError(err)
	s.Equal(model.StatusPlaying, s.loadLobby("den").Status)

	// Step 4: Canvas traffic flows while players guess
	err = s.app.CanvasService.FullLine(s.ctx, "den", []byte(`{"points":[[0,0],[9,9]]}`))
	s.Require().NoError(err)

	err = s.app.GuessClassifier.HandleMessage(s.ctx, "den", "alice", "pear")
	s.Require().NoError(err)
	err = s.app.GuessClassifier.HandleMessage(s.ctx, "den", "alice", "apple")
	s.Require().NoError(err)

	// Step 5: The last guesser ends the round; scores are applied
	err = s.app.GuessClassifier.HandleMessage(s.ctx, "den", "bob", "apple")
	s.Require().NoError(err)

	lobby = s.loadLobby("den")
	s.Equal(model.StatusRoundOver, lobby.Status)
	s.Equal(500, lobby.GetPlayer("alice").Score)
	s.Equal(450, lobby.GetPlayer("bob").Score)
	s.Equal(300, lobby.GetPlayer("carol").Score)
	s.Empty(lobby.GameState.Canvas)

	// Step 6: The deferred prompt hands the pen to the next drawer
	s.app.MockScheduler.FireAll()
	lobby = s.loadLobby("den")
	s.Equal(model.StatusPickingWord, lobby.Status)
	s.Equal(model.PlayerID("bob"), lobby.GameState.DrawingUser)
}

// Test: drawer disconnect mid-round moves the game along
func (s *IntegrationSuite) TestDrawerDisconnectMidRound() {
	_, err := s.app.RosterController.CreateLobby(s.ctx, "den")
	s.Require().NoError(err)
	s.join("den", "alice")
	s.join("den", "bob")
	s.join("den", "carol")

	s.Require().NoError(s.app.RoundController.StartGame(s.ctx, "den", "alice"))
	s.Require().NoError(s.app.RoundController.WordPick(s.ctx, "den", "carol", "banana"))

	err = s.app.RosterController.Disconnect(s.ctx, "conn-carol")
	s.Require().NoError(err)

	lobby := s.loadLobby("den")
	s.Equal(model.StatusRoundOver, lobby.Status)
	s.Equal(model.PlayerID("bob"), lobby.GameState.DrawingUser)
	s.False(lobby.GetPlayer("carol").Connected)
}

// Test: everyone leaving tears the lobby down
func (s *IntegrationSuite) TestTeardownWhenEmpty() {
	_, err := s.app.RosterController.CreateLobby(s.ctx, "den")
	s.Require().NoError(err)
	s.join("den", "alice")
	s.join("den", "bob")

	s.Require().NoError(s.app.RosterController.Disconnect(s.ctx, "conn-alice"))
	s.Require().NoError(s.app.RosterController.Disconnect(s.ctx, "conn-bob"))

	_, err = s.app.Storage.GetLobby(s.ctx, "den")
	s.ErrorIs(err, model.ErrLobbyNotFound)
}

// Test: reconnecting mid-game restores the seat and replays the canvas
func (s *IntegrationSuite) TestReconnectMidGame() {
	_, err := s.app.RosterController.CreateLobby(s.ctx, "den")
	s.Require().NoError(err)
	s.join("den", "alice")
	s.join("den", "bob")
	s.join("den", "carol")

	s.Require().NoError(s.app.RoundController.StartGame(s.ctx, "den", "alice"))
	s.Require().NoError(s.app.RoundController.WordPick(s.ctx, "den", "carol", "cherry"))
	s.Require().NoError(s.app.CanvasService.FullLine(s.ctx, "den", []byte(`{"points":[[1,1]]}`)))

	s.Require().NoError(s.app.RosterController.Disconnect(s.ctx, "conn-bob"))
	s.app.MockEmitter.Reset()

	err = s.app.RosterController.Join(s.ctx, "den", "bob", "conn-bob2", "conn-bob")
	s.Require().NoError(err)

	lobby := s.loadLobby("den")
	bob := lobby.GetPlayer("bob")
	s.True(bob.Connected)
	s.Equal(model.ConnectionID("conn-bob2"), bob.ConnectionID)

	replay := s.app.MockEmitter.LastOfEvent(transport.EventCanvasState)
	s.Require().NotNil(replay)
	s.Equal(model.ConnectionID("conn-bob2"), replay.Conn)
}

// Test: game over after the configured number of rounds
func (s *IntegrationSuite) TestGameRunsToCompletion() {
	_, err := s.app.RosterController.CreateLobby(s.ctx, "den")
	s.Require().NoError(err)
	s.join("den", "alice")
	s.join("den", "bob")

	s.Require().NoError(s.app.RoundController.StartGame(s.ctx, "den", "alice"))

	words := []string{"apple", "banana", "cherry", "dragon", "eagle", "flower"}
	for i := 0; ; i++ {
		lobby := s.loadLobby("den")
		if lobby.Status == model.StatusGameOver {
			break
		}
		s.Require().Less(i, 10, "game should end within the round budget")

		drawer := lobby.GameState.DrawingUser
		s.Require().NoError(s.app.RoundController.WordPick(s.ctx, "den", drawer, words[i%len(words)]))
		s.Require().NoError(s.app.RoundController.TriggerRoundEnd(s.ctx, "den", drawer))
		s.app.MockScheduler.FireAll()
	}

	lobby := s.loadLobby("den")
	s.Equal(model.StatusGameOver, lobby.Status)
	s.Equal(3, lobby.GameState.RoundNo)
}
