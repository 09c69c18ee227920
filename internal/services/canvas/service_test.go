package canvas_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/drawhive/drawhive/internal/dependencies/mocks"
	"github.com/drawhive/drawhive/internal/lock"
	"github.com/drawhive/drawhive/internal/model"
	"github.com/drawhive/drawhive/internal/services/canvas"
	"github.com/drawhive/drawhive/internal/storage/memory"
	"github.com/drawhive/drawhive/internal/testutil"
	"github.com/drawhive/drawhive/internal/transport"
)

type CanvasServiceTestSuite struct {
	suite.Suite
	ctx     context.Context
	storage *memory.Storage
	emitter *mocks.MockEmitter
	service *canvas.Service
}

func TestCanvasServiceTestSuite(t *testing.T) {
	suite.Run(t, new(CanvasServiceTestSuite))
}

func (s *CanvasServiceTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.storage = memory.New()
	s.emitter = mocks.NewMockEmitter()
	s.service = canvas.New(s.storage, lock.New(), s.emitter, testutil.NopLogger())

	lobby := &model.Lobby{
		Name:   "den",
		Status: model.StatusPlaying,
		Players: []model.Player{
			{PlayerID: "alice", ConnectionID: "conn-alice", Connected: true, IsOwner: true},
			{PlayerID: "bob", ConnectionID: "conn-bob", Connected: true},
		},
		GameState: &model.GameState{
			TotalRounds: model.DefaultTotalRounds,
			RoundNo:     1,
			DrawingUser: "bob",
			WordToGuess: "apple",
			Canvas:      []model.CanvasEntry{},
			Generation:  1,
		},
	}
	s.Require().NoError(s.storage.SaveLobby(s.ctx, lobby))
}

func (s *CanvasServiceTestSuite) loadCanvas() []model.CanvasEntry {
	lobby, err := s.storage.GetLobby(s.ctx, "den")
	s.Require().NoError(err)
	return lobby.GameState.Canvas
}

func (s *CanvasServiceTestSuite) TestDrawRelaysWithoutPersisting() {
	segment := json.RawMessage(`{"x":1,"y":2}`)

	s.Require().NoError(s.service.Draw(s.ctx, "den", "conn-bob", segment))

	relay := s.emitter.LastOfEvent(transport.EventNewLine)
	s.Require().NotNil(relay)
	s.True(relay.Except)
	s.Equal(model.ConnectionID("conn-bob"), relay.Conn)
	s.JSONEq(`{"x":1,"y":2}`, string(relay.Payload.(transport.NewLine).NewLine))

	s.Empty(s.loadCanvas())
}

func (s *CanvasServiceTestSuite) TestFillRelaysAndPersists() {
	fill := json.RawMessage(`{"color":"#ff0000"}`)

	s.Require().NoError(s.service.Fill(s.ctx, "den", "conn-bob", fill))

	relay := s.emitter.LastOfEvent(transport.EventFill)
	s.Require().NotNil(relay)
	s.True(relay.Except)

	entries := s.loadCanvas()
	s.Require().Len(entries, 1)
	s.Equal(model.CanvasEntryFill, entries[0].Type)
	s.JSONEq(`{"color":"#ff0000"}`, string(entries[0].Content))
}

func (s *CanvasServiceTestSuite) TestFullLinePersistsSilently() {
	stroke := json.RawMessage(`{"points":[[0,0],[5,5]]}`)

	s.Require().NoError(s.service.FullLine(s.ctx, "den", stroke))

	entries := s.loadCanvas()
	s.Require().Len(entries, 1)
	s.Equal(model.CanvasEntryLine, entries[0].Type)
	s.Empty(s.emitter.Emissions)
}

func (s *CanvasServiceTestSuite) TestUndoRemovesNewestEntry() {
	s.Require().NoError(s.service.FullLine(s.ctx, "den", json.RawMessage(`{"stroke":1}`)))
	s.Require().NoError(s.service.Fill(s.ctx, "den", "conn-bob", json.RawMessage(`{"fill":2}`)))
	s.emitter.Reset()

	s.Require().NoError(s.service.Undo(s.ctx, "den"))

	entries := s.loadCanvas()
	s.Require().Len(entries, 1)
	s.Equal(model.CanvasEntryLine, entries[0].Type)

	after := s.emitter.LastOfEvent(transport.EventCanvasAfterUndo)
	s.Require().NotNil(after)
	payload := after.Payload.(transport.CanvasAfterUndo)
	s.Len(payload.NewCanvas, 1)
	s.False(payload.IsCanvasEmpty)
}

func (s *CanvasServiceTestSuite) TestUndoOnEmptyCanvas() {
	s.Require().NoError(s.service.Undo(s.ctx, "den"))

	after := s.emitter.LastOfEvent(transport.EventCanvasAfterUndo)
	s.Require().NotNil(after)
	s.True(after.Payload.(transport.CanvasAfterUndo).IsCanvasEmpty)
}

func (s *CanvasServiceTestSuite) TestReplaySendsStoredCanvas() {
	s.Require().NoError(s.service.FullLine(s.ctx, "den", json.RawMessage(`{"stroke":1}`)))

	lobby, err := s.storage.GetLobby(s.ctx, "den")
	s.Require().NoError(err)
	s.service.Replay(lobby, "conn-alice")

	state := s.emitter.LastOfEvent(transport.EventCanvasState)
	s.Require().NotNil(state)
	s.Equal(model.ConnectionID("conn-alice"), state.Conn)
	s.Len(state.Payload.(transport.CanvasState).Canvas, 1)
}

func (s *CanvasServiceTestSuite) TestReplaySkipsEmptyCanvas() {
	lobby, err := s.storage.GetLobby(s.ctx, "den")
	s.Require().NoError(err)
	s.service.Replay(lobby, "conn-alice")

	s.Empty(s.emitter.Emissions)
}

func (s *CanvasServiceTestSuite) TestNoGameInProgress() {
	lobby, err := s.storage.GetLobby(s.ctx, "den")
	s.Require().NoError(err)
	lobby.GameState = nil
	lobby.Status = model.StatusOpen
	s.Require().NoError(s.storage.SaveLobby(s.ctx, lobby))

	err = s.service.FullLine(s.ctx, "den", json.RawMessage(`{}`))
	s.Require().ErrorIs(err, model.ErrNoGameInProgress)

	err = s.service.Undo(s.ctx, "den")
	s.Require().ErrorIs(err, model.ErrNoGameInProgress)
}
