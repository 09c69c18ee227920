package factory

import (
	"time"

	"github.com/drawhive/drawhive/internal/dependencies/mocks"
	"github.com/drawhive/drawhive/internal/services/round"
	"github.com/drawhive/drawhive/internal/storage/memory"
)

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock     *mocks.MockClock
	MockRandom    *mocks.MockRandom
	MockScheduler *mocks.MockScheduler
	MockEmitter   *mocks.MockEmitter
	MockRooms     *mocks.MockRooms
}

// NewTestApp creates an App configured for testing with mocked dependencies
func NewTestApp() *TestApp {
	store := memory.New()
	mockClock := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	mockRandom := mocks.NewMockRandom()
	mockScheduler := mocks.NewMockScheduler()
	mockEmitter := mocks.NewMockEmitter()
	mockRooms := mocks.NewMockRooms()

	app := newWithDependencies(store, mockClock, mockRandom, mockScheduler, mockEmitter, mockRooms, round.DefaultConfig(), nil, nil)

	return &TestApp{
		App:           app,
		MockClock:     mockClock,
		MockRandom:    mockRandom,
		MockScheduler: mockScheduler,
		MockEmitter:   mockEmitter,
		MockRooms:     mockRooms,
	}
}

// LoadTestWords loads a small word list for testing
func (t *TestApp) LoadTestWords() {
	t.WordService.LoadWords([]string{
		"apple", "banana", "cherry", "dragon", "eagle", "flower",
		"guitar", "house", "island", "jungle", "kitten", "ladder",
		"monkey", "needle", "orange", "pirate", "queen", "rocket",
		"sunset", "tiger", "umbrella", "violin", "window", "zebra",
	})
}
