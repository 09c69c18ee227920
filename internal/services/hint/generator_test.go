package hint

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/drawhive/drawhive/internal/dependencies/mocks"
	"github.com/drawhive/drawhive/internal/model"
)

func TestGenerateTwoDistinctHints(t *testing.T) {
	random := mocks.NewMockRandom()
	random.QueueIntn(1, 2)
	g := New(random)

	hints := g.Generate("apple")

	assert.Equal(t, []model.Hint{
		{Index: 1, Letter: "p"},
		{Index: 3, Letter: "l"},
	}, hints)
}

func TestGenerateNeverRepeatsIndex(t *testing.T) {
	random := mocks.NewMockRandom()
	random.QueueIntn(2, 2)
	g := New(random)

	hints := g.Generate("apple")

	assert.Len(t, hints, 2)
	assert.NotEqual(t, hints[0].Index, hints[1].Index)
}

func TestGenerateSingleLetterWord(t *testing.T) {
	random := mocks.NewMockRandom()
	random.QueueIntn(0)
	g := New(random)

	hints := g.Generate("a")

	assert.Equal(t, []model.Hint{{Index: 0, Letter: "a"}}, hints)
}

func TestGenerateEmptyWord(t *testing.T) {
	g := New(mocks.NewMockRandom())

	assert.Empty(t, g.Generate(""))
}
