package hint

import (
	"github.com/drawhive/drawhive/internal/dependencies/random"
	"github.com/drawhive/drawhive/internal/model"
)

// HintsPerWord is how many letter/position pairs are prepared at word pick
const HintsPerWord = 2

// Generator prepares the hints for a round at word-pick time. Hints are
// revealed later only on the drawer's request; there is no scheduling here.
type Generator struct {
	random random.Random
}

// New creates a new hint generator
func New(random random.Random) *Generator {
	return &Generator{random: random}
}

// Generate chooses distinct random character indices of the secret word and
// records the letter at each. Words shorter than HintsPerWord yield fewer
// hints rather than duplicates.
func (g *Generator) Generate(word string) []model.Hint {
	runes := []rune(word)

	count := HintsPerWord
	if len(runes) < count {
		count = len(runes)
	}

	pool := make([]int, len(runes))
	for i := range pool {
		pool[i] = i
	}

	hints := make([]model.Hint, 0, count)
	for i := 0; i < count; i++ {
		j := g.random.Intn(len(pool))
		idx := pool[j]
		pool = append(pool[:j], pool[j+1:]...)
		hints = append(hints, model.Hint{
			Index:  idx,
			Letter: string(runes[idx]),
		})
	}
	return hints
}
