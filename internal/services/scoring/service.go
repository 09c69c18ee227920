package scoring

import (
	"sort"

	"github.com/drawhive/drawhive/internal/model"
	"github.com/drawhive/drawhive/internal/transport"
)

// Point formula constants. Guessers are ranked by guess order; the drawer
// earns a base plus a bonus per correct guess against their drawing.
const (
	guesserBase    = 500
	guesserPenalty = 50 // per rank below first
	drawerBase     = 200
	drawerPerGuess = 50
)

// Service computes round scoreboards and applies them to cumulative scores
type Service struct{}

// New creates a new scoring service
func New() *Service {
	return &Service{}
}

// RoundScore returns the points one guesser earned this round given their
// zero-based rank in the winner list. Large ranks can go negative; the
// value is reported as-is but never applied (Apply skips non-positive).
func (s *Service) RoundScore(rank int) int {
	if rank < 0 {
		return 0
	}
	return guesserBase - rank*guesserPenalty
}

// DrawerScore returns the points the drawer earned this round
func (s *Service) DrawerScore(winnerCount int) int {
	if winnerCount == 0 {
		return 0
	}
	return drawerBase + winnerCount*drawerPerGuess
}

// Scoreboard computes the per-player round scoreboard, sorted by round
// score descending. The sort is stable so ties keep roster order.
func (s *Service) Scoreboard(players []model.Player, winners []model.Winner, drawer model.PlayerID) []transport.RoundScore {
	ranks := make(map[model.PlayerID]int, len(winners))
	for i, w := range winners {
		ranks[w.PlayerID] = i
	}

	scoreboard := make([]transport.RoundScore, 0, len(players))
	for _, p := range players {
		score := 0
		if p.PlayerID == drawer {
			score = s.DrawerScore(len(winners))
		} else if rank, ok := ranks[p.PlayerID]; ok {
			score = s.RoundScore(rank)
		}
		scoreboard = append(scoreboard, transport.RoundScore{
			PlayerID: p.PlayerID,
			Score:    score,
		})
	}

	sort.SliceStable(scoreboard, func(i, j int) bool {
		return scoreboard[i].Score > scoreboard[j].Score
	})

	return scoreboard
}

// Apply adds positive round scores to the players' cumulative totals,
// mutating the roster in place
func (s *Service) Apply(players []model.Player, scoreboard []transport.RoundScore) {
	for _, entry := range scoreboard {
		if entry.Score <= 0 {
			continue
		}
		for i := range players {
			if players[i].PlayerID == entry.PlayerID {
				players[i].Score += entry.Score
				break
			}
		}
	}
}

// Interface for dependency injection
type ServiceInterface interface {
	RoundScore(rank int) int
	DrawerScore(winnerCount int) int
	Scoreboard(players []model.Player, winners []model.Winner, drawer model.PlayerID) []transport.RoundScore
	Apply(players []model.Player, scoreboard []transport.RoundScore)
}

var _ ServiceInterface = (*Service)(nil)
