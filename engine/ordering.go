package engine

import (
	"github.com/notnil/chess"
	"golang.org/x/exp/slices"

	"github.com/robvecchiola/chess/rules"
)

// Move ordering ranks: promotions, then captures, then quiet moves.
// Promotions and captures swing alpha-beta bounds the most, so searching
// them first maximizes cutoffs. The sort is stable: ties keep the oracle's
// original order, which keeps search results reproducible.
const (
	rankPromotion = 2
	rankCapture   = 1
	rankQuiet     = 0
)

func moveRank(m *chess.Move) int {
	switch {
	case rules.IsPromotion(m):
		return rankPromotion
	case rules.IsCapture(m):
		return rankCapture
	default:
		return rankQuiet
	}
}

// orderMoves returns the moves ranked for search. The input slice is not
// modified.
func orderMoves(moves []*chess.Move) []*chess.Move {
	ordered := make([]*chess.Move, len(moves))
	copy(ordered, moves)
	slices.SortStableFunc(ordered, func(a, b *chess.Move) int {
		return moveRank(b) - moveRank(a)
	})
	return ordered
}

// tacticalMoves filters the legal moves down to captures and checks, the
// moves quiescence search is allowed to explore. Order is preserved.
func tacticalMoves(moves []*chess.Move) []*chess.Move {
	tactical := moves[:0:0]
	for _, m := range moves {
		if rules.IsCapture(m) || rules.GivesCheck(m) {
			tactical = append(tactical, m)
		}
	}
	return tactical
}
