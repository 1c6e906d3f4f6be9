package engine

import (
	"fmt"

	"github.com/robvecchiola/chess/rules"
)

// search is the bounded alpha-beta minimax. White maximizes, Black
// minimizes, matching the White-positive score convention of Evaluate and
// quiescence. At depth zero the node is handed to quiescence search; "out of
// depth" alone is not a trustworthy place to take a static evaluation.
//
// Fail-soft: the returned score may lie outside [alpha, beta].
func search(pos *rules.Position, depth, alpha, beta, qplies int, maximizing bool) int {
	if depth <= 0 {
		return quiescence(pos, alpha, beta, qplies, maximizing)
	}

	moves := pos.LegalMoves()
	if len(moves) == 0 {
		// Checkmate or stalemate; Evaluate's terminal handling scores it.
		if !pos.IsCheckmate() && !pos.IsStalemate() {
			// No legal moves outside a terminal state cannot happen with a
			// correct oracle. Returning a score here would silently poison
			// the search, so fail hard instead.
			panic(fmt.Sprintf("engine: no legal moves in non-terminal position %s", pos.FEN()))
		}
		return Evaluate(pos)
	}

	if maximizing {
		best := -MateScore - 1
		for _, m := range orderMoves(moves) {
			pos.Push(m)
			score := search(pos, depth-1, alpha, beta, qplies, false)
			pos.Pop()
			if score > best {
				best = score
			}
			if score > alpha {
				alpha = score
			}
			if alpha >= beta {
				break
			}
		}
		return best
	}

	best := MateScore + 1
	for _, m := range orderMoves(moves) {
		pos.Push(m)
		score := search(pos, depth-1, alpha, beta, qplies, true)
		pos.Pop()
		if score < best {
			best = score
		}
		if score < beta {
			beta = score
		}
		if alpha >= beta {
			break
		}
	}
	return best
}
