package engine

import "github.com/robvecchiola/chess/rules"

// quiescence resolves tactical sequences past the nominal search depth so
// leaf evaluations are not taken in the middle of a capture exchange (the
// horizon effect). Only captures and checks are searched. Bounds are
// fail-soft throughout: a cutoff returns the best score found, not the bound.
//
// The ply cap is mandatory and independent of how long the tactical sequence
// actually is; without it an oscillating recapture chain could recurse
// forever.
func quiescence(pos *rules.Position, alpha, beta, plies int, maximizing bool) int {
	// Stand pat: the side to move may always decline further captures, so
	// the static score is a floor (or ceiling) on the node's value.
	standPat := Evaluate(pos)

	if maximizing {
		if standPat >= beta {
			return standPat
		}
		if standPat > alpha {
			alpha = standPat
		}
	} else {
		if standPat <= alpha {
			return standPat
		}
		if standPat < beta {
			beta = standPat
		}
	}

	if plies <= 0 {
		return standPat
	}

	tactical := tacticalMoves(pos.LegalMoves())
	if len(tactical) == 0 {
		return standPat
	}

	best := standPat
	for _, m := range orderMoves(tactical) {
		pos.Push(m)
		score := quiescence(pos, alpha, beta, plies-1, !maximizing)
		pos.Pop()

		if maximizing {
			if score > best {
				best = score
			}
			if score > alpha {
				alpha = score
			}
		} else {
			if score < best {
				best = score
			}
			if score < beta {
				beta = score
			}
		}
		if alpha >= beta {
			break
		}
	}
	return best
}
