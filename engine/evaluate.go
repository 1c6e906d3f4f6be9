// Package engine implements the adversarial move search: static evaluation,
// heuristic move ordering, quiescence search, alpha-beta minimax, and the
// top-level move selector. Scores are centipawns from White's point of view;
// positive favors White. The engine never mutates a caller's position: every
// Push performed during a search is matched by a Pop before returning.
package engine

import (
	"github.com/notnil/chess"

	"github.com/robvecchiola/chess/rules"
)

// MateScore is the sentinel for a decided position, far outside any
// reachable material evaluation. Mate scores are not distance-adjusted; a
// forced mate evaluates to the same sentinel at every depth.
const MateScore = 99999

// Material values in centipawns.
var pieceValue = map[chess.PieceType]int{
	chess.Pawn:   100,
	chess.Knight: 320,
	chess.Bishop: 330,
	chess.Rook:   500,
	chess.Queen:  900,
	chess.King:   20000,
}

// Piece-square tables, indexed from White's perspective with a1 = 0.
// Black uses the vertically mirrored square (sq ^ 56) so both sides share
// symmetric tables.

var pawnPST = [64]int{
	0, 0, 0, 0, 0, 0, 0, 0,
	5, 10, 10, -20, -20, 10, 10, 5,
	5, -5, -10, 0, 0, -10, -5, 5,
	0, 0, 0, 20, 20, 0, 0, 0,
	5, 5, 10, 25, 25, 10, 5, 5,
	10, 10, 20, 30, 30, 20, 10, 10,
	50, 50, 50, 50, 50, 50, 50, 50,
	0, 0, 0, 0, 0, 0, 0, 0,
}

var knightPST = [64]int{
	-50, -40, -30, -30, -30, -30, -40, -50,
	-40, -20, 0, 5, 5, 0, -20, -40,
	-30, 5, 10, 15, 15, 10, 5, -30,
	-30, 0, 15, 20, 20, 15, 0, -30,
	-30, 5, 15, 20, 20, 15, 5, -30,
	-30, 0, 10, 15, 15, 10, 0, -30,
	-40, -20, 0, 0, 0, 0, -20, -40,
	-50, -40, -30, -30, -30, -30, -40, -50,
}

var bishopPST = [64]int{
	-20, -10, -10, -10, -10, -10, -10, -20,
	-10, 5, 0, 0, 0, 0, 5, -10,
	-10, 10, 10, 10, 10, 10, 10, -10,
	-10, 0, 10, 10, 10, 10, 0, -10,
	-10, 5, 5, 10, 10, 5, 5, -10,
	-10, 0, 5, 10, 10, 5, 0, -10,
	-10, 0, 0, 0, 0, 0, 0, -10,
	-20, -10, -10, -10, -10, -10, -10, -20,
}

var rookPST = [64]int{
	0, 0, 0, 5, 5, 0, 0, 0,
	-5, 0, 0, 0, 0, 0, 0, -5,
	-5, 0, 0, 0, 0, 0, 0, -5,
	-5, 0, 0, 0, 0, 0, 0, -5,
	-5, 0, 0, 0, 0, 0, 0, -5,
	-5, 0, 0, 0, 0, 0, 0, -5,
	5, 10, 10, 10, 10, 10, 10, 5,
	0, 0, 0, 0, 0, 0, 0, 0,
}

var queenPST = [64]int{
	-20, -10, -10, -5, -5, -10, -10, -20,
	-10, 0, 0, 0, 0, 0, 0, -10,
	-10, 5, 5, 5, 5, 5, 0, -10,
	0, 0, 5, 5, 5, 5, 0, -5,
	-5, 0, 5, 5, 5, 5, 0, -5,
	-10, 0, 5, 5, 5, 5, 0, -10,
	-10, 0, 0, 0, 0, 0, 0, -10,
	-20, -10, -10, -5, -5, -10, -10, -20,
}

var kingPST = [64]int{
	20, 30, 10, 0, 0, 10, 30, 20,
	20, 20, 0, 0, 0, 0, 20, 20,
	-10, -20, -20, -20, -20, -20, -20, -10,
	-20, -30, -30, -40, -40, -30, -30, -20,
	-30, -40, -40, -50, -50, -40, -40, -30,
	-30, -40, -40, -50, -50, -40, -40, -30,
	-30, -40, -40, -50, -50, -40, -40, -30,
	-30, -40, -40, -50, -50, -40, -40, -30,
}

var pieceSquareTables = map[chess.PieceType]*[64]int{
	chess.Pawn:   &pawnPST,
	chess.Knight: &knightPST,
	chess.Bishop: &bishopPST,
	chess.Rook:   &rookPST,
	chess.Queen:  &queenPST,
	chess.King:   &kingPST,
}

// Evaluate scores a position in centipawns from White's point of view.
// Terminal states come first: checkmate is the mate sentinel signed against
// the side to move, stalemate and insufficient material are exactly 0.
// Pure and deterministic; repeated calls on the same position agree.
func Evaluate(pos *rules.Position) int {
	if pos.IsCheckmate() {
		if pos.Turn() == chess.White {
			return -MateScore
		}
		return MateScore
	}
	if pos.IsStalemate() || pos.InsufficientMaterial() {
		return 0
	}

	score := 0
	for sq := chess.A1; sq <= chess.H8; sq++ {
		piece := pos.PieceAt(sq)
		if piece == chess.NoPiece {
			continue
		}
		value := pieceValue[piece.Type()]
		table := pieceSquareTables[piece.Type()]
		if piece.Color() == chess.White {
			score += value + table[sq]
		} else {
			score -= value + table[sq^56]
		}
	}
	return score
}

// MaterialScore returns the raw material balance in centipawns, positive
// when White is ahead. No positional terms; used for the display indicator.
func MaterialScore(pos *rules.Position) int {
	score := 0
	for sq := chess.A1; sq <= chess.H8; sq++ {
		piece := pos.PieceAt(sq)
		if piece == chess.NoPiece || piece.Type() == chess.King {
			continue
		}
		if piece.Color() == chess.White {
			score += pieceValue[piece.Type()]
		} else {
			score -= pieceValue[piece.Type()]
		}
	}
	return score
}
