package rules

import "github.com/notnil/chess"

var (
	rookDirs   = [4][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}
	bishopDirs = [4][2]int{{1, 1}, {1, -1}, {-1, 1}, {-1, -1}}
	knightHops = [8][2]int{{1, 2}, {2, 1}, {2, -1}, {1, -2}, {-1, -2}, {-2, -1}, {-2, 1}, {-1, 2}}
)

func squareAt(file, rank int) (chess.Square, bool) {
	if file < 0 || file > 7 || rank < 0 || rank > 7 {
		return 0, false
	}
	return chess.Square(rank*8 + file), true
}

// SquareAttacked reports whether the given square is attacked by any piece of
// the given color. Occupancy blocks sliding attacks as usual.
func (p *Position) SquareAttacked(sq chess.Square, by chess.Color) bool {
	file, rank := int(sq.File()), int(sq.Rank())

	pawnRank := rank - 1
	if by == chess.Black {
		pawnRank = rank + 1
	}
	for _, df := range []int{-1, 1} {
		if from, ok := squareAt(file+df, pawnRank); ok {
			if piece := p.PieceAt(from); piece.Color() == by && piece.Type() == chess.Pawn {
				return true
			}
		}
	}

	for _, hop := range knightHops {
		if from, ok := squareAt(file+hop[0], rank+hop[1]); ok {
			if piece := p.PieceAt(from); piece.Color() == by && piece.Type() == chess.Knight {
				return true
			}
		}
	}

	for df := -1; df <= 1; df++ {
		for dr := -1; dr <= 1; dr++ {
			if df == 0 && dr == 0 {
				continue
			}
			if from, ok := squareAt(file+df, rank+dr); ok {
				if piece := p.PieceAt(from); piece.Color() == by && piece.Type() == chess.King {
					return true
				}
			}
		}
	}

	slides := func(dirs [4][2]int, slider chess.PieceType) bool {
		for _, d := range dirs {
			for step := 1; ; step++ {
				from, ok := squareAt(file+d[0]*step, rank+d[1]*step)
				if !ok {
					break
				}
				piece := p.PieceAt(from)
				if piece == chess.NoPiece {
					continue
				}
				if piece.Color() == by && (piece.Type() == slider || piece.Type() == chess.Queen) {
					return true
				}
				break
			}
		}
		return false
	}
	return slides(rookDirs, chess.Rook) || slides(bishopDirs, chess.Bishop)
}

// InCheck reports whether the side to move is in check.
func (p *Position) InCheck() bool {
	side := p.Turn()
	for sq := chess.A1; sq <= chess.H8; sq++ {
		piece := p.PieceAt(sq)
		if piece.Type() == chess.King && piece.Color() == side {
			return p.SquareAttacked(sq, side.Other())
		}
	}
	return false
}
