package game

import (
	"fmt"
	"strings"

	"github.com/notnil/chess"

	"github.com/robvecchiola/chess/rules"
)

// ExplainIllegalMove turns a rejected move into a reason a player can act
// on. It never changes the position.
func ExplainIllegalMove(pos *rules.Position, from, to chess.Square) string {
	piece := pos.PieceAt(from)
	if piece == chess.NoPiece {
		return fmt.Sprintf("there is no piece on %s", from)
	}
	if piece.Color() != pos.Turn() {
		return fmt.Sprintf("the %s on %s belongs to your opponent", strings.ToLower(pieceName(piece.Type())), from)
	}
	if target := pos.PieceAt(to); target != chess.NoPiece && target.Color() == piece.Color() {
		return fmt.Sprintf("%s is occupied by your own %s", to, strings.ToLower(pieceName(target.Type())))
	}

	canMove := false
	for _, m := range pos.LegalMoves() {
		if m.S1() == from {
			canMove = true
			if m.S2() == to {
				return "the move is legal"
			}
		}
	}
	name := strings.ToLower(pieceName(piece.Type()))
	if !canMove && pos.InCheck() {
		return fmt.Sprintf("your king is in check and moving the %s on %s does not address it", name, from)
	}
	if !canMove {
		return fmt.Sprintf("the %s on %s has no legal moves", name, from)
	}
	return fmt.Sprintf("the %s on %s cannot move to %s", name, from, to)
}
