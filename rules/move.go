package rules

import "github.com/notnil/chess"

// IsCapture reports whether the move takes a piece, including en passant.
func IsCapture(m *chess.Move) bool {
	return m.HasTag(chess.Capture) || m.HasTag(chess.EnPassant)
}

// GivesCheck reports whether the move checks the opposing king.
func GivesCheck(m *chess.Move) bool {
	return m.HasTag(chess.Check)
}

// IsPromotion reports whether the move promotes a pawn.
func IsPromotion(m *chess.Move) bool {
	return m.Promo() != chess.NoPieceType
}

// IsCastle reports whether the move castles on either side.
func IsCastle(m *chess.Move) bool {
	return m.HasTag(chess.KingSideCastle) || m.HasTag(chess.QueenSideCastle)
}

// IsEnPassant reports whether the move is an en passant capture.
func IsEnPassant(m *chess.Move) bool {
	return m.HasTag(chess.EnPassant)
}

// CapturedSquare returns the square the captured piece stands on, which for
// en passant is not the move's destination.
func CapturedSquare(p *Position, m *chess.Move) chess.Square {
	if !IsEnPassant(m) {
		return m.S2()
	}
	if p.Turn() == chess.White {
		return m.S2() - 8
	}
	return m.S2() + 8
}
