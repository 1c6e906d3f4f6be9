package rules

import (
	"testing"

	"github.com/notnil/chess"
)

func TestInCheck(t *testing.T) {
	cases := []struct {
		name string
		fen  string
		want bool
	}{
		{"startpos", StartFEN, false},
		{"queen contact check", "4k3/8/8/8/8/8/4q3/4K3 w - - 0 1", true},
		{"knight check", "4k3/8/8/8/8/5n2/8/4K3 w - - 0 1", true},
		{"pawn check", "4k3/8/8/8/8/8/3p4/4K3 w - - 0 1", true},
		{"rook check blocked", "4k3/8/8/8/8/8/8/r1B1K3 w - - 0 1", false},
		{"rook check open", "4k3/8/8/8/8/8/8/r3K3 w - - 0 1", true},
		{"black to move in check", "4k3/4R3/8/8/8/8/8/4K3 b - - 0 1", true},
	}
	for _, tc := range cases {
		pos := mustFromFEN(t, tc.fen)
		if got := pos.InCheck(); got != tc.want {
			t.Fatalf("%s: InCheck = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestSquareAttacked(t *testing.T) {
	// Lone white rook on d4 with a black pawn blocking at d6.
	pos := mustFromFEN(t, "4k3/8/3p4/8/3R4/8/8/4K3 w - - 0 1")
	cases := []struct {
		sq   chess.Square
		by   chess.Color
		want bool
	}{
		{chess.D5, chess.White, true},
		{chess.D6, chess.White, true},  // the blocker itself is attacked
		{chess.D7, chess.White, false}, // behind the blocker
		{chess.H4, chess.White, true},
		{chess.E5, chess.White, false},
		{chess.C5, chess.Black, true}, // pawn capture square
		{chess.D5, chess.Black, false},
	}
	for _, tc := range cases {
		if got := pos.SquareAttacked(tc.sq, tc.by); got != tc.want {
			t.Fatalf("SquareAttacked(%s, %v) = %v, want %v", tc.sq, tc.by, got, tc.want)
		}
	}
}
