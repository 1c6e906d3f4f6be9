package rules

import (
	"testing"

	"github.com/dylhunn/dragontoothmg"
)

// Kiwipete, the standard perft stress position.
const kiwipeteFEN = "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1"

func TestPerftKnownCounts(t *testing.T) {
	cases := []struct {
		fen   string
		depth int
		want  uint64
	}{
		{StartFEN, 1, 20},
		{StartFEN, 2, 400},
		{StartFEN, 3, 8902},
		{kiwipeteFEN, 1, 48},
		{kiwipeteFEN, 2, 2039},
	}
	for _, tc := range cases {
		pos := mustFromFEN(t, tc.fen)
		if got := Perft(pos, tc.depth); got != tc.want {
			t.Fatalf("perft(%s, %d) = %d, want %d", tc.fen, tc.depth, got, tc.want)
		}
		if pos.Depth() != 0 {
			t.Fatalf("perft left %d moves pushed", pos.Depth())
		}
	}
}

// Cross-check the oracle's move generation against an independent bitboard
// generator on the same positions.
func TestPerftAgainstDragontooth(t *testing.T) {
	cases := []struct {
		fen   string
		depth int
	}{
		{StartFEN, 3},
		{kiwipeteFEN, 2},
		{"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1", 3},
	}
	for _, tc := range cases {
		pos := mustFromFEN(t, tc.fen)
		board := dragontoothmg.ParseFen(tc.fen)
		want := uint64(dragontoothmg.Perft(&board, tc.depth))
		if got := Perft(pos, tc.depth); got != want {
			t.Fatalf("perft(%s, %d) = %d, independent generator says %d", tc.fen, tc.depth, got, want)
		}
	}
}

func TestPerftDivideSumsToPerft(t *testing.T) {
	pos := mustFromFEN(t, StartFEN)
	div := PerftDivide(pos, 2)
	if len(div) != 20 {
		t.Fatalf("divide has %d root moves, want 20", len(div))
	}
	var sum uint64
	for _, n := range div {
		sum += n
	}
	if want := Perft(pos, 2); sum != want {
		t.Fatalf("divide sums to %d, perft is %d", sum, want)
	}
}
