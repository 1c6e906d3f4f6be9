package rules

import (
	"testing"

	"github.com/notnil/chess"
)

func mustFromFEN(t *testing.T, fen string) *Position {
	t.Helper()
	pos, err := FromFEN(fen)
	if err != nil {
		t.Fatalf("FromFEN(%q): %v", fen, err)
	}
	return pos
}

func TestFromFENRoundTrip(t *testing.T) {
	fens := []string{
		StartFEN,
		"r1bqkbnr/pppp1ppp/2n5/4p3/2B1P3/5N2/PPPP1PPP/RNBQK2R b KQkq - 3 3",
		"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
	}
	for _, fen := range fens {
		pos := mustFromFEN(t, fen)
		if got := pos.FEN(); got != fen {
			t.Fatalf("round trip: got %s, want %s", got, fen)
		}
	}
}

func TestFromFENRejectsGarbage(t *testing.T) {
	for _, fen := range []string{"", "not a fen", "8/8/8/8/8/8/8 w - - 0 1"} {
		if _, err := FromFEN(fen); err == nil {
			t.Fatalf("FromFEN(%q) accepted invalid input", fen)
		}
	}
}

func TestPushPopSymmetry(t *testing.T) {
	pos := NewPosition()
	before := pos.FEN()

	moves := pos.LegalMoves()
	if len(moves) != 20 {
		t.Fatalf("starting position has %d legal moves, want 20", len(moves))
	}

	for _, m := range moves[:5] {
		pos.Push(m)
		if pos.Depth() != 1 {
			t.Fatalf("depth %d after push, want 1", pos.Depth())
		}
		pos.Pop()
		if pos.Depth() != 0 {
			t.Fatalf("depth %d after pop, want 0", pos.Depth())
		}
		if got := pos.FEN(); got != before {
			t.Fatalf("position changed by push/pop: %s", got)
		}
	}

	// Nested pushes unwind in order.
	pos.Push(moves[0])
	mid := pos.FEN()
	replies := pos.LegalMoves()
	pos.Push(replies[0])
	pos.Pop()
	if got := pos.FEN(); got != mid {
		t.Fatalf("inner pop restored %s, want %s", got, mid)
	}
	pos.Pop()
	if got := pos.FEN(); got != before {
		t.Fatalf("outer pop restored %s, want %s", got, before)
	}
}

func TestPopOnRootPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("Pop on the root position did not panic")
		}
	}()
	NewPosition().Pop()
}

func TestCloneIsIndependent(t *testing.T) {
	pos := NewPosition()
	clone := pos.Clone()
	clone.Push(clone.LegalMoves()[0])
	if pos.Depth() != 0 {
		t.Fatalf("pushing on the clone changed the original, depth %d", pos.Depth())
	}
	if pos.FEN() != StartFEN {
		t.Fatalf("original position changed: %s", pos.FEN())
	}
}

func TestFullMoves(t *testing.T) {
	cases := []struct {
		fen  string
		want int
	}{
		{StartFEN, 1},
		{"r1bqkbnr/pppp1ppp/2n5/4p3/2B1P3/5N2/PPPP1PPP/RNBQK2R b KQkq - 3 3", 3},
		{"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 12", 12},
	}
	for _, tc := range cases {
		if got := mustFromFEN(t, tc.fen).FullMoves(); got != tc.want {
			t.Fatalf("fen %s: FullMoves = %d, want %d", tc.fen, got, tc.want)
		}
	}
}

func TestTerminalPredicates(t *testing.T) {
	cases := []struct {
		name      string
		fen       string
		checkmate bool
		stalemate bool
	}{
		{"fools mate", "rnb1kbnr/pppp1ppp/8/4p3/6Pq/5P2/PPPPP2P/RNBQKBNR w KQkq - 1 3", true, false},
		{"stalemate", "7k/5Q2/6K1/8/8/8/8/8 b - - 0 1", false, true},
		{"ongoing", StartFEN, false, false},
	}
	for _, tc := range cases {
		pos := mustFromFEN(t, tc.fen)
		if got := pos.IsCheckmate(); got != tc.checkmate {
			t.Fatalf("%s: IsCheckmate = %v, want %v", tc.name, got, tc.checkmate)
		}
		if got := pos.IsStalemate(); got != tc.stalemate {
			t.Fatalf("%s: IsStalemate = %v, want %v", tc.name, got, tc.stalemate)
		}
	}
}

func TestInsufficientMaterial(t *testing.T) {
	cases := []struct {
		name string
		fen  string
		want bool
	}{
		{"king vs king", "8/8/8/8/8/4k3/8/4K3 w - - 0 1", true},
		{"bishop vs king", "8/8/8/8/8/4kb2/8/4K3 w - - 0 1", true},
		{"knight vs king", "8/8/8/8/8/4kn2/8/4K3 w - - 0 1", true},
		{"same shade bishops", "8/8/8/8/8/3bk3/4B3/4K3 w - - 0 1", true},
		{"opposite shade bishops", "8/8/8/8/8/2b1k3/4B3/4K3 w - - 0 1", false},
		{"pawn remains", "8/8/8/8/8/4k3/4P3/4K3 w - - 0 1", false},
		{"rook remains", "8/8/8/8/8/4k3/8/R3K3 w - - 0 1", false},
	}
	for _, tc := range cases {
		if got := mustFromFEN(t, tc.fen).InsufficientMaterial(); got != tc.want {
			t.Fatalf("%s: InsufficientMaterial = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestMovePredicates(t *testing.T) {
	// After 1.e4 d5 the capture exd5 is available, and the g8 knight has a
	// quiet developing move.
	pos := mustFromFEN(t, "rnbqkbnr/ppp1pppp/8/3p4/4P3/8/PPPP1PPP/RNBQKBNR w KQkq d6 0 2")
	var capture, quiet *chess.Move
	for _, m := range pos.LegalMoves() {
		switch pos.UCI(m) {
		case "e4d5":
			capture = m
		case "g1f3":
			quiet = m
		}
	}
	if capture == nil || quiet == nil {
		t.Fatal("expected moves e4d5 and g1f3 not found")
	}
	if !IsCapture(capture) {
		t.Fatal("exd5 not reported as a capture")
	}
	if IsCapture(quiet) || IsPromotion(quiet) || IsCastle(quiet) {
		t.Fatal("Nf3 misclassified")
	}
	if got := CapturedSquare(pos, capture); got != chess.D5 {
		t.Fatalf("CapturedSquare = %s, want d5", got)
	}
}

func TestEnPassantCapturedSquare(t *testing.T) {
	// White pawn on e5, black just played d7d5; exd6 removes the pawn on
	// d5, not the destination square.
	pos := mustFromFEN(t, "rnbqkbnr/ppp1pppp/8/3pP3/8/8/PPPP1PPP/RNBQKBNR w KQkq d6 0 3")
	var ep *chess.Move
	for _, m := range pos.LegalMoves() {
		if pos.UCI(m) == "e5d6" {
			ep = m
			break
		}
	}
	if ep == nil {
		t.Fatal("en passant capture e5d6 not found")
	}
	if !IsEnPassant(ep) || !IsCapture(ep) {
		t.Fatal("e5d6 not reported as an en passant capture")
	}
	if got := CapturedSquare(pos, ep); got != chess.D5 {
		t.Fatalf("CapturedSquare = %s, want d5", got)
	}
}

func TestSANAndUCINotation(t *testing.T) {
	pos := NewPosition()
	var knight *chess.Move
	for _, m := range pos.LegalMoves() {
		if pos.UCI(m) == "g1f3" {
			knight = m
			break
		}
	}
	if knight == nil {
		t.Fatal("move g1f3 not found")
	}
	if got := pos.SAN(knight); got != "Nf3" {
		t.Fatalf("SAN = %q, want Nf3", got)
	}
	parsed, err := pos.ParseUCI("g1f3")
	if err != nil {
		t.Fatalf("ParseUCI: %v", err)
	}
	if parsed.S1() != chess.G1 || parsed.S2() != chess.F3 {
		t.Fatalf("ParseUCI returned %s%s", parsed.S1(), parsed.S2())
	}
}
