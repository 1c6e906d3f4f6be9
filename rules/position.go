// Package rules wraps the notnil/chess library into the narrow oracle surface
// the engine depends on: legal move enumeration, symmetric push/pop of moves,
// and the terminal predicates. Move legality itself is never reimplemented
// here; notnil/chess owns it.
package rules

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/notnil/chess"
)

// StartFEN is the standard starting position.
const StartFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// Position is a board snapshot with push/pop move semantics. notnil/chess
// positions are immutable, so Push keeps the successor on an internal stack
// and Pop discards it. Every Push performed during a search must be matched
// by a Pop before returning; Pop on the root is a programming error and
// panics rather than returning a plausible state.
type Position struct {
	stack []*chess.Position
}

// NewPosition returns the standard starting position.
func NewPosition() *Position {
	return &Position{stack: []*chess.Position{chess.NewGame().Position()}}
}

// FromFEN builds a position from a FEN string.
func FromFEN(fen string) (*Position, error) {
	opt, err := chess.FEN(fen)
	if err != nil {
		return nil, fmt.Errorf("rules: parse fen %q: %w", fen, err)
	}
	return &Position{stack: []*chess.Position{chess.NewGame(opt).Position()}}, nil
}

// Clone returns an independent copy sharing no mutable state, so separate
// searches can never race on the same stack.
func (p *Position) Clone() *Position {
	stack := make([]*chess.Position, len(p.stack))
	copy(stack, p.stack)
	return &Position{stack: stack}
}

func (p *Position) current() *chess.Position {
	return p.stack[len(p.stack)-1]
}

// Push applies a move, making the successor the current position.
func (p *Position) Push(m *chess.Move) {
	p.stack = append(p.stack, p.current().Update(m))
}

// Pop discards the current position, restoring the one before the last Push.
func (p *Position) Pop() {
	if len(p.stack) <= 1 {
		panic("rules: Pop without matching Push")
	}
	p.stack[len(p.stack)-1] = nil
	p.stack = p.stack[:len(p.stack)-1]
}

// Depth reports how many moves are currently pushed. Callers use it to assert
// push/pop symmetry around a search.
func (p *Position) Depth() int {
	return len(p.stack) - 1
}

// LegalMoves returns every legal move for the side to move. Moves that would
// leave the mover's own king in check are already excluded by the library.
func (p *Position) LegalMoves() []*chess.Move {
	return p.current().ValidMoves()
}

// Turn returns the side to move.
func (p *Position) Turn() chess.Color {
	return p.current().Turn()
}

// PieceAt returns the piece on the given square, or chess.NoPiece.
func (p *Position) PieceAt(sq chess.Square) chess.Piece {
	return p.current().Board().Piece(sq)
}

// FEN serializes the current position.
func (p *Position) FEN() string {
	return p.current().String()
}

// FullMoves returns the full-move counter of the current position.
func (p *Position) FullMoves() int {
	fields := strings.Fields(p.FEN())
	n, err := strconv.Atoi(fields[len(fields)-1])
	if err != nil || n < 1 {
		return 1
	}
	return n
}

// IsCheckmate reports whether the side to move is checkmated.
func (p *Position) IsCheckmate() bool {
	return p.current().Status() == chess.Checkmate
}

// IsStalemate reports whether the side to move is stalemated.
func (p *Position) IsStalemate() bool {
	return p.current().Status() == chess.Stalemate
}

// InsufficientMaterial reports whether neither side can possibly deliver
// mate: K vs K, K+B vs K, K+N vs K, or K+B vs K+B with both bishops on the
// same square color.
func (p *Position) InsufficientMaterial() bool {
	var knights, bishops, others int
	var bishopSquares []chess.Square
	for sq := chess.A1; sq <= chess.H8; sq++ {
		piece := p.PieceAt(sq)
		if piece == chess.NoPiece || piece.Type() == chess.King {
			continue
		}
		switch piece.Type() {
		case chess.Knight:
			knights++
		case chess.Bishop:
			bishops++
			bishopSquares = append(bishopSquares, sq)
		default:
			others++
		}
	}
	if others > 0 {
		return false
	}
	switch {
	case knights == 0 && bishops == 0:
		return true
	case knights == 1 && bishops == 0:
		return true
	case knights == 0 && bishops == 1:
		return true
	case knights == 0 && bishops == 2:
		return squareShade(bishopSquares[0]) == squareShade(bishopSquares[1])
	}
	return false
}

// SAN encodes a move in standard algebraic notation for the current position.
// Must be called before the move is pushed.
func (p *Position) SAN(m *chess.Move) string {
	return chess.AlgebraicNotation{}.Encode(p.current(), m)
}

// UCI encodes a move in UCI notation.
func (p *Position) UCI(m *chess.Move) string {
	return chess.UCINotation{}.Encode(p.current(), m)
}

// ParseUCI decodes a UCI move string against the current position. The
// returned move carries the usual tags only if it is actually legal here.
func (p *Position) ParseUCI(s string) (*chess.Move, error) {
	return chess.UCINotation{}.Decode(p.current(), s)
}

func squareShade(sq chess.Square) int {
	return (int(sq.File()) + int(sq.Rank())) % 2
}
