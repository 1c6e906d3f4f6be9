// Package game is the game-state service sitting between the HTTP layer and
// the search engine: it owns move history, capture and special-move records,
// and game finalization. Engine scores pass through untouched.
package game

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/notnil/chess"

	"github.com/robvecchiola/chess/engine"
	"github.com/robvecchiola/chess/rules"
)

// ErrGameOver is returned when a move is played into a finished game.
var ErrGameOver = errors.New("game: game is over")

// Game is a single chess game: the live position plus everything the UI
// shows about it. All methods are safe for concurrent use.
type Game struct {
	mu sync.Mutex

	id  string
	pos *rules.Position

	history         []string // SAN, in play order
	capturedByWhite []string // piece names White has taken
	capturedByBlack []string
	specialMoves    []string // color-prefixed records: "White: Castling (Kingside)"

	result    string // "", "1-0", "0-1", "1/2-1/2"
	reason    string
	createdAt time.Time
	updatedAt time.Time
}

// New starts a game from the standard position.
func New() *Game {
	now := time.Now().UTC()
	return &Game{
		id:        uuid.NewString(),
		pos:       rules.NewPosition(),
		createdAt: now,
		updatedAt: now,
	}
}

// NewFromFEN starts a game from an arbitrary position.
func NewFromFEN(fen string) (*Game, error) {
	pos, err := rules.FromFEN(fen)
	if err != nil {
		return nil, err
	}
	g := New()
	g.pos = pos
	return g, nil
}

// ID returns the game's identifier.
func (g *Game) ID() string {
	return g.id
}

// Over reports whether the game has a result.
func (g *Game) Over() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.result != ""
}

// Turn returns the side to move.
func (g *Game) Turn() chess.Color {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.pos.Turn()
}

// Position returns an independent copy of the current position, safe to hand
// to a search without holding the game lock.
func (g *Game) Position() *rules.Position {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.pos.Clone()
}

// ExecuteMove validates and applies a move given in UCI coordinates,
// recording SAN, captures and special moves. For AI moves a bare promotion
// push is completed to a queen promotion rather than rejected.
func (g *Game) ExecuteMove(uci string, byAI bool) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.result != "" {
		return "", ErrGameOver
	}

	move, err := g.legalMove(uci, byAI)
	if err != nil {
		return "", err
	}

	// SAN needs the pre-move position; everything below reads it too.
	san := g.pos.SAN(move)
	mover := g.pos.Turn()

	if rules.IsCapture(move) {
		victim := g.pos.PieceAt(rules.CapturedSquare(g.pos, move))
		if victim != chess.NoPiece {
			name := pieceName(victim.Type())
			if mover == chess.White {
				g.capturedByWhite = append(g.capturedByWhite, name)
			} else {
				g.capturedByBlack = append(g.capturedByBlack, name)
			}
		}
	}

	if record := specialMoveRecord(move, mover); record != "" {
		g.specialMoves = append(g.specialMoves, record)
	}

	g.pos.Push(move)
	g.history = append(g.history, san)
	g.updatedAt = time.Now().UTC()
	g.finalizeIfOver()
	return san, nil
}

// legalMove resolves a UCI string against the current legal moves, so the
// returned move carries the oracle's tags. AI promotion pushes missing the
// promotion piece default to queen.
func (g *Game) legalMove(uci string, byAI bool) (*chess.Move, error) {
	want, err := g.pos.ParseUCI(uci)
	if err != nil {
		return nil, fmt.Errorf("game: %w", err)
	}
	var queen *chess.Move
	promoMismatch := false
	for _, m := range g.pos.LegalMoves() {
		if m.S1() != want.S1() || m.S2() != want.S2() {
			continue
		}
		if m.Promo() == want.Promo() {
			return m, nil
		}
		promoMismatch = true
		if m.Promo() == chess.Queen {
			queen = m
		}
	}
	if promoMismatch {
		// The squares are right, the promotion piece is not. The engine's
		// coordinate pushes are completed to a queen instead of bounced.
		if byAI && queen != nil {
			return queen, nil
		}
		return nil, fmt.Errorf("game: move %s requires a promotion piece", uci)
	}
	return nil, fmt.Errorf("game: illegal move %s: %s", uci, ExplainIllegalMove(g.pos, want.S1(), want.S2()))
}

// finalizeIfOver sets result and reason when the position is terminal.
// Caller holds the lock.
func (g *Game) finalizeIfOver() bool {
	if g.result != "" {
		return true
	}
	switch {
	case g.pos.IsCheckmate():
		if g.pos.Turn() == chess.White {
			g.result = "0-1"
		} else {
			g.result = "1-0"
		}
		g.reason = "checkmate"
	case g.pos.IsStalemate():
		g.result = "1/2-1/2"
		g.reason = "stalemate"
	case g.pos.InsufficientMaterial():
		g.result = "1/2-1/2"
		g.reason = "insufficient material"
	default:
		return false
	}
	return true
}

// Resign ends the game in favor of the opponent.
func (g *Game) Resign(color chess.Color) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.result != "" {
		return ErrGameOver
	}
	if color == chess.White {
		g.result = "0-1"
	} else {
		g.result = "1-0"
	}
	g.reason = "resignation"
	g.updatedAt = time.Now().UTC()
	return nil
}

// State is the full game snapshot returned by the API.
type State struct {
	GameID               string    `json:"game_id"`
	FEN                  string    `json:"fen"`
	Turn                 string    `json:"turn"`
	Check                bool      `json:"check"`
	Checkmate            bool      `json:"checkmate"`
	Stalemate            bool      `json:"stalemate"`
	InsufficientMaterial bool      `json:"insufficient_material"`
	GameOver             bool      `json:"game_over"`
	Result               string    `json:"result,omitempty"`
	Reason               string    `json:"reason,omitempty"`
	History              []string  `json:"history"`
	CapturedByWhite      []string  `json:"captured_by_white"`
	CapturedByBlack      []string  `json:"captured_by_black"`
	SpecialMoves         []string  `json:"special_moves"`
	Material             int       `json:"material"`
	Evaluation           int       `json:"evaluation"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
}

// FullState snapshots the game for the API.
func (g *Game) FullState() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return State{
		GameID:               g.id,
		FEN:                  g.pos.FEN(),
		Turn:                 colorName(g.pos.Turn()),
		Check:                g.pos.InCheck(),
		Checkmate:            g.pos.IsCheckmate(),
		Stalemate:            g.pos.IsStalemate(),
		InsufficientMaterial: g.pos.InsufficientMaterial(),
		GameOver:             g.result != "",
		Result:               g.result,
		Reason:               g.reason,
		History:              append([]string(nil), g.history...),
		CapturedByWhite:      append([]string(nil), g.capturedByWhite...),
		CapturedByBlack:      append([]string(nil), g.capturedByBlack...),
		SpecialMoves:         append([]string(nil), g.specialMoves...),
		Material:             engine.MaterialScore(g.pos),
		Evaluation:           engine.Evaluate(g.pos),
		CreatedAt:            g.createdAt,
		UpdatedAt:            g.updatedAt,
	}
}

// Result returns the game result and termination reason, empty while the
// game is in progress.
func (g *Game) Result() (string, string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.result, g.reason
}

func specialMoveRecord(m *chess.Move, mover chess.Color) string {
	prefix := colorTitle(mover)
	switch {
	case m.HasTag(chess.KingSideCastle):
		return prefix + ": Castling (Kingside)"
	case m.HasTag(chess.QueenSideCastle):
		return prefix + ": Castling (Queenside)"
	case rules.IsEnPassant(m):
		return prefix + ": En Passant"
	case rules.IsPromotion(m):
		return prefix + ": Promotion to " + pieceName(m.Promo())
	}
	return ""
}

func pieceName(t chess.PieceType) string {
	switch t {
	case chess.Pawn:
		return "Pawn"
	case chess.Knight:
		return "Knight"
	case chess.Bishop:
		return "Bishop"
	case chess.Rook:
		return "Rook"
	case chess.Queen:
		return "Queen"
	case chess.King:
		return "King"
	}
	return "Unknown"
}

func colorName(c chess.Color) string {
	if c == chess.White {
		return "white"
	}
	return "black"
}

func colorTitle(c chess.Color) string {
	if c == chess.White {
		return "White"
	}
	return "Black"
}
