package engine

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/notnil/chess"
	"golang.org/x/exp/slices"

	"github.com/robvecchiola/chess/rules"
)

// ErrNoLegalMoves is returned when ChooseMove is called on a position with
// no legal moves. That is a caller contract breach (the game is already
// over); the engine never invents a move.
var ErrNoLegalMoves = errors.New("engine: no legal moves")

// Config controls the move selector.
type Config struct {
	// Depth is the nominal search depth in plies.
	Depth int
	// TopN is the size of the candidate pool the safety filter considers.
	TopN int
	// QuiescenceDepth caps the tactical extension at the search horizon.
	QuiescenceDepth int
	// TimeBudget, when positive, enables iterative deepening up to Depth
	// with the wall clock checked between root candidates. Depth 1 always
	// completes so a move is always produced.
	TimeBudget time.Duration
	// Rand, when set, injects variety: a seeded source picks among the safe
	// top candidates (and plays a random legal move in the first two full
	// moves). When nil, selection is fully deterministic.
	Rand *rand.Rand
}

// DefaultConfig mirrors the production defaults.
func DefaultConfig() Config {
	return Config{Depth: 2, TopN: 3, QuiescenceDepth: 4}
}

// Validate rejects misconfiguration instead of silently clamping it, so an
// orchestration-layer mistake surfaces at the boundary.
func (c Config) Validate() error {
	if c.Depth < 1 {
		return fmt.Errorf("engine: depth must be positive, got %d", c.Depth)
	}
	if c.TopN < 1 {
		return fmt.Errorf("engine: topN must be positive, got %d", c.TopN)
	}
	if c.QuiescenceDepth < 1 {
		return fmt.Errorf("engine: quiescence ply cap must be positive, got %d", c.QuiescenceDepth)
	}
	return nil
}

// scoredMove is a root candidate with its search score.
type scoredMove struct {
	move  *chess.Move
	score int
}

// Pieces at or above this value count as "high-value" for the safety filter.
const hangingValueThreshold = 500

// ChooseMove runs the search over every legal move and returns the selected
// one. Among the TopN best-scoring candidates it rejects moves that leave a
// high-value piece capturable by an immediate reply, unless no safer
// candidate remains. Ties break deterministically in oracle order; any
// variety comes only from the injected Rand. The caller's position is
// unchanged when ChooseMove returns.
func ChooseMove(pos *rules.Position, cfg Config) (*chess.Move, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	moves := pos.LegalMoves()
	if len(moves) == 0 {
		return nil, ErrNoLegalMoves
	}

	depthBefore := pos.Depth()
	defer func() {
		if pos.Depth() != depthBefore {
			panic(fmt.Sprintf("engine: unbalanced push/pop in ChooseMove: depth %d, want %d",
				pos.Depth(), depthBefore))
		}
	}()

	// Opening variety, only with an injected source.
	if cfg.Rand != nil && pos.FullMoves() <= 2 {
		return moves[cfg.Rand.Intn(len(moves))], nil
	}

	ordered := orderMoves(moves)
	maximizing := pos.Turn() == chess.White

	var scored []scoredMove
	if cfg.TimeBudget > 0 {
		deadline := time.Now().Add(cfg.TimeBudget)
		// Depth 1 runs without the deadline so there is always a complete
		// iteration to fall back on.
		scored, _ = scoreRoot(pos, ordered, 1, cfg.QuiescenceDepth, maximizing, time.Time{})
		for d := 2; d <= cfg.Depth; d++ {
			deeper, complete := scoreRoot(pos, ordered, d, cfg.QuiescenceDepth, maximizing, deadline)
			if !complete {
				break
			}
			scored = deeper
		}
	} else {
		scored, _ = scoreRoot(pos, ordered, cfg.Depth, cfg.QuiescenceDepth, maximizing, time.Time{})
	}

	// Best for the side to move first; stable, so ties keep ordering.
	slices.SortStableFunc(scored, func(a, b scoredMove) int {
		if maximizing {
			return b.score - a.score
		}
		return a.score - b.score
	})

	pool := scored[:min(cfg.TopN, len(scored))]
	safe := make([]scoredMove, 0, len(pool))
	for _, cand := range pool {
		if !leavesPieceHanging(pos, cand.move) {
			safe = append(safe, cand)
		}
	}
	if len(safe) == 0 {
		// Every candidate hangs something; fall back to the raw scores.
		safe = pool
	}

	if cfg.Rand != nil {
		return safe[cfg.Rand.Intn(len(safe))].move, nil
	}
	return safe[0].move, nil
}

// scoreRoot searches every candidate at the given depth with a full window,
// so scores stay comparable across candidates. A zero deadline disables the
// clock. Reports whether every candidate was evaluated.
func scoreRoot(pos *rules.Position, moves []*chess.Move, depth, qplies int, maximizing bool, deadline time.Time) ([]scoredMove, bool) {
	scored := make([]scoredMove, 0, len(moves))
	for _, m := range moves {
		if !deadline.IsZero() && !time.Now().Before(deadline) {
			return scored, false
		}
		pos.Push(m)
		score := search(pos, depth-1, -MateScore-1, MateScore+1, qplies, !maximizing)
		pos.Pop()
		scored = append(scored, scoredMove{move: m, score: score})
	}
	return scored, true
}

// leavesPieceHanging reports whether, after the move, the opponent has an
// immediate capture of a piece worth at least hangingValueThreshold. A
// shallow one-ply check layered on top of the search score; it does not ask
// whether the capture would be a good trade.
func leavesPieceHanging(pos *rules.Position, m *chess.Move) bool {
	pos.Push(m)
	defer pos.Pop()
	for _, reply := range pos.LegalMoves() {
		if !rules.IsCapture(reply) {
			continue
		}
		victim := pos.PieceAt(rules.CapturedSquare(pos, reply))
		if victim == chess.NoPiece {
			continue
		}
		if pieceValue[victim.Type()] >= hangingValueThreshold && victim.Type() != chess.King {
			return true
		}
	}
	return false
}
