package rules

// Perft counts leaf nodes of the legal move tree to the given depth. Used to
// cross-check the oracle's move generation against an independent generator.
func Perft(p *Position, depth int) uint64 {
	if depth <= 0 {
		return 1
	}
	moves := p.LegalMoves()
	if depth == 1 {
		return uint64(len(moves))
	}
	var nodes uint64
	for _, m := range moves {
		p.Push(m)
		nodes += Perft(p, depth-1)
		p.Pop()
	}
	return nodes
}

// PerftDivide returns the per-root-move node counts at the given depth,
// keyed by UCI move string.
func PerftDivide(p *Position, depth int) map[string]uint64 {
	div := make(map[string]uint64)
	for _, m := range p.LegalMoves() {
		uci := p.UCI(m)
		p.Push(m)
		div[uci] = Perft(p, depth-1)
		p.Pop()
	}
	return div
}
