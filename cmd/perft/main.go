package main

import (
	"flag"
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/dylhunn/dragontoothmg"

	"github.com/robvecchiola/chess/rules"
)

// Walks the legal move tree and cross-checks the node counts against an
// independent bitboard generator.
func main() {
	fenFlag := flag.String("fen", "", "FEN to count (empty = startpos)")
	depthFlag := flag.Int("depth", 4, "perft depth in plies")
	flag.Parse()

	if *depthFlag <= 0 {
		log.Fatalf("depth must be positive, got %d", *depthFlag)
	}

	fen := rules.StartFEN
	if *fenFlag != "" {
		fen = *fenFlag
	}

	pos, err := rules.FromFEN(fen)
	if err != nil {
		log.Fatal(err)
	}

	start := time.Now()
	div := rules.PerftDivide(pos, *depthFlag)
	elapsed := time.Since(start)

	moves := make([]string, 0, len(div))
	for uci := range div {
		moves = append(moves, uci)
	}
	sort.Strings(moves)

	var total uint64
	for _, uci := range moves {
		fmt.Printf("%s: %d\n", uci, div[uci])
		total += div[uci]
	}
	fmt.Printf("total: %d  time=%v\n", total, elapsed)

	board := dragontoothmg.ParseFen(fen)
	want := uint64(dragontoothmg.Perft(&board, *depthFlag))
	if total != want {
		log.Fatalf("MISMATCH: independent generator counts %d", want)
	}
	fmt.Println("cross-check: ok")
}
