package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"runtime"
	"runtime/pprof"
	"time"

	"github.com/robvecchiola/chess/engine"
	"github.com/robvecchiola/chess/rules"
)

func main() {
	// --- Flags ---
	depthFlag := flag.Int("depth", 2, "search depth in plies")
	topNFlag := flag.Int("topn", 1, "candidate pool size")
	qdepthFlag := flag.Int("qdepth", 4, "quiescence ply cap")
	repeatFlag := flag.Int("repeat", 1, "number of searches to run")
	fenFlag := flag.String("fen", "", "FEN to search (empty = startpos)")
	cpuProfile := flag.String("cpuprofile", "", "write CPU profile to file")
	memProfile := flag.String("memprofile", "", "write memory profile (heap) to file")
	flag.Parse()

	// --- Optional CPU profiling setup ---
	if *cpuProfile != "" {
		cpuFile, err := os.Create(*cpuProfile)
		if err != nil {
			log.Fatalf("could not create CPU profile: %v", err)
		}
		if err := pprof.StartCPUProfile(cpuFile); err != nil {
			log.Fatalf("could not start CPU profile: %v", err)
		}
		defer func() {
			pprof.StopCPUProfile()
			cpuFile.Close()
		}()
	}

	fen := rules.StartFEN
	if *fenFlag != "" {
		fen = *fenFlag
	}

	cfg := engine.Config{
		Depth:           *depthFlag,
		TopN:            *topNFlag,
		QuiescenceDepth: *qdepthFlag,
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}

	fmt.Printf("searchbench: fen=%q depth=%d repeat=%d\n", fen, cfg.Depth, *repeatFlag)

	startAll := time.Now()
	for i := 0; i < *repeatFlag; i++ {
		// Fresh position for each run
		pos, err := rules.FromFEN(fen)
		if err != nil {
			log.Fatal(err)
		}

		iterStart := time.Now()
		move, err := engine.ChooseMove(pos, cfg)
		iterElapsed := time.Since(iterStart)
		if err != nil {
			log.Fatal(err)
		}

		fmt.Printf("iteration %d: bestmove %s  time=%v\n", i+1, pos.UCI(move), iterElapsed)
	}
	fmt.Printf("total time: %v\n", time.Since(startAll))

	// --- Optional heap profile at the end ---
	if *memProfile != "" {
		f, err := os.Create(*memProfile)
		if err != nil {
			log.Fatalf("could not create memory profile: %v", err)
		}
		defer f.Close()

		runtime.GC() // get up-to-date heap info
		if err := pprof.WriteHeapProfile(f); err != nil {
			log.Fatalf("could not write memory profile: %v", err)
		}
	}
}
