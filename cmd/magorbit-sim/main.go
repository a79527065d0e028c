// magorbit-sim 用自动驾驶批量模拟对局，用于调参
//
// 每局使用固定种子，相同参数的两次模拟结果一致。
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"runtime"
	"time"

	"github.com/gonewx/magorbit/pkg/config"
	"github.com/gonewx/magorbit/pkg/game"
)

var (
	runs       = flag.Int("runs", 10, "Number of runs to simulate")
	duration   = flag.Float64("duration", 600, "Maximum simulated seconds per run")
	save       = flag.Bool("save", false, "Record finished runs to the save storage")
	seed       = flag.Int64("seed", 0, "Seed of the first run (0 = time based)")
	difficulty = flag.String("difficulty", "", "Difficulty profile (casual, arcade, insane); empty uses the tuning default")
	tuningPath = flag.String("config", "", "Path to a tuning YAML overriding the built-in defaults")
	workers    = flag.Int("workers", runtime.NumCPU(), "Runs simulated in parallel")
	verbose    = flag.Bool("verbose", false, "Enable verbose logging")
)

func main() {
	flag.Parse()

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "magorbit-sim: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	if !*verbose {
		log.SetOutput(io.Discard)
	}
	if *runs <= 0 {
		return fmt.Errorf("runs must be positive, got %d", *runs)
	}

	tuning, err := config.LoadTuning(*tuningPath)
	if err != nil {
		return fmt.Errorf("failed to load tuning: %w", err)
	}
	diff, err := tuning.ResolveDifficulty(*difficulty)
	if err != nil {
		return err
	}
	if diff == "" {
		diff = tuning.DefaultDifficulty
	}

	base := *seed
	if base == 0 {
		base = time.Now().UnixNano() % 1_000_000
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	start := time.Now()
	results, err := runBatch(ctx, tuning, simConfig{
		Runs:       *runs,
		MaxSeconds: *duration,
		Difficulty: diff,
		Seed:       base,
		Workers:    *workers,
	})
	if err != nil {
		return err
	}
	printReport(os.Stdout, diff, results)
	fmt.Printf("  simulated in %s\n", time.Since(start).Round(time.Millisecond))

	if *save {
		storage := game.OpenStorage(game.AppName)
		if !storage.Persistent() {
			return fmt.Errorf("save storage unavailable")
		}
		n, err := recordResults(storage.Scores, results)
		if err != nil {
			return err
		}
		fmt.Printf("  recorded %d runs (best %d)\n", n, storage.Scores.BestScore())
	}
	return nil
}
