package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/gonewx/magorbit/pkg/app"
)

var (
	verbose    = flag.Bool("verbose", false, "Enable verbose logging")
	difficulty = flag.String("difficulty", "", "Difficulty profile (casual, arcade, insane); empty uses the saved setting")
	tuningPath = flag.String("config", "", "Path to a tuning YAML overriding the built-in defaults")
	seed       = flag.Int64("seed", 0, "Random seed for every run (0 = time based)")
)

func main() {
	flag.Parse()

	gameApp, err := app.NewApp(app.Config{
		Verbose:    *verbose,
		Difficulty: *difficulty,
		TuningPath: *tuningPath,
		Seed:       *seed,
	})
	if err != nil {
		// 非 verbose 模式下日志已被丢弃
		fmt.Fprintf(os.Stderr, "failed to start game: %v\n", err)
		os.Exit(1)
	}

	w, h := gameApp.WindowSize()
	ebiten.SetWindowSize(w, h)
	ebiten.SetWindowTitle("Magnetic Orbit")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	if err := ebiten.RunGame(gameApp); err != nil {
		log.Fatal(err)
	}
}
