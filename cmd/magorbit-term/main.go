// magorbit-term 在终端中运行 Magnetic Orbit
//
// 画面按字符格缩放场地，提示音通过系统扬声器播放。
// 设置与记录与桌面版共用同一份存档。
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/gdamore/tcell/v2"

	"github.com/gonewx/magorbit/pkg/arena"
	"github.com/gonewx/magorbit/pkg/config"
	"github.com/gonewx/magorbit/pkg/game"
	"github.com/gonewx/magorbit/pkg/systems"
)

var (
	verbose    = flag.Bool("verbose", false, "Write logs to magorbit-term.log")
	difficulty = flag.String("difficulty", "", "Difficulty profile (casual, arcade, insane); empty uses the saved setting")
	tuningPath = flag.String("config", "", "Path to a tuning YAML overriding the built-in defaults")
	seed       = flag.Int64("seed", 0, "Random seed for every run (0 = time based)")
	mute       = flag.Bool("mute", false, "Disable sound")
)

func main() {
	flag.Parse()

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "magorbit-term: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// 日志会打乱终端画面，只写文件
	log.SetOutput(io.Discard)
	if *verbose {
		f, err := os.Create("magorbit-term.log")
		if err != nil {
			return fmt.Errorf("failed to create log file: %w", err)
		}
		defer f.Close()
		log.SetOutput(f)
	}

	tuning, err := config.LoadTuning(*tuningPath)
	if err != nil {
		return fmt.Errorf("failed to load tuning: %w", err)
	}
	diff, err := tuning.ResolveDifficulty(*difficulty)
	if err != nil {
		return err
	}

	storage := game.OpenStorage(game.AppName)
	if diff == "" {
		diff = storage.Settings.GetSettings().Difficulty
	}

	var cues systems.CuePlayer
	if volume := storage.Settings.EffectiveVolume(); !*mute && volume > 0 {
		bc, err := newBeepCues(volume)
		if err != nil {
			// 没有声音也能玩
			log.Printf("[Term] Warning: %v", err)
		} else {
			defer bc.Close()
			cues = bc
		}
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("failed to create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("failed to init screen: %w", err)
	}
	defer screen.Fini()

	g := newTermGame(screen, tuning, storage, cues, arena.Options{
		Difficulty: diff,
		Seed:       *seed,
	})
	g.run()

	if err := storage.Settings.Save(); err != nil {
		log.Printf("[Term] Warning: Failed to save settings: %v", err)
	}
	return nil
}
