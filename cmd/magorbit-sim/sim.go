package main

import (
	"context"
	"fmt"
	"io"
	"math"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/gonewx/magorbit/pkg/arena"
	"github.com/gonewx/magorbit/pkg/config"
	"github.com/gonewx/magorbit/pkg/game"
)

// simDT 模拟的固定帧间隔
const simDT = 1.0 / 60

// simConfig 一次批量模拟的参数
type simConfig struct {
	Runs       int
	MaxSeconds float64 // 单局模拟时长上限，防止卡死
	Difficulty string
	Seed       int64 // 第 i 局使用 Seed+i
	Workers    int
}

// runOutcome 单局结果
type runOutcome struct {
	Seed     int64
	Result   arena.RunResult
	Upgrades []string
	Finished bool // false 表示达到时长上限仍未结束
}

// simulateRun 用自动驾驶跑完一局
func simulateRun(ctx context.Context, tuning *config.TuningConfig, difficulty string, seed int64, maxSeconds float64) (runOutcome, error) {
	pilot := newAutopilot(tuning)
	s := arena.NewSession(tuning, arena.Options{
		Difficulty: difficulty,
		Seed:       seed,
		Upgrades:   pilot,
	})

	out := runOutcome{Seed: seed}
	var frame arena.Frame
	maxFrames := int(math.Ceil(maxSeconds / simDT))
	for i := 0; i < maxFrames && !s.Over(); i++ {
		// 每秒检查一次取消
		if i%60 == 0 {
			if err := ctx.Err(); err != nil {
				return out, err
			}
		}
		if len(frame.UpgradeChoices) > 0 {
			id := pilot.pick(frame.UpgradeChoices)
			s.ResolveUpgrade(id)
			out.Upgrades = append(out.Upgrades, id)
		}
		frame = s.Step(simDT, pilot.decide(s.Arena(), frame.HUD))
	}

	res, ok := s.Result()
	out.Result, out.Finished = res, ok
	return out, nil
}

// runBatch 并发跑多局，结果按局序返回
func runBatch(ctx context.Context, tuning *config.TuningConfig, cfg simConfig) ([]runOutcome, error) {
	results := make([]runOutcome, cfg.Runs)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, cfg.Workers))
	for i := range cfg.Runs {
		seed := cfg.Seed + int64(i)
		g.Go(func() error {
			out, err := simulateRun(ctx, tuning, cfg.Difficulty, seed, cfg.MaxSeconds)
			if err != nil {
				return fmt.Errorf("run %d (seed %d): %w", i+1, seed, err)
			}
			results[i] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// summary 批量模拟的汇总
type summary struct {
	Runs       int
	Unfinished int
	Outcomes   map[string]int
	MeanScore  float64
	BestScore  int
	MeanTime   float64
	Delivered  int
	Collected  int
}

func summarize(results []runOutcome) summary {
	sum := summary{Runs: len(results), Outcomes: make(map[string]int)}
	if len(results) == 0 {
		return sum
	}
	var scoreTotal, timeTotal int
	for _, r := range results {
		if !r.Finished {
			sum.Unfinished++
			continue
		}
		res := r.Result
		sum.Outcomes[res.Outcome]++
		scoreTotal += res.FinalScore
		timeTotal += res.SurvivedSeconds
		sum.BestScore = max(sum.BestScore, res.FinalScore)
		sum.Delivered += res.ScrapDelivered
		sum.Collected += res.ScrapCollected
	}
	if finished := sum.Runs - sum.Unfinished; finished > 0 {
		sum.MeanScore = float64(scoreTotal) / float64(finished)
		sum.MeanTime = float64(timeTotal) / float64(finished)
	}
	return sum
}

// printReport 输出逐局结果与汇总
func printReport(w io.Writer, difficulty string, results []runOutcome) {
	for i, r := range results {
		if !r.Finished {
			fmt.Fprintf(w, "#%-3d seed=%-6d UNFINISHED\n", i+1, r.Seed)
			continue
		}
		res := r.Result
		fmt.Fprintf(w, "#%-3d seed=%-6d %-15s score=%-6d time=%-4ds scrap=%d/%d upgrades=%s\n",
			i+1, r.Seed, res.Outcome, res.FinalScore, res.SurvivedSeconds,
			res.ScrapDelivered, res.ScrapCollected, strings.Join(r.Upgrades, ","))
	}

	sum := summarize(results)
	fmt.Fprintf(w, "\n%s: %d runs", strings.ToUpper(difficulty), sum.Runs)
	if sum.Unfinished > 0 {
		fmt.Fprintf(w, " (%d unfinished)", sum.Unfinished)
	}
	fmt.Fprintln(w)

	outcomes := make([]string, 0, len(sum.Outcomes))
	for o := range sum.Outcomes {
		outcomes = append(outcomes, o)
	}
	sort.Strings(outcomes)
	for _, o := range outcomes {
		fmt.Fprintf(w, "  %-15s %d\n", o, sum.Outcomes[o])
	}
	fmt.Fprintf(w, "  mean score %.1f  best %d  mean survival %.1fs  scrap %d/%d\n",
		sum.MeanScore, sum.BestScore, sum.MeanTime, sum.Delivered, sum.Collected)
}

// recordResults 把完成的局写入存档
func recordResults(store *game.ScoreStore, results []runOutcome) (int, error) {
	n := 0
	for _, r := range results {
		if !r.Finished {
			continue
		}
		res := r.Result
		if _, err := store.Record(game.RunRecord{
			Outcome:         res.Outcome,
			Difficulty:      res.Difficulty,
			FinalScore:      res.FinalScore,
			SurvivedSeconds: res.SurvivedSeconds,
			ScrapCollected:  res.ScrapCollected,
			ScrapDelivered:  res.ScrapDelivered,
		}); err != nil {
			return n, fmt.Errorf("failed to record seed %d: %w", r.Seed, err)
		}
		n++
	}
	return n, nil
}
