package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/delaneyj/bindable/bindable"
)

type waitConfig struct {
	name           string  // friendly name for the test, should be unique
	waiters        int     // waits created per round
	stride         int     // writes per round, each wait targets the last one
	rounds         int     // number of rounds
	cancelFraction float64 // fraction of waits cancelled before the writes
}

var waitConfigs = []waitConfig{
	{name: "single waiter", waiters: 1, stride: 1, rounds: 200_000},
	{name: "fan out", waiters: 100, stride: 1, rounds: 5_000},
	{name: "slow target", waiters: 10, stride: 50, rounds: 2_000},
	{name: "half cancelled", waiters: 100, stride: 5, rounds: 2_000, cancelFraction: 0.5},
}

func (cfg waitConfig) cancelled() int {
	return int(float64(cfg.waiters) * cfg.cancelFraction)
}

func (cfg waitConfig) expectedResolved() int64 {
	return int64(cfg.rounds * (cfg.waiters - cfg.cancelled()))
}

// runWait runs every round of cfg once and reports how many waits completed
// and how many were cancelled.
func runWait(ctx context.Context, cfg waitConfig) (resolved, cancelled int64) {
	v := bindable.New(0)
	onDone := func(_ int, err error) {
		if err != nil {
			cancelled++
			return
		}
		resolved++
	}

	waits := make([]*bindable.Wait[int], cfg.waiters)
	for r := 0; r < cfg.rounds; r++ {
		target := v.Value() + cfg.stride
		for i := range waits {
			waits[i] = v.WaitForValue(ctx, target)
			waits[i].OnDone(onDone)
		}
		for _, w := range waits[:cfg.cancelled()] {
			w.Cancel()
		}
		for i := 0; i < cfg.stride; i++ {
			v.Update(addOne)
		}
	}
	return resolved, cancelled
}

func benchmarkWait(ctx context.Context, cfg waitConfig, repeats int) (row, error) {
	slog.Info("running config", "name", cfg.name)
	// run once to warm up
	runWait(ctx, cfg)

	best := row{
		name:     cfg.name,
		writes:   int64(cfg.rounds * cfg.stride),
		duration: time.Hour,
	}
	for i := 0; i < repeats; i++ {
		slog.Debug("repeat", "name", cfg.name, "iteration", i+1, "of", repeats)
		start := time.Now()
		resolved, cancelled := runWait(ctx, cfg)
		duration := time.Since(start)

		if resolved != cfg.expectedResolved() {
			return row{}, fmt.Errorf("%s: resolved %d waits, expected %d", cfg.name, resolved, cfg.expectedResolved())
		}
		if duration < best.duration {
			best.duration = duration
			best.resolved = resolved
			best.cancelled = cancelled
		}
	}
	return best, nil
}
