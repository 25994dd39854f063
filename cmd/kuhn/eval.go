package main

import (
	"context"
	"fmt"
	"io"
	"math"

	"github.com/rs/zerolog"

	"github.com/lox/kuhnpoker/internal/config"
	"github.com/lox/kuhnpoker/internal/simulator"
	"github.com/lox/kuhnpoker/internal/statistics"
	"github.com/lox/kuhnpoker/solver"
	"github.com/lox/kuhnpoker/solver/runtime"
)

// EquilibriumValue is Player 1's value of Kuhn Poker under any Nash equilibrium.
const EquilibriumValue = -1.0 / 18

type EvalCmd struct {
	TrainingFlags `embed:""`

	Deals   int  `help:"number of self-play deals (0 uses config, default 100000)" default:"0"`
	Workers int  `help:"simulation workers (0 uses config, then min(NumCPU, 8))" default:"0"`
	Summary bool `help:"print the full self-play breakdown"`
}

// evaluation is the outcome of one eval run.
type evaluation struct {
	Iterations int
	Exact      float64
	Stats      *statistics.Statistics
}

func (cmd *EvalCmd) Run(ctx context.Context, cfg *config.Config, logger zerolog.Logger, stdout io.Writer) error {
	trainer, err := runTraining(ctx, cmd.TrainingFlags, cfg, logger)
	if err != nil {
		return err
	}
	table := trainer.AverageStrategy()

	simCfg := simulator.Config{
		Deals:   cfg.Evaluation.Deals,
		Workers: cfg.Evaluation.Workers,
		Seed:    cfg.EvaluationSeed(trainer.Seed()),
		Logger:  logger,
	}
	if cmd.Deals > 0 {
		simCfg.Deals = cmd.Deals
	}
	if cmd.Workers > 0 {
		simCfg.Workers = cmd.Workers
	}

	stats, err := simulator.Run(ctx, simCfg, runtime.New(table))
	if err != nil {
		return fmt.Errorf("simulate: %w", err)
	}
	if err := stats.Validate(); err != nil {
		return fmt.Errorf("simulation statistics: %w", err)
	}

	result := evaluation{
		Iterations: trainer.Iteration(),
		Exact:      solver.GameValue(table),
		Stats:      stats,
	}
	logger.Debug().
		Float64("exact", result.Exact).
		Float64("simulated", stats.Mean()).
		Int("hands", stats.Hands).
		Msg("evaluation complete")

	if err := renderEvaluation(stdout, result); err != nil {
		return err
	}
	if cmd.Summary {
		return simulator.WriteSummary(stdout, stats)
	}
	return nil
}

// distance returns how far the exact value lies from the equilibrium value.
func (e evaluation) distance() float64 {
	return math.Abs(e.Exact - EquilibriumValue)
}

// containsExact reports whether the simulated 95% interval covers the exact value.
func (e evaluation) containsExact() bool {
	low, high := e.Stats.ConfidenceInterval95()
	return e.Exact >= low && e.Exact <= high
}
