package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/lox/kuhnpoker/internal/config"
	"github.com/lox/kuhnpoker/internal/metrics"
	"github.com/lox/kuhnpoker/solver"
)

// TrainingFlags are shared by train and eval. Zero values defer to the config
// file.
type TrainingFlags struct {
	Iterations    int    `help:"number of CFR iterations (0 uses config, default 10000)" default:"0"`
	Seed          int64  `help:"random seed (0 uses config, default 1)" default:"0"`
	RandomSeed    bool   `help:"seed from the clock instead of a fixed seed"`
	DealMode      string `help:"deal selection per iteration: sampled or enumerate" name:"deal-mode"`
	CFRPlus       bool   `help:"enable CFR+ (clamped regrets with linear averaging)" name:"cfr-plus"`
	ProgressEvery int    `help:"log progress every N iterations (0 => iterations/100)" default:"0"`
}

func (f TrainingFlags) resolve(cfg *config.Config) (solver.TrainingConfig, error) {
	train, err := cfg.TrainingConfig()
	if err != nil {
		return train, err
	}
	if f.Iterations > 0 {
		train.Iterations = f.Iterations
	}
	if f.Seed != 0 {
		train.Seed = f.Seed
	}
	if f.RandomSeed {
		train.Seed = 0
	}
	if f.DealMode != "" {
		mode, err := solver.ParseDealMode(f.DealMode)
		if err != nil {
			return train, err
		}
		train.DealMode = mode
	}
	if f.CFRPlus {
		train.UseCFRPlus = true
	}
	if f.ProgressEvery > 0 {
		train.ProgressEvery = f.ProgressEvery
	}
	return train, train.Validate()
}

// runTraining builds a trainer for flags and runs it to completion, logging
// progress as it goes.
func runTraining(ctx context.Context, flags TrainingFlags, cfg *config.Config, logger zerolog.Logger, opts ...solver.Option) (*solver.Trainer, error) {
	trainCfg, err := flags.resolve(cfg)
	if err != nil {
		return nil, err
	}

	opts = append([]solver.Option{solver.WithLogger(logger)}, opts...)
	trainer, err := solver.NewTrainer(trainCfg, opts...)
	if err != nil {
		return nil, err
	}

	logger.Info().
		Str("run_id", trainer.RunID().String()).
		Int("iterations", trainCfg.Iterations).
		Int64("seed", trainer.Seed()).
		Str("deal_mode", trainCfg.DealMode.String()).
		Bool("cfr_plus", trainCfg.UseCFRPlus).
		Msg("starting training")

	err = trainer.Run(ctx, func(p solver.Progress) {
		logger.Info().
			Int("iteration", p.Iteration).
			Int("total", p.Iterations).
			Int("infosets", p.RegretTableSize).
			Float64("game_value_estimate", p.GameValue).
			Int64("nodes", p.Stats.NodesVisited).
			Dur("elapsed", p.Elapsed).
			Msg("training progress")
	})
	if err != nil {
		return nil, fmt.Errorf("training interrupted at iteration %d: %w", trainer.Iteration(), err)
	}
	return trainer, nil
}

type TrainCmd struct {
	TrainingFlags `embed:""`

	Format      string `help:"output format" enum:"text,json" default:"text"`
	Out         string `help:"write the JSON blueprint to this path" type:"path"`
	MetricsAddr string `help:"serve Prometheus metrics on this address while training" name:"metrics-addr"`
}

func (cmd *TrainCmd) Run(ctx context.Context, cfg *config.Config, logger zerolog.Logger, stdout io.Writer) error {
	var opts []solver.Option
	if cmd.MetricsAddr != "" {
		reg := prometheus.NewRegistry()
		m, err := metrics.NewTraining(reg)
		if err != nil {
			return fmt.Errorf("register metrics: %w", err)
		}
		shutdown, err := serveMetrics(cmd.MetricsAddr, reg, logger)
		if err != nil {
			return err
		}
		defer shutdown()
		opts = append(opts, solver.WithMetrics(m))
	}

	trainer, err := runTraining(ctx, cmd.TrainingFlags, cfg, logger, opts...)
	if err != nil {
		return err
	}
	bp := trainer.Blueprint()

	if cmd.Out != "" {
		if err := bp.WriteFile(cmd.Out); err != nil {
			return fmt.Errorf("write blueprint: %w", err)
		}
		logger.Info().Str("path", cmd.Out).Msg("blueprint written")
	}

	switch cmd.Format {
	case "json":
		return bp.Encode(stdout)
	default:
		return renderStrategy(stdout, trainer.AverageStrategy(), trainer.Iteration())
	}
}

func serveMetrics(addr string, reg *prometheus.Registry, logger zerolog.Logger) (func(), error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen on %s: %w", addr, err)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("metrics server stopped")
		}
	}()
	logger.Info().Str("addr", ln.Addr().String()).Msg("serving metrics")

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}, nil
}
