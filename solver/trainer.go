// Package solver trains Kuhn Poker strategies with counterfactual regret
// minimisation and exposes the resulting average strategy.
package solver

import (
	"context"
	"fmt"
	rand "math/rand/v2"
	"time"

	"github.com/coder/quartz"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/lox/kuhnpoker/internal/metrics"
	"github.com/lox/kuhnpoker/internal/randutil"
	"github.com/lox/kuhnpoker/kuhn"
)

// TraversalStats captures instrumentation metrics for a single CFR iteration.
type TraversalStats struct {
	NodesVisited  int64         `json:"nodes_visited"`
	TerminalNodes int64         `json:"terminal_nodes"`
	MaxDepth      int           `json:"max_depth"`
	IterationTime time.Duration `json:"iteration_time"`
}

// Progress contains metadata emitted during training.
type Progress struct {
	Iteration       int
	Iterations      int
	RegretTableSize int
	GameValue       float64
	Elapsed         time.Duration
	Stats           TraversalStats
}

// Option configures optional Trainer collaborators.
type Option func(*Trainer)

// WithLogger sets the logger used for run lifecycle messages.
func WithLogger(logger zerolog.Logger) Option {
	return func(t *Trainer) {
		t.logger = logger
	}
}

// WithClock replaces the wall clock, mainly so tests can control durations.
func WithClock(clock quartz.Clock) Option {
	return func(t *Trainer) {
		t.clock = clock
	}
}

// WithMetrics records per-iteration metrics into m.
func WithMetrics(m *metrics.Training) Option {
	return func(t *Trainer) {
		t.metrics = m
	}
}

// Trainer runs CFR iterations over Kuhn deals. It owns its regret table and
// random source and must be driven from a single goroutine.
type Trainer struct {
	cfg       TrainingConfig
	regrets   *RegretTable
	iteration int
	rng       *rand.Rand
	rngSeed   int64
	runID     uuid.UUID
	deals     []kuhn.Deal
	stats     TraversalStats

	// Player 1 root utilities, summed over every traversal.
	valueSum   float64
	valueCount int

	clock   quartz.Clock
	logger  zerolog.Logger
	metrics *metrics.Training
}

// NewTrainer validates cfg and constructs a trainer with an empty regret table.
func NewTrainer(cfg TrainingConfig, opts ...Option) (*Trainer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	t := &Trainer{
		cfg:     cfg,
		regrets: NewRegretTable(),
		runID:   uuid.New(),
		clock:   quartz.NewReal(),
		logger:  zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(t)
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = t.clock.Now().UnixNano()
	}
	t.rngSeed = seed
	t.rng = randutil.New(seed)

	if cfg.DealMode == DealModeEnumerate {
		t.deals = kuhn.Deals()
	} else {
		t.deals = make([]kuhn.Deal, 1)
	}
	return t, nil
}

// Train runs CFR for the given number of iterations with the default
// configuration and returns the average strategy.
func Train(ctx context.Context, iterations int, opts ...Option) (StrategyTable, error) {
	cfg := DefaultTrainingConfig()
	cfg.Iterations = iterations
	trainer, err := NewTrainer(cfg, opts...)
	if err != nil {
		return nil, err
	}
	if err := trainer.Run(ctx, nil); err != nil {
		return nil, err
	}
	return trainer.AverageStrategy(), nil
}

// Run executes the remaining iterations. Progress is reported every
// ProgressEvery iterations (iterations/100 when unset) and once at the end.
// Cancelling ctx stops between iterations; completed iterations stay applied.
func (t *Trainer) Run(ctx context.Context, progress func(Progress)) error {
	batch := t.cfg.ProgressEvery
	if batch <= 0 {
		batch = max(t.cfg.Iterations/100, 1)
	}

	start := t.clock.Now()
	t.logger.Debug().
		Str("run_id", t.runID.String()).
		Int("iterations", t.cfg.Iterations).
		Int("resume_iteration", t.iteration).
		Int64("seed", t.rngSeed).
		Str("deal_mode", t.cfg.DealMode.String()).
		Bool("cfr_plus", t.cfg.UseCFRPlus).
		Msg("cfr run starting")

	for t.iteration < t.cfg.Iterations {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		startIter := t.clock.Now()
		stats := t.singleIteration()
		stats.IterationTime = t.clock.Since(startIter)
		t.stats = stats
		t.iteration++

		t.metrics.ObserveIteration(stats.NodesVisited, stats.TerminalNodes, t.regrets.Len(), stats.IterationTime)

		if progress != nil && t.iteration%batch == 0 {
			progress(t.progress(start))
		}
	}

	t.metrics.SetGameValue(t.GameValueEstimate())
	if progress != nil {
		progress(t.progress(start))
	}

	t.logger.Debug().
		Str("run_id", t.runID.String()).
		Int("iteration", t.iteration).
		Int("infosets", t.regrets.Len()).
		Float64("game_value", t.GameValueEstimate()).
		Dur("elapsed", t.clock.Since(start)).
		Msg("cfr run finished")
	return nil
}

func (t *Trainer) progress(start time.Time) Progress {
	return Progress{
		Iteration:       t.iteration,
		Iterations:      t.cfg.Iterations,
		RegretTableSize: t.regrets.Len(),
		GameValue:       t.GameValueEstimate(),
		Elapsed:         t.clock.Since(start),
		Stats:           t.stats,
	}
}

func (t *Trainer) singleIteration() TraversalStats {
	var stats TraversalStats
	ctx := &iterationContext{
		stats:      &stats,
		updateOpts: t.updateOptions(),
	}

	if t.cfg.DealMode == DealModeSampled {
		t.deals[0] = kuhn.SampleDeal(t.rng)
	}

	for _, deal := range t.deals {
		ctx.deal = deal
		for _, player := range kuhn.Players() {
			u := t.traverse(ctx, kuhn.History{}, player, [kuhn.NumPlayers]float64{1, 1})
			if player == kuhn.Player1 {
				t.valueSum += u
				t.valueCount++
			}
		}
	}
	return stats
}

func (t *Trainer) updateOptions() RegretUpdateOptions {
	if !t.cfg.UseCFRPlus {
		return RegretUpdateOptions{}
	}
	return RegretUpdateOptions{
		ClampNegativeRegrets: true,
		LinearAveraging:      true,
		Iteration:            t.iteration + 1,
	}
}

// AverageStrategy materialises the average strategy of every visited info set.
func (t *Trainer) AverageStrategy() StrategyTable {
	table := make(StrategyTable, t.regrets.Len())
	for key, entry := range t.regrets.entries {
		table[key] = entry.AverageStrategy()
	}
	return table
}

// CurrentStrategy returns the regret-matching strategy of the latest iteration.
func (t *Trainer) CurrentStrategy() StrategyTable {
	table := make(StrategyTable, t.regrets.Len())
	for key, entry := range t.regrets.entries {
		table[key] = entry.Strategy()
	}
	return table
}

// GameValueEstimate returns the mean Player 1 root utility over all traversals
// so far. It tracks the current strategies, not the average, so it lags the
// exact GameValue of AverageStrategy.
func (t *Trainer) GameValueEstimate() float64 {
	if t.valueCount == 0 {
		return 0
	}
	return t.valueSum / float64(t.valueCount)
}

// Regrets exposes the trainer's regret table (read-only use).
func (t *Trainer) Regrets() *RegretTable {
	return t.regrets
}

// Stats returns the most recent traversal statistics recorded by the trainer.
func (t *Trainer) Stats() TraversalStats {
	return t.stats
}

func (t *Trainer) TrainingConfig() TrainingConfig {
	return t.cfg
}

func (t *Trainer) Iteration() int {
	return t.iteration
}

// Seed returns the effective seed, which differs from the configured one only
// when that was zero.
func (t *Trainer) Seed() int64 {
	return t.rngSeed
}

func (t *Trainer) RunID() uuid.UUID {
	return t.runID
}

// SetTotalIterations raises or lowers the iteration target. It cannot go below
// the iterations already completed.
func (t *Trainer) SetTotalIterations(n int) error {
	if n < t.iteration {
		return fmt.Errorf("%w: total iterations %d less than completed %d", ErrInvalidConfiguration, n, t.iteration)
	}
	if n <= 0 {
		return fmt.Errorf("%w: iterations must be > 0 (got %d)", ErrInvalidConfiguration, n)
	}
	t.cfg.Iterations = n
	return nil
}

func (t *Trainer) SetProgressEvery(n int) {
	if n < 0 {
		n = 0
	}
	t.cfg.ProgressEvery = n
}
