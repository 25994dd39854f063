package simulator

import (
	"context"
	"errors"
	"fmt"
	"io"
	rand "math/rand/v2"
	"runtime"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/lox/kuhnpoker/internal/randutil"
	"github.com/lox/kuhnpoker/internal/statistics"
	"github.com/lox/kuhnpoker/kuhn"
)

// ErrInvalidConfig is wrapped by every Config validation error.
var ErrInvalidConfig = errors.New("invalid simulator config")

const (
	maxDefaultWorkers = 8
	// Hands between context checks inside a worker.
	cancelCheckInterval = 1024
)

// Policy chooses an action for the player to move at h.
type Policy interface {
	Act(deal kuhn.Deal, h kuhn.History, rng *rand.Rand) (kuhn.Action, error)
}

// Config holds configuration for running simulations
type Config struct {
	Deals   int
	Seed    int64
	Workers int // 0 selects min(NumCPU, 8)
	Logger  zerolog.Logger
}

func (c Config) validate() error {
	if c.Deals <= 0 {
		return fmt.Errorf("%w: deals must be > 0 (got %d)", ErrInvalidConfig, c.Deals)
	}
	if c.Workers < 0 {
		return fmt.Errorf("%w: workers cannot be negative (got %d)", ErrInvalidConfig, c.Workers)
	}
	return nil
}

func (c Config) workerCount() int {
	workers := c.Workers
	if workers == 0 {
		workers = min(runtime.NumCPU(), maxDefaultWorkers)
	}
	return max(min(workers, c.Deals), 1)
}

// Simulator plays a strategy profile against itself over many random deals.
type Simulator struct {
	config Config
	policy Policy
}

// New creates a new simulator with the given configuration
func New(config Config, policy Policy) *Simulator {
	return &Simulator{config: config, policy: policy}
}

// Run is a convenience wrapper for New(config, policy).Run(ctx).
func Run(ctx context.Context, config Config, policy Policy) (*statistics.Statistics, error) {
	return New(config, policy).Run(ctx)
}

// Run splits the deals across workers, each with its own generator derived
// from the seed, and merges their statistics in worker order. Results are
// reproducible for a fixed seed and worker count.
func (s *Simulator) Run(ctx context.Context) (*statistics.Statistics, error) {
	if err := s.config.validate(); err != nil {
		return nil, err
	}
	if s.policy == nil {
		return nil, fmt.Errorf("%w: policy is required", ErrInvalidConfig)
	}

	workers := s.config.workerCount()
	seeds := randutil.Seeds(s.config.Seed, workers)
	perWorker := s.config.Deals / workers
	remainder := s.config.Deals % workers

	s.config.Logger.Debug().
		Int("deals", s.config.Deals).
		Int("workers", workers).
		Int64("seed", s.config.Seed).
		Msg("simulation starting")

	results := make([]*statistics.Statistics, workers)
	g, gctx := errgroup.WithContext(ctx)
	for w := range workers {
		deals := perWorker
		if w < remainder {
			deals++
		}
		rng := randutil.New(seeds[w])
		g.Go(func() error {
			stats, err := s.runWorker(gctx, deals, rng)
			if err != nil {
				return fmt.Errorf("worker %d: %w", w, err)
			}
			results[w] = stats
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	total := &statistics.Statistics{}
	for _, r := range results {
		total.Merge(r)
	}

	s.config.Logger.Debug().
		Int("hands", total.Hands).
		Float64("mean", total.Mean()).
		Msg("simulation finished")
	return total, nil
}

func (s *Simulator) runWorker(ctx context.Context, deals int, rng *rand.Rand) (*statistics.Statistics, error) {
	stats := &statistics.Statistics{}
	for i := range deals {
		if i%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		result, err := PlayHand(kuhn.SampleDeal(rng), s.policy, rng)
		if err != nil {
			return nil, err
		}
		stats.Add(result)
	}
	return stats, nil
}

// PlayHand plays one hand of deal with both seats driven by policy and
// reports the outcome from Player 1's side.
func PlayHand(deal kuhn.Deal, policy Policy, rng *rand.Rand) (statistics.HandResult, error) {
	var h kuhn.History
	for !h.IsTerminal() {
		act, err := policy.Act(deal, h, rng)
		if err != nil {
			return statistics.HandResult{}, fmt.Errorf("deal %s at %q: %w", deal, h, err)
		}
		h, err = h.Play(act)
		if err != nil {
			return statistics.HandResult{}, fmt.Errorf("deal %s: %w", deal, err)
		}
	}
	return statistics.HandResult{
		Net:      float64(deal.Payoff(h, kuhn.Player1)),
		Deal:     deal,
		History:  h,
		Showdown: h.IsShowdown(),
		Pot:      h.Pot(),
	}, nil
}

// WriteSummary writes a plain-text report of stats to w.
func WriteSummary(w io.Writer, stats *statistics.Statistics) error {
	low, high := stats.ConfidenceInterval95()
	lines := []string{
		fmt.Sprintf("Hands played: %d", stats.Hands),
		fmt.Sprintf("Mean: %.4f chips/hand (Player 1)", stats.Mean()),
		fmt.Sprintf("Std Dev: %.4f", stats.StdDev()),
		fmt.Sprintf("95%% CI: [%.4f, %.4f]", low, high),
		fmt.Sprintf("Winning hands: %d showdown, %d by fold", stats.ShowdownWins, stats.NonShowdownWins),
	}
	for _, card := range kuhn.Deck() {
		lines = append(lines, fmt.Sprintf("  %s: %.4f chips/hand", card.Name(), stats.CardMean(card)))
	}
	for _, h := range stats.SortedTerminals() {
		lines = append(lines, fmt.Sprintf("  %-14s %6.2f%%", h, 100*stats.TerminalFrequency(h)))
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
