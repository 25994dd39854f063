package simulator

import (
	"context"
	"errors"
	"math"
	rand "math/rand/v2"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/kuhnpoker/internal/randutil"
	"github.com/lox/kuhnpoker/kuhn"
	"github.com/lox/kuhnpoker/solver"
	"github.com/lox/kuhnpoker/solver/runtime"
)

// passivePolicy checks whenever it can and calls otherwise.
type passivePolicy struct{}

func (passivePolicy) Act(_ kuhn.Deal, h kuhn.History, _ *rand.Rand) (kuhn.Action, error) {
	if h.IsLegal(kuhn.Check) {
		return kuhn.Check, nil
	}
	return kuhn.Call, nil
}

type failingPolicy struct{ err error }

func (p failingPolicy) Act(kuhn.Deal, kuhn.History, *rand.Rand) (kuhn.Action, error) {
	return 0, p.err
}

// equilibriumTable is the alpha = 1/6 Nash equilibrium.
func equilibriumTable(t *testing.T) solver.StrategyTable {
	t.Helper()
	const alpha = 1.0 / 6
	h := func(s string) kuhn.History {
		hist, err := kuhn.ParseHistory(s)
		require.NoError(t, err)
		return hist
	}
	return solver.StrategyTable{
		{Card: kuhn.Jack}:                            {1 - alpha, alpha},
		{Card: kuhn.Queen}:                           {1, 0},
		{Card: kuhn.King}:                            {1 - 3*alpha, 3 * alpha},
		{Card: kuhn.Jack, History: h("Check-Bet")}:   {0, 1},
		{Card: kuhn.Queen, History: h("Check-Bet")}:  {alpha + 1.0/3, 1 - alpha - 1.0/3},
		{Card: kuhn.King, History: h("Check-Bet")}:   {1, 0},
		{Card: kuhn.Jack, History: h("Check")}:       {2.0 / 3, 1.0 / 3},
		{Card: kuhn.Queen, History: h("Check")}:      {1, 0},
		{Card: kuhn.King, History: h("Check")}:       {0, 1},
		{Card: kuhn.Jack, History: h("Bet")}:         {0, 1},
		{Card: kuhn.Queen, History: h("Bet")}:        {1.0 / 3, 2.0 / 3},
		{Card: kuhn.King, History: h("Bet")}:         {1, 0},
	}
}

func TestRunValidatesConfig(t *testing.T) {
	ctx := context.Background()

	_, err := Run(ctx, Config{Deals: 0}, passivePolicy{})
	require.ErrorIs(t, err, ErrInvalidConfig)

	_, err = Run(ctx, Config{Deals: 10, Workers: -1}, passivePolicy{})
	require.ErrorIs(t, err, ErrInvalidConfig)

	_, err = Run(ctx, Config{Deals: 10}, nil)
	require.ErrorIs(t, err, ErrInvalidConfig)
}

func TestRunPassivePolicyAlwaysShowsDown(t *testing.T) {
	stats, err := Run(context.Background(), Config{Deals: 3000, Seed: 5, Workers: 3}, passivePolicy{})
	require.NoError(t, err)
	require.NoError(t, stats.Validate())

	assert.Equal(t, 3000, stats.Hands)
	assert.Equal(t, 0, stats.NonShowdownWins)
	assert.Equal(t, 2, stats.MaxPot)

	checkCheck, err := kuhn.NewHistory(kuhn.Check, kuhn.Check)
	require.NoError(t, err)
	assert.Equal(t, 1.0, stats.TerminalFrequency(checkCheck))

	assert.Equal(t, -1.0, stats.CardMean(kuhn.Jack))
	assert.Equal(t, 1.0, stats.CardMean(kuhn.King))
}

func TestRunIsDeterministic(t *testing.T) {
	policy := runtime.New(equilibriumTable(t))
	cfg := Config{Deals: 5000, Seed: 99, Workers: 4}

	a, err := Run(context.Background(), cfg, policy)
	require.NoError(t, err)
	b, err := Run(context.Background(), cfg, policy)
	require.NoError(t, err)
	assert.Equal(t, a, b)

	cfg.Seed = 100
	c, err := Run(context.Background(), cfg, policy)
	require.NoError(t, err)
	assert.NotEqual(t, a.SumNet, c.SumNet)
}

func TestRunDistributesRemainder(t *testing.T) {
	stats, err := Run(context.Background(), Config{Deals: 10, Seed: 1, Workers: 4}, passivePolicy{})
	require.NoError(t, err)
	assert.Equal(t, 10, stats.Hands)

	stats, err = Run(context.Background(), Config{Deals: 2, Seed: 1, Workers: 8}, passivePolicy{})
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Hands)
}

func TestRunEquilibriumMatchesExactValue(t *testing.T) {
	table := equilibriumTable(t)
	exact := solver.GameValue(table)
	require.InDelta(t, -1.0/18, exact, 1e-9)

	stats, err := Run(context.Background(), Config{Deals: 200000, Seed: 2024}, runtime.New(table))
	require.NoError(t, err)
	require.NoError(t, stats.Validate())

	assert.Less(t, math.Abs(stats.Mean()-exact), 4*stats.StdError())
}

func TestRunPropagatesPolicyErrors(t *testing.T) {
	boom := errors.New("boom")
	_, err := Run(context.Background(), Config{Deals: 10, Workers: 2}, failingPolicy{err: boom})
	require.ErrorIs(t, err, boom)
}

func TestRunHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Run(ctx, Config{Deals: 100, Workers: 2}, passivePolicy{})
	require.ErrorIs(t, err, context.Canceled)
}

func TestPlayHandRecordsOutcome(t *testing.T) {
	deal, err := kuhn.NewDeal(kuhn.Queen, kuhn.Jack)
	require.NoError(t, err)

	result, err := PlayHand(deal, passivePolicy{}, randutil.New(1))
	require.NoError(t, err)
	assert.Equal(t, 1.0, result.Net)
	assert.True(t, result.Showdown)
	assert.Equal(t, 2, result.Pot)
	assert.Equal(t, "Check-Check", result.History.String())
}

func TestWriteSummary(t *testing.T) {
	stats, err := Run(context.Background(), Config{Deals: 100, Seed: 3, Workers: 1}, passivePolicy{})
	require.NoError(t, err)

	var sb strings.Builder
	require.NoError(t, WriteSummary(&sb, stats))
	out := sb.String()
	assert.Contains(t, out, "Hands played: 100")
	assert.Contains(t, out, "95% CI")
	assert.Contains(t, out, "Check-Check")
}
