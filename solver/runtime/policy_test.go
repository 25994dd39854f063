package runtime

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/kuhnpoker/internal/randutil"
	"github.com/lox/kuhnpoker/kuhn"
	"github.com/lox/kuhnpoker/solver"
)

func TestPolicyActionWeightsErrors(t *testing.T) {
	var p *Policy
	_, err := p.ActionWeights(solver.InfoSetKey{Card: kuhn.Jack})
	require.Error(t, err)

	p = New(solver.StrategyTable{})
	terminal, err := kuhn.NewHistory(kuhn.Bet, kuhn.Fold)
	require.NoError(t, err)
	_, err = p.ActionWeights(solver.InfoSetKey{Card: kuhn.Jack, History: terminal})
	require.Error(t, err)
}

func TestPolicyActionWeightsUniformFallback(t *testing.T) {
	key := solver.InfoSetKey{Card: kuhn.Queen}
	p := New(solver.StrategyTable{key: {0.8, 0.2}})

	weights, err := p.ActionWeights(key)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{0.8, 0.2}, weights, 1e-12)

	weights[0] = 0
	again, err := p.ActionWeights(key)
	require.NoError(t, err)
	assert.InDelta(t, 0.8, again[0], 1e-12, "returned slice must be a copy")

	missing, err := p.ActionWeights(solver.InfoSetKey{Card: kuhn.King})
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{0.5, 0.5}, missing, 1e-12)
}

func TestPolicySampleDeterministicDistribution(t *testing.T) {
	key := solver.InfoSetKey{Card: kuhn.King}
	p := New(solver.StrategyTable{key: {0, 1}})
	rng := randutil.New(7)

	for range 100 {
		act, err := p.Sample(key, rng)
		require.NoError(t, err)
		assert.Equal(t, kuhn.Bet, act)
	}
}

func TestPolicySampleFrequencies(t *testing.T) {
	afterBet, err := kuhn.NewHistory(kuhn.Bet)
	require.NoError(t, err)
	key := solver.InfoSetKey{Card: kuhn.Queen, History: afterBet}
	p := New(solver.StrategyTable{key: {0.25, 0.75}})
	rng := randutil.New(11)

	const draws = 40000
	calls := 0
	for range draws {
		act, err := p.Sample(key, rng)
		require.NoError(t, err)
		if act == kuhn.Call {
			calls++
		} else {
			require.Equal(t, kuhn.Fold, act)
		}
	}
	assert.InDelta(t, 0.25, float64(calls)/draws, 0.015)
}

func TestPolicyActUsesActorsCard(t *testing.T) {
	afterCheck, err := kuhn.NewHistory(kuhn.Check)
	require.NoError(t, err)
	deal, err := kuhn.NewDeal(kuhn.Jack, kuhn.King)
	require.NoError(t, err)

	p := New(solver.StrategyTable{
		{Card: kuhn.King, History: afterCheck}: {0, 1},
		{Card: kuhn.Jack, History: afterCheck}: {1, 0},
	})
	act, err := p.Act(deal, afterCheck, randutil.New(3))
	require.NoError(t, err)
	assert.Equal(t, kuhn.Bet, act)
}
