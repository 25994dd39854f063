// Package runtime samples actions from a finished strategy table.
package runtime

import (
	"errors"
	"fmt"
	rand "math/rand/v2"

	"github.com/lox/kuhnpoker/kuhn"
	"github.com/lox/kuhnpoker/solver"
)

var (
	errNilPolicy   = errors.New("nil policy")
	errTerminalKey = errors.New("no actions at terminal history")
)

// Policy gives read-only access to a strategy table. It is safe for
// concurrent use as long as the table is not modified.
type Policy struct {
	table solver.StrategyTable
}

// New wraps table. The table must not be mutated afterwards.
func New(table solver.StrategyTable) *Policy {
	return &Policy{table: table}
}

// Table returns the underlying strategy table (read-only).
func (p *Policy) Table() solver.StrategyTable {
	if p == nil {
		return nil
	}
	return p.table
}

// ActionWeights returns the distribution for key aligned with key.Actions().
// Keys missing from the table get a uniform distribution.
func (p *Policy) ActionWeights(key solver.InfoSetKey) ([]float64, error) {
	if p == nil {
		return nil, errNilPolicy
	}
	n := len(key.Actions())
	if n == 0 {
		return nil, fmt.Errorf("%w: %s", errTerminalKey, key)
	}

	out := make([]float64, n)
	strat, ok := p.table[key]
	if !ok || len(strat) != n {
		for i := range out {
			out[i] = 1.0 / float64(n)
		}
		return out, nil
	}
	copy(out, strat)
	return out, nil
}

// Sample draws an action for key from its distribution.
func (p *Policy) Sample(key solver.InfoSetKey, rng *rand.Rand) (kuhn.Action, error) {
	weights, err := p.ActionWeights(key)
	if err != nil {
		return 0, err
	}
	return key.Actions()[sampleIndex(weights, rng)], nil
}

// Act samples the action for whoever is to move at h under deal.
func (p *Policy) Act(deal kuhn.Deal, h kuhn.History, rng *rand.Rand) (kuhn.Action, error) {
	return p.Sample(solver.NewInfoSetKey(deal, h), rng)
}

func sampleIndex(weights []float64, rng *rand.Rand) int {
	total := 0.0
	for _, w := range weights {
		if w > 0 {
			total += w
		}
	}
	if total <= 0 {
		return rng.IntN(len(weights))
	}
	r := rng.Float64() * total
	acc := 0.0
	last := 0
	for i, w := range weights {
		if w <= 0 {
			continue
		}
		acc += w
		last = i
		if r < acc {
			return i
		}
	}
	return last
}
