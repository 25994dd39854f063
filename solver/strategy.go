package solver

import (
	"github.com/lox/kuhnpoker/kuhn"
)

// StrategyTable maps information sets to action distributions. Each
// distribution is aligned with key.Actions().
type StrategyTable map[InfoSetKey][]float64

// Len returns the number of information sets in the table.
func (s StrategyTable) Len() int {
	return len(s)
}

// Keys returns the table's keys ordered by card, then history.
func (s StrategyTable) Keys() []InfoSetKey {
	keys := make([]InfoSetKey, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sortKeys(keys)
	return keys
}

// Distribution returns the probabilities for key. Keys the table has never
// seen get a uniform distribution over their legal actions, and terminal keys
// get nil.
func (s StrategyTable) Distribution(key InfoSetKey) []float64 {
	if dist, ok := s[key]; ok {
		return dist
	}
	actions := key.Actions()
	if len(actions) == 0 {
		return nil
	}
	dist := make([]float64, len(actions))
	for i := range dist {
		dist[i] = 1.0 / float64(len(actions))
	}
	return dist
}

// Probability returns the probability of playing action at key, or zero when
// the action is not legal there.
func (s StrategyTable) Probability(key InfoSetKey, action kuhn.Action) float64 {
	dist := s.Distribution(key)
	for i, a := range key.Actions() {
		if a == action && i < len(dist) {
			return dist[i]
		}
	}
	return 0
}

// GameValue returns the exact expected payoff to Player 1 when both players
// follow table, averaged over the six equally likely deals.
func GameValue(table StrategyTable) float64 {
	deals := kuhn.Deals()
	total := 0.0
	for _, deal := range deals {
		total += expectedPayoff(table, deal, kuhn.History{})
	}
	return total / float64(len(deals))
}

func expectedPayoff(table StrategyTable, deal kuhn.Deal, h kuhn.History) float64 {
	if h.IsTerminal() {
		return float64(deal.Payoff(h, kuhn.Player1))
	}
	dist := table.Distribution(NewInfoSetKey(deal, h))
	value := 0.0
	for i, act := range h.LegalActions() {
		if dist[i] == 0 {
			continue
		}
		value += dist[i] * expectedPayoff(table, deal, h.Append(act))
	}
	return value
}
