package solver

import (
	"github.com/lox/kuhnpoker/kuhn"
)

type iterationContext struct {
	deal       kuhn.Deal
	stats      *TraversalStats
	updateOpts RegretUpdateOptions
}

// traverse walks the subtree below h for one deal and returns its expected
// utility to target. reach holds each player's probability of playing to h.
//
// Utilities are kept in target's frame throughout, so the zero-sum negation
// happens in Payoff rather than at every node. Regrets and strategy sums are
// only written at target's own information sets.
func (t *Trainer) traverse(ctx *iterationContext, h kuhn.History, target kuhn.Player, reach [kuhn.NumPlayers]float64) float64 {
	if ctx.stats != nil {
		ctx.stats.NodesVisited++
		if depth := h.Len(); depth > ctx.stats.MaxDepth {
			ctx.stats.MaxDepth = depth
		}
	}

	if h.IsTerminal() {
		if ctx.stats != nil {
			ctx.stats.TerminalNodes++
		}
		return float64(ctx.deal.Payoff(h, target))
	}

	actor := h.Player()
	key := NewInfoSetKey(ctx.deal, h)
	actions := h.LegalActions()
	entry := t.regrets.Get(key, len(actions))
	strategy := entry.Strategy()

	var util [kuhn.MaxActions]float64
	nodeUtil := 0.0
	for i, act := range actions {
		next := reach
		next[actor] *= strategy[i]
		util[i] = t.traverse(ctx, h.Append(act), target, next)
		nodeUtil += strategy[i] * util[i]
	}

	if actor == target {
		var regrets [kuhn.MaxActions]float64
		opponentReach := reach[actor.Other()]
		for i := range actions {
			regrets[i] = (util[i] - nodeUtil) * opponentReach
		}
		entry.Update(regrets[:len(actions)], strategy, reach[actor], ctx.updateOpts)
	}
	return nodeUtil
}
