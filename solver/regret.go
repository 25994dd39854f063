package solver

import (
	"fmt"
	"sort"

	"github.com/lox/kuhnpoker/kuhn"
)

// InfoSetKey identifies what the acting player can observe: their own card and
// the public betting history. Deals that agree on both are indistinguishable to
// that player, so the opponent's card never appears here.
type InfoSetKey struct {
	Card    kuhn.Card
	History kuhn.History
}

// NewInfoSetKey returns the key for whoever acts at h under deal.
func NewInfoSetKey(deal kuhn.Deal, h kuhn.History) InfoSetKey {
	return InfoSetKey{Card: deal.Card(h.Player()), History: h}
}

// Player returns the player who acts at this information set.
func (k InfoSetKey) Player() kuhn.Player {
	return k.History.Player()
}

// Actions returns the legal actions at this information set.
func (k InfoSetKey) Actions() []kuhn.Action {
	return k.History.LegalActions()
}

// String renders "Q" at the root and "K-Check-Bet" elsewhere.
func (k InfoSetKey) String() string {
	if k.History.Len() == 0 {
		return k.Card.String()
	}
	return k.Card.String() + "-" + k.History.String()
}

// RegretEntry accumulates regrets and strategy sums for one information set.
// Slices are indexed like the key's legal actions.
type RegretEntry struct {
	RegretSum   []float64
	StrategySum []float64
}

// RegretUpdateOptions configures how regrets and strategy sums are accumulated.
type RegretUpdateOptions struct {
	ClampNegativeRegrets bool
	LinearAveraging      bool
	Iteration            int
}

func newRegretEntry(n int) *RegretEntry {
	return &RegretEntry{
		RegretSum:   make([]float64, n),
		StrategySum: make([]float64, n),
	}
}

// NumActions returns the number of actions tracked.
func (e *RegretEntry) NumActions() int {
	return len(e.RegretSum)
}

// RegretMatching converts cumulative regrets into a strategy: each action is
// played in proportion to its positive regret, or uniformly when no regret is
// positive. It does not modify regrets.
func RegretMatching(regrets []float64) []float64 {
	strat := make([]float64, len(regrets))
	if len(strat) == 0 {
		return strat
	}
	total := 0.0
	for i, r := range regrets {
		if r > 0 {
			strat[i] = r
			total += r
		}
	}
	if total <= 0 {
		v := 1.0 / float64(len(strat))
		for i := range strat {
			strat[i] = v
		}
		return strat
	}
	for i := range strat {
		strat[i] /= total
	}
	return strat
}

// Strategy returns the current regret-matching distribution for the node.
func (e *RegretEntry) Strategy() []float64 {
	return RegretMatching(e.RegretSum)
}

// Update adds instantaneous regrets and the reach-weighted strategy. reachWeight
// must be non-negative so strategy sums never decrease.
func (e *RegretEntry) Update(regret []float64, strategy []float64, reachWeight float64, opts RegretUpdateOptions) {
	iterWeight := 1.0
	if opts.LinearAveraging {
		iter := opts.Iteration
		if iter <= 0 {
			iter = 1
		}
		iterWeight = float64(iter)
	}
	weight := reachWeight * iterWeight
	for i := range regret {
		e.RegretSum[i] += regret[i]
		if opts.ClampNegativeRegrets && e.RegretSum[i] < 0 {
			e.RegretSum[i] = 0
		}
		e.StrategySum[i] += weight * strategy[i]
	}
}

// AverageStrategy returns the normalised strategy sums, or uniform if the node
// never accumulated any weight.
func (e *RegretEntry) AverageStrategy() []float64 {
	strat := make([]float64, len(e.StrategySum))
	if len(strat) == 0 {
		return strat
	}
	total := 0.0
	for _, s := range e.StrategySum {
		total += s
	}
	if total <= 0 {
		v := 1.0 / float64(len(strat))
		for i := range strat {
			strat[i] = v
		}
		return strat
	}
	for i, s := range e.StrategySum {
		strat[i] = s / total
	}
	return strat
}

// RegretTable owns every RegretEntry for a training run. Entries are created
// on first lookup and never removed. It is not safe for concurrent use.
type RegretTable struct {
	entries map[InfoSetKey]*RegretEntry
}

// NewRegretTable returns an empty regret table ready for use.
func NewRegretTable() *RegretTable {
	return &RegretTable{entries: make(map[InfoSetKey]*RegretEntry)}
}

// Get returns the entry for key, creating zeroed accumulators for actionCount
// actions on first access. The legal action set of a key never changes, so a
// different actionCount for an existing key is a programming error.
func (t *RegretTable) Get(key InfoSetKey, actionCount int) *RegretEntry {
	if entry, ok := t.entries[key]; ok {
		if entry.NumActions() != actionCount {
			panic(fmt.Errorf("regret entry %s has n_actions=%d but node has %d",
				key, entry.NumActions(), actionCount))
		}
		return entry
	}
	entry := newRegretEntry(actionCount)
	t.entries[key] = entry
	return entry
}

// Lookup returns the entry for key without creating it.
func (t *RegretTable) Lookup(key InfoSetKey) (*RegretEntry, bool) {
	entry, ok := t.entries[key]
	return entry, ok
}

// Len returns the number of info sets tracked.
func (t *RegretTable) Len() int {
	return len(t.entries)
}

// Keys returns every tracked key in string order.
func (t *RegretTable) Keys() []InfoSetKey {
	keys := make([]InfoSetKey, 0, len(t.entries))
	for k := range t.entries {
		keys = append(keys, k)
	}
	sortKeys(keys)
	return keys
}

func sortKeys(keys []InfoSetKey) {
	sort.Slice(keys, func(i, j int) bool {
		return keys[i].String() < keys[j].String()
	})
}
