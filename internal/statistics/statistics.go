package statistics

import (
	"fmt"
	"math"
	"sort"

	"github.com/lox/kuhnpoker/kuhn"
)

// HandResult represents the outcome of a single simulated Kuhn hand, seen
// from Player 1.
type HandResult struct {
	Net      float64      // Net chips won by Player 1
	Deal     kuhn.Deal    // Cards dealt
	History  kuhn.History // Terminal betting sequence
	Showdown bool         // Was the hand decided by comparing cards?
	Pot      int          // Final pot size in chips
}

// CardStats tracks results for one of Player 1's hole cards.
type CardStats struct {
	Hands  int
	SumNet float64
	SumSq  float64
}

// Statistics accumulates simulated hand results.
type Statistics struct {
	Hands  int
	SumNet float64
	SumSq  float64 // Sum of squares for variance calculation

	ShowdownWins    int     // Hands Player 1 won at showdown
	NonShowdownWins int     // Hands Player 1 won by fold
	ShowdownNet     float64 // Net from showdowns (wins AND losses)
	NonShowdownNet  float64 // Net from folds (wins AND losses)
	AllNet          float64 // Total net for ledger checks

	CardResults [kuhn.NumCards]CardStats
	Terminals   map[kuhn.History]int

	MaxPot int
}

// Mean returns the average net chips per hand for Player 1.
func (s *Statistics) Mean() float64 {
	if s.Hands == 0 {
		return 0
	}
	return s.SumNet / float64(s.Hands)
}

// Variance returns the sample variance of all results
func (s *Statistics) Variance() float64 {
	if s.Hands < 2 {
		return 0
	}
	mean := s.Mean()
	v := (s.SumSq - float64(s.Hands)*mean*mean) / float64(s.Hands-1)
	if v < 0 {
		return 0
	}
	return v
}

// StdDev returns the sample standard deviation of all results
func (s *Statistics) StdDev() float64 {
	return math.Sqrt(s.Variance())
}

// StdError returns the standard error of the mean
func (s *Statistics) StdError() float64 {
	if s.Hands == 0 {
		return 0
	}
	return s.StdDev() / math.Sqrt(float64(s.Hands))
}

// ConfidenceInterval95 returns the 95% confidence interval for the mean
func (s *Statistics) ConfidenceInterval95() (float64, float64) {
	mean := s.Mean()
	margin := 1.96 * s.StdError()
	return mean - margin, mean + margin
}

// Add incorporates a new hand result into the statistics
func (s *Statistics) Add(result HandResult) {
	net := result.Net
	s.Hands++
	s.SumNet += net
	s.SumSq += net * net

	if net > 0 {
		if result.Showdown {
			s.ShowdownWins++
		} else {
			s.NonShowdownWins++
		}
	}

	if result.Showdown {
		s.ShowdownNet += net
	} else {
		s.NonShowdownNet += net
	}
	s.AllNet += net

	if card := result.Deal.Card(kuhn.Player1); card.Valid() {
		cs := &s.CardResults[card]
		cs.Hands++
		cs.SumNet += net
		cs.SumSq += net * net
	}

	if s.Terminals == nil {
		s.Terminals = make(map[kuhn.History]int)
	}
	s.Terminals[result.History]++

	if result.Pot > s.MaxPot {
		s.MaxPot = result.Pot
	}
}

// Merge folds other into s. Merging in a fixed order keeps float sums
// reproducible.
func (s *Statistics) Merge(other *Statistics) {
	if other == nil {
		return
	}
	s.Hands += other.Hands
	s.SumNet += other.SumNet
	s.SumSq += other.SumSq
	s.ShowdownWins += other.ShowdownWins
	s.NonShowdownWins += other.NonShowdownWins
	s.ShowdownNet += other.ShowdownNet
	s.NonShowdownNet += other.NonShowdownNet
	s.AllNet += other.AllNet
	for i := range s.CardResults {
		s.CardResults[i].Hands += other.CardResults[i].Hands
		s.CardResults[i].SumNet += other.CardResults[i].SumNet
		s.CardResults[i].SumSq += other.CardResults[i].SumSq
	}
	if len(other.Terminals) > 0 && s.Terminals == nil {
		s.Terminals = make(map[kuhn.History]int, len(other.Terminals))
	}
	for h, n := range other.Terminals {
		s.Terminals[h] += n
	}
	if other.MaxPot > s.MaxPot {
		s.MaxPot = other.MaxPot
	}
}

// CardMean returns Player 1's mean result when holding card.
func (s *Statistics) CardMean(card kuhn.Card) float64 {
	if !card.Valid() {
		return 0
	}
	cs := s.CardResults[card]
	if cs.Hands == 0 {
		return 0
	}
	return cs.SumNet / float64(cs.Hands)
}

// TerminalFrequency returns the share of hands that ended at h.
func (s *Statistics) TerminalFrequency(h kuhn.History) float64 {
	if s.Hands == 0 {
		return 0
	}
	return float64(s.Terminals[h]) / float64(s.Hands)
}

// SortedTerminals returns the observed terminal histories in string order.
func (s *Statistics) SortedTerminals() []kuhn.History {
	out := make([]kuhn.History, 0, len(s.Terminals))
	for h := range s.Terminals {
		out = append(out, h)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].String() < out[j].String()
	})
	return out
}

// IsLedgerBalanced checks if the accounting is consistent
func (s *Statistics) IsLedgerBalanced() bool {
	return math.Abs(s.AllNet-s.ShowdownNet-s.NonShowdownNet) <= 1e-6
}

// Validate performs comprehensive validation of statistics data
func (s *Statistics) Validate() error {
	if !s.IsLedgerBalanced() {
		return fmt.Errorf("ledger mismatch: AllNet=%.6f, ShowdownNet=%.6f, NonShowdownNet=%.6f",
			s.AllNet, s.ShowdownNet, s.NonShowdownNet)
	}

	if s.Hands <= 0 {
		return fmt.Errorf("invalid hands count: %d", s.Hands)
	}

	totalWins := s.ShowdownWins + s.NonShowdownWins
	if totalWins > s.Hands {
		return fmt.Errorf("total wins (%d) exceeds total hands (%d)", totalWins, s.Hands)
	}

	cardHands := 0
	for _, cs := range s.CardResults {
		cardHands += cs.Hands
	}
	if cardHands != s.Hands {
		return fmt.Errorf("card hands total (%d) does not match total hands (%d)", cardHands, s.Hands)
	}

	terminalHands := 0
	for _, n := range s.Terminals {
		terminalHands += n
	}
	if terminalHands != s.Hands {
		return fmt.Errorf("terminal hands total (%d) does not match total hands (%d)", terminalHands, s.Hands)
	}

	return nil
}
