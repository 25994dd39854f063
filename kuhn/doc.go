// Package kuhn implements the rules of Kuhn Poker.
//
// Kuhn Poker is played with a three-card deck (Jack, Queen, King) by two
// players. Each player antes one chip and receives one card; the third card
// stays hidden. There is a single betting round with a fixed one-chip bet and
// no raises.
//
// # Game Tree
//
// The full tree has five terminal betting sequences:
//
//	Check-Check        showdown, pot 2
//	Bet-Fold           Player 1 wins the antes
//	Bet-Call           showdown, pot 4
//	Check-Bet-Fold     Player 2 wins the antes
//	Check-Bet-Call     showdown, pot 4
//
// History is a small comparable value, so it can be used directly as part of
// a map key:
//
//	h := kuhn.History{}.Append(kuhn.Check).Append(kuhn.Bet)
//	h.Player()       // Player1
//	h.LegalActions() // [Call Fold]
//
// Deals are ordered pairs of distinct cards. Deals enumerates all six of them
// and SampleDeal draws one uniformly with a Fisher-Yates shuffle of the deck.
package kuhn
