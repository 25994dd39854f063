package kuhn

import (
	"fmt"
	rand "math/rand/v2"
)

// Deal assigns one card to each player, indexed by Player. The remaining card
// is never seen.
type Deal [NumPlayers]Card

// NewDeal validates that both cards are real and distinct.
func NewDeal(p1, p2 Card) (Deal, error) {
	if !p1.Valid() || !p2.Valid() {
		return Deal{}, fmt.Errorf("invalid deal %s/%s", p1, p2)
	}
	if p1 == p2 {
		return Deal{}, fmt.Errorf("invalid deal %s/%s: cards must differ", p1, p2)
	}
	return Deal{p1, p2}, nil
}

// Deals returns the six ordered deals, Player 1's card varying slowest.
func Deals() []Deal {
	out := make([]Deal, 0, NumCards*(NumCards-1))
	for _, c1 := range Deck() {
		for _, c2 := range Deck() {
			if c1 != c2 {
				out = append(out, Deal{c1, c2})
			}
		}
	}
	return out
}

// SampleDeal shuffles the deck with Fisher-Yates and deals the first two cards,
// so each of the six ordered deals is equally likely.
func SampleDeal(rng *rand.Rand) Deal {
	deck := Deck()
	for i := len(deck) - 1; i > 0; i-- {
		j := rng.IntN(i + 1)
		deck[i], deck[j] = deck[j], deck[i]
	}
	return Deal{deck[0], deck[1]}
}

// Card returns the private card held by p.
func (d Deal) Card(p Player) Card {
	return d[p]
}

// Unseen returns the card left in the deck.
func (d Deal) Unseen() Card {
	return Card(int(Jack+Queen+King) - int(d[0]) - int(d[1]))
}

// ShowdownWinner returns the player holding the higher card.
func (d Deal) ShowdownWinner() Player {
	if d[Player1].Beats(d[Player2]) {
		return Player1
	}
	return Player2
}

// Winner returns who takes the pot at a terminal history.
func (d Deal) Winner(h History) Player {
	if folder, ok := h.Folder(); ok {
		return folder.Other()
	}
	return d.ShowdownWinner()
}

// Payoff returns the net chips won by p at terminal history h. The game is
// zero-sum: Payoff(h, Player1) == -Payoff(h, Player2). It panics when h is not
// terminal.
func (d Deal) Payoff(h History, p Player) int {
	if !h.IsTerminal() {
		panic(fmt.Sprintf("kuhn: payoff requested for non-terminal history %q", h.String()))
	}
	winner := d.Winner(h)
	if p == winner {
		return h.Contribution(winner.Other())
	}
	return -h.Contribution(p)
}

func (d Deal) String() string {
	return d[Player1].String() + d[Player2].String()
}
