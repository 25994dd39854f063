package kuhn

import (
	"fmt"
	"strings"
)

// Card is one of the three ranks in the Kuhn deck. Higher values beat lower ones.
type Card uint8

const (
	Jack Card = iota
	Queen
	King
)

// NumCards is the size of the Kuhn deck.
const NumCards = 3

var (
	cardShortNames = [NumCards]string{"J", "Q", "K"}
	cardNames      = [NumCards]string{"Jack", "Queen", "King"}
)

// Valid reports whether c is one of Jack, Queen or King.
func (c Card) Valid() bool {
	return c < NumCards
}

// String returns the single-letter form used in info-set keys.
func (c Card) String() string {
	if !c.Valid() {
		return fmt.Sprintf("Card(%d)", uint8(c))
	}
	return cardShortNames[c]
}

// Name returns the full rank name.
func (c Card) Name() string {
	if !c.Valid() {
		return c.String()
	}
	return cardNames[c]
}

// Beats reports whether c wins a showdown against other.
func (c Card) Beats(other Card) bool {
	return c > other
}

// Deck returns the three cards in rank order.
func Deck() [NumCards]Card {
	return [NumCards]Card{Jack, Queen, King}
}

// ParseCard accepts "J", "Q", "K" or the full rank name, case-insensitively.
func ParseCard(s string) (Card, error) {
	in := strings.TrimSpace(s)
	for i := range NumCards {
		if strings.EqualFold(in, cardShortNames[i]) || strings.EqualFold(in, cardNames[i]) {
			return Card(i), nil
		}
	}
	return 0, fmt.Errorf("unknown card %q", s)
}
