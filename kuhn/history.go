package kuhn

import (
	"errors"
	"fmt"
	"strings"
)

// MaxHistory is the length of the longest betting sequence (Check-Bet-Call).
const MaxHistory = 3

// Ante is the chip each player posts before the deal; BetSize is the fixed bet.
const (
	Ante    = 1
	BetSize = 1
)

// ErrIllegalAction is returned when an action is not legal after a history.
var ErrIllegalAction = errors.New("illegal action")

// Legal action sets. Callers must treat these as read-only.
var (
	openingActions   = []Action{Check, Bet}
	facingBetActions = []Action{Call, Fold}
)

// History is the public betting sequence since the deal. The zero value is the
// empty history at the root of the game tree.
type History struct {
	actions [MaxHistory]Action
	n       uint8
}

// NewHistory builds a history, rejecting any illegal step.
func NewHistory(actions ...Action) (History, error) {
	var h History
	for _, a := range actions {
		next, err := h.Play(a)
		if err != nil {
			return History{}, err
		}
		h = next
	}
	return h, nil
}

// ParseHistory is the inverse of History.String.
func ParseHistory(s string) (History, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return History{}, nil
	}
	parts := strings.Split(s, "-")
	actions := make([]Action, 0, len(parts))
	for _, part := range parts {
		a, err := ParseAction(part)
		if err != nil {
			return History{}, fmt.Errorf("parse history %q: %w", s, err)
		}
		actions = append(actions, a)
	}
	h, err := NewHistory(actions...)
	if err != nil {
		return History{}, fmt.Errorf("parse history %q: %w", s, err)
	}
	return h, nil
}

// Len returns the number of actions taken.
func (h History) Len() int {
	return int(h.n)
}

// At returns the i-th action.
func (h History) At(i int) Action {
	if i < 0 || i >= int(h.n) {
		panic(fmt.Sprintf("kuhn: history index %d out of range [0,%d)", i, h.n))
	}
	return h.actions[i]
}

// Actions returns a copy of the action sequence.
func (h History) Actions() []Action {
	out := make([]Action, h.n)
	copy(out, h.actions[:h.n])
	return out
}

// Last returns the most recent action, if any.
func (h History) Last() (Action, bool) {
	if h.n == 0 {
		return 0, false
	}
	return h.actions[h.n-1], true
}

// Player returns whose turn it is. Players alternate starting with Player1.
func (h History) Player() Player {
	return Player(h.n % NumPlayers)
}

// IsTerminal reports whether the hand is over.
func (h History) IsTerminal() bool {
	last, ok := h.Last()
	if !ok {
		return false
	}
	switch last {
	case Call, Fold:
		return true
	case Check:
		// Check-Check; a lone opening check is not terminal.
		return h.n == 2
	default:
		return false
	}
}

// IsShowdown reports whether a terminal hand is decided by comparing cards.
func (h History) IsShowdown() bool {
	last, ok := h.Last()
	return ok && h.IsTerminal() && last != Fold
}

// Folder returns the player who folded, if the hand ended with a fold.
func (h History) Folder() (Player, bool) {
	last, ok := h.Last()
	if !ok || last != Fold {
		return 0, false
	}
	return Player((h.n - 1) % NumPlayers), true
}

// LegalActions returns the actions available to the player to act, or nil
// once the hand is terminal. The returned slice is shared and must not be
// modified.
func (h History) LegalActions() []Action {
	if h.IsTerminal() {
		return nil
	}
	if last, ok := h.Last(); ok && last == Bet {
		return facingBetActions
	}
	return openingActions
}

// IsLegal reports whether a may be played next.
func (h History) IsLegal(a Action) bool {
	for _, legal := range h.LegalActions() {
		if legal == a {
			return true
		}
	}
	return false
}

// Play returns the history extended by a, or ErrIllegalAction.
func (h History) Play(a Action) (History, error) {
	if !h.IsLegal(a) {
		return h, fmt.Errorf("%w: %s after %q", ErrIllegalAction, a, h.String())
	}
	h.actions[h.n] = a
	h.n++
	return h, nil
}

// Append is Play for callers that only ever extend by a legal action. It
// panics otherwise.
func (h History) Append(a Action) History {
	next, err := h.Play(a)
	if err != nil {
		panic("kuhn: " + err.Error())
	}
	return next
}

// Contribution returns the chips player p has put into the pot.
func (h History) Contribution(p Player) int {
	total := Ante
	for i := 0; i < int(h.n); i++ {
		if Player(i%NumPlayers) != p {
			continue
		}
		if a := h.actions[i]; a == Bet || a == Call {
			total += BetSize
		}
	}
	return total
}

// Pot returns the chips in the middle.
func (h History) Pot() int {
	return h.Contribution(Player1) + h.Contribution(Player2)
}

// String joins action names with "-"; the root renders as "".
func (h History) String() string {
	if h.n == 0 {
		return ""
	}
	var b strings.Builder
	for i := 0; i < int(h.n); i++ {
		if i > 0 {
			b.WriteByte('-')
		}
		b.WriteString(h.actions[i].String())
	}
	return b.String()
}

// TerminalHistories returns every betting sequence that ends the hand.
func TerminalHistories() []History {
	var out []History
	var walk func(h History)
	walk = func(h History) {
		if h.IsTerminal() {
			out = append(out, h)
			return
		}
		for _, a := range h.LegalActions() {
			walk(h.Append(a))
		}
	}
	walk(History{})
	return out
}

// DecisionHistories returns every non-terminal betting sequence.
func DecisionHistories() []History {
	var out []History
	var walk func(h History)
	walk = func(h History) {
		if h.IsTerminal() {
			return
		}
		out = append(out, h)
		for _, a := range h.LegalActions() {
			walk(h.Append(a))
		}
	}
	walk(History{})
	return out
}
