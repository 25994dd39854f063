package kuhn

import (
	"fmt"
	"strings"
)

// Action is a betting decision. Which actions are legal depends on the history.
type Action uint8

const (
	Check Action = iota
	Bet
	Call
	Fold
)

// MaxActions is the largest number of legal actions at any decision point.
const MaxActions = 2

var actionNames = [...]string{"Check", "Bet", "Call", "Fold"}

func (a Action) String() string {
	if int(a) >= len(actionNames) {
		return fmt.Sprintf("Action(%d)", uint8(a))
	}
	return actionNames[a]
}

// ParseAction accepts an action name in any case.
func ParseAction(s string) (Action, error) {
	in := strings.TrimSpace(s)
	for i, name := range actionNames {
		if strings.EqualFold(in, name) {
			return Action(i), nil
		}
	}
	return 0, fmt.Errorf("unknown action %q", s)
}

// Player identifies a seat. Player1 always acts first.
type Player uint8

const (
	Player1 Player = iota
	Player2
)

// NumPlayers is fixed at two.
const NumPlayers = 2

// Players lists both seats in turn order.
func Players() [NumPlayers]Player {
	return [NumPlayers]Player{Player1, Player2}
}

// Other returns the opponent.
func (p Player) Other() Player {
	return 1 - p
}

func (p Player) String() string {
	switch p {
	case Player1:
		return "P1"
	case Player2:
		return "P2"
	default:
		return fmt.Sprintf("Player(%d)", uint8(p))
	}
}
