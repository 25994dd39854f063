package kuhn

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustHistory(t *testing.T, actions ...Action) History {
	t.Helper()
	h, err := NewHistory(actions...)
	require.NoError(t, err)
	return h
}

func TestLegalActionsFollowBettingSequence(t *testing.T) {
	h := History{}
	assert.Equal(t, Player1, h.Player())
	assert.Equal(t, []Action{Check, Bet}, h.LegalActions())

	h = h.Append(Check)
	assert.Equal(t, Player2, h.Player())
	assert.Equal(t, []Action{Check, Bet}, h.LegalActions())

	h = h.Append(Bet)
	assert.Equal(t, Player1, h.Player())
	assert.Equal(t, []Action{Call, Fold}, h.LegalActions())

	opened := History{}.Append(Bet)
	assert.Equal(t, Player2, opened.Player())
	assert.Equal(t, []Action{Call, Fold}, opened.LegalActions())
}

func TestTerminalHistories(t *testing.T) {
	terminals := TerminalHistories()

	var names []string
	for _, h := range terminals {
		assert.True(t, h.IsTerminal(), h.String())
		assert.Nil(t, h.LegalActions(), h.String())
		names = append(names, h.String())
	}
	assert.ElementsMatch(t, []string{
		"Check-Check",
		"Check-Bet-Call",
		"Check-Bet-Fold",
		"Bet-Call",
		"Bet-Fold",
	}, names)
}

func TestDecisionHistoriesAreNonTerminal(t *testing.T) {
	decisions := DecisionHistories()
	require.Len(t, decisions, 4)
	for _, h := range decisions {
		assert.False(t, h.IsTerminal(), h.String())
		assert.NotEmpty(t, h.LegalActions(), h.String())
		assert.LessOrEqual(t, h.Len(), MaxHistory-1)
	}
}

func TestPlayRejectsIllegalActions(t *testing.T) {
	tests := []struct {
		name    string
		history []Action
		next    Action
	}{
		{"call at root", nil, Call},
		{"fold at root", nil, Fold},
		{"check facing bet", []Action{Bet}, Check},
		{"raise facing bet", []Action{Check, Bet}, Bet},
		{"act after showdown", []Action{Check, Check}, Bet},
		{"act after fold", []Action{Bet, Fold}, Check},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := mustHistory(t, tt.history...)
			_, err := h.Play(tt.next)
			require.ErrorIs(t, err, ErrIllegalAction)
			assert.Panics(t, func() { h.Append(tt.next) })
		})
	}
}

func TestContributionsAndPot(t *testing.T) {
	tests := []struct {
		history []Action
		p1, p2  int
	}{
		{nil, 1, 1},
		{[]Action{Check, Check}, 1, 1},
		{[]Action{Bet}, 2, 1},
		{[]Action{Bet, Call}, 2, 2},
		{[]Action{Bet, Fold}, 2, 1},
		{[]Action{Check, Bet, Call}, 2, 2},
		{[]Action{Check, Bet, Fold}, 1, 2},
	}

	for _, tt := range tests {
		h := mustHistory(t, tt.history...)
		assert.Equal(t, tt.p1, h.Contribution(Player1), h.String())
		assert.Equal(t, tt.p2, h.Contribution(Player2), h.String())
		assert.Equal(t, tt.p1+tt.p2, h.Pot(), h.String())
	}
}

func TestHistoryStringRoundTrip(t *testing.T) {
	assert.Equal(t, "", History{}.String())

	for _, h := range append(DecisionHistories(), TerminalHistories()...) {
		parsed, err := ParseHistory(h.String())
		require.NoError(t, err)
		assert.Equal(t, h, parsed)
	}

	parsed, err := ParseHistory("check-BET-call")
	require.NoError(t, err)
	assert.Equal(t, "Check-Bet-Call", parsed.String())

	_, err = ParseHistory("Check-Call")
	require.ErrorIs(t, err, ErrIllegalAction)

	_, err = ParseHistory("Check-Raise")
	require.Error(t, err)
}

func TestHistoryIsComparable(t *testing.T) {
	a := History{}.Append(Check).Append(Bet)
	b := mustHistory(t, Check, Bet)
	assert.True(t, a == b)

	seen := map[History]int{a: 1}
	seen[b]++
	assert.Len(t, seen, 1)
	assert.Equal(t, 2, seen[a])
}

func TestFolderAndShowdown(t *testing.T) {
	folder, ok := mustHistory(t, Bet, Fold).Folder()
	require.True(t, ok)
	assert.Equal(t, Player2, folder)

	folder, ok = mustHistory(t, Check, Bet, Fold).Folder()
	require.True(t, ok)
	assert.Equal(t, Player1, folder)

	_, ok = mustHistory(t, Bet, Call).Folder()
	assert.False(t, ok)

	assert.True(t, mustHistory(t, Check, Check).IsShowdown())
	assert.True(t, mustHistory(t, Check, Bet, Call).IsShowdown())
	assert.False(t, mustHistory(t, Bet, Fold).IsShowdown())
	assert.False(t, mustHistory(t, Check).IsShowdown())
}
