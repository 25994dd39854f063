package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/lox/kuhnpoker/solver"
)

type styles struct {
	header  lipgloss.Style
	infoSet lipgloss.Style
	action  lipgloss.Style
	percent lipgloss.Style
	good    lipgloss.Style
	bad     lipgloss.Style
}

func newStyles(w io.Writer) styles {
	r := lipgloss.NewRenderer(w)
	return styles{
		header:  r.NewStyle().Bold(true).Foreground(lipgloss.Color("15")),
		infoSet: r.NewStyle().Bold(true).Foreground(lipgloss.Color("14")).Width(14),
		action:  r.NewStyle().Foreground(lipgloss.Color("12")),
		percent: r.NewStyle().Foreground(lipgloss.Color("11")),
		good:    r.NewStyle().Foreground(lipgloss.Color("10")),
		bad:     r.NewStyle().Foreground(lipgloss.Color("9")),
	}
}

// renderStrategy prints one line per information set, sorted by card and
// then history, with each legal action's probability.
func renderStrategy(w io.Writer, table solver.StrategyTable, iterations int) error {
	s := newStyles(w)
	var b strings.Builder

	b.WriteString(s.header.Render(fmt.Sprintf("Kuhn Poker strategy after %d iterations", iterations)))
	b.WriteString("\n\n")
	for _, key := range table.Keys() {
		dist := table.Distribution(key)
		parts := make([]string, 0, len(dist))
		for i, act := range key.Actions() {
			parts = append(parts, fmt.Sprintf("%s %s",
				s.action.Render(fmt.Sprintf("%-5s", act)),
				s.percent.Render(fmt.Sprintf("%6.2f%%", 100*dist[i]))))
		}
		b.WriteString(s.infoSet.Render(key.String()))
		b.WriteString(strings.Join(parts, "  "))
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "\nInformation sets: %d\n", table.Len())
	fmt.Fprintf(&b, "Game value (Player 1): %.5f\n", solver.GameValue(table))

	_, err := io.WriteString(w, b.String())
	return err
}

func renderEvaluation(w io.Writer, e evaluation) error {
	s := newStyles(w)
	low, high := e.Stats.ConfidenceInterval95()

	verdict := s.good.Render("inside")
	if !e.containsExact() {
		verdict = s.bad.Render("outside")
	}

	lines := []string{
		s.header.Render(fmt.Sprintf("Kuhn Poker evaluation after %d iterations", e.Iterations)),
		"",
		fmt.Sprintf("Exact game value:      %.5f", e.Exact),
		fmt.Sprintf("Simulated game value:  %.5f  95%% CI [%.5f, %.5f] over %d hands", e.Stats.Mean(), low, high, e.Stats.Hands),
		fmt.Sprintf("Exact value is %s the simulated interval", verdict),
		fmt.Sprintf("Equilibrium value:     %.5f (distance %.5f)", EquilibriumValue, e.distance()),
	}
	_, err := io.WriteString(w, strings.Join(lines, "\n")+"\n")
	return err
}
