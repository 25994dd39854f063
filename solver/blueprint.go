package solver

import (
	"encoding/json"
	"errors"
	"io"
	"time"

	"github.com/lox/kuhnpoker/internal/fileutil"
)

const blueprintFileVersion = 1

// Blueprint is an exportable snapshot of a finished run. Strategies are keyed
// by info-set string (for example "K-Check-Bet") and then by action name.
type Blueprint struct {
	Version     int                           `json:"version"`
	RunID       string                        `json:"run_id"`
	GeneratedAt time.Time                     `json:"generated_at"`
	Iterations  int                           `json:"iterations"`
	Seed        int64                         `json:"seed"`
	Training    TrainingConfig                `json:"training"`
	GameValue   float64                       `json:"game_value"`
	Strategies  map[string]map[string]float64 `json:"strategies"`
}

// NewBlueprint converts table into its exported form.
func NewBlueprint(table StrategyTable) *Blueprint {
	strategies := make(map[string]map[string]float64, len(table))
	for key, dist := range table {
		actions := key.Actions()
		probs := make(map[string]float64, len(actions))
		for i, act := range actions {
			if i < len(dist) {
				probs[act.String()] = dist[i]
			}
		}
		strategies[key.String()] = probs
	}
	return &Blueprint{
		Version:    blueprintFileVersion,
		GameValue:  GameValue(table),
		Strategies: strategies,
	}
}

// Blueprint snapshots the trainer's current average strategy.
func (t *Trainer) Blueprint() *Blueprint {
	bp := NewBlueprint(t.AverageStrategy())
	bp.RunID = t.runID.String()
	bp.GeneratedAt = t.clock.Now().UTC()
	bp.Iterations = t.iteration
	bp.Seed = t.rngSeed
	bp.Training = t.cfg
	return bp
}

// Encode writes the blueprint as indented JSON.
func (b *Blueprint) Encode(w io.Writer) error {
	if b == nil {
		return errors.New("nil blueprint")
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(b)
}

// WriteFile writes the blueprint to path without ever exposing a partial file.
func (b *Blueprint) WriteFile(path string) error {
	if b == nil {
		return errors.New("nil blueprint")
	}
	if path == "" {
		return errors.New("destination path is required")
	}
	return fileutil.WriteAtomic(path, 0o644, b.Encode)
}
