package solver

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidConfiguration is wrapped by every configuration validation error.
var ErrInvalidConfiguration = errors.New("invalid configuration")

// DealMode controls which deals each training iteration traverses.
type DealMode uint8

const (
	// DealModeSampled draws one deal per iteration from a shuffled deck.
	DealModeSampled DealMode = iota
	// DealModeEnumerate traverses all six deals every iteration.
	DealModeEnumerate
)

func (m DealMode) String() string {
	switch m {
	case DealModeSampled:
		return "sampled"
	case DealModeEnumerate:
		return "enumerate"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (m DealMode) MarshalText() ([]byte, error) {
	if m > DealModeEnumerate {
		return nil, fmt.Errorf("%w: deal mode %d", ErrInvalidConfiguration, m)
	}
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *DealMode) UnmarshalText(text []byte) error {
	mode, err := ParseDealMode(string(text))
	if err != nil {
		return err
	}
	*m = mode
	return nil
}

// ParseDealMode accepts "sampled" or "enumerate"; the empty string selects
// DealModeSampled.
func ParseDealMode(input string) (DealMode, error) {
	switch strings.ToLower(strings.TrimSpace(input)) {
	case "", "sampled":
		return DealModeSampled, nil
	case "enumerate", "all":
		return DealModeEnumerate, nil
	default:
		return DealModeSampled, fmt.Errorf("%w: unknown deal mode %q", ErrInvalidConfiguration, input)
	}
}

// TrainingConfig aggregates parameters that control CFR execution.
type TrainingConfig struct {
	Iterations    int      `json:"iterations"`
	Seed          int64    `json:"seed"`
	DealMode      DealMode `json:"deal_mode"`
	ProgressEvery int      `json:"progress_every"`
	UseCFRPlus    bool     `json:"cfr_plus"`
}

// Validate ensures the training parameters are safe to use.
func (c TrainingConfig) Validate() error {
	if c.Iterations <= 0 {
		return fmt.Errorf("%w: iterations must be > 0 (got %d)", ErrInvalidConfiguration, c.Iterations)
	}
	if c.ProgressEvery < 0 {
		return fmt.Errorf("%w: progress interval cannot be negative", ErrInvalidConfiguration)
	}
	if c.DealMode > DealModeEnumerate {
		return fmt.Errorf("%w: invalid deal mode", ErrInvalidConfiguration)
	}
	return nil
}

// DefaultTrainingConfig returns vanilla CFR over sampled deals. A zero seed is
// replaced with a time-derived seed when the trainer is built.
func DefaultTrainingConfig() TrainingConfig {
	return TrainingConfig{
		Iterations:    10000,
		Seed:          1,
		DealMode:      DealModeSampled,
		ProgressEvery: 0,
		UseCFRPlus:    false,
	}
}
