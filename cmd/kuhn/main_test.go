package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/kuhnpoker/internal/config"
	"github.com/lox/kuhnpoker/solver"
)

func TestTrainingFlagsOverrideConfig(t *testing.T) {
	cfg, err := config.Parse([]byte(`
training {
  iterations = 300
  seed       = 11
  deal_mode  = "enumerate"
}
`), "test.hcl")
	require.NoError(t, err)

	train, err := TrainingFlags{}.resolve(cfg)
	require.NoError(t, err)
	assert.Equal(t, 300, train.Iterations)
	assert.Equal(t, int64(11), train.Seed)
	assert.Equal(t, solver.DealModeEnumerate, train.DealMode)

	train, err = TrainingFlags{Iterations: 50, Seed: 3, DealMode: "sampled", CFRPlus: true, ProgressEvery: 5}.resolve(cfg)
	require.NoError(t, err)
	assert.Equal(t, solver.TrainingConfig{
		Iterations:    50,
		Seed:          3,
		DealMode:      solver.DealModeSampled,
		ProgressEvery: 5,
		UseCFRPlus:    true,
	}, train)

	train, err = TrainingFlags{Seed: 3, RandomSeed: true}.resolve(cfg)
	require.NoError(t, err)
	assert.Zero(t, train.Seed)

	_, err = TrainingFlags{DealMode: "bogus"}.resolve(cfg)
	require.ErrorIs(t, err, solver.ErrInvalidConfiguration)
}

func TestTrainCmdTextOutput(t *testing.T) {
	var out bytes.Buffer
	cmd := &TrainCmd{TrainingFlags: TrainingFlags{Iterations: 2000, Seed: 1}, Format: "text"}
	require.NoError(t, cmd.Run(context.Background(), config.Default(), zerolog.Nop(), &out))

	text := out.String()
	assert.Contains(t, text, "after 2000 iterations")
	assert.Contains(t, text, "K-Check-Bet")
	assert.Contains(t, text, "Check")
	assert.Contains(t, text, "Information sets: 12")
	assert.Contains(t, text, "Game value (Player 1)")
}

func TestTrainCmdJSONAndBlueprintFile(t *testing.T) {
	var out bytes.Buffer
	path := filepath.Join(t.TempDir(), "kuhn.json")
	cmd := &TrainCmd{TrainingFlags: TrainingFlags{Iterations: 500, Seed: 2}, Format: "json", Out: path}
	require.NoError(t, cmd.Run(context.Background(), config.Default(), zerolog.Nop(), &out))

	var printed, written solver.Blueprint
	require.NoError(t, json.Unmarshal(out.Bytes(), &printed))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &written))

	assert.Equal(t, 500, printed.Iterations)
	assert.Len(t, printed.Strategies, 12)
	assert.Equal(t, printed.RunID, written.RunID)
	assert.Equal(t, printed.Strategies, written.Strategies)
}

func TestTrainCmdServesMetrics(t *testing.T) {
	var out bytes.Buffer
	cmd := &TrainCmd{TrainingFlags: TrainingFlags{Iterations: 100, Seed: 1}, Format: "text", MetricsAddr: "127.0.0.1:0"}
	require.NoError(t, cmd.Run(context.Background(), config.Default(), zerolog.Nop(), &out))
	assert.Contains(t, out.String(), "Information sets: 12")
}

func TestTrainCmdCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	cmd := &TrainCmd{TrainingFlags: TrainingFlags{Iterations: 100, Seed: 1}, Format: "text"}
	err := cmd.Run(ctx, config.Default(), zerolog.Nop(), &bytes.Buffer{})
	require.ErrorIs(t, err, context.Canceled)
}

func TestEvalCmd(t *testing.T) {
	var out bytes.Buffer
	cmd := &EvalCmd{
		TrainingFlags: TrainingFlags{Iterations: 20000, Seed: 1, DealMode: "enumerate"},
		Deals:         20000,
		Workers:       2,
		Summary:       true,
	}
	require.NoError(t, cmd.Run(context.Background(), config.Default(), zerolog.Nop(), &out))

	text := out.String()
	assert.Contains(t, text, "Exact game value:")
	assert.Contains(t, text, "Simulated game value:")
	assert.Contains(t, text, "over 20000 hands")
	assert.Contains(t, text, "Equilibrium value:")
	assert.Contains(t, text, "Hands played: 20000")
}

func TestSetupLoggerLevels(t *testing.T) {
	var buf bytes.Buffer
	logger := setupLogger(&buf, "warn", false, true)
	logger.Info().Msg("hidden")
	logger.Warn().Msg("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"message":"shown"`)

	buf.Reset()
	logger = setupLogger(&buf, "warn", true, true)
	logger.Debug().Msg("debug on")
	assert.Contains(t, buf.String(), "debug on")

	assert.Equal(t, zerolog.InfoLevel, setupLogger(&buf, "nonsense", false, false).GetLevel())
}
