// Package config loads training and evaluation settings from an HCL file.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/lox/kuhnpoker/solver"
)

// Config represents the complete solver configuration
type Config struct {
	Training   *TrainingBlock   `hcl:"training,block"`
	Evaluation *EvaluationBlock `hcl:"evaluation,block"`
	Logging    *LoggingBlock    `hcl:"logging,block"`
}

// TrainingBlock mirrors solver.TrainingConfig.
type TrainingBlock struct {
	Iterations    int    `hcl:"iterations,optional"`
	Seed          *int64 `hcl:"seed,optional"`
	DealMode      string `hcl:"deal_mode,optional"`
	CFRPlus       bool   `hcl:"cfr_plus,optional"`
	ProgressEvery int    `hcl:"progress_every,optional"`
}

// EvaluationBlock configures Monte Carlo self-play of the trained strategy.
type EvaluationBlock struct {
	Deals   int    `hcl:"deals,optional"`
	Workers int    `hcl:"workers,optional"`
	Seed    *int64 `hcl:"seed,optional"`
}

// LoggingBlock configures the CLI logger.
type LoggingBlock struct {
	Level string `hcl:"level,optional"`
	JSON  bool   `hcl:"json,optional"`
}

// Default returns the settings used when no file is given.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load reads filename. A missing file yields Default().
func Load(filename string) (*Config, error) {
	if _, err := os.Stat(filename); errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}
	return decode(file.Body)
}

// Parse decodes HCL source held in memory; filename is used in diagnostics.
func Parse(src []byte, filename string) (*Config, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL: %s", diags.Error())
	}
	return decode(file.Body)
}

func decode(body hcl.Body) (*Config, error) {
	var cfg Config
	if diags := gohcl.DecodeBody(body, nil, &cfg); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Training == nil {
		c.Training = &TrainingBlock{}
	}
	if c.Training.Iterations == 0 {
		c.Training.Iterations = solver.DefaultTrainingConfig().Iterations
	}
	if c.Training.DealMode == "" {
		c.Training.DealMode = solver.DealModeSampled.String()
	}

	if c.Evaluation == nil {
		c.Evaluation = &EvaluationBlock{}
	}
	if c.Evaluation.Deals == 0 {
		c.Evaluation.Deals = 100000
	}

	if c.Logging == nil {
		c.Logging = &LoggingBlock{}
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
}

// Validate checks values that decoding alone cannot reject.
func (c *Config) Validate() error {
	if _, err := c.TrainingConfig(); err != nil {
		return err
	}
	if c.Evaluation.Deals < 0 {
		return fmt.Errorf("%w: evaluation deals cannot be negative", solver.ErrInvalidConfiguration)
	}
	if c.Evaluation.Workers < 0 {
		return fmt.Errorf("%w: evaluation workers cannot be negative", solver.ErrInvalidConfiguration)
	}
	return nil
}

// TrainingConfig converts the training block into solver settings. An absent
// seed keeps the solver default.
func (c *Config) TrainingConfig() (solver.TrainingConfig, error) {
	out := solver.DefaultTrainingConfig()
	tb := c.Training
	if tb == nil {
		return out, nil
	}
	mode, err := solver.ParseDealMode(tb.DealMode)
	if err != nil {
		return out, err
	}
	if tb.Iterations != 0 {
		out.Iterations = tb.Iterations
	}
	if tb.Seed != nil {
		out.Seed = *tb.Seed
	}
	out.DealMode = mode
	out.UseCFRPlus = tb.CFRPlus
	out.ProgressEvery = tb.ProgressEvery
	return out, out.Validate()
}

// EvaluationSeed returns the configured evaluation seed or fallback.
func (c *Config) EvaluationSeed(fallback int64) int64 {
	if c.Evaluation == nil || c.Evaluation.Seed == nil {
		return fallback
	}
	return *c.Evaluation.Seed
}
