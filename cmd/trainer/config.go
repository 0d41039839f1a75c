package main

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/spf13/cobra"
)

// Config is the trainer's environment.
type Config struct {
	DBPath         string `env:"HEROKNIGHT_DB" envDefault:"~/.heroknight/episodes.db"`
	Run            string `env:"HEROKNIGHT_RUN"`
	PolicyURL      string `env:"HEROKNIGHT_POLICY_URL"`
	Script         string `env:"HEROKNIGHT_SCRIPT" envDefault:"runner"`
	MaxStep        int    `env:"HEROKNIGHT_MAX_STEP" envDefault:"1000"`
	Seed           uint64 `env:"HEROKNIGHT_SEED"`
	Episodes       int    `env:"HEROKNIGHT_EPISODES" envDefault:"10"`
	DecisionPeriod int    `env:"HEROKNIGHT_DECISION_PERIOD" envDefault:"20"`
}

// LoadConfig reads HEROKNIGHT_* variables.
func LoadConfig() (Config, error) {
	var c Config
	if err := env.Parse(&c); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return c, nil
}

func mustLoadConfig() Config {
	c, err := LoadConfig()
	if err != nil {
		logger.Fatal("load config", "err", err)
	}
	return c
}

// runName names a training run; unnamed runs get a UTC timestamp.
func (c Config) runName(now time.Time) string {
	if c.Run != "" {
		return c.Run
	}
	return now.UTC().Format("20060102-150405")
}

// Validate reports settings a training run cannot start with.
func (c Config) Validate() error {
	if c.MaxStep <= 0 {
		return fmt.Errorf("max step must be positive, got %d", c.MaxStep)
	}
	if c.Episodes <= 0 {
		return fmt.Errorf("episodes must be positive, got %d", c.Episodes)
	}
	if c.PolicyURL == "" && c.Script == "" {
		return fmt.Errorf("either a policy url or a script is required")
	}
	return nil
}

var (
	flagDB  string
	flagRun string
)

// applyFlags lets explicitly set flags win over the environment.
func (c *Config) applyFlags(cmd *cobra.Command) error {
	flags := cmd.Flags()
	if flags.Changed("db") {
		c.DBPath = flagDB
	}
	if flags.Changed("run") {
		c.Run = flagRun
	}
	if flags.Changed("policy-url") {
		c.PolicyURL = flagPolicyURL
	}
	if flags.Changed("script") {
		c.Script = flagScript
	}
	if flags.Changed("max-step") {
		c.MaxStep = flagMaxStep
	}
	if flags.Changed("seed") {
		c.Seed = flagSeed
	}
	if flags.Changed("episodes") {
		c.Episodes = flagEpisodes
	}
	if flags.Changed("decision-period") {
		c.DecisionPeriod = flagDecisionPeriod
	}
	return nil
}
