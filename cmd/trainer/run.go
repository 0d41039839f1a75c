package main

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/milk9111/heroknight/ecs/system"
	"github.com/milk9111/heroknight/policy"
	"github.com/milk9111/heroknight/prefabs"
	"github.com/milk9111/heroknight/sim"
	"github.com/milk9111/heroknight/storage"
	"github.com/spf13/cobra"
)

var (
	flagPolicyURL      string
	flagScript         string
	flagMaxStep        int
	flagSeed           uint64
	flagEpisodes       int
	flagDecisionPeriod int
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run training episodes",
	Long: `Run steps the training ground until the requested number of episodes
has finished. The remote policy wins over the script when both are set.`,
	Args: cobra.NoArgs,
	RunE: runTraining,
}

func init() {
	runCmd.Flags().StringVar(&flagPolicyURL, "policy-url", cfg.PolicyURL, "Websocket URL of an external trainer")
	runCmd.Flags().StringVar(&flagScript, "script", cfg.Script, "Tengo policy script ("+strings.Join(prefabs.Scripts(), ", ")+")")
	runCmd.Flags().IntVar(&flagMaxStep, "max-step", cfg.MaxStep, "Steps per episode")
	runCmd.Flags().Uint64Var(&flagSeed, "seed", cfg.Seed, "Coin wave seed (0 = prefab seed)")
	runCmd.Flags().IntVar(&flagEpisodes, "episodes", cfg.Episodes, "Episodes to run")
	runCmd.Flags().IntVar(&flagDecisionPeriod, "decision-period", cfg.DecisionPeriod, "Steps each decision is held for")
}

func runTraining(cmd *cobra.Command, args []string) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	cfg.Run = cfg.runName(time.Now())

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := storage.Open(cfg.DBPath)
	if err != nil {
		return err
	}
	defer store.Close()

	p, closePolicy, err := openPolicy(ctx, cfg)
	if err != nil {
		return err
	}
	defer closePolicy()

	n, err := train(ctx, cfg, p, store, logger)
	logger.Info("training stopped", "run", cfg.Run, "episodes", n)
	if err != nil {
		return err
	}

	sum, err := store.Summarize(ctx, cfg.Run)
	if err != nil {
		return err
	}
	fmt.Printf("run %s: %d episodes, mean reward %.3f, mean steps %.1f\n", cfg.Run, sum.Episodes, sum.MeanReward, sum.MeanSteps)
	return nil
}

func openPolicy(ctx context.Context, c Config) (policy.Policy, func(), error) {
	if c.PolicyURL != "" {
		remote, err := policy.DialRemote(ctx, c.PolicyURL)
		if err != nil {
			return nil, nil, err
		}
		return remote, func() { _ = remote.Close() }, nil
	}
	script, err := policy.NewScriptPolicy(c.Script)
	if err != nil {
		return nil, nil, err
	}
	return script, func() {}, nil
}

// train steps a fresh simulation until c.Episodes episodes have been stored
// or ctx is cancelled. It returns the number of episodes stored.
func train(ctx context.Context, c Config, p policy.Policy, store *storage.Store, logger *log.Logger) (int, error) {
	if err := c.Validate(); err != nil {
		return 0, err
	}

	s, err := sim.New(ctx, sim.Config{
		MaxStep:        c.MaxStep,
		Training:       true,
		Seed:           c.Seed,
		DecisionPeriod: c.DecisionPeriod,
	}, p, logger)
	if err != nil {
		return 0, err
	}

	stored := 0
	var saveErr error
	s.Episodes.AddSink(func(rec system.EpisodeRecord) {
		if saveErr != nil {
			return
		}
		_, saveErr = store.SaveEpisode(ctx, storage.Episode{
			Run:       c.Run,
			Episode:   rec.Episode,
			Steps:     rec.Steps,
			Reward:    rec.Reward,
			Coins:     rec.Coins,
			Goals:     rec.Goals,
			EndReason: rec.Reason,
		})
		if saveErr != nil {
			return
		}
		stored++
		logger.Info("episode", "episode", rec.Episode, "steps", rec.Steps, "reward", fmt.Sprintf("%.3f", rec.Reward), "reason", rec.Reason)
	})

	for stored < c.Episodes {
		if err := ctx.Err(); err != nil {
			if errors.Is(err, context.Canceled) {
				return stored, nil
			}
			return stored, err
		}
		s.Step()
		if saveErr != nil {
			return stored, fmt.Errorf("save episode: %w", saveErr)
		}
	}
	return stored, nil
}
