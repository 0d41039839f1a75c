package main

import (
	"errors"
	"fmt"

	"github.com/milk9111/heroknight/storage"
	"github.com/spf13/cobra"
)

var (
	flagLimit   int
	flagAllRuns bool
)

var episodesCmd = &cobra.Command{
	Use:   "episodes",
	Short: "Show recent episodes",
	Long: `Display the most recent episodes of a run, its best episode and a summary.
Without a run name every run is shown.

Examples:
  trainer episodes --run 20260101-120000
  trainer episodes --all --limit 50`,
	Args: cobra.NoArgs,
	RunE: runEpisodes,
}

func init() {
	episodesCmd.Flags().IntVar(&flagLimit, "limit", 10, "Number of episodes to show")
	episodesCmd.Flags().BoolVar(&flagAllRuns, "all", false, "Show episodes from every run")
}

func runEpisodes(cmd *cobra.Command, args []string) error {
	store, err := storage.Open(cfg.DBPath)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := cmd.Context()
	run := cfg.Run
	if flagAllRuns {
		run = ""
	}

	episodes, err := store.RecentEpisodes(ctx, run, flagLimit)
	if err != nil {
		return err
	}
	if len(episodes) == 0 {
		fmt.Println("No episodes recorded yet.")
		fmt.Println()
		fmt.Println("Run 'trainer run' to start training.")
		return nil
	}

	fmt.Printf("%-18s %8s %6s %10s %6s %6s  %s\n", "RUN", "EPISODE", "STEPS", "REWARD", "COINS", "GOALS", "REASON")
	for _, ep := range episodes {
		fmt.Printf("%-18s %8d %6d %10.3f %6d %6d  %s\n", ep.Run, ep.Episode, ep.Steps, ep.Reward, ep.Coins, ep.Goals, ep.EndReason)
	}
	fmt.Println()

	best, err := store.BestEpisode(ctx, run)
	switch {
	case errors.Is(err, storage.ErrNoEpisodes):
	case err != nil:
		return err
	default:
		fmt.Printf("best: run %s episode %d, reward %.3f (%s)\n", best.Run, best.Episode, best.Reward, best.EndReason)
	}

	sum, err := store.Summarize(ctx, run)
	if err != nil {
		return err
	}
	fmt.Printf("%d episodes, mean reward %.3f, mean steps %.1f\n", sum.Episodes, sum.MeanReward, sum.MeanSteps)
	return nil
}
