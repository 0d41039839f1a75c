// trainer runs the hero knight training ground headless and logs every
// episode to SQLite.
//
// Usage:
//
//	trainer run                 - Run episodes with a script or remote policy
//	trainer episodes            - Show recent episodes and a run summary
//
// Settings come from HEROKNIGHT_* environment variables; flags override them.
package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var (
	cfg    = mustLoadConfig()
	logger = log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "trainer",
	})
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "trainer",
	Short: "Headless hero knight training",
	Long: `trainer steps the hero knight training ground without a window.

A tengo script from prefabs/scripts/ or an external trainer over a websocket
chooses the knight's actions. Every finished episode is stored in SQLite.

Examples:
  trainer run --episodes 50 --script runner
  HEROKNIGHT_POLICY_URL=ws://localhost:8765/agent trainer run
  trainer episodes --limit 20`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if flagDebug {
			logger.SetLevel(log.DebugLevel)
		}
		return cfg.applyFlags(cmd)
	},
}

var flagDebug bool

func init() {
	rootCmd.PersistentFlags().StringVar(&flagDB, "db", cfg.DBPath, "Path to the episode database")
	rootCmd.PersistentFlags().StringVar(&flagRun, "run", cfg.Run, "Run name episodes are stored under")
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "Enable debug logging")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(episodesCmd)
}
