package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pcaron/go-puck-stats/internal/logging"
	"github.com/pcaron/go-puck-stats/internal/pipeline"
	"github.com/pcaron/go-puck-stats/internal/report"
	"github.com/pcaron/go-puck-stats/internal/storage"
)

var rollupSeason int

var rollupCmd = &cobra.Command{
	Use:   "rollup",
	Short: "Recompute season totals from all per-game records",
	Args:  cobra.NoArgs,
	RunE:  runRollup,
}

func init() {
	rollupCmd.Flags().IntVar(&rollupSeason, "season", 0, "season to roll up (required)")
	rollupCmd.MarkFlagRequired("season")
}

// runRollup is a full replace-on-recompute: it reads every per-game row of
// the season, rebuilds the totals, and swaps them in. It must run after
// per-game writes and the plus/minus pass have settled.
func runRollup(cmd *cobra.Command, args []string) error {
	log := logging.New("rollup")

	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	rows, err := db.SeasonGameStats(rollupSeason)
	if err != nil {
		return fmt.Errorf("load game stats: %w", err)
	}

	totals := pipeline.RollupSeason(rollupSeason, rows)
	if err := db.ReplaceSeasonStats(rollupSeason, totals); err != nil {
		return fmt.Errorf("replace season stats: %w", err)
	}

	log.Info().
		Int("season", rollupSeason).
		Int("game_rows", len(rows)).
		Int("players", len(totals)).
		Msg("season rolled up")

	report.PrintSeasonTable(os.Stdout, totals)
	report.PrintSeasonGoalieTable(os.Stdout, totals)
	return nil
}
