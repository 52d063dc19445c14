package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/pcaron/go-puck-stats/internal/report"
	"github.com/pcaron/go-puck-stats/internal/storage"
)

var playerShowLog bool

var playerCmd = &cobra.Command{
	Use:   "player <player-id> [<player-id>...]",
	Short: "Season totals (and optional game log) for one or more players",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runPlayer,
}

func init() {
	playerCmd.Flags().BoolVar(&playerShowLog, "log", false, "also print the per-game log")
}

func runPlayer(cmd *cobra.Command, args []string) error {
	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	for _, arg := range args {
		id, err := strconv.ParseInt(arg, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid player id %q: %w", arg, err)
		}

		seasons, err := db.PlayerSeasonStats(id)
		if err != nil {
			return fmt.Errorf("query seasons for %d: %w", id, err)
		}
		if len(seasons) == 0 {
			fmt.Fprintf(os.Stderr, "No season totals for player %d. Run 'puckstats rollup'.\n", id)
		} else {
			fmt.Fprintf(os.Stdout, "\nPlayer %d (%s)\n\n", id, seasons[len(seasons)-1].Name)
			report.PrintSeasonTable(os.Stdout, seasons)
			report.PrintSeasonGoalieTable(os.Stdout, seasons)
		}

		if !playerShowLog {
			continue
		}
		log, err := db.PlayerGameLog(id)
		if err != nil {
			return fmt.Errorf("query game log for %d: %w", id, err)
		}
		if len(log) > 0 {
			fmt.Fprintf(os.Stdout, "\nGame log:\n\n")
			report.PrintSkaterTable(os.Stdout, log, 0)
			report.PrintGoalieTable(os.Stdout, log)
		}
	}
	return nil
}
