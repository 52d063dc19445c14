package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/pcaron/go-puck-stats/internal/report"
	"github.com/pcaron/go-puck-stats/internal/storage"
)

var showPlayerID int64

var showCmd = &cobra.Command{
	Use:   "show <game-id>",
	Short: "Show reconciled stats for one game",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

func init() {
	showCmd.Flags().Int64Var(&showPlayerID, "player", 0, "highlight player id")
}

func runShow(cmd *cobra.Command, args []string) error {
	gameID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid game id %q: %w", args[0], err)
	}

	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	game, err := db.GetGame(gameID)
	if err != nil {
		return fmt.Errorf("query game: %w", err)
	}
	if game == nil {
		fmt.Fprintf(os.Stderr, "No game %d stored\n", gameID)
		return nil
	}

	stats, err := db.GameStats(gameID)
	if err != nil {
		return fmt.Errorf("query stats: %w", err)
	}
	if len(stats) == 0 {
		fmt.Fprintf(os.Stderr, "Game %d has no reconciled stats yet. Run 'puckstats process'.\n", gameID)
		return nil
	}

	report.PrintGameHeader(os.Stdout, *game)
	report.PrintSkaterTable(os.Stdout, stats, showPlayerID)
	report.PrintGoalieTable(os.Stdout, stats)
	return nil
}
