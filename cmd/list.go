package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pcaron/go-puck-stats/internal/storage"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all stored games",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func runList(cmd *cobra.Command, args []string) error {
	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	games, err := db.ListGames()
	if err != nil {
		return fmt.Errorf("list games: %w", err)
	}
	if len(games) == 0 {
		fmt.Fprintln(os.Stdout, "No games stored yet. Run 'puckstats load <game.json>' to add one.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-12s  %-8s  %-10s  %-9s  %-7s  %-5s  %s\n",
		"GAME", "SEASON", "DATE", "MATCHUP", "SCORE", "STATE", "EXTRACTED")
	fmt.Fprintf(os.Stdout, "%-12s  %-8s  %-10s  %-9s  %-7s  %-5s  %s\n",
		"────────────", "────────", "──────────", "─────────", "───────", "─────", "─────────")
	for _, g := range games {
		matchup := fmt.Sprintf("%s@%s", g.AwayAbbrev, g.HomeAbbrev)
		score := fmt.Sprintf("%d-%d", g.AwayScore, g.HomeScore)
		extracted := ""
		if g.Extracted {
			extracted = "yes"
		}
		fmt.Fprintf(os.Stdout, "%-12d  %-8d  %-10s  %-9s  %-7s  %-5s  %s\n",
			g.ID, g.Season, g.Date, matchup, score, g.State, extracted)
	}
	return nil
}
