package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pcaron/go-puck-stats/internal/feed"
	"github.com/pcaron/go-puck-stats/internal/storage"
)

var loadCmd = &cobra.Command{
	Use:   "load <game.json> [<game.json>...]",
	Short: "Load raw game payloads into the store",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runLoad,
}

func runLoad(cmd *cobra.Command, args []string) error {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return fmt.Errorf("create db dir: %w", err)
	}

	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	for _, path := range args {
		raw, err := feed.ReadFile(path)
		if err != nil {
			return fmt.Errorf("parse %s: %w", path, err)
		}
		if err := db.InsertRawGame(raw); err != nil {
			return fmt.Errorf("store %s: %w", path, err)
		}
		fmt.Fprintf(os.Stdout, "Loaded game %d (%s, %d plays, %d/%d/%d shift rows)\n",
			raw.Game.ID, raw.Game.State,
			len(raw.Plays), len(raw.OfficialShifts), len(raw.TOIReport), len(raw.ComputedShifts))
	}
	return nil
}
