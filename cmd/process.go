package cmd

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/pcaron/go-puck-stats/internal/logging"
	"github.com/pcaron/go-puck-stats/internal/model"
	"github.com/pcaron/go-puck-stats/internal/pipeline"
	"github.com/pcaron/go-puck-stats/internal/situation"
	"github.com/pcaron/go-puck-stats/internal/storage"
	"github.com/pcaron/go-puck-stats/internal/toi"
)

var (
	processSeason  int
	processAll     bool
	processWorkers int
)

var processCmd = &cobra.Command{
	Use:   "process",
	Short: "Run the per-game reconciliation engine over stored games",
	Args:  cobra.NoArgs,
	RunE:  runProcess,
}

func init() {
	processCmd.Flags().IntVar(&processSeason, "season", 0, "restrict to one season (0 = all)")
	processCmd.Flags().BoolVar(&processAll, "all", false, "also process games not yet in a final state")
	processCmd.Flags().IntVar(&processWorkers, "workers", 4, "concurrent game workers")
}

func runProcess(cmd *cobra.Command, args []string) error {
	log := logging.New("process")

	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	var games []model.Game
	if processSeason != 0 {
		games, err = db.SeasonGames(processSeason)
	} else {
		games, err = db.ListGames()
	}
	if err != nil {
		return fmt.Errorf("list games: %w", err)
	}

	// Per-game work is embarrassingly parallel: inputs and outputs of
	// different games are disjoint, and the natural-key upsert makes
	// even duplicate writers safe.
	var g errgroup.Group
	g.SetLimit(processWorkers)
	for _, game := range games {
		if !processAll && !game.State.IsFinal() {
			log.Debug().Int64("game", game.ID).Str("state", string(game.State)).Msg("skipping non-final game")
			continue
		}
		game := game
		g.Go(func() error {
			return processGame(db, log, game)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	log.Info().Msg("processing complete")
	return nil
}

// processGame runs one game through the engine: situational window, event
// aggregation, TOI resolution, and the idempotent per-game upsert. The
// game is marked extracted only when it is in a final state; live games
// get progressively better data on re-runs.
func processGame(db *storage.DB, log zerolog.Logger, game model.Game) error {
	plays, err := db.PlaysFor(game.ID)
	if err != nil {
		return fmt.Errorf("game %d: load plays: %w", game.ID, err)
	}
	roster, err := db.RosterFor(game.ID)
	if err != nil {
		return fmt.Errorf("game %d: load roster: %w", game.ID, err)
	}

	win := situation.Build(pipeline.Penalties(plays), game.HomeTeamID, game.AwayTeamID)
	toiMap, source := newResolver(db).Resolve(game.ID)

	rows, err := pipeline.BuildGameStats(game, roster, plays, win, toiMap)
	if err != nil {
		return err
	}
	if err := db.UpsertPlayerGameStats(rows); err != nil {
		return fmt.Errorf("game %d: upsert stats: %w", game.ID, err)
	}
	if game.State.IsFinal() {
		if err := db.MarkExtracted(game.ID); err != nil {
			return fmt.Errorf("game %d: mark extracted: %w", game.ID, err)
		}
	}

	log.Info().
		Int64("game", game.ID).
		Int("players", len(rows)).
		Int("pp_seconds", win.Len()).
		Str("toi_source", sourceLabel(source)).
		Msg("game processed")
	return nil
}

// newResolver wires the TOI source chain in strict priority order:
// official shifts, the pre-aggregated TOI report, computed shifts, and
// finally the event-gap heuristic.
func newResolver(db *storage.DB) *toi.Resolver {
	return toi.NewResolver(
		toi.NewShiftTableSource("official", db.OfficialShifts),
		toi.NewReportSource("toi-report", db.TOIReport),
		toi.NewShiftTableSource("computed", db.ComputedShifts),
		toi.NewEventGapSource(db.PlaysFor),
	)
}

func sourceLabel(source string) string {
	if source == "" {
		return "none"
	}
	return source
}
