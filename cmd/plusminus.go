package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pcaron/go-puck-stats/internal/logging"
	"github.com/pcaron/go-puck-stats/internal/model"
	"github.com/pcaron/go-puck-stats/internal/pipeline"
	"github.com/pcaron/go-puck-stats/internal/plusminus"
	"github.com/pcaron/go-puck-stats/internal/situation"
	"github.com/pcaron/go-puck-stats/internal/storage"
)

var plusMinusSeason int

var plusMinusCmd = &cobra.Command{
	Use:   "plusminus",
	Short: "Recompute plus/minus for a season from clean goals and shifts",
	Args:  cobra.NoArgs,
	RunE:  runPlusMinus,
}

func init() {
	plusMinusCmd.Flags().IntVar(&plusMinusSeason, "season", 0, "season to recompute (required)")
	plusMinusCmd.MarkFlagRequired("season")
}

// runPlusMinus is the season-level pass: it gathers every game's clean
// goals and shift intervals, computes signed adjustments, and writes them
// into the per-game rows after a full reset.
func runPlusMinus(cmd *cobra.Command, args []string) error {
	log := logging.New("plusminus")

	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	games, err := db.SeasonGames(plusMinusSeason)
	if err != nil {
		return fmt.Errorf("list games: %w", err)
	}

	var goals []plusminus.CleanGoal
	var shifts []model.Shift
	goalies := make(map[int64]bool)

	for _, game := range games {
		plays, err := db.PlaysFor(game.ID)
		if err != nil {
			return fmt.Errorf("game %d: load plays: %w", game.ID, err)
		}
		win := situation.Build(pipeline.Penalties(plays), game.HomeTeamID, game.AwayTeamID)
		goals = append(goals, pipeline.CleanGoals(plays, win)...)

		gameShifts, err := gameShiftRows(db, game.ID)
		if err != nil {
			return err
		}
		shifts = append(shifts, gameShifts...)

		roster, err := db.RosterFor(game.ID)
		if err != nil {
			return fmt.Errorf("game %d: load roster: %w", game.ID, err)
		}
		for i := range roster {
			if roster[i].IsGoalie() {
				goalies[roster[i].PlayerID] = true
			}
		}
		// Goalies seen in net but missing from the roster table still
		// must never receive plus/minus.
		for i := range plays {
			if id := plays[i].GoalieInNetID; id != 0 {
				goalies[id] = true
			}
		}
	}

	adjustments := plusminus.Compute(goals, shifts, goalies)

	byGame := make(map[int64]map[int64]int)
	for k, delta := range adjustments {
		if byGame[k.GameID] == nil {
			byGame[k.GameID] = make(map[int64]int)
		}
		byGame[k.GameID][k.PlayerID] = delta
	}

	if err := db.ResetPlusMinus(plusMinusSeason); err != nil {
		return fmt.Errorf("reset plus/minus: %w", err)
	}
	missed, err := db.UpdatePlusMinus(byGame)
	if err != nil {
		return fmt.Errorf("write plus/minus: %w", err)
	}

	log.Info().
		Int("season", plusMinusSeason).
		Int("clean_goals", len(goals)).
		Int("adjusted_rows", len(adjustments)).
		Int("rows_without_stats", missed).
		Msg("plus/minus recomputed")
	return nil
}

// gameShiftRows picks exactly one shift source per game, official first;
// sources are never merged at the row level. The TOI report has no
// intervals and cannot serve here.
func gameShiftRows(db *storage.DB, gameID int64) ([]model.Shift, error) {
	shifts, err := db.OfficialShifts(gameID)
	if err != nil {
		return nil, fmt.Errorf("game %d: load official shifts: %w", gameID, err)
	}
	if len(shifts) > 0 {
		return shifts, nil
	}
	shifts, err = db.ComputedShifts(gameID)
	if err != nil {
		return nil, fmt.Errorf("game %d: load computed shifts: %w", gameID, err)
	}
	return shifts, nil
}
