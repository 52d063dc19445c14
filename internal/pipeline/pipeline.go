// Package pipeline merges the engine components into per-game stat records
// and rolls validated records up into season totals. Everything here is a
// pure function of its inputs; persistence is the caller's concern.
package pipeline

import (
	"fmt"
	"sort"

	"github.com/pcaron/go-puck-stats/internal/aggregator"
	"github.com/pcaron/go-puck-stats/internal/model"
	"github.com/pcaron/go-puck-stats/internal/plusminus"
	"github.com/pcaron/go-puck-stats/internal/situation"
)

// Penalties extracts the window builder's input from a play list. Events
// without a resolvable team or duration are dropped; the window builder
// treats the missing penalty as a documented default, not an error.
func Penalties(plays []model.PlayEvent) []model.Penalty {
	var out []model.Penalty
	for i := range plays {
		ev := &plays[i]
		if ev.Type != model.EventPenalty || ev.PenaltyMinutes <= 0 {
			continue
		}
		out = append(out, model.Penalty{
			TeamID:       ev.OwnerTeamID,
			PlayerID:     ev.PenalizedID,
			Minutes:      ev.PenaltyMinutes,
			StartSeconds: ev.GameSeconds(),
		})
	}
	return out
}

// CleanGoals returns the goals eligible for plus/minus: real (non-shootout)
// goals that were neither power-play goals for the scoring team nor scored
// into an empty net.
func CleanGoals(plays []model.PlayEvent, win *situation.Window) []plusminus.CleanGoal {
	var out []plusminus.CleanGoal
	for i := range plays {
		ev := &plays[i]
		if ev.Type != model.EventGoal || ev.IsShootout() || ev.EmptyNet {
			continue
		}
		if ev.OwnerTeamID != 0 &&
			win.StrengthFor(ev.GameSeconds(), ev.OwnerTeamID) == situation.StrengthPowerPlay {
			continue
		}
		out = append(out, plusminus.CleanGoal{
			GameID:        ev.GameID,
			Period:        ev.Period,
			PeriodSeconds: ev.PeriodSeconds,
			ScoringTeamID: ev.OwnerTeamID,
		})
	}
	return out
}

// BuildGameStats produces the final per-player rows for one game: the
// event accumulators merged with resolved ice time, zero-defaulted, with
// goalie decisions awarded. Plus/minus stays zero here; it is a separate
// season-level pass. Output order is deterministic so that re-running the
// pipeline on unchanged inputs yields identical rows.
func BuildGameStats(game model.Game, roster []model.RosterSpot, plays []model.PlayEvent, win *situation.Window, toiSeconds map[int64]int) ([]model.PlayerGameStat, error) {
	stats, err := aggregator.Aggregate(game, roster, plays, win)
	if err != nil {
		return nil, fmt.Errorf("aggregate game %d: %w", game.ID, err)
	}

	spots := make(map[int64]model.RosterSpot, len(roster))
	for _, r := range roster {
		spots[r.PlayerID] = r
	}

	// Players with shifts but no events still get a row.
	for playerID, secs := range toiSeconds {
		s, ok := stats[playerID]
		if !ok {
			s = &model.PlayerGameStat{
				Season:   game.Season,
				GameID:   game.ID,
				PlayerID: playerID,
			}
			if spot, ok := spots[playerID]; ok {
				s.Name = spot.Name
				s.TeamID = spot.TeamID
				s.Position = spot.Position
				s.IsGoalie = spot.IsGoalie()
			}
			stats[playerID] = s
		}
		if secs > 0 {
			s.IceTimeSeconds = secs
		}
	}

	awardGoalieDecisions(game, stats)

	rows := make([]model.PlayerGameStat, 0, len(stats))
	for _, s := range stats {
		rows = append(rows, *s)
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Points != rows[j].Points {
			return rows[i].Points > rows[j].Points
		}
		if rows[i].Goals != rows[j].Goals {
			return rows[i].Goals > rows[j].Goals
		}
		return rows[i].PlayerID < rows[j].PlayerID
	})
	return rows, nil
}

// awardGoalieDecisions gives the win to the winning team's busiest goalie
// and a shutout when that goalie allowed no goals. Only decided, final
// games award anything.
func awardGoalieDecisions(game model.Game, stats map[int64]*model.PlayerGameStat) {
	if !game.State.IsFinal() || game.HomeScore == game.AwayScore {
		return
	}
	winner := game.HomeTeamID
	if game.AwayScore > game.HomeScore {
		winner = game.AwayTeamID
	}

	var best *model.PlayerGameStat
	for _, s := range stats {
		if !s.IsGoalie || s.TeamID != winner {
			continue
		}
		if best == nil ||
			s.ShotsFaced > best.ShotsFaced ||
			(s.ShotsFaced == best.ShotsFaced && s.PlayerID < best.PlayerID) {
			best = s
		}
	}
	if best == nil {
		return
	}
	best.Wins = 1
	if best.GoalsAgainst == 0 && best.ShotsFaced > 0 {
		best.Shutouts = 1
	}
}
