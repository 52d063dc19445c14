// Package aggregator walks a game's play-by-play list once and produces
// per-player counting stats, attributing goal credits to even-strength,
// power-play, or short-handed situations via the situational window.
package aggregator

import (
	"fmt"

	"github.com/pcaron/go-puck-stats/internal/model"
	"github.com/pcaron/go-puck-stats/internal/situation"
)

// Aggregate computes one accumulator row per player touched by any event.
// Ice time and plus/minus are left zero; they are resolved by their own
// components and merged by the pipeline.
//
// The aggregator never reads prior state, so repeated runs over the same
// input produce identical accumulators. Events missing a required player id
// skip that specific credit; the rest of the list is still processed.
func Aggregate(game model.Game, roster []model.RosterSpot, plays []model.PlayEvent, win *situation.Window) (map[int64]*model.PlayerGameStat, error) {
	if win == nil {
		return nil, fmt.Errorf("nil situational window")
	}

	spots := make(map[int64]model.RosterSpot, len(roster))
	for _, r := range roster {
		spots[r.PlayerID] = r
	}

	stats := make(map[int64]*model.PlayerGameStat)
	get := func(playerID, ownerTeamID int64) *model.PlayerGameStat {
		if s, ok := stats[playerID]; ok {
			return s
		}
		s := &model.PlayerGameStat{
			Season:   game.Season,
			GameID:   game.ID,
			PlayerID: playerID,
			TeamID:   ownerTeamID,
		}
		if spot, ok := spots[playerID]; ok {
			s.Name = spot.Name
			s.TeamID = spot.TeamID
			s.Position = spot.Position
			s.IsGoalie = spot.IsGoalie()
		}
		stats[playerID] = s
		return s
	}

	for i := range plays {
		ev := &plays[i]
		switch ev.Type {
		case model.EventGoal:
			creditGoal(ev, win, get)
		case model.EventShotOnGoal:
			if ev.ShooterID != 0 {
				get(ev.ShooterID, ev.OwnerTeamID).ShotsOnGoal++
			}
			if ev.GoalieInNetID != 0 {
				g := get(ev.GoalieInNetID, 0)
				g.ShotsFaced++
				g.Saves++
			}
		case model.EventHit:
			if ev.HitterID != 0 {
				get(ev.HitterID, ev.OwnerTeamID).Hits++
			}
		case model.EventBlockedShot:
			if ev.BlockerID != 0 {
				get(ev.BlockerID, ev.OwnerTeamID).Blocks++
			}
		case model.EventPenalty:
			if ev.PenalizedID != 0 && ev.PenaltyMinutes > 0 {
				get(ev.PenalizedID, ev.OwnerTeamID).PenaltyMinutes += ev.PenaltyMinutes
			}
		}
	}

	return stats, nil
}

// creditGoal applies scorer/assist credits for one goal event, plus the
// goalie's goal-against and the situational point if the scoring team was
// on the power play or short-handed at the goal instant.
func creditGoal(ev *model.PlayEvent, win *situation.Window, get func(int64, int64) *model.PlayerGameStat) {
	// Shootout attempts bypass situational classification: the goal and
	// assist credits land as usual, but always at even strength.
	strength := situation.StrengthEven
	if !ev.IsShootout() && ev.OwnerTeamID != 0 {
		strength = win.StrengthFor(ev.GameSeconds(), ev.OwnerTeamID)
	}

	credit := func(playerID int64) *model.PlayerGameStat {
		s := get(playerID, ev.OwnerTeamID)
		s.Points++
		// At most one of PPP / SHP per credit, never both.
		switch strength {
		case situation.StrengthPowerPlay:
			s.PowerPlayPoints++
		case situation.StrengthShortHanded:
			s.ShortHandedPoints++
		}
		return s
	}

	if ev.ScorerID != 0 {
		s := credit(ev.ScorerID)
		s.Goals++
		s.ShotsOnGoal++ // a goal is also a shot on goal
	}
	if ev.Assist1ID != 0 {
		credit(ev.Assist1ID).PrimaryAssists++
	}
	if ev.Assist2ID != 0 {
		credit(ev.Assist2ID).SecondaryAssists++
	}

	if ev.GoalieInNetID != 0 {
		g := get(ev.GoalieInNetID, 0)
		g.ShotsFaced++
		g.GoalsAgainst++
	}
}
