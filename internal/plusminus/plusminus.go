// Package plusminus matches clean goals against on-ice shift intervals to
// credit +1/-1 to skaters. It runs at season granularity, after the games
// of interest are stable.
package plusminus

import "github.com/pcaron/go-puck-stats/internal/model"

// CleanGoal is a goal eligible for plus/minus: neither scored on a power
// play nor into an empty net.
type CleanGoal struct {
	GameID        int64
	Period        int
	PeriodSeconds int
	ScoringTeamID int64 // 0 when the scoring side could not be resolved
}

// GamePlayer keys one player's adjustment within one game.
type GamePlayer struct {
	GameID   int64
	PlayerID int64
}

// Compute scans shifts for every clean goal and returns signed adjustments
// per (game, player). Goaltenders in the goalies set are excluded by
// construction. A game or period with no shift data contributes zero
// adjustments; goals with an unresolved scoring team are skipped.
func Compute(goals []CleanGoal, shifts []model.Shift, goalies map[int64]bool) map[GamePlayer]int {
	type gamePeriod struct {
		gameID int64
		period int
	}
	byPeriod := make(map[gamePeriod][]model.Shift)
	for _, s := range shifts {
		k := gamePeriod{s.GameID, s.Period}
		byPeriod[k] = append(byPeriod[k], s)
	}

	out := make(map[GamePlayer]int)
	for _, g := range goals {
		if g.ScoringTeamID == 0 {
			continue
		}
		t := g.PeriodSeconds
		for _, s := range byPeriod[gamePeriod{g.GameID, g.Period}] {
			if goalies[s.PlayerID] {
				continue
			}
			end := s.EndSeconds
			if end < 0 {
				end = model.PeriodLength // still active, extends to period end
			}
			if t < s.StartSeconds || t > end {
				continue
			}
			k := GamePlayer{g.GameID, s.PlayerID}
			if s.TeamID == g.ScoringTeamID {
				out[k]++
			} else {
				out[k]--
			}
		}
	}
	return out
}
