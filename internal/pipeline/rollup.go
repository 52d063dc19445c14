package pipeline

import (
	"sort"

	"github.com/pcaron/go-puck-stats/internal/model"
)

// RollupSeason fully recomputes per-player season totals from per-game
// rows. The result replaces any previous totals; there is no incremental
// merge. Team, position, name, and the goalie flag take the last non-empty
// value observed in game order.
func RollupSeason(season int, rows []model.PlayerGameStat) []model.PlayerSeasonStat {
	ordered := make([]model.PlayerGameStat, 0, len(rows))
	for _, r := range rows {
		if r.Season == season {
			ordered = append(ordered, r)
		}
	}
	sort.Slice(ordered, func(i, j int) bool {
		if ordered[i].GameID != ordered[j].GameID {
			return ordered[i].GameID < ordered[j].GameID
		}
		return ordered[i].PlayerID < ordered[j].PlayerID
	})

	totals := make(map[int64]*model.PlayerSeasonStat)
	var players []int64
	for i := range ordered {
		r := &ordered[i]
		t, ok := totals[r.PlayerID]
		if !ok {
			t = &model.PlayerSeasonStat{Season: season, PlayerID: r.PlayerID}
			totals[r.PlayerID] = t
			players = append(players, r.PlayerID)
		}

		t.GamesPlayed++
		t.Goals += r.Goals
		t.PrimaryAssists += r.PrimaryAssists
		t.SecondaryAssists += r.SecondaryAssists
		t.Points += r.Points
		t.ShotsOnGoal += r.ShotsOnGoal
		t.Hits += r.Hits
		t.Blocks += r.Blocks
		t.PenaltyMinutes += r.PenaltyMinutes
		t.PowerPlayPoints += r.PowerPlayPoints
		t.ShortHandedPoints += r.ShortHandedPoints
		t.PlusMinus += r.PlusMinus
		t.IceTimeSeconds += r.IceTimeSeconds
		t.Wins += r.Wins
		t.Saves += r.Saves
		t.ShotsFaced += r.ShotsFaced
		t.GoalsAgainst += r.GoalsAgainst
		t.Shutouts += r.Shutouts

		if r.Name != "" {
			t.Name = r.Name
		}
		if r.TeamID != 0 {
			t.TeamID = r.TeamID
		}
		if r.Position != "" {
			t.Position = r.Position
		}
		if r.IsGoalie {
			t.IsGoalie = true
		}
	}

	out := make([]model.PlayerSeasonStat, 0, len(players))
	for _, id := range players {
		out = append(out, *totals[id])
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Points != out[j].Points {
			return out[i].Points > out[j].Points
		}
		return out[i].PlayerID < out[j].PlayerID
	})
	return out
}
