// Package report renders per-game and per-season stat tables.
package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/pcaron/go-puck-stats/internal/model"
)

// PrintGameHeader prints a one-line summary header for the game.
func PrintGameHeader(w io.Writer, g model.Game) {
	fmt.Fprintf(w, "\nGame %d  |  %s  |  %s %d - %d %s  |  state: %s\n\n",
		g.ID, g.Date, g.AwayAbbrev, g.AwayScore, g.HomeScore, g.HomeAbbrev, g.State)
}

func newTable(w io.Writer) *tablewriter.Table {
	return tablewriter.NewTable(w, tablewriter.WithConfig(tablewriter.Config{
		Row: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignRight},
		},
		Header: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignCenter},
		},
	}))
}

// PrintSkaterTable prints the skater rows of one game. If focusPlayerID is
// non-zero, that player's row is marked with ">".
func PrintSkaterTable(w io.Writer, stats []model.PlayerGameStat, focusPlayerID int64) {
	table := newTable(w)
	table.Header(" ", "NAME", "POS", "G", "A1", "A2", "P", "+/-", "SOG", "HIT", "BLK", "PIM", "PPP", "SHP", "TOI")

	for i := range stats {
		s := &stats[i]
		if s.IsGoalie {
			continue
		}
		marker := " "
		if focusPlayerID != 0 && s.PlayerID == focusPlayerID {
			marker = ">"
		}
		table.Append(
			marker,
			playerLabel(s.Name, s.PlayerID),
			s.Position,
			strconv.Itoa(s.Goals),
			strconv.Itoa(s.PrimaryAssists),
			strconv.Itoa(s.SecondaryAssists),
			strconv.Itoa(s.Points),
			fmt.Sprintf("%+d", s.PlusMinus),
			strconv.Itoa(s.ShotsOnGoal),
			strconv.Itoa(s.Hits),
			strconv.Itoa(s.Blocks),
			strconv.Itoa(s.PenaltyMinutes),
			strconv.Itoa(s.PowerPlayPoints),
			strconv.Itoa(s.ShortHandedPoints),
			FormatTOI(s.IceTimeSeconds),
		)
	}
	table.Render()
}

// PrintGoalieTable prints the goalie rows of one game.
func PrintGoalieTable(w io.Writer, stats []model.PlayerGameStat) {
	table := newTable(w)
	table.Header("NAME", "SA", "SV", "GA", "SV%", "SO", "W", "TOI")

	found := false
	for i := range stats {
		s := &stats[i]
		if !s.IsGoalie {
			continue
		}
		found = true
		table.Append(
			playerLabel(s.Name, s.PlayerID),
			strconv.Itoa(s.ShotsFaced),
			strconv.Itoa(s.Saves),
			strconv.Itoa(s.GoalsAgainst),
			savePctLabel(s.SavePct()),
			strconv.Itoa(s.Shutouts),
			strconv.Itoa(s.Wins),
			FormatTOI(s.IceTimeSeconds),
		)
	}
	if found {
		table.Render()
	}
}

// PrintSeasonTable prints season totals, points leaders first.
func PrintSeasonTable(w io.Writer, stats []model.PlayerSeasonStat) {
	table := newTable(w)
	table.Header("NAME", "POS", "GP", "G", "A", "P", "+/-", "SOG", "HIT", "BLK", "PIM", "PPP", "SHP", "TOI", "P/GP")

	for i := range stats {
		s := &stats[i]
		table.Append(
			playerLabel(s.Name, s.PlayerID),
			s.Position,
			strconv.Itoa(s.GamesPlayed),
			strconv.Itoa(s.Goals),
			strconv.Itoa(s.Assists()),
			strconv.Itoa(s.Points),
			fmt.Sprintf("%+d", s.PlusMinus),
			strconv.Itoa(s.ShotsOnGoal),
			strconv.Itoa(s.Hits),
			strconv.Itoa(s.Blocks),
			strconv.Itoa(s.PenaltyMinutes),
			strconv.Itoa(s.PowerPlayPoints),
			strconv.Itoa(s.ShortHandedPoints),
			FormatTOI(s.IceTimeSeconds),
			fmt.Sprintf("%.2f", s.PointsPerGame()),
		)
	}
	table.Render()
}

// PrintSeasonGoalieTable prints goalie season totals.
func PrintSeasonGoalieTable(w io.Writer, stats []model.PlayerSeasonStat) {
	table := newTable(w)
	table.Header("NAME", "GP", "W", "SA", "SV", "GA", "SV%", "SO")

	found := false
	for i := range stats {
		s := &stats[i]
		if !s.IsGoalie {
			continue
		}
		found = true
		table.Append(
			playerLabel(s.Name, s.PlayerID),
			strconv.Itoa(s.GamesPlayed),
			strconv.Itoa(s.Wins),
			strconv.Itoa(s.ShotsFaced),
			strconv.Itoa(s.Saves),
			strconv.Itoa(s.GoalsAgainst),
			savePctLabel(s.SavePct()),
			strconv.Itoa(s.Shutouts),
		)
	}
	if found {
		table.Render()
	}
}

// FormatTOI renders ice-time seconds as M:SS.
func FormatTOI(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}

func playerLabel(name string, id int64) string {
	if name != "" {
		return name
	}
	return fmt.Sprintf("#%d", id)
}

func savePctLabel(pct float64, ok bool) string {
	if !ok {
		return "—"
	}
	if pct >= 1 {
		return "1.000"
	}
	return strings.TrimPrefix(fmt.Sprintf("%.3f", pct), "0")
}
