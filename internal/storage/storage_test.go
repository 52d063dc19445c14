package storage

import (
	"testing"

	"github.com/pcaron/go-puck-stats/internal/model"
)

func openMemDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(":memory:")
	if err != nil {
		t.Fatalf("open in-memory db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func sampleRaw() *model.RawGame {
	return &model.RawGame{
		Game: model.Game{
			ID: 2024020001, Season: 2024, Date: "2024-10-09",
			HomeTeamID: 10, AwayTeamID: 20,
			HomeAbbrev: "TOR", AwayAbbrev: "MTL",
			State: model.StateOfficial, HomeScore: 3, AwayScore: 2,
		},
		Roster: []model.RosterSpot{
			{GameID: 2024020001, PlayerID: 7, TeamID: 10, Name: "Center", Position: "C"},
			{GameID: 2024020001, PlayerID: 30, TeamID: 10, Name: "Tender", Position: "G"},
		},
		Plays: []model.PlayEvent{
			{GameID: 2024020001, EventID: 12, Type: model.EventGoal, Period: 1, PeriodSeconds: 300,
				OwnerTeamID: 10, ScorerID: 7, GoalieInNetID: 35},
			{GameID: 2024020001, EventID: 40, Type: model.EventPenalty, Period: 2, PeriodSeconds: 100,
				OwnerTeamID: 20, PenalizedID: 9, PenaltyMinutes: 2},
		},
		OfficialShifts: []model.Shift{
			{GameID: 2024020001, PlayerID: 7, TeamID: 10, Period: 1, StartSeconds: 0, EndSeconds: 45},
			{GameID: 2024020001, PlayerID: 7, TeamID: 10, Period: 1, StartSeconds: 120, EndSeconds: -1},
		},
		ComputedShifts: []model.Shift{
			{GameID: 2024020001, PlayerID: 7, TeamID: 10, Period: 1, StartSeconds: 0, EndSeconds: 50},
		},
		TOIReport: []model.TOIEntry{
			{GameID: 2024020001, PlayerID: 7, EVSeconds: 900, PPSeconds: 120, SHSeconds: 30},
		},
	}
}

func TestInsertRawGameRoundTrip(t *testing.T) {
	db := openMemDB(t)
	raw := sampleRaw()

	if err := db.InsertRawGame(raw); err != nil {
		t.Fatalf("InsertRawGame: %v", err)
	}

	exists, err := db.GameExists(raw.Game.ID)
	if err != nil || !exists {
		t.Fatalf("GameExists = %v, %v; want true", exists, err)
	}

	g, err := db.GetGame(raw.Game.ID)
	if err != nil {
		t.Fatalf("GetGame: %v", err)
	}
	if g == nil || g.State != model.StateOfficial || g.HomeScore != 3 || g.Extracted {
		t.Errorf("stored game = %+v", g)
	}

	plays, err := db.PlaysFor(raw.Game.ID)
	if err != nil {
		t.Fatalf("PlaysFor: %v", err)
	}
	if len(plays) != 2 || plays[0].Type != model.EventGoal || plays[0].ScorerID != 7 {
		t.Errorf("plays = %+v", plays)
	}

	roster, err := db.RosterFor(raw.Game.ID)
	if err != nil || len(roster) != 2 {
		t.Fatalf("RosterFor = %d rows, %v; want 2", len(roster), err)
	}

	shifts, err := db.OfficialShifts(raw.Game.ID)
	if err != nil || len(shifts) != 2 {
		t.Fatalf("OfficialShifts = %d rows, %v; want 2", len(shifts), err)
	}
	if shifts[1].EndSeconds != -1 {
		t.Errorf("open shift end = %d, want -1", shifts[1].EndSeconds)
	}

	toi, err := db.TOIReport(raw.Game.ID)
	if err != nil || len(toi) != 1 {
		t.Fatalf("TOIReport = %d rows, %v; want 1", len(toi), err)
	}
	if toi[0].TotalSeconds() != 1050 {
		t.Errorf("toi total = %d, want 1050", toi[0].TotalSeconds())
	}
}

func TestGetGameAbsent(t *testing.T) {
	db := openMemDB(t)

	g, err := db.GetGame(999)
	if err != nil {
		t.Fatalf("GetGame: %v", err)
	}
	if g != nil {
		t.Errorf("got %+v for absent game, want nil", g)
	}
}

// Loading the same game twice replaces its rows instead of duplicating
// them, and clears any prior extracted flag.
func TestReloadReplacesRows(t *testing.T) {
	db := openMemDB(t)
	raw := sampleRaw()

	if err := db.InsertRawGame(raw); err != nil {
		t.Fatalf("first insert: %v", err)
	}
	if err := db.MarkExtracted(raw.Game.ID); err != nil {
		t.Fatalf("MarkExtracted: %v", err)
	}
	if err := db.InsertRawGame(raw); err != nil {
		t.Fatalf("second insert: %v", err)
	}

	shifts, err := db.OfficialShifts(raw.Game.ID)
	if err != nil {
		t.Fatalf("OfficialShifts: %v", err)
	}
	if len(shifts) != 2 {
		t.Errorf("shift rows after reload = %d, want 2", len(shifts))
	}

	plays, _ := db.PlaysFor(raw.Game.ID)
	if len(plays) != 2 {
		t.Errorf("play rows after reload = %d, want 2", len(plays))
	}

	g, _ := db.GetGame(raw.Game.ID)
	if g.Extracted {
		t.Error("extracted flag survived a reload of raw data")
	}
}

func TestMarkExtracted(t *testing.T) {
	db := openMemDB(t)
	raw := sampleRaw()
	if err := db.InsertRawGame(raw); err != nil {
		t.Fatalf("InsertRawGame: %v", err)
	}

	if err := db.MarkExtracted(raw.Game.ID); err != nil {
		t.Fatalf("MarkExtracted: %v", err)
	}
	g, _ := db.GetGame(raw.Game.ID)
	if !g.Extracted {
		t.Error("game not flagged extracted")
	}
}

func TestUpsertPlayerGameStatsIdempotent(t *testing.T) {
	db := openMemDB(t)

	stats := []model.PlayerGameStat{
		{Season: 2024, GameID: 1, PlayerID: 7, Name: "Center", TeamID: 10, Position: "C",
			Goals: 1, Points: 1, ShotsOnGoal: 4, IceTimeSeconds: 1080},
	}
	if err := db.UpsertPlayerGameStats(stats); err != nil {
		t.Fatalf("first upsert: %v", err)
	}

	stats[0].Goals, stats[0].Points = 2, 2
	if err := db.UpsertPlayerGameStats(stats); err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	rows, err := db.GameStats(1)
	if err != nil {
		t.Fatalf("GameStats: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("got %d rows after re-upsert, want 1", len(rows))
	}
	if rows[0].Goals != 2 {
		t.Errorf("goals = %d, want replaced value 2", rows[0].Goals)
	}
}

func TestPlusMinusUpdateAndReset(t *testing.T) {
	db := openMemDB(t)

	stats := []model.PlayerGameStat{
		{Season: 2024, GameID: 1, PlayerID: 7},
		{Season: 2024, GameID: 1, PlayerID: 8},
	}
	if err := db.UpsertPlayerGameStats(stats); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	missed, err := db.UpdatePlusMinus(map[int64]map[int64]int{
		1: {7: 2, 8: -1, 99: 1}, // 99 has no stat row
	})
	if err != nil {
		t.Fatalf("UpdatePlusMinus: %v", err)
	}
	if missed != 1 {
		t.Errorf("missed = %d, want 1 for the rowless player", missed)
	}

	rows, _ := db.GameStats(1)
	byID := make(map[int64]model.PlayerGameStat)
	for _, r := range rows {
		byID[r.PlayerID] = r
	}
	if byID[7].PlusMinus != 2 || byID[8].PlusMinus != -1 {
		t.Errorf("plus/minus = %d, %d; want 2 and -1", byID[7].PlusMinus, byID[8].PlusMinus)
	}

	if err := db.ResetPlusMinus(2024); err != nil {
		t.Fatalf("ResetPlusMinus: %v", err)
	}
	rows, _ = db.GameStats(1)
	for _, r := range rows {
		if r.PlusMinus != 0 {
			t.Errorf("player %d plus/minus = %d after reset", r.PlayerID, r.PlusMinus)
		}
	}
}

func TestReplaceSeasonStats(t *testing.T) {
	db := openMemDB(t)

	first := []model.PlayerSeasonStat{
		{Season: 2024, PlayerID: 7, Name: "Center", TeamID: 10, Position: "C",
			GamesPlayed: 10, Goals: 5, Points: 12},
		{Season: 2024, PlayerID: 30, Name: "Tender", TeamID: 10, Position: "G",
			IsGoalie: true, GamesPlayed: 8, ShotsFaced: 200, Saves: 185, GoalsAgainst: 15, Wins: 5},
	}
	if err := db.ReplaceSeasonStats(2024, first); err != nil {
		t.Fatalf("first replace: %v", err)
	}

	second := []model.PlayerSeasonStat{
		{Season: 2024, PlayerID: 7, Name: "Center", TeamID: 10, Position: "C",
			GamesPlayed: 11, Goals: 6, Points: 14},
	}
	if err := db.ReplaceSeasonStats(2024, second); err != nil {
		t.Fatalf("second replace: %v", err)
	}

	rows, err := db.SeasonStats(2024)
	if err != nil {
		t.Fatalf("SeasonStats: %v", err)
	}
	if len(rows) != 1 || rows[0].GamesPlayed != 11 {
		t.Errorf("rollup not replaced wholesale: %+v", rows)
	}
}

// A skater's save percentage is undefined, stored as NULL, and read back
// as not-ok; a goalie's round-trips as a real value.
func TestSeasonSavePctNullability(t *testing.T) {
	db := openMemDB(t)

	stats := []model.PlayerSeasonStat{
		{Season: 2024, PlayerID: 7, Position: "C", GamesPlayed: 1},
		{Season: 2024, PlayerID: 30, Position: "G", IsGoalie: true,
			GamesPlayed: 1, ShotsFaced: 20, Saves: 19, GoalsAgainst: 1},
	}
	if err := db.ReplaceSeasonStats(2024, stats); err != nil {
		t.Fatalf("ReplaceSeasonStats: %v", err)
	}

	rows, err := db.SeasonStats(2024)
	if err != nil {
		t.Fatalf("SeasonStats: %v", err)
	}
	for _, r := range rows {
		pct, ok := r.SavePct()
		switch r.PlayerID {
		case 7:
			if ok {
				t.Errorf("skater save pct defined: %v", pct)
			}
		case 30:
			if !ok || pct != 0.95 {
				t.Errorf("goalie save pct = %v %v, want 0.95", pct, ok)
			}
		}
	}
}

func TestSeasonGamesAndList(t *testing.T) {
	db := openMemDB(t)

	a := sampleRaw()
	b := sampleRaw()
	b.Game.ID = 2023020001
	b.Game.Season = 2023
	b.Game.Date = "2023-10-10"
	for _, raw := range []*model.RawGame{a, b} {
		if err := db.InsertRawGame(raw); err != nil {
			t.Fatalf("InsertRawGame: %v", err)
		}
	}

	all, err := db.ListGames()
	if err != nil || len(all) != 2 {
		t.Fatalf("ListGames = %d rows, %v; want 2", len(all), err)
	}
	if all[0].ID != b.Game.ID {
		t.Errorf("games not date-ordered: first is %d", all[0].ID)
	}

	season, err := db.SeasonGames(2024)
	if err != nil || len(season) != 1 || season[0].ID != a.Game.ID {
		t.Errorf("SeasonGames(2024) = %+v, %v", season, err)
	}
}

func TestPlayerGameLog(t *testing.T) {
	db := openMemDB(t)

	stats := []model.PlayerGameStat{
		{Season: 2023, GameID: 5, PlayerID: 7, Goals: 1, Points: 1},
		{Season: 2024, GameID: 1, PlayerID: 7, Goals: 2, Points: 2},
		{Season: 2024, GameID: 1, PlayerID: 8},
	}
	if err := db.UpsertPlayerGameStats(stats); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	log, err := db.PlayerGameLog(7)
	if err != nil {
		t.Fatalf("PlayerGameLog: %v", err)
	}
	if len(log) != 2 || log[0].Season != 2023 || log[1].Goals != 2 {
		t.Errorf("game log = %+v", log)
	}
}
