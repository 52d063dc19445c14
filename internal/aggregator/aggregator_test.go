package aggregator

import (
	"testing"

	"github.com/pcaron/go-puck-stats/internal/model"
	"github.com/pcaron/go-puck-stats/internal/situation"
)

const (
	homeTeam int64 = 10
	awayTeam int64 = 20

	scorer  int64 = 1001
	helper1 int64 = 1002
	helper2 int64 = 1003
	checker int64 = 1004
	goalie  int64 = 2001
)

func makeGame() model.Game {
	return model.Game{
		ID:         42,
		Season:     2024,
		HomeTeamID: homeTeam,
		AwayTeamID: awayTeam,
		State:      model.StateOfficial,
	}
}

func makeRoster() []model.RosterSpot {
	return []model.RosterSpot{
		{GameID: 42, PlayerID: scorer, TeamID: homeTeam, Name: "Scorer", Position: "C"},
		{GameID: 42, PlayerID: helper1, TeamID: homeTeam, Name: "Helper One", Position: "L"},
		{GameID: 42, PlayerID: helper2, TeamID: homeTeam, Name: "Helper Two", Position: "D"},
		{GameID: 42, PlayerID: checker, TeamID: awayTeam, Name: "Checker", Position: "R"},
		{GameID: 42, PlayerID: goalie, TeamID: awayTeam, Name: "Tender", Position: "G"},
	}
}

func goalEvent(period, periodSec int, team int64) model.PlayEvent {
	return model.PlayEvent{
		GameID: 42, EventID: 1, Type: model.EventGoal,
		Period: period, PeriodSeconds: periodSec,
		OwnerTeamID: team,
		ScorerID:    scorer, Assist1ID: helper1, Assist2ID: helper2,
		GoalieInNetID: goalie,
	}
}

func evenWindow() *situation.Window {
	return situation.Build(nil, homeTeam, awayTeam)
}

func ppWindowAgainst(team int64, start int) *situation.Window {
	return situation.Build(
		[]model.Penalty{{TeamID: team, PlayerID: 99, Minutes: 2, StartSeconds: start}},
		homeTeam, awayTeam)
}

func TestGoalCreditsAndPointsIdentity(t *testing.T) {
	plays := []model.PlayEvent{goalEvent(1, 300, homeTeam)}

	stats, err := Aggregate(makeGame(), makeRoster(), plays, evenWindow())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	s := stats[scorer]
	if s == nil || s.Goals != 1 || s.Points != 1 || s.ShotsOnGoal != 1 {
		t.Fatalf("scorer: got %+v, want 1 goal, 1 point, 1 SOG", s)
	}
	if a := stats[helper1]; a == nil || a.PrimaryAssists != 1 || a.Points != 1 {
		t.Errorf("primary assister: got %+v", a)
	}
	if a := stats[helper2]; a == nil || a.SecondaryAssists != 1 || a.Points != 1 {
		t.Errorf("secondary assister: got %+v", a)
	}

	for id, s := range stats {
		if s.Points != s.Goals+s.PrimaryAssists+s.SecondaryAssists {
			t.Errorf("player %d: points %d != goals %d + assists %d+%d",
				id, s.Points, s.Goals, s.PrimaryAssists, s.SecondaryAssists)
		}
	}
}

func TestPowerPlayGoalCreditsPPP(t *testing.T) {
	// Away team penalized at 250, home scores at 300: power-play goal.
	plays := []model.PlayEvent{goalEvent(1, 300, homeTeam)}

	stats, err := Aggregate(makeGame(), makeRoster(), plays, ppWindowAgainst(awayTeam, 250))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, id := range []int64{scorer, helper1, helper2} {
		s := stats[id]
		if s.PowerPlayPoints != 1 {
			t.Errorf("player %d: PPP = %d, want 1", id, s.PowerPlayPoints)
		}
		if s.ShortHandedPoints != 0 {
			t.Errorf("player %d: SHP = %d, want 0 (never both)", id, s.ShortHandedPoints)
		}
	}
}

// Scenario: the scoring team itself is penalized at 250 and scores at 300
// while a skater down. Every credit is short-handed, not power-play.
func TestShortHandedGoalCreditsSHP(t *testing.T) {
	plays := []model.PlayEvent{goalEvent(1, 300, homeTeam)}

	stats, err := Aggregate(makeGame(), makeRoster(), plays, ppWindowAgainst(homeTeam, 250))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, id := range []int64{scorer, helper1, helper2} {
		s := stats[id]
		if s.ShortHandedPoints != 1 {
			t.Errorf("player %d: SHP = %d, want 1", id, s.ShortHandedPoints)
		}
		if s.PowerPlayPoints != 0 {
			t.Errorf("player %d: PPP = %d, want 0 (never both)", id, s.PowerPlayPoints)
		}
	}
}

// A shootout-sentinel situation code suppresses only the situational
// classification: the goal, assist, and goalie credits land as usual, but
// every credit reads even strength no matter what the penalty timeline
// says at that instant.
func TestShootoutGoalCreditsWithoutSituationalPoints(t *testing.T) {
	ev := goalEvent(5, 0, homeTeam)
	ev.SituationCode = model.ShootoutCodeHome

	// The timeline claims a power play at the attempt instant; the
	// sentinel must override it.
	stats, err := Aggregate(makeGame(), makeRoster(), []model.PlayEvent{ev}, ppWindowAgainst(awayTeam, 4780))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	s := stats[scorer]
	if s == nil || s.Goals != 1 || s.Points != 1 || s.ShotsOnGoal != 1 {
		t.Fatalf("scorer: got %+v, want 1 goal, 1 point, 1 SOG", s)
	}
	for _, id := range []int64{scorer, helper1, helper2} {
		c := stats[id]
		if c == nil || c.Points != 1 {
			t.Fatalf("player %d: got %+v, want a credited point", id, c)
		}
		if c.PowerPlayPoints != 0 || c.ShortHandedPoints != 0 {
			t.Errorf("player %d: PPP=%d SHP=%d, want 0/0 on a shootout attempt",
				id, c.PowerPlayPoints, c.ShortHandedPoints)
		}
	}
	if g := stats[goalie]; g == nil || g.ShotsFaced != 1 || g.GoalsAgainst != 1 {
		t.Errorf("goalie: got %+v, want 1 faced, 1 against", g)
	}
}

func TestShotHitBlockPenaltyCounters(t *testing.T) {
	plays := []model.PlayEvent{
		{GameID: 42, EventID: 2, Type: model.EventShotOnGoal, Period: 1, PeriodSeconds: 100,
			OwnerTeamID: homeTeam, ShooterID: scorer, GoalieInNetID: goalie},
		{GameID: 42, EventID: 3, Type: model.EventHit, Period: 1, PeriodSeconds: 110,
			OwnerTeamID: awayTeam, HitterID: checker},
		{GameID: 42, EventID: 4, Type: model.EventBlockedShot, Period: 1, PeriodSeconds: 120,
			OwnerTeamID: homeTeam, BlockerID: helper2},
		{GameID: 42, EventID: 5, Type: model.EventPenalty, Period: 1, PeriodSeconds: 130,
			OwnerTeamID: awayTeam, PenalizedID: checker, PenaltyMinutes: 2},
		{GameID: 42, EventID: 6, Type: model.EventPenalty, Period: 2, PeriodSeconds: 30,
			OwnerTeamID: awayTeam, PenalizedID: checker, PenaltyMinutes: 5},
	}

	stats, err := Aggregate(makeGame(), makeRoster(), plays, evenWindow())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if s := stats[scorer]; s.ShotsOnGoal != 1 {
		t.Errorf("shooter SOG = %d, want 1", s.ShotsOnGoal)
	}
	if s := stats[checker]; s.Hits != 1 || s.PenaltyMinutes != 7 {
		t.Errorf("checker: hits=%d PIM=%d, want 1 and 7", s.Hits, s.PenaltyMinutes)
	}
	if s := stats[helper2]; s.Blocks != 1 {
		t.Errorf("blocker blocks = %d, want 1", s.Blocks)
	}
}

// An event missing a required player id skips only that credit; the rest
// of the event still counts.
func TestMalformedGoalSkipsMissingCredits(t *testing.T) {
	ev := goalEvent(1, 300, homeTeam)
	ev.ScorerID = 0 // feed dropped the scorer

	stats, err := Aggregate(makeGame(), makeRoster(), []model.PlayEvent{ev}, evenWindow())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if s := stats[helper1]; s == nil || s.PrimaryAssists != 1 {
		t.Errorf("assist credit lost with missing scorer: %+v", s)
	}
	if s, ok := stats[0]; ok {
		t.Errorf("phantom player 0 created: %+v", s)
	}
}

func TestGoalieSaveAccounting(t *testing.T) {
	plays := []model.PlayEvent{
		{GameID: 42, EventID: 2, Type: model.EventShotOnGoal, Period: 1, PeriodSeconds: 100,
			OwnerTeamID: homeTeam, ShooterID: scorer, GoalieInNetID: goalie},
		{GameID: 42, EventID: 3, Type: model.EventShotOnGoal, Period: 1, PeriodSeconds: 200,
			OwnerTeamID: homeTeam, ShooterID: helper1, GoalieInNetID: goalie},
		goalEvent(1, 300, homeTeam),
	}

	stats, err := Aggregate(makeGame(), makeRoster(), plays, evenWindow())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	g := stats[goalie]
	if g == nil {
		t.Fatal("no goalie row")
	}
	if g.ShotsFaced != 3 || g.Saves != 2 || g.GoalsAgainst != 1 {
		t.Errorf("goalie: faced=%d saves=%d against=%d, want 3/2/1", g.ShotsFaced, g.Saves, g.GoalsAgainst)
	}
	if g.Saves != g.ShotsFaced-g.GoalsAgainst {
		t.Errorf("save identity broken: %d != %d - %d", g.Saves, g.ShotsFaced, g.GoalsAgainst)
	}
	if !g.IsGoalie {
		t.Error("goalie row not flagged as goalie")
	}
}

func TestEmptyNetGoalCreditsNoGoalie(t *testing.T) {
	ev := goalEvent(3, 1150, homeTeam)
	ev.GoalieInNetID = 0
	ev.EmptyNet = true

	stats, err := Aggregate(makeGame(), makeRoster(), []model.PlayEvent{ev}, evenWindow())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if g, ok := stats[goalie]; ok && g.GoalsAgainst != 0 {
		t.Errorf("pulled goalie charged with a goal against: %+v", g)
	}
	if s := stats[scorer]; s == nil || s.Goals != 1 {
		t.Errorf("empty-net goal not counted for scorer: %+v", s)
	}
}

func TestNilWindowRejected(t *testing.T) {
	if _, err := Aggregate(makeGame(), makeRoster(), nil, nil); err == nil {
		t.Error("expected error for nil window")
	}
}

// Repeated runs over the same input must produce identical accumulators;
// the aggregator reads no prior state.
func TestAggregateIsPure(t *testing.T) {
	plays := []model.PlayEvent{goalEvent(1, 300, homeTeam)}
	win := ppWindowAgainst(awayTeam, 250)

	first, err := Aggregate(makeGame(), makeRoster(), plays, win)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := Aggregate(makeGame(), makeRoster(), plays, win)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(first) != len(second) {
		t.Fatalf("row counts differ: %d vs %d", len(first), len(second))
	}
	for id, s1 := range first {
		s2 := second[id]
		if s2 == nil || *s1 != *s2 {
			t.Errorf("player %d drifted between runs: %+v vs %+v", id, s1, s2)
		}
	}
}
