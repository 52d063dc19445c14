package model

// PeriodLength is the length of a regulation period in seconds. Shifts with
// no recorded end and the event-gap TOI heuristic both close out here.
const PeriodLength = 1200

// Shootout sentinel situation codes. An event carrying either code is a
// shootout attempt and is excluded from situational classification.
const (
	ShootoutCodeHome = "0101"
	ShootoutCodeAway = "1010"
)

// GameState is the lifecycle state of a game as reported by the feed.
type GameState string

const (
	StateScheduled GameState = "FUT"
	StatePregame   GameState = "PRE"
	StateLive      GameState = "LIVE"
	StateCritical  GameState = "CRIT"
	StateOver      GameState = "OVER"
	StateFinal     GameState = "FINAL"
	StateOfficial  GameState = "OFF"
)

// IsFinal reports whether the game has reached one of the final-state
// variants and is therefore eligible to be marked fully extracted.
func (s GameState) IsFinal() bool {
	switch s {
	case StateOver, StateFinal, StateOfficial:
		return true
	}
	return false
}

// Game is externally-owned metadata; the engine only reads it.
type Game struct {
	ID         int64
	Season     int
	Date       string
	HomeTeamID int64
	AwayTeamID int64
	HomeAbbrev string
	AwayAbbrev string
	State      GameState
	HomeScore  int
	AwayScore  int
	Extracted  bool
}

// EventType classifies a play-by-play event.
type EventType string

const (
	EventGoal        EventType = "goal"
	EventShotOnGoal  EventType = "shot-on-goal"
	EventHit         EventType = "hit"
	EventBlockedShot EventType = "blocked-shot"
	EventPenalty     EventType = "penalty"
	EventFaceoff     EventType = "faceoff"
	EventOther       EventType = "other"
)

// PlayEvent is one immutable row of the play-by-play stream. Player id
// fields are 0 when the role is absent from the event.
type PlayEvent struct {
	GameID        int64
	EventID       int
	Type          EventType
	Period        int
	PeriodSeconds int // elapsed seconds within the period
	SituationCode string
	OwnerTeamID   int64 // scoring / shooting / hitting / penalized team

	ScorerID    int64
	Assist1ID   int64
	Assist2ID   int64
	ShooterID   int64
	HitterID    int64
	BlockerID   int64
	PenalizedID int64

	PenaltyMinutes int
	GoalieInNetID  int64 // 0 for empty net
	EmptyNet       bool
}

// GameSeconds returns the event instant in game-relative seconds.
func (e *PlayEvent) GameSeconds() int {
	return (e.Period-1)*PeriodLength + e.PeriodSeconds
}

// IsShootout reports whether the event carries a shootout sentinel code.
func (e *PlayEvent) IsShootout() bool {
	return e.SituationCode == ShootoutCodeHome || e.SituationCode == ShootoutCodeAway
}

// Penalty is the slice of a penalty PlayEvent the window builder needs.
type Penalty struct {
	TeamID       int64
	PlayerID     int64 // 0 for bench penalties
	Minutes      int
	StartSeconds int // game-relative
}

// Shift is one ice-time interval for one player in one period.
// EndSeconds is -1 when the shift was still open at record time; consumers
// treat that as extending to the period end.
type Shift struct {
	GameID       int64
	PlayerID     int64
	TeamID       int64
	Period       int
	StartSeconds int
	EndSeconds   int
}

// Duration returns the shift length in seconds, closing open shifts at the
// period boundary. Never negative.
func (s *Shift) Duration() int {
	end := s.EndSeconds
	if end < 0 || end > PeriodLength {
		end = PeriodLength
	}
	d := end - s.StartSeconds
	if d < 0 {
		return 0
	}
	return d
}

// TOIEntry is one row of the pre-aggregated per-situation TOI table.
type TOIEntry struct {
	GameID    int64
	PlayerID  int64
	EVSeconds int
	PPSeconds int
	SHSeconds int
}

// TotalSeconds sums the per-situation buckets.
func (t *TOIEntry) TotalSeconds() int {
	return t.EVSeconds + t.PPSeconds + t.SHSeconds
}

// RosterSpot ties a player to a team and position for one game.
type RosterSpot struct {
	GameID   int64
	PlayerID int64
	TeamID   int64
	Name     string
	Position string // C, L, R, D, G
}

// IsGoalie reports whether the spot is a goaltender.
func (r *RosterSpot) IsGoalie() bool {
	return r.Position == "G"
}

// RawGame bundles everything the feed delivers for one game.
type RawGame struct {
	Game           Game
	Roster         []RosterSpot
	Plays          []PlayEvent
	OfficialShifts []Shift
	ComputedShifts []Shift
	TOIReport      []TOIEntry
}

// PlayerGameStat is one reconciled row per (season, game, player).
type PlayerGameStat struct {
	Season   int
	GameID   int64
	PlayerID int64

	Name     string
	TeamID   int64
	Position string

	Goals            int
	PrimaryAssists   int
	SecondaryAssists int
	Points           int
	ShotsOnGoal      int
	Hits             int
	Blocks           int
	PenaltyMinutes   int

	PowerPlayPoints   int
	ShortHandedPoints int

	PlusMinus      int
	IceTimeSeconds int

	IsGoalie     bool
	Wins         int
	Saves        int
	ShotsFaced   int
	GoalsAgainst int
	Shutouts     int
}

// Assists returns total assists.
func (s *PlayerGameStat) Assists() int {
	return s.PrimaryAssists + s.SecondaryAssists
}

// SavePct returns the save percentage and false when it is undefined
// (no shots faced).
func (s *PlayerGameStat) SavePct() (float64, bool) {
	if s.ShotsFaced == 0 {
		return 0, false
	}
	return float64(s.Saves) / float64(s.ShotsFaced), true
}

// PlayerSeasonStat is the derived per-player season total, fully recomputed
// from PlayerGameStat rows on every rollup.
type PlayerSeasonStat struct {
	Season   int
	PlayerID int64

	Name     string
	TeamID   int64
	Position string

	GamesPlayed int

	Goals            int
	PrimaryAssists   int
	SecondaryAssists int
	Points           int
	ShotsOnGoal      int
	Hits             int
	Blocks           int
	PenaltyMinutes   int

	PowerPlayPoints   int
	ShortHandedPoints int

	PlusMinus      int
	IceTimeSeconds int

	IsGoalie     bool
	Wins         int
	Saves        int
	ShotsFaced   int
	GoalsAgainst int
	Shutouts     int
}

// Assists returns total assists.
func (s *PlayerSeasonStat) Assists() int {
	return s.PrimaryAssists + s.SecondaryAssists
}

// SavePct returns the season save percentage and false when undefined.
func (s *PlayerSeasonStat) SavePct() (float64, bool) {
	if s.ShotsFaced == 0 {
		return 0, false
	}
	return float64(s.Saves) / float64(s.ShotsFaced), true
}

// PointsPerGame returns points per game played, 0 when no games.
func (s *PlayerSeasonStat) PointsPerGame() float64 {
	if s.GamesPlayed == 0 {
		return 0
	}
	return float64(s.Points) / float64(s.GamesPlayed)
}
