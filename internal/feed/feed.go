// Package feed decodes one game's raw JSON payload (metadata, roster
// spots, play-by-play, and up to three shift tables) into model types.
// Payloads are assumed already fetched and stored; no network access
// happens here.
package feed

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/pcaron/go-puck-stats/internal/model"
)

type teamInfo struct {
	ID     int64  `json:"id"`
	Abbrev string `json:"abbrev"`
	Score  int    `json:"score"`
}

type rosterSpot struct {
	PlayerID     int64  `json:"playerId"`
	TeamID       int64  `json:"teamId"`
	Name         string `json:"name"`
	PositionCode string `json:"positionCode"`
}

type playDetails struct {
	EventOwnerTeamID    int64 `json:"eventOwnerTeamId"`
	ScoringPlayerID     int64 `json:"scoringPlayerId"`
	Assist1PlayerID     int64 `json:"assist1PlayerId"`
	Assist2PlayerID     int64 `json:"assist2PlayerId"`
	ShootingPlayerID    int64 `json:"shootingPlayerId"`
	HittingPlayerID     int64 `json:"hittingPlayerId"`
	BlockingPlayerID    int64 `json:"blockingPlayerId"`
	CommittedByPlayerID int64 `json:"committedByPlayerId"`
	// The feed is inconsistent about which of the two carries the PIM;
	// both must be checked.
	PenaltyMinutes int   `json:"penaltyMinutes"`
	Duration       int   `json:"duration"`
	GoalieInNetID  int64 `json:"goalieInNetId"`
	EmptyNet       bool  `json:"emptyNet"`
}

type play struct {
	EventID          int    `json:"eventId"`
	TypeDescKey      string `json:"typeDescKey"`
	PeriodDescriptor struct {
		Number int `json:"number"`
	} `json:"periodDescriptor"`
	TimeInPeriod  string      `json:"timeInPeriod"`
	SituationCode string      `json:"situationCode"`
	Details       playDetails `json:"details"`
}

type shiftRow struct {
	PlayerID     int64 `json:"playerId"`
	TeamID       int64 `json:"teamId"`
	Period       int   `json:"period"`
	StartSeconds int   `json:"startSeconds"`
	EndSeconds   *int  `json:"endSeconds"` // absent = shift still open
}

type toiRow struct {
	PlayerID  int64 `json:"playerId"`
	EVSeconds int   `json:"evSeconds"`
	PPSeconds int   `json:"ppSeconds"`
	SHSeconds int   `json:"shSeconds"`
}

type shiftTables struct {
	Official  []shiftRow `json:"official"`
	TOIReport []toiRow   `json:"toiReport"`
	Computed  []shiftRow `json:"computed"`
}

type payload struct {
	ID          int64        `json:"id"`
	Season      int          `json:"season"`
	GameDate    string       `json:"gameDate"`
	GameState   string       `json:"gameState"`
	HomeTeam    teamInfo     `json:"homeTeam"`
	AwayTeam    teamInfo     `json:"awayTeam"`
	RosterSpots []rosterSpot `json:"rosterSpots"`
	Plays       []play       `json:"plays"`
	Shifts      shiftTables  `json:"shifts"`
}

// ReadFile parses the game payload at path.
func ReadFile(path string) (*model.RawGame, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read payload: %w", err)
	}
	return ParseGame(data)
}

// ParseGame decodes one raw game payload.
func ParseGame(data []byte) (*model.RawGame, error) {
	var p payload
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("decode payload: %w", err)
	}
	if p.ID == 0 {
		return nil, fmt.Errorf("payload has no game id")
	}

	raw := &model.RawGame{
		Game: model.Game{
			ID:         p.ID,
			Season:     p.Season,
			Date:       p.GameDate,
			HomeTeamID: p.HomeTeam.ID,
			AwayTeamID: p.AwayTeam.ID,
			HomeAbbrev: p.HomeTeam.Abbrev,
			AwayAbbrev: p.AwayTeam.Abbrev,
			State:      model.GameState(p.GameState),
			HomeScore:  p.HomeTeam.Score,
			AwayScore:  p.AwayTeam.Score,
		},
	}

	for _, r := range p.RosterSpots {
		raw.Roster = append(raw.Roster, model.RosterSpot{
			GameID:   p.ID,
			PlayerID: r.PlayerID,
			TeamID:   r.TeamID,
			Name:     r.Name,
			Position: r.PositionCode,
		})
	}

	for _, pl := range p.Plays {
		ev, err := convertPlay(p.ID, pl)
		if err != nil {
			// Unparseable clock or period: skip the event, keep the game.
			continue
		}
		raw.Plays = append(raw.Plays, ev)
	}

	raw.OfficialShifts = convertShifts(p.ID, p.Shifts.Official)
	raw.ComputedShifts = convertShifts(p.ID, p.Shifts.Computed)
	for _, t := range p.Shifts.TOIReport {
		raw.TOIReport = append(raw.TOIReport, model.TOIEntry{
			GameID:    p.ID,
			PlayerID:  t.PlayerID,
			EVSeconds: t.EVSeconds,
			PPSeconds: t.PPSeconds,
			SHSeconds: t.SHSeconds,
		})
	}

	return raw, nil
}

func convertPlay(gameID int64, pl play) (model.PlayEvent, error) {
	if pl.PeriodDescriptor.Number < 1 {
		return model.PlayEvent{}, fmt.Errorf("event %d: bad period %d", pl.EventID, pl.PeriodDescriptor.Number)
	}
	elapsed, err := parseClock(pl.TimeInPeriod)
	if err != nil {
		return model.PlayEvent{}, fmt.Errorf("event %d: %w", pl.EventID, err)
	}

	d := pl.Details
	minutes := d.PenaltyMinutes
	if minutes == 0 {
		minutes = d.Duration
	}

	return model.PlayEvent{
		GameID:         gameID,
		EventID:        pl.EventID,
		Type:           eventType(pl.TypeDescKey),
		Period:         pl.PeriodDescriptor.Number,
		PeriodSeconds:  elapsed,
		SituationCode:  pl.SituationCode,
		OwnerTeamID:    d.EventOwnerTeamID,
		ScorerID:       d.ScoringPlayerID,
		Assist1ID:      d.Assist1PlayerID,
		Assist2ID:      d.Assist2PlayerID,
		ShooterID:      d.ShootingPlayerID,
		HitterID:       d.HittingPlayerID,
		BlockerID:      d.BlockingPlayerID,
		PenalizedID:    d.CommittedByPlayerID,
		PenaltyMinutes: minutes,
		GoalieInNetID:  d.GoalieInNetID,
		EmptyNet:       d.EmptyNet,
	}, nil
}

func convertShifts(gameID int64, rows []shiftRow) []model.Shift {
	var out []model.Shift
	for _, r := range rows {
		end := -1
		if r.EndSeconds != nil {
			end = *r.EndSeconds
		}
		out = append(out, model.Shift{
			GameID:       gameID,
			PlayerID:     r.PlayerID,
			TeamID:       r.TeamID,
			Period:       r.Period,
			StartSeconds: r.StartSeconds,
			EndSeconds:   end,
		})
	}
	return out
}

func eventType(key string) model.EventType {
	switch key {
	case "goal":
		return model.EventGoal
	case "shot-on-goal":
		return model.EventShotOnGoal
	case "hit":
		return model.EventHit
	case "blocked-shot":
		return model.EventBlockedShot
	case "penalty":
		return model.EventPenalty
	case "faceoff":
		return model.EventFaceoff
	default:
		return model.EventOther
	}
}

// parseClock converts an elapsed "MM:SS" in-period clock to seconds.
func parseClock(clock string) (int, error) {
	mm, ss, ok := strings.Cut(clock, ":")
	if !ok {
		return 0, fmt.Errorf("bad clock %q", clock)
	}
	m, err := strconv.Atoi(mm)
	if err != nil {
		return 0, fmt.Errorf("bad clock %q", clock)
	}
	s, err := strconv.Atoi(ss)
	if err != nil || s < 0 || s > 59 || m < 0 {
		return 0, fmt.Errorf("bad clock %q", clock)
	}
	return m*60 + s, nil
}
