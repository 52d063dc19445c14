// Package situation builds a second-by-second power-play timeline for one
// game from its penalty events.
package situation

import "github.com/pcaron/go-puck-stats/internal/model"

// GraceSeconds extends each penalty past its nominal expiry. A goal scored
// in the few seconds after the on-paper expiry is still credited against
// the power play, matching official-scorer convention.
const GraceSeconds = 3

// Situation is the game-wide state for one second.
type Situation int

const (
	Even Situation = iota
	HomePP
	AwayPP
)

func (s Situation) String() string {
	switch s {
	case HomePP:
		return "home-pp"
	case AwayPP:
		return "away-pp"
	default:
		return "even"
	}
}

// Strength is the situation from one team's perspective.
type Strength int

const (
	StrengthEven Strength = iota
	StrengthPowerPlay
	StrengthShortHanded
)

func (s Strength) String() string {
	switch s {
	case StrengthPowerPlay:
		return "pp"
	case StrengthShortHanded:
		return "sh"
	default:
		return "ev"
	}
}

// Window maps game-relative seconds to situations. Only non-even seconds
// are stored, so memory is bounded by penalty minutes rather than game
// length.
type Window struct {
	homeTeamID int64
	awayTeamID int64
	seconds    map[int]Situation
}

// Build constructs the window from all penalties of one game.
//
// A team "has an active penalty" at second s when any of its penalty
// intervals [start, start+minutes*60+GraceSeconds) covers s. When exactly
// one team has an active penalty the opposing team is on the power play;
// when neither or both do, the second is even strength. Overlapping
// penalties on the same team collapse into the single boolean, so two
// simultaneous minors are indistinguishable from one.
func Build(penalties []model.Penalty, homeTeamID, awayTeamID int64) *Window {
	w := &Window{
		homeTeamID: homeTeamID,
		awayTeamID: awayTeamID,
		seconds:    make(map[int]Situation),
	}

	homeActive := make(map[int]bool)
	awayActive := make(map[int]bool)
	for _, p := range penalties {
		if p.Minutes <= 0 || p.StartSeconds < 0 {
			continue
		}
		active := homeActive
		switch p.TeamID {
		case homeTeamID:
		case awayTeamID:
			active = awayActive
		default:
			continue // unresolvable side, skip rather than guess
		}
		end := p.StartSeconds + p.Minutes*60 + GraceSeconds
		for s := p.StartSeconds; s < end; s++ {
			active[s] = true
		}
	}

	for s := range homeActive {
		if !awayActive[s] {
			w.seconds[s] = AwayPP
		}
	}
	for s := range awayActive {
		if !homeActive[s] {
			w.seconds[s] = HomePP
		}
	}
	return w
}

// At returns the situation for a game-relative second.
func (w *Window) At(second int) Situation {
	return w.seconds[second]
}

// StrengthFor returns the situation at the given second from teamID's
// perspective. Unknown team ids read as even strength.
func (w *Window) StrengthFor(second int, teamID int64) Strength {
	switch w.seconds[second] {
	case HomePP:
		if teamID == w.homeTeamID {
			return StrengthPowerPlay
		}
		if teamID == w.awayTeamID {
			return StrengthShortHanded
		}
	case AwayPP:
		if teamID == w.awayTeamID {
			return StrengthPowerPlay
		}
		if teamID == w.homeTeamID {
			return StrengthShortHanded
		}
	}
	return StrengthEven
}

// Len returns the number of non-even seconds stored.
func (w *Window) Len() int {
	return len(w.seconds)
}
