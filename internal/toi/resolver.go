// Package toi resolves total ice time per player per game from a
// prioritized chain of partially-available sources, degrading gracefully.
package toi

import "github.com/pcaron/go-puck-stats/internal/model"

// Source yields per-player ice-time seconds for one game from a single
// backing table or heuristic. An empty map means the source has nothing
// for that game.
type Source interface {
	Name() string
	Resolve(gameID int64) (map[int64]int, error)
}

// Resolver tries its sources in strict priority order and stops at the
// first one that yields any player rows. Source errors are skipped, not
// propagated: a game with no usable source resolves to an empty map and
// callers treat missing entries as zero.
type Resolver struct {
	sources []Source
}

// NewResolver builds a resolver over the given sources, highest trust first.
func NewResolver(sources ...Source) *Resolver {
	return &Resolver{sources: sources}
}

// Resolve returns player → total ice-time seconds for the game, plus the
// name of the source that supplied them ("" when every source came up
// empty). It never fails the caller.
func (r *Resolver) Resolve(gameID int64) (map[int64]int, string) {
	for _, src := range r.sources {
		m, err := src.Resolve(gameID)
		if err != nil {
			continue
		}
		if len(m) > 0 {
			return m, src.Name()
		}
	}
	return map[int64]int{}, ""
}

// ShiftTableSource sums end-start per player across the shift rows of one
// backing table. Open-ended shifts close at the period boundary.
type ShiftTableSource struct {
	name  string
	fetch func(gameID int64) ([]model.Shift, error)
}

// NewShiftTableSource wraps a shift-table reader as a Source.
func NewShiftTableSource(name string, fetch func(int64) ([]model.Shift, error)) *ShiftTableSource {
	return &ShiftTableSource{name: name, fetch: fetch}
}

func (s *ShiftTableSource) Name() string { return s.name }

func (s *ShiftTableSource) Resolve(gameID int64) (map[int64]int, error) {
	shifts, err := s.fetch(gameID)
	if err != nil {
		return nil, err
	}
	out := make(map[int64]int)
	for i := range shifts {
		out[shifts[i].PlayerID] += shifts[i].Duration()
	}
	return out, nil
}

// ReportSource reads the pre-aggregated per-situation TOI table and sums
// its seconds directly.
type ReportSource struct {
	name  string
	fetch func(gameID int64) ([]model.TOIEntry, error)
}

// NewReportSource wraps a TOI-report reader as a Source.
func NewReportSource(name string, fetch func(int64) ([]model.TOIEntry, error)) *ReportSource {
	return &ReportSource{name: name, fetch: fetch}
}

func (s *ReportSource) Name() string { return s.name }

func (s *ReportSource) Resolve(gameID int64) (map[int64]int, error) {
	entries, err := s.fetch(gameID)
	if err != nil {
		return nil, err
	}
	out := make(map[int64]int)
	for i := range entries {
		if secs := entries[i].TotalSeconds(); secs > 0 {
			out[entries[i].PlayerID] += secs
		}
	}
	return out, nil
}

// maxEventGap is the largest gap between two event appearances that the
// event-gap heuristic still credits as one continuous shift.
const maxEventGap = 60

// EventGapSource is the last-resort heuristic: derive TOI purely from
// event participation. It systematically underestimates (only players who
// generate events are seen) and must sit last in the chain.
type EventGapSource struct {
	fetch func(gameID int64) ([]model.PlayEvent, error)
}

// NewEventGapSource wraps a play-list reader as the fallback Source.
func NewEventGapSource(fetch func(int64) ([]model.PlayEvent, error)) *EventGapSource {
	return &EventGapSource{fetch: fetch}
}

func (s *EventGapSource) Name() string { return "event-gap" }

// Resolve tracks, per player per period, the time of each event
// appearance. A gap of at most maxEventGap seconds to the next appearance
// is credited as ice time (assumed same shift); a larger gap is assumed to
// span a line change and credits nothing. The period boundary closes out
// any still-open shift under the same gap rule.
func (s *EventGapSource) Resolve(gameID int64) (map[int64]int, error) {
	plays, err := s.fetch(gameID)
	if err != nil {
		return nil, err
	}

	type periodKey struct {
		playerID int64
		period   int
	}
	appearances := make(map[periodKey][]int)
	note := func(playerID int64, period, second int) {
		if playerID == 0 {
			return
		}
		k := periodKey{playerID, period}
		appearances[k] = append(appearances[k], second)
	}

	for i := range plays {
		ev := &plays[i]
		if ev.IsShootout() {
			continue
		}
		sec := ev.PeriodSeconds
		for _, id := range []int64{
			ev.ScorerID, ev.Assist1ID, ev.Assist2ID, ev.ShooterID,
			ev.HitterID, ev.BlockerID, ev.PenalizedID, ev.GoalieInNetID,
		} {
			note(id, ev.Period, sec)
		}
	}

	out := make(map[int64]int)
	for k, secs := range appearances {
		// Appearances arrive in play order; the period end acts as a
		// final pseudo-appearance to close any open shift.
		secs = append(secs, model.PeriodLength)
		for i := 1; i < len(secs); i++ {
			gap := secs[i] - secs[i-1]
			if gap < 0 {
				continue
			}
			if gap <= maxEventGap {
				out[k.playerID] += gap
			}
		}
	}
	return out, nil
}
