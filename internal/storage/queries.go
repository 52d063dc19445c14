package storage

import (
	"database/sql"
	"fmt"

	"github.com/pcaron/go-puck-stats/internal/model"
)

// GameExists returns true if the game is already stored.
func (db *DB) GameExists(gameID int64) (bool, error) {
	var count int
	err := db.conn.QueryRow("SELECT COUNT(1) FROM games WHERE id = ?", gameID).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// InsertRawGame stores one game's payload: metadata, roster, plays, and the
// three shift tables, all in a single transaction. Reloading the same game
// replaces its rows and clears the extracted flag, since fresher raw data
// invalidates any previous extraction.
func (db *DB) InsertRawGame(raw *model.RawGame) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	g := raw.Game
	_, err = tx.Exec(`
		INSERT OR REPLACE INTO games(id, season, game_date, home_team, away_team,
			home_abbrev, away_abbrev, state, home_score, away_score, extracted)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 0)`,
		g.ID, g.Season, g.Date, g.HomeTeamID, g.AwayTeamID,
		g.HomeAbbrev, g.AwayAbbrev, string(g.State), g.HomeScore, g.AwayScore,
	)
	if err != nil {
		return fmt.Errorf("insert game %d: %w", g.ID, err)
	}

	stmt, err := tx.Prepare(`
		INSERT OR REPLACE INTO plays(
			game_id, event_id, type, period, period_seconds, situation_code,
			owner_team, scorer_id, assist1_id, assist2_id, shooter_id,
			hitter_id, blocker_id, penalized_id, penalty_minutes, goalie_id, empty_net
		) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for i := range raw.Plays {
		e := &raw.Plays[i]
		_, err = stmt.Exec(
			e.GameID, e.EventID, string(e.Type), e.Period, e.PeriodSeconds, e.SituationCode,
			e.OwnerTeamID, e.ScorerID, e.Assist1ID, e.Assist2ID, e.ShooterID,
			e.HitterID, e.BlockerID, e.PenalizedID, e.PenaltyMinutes, e.GoalieInNetID,
			boolInt(e.EmptyNet),
		)
		if err != nil {
			return fmt.Errorf("insert play %d/%d: %w", e.GameID, e.EventID, err)
		}
	}

	for _, r := range raw.Roster {
		_, err = tx.Exec(`
			INSERT OR REPLACE INTO roster_spots(game_id, player_id, team_id, name, position)
			VALUES (?, ?, ?, ?, ?)`,
			r.GameID, r.PlayerID, r.TeamID, r.Name, r.Position,
		)
		if err != nil {
			return fmt.Errorf("insert roster spot: %w", err)
		}
	}

	// Shift rows carry no natural key, so replace wholesale per game.
	if err := replaceShifts(tx, "shifts_official", g.ID, raw.OfficialShifts); err != nil {
		return err
	}
	if err := replaceShifts(tx, "shifts_computed", g.ID, raw.ComputedShifts); err != nil {
		return err
	}

	if _, err := tx.Exec("DELETE FROM toi_report WHERE game_id = ?", g.ID); err != nil {
		return err
	}
	for _, t := range raw.TOIReport {
		_, err = tx.Exec(`
			INSERT INTO toi_report(game_id, player_id, ev_seconds, pp_seconds, sh_seconds)
			VALUES (?, ?, ?, ?, ?)`,
			t.GameID, t.PlayerID, t.EVSeconds, t.PPSeconds, t.SHSeconds,
		)
		if err != nil {
			return fmt.Errorf("insert toi report row: %w", err)
		}
	}

	return tx.Commit()
}

func replaceShifts(tx *sql.Tx, table string, gameID int64, shifts []model.Shift) error {
	if _, err := tx.Exec("DELETE FROM "+table+" WHERE game_id = ?", gameID); err != nil {
		return err
	}
	stmt, err := tx.Prepare(
		"INSERT INTO " + table + "(game_id, player_id, team_id, period, start_seconds, end_seconds) VALUES (?,?,?,?,?,?)")
	if err != nil {
		return err
	}
	defer stmt.Close()
	for _, s := range shifts {
		if _, err := stmt.Exec(s.GameID, s.PlayerID, s.TeamID, s.Period, s.StartSeconds, s.EndSeconds); err != nil {
			return fmt.Errorf("insert %s row: %w", table, err)
		}
	}
	return nil
}

const gameCols = `id, season, game_date, home_team, away_team, home_abbrev, away_abbrev, state, home_score, away_score, extracted`

func scanGame(row interface{ Scan(...any) error }) (model.Game, error) {
	var g model.Game
	var state string
	var extracted int
	err := row.Scan(&g.ID, &g.Season, &g.Date, &g.HomeTeamID, &g.AwayTeamID,
		&g.HomeAbbrev, &g.AwayAbbrev, &state, &g.HomeScore, &g.AwayScore, &extracted)
	if err != nil {
		return g, err
	}
	g.State = model.GameState(state)
	g.Extracted = extracted != 0
	return g, nil
}

// GetGame returns one game or nil when absent.
func (db *DB) GetGame(gameID int64) (*model.Game, error) {
	row := db.conn.QueryRow("SELECT "+gameCols+" FROM games WHERE id = ?", gameID)
	g, err := scanGame(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &g, nil
}

// ListGames returns all stored games ordered by date then id.
func (db *DB) ListGames() ([]model.Game, error) {
	return db.queryGames("SELECT " + gameCols + " FROM games ORDER BY game_date, id")
}

// SeasonGames returns the games of one season ordered by date then id.
func (db *DB) SeasonGames(season int) ([]model.Game, error) {
	return db.queryGames("SELECT "+gameCols+" FROM games WHERE season = ? ORDER BY game_date, id", season)
}

func (db *DB) queryGames(query string, args ...any) ([]model.Game, error) {
	rows, err := db.conn.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Game
	for rows.Next() {
		g, err := scanGame(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

// MarkExtracted flags a game as fully extracted. Callers must only do this
// for games in a final state.
func (db *DB) MarkExtracted(gameID int64) error {
	_, err := db.conn.Exec("UPDATE games SET extracted = 1 WHERE id = ?", gameID)
	return err
}

// PlaysFor returns the ordered play list for one game.
func (db *DB) PlaysFor(gameID int64) ([]model.PlayEvent, error) {
	rows, err := db.conn.Query(`
		SELECT game_id, event_id, type, period, period_seconds, situation_code,
		       owner_team, scorer_id, assist1_id, assist2_id, shooter_id,
		       hitter_id, blocker_id, penalized_id, penalty_minutes, goalie_id, empty_net
		FROM plays WHERE game_id = ?
		ORDER BY period, period_seconds, event_id`, gameID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.PlayEvent
	for rows.Next() {
		var e model.PlayEvent
		var typ string
		var emptyNet int
		if err := rows.Scan(
			&e.GameID, &e.EventID, &typ, &e.Period, &e.PeriodSeconds, &e.SituationCode,
			&e.OwnerTeamID, &e.ScorerID, &e.Assist1ID, &e.Assist2ID, &e.ShooterID,
			&e.HitterID, &e.BlockerID, &e.PenalizedID, &e.PenaltyMinutes, &e.GoalieInNetID, &emptyNet,
		); err != nil {
			return nil, err
		}
		e.Type = model.EventType(typ)
		e.EmptyNet = emptyNet != 0
		out = append(out, e)
	}
	return out, rows.Err()
}

// RosterFor returns the roster spots of one game.
func (db *DB) RosterFor(gameID int64) ([]model.RosterSpot, error) {
	rows, err := db.conn.Query(`
		SELECT game_id, player_id, team_id, name, position
		FROM roster_spots WHERE game_id = ?`, gameID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.RosterSpot
	for rows.Next() {
		var r model.RosterSpot
		if err := rows.Scan(&r.GameID, &r.PlayerID, &r.TeamID, &r.Name, &r.Position); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// OfficialShifts returns the officially-sourced shift rows for one game.
func (db *DB) OfficialShifts(gameID int64) ([]model.Shift, error) {
	return db.queryShifts("shifts_official", gameID)
}

// ComputedShifts returns the internally-computed shift rows for one game.
func (db *DB) ComputedShifts(gameID int64) ([]model.Shift, error) {
	return db.queryShifts("shifts_computed", gameID)
}

func (db *DB) queryShifts(table string, gameID int64) ([]model.Shift, error) {
	rows, err := db.conn.Query(
		"SELECT game_id, player_id, team_id, period, start_seconds, end_seconds FROM "+table+
			" WHERE game_id = ? ORDER BY period, start_seconds", gameID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Shift
	for rows.Next() {
		var s model.Shift
		if err := rows.Scan(&s.GameID, &s.PlayerID, &s.TeamID, &s.Period, &s.StartSeconds, &s.EndSeconds); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// TOIReport returns the pre-aggregated per-situation TOI rows for one game.
func (db *DB) TOIReport(gameID int64) ([]model.TOIEntry, error) {
	rows, err := db.conn.Query(`
		SELECT game_id, player_id, ev_seconds, pp_seconds, sh_seconds
		FROM toi_report WHERE game_id = ?`, gameID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.TOIEntry
	for rows.Next() {
		var t model.TOIEntry
		if err := rows.Scan(&t.GameID, &t.PlayerID, &t.EVSeconds, &t.PPSeconds, &t.SHSeconds); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
