package storage

import (
	"database/sql"
	"fmt"

	"github.com/pcaron/go-puck-stats/internal/model"
)

// UpsertPlayerGameStats writes per-game rows keyed by (season, game,
// player) in one transaction. Re-writing the same game replaces rows
// in place; duplicates are impossible by construction.
func (db *DB) UpsertPlayerGameStats(stats []model.PlayerGameStat) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT OR REPLACE INTO player_game_stats(
			season, game_id, player_id, name, team_id, position, is_goalie,
			goals, primary_assists, secondary_assists, points,
			shots_on_goal, hits, blocks, penalty_minutes,
			pp_points, sh_points, plus_minus, toi_seconds,
			wins, saves, shots_faced, goals_against, shutouts
		) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i := range stats {
		s := &stats[i]
		_, err = stmt.Exec(
			s.Season, s.GameID, s.PlayerID, s.Name, s.TeamID, s.Position, boolInt(s.IsGoalie),
			s.Goals, s.PrimaryAssists, s.SecondaryAssists, s.Points,
			s.ShotsOnGoal, s.Hits, s.Blocks, s.PenaltyMinutes,
			s.PowerPlayPoints, s.ShortHandedPoints, s.PlusMinus, s.IceTimeSeconds,
			s.Wins, s.Saves, s.ShotsFaced, s.GoalsAgainst, s.Shutouts,
		)
		if err != nil {
			return fmt.Errorf("upsert game stats for player %d: %w", s.PlayerID, err)
		}
	}
	return tx.Commit()
}

// ResetPlusMinus zeroes plus/minus for every per-game row of one season.
// The plus/minus pass is a full season recompute, so it resets before it
// applies fresh adjustments.
func (db *DB) ResetPlusMinus(season int) error {
	_, err := db.conn.Exec("UPDATE player_game_stats SET plus_minus = 0 WHERE season = ?", season)
	return err
}

// UpdatePlusMinus writes plus/minus adjustments into existing per-game
// rows. Adjustments for (game, player) pairs without a stat row are
// counted and reported, not treated as errors.
func (db *DB) UpdatePlusMinus(adjustments map[int64]map[int64]int) (missed int, err error) {
	tx, err := db.conn.Begin()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(
		"UPDATE player_game_stats SET plus_minus = ? WHERE game_id = ? AND player_id = ?")
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	for gameID, players := range adjustments {
		for playerID, delta := range players {
			res, err := stmt.Exec(delta, gameID, playerID)
			if err != nil {
				return 0, fmt.Errorf("update plus/minus %d/%d: %w", gameID, playerID, err)
			}
			if n, _ := res.RowsAffected(); n == 0 {
				missed++
			}
		}
	}
	return missed, tx.Commit()
}

const statCols = `season, game_id, player_id, name, team_id, position, is_goalie,
	goals, primary_assists, secondary_assists, points,
	shots_on_goal, hits, blocks, penalty_minutes,
	pp_points, sh_points, plus_minus, toi_seconds,
	wins, saves, shots_faced, goals_against, shutouts`

func (db *DB) queryGameStats(query string, args ...any) ([]model.PlayerGameStat, error) {
	rows, err := db.conn.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.PlayerGameStat
	for rows.Next() {
		var s model.PlayerGameStat
		var isGoalie int
		if err := rows.Scan(
			&s.Season, &s.GameID, &s.PlayerID, &s.Name, &s.TeamID, &s.Position, &isGoalie,
			&s.Goals, &s.PrimaryAssists, &s.SecondaryAssists, &s.Points,
			&s.ShotsOnGoal, &s.Hits, &s.Blocks, &s.PenaltyMinutes,
			&s.PowerPlayPoints, &s.ShortHandedPoints, &s.PlusMinus, &s.IceTimeSeconds,
			&s.Wins, &s.Saves, &s.ShotsFaced, &s.GoalsAgainst, &s.Shutouts,
		); err != nil {
			return nil, err
		}
		s.IsGoalie = isGoalie != 0
		out = append(out, s)
	}
	return out, rows.Err()
}

// GameStats returns the stored rows for one game, points leaders first.
func (db *DB) GameStats(gameID int64) ([]model.PlayerGameStat, error) {
	return db.queryGameStats(
		"SELECT "+statCols+" FROM player_game_stats WHERE game_id = ? ORDER BY points DESC, goals DESC, player_id",
		gameID)
}

// SeasonGameStats returns every per-game row of one season.
func (db *DB) SeasonGameStats(season int) ([]model.PlayerGameStat, error) {
	return db.queryGameStats(
		"SELECT "+statCols+" FROM player_game_stats WHERE season = ? ORDER BY game_id, player_id",
		season)
}

// PlayerGameLog returns one player's per-game rows across all seasons.
func (db *DB) PlayerGameLog(playerID int64) ([]model.PlayerGameStat, error) {
	return db.queryGameStats(
		"SELECT "+statCols+" FROM player_game_stats WHERE player_id = ? ORDER BY season, game_id",
		playerID)
}

// ReplaceSeasonStats swaps in freshly-recomputed season totals for one
// season: delete-then-insert in a single transaction, so a rollup is a
// full replace rather than an incremental merge.
func (db *DB) ReplaceSeasonStats(season int, stats []model.PlayerSeasonStat) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM player_season_stats WHERE season = ?", season); err != nil {
		return err
	}

	stmt, err := tx.Prepare(`
		INSERT INTO player_season_stats(
			season, player_id, name, team_id, position, is_goalie, games_played,
			goals, primary_assists, secondary_assists, points,
			shots_on_goal, hits, blocks, penalty_minutes,
			pp_points, sh_points, plus_minus, toi_seconds,
			wins, saves, shots_faced, goals_against, shutouts, save_pct
		) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i := range stats {
		s := &stats[i]
		var savePct any // NULL when undefined
		if pct, ok := s.SavePct(); ok {
			savePct = pct
		}
		_, err = stmt.Exec(
			s.Season, s.PlayerID, s.Name, s.TeamID, s.Position, boolInt(s.IsGoalie), s.GamesPlayed,
			s.Goals, s.PrimaryAssists, s.SecondaryAssists, s.Points,
			s.ShotsOnGoal, s.Hits, s.Blocks, s.PenaltyMinutes,
			s.PowerPlayPoints, s.ShortHandedPoints, s.PlusMinus, s.IceTimeSeconds,
			s.Wins, s.Saves, s.ShotsFaced, s.GoalsAgainst, s.Shutouts, savePct,
		)
		if err != nil {
			return fmt.Errorf("insert season stats for player %d: %w", s.PlayerID, err)
		}
	}
	return tx.Commit()
}

func (db *DB) querySeasonStats(query string, args ...any) ([]model.PlayerSeasonStat, error) {
	rows, err := db.conn.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.PlayerSeasonStat
	for rows.Next() {
		var s model.PlayerSeasonStat
		var isGoalie int
		var savePct sql.NullFloat64
		if err := rows.Scan(
			&s.Season, &s.PlayerID, &s.Name, &s.TeamID, &s.Position, &isGoalie, &s.GamesPlayed,
			&s.Goals, &s.PrimaryAssists, &s.SecondaryAssists, &s.Points,
			&s.ShotsOnGoal, &s.Hits, &s.Blocks, &s.PenaltyMinutes,
			&s.PowerPlayPoints, &s.ShortHandedPoints, &s.PlusMinus, &s.IceTimeSeconds,
			&s.Wins, &s.Saves, &s.ShotsFaced, &s.GoalsAgainst, &s.Shutouts, &savePct,
		); err != nil {
			return nil, err
		}
		s.IsGoalie = isGoalie != 0
		out = append(out, s)
	}
	return out, rows.Err()
}

const seasonCols = `season, player_id, name, team_id, position, is_goalie, games_played,
	goals, primary_assists, secondary_assists, points,
	shots_on_goal, hits, blocks, penalty_minutes,
	pp_points, sh_points, plus_minus, toi_seconds,
	wins, saves, shots_faced, goals_against, shutouts, save_pct`

// SeasonStats returns the season totals, points leaders first.
func (db *DB) SeasonStats(season int) ([]model.PlayerSeasonStat, error) {
	return db.querySeasonStats(
		"SELECT "+seasonCols+" FROM player_season_stats WHERE season = ? ORDER BY points DESC, player_id",
		season)
}

// PlayerSeasonStats returns one player's totals across all seasons.
func (db *DB) PlayerSeasonStats(playerID int64) ([]model.PlayerSeasonStat, error) {
	return db.querySeasonStats(
		"SELECT "+seasonCols+" FROM player_season_stats WHERE player_id = ? ORDER BY season",
		playerID)
}
