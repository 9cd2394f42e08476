// Package storage provides SQLite-based persistence for scores and run statistics.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

const sqliteTimeLayout = "2006-01-02 15:04:05"

// Store manages the SQLite database connection.
type Store struct {
	db *sql.DB
}

// ScoreEntry represents a single high score record.
type ScoreEntry struct {
	ID        int64
	GameID    string
	Score     int
	CreatedAt time.Time
}

// RunRecord holds the statistics of one finished run.
type RunRecord struct {
	ID             int64
	RunID          string // UUID, generated by SaveRun when empty
	GameID         string
	Player         string // SSH user or "local"
	Score          int
	ShotsFired     int
	BubblesPopped  int
	BubblesDropped int
	Creeps         int
	Duration       time.Duration
	CreatedAt      time.Time
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	// Create parent directories
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS scores (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			game_id TEXT NOT NULL,
			score INTEGER NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_scores_game_id ON scores(game_id);
		CREATE INDEX IF NOT EXISTS idx_scores_top ON scores(game_id, score DESC);

		CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT NOT NULL UNIQUE,
			game_id TEXT NOT NULL,
			player TEXT NOT NULL DEFAULT 'local',
			score INTEGER NOT NULL DEFAULT 0,
			shots_fired INTEGER NOT NULL DEFAULT 0,
			bubbles_popped INTEGER NOT NULL DEFAULT 0,
			bubbles_dropped INTEGER NOT NULL DEFAULT 0,
			creeps INTEGER NOT NULL DEFAULT 0,
			duration_ms INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_runs_game_id ON runs(game_id);
		CREATE INDEX IF NOT EXISTS idx_runs_player ON runs(player);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// parseTime converts a DATETIME column to time.Time.
// The driver may hand back either a time.Time or a string.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse(sqliteTimeLayout, t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}

// SaveScore records a new score for the given game.
// Returns the ID of the inserted record.
func (s *Store) SaveScore(gameID string, score int) (int64, error) {
	result, err := s.db.Exec(
		"INSERT INTO scores (game_id, score) VALUES (?, ?)",
		gameID, score,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save score: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	return id, nil
}

// TopScores retrieves the top N scores for the given game.
// Results are ordered by score descending.
func (s *Store) TopScores(gameID string, limit int) ([]ScoreEntry, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(
		`SELECT id, game_id, score, created_at
		 FROM scores
		 WHERE game_id = ?
		 ORDER BY score DESC
		 LIMIT ?`,
		gameID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query scores: %w", err)
	}
	return scanScores(rows)
}

// AllScores retrieves all scores for the given game (no limit).
func (s *Store) AllScores(gameID string) ([]ScoreEntry, error) {
	rows, err := s.db.Query(
		`SELECT id, game_id, score, created_at
		 FROM scores
		 WHERE game_id = ?
		 ORDER BY score DESC`,
		gameID,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query scores: %w", err)
	}
	return scanScores(rows)
}

func scanScores(rows *sql.Rows) ([]ScoreEntry, error) {
	defer rows.Close()

	var entries []ScoreEntry
	for rows.Next() {
		var e ScoreEntry
		var createdAt any
		if err := rows.Scan(&e.ID, &e.GameID, &e.Score, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		e.CreatedAt = parseTime(createdAt)
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return entries, nil
}

// HighScore returns the highest score for the given game.
// Returns 0 if no scores exist.
func (s *Store) HighScore(gameID string) (int, error) {
	var score sql.NullInt64
	err := s.db.QueryRow(
		"SELECT MAX(score) FROM scores WHERE game_id = ?",
		gameID,
	).Scan(&score)

	if err != nil {
		return 0, fmt.Errorf("storage: cannot query high score: %w", err)
	}

	if !score.Valid {
		return 0, nil
	}

	return int(score.Int64), nil
}

// ClearScores deletes all scores and runs for the given game.
func (s *Store) ClearScores(gameID string) error {
	if _, err := s.db.Exec("DELETE FROM scores WHERE game_id = ?", gameID); err != nil {
		return fmt.Errorf("storage: cannot clear scores: %w", err)
	}
	if _, err := s.db.Exec("DELETE FROM runs WHERE game_id = ?", gameID); err != nil {
		return fmt.Errorf("storage: cannot clear runs: %w", err)
	}
	return nil
}

// SaveRun records the statistics of a finished run.
// Returns the record with its ID and RunID filled in.
func (s *Store) SaveRun(r RunRecord) (RunRecord, error) {
	if r.RunID == "" {
		r.RunID = uuid.NewString()
	}
	if r.Player == "" {
		r.Player = "local"
	}

	res, err := s.db.Exec(
		`INSERT INTO runs
		 (run_id, game_id, player, score, shots_fired, bubbles_popped, bubbles_dropped, creeps, duration_ms)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.RunID,
		r.GameID,
		r.Player,
		r.Score,
		r.ShotsFired,
		r.BubblesPopped,
		r.BubblesDropped,
		r.Creeps,
		r.Duration.Milliseconds(),
	)
	if err != nil {
		return r, fmt.Errorf("storage: cannot save run: %w", err)
	}

	r.ID, err = res.LastInsertId()
	if err != nil {
		return r, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	return r, nil
}

// RunByID retrieves a run by its RunID. Returns nil if it does not exist.
func (s *Store) RunByID(runID string) (*RunRecord, error) {
	row := s.db.QueryRow(
		`SELECT id, run_id, game_id, player, score, shots_fired, bubbles_popped,
		        bubbles_dropped, creeps, duration_ms, created_at
		 FROM runs
		 WHERE run_id = ?`,
		runID,
	)

	r, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query run: %w", err)
	}
	return &r, nil
}

// RecentRuns retrieves the most recent runs for a game, newest first.
func (s *Store) RecentRuns(gameID string, limit int) ([]RunRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT id, run_id, game_id, player, score, shots_fired, bubbles_popped,
		        bubbles_dropped, creeps, duration_ms, created_at
		 FROM runs
		 WHERE game_id = ?
		 ORDER BY created_at DESC, id DESC
		 LIMIT ?`,
		gameID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query runs: %w", err)
	}
	defer rows.Close()

	var results []RunRecord
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		results = append(results, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return results, nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(sc rowScanner) (RunRecord, error) {
	var r RunRecord
	var durationMs int64
	var createdAt any
	err := sc.Scan(
		&r.ID,
		&r.RunID,
		&r.GameID,
		&r.Player,
		&r.Score,
		&r.ShotsFired,
		&r.BubblesPopped,
		&r.BubblesDropped,
		&r.Creeps,
		&durationMs,
		&createdAt,
	)
	if err != nil {
		return r, err
	}
	r.Duration = time.Duration(durationMs) * time.Millisecond
	r.CreatedAt = parseTime(createdAt)
	return r, nil
}

// GameStats contains aggregated statistics for a game.
type GameStats struct {
	GameID     string
	GamesCount int
	HighScore  int
	AvgScore   float64
	TotalScore int64
	LastPlayed time.Time

	// From recorded runs
	RunsCount      int
	TotalShots     int64
	TotalPopped    int64
	TotalDropped   int64
	TotalCreeps    int64
	TotalPlayTime  time.Duration
	LongestRunShot int
}

// GetGameStats retrieves aggregated statistics for a specific game.
func (s *Store) GetGameStats(gameID string) (*GameStats, error) {
	stats := &GameStats{GameID: gameID}

	err := s.db.QueryRow(
		`SELECT COUNT(*), COALESCE(MAX(score), 0), COALESCE(AVG(score), 0), COALESCE(SUM(score), 0)
		 FROM scores WHERE game_id = ?`,
		gameID,
	).Scan(&stats.GamesCount, &stats.HighScore, &stats.AvgScore, &stats.TotalScore)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get game stats: %w", err)
	}

	var lastPlayed any
	err = s.db.QueryRow(
		`SELECT created_at FROM scores WHERE game_id = ? ORDER BY created_at DESC LIMIT 1`,
		gameID,
	).Scan(&lastPlayed)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("storage: cannot get last played: %w", err)
	}
	if err == nil {
		stats.LastPlayed = parseTime(lastPlayed)
	}

	var playMs int64
	err = s.db.QueryRow(
		`SELECT COUNT(*), COALESCE(SUM(shots_fired), 0), COALESCE(SUM(bubbles_popped), 0),
		        COALESCE(SUM(bubbles_dropped), 0), COALESCE(SUM(creeps), 0),
		        COALESCE(SUM(duration_ms), 0), COALESCE(MAX(shots_fired), 0)
		 FROM runs WHERE game_id = ?`,
		gameID,
	).Scan(&stats.RunsCount, &stats.TotalShots, &stats.TotalPopped, &stats.TotalDropped,
		&stats.TotalCreeps, &playMs, &stats.LongestRunShot)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get run stats: %w", err)
	}
	stats.TotalPlayTime = time.Duration(playMs) * time.Millisecond

	return stats, nil
}
