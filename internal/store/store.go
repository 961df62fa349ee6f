// Package store handles SQLite persistence of typing results.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/verte-zerg/speedtype/internal/model"
	"github.com/verte-zerg/speedtype/internal/stats"

	_ "modernc.org/sqlite" // SQLite driver.
)

// Store wraps SQLite access for results.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}
	db, err := sql.Open("sqlite", path+"?_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	store := &Store{db: db, now: time.Now}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, fmt.Errorf("migrate database: %w", err)
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping checks that the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS typing_tests (
			id TEXT PRIMARY KEY,
			user_id TEXT,
			wpm INTEGER NOT NULL,
			accuracy INTEGER NOT NULL,
			raw_wpm INTEGER NOT NULL,
			correct_characters INTEGER NOT NULL,
			incorrect_characters INTEGER NOT NULL,
			extra_characters INTEGER NOT NULL,
			missed_characters INTEGER NOT NULL,
			total_characters INTEGER NOT NULL,
			duration INTEGER NOT NULL,
			mode TEXT NOT NULL,
			difficulty TEXT NOT NULL,
			language TEXT NOT NULL,
			test_text TEXT NOT NULL,
			typed_text TEXT NOT NULL,
			started_at INTEGER,
			ended_at INTEGER,
			created_at INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS typing_test_char_stats (
			test_id TEXT NOT NULL,
			char TEXT NOT NULL,
			correct INTEGER NOT NULL,
			incorrect INTEGER NOT NULL,
			PRIMARY KEY (test_id, char)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_typing_tests_created_at ON typing_tests(created_at);`,
		`CREATE INDEX IF NOT EXISTS idx_typing_tests_wpm ON typing_tests(wpm DESC);`,
		`CREATE INDEX IF NOT EXISTS idx_typing_test_char_stats_char ON typing_test_char_stats(char);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// SaveResult stores a finalized result and its per-character breakdown.
// The result's EndedAt is used as its creation time when set.
func (s *Store) SaveResult(ctx context.Context, r model.Result) (err error) {
	if r.ID == "" {
		return fmt.Errorf("result has no id")
	}
	createdAt := r.EndedAt
	if createdAt.IsZero() {
		createdAt = s.now()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO typing_tests (id, user_id, wpm, accuracy, raw_wpm, correct_characters, incorrect_characters,
			extra_characters, missed_characters, total_characters, duration, mode, difficulty, language,
			test_text, typed_text, started_at, ended_at, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID,
		sql.NullString{String: r.UserID, Valid: r.UserID != ""},
		r.WPM,
		r.Accuracy,
		r.RawWPM,
		r.CorrectCharacters,
		r.IncorrectCharacters,
		r.ExtraCharacters,
		r.MissedCharacters,
		r.TotalCharacters,
		int(r.Duration),
		r.Mode,
		r.Difficulty,
		r.Language,
		r.TestText,
		r.TypedText,
		nullMillis(r.StartedAt),
		nullMillis(r.EndedAt),
		createdAt.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("insert result: %w", err)
	}

	chars := stats.CharBreakdown([]rune(r.TypedText), []rune(r.TestText))
	if len(chars) > 0 {
		stmt, perr := tx.PrepareContext(ctx,
			`INSERT INTO typing_test_char_stats (test_id, char, correct, incorrect) VALUES (?, ?, ?, ?)`)
		if perr != nil {
			err = perr
			return fmt.Errorf("prepare char stats: %w", err)
		}
		defer func() {
			if cerr := stmt.Close(); cerr != nil {
				// Best-effort statement close.
				_ = cerr
			}
		}()
		for _, cs := range chars {
			if _, err = stmt.ExecContext(ctx, r.ID, cs.Char, cs.Correct, cs.Incorrect); err != nil {
				return fmt.Errorf("insert char stats: %w", err)
			}
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit result: %w", err)
	}
	return nil
}

// Leaderboard returns results ranked by WPM for the given filter.
func (s *Store) Leaderboard(ctx context.Context, f model.LeaderboardFilter) ([]model.LeaderboardEntry, error) {
	clauses := []string{"1=1"}
	args := []any{}
	if since := f.Timeframe.Since(s.now()); !since.IsZero() {
		clauses = append(clauses, "created_at >= ?")
		args = append(args, since.UnixMilli())
	}
	if f.Duration != 0 {
		clauses = append(clauses, "duration = ?")
		args = append(args, int(f.Duration))
	}
	limit := f.Limit
	if limit <= 0 {
		limit = model.DefaultLeaderSize
	}
	args = append(args, limit)

	query := fmt.Sprintf(`SELECT id, user_id, wpm, accuracy, raw_wpm, duration, created_at
		FROM typing_tests
		WHERE %s
		ORDER BY wpm DESC, accuracy DESC, created_at ASC
		LIMIT ?`, strings.Join(clauses, " AND "))
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query leaderboard: %w", err)
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var entries []model.LeaderboardEntry
	for rows.Next() {
		var e model.LeaderboardEntry
		var userID sql.NullString
		var duration int
		var createdAt int64
		if err := rows.Scan(&e.ResultID, &userID, &e.WPM, &e.Accuracy, &e.RawWPM, &duration, &createdAt); err != nil {
			return nil, fmt.Errorf("scan leaderboard: %w", err)
		}
		e.Rank = len(entries) + 1
		e.UserID = userID.String
		e.Duration = model.Duration(duration)
		e.CreatedAt = time.UnixMilli(createdAt)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read leaderboard: %w", err)
	}
	return entries, nil
}

// ListResults returns result summaries filtered by cfg, oldest first.
func (s *Store) ListResults(ctx context.Context, cfg model.StatsConfig) ([]model.ResultSummary, error) {
	clauses := []string{"1=1"}
	args := []any{}
	if cfg.UserID != "" {
		clauses = append(clauses, "user_id = ?")
		args = append(args, cfg.UserID)
	}
	if cfg.Duration != 0 {
		clauses = append(clauses, "duration = ?")
		args = append(args, int(cfg.Duration))
	}
	if cfg.Since != nil {
		clauses = append(clauses, "created_at >= ?")
		args = append(args, cfg.Since.UnixMilli())
	}
	query := fmt.Sprintf(`SELECT id, user_id, wpm, raw_wpm, accuracy, duration, created_at
		FROM typing_tests
		WHERE %s
		ORDER BY created_at ASC`, strings.Join(clauses, " AND "))
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query results: %w", err)
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var results []model.ResultSummary
	for rows.Next() {
		var r model.ResultSummary
		var userID sql.NullString
		var duration int
		var createdAt int64
		if err := rows.Scan(&r.ResultID, &userID, &r.WPM, &r.RawWPM, &r.Accuracy, &duration, &createdAt); err != nil {
			return nil, fmt.Errorf("scan result: %w", err)
		}
		r.UserID = userID.String
		r.Duration = model.Duration(duration)
		r.CreatedAt = time.UnixMilli(createdAt)
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read results: %w", err)
	}
	return results, nil
}

// ListCharAggregates aggregates per-character stats across results.
func (s *Store) ListCharAggregates(ctx context.Context, resultIDs []string) ([]model.CharAggregate, error) {
	if len(resultIDs) == 0 {
		return nil, nil
	}
	placeholders := make([]string, len(resultIDs))
	args := make([]any, len(resultIDs))
	for i, id := range resultIDs {
		placeholders[i] = "?"
		args[i] = id
	}
	query := fmt.Sprintf(`SELECT char, SUM(correct) AS correct, SUM(incorrect) AS incorrect
		FROM typing_test_char_stats
		WHERE test_id IN (%s)
		GROUP BY char`, strings.Join(placeholders, ","))
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query char stats: %w", err)
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var result []model.CharAggregate
	for rows.Next() {
		var agg model.CharAggregate
		if err := rows.Scan(&agg.Char, &agg.Correct, &agg.Incorrect); err != nil {
			return nil, fmt.Errorf("scan char stats: %w", err)
		}
		result = append(result, agg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read char stats: %w", err)
	}
	return result, nil
}

func nullMillis(t time.Time) sql.NullInt64 {
	if t.IsZero() {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: t.UnixMilli(), Valid: true}
}
