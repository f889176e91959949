// Package scorecard archives finished rounds in SQLite and ranks them per course.
// It only records results; sessions are never restored from it.
package scorecard

import (
	"context"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/jmoiron/sqlx"
	"github.com/oklog/ulid/v2"
	_ "modernc.org/sqlite"

	"github.com/wricardo/hexgolf/game/service"
)

// DefaultLeaderboardSize is used when a caller asks for zero or fewer rows
const DefaultLeaderboardSize = 10

// Store wraps a SQLite connection holding the round archive.
type Store struct {
	conn *sqlx.DB
	now  func() time.Time
}

type roundRow struct {
	ID          string `db:"id"`
	SessionID   string `db:"session_id"`
	Course      string `db:"course"`
	Seed        int64  `db:"seed"`
	Swings      int    `db:"swings"`
	Shots       int    `db:"shots"`
	CompletedAt int64  `db:"completed_at"`
}

// Open opens or creates the archive at path.
func Open(path string) (*Store, error) {
	conn, err := sqlx.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open scorecard: %w", err)
	}

	s := &Store{conn: conn, now: time.Now}
	if err := s.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.conn.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS rounds (
		id TEXT PRIMARY KEY,
		session_id TEXT NOT NULL,
		course TEXT NOT NULL,
		seed INTEGER NOT NULL,
		swings INTEGER NOT NULL,
		shots INTEGER NOT NULL,
		completed_at INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_rounds_course_swings ON rounds(course, swings, completed_at);
	`
	_, err := s.conn.Exec(schema)
	return err
}

// Record stores a finished round, filling in the ID and completion time when unset.
func (s *Store) Record(ctx context.Context, result service.RoundResult) (service.RoundResult, error) {
	if result.ID == "" {
		result.ID = ulid.Make().String()
	}
	if result.CompletedAt.IsZero() {
		result.CompletedAt = s.now()
	}
	row := roundRow{
		ID:          result.ID,
		SessionID:   result.SessionID,
		Course:      result.Course,
		Seed:        result.Seed,
		Swings:      result.Swings,
		Shots:       result.Shots,
		CompletedAt: result.CompletedAt.UnixNano(),
	}

	_, err := s.conn.NamedExecContext(ctx, `
		INSERT INTO rounds (id, session_id, course, seed, swings, shots, completed_at)
		VALUES (:id, :session_id, :course, :seed, :swings, :shots, :completed_at)`, row)
	if err != nil {
		return service.RoundResult{}, fmt.Errorf("record round %s: %w", result.ID, err)
	}
	return result, nil
}

// Leaderboard returns the best rounds, fewest swings first with ties going to
// the earlier round. An empty course ranks every course together.
func (s *Store) Leaderboard(ctx context.Context, course string, limit int) ([]service.RoundResult, error) {
	if limit <= 0 {
		limit = DefaultLeaderboardSize
	}

	var rows []roundRow
	var err error
	if course == "" {
		err = s.conn.SelectContext(ctx, &rows,
			"SELECT * FROM rounds ORDER BY swings ASC, completed_at ASC LIMIT ?", limit)
	} else {
		err = s.conn.SelectContext(ctx, &rows,
			"SELECT * FROM rounds WHERE course = ? ORDER BY swings ASC, completed_at ASC LIMIT ?", course, limit)
	}
	if err != nil {
		return nil, fmt.Errorf("leaderboard: %w", err)
	}

	now := s.now()
	results := make([]service.RoundResult, len(rows))
	for i, r := range rows {
		completed := time.Unix(0, r.CompletedAt)
		results[i] = service.RoundResult{
			ID:          r.ID,
			SessionID:   r.SessionID,
			Course:      r.Course,
			Seed:        r.Seed,
			Swings:      r.Swings,
			Shots:       r.Shots,
			CompletedAt: completed,
			Rank:        humanize.Ordinal(i + 1),
			PlayedAgo:   humanize.RelTime(completed, now, "ago", "from now"),
		}
	}
	return results, nil
}

// Count returns the number of archived rounds for a course, or all rounds when course is empty.
func (s *Store) Count(ctx context.Context, course string) (int, error) {
	var n int
	var err error
	if course == "" {
		err = s.conn.GetContext(ctx, &n, "SELECT COUNT(*) FROM rounds")
	} else {
		err = s.conn.GetContext(ctx, &n, "SELECT COUNT(*) FROM rounds WHERE course = ?", course)
	}
	if err != nil {
		return 0, fmt.Errorf("count rounds: %w", err)
	}
	return n, nil
}

var _ service.Scorecard = (*Store)(nil)
