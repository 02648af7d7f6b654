package store

import (
	"database/sql"
	"fmt"
	"time"
)

// Win methods stored with a completion.
const (
	MethodFlag    = "flag"
	MethodGesture = "gesture"
	MethodSkip    = "skip"
)

// Completion is one finished level.
type Completion struct {
	ID          int64
	SessionID   string
	Level       string
	NextLevel   string
	Method      string
	Duration    time.Duration
	CompletedAt time.Time
}

// LevelStats summarizes the completions of one level.
type LevelStats struct {
	Level   string
	Count   int
	Best    time.Duration
	Average time.Duration
}

// CompletionRepository reads and writes level completions.
type CompletionRepository struct {
	db *sql.DB
}

// Completions returns the completion repository for this store.
func (s *Store) Completions() *CompletionRepository {
	return &CompletionRepository{db: s.db}
}

// Record inserts c and fills in its ID and CompletedAt.
func (r *CompletionRepository) Record(c *Completion) error {
	switch c.Method {
	case MethodFlag, MethodGesture, MethodSkip:
	default:
		return fmt.Errorf("invalid completion method %q", c.Method)
	}
	if c.CompletedAt.IsZero() {
		c.CompletedAt = time.Now().UTC()
	}

	result, err := r.db.Exec(
		`INSERT INTO level_completions (session_id, level, next_level, method, duration_ms, completed_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		c.SessionID, c.Level, c.NextLevel, c.Method, c.Duration.Milliseconds(), c.CompletedAt,
	)
	if err != nil {
		return err
	}

	c.ID, err = result.LastInsertId()
	return err
}

// List returns completions, newest first. An empty sessionID lists every
// session. limit <= 0 means no limit.
func (r *CompletionRepository) List(sessionID string, limit int) ([]*Completion, error) {
	query := `SELECT id, session_id, level, next_level, method, duration_ms, completed_at
		 FROM level_completions`
	var args []any
	if sessionID != "" {
		query += ` WHERE session_id = ?`
		args = append(args, sessionID)
	}
	query += ` ORDER BY completed_at DESC, id DESC`
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var completions []*Completion
	for rows.Next() {
		c := &Completion{}
		var ms int64
		if err := rows.Scan(&c.ID, &c.SessionID, &c.Level, &c.NextLevel, &c.Method, &ms, &c.CompletedAt); err != nil {
			return nil, err
		}
		c.Duration = time.Duration(ms) * time.Millisecond
		completions = append(completions, c)
	}

	return completions, rows.Err()
}

// Stats returns per-level counts and times for flag and gesture wins,
// ordered by level name. Skips are not counted.
func (r *CompletionRepository) Stats() ([]LevelStats, error) {
	rows, err := r.db.Query(
		`SELECT level, COUNT(*), MIN(duration_ms), AVG(duration_ms)
		 FROM level_completions
		 WHERE method != ?
		 GROUP BY level
		 ORDER BY level`,
		MethodSkip,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stats []LevelStats
	for rows.Next() {
		var s LevelStats
		var best int64
		var avg float64
		if err := rows.Scan(&s.Level, &s.Count, &best, &avg); err != nil {
			return nil, err
		}
		s.Best = time.Duration(best) * time.Millisecond
		s.Average = time.Duration(avg * float64(time.Millisecond))
		stats = append(stats, s)
	}

	return stats, rows.Err()
}
