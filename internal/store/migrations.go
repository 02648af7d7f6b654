package store

// runMigrations creates the schema. Every statement is idempotent.
func (s *Store) runMigrations() error {
	migrations := []string{
		// One row per game run
		`CREATE TABLE IF NOT EXISTS sessions (
			id TEXT PRIMARY KEY,
			levels_path TEXT NOT NULL DEFAULT '',
			started_at DATETIME NOT NULL,
			ended_at DATETIME
		)`,

		// One row per level transition
		`CREATE TABLE IF NOT EXISTS level_completions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id TEXT NOT NULL REFERENCES sessions(id) ON DELETE CASCADE,
			level TEXT NOT NULL,
			next_level TEXT NOT NULL DEFAULT '',
			method TEXT NOT NULL CHECK(method IN ('flag', 'gesture', 'skip')),
			duration_ms INTEGER NOT NULL,
			completed_at DATETIME NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS settings (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`,

		`CREATE INDEX IF NOT EXISTS idx_level_completions_session_id ON level_completions(session_id)`,
		`CREATE INDEX IF NOT EXISTS idx_level_completions_level ON level_completions(level)`,
	}

	for _, migration := range migrations {
		if _, err := s.db.Exec(migration); err != nil {
			return err
		}
	}

	return nil
}
