package store

// runMigrations executes all database migrations.
func (s *Store) runMigrations() error {
	migrations := []string{
		// One row per pipeline run.
		`CREATE TABLE IF NOT EXISTS sessions (
			id TEXT PRIMARY KEY,
			source TEXT NOT NULL,
			started_at DATETIME NOT NULL,
			ended_at DATETIME
		)`,

		// One row per effect activation; closed when the effect completes
		// or is cancelled.
		`CREATE TABLE IF NOT EXISTS reactions (
			id TEXT PRIMARY KEY,
			session_id TEXT NOT NULL REFERENCES sessions(id) ON DELETE CASCADE,
			kind TEXT NOT NULL,
			outcome TEXT NOT NULL DEFAULT 'active' CHECK(outcome IN ('active', 'completed', 'cancelled')),
			start_tick INTEGER NOT NULL,
			end_tick INTEGER,
			started_at DATETIME NOT NULL,
			ended_at DATETIME
		)`,

		`CREATE INDEX IF NOT EXISTS idx_reactions_session_id ON reactions(session_id)`,
		`CREATE INDEX IF NOT EXISTS idx_reactions_started_at ON reactions(started_at)`,
	}

	for _, migration := range migrations {
		if _, err := s.db.Exec(migration); err != nil {
			return err
		}
	}

	return nil
}
