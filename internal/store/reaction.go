package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Outcome is how an activation ended.
type Outcome string

const (
	OutcomeActive    Outcome = "active"
	OutcomeCompleted Outcome = "completed"
	OutcomeCancelled Outcome = "cancelled"
)

// DefaultListLimit applies when List is called without a positive limit.
const DefaultListLimit = 50

// Reaction is one journaled effect activation.
type Reaction struct {
	ID        string     `json:"id"`
	SessionID string     `json:"session_id"`
	Kind      string     `json:"kind"`
	Outcome   Outcome    `json:"outcome"`
	StartTick uint64     `json:"start_tick"`
	EndTick   uint64     `json:"end_tick,omitempty"`
	StartedAt time.Time  `json:"started_at"`
	EndedAt   *time.Time `json:"ended_at,omitempty"`
}

// Ticks is the number of ticks the effect was active, counting both the
// activation tick and the tick it ended on, or zero while it is still
// running.
func (r *Reaction) Ticks() uint64 {
	if r.Outcome == OutcomeActive || r.EndTick < r.StartTick {
		return 0
	}
	return r.EndTick - r.StartTick + 1
}

// KindStats aggregates the journal for one gesture kind.
type KindStats struct {
	Kind      string  `json:"kind"`
	Total     int     `json:"total"`
	Completed int     `json:"completed"`
	Cancelled int     `json:"cancelled"`
	AvgTicks  float64 `json:"avg_ticks"`
}

// ReactionRepository records effect activations.
type ReactionRepository struct {
	db *sql.DB
}

// Reactions returns the reaction repository for this store.
func (s *Store) Reactions() *ReactionRepository {
	return &ReactionRepository{db: s.db}
}

// Start records an activation that is now running.
func (r *ReactionRepository) Start(sessionID, kind string, tick uint64, at time.Time) (*Reaction, error) {
	re := &Reaction{
		ID:        uuid.NewString(),
		SessionID: sessionID,
		Kind:      kind,
		Outcome:   OutcomeActive,
		StartTick: tick,
		StartedAt: at.UTC(),
	}

	_, err := r.db.Exec(
		`INSERT INTO reactions (id, session_id, kind, outcome, start_tick, started_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		re.ID, re.SessionID, re.Kind, string(re.Outcome), int64(re.StartTick), re.StartedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert reaction: %w", err)
	}
	return re, nil
}

// Finish closes a running activation. It returns ErrNotFound when the
// activation does not exist or has already been closed.
func (r *ReactionRepository) Finish(id string, outcome Outcome, tick uint64, at time.Time) error {
	if outcome != OutcomeCompleted && outcome != OutcomeCancelled {
		return fmt.Errorf("finish reaction: invalid outcome %q", outcome)
	}

	result, err := r.db.Exec(
		`UPDATE reactions SET outcome = ?, end_tick = ?, ended_at = ?
		 WHERE id = ? AND outcome = 'active'`,
		string(outcome), int64(tick), at.UTC(), id,
	)
	if err != nil {
		return err
	}
	return checkAffected(result)
}

const reactionColumns = `id, session_id, kind, outcome, start_tick, end_tick, started_at, ended_at`

// GetByID retrieves a reaction by its ID.
func (r *ReactionRepository) GetByID(id string) (*Reaction, error) {
	re, err := scanReaction(r.db.QueryRow(
		`SELECT `+reactionColumns+` FROM reactions WHERE id = ?`, id,
	))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return re, nil
}

// List returns the most recent reactions, newest first.
func (r *ReactionRepository) List(limit int) ([]*Reaction, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	return r.query(
		`SELECT `+reactionColumns+` FROM reactions
		 ORDER BY started_at DESC, rowid DESC LIMIT ?`,
		limit,
	)
}

// ListBySession returns the reactions of one session in start order.
func (r *ReactionRepository) ListBySession(sessionID string) ([]*Reaction, error) {
	return r.query(
		`SELECT `+reactionColumns+` FROM reactions
		 WHERE session_id = ? ORDER BY start_tick, rowid`,
		sessionID,
	)
}

// Stats aggregates the journal per kind, ordered by kind.
func (r *ReactionRepository) Stats() ([]KindStats, error) {
	rows, err := r.db.Query(
		`SELECT kind,
		        COUNT(*),
		        COALESCE(SUM(CASE WHEN outcome = 'completed' THEN 1 ELSE 0 END), 0),
		        COALESCE(SUM(CASE WHEN outcome = 'cancelled' THEN 1 ELSE 0 END), 0),
		        COALESCE(AVG(CASE WHEN outcome != 'active' THEN end_tick - start_tick + 1 END), 0)
		 FROM reactions GROUP BY kind ORDER BY kind`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stats []KindStats
	for rows.Next() {
		var ks KindStats
		if err := rows.Scan(&ks.Kind, &ks.Total, &ks.Completed, &ks.Cancelled, &ks.AvgTicks); err != nil {
			return nil, err
		}
		stats = append(stats, ks)
	}
	return stats, rows.Err()
}

func (r *ReactionRepository) query(q string, args ...any) ([]*Reaction, error) {
	rows, err := r.db.Query(q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	reactions := []*Reaction{}
	for rows.Next() {
		re, err := scanReaction(rows)
		if err != nil {
			return nil, err
		}
		reactions = append(reactions, re)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return reactions, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanReaction(row scanner) (*Reaction, error) {
	re := &Reaction{}
	var (
		outcome   string
		startTick int64
		endTick   sql.NullInt64
		ended     sql.NullTime
	)

	err := row.Scan(&re.ID, &re.SessionID, &re.Kind, &outcome, &startTick, &endTick, &re.StartedAt, &ended)
	if err != nil {
		return nil, err
	}

	re.Outcome = Outcome(outcome)
	re.StartTick = uint64(startTick)
	if endTick.Valid {
		re.EndTick = uint64(endTick.Int64)
	}
	if ended.Valid {
		re.EndedAt = &ended.Time
	}
	return re, nil
}
