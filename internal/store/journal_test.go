package store

import (
	"errors"
	"testing"
	"time"
)

var t0 = time.Date(2026, 3, 1, 18, 0, 0, 0, time.UTC)

func newTestSession(t *testing.T, s *Store) *Session {
	t.Helper()
	sess, err := s.Sessions().Create("camera:0", t0)
	if err != nil {
		t.Fatalf("failed to create session: %v", err)
	}
	return sess
}

func TestSessionRepository(t *testing.T) {
	s := newTestStore(t)
	repo := s.Sessions()

	sess := newTestSession(t, s)
	if sess.ID == "" {
		t.Fatal("expected generated ID")
	}

	got, err := repo.GetByID(sess.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Source != "camera:0" || !got.StartedAt.Equal(t0) || got.EndedAt != nil {
		t.Errorf("unexpected session %+v", got)
	}

	end := t0.Add(time.Minute)
	if err := repo.End(sess.ID, end); err != nil {
		t.Fatalf("End: %v", err)
	}
	got, _ = repo.GetByID(sess.ID)
	if got.EndedAt == nil || !got.EndedAt.Equal(end) {
		t.Errorf("expected end %v, got %v", end, got.EndedAt)
	}

	t.Run("end twice", func(t *testing.T) {
		if err := repo.End(sess.ID, end); !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("unknown id", func(t *testing.T) {
		if _, err := repo.GetByID("missing"); !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestReactionRepository_StartFinish(t *testing.T) {
	s := newTestStore(t)
	sess := newTestSession(t, s)
	repo := s.Reactions()

	re, err := repo.Start(sess.ID, "heart", 12, t0)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if re.Outcome != OutcomeActive || re.Ticks() != 0 {
		t.Errorf("expected running reaction, got %+v", re)
	}

	if err := repo.Finish(re.ID, OutcomeCompleted, 42, t0.Add(time.Second)); err != nil {
		t.Fatalf("Finish: %v", err)
	}

	got, err := repo.GetByID(re.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Kind != "heart" || got.SessionID != sess.ID {
		t.Errorf("unexpected reaction %+v", got)
	}
	if got.Outcome != OutcomeCompleted || got.StartTick != 12 || got.EndTick != 42 {
		t.Errorf("unexpected outcome/ticks %+v", got)
	}
	if got.Ticks() != 31 {
		t.Errorf("expected 31 ticks, got %d", got.Ticks())
	}
	if got.EndedAt == nil || !got.EndedAt.Equal(t0.Add(time.Second)) {
		t.Errorf("unexpected end time %v", got.EndedAt)
	}

	t.Run("finish twice", func(t *testing.T) {
		err := repo.Finish(re.ID, OutcomeCancelled, 50, t0)
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("invalid outcome", func(t *testing.T) {
		other, _ := repo.Start(sess.ID, "peace", 60, t0)
		if err := repo.Finish(other.ID, OutcomeActive, 61, t0); err == nil {
			t.Error("expected error for active outcome")
		}
	})

	t.Run("unknown session", func(t *testing.T) {
		if _, err := repo.Start("missing", "peace", 1, t0); err == nil {
			t.Error("expected foreign key violation")
		}
	})
}

func TestReactionRepository_List(t *testing.T) {
	s := newTestStore(t)
	sess := newTestSession(t, s)
	repo := s.Reactions()

	kinds := []string{"thumbs_up", "peace", "heart", "blush"}
	for i, k := range kinds {
		if _, err := repo.Start(sess.ID, k, uint64(i*20), t0.Add(time.Duration(i)*time.Second)); err != nil {
			t.Fatalf("Start: %v", err)
		}
	}

	t.Run("newest first with limit", func(t *testing.T) {
		list, err := repo.List(2)
		if err != nil {
			t.Fatalf("List: %v", err)
		}
		if len(list) != 2 || list[0].Kind != "blush" || list[1].Kind != "heart" {
			t.Errorf("unexpected list %v", kindsOf(list))
		}
	})

	t.Run("default limit", func(t *testing.T) {
		list, err := repo.List(0)
		if err != nil {
			t.Fatalf("List: %v", err)
		}
		if len(list) != len(kinds) {
			t.Errorf("expected %d reactions, got %d", len(kinds), len(list))
		}
	})

	t.Run("by session in tick order", func(t *testing.T) {
		list, err := repo.ListBySession(sess.ID)
		if err != nil {
			t.Fatalf("ListBySession: %v", err)
		}
		got := kindsOf(list)
		for i := range kinds {
			if got[i] != kinds[i] {
				t.Fatalf("expected %v, got %v", kinds, got)
			}
		}
	})

	t.Run("empty journal", func(t *testing.T) {
		empty := newTestStore(t)
		list, err := empty.Reactions().List(10)
		if err != nil {
			t.Fatalf("List: %v", err)
		}
		if list == nil || len(list) != 0 {
			t.Errorf("expected empty non-nil slice, got %v", list)
		}
	})
}

func TestReactionRepository_Stats(t *testing.T) {
	s := newTestStore(t)
	sess := newTestSession(t, s)
	repo := s.Reactions()

	record := func(kind string, start, end uint64, outcome Outcome) {
		t.Helper()
		re, err := repo.Start(sess.ID, kind, start, t0)
		if err != nil {
			t.Fatalf("Start: %v", err)
		}
		if outcome == OutcomeActive {
			return
		}
		if err := repo.Finish(re.ID, outcome, end, t0); err != nil {
			t.Fatalf("Finish: %v", err)
		}
	}

	record("blush", 0, 4, OutcomeCancelled)
	record("blush", 10, 20, OutcomeCompleted)
	record("heart", 30, 60, OutcomeCompleted)
	record("heart", 70, 0, OutcomeActive)

	stats, err := repo.Stats()
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}

	want := []KindStats{
		{Kind: "blush", Total: 2, Completed: 1, Cancelled: 1, AvgTicks: 8},
		{Kind: "heart", Total: 2, Completed: 1, Cancelled: 0, AvgTicks: 31},
	}
	if len(stats) != len(want) {
		t.Fatalf("expected %d rows, got %+v", len(want), stats)
	}
	for i := range want {
		if stats[i] != want[i] {
			t.Errorf("row %d: expected %+v, got %+v", i, want[i], stats[i])
		}
	}
}

func kindsOf(list []*Reaction) []string {
	out := make([]string, len(list))
	for i, r := range list {
		out[i] = r.Kind
	}
	return out
}

func TestReaction_TicksCountsBothEnds(t *testing.T) {
	tests := []struct {
		name  string
		r     Reaction
		ticks uint64
	}{
		{"running", Reaction{Outcome: OutcomeActive, StartTick: 5}, 0},
		{"ended on its first tick", Reaction{Outcome: OutcomeCancelled, StartTick: 5, EndTick: 5}, 1},
		{"full fountain run", Reaction{Outcome: OutcomeCompleted, StartTick: 1, EndTick: 15}, 15},
		{"end before start", Reaction{Outcome: OutcomeCompleted, StartTick: 9, EndTick: 3}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.r.Ticks(); got != tt.ticks {
				t.Errorf("Ticks() = %d, want %d", got, tt.ticks)
			}
		})
	}
}
