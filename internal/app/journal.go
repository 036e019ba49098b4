package app

import (
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ayusman/abhinaya/internal/reaction"
	"github.com/ayusman/abhinaya/internal/store"
)

// journal maps engine events onto journal rows: Activated opens a row for
// the kind, Completed and Cancelled close it.
type journal struct {
	sessions  *store.SessionRepository
	reactions *store.ReactionRepository
	session   *store.Session
	open      map[reaction.Kind]string
	log       logrus.FieldLogger
}

func newJournal(s *store.Store, source string, at time.Time, log logrus.FieldLogger) (*journal, error) {
	sess, err := s.Sessions().Create(source, at)
	if err != nil {
		return nil, err
	}
	return &journal{
		sessions:  s.Sessions(),
		reactions: s.Reactions(),
		session:   sess,
		open:      make(map[reaction.Kind]string),
		log:       log.WithField("session", sess.ID),
	}, nil
}

func (j *journal) record(ev reaction.Event) {
	fields := logrus.Fields{"kind": ev.Kind, "event": ev.Type, "tick": ev.Tick}

	switch ev.Type {
	case reaction.Activated:
		re, err := j.reactions.Start(j.session.ID, string(ev.Kind), ev.Tick, ev.Time)
		if err != nil {
			j.log.WithFields(fields).WithError(err).Warn("journal activation")
			return
		}
		j.open[ev.Kind] = re.ID
		j.log.WithFields(fields).Info("reaction")

	case reaction.Completed, reaction.Cancelled:
		id, ok := j.open[ev.Kind]
		if !ok {
			j.log.WithFields(fields).Debug("no open journal row")
			return
		}
		delete(j.open, ev.Kind)

		outcome := store.OutcomeCompleted
		if ev.Type == reaction.Cancelled {
			outcome = store.OutcomeCancelled
		}
		if err := j.reactions.Finish(id, outcome, ev.Tick, ev.Time); err != nil {
			j.log.WithFields(fields).WithError(err).Warn("journal outcome")
			return
		}
		j.log.WithFields(fields).Info("reaction")
	}
}

// close ends the session. Rows still open are left active.
func (j *journal) close(at time.Time) {
	if err := j.sessions.End(j.session.ID, at); err != nil {
		j.log.WithError(err).Warn("end session")
	}
}
