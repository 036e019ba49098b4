// Package reaction turns recognized gestures into timed visual effects.
// It arbitrates which gesture may fire, runs each effect's life cycle,
// and hands drawing commands to the compositor.
package reaction

import (
	"time"

	"github.com/ayusman/abhinaya/internal/detector"
	"github.com/ayusman/abhinaya/internal/particle"
	"github.com/ayusman/abhinaya/internal/render"
)

// Kind identifies a reaction gesture.
type Kind string

const (
	KindThumbsUp Kind = "thumbs_up"
	KindPeace    Kind = "peace"
	KindHeart    Kind = "heart"
	KindBlush    Kind = "blush"
	KindFistBump Kind = "fist_bump"
	KindSalute   Kind = "salute"

	// KindExternal marks an arbiter held by something other than an effect.
	KindExternal Kind = "external"
)

// Kinds lists every gesture kind in evaluation order. When several
// gestures match on the same tick the earliest one wins.
var Kinds = []Kind{KindThumbsUp, KindPeace, KindHeart, KindBlush, KindFistBump, KindSalute}

// State is the life-cycle state of an effect.
type State int

const (
	Idle State = iota
	Active
)

func (s State) String() string {
	if s == Active {
		return "active"
	}
	return "idle"
}

// Effect is one gesture kind together with the visual effect it drives.
type Effect interface {
	Kind() Kind
	State() State
	// Remaining is the number of ticks the effect has left. For enveloped
	// effects it is the number of ticks until fully faded if released now.
	Remaining() int
	// Evaluate reports whether the gesture is present in the snapshot.
	Evaluate(snap detector.Snapshot) bool
	// Activate moves an idle effect to Active. It fails when the arbiter
	// is held.
	Activate(t *Tick) bool
	// Step advances an active effect by one tick and returns what to draw.
	// Idle effects return nil.
	Step(t *Tick) []render.Command
	// Reset forces the effect back to Idle, releasing the arbiter if held.
	Reset(t *Tick)
}

// Tick carries everything an effect may touch while processing one frame.
type Tick struct {
	Seq       uint64
	Time      time.Time
	Snapshot  detector.Snapshot
	Arbiter   *Arbiter
	Particles particle.Spawner
	Width     int
	Height    int

	events []Event
}

func (t *Tick) emit(kind Kind, typ EventType) {
	t.events = append(t.events, Event{
		Kind: kind,
		Type: typ,
		Tick: t.Seq,
		Time: t.Time,
	})
}

// EventType describes an effect life-cycle transition.
type EventType string

const (
	Activated EventType = "activated"
	Completed EventType = "completed"
	Cancelled EventType = "cancelled"
)

// Event reports an effect life-cycle transition.
type Event struct {
	Kind Kind      `json:"kind"`
	Type EventType `json:"type"`
	Tick uint64    `json:"tick"`
	Time time.Time `json:"time"`
}

// lifecycle is the Idle/Active skeleton shared by every effect.
type lifecycle struct {
	kind      Kind
	state     State
	remaining int
}

func (l *lifecycle) Kind() Kind     { return l.kind }
func (l *lifecycle) State() State   { return l.state }
func (l *lifecycle) Remaining() int { return l.remaining }

// start acquires the arbiter and arms the timer.
func (l *lifecycle) start(t *Tick, duration int) bool {
	if l.state == Active || !t.Arbiter.Acquire(l.kind) {
		return false
	}
	l.state = Active
	l.remaining = duration
	t.emit(l.kind, Activated)
	return true
}

// countdown consumes one tick and completes the effect when the timer
// runs out. It reports whether the effect ended.
func (l *lifecycle) countdown(t *Tick) bool {
	l.remaining--
	if l.remaining > 0 {
		return false
	}
	l.stop(t, Completed)
	return true
}

// stop returns to Idle and releases the arbiter.
func (l *lifecycle) stop(t *Tick, typ EventType) {
	l.state = Idle
	l.remaining = 0
	t.Arbiter.Release(l.kind)
	t.emit(l.kind, typ)
}

func (l *lifecycle) Reset(t *Tick) {
	if l.state == Active {
		l.stop(t, Cancelled)
	}
}
