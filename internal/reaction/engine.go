package reaction

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"gocv.io/x/gocv"

	"github.com/ayusman/abhinaya/internal/detector"
	"github.com/ayusman/abhinaya/internal/particle"
	"github.com/ayusman/abhinaya/internal/render"
)

// Result describes what happened during one tick.
type Result struct {
	Seq      uint64
	Events   []Event
	Commands []render.Command
	// Active is the kind holding the arbiter after the tick, or "".
	Active Kind
}

// Engine runs every effect against each incoming frame. It is driven by a
// single goroutine and performs no I/O.
type Engine struct {
	effects    []Effect
	arbiter    *Arbiter
	particles  *particle.System
	spawner    particle.Spawner
	compositor *render.Compositor
	log        logrus.FieldLogger
	now        func() time.Time
	seq        uint64
}

// Option customizes an Engine.
type Option func(*Engine)

// WithArbiter shares an existing arbiter with the engine.
func WithArbiter(a *Arbiter) Option {
	return func(e *Engine) { e.arbiter = a }
}

// WithParticles replaces the particle system, typically with a seeded one.
func WithParticles(p *particle.System) Option {
	return func(e *Engine) { e.particles = p }
}

// WithSpawner routes effect spawns through s instead of straight to the
// particle system. s normally forwards to the system after observing.
func WithSpawner(s particle.Spawner) Option {
	return func(e *Engine) { e.spawner = s }
}

// WithCompositor enables drawing onto frames. Without it Process only
// computes state and commands.
func WithCompositor(c *render.Compositor) Option {
	return func(e *Engine) { e.compositor = c }
}

// WithClock sets the time source stamped on events.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// NewEngine builds an engine with one effect per enabled kind in
// evaluation order.
func NewEngine(tunables Tunables, log logrus.FieldLogger, opts ...Option) (*Engine, error) {
	e := &Engine{
		log: log.WithField("component", "reaction"),
		now: time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.arbiter == nil {
		e.arbiter = NewArbiter()
	}
	if e.particles == nil {
		e.particles = particle.NewSystem(tunables.Particles, nil)
	}
	if e.spawner == nil {
		e.spawner = e.particles
	}

	for _, c := range tunables.Configs() {
		if !c.Enabled() {
			e.log.WithField("kind", c.Kind()).Info("effect disabled")
			continue
		}
		eff, err := NewEffect(c)
		if err != nil {
			return nil, fmt.Errorf("build %s effect: %w", c.Kind(), err)
		}
		e.effects = append(e.effects, eff)
	}
	return e, nil
}

// Arbiter returns the engine's arbiter.
func (e *Engine) Arbiter() *Arbiter {
	return e.arbiter
}

// Particles returns the engine's particle system.
func (e *Engine) Particles() *particle.System {
	return e.particles
}

// Effects returns the effects in evaluation order.
func (e *Engine) Effects() []Effect {
	return e.effects
}

// Effect returns the effect of the given kind.
func (e *Engine) Effect(kind Kind) (Effect, bool) {
	for _, eff := range e.effects {
		if eff.Kind() == kind {
			return eff, true
		}
	}
	return nil, false
}

// Process runs one tick: trigger at most one idle effect the arbiter
// allows, step every effect, advance particles, then draw onto frame.
// A nil frame skips drawing.
func (e *Engine) Process(frame *gocv.Mat, snap detector.Snapshot) (Result, error) {
	e.seq++
	t := &Tick{
		Seq:       e.seq,
		Time:      e.now(),
		Snapshot:  snap,
		Arbiter:   e.arbiter,
		Particles: e.spawner,
		Width:     snap.Width,
		Height:    snap.Height,
	}
	if frame != nil && !frame.Empty() {
		t.Width, t.Height = frame.Cols(), frame.Rows()
	}

	for _, eff := range e.effects {
		if e.arbiter.IsActive() {
			break
		}
		if eff.State() == Idle && eff.Evaluate(snap) {
			eff.Activate(t)
		}
	}

	var cmds []render.Command
	for _, eff := range e.effects {
		cmds = append(cmds, eff.Step(t)...)
	}

	e.particles.Update(t.Width, t.Height)

	for _, ev := range t.events {
		e.log.WithFields(logrus.Fields{
			"kind":  ev.Kind,
			"event": ev.Type,
			"tick":  ev.Tick,
		}).Debug("reaction")
	}

	res := Result{
		Seq:      t.Seq,
		Events:   t.events,
		Commands: cmds,
		Active:   e.arbiter.Owner(),
	}

	if frame == nil || e.compositor == nil {
		return res, nil
	}
	if err := e.compositor.Apply(frame, cmds); err != nil {
		return res, fmt.Errorf("apply effects: %w", err)
	}
	if err := e.compositor.DrawParticles(frame, e.particles.Particles()); err != nil {
		return res, fmt.Errorf("draw particles: %w", err)
	}
	return res, nil
}

// Reset cancels every active effect and clears all particles.
func (e *Engine) Reset() []Event {
	t := &Tick{Seq: e.seq, Time: e.now(), Arbiter: e.arbiter}
	for _, eff := range e.effects {
		eff.Reset(t)
	}
	e.particles.Reset()
	return t.events
}
