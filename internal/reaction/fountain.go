package reaction

import (
	"github.com/ayusman/abhinaya/internal/detector"
	"github.com/ayusman/abhinaya/internal/render"
)

// matcher is a recognition rule from the gesture package.
type matcher interface {
	Match(detector.Snapshot) bool
}

// fountainEffect launches one sprite from the bottom centre of the frame
// on every active tick. Once triggered it always runs its full duration.
type fountainEffect struct {
	lifecycle
	rule         matcher
	duration     int
	sprite       string
	launchHeight int
}

func newFountain(kind Kind, rule matcher, duration int, sprite string, launchHeight int) *fountainEffect {
	return &fountainEffect{
		lifecycle:    lifecycle{kind: kind},
		rule:         rule,
		duration:     duration,
		sprite:       sprite,
		launchHeight: launchHeight,
	}
}

func (e *fountainEffect) Evaluate(snap detector.Snapshot) bool {
	return e.rule.Match(snap)
}

func (e *fountainEffect) Activate(t *Tick) bool {
	return e.start(t, e.duration)
}

func (e *fountainEffect) Step(t *Tick) []render.Command {
	if e.state != Active {
		return nil
	}
	if t.Particles != nil {
		t.Particles.SpawnFountain(float64(t.Width/2), float64(t.Height-e.launchHeight), e.sprite)
	}
	e.countdown(t)
	return nil
}
