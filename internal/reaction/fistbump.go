package reaction

import (
	"github.com/ayusman/abhinaya/internal/detector"
	"github.com/ayusman/abhinaya/internal/gesture"
	"github.com/ayusman/abhinaya/internal/render"
)

// fistBumpEffect squeezes the frame toward its centre and detonates a
// smoke burst when the squeeze ends. Losing either hand ends it early.
type fistBumpEffect struct {
	lifecycle
	config FistBumpConfig
	origin detector.Point2D
}

func newFistBump(c FistBumpConfig) *fistBumpEffect {
	return &fistBumpEffect{lifecycle: lifecycle{kind: KindFistBump}, config: c}
}

func (e *fistBumpEffect) Evaluate(snap detector.Snapshot) bool {
	return e.config.Rule.Match(snap)
}

func (e *fistBumpEffect) Activate(t *Tick) bool {
	if !e.start(t, e.config.Duration) {
		return false
	}
	e.origin = wristMidpoint(t.Snapshot)
	return true
}

func (e *fistBumpEffect) Step(t *Tick) []render.Command {
	if e.state != Active {
		return nil
	}

	if t.Snapshot.HandCount() != 2 {
		e.stop(t, Cancelled)
		e.detonate(t)
		return nil
	}
	e.origin = wristMidpoint(t.Snapshot)

	progress := float64(e.config.Duration-e.remaining) / float64(e.config.Duration)
	cmd := render.Squeeze{Progress: progress}
	if e.countdown(t) {
		e.detonate(t)
	}
	return []render.Command{cmd}
}

// detonate emits the single smoke burst of an activation.
func (e *fistBumpEffect) detonate(t *Tick) {
	if t.Particles != nil && e.config.SmokeCount > 0 {
		t.Particles.SpawnBurst(e.origin.X, e.origin.Y, e.config.SmokeCount, "")
	}
}

// wristMidpoint is the pixel point halfway between the two wrists, or the
// frame centre when fewer than two hands are present.
func wristMidpoint(snap detector.Snapshot) detector.Point2D {
	if snap.HandCount() < 2 {
		return detector.Point2D{X: float64(snap.Width / 2), Y: float64(snap.Height / 2)}
	}
	return snap.Pixel(gesture.Midpoint(
		snap.Hands[0].Points[detector.Wrist],
		snap.Hands[1].Points[detector.Wrist],
	))
}
