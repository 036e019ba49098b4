package reaction

import (
	"github.com/ayusman/abhinaya/internal/detector"
	"github.com/ayusman/abhinaya/internal/gesture"
	"github.com/ayusman/abhinaya/internal/render"
)

// heartEffect sprays a heart from the joined thumbs once per activation
// and then holds the arbiter for the rest of its duration.
type heartEffect struct {
	lifecycle
	config  HeartConfig
	origin  detector.Point2D
	spawned bool
}

func newHeart(c HeartConfig) *heartEffect {
	return &heartEffect{lifecycle: lifecycle{kind: KindHeart}, config: c}
}

func (e *heartEffect) Evaluate(snap detector.Snapshot) bool {
	return e.config.Rule.Match(snap)
}

func (e *heartEffect) Activate(t *Tick) bool {
	if !e.start(t, e.config.Duration) {
		return false
	}
	e.spawned = false
	e.origin = heartOrigin(t.Snapshot, e.config.OffsetX, e.config.OffsetY)
	return true
}

func (e *heartEffect) Step(t *Tick) []render.Command {
	if e.state != Active {
		return nil
	}
	if !e.spawned {
		e.spawned = true
		if t.Particles != nil {
			t.Particles.SpawnFountain(e.origin.X, e.origin.Y, e.config.Sprite)
		}
	}
	e.countdown(t)
	return nil
}

// heartOrigin is the pixel midpoint of the two thumb tips, shifted by the
// configured offset.
func heartOrigin(snap detector.Snapshot, dx, dy int) detector.Point2D {
	if snap.HandCount() < 2 {
		return detector.Point2D{X: float64(snap.Width / 2), Y: float64(snap.Height / 2)}
	}
	mid := snap.Pixel(gesture.Midpoint(
		snap.Hands[0].Points[detector.ThumbTip],
		snap.Hands[1].Points[detector.ThumbTip],
	))
	return detector.Point2D{X: mid.X + float64(dx), Y: mid.Y + float64(dy)}
}
