package reaction

import (
	"github.com/ayusman/abhinaya/internal/detector"
	"github.com/ayusman/abhinaya/internal/render"
)

// saluteEffect fades a full-frame overlay in while the salute is held and
// out once it is lost. It keeps the arbiter until fully faded.
//
// Opacity is tracked as an integer level in [0, FadeIn*FadeOut]: holding
// adds FadeOut per tick, losing the pose removes FadeIn per tick, so both
// ramps are exact.
type saluteEffect struct {
	lifecycle
	config SaluteConfig
	level  int
}

func newSalute(c SaluteConfig) *saluteEffect {
	return &saluteEffect{lifecycle: lifecycle{kind: KindSalute}, config: c}
}

func (e *saluteEffect) Evaluate(snap detector.Snapshot) bool {
	return e.config.Rule.Match(snap)
}

func (e *saluteEffect) Activate(t *Tick) bool {
	if !e.start(t, 0) {
		return false
	}
	e.level = 0
	return true
}

func (e *saluteEffect) Step(t *Tick) []render.Command {
	if e.state != Active {
		return nil
	}

	full := e.config.FadeIn * e.config.FadeOut
	if e.Evaluate(t.Snapshot) {
		e.level = min(full, e.level+e.config.FadeOut)
	} else {
		e.level = max(0, e.level-e.config.FadeIn)
	}
	e.remaining = (e.level + e.config.FadeIn - 1) / e.config.FadeIn

	if e.level == 0 {
		e.stop(t, Completed)
		return nil
	}
	return []render.Command{render.CoverSprite{Name: e.config.Sprite, Opacity: e.Opacity()}}
}

// Opacity returns the current overlay opacity in [0, 1].
func (e *saluteEffect) Opacity() float64 {
	full := e.config.FadeIn * e.config.FadeOut
	if full == 0 {
		return 0
	}
	return float64(e.level) / float64(full)
}

func (e *saluteEffect) Reset(t *Tick) {
	e.level = 0
	e.lifecycle.Reset(t)
}
