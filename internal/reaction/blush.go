package reaction

import (
	"image"

	"github.com/ayusman/abhinaya/internal/detector"
	"github.com/ayusman/abhinaya/internal/render"
)

// blushEffect tints the cheeks while both hands and the face stay in view.
type blushEffect struct {
	lifecycle
	config BlushConfig
}

func newBlush(c BlushConfig) *blushEffect {
	return &blushEffect{lifecycle: lifecycle{kind: KindBlush}, config: c}
}

func (e *blushEffect) Evaluate(snap detector.Snapshot) bool {
	return e.config.Rule.Match(snap)
}

func (e *blushEffect) Activate(t *Tick) bool {
	return e.start(t, e.config.Duration)
}

func (e *blushEffect) Step(t *Tick) []render.Command {
	if e.state != Active {
		return nil
	}

	face, ok := t.Snapshot.Face()
	if t.Snapshot.HandCount() != 2 || !ok {
		e.stop(t, Cancelled)
		return nil
	}

	cmd := render.Blush{
		Cheeks: cheeks(face),
		Radius: max(1, int(face.Box.W*e.config.CheekRadius)),
		Color:  e.config.Color.RGBA(),
		Alpha:  e.config.Alpha,
	}
	e.countdown(t)
	return []render.Command{cmd}
}

// cheeks places one point below and outside each eye, halfway down to the
// mouth.
func cheeks(face detector.FacePose) []image.Point {
	right := face.Keypoints[detector.RightEye]
	left := face.Keypoints[detector.LeftEye]
	mouth := face.Keypoints[detector.MouthCenter]

	y := (right.Y+left.Y)/2 + ((mouth.Y-(right.Y+left.Y)/2)*0.6)
	spread := (left.X - right.X) * 0.15

	return []image.Point{
		{X: int(right.X - spread), Y: int(y)},
		{X: int(left.X + spread), Y: int(y)},
	}
}
