package render

import (
	"image"
	"image/color"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"gocv.io/x/gocv"

	"github.com/ayusman/abhinaya/internal/particle"
)

type fakeSprites struct {
	mats map[string]*gocv.Mat
}

func (f *fakeSprites) Sprite(name string) (*gocv.Mat, bool) {
	m, ok := f.mats[name]
	return m, ok
}

func (f *fakeSprites) Scaled(name string, w, h int) (*gocv.Mat, bool) {
	m, ok := f.mats[name]
	if !ok {
		return nil, false
	}
	scaled := gocv.NewMat()
	gocv.Resize(*m, &scaled, image.Point{X: w, Y: h}, 0, 0, gocv.InterpolationNearestNeighbor)
	return &scaled, true
}

func quietLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func blackFrame() gocv.Mat {
	frame := gocv.NewMatWithSize(480, 640, gocv.MatTypeCV8UC3)
	frame.SetTo(gocv.NewScalar(0, 0, 0, 0))
	return frame
}

func pixel(t *testing.T, m *gocv.Mat, x, y int) []uint8 {
	t.Helper()
	img, err := View(m)
	if err != nil {
		t.Fatalf("view: %v", err)
	}
	return img.At(x, y)
}

func TestCompositor_DrawSprite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	sprite := gocv.NewMatWithSize(10, 10, gocv.MatTypeCV8UC4)
	defer sprite.Close()
	sprite.SetTo(gocv.NewScalar(255, 0, 0, 255))

	frame := blackFrame()
	defer frame.Close()

	c := NewCompositor(&fakeSprites{mats: map[string]*gocv.Mat{"heart": &sprite}}, quietLogger())
	err := c.Apply(&frame, []Command{DrawSprite{Name: "heart", X: 635, Y: 475, Opacity: 1}})
	if err != nil {
		t.Fatalf("apply: %v", err)
	}

	if got := pixel(t, &frame, 639, 479); got[0] != 255 {
		t.Errorf("expected clipped sprite in the corner, got %v", got)
	}
	if got := pixel(t, &frame, 634, 479); got[0] != 0 {
		t.Errorf("expected pixel left of sprite untouched, got %v", got)
	}
}

func TestCompositor_MissingSpriteIsNoop(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	frame := blackFrame()
	defer frame.Close()

	c := NewCompositor(&fakeSprites{}, quietLogger())
	cmds := []Command{
		DrawSprite{Name: "salute", Opacity: 1},
		CoverSprite{Name: "salute", Opacity: 1},
	}
	if err := c.Apply(&frame, cmds); err != nil {
		t.Fatalf("expected missing sprite to be skipped, got %v", err)
	}
	img, _ := View(&frame)
	for _, v := range img.Pix {
		if v != 0 {
			t.Fatal("expected frame untouched")
		}
	}
}

func TestCompositor_Squeeze(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	frame := gocv.NewMatWithSize(480, 640, gocv.MatTypeCV8UC3)
	defer frame.Close()
	frame.SetTo(gocv.NewScalar(255, 255, 255, 0))

	c := NewCompositor(nil, quietLogger())
	if err := c.Apply(&frame, []Command{Squeeze{Progress: 0.5}}); err != nil {
		t.Fatalf("apply: %v", err)
	}

	if got := pixel(t, &frame, 10, 240); got[0] != 0 {
		t.Errorf("expected black border, got %v", got)
	}
	if got := pixel(t, &frame, 320, 240); got[0] != 255 {
		t.Errorf("expected squeezed content at centre, got %v", got)
	}
	if got := pixel(t, &frame, 630, 240); got[0] != 0 {
		t.Errorf("expected black border, got %v", got)
	}
}

func TestCompositor_Blush(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	frame := blackFrame()
	defer frame.Close()

	c := NewCompositor(nil, quietLogger())
	cmd := Blush{
		Cheeks: []image.Point{{X: 200, Y: 260}},
		Radius: 25,
		Color:  color.RGBA{R: 255, G: 20, B: 147, A: 255},
		Alpha:  0.6,
	}
	if err := c.Apply(&frame, []Command{cmd}); err != nil {
		t.Fatalf("apply: %v", err)
	}

	centre := pixel(t, &frame, 200, 260)
	if centre[2] == 0 {
		t.Errorf("expected tinted cheek, got %v", centre)
	}
	if got := pixel(t, &frame, 500, 100); got[2] != 0 {
		t.Errorf("expected far pixel untouched, got %v", got)
	}
}

func TestCompositor_DrawParticles(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	frame := blackFrame()
	defer frame.Close()

	c := NewCompositor(nil, quietLogger())
	ps := []particle.Particle{
		{Style: particle.Smoke, X: 100, Y: 100, Radius: 5, Alpha: 1, Color: color.RGBA{R: 150, G: 150, B: 150, A: 255}},
		{Style: particle.Fountain, X: 300, Y: 300, Sprite: "peace", Size: 20, Alpha: 1},
	}
	if err := c.DrawParticles(&frame, ps); err != nil {
		t.Fatalf("draw: %v", err)
	}

	if got := pixel(t, &frame, 100, 100); got[0] != 150 {
		t.Errorf("expected smoke disc, got %v", got)
	}
	if got := pixel(t, &frame, 305, 305); got[0] != 0 {
		t.Errorf("expected spriteless fountain to draw nothing, got %v", got)
	}
}

func TestView_RejectsEmptyMat(t *testing.T) {
	m := gocv.NewMat()
	defer m.Close()

	if _, err := View(&m); err == nil {
		t.Error("expected error for empty mat")
	}
	if _, err := View(nil); err == nil {
		t.Error("expected error for nil mat")
	}
}
