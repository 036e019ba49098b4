package render

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/sirupsen/logrus"
	"gocv.io/x/gocv"

	"github.com/ayusman/abhinaya/internal/particle"
)

// ErrUnsupportedFrame is returned for frames that are not continuous
// 8-bit BGR buffers.
var ErrUnsupportedFrame = errors.New("frame must be a continuous 8-bit BGR mat")

// Sprites resolves sprite names to decoded BGRA images.
type Sprites interface {
	// Sprite returns the image at its native size.
	Sprite(name string) (*gocv.Mat, bool)
	// Scaled returns the image resized to w*h.
	Scaled(name string, w, h int) (*gocv.Mat, bool)
}

// Compositor draws effect commands and particles onto frames in place.
type Compositor struct {
	sprites Sprites
	log     logrus.FieldLogger
	missing map[string]bool
}

// NewCompositor creates a compositor reading sprites from the given
// source. A nil source renders no sprites.
func NewCompositor(sprites Sprites, log logrus.FieldLogger) *Compositor {
	return &Compositor{
		sprites: sprites,
		log:     log.WithField("component", "compositor"),
		missing: make(map[string]bool),
	}
}

// Apply executes the commands in order.
func (c *Compositor) Apply(frame *gocv.Mat, cmds []Command) error {
	if len(cmds) == 0 {
		return nil
	}
	dst, err := View(frame)
	if err != nil {
		return err
	}

	for _, cmd := range cmds {
		switch cmd := cmd.(type) {
		case DrawSprite:
			if src, ok := c.sprite(cmd.Name, 0, 0); ok {
				BlendImage(dst, src, cmd.X, cmd.Y, cmd.Opacity)
			}
		case CoverSprite:
			c.cover(dst, cmd)
		case Blush:
			if err := c.blush(dst, cmd); err != nil {
				return err
			}
		case Squeeze:
			if err := squeeze(frame, dst, cmd.Progress); err != nil {
				return err
			}
		default:
			return fmt.Errorf("unknown render command %T", cmd)
		}
	}
	return nil
}

// DrawParticles blends every particle at its own opacity.
func (c *Compositor) DrawParticles(frame *gocv.Mat, particles []particle.Particle) error {
	if len(particles) == 0 {
		return nil
	}
	dst, err := View(frame)
	if err != nil {
		return err
	}

	for _, p := range particles {
		switch p.Style {
		case particle.Smoke:
			BlendDisc(dst, int(p.X), int(p.Y), p.Radius, p.Color, p.Alpha)
		case particle.Fountain:
			if src, ok := c.sprite(p.Sprite, p.Size, p.Size); ok {
				BlendImage(dst, src, int(p.X), int(p.Y), p.Alpha)
			}
		}
	}
	return nil
}

func (c *Compositor) cover(dst Image, cmd CoverSprite) {
	native, ok := c.sprite(cmd.Name, 0, 0)
	if !ok {
		return
	}
	tw, th, x, y := CoverRect(dst.Width, dst.Height, native.Width, native.Height)
	if src, ok := c.sprite(cmd.Name, tw, th); ok {
		BlendImage(dst, src, x, y, cmd.Opacity)
	}
}

func (c *Compositor) blush(dst Image, cmd Blush) error {
	if len(cmd.Cheeks) == 0 || cmd.Radius <= 0 {
		return nil
	}

	mask := gocv.NewMatWithSize(dst.Height, dst.Width, gocv.MatTypeCV8UC1)
	defer mask.Close()
	mask.SetTo(gocv.NewScalar(0, 0, 0, 0))

	white := color.RGBA{R: 255, G: 255, B: 255, A: 255}
	for _, p := range cmd.Cheeks {
		gocv.Circle(&mask, p, cmd.Radius, white, -1)
	}

	blurred := gocv.NewMat()
	defer blurred.Close()
	k := blurKernel(cmd.Radius)
	gocv.GaussianBlur(mask, &blurred, image.Point{X: k, Y: k}, 0, 0, gocv.BorderDefault)

	m, err := View(&blurred)
	if err != nil {
		return err
	}
	BlendMask(dst, m, cmd.Color, cmd.Alpha)
	return nil
}

// blurKernel returns an odd kernel size proportional to the disc radius.
func blurKernel(radius int) int {
	k := radius
	if k%2 == 0 {
		k++
	}
	return max(k, 3)
}

func squeeze(frame *gocv.Mat, dst Image, progress float64) error {
	progress = math.Max(0, math.Min(1, progress))
	width := SqueezeWidth(dst.Width, progress)
	if width >= dst.Width {
		return nil
	}

	narrow := gocv.NewMat()
	defer narrow.Close()
	gocv.Resize(*frame, &narrow, image.Point{X: width, Y: dst.Height}, 0, 0, gocv.InterpolationLinear)

	src, err := View(&narrow)
	if err != nil {
		return err
	}
	CenterColumns(dst, src)
	return nil
}

// sprite returns the named sprite as an Image. Zero w and h select the
// native size. Missing sprites are logged once and skipped.
func (c *Compositor) sprite(name string, w, h int) (Image, bool) {
	if c.sprites == nil || name == "" {
		return Image{}, false
	}

	var (
		mat *gocv.Mat
		ok  bool
	)
	if w > 0 && h > 0 {
		mat, ok = c.sprites.Scaled(name, w, h)
	} else {
		mat, ok = c.sprites.Sprite(name)
	}
	if !ok {
		if !c.missing[name] {
			c.missing[name] = true
			c.log.WithField("sprite", name).Warn("sprite unavailable, skipping")
		}
		return Image{}, false
	}

	img, err := View(mat)
	if err != nil {
		c.log.WithError(err).WithField("sprite", name).Warn("unusable sprite")
		return Image{}, false
	}
	return img, true
}

// View exposes the pixel buffer of a continuous 8-bit mat without copying.
// Writes to the returned image modify the mat.
func View(m *gocv.Mat) (Image, error) {
	if m == nil || m.Empty() || !m.IsContinuous() {
		return Image{}, ErrUnsupportedFrame
	}
	pix, err := m.DataPtrUint8()
	if err != nil {
		return Image{}, fmt.Errorf("%w: %v", ErrUnsupportedFrame, err)
	}
	return Image{Pix: pix, Width: m.Cols(), Height: m.Rows(), Channels: m.Channels()}, nil
}
