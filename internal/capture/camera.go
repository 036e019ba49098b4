// Package capture reads frames from cameras and video files using GoCV
// and decides the processing rate from scene motion.
package capture

import (
	"errors"
	"fmt"
	"sync"

	"gocv.io/x/gocv"
)

// Requested camera settings. Devices may deliver a different size.
const (
	DefaultFPS    = 5
	DefaultWidth  = 640
	DefaultHeight = 480
)

var (
	// ErrCameraNotOpen is returned when reading from a source that is not open.
	ErrCameraNotOpen = errors.New("camera is not open")
	// ErrEndOfStream is returned when a finite source has no more frames.
	ErrEndOfStream = errors.New("end of stream")
	// ErrReadFailed is returned when a device delivers no usable frame.
	ErrReadFailed = errors.New("camera read failed")
)

// Source is a frame producer: a camera device, a video file or a mock.
type Source interface {
	Open() error
	Close() error
	// ReadFrame returns the next frame. The caller closes the Mat.
	ReadFrame() (*gocv.Mat, error)
	SetFPS(fps int)
	FPS() int
	IsOpen() bool
	// Name identifies the source in logs and the journal.
	Name() string
}

// Camera captures from a local video device.
type Camera struct {
	device int
	mirror bool

	mu     sync.Mutex
	vc     *gocv.VideoCapture
	fps    int
	width  int
	height int
}

// NewCamera creates a camera source for the given device. With mirror set,
// frames are flipped horizontally so the preview behaves like a mirror.
func NewCamera(device int, mirror bool) *Camera {
	return &Camera{device: device, mirror: mirror, fps: DefaultFPS}
}

// Open asks the device for DefaultWidth x DefaultHeight at the current
// rate and records the size it actually delivers.
func (c *Camera) Open() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.vc != nil {
		return nil
	}

	vc, err := gocv.OpenVideoCapture(c.device)
	if err != nil {
		return fmt.Errorf("open camera %d: %w", c.device, err)
	}
	if !vc.IsOpened() {
		vc.Close()
		return fmt.Errorf("open camera %d: device unavailable", c.device)
	}

	vc.Set(gocv.VideoCaptureFrameWidth, DefaultWidth)
	vc.Set(gocv.VideoCaptureFrameHeight, DefaultHeight)
	vc.Set(gocv.VideoCaptureFPS, float64(c.fps))
	c.width = int(vc.Get(gocv.VideoCaptureFrameWidth))
	c.height = int(vc.Get(gocv.VideoCaptureFrameHeight))
	c.vc = vc
	return nil
}

// Close releases the device. Closing a closed camera is a no-op.
func (c *Camera) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.vc == nil {
		return nil
	}
	err := c.vc.Close()
	c.vc = nil
	return err
}

// ReadFrame grabs the next frame, mirrored when configured.
func (c *Camera) ReadFrame() (*gocv.Mat, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.vc == nil {
		return nil, ErrCameraNotOpen
	}

	mat := gocv.NewMat()
	if !c.vc.Read(&mat) || mat.Empty() {
		mat.Close()
		return nil, fmt.Errorf("camera %d: %w", c.device, ErrReadFailed)
	}
	if c.mirror {
		gocv.Flip(mat, &mat, 1)
	}
	return &mat, nil
}

// SetFPS changes the requested capture rate. Non-positive values are
// ignored.
func (c *Camera) SetFPS(fps int) {
	if fps <= 0 {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.fps = fps
	if c.vc != nil {
		c.vc.Set(gocv.VideoCaptureFPS, float64(fps))
	}
}

func (c *Camera) FPS() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fps
}

func (c *Camera) IsOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.vc != nil
}

func (c *Camera) Name() string {
	return fmt.Sprintf("camera:%d", c.device)
}

// Size returns the frame size the device reported when opened, or zeros
// before Open.
func (c *Camera) Size() (width, height int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.width, c.height
}
