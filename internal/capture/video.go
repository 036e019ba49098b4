package capture

import (
	"fmt"
	"math"
	"sync"

	"gocv.io/x/gocv"
)

// fallbackFileFPS is used when a container does not report its frame rate.
const fallbackFileFPS = 30

// VideoFile reads frames from a recorded video. Its rate is the file's
// own; SetFPS is ignored.
type VideoFile struct {
	path    string
	mu      sync.Mutex
	capture *gocv.VideoCapture
	fps     int
	frames  int
	width   int
	height  int
}

// NewVideoFile creates a source for the file at path. It is opened lazily.
func NewVideoFile(path string) *VideoFile {
	return &VideoFile{path: path, fps: fallbackFileFPS}
}

// Open opens the file and reads its properties.
func (v *VideoFile) Open() error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.capture != nil {
		return nil
	}

	capture, err := gocv.VideoCaptureFile(v.path)
	if err != nil {
		return fmt.Errorf("open video %s: %w", v.path, err)
	}
	if !capture.IsOpened() {
		capture.Close()
		return fmt.Errorf("open video %s: unsupported or unreadable", v.path)
	}

	if fps := capture.Get(gocv.VideoCaptureFPS); fps > 0 && !math.IsNaN(fps) {
		v.fps = int(math.Round(fps))
	}
	v.frames = int(capture.Get(gocv.VideoCaptureFrameCount))
	v.width = int(capture.Get(gocv.VideoCaptureFrameWidth))
	v.height = int(capture.Get(gocv.VideoCaptureFrameHeight))
	v.capture = capture

	return nil
}

// Close releases the file.
func (v *VideoFile) Close() error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.capture == nil {
		return nil
	}
	err := v.capture.Close()
	v.capture = nil
	return err
}

// ReadFrame returns the next frame, or ErrEndOfStream after the last one.
func (v *VideoFile) ReadFrame() (*gocv.Mat, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.capture == nil {
		return nil, ErrCameraNotOpen
	}

	mat := gocv.NewMat()
	if ok := v.capture.Read(&mat); !ok || mat.Empty() {
		mat.Close()
		return nil, ErrEndOfStream
	}
	return &mat, nil
}

func (v *VideoFile) SetFPS(int) {}

// FPS returns the frame rate recorded in the file.
func (v *VideoFile) FPS() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.fps
}

func (v *VideoFile) IsOpen() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.capture != nil
}

func (v *VideoFile) Name() string {
	return "file:" + v.path
}

// FrameCount returns the number of frames the container reports. Some
// formats report zero or an estimate.
func (v *VideoFile) FrameCount() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.frames
}

// Size returns the frame dimensions.
func (v *VideoFile) Size() (width, height int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.width, v.height
}
