package detector

import (
	"errors"

	"gocv.io/x/gocv"
)

// ErrServiceUnavailable is returned when the landmark service cannot be located.
var ErrServiceUnavailable = errors.New("landmark service not available")

// Source defines the interface for landmark detection implementations.
type Source interface {
	// Detect analyzes a video frame and returns the hands and faces found in it.
	// Absent poses are reported as empty slices, never as an error.
	Detect(frame *gocv.Mat) (Snapshot, error)

	// Close releases any resources held by the source.
	Close() error
}

// Config holds configuration options for landmark detection.
type Config struct {
	// MaxHands is the maximum number of hands to detect (default: 2).
	MaxHands int

	// MinConfidence is the minimum hand detection confidence threshold (0.0-1.0).
	MinConfidence float64

	// MinFaceConfidence is the minimum face detection confidence threshold (0.0-1.0).
	MinFaceConfidence float64

	// ScriptPath overrides the location of the MediaPipe service script.
	ScriptPath string
}

// DefaultConfig returns the detection thresholds used by the reaction camera.
func DefaultConfig() Config {
	return Config{
		MaxHands:          2,
		MinConfidence:     0.9,
		MinFaceConfidence: 0.7,
	}
}
