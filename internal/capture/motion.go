package capture

import (
	"image"
	"sync"
	"time"

	"gocv.io/x/gocv"
)

// Frame-differencing parameters.
const (
	// GaussianBlurSize is the blur kernel applied before differencing.
	GaussianBlurSize = 21
	// DiffThreshold is the per-pixel intensity change that counts as motion.
	DiffThreshold = 25
)

// Processing rates.
const (
	IdleFPS     = 5
	ActiveFPS   = 15
	IdleTimeout = 2 * time.Second
)

// MotionDetector compares consecutive frames and reports the share of
// pixels that changed.
type MotionDetector struct {
	threshold   float64
	prevGray    gocv.Mat
	initialized bool
	mu          sync.Mutex
}

// NewMotionDetector creates a detector. threshold is the percentage of
// pixels that must change to count as motion; 1.0 means 1%.
func NewMotionDetector(threshold float64) *MotionDetector {
	return &MotionDetector{
		threshold: threshold,
		prevGray:  gocv.NewMat(),
	}
}

// Detect compares the frame with the previous one. The first frame only
// sets the baseline.
func (m *MotionDetector) Detect(frame *gocv.Mat) (bool, float64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if frame == nil || frame.Empty() {
		return false, 0
	}

	gray := gocv.NewMat()
	defer gray.Close()

	switch frame.Channels() {
	case 4:
		gocv.CvtColor(*frame, &gray, gocv.ColorBGRAToGray)
	case 3:
		gocv.CvtColor(*frame, &gray, gocv.ColorBGRToGray)
	default:
		frame.CopyTo(&gray)
	}

	blurred := gocv.NewMat()
	defer blurred.Close()
	gocv.GaussianBlur(gray, &blurred, image.Point{X: GaussianBlurSize, Y: GaussianBlurSize}, 0, 0, gocv.BorderDefault)

	if !m.initialized || blurred.Rows() != m.prevGray.Rows() || blurred.Cols() != m.prevGray.Cols() {
		blurred.CopyTo(&m.prevGray)
		m.initialized = true
		return false, 0
	}

	diff := gocv.NewMat()
	defer diff.Close()
	gocv.AbsDiff(blurred, m.prevGray, &diff)

	thresh := gocv.NewMat()
	defer thresh.Close()
	gocv.Threshold(diff, &thresh, DiffThreshold, 255, gocv.ThresholdBinary)

	nonZero := gocv.CountNonZero(thresh)
	totalPixels := thresh.Rows() * thresh.Cols()
	changePercent := float64(nonZero) / float64(totalPixels) * 100.0

	blurred.CopyTo(&m.prevGray)

	return changePercent > m.threshold, changePercent
}

// Reset drops the baseline frame.
func (m *MotionDetector) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.prevGray.Empty() {
		m.prevGray.Close()
		m.prevGray = gocv.NewMat()
	}
	m.initialized = false
}

// Close releases resources used by the motion detector.
func (m *MotionDetector) Close() {
	m.Reset()
}

// SetThreshold sets the motion threshold. Values less than or equal to 0
// are ignored.
func (m *MotionDetector) SetThreshold(threshold float64) {
	if threshold <= 0 {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.threshold = threshold
}

// RateController switches between the idle and active processing rate.
// Motion switches to active at once; the idle rate returns after
// IdleTimeout without motion.
type RateController struct {
	idleFPS    int
	activeFPS  int
	timeout    time.Duration
	active     bool
	lastMotion time.Time
}

// NewRateController creates a controller starting at the idle rate.
func NewRateController(idleFPS, activeFPS int, timeout time.Duration) *RateController {
	return &RateController{
		idleFPS:   idleFPS,
		activeFPS: activeFPS,
		timeout:   timeout,
	}
}

// Update records whether motion was seen at now and returns the rate to
// use. changed is true when the rate differs from the previous call.
func (r *RateController) Update(moved bool, now time.Time) (fps int, changed bool) {
	switch {
	case moved:
		r.lastMotion = now
		if !r.active {
			r.active = true
			changed = true
		}
	case r.active && now.Sub(r.lastMotion) > r.timeout:
		r.active = false
		changed = true
	}
	return r.FPS(), changed
}

// Active reports whether the controller is at the active rate.
func (r *RateController) Active() bool {
	return r.active
}

// FPS returns the current rate.
func (r *RateController) FPS() int {
	if r.active {
		return r.activeFPS
	}
	return r.idleFPS
}
