package detector

import (
	"sync"

	"gocv.io/x/gocv"
)

// Frame size the preset poses are laid out for.
const (
	PresetWidth  = 640
	PresetHeight = 480
)

// MockDetector is a test implementation of the Source interface.
// It allows tests to control the detection results frame by frame.
type MockDetector struct {
	mu       sync.Mutex
	snapshot Snapshot
	queue    []Snapshot
	err      error
	calls    int
}

// NewMockDetector creates a new MockDetector instance.
func NewMockDetector() *MockDetector {
	return &MockDetector{}
}

// SetSnapshot sets the snapshot returned by Detect once the queue is drained.
func (m *MockDetector) SetSnapshot(s Snapshot) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snapshot = s
}

// SetHands sets the hands returned by Detect, keeping the configured faces.
func (m *MockDetector) SetHands(hands []HandPose) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snapshot.Hands = hands
}

// SetFaces sets the faces returned by Detect, keeping the configured hands.
func (m *MockDetector) SetFaces(faces []FacePose) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snapshot.Faces = faces
}

// Queue appends snapshots that are returned one per Detect call before
// falling back to the fixed snapshot.
func (m *MockDetector) Queue(snaps ...Snapshot) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queue = append(m.queue, snaps...)
}

// SetError sets the error that will be returned by Detect.
func (m *MockDetector) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Calls returns how many times Detect was invoked.
func (m *MockDetector) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// Detect returns the next queued snapshot, the fixed snapshot, or the
// configured error. Frame dimensions are filled in from the frame when the
// snapshot does not carry them.
func (m *MockDetector) Detect(frame *gocv.Mat) (Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls++
	if m.err != nil {
		return Snapshot{}, m.err
	}

	snap := m.snapshot
	if len(m.queue) > 0 {
		snap = m.queue[0]
		m.queue = m.queue[1:]
	}

	if frame != nil && (snap.Width == 0 || snap.Height == 0) {
		snap.Width = frame.Cols()
		snap.Height = frame.Rows()
	}
	return snap, nil
}

// Close is a no-op for the mock detector.
func (m *MockDetector) Close() error {
	return nil
}

// PresetSnapshot builds a snapshot sized for the preset poses.
func PresetSnapshot(hands []HandPose, faces []FacePose) Snapshot {
	return Snapshot{
		Width:  PresetWidth,
		Height: PresetHeight,
		Hands:  hands,
		Faces:  faces,
	}
}

// FrontalFace returns a face centred in a 640x480 frame.
func FrontalFace() FacePose {
	return FacePose{
		Box: Box{X: 220, Y: 100, W: 200, H: 220},
		Keypoints: []Point2D{
			RightEye:    {X: 280, Y: 170},
			LeftEye:     {X: 360, Y: 170},
			NoseTip:     {X: 320, Y: 210},
			MouthCenter: {X: 320, Y: 250},
			RightEar:    {X: 235, Y: 180},
			LeftEar:     {X: 405, Y: 180},
		},
		Score: 0.93,
	}
}

// ThumbsUpPose returns a hand with the thumb extended upward while the
// other fingers are curled.
func ThumbsUpPose() HandPose {
	p := HandPose{Handedness: "Right", Score: 0.95}

	p.Points[Wrist] = Point2D{X: 0.5, Y: 0.8}

	// Thumb extended upward (Y decreases going up)
	p.Points[ThumbCMC] = Point2D{X: 0.55, Y: 0.75}
	p.Points[ThumbMCP] = Point2D{X: 0.58, Y: 0.65}
	p.Points[ThumbIP] = Point2D{X: 0.58, Y: 0.50}
	p.Points[ThumbTip] = Point2D{X: 0.58, Y: 0.35}

	// Index finger curled, tip back near the palm
	p.Points[IndexMCP] = Point2D{X: 0.55, Y: 0.70}
	p.Points[IndexPIP] = Point2D{X: 0.55, Y: 0.68}
	p.Points[IndexDIP] = Point2D{X: 0.52, Y: 0.70}
	p.Points[IndexTip] = Point2D{X: 0.50, Y: 0.73}

	p.Points[MiddleMCP] = Point2D{X: 0.50, Y: 0.68}
	p.Points[MiddlePIP] = Point2D{X: 0.50, Y: 0.66}
	p.Points[MiddleDIP] = Point2D{X: 0.47, Y: 0.68}
	p.Points[MiddleTip] = Point2D{X: 0.45, Y: 0.71}

	p.Points[RingMCP] = Point2D{X: 0.45, Y: 0.70}
	p.Points[RingPIP] = Point2D{X: 0.45, Y: 0.68}
	p.Points[RingDIP] = Point2D{X: 0.42, Y: 0.70}
	p.Points[RingTip] = Point2D{X: 0.40, Y: 0.73}

	p.Points[PinkyMCP] = Point2D{X: 0.40, Y: 0.72}
	p.Points[PinkyPIP] = Point2D{X: 0.40, Y: 0.70}
	p.Points[PinkyDIP] = Point2D{X: 0.37, Y: 0.72}
	p.Points[PinkyTip] = Point2D{X: 0.35, Y: 0.75}

	return p
}

// PeacePose returns a hand with index and middle fingers raised in a V
// and ring and pinky folded.
func PeacePose() HandPose {
	p := HandPose{Handedness: "Right", Score: 0.94}

	p.Points[Wrist] = Point2D{X: 0.5, Y: 0.85}

	p.Points[ThumbCMC] = Point2D{X: 0.55, Y: 0.80}
	p.Points[ThumbMCP] = Point2D{X: 0.58, Y: 0.74}
	p.Points[ThumbIP] = Point2D{X: 0.56, Y: 0.68}
	p.Points[ThumbTip] = Point2D{X: 0.52, Y: 0.66}

	p.Points[IndexMCP] = Point2D{X: 0.55, Y: 0.68}
	p.Points[IndexPIP] = Point2D{X: 0.56, Y: 0.55}
	p.Points[IndexDIP] = Point2D{X: 0.57, Y: 0.45}
	p.Points[IndexTip] = Point2D{X: 0.58, Y: 0.35}

	p.Points[MiddleMCP] = Point2D{X: 0.50, Y: 0.66}
	p.Points[MiddlePIP] = Point2D{X: 0.49, Y: 0.52}
	p.Points[MiddleDIP] = Point2D{X: 0.48, Y: 0.40}
	p.Points[MiddleTip] = Point2D{X: 0.47, Y: 0.28}

	p.Points[RingMCP] = Point2D{X: 0.45, Y: 0.68}
	p.Points[RingPIP] = Point2D{X: 0.45, Y: 0.64}
	p.Points[RingDIP] = Point2D{X: 0.46, Y: 0.70}
	p.Points[RingTip] = Point2D{X: 0.47, Y: 0.75}

	p.Points[PinkyMCP] = Point2D{X: 0.40, Y: 0.70}
	p.Points[PinkyPIP] = Point2D{X: 0.40, Y: 0.67}
	p.Points[PinkyDIP] = Point2D{X: 0.41, Y: 0.72}
	p.Points[PinkyTip] = Point2D{X: 0.42, Y: 0.77}

	return p
}

// OpenPalmPose returns an open palm with every finger extended. It
// matches none of the reaction gestures.
func OpenPalmPose() HandPose {
	p := HandPose{Handedness: "Right", Score: 0.95}

	p.Points[Wrist] = Point2D{X: 0.5, Y: 0.8}

	// Thumb extended to the side
	p.Points[ThumbCMC] = Point2D{X: 0.55, Y: 0.75}
	p.Points[ThumbMCP] = Point2D{X: 0.62, Y: 0.70}
	p.Points[ThumbIP] = Point2D{X: 0.68, Y: 0.65}
	p.Points[ThumbTip] = Point2D{X: 0.73, Y: 0.60}

	p.Points[IndexMCP] = Point2D{X: 0.55, Y: 0.68}
	p.Points[IndexPIP] = Point2D{X: 0.57, Y: 0.55}
	p.Points[IndexDIP] = Point2D{X: 0.58, Y: 0.45}
	p.Points[IndexTip] = Point2D{X: 0.58, Y: 0.35}

	p.Points[MiddleMCP] = Point2D{X: 0.50, Y: 0.66}
	p.Points[MiddlePIP] = Point2D{X: 0.50, Y: 0.52}
	p.Points[MiddleDIP] = Point2D{X: 0.50, Y: 0.40}
	p.Points[MiddleTip] = Point2D{X: 0.50, Y: 0.28}

	p.Points[RingMCP] = Point2D{X: 0.45, Y: 0.68}
	p.Points[RingPIP] = Point2D{X: 0.43, Y: 0.55}
	p.Points[RingDIP] = Point2D{X: 0.42, Y: 0.45}
	p.Points[RingTip] = Point2D{X: 0.42, Y: 0.35}

	p.Points[PinkyMCP] = Point2D{X: 0.40, Y: 0.70}
	p.Points[PinkyPIP] = Point2D{X: 0.37, Y: 0.60}
	p.Points[PinkyDIP] = Point2D{X: 0.35, Y: 0.50}
	p.Points[PinkyTip] = Point2D{X: 0.34, Y: 0.42}

	return p
}

// HeartPoses returns two hands forming a heart: index tips touching at the
// top, thumb tips touching at the bottom, each thumb-index opening at 45°.
func HeartPoses() (left, right HandPose) {
	left = HandPose{Handedness: "Left", Score: 0.92}
	left.Points[Wrist] = Point2D{X: 0.19, Y: 0.70}
	left.Points[ThumbCMC] = Point2D{X: 0.28, Y: 0.68}
	left.Points[ThumbMCP] = Point2D{X: 0.36, Y: 0.66}
	left.Points[ThumbIP] = Point2D{X: 0.43, Y: 0.64}
	left.Points[ThumbTip] = Point2D{X: 0.49, Y: 0.62}
	left.Points[IndexMCP] = Point2D{X: 0.30, Y: 0.55}
	left.Points[IndexPIP] = Point2D{X: 0.38, Y: 0.36}
	left.Points[IndexDIP] = Point2D{X: 0.45, Y: 0.35}
	left.Points[IndexTip] = Point2D{X: 0.49, Y: 0.40}
	left.Points[MiddleMCP] = Point2D{X: 0.28, Y: 0.56}
	left.Points[MiddlePIP] = Point2D{X: 0.35, Y: 0.38}
	left.Points[MiddleDIP] = Point2D{X: 0.42, Y: 0.36}
	left.Points[MiddleTip] = Point2D{X: 0.46, Y: 0.41}
	left.Points[RingMCP] = Point2D{X: 0.26, Y: 0.58}
	left.Points[RingPIP] = Point2D{X: 0.32, Y: 0.42}
	left.Points[RingDIP] = Point2D{X: 0.38, Y: 0.40}
	left.Points[RingTip] = Point2D{X: 0.42, Y: 0.44}
	left.Points[PinkyMCP] = Point2D{X: 0.24, Y: 0.60}
	left.Points[PinkyPIP] = Point2D{X: 0.29, Y: 0.47}
	left.Points[PinkyDIP] = Point2D{X: 0.34, Y: 0.45}
	left.Points[PinkyTip] = Point2D{X: 0.37, Y: 0.48}

	right = MirrorHand(left)
	right.Handedness = "Right"
	return left, right
}

// FistBumpPoses returns two closed fists meeting near the frame centre.
func FistBumpPoses() (left, right HandPose) {
	left = HandPose{Handedness: "Left", Score: 0.91}
	left.Points[Wrist] = Point2D{X: 0.40, Y: 0.60}
	left.Points[ThumbCMC] = Point2D{X: 0.41, Y: 0.58}
	left.Points[ThumbMCP] = Point2D{X: 0.43, Y: 0.57}
	left.Points[ThumbIP] = Point2D{X: 0.44, Y: 0.58}
	left.Points[ThumbTip] = Point2D{X: 0.44, Y: 0.58}
	left.Points[IndexMCP] = Point2D{X: 0.44, Y: 0.54}
	left.Points[IndexPIP] = Point2D{X: 0.46, Y: 0.53}
	left.Points[IndexDIP] = Point2D{X: 0.45, Y: 0.55}
	left.Points[IndexTip] = Point2D{X: 0.43, Y: 0.55}
	left.Points[MiddleMCP] = Point2D{X: 0.44, Y: 0.56}
	left.Points[MiddlePIP] = Point2D{X: 0.46, Y: 0.56}
	left.Points[MiddleDIP] = Point2D{X: 0.45, Y: 0.57}
	left.Points[MiddleTip] = Point2D{X: 0.43, Y: 0.57}
	left.Points[RingMCP] = Point2D{X: 0.44, Y: 0.58}
	left.Points[RingPIP] = Point2D{X: 0.46, Y: 0.59}
	left.Points[RingDIP] = Point2D{X: 0.45, Y: 0.60}
	left.Points[RingTip] = Point2D{X: 0.43, Y: 0.60}
	left.Points[PinkyMCP] = Point2D{X: 0.43, Y: 0.61}
	left.Points[PinkyPIP] = Point2D{X: 0.45, Y: 0.62}
	left.Points[PinkyDIP] = Point2D{X: 0.44, Y: 0.63}
	left.Points[PinkyTip] = Point2D{X: 0.43, Y: 0.62}

	right = MirrorHand(left)
	right.Handedness = "Right"
	return left, right
}

// BlushPoses returns two hands with index fingers pointing at each other
// in front of the face and the remaining fingers folded.
func BlushPoses() (left, right HandPose) {
	left = HandPose{Handedness: "Left", Score: 0.9}
	left.Points[Wrist] = Point2D{X: 0.30, Y: 0.60}
	left.Points[ThumbCMC] = Point2D{X: 0.33, Y: 0.57}
	left.Points[ThumbMCP] = Point2D{X: 0.37, Y: 0.52}
	left.Points[ThumbIP] = Point2D{X: 0.40, Y: 0.48}
	left.Points[ThumbTip] = Point2D{X: 0.44, Y: 0.45}
	left.Points[IndexMCP] = Point2D{X: 0.42, Y: 0.50}
	left.Points[IndexPIP] = Point2D{X: 0.44, Y: 0.50}
	left.Points[IndexDIP] = Point2D{X: 0.46, Y: 0.50}
	left.Points[IndexTip] = Point2D{X: 0.48, Y: 0.50}
	left.Points[MiddleMCP] = Point2D{X: 0.42, Y: 0.53}
	left.Points[MiddlePIP] = Point2D{X: 0.43, Y: 0.55}
	left.Points[MiddleDIP] = Point2D{X: 0.41, Y: 0.56}
	left.Points[MiddleTip] = Point2D{X: 0.39, Y: 0.55}
	left.Points[RingMCP] = Point2D{X: 0.42, Y: 0.56}
	left.Points[RingPIP] = Point2D{X: 0.43, Y: 0.58}
	left.Points[RingDIP] = Point2D{X: 0.41, Y: 0.59}
	left.Points[RingTip] = Point2D{X: 0.39, Y: 0.58}
	left.Points[PinkyMCP] = Point2D{X: 0.42, Y: 0.59}
	left.Points[PinkyPIP] = Point2D{X: 0.43, Y: 0.61}
	left.Points[PinkyDIP] = Point2D{X: 0.41, Y: 0.62}
	left.Points[PinkyTip] = Point2D{X: 0.39, Y: 0.61}

	right = MirrorHand(left)
	right.Handedness = "Right"
	return left, right
}

// SalutePose returns a flat hand held level at eye height beside the
// FrontalFace.
func SalutePose() HandPose {
	p := HandPose{Handedness: "Right", Score: 0.93}

	p.Points[Wrist] = Point2D{X: 0.70, Y: 0.36}

	p.Points[ThumbCMC] = Point2D{X: 0.68, Y: 0.37}
	p.Points[ThumbMCP] = Point2D{X: 0.66, Y: 0.39}
	p.Points[ThumbIP] = Point2D{X: 0.64, Y: 0.40}
	p.Points[ThumbTip] = Point2D{X: 0.62, Y: 0.41}

	p.Points[IndexMCP] = Point2D{X: 0.66, Y: 0.37}
	p.Points[IndexPIP] = Point2D{X: 0.63, Y: 0.36}
	p.Points[IndexDIP] = Point2D{X: 0.615, Y: 0.355}
	p.Points[IndexTip] = Point2D{X: 0.60, Y: 0.35}

	p.Points[MiddleMCP] = Point2D{X: 0.66, Y: 0.38}
	p.Points[MiddlePIP] = Point2D{X: 0.63, Y: 0.375}
	p.Points[MiddleDIP] = Point2D{X: 0.61, Y: 0.372}
	p.Points[MiddleTip] = Point2D{X: 0.60, Y: 0.37}

	p.Points[RingMCP] = Point2D{X: 0.66, Y: 0.39}
	p.Points[RingPIP] = Point2D{X: 0.63, Y: 0.385}
	p.Points[RingDIP] = Point2D{X: 0.615, Y: 0.383}
	p.Points[RingTip] = Point2D{X: 0.60, Y: 0.38}

	p.Points[PinkyMCP] = Point2D{X: 0.66, Y: 0.40}
	p.Points[PinkyPIP] = Point2D{X: 0.64, Y: 0.395}
	p.Points[PinkyDIP] = Point2D{X: 0.625, Y: 0.393}
	p.Points[PinkyTip] = Point2D{X: 0.61, Y: 0.39}

	return p
}

// MirrorHand reflects a hand about the vertical centre line of the frame.
func MirrorHand(h HandPose) HandPose {
	m := h
	for i := range m.Points {
		m.Points[i].X = 1 - m.Points[i].X
	}
	return m
}
