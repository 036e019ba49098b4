// Package detector provides landmark detection interfaces and the per-frame
// landmark snapshot consumed by the gesture detectors.
package detector

// Hand landmark indices following MediaPipe convention.
// See: https://developers.google.com/mediapipe/solutions/vision/hand_landmarker
const (
	Wrist        = 0
	ThumbCMC     = 1
	ThumbMCP     = 2
	ThumbIP      = 3
	ThumbTip     = 4
	IndexMCP     = 5
	IndexPIP     = 6
	IndexDIP     = 7
	IndexTip     = 8
	MiddleMCP    = 9
	MiddlePIP    = 10
	MiddleDIP    = 11
	MiddleTip    = 12
	RingMCP      = 13
	RingPIP      = 14
	RingDIP      = 15
	RingTip      = 16
	PinkyMCP     = 17
	PinkyPIP     = 18
	PinkyDIP     = 19
	PinkyTip     = 20
	NumLandmarks = 21
)

// Face keypoint indices following the MediaPipe face detection convention.
const (
	RightEye    = 0
	LeftEye     = 1
	NoseTip     = 2
	MouthCenter = 3
	RightEar    = 4
	LeftEar     = 5

	// MinFaceKeypoints is the number of keypoints a face must carry to be usable.
	MinFaceKeypoints = 4
)

// Point2D is a 2D point. Hand joints use frame-normalized coordinates,
// face boxes and keypoints use pixels.
type Point2D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// HandPose represents the 21 hand landmarks of one detected hand.
type HandPose struct {
	Points     [NumLandmarks]Point2D `json:"points"`
	Handedness string                `json:"handedness"` // "Left" or "Right"
	Score      float64               `json:"score"`
}

// Joint returns the point of the given landmark index.
func (h *HandPose) Joint(i int) Point2D {
	return h.Points[i]
}

// Box is an axis-aligned rectangle in pixels.
type Box struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// FacePose is one detected face: a bounding box and its keypoints, in pixels.
type FacePose struct {
	Box       Box       `json:"box"`
	Keypoints []Point2D `json:"keypoints"`
	Score     float64   `json:"score"`
}

// Valid reports whether the face carries enough keypoints to be used.
func (f *FacePose) Valid() bool {
	return len(f.Keypoints) >= MinFaceKeypoints
}

// Snapshot is the immutable landmark result for a single frame.
type Snapshot struct {
	Width  int        `json:"width"`
	Height int        `json:"height"`
	Hands  []HandPose `json:"hands"`
	Faces  []FacePose `json:"faces"`
}

// HandCount returns the number of hands in the snapshot.
func (s Snapshot) HandCount() int {
	return len(s.Hands)
}

// Face returns the first usable face, if any.
func (s Snapshot) Face() (FacePose, bool) {
	for _, f := range s.Faces {
		if f.Valid() {
			return f, true
		}
	}
	return FacePose{}, false
}

// HasFace reports whether a usable face is present.
func (s Snapshot) HasFace() bool {
	_, ok := s.Face()
	return ok
}

// Normalize converts a pixel point to frame-normalized coordinates.
// A snapshot without frame dimensions returns the point unchanged.
func (s Snapshot) Normalize(p Point2D) Point2D {
	if s.Width <= 0 || s.Height <= 0 {
		return p
	}
	return Point2D{X: p.X / float64(s.Width), Y: p.Y / float64(s.Height)}
}

// Pixel converts a normalized point to pixel coordinates.
func (s Snapshot) Pixel(p Point2D) Point2D {
	return Point2D{X: p.X * float64(s.Width), Y: p.Y * float64(s.Height)}
}

// OrderHands returns the two hands ordered left then right by the x
// coordinate of the given joint. Equal coordinates keep snapshot order so
// the assignment does not flip between frames.
func OrderHands(a, b *HandPose, joint int) (left, right *HandPose) {
	if b.Points[joint].X < a.Points[joint].X {
		return b, a
	}
	return a, b
}
