package gesture

import (
	"github.com/ayusman/abhinaya/internal/detector"
)

// ThumbsUpRule matches a single hand with the thumb raised vertically and
// the other four fingers curled.
type ThumbsUpRule struct {
	// ThumbSpreadMax bounds the x-spread of the four thumb joints.
	ThumbSpreadMax float64 `yaml:"thumb_spread_max" json:"thumb_spread_max" validate:"gt=0"`
	// ThumbRiseMin is how far the thumb tip must sit above the thumb MCP.
	ThumbRiseMin float64 `yaml:"thumb_rise_min" json:"thumb_rise_min" validate:"gt=0"`
	// CurlMargin is how far a curled fingertip must sit below its MCP.
	CurlMargin float64 `yaml:"curl_margin" json:"curl_margin" validate:"gte=0"`
}

// Match evaluates the rule against a snapshot.
func (r ThumbsUpRule) Match(s detector.Snapshot) bool {
	if s.HandCount() != 1 {
		return false
	}
	h := &s.Hands[0]
	tip := h.Points[detector.ThumbTip]

	vertical := XSpread(
		h.Points[detector.ThumbCMC],
		h.Points[detector.ThumbMCP],
		h.Points[detector.ThumbIP],
		tip,
	) < r.ThumbSpreadMax
	if !vertical {
		return false
	}

	if tip.Y >= h.Points[detector.ThumbMCP].Y-r.ThumbRiseMin {
		return false
	}

	for _, f := range fingerTips {
		if tip.Y >= h.Points[f[0]].Y {
			return false
		}
		if !curledDown(h, f[0], f[1], r.CurlMargin) {
			return false
		}
	}
	return true
}

// PeaceRule matches a single hand showing a V with index and middle
// fingers while ring and pinky are folded.
type PeaceRule struct {
	CurlMargin float64 `yaml:"curl_margin" json:"curl_margin" validate:"gte=0"`
}

// Match evaluates the rule against a snapshot.
func (r PeaceRule) Match(s detector.Snapshot) bool {
	if s.HandCount() != 1 {
		return false
	}
	h := &s.Hands[0]

	if !extendedUp(h, detector.IndexMCP, detector.IndexPIP, detector.IndexTip) {
		return false
	}
	if !extendedUp(h, detector.MiddleMCP, detector.MiddlePIP, detector.MiddleTip) {
		return false
	}
	if !curledDown(h, detector.RingTip, detector.RingMCP, r.CurlMargin) {
		return false
	}
	if !curledDown(h, detector.PinkyTip, detector.PinkyMCP, r.CurlMargin) {
		return false
	}

	// Thumb must stay out of the V.
	return h.Points[detector.ThumbTip].Y > h.Points[detector.IndexTip].Y
}

// HeartRule matches two hands joined at thumb and index tips in a heart.
type HeartRule struct {
	// TipDistanceMax bounds thumb-to-thumb and index-to-index distance.
	TipDistanceMax float64 `yaml:"tip_distance_max" json:"tip_distance_max" validate:"gt=0"`
	// WristSeparationMin keeps two overlapping detections of one hand out.
	WristSeparationMin float64 `yaml:"wrist_separation_min" json:"wrist_separation_min" validate:"gte=0"`
	// AngleMin and AngleMax bound the thumb-index opening of each hand, in degrees.
	AngleMin float64 `yaml:"angle_min" json:"angle_min" validate:"gte=0,ltfield=AngleMax"`
	AngleMax float64 `yaml:"angle_max" json:"angle_max" validate:"lte=180"`
}

// Match evaluates the rule against a snapshot.
func (r HeartRule) Match(s detector.Snapshot) bool {
	if s.HandCount() != 2 {
		return false
	}
	a, b := &s.Hands[0], &s.Hands[1]

	if Distance(a.Points[detector.Wrist], b.Points[detector.Wrist]) <= r.WristSeparationMin {
		return false
	}

	if Distance(a.Points[detector.ThumbTip], b.Points[detector.ThumbTip]) > r.TipDistanceMax {
		return false
	}
	if Distance(a.Points[detector.IndexTip], b.Points[detector.IndexTip]) > r.TipDistanceMax {
		return false
	}

	for _, h := range []*detector.HandPose{a, b} {
		if h.Points[detector.IndexPIP].Y >= h.Points[detector.IndexTip].Y {
			return false
		}
		angle := HeartAngle(h)
		if angle <= r.AngleMin || angle >= r.AngleMax {
			return false
		}
	}
	return true
}

// HeartAngle is the opening at the index tip between the thumb tip and
// the wrist.
func HeartAngle(h *detector.HandPose) float64 {
	return AngleAt(h.Points[detector.ThumbTip], h.Points[detector.IndexTip], h.Points[detector.Wrist])
}

// BlushRule matches two index fingers pointing at each other in front of
// a face, the other fingers folded.
type BlushRule struct {
	// TipDistancePx bounds the distance between index tips, in pixels.
	TipDistancePx float64 `yaml:"tip_distance_px" json:"tip_distance_px" validate:"gt=0"`
	CurlMargin    float64 `yaml:"curl_margin" json:"curl_margin" validate:"gte=0"`
}

// Match evaluates the rule against a snapshot.
func (r BlushRule) Match(s detector.Snapshot) bool {
	if s.HandCount() != 2 || !s.HasFace() {
		return false
	}
	left, right := detector.OrderHands(&s.Hands[0], &s.Hands[1], detector.IndexTip)

	if Distance(s.Pixel(left.Points[detector.IndexTip]), s.Pixel(right.Points[detector.IndexTip])) > r.TipDistancePx {
		return false
	}

	leftDir := Direction(left.Points[detector.IndexMCP], left.Points[detector.IndexTip])
	rightDir := Direction(right.Points[detector.IndexMCP], right.Points[detector.IndexTip])
	if !(leftDir.X > 0 && rightDir.X < 0) {
		return false
	}

	return r.curled(left, true) && r.curled(right, false)
}

// curled checks middle, ring and pinky. On the left hand a folded finger
// tip sits clearly left of its MCP; on the right hand it must not sit
// clearly left of it.
func (r BlushRule) curled(h *detector.HandPose, leftHand bool) bool {
	for _, f := range fingerTips[1:] {
		tip, mcp := h.Points[f[0]].X, h.Points[f[1]].X
		if leftHand {
			if !(tip+r.CurlMargin < mcp) {
				return false
			}
		} else if !(tip > mcp-r.CurlMargin) {
			return false
		}
	}
	return true
}

// FistBumpRule matches two closed fists whose wrists are close together.
type FistBumpRule struct {
	WristDistanceMax float64 `yaml:"wrist_distance_max" json:"wrist_distance_max" validate:"gt=0"`
	// FistRadius bounds the index-tip-to-wrist distance of a closed fist.
	FistRadius float64 `yaml:"fist_radius" json:"fist_radius" validate:"gt=0"`
}

// Match evaluates the rule against a snapshot.
func (r FistBumpRule) Match(s detector.Snapshot) bool {
	if s.HandCount() != 2 {
		return false
	}
	left, right := detector.OrderHands(&s.Hands[0], &s.Hands[1], detector.Wrist)

	if Distance(left.Points[detector.Wrist], right.Points[detector.Wrist]) >= r.WristDistanceMax {
		return false
	}
	return r.isFist(left) && r.isFist(right)
}

func (r FistBumpRule) isFist(h *detector.HandPose) bool {
	return Distance(h.Points[detector.Wrist], h.Points[detector.IndexTip]) < r.FistRadius
}

// SaluteRule matches a flat hand held level at eye height near the face.
type SaluteRule struct {
	// HandLevelMax bounds the height difference between index tip and wrist.
	HandLevelMax float64 `yaml:"hand_level_max" json:"hand_level_max" validate:"gt=0"`
	// EyeLevelMax bounds the distance of the wrist from average eye height.
	EyeLevelMax float64 `yaml:"eye_level_max" json:"eye_level_max" validate:"gt=0"`
	// FaceAlignMax bounds the horizontal distance of the wrist from the face centre.
	FaceAlignMax float64 `yaml:"face_align_max" json:"face_align_max" validate:"gt=0"`
}

// Match evaluates the rule against a snapshot.
func (r SaluteRule) Match(s detector.Snapshot) bool {
	if s.HandCount() != 1 {
		return false
	}
	face, ok := s.Face()
	if !ok {
		return false
	}
	h := &s.Hands[0]
	wrist := h.Points[detector.Wrist]
	indexTip := h.Points[detector.IndexTip]

	rightEye := s.Normalize(face.Keypoints[detector.RightEye])
	leftEye := s.Normalize(face.Keypoints[detector.LeftEye])
	eyeLevel := (rightEye.Y + leftEye.Y) / 2
	faceCenterX := (rightEye.X + leftEye.X) / 2

	if abs(indexTip.Y-wrist.Y) >= r.HandLevelMax {
		return false
	}
	if abs(wrist.Y-eyeLevel) >= r.EyeLevelMax {
		return false
	}
	if abs(wrist.X-faceCenterX) >= r.FaceAlignMax {
		return false
	}
	return indexTip.Y < h.Points[detector.IndexMCP].Y
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
