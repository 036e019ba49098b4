// Package gesture provides the geometric rules that recognize reaction
// gestures in a landmark snapshot.
package gesture

import (
	"math"

	"github.com/ayusman/abhinaya/internal/detector"
)

// Distance returns the Euclidean distance between two points.
func Distance(a, b detector.Point2D) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}

// SignedAngle returns the angle in degrees at center, measured from p1 to
// p2. The sign follows image coordinates (y grows downward).
func SignedAngle(p1, center, p2 detector.Point2D) float64 {
	ax, ay := p1.X-center.X, p1.Y-center.Y
	bx, by := p2.X-center.X, p2.Y-center.Y
	dot := ax*bx + ay*by
	det := ax*by - ay*bx
	return math.Atan2(det, dot) * 180 / math.Pi
}

// AngleAt returns the unsigned opening angle in degrees at center.
func AngleAt(p1, center, p2 detector.Point2D) float64 {
	return math.Abs(SignedAngle(p1, center, p2))
}

// XSpread returns the horizontal extent covered by the points.
func XSpread(points ...detector.Point2D) float64 {
	if len(points) == 0 {
		return 0
	}
	lo, hi := points[0].X, points[0].X
	for _, p := range points[1:] {
		lo = min(lo, p.X)
		hi = max(hi, p.X)
	}
	return hi - lo
}

// Midpoint returns the point halfway between a and b.
func Midpoint(a, b detector.Point2D) detector.Point2D {
	return detector.Point2D{X: (a.X + b.X) / 2, Y: (a.Y + b.Y) / 2}
}

// Direction returns the vector from one point to another.
func Direction(from, to detector.Point2D) detector.Point2D {
	return detector.Point2D{X: to.X - from.X, Y: to.Y - from.Y}
}

// fingerTips lists the tip and base joint of each non-thumb finger.
var fingerTips = [4][2]int{
	{detector.IndexTip, detector.IndexMCP},
	{detector.MiddleTip, detector.MiddleMCP},
	{detector.RingTip, detector.RingMCP},
	{detector.PinkyTip, detector.PinkyMCP},
}

// curledDown reports whether the finger tip sits below its base joint by
// more than margin.
func curledDown(h *detector.HandPose, tip, mcp int, margin float64) bool {
	return h.Points[tip].Y > h.Points[mcp].Y+margin
}

// extendedUp reports whether y decreases monotonically from base to tip.
func extendedUp(h *detector.HandPose, mcp, pip, tip int) bool {
	return h.Points[tip].Y < h.Points[pip].Y && h.Points[pip].Y < h.Points[mcp].Y
}
