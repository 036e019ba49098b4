package gesture

// Default thresholds, tuned against a 640x480 mirrored webcam feed.
var (
	DefaultThumbsUp = ThumbsUpRule{ThumbSpreadMax: 0.05, ThumbRiseMin: 0.1, CurlMargin: 0.01}
	DefaultPeace    = PeaceRule{CurlMargin: 0.02}
	DefaultHeart    = HeartRule{TipDistanceMax: 0.09, WristSeparationMin: 0.15, AngleMin: 30, AngleMax: 65}
	DefaultBlush    = BlushRule{TipDistancePx: 50, CurlMargin: 0.01}
	DefaultFistBump = FistBumpRule{WristDistanceMax: 0.3, FistRadius: 0.1}
	DefaultSalute   = SaluteRule{HandLevelMax: 0.02, EyeLevelMax: 0.04, FaceAlignMax: 0.45}
)
