package reaction

import (
	"fmt"
	"image/color"

	"github.com/ayusman/abhinaya/internal/gesture"
	"github.com/ayusman/abhinaya/internal/particle"
)

// Config is the per-kind configuration of one effect. Each implementation
// carries the recognition rule, timing and assets of its kind.
type Config interface {
	Kind() Kind
	// Enabled reports whether the effect takes part in evaluation.
	Enabled() bool
}

// Toggle lets a configured effect be switched off.
type Toggle struct {
	Disabled bool `yaml:"disabled,omitempty" json:"disabled,omitempty"`
}

// Enabled implements Config.
func (t Toggle) Enabled() bool { return !t.Disabled }

// RGB is a color written as [r, g, b] in configuration files.
type RGB [3]uint8

// RGBA converts the color to an opaque color.RGBA.
func (c RGB) RGBA() color.RGBA {
	return color.RGBA{R: c[0], G: c[1], B: c[2], A: 255}
}

// ThumbsUpConfig configures the thumbs-up fountain.
type ThumbsUpConfig struct {
	Toggle   `yaml:",inline"`
	Rule     gesture.ThumbsUpRule `yaml:"rule" json:"rule"`
	Duration int                  `yaml:"duration" json:"duration" validate:"gt=0"`
	Sprite   string               `yaml:"sprite" json:"sprite" validate:"required"`
	// LaunchHeight is the distance of the fountain origin above the frame bottom.
	LaunchHeight int `yaml:"launch_height" json:"launch_height" validate:"gte=0"`
}

// PeaceConfig configures the peace-sign fountain.
type PeaceConfig struct {
	Toggle       `yaml:",inline"`
	Rule         gesture.PeaceRule `yaml:"rule" json:"rule"`
	Duration     int               `yaml:"duration" json:"duration" validate:"gt=0"`
	Sprite       string            `yaml:"sprite" json:"sprite" validate:"required"`
	LaunchHeight int               `yaml:"launch_height" json:"launch_height" validate:"gte=0"`
}

// HeartConfig configures the heart spray.
type HeartConfig struct {
	Toggle   `yaml:",inline"`
	Rule     gesture.HeartRule `yaml:"rule" json:"rule"`
	Duration int               `yaml:"duration" json:"duration" validate:"gt=0"`
	Sprite   string            `yaml:"sprite" json:"sprite" validate:"required"`
	// OffsetX and OffsetY shift the spray origin from the joined thumbs, in pixels.
	OffsetX int `yaml:"offset_x" json:"offset_x"`
	OffsetY int `yaml:"offset_y" json:"offset_y"`
}

// BlushConfig configures the cheek blush.
type BlushConfig struct {
	Toggle   `yaml:",inline"`
	Rule     gesture.BlushRule `yaml:"rule" json:"rule"`
	Duration int               `yaml:"duration" json:"duration" validate:"gt=0"`
	Color    RGB               `yaml:"color" json:"color"`
	Alpha    float64           `yaml:"alpha" json:"alpha" validate:"gt=0,lte=1"`
	// CheekRadius is the blush radius as a fraction of the face width.
	CheekRadius float64 `yaml:"cheek_radius" json:"cheek_radius" validate:"gt=0,lte=1"`
}

// FistBumpConfig configures the squeeze and smoke detonation.
type FistBumpConfig struct {
	Toggle     `yaml:",inline"`
	Rule       gesture.FistBumpRule `yaml:"rule" json:"rule"`
	Duration   int                  `yaml:"duration" json:"duration" validate:"gt=0"`
	SmokeCount int                  `yaml:"smoke_count" json:"smoke_count" validate:"gte=0"`
}

// SaluteConfig configures the salute overlay envelope.
type SaluteConfig struct {
	Toggle `yaml:",inline"`
	Rule   gesture.SaluteRule `yaml:"rule" json:"rule"`
	Sprite string             `yaml:"sprite" json:"sprite" validate:"required"`
	// FadeIn is the number of held ticks to reach full opacity; FadeOut the
	// number of ticks to fade from full opacity once the pose is lost.
	FadeIn  int `yaml:"fade_in" json:"fade_in" validate:"gt=0"`
	FadeOut int `yaml:"fade_out" json:"fade_out" validate:"gt=0"`
}

func (ThumbsUpConfig) Kind() Kind { return KindThumbsUp }
func (PeaceConfig) Kind() Kind    { return KindPeace }
func (HeartConfig) Kind() Kind    { return KindHeart }
func (BlushConfig) Kind() Kind    { return KindBlush }
func (FistBumpConfig) Kind() Kind { return KindFistBump }
func (SaluteConfig) Kind() Kind   { return KindSalute }

// Tunables is the complete effect configuration, loaded once at startup.
type Tunables struct {
	ThumbsUp  ThumbsUpConfig  `yaml:"thumbs_up" json:"thumbs_up"`
	Peace     PeaceConfig     `yaml:"peace" json:"peace"`
	Heart     HeartConfig     `yaml:"heart" json:"heart"`
	Blush     BlushConfig     `yaml:"blush" json:"blush"`
	FistBump  FistBumpConfig  `yaml:"fist_bump" json:"fist_bump"`
	Salute    SaluteConfig    `yaml:"salute" json:"salute"`
	Particles particle.Config `yaml:"particles" json:"particles"`
}

// DefaultTunables returns the stock configuration.
func DefaultTunables() Tunables {
	return Tunables{
		ThumbsUp: ThumbsUpConfig{
			Rule:         gesture.DefaultThumbsUp,
			Duration:     15,
			Sprite:       "thumbs_up",
			LaunchHeight: 100,
		},
		Peace: PeaceConfig{
			Rule:         gesture.DefaultPeace,
			Duration:     15,
			Sprite:       "peace",
			LaunchHeight: 100,
		},
		Heart: HeartConfig{
			Rule:     gesture.DefaultHeart,
			Duration: 30,
			Sprite:   "heart",
			OffsetX:  -20,
			OffsetY:  -50,
		},
		Blush: BlushConfig{
			Rule:        gesture.DefaultBlush,
			Duration:    10,
			Color:       RGB{255, 20, 147},
			Alpha:       0.6,
			CheekRadius: 0.12,
		},
		FistBump: FistBumpConfig{
			Rule:       gesture.DefaultFistBump,
			Duration:   15,
			SmokeCount: 50,
		},
		Salute: SaluteConfig{
			Rule:    gesture.DefaultSalute,
			Sprite:  "salute",
			FadeIn:  10,
			FadeOut: 30,
		},
		Particles: particle.DefaultConfig(),
	}
}

// Configs returns the per-kind configurations in evaluation order.
func (t Tunables) Configs() []Config {
	return []Config{t.ThumbsUp, t.Peace, t.Heart, t.Blush, t.FistBump, t.Salute}
}

// Sprites returns the sprite names referenced by the enabled effects.
func (t Tunables) Sprites() []string {
	var names []string
	seen := make(map[string]bool)
	for _, c := range t.Configs() {
		if !c.Enabled() {
			continue
		}
		var name string
		switch c := c.(type) {
		case ThumbsUpConfig:
			name = c.Sprite
		case PeaceConfig:
			name = c.Sprite
		case HeartConfig:
			name = c.Sprite
		case SaluteConfig:
			name = c.Sprite
		}
		if name != "" && !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	return names
}

// NewEffect builds the effect described by a per-kind configuration.
func NewEffect(c Config) (Effect, error) {
	switch c := c.(type) {
	case ThumbsUpConfig:
		return newFountain(KindThumbsUp, c.Rule, c.Duration, c.Sprite, c.LaunchHeight), nil
	case PeaceConfig:
		return newFountain(KindPeace, c.Rule, c.Duration, c.Sprite, c.LaunchHeight), nil
	case HeartConfig:
		return newHeart(c), nil
	case BlushConfig:
		return newBlush(c), nil
	case FistBumpConfig:
		return newFistBump(c), nil
	case SaluteConfig:
		return newSalute(c), nil
	default:
		return nil, fmt.Errorf("unknown effect config %T", c)
	}
}
