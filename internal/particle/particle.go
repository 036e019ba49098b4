// Package particle simulates short-lived decorative sprites: emoji
// fountains launched upward under gravity and smoke bursts that fade out.
package particle

import (
	"image/color"
	"math/rand/v2"
)

// Style selects the kinematics and look of a particle.
type Style int

const (
	// Fountain particles carry a sprite and fall back under gravity.
	Fountain Style = iota
	// Smoke particles are flat-colored discs drifting without gravity.
	Smoke
)

func (s Style) String() string {
	switch s {
	case Fountain:
		return "fountain"
	case Smoke:
		return "smoke"
	default:
		return "unknown"
	}
}

// Particle is one simulated entity. Positions are in pixels.
type Particle struct {
	Style   Style
	X, Y    float64
	VX, VY  float64
	Gravity float64
	// Alpha starts at 1 and only ever decreases by Decay per update.
	Alpha float64
	Decay float64
	// Sprite names the asset drawn for fountain particles; Size is its
	// edge length in pixels.
	Sprite string
	Size   int
	// Radius and Color describe smoke discs.
	Radius int
	Color  color.RGBA
}

// Spawner is the spawning surface offered to effects.
type Spawner interface {
	// SpawnFountain launches one sprite upward from the origin.
	SpawnFountain(x, y float64, sprite string)
	// SpawnBurst emits count particles radiating from the origin. An
	// empty sprite produces smoke discs.
	SpawnBurst(x, y float64, count int, sprite string)
}

// Config holds the particle tunables.
type Config struct {
	Gravity       float64 `yaml:"gravity" json:"gravity" validate:"gte=0"`
	SpriteSize    int     `yaml:"sprite_size" json:"sprite_size" validate:"gt=0"`
	FountainDecay float64 `yaml:"fountain_decay" json:"fountain_decay" validate:"gte=0"`
	// Margin is how far outside the frame a particle may travel before it
	// is removed.
	Margin float64 `yaml:"margin" json:"margin" validate:"gte=0"`
	// MaxParticles caps the live population; spawns beyond it are dropped.
	MaxParticles int `yaml:"max_particles" json:"max_particles" validate:"gt=0"`
}

// DefaultConfig returns the tunables used by the stock effects.
func DefaultConfig() Config {
	return Config{
		Gravity:       0.5,
		SpriteSize:    50,
		FountainDecay: 0.01,
		Margin:        50,
		MaxParticles:  500,
	}
}

var smokeColor = color.RGBA{R: 150, G: 150, B: 150, A: 255}

// System owns every live particle. It is not safe for concurrent use; the
// render loop drives it from a single goroutine.
type System struct {
	config    Config
	rnd       *rand.Rand
	particles []Particle
}

// NewSystem creates a particle system. A nil rnd uses a randomly seeded
// source; tests pass a fixed seed.
func NewSystem(config Config, rnd *rand.Rand) *System {
	if rnd == nil {
		rnd = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &System{config: config, rnd: rnd}
}

// SpawnFountain implements Spawner.
func (s *System) SpawnFountain(x, y float64, sprite string) {
	scale := s.uniform(0.4, 0.6)
	s.add(Particle{
		Style:   Fountain,
		X:       x,
		Y:       y,
		VX:      s.uniform(-2, 2),
		VY:      s.uniform(-10, -7),
		Gravity: s.config.Gravity,
		Alpha:   1,
		Decay:   s.config.FountainDecay,
		Sprite:  sprite,
		Size:    max(1, int(float64(s.config.SpriteSize)*scale)),
	})
}

// SpawnBurst implements Spawner.
func (s *System) SpawnBurst(x, y float64, count int, sprite string) {
	for i := 0; i < count; i++ {
		p := Particle{
			Style:  Smoke,
			X:      x,
			Y:      y,
			VX:     s.uniform(-5, 5),
			VY:     s.uniform(-5, 5),
			Alpha:  1,
			Decay:  s.uniform(2, 10) / 255,
			Radius: int(s.uniform(4, 7)),
			Color:  smokeColor,
		}
		if sprite != "" {
			p.Style = Fountain
			p.Sprite = sprite
			p.Size = max(1, int(float64(s.config.SpriteSize)*s.uniform(0.4, 0.6)))
		}
		s.add(p)
	}
}

// Update advances every particle by one tick and removes those that have
// faded out or left the frame by more than the margin.
func (s *System) Update(width, height int) {
	minX, minY := -s.config.Margin, -s.config.Margin
	maxX := float64(width) + s.config.Margin
	maxY := float64(height) + s.config.Margin

	live := s.particles[:0]
	for _, p := range s.particles {
		p.X += p.VX
		p.Y += p.VY
		p.VY += p.Gravity
		p.Alpha -= p.Decay
		if p.Alpha <= 0 {
			continue
		}
		if p.X < minX || p.X > maxX || p.Y < minY || p.Y > maxY {
			continue
		}
		live = append(live, p)
	}
	clear(s.particles[len(live):])
	s.particles = live
}

// Particles returns the live particles. The slice is only valid until the
// next call that mutates the system.
func (s *System) Particles() []Particle {
	return s.particles
}

// Len returns the number of live particles.
func (s *System) Len() int {
	return len(s.particles)
}

// Reset drops every particle.
func (s *System) Reset() {
	s.particles = s.particles[:0]
}

func (s *System) add(p Particle) {
	if s.config.MaxParticles > 0 && len(s.particles) >= s.config.MaxParticles {
		return
	}
	s.particles = append(s.particles, p)
}

func (s *System) uniform(lo, hi float64) float64 {
	return lo + s.rnd.Float64()*(hi-lo)
}
