package particle

import (
	"math/rand/v2"
	"testing"
)

func newTestSystem(cfg Config) *System {
	return NewSystem(cfg, rand.New(rand.NewPCG(1, 2)))
}

func TestSystem_SpawnFountain(t *testing.T) {
	s := newTestSystem(DefaultConfig())
	s.SpawnFountain(320, 380, "peace")

	if s.Len() != 1 {
		t.Fatalf("expected 1 particle, got %d", s.Len())
	}
	p := s.Particles()[0]

	if p.Style != Fountain || p.Sprite != "peace" {
		t.Errorf("unexpected particle %+v", p)
	}
	if p.VX < -2 || p.VX > 2 {
		t.Errorf("vx %f outside [-2, 2]", p.VX)
	}
	if p.VY < -10 || p.VY > -7 {
		t.Errorf("vy %f outside [-10, -7]", p.VY)
	}
	if p.Size < 20 || p.Size > 30 {
		t.Errorf("size %d outside [20, 30]", p.Size)
	}
	if p.Alpha != 1 {
		t.Errorf("expected full alpha, got %f", p.Alpha)
	}
}

func TestSystem_SpawnBurst(t *testing.T) {
	s := newTestSystem(DefaultConfig())
	s.SpawnBurst(100, 100, 50, "")

	if s.Len() != 50 {
		t.Fatalf("expected 50 particles, got %d", s.Len())
	}
	for i, p := range s.Particles() {
		if p.Style != Smoke {
			t.Fatalf("particle %d: expected smoke, got %s", i, p.Style)
		}
		if p.Gravity != 0 {
			t.Errorf("particle %d: smoke must not fall", i)
		}
		if p.VX < -5 || p.VX > 5 || p.VY < -5 || p.VY > 5 {
			t.Errorf("particle %d: velocity (%f, %f) outside [-5, 5]", i, p.VX, p.VY)
		}
		if p.Decay < 2.0/255 || p.Decay > 10.0/255 {
			t.Errorf("particle %d: decay %f out of range", i, p.Decay)
		}
		if p.Radius < 4 || p.Radius > 7 {
			t.Errorf("particle %d: radius %d out of range", i, p.Radius)
		}
	}
}

func TestSystem_AlphaIsNonIncreasing(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Margin = 1e6
	s := newTestSystem(cfg)
	s.particles = []Particle{{Style: Smoke, X: 320, Y: 240, VX: 1, Alpha: 1, Decay: 0.3}}

	want := []float64{0.7, 0.4}
	for tick, alpha := range want {
		s.Update(640, 480)
		if s.Len() != 1 {
			t.Fatalf("tick %d: expected particle alive", tick)
		}
		got := s.Particles()[0].Alpha
		if got > alpha+1e-9 || got < alpha-1e-9 {
			t.Fatalf("tick %d: expected alpha %f, got %f", tick, alpha, got)
		}
	}

	// 0.4 -> 0.1 -> -0.2: removed on the tick alpha drops to zero or below.
	s.Update(640, 480)
	if s.Len() != 1 {
		t.Fatal("expected particle alive at alpha 0.1")
	}
	s.Update(640, 480)
	if s.Len() != 0 {
		t.Fatal("expected particle removed once alpha <= 0")
	}
}

func TestSystem_RemovesFadedParticles(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Margin = 1e6
	s := newTestSystem(cfg)
	s.SpawnBurst(320, 240, 10, "")

	// Slowest smoke decay is 2/255 per tick.
	for i := 0; i < 128; i++ {
		s.Update(640, 480)
	}
	if s.Len() != 0 {
		t.Errorf("expected all smoke to fade out, %d left", s.Len())
	}
}

func TestSystem_RemovesParticlesOutsideMargin(t *testing.T) {
	s := newTestSystem(DefaultConfig())
	s.particles = []Particle{
		{X: 10, Y: 10, VX: -70, Alpha: 1},
		{X: 10, Y: 10, VX: -50, Alpha: 1},
		{X: 630, Y: 470, VY: 61, Alpha: 1},
		{X: 320, Y: 240, Alpha: 1},
	}

	s.Update(640, 480)

	if s.Len() != 2 {
		t.Fatalf("expected 2 survivors, got %d", s.Len())
	}
	if s.Particles()[0].X != -40 {
		t.Errorf("expected particle at the margin edge to survive, got x=%f", s.Particles()[0].X)
	}
}

func TestSystem_FountainFallsUnderGravity(t *testing.T) {
	s := newTestSystem(DefaultConfig())
	s.particles = []Particle{{Style: Fountain, X: 320, Y: 400, VY: -8, Gravity: 0.5, Alpha: 1}}

	s.Update(640, 480)
	p := s.Particles()[0]
	if p.Y != 392 || p.VY != -7.5 {
		t.Errorf("expected y=392 vy=-7.5, got y=%f vy=%f", p.Y, p.VY)
	}
}

func TestSystem_MaxParticles(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxParticles = 5
	s := newTestSystem(cfg)

	s.SpawnBurst(0, 0, 10, "")
	if s.Len() != 5 {
		t.Errorf("expected population capped at 5, got %d", s.Len())
	}

	s.Reset()
	if s.Len() != 0 {
		t.Errorf("expected empty system after reset, got %d", s.Len())
	}
}

func TestSystem_ImplementsSpawner(t *testing.T) {
	var _ Spawner = (*System)(nil)
}
