// Package config loads process settings from the environment and effect
// tunables from YAML.
package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/ayusman/abhinaya/internal/reaction"
)

//go:embed effects.yaml
var effectsYAML []byte

// Config holds process settings.
type Config struct {
	CameraID        int     `env:"ABHINAYA_CAMERA" envDefault:"0" validate:"gte=0"`
	Addr            string  `env:"ABHINAYA_ADDR" envDefault:"127.0.0.1:8420" validate:"required,hostname_port"`
	AssetsDir       string  `env:"ABHINAYA_ASSETS_DIR" envDefault:"assets" validate:"required"`
	DBPath          string  `env:"ABHINAYA_DB"`
	EffectsFile     string  `env:"ABHINAYA_EFFECTS_FILE"`
	ScriptPath      string  `env:"ABHINAYA_MEDIAPIPE_SCRIPT"`
	LogLevel        string  `env:"ABHINAYA_LOG_LEVEL" envDefault:"info" validate:"oneof=trace debug info warn error"`
	LogFile         string  `env:"ABHINAYA_LOG_FILE"`
	MotionThreshold float64 `env:"ABHINAYA_MOTION_THRESHOLD" envDefault:"1.0" validate:"gt=0,lte=100"`
	Mirror          bool    `env:"ABHINAYA_MIRROR" envDefault:"true"`
	Tray            bool    `env:"ABHINAYA_TRAY" envDefault:"false"`
	StreamFPS       int     `env:"ABHINAYA_STREAM_FPS" envDefault:"15" validate:"gt=0,lte=60"`

	Effects reaction.Tunables
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Load reads an optional .env file, the environment and the effect
// tunables. Callers apply flag overrides and then call Validate.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := &Config{}
	if err := ParseEnv(cfg); err != nil {
		return nil, err
	}
	if cfg.DBPath == "" {
		cfg.DBPath = DefaultDBPath()
	}

	effects, err := LoadEffects(cfg.EffectsFile)
	if err != nil {
		return nil, err
	}
	cfg.Effects = effects
	return cfg, nil
}

// Reload re-reads the effect tunables, for use after flags changed
// EffectsFile.
func (c *Config) Reload() error {
	effects, err := LoadEffects(c.EffectsFile)
	if err != nil {
		return err
	}
	c.Effects = effects
	return nil
}

// Validate checks the settings and the effect tunables.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// DefaultDBPath returns ~/.abhinaya/abhinaya.db.
func DefaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "abhinaya.db"
	}
	return filepath.Join(home, ".abhinaya", "abhinaya.db")
}

// DefaultEffectsYAML returns the embedded default tunables document.
func DefaultEffectsYAML() []byte {
	return bytes.Clone(effectsYAML)
}

// LoadEffects parses the embedded defaults and overlays the file at path,
// if any. Keys absent from the file keep their default values.
func LoadEffects(path string) (reaction.Tunables, error) {
	var t reaction.Tunables
	if err := decodeStrict(bytes.NewReader(effectsYAML), &t); err != nil {
		return t, fmt.Errorf("parse embedded effects: %w", err)
	}
	if path == "" {
		return t, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return t, fmt.Errorf("open effects file: %w", err)
	}
	defer f.Close()

	if err := decodeStrict(f, &t); err != nil {
		return t, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := validator.New().Struct(t); err != nil {
		return t, fmt.Errorf("invalid effects file %s: %w", path, err)
	}
	return t, nil
}

func decodeStrict(r io.Reader, out any) error {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// MarshalEffects renders tunables as YAML.
func MarshalEffects(t reaction.Tunables) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(t); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
