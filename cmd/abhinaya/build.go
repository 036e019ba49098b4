package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/ayusman/abhinaya/internal/assets"
	"github.com/ayusman/abhinaya/internal/config"
	"github.com/ayusman/abhinaya/internal/detector"
	"github.com/ayusman/abhinaya/internal/reaction"
	"github.com/ayusman/abhinaya/internal/render"
	"github.com/ayusman/abhinaya/internal/store"
)

// newEngine loads the sprites the enabled effects need and builds an engine
// that draws onto frames. The caller closes the returned library.
func newEngine(c *config.Config, log logrus.FieldLogger) (*reaction.Engine, *assets.Library, error) {
	lib := assets.NewLibrary(c.AssetsDir, log)
	wanted := c.Effects.Sprites()
	loaded := lib.Load(wanted...)
	log.WithFields(logrus.Fields{
		"dir":    c.AssetsDir,
		"loaded": len(loaded),
		"wanted": len(wanted),
	}).Info("sprites loaded")

	engine, err := reaction.NewEngine(c.Effects, log,
		reaction.WithCompositor(render.NewCompositor(lib, log)))
	if err != nil {
		lib.Close()
		return nil, nil, err
	}
	return engine, lib, nil
}

// newDetector starts the MediaPipe landmark service, falling back to a
// detector that never sees anyone when the service is missing.
func newDetector(c *config.Config, log logrus.FieldLogger) detector.Source {
	dc := detector.DefaultConfig()
	dc.ScriptPath = c.ScriptPath

	d, err := detector.NewMediaPipeDetector(dc, log)
	if err != nil {
		log.WithError(err).Warn("landmark service unavailable, effects will not trigger")
		return detector.NewMockDetector()
	}
	return d
}

// openStore opens the journal database, creating its directory.
func openStore(path string) (*store.Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}
	return store.New(path)
}
