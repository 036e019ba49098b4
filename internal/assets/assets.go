// Package assets loads the sprite images used by effects and caches
// resized copies of them.
package assets

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"sync"

	"github.com/sirupsen/logrus"
	"gocv.io/x/gocv"
)

// Ext is the file extension sprites are stored with.
const Ext = ".png"

// maxScaled bounds the number of resized copies kept per sprite.
const maxScaled = 32

type sizeKey struct {
	w, h int
}

type entry struct {
	native gocv.Mat
	scaled map[sizeKey]*gocv.Mat
}

// Library holds decoded BGRA sprites keyed by logical name.
type Library struct {
	dir     string
	log     logrus.FieldLogger
	mu      sync.Mutex
	sprites map[string]*entry
}

// NewLibrary creates an empty library rooted at dir.
func NewLibrary(dir string, log logrus.FieldLogger) *Library {
	return &Library{
		dir:     dir,
		log:     log.WithField("component", "assets"),
		sprites: make(map[string]*entry),
	}
}

// Load decodes <dir>/<name>.png for each name. Missing or unreadable files
// are logged and skipped; the affected effects render nothing. It returns
// the names that loaded.
func (l *Library) Load(names ...string) []string {
	var loaded []string
	for _, name := range names {
		if err := l.load(name); err != nil {
			l.log.WithError(err).WithField("sprite", name).Warn("sprite not loaded")
			continue
		}
		loaded = append(loaded, name)
	}
	return loaded
}

func (l *Library) load(name string) error {
	path := filepath.Join(l.dir, name+Ext)
	if _, err := os.Stat(path); err != nil {
		return err
	}

	img := gocv.IMRead(path, gocv.IMReadUnchanged)
	if img.Empty() {
		img.Close()
		return fmt.Errorf("decode %s: empty image", path)
	}

	bgra, err := toBGRA(img)
	if err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	l.Add(name, bgra)
	return nil
}

// toBGRA converts a decoded image to four channels, taking ownership of img.
func toBGRA(img gocv.Mat) (gocv.Mat, error) {
	var code gocv.ColorConversionCode
	switch img.Channels() {
	case 4:
		return img, nil
	case 3:
		code = gocv.ColorBGRToBGRA
	case 1:
		code = gocv.ColorGrayToBGRA
	default:
		img.Close()
		return gocv.Mat{}, fmt.Errorf("unsupported channel count %d", img.Channels())
	}
	out := gocv.NewMat()
	gocv.CvtColor(img, &out, code)
	img.Close()
	return out, nil
}

// Add registers an already decoded BGRA image under name, replacing any
// previous sprite. The library takes ownership of the mat.
func (l *Library) Add(name string, img gocv.Mat) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if old, ok := l.sprites[name]; ok {
		old.close()
	}
	l.sprites[name] = &entry{native: img, scaled: make(map[sizeKey]*gocv.Mat)}
}

// Has reports whether a sprite is loaded.
func (l *Library) Has(name string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, ok := l.sprites[name]
	return ok
}

// Names returns the loaded sprite names.
func (l *Library) Names() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	names := make([]string, 0, len(l.sprites))
	for name := range l.sprites {
		names = append(names, name)
	}
	return names
}

// Sprite returns the sprite at its native size.
func (l *Library) Sprite(name string) (*gocv.Mat, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	e, ok := l.sprites[name]
	if !ok {
		return nil, false
	}
	return &e.native, true
}

// Scaled returns the sprite resized to w*h, caching the result.
func (l *Library) Scaled(name string, w, h int) (*gocv.Mat, bool) {
	if w <= 0 || h <= 0 {
		return nil, false
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.sprites[name]
	if !ok {
		return nil, false
	}
	key := sizeKey{w, h}
	if m, ok := e.scaled[key]; ok {
		return m, true
	}
	if e.native.Cols() == w && e.native.Rows() == h {
		return &e.native, true
	}

	if len(e.scaled) >= maxScaled {
		e.dropScaled()
	}

	interp := gocv.InterpolationLinear
	if w < e.native.Cols() {
		interp = gocv.InterpolationArea
	}
	m := gocv.NewMat()
	gocv.Resize(e.native, &m, image.Point{X: w, Y: h}, 0, 0, interp)
	e.scaled[key] = &m
	return &m, true
}

// Close releases every decoded image.
func (l *Library) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	for name, e := range l.sprites {
		e.close()
		delete(l.sprites, name)
	}
	return nil
}

func (e *entry) dropScaled() {
	for k, m := range e.scaled {
		m.Close()
		delete(e.scaled, k)
	}
}

func (e *entry) close() {
	e.dropScaled()
	e.native.Close()
}
