// Package app runs the reaction pipeline: frames from a capture source are
// analyzed by the landmark detector, handed to the reaction engine and
// drawn on, while engine events are journaled and broadcast.
package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"gocv.io/x/gocv"

	"github.com/ayusman/abhinaya/internal/capture"
	"github.com/ayusman/abhinaya/internal/detector"
	"github.com/ayusman/abhinaya/internal/reaction"
	"github.com/ayusman/abhinaya/internal/store"
)

// eventBuffer is how many engine events may wait for the dispatcher
// before the pipeline drops them.
const eventBuffer = 256

// Broadcaster pushes events to live clients.
type Broadcaster interface {
	Broadcast(v any) error
}

// FrameSink receives every augmented frame, e.g. a gocv.VideoWriter.
type FrameSink interface {
	Write(img gocv.Mat) error
}

// Config wires the pipeline. Source, Detector and Engine are required.
type Config struct {
	Source   capture.Source
	Detector detector.Source
	Engine   *reaction.Engine
	Log      logrus.FieldLogger

	// Store, when set, journals every activation.
	Store *store.Store
	// Hub, when set, receives every engine event.
	Hub Broadcaster
	// Sink, when set, receives every augmented frame.
	Sink FrameSink

	// Live paces the loop with the motion-driven rate controller. Without
	// it frames are processed as fast as the source delivers them.
	Live            bool
	MotionThreshold float64
	// EncodeJPEG keeps the latest augmented frame for streaming.
	EncodeJPEG bool

	// OnEvent is called from the dispatcher goroutine for each event.
	OnEvent func(reaction.Event)
	// OnFrame is called from the pipeline goroutine after each frame.
	OnFrame func(seq uint64)
}

// App owns the pipeline state.
type App struct {
	config Config
	log    logrus.FieldLogger

	mu      sync.RWMutex
	enabled bool
	running bool

	// engineOn is the enabled state seen by the last processed frame.
	engineOn bool

	frameMu  sync.RWMutex
	jpeg     []byte
	jpegSeq  uint64
	lastMu   sync.RWMutex
	last     reaction.Event
	haveLast bool

	events chan reaction.Event
}

// New validates the configuration and creates an App with the engine
// enabled.
func New(config Config) (*App, error) {
	if config.Source == nil || config.Detector == nil || config.Engine == nil {
		return nil, errors.New("app: source, detector and engine are required")
	}
	if config.Log == nil {
		config.Log = logrus.StandardLogger()
	}
	if config.MotionThreshold <= 0 {
		config.MotionThreshold = 1.0
	}

	return &App{
		config:  config,
		log:     config.Log.WithField("component", "app"),
		enabled: true,
	}, nil
}

// SetEnabled switches the reaction engine on or off. While off, frames
// pass through untouched.
func (a *App) SetEnabled(enabled bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.enabled = enabled
}

// IsEnabled returns whether the reaction engine is on.
func (a *App) IsEnabled() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.enabled
}

// Running reports whether Run is in progress.
func (a *App) Running() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.running
}

// LatestJPEG returns the most recent augmented frame.
func (a *App) LatestJPEG() ([]byte, uint64, bool) {
	a.frameMu.RLock()
	defer a.frameMu.RUnlock()
	return a.jpeg, a.jpegSeq, a.jpegSeq > 0
}

// LastEvent returns the most recent engine event.
func (a *App) LastEvent() (reaction.Event, bool) {
	a.lastMu.RLock()
	defer a.lastMu.RUnlock()
	return a.last, a.haveLast
}

// Run opens the source and processes frames until ctx is cancelled or a
// finite source ends. Per-frame errors are logged and skipped.
func (a *App) Run(ctx context.Context) error {
	a.mu.Lock()
	if a.running {
		a.mu.Unlock()
		return errors.New("app: already running")
	}
	a.running = true
	a.mu.Unlock()
	defer func() {
		a.mu.Lock()
		a.running = false
		a.mu.Unlock()
	}()

	src := a.config.Source
	if err := src.Open(); err != nil {
		return fmt.Errorf("open source: %w", err)
	}
	defer src.Close()

	j, err := a.openJournal(src.Name())
	if err != nil {
		return err
	}

	a.engineOn = a.IsEnabled()
	a.events = make(chan reaction.Event, eventBuffer)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		a.dispatch(j)
	}()

	a.log.WithField("source", src.Name()).Info("pipeline started")
	err = a.runPipeline(ctx)

	a.publish(a.config.Engine.Reset())
	close(a.events)
	wg.Wait()

	if j != nil {
		j.close(time.Now())
	}
	a.log.Info("pipeline stopped")

	if errors.Is(err, capture.ErrEndOfStream) || ctx.Err() != nil {
		return nil
	}
	return err
}

func (a *App) openJournal(source string) (*journal, error) {
	if a.config.Store == nil {
		return nil, nil
	}
	j, err := newJournal(a.config.Store, source, time.Now(), a.log)
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}
	return j, nil
}

// publish hands events to the dispatcher without blocking the tick.
func (a *App) publish(events []reaction.Event) {
	for _, ev := range events {
		select {
		case a.events <- ev:
		default:
			a.log.WithField("kind", ev.Kind).Warn("event queue full, event dropped")
		}
	}
}

// dispatch persists, broadcasts and forwards events off the tick path.
func (a *App) dispatch(j *journal) {
	for ev := range a.events {
		a.lastMu.Lock()
		a.last, a.haveLast = ev, true
		a.lastMu.Unlock()

		if j != nil {
			j.record(ev)
		}
		if a.config.Hub != nil {
			if err := a.config.Hub.Broadcast(ev); err != nil {
				a.log.WithError(err).Warn("broadcast event")
			}
		}
		if a.config.OnEvent != nil {
			a.config.OnEvent(ev)
		}
	}
}
