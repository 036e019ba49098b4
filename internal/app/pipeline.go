package app

import (
	"bytes"
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"
	"gocv.io/x/gocv"

	"github.com/ayusman/abhinaya/internal/capture"
	"github.com/ayusman/abhinaya/internal/detector"
)

// runPipeline is the frame loop. In live mode a ticker paces it at the
// rate chosen by the motion controller; otherwise frames are read back to
// back until the source ends.
func (a *App) runPipeline(ctx context.Context) error {
	if !a.config.Live {
		for {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := a.step(); err != nil {
				return err
			}
		}
	}

	motion := capture.NewMotionDetector(a.config.MotionThreshold)
	defer motion.Close()
	rate := capture.NewRateController(capture.IdleFPS, capture.ActiveFPS, capture.IdleTimeout)

	src := a.config.Source
	src.SetFPS(rate.FPS())
	ticker := time.NewTicker(time.Second / time.Duration(rate.FPS()))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-ticker.C:
			frame, err := src.ReadFrame()
			if err != nil {
				if errors.Is(err, capture.ErrEndOfStream) {
					return err
				}
				a.log.WithError(err).Debug("read frame")
				continue
			}

			moved, pct := motion.Detect(frame)
			if fps, changed := rate.Update(moved, now); changed {
				src.SetFPS(fps)
				ticker.Reset(time.Second / time.Duration(fps))
				a.log.WithFields(logrus.Fields{"fps": fps, "change": pct}).Info("capture rate changed")
			}

			a.process(frame)
			frame.Close()
		}
	}
}

// step reads and processes one frame for non-live sources.
func (a *App) step() error {
	frame, err := a.config.Source.ReadFrame()
	if err != nil {
		if errors.Is(err, capture.ErrEndOfStream) || errors.Is(err, capture.ErrCameraNotOpen) ||
			errors.Is(err, capture.ErrNoFrames) {
			return err
		}
		a.log.WithError(err).Debug("read frame")
		return nil
	}
	defer frame.Close()

	a.process(frame)
	return nil
}

// process runs detection and one engine tick on frame, drawing in place.
// Failures are logged and the frame still flows to the outputs.
func (a *App) process(frame *gocv.Mat) {
	var seq uint64
	enabled := a.IsEnabled()
	if !enabled && a.engineOn {
		a.publish(a.config.Engine.Reset())
	}
	a.engineOn = enabled

	if enabled {
		snap, err := a.config.Detector.Detect(frame)
		if err != nil {
			a.log.WithError(err).Warn("landmark detection")
			snap = detector.Snapshot{Width: frame.Cols(), Height: frame.Rows()}
		}

		res, err := a.config.Engine.Process(frame, snap)
		if err != nil {
			a.log.WithError(err).Warn("engine tick")
		}
		a.publish(res.Events)
		seq = res.Seq
	}

	a.output(frame)
	if a.config.OnFrame != nil {
		a.config.OnFrame(seq)
	}
}

// output delivers the augmented frame to the sink and the stream buffer.
func (a *App) output(frame *gocv.Mat) {
	if a.config.Sink != nil {
		if err := a.config.Sink.Write(*frame); err != nil {
			a.log.WithError(err).Warn("write frame")
		}
	}

	if !a.config.EncodeJPEG {
		return
	}
	buf, err := gocv.IMEncode(".jpg", *frame)
	if err != nil {
		a.log.WithError(err).Debug("encode frame")
		return
	}
	data := bytes.Clone(buf.GetBytes())
	buf.Close()

	a.frameMu.Lock()
	a.jpeg = data
	a.jpegSeq++
	a.frameMu.Unlock()
}
