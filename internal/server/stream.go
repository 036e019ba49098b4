package server

import (
	"fmt"
	"net/http"

	"golang.org/x/time/rate"
)

// DefaultStreamFPS applies when no rate is configured.
const DefaultStreamFPS = 15

// FrameSource provides the latest encoded output frame. seq increases each
// time a new frame is stored; ok is false until the first frame.
type FrameSource interface {
	LatestJPEG() (data []byte, seq uint64, ok bool)
}

// StreamHandler serves the augmented output as MJPEG.
type StreamHandler struct {
	frames FrameSource
	fps    int
}

// NewStreamHandler creates a stream limited to fps frames per second per
// client.
func NewStreamHandler(frames FrameSource, fps int) *StreamHandler {
	if fps <= 0 {
		fps = DefaultStreamFPS
	}
	return &StreamHandler{frames: frames, fps: fps}
}

// ServeHTTP streams MJPEG frames until the client goes away. Frames that
// have already been sent are not repeated.
func (h *StreamHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "multipart/x-mixed-replace; boundary=frame")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	limiter := rate.NewLimiter(rate.Limit(h.fps), 1)
	var last uint64
	for {
		if err := limiter.Wait(r.Context()); err != nil {
			return
		}

		data, seq, ok := h.frames.LatestJPEG()
		if !ok || seq == last {
			continue
		}
		last = seq

		if err := writePart(w, data); err != nil {
			return
		}
		if f, ok := w.(http.Flusher); ok {
			f.Flush()
		}
	}
}

func writePart(w http.ResponseWriter, data []byte) error {
	if _, err := fmt.Fprintf(w, "--frame\r\nContent-Type: image/jpeg\r\nContent-Length: %d\r\n\r\n", len(data)); err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return err
	}
	_, err := fmt.Fprint(w, "\r\n")
	return err
}
