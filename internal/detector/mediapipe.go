package detector

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
	"gocv.io/x/gocv"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// serviceIdleTimeout stops the Python process when no frame arrives for a while.
const serviceIdleTimeout = 30 * time.Second

// MediaPipeDetector implements Source using a Python MediaPipe subprocess
// that runs both the hand and the face models.
type MediaPipeDetector struct {
	config     Config
	scriptPath string
	log        logrus.FieldLogger
	cmd        *exec.Cmd
	stdin      io.WriteCloser
	stdout     *bufio.Reader
	mu         sync.Mutex
	started    bool
	idleTimer  *time.Timer
}

// NewMediaPipeDetector creates a new MediaPipe detector.
// The Python process is started lazily on first detection.
func NewMediaPipeDetector(config Config, log logrus.FieldLogger) (*MediaPipeDetector, error) {
	scriptPath := config.ScriptPath
	if scriptPath == "" {
		scriptPath = findMediaPipeScript()
	}
	if scriptPath == "" {
		return nil, fmt.Errorf("mediapipe_service.py: %w", ErrServiceUnavailable)
	}

	return &MediaPipeDetector{
		config:     config,
		scriptPath: scriptPath,
		log:        log.WithField("component", "mediapipe"),
	}, nil
}

// Detect analyzes a frame and returns the detected hands and faces.
func (d *MediaPipeDetector) Detect(frame *gocv.Mat) (Snapshot, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	snap := Snapshot{Width: frame.Cols(), Height: frame.Rows()}

	if err := d.ensureStarted(); err != nil {
		return snap, err
	}

	// Encode frame as JPEG
	buf, err := gocv.IMEncode(".jpg", *frame)
	if err != nil {
		return snap, fmt.Errorf("encode frame: %w", err)
	}
	defer buf.Close()

	data := buf.GetBytes()

	// Write length (4 bytes big-endian) + data
	length := make([]byte, 4)
	binary.BigEndian.PutUint32(length, uint32(len(data)))

	if _, err := d.stdin.Write(length); err != nil {
		return snap, fmt.Errorf("write length: %w", err)
	}
	if _, err := d.stdin.Write(data); err != nil {
		return snap, fmt.Errorf("write data: %w", err)
	}

	line, err := d.stdout.ReadBytes('\n')
	if err != nil {
		return snap, fmt.Errorf("read response: %w", err)
	}

	var response serviceResponse
	if err := json.Unmarshal(line, &response); err != nil {
		return snap, fmt.Errorf("parse response: %w", err)
	}

	snap = response.toSnapshot(snap.Width, snap.Height)
	d.resetIdleTimer()

	return snap, nil
}

// Close shuts down the Python process.
func (d *MediaPipeDetector) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.shutdown()
}

func (d *MediaPipeDetector) ensureStarted() error {
	if d.started {
		return nil
	}

	// Use virtual environment Python if available
	pythonPath := findVenvPython()
	if pythonPath == "" {
		pythonPath = "python3"
	}

	d.cmd = exec.Command(pythonPath, d.scriptPath,
		"--max-hands", strconv.Itoa(d.config.MaxHands),
		"--min-hand-confidence", strconv.FormatFloat(d.config.MinConfidence, 'f', 2, 64),
		"--min-face-confidence", strconv.FormatFloat(d.config.MinFaceConfidence, 'f', 2, 64),
	)

	stdin, err := d.cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("create stdin pipe: %w", err)
	}

	stdout, err := d.cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("create stdout pipe: %w", err)
	}

	d.cmd.Stderr = os.Stderr

	if err := d.cmd.Start(); err != nil {
		return fmt.Errorf("start mediapipe service: %w", err)
	}

	d.stdin = stdin
	d.stdout = bufio.NewReader(stdout)
	d.started = true
	d.log.WithField("script", d.scriptPath).Info("landmark service started")

	return nil
}

func (d *MediaPipeDetector) shutdown() error {
	if !d.started {
		return nil
	}

	if d.idleTimer != nil {
		d.idleTimer.Stop()
		d.idleTimer = nil
	}

	if d.stdin != nil {
		d.stdin.Close()
	}

	err := d.cmd.Wait()
	d.started = false
	d.cmd = nil
	d.stdin = nil
	d.stdout = nil
	d.log.Info("landmark service stopped")

	return err
}

func (d *MediaPipeDetector) resetIdleTimer() {
	if d.idleTimer != nil {
		d.idleTimer.Stop()
	}
	d.idleTimer = time.AfterFunc(serviceIdleTimeout, func() {
		d.mu.Lock()
		defer d.mu.Unlock()
		if err := d.shutdown(); err != nil {
			d.log.WithError(err).Warn("idle shutdown")
		}
	})
}

func findMediaPipeScript() string {
	execPath, err := os.Executable()
	var execDir string
	if err == nil {
		execDir = filepath.Dir(execPath)
	}

	candidates := []string{
		"scripts/mediapipe_service.py",
		"../scripts/mediapipe_service.py",
		"../../scripts/mediapipe_service.py",
		filepath.Join(execDir, "scripts/mediapipe_service.py"),
		filepath.Join(os.Getenv("HOME"), ".abhinaya/scripts/mediapipe_service.py"),
	}

	return firstExisting(candidates)
}

// findVenvPython looks for a Python interpreter in a virtual environment.
func findVenvPython() string {
	execPath, err := os.Executable()
	if err != nil {
		return ""
	}
	execDir := filepath.Dir(execPath)

	candidates := []string{
		"venv/bin/python",
		"../venv/bin/python",
		"../../venv/bin/python",
		filepath.Join(execDir, "venv/bin/python"),
		filepath.Join(os.Getenv("HOME"), ".abhinaya/venv/bin/python"),
	}

	return firstExisting(candidates)
}

func firstExisting(candidates []string) string {
	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			absPath, err := filepath.Abs(path)
			if err == nil {
				return absPath
			}
			return path
		}
	}
	return ""
}

// serviceResponse is the JSON line written by scripts/mediapipe_service.py
// for each frame. Frames go to the service as a 4-byte big-endian length
// followed by the JPEG bytes; each answer is one line:
//
//	{"hands": [{"points": [{"x": 0.1, "y": 0.2}, ...21], "handedness": "Left", "score": 0.97}],
//	 "faces": [{"box": {"xmin": 0.3, "ymin": 0.2, "width": 0.25, "height": 0.3},
//	            "keypoints": [{"x": 0.4, "y": 0.3}, ...], "score": 0.9}]}
//
// Hand points are normalized; face boxes and keypoints are relative and
// converted to pixels here. Keypoints come in MediaPipe face detection
// order: right eye, left eye, nose tip, mouth center, right ear, left ear.
type serviceResponse struct {
	Hands []jsonHand `json:"hands"`
	Faces []jsonFace `json:"faces"`
}

type jsonHand struct {
	Points     []jsonPoint `json:"points"`
	Handedness string      `json:"handedness"`
	Score      float64     `json:"score"`
}

type jsonFace struct {
	Box       jsonBox     `json:"box"`
	Keypoints []jsonPoint `json:"keypoints"`
	Score     float64     `json:"score"`
}

type jsonBox struct {
	XMin   float64 `json:"xmin"`
	YMin   float64 `json:"ymin"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

type jsonPoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func (r serviceResponse) toSnapshot(width, height int) Snapshot {
	snap := Snapshot{
		Width:  width,
		Height: height,
		Hands:  make([]HandPose, 0, len(r.Hands)),
		Faces:  make([]FacePose, 0, len(r.Faces)),
	}

	for _, h := range r.Hands {
		// Incomplete hands are dropped; detectors see them as absent.
		if len(h.Points) < NumLandmarks {
			continue
		}
		pose := HandPose{Handedness: h.Handedness, Score: h.Score}
		for i := 0; i < NumLandmarks; i++ {
			pose.Points[i] = Point2D{X: h.Points[i].X, Y: h.Points[i].Y}
		}
		snap.Hands = append(snap.Hands, pose)
	}

	w, hgt := float64(width), float64(height)
	for _, f := range r.Faces {
		face := FacePose{
			Box: Box{
				X: f.Box.XMin * w,
				Y: f.Box.YMin * hgt,
				W: f.Box.Width * w,
				H: f.Box.Height * hgt,
			},
			Keypoints: make([]Point2D, len(f.Keypoints)),
			Score:     f.Score,
		}
		for i, kp := range f.Keypoints {
			face.Keypoints[i] = Point2D{X: kp.X * w, Y: kp.Y * hgt}
		}
		snap.Faces = append(snap.Faces, face)
	}

	return snap
}
