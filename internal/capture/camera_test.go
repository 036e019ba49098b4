package capture

import (
	"errors"
	"testing"
)

var _ Source = (*Camera)(nil)

func TestNewCamera(t *testing.T) {
	tests := []struct {
		name     string
		deviceID int
		wantName string
	}{
		{"default device", 0, "camera:0"},
		{"device 2", 2, "camera:2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cam := NewCamera(tt.deviceID, true)

			if cam == nil {
				t.Fatal("NewCamera returned nil")
			}
			if got := cam.FPS(); got != DefaultFPS {
				t.Errorf("FPS() = %d, want %d (default)", got, DefaultFPS)
			}
			if cam.IsOpen() {
				t.Error("camera should not be running initially")
			}
			if cam.Name() != tt.wantName {
				t.Errorf("Name() = %q, want %q", cam.Name(), tt.wantName)
			}
			if w, h := cam.Size(); w != 0 || h != 0 {
				t.Errorf("Size() = %dx%d before Open, want 0x0", w, h)
			}
		})
	}
}

func TestCamera_SetFPS(t *testing.T) {
	cam := NewCamera(0, false)

	tests := []struct {
		name    string
		fps     int
		wantFPS int
	}{
		{"set to 10", 10, 10},
		{"set to 1", 1, 1},
		{"set to 0 should keep previous", 0, 1},
		{"set to negative should keep previous", -5, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cam.SetFPS(tt.fps)

			if got := cam.FPS(); got != tt.wantFPS {
				t.Errorf("FPS() = %d, want %d", got, tt.wantFPS)
			}
		})
	}
}

func TestCamera_OpenClose_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	cam := NewCamera(0, true)

	if err := cam.Open(); err != nil {
		t.Skipf("skipping test - camera not available: %v", err)
	}

	if !cam.IsOpen() {
		t.Error("IsOpen() should return true after Open()")
	}
	if w, h := cam.Size(); w <= 0 || h <= 0 {
		t.Errorf("Size() = %dx%d after Open", w, h)
	}

	mat, err := cam.ReadFrame()
	if err != nil {
		t.Errorf("ReadFrame() failed: %v", err)
	} else {
		if mat.Empty() {
			t.Error("ReadFrame() returned empty mat")
		}
		mat.Close()
	}

	if err := cam.Close(); err != nil {
		t.Errorf("Close() failed: %v", err)
	}
	if cam.IsOpen() {
		t.Error("IsOpen() should return false after Close()")
	}
}

func TestCamera_ReadFrame_NotOpened(t *testing.T) {
	cam := NewCamera(0, false)

	if _, err := cam.ReadFrame(); !errors.Is(err, ErrCameraNotOpen) {
		t.Errorf("ReadFrame() error = %v, want ErrCameraNotOpen", err)
	}
}

func TestCamera_Close_NotOpened(t *testing.T) {
	cam := NewCamera(0, false)

	if err := cam.Close(); err != nil {
		t.Errorf("Close() on not opened camera should return nil, got: %v", err)
	}
}

func TestVideoFile(t *testing.T) {
	v := NewVideoFile("/nonexistent/clip.mp4")

	if v.Name() != "file:/nonexistent/clip.mp4" {
		t.Errorf("unexpected name %q", v.Name())
	}
	if v.IsOpen() {
		t.Error("video should not be open before Open()")
	}
	if _, err := v.ReadFrame(); !errors.Is(err, ErrCameraNotOpen) {
		t.Errorf("ReadFrame() error = %v, want ErrCameraNotOpen", err)
	}
	if err := v.Close(); err != nil {
		t.Errorf("Close() on unopened file: %v", err)
	}

	v.SetFPS(99)
	if v.FPS() != fallbackFileFPS {
		t.Errorf("SetFPS must not change the file rate, got %d", v.FPS())
	}

	t.Run("missing file", func(t *testing.T) {
		if testing.Short() {
			t.Skip("skipping test that requires OpenCV")
		}
		if err := v.Open(); err == nil {
			v.Close()
			t.Error("expected error opening a missing file")
		}
	})
}
