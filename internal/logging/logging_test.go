package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestNew_Level(t *testing.T) {
	tests := []struct {
		level string
		want  logrus.Level
	}{
		{"", logrus.InfoLevel},
		{"debug", logrus.DebugLevel},
		{"warn", logrus.WarnLevel},
	}
	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			l, err := New(Config{Level: tt.level, Output: &bytes.Buffer{}})
			if err != nil {
				t.Fatalf("New: %v", err)
			}
			if l.GetLevel() != tt.want {
				t.Errorf("expected %v, got %v", tt.want, l.GetLevel())
			}
		})
	}

	t.Run("invalid", func(t *testing.T) {
		if _, err := New(Config{Level: "chatty"}); err == nil {
			t.Error("expected error for unknown level")
		}
	})
}

func TestNew_Output(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(Config{Output: &buf, NoColors: true})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	l.WithField("kind", "heart").Info("reaction activated")
	l.Debug("hidden")

	out := buf.String()
	if !strings.Contains(out, "reaction activated") || !strings.Contains(out, "heart") {
		t.Errorf("expected message and field in output, got %q", out)
	}
	if strings.Contains(out, "hidden") {
		t.Error("debug entry written at info level")
	}
}

func TestNew_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "abhinaya.log")

	l, err := New(Config{File: path, Output: &bytes.Buffer{}, NoColors: true})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	l.Warn("camera lost")
	if err := l.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(data), "camera lost") {
		t.Errorf("expected entry in log file, got %q", data)
	}
}

func TestDiscard(t *testing.T) {
	l := Discard()
	l.Error("nowhere")
	if err := l.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
}
