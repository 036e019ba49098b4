package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/ayusman/abhinaya/internal/config"
)

func TestViewHost(t *testing.T) {
	tests := []struct {
		addr string
		want string
	}{
		{"127.0.0.1:8420", "127.0.0.1:8420"},
		{":8420", "localhost:8420"},
		{"0.0.0.0:9000", "localhost:9000"},
		{"not-an-addr", "not-an-addr"},
	}
	for _, tt := range tests {
		t.Run(tt.addr, func(t *testing.T) {
			if got := viewHost(tt.addr); got != tt.want {
				t.Errorf("viewHost(%q) = %q, want %q", tt.addr, got, tt.want)
			}
		})
	}
}

func TestFindWebDir(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Chdir(dir)

	if got := findWebDir(); got != "" {
		t.Errorf("findWebDir() = %q, want empty", got)
	}

	if err := os.Mkdir(filepath.Join(dir, "web"), 0o755); err != nil {
		t.Fatal(err)
	}
	got := findWebDir()
	if filepath.Base(got) != "web" || !filepath.IsAbs(got) {
		t.Errorf("findWebDir() = %q, want absolute web dir", got)
	}
}

func TestEffectsCommand(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("ABHINAYA_LOG_LEVEL", "error")

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"effects", "--defaults"})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
	})

	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !bytes.Equal(out.Bytes(), config.DefaultEffectsYAML()) {
		t.Error("effects --defaults did not print the embedded tunables")
	}
}

func TestApplyRootFlags_Effects(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "effects.yaml")
	if err := os.WriteFile(path, []byte("heart:\n  duration: 45\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	c := &config.Config{}
	if err := rootCmd.ParseFlags([]string{"--effects", path}); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		flagEffects = ""
		rootCmd.Flags().Lookup("effects").Changed = false
	})

	if err := applyRootFlags(rootCmd, c); err != nil {
		t.Fatalf("applyRootFlags() error = %v", err)
	}
	if c.EffectsFile != path {
		t.Errorf("EffectsFile = %q, want %q", c.EffectsFile, path)
	}
	if c.Effects.Heart.Duration != 45 {
		t.Errorf("Heart.Duration = %d, want 45", c.Effects.Heart.Duration)
	}
}
