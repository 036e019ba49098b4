package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/spf13/cobra"

	"github.com/ayusman/abhinaya/internal/app"
	"github.com/ayusman/abhinaya/internal/capture"
	"github.com/ayusman/abhinaya/internal/reaction"
	"github.com/ayusman/abhinaya/internal/server"
	"github.com/ayusman/abhinaya/internal/tray"
)

var (
	runCamera   int
	runAddr     string
	runWebDir   string
	runTray     bool
	runNoMirror bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "React to gestures on the live camera and serve the augmented stream",
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true
		flags := cmd.Flags()
		if flags.Changed("camera") {
			cfg.CameraID = runCamera
		}
		if flags.Changed("addr") {
			cfg.Addr = runAddr
		}
		if flags.Changed("tray") {
			cfg.Tray = runTray
		}
		if runNoMirror {
			cfg.Mirror = false
		}
		if err := cfg.Validate(); err != nil {
			return err
		}
		return runLive(cmd.Context())
	},
}

func init() {
	runCmd.Flags().IntVarP(&runCamera, "camera", "c", 0, "Camera device index")
	runCmd.Flags().StringVarP(&runAddr, "addr", "a", "", "Address for the live view server")
	runCmd.Flags().StringVar(&runWebDir, "web", "", "Directory of static files for the live view")
	runCmd.Flags().BoolVar(&runTray, "tray", false, "Show a system tray menu")
	runCmd.Flags().BoolVar(&runNoMirror, "no-mirror", false, "Do not mirror camera frames")
	rootCmd.AddCommand(runCmd)
}

func runLive(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	log := logger.WithField("cmd", "run")

	st, err := openStore(cfg.DBPath)
	if err != nil {
		return err
	}
	defer st.Close()

	engine, lib, err := newEngine(cfg, log)
	if err != nil {
		return err
	}
	defer lib.Close()

	det := newDetector(cfg, log)
	defer det.Close()

	hub := server.NewHub(log)

	var t *tray.Tray
	if cfg.Tray {
		t = tray.New()
	}

	a, err := app.New(app.Config{
		Source:          capture.NewCamera(cfg.CameraID, cfg.Mirror),
		Detector:        det,
		Engine:          engine,
		Log:             log,
		Store:           st,
		Hub:             hub,
		Live:            true,
		MotionThreshold: cfg.MotionThreshold,
		EncodeJPEG:      true,
		OnEvent: func(ev reaction.Event) {
			if t != nil {
				t.SetLastReaction(ev)
			}
		},
	})
	if err != nil {
		return err
	}

	webDir := runWebDir
	if webDir == "" {
		webDir = findWebDir()
	}
	if webDir != "" {
		log.WithField("dir", webDir).Info("serving live view files")
	}
	srv := server.New(server.Config{
		StaticDir: webDir,
		Store:     st,
		Frames:    a,
		Hub:       hub,
		Effects:   &cfg.Effects,
		StreamFPS: cfg.StreamFPS,
		Log:       log,
	})

	errs := make(chan error, 2)
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		if err := srv.ListenAndServe(ctx, cfg.Addr); err != nil {
			errs <- fmt.Errorf("server: %w", err)
			cancel()
		}
	}()
	go func() {
		defer wg.Done()
		if err := a.Run(ctx); err != nil {
			errs <- fmt.Errorf("pipeline: %w", err)
		}
		cancel()
	}()
	log.WithField("addr", cfg.Addr).Info("live view at http://" + viewHost(cfg.Addr))

	if t != nil {
		t.OnToggle(a.SetEnabled)
		t.OnOpen(func() {
			if err := openBrowser("http://" + viewHost(cfg.Addr)); err != nil {
				log.WithError(err).Warn("could not open browser")
			}
		})
		t.OnQuit(cancel)
		go func() {
			<-ctx.Done()
			t.Quit()
		}()
		t.Run()
		cancel()
	}

	wg.Wait()
	close(errs)
	var all []error
	for err := range errs {
		all = append(all, err)
	}
	return errors.Join(all...)
}

// viewHost turns a listen address into one a browser can reach.
func viewHost(addr string) string {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return addr
	}
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "localhost"
	}
	return net.JoinHostPort(host, port)
}

func openBrowser(url string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	return cmd.Start()
}

// findWebDir searches web, ../web, ../../web and ~/.abhinaya/web and
// returns the first directory found, or "".
func findWebDir() string {
	for _, p := range []string{"web", "../web", "../../web"} {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			if abs, err := filepath.Abs(p); err == nil {
				return abs
			}
			return p
		}
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	dir := filepath.Join(home, ".abhinaya", "web")
	if info, err := os.Stat(dir); err == nil && info.IsDir() {
		return dir
	}
	return ""
}
