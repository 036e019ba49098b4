package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"gocv.io/x/gocv"

	"github.com/ayusman/abhinaya/internal/app"
	"github.com/ayusman/abhinaya/internal/capture"
	"github.com/ayusman/abhinaya/internal/reaction"
	"github.com/ayusman/abhinaya/internal/store"
)

var (
	replayOutput    string
	replayCodec     string
	replayNoJournal bool
)

var replayCmd = &cobra.Command{
	Use:   "replay <input>",
	Short: "Apply gesture reactions to a recorded video",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true
		return runReplay(cmd.Context(), args[0], replayOutput)
	},
}

func init() {
	replayCmd.Flags().StringVarP(&replayOutput, "output", "o", "reacted.mp4", "Path to output video")
	replayCmd.Flags().StringVar(&replayCodec, "codec", "mp4v", "FourCC codec of the output video")
	replayCmd.Flags().BoolVar(&replayNoJournal, "no-journal", false, "Do not record reactions in the journal")
	rootCmd.AddCommand(replayCmd)
}

func runReplay(ctx context.Context, input, output string) error {
	inAbs, _ := filepath.Abs(input)
	outAbs, _ := filepath.Abs(output)
	if inAbs == outAbs {
		return fmt.Errorf("input and output paths must be different")
	}

	log := logger.WithField("cmd", "replay")

	src := capture.NewVideoFile(input)
	if err := src.Open(); err != nil {
		return err
	}
	defer src.Close()

	w, h := src.Size()
	writer, err := gocv.VideoWriterFile(output, replayCodec, float64(src.FPS()), w, h, true)
	if err != nil {
		return fmt.Errorf("create output video: %w", err)
	}
	defer writer.Close()

	var st *store.Store
	if !replayNoJournal {
		st, err = openStore(cfg.DBPath)
		if err != nil {
			return err
		}
		defer st.Close()
	}

	engine, lib, err := newEngine(cfg, log)
	if err != nil {
		return err
	}
	defer lib.Close()

	det := newDetector(cfg, log)
	defer det.Close()

	total := src.FrameCount()
	if total <= 0 {
		total = -1
	}
	bar := progressbar.NewOptions(total,
		progressbar.OptionSetDescription("Reacting"),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionShowCount(),
	)

	var reactions int
	a, err := app.New(app.Config{
		Source:   src,
		Detector: det,
		Engine:   engine,
		Log:      log,
		Store:    st,
		Sink:     writer,
		OnFrame: func(uint64) {
			bar.Add(1)
		},
		OnEvent: func(ev reaction.Event) {
			if ev.Type == reaction.Activated {
				reactions++
			}
		},
	})
	if err != nil {
		return err
	}

	if err := a.Run(ctx); err != nil {
		return err
	}
	bar.Finish()
	fmt.Fprintln(os.Stderr)

	log.WithField("reactions", reactions).WithField("output", output).Info("replay finished")
	return nil
}
