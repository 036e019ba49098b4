package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ayusman/abhinaya/internal/config"
	"github.com/ayusman/abhinaya/internal/logging"
)

// Version is set at build time.
var Version = "dev"

var (
	cfg    *config.Config
	logger *logging.Logger

	flagLogLevel string
	flagLogFile  string
	flagDB       string
	flagEffects  string
	flagAssets   string
	flagScript   string
)

var rootCmd = &cobra.Command{
	Use:     "abhinaya",
	Short:   "Gesture-triggered visual reactions for a camera feed",
	Version: Version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load()
		if err != nil {
			return err
		}
		if err := applyRootFlags(cmd, loaded); err != nil {
			return err
		}
		if err := loaded.Validate(); err != nil {
			return err
		}

		l, err := logging.New(logging.Config{Level: loaded.LogLevel, File: loaded.LogFile})
		if err != nil {
			return err
		}
		cfg, logger = loaded, l
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if logger != nil {
			return logger.Close()
		}
		return nil
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flagLogLevel, "log-level", "", "Log level: trace, debug, info, warn, error")
	pf.StringVar(&flagLogFile, "log-file", "", "Also write logs to this file, rotated")
	pf.StringVar(&flagDB, "db", "", "Path to the reaction journal database")
	pf.StringVar(&flagEffects, "effects", "", "YAML file overriding the effect tunables")
	pf.StringVar(&flagAssets, "assets", "", "Directory holding the effect sprites")
	pf.StringVar(&flagScript, "mediapipe-script", "", "Path to the MediaPipe landmark service script")
}

// applyRootFlags overrides environment settings with flags the user set.
func applyRootFlags(cmd *cobra.Command, c *config.Config) error {
	flags := cmd.Flags()
	if flags.Changed("log-level") {
		c.LogLevel = flagLogLevel
	}
	if flags.Changed("log-file") {
		c.LogFile = flagLogFile
	}
	if flags.Changed("db") {
		c.DBPath = flagDB
	}
	if flags.Changed("assets") {
		c.AssetsDir = flagAssets
	}
	if flags.Changed("mediapipe-script") {
		c.ScriptPath = flagScript
	}
	if flags.Changed("effects") {
		c.EffectsFile = flagEffects
		if err := c.Reload(); err != nil {
			return err
		}
	}
	return nil
}

// Execute runs the root command, cancelling its context on SIGINT or
// SIGTERM.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}
