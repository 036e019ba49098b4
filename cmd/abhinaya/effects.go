package main

import (
	"github.com/spf13/cobra"

	"github.com/ayusman/abhinaya/internal/config"
)

var effectsDefaults bool

var effectsCmd = &cobra.Command{
	Use:   "effects",
	Short: "Print the effect tunables in effect as YAML",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := config.DefaultEffectsYAML()
		if !effectsDefaults {
			var err error
			if out, err = config.MarshalEffects(cfg.Effects); err != nil {
				return err
			}
		}
		_, err := cmd.OutOrStdout().Write(out)
		return err
	},
}

func init() {
	effectsCmd.Flags().BoolVar(&effectsDefaults, "defaults", false, "Print the built-in defaults instead")
	rootCmd.AddCommand(effectsCmd)
}
