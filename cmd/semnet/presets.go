package main

import (
	"fmt"
	"text/tabwriter"

	"semnet/infrastructure/di"

	"github.com/spf13/cobra"
)

var presetsCmd = &cobra.Command{
	Use:   "presets",
	Short: "List the presets of the configured store",
	Args:  cobra.NoArgs,
	RunE:  runPresets,
}

func runPresets(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger, err := newCLILogger(cfg)
	if err != nil {
		return err
	}

	awsCfg, err := di.ProvideAWSConfig(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	repo, cleanup, err := di.ProvidePresetRepository(cfg, awsCfg, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	summaries, err := repo.List(cmd.Context())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if jsonOutput {
		return writeJSON(out, summaries)
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "FILENAME\tNAME\tPREVIEW")
	for _, s := range summaries {
		fmt.Fprintf(tw, "%s\t%s\t%t\n", s.Filename, s.Name, s.HasPreview)
	}
	return tw.Flush()
}
