package main

import (
	"fmt"

	"github.com/cwbudde/algo-erds/internal/config"
	"github.com/cwbudde/algo-erds/internal/logger"
	"github.com/cwbudde/algo-erds/internal/pipeline"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

func newRunCmd(fs afero.Fs) *cobra.Command {
	var path string
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the configured analysis pipeline",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.LoadFs(fs, path)
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			log := logger.Init(cfg.Logging.Level, cfg.Logging.Format)
			log.Info("configuration loaded", "path", path)

			res, err := pipeline.New(cfg, pipeline.WithFs(fs), pipeline.WithLogger(log)).Run(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, f := range res.Heatmaps {
				if f.Path != "" {
					fmt.Fprintln(out, f.Path)
				}
			}
			if res.Lines != nil && res.Lines.Path != "" {
				fmt.Fprintln(out, res.Lines.Path)
			}
			if res.Exported != "" {
				fmt.Fprintln(out, res.Exported)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&path, "config", "c", "analysis.yaml", "path to the analysis configuration")
	return cmd
}
