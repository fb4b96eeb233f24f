package main

import (
	"log/slog"
	"os"

	"onnxcut/internal/config"

	"github.com/spf13/cobra"
)

// app carries what every subcommand needs once the root has run
type app struct {
	cfg        *config.Config
	configPath string
	logger     *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	var logLevel string
	rootCmd := &cobra.Command{
		Use:           "onnxcut",
		Short:         "Extract subgraphs from ONNX models",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, path, err := config.Load()
			if err != nil {
				return err
			}
			if logLevel != "" {
				cfg.Log.Level = logLevel
			}
			a.cfg = cfg
			a.configPath = path
			a.logger = config.NewLogger(cfg.Log, os.Stderr)
			if path != "" {
				a.logger.Debug("config loaded", "path", path)
			}
			return nil
		},
	}
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")

	rootCmd.AddCommand(
		newExtractCmd(a),
		newSummarizeCmd(a),
		newInspectCmd(a),
		newHistoryCmd(a),
		newConfigCmd(a),
	)
	return rootCmd
}
