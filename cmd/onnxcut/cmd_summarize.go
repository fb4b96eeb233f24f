package main

import (
	"encoding/json"
	"fmt"

	"onnxcut/internal/core/summary"
	"onnxcut/internal/loader"
	"onnxcut/internal/service"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newSummarizeCmd(a *app) *cobra.Command {
	var (
		outDir     string
		format     string
		showStages bool
	)

	cmd := &cobra.Command{
		Use:   "summarize <model>",
		Short: "Count operators and unpack Loop bodies into standalone models",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := outDir
			if !cmd.Flags().Changed("out-dir") {
				dir = a.cfg.Summary.OutDir
			}

			var stages *progress
			if showStages {
				stages = newProgress(cmd.ErrOrStderr())
			}
			svc := service.NewSummaryService(loader.NewModelStore(a.logger), stages.Bus(), a.logger)
			sum, err := svc.Summarize(args[0], dir)
			stages.Flush()
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			switch format {
			case "text":
				return summary.Write(w, sum)
			case "json":
				enc := json.NewEncoder(w)
				enc.SetIndent("", "  ")
				return enc.Encode(sum)
			case "yaml":
				enc := yaml.NewEncoder(w)
				defer enc.Close()
				return enc.Encode(sum)
			default:
				return fmt.Errorf("unsupported format %q", format)
			}
		},
	}

	cmd.Flags().StringVar(&outDir, "out-dir", "", "write Loop bodies into this directory")
	cmd.Flags().StringVar(&format, "format", "text", "output format (text, json, yaml)")
	cmd.Flags().BoolVar(&showStages, "progress", false, "print each pipeline stage to stderr")
	return cmd
}
