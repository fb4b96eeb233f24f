package main

import (
	"fmt"

	"onnxcut/internal/codec"
	"onnxcut/internal/loader"

	"github.com/spf13/cobra"
)

func newInspectCmd(a *app) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "inspect <model>",
		Short: "Print the structure of a model",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			exporter, ok := codec.ExporterFor(format)
			if !ok || exporter.Format() == "onnx" {
				return fmt.Errorf("unsupported format %q", format)
			}

			m, err := loader.NewModelStore(a.logger).Load(args[0])
			if err != nil {
				return err
			}
			return exporter.Export(m, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&format, "format", "yaml", "output format (json, yaml)")
	return cmd
}
