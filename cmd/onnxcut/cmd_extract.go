package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"onnxcut/internal/boundary"
	"onnxcut/internal/loader"
	"onnxcut/internal/repository"
	"onnxcut/internal/repository/sqlite"
	"onnxcut/internal/service"
	"onnxcut/internal/watcher"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

func newExtractCmd(a *app) *cobra.Command {
	var (
		inputs      string
		outputs     string
		skipVerify  bool
		planPath    string
		journalPath string
		watch       bool
		showStages  bool
	)

	cmd := &cobra.Command{
		Use:   "extract <input-model> [output-model]",
		Short: "Cut a model down to the subgraph between new inputs and outputs",
		Long: `Rewrites the model's inputs and outputs and removes every node and
initializer the new outputs do not depend on.

Boundary lists are comma separated tensor names, each optionally followed
by a shape: --inputs "images[1,3,224,224],mask" --outputs logits`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			journal, err := openJournal(a, journalPath, false)
			if err != nil {
				return err
			}
			if journal != nil {
				defer journal.Close()
			}
			var stages *progress
			if showStages || watch {
				stages = newProgress(cmd.ErrOrStderr())
			}
			svc := service.NewExtractService(loader.NewModelStore(a.logger), journal, stages.Bus(), a.logger)

			runOnce := func() error {
				opts, err := extractOptions(cmd, a, args, planPath, inputs, outputs, skipVerify)
				if err != nil {
					return err
				}
				result, err := svc.Run(cmd.Context(), opts)
				stages.Flush()
				if err != nil {
					return err
				}
				return printExtractResult(cmd.OutOrStdout(), opts.OutputPath, result, opts.SkipVerify)
			}

			if err := runOnce(); err != nil {
				if !watch {
					return err
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "extract failed: %v\n", err)
			}
			if !watch {
				return nil
			}

			paths := []string{args[0]}
			if planPath != "" {
				paths = append(paths, planPath)
			}
			w := watcher.New(paths, func(string) {
				if err := runOnce(); err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "extract failed: %v\n", err)
				}
			}, a.logger)
			if err := w.Watch(cmd.Context()); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&inputs, "inputs", "", "new graph inputs, e.g. \"a[1,3],b\"")
	cmd.Flags().StringVar(&outputs, "outputs", "", "new graph outputs, e.g. \"logits\"")
	cmd.Flags().BoolVar(&skipVerify, "skip-verify", false, "skip structural checks before and after the edit")
	cmd.Flags().StringVar(&planPath, "plan", "", "YAML edit plan")
	cmd.Flags().StringVar(&journalPath, "journal", "", "record the run in this journal database")
	cmd.Flags().BoolVar(&watch, "watch", false, "re-run whenever the input model or plan changes")
	cmd.Flags().BoolVar(&showStages, "progress", false, "print each pipeline stage to stderr (always on with --watch)")
	return cmd
}

// extractOptions merges flags over the plan file, which is read on every call
func extractOptions(cmd *cobra.Command, a *app, args []string, planPath, inputs, outputs string, skipVerify bool) (service.ExtractOptions, error) {
	plan := &loader.Plan{}
	if planPath != "" {
		p, err := loader.LoadPlan(planPath)
		if err != nil {
			return service.ExtractOptions{}, err
		}
		plan = p
	}

	inTokens := []string(plan.Inputs)
	if cmd.Flags().Changed("inputs") {
		inTokens = []string{inputs}
	}
	outTokens := []string(plan.Outputs)
	if cmd.Flags().Changed("outputs") {
		outTokens = []string{outputs}
	}

	inBoundary, err := boundary.ParseAll(inTokens)
	if err != nil {
		return service.ExtractOptions{}, fmt.Errorf("--inputs: %w", err)
	}
	outBoundary, err := boundary.ParseAll(outTokens)
	if err != nil {
		return service.ExtractOptions{}, fmt.Errorf("--outputs: %w", err)
	}

	outputPath := plan.Output
	if len(args) == 2 {
		outputPath = args[1]
	}
	if outputPath == "" {
		return service.ExtractOptions{}, fmt.Errorf("no output model path given")
	}

	skip := a.cfg.Verify.Skip || plan.SkipVerify
	if cmd.Flags().Changed("skip-verify") {
		skip = skipVerify
	}

	return service.ExtractOptions{
		InputPath:  args[0],
		OutputPath: outputPath,
		Inputs:     inBoundary,
		Outputs:    outBoundary,
		SkipVerify: skip,
	}, nil
}

func printExtractResult(w io.Writer, outputPath string, result *service.ExtractResult, skipped bool) error {
	if !skipped {
		printIssues(w, "before", result.PreIssues)
		printIssues(w, "after", result.PostIssues)
	}

	r := result.Report
	for _, name := range r.UnmatchedInputs {
		fmt.Fprintf(w, "warning: input %q matched nothing in the graph\n", name)
	}
	for _, name := range r.UnmatchedOutputs {
		fmt.Fprintf(w, "warning: output %q matched nothing in the graph\n", name)
	}

	size := "?"
	if info, err := os.Stat(outputPath); err == nil {
		size = humanize.Bytes(uint64(info.Size()))
	}
	fmt.Fprintf(w, "wrote %s (%s): %d nodes, %d initializers; removed %d nodes, %d initializers\n",
		outputPath, size, r.NodeCount, r.InitializerCount, len(r.RemovedNodes()), len(r.PrunedInitializers))
	if result.Run != nil {
		fmt.Fprintf(w, "recorded run %s\n", result.Run.ID)
	}
	if result.JournalErr != nil {
		fmt.Fprintf(w, "warning: run not recorded: %v\n", result.JournalErr)
	}
	return nil
}

func printIssues(w io.Writer, stage string, issues []error) {
	if len(issues) == 0 {
		fmt.Fprintf(w, "check %s edit: ok\n", stage)
		return
	}
	fmt.Fprintf(w, "check %s edit: %d issues\n", stage, len(issues))
	for _, issue := range issues {
		fmt.Fprintf(w, "  %v\n", issue)
	}
}

// openJournal opens the journal named by flagPath, or the configured one when
// enabled. With required set, the configured path is used even when disabled.
func openJournal(a *app, flagPath string, required bool) (repository.Journal, error) {
	path := flagPath
	if path == "" && (a.cfg.Journal.Enabled || required) {
		path = a.cfg.Journal.Path
	}
	if path == "" {
		return nil, nil
	}
	repo, err := sqlite.New(path)
	if err != nil {
		return nil, fmt.Errorf("open journal %s: %w", path, err)
	}
	return repo, nil
}
