package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newHistoryCmd(a *app) *cobra.Command {
	var (
		journalPath string
		limit       int
	)

	cmd := &cobra.Command{
		Use:   "history [run-id]",
		Short: "List recorded extraction runs, or show one",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			journal, err := openJournal(a, journalPath, true)
			if err != nil {
				return err
			}
			defer journal.Close()

			ctx := cmd.Context()
			w := cmd.OutOrStdout()

			if len(args) == 1 {
				run, err := journal.GetRun(ctx, args[0])
				if err != nil {
					return err
				}
				enc := yaml.NewEncoder(w)
				defer enc.Close()
				return enc.Encode(run)
			}

			runs, err := journal.ListRuns(ctx, limit)
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				fmt.Fprintln(w, "no runs recorded")
				return nil
			}

			tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tWHEN\tINPUT\tOUTPUT\tNODES\tISSUES")
			for _, run := range runs {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d -> %d\t%d/%d\n",
					run.ID, humanize.Time(run.CreatedAt), run.InputPath, run.OutputPath,
					run.NodesBefore, run.NodesAfter, run.PreIssues, run.PostIssues)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().StringVar(&journalPath, "journal", "", "journal database (defaults to the configured path)")
	cmd.Flags().IntVar(&limit, "limit", 20, "maximum number of runs to list, 0 for all")
	return cmd
}
