package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"github.com/viant/houghcircles/service/dao"
	runfs "github.com/viant/houghcircles/service/dao/run/fs"
)

func newHistoryCmd() *cobra.Command {
	var (
		task   string
		reason []string
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "history <location>",
		Short: "list recorded runs",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			history, err := runfs.New(cmd.Context(), args[0], nil)
			if err != nil {
				return err
			}
			var parameters []*dao.Parameter
			if task != "" {
				parameters = append(parameters, dao.NewParameter("Task", task))
			}
			if len(reason) > 0 {
				parameters = append(parameters, dao.NewParameter("Reason", reason...))
			}
			records, err := history.List(cmd.Context(), parameters...)
			if err != nil {
				return err
			}
			if asJSON {
				encoder := json.NewEncoder(cmd.OutOrStdout())
				for _, record := range records {
					if err = encoder.Encode(record); err != nil {
						return err
					}
				}
				return nil
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "UID\tTASK\tREASON\tCYCLES\tFAILURES\tCPS\tSTARTED")
			for _, record := range records {
				fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%.3f\t%s\n", record.UID, record.Task, record.Reason,
					record.Cycles, record.Failures, record.CPS, record.StartedAt.Format(time.RFC3339))
			}
			return w.Flush()
		},
	}
	cmd.Flags().StringVar(&task, "task", "", "only runs of this task")
	cmd.Flags().StringSliceVar(&reason, "reason", nil, "only runs that ended for one of these reasons")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print records as JSON lines")
	return cmd
}
