package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/kilianp07/edfsim/infra/metrics"
)

func newAuditCmd() *cobra.Command {
	var q metrics.AuditQuery
	cmd := &cobra.Command{
		Use:   "audit <audit.jsonl>",
		Short: "List admission decisions and completions recorded by a jsonl sink",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			recs, err := metrics.ReadAudit(args[0], q)
			if err != nil {
				if errors.Is(err, fs.ErrNotExist) {
					return &usageError{err: fmt.Errorf("audit log %s does not exist", args[0])}
				}
				return fmt.Errorf("read audit log: %w", err)
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "RUN\tTICK\tKIND\tTASK\tDEADLINE\tOUTCOME")
			for _, r := range recs {
				fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%d\t%s\n", r.RunID, r.Tick, r.Kind, r.TaskID, r.AbsoluteDeadline, outcome(r))
			}
			return tw.Flush()
		},
	}
	f := cmd.Flags()
	f.StringVar(&q.RunID, "run", "", "only records of this run id")
	f.StringVar(&q.TaskID, "task", "", "only records of this task")
	f.BoolVar(&q.RejectedOnly, "rejected", false, "only rejected admissions")
	return cmd
}

func outcome(r metrics.AuditRecord) string {
	switch {
	case r.Kind == metrics.KindDecision && r.Admitted:
		return "admitted at " + r.Ratio
	case r.Kind == metrics.KindDecision:
		return "rejected at " + r.Ratio
	case r.Missed:
		return "completed late"
	default:
		return "completed"
	}
}
