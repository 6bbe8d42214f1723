package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kilianp07/edfsim/core/model"
	"github.com/kilianp07/edfsim/core/workload"
)

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check <workload>",
		Short: "Validate a workload file and list its tasks in arrival order",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := workload.Load(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, e := range w.Arrivals.Entries() {
				if _, err := fmt.Fprintf(out, "%s: arrival=%d computation=%d deadline=%d context=%d\n",
					e.Task.ID, e.Arrival, e.Task.Computation, e.Task.Deadline, e.Task.ContextCost); err != nil {
					return err
				}
			}
			if w.Speeds != nil {
				speeds := make([]string, len(w.Speeds))
				for i, s := range w.Speeds {
					speeds[i] = model.FormatVoltage(s)
				}
				if _, err := fmt.Fprintf(out, "%s: %v\n", workload.SpeedsLabel, speeds); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
