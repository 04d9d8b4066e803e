package cli

import (
	"context"
	"fmt"
	"sync"

	"github.com/spf13/cobra"
	"github.com/vk/bstgraph/internal/element"
	"github.com/vk/bstgraph/internal/scheduler"
)

func newScheduleCmd(opts *globalOptions) *cobra.Command {
	var workers int
	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Dry-run the scheduler, printing elements in the order they are released",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := opts.newApp(cmd, workers)
			if err != nil {
				return err
			}

			var mu sync.Mutex
			n := 0
			w := cmd.OutOrStdout()
			report, err := a.Schedule(cmd.Context(), scheduler.ProcessorFunc(func(_ context.Context, e *element.Resolved) error {
				mu.Lock()
				defer mu.Unlock()
				n++
				fmt.Fprintf(w, "%d %s\n", n, e.Name)
				return nil
			}))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "run %s: %d elements processed\n", report.RunID, len(report.Done()))
			return nil
		},
	}
	cmd.Flags().IntVar(&workers, "workers", 0, "Number of concurrent workers. 0 means one per CPU.")
	return cmd
}
