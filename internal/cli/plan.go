package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newPlanCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "plan",
		Short: "Print the build order with the staging set of each element",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := opts.newApp(cmd, 0)
			if err != nil {
				return err
			}
			reg, err := a.Resolve(cmd.Context())
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			for _, key := range reg.BuildOrder() {
				stage, err := reg.StageForBuild(key)
				if err != nil {
					return err
				}
				if len(stage) == 0 {
					fmt.Fprintln(w, key)
					continue
				}
				fmt.Fprintf(w, "%s: %s\n", key, strings.Join(stage, " "))
			}
			return nil
		},
	}
}
