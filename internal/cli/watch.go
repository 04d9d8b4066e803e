package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/vk/bstgraph/internal/engine"
)

func newWatchCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Re-resolve the project whenever its files change",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := opts.newApp(cmd, 0)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			return a.Watch(cmd.Context(), func(reg *engine.Registry) {
				fmt.Fprintf(w, "build order: %s\n", strings.Join(reg.BuildOrder(), " "))
			})
		},
	}
}
