package cli

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"
)

// Dependency scopes of the deps command.
const (
	scopeBuild = "build"
	scopeRun   = "run"
	scopeAll   = "all"
)

func newDepsCmd(opts *globalOptions) *cobra.Command {
	var scope string
	cmd := &cobra.Command{
		Use:   "deps ELEMENT",
		Short: "Print the dependencies of an element",
		Long: `Print the dependencies of an element, one per line.

Scope 'build' lists what is staged to build the element, 'run' lists
everything it needs at run time and 'all' lists both.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains([]string{scopeBuild, scopeRun, scopeAll}, scope) {
				return usageError(fmt.Errorf("invalid scope %q: must be 'build', 'run' or 'all'", scope))
			}
			a, err := opts.newApp(cmd, 0)
			if err != nil {
				return err
			}
			reg, err := a.Resolve(cmd.Context())
			if err != nil {
				return err
			}

			key := args[0]
			var deps []string
			if scope != scopeRun {
				stage, err := reg.StageForBuild(key)
				if err != nil {
					return err
				}
				deps = append(deps, stage...)
			}
			if scope != scopeBuild {
				closure, err := reg.RuntimeClosure(key)
				if err != nil {
					return err
				}
				deps = append(deps, closure...)
			}
			slices.Sort(deps)
			for _, d := range slices.Compact(deps) {
				fmt.Fprintln(cmd.OutOrStdout(), d)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&scope, "scope", scopeBuild, "Dependency scope. Options: 'build', 'run' or 'all'.")
	return cmd
}
