package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/vk/bstgraph/internal/element"
	"github.com/vk/bstgraph/internal/yaml_adapter"
)

func newShowCmd(opts *globalOptions) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "show [ELEMENT...]",
		Short: "Print resolved elements",
		Long:  "Print the fully resolved form of the named elements, or of every element when none is named.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != "yaml" && format != "json" {
				return usageError(fmt.Errorf("invalid format %q: must be 'yaml' or 'json'", format))
			}
			a, err := opts.newApp(cmd, 0)
			if err != nil {
				return err
			}
			reg, err := a.Resolve(cmd.Context())
			if err != nil {
				return err
			}

			if len(args) == 0 {
				args = reg.Elements()
			}
			out := make(map[string]*element.Resolved, len(args))
			for _, key := range args {
				e, err := reg.ResolvedElement(key)
				if err != nil {
					return err
				}
				out[key] = e
			}

			var data []byte
			if format == "json" {
				data, err = json.MarshalIndent(out, "", "  ")
				data = append(data, '\n')
			} else {
				data, err = yaml_adapter.Marshal(out)
			}
			if err != nil {
				return fmt.Errorf("encoding output: %w", err)
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
	cmd.Flags().StringVar(&format, "format", "yaml", "Output format. Options: 'yaml' or 'json'.")
	return cmd
}
