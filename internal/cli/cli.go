package cli

import (
	"context"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/vk/bstgraph/internal/app"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

func usageError(err error) error {
	return &ExitError{Code: 2, Message: err.Error()}
}

// globalOptions are the flags shared by every command.
type globalOptions struct {
	project     string
	logLevel    string
	logFormat   string
	metricsAddr string
}

// newApp validates the global flags and builds the application.
func (o *globalOptions) newApp(cmd *cobra.Command, workers int) (*app.App, error) {
	cfg, err := app.NewConfig(app.Config{
		ProjectDir:  o.project,
		LogLevel:    strings.ToLower(o.logLevel),
		LogFormat:   strings.ToLower(o.logFormat),
		MetricsAddr: o.metricsAddr,
		Workers:     workers,
	})
	if err != nil {
		return nil, usageError(err)
	}
	return app.NewApp(cmd.ErrOrStderr(), cfg), nil
}

// NewRootCmd creates the root bstgraph command with all subcommands registered.
func NewRootCmd() *cobra.Command {
	opts := &globalOptions{}
	root := &cobra.Command{
		Use:           "bstgraph",
		Short:         "bstgraph - resolve build element declarations into dependency graphs",
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError(err)
	})

	flags := root.PersistentFlags()
	flags.StringVarP(&opts.project, "project", "C", ".", "Project directory holding project.hcl.")
	flags.StringVar(&opts.logLevel, "log-level", "warn", "Logging level. Options: 'debug', 'info', 'warn', 'error'.")
	flags.StringVar(&opts.logFormat, "log-format", "text", "Log output format. Options: 'text' or 'json'.")
	flags.StringVar(&opts.metricsAddr, "metrics-addr", "", "Address to serve Prometheus metrics on during schedule and watch. Empty disables it.")

	root.AddCommand(
		newShowCmd(opts),
		newPlanCmd(opts),
		newDepsCmd(opts),
		newScheduleCmd(opts),
		newWatchCmd(opts),
	)
	return root
}

// Execute runs the command line args against a fresh command tree.
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	root := NewRootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	return root.ExecuteContext(ctx)
}
