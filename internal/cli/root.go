package cli

import "github.com/spf13/cobra"

// Options holds the global flags shared by all commands.
type Options struct {
	ConfigPath string
	Verbose    bool
}

// NewRootCommand creates the deploycheck root command.
func NewRootCommand() *cobra.Command {
	opts := &Options{}

	cmd := &cobra.Command{
		Use:   "deploycheck",
		Short: "Deployment verification harness",
		Long: `deploycheck probes a deployed tracker stack (web frontend, API,
background workers under pm2) and writes a pass/fail/warning report as
JSON and HTML artifacts.

Exit codes: 0 every check passed, 1 degraded (some checks failed or
warned, report written), 2 fatal (no report produced).`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", "deploycheck.yaml", "path to config file")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "debug logging")

	cmd.AddCommand(NewRunCommand(opts))
	cmd.AddCommand(NewServeCommand(opts))

	return cmd
}
