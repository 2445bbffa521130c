package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bartekus/glazboot/internal/runner"
)

// NewReportCommand returns the `glazboot report` command.
func NewReportCommand(opts *globalOptions) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Show the last bootstrap run",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := opts.load(cmd)
			if err != nil {
				return err
			}
			last, err := runner.NewStateStore(e.path(e.cfg.StateDir)).ReadLastRun()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				encoder := json.NewEncoder(out)
				encoder.SetIndent("", "  ")
				return encoder.Encode(last)
			}

			if last == nil {
				fmt.Fprintln(out, "No bootstrap run recorded.")
				return nil
			}

			fmt.Fprintf(out, "Run:     %s\n", last.RunID)
			fmt.Fprintf(out, "Status:  %s\n", last.Status)
			fmt.Fprintf(out, "Release: %t\n", last.Release)
			for _, s := range last.Steps {
				fmt.Fprintf(out, "  %-4s %-16s %s\n", s.Status, s.Step, s.Command)
			}
			if last.Failed != "" {
				fmt.Fprintf(out, "Failed:  %s\n", last.Failed)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output the run summary as JSON")
	return cmd
}

// NewResetCommand returns the `glazboot reset` command.
func NewResetCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Clear the recorded bootstrap run",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := opts.load(cmd)
			if err != nil {
				return err
			}
			return runner.NewStateStore(e.path(e.cfg.StateDir)).Reset()
		},
	}
}
