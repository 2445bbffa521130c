// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"runtime"

	"github.com/spf13/cobra"

	"github.com/bartekus/glazboot/cmd/glazboot/internal/clierr"
	"github.com/bartekus/glazboot/internal/runner"
	"github.com/bartekus/glazboot/internal/seed"
	"github.com/bartekus/glazboot/internal/toolchain"
	"github.com/bartekus/glazboot/internal/workspace"
)

// hostOS is the platform bootstrap checks against.
var hostOS = runtime.GOOS

// NewBootstrapCommand returns the `glazboot bootstrap` command.
func NewBootstrapCommand(opts *globalOptions) *cobra.Command {
	var release bool

	cmd := &cobra.Command{
		Use:   "bootstrap",
		Short: "Build the Glaz toolchain from the nightly seed compiler",
		Long: `Fetches the nightly seed compiler, rebuilds the standard library and the
compiler with it twice (stage0, stage1), builds the project manager with the
final compiler and checks that it reports its version. The first failing step
aborts the whole bootstrap.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if hostOS != "linux" {
				return clierr.Newf(clierr.ExitUnsupported,
					"[ERROR] %s is not supported. NOTE: Only linux is supported for now.\nAborting...", hostOS)
			}

			e, err := opts.load(cmd)
			if err != nil {
				return err
			}

			stateDir := e.path(e.cfg.StateDir)
			lock, err := workspace.Acquire(stateDir)
			if err != nil {
				return err
			}
			defer func() { _ = lock.Release() }()

			r := runner.NewRunner(runner.NewStateStore(stateDir), &runner.Deps{
				Root:      e.root,
				Toolchain: &toolchain.ExecRunner{Stdout: cmd.OutOrStdout(), Stderr: cmd.ErrOrStderr()},
				Log:       e.log,
			})

			e.log.Infof("bootstrapping Glaz")
			steps := runner.Bootstrap(seed.NewFetcher(e.cfg.SeedURL), release)
			if err := r.Run(cmd.Context(), steps, release); err != nil {
				return clierr.Wrap(clierr.ExitFailure, "bootstrap failed", err)
			}

			e.log.Infof("Glaz has been successfully built!")
			return nil
		},
	}

	cmd.Flags().BoolVar(&release, "release", false, "Compile the compiler in release mode, where most optimizations are enabled.")
	return cmd
}
