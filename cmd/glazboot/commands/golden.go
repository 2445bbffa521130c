// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"github.com/spf13/cobra"

	"github.com/bartekus/glazboot/cmd/glazboot/internal/clierr"
	"github.com/bartekus/glazboot/internal/snapshot"
	"github.com/bartekus/glazboot/internal/toolchain"
	"github.com/bartekus/glazboot/internal/workspace"
)

// NewGoldenCommand returns the `glazboot golden` command group.
func NewGoldenCommand(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "golden",
		Short: "Golden-output tests for the Glaz compiler",
		Long: `Generate and verify .out golden files for the compiler test fixtures.
Fixtures in "bad" must fail to compile; their golden is the compiler's stderr.
Fixtures in "inout" must compile; their golden is the stderr of running the
produced binary, which is expected to exit non-zero.`,
	}

	cmd.AddCommand(newGoldenGenerateCommand(opts))
	cmd.AddCommand(newGoldenVerifyCommand(opts))

	return cmd
}

func (e *env) harness(cmd *cobra.Command) (snapshot.Corpus, func(snapshot.Kind) snapshot.Evaluator, *snapshot.Reporter) {
	corpus := snapshot.Corpus{Root: e.root, TestsDir: e.cfg.TestsDir, Ext: e.cfg.SourceExt}
	tc := toolchain.NewExecRunner()
	compiler := e.cfg.CompilerCommand()
	evaluate := func(k snapshot.Kind) snapshot.Evaluator {
		return snapshot.NewEvaluator(k, e.root, compiler, tc)
	}
	out := cmd.OutOrStdout()
	return corpus, evaluate, snapshot.NewReporter(out, colorful(out))
}

func newGoldenGenerateCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "generate [category...]",
		Short: "Record golden files from the current compiler",
		Long: `Compiles every fixture of the given categories (default: bad inout) and
writes the observed diagnostic stream to its .out file. Fixtures whose outcome
contradicts their category are reported and get no golden file.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := opts.load(cmd)
			if err != nil {
				return err
			}
			if len(args) == 0 {
				args = []string{snapshot.Bad.Name, snapshot.InOut.Name}
			}

			lock, err := workspace.Acquire(e.path(e.cfg.StateDir))
			if err != nil {
				return err
			}
			defer func() { _ = lock.Release() }()

			corpus, evaluate, report := e.harness(cmd)
			gen := &snapshot.Generator{Corpus: corpus, Evaluate: evaluate, Report: report, Log: e.log}

			for _, name := range args {
				res, err := gen.Generate(cmd.Context(), snapshot.ParseCategory(name))
				if err != nil {
					return clierr.Wrap(clierr.ExitFailure, "generating "+name, err)
				}
				e.log.Infof("%s: wrote %d golden files, rejected %d fixtures", name, len(res.Written), len(res.Rejected))
			}
			return nil
		},
	}
}

func newGoldenVerifyCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "verify <category>",
		Short: "Check the compiler against recorded golden files",
		Long: `Runs every fixture of one category and compares its diagnostic stream with
the .out golden file. "inout" selects the execution check; any other category
name is checked as bad fixtures. Exits non-zero if any fixture failed.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := opts.load(cmd)
			if err != nil {
				return err
			}

			corpus, evaluate, report := e.harness(cmd)
			ver := &snapshot.Verifier{Corpus: corpus, Evaluate: evaluate, Report: report}

			sum, err := ver.Verify(cmd.Context(), snapshot.ParseCategory(args[0]))
			if err != nil {
				return clierr.Wrap(clierr.ExitFailure, "verifying "+args[0], err)
			}
			if !sum.OK() {
				return clierr.Newf(clierr.ExitFailure, "%d of %d %s fixtures failed", len(sum.Failed), sum.Total, sum.Category)
			}
			return nil
		},
	}
}
