// SPDX-License-Identifier: AGPL-3.0-or-later

/*
glazboot - bootstrap and golden-test tooling for the Glaz self-hosting compiler.
It rebuilds the standard library and compiler from a nightly seed in two stages, then checks the compiler's observable output against recorded golden files.

Copyright (C) 2025  Bartek Kus

This program is free software licensed under the terms of the GNU AGPL v3 or later.

See https://www.gnu.org/licenses/ for license details.

*/

package commands

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/bartekus/glazboot/internal/config"
	"github.com/bartekus/glazboot/internal/logger"
)

// globalOptions are the persistent flags shared by every subcommand.
type globalOptions struct {
	root       string
	configPath string
	verbose    bool
}

// env is the resolved workspace a subcommand operates on.
type env struct {
	root string
	cfg  config.Config
	log  *logger.Logger
}

func (e *env) path(rel string) string {
	return filepath.Join(e.root, filepath.FromSlash(rel))
}

func (o *globalOptions) load(cmd *cobra.Command) (*env, error) {
	root, err := filepath.Abs(o.root)
	if err != nil {
		return nil, fmt.Errorf("resolving root: %w", err)
	}
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("workspace root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("workspace root %s is not a directory", root)
	}

	cfgPath := o.configPath
	if cfgPath == "" {
		cfgPath = filepath.Join(root, config.FileName)
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, err
	}

	level := logger.LevelInfo
	if o.verbose {
		level = logger.LevelDebug
	}
	return &env{
		root: root,
		cfg:  cfg,
		log:  logger.New(cmd.ErrOrStderr(), level),
	}, nil
}

func colorful(w io.Writer) bool {
	return logger.IsTerminal(w) && !color.NoColor
}

// NewRootCmd constructs the glazboot root Cobra command.
func NewRootCmd() *cobra.Command {
	version := os.Getenv("GLAZBOOT_VERSION")
	if version == "" {
		version = "0.0.0-dev"
	}

	opts := &globalOptions{}
	cmd := &cobra.Command{
		Use:           "glazboot",
		Short:         "glazboot - bootstrap and golden tests for the Glaz compiler",
		Long:          "glazboot builds the Glaz toolchain from a seed compiler and verifies the compiler against golden output fixtures.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags
	cmd.PersistentFlags().StringVar(&opts.root, "root", ".", "Glaz source tree to operate on")
	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "config file (default <root>/"+config.FileName+")")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable verbose output")

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version number of glazboot",
		Run: func(cmd *cobra.Command, args []string) {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "glazboot version %s\n", version)
		},
	})

	cmd.AddCommand(NewBootstrapCommand(opts))
	cmd.AddCommand(NewGoldenCommand(opts))
	cmd.AddCommand(NewReportCommand(opts))
	cmd.AddCommand(NewResetCommand(opts))

	return cmd
}
