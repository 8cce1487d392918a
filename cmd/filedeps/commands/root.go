// SPDX-License-Identifier: AGPL-3.0-or-later

/*
filedeps - a compilation database that also knows which files each
translation unit depends on.

Copyright (C) 2025  Bartek Kus

This program is free software licensed under the terms of the GNU AGPL v3 or later.

See https://www.gnu.org/licenses/ for license details.

*/

package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd constructs the filedeps root Cobra command.
func NewRootCmd() *cobra.Command {
	version := os.Getenv("FILEDEPS_VERSION")
	if version == "" {
		version = "0.0.0-dev"
	}

	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:   "filedeps",
		Short: "Query compile commands and file dependencies",
		Long: `filedeps reads a compile_filedeps.json manifest and answers which command
lines compiled a file. Files that were never compiled themselves, such as
headers, resolve to the commands of the files that depend on them.`,
		Args:          usageArgs(cobra.NoArgs),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	cmd.SetFlagErrorFunc(usageError)

	cmd.PersistentFlags().StringVarP(&opts.manifest, "manifest", "m", "",
		"manifest file or directory containing "+manifestName+" (default: search upward from the working directory)")
	cmd.PersistentFlags().BoolVar(&opts.json, "json", false, "output JSON")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "log lookup diagnostics to stderr")
	cmd.PersistentFlags().BoolVar(&opts.foldCase, "fold-case", false, "match paths case-insensitively (default depends on the OS)")

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version number of filedeps",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "filedeps version %s\n", version)
			return err
		},
	})

	cmd.AddCommand(newCommandsCommand(opts))
	cmd.AddCommand(newAllCommand(opts))
	cmd.AddCommand(newFilesCommand(opts))
	cmd.AddCommand(newResolveCommand(opts))
	cmd.AddCommand(newDepsCommand(opts))
	cmd.AddCommand(newRdepsCommand(opts))
	cmd.AddCommand(newCheckCommand(opts))
	cmd.AddCommand(newExportCommand(opts))

	return cmd
}
