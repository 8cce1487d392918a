package commands

import (
	"github.com/spf13/cobra"
)

func newDepsCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "deps <file>",
		Short: "List the dependencies declared for a file",
		Args:  usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := opts.open(cmd)
			if err != nil {
				return err
			}
			return writeLines(cmd.OutOrStdout(), opts.json, db.Dependencies(opts.queryPath(args[0])))
		},
	}
}

func newRdepsCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "rdeps <file>",
		Short: "List the files that declare a file as a dependency",
		Args:  usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := opts.open(cmd)
			if err != nil {
				return err
			}
			return writeLines(cmd.OutOrStdout(), opts.json, db.Dependents(opts.queryPath(args[0])))
		},
	}
}
