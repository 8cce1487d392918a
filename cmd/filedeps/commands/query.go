package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bartekus/filedeps/cmd/filedeps/internal/clierr"
	"github.com/bartekus/filedeps/pkg/depdb"
)

func newCommandsCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "commands <file>...",
		Short: "Print the compile commands for files",
		Long: `Print the command lines that compiled each file. A file without its own
entry, such as a header, yields the commands of the files that list it as a
dependency.`,
		Args: usageArgs(cobra.MinimumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := opts.open(cmd)
			if err != nil {
				return err
			}

			var all []depdb.CompileCommand
			var unmatched []string
			for _, file := range args {
				cmds, err := db.CompileCommands(opts.queryPath(file))
				if err != nil {
					return queryError(err)
				}
				if len(cmds) == 0 {
					unmatched = append(unmatched, file)
				}
				all = append(all, cmds...)
			}

			if err := writeCommands(cmd.OutOrStdout(), opts.json, all); err != nil {
				return err
			}
			if len(unmatched) > 0 {
				return clierr.Newf(clierr.ExitNoMatch, "no compile commands for %s", strings.Join(unmatched, ", "))
			}
			return nil
		},
	}
}

func newAllCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "all",
		Short: "Print every compile command in the manifest",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := opts.open(cmd)
			if err != nil {
				return err
			}
			cmds, err := db.AllCompileCommands()
			if err != nil {
				return queryError(err)
			}
			return writeCommands(cmd.OutOrStdout(), opts.json, cmds)
		},
	}
}

func newFilesCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "files",
		Short: "List every compiled file",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := opts.open(cmd)
			if err != nil {
				return err
			}
			return writeLines(cmd.OutOrStdout(), opts.json, db.Files())
		},
	}
}

func newResolveCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "resolve <file>",
		Short: "Print the indexed path a file resolves to",
		Args:  usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := opts.open(cmd)
			if err != nil {
				return err
			}
			match, ok := db.Resolve(opts.queryPath(args[0]))
			if !ok {
				return clierr.Newf(clierr.ExitNoMatch, "%s does not resolve to an indexed path", args[0])
			}
			if opts.json {
				return writeJSON(cmd.OutOrStdout(), map[string]string{"query": args[0], "path": match})
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), match)
			return err
		},
	}
}
