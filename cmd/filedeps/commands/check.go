package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bartekus/filedeps/cmd/filedeps/internal/clierr"
)

func newCheckCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Validate the manifest and every command line in it",
		Long: `Load the manifest, which validates its schema, then split every stored
command line. Command lines are otherwise only split when queried.`,
		Args: usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := opts.open(cmd)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			files := db.Files()
			bad := 0
			for _, file := range files {
				if _, err := db.CompileCommands(file); err != nil {
					bad++
					if _, werr := fmt.Fprintf(out, "✗ %v\n", err); werr != nil {
						return werr
					}
				}
			}
			if bad > 0 {
				return clierr.Newf(clierr.ExitCommandLine, "%d of %d files have malformed command lines", bad, len(files))
			}

			_, err = fmt.Fprintf(out, "✓ Manifest is valid\n  Records: %d\n  Files: %d\n", db.Len(), len(files))
			return err
		},
	}
}
