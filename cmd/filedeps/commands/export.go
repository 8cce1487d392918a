package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bartekus/filedeps/internal/projection"
)

func newExportCommand(opts *rootOptions) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write a plain compile_commands.json without dependency data",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := opts.open(cmd)
			if err != nil {
				return err
			}
			entries, err := projection.Entries(db)
			if err != nil {
				return queryError(err)
			}
			data, err := projection.RenderJSON(entries)
			if err != nil {
				return err
			}

			if out == "-" {
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}
			if err := projection.AtomicWrite(out, data); err != nil {
				return fmt.Errorf("failed to export compilation database: %w", err)
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d entries to %s\n", len(entries), out)
			return err
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "compile_commands.json", "output path, or - for stdout")

	return cmd
}
