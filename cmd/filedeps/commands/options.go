package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/bartekus/filedeps/cmd/filedeps/internal/clierr"
	"github.com/bartekus/filedeps/internal/cmdline"
	"github.com/bartekus/filedeps/internal/projectroot"
	"github.com/bartekus/filedeps/pkg/depdb"
)

const manifestName = depdb.ManifestName

// rootOptions holds the persistent flags shared by every subcommand.
type rootOptions struct {
	manifest string
	json     bool
	verbose  bool
	foldCase bool
}

func (o *rootOptions) manifestPath() (string, error) {
	if o.manifest == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", err
		}
		dir, err := projectroot.Find(wd, manifestName)
		if err != nil {
			return "", clierr.Wrap(clierr.ExitManifest, "cannot locate dependency database", err)
		}
		return filepath.Join(dir, manifestName), nil
	}
	if info, err := os.Stat(o.manifest); err == nil && info.IsDir() {
		return filepath.Join(o.manifest, manifestName), nil
	}
	return o.manifest, nil
}

// queryPath makes a command-line path absolute against the working
// directory, since the manifest indexes absolute paths.
func (o *rootOptions) queryPath(path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return abs
}

func (o *rootOptions) open(cmd *cobra.Command) (*depdb.Database, error) {
	path, err := o.manifestPath()
	if err != nil {
		return nil, err
	}

	level := slog.LevelWarn
	if o.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

	dbOpts := []depdb.Option{depdb.WithLogger(logger)}
	if cmd.Flags().Changed("fold-case") {
		dbOpts = append(dbOpts, depdb.WithCaseFolding(o.foldCase))
	}

	db, err := depdb.Load(path, dbOpts...)
	if err != nil {
		return nil, clierr.Wrap(clierr.ExitManifest, "cannot load dependency database", err)
	}
	return db, nil
}

// usageArgs marks argument validation failures as usage errors.
func usageArgs(validate cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := validate(cmd, args); err != nil {
			return usageError(cmd, err)
		}
		return nil
	}
}

func usageError(cmd *cobra.Command, err error) error {
	return clierr.Wrap(clierr.ExitUsage, "usage: "+cmd.UseLine(), err)
}

// queryError gives malformed command lines their own exit code.
func queryError(err error) error {
	if errors.Is(err, depdb.ErrMalformedCommandLine) {
		return clierr.Wrap(clierr.ExitCommandLine, "cannot split command line", err)
	}
	return err
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeCommands(w io.Writer, asJSON bool, cmds []depdb.CompileCommand) error {
	if asJSON {
		if cmds == nil {
			cmds = []depdb.CompileCommand{}
		}
		return writeJSON(w, cmds)
	}
	for _, c := range cmds {
		if _, err := fmt.Fprintf(w, "# %s\n%s\n", c.Directory, cmdline.Quote(c.Arguments)); err != nil {
			return err
		}
	}
	return nil
}

func writeLines(w io.Writer, asJSON bool, lines []string) error {
	if asJSON {
		if lines == nil {
			lines = []string{}
		}
		return writeJSON(w, lines)
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
