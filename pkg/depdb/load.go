// SPDX-License-Identifier: AGPL-3.0-or-later
package depdb

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/bartekus/filedeps/internal/manifest"
)

// ManifestName is the conventional manifest file name inside a build directory.
const ManifestName = "compile_filedeps.json"

// Load reads and indexes the manifest at path.
// Nothing is returned unless the whole manifest is valid.
func Load(path string, opts ...Option) (*Database, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w %s: %w", ErrIO, path, err)
	}
	db, err := Parse(data, opts...)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	db.logger.Debug("loaded dependency database",
		"path", path, "records", db.Len(), "files", len(db.files), "dependencies", len(db.rdeps))
	return db, nil
}

// LoadFromDirectory loads dir/compile_filedeps.json.
func LoadFromDirectory(dir string, opts ...Option) (*Database, error) {
	return Load(filepath.Join(dir, ManifestName), opts...)
}

// Parse indexes a manifest held in memory.
func Parse(data []byte, opts ...Option) (*Database, error) {
	records, err := manifest.Decode(data)
	if err != nil {
		return nil, err
	}
	return New(records, opts...), nil
}
