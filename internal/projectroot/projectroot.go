// SPDX-License-Identifier: AGPL-3.0-or-later

// Package projectroot locates the build directory that holds a manifest.
package projectroot

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrNotFound is returned when no ancestor directory contains the marker.
var ErrNotFound = errors.New("manifest not found")

// Find walks up from start and returns the first directory that contains a
// regular file called name.
func Find(start, name string) (string, error) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", fmt.Errorf("resolving %s: %w", start, err)
	}
	for {
		info, err := os.Stat(filepath.Join(dir, name))
		if err == nil && !info.IsDir() {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("%w: no %s in %s or any parent directory", ErrNotFound, name, start)
		}
		dir = parent
	}
}
