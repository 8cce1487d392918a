// SPDX-License-Identifier: AGPL-3.0-or-later

// Package pathnorm turns manifest file references into canonical path strings.
// Normalization is purely lexical: nothing is looked up on disk and symbolic
// links are left alone.
package pathnorm

import (
	"path/filepath"
)

// Normalize resolves path against directory when path is relative and
// returns the cleaned, native-separator form.
func Normalize(path, directory string) string {
	p := filepath.FromSlash(path)
	if !filepath.IsAbs(p) {
		p = filepath.Join(filepath.FromSlash(directory), p)
	}
	return filepath.Clean(p)
}

// Native returns the cleaned, native-separator form of a query path.
func Native(path string) string {
	return filepath.Clean(filepath.FromSlash(path))
}
