// SPDX-License-Identifier: AGPL-3.0-or-later

// Package projection renders a dependency database as a standard
// compile_commands.json compilation database.
package projection

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bartekus/filedeps/pkg/depdb"
)

// Entry is one object of a compile_commands.json file.
type Entry struct {
	Directory string   `json:"directory"`
	File      string   `json:"file"`
	Arguments []string `json:"arguments"`
}

// Entries flattens db into one entry per record, in Files order.
// Dependency information has no place in the format and is dropped.
func Entries(db *depdb.Database) ([]Entry, error) {
	entries := make([]Entry, 0, db.Len())
	for _, file := range db.Files() {
		cmds, err := db.CompileCommands(file)
		if err != nil {
			return nil, err
		}
		for _, cmd := range cmds {
			entries = append(entries, Entry{Directory: cmd.Directory, File: file, Arguments: cmd.Arguments})
		}
	}
	return entries, nil
}

// RenderJSON encodes entries the way compilation tools write them: an
// indented array followed by a newline.
func RenderJSON(entries []Entry) ([]byte, error) {
	if entries == nil {
		entries = []Entry{}
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding compilation database: %w", err)
	}
	return append(data, '\n'), nil
}

// AtomicWrite writes content to path through a temp file in the same
// directory and a rename, so readers never see a partial file.
func AtomicWrite(path string, content []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating directory %s: %w", dir, err)
	}

	tmpFile, err := os.CreateTemp(dir, ".compile_commands-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmpFile.Name())

	if _, err := tmpFile.Write(content); err != nil {
		tmpFile.Close()
		return fmt.Errorf("writing %s: %w", tmpFile.Name(), err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Chmod(tmpFile.Name(), 0o644); err != nil {
		return fmt.Errorf("setting permissions: %w", err)
	}
	if err := os.Rename(tmpFile.Name(), path); err != nil {
		return fmt.Errorf("moving temp file to %s: %w", path, err)
	}
	return nil
}
