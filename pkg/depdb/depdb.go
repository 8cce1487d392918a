// SPDX-License-Identifier: AGPL-3.0-or-later

/*
filedeps - a compilation database that also knows which files each
translation unit depends on.

Copyright (C) 2025  Bartek Kus

This program is free software licensed under the terms of the GNU AGPL v3 or later.

See https://www.gnu.org/licenses/ for license details.

*/

// Package depdb answers "how was this file compiled?" for files listed in a
// dependency manifest, and for the files they depend on.
//
// A query for a compiled file returns its own compile commands. A query for a
// file that was never compiled itself, such as a header, returns the commands
// of every file that lists it in its deps. Only direct dependents are
// consulted.
//
// A Database is immutable once built and safe for concurrent use.
package depdb

import (
	"log/slog"
	"runtime"
	"slices"

	"github.com/bartekus/filedeps/internal/cmdline"
	"github.com/bartekus/filedeps/internal/manifest"
	"github.com/bartekus/filedeps/internal/matchtrie"
	"github.com/bartekus/filedeps/internal/pathnorm"
)

// Record is one manifest entry.
type Record = manifest.Record

// CompileCommand is a working directory plus the argument vector to run there.
type CompileCommand struct {
	Directory string   `json:"directory"`
	Arguments []string `json:"arguments"`
}

// Database indexes manifest records by file and by dependency.
type Database struct {
	records []Record
	files   []string         // compiled files, first appearance order
	byFile  map[string][]int // file -> indices into records
	deps    map[string][]string
	rdeps   map[string][]string // dependency -> files that listed it
	trie    *matchtrie.Trie
	logger  *slog.Logger
}

type config struct {
	logger   *slog.Logger
	foldCase bool
}

// Option configures a Database.
type Option func(*config)

// WithLogger sets the logger used for lookup diagnostics.
// By default diagnostics are discarded.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithCaseFolding controls whether path lookups ignore case. It defaults to
// true on Windows and macOS.
func WithCaseFolding(enabled bool) Option {
	return func(c *config) { c.foldCase = enabled }
}

// New indexes records in order. Records are expected to carry the canonical
// paths manifest.Decode produces; paths are cleaned once more so differently
// spelled absolute paths still share one key.
func New(records []Record, opts ...Option) *Database {
	cfg := config{
		logger:   slog.New(slog.DiscardHandler),
		foldCase: runtime.GOOS == "windows" || runtime.GOOS == "darwin",
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	db := &Database{
		records: make([]Record, 0, len(records)),
		byFile:  make(map[string][]int),
		deps:    make(map[string][]string),
		rdeps:   make(map[string][]string),
		trie:    matchtrie.New(matchtrie.FoldCase(cfg.foldCase)),
		logger:  cfg.logger,
	}

	for _, rec := range records {
		rec.File = pathnorm.Native(rec.File)
		if len(rec.Deps) > 0 {
			deps := make([]string, len(rec.Deps))
			for i, dep := range rec.Deps {
				deps[i] = pathnorm.Native(dep)
			}
			rec.Deps = deps
		}

		db.trie.Insert(rec.File)
		if _, seen := db.byFile[rec.File]; !seen {
			db.files = append(db.files, rec.File)
		}
		db.byFile[rec.File] = append(db.byFile[rec.File], len(db.records))
		db.records = append(db.records, rec)

		for _, dep := range rec.Deps {
			db.rdeps[dep] = append(db.rdeps[dep], rec.File)
			db.deps[rec.File] = append(db.deps[rec.File], dep)
			db.trie.Insert(dep)
		}
	}
	return db
}

// Resolve maps path to the canonical path it is indexed under. It reports
// false when nothing matches or when the match is ambiguous.
func (db *Database) Resolve(path string) (string, bool) {
	query := pathnorm.Native(path)
	match, err := db.trie.FindEquivalent(query)
	if err != nil {
		db.logger.Warn("path lookup failed", "query", query, "error", err)
		return "", false
	}
	if match == "" {
		db.logger.Debug("no indexed path matches", "query", query)
		return "", false
	}
	return match, true
}

// CompileCommands returns the commands that compiled path, or, when path was
// never compiled itself, the commands of the files that declared it as a
// dependency. An unknown path yields no commands and no error.
//
// Dependents are visited once per record that lists path, so a file with
// several records naming the same dependency contributes all of its commands
// once for each of them.
//
// If any of the selected commands cannot be tokenized the whole query fails
// with a *CommandLineError.
func (db *Database) CompileCommands(path string) ([]CompileCommand, error) {
	match, ok := db.Resolve(path)
	if !ok {
		return nil, nil
	}
	if idx, ok := db.byFile[match]; ok {
		return db.commands(nil, idx)
	}

	var cmds []CompileCommand
	for _, dependent := range db.rdeps[match] {
		var err error
		cmds, err = db.commands(cmds, db.byFile[dependent])
		if err != nil {
			return nil, err
		}
	}
	return cmds, nil
}

// Files returns every compiled file in order of first appearance.
func (db *Database) Files() []string {
	return slices.Clone(db.files)
}

// AllCompileCommands returns the commands of every record, grouped by file
// in Files order.
func (db *Database) AllCompileCommands() ([]CompileCommand, error) {
	var cmds []CompileCommand
	for _, file := range db.files {
		var err error
		cmds, err = db.commands(cmds, db.byFile[file])
		if err != nil {
			return nil, err
		}
	}
	return cmds, nil
}

// Dependencies returns the deps declared by the records of path.
func (db *Database) Dependencies(path string) []string {
	match, ok := db.Resolve(path)
	if !ok {
		return nil
	}
	return slices.Clone(db.deps[match])
}

// Dependents returns the files whose records list path as a dependency, one
// entry per listing record.
func (db *Database) Dependents(path string) []string {
	match, ok := db.Resolve(path)
	if !ok {
		return nil
	}
	return slices.Clone(db.rdeps[match])
}

// Len returns the number of records.
func (db *Database) Len() int { return len(db.records) }

func (db *Database) commands(dst []CompileCommand, idx []int) ([]CompileCommand, error) {
	for _, i := range idx {
		rec := db.records[i]
		args, err := cmdline.Split(rec.Command)
		if err != nil {
			return nil, &CommandLineError{File: rec.File, Command: rec.Command, Err: err}
		}
		dst = append(dst, CompileCommand{Directory: rec.Directory, Arguments: args})
	}
	return dst, nil
}
