// SPDX-License-Identifier: AGPL-3.0-or-later
package depdb

import (
	"bytes"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func p(s string) string { return filepath.FromSlash(s) }

func mustParse(t *testing.T, data string, opts ...Option) *Database {
	t.Helper()
	db, err := Parse([]byte(data), opts...)
	require.NoError(t, err)
	require.NotNil(t, db)
	return db
}

func TestCompileCommands_TwoTierLookup(t *testing.T) {
	db := mustParse(t, `[{"file": "a.cpp", "directory": "/p", "command": "cc a.cpp", "deps": ["a.h"]}]`)

	want := []CompileCommand{{Directory: "/p", Arguments: []string{"cc", "a.cpp"}}}

	got, err := db.CompileCommands("/p/a.cpp")
	require.NoError(t, err)
	assert.Equal(t, want, got)

	got, err = db.CompileCommands("/p/a.h")
	require.NoError(t, err)
	assert.Equal(t, want, got)

	got, err = db.CompileCommands("/p/missing.h")
	require.NoError(t, err)
	assert.Empty(t, got)
}

const project = `[
  {"file": "main.cpp", "directory": "/proj", "command": "c++ -I\"inc dir\" -c main.cpp", "deps": ["common.h", "inc dir/main.h"]},
  {"file": "util.cpp", "directory": "/proj", "command": "c++ -c util.cpp", "deps": ["common.h", "util.h", "third_party"]},
  {"file": "main.cpp", "directory": "/proj", "command": "c++ -DDEBUG -c main.cpp"},
  {"file": "util.h", "directory": "/proj", "command": "c++ -x c++-header util.h"}
]`

func TestCompileCommands(t *testing.T) {
	db := mustParse(t, project)

	mainRelease := CompileCommand{Directory: "/proj", Arguments: []string{"c++", "-Iinc dir", "-c", "main.cpp"}}
	mainDebug := CompileCommand{Directory: "/proj", Arguments: []string{"c++", "-DDEBUG", "-c", "main.cpp"}}
	util := CompileCommand{Directory: "/proj", Arguments: []string{"c++", "-c", "util.cpp"}}
	utilHeader := CompileCommand{Directory: "/proj", Arguments: []string{"c++", "-x", "c++-header", "util.h"}}

	tests := []struct {
		name     string
		query    string
		expected []CompileCommand
	}{
		{name: "duplicate entries in manifest order", query: "/proj/main.cpp", expected: []CompileCommand{mainRelease, mainDebug}},
		{name: "unclean spelling", query: "/proj/sub/../main.cpp", expected: []CompileCommand{mainRelease, mainDebug}},
		{name: "dependency of two files", query: "/proj/common.h", expected: []CompileCommand{mainRelease, util}},
		{name: "dependency path with space", query: "/proj/inc dir/main.h", expected: []CompileCommand{mainRelease}},
		{name: "own entry wins over dependents", query: "/proj/util.h", expected: []CompileCommand{utilHeader}},
		{name: "file below a dependency directory", query: "/proj/third_party/zlib/zlib.h", expected: []CompileCommand{util}},
		{name: "unknown file", query: "/proj/other.cpp", expected: nil},
		{name: "relative query", query: "main.cpp", expected: nil},
		{name: "empty query", query: "", expected: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := db.CompileCommands(p(tt.query))
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestCompileCommands_DependentListedByEveryRecord(t *testing.T) {
	db := mustParse(t, `[
  {"file": "a.c", "directory": "/p", "command": "cc -O0 -c a.c", "deps": ["a.h"]},
  {"file": "a.c", "directory": "/p", "command": "cc -O2 -c a.c", "deps": ["a.h"]}
]`)

	debug := CompileCommand{Directory: "/p", Arguments: []string{"cc", "-O0", "-c", "a.c"}}
	release := CompileCommand{Directory: "/p", Arguments: []string{"cc", "-O2", "-c", "a.c"}}

	got, err := db.CompileCommands(p("/p/a.h"))
	require.NoError(t, err)
	assert.Equal(t, []CompileCommand{debug, release, debug, release}, got)
	assert.Equal(t, []string{p("/p/a.c"), p("/p/a.c")}, db.Dependents(p("/p/a.h")))

	got, err = db.CompileCommands(p("/p/a.c"))
	require.NoError(t, err)
	assert.Equal(t, []CompileCommand{debug, release}, got)
}

func TestFiles(t *testing.T) {
	db := mustParse(t, project)
	assert.Equal(t, []string{p("/proj/main.cpp"), p("/proj/util.cpp"), p("/proj/util.h")}, db.Files())
	assert.Equal(t, 4, db.Len())
}

func TestAllCompileCommands(t *testing.T) {
	db := mustParse(t, project)

	got, err := db.AllCompileCommands()
	require.NoError(t, err)

	var firstArgs []string
	for _, cmd := range got {
		firstArgs = append(firstArgs, cmd.Arguments[len(cmd.Arguments)-1])
	}
	// Grouped by file: both main.cpp records come before util.cpp.
	assert.Equal(t, []string{"main.cpp", "main.cpp", "util.cpp", "util.h"}, firstArgs)
	assert.Equal(t, []string{"c++", "-DDEBUG", "-c", "main.cpp"}, got[1].Arguments)
}

func TestDependenciesAndDependents(t *testing.T) {
	db := mustParse(t, project)

	assert.Equal(t,
		[]string{p("/proj/common.h"), p("/proj/inc dir/main.h")},
		db.Dependencies("/proj/main.cpp"))
	assert.Equal(t,
		[]string{p("/proj/main.cpp"), p("/proj/util.cpp")},
		db.Dependents("/proj/common.h"))
	assert.Empty(t, db.Dependencies("/proj/util.h"))
	assert.Empty(t, db.Dependents("/nowhere.h"))
}

func TestResolve(t *testing.T) {
	db := mustParse(t, project)

	got, ok := db.Resolve("/proj/./third_party/a/b.h")
	assert.True(t, ok)
	assert.Equal(t, p("/proj/third_party"), got)

	_, ok = db.Resolve("/elsewhere/a.h")
	assert.False(t, ok)
}

func TestCompileCommands_ResultsAreCopies(t *testing.T) {
	db := mustParse(t, project)

	first, err := db.CompileCommands("/proj/util.cpp")
	require.NoError(t, err)
	first[0].Arguments[0] = "mutated"
	files := db.Files()
	files[0] = "mutated"

	second, err := db.CompileCommands("/proj/util.cpp")
	require.NoError(t, err)
	assert.Equal(t, "c++", second[0].Arguments[0])
	assert.Equal(t, p("/proj/main.cpp"), db.Files()[0])
}

func TestCompileCommands_MalformedCommandLine(t *testing.T) {
	db := mustParse(t, `[
  {"file": "bad.c", "directory": "/p", "command": "cc \"bad.c", "deps": ["shared.h"]},
  {"file": "good.c", "directory": "/p", "command": "cc good.c", "deps": ["shared.h"]}
]`)

	got, err := db.CompileCommands("/p/good.c")
	require.NoError(t, err)
	assert.Len(t, got, 1)

	for _, query := range []string{"/p/bad.c", "/p/shared.h"} {
		got, err := db.CompileCommands(query)
		assert.Nil(t, got, query)
		require.ErrorIs(t, err, ErrMalformedCommandLine, query)

		var cerr *CommandLineError
		require.ErrorAs(t, err, &cerr)
		assert.Equal(t, p("/p/bad.c"), cerr.File)
		assert.Equal(t, `cc "bad.c`, cerr.Command)
	}

	all, err := db.AllCompileCommands()
	assert.Nil(t, all)
	assert.ErrorIs(t, err, ErrMalformedCommandLine)
}

func TestCompileCommands_AmbiguousMatch(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))

	db := mustParse(t, `[
  {"file": "Util.c", "directory": "/p", "command": "cc Util.c"},
  {"file": "util.c", "directory": "/p", "command": "cc util.c"}
]`, WithCaseFolding(true), WithLogger(logger))

	got, err := db.CompileCommands("/p/UTIL.c")
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Contains(t, logs.String(), "ambiguous")

	got, err = db.CompileCommands("/p/util.c")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, []string{"cc", "util.c"}, got[0].Arguments)
}

func TestCompileCommands_CaseFolding(t *testing.T) {
	data := `[{"file": "Main.c", "directory": "/p", "command": "cc Main.c"}]`

	folded := mustParse(t, data, WithCaseFolding(true))
	got, err := folded.CompileCommands("/p/main.c")
	require.NoError(t, err)
	assert.Len(t, got, 1)

	strict := mustParse(t, data, WithCaseFolding(false))
	got, err = strict.CompileCommands("/p/main.c")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestNew_CleansRecordPaths(t *testing.T) {
	db := New([]Record{
		{File: "/w/lib/../src/a.c", Directory: "/w", Command: "cc src/a.c", Deps: []string{"/w/./src/a.h"}},
	})

	assert.Equal(t, []string{p("/w/src/a.c")}, db.Files())
	assert.Equal(t, []string{p("/w/src/a.c")}, db.Dependents("/w/src/a.h"))
}

func TestCompileCommands_Concurrent(t *testing.T) {
	db := mustParse(t, project)
	queries := []string{
		"/proj/main.cpp", "/proj/common.h", "/proj/util.h",
		"/proj/third_party/x.h", "/proj/missing.h", "/proj/inc dir/main.h",
	}

	sequential := make(map[string][]CompileCommand, len(queries))
	for _, q := range queries {
		cmds, err := db.CompileCommands(p(q))
		require.NoError(t, err)
		sequential[q] = cmds
	}

	const workers = 32
	results := make([][][]CompileCommand, workers)
	var g errgroup.Group
	for w := 0; w < workers; w++ {
		results[w] = make([][]CompileCommand, len(queries))
		g.Go(func() error {
			for i, q := range queries {
				cmds, err := db.CompileCommands(p(q))
				if err != nil {
					return err
				}
				results[w][i] = cmds
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())

	for w := range results {
		for i, q := range queries {
			assert.Equal(t, sequential[q], results[w][i], "worker %d query %s", w, q)
		}
	}
}
