// SPDX-License-Identifier: AGPL-3.0-or-later

// Package matchtrie resolves query paths to previously inserted paths.
//
// The trie is keyed on path segments, not characters: "/a/b" is a prefix
// candidate for "/a/b/c" but "/a/bc" never matches "/a/b". Nodes are kept in
// a single slice and refer to their children by index.
package matchtrie

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// ErrAmbiguous is matched by the error FindEquivalent returns when more than
// one inserted path matches a query equally well.
var ErrAmbiguous = errors.New("ambiguous path match")

// AmbiguousError lists the equally specific candidates for a query.
type AmbiguousError struct {
	Query      string
	Candidates []string
}

func (e *AmbiguousError) Error() string {
	return fmt.Sprintf("path %q is ambiguous: candidates %s", e.Query, strings.Join(e.Candidates, ", "))
}

func (e *AmbiguousError) Unwrap() error { return ErrAmbiguous }

type node struct {
	children map[string]int
	// paths holds the inserted spellings that end at this node. Without case
	// folding there is at most one.
	paths []string
}

// Trie is a path-segment trie. The zero value is not usable; call New.
// A Trie is not safe for concurrent Insert, but any number of goroutines may
// call FindEquivalent once inserts are done.
type Trie struct {
	nodes    []node
	exact    map[string]struct{}
	foldCase bool
}

// Option configures a Trie.
type Option func(*Trie)

// FoldCase makes segment comparison case-insensitive, matching filesystems
// such as those on Windows and macOS.
func FoldCase(enabled bool) Option {
	return func(t *Trie) { t.foldCase = enabled }
}

// New returns an empty trie.
func New(opts ...Option) *Trie {
	t := &Trie{
		nodes: []node{{}},
		exact: make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Insert adds path. Inserting the same string twice is a no-op.
func (t *Trie) Insert(path string) {
	if _, ok := t.exact[path]; ok {
		return
	}
	t.exact[path] = struct{}{}

	n := 0
	for _, seg := range segments(path) {
		key := t.key(seg)
		child, ok := t.nodes[n].children[key]
		if !ok {
			child = len(t.nodes)
			t.nodes = append(t.nodes, node{})
			if t.nodes[n].children == nil {
				t.nodes[n].children = make(map[string]int)
			}
			t.nodes[n].children[key] = child
		}
		n = child
	}
	t.nodes[n].paths = append(t.nodes[n].paths, path)
}

// FindEquivalent returns the inserted path equal to query, or else the
// inserted path sharing the most leading segments with query among those that
// are a whole-segment prefix of it. It returns "" when nothing matches and an
// *AmbiguousError when the best match is not unique.
func (t *Trie) FindEquivalent(query string) (string, error) {
	if _, ok := t.exact[query]; ok {
		return query, nil
	}

	var best []string
	n := 0
	for _, seg := range segments(query) {
		child, ok := t.nodes[n].children[t.key(seg)]
		if !ok {
			break
		}
		n = child
		if len(t.nodes[n].paths) > 0 {
			best = t.nodes[n].paths
		}
	}

	switch len(best) {
	case 0:
		return "", nil
	case 1:
		return best[0], nil
	default:
		return "", &AmbiguousError{Query: query, Candidates: append([]string(nil), best...)}
	}
}

// Len reports the number of distinct inserted paths.
func (t *Trie) Len() int { return len(t.exact) }

func (t *Trie) key(seg string) string {
	if t.foldCase {
		return strings.ToLower(seg)
	}
	return seg
}

// segments splits a path on the native separator. A leading empty segment
// stands for the root of an absolute path; other empty segments are dropped.
func segments(path string) []string {
	parts := strings.Split(path, string(filepath.Separator))
	out := parts[:1]
	for _, p := range parts[1:] {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
