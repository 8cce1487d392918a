// SPDX-License-Identifier: AGPL-3.0-or-later

// Package manifest decodes and validates dependency manifests.
//
// A manifest is a top-level array of objects:
//
//	[
//	  { "file": "a.cpp", "directory": "/proj",
//	    "command": "cc -I\"inc dir\" -c a.cpp",
//	    "deps": ["a.h", "common.h"] }
//	]
//
// The document is read with yaml.v3, so JSON and its YAML superset are both
// accepted.
package manifest

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/bartekus/filedeps/internal/pathnorm"
)

const (
	KeyFile      = "file"
	KeyDirectory = "directory"
	KeyCommand   = "command"
	KeyDeps      = "deps"
)

// Record is one validated manifest entry. File and Deps are canonical paths.
type Record struct {
	File      string
	Directory string
	Command   string
	Deps      []string
}

// Decode parses data and validates it against the manifest schema.
// The first problem found aborts decoding.
func Decode(data []byte) ([]Record, error) {
	var doc yaml.Node
	err := yaml.Unmarshal(data, &doc)
	if err != nil && json.Valid(data) {
		// yaml.v3 rejects the JSON escape \/ that some emitters write in paths.
		doc = yaml.Node{}
		err = yaml.Unmarshal(unescapeSolidus(data), &doc)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDocumentSyntax, err)
	}
	return Parse(&doc)
}

// unescapeSolidus rewrites \/ to / inside the strings of a valid JSON
// document. Every other escape is left for the YAML scanner.
func unescapeSolidus(data []byte) []byte {
	out := make([]byte, 0, len(data))
	inString := false
	for i := 0; i < len(data); i++ {
		c := data[i]
		switch {
		case !inString:
			inString = c == '"'
		case c == '"':
			inString = false
		case c == '\\' && i+1 < len(data):
			i++
			if data[i] != '/' {
				out = append(out, c)
			}
			c = data[i]
		}
		out = append(out, c)
	}
	return out
}

// Parse validates an already decoded document or its root value.
func Parse(root *yaml.Node) ([]Record, error) {
	n := resolve(root)
	if n == nil || n.Kind == 0 {
		return nil, fmt.Errorf("%w: empty document", ErrDocumentSyntax)
	}
	if n.Kind == yaml.DocumentNode {
		if len(n.Content) == 0 {
			return nil, fmt.Errorf("%w: empty document", ErrDocumentSyntax)
		}
		n = resolve(n.Content[0])
	}
	if n.Kind != yaml.SequenceNode {
		return nil, schemaError(ErrExpectedArray, -1, "", "", n)
	}

	records := make([]Record, 0, len(n.Content))
	for i, item := range n.Content {
		rec, err := parseEntry(i, resolve(item))
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

func parseEntry(index int, obj *yaml.Node) (Record, error) {
	if obj.Kind != yaml.MappingNode {
		return Record{}, schemaError(ErrExpectedObject, index, "", "", obj)
	}

	var file, directory, command *yaml.Node
	var deps []*yaml.Node
	for k := 0; k+1 < len(obj.Content); k += 2 {
		key := resolve(obj.Content[k])
		value := resolve(obj.Content[k+1])

		if key.Kind != yaml.ScalarNode {
			return Record{}, schemaError(ErrUnknownKey, index, "", "expected string as key", key)
		}
		name := key.Value

		if !isStringOrSequence(value) {
			if !isKnownKey(name) {
				return Record{}, schemaError(ErrUnknownKey, index, name, "", key)
			}
			return Record{}, schemaError(ErrExpectedScalarOrSequence, index, name, "", value)
		}

		switch name {
		case KeyFile, KeyDirectory, KeyCommand:
			if value.Kind != yaml.ScalarNode {
				return Record{}, schemaError(ErrExpectedScalarOrSequence, index, name, "expected a string", value)
			}
			switch name {
			case KeyFile:
				file = value
			case KeyDirectory:
				directory = value
			default:
				command = value
			}
		case KeyDeps:
			if value.Kind != yaml.SequenceNode {
				return Record{}, schemaError(ErrExpectedScalarOrSequence, index, name, "expected a sequence of strings", value)
			}
			deps = deps[:0]
			for _, item := range value.Content {
				dep := resolve(item)
				if dep.Kind != yaml.ScalarNode || isNull(dep) {
					return Record{}, schemaError(ErrExpectedScalarOrSequence, index, name, "expecting string values in dependency sequence", dep)
				}
				deps = append(deps, dep)
			}
		default:
			return Record{}, schemaError(ErrUnknownKey, index, name, "", key)
		}
	}

	switch {
	case file == nil:
		return Record{}, schemaError(ErrMissingKey, index, KeyFile, "", obj)
	case directory == nil:
		return Record{}, schemaError(ErrMissingKey, index, KeyDirectory, "", obj)
	case command == nil:
		return Record{}, schemaError(ErrMissingKey, index, KeyCommand, "", obj)
	}

	rec := Record{
		File:      pathnorm.Normalize(file.Value, directory.Value),
		Directory: directory.Value,
		Command:   command.Value,
	}
	if len(deps) > 0 {
		rec.Deps = make([]string, 0, len(deps))
		for _, dep := range deps {
			rec.Deps = append(rec.Deps, pathnorm.Normalize(dep.Value, directory.Value))
		}
	}
	return rec, nil
}

func schemaError(err error, index int, key, detail string, at *yaml.Node) *SchemaError {
	return &SchemaError{
		Err:    err,
		Entry:  index,
		Key:    key,
		Detail: detail,
		Line:   at.Line,
		Column: at.Column,
	}
}

// resolve follows YAML aliases to the node they point at.
func resolve(n *yaml.Node) *yaml.Node {
	for n != nil && n.Kind == yaml.AliasNode && n.Alias != nil {
		n = n.Alias
	}
	return n
}

func isNull(n *yaml.Node) bool {
	return n.Kind == yaml.ScalarNode && n.ShortTag() == "!!null"
}

func isStringOrSequence(n *yaml.Node) bool {
	return (n.Kind == yaml.ScalarNode && !isNull(n)) || n.Kind == yaml.SequenceNode
}

func isKnownKey(name string) bool {
	switch name {
	case KeyFile, KeyDirectory, KeyCommand, KeyDeps:
		return true
	}
	return false
}
