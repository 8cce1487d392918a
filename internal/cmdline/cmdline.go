// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cmdline splits escaped command-line strings into argument vectors.
//
// Arguments are separated by spaces. An argument is any concatenation of
// double-quoted runs, single-quoted runs and free runs:
//
//	"..."   backslash escapes the next character
//	'...'   everything up to the closing quote is literal
//	free    backslash escapes the next character; ends at space or a quote
//
// Only the space character separates arguments; tabs and newlines are literal.
package cmdline

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMalformed is matched by every error returned from Split.
var ErrMalformed = errors.New("malformed command line")

// MalformedError reports an unterminated quote or a dangling escape.
type MalformedError struct {
	Input  string
	Offset int // byte offset of the construct left open
	Reason string
}

func (e *MalformedError) Error() string {
	return fmt.Sprintf("%v: %s at offset %d", ErrMalformed, e.Reason, e.Offset)
}

func (e *MalformedError) Unwrap() error { return ErrMalformed }

// Split tokenizes raw into its arguments.
// An input that ends inside a quoted run or right after an escaping
// backslash yields a *MalformedError and no arguments.
func Split(raw string) ([]string, error) {
	s := splitter{input: raw}
	var args []string
	for s.skipSpaces() {
		arg, err := s.argument()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
	}
	return args, nil
}

type splitter struct {
	input string
	pos   int
}

// skipSpaces advances past separators and reports whether input remains.
func (s *splitter) skipSpaces() bool {
	for s.pos < len(s.input) && s.input[s.pos] == ' ' {
		s.pos++
	}
	return s.pos < len(s.input)
}

func (s *splitter) argument() (string, error) {
	var b strings.Builder
	for s.pos < len(s.input) && s.input[s.pos] != ' ' {
		var err error
		switch s.input[s.pos] {
		case '"':
			err = s.doubleQuoted(&b)
		case '\'':
			err = s.singleQuoted(&b)
		default:
			err = s.free(&b)
		}
		if err != nil {
			return "", err
		}
	}
	return b.String(), nil
}

func (s *splitter) doubleQuoted(b *strings.Builder) error {
	start := s.pos
	s.pos++
	for s.pos < len(s.input) {
		c := s.input[s.pos]
		switch c {
		case '"':
			s.pos++
			return nil
		case '\\':
			s.pos++
			if s.pos == len(s.input) {
				return s.malformed(start, "unterminated double quote")
			}
			c = s.input[s.pos]
		}
		b.WriteByte(c)
		s.pos++
	}
	return s.malformed(start, "unterminated double quote")
}

func (s *splitter) singleQuoted(b *strings.Builder) error {
	start := s.pos
	end := strings.IndexByte(s.input[start+1:], '\'')
	if end < 0 {
		return s.malformed(start, "unterminated single quote")
	}
	b.WriteString(s.input[start+1 : start+1+end])
	s.pos = start + end + 2
	return nil
}

func (s *splitter) free(b *strings.Builder) error {
	for s.pos < len(s.input) {
		c := s.input[s.pos]
		switch c {
		case ' ', '"', '\'':
			return nil
		case '\\':
			if s.pos+1 == len(s.input) {
				return s.malformed(s.pos, "dangling escape")
			}
			s.pos++
			c = s.input[s.pos]
		}
		b.WriteByte(c)
		s.pos++
	}
	return nil
}

func (s *splitter) malformed(offset int, reason string) error {
	return &MalformedError{Input: s.input, Offset: offset, Reason: reason}
}

// Quote encodes args so that Split returns them unchanged.
// Spaces, quotes and backslashes are escaped; empty arguments become ''.
func Quote(args []string) string {
	var b strings.Builder
	for i, arg := range args {
		if i > 0 {
			b.WriteByte(' ')
		}
		if arg == "" {
			b.WriteString("''")
			continue
		}
		for j := 0; j < len(arg); j++ {
			switch arg[j] {
			case ' ', '"', '\'', '\\':
				b.WriteByte('\\')
			}
			b.WriteByte(arg[j])
		}
	}
	return b.String()
}
