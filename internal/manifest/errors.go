// SPDX-License-Identifier: AGPL-3.0-or-later
package manifest

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrDocumentSyntax           = errors.New("error while parsing manifest")
	ErrExpectedArray            = errors.New("expected array")
	ErrExpectedObject           = errors.New("expected object")
	ErrExpectedScalarOrSequence = errors.New("expected string or sequence value")
	ErrUnknownKey               = errors.New("unknown key")
	ErrMissingKey               = errors.New("missing key")
)

// SchemaError is a manifest that decoded fine but does not follow the schema.
// It unwraps to one of the Err* sentinels above.
type SchemaError struct {
	Err    error
	Entry  int // index into the top-level array, -1 for the document itself
	Key    string
	Detail string
	Line   int
	Column int
}

func (e *SchemaError) Error() string {
	var b strings.Builder
	if e.Entry >= 0 {
		fmt.Fprintf(&b, "entry %d", e.Entry)
	} else {
		b.WriteString("manifest")
	}
	if e.Line > 0 {
		fmt.Fprintf(&b, " (line %d, column %d)", e.Line, e.Column)
	}
	b.WriteString(": ")
	b.WriteString(e.Err.Error())
	if e.Key != "" {
		switch {
		case errors.Is(e.Err, ErrUnknownKey), errors.Is(e.Err, ErrMissingKey):
			fmt.Fprintf(&b, " %q", e.Key)
		default:
			fmt.Fprintf(&b, " for key %q", e.Key)
		}
	}
	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}
	return b.String()
}

func (e *SchemaError) Unwrap() error { return e.Err }
