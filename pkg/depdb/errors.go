// SPDX-License-Identifier: AGPL-3.0-or-later
package depdb

import (
	"errors"
	"fmt"

	"github.com/bartekus/filedeps/internal/cmdline"
	"github.com/bartekus/filedeps/internal/manifest"
)

// ErrIO wraps failures to read the manifest file.
var ErrIO = errors.New("error while opening dependency database")

// Manifest errors, returned from Load, LoadFromDirectory and Parse.
var (
	ErrDocumentSyntax           = manifest.ErrDocumentSyntax
	ErrExpectedArray            = manifest.ErrExpectedArray
	ErrExpectedObject           = manifest.ErrExpectedObject
	ErrExpectedScalarOrSequence = manifest.ErrExpectedScalarOrSequence
	ErrUnknownKey               = manifest.ErrUnknownKey
	ErrMissingKey               = manifest.ErrMissingKey
)

// ErrMalformedCommandLine is matched by query errors for commands that
// cannot be split into arguments.
var ErrMalformedCommandLine = cmdline.ErrMalformed

// SchemaError locates a manifest schema violation.
type SchemaError = manifest.SchemaError

// CommandLineError reports a stored command that could not be tokenized.
type CommandLineError struct {
	File    string
	Command string
	Err     error
}

func (e *CommandLineError) Error() string {
	return fmt.Sprintf("command for %s: %v", e.File, e.Err)
}

func (e *CommandLineError) Unwrap() error { return e.Err }
