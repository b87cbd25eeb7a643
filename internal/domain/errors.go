package domain

import (
	"errors"
	"fmt"

	m "wavedig.dev/pkg/wavedig/internal/model"
)

// Build errors. Any of them aborts the whole build.
var (
	// ErrMalformedFile covers a missing $enddefinitions, an empty value-change
	// region, decreasing timestamps and unparsable value-change lines.
	ErrMalformedFile = errors.New("malformed dump file")

	// ErrUnbalancedScope is returned when $upscope has no matching $scope, when
	// scopes are still open at $enddefinitions, or when a $var is declared
	// outside any scope.
	ErrUnbalancedScope = errors.New("unbalanced scope")

	// ErrUnknownVariableSyntax is returned when a $var line cannot be parsed
	// under the configured dialect.
	ErrUnknownVariableSyntax = errors.New("unknown variable syntax")
)

// Query errors. They are local to a single call.
var (
	ErrScopeNotFound     = errors.New("scope not found")
	ErrSignalNotFound    = errors.New("signal not found")
	ErrPathIsScope       = errors.New("path names a scope, not a signal")
	ErrNoAssignmentYet   = errors.New("no assignment at or before timestamp")
	ErrTimestampNotFound = errors.New("timestamp not found in dump")
	ErrInvalidRange      = errors.New("invalid timestamp range")
	ErrUnknownOp         = errors.New("unknown query operation")
)

// ErrNoSignals is returned by a batch run with nothing to query.
var ErrNoSignals = errors.New("no signals to query")

// ParseError locates a build failure inside the input.
type ParseError struct {
	Section m.Section
	Line    int // 1-based line number in the input
	Text    string
	Err     error
}

func (e *ParseError) Error() string {
	if e.Line == 0 {
		return fmt.Sprintf("%s: %v", e.Section, e.Err)
	}

	return fmt.Sprintf("%s line %d %q: %v", e.Section, e.Line, e.Text, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// LookupError reports which path segment failed to resolve.
type LookupError struct {
	Path    m.SignalPath
	Segment string
	Err     error
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("%s: %v (at %q)", e.Path, e.Err, e.Segment)
}

func (e *LookupError) Unwrap() error {
	return e.Err
}
