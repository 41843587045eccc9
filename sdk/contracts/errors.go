package contracts

import (
	"errors"
	"fmt"
)

// Parse failure kinds. Each rejected file maps to exactly one of these.
var (
	// ErrMalformedHeader indicates the file does not begin with a valid SMF header.
	ErrMalformedHeader = errors.New("malformed midi header")
	// ErrUnsupportedFormat indicates a structurally valid file the player cannot use,
	// such as format 2 or SMPTE time division.
	ErrUnsupportedFormat = errors.New("unsupported midi format")
	// ErrTruncatedData indicates the file ends before its declared content.
	ErrTruncatedData = errors.New("truncated midi data")
	// ErrInvalidEventEncoding indicates a malformed event inside a track chunk.
	ErrInvalidEventEncoding = errors.New("invalid midi event encoding")
)

// ErrConfig is wrapped by every invalid-option error. Configuration errors
// surface before any MIDI processing begins.
var ErrConfig = errors.New("invalid configuration")

// ErrMissingFingering indicates an in-range pitch with no fingering table
// entry. It is an internal invariant violation, not a user error, and aborts
// the pipeline immediately.
var ErrMissingFingering = errors.New("missing fingering")

// ErrCancelled is returned by a playback run that was stopped before
// completing. All pressed keys are released before it is returned.
var ErrCancelled = errors.New("playback cancelled")

// ParseError ties one of the parse kind sentinels to file-specific detail.
// errors.Is matches the kind; errors.As recovers the struct.
type ParseError struct {
	Kind   error // One of the Err* parse sentinels above.
	Detail string
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	if e.Detail == "" {
		return e.Kind.Error()
	}
	return fmt.Sprintf("%v: %s", e.Kind, e.Detail)
}

// Unwrap exposes the kind sentinel for errors.Is.
func (e *ParseError) Unwrap() error {
	return e.Kind
}

// NewParseError builds a ParseError with formatted detail.
func NewParseError(kind error, format string, args ...any) *ParseError {
	return &ParseError{Kind: kind, Detail: fmt.Sprintf(format, args...)}
}
