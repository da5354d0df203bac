package cue

import "errors"

// ErrInvalidTimestamp indicates a timestamp string could not be parsed.
// Wrap with the offending value: fmt.Errorf("bad timing %q: %w", s, ErrInvalidTimestamp).
//
// Returning an error here instead of 0 or NaN is deliberate: a silently
// zeroed timestamp corrupts cue ordering downstream.
var ErrInvalidTimestamp = errors.New("invalid timestamp")
