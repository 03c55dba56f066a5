package jt

import "errors"

// Command failures. Every one is recoverable: the router reports them in an
// Outcome and never returns them past its boundary.
var (
	// ErrExtraction means the extractor was unreachable, timed out or returned unusable output.
	ErrExtraction = errors.New("extraction failed")
	// ErrValidation means a required field was missing or malformed after extraction.
	ErrValidation = errors.New("validation failed")
	// ErrDuplicateActive means a create would duplicate an active application.
	ErrDuplicateActive = errors.New("duplicate active application")
	// ErrResolution means no application matched an interview reference.
	ErrResolution = errors.New("no matching application")
	// ErrUnrecognized means the utterance matched no command.
	ErrUnrecognized = errors.New("unrecognized command")
)
