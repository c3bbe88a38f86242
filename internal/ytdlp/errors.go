package ytdlp

import "errors"

// Causes wrapped by ToolError, for callers that prefer errors.Is over messages.
var (
	ErrExitStatus   = errors.New("nonzero exit status")
	ErrNoURLs       = errors.New("no stream URLs found")
	ErrNotInstalled = errors.New("not installed")
	ErrTimedOut     = errors.New("timed out")
)

// ToolError is the single error kind returned when the resolver tool fails.
type ToolError struct {
	Msg    string // Human-readable description
	Stderr string // Trimmed standard error, set for nonzero exits
	Err    error  // Underlying cause
}

func (e *ToolError) Error() string {
	return e.Msg
}

func (e *ToolError) Unwrap() error {
	return e.Err
}
