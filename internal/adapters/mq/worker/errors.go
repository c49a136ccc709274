package worker

import "errors"

// Sentinel errors for the frame loop.
var (
	ErrStopped        = errors.New("frame loop stopped")
	ErrUnknownCommand = errors.New("unknown command")
)
