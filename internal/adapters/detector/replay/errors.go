package replay

import "errors"

// Sentinel errors for recordings.
var (
	ErrInvalidRecording = errors.New("invalid recording")
	ErrEmptyRecording   = errors.New("recording has no frames")
)
