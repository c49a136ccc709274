package pipeline

import "errors"

// Sentinel error kinds for the frame pipeline.
var (
	ErrGameNotStarted = errors.New("game not started")
	ErrNoDetection    = errors.New("detector produced no result")
	ErrTickInFlight   = errors.New("tick already in flight")
)
