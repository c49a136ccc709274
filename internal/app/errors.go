package service

import "errors"

// Service errors.
var (
	ErrDetectorSetup = errors.New("detector setup failed")
	ErrNotRunning    = errors.New("service not running")
)
