package config

import "errors"

// Validate wraps ErrInvalidConfig and Load wraps ErrLoadConfig, so callers
// can tell a bad value from an unreadable source.
var (
	ErrInvalidConfig = errors.New("invalid config")
	ErrLoadConfig    = errors.New("load config failed")
)
