package stream

import "errors"

var (
	// ErrAlreadyRunning is returned by Start while a stream is active.
	ErrAlreadyRunning = errors.New("stream already running")
)
