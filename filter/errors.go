package filter

import "errors"

// Sentinel errors for filter package operations.
// These errors enable reliable error classification using errors.Is().

// Dispatch errors.
var (
	// ErrNilSink indicates DispatchFrame was called without a completion sink.
	ErrNilSink = errors.New("completion sink cannot be nil")

	// ErrCompletedTwice indicates a completion sink was invoked more than once
	// for a single filtering call.
	ErrCompletedTwice = errors.New("completion sink invoked more than once")
)

// Worker and monitor lifecycle errors.
var (
	// ErrFilterClosed indicates a frame was submitted to a closed async filter.
	ErrFilterClosed = errors.New("async filter is closed")

	// ErrAlreadyRunning is returned when starting a monitor that is already running.
	ErrAlreadyRunning = errors.New("stall monitor is already running")
)
