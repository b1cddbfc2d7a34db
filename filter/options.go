package filter

import "github.com/gogpu/gputypes"

// Options configures a Bridge.
type Options struct {
	// Name identifies the bridge in log entries.
	Name string
	// GuardCompletion wraps every sink handed to a filter in a single-use
	// guard so double completions are caught instead of forwarded.
	GuardCompletion bool
	// OnViolation receives double-completion errors. When nil the bridge
	// logs them at error level.
	OnViolation func(error)
	// Limits bounds the frame size accepted by DispatchFrame. Frames wider
	// or taller than MaxTextureDimension2D are rejected; a zero value
	// disables the check.
	Limits gputypes.Limits
}

// NewOptions returns the default bridge configuration.
func NewOptions() *Options {
	return &Options{
		Name:            "texture-filter-bridge",
		GuardCompletion: true,
		Limits:          gputypes.DefaultLimits(),
	}
}
