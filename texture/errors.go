package texture

import "errors"

// Sentinel errors for frame descriptor validation.
// These errors enable reliable error classification using errors.Is().
var (
	// ErrInvalidDimensions indicates a non-positive frame width or height.
	ErrInvalidDimensions = errors.New("invalid frame dimensions")

	// ErrInvalidMatrix indicates a transform that is not a 4x4 matrix.
	ErrInvalidMatrix = errors.New("transform matrix must have 16 elements")

	// ErrExceedsLimits indicates a frame larger than the device's maximum
	// 2D texture dimension.
	ErrExceedsLimits = errors.New("frame exceeds texture dimension limit")
)
