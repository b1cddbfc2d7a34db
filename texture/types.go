// Package texture describes GPU texture frames handed between a camera
// capturer and a texture filter.
//
// Texture handles are borrowed: the graphics context owns the texture
// object, and this package only names it by number. A handle is valid for
// the duration of one filter call and, for an output handle, until the
// pipeline has consumed it.
package texture

import (
	"fmt"

	"github.com/gogpu/gputypes"
)

// ID is an opaque GPU texture handle (a GL texture name).
type ID uint32

// TargetKind identifies the GPU sampling target a texture handle is bound to.
type TargetKind uint8

const (
	// Texture2D is a regular GL_TEXTURE_2D texture.
	Texture2D TargetKind = iota
	// ExternalOES is a GL_TEXTURE_EXTERNAL_OES texture, typically backed
	// by a camera SurfaceTexture.
	ExternalOES
)

// String returns the GL target name.
func (k TargetKind) String() string {
	switch k {
	case Texture2D:
		return "TEXTURE_2D"
	case ExternalOES:
		return "TEXTURE_EXTERNAL_OES"
	default:
		return fmt.Sprintf("TargetKind(%d)", uint8(k))
	}
}

// Is2D reports whether the kind is Texture2D. This is the boolean carried
// on a completion sink.
func (k TargetKind) Is2D() bool {
	return k == Texture2D
}

// TargetKindFrom2D maps a completion sink boolean back to a TargetKind.
func TargetKindFrom2D(is2D bool) TargetKind {
	if is2D {
		return Texture2D
	}
	return ExternalOES
}

// Matrix is a column-major 4x4 transform applied to texture sampling
// coordinates.
type Matrix [16]float32

// IdentityMatrix returns the 4x4 identity transform.
func IdentityMatrix() Matrix {
	return Matrix{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// MatrixFromSlice converts a flat slice, as delivered by SurfaceTexture,
// into a Matrix.
func MatrixFromSlice(values []float32) (Matrix, error) {
	var m Matrix
	if len(values) != len(m) {
		return m, fmt.Errorf("got %d elements: %w", len(values), ErrInvalidMatrix)
	}
	copy(m[:], values)
	return m, nil
}

// IsIdentity reports whether m is the identity transform.
func (m Matrix) IsIdentity() bool {
	return m == IdentityMatrix()
}

// FrameDescriptor carries the geometry that accompanies a single texture
// handle for one filtering call.
type FrameDescriptor struct {
	Width     int
	Height    int
	Transform Matrix
}

// NewFrameDescriptor creates a descriptor with an identity transform.
func NewFrameDescriptor(width, height int) FrameDescriptor {
	return FrameDescriptor{
		Width:     width,
		Height:    height,
		Transform: IdentityMatrix(),
	}
}

// Validate checks that the frame has positive dimensions.
func (d FrameDescriptor) Validate() error {
	if d.Width <= 0 || d.Height <= 0 {
		return fmt.Errorf("%dx%d: %w", d.Width, d.Height, ErrInvalidDimensions)
	}
	return nil
}

// Extent returns the frame size as a single-layer texture extent.
// The descriptor must be valid.
func (d FrameDescriptor) Extent() gputypes.Extent3D {
	return gputypes.Extent3D{
		Width:              uint32(d.Width),
		Height:             uint32(d.Height),
		DepthOrArrayLayers: 1,
	}
}

// ValidateLimits checks a valid descriptor against the device limits. A
// zero MaxTextureDimension2D means the limit is unknown and is not checked.
func (d FrameDescriptor) ValidateLimits(limits gputypes.Limits) error {
	maxDim := limits.MaxTextureDimension2D
	if maxDim == 0 {
		return nil
	}

	extent := d.Extent()
	if extent.Width > maxDim || extent.Height > maxDim {
		return fmt.Errorf("%dx%d exceeds %d: %w", extent.Width, extent.Height, maxDim, ErrExceedsLimits)
	}
	return nil
}

// Completion is the result of one filtering call: the output handle and
// the target it is bound to.
type Completion struct {
	TextureID ID
	Kind      TargetKind
}
