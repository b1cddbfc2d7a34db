package filter

import (
	"reflect"

	"github.com/opd-ai/texfilter/texture"
)

// CompletionSink receives the result of one filtering call.
//
// OnComplete may be invoked from any goroutine: the dispatching goroutine,
// a GPU driver callback or a dedicated render thread.
type CompletionSink interface {
	// OnComplete reports the output texture handle and whether it is
	// bound to GL_TEXTURE_2D (false means GL_TEXTURE_EXTERNAL_OES).
	OnComplete(textureID texture.ID, is2D bool)
}

// SinkFunc adapts an ordinary function to a CompletionSink.
type SinkFunc func(textureID texture.ID, is2D bool)

// OnComplete calls f(textureID, is2D).
func (f SinkFunc) OnComplete(textureID texture.ID, is2D bool) {
	f(textureID, is2D)
}

// TextureFilter processes one camera texture per call.
//
// An implementation must eventually invoke sink exactly once, passing the
// resulting handle and its target kind. It may return the input handle
// unchanged or produce a new texture; a new texture must stay valid until
// the pipeline has consumed it. This is a hard liveness constraint: if a
// filter never completes, the frame stalls and nothing in this package
// will complete it on the filter's behalf. A filter that fails internally
// must still complete, typically with the input handle.
//
// Unless wrapped with Serialized, a filter must tolerate a new call
// arriving before the previous call completed.
type TextureFilter interface {
	FilterTextureFrame(textureID texture.ID, width, height int, transform texture.Matrix, sink CompletionSink)
}

// FilterFunc adapts an ordinary function to a TextureFilter.
type FilterFunc func(textureID texture.ID, width, height int, transform texture.Matrix, sink CompletionSink)

// FilterTextureFrame calls f with the same arguments.
func (f FilterFunc) FilterTextureFrame(textureID texture.ID, width, height int, transform texture.Matrix, sink CompletionSink) {
	f(textureID, width, height, transform, sink)
}

// PassThrough returns a filter that completes synchronously with the input
// handle as a 2D texture.
func PassThrough() TextureFilter {
	return FilterFunc(func(textureID texture.ID, _, _ int, _ texture.Matrix, sink CompletionSink) {
		sink.OnComplete(textureID, true)
	})
}

// isNilSink reports whether sink is nil, including a typed nil such as a
// nil SinkFunc or a nil pointer behind the interface.
func isNilSink(sink CompletionSink) bool {
	if sink == nil {
		return true
	}

	v := reflect.ValueOf(sink)
	switch v.Kind() {
	case reflect.Ptr, reflect.Func, reflect.Map, reflect.Chan, reflect.Slice, reflect.Interface:
		return v.IsNil()
	default:
		return false
	}
}
