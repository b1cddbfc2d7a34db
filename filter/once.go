package filter

import (
	"fmt"
	"sync/atomic"

	"github.com/opd-ai/texfilter/texture"
)

// OnceSink forwards the first completion to the wrapped sink and rejects
// every later one.
type OnceSink struct {
	sink        CompletionSink
	onViolation func(error)
	fired       atomic.Bool
}

// Once wraps sink in a single-use guard.
//
// A second OnComplete is not forwarded. It is reported to onViolation as an
// error wrapping ErrCompletedTwice, or panics when onViolation is nil.
func Once(sink CompletionSink, onViolation func(error)) *OnceSink {
	return &OnceSink{
		sink:        sink,
		onViolation: onViolation,
	}
}

// OnComplete implements CompletionSink.
func (o *OnceSink) OnComplete(textureID texture.ID, is2D bool) {
	if o.fired.CompareAndSwap(false, true) {
		o.sink.OnComplete(textureID, is2D)
		return
	}

	err := fmt.Errorf("texture %d (%s): %w", textureID, texture.TargetKindFrom2D(is2D), ErrCompletedTwice)
	if o.onViolation == nil {
		panic(err)
	}
	o.onViolation(err)
}

// Fired reports whether the sink has been invoked.
func (o *OnceSink) Fired() bool {
	return o.fired.Load()
}
