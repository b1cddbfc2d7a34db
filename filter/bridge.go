package filter

import (
	"fmt"
	"sync"

	"github.com/opd-ai/texfilter/texture"
	"github.com/sirupsen/logrus"
)

// Bridge hands camera textures to the registered TextureFilter and
// resumes the pipeline through the caller's completion sink.
//
// The bridge is stateless per call: it copies nothing, buffers nothing and
// never waits for a completion. Its only state is the registered filter,
// an optional stall monitor and counters. It is safe for concurrent use.
//
// Example usage:
//
//	bridge := filter.NewBridge(nil)
//	bridge.Register(myFilter)
//	err := bridge.DispatchFrame(texID, 1280, 720, texture.IdentityMatrix(),
//	    filter.SinkFunc(func(out texture.ID, is2D bool) {
//	        pipeline.Resume(out, is2D)
//	    }))
type Bridge struct {
	options *Options

	mu      sync.RWMutex
	filter  TextureFilter
	monitor *StallMonitor

	stats statsCounters
}

// NewBridge creates a bridge with no filter registered. A nil opts uses
// NewOptions().
func NewBridge(opts *Options) *Bridge {
	if opts == nil {
		opts = NewOptions()
	}

	logrus.WithFields(logrus.Fields{
		"function":         "NewBridge",
		"name":             opts.Name,
		"guard_completion": opts.GuardCompletion,
	}).Info("Creating texture filter bridge")

	return &Bridge{
		options: opts,
	}
}

// Register installs f as the filter for subsequent dispatches. A nil f is
// equivalent to Unregister. Calls already in flight keep the filter they
// were dispatched to.
func (b *Bridge) Register(f TextureFilter) {
	b.mu.Lock()
	b.filter = f
	b.mu.Unlock()

	entry := logrus.WithFields(logrus.Fields{
		"function": "Bridge.Register",
		"name":     b.options.Name,
	})
	if f == nil {
		entry.Info("Texture filter unregistered")
		return
	}
	entry.Info("Texture filter registered")
}

// Unregister removes the current filter. Later frames are completed by the
// bridge as pass-through.
func (b *Bridge) Unregister() {
	b.Register(nil)
}

// Filter returns the registered filter, or nil.
func (b *Bridge) Filter() TextureFilter {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.filter
}

// SetStallMonitor makes the bridge track every filtered frame in m until
// its completion fires. A nil m stops tracking.
func (b *Bridge) SetStallMonitor(m *StallMonitor) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.monitor = m
}

// DispatchFrame forwards one camera texture to the registered filter.
//
// Exactly one completion is eventually delivered to onComplete for every
// call that returns nil. With no filter registered the bridge completes
// synchronously with textureID as a 2D texture. With a filter, completion
// happens whenever and wherever the filter completes. The handle is not
// retained after DispatchFrame returns.
//
// A non-positive width or height, a frame beyond Options.Limits, or a nil
// onComplete is rejected with an error and nothing is dispatched.
func (b *Bridge) DispatchFrame(textureID texture.ID, width, height int, transform texture.Matrix, onComplete CompletionSink) error {
	if isNilSink(onComplete) {
		b.stats.rejected.Add(1)
		logrus.WithFields(logrus.Fields{
			"function":   "Bridge.DispatchFrame",
			"texture_id": textureID,
		}).Error("Rejected frame without completion sink")
		return fmt.Errorf("dispatch texture %d: %w", textureID, ErrNilSink)
	}

	desc := texture.FrameDescriptor{Width: width, Height: height, Transform: transform}
	if err := b.validate(desc); err != nil {
		b.stats.rejected.Add(1)
		logrus.WithFields(logrus.Fields{
			"function":   "Bridge.DispatchFrame",
			"texture_id": textureID,
			"width":      width,
			"height":     height,
			"error":      err.Error(),
		}).Error("Rejected frame with invalid descriptor")
		return fmt.Errorf("dispatch texture %d: %w", textureID, err)
	}

	b.mu.RLock()
	f := b.filter
	monitor := b.monitor
	b.mu.RUnlock()

	b.stats.dispatched.Add(1)

	if f == nil {
		logrus.WithFields(logrus.Fields{
			"function":   "Bridge.DispatchFrame",
			"texture_id": textureID,
		}).Debug("No filter registered, completing as pass-through")

		b.stats.passThrough.Add(1)
		b.stats.completed.Add(1)
		onComplete.OnComplete(textureID, true)
		return nil
	}

	logrus.WithFields(logrus.Fields{
		"function":   "Bridge.DispatchFrame",
		"texture_id": textureID,
		"width":      width,
		"height":     height,
	}).Debug("Dispatching frame to filter")

	f.FilterTextureFrame(textureID, width, height, transform, b.completionSink(textureID, onComplete, monitor))
	return nil
}

func (b *Bridge) validate(desc texture.FrameDescriptor) error {
	if err := desc.Validate(); err != nil {
		return err
	}
	return desc.ValidateLimits(b.options.Limits)
}

// Stats returns a snapshot of the bridge counters.
func (b *Bridge) Stats() Stats {
	return b.stats.snapshot()
}

// completionSink builds the sink handed to the filter: it counts the
// completion, releases stall tracking and forwards to the caller. With
// GuardCompletion the whole chain is single-use.
func (b *Bridge) completionSink(inputID texture.ID, onComplete CompletionSink, monitor *StallMonitor) CompletionSink {
	done := func() {}
	if monitor != nil {
		done = monitor.Track(inputID)
	}

	var sink CompletionSink = SinkFunc(func(outputID texture.ID, is2D bool) {
		b.stats.completed.Add(1)
		done()

		logrus.WithFields(logrus.Fields{
			"function":          "Bridge.completionSink",
			"input_texture_id":  inputID,
			"output_texture_id": outputID,
			"target":            texture.TargetKindFrom2D(is2D).String(),
		}).Debug("Filter completed frame")

		onComplete.OnComplete(outputID, is2D)
	})

	if !b.options.GuardCompletion {
		return sink
	}
	return Once(sink, b.reportViolation)
}

func (b *Bridge) reportViolation(err error) {
	b.stats.violations.Add(1)

	if b.options.OnViolation != nil {
		b.options.OnViolation(err)
		return
	}

	logrus.WithFields(logrus.Fields{
		"function": "Bridge.reportViolation",
		"name":     b.options.Name,
		"error":    err.Error(),
	}).Error("Texture filter completed a frame more than once")
}
