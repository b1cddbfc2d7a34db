// Package filter dispatches camera textures to a pluggable GPU texture
// filter and resumes the video pipeline when the filter completes.
//
// # Contracts
//
// Two single-method interfaces form the boundary with the rest of the
// video stack:
//
//	type TextureFilter interface {
//	    FilterTextureFrame(textureID texture.ID, width, height int,
//	        transform texture.Matrix, sink CompletionSink)
//	}
//
//	type CompletionSink interface {
//	    OnComplete(textureID texture.ID, is2D bool)
//	}
//
// A filter must call its sink exactly once per frame, from any goroutine.
// The bridge cannot detect a filter that never completes; such a frame
// stalls. StallMonitor lets the surrounding pipeline log those frames.
//
// # Bridge
//
// Bridge.DispatchFrame forwards each frame unchanged to the registered
// filter. Without a filter it completes the frame itself with the input
// handle as a 2D texture:
//
//	bridge := filter.NewBridge(nil)
//	err := bridge.DispatchFrame(7, 1280, 720, texture.IdentityMatrix(), sink)
//	// sink.OnComplete(7, true) has already run
//
// Dispatch never waits for completion. Completions of successive frames
// may arrive in any order; a pipeline that needs in-order delivery must
// reorder them itself.
//
// # Overlapping calls
//
// Filters receive a new frame whether or not the previous one completed.
// Wrap a filter that cannot cope with that in Serialized, or use
// AsyncFilter, which processes frames one at a time on its own worker.
//
// # Double completion
//
// With Options.GuardCompletion (the default) every sink handed to a filter
// is wrapped by Once. A second completion is dropped, counted in
// Stats.Violations and logged. Tests can call Once directly with a nil
// handler to panic on the violation.
package filter
