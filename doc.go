// Package texfilter hands camera GPU textures to a pluggable filter and
// resumes the video pipeline when the filter reports its output texture.
//
// The module sits between a camera capturer, which produces one texture
// handle per frame, and the rest of a WebRTC video pipeline. It does not
// capture, encode or transport video and it never owns a texture: the
// graphics context does.
//
// # Packages
//
//   - texture: texture handles, GL target kinds, sampling transforms and
//     frame descriptors.
//   - filter: the TextureFilter and CompletionSink contracts, the Bridge
//     that dispatches frames, filter adapters and a stall monitor.
//
// # Getting Started
//
//	bridge := filter.NewBridge(nil)
//	bridge.Register(filter.NewAsyncFilter(render, 4))
//
//	err := bridge.DispatchFrame(texID, 1280, 720, transform,
//	    filter.SinkFunc(func(out texture.ID, is2D bool) {
//	        pipeline.Resume(out, is2D)
//	    }))
//
// Every accepted dispatch completes exactly once. With no filter
// registered the bridge completes immediately with the input texture as a
// GL_TEXTURE_2D.
//
// # Logging
//
// All packages log through logrus with a "function" field on each entry.
// Per-frame events are logged at debug level:
//
//	logrus.SetLevel(logrus.DebugLevel)
package texfilter
