package filter

import (
	"sync"

	"github.com/opd-ai/texfilter/texture"
)

type pendingCall struct {
	textureID texture.ID
	width     int
	height    int
	transform texture.Matrix
	sink      CompletionSink
}

type serializedFilter struct {
	inner TextureFilter

	mu       sync.Mutex
	busy     bool
	draining bool
	queue    []pendingCall
}

// Serialized wraps a filter that cannot handle overlapping calls. At most
// one call is in flight in inner; later calls are queued and issued in
// submission order as each completion fires, from whichever goroutine
// dispatched or completed last. The queue advances even if a downstream
// sink panics.
func Serialized(inner TextureFilter) TextureFilter {
	return &serializedFilter{inner: inner}
}

func (s *serializedFilter) FilterTextureFrame(textureID texture.ID, width, height int, transform texture.Matrix, sink CompletionSink) {
	s.mu.Lock()
	s.queue = append(s.queue, pendingCall{
		textureID: textureID,
		width:     width,
		height:    height,
		transform: transform,
		sink:      sink,
	})
	s.mu.Unlock()

	s.drain()
}

// drain issues queued calls while inner is idle. Only one goroutine drains
// at a time; a synchronous completion inside issue just clears busy and the
// loop picks up the next call.
func (s *serializedFilter) drain() {
	s.mu.Lock()
	if s.draining {
		s.mu.Unlock()
		return
	}
	s.draining = true

	locked := true
	defer func() {
		if !locked {
			s.mu.Lock()
		}
		s.draining = false
		stranded := !s.busy && len(s.queue) > 0
		s.mu.Unlock()

		// Only reachable when issue panicked out of the loop.
		if stranded {
			go s.drain()
		}
	}()

	for !s.busy && len(s.queue) > 0 {
		call := s.queue[0]
		s.queue[0] = pendingCall{}
		s.queue = s.queue[1:]
		s.busy = true

		locked = false
		s.mu.Unlock()

		s.issue(call)

		s.mu.Lock()
		locked = true
	}
}

func (s *serializedFilter) issue(call pendingCall) {
	var once sync.Once
	s.inner.FilterTextureFrame(call.textureID, call.width, call.height, call.transform,
		SinkFunc(func(textureID texture.ID, is2D bool) {
			defer once.Do(s.release)
			call.sink.OnComplete(textureID, is2D)
		}))
}

func (s *serializedFilter) release() {
	s.mu.Lock()
	s.busy = false
	s.mu.Unlock()

	s.drain()
}
