package filter

import (
	"sync"

	"github.com/opd-ai/texfilter/texture"
)

type recordedCompletion struct {
	TextureID texture.ID
	Is2D      bool
}

// countingSink records every completion it receives.
type countingSink struct {
	mu    sync.Mutex
	calls []recordedCompletion
	done  chan struct{}
}

func newCountingSink() *countingSink {
	return &countingSink{done: make(chan struct{}, 16)}
}

func (s *countingSink) OnComplete(textureID texture.ID, is2D bool) {
	s.mu.Lock()
	s.calls = append(s.calls, recordedCompletion{TextureID: textureID, Is2D: is2D})
	s.mu.Unlock()

	select {
	case s.done <- struct{}{}:
	default:
	}
}

func (s *countingSink) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}

func (s *countingSink) Calls() []recordedCompletion {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]recordedCompletion(nil), s.calls...)
}

type deferredCall struct {
	textureID texture.ID
	width     int
	height    int
	transform texture.Matrix
	sink      CompletionSink
}

// deferredFilter holds every frame until the test completes it.
type deferredFilter struct {
	mu      sync.Mutex
	pending []deferredCall
}

func (f *deferredFilter) FilterTextureFrame(textureID texture.ID, width, height int, transform texture.Matrix, sink CompletionSink) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pending = append(f.pending, deferredCall{
		textureID: textureID,
		width:     width,
		height:    height,
		transform: transform,
		sink:      sink,
	})
}

func (f *deferredFilter) take() []deferredCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	calls := f.pending
	f.pending = nil
	return calls
}

func (f *deferredFilter) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.pending)
}
