package filter

import (
	"fmt"
	"sync"

	"github.com/opd-ai/texfilter/texture"
	"github.com/sirupsen/logrus"
)

// ProcessFunc performs the GPU work for one frame and returns the output
// texture. It runs on the AsyncFilter worker goroutine.
type ProcessFunc func(textureID texture.ID, desc texture.FrameDescriptor) (texture.Completion, error)

type asyncJob struct {
	textureID texture.ID
	desc      texture.FrameDescriptor
	sink      CompletionSink
}

// AsyncFilter runs a ProcessFunc on a dedicated worker goroutine, the way a
// GL filter posts work to its render thread. Completions are delivered
// from the worker, in submission order.
//
// A ProcessFunc error completes the frame with its input handle as a 2D
// texture so every call still completes exactly once.
//
// Completion sinks may dispatch the next frame back into the filter. Those
// calls are queued even when the queue is full, since the worker is the
// only goroutine that drains it. Close must not be called from a sink.
type AsyncFilter struct {
	process   ProcessFunc
	queueSize int

	mu         sync.Mutex
	cond       *sync.Cond
	queue      []asyncJob
	closed     bool
	delivering bool

	done chan struct{}
}

// NewAsyncFilter starts a worker that holds up to queueSize pending frames.
// FilterTextureFrame blocks only while the queue is full, and never when
// called from one of the filter's own completion sinks.
func NewAsyncFilter(process ProcessFunc, queueSize int) *AsyncFilter {
	if queueSize < 1 {
		queueSize = 1
	}

	logrus.WithFields(logrus.Fields{
		"function":   "NewAsyncFilter",
		"queue_size": queueSize,
	}).Info("Starting async texture filter worker")

	a := &AsyncFilter{
		process:   process,
		queueSize: queueSize,
		queue:     make([]asyncJob, 0, queueSize),
		done:      make(chan struct{}),
	}
	a.cond = sync.NewCond(&a.mu)

	go a.worker()

	return a
}

// FilterTextureFrame implements TextureFilter.
func (a *AsyncFilter) FilterTextureFrame(textureID texture.ID, width, height int, transform texture.Matrix, sink CompletionSink) {
	a.mu.Lock()
	for !a.closed && !a.delivering && len(a.queue) >= a.queueSize {
		a.cond.Wait()
	}

	if a.closed {
		a.mu.Unlock()

		logrus.WithFields(logrus.Fields{
			"function":   "AsyncFilter.FilterTextureFrame",
			"texture_id": textureID,
			"error":      ErrFilterClosed.Error(),
		}).Warn("Completing frame as pass-through")

		sink.OnComplete(textureID, true)
		return
	}

	a.queue = append(a.queue, asyncJob{
		textureID: textureID,
		desc:      texture.FrameDescriptor{Width: width, Height: height, Transform: transform},
		sink:      sink,
	})
	a.cond.Broadcast()
	a.mu.Unlock()
}

// Pending returns the number of queued frames not yet picked up by the worker.
func (a *AsyncFilter) Pending() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.queue)
}

// Close stops accepting frames, finishes the queued ones and waits for the
// worker to exit. It is safe to call more than once.
func (a *AsyncFilter) Close() error {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		<-a.done
		return nil
	}
	a.closed = true
	a.cond.Broadcast()
	a.mu.Unlock()

	<-a.done

	logrus.WithFields(logrus.Fields{
		"function": "AsyncFilter.Close",
	}).Info("Async texture filter worker stopped")

	return nil
}

func (a *AsyncFilter) worker() {
	defer close(a.done)

	a.mu.Lock()
	for {
		for len(a.queue) == 0 && !a.closed {
			a.cond.Wait()
		}
		if len(a.queue) == 0 {
			a.mu.Unlock()
			return
		}

		job := a.queue[0]
		a.queue[0] = asyncJob{}
		a.queue = a.queue[1:]
		a.cond.Broadcast()
		a.mu.Unlock()

		a.run(job)

		a.mu.Lock()
	}
}

func (a *AsyncFilter) run(job asyncJob) {
	result, err := a.safeProcess(job)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"function":   "AsyncFilter.run",
			"texture_id": job.textureID,
			"error":      err.Error(),
		}).Error("Texture processing failed, completing with input texture")

		result = texture.Completion{TextureID: job.textureID, Kind: texture.Texture2D}
	}

	a.deliver(job.sink, result)
}

// deliver invokes the sink with delivering set, so a sink that dispatches
// the next frame is never parked behind the worker's own queue.
func (a *AsyncFilter) deliver(sink CompletionSink, result texture.Completion) {
	a.setDelivering(true)
	defer a.setDelivering(false)

	sink.OnComplete(result.TextureID, result.Kind.Is2D())
}

func (a *AsyncFilter) setDelivering(v bool) {
	a.mu.Lock()
	a.delivering = v
	a.mu.Unlock()
}

// safeProcess converts a panicking ProcessFunc into an error so the frame
// still completes.
func (a *AsyncFilter) safeProcess(job asyncJob) (result texture.Completion, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("process panicked on texture %d: %v", job.textureID, r)
		}
	}()
	return a.process(job.textureID, job.desc)
}
