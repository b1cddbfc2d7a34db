package filter

import (
	"sync"
	"testing"

	"github.com/opd-ai/texfilter/texture"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOnceForwardsFirstCompletion(t *testing.T) {
	sink := newCountingSink()
	once := Once(sink, func(error) {})

	assert.False(t, once.Fired())
	once.OnComplete(42, false)

	assert.True(t, once.Fired())
	assert.Equal(t, []recordedCompletion{{TextureID: 42, Is2D: false}}, sink.Calls())
}

func TestOnceReportsSecondCompletion(t *testing.T) {
	sink := newCountingSink()
	var reported []error
	once := Once(sink, func(err error) {
		reported = append(reported, err)
	})

	once.OnComplete(1, true)
	once.OnComplete(2, false)
	once.OnComplete(3, true)

	assert.Equal(t, 1, sink.Count())
	require.Len(t, reported, 2)
	for _, err := range reported {
		assert.ErrorIs(t, err, ErrCompletedTwice)
	}
	assert.Contains(t, reported[0].Error(), "TEXTURE_EXTERNAL_OES")
}

func TestOncePanicsWithoutHandler(t *testing.T) {
	once := Once(newCountingSink(), nil)
	once.OnComplete(5, true)

	assert.Panics(t, func() {
		once.OnComplete(5, true)
	})
}

func TestOnceConcurrentCompletions(t *testing.T) {
	sink := newCountingSink()
	var mu sync.Mutex
	violations := 0
	once := Once(sink, func(error) {
		mu.Lock()
		violations++
		mu.Unlock()
	})

	const callers = 32
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			once.OnComplete(texture.ID(i), true)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, sink.Count())
	assert.Equal(t, callers-1, violations)
}
