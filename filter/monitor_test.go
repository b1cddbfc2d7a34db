package filter

import (
	"sync"
	"testing"
	"time"

	"github.com/opd-ai/texfilter/texture"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockTimeProvider returns a manually advanced clock.
type mockTimeProvider struct {
	mu  sync.Mutex
	now time.Time
}

func newMockTimeProvider() *mockTimeProvider {
	return &mockTimeProvider{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (m *mockTimeProvider) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

func (m *mockTimeProvider) NewTicker(d time.Duration) *time.Ticker {
	return time.NewTicker(d)
}

func (m *mockTimeProvider) Advance(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = m.now.Add(d)
}

func TestNewStallMonitorDefaults(t *testing.T) {
	monitor := NewStallMonitor(&StallMonitorOptions{})

	assert.Equal(t, 500*time.Millisecond, monitor.checkInterval)
	assert.Equal(t, 2*time.Second, monitor.stallAfter)
	assert.IsType(t, RealTimeProvider{}, monitor.timeProvider)
	assert.Equal(t, 0, monitor.Pending())
}

func TestStallMonitorCheck(t *testing.T) {
	clock := newMockTimeProvider()
	var reported []StalledFrame
	monitor := NewStallMonitor(&StallMonitorOptions{
		StallAfter:   time.Second,
		TimeProvider: clock,
		OnStall: func(s StalledFrame) {
			reported = append(reported, s)
		},
	})

	doneA := monitor.Track(3)
	clock.Advance(500 * time.Millisecond)
	monitor.Track(9)

	assert.Empty(t, monitor.Check())

	clock.Advance(600 * time.Millisecond)
	stalled := monitor.Check()
	require.Len(t, stalled, 1)
	assert.Equal(t, texture.ID(3), stalled[0].TextureID)
	assert.Equal(t, 1100*time.Millisecond, stalled[0].Age)

	// Each frame is reported once.
	assert.Empty(t, monitor.Check())

	clock.Advance(time.Second)
	stalled = monitor.Check()
	require.Len(t, stalled, 1)
	assert.Equal(t, texture.ID(9), stalled[0].TextureID)
	assert.Len(t, reported, 2)

	doneA()
	doneA()
	assert.Equal(t, 1, monitor.Pending())
}

func TestStallMonitorCompletedFramesAreNotReported(t *testing.T) {
	clock := newMockTimeProvider()
	monitor := NewStallMonitor(&StallMonitorOptions{
		StallAfter:   time.Second,
		TimeProvider: clock,
	})

	done := monitor.Track(4)
	done()

	clock.Advance(time.Minute)
	assert.Empty(t, monitor.Check())
}

func TestStallMonitorStartStop(t *testing.T) {
	stalls := make(chan StalledFrame, 1)
	monitor := NewStallMonitor(&StallMonitorOptions{
		CheckInterval: 5 * time.Millisecond,
		StallAfter:    time.Millisecond,
		OnStall: func(s StalledFrame) {
			stalls <- s
		},
	})

	require.NoError(t, monitor.Start())
	assert.ErrorIs(t, monitor.Start(), ErrAlreadyRunning)

	monitor.Track(17)

	select {
	case s := <-stalls:
		assert.Equal(t, texture.ID(17), s.TextureID)
	case <-time.After(5 * time.Second):
		t.Fatal("stall was not reported")
	}

	monitor.Stop()
	monitor.Stop()
	require.NoError(t, monitor.Start())
	monitor.Stop()
}
