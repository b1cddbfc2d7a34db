package filter

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/opd-ai/texfilter/texture"
	"github.com/sirupsen/logrus"
)

// StalledFrame describes a dispatched frame whose completion is overdue.
type StalledFrame struct {
	TextureID  texture.ID
	Sequence   uint64
	Dispatched time.Time
	Age        time.Duration
}

// StallMonitorOptions configures a StallMonitor.
type StallMonitorOptions struct {
	// CheckInterval is how often in-flight frames are inspected.
	CheckInterval time.Duration
	// StallAfter is the age at which an in-flight frame is reported.
	StallAfter time.Duration
	// TimeProvider supplies the clock. Nil uses the system clock.
	TimeProvider TimeProvider
	// OnStall is called once per stalled frame.
	OnStall func(StalledFrame)
}

// NewStallMonitorOptions returns the default monitor configuration.
func NewStallMonitorOptions() *StallMonitorOptions {
	return &StallMonitorOptions{
		CheckInterval: 500 * time.Millisecond,
		StallAfter:    2 * time.Second,
	}
}

type trackedFrame struct {
	textureID  texture.ID
	dispatched time.Time
	reported   bool
}

// StallMonitor reports frames whose filter has not completed within a
// deadline. It belongs to the surrounding pipeline: it only observes and
// logs, and never completes a frame itself.
//
// Example usage:
//
//	monitor := filter.NewStallMonitor(nil)
//	monitor.Start()
//	defer monitor.Stop()
//	bridge.SetStallMonitor(monitor)
type StallMonitor struct {
	checkInterval time.Duration
	stallAfter    time.Duration
	timeProvider  TimeProvider
	onStall       func(StalledFrame)

	mu       sync.Mutex
	frames   map[uint64]*trackedFrame
	sequence uint64
	running  bool

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewStallMonitor creates a stopped monitor. A nil opts uses
// NewStallMonitorOptions().
func NewStallMonitor(opts *StallMonitorOptions) *StallMonitor {
	defaults := NewStallMonitorOptions()
	if opts == nil {
		opts = defaults
	}

	checkInterval := opts.CheckInterval
	if checkInterval <= 0 {
		checkInterval = defaults.CheckInterval
	}
	stallAfter := opts.StallAfter
	if stallAfter <= 0 {
		stallAfter = defaults.StallAfter
	}

	logrus.WithFields(logrus.Fields{
		"function":       "NewStallMonitor",
		"check_interval": checkInterval,
		"stall_after":    stallAfter,
	}).Info("Creating stall monitor")

	return &StallMonitor{
		checkInterval: checkInterval,
		stallAfter:    stallAfter,
		timeProvider:  getTimeProvider(opts.TimeProvider),
		onStall:       opts.OnStall,
		frames:        make(map[uint64]*trackedFrame),
	}
}

// Track records a frame as in flight. The returned function marks it
// complete and may be called more than once.
func (m *StallMonitor) Track(textureID texture.ID) func() {
	m.mu.Lock()
	m.sequence++
	seq := m.sequence
	m.frames[seq] = &trackedFrame{
		textureID:  textureID,
		dispatched: m.timeProvider.Now(),
	}
	m.mu.Unlock()

	return func() {
		m.mu.Lock()
		delete(m.frames, seq)
		m.mu.Unlock()
	}
}

// Pending returns the number of tracked frames still in flight.
func (m *StallMonitor) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.frames)
}

// Start begins periodic checks.
func (m *StallMonitor) Start() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.running {
		return ErrAlreadyRunning
	}

	m.ctx, m.cancel = context.WithCancel(context.Background())
	m.running = true

	m.wg.Add(1)
	go m.run(m.ctx)

	logrus.WithFields(logrus.Fields{
		"function":       "StallMonitor.Start",
		"check_interval": m.checkInterval,
	}).Info("Stall monitor started")

	return nil
}

// Stop ends periodic checks and waits for the check loop to exit.
func (m *StallMonitor) Stop() {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return
	}
	m.running = false
	m.cancel()
	m.mu.Unlock()

	m.wg.Wait()

	logrus.WithFields(logrus.Fields{
		"function": "StallMonitor.Stop",
	}).Info("Stall monitor stopped")
}

func (m *StallMonitor) run(ctx context.Context) {
	defer m.wg.Done()

	ticker := m.timeProvider.NewTicker(m.checkInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.Check()
		}
	}
}

// Check reports every in-flight frame older than the stall deadline that
// has not been reported before, ordered by dispatch sequence.
func (m *StallMonitor) Check() []StalledFrame {
	now := m.timeProvider.Now()

	m.mu.Lock()
	var stalled []StalledFrame
	for seq, frame := range m.frames {
		age := now.Sub(frame.dispatched)
		if frame.reported || age < m.stallAfter {
			continue
		}
		frame.reported = true
		stalled = append(stalled, StalledFrame{
			TextureID:  frame.textureID,
			Sequence:   seq,
			Dispatched: frame.dispatched,
			Age:        age,
		})
	}
	m.mu.Unlock()

	sort.Slice(stalled, func(i, j int) bool {
		return stalled[i].Sequence < stalled[j].Sequence
	})

	for _, s := range stalled {
		logrus.WithFields(logrus.Fields{
			"function":   "StallMonitor.Check",
			"texture_id": s.TextureID,
			"sequence":   s.Sequence,
			"age":        s.Age,
		}).Warn("Texture filter has not completed frame")

		if m.onStall != nil {
			m.onStall(s)
		}
	}

	return stalled
}
