package filter

import "sync/atomic"

// Stats is a snapshot of bridge counters.
type Stats struct {
	// Dispatched counts accepted DispatchFrame calls.
	Dispatched uint64
	// Completed counts completions delivered to callers, including
	// pass-through completions.
	Completed uint64
	// PassThrough counts frames completed by the bridge because no filter
	// was registered.
	PassThrough uint64
	// Violations counts double completions caught by the guard.
	Violations uint64
	// Rejected counts DispatchFrame calls that failed precondition checks.
	Rejected uint64
	// InFlight is the number of dispatched frames still awaiting completion.
	InFlight int64
}

type statsCounters struct {
	dispatched  atomic.Uint64
	completed   atomic.Uint64
	passThrough atomic.Uint64
	violations  atomic.Uint64
	rejected    atomic.Uint64
}

func (c *statsCounters) snapshot() Stats {
	s := Stats{
		Completed:   c.completed.Load(),
		PassThrough: c.passThrough.Load(),
		Violations:  c.violations.Load(),
		Rejected:    c.rejected.Load(),
	}
	// Loaded last so InFlight never goes negative in a racing snapshot.
	s.Dispatched = c.dispatched.Load()
	s.InFlight = int64(s.Dispatched) - int64(s.Completed)
	if s.InFlight < 0 {
		s.InFlight = 0
	}
	return s
}
