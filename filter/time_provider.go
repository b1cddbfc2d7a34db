package filter

import "time"

// TimeProvider supplies the clock used by StallMonitor to age in-flight
// frames. Tests substitute a clock they advance by hand.
type TimeProvider interface {
	// Now is the reference time for dispatch and stall ages.
	Now() time.Time
	// NewTicker drives the monitor's periodic checks.
	NewTicker(d time.Duration) *time.Ticker
}

// RealTimeProvider reads the wall clock.
type RealTimeProvider struct{}

// Now returns time.Now().
func (RealTimeProvider) Now() time.Time {
	return time.Now()
}

// NewTicker returns time.NewTicker(d).
func (RealTimeProvider) NewTicker(d time.Duration) *time.Ticker {
	return time.NewTicker(d)
}

func getTimeProvider(tp TimeProvider) TimeProvider {
	if tp == nil {
		return RealTimeProvider{}
	}
	return tp
}
