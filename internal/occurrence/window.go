package occurrence

import "time"

// Window is the due-window policy of a dispatch run.
type Window struct {
	Lookback time.Duration
	Limit    int
}

// DefaultWindow returns the 24 hour lookback and 100 item cap.
func DefaultWindow() Window {
	return Window{Lookback: DefaultLookback, Limit: DefaultLimit}
}

// Bounds returns the inclusive [from, to] range of due occurrence dates.
func (w Window) Bounds(now time.Time) (from, to time.Time) {
	return now.Add(-w.lookback()), now
}

// IsDue reports whether occurrence falls inside the window ending at now.
func (w Window) IsDue(occurrence, now time.Time) bool {
	return IsDue(occurrence, now, w.lookback())
}

func (w Window) lookback() time.Duration {
	if w.Lookback <= 0 {
		return DefaultLookback
	}
	return w.Lookback
}

// IsDue reports whether an item scheduled at occurrence should fire at now:
// it must not be in the future and not older than lookback.
func IsDue(occurrence, now time.Time, lookback time.Duration) bool {
	if occurrence.After(now) {
		return false
	}
	return !occurrence.Before(now.Add(-lookback))
}
