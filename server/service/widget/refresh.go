package widget

import "time"

// nextChange finds the earliest future boundary and derives the poll hint
// from its distance to now, clamped to [MinRefreshSeconds,
// MaxRefreshSeconds]. With no boundaries the change time stays zero,
// rendered blank, and the hint falls back to DefaultRefreshSeconds.
func nextChange(now time.Time, boundaries []time.Time) (at time.Time, refreshSeconds int) {
	if len(boundaries) == 0 {
		return time.Time{}, DefaultRefreshSeconds
	}

	at = boundaries[0]
	for _, b := range boundaries[1:] {
		if b.Before(at) {
			at = b
		}
	}

	refreshSeconds = int(at.Sub(now).Seconds())
	if refreshSeconds < MinRefreshSeconds {
		refreshSeconds = MinRefreshSeconds
	}
	if refreshSeconds > MaxRefreshSeconds {
		refreshSeconds = MaxRefreshSeconds
	}
	return at, refreshSeconds
}
