package streak

import "time"

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Advance applies the consecutive-day rule when a session completes.
// Same calendar day as the last completed session: unchanged. Exactly one
// day later, or no prior session at all: the streak grows. Any longer gap:
// back to 1.
func Advance(lastSessionDate *time.Time, today time.Time, current int) int {
	if lastSessionDate == nil {
		return 1
	}

	gap := int(dateOnly(today).Sub(dateOnly(*lastSessionDate)).Hours() / 24)
	switch {
	case gap == 0:
		return current
	case gap == 1:
		return current + 1
	default:
		return 1
	}
}

// Longest keeps the historical maximum alongside the current counter.
func Longest(current, longest int) int {
	if current > longest {
		return current
	}
	return longest
}
