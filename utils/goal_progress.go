package utils

// GoalProgress returns the weekly goal completion percentage, clamped to
// [0, 100]. A goal of zero or less yields 0 instead of dividing by it:
// goal edits are validated at input time, but old rows may still carry a
// bad value.
func GoalProgress(hours, goal float64) float64 {
	if goal <= 0 || hours <= 0 {
		return 0
	}

	progress := hours / goal * 100
	if progress > 100 {
		return 100
	}
	return progress
}
