package session

import (
	"time"

	"github.com/google/uuid"
)

// StudySession is one timed study interval. It is created when the timer
// starts, mutated exactly once when it stops (EndTime and DurationMinutes
// set together), and immutable afterwards.
type StudySession struct {
	ID              uuid.UUID  `json:"id" db:"id"`
	UserID          uuid.UUID  `json:"user_id" db:"user_id"`
	StartTime       time.Time  `json:"start_time" db:"start_time"`
	EndTime         *time.Time `json:"end_time" db:"end_time"`
	DurationMinutes *int       `json:"duration_minutes" db:"duration_minutes"`
}

// StopResponse carries the finalized session plus the accumulator values
// the dashboard shows right after stopping.
type StopResponse struct {
	Session       *StudySession `json:"session"`
	TotalHours    float64       `json:"total_hours"`
	CurrentStreak int           `json:"current_streak"`
}
