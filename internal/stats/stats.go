package stats

import (
	"time"

	"studyRatsAPI/internal/timebucket"
)

// UserStats is the dashboard summary.
type UserStats struct {
	TotalHours    float64 `json:"total_hours"`
	CurrentStreak int     `json:"current_streak"`
	LongestStreak int     `json:"longest_streak"`
	TodayHours    float64 `json:"today_hours"`
	TodayGoalMet  bool    `json:"today_goal_met"`
	SessionsTotal int     `json:"sessions_total"`
}

// WeeklyResponse is the trailing 7-day chart plus goal progress.
type WeeklyResponse struct {
	Buckets         []timebucket.DayBucket `json:"buckets"`
	WeekHours       float64                `json:"week_hours"`
	WeeklyGoalHours float64                `json:"weekly_goal_hours"`
	WeeklyProgress  float64                `json:"weekly_progress"`
}

type CalendarDay struct {
	Date             time.Time `json:"date"`
	Label            string    `json:"label"`
	Hours            float64   `json:"hours"`
	HeatTier         int       `json:"heat_tier"`
	IsToday          bool      `json:"is_today"`
	HasGroupDeadline bool      `json:"has_group_deadline"`
}

type CalendarResponse struct {
	Year  int            `json:"year"`
	Month int            `json:"month"`
	Days  []*CalendarDay `json:"days"`
}
