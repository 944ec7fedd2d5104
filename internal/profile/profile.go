package profile

import (
	"time"

	"github.com/google/uuid"
)

type Profile struct {
	ID              uuid.UUID  `json:"id" db:"id"`
	ClerkID         string     `json:"clerk_id" db:"clerk_id"`
	Name            string     `json:"name" db:"name"`
	Email           string     `json:"email" db:"email"`
	Bio             *string    `json:"bio" db:"bio"`
	AvatarURL       *string    `json:"avatar_url" db:"avatar_url"`
	TotalHours      float64    `json:"total_hours" db:"total_hours"`
	Streak          int        `json:"streak" db:"streak"`
	LongestStreak   int        `json:"longest_streak" db:"longest_streak"`
	LastSessionDate *time.Time `json:"last_session_date" db:"last_session_date"`
	DailyGoalHours  float64    `json:"daily_goal_hours" db:"daily_goal_hours"`
	WeeklyGoalHours float64    `json:"weekly_goal_hours" db:"weekly_goal_hours"`
	CreatedAt       time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at" db:"updated_at"`
}

type CreateProfileRequest struct {
	ClerkID   string `json:"clerk_id"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatar_url"`
}

// UpdateProfileRequest leaves untouched any field sent empty or nil.
type UpdateProfileRequest struct {
	Name            string   `json:"name"`
	Bio             *string  `json:"bio"`
	AvatarURL       string   `json:"avatar_url"`
	DailyGoalHours  *float64 `json:"daily_goal_hours"`
	WeeklyGoalHours *float64 `json:"weekly_goal_hours"`
}
