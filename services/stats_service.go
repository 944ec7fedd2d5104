package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"studyRatsAPI/internal/stats"
	"studyRatsAPI/internal/timebucket"
	"studyRatsAPI/utils"
)

type StatsService struct {
	db *pgxpool.Pool
}

func NewStatsService(db *pgxpool.Pool) *StatsService {
	return &StatsService{db: db}
}

// Calendar days are computed in UTC everywhere; the deployment serves a
// single timezone and mixing server-local with query boundaries would
// shift sessions across buckets.
var statsLocation = time.UTC

// fetchSessionRows is the single ranged query all bucketed views run on:
// [startInclusive, endExclusive), one round trip per window regardless of
// how many days it spans.
func (s *StatsService) fetchSessionRows(ctx context.Context, userID uuid.UUID, startInclusive, endExclusive time.Time) ([]timebucket.Row, error) {
	query := `
	SELECT start_time, duration_minutes
	FROM study_sessions
	WHERE user_id = $1
		AND start_time >= $2
		AND start_time < $3
	ORDER BY start_time
	`

	rows, err := s.db.Query(ctx, query, userID, startInclusive, endExclusive)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch sessions: %w", err)
	}
	defer rows.Close()

	var result []timebucket.Row
	for rows.Next() {
		var r timebucket.Row
		if err := rows.Scan(&r.StartTime, &r.DurationMinutes); err != nil {
			return nil, fmt.Errorf("failed to scan session row: %w", err)
		}
		result = append(result, r)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating session rows: %w", err)
	}

	return result, nil
}

func (s *StatsService) GetWeeklyStats(ctx context.Context, clerkID string) (*stats.WeeklyResponse, error) {
	var userID uuid.UUID
	var weeklyGoal float64
	err := s.db.QueryRow(ctx, `SELECT id, weekly_goal_hours FROM profiles WHERE clerk_id = $1`, clerkID).Scan(&userID, &weeklyGoal)
	if err != nil {
		return nil, fmt.Errorf("user not found: %w", err)
	}

	now := time.Now().In(statsLocation)
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, statsLocation).AddDate(0, 0, -6)
	end := start.AddDate(0, 0, 7)

	rows, err := s.fetchSessionRows(ctx, userID, start, end)
	if err != nil {
		return nil, err
	}

	buckets := timebucket.WeekBuckets(rows, now, statsLocation)

	var weekHours float64
	for _, b := range buckets {
		weekHours += b.Hours
	}

	return &stats.WeeklyResponse{
		Buckets:         buckets,
		WeekHours:       weekHours,
		WeeklyGoalHours: weeklyGoal,
		WeeklyProgress:  utils.GoalProgress(weekHours, weeklyGoal),
	}, nil
}

// GetCalendar builds the monthly heatmap: one bucket per calendar day with
// its intensity tier, plus markers on days where one of the user's groups
// ends.
func (s *StatsService) GetCalendar(ctx context.Context, clerkID string, year int, month int) (*stats.CalendarResponse, error) {
	var userID uuid.UUID
	err := s.db.QueryRow(ctx, `SELECT id FROM profiles WHERE clerk_id = $1`, clerkID).Scan(&userID)
	if err != nil {
		return nil, fmt.Errorf("user not found: %w", err)
	}

	first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, statsLocation)
	next := first.AddDate(0, 1, 0)

	rows, err := s.fetchSessionRows(ctx, userID, first, next)
	if err != nil {
		return nil, err
	}

	deadlines, err := s.fetchGroupDeadlines(ctx, userID)
	if err != nil {
		return nil, err
	}

	buckets := timebucket.MonthBuckets(rows, year, time.Month(month), statsLocation)
	today := time.Now().In(statsLocation).Format("2006-01-02")

	days := make([]*stats.CalendarDay, 0, len(buckets))
	for _, b := range buckets {
		dateStr := b.Date.Format("2006-01-02")
		days = append(days, &stats.CalendarDay{
			Date:             b.Date,
			Label:            b.Label,
			Hours:            b.Hours,
			HeatTier:         timebucket.HeatTier(b.Hours),
			IsToday:          dateStr == today,
			HasGroupDeadline: deadlines[dateStr],
		})
	}

	return &stats.CalendarResponse{
		Year:  year,
		Month: month,
		Days:  days,
	}, nil
}

// Creators are auto-joined at group creation, so membership alone covers
// "created or joined".
func (s *StatsService) fetchGroupDeadlines(ctx context.Context, userID uuid.UUID) (map[string]bool, error) {
	query := `
	SELECT DISTINCT g.end_date
	FROM groups g
	INNER JOIN group_members gm ON gm.group_id = g.id
	WHERE gm.user_id = $1
	`

	rows, err := s.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch group deadlines: %w", err)
	}
	defer rows.Close()

	deadlines := make(map[string]bool)
	for rows.Next() {
		var endDate time.Time
		if err := rows.Scan(&endDate); err != nil {
			return nil, fmt.Errorf("failed to scan deadline: %w", err)
		}
		deadlines[endDate.In(statsLocation).Format("2006-01-02")] = true
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating deadlines: %w", err)
	}

	return deadlines, nil
}

func (s *StatsService) GetUserStats(ctx context.Context, clerkID string) (*stats.UserStats, error) {
	now := time.Now().In(statsLocation)
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, statsLocation)
	tomorrow := todayStart.AddDate(0, 0, 1)

	query := `
	SELECT
		p.total_hours,
		p.streak,
		p.longest_streak,
		p.daily_goal_hours,
		COALESCE((
			SELECT SUM(ss.duration_minutes)
			FROM study_sessions ss
			WHERE ss.user_id = p.id
				AND ss.duration_minutes IS NOT NULL
				AND ss.start_time >= $2
				AND ss.start_time < $3
		), 0) AS today_minutes,
		(
			SELECT COUNT(*)
			FROM study_sessions ss
			WHERE ss.user_id = p.id AND ss.duration_minutes IS NOT NULL
		) AS sessions_total
	FROM profiles p
	WHERE p.clerk_id = $1
	`

	var dailyGoal float64
	var todayMinutes int
	result := &stats.UserStats{}
	err := s.db.QueryRow(ctx, query, clerkID, todayStart, tomorrow).Scan(
		&result.TotalHours,
		&result.CurrentStreak,
		&result.LongestStreak,
		&dailyGoal,
		&todayMinutes,
		&result.SessionsTotal,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get user stats: %w", err)
	}

	result.TodayHours = timebucket.RoundHours(todayMinutes)
	result.TodayGoalMet = dailyGoal > 0 && result.TodayHours >= dailyGoal

	return result, nil
}
