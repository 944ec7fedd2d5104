package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"studyRatsAPI/internal/profile"
)

type ProfileService struct {
	db *pgxpool.Pool
}

func NewProfileService(db *pgxpool.Pool) *ProfileService {
	return &ProfileService{db: db}
}

const profileColumns = `id, clerk_id, name, email, bio, avatar_url, total_hours, streak, longest_streak, last_session_date, daily_goal_hours, weekly_goal_hours, created_at, updated_at`

func scanProfile(row pgx.Row) (*profile.Profile, error) {
	p := &profile.Profile{}
	err := row.Scan(
		&p.ID,
		&p.ClerkID,
		&p.Name,
		&p.Email,
		&p.Bio,
		&p.AvatarURL,
		&p.TotalHours,
		&p.Streak,
		&p.LongestStreak,
		&p.LastSessionDate,
		&p.DailyGoalHours,
		&p.WeeklyGoalHours,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (s *ProfileService) CreateProfile(ctx context.Context, req *profile.CreateProfileRequest) (*profile.Profile, error) {
	query := `
	INSERT INTO profiles (id, clerk_id, name, email, avatar_url, daily_goal_hours, weekly_goal_hours, created_at, updated_at)
	VALUES ($1, $2, $3, $4, NULLIF($5, ''), 2, 10, NOW(), NOW())
	RETURNING ` + profileColumns

	p, err := scanProfile(s.db.QueryRow(ctx, query, uuid.New(), req.ClerkID, req.Name, req.Email, req.AvatarURL))
	if err != nil {
		return nil, fmt.Errorf("failed to create profile: %w", err)
	}
	return p, nil
}

func (s *ProfileService) GetProfileByClerkID(ctx context.Context, clerkID string) (*profile.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE clerk_id = $1`

	p, err := scanProfile(s.db.QueryRow(ctx, query, clerkID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("profile not found")
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return p, nil
}

// UpdateProfileByClerkID leaves any empty/nil field untouched. Goal values
// must be positive; a non-positive goal would make every progress view
// undefined, so it is rejected here before any write.
func (s *ProfileService) UpdateProfileByClerkID(ctx context.Context, clerkID string, req *profile.UpdateProfileRequest) (*profile.Profile, error) {
	if req.DailyGoalHours != nil && *req.DailyGoalHours <= 0 {
		return nil, fmt.Errorf("daily goal must be positive")
	}
	if req.WeeklyGoalHours != nil && *req.WeeklyGoalHours <= 0 {
		return nil, fmt.Errorf("weekly goal must be positive")
	}

	query := `
	UPDATE profiles
	SET
		name = COALESCE(NULLIF($2, ''), name),
		bio = COALESCE($3, bio),
		avatar_url = COALESCE(NULLIF($4, ''), avatar_url),
		daily_goal_hours = COALESCE($5, daily_goal_hours),
		weekly_goal_hours = COALESCE($6, weekly_goal_hours),
		updated_at = NOW()
	WHERE clerk_id = $1
	RETURNING ` + profileColumns

	p, err := scanProfile(s.db.QueryRow(
		ctx,
		query,
		clerkID,
		req.Name,
		req.Bio,
		req.AvatarURL,
		req.DailyGoalHours,
		req.WeeklyGoalHours,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("profile not found")
		}
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return p, nil
}

func (s *ProfileService) DeleteProfileByClerkID(ctx context.Context, clerkID string) error {
	result, err := s.db.Exec(ctx, `DELETE FROM profiles WHERE clerk_id = $1`, clerkID)
	if err != nil {
		return fmt.Errorf("failed to delete profile: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("profile not found")
	}
	return nil
}
