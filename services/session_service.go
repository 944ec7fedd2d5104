package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"studyRatsAPI/internal/session"
	"studyRatsAPI/internal/streak"
)

type SessionService struct {
	db *pgxpool.Pool
}

func NewSessionService(db *pgxpool.Pool) *SessionService {
	return &SessionService{db: db}
}

// StartSession opens a running session for the user. Only one session may
// run at a time; the timer UI enforces this too, but two devices racing
// must not both win.
func (s *SessionService) StartSession(ctx context.Context, clerkID string) (*session.StudySession, error) {
	var userID uuid.UUID
	err := s.db.QueryRow(ctx, `SELECT id FROM profiles WHERE clerk_id = $1`, clerkID).Scan(&userID)
	if err != nil {
		return nil, fmt.Errorf("user not found: %w", err)
	}

	var running bool
	err = s.db.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM study_sessions WHERE user_id = $1 AND end_time IS NULL)
	`, userID).Scan(&running)
	if err != nil {
		return nil, fmt.Errorf("failed to check running session: %w", err)
	}
	if running {
		return nil, fmt.Errorf("a session is already running")
	}

	query := `
	INSERT INTO study_sessions (id, user_id, start_time)
	VALUES ($1, $2, NOW())
	RETURNING id, user_id, start_time, end_time, duration_minutes
	`

	sess := &session.StudySession{}
	err = s.db.QueryRow(ctx, query, uuid.New(), userID).Scan(
		&sess.ID,
		&sess.UserID,
		&sess.StartTime,
		&sess.EndTime,
		&sess.DurationMinutes,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to start session: %w", err)
	}

	return sess, nil
}

// GetActiveSession returns the user's running session, or nil without an
// error when there is none.
func (s *SessionService) GetActiveSession(ctx context.Context, clerkID string) (*session.StudySession, error) {
	query := `
	SELECT ss.id, ss.user_id, ss.start_time, ss.end_time, ss.duration_minutes
	FROM study_sessions ss
	JOIN profiles p ON p.id = ss.user_id
	WHERE p.clerk_id = $1 AND ss.end_time IS NULL
	ORDER BY ss.start_time DESC
	LIMIT 1
	`

	sess := &session.StudySession{}
	err := s.db.QueryRow(ctx, query, clerkID).Scan(
		&sess.ID,
		&sess.UserID,
		&sess.StartTime,
		&sess.EndTime,
		&sess.DurationMinutes,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get active session: %w", err)
	}

	return sess, nil
}

// StopSession finalizes a running session exactly once: end_time and
// duration_minutes are set, total_hours grows by an atomic in-store
// increment (never read-modify-write from here), and the streak rule is
// applied. Everything happens in one transaction so two devices stopping
// simultaneously cannot lose an increment.
func (s *SessionService) StopSession(ctx context.Context, clerkID string, sessionID uuid.UUID) (*session.StopResponse, error) {
	var userID uuid.UUID
	err := s.db.QueryRow(ctx, `SELECT id FROM profiles WHERE clerk_id = $1`, clerkID).Scan(&userID)
	if err != nil {
		return nil, fmt.Errorf("user not found: %w", err)
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	// end_time IS NULL guards against a second stop of the same session.
	stopQuery := `
	UPDATE study_sessions
	SET end_time = NOW(),
	    duration_minutes = FLOOR(EXTRACT(EPOCH FROM (NOW() - start_time)) / 60)::int
	WHERE id = $1 AND user_id = $2 AND end_time IS NULL
	RETURNING id, user_id, start_time, end_time, duration_minutes
	`

	sess := &session.StudySession{}
	err = tx.QueryRow(ctx, stopQuery, sessionID, userID).Scan(
		&sess.ID,
		&sess.UserID,
		&sess.StartTime,
		&sess.EndTime,
		&sess.DurationMinutes,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("session not found or already stopped")
		}
		return nil, fmt.Errorf("failed to stop session: %w", err)
	}

	var lastDate *time.Time
	var current int
	err = tx.QueryRow(ctx, `
		SELECT last_session_date, streak FROM profiles WHERE id = $1 FOR UPDATE
	`, userID).Scan(&lastDate, &current)
	if err != nil {
		return nil, fmt.Errorf("failed to read streak state: %w", err)
	}

	newStreak := streak.Advance(lastDate, *sess.EndTime, current)
	addedHours := float64(*sess.DurationMinutes) / 60

	var totalHours float64
	err = tx.QueryRow(ctx, `
		UPDATE profiles
		SET total_hours = total_hours + $2,
		    streak = $3,
		    longest_streak = GREATEST(longest_streak, $3),
		    last_session_date = $4::date,
		    updated_at = NOW()
		WHERE id = $1
		RETURNING total_hours
	`, userID, addedHours, newStreak, *sess.EndTime).Scan(&totalHours)
	if err != nil {
		return nil, fmt.Errorf("failed to update profile accumulators: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit session stop: %w", err)
	}

	log.Printf("StopSession: user %s finished %d minutes, streak now %d", clerkID, *sess.DurationMinutes, newStreak)

	return &session.StopResponse{
		Session:       sess,
		TotalHours:    totalHours,
		CurrentStreak: newStreak,
	}, nil
}
