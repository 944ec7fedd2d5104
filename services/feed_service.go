package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"studyRatsAPI/internal/feed"
	"studyRatsAPI/internal/ranking"
	"studyRatsAPI/internal/storage"
)

type FeedService struct {
	db     *pgxpool.Pool
	photos storage.PhotoStore
}

func NewFeedService(db *pgxpool.Pool, photos storage.PhotoStore) *FeedService {
	return &FeedService{db: db, photos: photos}
}

// CreatePost validates before any store call: a missing photo or title
// aborts with no partial state. The photo goes to storage first; only a
// successful upload produces a post row.
func (s *FeedService) CreatePost(ctx context.Context, clerkID string, req *feed.CreatePostRequest) (*feed.StudyPost, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, fmt.Errorf("post title is required")
	}
	if len(req.PhotoData) == 0 {
		return nil, fmt.Errorf("post photo is required")
	}
	if s.photos == nil {
		return nil, fmt.Errorf("photo storage unavailable")
	}

	var userID uuid.UUID
	err := s.db.QueryRow(ctx, `SELECT id FROM profiles WHERE clerk_id = $1`, clerkID).Scan(&userID)
	if err != nil {
		return nil, fmt.Errorf("user not found: %w", err)
	}

	ext := req.PhotoExt
	if ext == "" {
		ext = "jpg"
	}
	objectName := fmt.Sprintf("%s/%d.%s", userID, time.Now().UnixMilli(), ext)

	photoURL, err := s.photos.UploadPhoto(ctx, objectName, req.ContentType, req.PhotoData)
	if err != nil {
		return nil, fmt.Errorf("failed to upload photo: %w", err)
	}

	query := `
	INSERT INTO study_posts (id, user_id, session_id, photo_url, title, description, created_at)
	VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), NOW())
	RETURNING id, user_id, session_id, photo_url, title, description, created_at
	`

	post := &feed.StudyPost{}
	err = s.db.QueryRow(
		ctx,
		query,
		uuid.New(),
		userID,
		req.SessionID,
		photoURL,
		title,
		strings.TrimSpace(req.Description),
	).Scan(
		&post.ID,
		&post.UserID,
		&post.SessionID,
		&post.PhotoURL,
		&post.Title,
		&post.Description,
		&post.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create post: %w", err)
	}

	return post, nil
}

// GetFeed returns posts newest-first with author data joined in. Deleted
// profiles keep their posts visible under the anonymized fallback name.
func (s *FeedService) GetFeed(ctx context.Context, limit int) ([]*feed.StudyPost, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	query := `
	SELECT
		sp.id,
		sp.user_id,
		sp.session_id,
		sp.photo_url,
		sp.title,
		sp.description,
		sp.created_at,
		COALESCE(p.name, $2) AS author_name,
		p.avatar_url,
		ss.duration_minutes
	FROM study_posts sp
	LEFT JOIN profiles p ON p.id = sp.user_id
	LEFT JOIN study_sessions ss ON ss.id = sp.session_id
	ORDER BY sp.created_at DESC
	LIMIT $1
	`

	rows, err := s.db.Query(ctx, query, limit, ranking.FallbackName)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch feed: %w", err)
	}
	defer rows.Close()

	var posts []*feed.StudyPost
	for rows.Next() {
		post := &feed.StudyPost{}
		err := rows.Scan(
			&post.ID,
			&post.UserID,
			&post.SessionID,
			&post.PhotoURL,
			&post.Title,
			&post.Description,
			&post.CreatedAt,
			&post.AuthorName,
			&post.AuthorAvatarURL,
			&post.DurationMinutes,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan post: %w", err)
		}
		posts = append(posts, post)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating posts: %w", err)
	}

	if posts == nil {
		posts = []*feed.StudyPost{}
	}
	return posts, nil
}
