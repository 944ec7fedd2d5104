package feed

import (
	"time"

	"github.com/google/uuid"
)

// StudyPost is one photo-proof entry on the social feed. Author fields are
// joined at read time; a deleted profile falls back to an anonymized name
// rather than hiding the post.
type StudyPost struct {
	ID              uuid.UUID  `json:"id" db:"id"`
	UserID          uuid.UUID  `json:"user_id" db:"user_id"`
	SessionID       *uuid.UUID `json:"session_id" db:"session_id"`
	PhotoURL        string     `json:"photo_url" db:"photo_url"`
	Title           string     `json:"title" db:"title"`
	Description     *string    `json:"description" db:"description"`
	CreatedAt       time.Time  `json:"created_at" db:"created_at"`
	AuthorName      string     `json:"author_name"`
	AuthorAvatarURL *string    `json:"author_avatar_url"`
	DurationMinutes *int       `json:"duration_minutes"`
}

// CreatePostRequest is assembled by the handler from the multipart form.
type CreatePostRequest struct {
	SessionID   *uuid.UUID
	Title       string
	Description string
	PhotoData   []byte
	ContentType string
	PhotoExt    string
}
