package group

import (
	"time"

	"github.com/google/uuid"

	"studyRatsAPI/internal/ranking"
)

// Group is immutable after creation except through membership changes.
// Passwords are stored bcrypt-hashed and never leave the service layer;
// clients only learn whether a password is required.
type Group struct {
	ID          uuid.UUID      `json:"id" db:"id"`
	Name        string         `json:"name" db:"name"`
	CreatorID   uuid.UUID      `json:"creator_id" db:"creator_id"`
	Metric      ranking.Metric `json:"metric" db:"metric"`
	EndDate     time.Time      `json:"end_date" db:"end_date"`
	IsPublic    bool           `json:"is_public" db:"is_public"`
	HasPassword bool           `json:"has_password"`
	MemberCount int            `json:"member_count"`
	CreatedAt   time.Time      `json:"created_at" db:"created_at"`
}

type CreateGroupRequest struct {
	Name     string    `json:"name"`
	Metric   string    `json:"metric"`
	EndDate  time.Time `json:"end_date"`
	IsPublic bool      `json:"is_public"`
	Password string    `json:"password,omitempty"`
}

type JoinGroupRequest struct {
	Password string `json:"password,omitempty"`
}

type JoinByTokenRequest struct {
	InviteToken string `json:"invite_token"`
}

// InviteResponse carries a deep-link QR for the group's invite token.
type InviteResponse struct {
	GroupID      uuid.UUID `json:"group_id"`
	InviteToken  string    `json:"invite_token"`
	QrCodeBase64 string    `json:"qr_code_base64"`
}

type RankingResponse struct {
	Group   *Group          `json:"group"`
	Entries []ranking.Entry `json:"entries"`
}
