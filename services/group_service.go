package services

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/skip2/go-qrcode"
	"golang.org/x/crypto/bcrypt"

	"studyRatsAPI/internal/group"
	"studyRatsAPI/internal/ranking"
)

type GroupService struct {
	db *pgxpool.Pool
}

func NewGroupService(db *pgxpool.Pool) *GroupService {
	return &GroupService{db: db}
}

const groupColumns = `g.id, g.name, g.creator_id, g.metric, g.end_date, g.is_public, g.password_hash IS NOT NULL AS has_password, (SELECT COUNT(*) FROM group_members gm2 WHERE gm2.group_id = g.id) AS member_count, g.created_at`

func scanGroup(row pgx.Row) (*group.Group, error) {
	g := &group.Group{}
	err := row.Scan(
		&g.ID,
		&g.Name,
		&g.CreatorID,
		&g.Metric,
		&g.EndDate,
		&g.IsPublic,
		&g.HasPassword,
		&g.MemberCount,
		&g.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return g, nil
}

// CreateGroup validates the request, hashes the optional password and
// auto-joins the creator, all in one transaction.
func (s *GroupService) CreateGroup(ctx context.Context, clerkID string, req *group.CreateGroupRequest) (*group.Group, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("group name is required")
	}

	metric := ranking.Metric(req.Metric)
	if !metric.Valid() {
		return nil, fmt.Errorf("invalid metric: %s", req.Metric)
	}

	if req.EndDate.IsZero() {
		return nil, fmt.Errorf("end date is required")
	}

	var creatorID uuid.UUID
	err := s.db.QueryRow(ctx, `SELECT id FROM profiles WHERE clerk_id = $1`, clerkID).Scan(&creatorID)
	if err != nil {
		return nil, fmt.Errorf("user not found: %w", err)
	}

	var passwordHash *string
	if req.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash group password: %w", err)
		}
		h := string(hash)
		passwordHash = &h
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	insertQuery := `
	INSERT INTO groups (id, name, creator_id, metric, end_date, is_public, password_hash, invite_token, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())
	RETURNING id, name, creator_id, metric, end_date, is_public, password_hash IS NOT NULL, 0, created_at
	`

	g, err := scanGroup(tx.QueryRow(
		ctx,
		insertQuery,
		uuid.New(),
		name,
		creatorID,
		metric,
		req.EndDate,
		req.IsPublic,
		passwordHash,
		uuid.New().String(),
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create group: %w", err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO group_members (group_id, user_id, joined_at) VALUES ($1, $2, NOW())
	`, g.ID, creatorID)
	if err != nil {
		return nil, fmt.Errorf("failed to add creator as member: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit group creation: %w", err)
	}

	g.MemberCount = 1
	return g, nil
}

func (s *GroupService) GetUserGroups(ctx context.Context, clerkID string) ([]*group.Group, error) {
	query := `
	SELECT ` + groupColumns + `
	FROM groups g
	INNER JOIN group_members gm ON gm.group_id = g.id
	INNER JOIN profiles p ON p.id = gm.user_id
	WHERE p.clerk_id = $1
	ORDER BY g.end_date
	`

	return s.queryGroups(ctx, query, clerkID)
}

// GetDiscovery lists public groups the user has not joined yet.
func (s *GroupService) GetDiscovery(ctx context.Context, clerkID string) ([]*group.Group, error) {
	var userID uuid.UUID
	err := s.db.QueryRow(ctx, `SELECT id FROM profiles WHERE clerk_id = $1`, clerkID).Scan(&userID)
	if err != nil {
		return nil, fmt.Errorf("user not found: %w", err)
	}

	query := `
	SELECT ` + groupColumns + `
	FROM groups g
	WHERE g.is_public = true
		AND g.id NOT IN (
			SELECT gm.group_id FROM group_members gm WHERE gm.user_id = $1
		)
	ORDER BY g.created_at DESC
	LIMIT 50
	`

	return s.queryGroups(ctx, query, userID)
}

func (s *GroupService) queryGroups(ctx context.Context, query string, args ...any) ([]*group.Group, error) {
	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch groups: %w", err)
	}
	defer rows.Close()

	var groups []*group.Group
	for rows.Next() {
		g, err := scanGroup(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan group: %w", err)
		}
		groups = append(groups, g)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating groups: %w", err)
	}

	if groups == nil {
		groups = []*group.Group{}
	}
	return groups, nil
}

// JoinGroup verifies the password server-side against the stored bcrypt
// hash and inserts the membership idempotently: the composite primary key
// plus ON CONFLICT DO NOTHING means two racing joins produce one row.
func (s *GroupService) JoinGroup(ctx context.Context, clerkID string, groupID uuid.UUID, password string) error {
	var userID uuid.UUID
	err := s.db.QueryRow(ctx, `SELECT id FROM profiles WHERE clerk_id = $1`, clerkID).Scan(&userID)
	if err != nil {
		return fmt.Errorf("user not found: %w", err)
	}

	var passwordHash *string
	err = s.db.QueryRow(ctx, `SELECT password_hash FROM groups WHERE id = $1`, groupID).Scan(&passwordHash)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("group not found")
		}
		return fmt.Errorf("failed to fetch group: %w", err)
	}

	if passwordHash != nil {
		if err := bcrypt.CompareHashAndPassword([]byte(*passwordHash), []byte(password)); err != nil {
			log.Printf("JoinGroup: wrong password for group %s from %s", groupID, clerkID)
			return fmt.Errorf("incorrect group password")
		}
	}

	return s.insertMembership(ctx, groupID, userID)
}

// JoinByInviteToken consumes a QR invite; holding the token implies the
// inviter shared the password, so none is asked for.
func (s *GroupService) JoinByInviteToken(ctx context.Context, clerkID string, token string) (*group.Group, error) {
	var userID uuid.UUID
	err := s.db.QueryRow(ctx, `SELECT id FROM profiles WHERE clerk_id = $1`, clerkID).Scan(&userID)
	if err != nil {
		return nil, fmt.Errorf("user not found: %w", err)
	}

	g, err := scanGroup(s.db.QueryRow(ctx, `
		SELECT `+groupColumns+` FROM groups g WHERE g.invite_token = $1
	`, token))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("invalid invite token")
		}
		return nil, fmt.Errorf("failed to resolve invite: %w", err)
	}

	if err := s.insertMembership(ctx, g.ID, userID); err != nil {
		return nil, err
	}
	return g, nil
}

func (s *GroupService) insertMembership(ctx context.Context, groupID, userID uuid.UUID) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO group_members (group_id, user_id, joined_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (group_id, user_id) DO NOTHING
	`, groupID, userID)
	if err != nil {
		return fmt.Errorf("failed to join group: %w", err)
	}
	return nil
}

// GetRanking loads the member list in membership order and ranks it by the
// group's metric. A member whose profile row is gone still gets an entry
// with a zero value and the anonymized fallback name.
func (s *GroupService) GetRanking(ctx context.Context, clerkID string, groupID uuid.UUID) (*group.RankingResponse, error) {
	if _, err := s.requireMember(ctx, clerkID, groupID); err != nil {
		return nil, err
	}

	g, err := scanGroup(s.db.QueryRow(ctx, `SELECT `+groupColumns+` FROM groups g WHERE g.id = $1`, groupID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("group not found")
		}
		return nil, fmt.Errorf("failed to fetch group: %w", err)
	}

	query := `
	SELECT
		gm.user_id,
		p.id IS NULL AS profile_missing,
		COALESCE(p.name, ''),
		p.avatar_url,
		COALESCE(p.total_hours, 0),
		COALESCE(p.streak, 0)
	FROM group_members gm
	LEFT JOIN profiles p ON p.id = gm.user_id
	WHERE gm.group_id = $1
	ORDER BY gm.joined_at, gm.user_id
	`

	rows, err := s.db.Query(ctx, query, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch group members: %w", err)
	}
	defer rows.Close()

	var members []ranking.Member
	for rows.Next() {
		var m ranking.Member
		err := rows.Scan(
			&m.UserID,
			&m.ProfileMissing,
			&m.Name,
			&m.AvatarURL,
			&m.TotalHours,
			&m.Streak,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}
		members = append(members, m)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating members: %w", err)
	}

	return &group.RankingResponse{
		Group:   g,
		Entries: ranking.Build(members, g.Metric),
	}, nil
}

// GenerateInvite renders the group's invite token as a deep-link QR code.
func (s *GroupService) GenerateInvite(ctx context.Context, clerkID string, groupID uuid.UUID) (*group.InviteResponse, error) {
	if _, err := s.requireMember(ctx, clerkID, groupID); err != nil {
		return nil, err
	}

	var token string
	err := s.db.QueryRow(ctx, `SELECT invite_token FROM groups WHERE id = $1`, groupID).Scan(&token)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("group not found")
		}
		return nil, fmt.Errorf("failed to fetch invite token: %w", err)
	}

	qrContent := fmt.Sprintf("studyrats://groups/join/%s", token)

	pngBytes, err := qrcode.Encode(qrContent, qrcode.Medium, 256)
	if err != nil {
		return nil, fmt.Errorf("failed to generate QR png: %w", err)
	}

	return &group.InviteResponse{
		GroupID:      groupID,
		InviteToken:  token,
		QrCodeBase64: base64.StdEncoding.EncodeToString(pngBytes),
	}, nil
}

func (s *GroupService) requireMember(ctx context.Context, clerkID string, groupID uuid.UUID) (uuid.UUID, error) {
	var userID uuid.UUID
	err := s.db.QueryRow(ctx, `SELECT id FROM profiles WHERE clerk_id = $1`, clerkID).Scan(&userID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("user not found: %w", err)
	}

	var isMember bool
	err = s.db.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM group_members WHERE group_id = $1 AND user_id = $2)
	`, groupID, userID).Scan(&isMember)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to check membership: %w", err)
	}
	if !isMember {
		return uuid.Nil, fmt.Errorf("not a group member")
	}

	return userID, nil
}
