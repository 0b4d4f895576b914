package storage

import (
	"context"

	"github.com/fshub-online/aiph-lambda/internal/models"
)

const memberColumns = `id, first_name, last_name, position, email, phone, note, supervisor_id, user_id, created_at, updated_at`

func (s *Storage) GetMember(ctx context.Context, id int64) (*models.Member, error) {
	var m models.Member
	query := `SELECT ` + memberColumns + ` FROM members WHERE id = $1`
	if err := s.db.GetContext(ctx, &m, query, id); err != nil {
		return nil, translate(err, "get member")
	}
	return &m, nil
}

func (s *Storage) GetMemberByUserID(ctx context.Context, userID int64) (*models.Member, error) {
	var m models.Member
	query := `SELECT ` + memberColumns + ` FROM members WHERE user_id = $1 ORDER BY id LIMIT 1`
	if err := s.db.GetContext(ctx, &m, query, userID); err != nil {
		return nil, translate(err, "get member by user")
	}
	return &m, nil
}

func (s *Storage) ListMembers(ctx context.Context, page Page) ([]models.Member, error) {
	page = page.normalize()
	members := make([]models.Member, 0)
	query := `SELECT ` + memberColumns + ` FROM members ORDER BY id OFFSET $1 LIMIT $2`
	if err := s.db.SelectContext(ctx, &members, query, page.Skip, page.Limit); err != nil {
		return nil, translate(err, "list members")
	}
	return members, nil
}

// ListMembersBySupervisor returns the direct reports of supervisorID.
func (s *Storage) ListMembersBySupervisor(ctx context.Context, supervisorID int64) ([]models.Member, error) {
	members := make([]models.Member, 0)
	query := `SELECT ` + memberColumns + ` FROM members WHERE supervisor_id = $1 ORDER BY id`
	if err := s.db.SelectContext(ctx, &members, query, supervisorID); err != nil {
		return nil, translate(err, "list subordinates")
	}
	return members, nil
}

func (s *Storage) CreateMember(ctx context.Context, m *models.Member) error {
	query := `
		INSERT INTO members (first_name, last_name, position, email, phone, note, supervisor_id, user_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at
	`
	err := s.db.QueryRowxContext(ctx, query,
		m.FirstName, m.LastName, m.Position, m.Email, m.Phone, m.Note, m.SupervisorID, m.UserID,
	).Scan(&m.ID, &m.CreatedAt, &m.UpdatedAt)
	return translate(err, "create member")
}

func (s *Storage) UpdateMember(ctx context.Context, m *models.Member) error {
	query := `
		UPDATE members
		SET first_name = $1, last_name = $2, position = $3, email = $4, phone = $5,
			note = $6, supervisor_id = $7, user_id = $8, updated_at = NOW()
		WHERE id = $9
		RETURNING updated_at
	`
	err := s.db.QueryRowxContext(ctx, query,
		m.FirstName, m.LastName, m.Position, m.Email, m.Phone, m.Note, m.SupervisorID, m.UserID, m.ID,
	).Scan(&m.UpdatedAt)
	return translate(err, "update member")
}

// DeleteMember removes one member. Subordinates keep their supervisor_id.
func (s *Storage) DeleteMember(ctx context.Context, id int64) error {
	return s.execOne(ctx, "delete member", `DELETE FROM members WHERE id = $1`, id)
}
