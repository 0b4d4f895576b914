package storage

import (
	"context"

	"github.com/fshub-online/aiph-lambda/internal/models"
)

const objectiveColumns = `id, title, description, member_id, parent_id, priority, status, start_date, end_date,
	measurable_target, progress, created_at, updated_at`

func (s *Storage) GetObjective(ctx context.Context, id int64) (*models.Objective, error) {
	var o models.Objective
	query := `SELECT ` + objectiveColumns + ` FROM objectives WHERE id = $1`
	if err := s.db.GetContext(ctx, &o, query, id); err != nil {
		return nil, translate(err, "get objective")
	}
	return &o, nil
}

func (s *Storage) ListObjectives(ctx context.Context, page Page) ([]models.Objective, error) {
	page = page.normalize()
	objectives := make([]models.Objective, 0)
	query := `SELECT ` + objectiveColumns + ` FROM objectives ORDER BY id OFFSET $1 LIMIT $2`
	if err := s.db.SelectContext(ctx, &objectives, query, page.Skip, page.Limit); err != nil {
		return nil, translate(err, "list objectives")
	}
	return objectives, nil
}

func (s *Storage) CreateObjective(ctx context.Context, o *models.Objective) error {
	query := `
		INSERT INTO objectives (title, description, member_id, parent_id, priority, status,
			start_date, end_date, measurable_target, progress)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at, updated_at
	`
	err := s.db.QueryRowxContext(ctx, query,
		o.Title, o.Description, o.MemberID, o.ParentID, o.Priority, o.Status,
		o.StartDate, o.EndDate, o.MeasurableTarget, o.Progress,
	).Scan(&o.ID, &o.CreatedAt, &o.UpdatedAt)
	return translate(err, "create objective")
}

func (s *Storage) UpdateObjective(ctx context.Context, o *models.Objective) error {
	query := `
		UPDATE objectives
		SET title = $1, description = $2, member_id = $3, parent_id = $4, priority = $5, status = $6,
			start_date = $7, end_date = $8, measurable_target = $9, progress = $10, updated_at = NOW()
		WHERE id = $11
		RETURNING updated_at
	`
	err := s.db.QueryRowxContext(ctx, query,
		o.Title, o.Description, o.MemberID, o.ParentID, o.Priority, o.Status,
		o.StartDate, o.EndDate, o.MeasurableTarget, o.Progress, o.ID,
	).Scan(&o.UpdatedAt)
	return translate(err, "update objective")
}

func (s *Storage) DeleteObjective(ctx context.Context, id int64) error {
	return s.execOne(ctx, "delete objective", `DELETE FROM objectives WHERE id = $1`, id)
}
