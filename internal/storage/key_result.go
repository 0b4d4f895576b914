package storage

import (
	"context"

	"github.com/fshub-online/aiph-lambda/internal/models"
)

const keyResultColumns = `id, member_id, objective_id, title, description, value_definition, unit,
	start_value, current_value, target_value, status, priority, complexity, start_date, end_date,
	created_at, updated_at`

func (s *Storage) GetKeyResult(ctx context.Context, id int64) (*models.KeyResult, error) {
	var kr models.KeyResult
	query := `SELECT ` + keyResultColumns + ` FROM key_results WHERE id = $1`
	if err := s.db.GetContext(ctx, &kr, query, id); err != nil {
		return nil, translate(err, "get key result")
	}
	return &kr, nil
}

func (s *Storage) ListKeyResults(ctx context.Context, page Page) ([]models.KeyResult, error) {
	page = page.normalize()
	results := make([]models.KeyResult, 0)
	query := `SELECT ` + keyResultColumns + ` FROM key_results ORDER BY id OFFSET $1 LIMIT $2`
	if err := s.db.SelectContext(ctx, &results, query, page.Skip, page.Limit); err != nil {
		return nil, translate(err, "list key results")
	}
	return results, nil
}

func (s *Storage) CreateKeyResult(ctx context.Context, kr *models.KeyResult) error {
	query := `
		INSERT INTO key_results (member_id, objective_id, title, description, value_definition, unit,
			start_value, current_value, target_value, status, priority, complexity, start_date, end_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING id, created_at, updated_at
	`
	err := s.db.QueryRowxContext(ctx, query,
		kr.MemberID, kr.ObjectiveID, kr.Title, kr.Description, kr.ValueDefinition, kr.Unit,
		kr.StartValue, kr.CurrentValue, kr.TargetValue, kr.Status, kr.Priority, kr.Complexity,
		kr.StartDate, kr.EndDate,
	).Scan(&kr.ID, &kr.CreatedAt, &kr.UpdatedAt)
	return translate(err, "create key result")
}

func (s *Storage) UpdateKeyResult(ctx context.Context, kr *models.KeyResult) error {
	query := `
		UPDATE key_results
		SET member_id = $1, objective_id = $2, title = $3, description = $4, value_definition = $5,
			unit = $6, start_value = $7, current_value = $8, target_value = $9, status = $10,
			priority = $11, complexity = $12, start_date = $13, end_date = $14, updated_at = NOW()
		WHERE id = $15
		RETURNING updated_at
	`
	err := s.db.QueryRowxContext(ctx, query,
		kr.MemberID, kr.ObjectiveID, kr.Title, kr.Description, kr.ValueDefinition, kr.Unit,
		kr.StartValue, kr.CurrentValue, kr.TargetValue, kr.Status, kr.Priority, kr.Complexity,
		kr.StartDate, kr.EndDate, kr.ID,
	).Scan(&kr.UpdatedAt)
	return translate(err, "update key result")
}

func (s *Storage) DeleteKeyResult(ctx context.Context, id int64) error {
	return s.execOne(ctx, "delete key result", `DELETE FROM key_results WHERE id = $1`, id)
}
