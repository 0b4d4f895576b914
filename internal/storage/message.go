package storage

import (
	"context"

	"github.com/fshub-online/aiph-lambda/internal/models"
)

const messageColumns = `id, display_start, display_end, title, message, priority, created_at, updated_at`

func (s *Storage) GetMessage(ctx context.Context, id int64) (*models.Message, error) {
	var m models.Message
	query := `SELECT ` + messageColumns + ` FROM messages WHERE id = $1`
	if err := s.db.GetContext(ctx, &m, query, id); err != nil {
		return nil, translate(err, "get message")
	}
	return &m, nil
}

func (s *Storage) ListMessages(ctx context.Context, page Page) ([]models.Message, error) {
	page = page.normalize()
	messages := make([]models.Message, 0)
	query := `SELECT ` + messageColumns + ` FROM messages ORDER BY id OFFSET $1 LIMIT $2`
	if err := s.db.SelectContext(ctx, &messages, query, page.Skip, page.Limit); err != nil {
		return nil, translate(err, "list messages")
	}
	return messages, nil
}

func (s *Storage) CreateMessage(ctx context.Context, m *models.Message) error {
	query := `
		INSERT INTO messages (display_start, display_end, title, message, priority)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`
	err := s.db.QueryRowxContext(ctx, query,
		m.DisplayStart, m.DisplayEnd, m.Title, m.Message, m.Priority,
	).Scan(&m.ID, &m.CreatedAt, &m.UpdatedAt)
	return translate(err, "create message")
}

func (s *Storage) UpdateMessage(ctx context.Context, m *models.Message) error {
	query := `
		UPDATE messages
		SET display_start = $1, display_end = $2, title = $3, message = $4, priority = $5, updated_at = NOW()
		WHERE id = $6
		RETURNING updated_at
	`
	err := s.db.QueryRowxContext(ctx, query,
		m.DisplayStart, m.DisplayEnd, m.Title, m.Message, m.Priority, m.ID,
	).Scan(&m.UpdatedAt)
	return translate(err, "update message")
}

func (s *Storage) DeleteMessage(ctx context.Context, id int64) error {
	return s.execOne(ctx, "delete message", `DELETE FROM messages WHERE id = $1`, id)
}
