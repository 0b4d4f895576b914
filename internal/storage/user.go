package storage

import (
	"context"

	"github.com/fshub-online/aiph-lambda/internal/models"
)

const userColumns = `id, user_name, first_name, last_name, position, notes, email, phone, hashed_password, created_at, updated_at`

func (s *Storage) GetUser(ctx context.Context, id int64) (*models.User, error) {
	var user models.User
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	if err := s.db.GetContext(ctx, &user, query, id); err != nil {
		return nil, translate(err, "get user")
	}
	return &user, nil
}

func (s *Storage) GetUserByUserName(ctx context.Context, userName string) (*models.User, error) {
	var user models.User
	query := `SELECT ` + userColumns + ` FROM users WHERE user_name = $1`
	if err := s.db.GetContext(ctx, &user, query, userName); err != nil {
		return nil, translate(err, "get user by name")
	}
	return &user, nil
}

func (s *Storage) ListUsers(ctx context.Context, page Page) ([]models.User, error) {
	page = page.normalize()
	users := make([]models.User, 0)
	query := `SELECT ` + userColumns + ` FROM users ORDER BY id OFFSET $1 LIMIT $2`
	if err := s.db.SelectContext(ctx, &users, query, page.Skip, page.Limit); err != nil {
		return nil, translate(err, "list users")
	}
	return users, nil
}

func (s *Storage) CountUsers(ctx context.Context) (int, error) {
	var n int
	if err := s.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM users`); err != nil {
		return 0, translate(err, "count users")
	}
	return n, nil
}

// CreateUser inserts u. Duplicate user_name or email yields ErrConflict.
func (s *Storage) CreateUser(ctx context.Context, u *models.User) error {
	query := `
		INSERT INTO users (user_name, first_name, last_name, position, notes, email, phone, hashed_password)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at
	`
	err := s.db.QueryRowxContext(ctx, query,
		u.UserName, u.FirstName, u.LastName, u.Position, u.Notes, u.Email, u.Phone, u.PasswordHash,
	).Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt)
	return translate(err, "create user")
}

func (s *Storage) UpdateUser(ctx context.Context, u *models.User) error {
	query := `
		UPDATE users
		SET user_name = $1, first_name = $2, last_name = $3, position = $4, notes = $5,
			email = $6, phone = $7, hashed_password = $8, updated_at = NOW()
		WHERE id = $9
		RETURNING updated_at
	`
	err := s.db.QueryRowxContext(ctx, query,
		u.UserName, u.FirstName, u.LastName, u.Position, u.Notes, u.Email, u.Phone, u.PasswordHash, u.ID,
	).Scan(&u.UpdatedAt)
	return translate(err, "update user")
}

func (s *Storage) DeleteUser(ctx context.Context, id int64) error {
	return s.execOne(ctx, "delete user", `DELETE FROM users WHERE id = $1`, id)
}
