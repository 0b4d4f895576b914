package storage

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrConflict  = errors.New("unique constraint violated")
	ErrReference = errors.New("foreign key constraint violated")
)

const (
	DefaultLimit = 100
	MaxLimit     = 1000
)

type Storage struct {
	db *sqlx.DB
}

func NewStorage(db *sqlx.DB) *Storage {
	return &Storage{db: db}
}

func (s *Storage) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Page bounds a list query.
type Page struct {
	Skip  int
	Limit int
}

func (p Page) normalize() Page {
	if p.Skip < 0 {
		p.Skip = 0
	}
	if p.Limit <= 0 {
		p.Limit = DefaultLimit
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
	return p
}

// translate maps driver errors onto the package sentinels and wraps the rest
// with the failing operation.
func translate(err error, op string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case "23505":
			return errors.Wrapf(ErrConflict, "%s: %s", op, pqErr.Constraint)
		case "23503":
			return errors.Wrapf(ErrReference, "%s: %s", op, pqErr.Constraint)
		}
	}
	return errors.Wrap(err, op)
}

// execOne runs a statement that must touch exactly one row.
func (s *Storage) execOne(ctx context.Context, op, query string, args ...any) error {
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return translate(err, op)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, op)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
