package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/atinyakov/UserNotepad/internal/models"
)

// PostgresOperatorRepository stores operator accounts.
type PostgresOperatorRepository struct {
	// DB is the database handle for executing queries.
	DB *sql.DB
}

// NewPostgresOperatorRepository creates a PostgresOperatorRepository using db.
func NewPostgresOperatorRepository(db *sql.DB) *PostgresOperatorRepository {
	return &PostgresOperatorRepository{DB: db}
}

// UserExists reports whether an operator with the given username exists.
func (s *PostgresOperatorRepository) UserExists(ctx context.Context, username string) (bool, error) {
	var exists bool
	err := s.DB.QueryRowContext(
		ctx,
		`SELECT EXISTS(SELECT 1 FROM operators WHERE username = $1)`,
		username,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check operator exists: %w", err)
	}
	return exists, nil
}

// Create inserts op. It returns models.ErrConflict when the username is taken.
func (s *PostgresOperatorRepository) Create(ctx context.Context, op models.Operator) error {
	res, err := s.DB.ExecContext(
		ctx,
		`INSERT INTO operators (id, username, nickname, password_hash) VALUES ($1, $2, $3, $4) ON CONFLICT (username) DO NOTHING`,
		op.ID, op.Username, op.Nickname, op.PasswordHash,
	)
	if err != nil {
		return fmt.Errorf("insert operator: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("insert operator: %w", err)
	}
	if n == 0 {
		return models.ErrConflict
	}
	return nil
}

// GetByUsername returns the operator with the given username or models.ErrNotFound.
func (s *PostgresOperatorRepository) GetByUsername(ctx context.Context, username string) (models.Operator, error) {
	var op models.Operator
	err := s.DB.QueryRowContext(
		ctx,
		`SELECT id, username, nickname, password_hash FROM operators WHERE username = $1`,
		username,
	).Scan(&op.ID, &op.Username, &op.Nickname, &op.PasswordHash)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Operator{}, models.ErrNotFound
	}
	if err != nil {
		return models.Operator{}, fmt.Errorf("get operator: %w", err)
	}
	return op, nil
}

// Count returns the number of registered operators.
func (s *PostgresOperatorRepository) Count(ctx context.Context) (int, error) {
	var total int
	if err := s.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM operators`).Scan(&total); err != nil {
		return 0, fmt.Errorf("count operators: %w", err)
	}
	return total, nil
}
