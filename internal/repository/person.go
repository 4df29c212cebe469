// Package repository provides PostgreSQL persistence for persons, their
// attributes and operators.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/atinyakov/UserNotepad/internal/attribute"
	"github.com/atinyakov/UserNotepad/internal/models"
)

type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// PostgresPersonRepository stores persons and their attribute sets.
type PostgresPersonRepository struct {
	// DB is the database handle for executing queries and transactions.
	DB *sql.DB
}

// NewPostgresPersonRepository creates a PostgresPersonRepository using db.
func NewPostgresPersonRepository(db *sql.DB) *PostgresPersonRepository {
	return &PostgresPersonRepository{DB: db}
}

// Count returns the number of stored persons.
func (s *PostgresPersonRepository) Count(ctx context.Context) (int, error) {
	var total int
	if err := s.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&total); err != nil {
		return 0, fmt.Errorf("count persons: %w", err)
	}
	return total, nil
}

// List returns limit persons after skipping offset, ordered by creation time,
// together with the total number of persons.
func (s *PostgresPersonRepository) List(ctx context.Context, offset, limit int) ([]models.Person, int, error) {
	total, err := s.Count(ctx)
	if err != nil {
		return nil, 0, err
	}

	rows, err := s.DB.QueryContext(ctx, `
		SELECT id, name, surname, birth_date, sex, created_at FROM users
		ORDER BY created_at, id LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list persons: %w", err)
	}
	persons, err := s.withAttributes(ctx, rows)
	if err != nil {
		return nil, 0, err
	}
	return persons, total, nil
}

// ListAll returns every person ordered by creation time.
func (s *PostgresPersonRepository) ListAll(ctx context.Context) ([]models.Person, error) {
	rows, err := s.DB.QueryContext(ctx, `
		SELECT id, name, surname, birth_date, sex, created_at FROM users
		ORDER BY created_at, id
	`)
	if err != nil {
		return nil, fmt.Errorf("list all persons: %w", err)
	}
	return s.withAttributes(ctx, rows)
}

// GetByID returns the person with the given id or models.ErrNotFound.
func (s *PostgresPersonRepository) GetByID(ctx context.Context, id uuid.UUID) (models.Person, error) {
	var p models.Person
	err := s.DB.QueryRowContext(ctx, `
		SELECT id, name, surname, birth_date, sex, created_at FROM users WHERE id = $1
	`, id).Scan(&p.ID, &p.Name, &p.Surname, &p.BirthDate.Time, &p.Sex, &p.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Person{}, models.ErrNotFound
	}
	if err != nil {
		return models.Person{}, fmt.Errorf("get person: %w", err)
	}
	p.BirthDate = models.DateOf(p.BirthDate.Time)

	attrs, err := s.AttributesByPerson(ctx, id)
	if err != nil {
		return models.Person{}, err
	}
	p.Attributes = attrs
	return p, nil
}

// AttributesByPerson returns the attributes owned by the person with the given id.
func (s *PostgresPersonRepository) AttributesByPerson(ctx context.Context, id uuid.UUID) ([]models.Attribute, error) {
	rows, err := s.DB.QueryContext(ctx, `
		SELECT id, user_id, key, value, value_type FROM attributes WHERE user_id = $1 ORDER BY key
	`, id)
	if err != nil {
		return nil, fmt.Errorf("get attributes: %w", err)
	}
	return scanAttributes(rows)
}

// Create inserts p and its attributes within one transaction. Attribute
// IDs and owner references must already be set.
func (s *PostgresPersonRepository) Create(ctx context.Context, p models.Person) (models.Person, error) {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return models.Person{}, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO users (id, name, surname, birth_date, sex, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, p.ID, p.Name, p.Surname, p.BirthDate.Time, p.Sex, p.CreatedAt)
	if err != nil {
		return models.Person{}, fmt.Errorf("insert person: %w", err)
	}

	for _, a := range p.Attributes {
		if err := insertAttribute(ctx, tx, a); err != nil {
			return models.Person{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return models.Person{}, fmt.Errorf("commit: %w", err)
	}
	if p.Attributes == nil {
		p.Attributes = []models.Attribute{}
	}
	return p, nil
}

// Update overwrites the core fields of p and reconciles its stored
// attributes with desired, all within one transaction. The attribute delta
// is computed by attribute.Merge and applied as explicit statements.
func (s *PostgresPersonRepository) Update(ctx context.Context, p models.Person, desired []models.AttributeInput) (models.Person, error) {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return models.Person{}, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	err = tx.QueryRowContext(ctx, `
		UPDATE users SET name = $2, surname = $3, birth_date = $4, sex = $5
		WHERE id = $1 RETURNING created_at
	`, p.ID, p.Name, p.Surname, p.BirthDate.Time, p.Sex).Scan(&p.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Person{}, models.ErrNotFound
	}
	if err != nil {
		return models.Person{}, fmt.Errorf("update person: %w", err)
	}

	rows, err := tx.QueryContext(ctx, `
		SELECT id, user_id, key, value, value_type FROM attributes WHERE user_id = $1 FOR UPDATE
	`, p.ID)
	if err != nil {
		return models.Person{}, fmt.Errorf("get attributes: %w", err)
	}
	existing, err := scanAttributes(rows)
	if err != nil {
		return models.Person{}, err
	}

	plan := attribute.Merge(p.ID, existing, desired)

	if len(plan.Delete) > 0 {
		if _, err := tx.ExecContext(ctx, `DELETE FROM attributes WHERE id = ANY($1)`, pq.Array(uuidStrings(plan.DeleteIDs()))); err != nil {
			return models.Person{}, fmt.Errorf("delete attributes: %w", err)
		}
	}
	for _, a := range plan.Update {
		if _, err := tx.ExecContext(ctx, `
			UPDATE attributes SET value = $2, value_type = $3 WHERE id = $1
		`, a.ID, a.Value, a.ValueType); err != nil {
			return models.Person{}, fmt.Errorf("update attribute: %w", err)
		}
	}
	for _, a := range plan.Insert {
		if err := insertAttribute(ctx, tx, a); err != nil {
			return models.Person{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return models.Person{}, fmt.Errorf("commit: %w", err)
	}

	p.Attributes = plan.Result
	if p.Attributes == nil {
		p.Attributes = []models.Attribute{}
	}
	return p, nil
}

// Delete removes the person with the given id. Its attributes are removed
// by the cascading foreign key.
func (s *PostgresPersonRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := s.DB.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete person: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete person: %w", err)
	}
	if n == 0 {
		return models.ErrNotFound
	}
	return nil
}

func insertAttribute(ctx context.Context, tx *sql.Tx, a models.Attribute) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO attributes (id, user_id, key, value, value_type)
		VALUES ($1, $2, $3, $4, $5)
	`, a.ID, a.PersonID, a.Key, a.Value, a.ValueType)
	if err != nil {
		return fmt.Errorf("insert attribute: %w", err)
	}
	return nil
}

// withAttributes scans person rows and attaches the attributes of every
// returned person using a single additional query.
func (s *PostgresPersonRepository) withAttributes(ctx context.Context, rows *sql.Rows) ([]models.Person, error) {
	persons, err := scanPersons(rows)
	if err != nil {
		return nil, err
	}
	if len(persons) == 0 {
		return persons, nil
	}

	ids := make([]uuid.UUID, 0, len(persons))
	for _, p := range persons {
		ids = append(ids, p.ID)
	}
	byPerson, err := loadAttributes(ctx, s.DB, ids)
	if err != nil {
		return nil, err
	}
	for i := range persons {
		if attrs, ok := byPerson[persons[i].ID]; ok {
			persons[i].Attributes = attrs
		}
	}
	return persons, nil
}

func loadAttributes(ctx context.Context, q queryer, ids []uuid.UUID) (map[uuid.UUID][]models.Attribute, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT id, user_id, key, value, value_type FROM attributes
		WHERE user_id = ANY($1) ORDER BY key
	`, pq.Array(uuidStrings(ids)))
	if err != nil {
		return nil, fmt.Errorf("load attributes: %w", err)
	}
	attrs, err := scanAttributes(rows)
	if err != nil {
		return nil, err
	}

	byPerson := make(map[uuid.UUID][]models.Attribute, len(ids))
	for _, a := range attrs {
		byPerson[a.PersonID] = append(byPerson[a.PersonID], a)
	}
	return byPerson, nil
}

func scanPersons(rows *sql.Rows) ([]models.Person, error) {
	defer rows.Close()

	persons := []models.Person{}
	for rows.Next() {
		var p models.Person
		if err := rows.Scan(&p.ID, &p.Name, &p.Surname, &p.BirthDate.Time, &p.Sex, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan person: %w", err)
		}
		p.BirthDate = models.DateOf(p.BirthDate.Time)
		p.Attributes = []models.Attribute{}
		persons = append(persons, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate persons: %w", err)
	}
	return persons, nil
}

func scanAttributes(rows *sql.Rows) ([]models.Attribute, error) {
	defer rows.Close()

	attrs := []models.Attribute{}
	for rows.Next() {
		var a models.Attribute
		if err := rows.Scan(&a.ID, &a.PersonID, &a.Key, &a.Value, &a.ValueType); err != nil {
			return nil, fmt.Errorf("scan attribute: %w", err)
		}
		attrs = append(attrs, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate attributes: %w", err)
	}
	return attrs, nil
}

func uuidStrings(ids []uuid.UUID) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, id.String())
	}
	return out
}
