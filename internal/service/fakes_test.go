package service

import (
	"context"
	"io"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/atinyakov/UserNotepad/internal/attribute"
	"github.com/atinyakov/UserNotepad/internal/models"
)

type mockOperatorRepo struct {
	UserExistsFunc    func(ctx context.Context, username string) (bool, error)
	CreateFunc        func(ctx context.Context, op models.Operator) error
	GetByUsernameFunc func(ctx context.Context, username string) (models.Operator, error)
	CountFunc         func(ctx context.Context) (int, error)
}

func (m *mockOperatorRepo) UserExists(ctx context.Context, username string) (bool, error) {
	return m.UserExistsFunc(ctx, username)
}
func (m *mockOperatorRepo) Create(ctx context.Context, op models.Operator) error {
	return m.CreateFunc(ctx, op)
}
func (m *mockOperatorRepo) GetByUsername(ctx context.Context, username string) (models.Operator, error) {
	return m.GetByUsernameFunc(ctx, username)
}
func (m *mockOperatorRepo) Count(ctx context.Context) (int, error) {
	return m.CountFunc(ctx)
}

// memOperatorRepo keeps operators in a map keyed by username.
type memOperatorRepo struct {
	ops map[string]models.Operator
}

func newMemOperatorRepo() *memOperatorRepo {
	return &memOperatorRepo{ops: map[string]models.Operator{}}
}

func (m *memOperatorRepo) UserExists(_ context.Context, username string) (bool, error) {
	_, ok := m.ops[username]
	return ok, nil
}
func (m *memOperatorRepo) Create(_ context.Context, op models.Operator) error {
	if _, ok := m.ops[op.Username]; ok {
		return models.ErrConflict
	}
	m.ops[op.Username] = op
	return nil
}
func (m *memOperatorRepo) GetByUsername(_ context.Context, username string) (models.Operator, error) {
	op, ok := m.ops[username]
	if !ok {
		return models.Operator{}, models.ErrNotFound
	}
	return op, nil
}
func (m *memOperatorRepo) Count(context.Context) (int, error) {
	return len(m.ops), nil
}

// memPersonRepo keeps persons in memory and applies attribute merges the
// same way the PostgreSQL repository does.
type memPersonRepo struct {
	persons map[uuid.UUID]models.Person
}

func newMemPersonRepo() *memPersonRepo {
	return &memPersonRepo{persons: map[uuid.UUID]models.Person{}}
}

func (m *memPersonRepo) ordered() []models.Person {
	out := make([]models.Person, 0, len(m.persons))
	for _, p := range m.persons {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID.String() < out[j].ID.String()
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

func (m *memPersonRepo) Count(context.Context) (int, error) { return len(m.persons), nil }

func (m *memPersonRepo) List(_ context.Context, offset, limit int) ([]models.Person, int, error) {
	all := m.ordered()
	if offset > len(all) {
		offset = len(all)
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], len(all), nil
}

func (m *memPersonRepo) ListAll(context.Context) ([]models.Person, error) { return m.ordered(), nil }

func (m *memPersonRepo) GetByID(_ context.Context, id uuid.UUID) (models.Person, error) {
	p, ok := m.persons[id]
	if !ok {
		return models.Person{}, models.ErrNotFound
	}
	return p, nil
}

func (m *memPersonRepo) Create(_ context.Context, p models.Person) (models.Person, error) {
	if p.Attributes == nil {
		p.Attributes = []models.Attribute{}
	}
	m.persons[p.ID] = p
	return p, nil
}

func (m *memPersonRepo) Update(_ context.Context, p models.Person, desired []models.AttributeInput) (models.Person, error) {
	current, ok := m.persons[p.ID]
	if !ok {
		return models.Person{}, models.ErrNotFound
	}
	p.CreatedAt = current.CreatedAt
	p.Attributes = attribute.Merge(p.ID, current.Attributes, desired).Result
	if p.Attributes == nil {
		p.Attributes = []models.Attribute{}
	}
	m.persons[p.ID] = p
	return p, nil
}

func (m *memPersonRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := m.persons[id]; !ok {
		return models.ErrNotFound
	}
	delete(m.persons, id)
	return nil
}

type stubIssuer struct {
	session models.Session
	err     error
	subject string
}

func (s *stubIssuer) Issue(username string) (models.Session, error) {
	s.subject = username
	return s.session, s.err
}

type fakeRenderer struct {
	persons     []models.Person
	generatedAt time.Time
	err         error
}

func (f *fakeRenderer) Render(w io.Writer, persons []models.Person, generatedAt time.Time) error {
	f.persons = persons
	f.generatedAt = generatedAt
	if f.err != nil {
		return f.err
	}
	_, err := io.WriteString(w, "%PDF-fake")
	return err
}
