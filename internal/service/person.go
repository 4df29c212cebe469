package service

import (
	"bytes"
	"context"
	"io"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/atinyakov/UserNotepad/internal/attribute"
	"github.com/atinyakov/UserNotepad/internal/models"
)

// PersonRepository defines the persistence operations needed by the PersonService.
type PersonRepository interface {
	// Count returns the number of stored persons.
	Count(ctx context.Context) (int, error)
	// List returns one page of persons in creation order and the total count.
	List(ctx context.Context, offset, limit int) ([]models.Person, int, error)
	// ListAll returns every person in creation order.
	ListAll(ctx context.Context) ([]models.Person, error)
	// GetByID returns a person or models.ErrNotFound.
	GetByID(ctx context.Context, id uuid.UUID) (models.Person, error)
	// Create stores a person with its attributes.
	Create(ctx context.Context, p models.Person) (models.Person, error)
	// Update overwrites a person and reconciles its attributes with desired.
	Update(ctx context.Context, p models.Person, desired []models.AttributeInput) (models.Person, error)
	// Delete removes a person and its attributes or returns models.ErrNotFound.
	Delete(ctx context.Context, id uuid.UUID) error
}

// ReportRenderer writes the persons report document.
type ReportRenderer interface {
	Render(w io.Writer, persons []models.Person, generatedAt time.Time) error
}

// PersonService implements person management and reporting.
type PersonService struct {
	repo     PersonRepository
	renderer ReportRenderer
	log      *zap.Logger
	now      func() time.Time
}

// NewPersonService constructs a PersonService.
func NewPersonService(repo PersonRepository, renderer ReportRenderer, log *zap.Logger) *PersonService {
	return &PersonService{repo: repo, renderer: renderer, log: log, now: time.Now}
}

// List returns the requested page of persons.
func (s *PersonService) List(ctx context.Context, page models.PageInput) (models.Page[models.Person], error) {
	items, total, err := s.repo.List(ctx, page.Offset(), page.PageSize)
	if err != nil {
		return models.Page[models.Person]{}, err
	}
	return models.Page[models.Person]{
		Items:      items,
		TotalCount: total,
		Page:       page.Page,
		PageSize:   page.PageSize,
	}, nil
}

// Get returns the person with the given id.
func (s *PersonService) Get(ctx context.Context, id uuid.UUID) (models.Person, error) {
	return s.repo.GetByID(ctx, id)
}

// Count returns the number of stored persons.
func (s *PersonService) Count(ctx context.Context) (int, error) {
	return s.repo.Count(ctx)
}

// Create stores a new person built from a validated payload.
func (s *PersonService) Create(ctx context.Context, in models.PersonInput) (models.Person, error) {
	p := in.Person(uuid.New())
	p.CreatedAt = s.now().UTC()
	p.Attributes = attribute.Merge(p.ID, nil, in.Attributes).Insert

	created, err := s.repo.Create(ctx, p)
	if err != nil {
		return models.Person{}, err
	}
	s.log.Debug("person created", zap.Stringer("id", created.ID), zap.Int("attributes", len(created.Attributes)))
	return created, nil
}

// Update replaces the person with the given id by a validated payload.
func (s *PersonService) Update(ctx context.Context, id uuid.UUID, in models.PersonInput) (models.Person, error) {
	updated, err := s.repo.Update(ctx, in.Person(id), in.Attributes)
	if err != nil {
		return models.Person{}, err
	}
	s.log.Debug("person updated", zap.Stringer("id", id))
	return updated, nil
}

// Delete removes the person with the given id.
func (s *PersonService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Debug("person deleted", zap.Stringer("id", id))
	return nil
}

// Report renders every stored person into a PDF document dated generatedAt.
func (s *PersonService) Report(ctx context.Context, generatedAt time.Time) ([]byte, error) {
	persons, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := s.renderer.Render(&buf, persons, generatedAt); err != nil {
		return nil, err
	}
	s.log.Info("report generated", zap.Int("persons", len(persons)), zap.Int("bytes", buf.Len()))
	return buf.Bytes(), nil
}
