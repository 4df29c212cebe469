package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/atinyakov/UserNotepad/internal/models"
	"github.com/atinyakov/UserNotepad/internal/validation"
)

// Listing defaults applied when the query omits them.
const (
	DefaultPage     = 1
	DefaultPageSize = 10
)

// PersonService defines the person operations required by the UserHandler.
type PersonService interface {
	List(ctx context.Context, page models.PageInput) (models.Page[models.Person], error)
	Get(ctx context.Context, id uuid.UUID) (models.Person, error)
	Create(ctx context.Context, in models.PersonInput) (models.Person, error)
	Update(ctx context.Context, id uuid.UUID, in models.PersonInput) (models.Person, error)
	Delete(ctx context.Context, id uuid.UUID) error
	// Report renders every person into a PDF document.
	Report(ctx context.Context, generatedAt time.Time) ([]byte, error)
}

// UserHandler handles the person management endpoints under /api/users.
type UserHandler struct {
	Persons   PersonService
	Validator *validation.Validator
	Logger    *zap.Logger
	// Now returns the report generation time. Defaults to time.Now.
	Now func() time.Time
}

// List handles GET /api/users?page=&pageSize=.
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	page, ok := pageFromQuery(r)
	if !ok {
		writeBadRequest(w)
		return
	}
	if err := h.Validator.Page(page); err != nil {
		writeError(w, r, h.Logger, err)
		return
	}

	res, err := h.Persons.List(r.Context(), page)
	if err != nil {
		writeError(w, r, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// Get handles GET /api/users/{id}.
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := idFromPath(r)
	if !ok {
		writeBadRequest(w)
		return
	}

	p, err := h.Persons.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// Create handles POST /api/users.
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	in, ok := h.decodePerson(w, r)
	if !ok {
		return
	}

	p, err := h.Persons.Create(r.Context(), in)
	if err != nil {
		writeError(w, r, h.Logger, err)
		return
	}
	w.Header().Set("Location", "/api/users/"+p.ID.String())
	writeJSON(w, http.StatusCreated, p)
}

// Update handles PUT /api/users/{id}.
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := idFromPath(r)
	if !ok {
		writeBadRequest(w)
		return
	}
	in, ok := h.decodePerson(w, r)
	if !ok {
		return
	}

	p, err := h.Persons.Update(r.Context(), id, in)
	if err != nil {
		writeError(w, r, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// Delete handles DELETE /api/users/{id}.
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := idFromPath(r)
	if !ok {
		writeBadRequest(w)
		return
	}

	if err := h.Persons.Delete(r.Context(), id); err != nil {
		writeError(w, r, h.Logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Report handles GET /api/users/report and streams the PDF inline.
func (h *UserHandler) Report(w http.ResponseWriter, r *http.Request) {
	now := h.Now
	if now == nil {
		now = time.Now
	}
	generatedAt := now().UTC()

	doc, err := h.Persons.Report(r.Context(), generatedAt)
	if err != nil {
		writeError(w, r, h.Logger, err)
		return
	}

	filename := generatedAt.Format("02-01-2006_15-04-05") + ".pdf"
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", filename))
	w.Header().Set("Access-Control-Expose-Headers", "Content-Disposition")
	w.Header().Set("Content-Length", strconv.Itoa(len(doc)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(doc)
}

func (h *UserHandler) decodePerson(w http.ResponseWriter, r *http.Request) (models.PersonInput, bool) {
	var in models.PersonInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeBadRequest(w)
		return models.PersonInput{}, false
	}
	if err := h.Validator.Person(in); err != nil {
		writeError(w, r, h.Logger, err)
		return models.PersonInput{}, false
	}
	return in, true
}

func pageFromQuery(r *http.Request) (models.PageInput, bool) {
	page := models.PageInput{Page: DefaultPage, PageSize: DefaultPageSize}
	q := r.URL.Query()
	if v := q.Get("page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return models.PageInput{}, false
		}
		page.Page = n
	}
	if v := q.Get("pageSize"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return models.PageInput{}, false
		}
		page.PageSize = n
	}
	return page, true
}

func idFromPath(r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}
