package http_test

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/atinyakov/UserNotepad/internal/models"
	handler "github.com/atinyakov/UserNotepad/internal/server/handler/http"
	"github.com/atinyakov/UserNotepad/internal/validation"
)

var fixedNow = time.Date(2024, time.June, 15, 8, 30, 5, 0, time.UTC)

func newValidator() *validation.Validator {
	return validation.New(
		validation.WithClock(func() time.Time { return fixedNow }),
		validation.WithPasswordMinLength(2),
	)
}

// fakeAuthService implements handler.AuthService for testing.
type fakeAuthService struct {
	registerErr error
	registered  *models.RegisterInput

	loginResult models.LoginResult
	loginErr    error

	me    models.Me
	meErr error
	meFor string
}

func (f *fakeAuthService) Register(_ context.Context, in models.RegisterInput) error {
	f.registered = &in
	return f.registerErr
}

func (f *fakeAuthService) Login(context.Context, models.LoginInput) (models.LoginResult, error) {
	return f.loginResult, f.loginErr
}

func (f *fakeAuthService) Me(_ context.Context, username string) (models.Me, error) {
	f.meFor = username
	return f.me, f.meErr
}

// fakePersonService records calls and returns preconfigured results.
type fakePersonService struct {
	page    models.Page[models.Person]
	gotPage models.PageInput

	person   models.Person
	gotID    uuid.UUID
	gotInput *models.PersonInput

	report      []byte
	generatedAt time.Time

	err error
}

func (f *fakePersonService) List(_ context.Context, page models.PageInput) (models.Page[models.Person], error) {
	f.gotPage = page
	return f.page, f.err
}

func (f *fakePersonService) Get(_ context.Context, id uuid.UUID) (models.Person, error) {
	f.gotID = id
	return f.person, f.err
}

func (f *fakePersonService) Create(_ context.Context, in models.PersonInput) (models.Person, error) {
	f.gotInput = &in
	return f.person, f.err
}

func (f *fakePersonService) Update(_ context.Context, id uuid.UUID, in models.PersonInput) (models.Person, error) {
	f.gotID = id
	f.gotInput = &in
	return f.person, f.err
}

func (f *fakePersonService) Delete(_ context.Context, id uuid.UUID) error {
	f.gotID = id
	return f.err
}

func (f *fakePersonService) Report(_ context.Context, generatedAt time.Time) ([]byte, error) {
	f.generatedAt = generatedAt
	return f.report, f.err
}

func newAuthHandler(svc *fakeAuthService) *handler.AuthHandler {
	return &handler.AuthHandler{AuthService: svc, Validator: newValidator(), Logger: zap.NewNop()}
}

func newUserHandler(svc *fakePersonService) *handler.UserHandler {
	return &handler.UserHandler{
		Persons:   svc,
		Validator: newValidator(),
		Logger:    zap.NewNop(),
		Now:       func() time.Time { return fixedNow },
	}
}
