// Package service provides the business logic for operators and persons,
// delegating persistence to repository interfaces.
package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/atinyakov/UserNotepad/internal/models"
)

// OperatorRepository defines the persistence operations
// required by the authentication service.
type OperatorRepository interface {
	// UserExists returns true if an operator with the given username exists.
	UserExists(ctx context.Context, username string) (bool, error)
	// Create stores a new operator. It returns models.ErrConflict when the username is taken.
	Create(ctx context.Context, op models.Operator) error
	// GetByUsername returns the operator or models.ErrNotFound.
	GetByUsername(ctx context.Context, username string) (models.Operator, error)
	// Count returns the number of operators.
	Count(ctx context.Context) (int, error)
}

// SessionIssuer mints session tokens for a verified operator.
type SessionIssuer interface {
	Issue(username string) (models.Session, error)
}

// AuthService implements registration, login and session lookup.
type AuthService struct {
	repo   OperatorRepository
	tokens SessionIssuer
	log    *zap.Logger
	cost   int
}

// AuthOption customises an AuthService.
type AuthOption func(*AuthService)

// WithHashCost sets the bcrypt cost used for new password hashes.
func WithHashCost(cost int) AuthOption {
	return func(s *AuthService) { s.cost = cost }
}

// NewAuthService constructs an AuthService using the provided repository and token issuer.
func NewAuthService(repo OperatorRepository, tokens SessionIssuer, log *zap.Logger, opts ...AuthOption) *AuthService {
	s := &AuthService{repo: repo, tokens: tokens, log: log, cost: bcrypt.DefaultCost}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// UserExists checks whether an operator with the specified username exists.
func (s *AuthService) UserExists(ctx context.Context, username string) (bool, error) {
	return s.repo.UserExists(ctx, username)
}

// HasOperators reports whether at least one operator is registered.
func (s *AuthService) HasOperators(ctx context.Context) (bool, error) {
	n, err := s.repo.Count(ctx)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Register creates an operator from in. The payload must already be validated.
// It returns models.ErrConflict when the username is taken.
func (s *AuthService) Register(ctx context.Context, in models.RegisterInput) error {
	exists, err := s.repo.UserExists(ctx, in.Username)
	if err != nil {
		return err
	}
	if exists {
		return models.ErrConflict
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	op := models.Operator{
		ID:           uuid.New(),
		Username:     in.Username,
		Nickname:     in.Nickname,
		PasswordHash: hash,
	}
	if err := s.repo.Create(ctx, op); err != nil {
		return err
	}
	s.log.Info("operator registered", zap.String("username", op.Username))
	return nil
}

// Login verifies the credentials and issues a session token.
// Unknown usernames and wrong passwords both yield models.ErrUnauthorized.
func (s *AuthService) Login(ctx context.Context, in models.LoginInput) (models.LoginResult, error) {
	op, err := s.repo.GetByUsername(ctx, in.Username)
	if errors.Is(err, models.ErrNotFound) {
		return models.LoginResult{}, models.ErrUnauthorized
	}
	if err != nil {
		return models.LoginResult{}, err
	}

	if err := bcrypt.CompareHashAndPassword(op.PasswordHash, []byte(in.Password)); err != nil {
		s.log.Debug("password mismatch", zap.String("username", in.Username))
		return models.LoginResult{}, models.ErrUnauthorized
	}

	session, err := s.tokens.Issue(op.Username)
	if err != nil {
		return models.LoginResult{}, err
	}

	return models.LoginResult{
		UserNickname:  op.Nickname,
		JwtToken:      session.Token,
		JwtExpiration: session.ExpiresAt,
	}, nil
}

// Me returns the profile of the operator named by a session subject.
// A subject that no longer names an operator yields models.ErrUnauthorized.
func (s *AuthService) Me(ctx context.Context, username string) (models.Me, error) {
	op, err := s.repo.GetByUsername(ctx, username)
	if errors.Is(err, models.ErrNotFound) {
		return models.Me{}, models.ErrUnauthorized
	}
	if err != nil {
		return models.Me{}, err
	}
	return models.Me{Nickname: op.Nickname}, nil
}
