// Package token issues and verifies operator session tokens.
package token

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/atinyakov/UserNotepad/internal/models"
)

// JWT issues HS256 tokens carrying the operator username as subject.
type JWT struct {
	secretKey []byte
	issuer    string
	audience  string
	ttl       time.Duration
	now       func() time.Time
}

// NewJWT creates a token manager signing with secretKey. Tokens expire ttl after issuance.
func NewJWT(secretKey, issuer, audience string, ttl time.Duration) *JWT {
	return &JWT{
		secretKey: []byte(secretKey),
		issuer:    issuer,
		audience:  audience,
		ttl:       ttl,
		now:       time.Now,
	}
}

// Issue mints a session for username. Every token carries a fresh jti.
func (j *JWT) Issue(username string) (models.Session, error) {
	now := j.now()
	expires := now.Add(j.ttl).Truncate(time.Second)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		Subject:   username,
		Issuer:    j.issuer,
		Audience:  jwt.ClaimStrings{j.audience},
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expires),
	})

	tokenString, err := token.SignedString(j.secretKey)
	if err != nil {
		return models.Session{}, fmt.Errorf("failed to sign token: %w", err)
	}

	return models.Session{Token: tokenString, ExpiresAt: expires.UTC()}, nil
}

// Parse verifies signature, expiry, issuer and audience and returns the subject.
func (j *JWT) Parse(tokenString string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return j.secretKey, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(j.issuer),
		jwt.WithAudience(j.audience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(j.now),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %w", models.ErrUnauthorized, err)
	}
	if !token.Valid {
		return "", fmt.Errorf("%w: token is invalid", models.ErrUnauthorized)
	}
	if claims.Subject == "" {
		return "", fmt.Errorf("%w: token has no subject", models.ErrUnauthorized)
	}
	return claims.Subject, nil
}
