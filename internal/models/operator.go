package models

import (
	"time"

	"github.com/google/uuid"
)

// Operator is an authenticated user of the management system.
type Operator struct {
	// ID is the unique identifier for the operator.
	ID uuid.UUID
	// Username is the login handle and token subject.
	Username string
	// Nickname is the display name.
	Nickname string
	// PasswordHash is the salted hash of the operator's password.
	PasswordHash []byte
}

// RegisterInput is the payload of the registration endpoint.
type RegisterInput struct {
	Username       string `json:"username"`
	Nickname       string `json:"nickname"`
	Password       string `json:"password"`
	RepeatPassword string `json:"repeatPassword"`
}

// LoginInput is the payload of the login endpoint.
type LoginInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Session is a signed, time-boxed token identifying an operator.
type Session struct {
	Token     string
	ExpiresAt time.Time
}

// LoginResult is returned to a client after a successful login.
type LoginResult struct {
	UserNickname  string    `json:"userNickname"`
	JwtToken      string    `json:"jwtToken"`
	JwtExpiration time.Time `json:"jwtExpiration"`
}

// Me describes the operator behind the current session.
type Me struct {
	Nickname string `json:"nickname"`
}
