// Package middleware provides HTTP middlewares for authentication and logging.
package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"go.uber.org/zap"
)

type ctxKey string

const operatorKey ctxKey = "operator"

// TokenParser verifies a session token and returns its subject.
type TokenParser interface {
	Parse(token string) (string, error)
}

// JWTAuth is a middleware that requires a valid bearer session token.
//
// The token is read from the Authorization header. On success the operator
// username carried as token subject is stored in the request context, so it
// can be used downstream. Missing, malformed, expired or foreign tokens are
// rejected with 401 Unauthorized.
func JWTAuth(parser TokenParser, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, ok := bearerToken(r.Header.Get("Authorization"))
			if !ok {
				unauthorized(w)
				return
			}
			username, err := parser.Parse(raw)
			if err != nil {
				logger.Debug("rejected session token", zap.Error(err))
				unauthorized(w)
				return
			}
			ctx := context.WithValue(r.Context(), operatorKey, username)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// unauthorized writes the same JSON body the API handlers use for 401.
func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{"message": "unauthorized"})
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// GetOperatorFromContext extracts the operator username stored by JWTAuth
// from the request context. Returns an empty string if not found.
func GetOperatorFromContext(ctx context.Context) string {
	val := ctx.Value(operatorKey)
	if s, ok := val.(string); ok {
		return s
	}
	return ""
}
