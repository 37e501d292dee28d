package http

import (
	"context"
	"net/http"

	"pinax-social-backend/internal/security"
)

type contextKey int

const claimsKey contextKey = iota

func withClaims(ctx context.Context, claims *security.UserClaims) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}

// ClaimsFromContext returns the validated token claims set by the auth middleware.
func ClaimsFromContext(ctx context.Context) (*security.UserClaims, bool) {
	claims, ok := ctx.Value(claimsKey).(*security.UserClaims)
	return claims, ok
}

// userID returns the authenticated user, or 0 on public routes without a token.
func userID(r *http.Request) int32 {
	if claims, ok := ClaimsFromContext(r.Context()); ok {
		return claims.UserID
	}
	return 0
}
