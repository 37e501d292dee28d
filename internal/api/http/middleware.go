package http

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"pinax-social-backend/internal/config"
	"pinax-social-backend/internal/logger"
	"pinax-social-backend/internal/security"
)

type AuthMiddleware struct {
	tokenManager security.TokenManager
}

func NewAuthMiddleware(tm security.TokenManager) *AuthMiddleware {
	return &AuthMiddleware{tokenManager: tm}
}

// Handler authenticates requests according to the security level of the matched route.
// Public routes still accept an access token so handlers can personalize responses.
func (m *AuthMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		name := ""
		if route := mux.CurrentRoute(r); route != nil {
			name = route.GetName()
		}
		level := config.GetSecurityLevel(name)

		token := extractToken(r)
		if level == config.SecurityPublic {
			if token != "" {
				if claims, err := m.tokenManager.ValidateToken(token); err == nil && claims.Type == security.TokenTypeAccess {
					r = r.WithContext(withClaims(r.Context(), claims))
				}
			}
			next.ServeHTTP(w, r)
			return
		}

		if token == "" {
			writeMessage(w, http.StatusUnauthorized, "authorization token is not provided")
			return
		}
		claims, err := m.tokenManager.ValidateToken(token)
		if err != nil {
			msg := "invalid token"
			if errors.Is(err, security.ErrExpiredToken) {
				msg = "token has expired"
			}
			writeMessage(w, http.StatusUnauthorized, msg)
			return
		}
		if status, msg := checkSecurityLevel(level, claims); status != 0 {
			writeMessage(w, status, msg)
			return
		}

		next.ServeHTTP(w, r.WithContext(withClaims(r.Context(), claims)))
	})
}

func extractToken(r *http.Request) string {
	token := r.Header.Get("Authorization")
	if len(token) > 7 && strings.ToUpper(token[0:7]) == "BEARER " {
		token = token[7:]
	}
	return strings.TrimSpace(token)
}

func checkSecurityLevel(level config.SecurityLevel, claims *security.UserClaims) (int, string) {
	switch level {
	case config.SecurityRefresh:
		if claims.Type != security.TokenTypeRefresh {
			return http.StatusForbidden, "refresh token required"
		}
	case config.SecurityAccess:
		if claims.Type != security.TokenTypeAccess {
			return http.StatusForbidden, "access token required"
		}
	case config.SecurityStaff:
		if claims.Type != security.TokenTypeAccess {
			return http.StatusForbidden, "access token required"
		}
		if !claims.HasRole(security.RoleStaff) {
			return http.StatusForbidden, "staff access required"
		}
	}
	return 0, ""
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// LoggingMiddleware writes one access log line per request
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		args := []any{
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start),
		}
		if id := userID(r); id != 0 {
			args = append(args, "userID", id)
		}
		if rec.status >= http.StatusInternalServerError {
			logger.Error("HTTP request", args...)
			return
		}
		logger.Info("HTTP request", args...)
	})
}
