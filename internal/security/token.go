package security

import (
	"errors"
	"slices"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidToken   = errors.New("invalid token")
	ErrExpiredToken   = errors.New("token has expired")
	ErrWrongTokenType = errors.New("wrong token type for this endpoint")
)

type TokenType string

const (
	TokenTypeAccess  TokenType = "access"
	TokenTypeRefresh TokenType = "refresh"
)

const RoleStaff = "staff"

const issuer = "pinax-auth"

// UserClaims defines the standard claims for our application
type UserClaims struct {
	UserID   int32     `json:"user_id"`
	Username string    `json:"username,omitempty"`
	Type     TokenType `json:"type"`
	Roles    []string  `json:"roles,omitempty"`
	jwt.RegisteredClaims
}

// HasRole reports whether the token carries role
func (c *UserClaims) HasRole(role string) bool {
	return slices.Contains(c.Roles, role)
}

type TokenManager interface {
	GenerateAccessToken(userID int32, username string, roles []string) (string, error)
	GenerateRefreshToken(userID int32, username string) (string, error)
	ValidateToken(tokenString string) (*UserClaims, error)
}

type tokenManager struct {
	secret        []byte
	accessExpiry  time.Duration
	refreshExpiry time.Duration
	now           func() time.Time
}

// NewTokenManager creates a manager signing with HS256. Non-positive expiries fall
// back to one hour and seven days.
func NewTokenManager(secret string, accessExpiry, refreshExpiry time.Duration) TokenManager {
	if accessExpiry <= 0 {
		accessExpiry = time.Hour
	}
	if refreshExpiry <= 0 {
		refreshExpiry = 7 * 24 * time.Hour
	}
	return &tokenManager{
		secret:        []byte(secret),
		accessExpiry:  accessExpiry,
		refreshExpiry: refreshExpiry,
		now:           time.Now,
	}
}

func (m *tokenManager) GenerateAccessToken(userID int32, username string, roles []string) (string, error) {
	return m.sign(userID, username, TokenTypeAccess, roles, m.accessExpiry, "api-access")
}

func (m *tokenManager) GenerateRefreshToken(userID int32, username string) (string, error) {
	return m.sign(userID, username, TokenTypeRefresh, nil, m.refreshExpiry, "token-refresh")
}

func (m *tokenManager) sign(userID int32, username string, typ TokenType, roles []string, ttl time.Duration, audience string) (string, error) {
	now := m.now()
	claims := UserClaims{
		UserID:   userID,
		Username: username,
		Type:     typ,
		Roles:    roles,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.Itoa(int(userID)),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    issuer,
			Audience:  jwt.ClaimStrings{audience},
			ID:        uuid.NewString(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

func (m *tokenManager) ValidateToken(tokenString string) (*UserClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &UserClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return m.secret, nil
	}, jwt.WithIssuer(issuer), jwt.WithTimeFunc(m.now))

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	if claims, ok := token.Claims.(*UserClaims); ok && token.Valid {
		if claims.UserID == 0 && claims.Subject != "" {
			uid, _ := strconv.Atoi(claims.Subject)
			claims.UserID = int32(uid)
		}
		return claims, nil
	}

	return nil, ErrInvalidToken
}
