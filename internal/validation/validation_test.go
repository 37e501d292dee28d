package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type signupInput struct {
	Username string `json:"username" validate:"required,username"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Timezone string `json:"timezone" validate:"timezone"`
}

func TestStruct(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		err := Struct(signupInput{Username: "alice", Email: "alice@example.com", Password: "secret123", Timezone: "Europe/Paris"})
		assert.NoError(t, err)
	})

	t.Run("Invalid", func(t *testing.T) {
		err := Struct(signupInput{Username: "1x", Email: "nope", Password: "short", Timezone: "Mars/Olympus"})
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalid)
		assert.Contains(t, err.Error(), "username must start with a letter")
		assert.Contains(t, err.Error(), "email must be a valid email")
		assert.Contains(t, err.Error(), "password must be at least 8 characters")
		assert.Contains(t, err.Error(), "timezone must be a valid time zone")
	})

	t.Run("Required", func(t *testing.T) {
		err := Struct(signupInput{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "username is required")
	})
}

func TestFieldFormats(t *testing.T) {
	tests := []struct {
		name  string
		check func(string) bool
		in    string
		want  bool
	}{
		{"username ok", ValidUsername, "jane.doe-1", true},
		{"username too short", ValidUsername, "ab", false},
		{"username uppercase", ValidUsername, "Jane", false},
		{"username leading digit", ValidUsername, "1jane", false},
		{"slug ok", ValidSlug, "go-lang-2", true},
		{"slug space", ValidSlug, "go lang", false},
		{"slug empty", ValidSlug, "", false},
		{"timezone empty", ValidTimezone, "", true},
		{"timezone ok", ValidTimezone, "America/New_York", true},
		{"timezone bad", ValidTimezone, "Nowhere/Town", false},
		{"url https", ValidHTTPURL, "https://blog.example.com/feed", true},
		{"url ftp", ValidHTTPURL, "ftp://example.com/feed", false},
		{"url relative", ValidHTTPURL, "/feed.xml", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.check(tt.in))
		})
	}
	assert.Equal(t, "alice", CanonicalUsername("  Alice "))
}
