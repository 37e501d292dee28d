package domain

import "time"

type User struct {
	ID           int32     `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Name         string    `json:"name"`
	About        string    `json:"about"`
	Location     string    `json:"location"`
	Website      string    `json:"website"`
	Timezone     string    `json:"timezone"`
	Language     string    `json:"language"`
	AvatarURL    string    `json:"avatar_url"`
	IsStaff      bool      `json:"is_staff"`
	CreatedOn    time.Time `json:"created_on"`
	UpdatedOn    time.Time `json:"updated_on"`
}

type EmailAddress struct {
	ID       int32  `json:"id"`
	UserID   int32  `json:"user_id"`
	Email    string `json:"email"`
	Verified bool   `json:"verified"`
	Primary  bool   `json:"primary"`
}

type EmailConfirmation struct {
	ID             int32     `json:"id"`
	EmailAddressID int32     `json:"email_address_id"`
	Key            string    `json:"-"`
	SentAt         time.Time `json:"sent_at"`
}

// Expired reports whether the confirmation is older than the allowed number of days.
func (c *EmailConfirmation) Expired(now time.Time, days int) bool {
	return c.SentAt.Add(time.Duration(days) * 24 * time.Hour).Before(now)
}

type PasswordReset struct {
	ID        int32      `json:"id"`
	UserID    int32      `json:"user_id"`
	TokenHash string     `json:"-"`
	ExpiresAt time.Time  `json:"expires_at"`
	UsedAt    *time.Time `json:"used_at,omitempty"`
}

type Avatar struct {
	ID         int32     `json:"id"`
	UserID     int32     `json:"user_id"`
	StorageKey string    `json:"storage_key"`
	URL        string    `json:"url"`
	Primary    bool      `json:"primary"`
	CreatedOn  time.Time `json:"created_on"`
}
