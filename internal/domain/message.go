package domain

import "time"

type Message struct {
	ID                 int32      `json:"id"`
	Subject            string     `json:"subject"`
	Body               string     `json:"body"`
	SenderID           int32      `json:"sender_id"`
	RecipientID        int32      `json:"recipient_id"`
	ParentID           *int32     `json:"parent_id,omitempty"`
	SentAt             time.Time  `json:"sent_at"`
	ReadAt             *time.Time `json:"read_at,omitempty"`
	RepliedAt          *time.Time `json:"replied_at,omitempty"`
	SenderDeletedAt    *time.Time `json:"sender_deleted_at,omitempty"`
	RecipientDeletedAt *time.Time `json:"recipient_deleted_at,omitempty"`
}

func (m *Message) Unread() bool { return m.ReadAt == nil }

// Involves reports whether userID sent or received the message.
func (m *Message) Involves(userID int32) bool {
	return m.SenderID == userID || m.RecipientID == userID
}
