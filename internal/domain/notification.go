package domain

import "time"

type NoticeMedium string

const (
	NoticeMediumEmail NoticeMedium = "email"
	NoticeMediumPush  NoticeMedium = "push"
)

var NoticeMediums = []NoticeMedium{NoticeMediumEmail, NoticeMediumPush}

func (m NoticeMedium) Valid() bool {
	return m == NoticeMediumEmail || m == NoticeMediumPush
}

type NoticeType struct {
	ID          int32  `json:"id"`
	Label       string `json:"label"`
	Display     string `json:"display"`
	Description string `json:"description"`
	DefaultSend bool   `json:"default_send"`
}

type NoticeSetting struct {
	UserID     int32        `json:"user_id"`
	NoticeType string       `json:"notice_type"`
	Medium     NoticeMedium `json:"medium"`
	Send       bool         `json:"send"`
}

type Notice struct {
	ID          int32             `json:"id"`
	RecipientID int32             `json:"recipient_id"`
	SenderID    *int32            `json:"sender_id,omitempty"`
	NoticeType  string            `json:"notice_type"`
	Message     string            `json:"message"`
	Attributes  map[string]string `json:"attributes"`
	AddedOn     time.Time         `json:"added_on"`
	Unseen      bool              `json:"unseen"`
	Archived    bool              `json:"archived"`
}

type QueuedNotice struct {
	ID        int32        `json:"id"`
	NoticeID  int32        `json:"notice_id"`
	Medium    NoticeMedium `json:"medium"`
	QueuedOn  time.Time    `json:"queued_on"`
	Attempts  int32        `json:"attempts"`
	LastError string       `json:"last_error"`
}

type Device struct {
	ID        int32     `json:"id"`
	UserID    int32     `json:"user_id"`
	Token     string    `json:"token"`
	Platform  string    `json:"platform"`
	CreatedOn time.Time `json:"created_on"`
}
