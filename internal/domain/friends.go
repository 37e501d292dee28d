package domain

import "time"

type InvitationStatus string

const (
	InvitationStatusSent     InvitationStatus = "SENT"
	InvitationStatusAccepted InvitationStatus = "ACCEPTED"
	InvitationStatusDeclined InvitationStatus = "DECLINED"
	InvitationStatusJoined   InvitationStatus = "JOINED"
	InvitationStatusExpired  InvitationStatus = "EXPIRED"
)

// Friendship is stored once per pair; lookups check both directions.
type Friendship struct {
	FromUserID int32     `json:"from_user_id"`
	ToUserID   int32     `json:"to_user_id"`
	AddedOn    time.Time `json:"added_on"`
}

// Other returns the member of the friendship that is not userID.
func (f *Friendship) Other(userID int32) int32 {
	if f.FromUserID == userID {
		return f.ToUserID
	}
	return f.FromUserID
}

type FriendshipInvitation struct {
	ID         int32            `json:"id"`
	FromUserID int32            `json:"from_user_id"`
	ToUserID   int32            `json:"to_user_id"`
	Message    string           `json:"message"`
	SentOn     time.Time        `json:"sent_on"`
	Status     InvitationStatus `json:"status"`
}

type JoinInvitation struct {
	ID              int32            `json:"id"`
	FromUserID      int32            `json:"from_user_id"`
	Email           string           `json:"email"`
	Message         string           `json:"message"`
	SentOn          time.Time        `json:"sent_on"`
	Status          InvitationStatus `json:"status"`
	ConfirmationKey string           `json:"-"`
}
