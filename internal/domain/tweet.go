package domain

import "time"

const MaxTweetLength = 140

type Tweet struct {
	ID       int32     `json:"id"`
	SenderID int32     `json:"sender_id"`
	Sender   string    `json:"sender,omitempty"`
	Text     string    `json:"text"`
	SentOn   time.Time `json:"sent_on"`
}

type Following struct {
	FollowerID int32     `json:"follower_id"`
	FollowedID int32     `json:"followed_id"`
	CreatedOn  time.Time `json:"created_on"`
}
