package domain

import "time"

// GroupType names the kind of group an object (topic, photo pool entry) belongs to.
type GroupType string

const (
	GroupTypeTribe   GroupType = "tribe"
	GroupTypeProject GroupType = "project"
)

func (g GroupType) Valid() bool {
	return g == GroupTypeTribe || g == GroupTypeProject
}

type Tribe struct {
	ID          int32     `json:"id"`
	Slug        string    `json:"slug"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatorID   int32     `json:"creator_id"`
	Private     bool      `json:"private"`
	CreatedOn   time.Time `json:"created_on"`
	MemberCount int32     `json:"member_count"`
}

type TribeMember struct {
	TribeID  int32     `json:"tribe_id"`
	UserID   int32     `json:"user_id"`
	User     *User     `json:"user,omitempty"`
	JoinedOn time.Time `json:"joined_on"`
}

type Topic struct {
	ID         int32     `json:"id"`
	GroupType  GroupType `json:"group_type"`
	GroupID    int32     `json:"group_id"`
	CreatorID  int32     `json:"creator_id"`
	Title      string    `json:"title"`
	Body       string    `json:"body"`
	CreatedOn  time.Time `json:"created_on"`
	ModifiedOn time.Time `json:"modified_on"`
}
