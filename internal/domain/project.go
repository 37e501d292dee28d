package domain

import "time"

type Project struct {
	ID          int32     `json:"id"`
	Slug        string    `json:"slug"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatorID   int32     `json:"creator_id"`
	Private     bool      `json:"private"`
	CreatedOn   time.Time `json:"created_on"`
	MemberCount int32     `json:"member_count"`
}

type ProjectMember struct {
	ProjectID   int32     `json:"project_id"`
	UserID      int32     `json:"user_id"`
	User        *User     `json:"user,omitempty"`
	Away        bool      `json:"away"`
	AwayMessage string    `json:"away_message"`
	JoinedOn    time.Time `json:"joined_on"`
}

type Task struct {
	ID         int32     `json:"id"`
	ProjectID  int32     `json:"project_id"`
	Summary    string    `json:"summary"`
	Detail     string    `json:"detail"`
	CreatorID  int32     `json:"creator_id"`
	AssigneeID *int32    `json:"assignee_id,omitempty"`
	State      TaskState `json:"state"`
	Status     string    `json:"status"` // free-form status line set by the last state change
	Tags       []string  `json:"tags"`
	CreatedOn  time.Time `json:"created_on"`
	ModifiedOn time.Time `json:"modified_on"`
}

type TaskChange struct {
	ID        int32     `json:"id"`
	TaskID    int32     `json:"task_id"`
	ActorID   int32     `json:"actor_id"`
	FromState TaskState `json:"from_state"`
	ToState   TaskState `json:"to_state"`
	Comment   string    `json:"comment"`
	CreatedOn time.Time `json:"created_on"`
}
