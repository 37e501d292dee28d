package domain

type VoteDirection string

const (
	VoteUp    VoteDirection = "up"
	VoteDown  VoteDirection = "down"
	VoteClear VoteDirection = "clear"
)

// Value maps a direction to the stored vote value; clear maps to 0.
func (d VoteDirection) Value() (int16, bool) {
	switch d {
	case VoteUp:
		return 1, true
	case VoteDown:
		return -1, true
	case VoteClear:
		return 0, true
	}
	return 0, false
}

type Vote struct {
	UserID     int32      `json:"user_id"`
	ObjectType ObjectType `json:"object_type"`
	ObjectID   int32      `json:"object_id"`
	Vote       int16      `json:"vote"`
}

type Score struct {
	ObjectType ObjectType `json:"object_type"`
	ObjectID   int32      `json:"object_id"`
	Score      int32      `json:"score"`
	NumVotes   int32      `json:"num_votes"`
}
