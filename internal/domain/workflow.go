package domain

import "fmt"

type TaskState int16

const (
	TaskStateOpen       TaskState = 1
	TaskStateResolved   TaskState = 2
	TaskStateClosed     TaskState = 3
	TaskStateInProgress TaskState = 4
	TaskStateDiscussion TaskState = 5
	TaskStateBlocked    TaskState = 6
)

var taskStateNames = map[TaskState]string{
	TaskStateOpen:       "OPEN",
	TaskStateResolved:   "RESOLVED",
	TaskStateClosed:     "CLOSED",
	TaskStateInProgress: "IN_PROGRESS",
	TaskStateDiscussion: "DISCUSSION",
	TaskStateBlocked:    "BLOCKED",
}

func (s TaskState) String() string {
	if name, ok := taskStateNames[s]; ok {
		return name
	}
	return fmt.Sprintf("TaskState(%d)", int16(s))
}

func (s TaskState) Valid() bool {
	_, ok := taskStateNames[s]
	return ok
}

// Active reports whether work on a task in this state is still outstanding.
func (s TaskState) Active() bool {
	return s != TaskStateResolved && s != TaskStateClosed
}

// ParseTaskState accepts either the state name or its numeric code.
func ParseTaskState(v string) (TaskState, error) {
	for state, name := range taskStateNames {
		if name == v || fmt.Sprint(int16(state)) == v {
			return state, nil
		}
	}
	return 0, fmt.Errorf("unknown task state %q", v)
}

// TransitionGuard decides whether actorID may apply a transition to task.
type TransitionGuard func(task *Task, actorID int32) bool

func guardAlways(*Task, int32) bool { return true }

func guardAssignee(t *Task, actorID int32) bool {
	return t.AssigneeID != nil && *t.AssigneeID == actorID
}

func guardAssigneeOrUnassigned(t *Task, actorID int32) bool {
	return t.AssigneeID == nil || *t.AssigneeID == actorID
}

func guardCreator(t *Task, actorID int32) bool {
	return t.CreatorID == actorID
}

type Transition struct {
	From  TaskState       `json:"from"`
	To    TaskState       `json:"to"`
	Label string          `json:"label"`
	Guard TransitionGuard `json:"-"`
}

var taskTransitions = []Transition{
	{TaskStateOpen, TaskStateOpen, "leave open", guardAlways},
	{TaskStateOpen, TaskStateInProgress, "in progress", guardAssigneeOrUnassigned},
	{TaskStateOpen, TaskStateDiscussion, "discussion needed", guardAlways},
	{TaskStateOpen, TaskStateBlocked, "blocked", guardAssignee},
	{TaskStateOpen, TaskStateResolved, "resolved", guardAssigneeOrUnassigned},

	{TaskStateInProgress, TaskStateInProgress, "still in progress", guardAlways},
	{TaskStateInProgress, TaskStateOpen, "stop progress", guardAssignee},
	{TaskStateInProgress, TaskStateDiscussion, "discussion needed", guardAlways},
	{TaskStateInProgress, TaskStateBlocked, "blocked", guardAssignee},
	{TaskStateInProgress, TaskStateResolved, "resolved", guardAssignee},

	{TaskStateDiscussion, TaskStateDiscussion, "discussion still needed", guardAlways},
	{TaskStateDiscussion, TaskStateOpen, "discussion finished", guardAlways},
	{TaskStateDiscussion, TaskStateInProgress, "in progress", guardAssigneeOrUnassigned},
	{TaskStateDiscussion, TaskStateBlocked, "blocked", guardAssignee},
	{TaskStateDiscussion, TaskStateResolved, "resolved", guardAssignee},

	{TaskStateBlocked, TaskStateBlocked, "still blocked", guardAlways},
	{TaskStateBlocked, TaskStateOpen, "unblocked", guardAssignee},
	{TaskStateBlocked, TaskStateInProgress, "unblocked and in progress", guardAssignee},
	{TaskStateBlocked, TaskStateDiscussion, "discussion needed", guardAlways},

	{TaskStateResolved, TaskStateResolved, "leave resolved", guardAlways},
	{TaskStateResolved, TaskStateOpen, "reopen", guardAlways},
	{TaskStateResolved, TaskStateClosed, "close", guardCreator},

	{TaskStateClosed, TaskStateClosed, "leave closed", guardAlways},
	{TaskStateClosed, TaskStateOpen, "reopen", guardAlways},
}

// FindTransition returns the table entry for from → to, if one exists.
func FindTransition(from, to TaskState) (Transition, bool) {
	for _, tr := range taskTransitions {
		if tr.From == from && tr.To == to {
			return tr, true
		}
	}
	return Transition{}, false
}

// AvailableTransitions lists the transitions actorID may apply to task, in table order.
// The identity transition is only listed when nothing else is permitted.
func AvailableTransitions(task *Task, actorID int32) []Transition {
	var identity *Transition
	var out []Transition
	for i := range taskTransitions {
		tr := taskTransitions[i]
		if tr.From != task.State || !tr.Guard(task, actorID) {
			continue
		}
		if tr.From == tr.To {
			identity = &taskTransitions[i]
			continue
		}
		out = append(out, tr)
	}
	if len(out) == 0 && identity != nil {
		out = append(out, *identity)
	}
	return out
}

// CanTransition reports whether actorID may move task to the target state.
func CanTransition(task *Task, actorID int32, to TaskState) bool {
	tr, ok := FindTransition(task.State, to)
	return ok && tr.Guard(task, actorID)
}
