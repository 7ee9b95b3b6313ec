package a2atypes

import (
	"time"

	"github.com/google/uuid"
)

// State is one of the six task lifecycle states of SPEC_FULL.md §3.
type State string

const (
	StateSubmitted     State = "submitted"
	StateWorking       State = "working"
	StateInputRequired State = "input-required"
	StateCompleted     State = "completed"
	StateFailed        State = "failed"
	StateCanceled      State = "canceled"
)

// transitions is the static declaration of valid state successors, per
// SPEC_FULL.md §3 ("Valid transitions"). Terminal states map to an empty
// (nil) successor set.
var transitions = map[State]map[State]bool{
	StateSubmitted: {
		StateWorking:  true,
		StateCanceled: true,
	},
	StateWorking: {
		StateCompleted:     true,
		StateFailed:        true,
		StateCanceled:      true,
		StateInputRequired: true,
	},
	StateInputRequired: {
		StateWorking:  true,
		StateCanceled: true,
	},
	StateCompleted: {},
	StateFailed:    {},
	StateCanceled:  {},
}

// CanTransition reports whether from -> to is a permitted transition.
func CanTransition(from, to State) bool {
	successors, ok := transitions[from]
	if !ok {
		return false
	}
	return successors[to]
}

// IsTerminal reports whether a state has no successors — task mutation must
// be refused once a task reaches one of these.
func IsTerminal(s State) bool {
	successors, ok := transitions[s]
	return ok && len(successors) == 0
}

// Status is the current state plus a human-readable message and timestamp.
type Status struct {
	State     State     `json:"state"`
	Message   string    `json:"message,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// HistoryEntry records one transition. Actor is a SPEC_FULL.md §12
// supplement over the bare (state, message, timestamp) triple spec.md
// names — it defaults to "" when callers don't care, keeping every
// existing consumer that only reads State/Message/Timestamp unaffected.
type HistoryEntry struct {
	State     State     `json:"state"`
	Message   string    `json:"message,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	Actor     string    `json:"actor,omitempty"`
}

// Artifact is a produced output part plus the index it was appended at.
type Artifact struct {
	Index int    `json:"index"`
	Part  Part   `json:"part"`
	Name  string `json:"name,omitempty"`
}

// Task is the central unit of work. ID is immutable once assigned;
// ContextID groups related tasks into one conversation.
type Task struct {
	ID        string                 `json:"id"`
	ContextID string                 `json:"contextId"`
	Status    Status                 `json:"status"`
	Messages  []Message              `json:"messages,omitempty"`
	Artifacts []Artifact             `json:"artifacts,omitempty"`
	History   []HistoryEntry         `json:"history"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

// NewTaskID mints an opaque unique task id.
func NewTaskID() string {
	return "task_" + uuid.NewString()
}

// NewContextID mints an opaque unique context id.
func NewContextID() string {
	return "ctx_" + uuid.NewString()
}

// NewTask constructs a task in the submitted state with a seeded first
// history entry, the way the store's create() is specified to behave.
func NewTask(id, contextID string, initial Message, metadata map[string]interface{}, now time.Time) *Task {
	status := Status{State: StateSubmitted, Message: "task submitted", Timestamp: now}
	t := &Task{
		ID:        id,
		ContextID: contextID,
		Status:    status,
		Metadata:  metadata,
		History: []HistoryEntry{
			{State: StateSubmitted, Message: status.Message, Timestamp: now, Actor: "system"},
		},
	}
	if len(initial.Parts) > 0 || initial.Role != "" {
		t.Messages = append(t.Messages, initial)
	}
	return t
}
