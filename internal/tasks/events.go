package tasks

import (
	"time"

	"github.com/xactions/a2a-runtime/internal/a2atypes"
)

// EventKind tags an Event's payload shape.
type EventKind string

const (
	EventTransition EventKind = "transition"
	EventMessage    EventKind = "message"
	EventArtifact   EventKind = "artifact"
)

// Event is emitted by the store on every mutation, per SPEC_FULL.md §4.1's
// subscribe() contract: "{kind, taskId, payload, timestamp}".
type Event struct {
	Kind      EventKind
	TaskID    string
	Timestamp time.Time
	Payload   interface{}
}

// TransitionPayload is the payload of an EventTransition event.
type TransitionPayload struct {
	State         a2atypes.State
	PreviousState a2atypes.State
	Message       string
}

// MessagePayload is the payload of an EventMessage event.
type MessagePayload struct {
	Message a2atypes.Message
}

// ArtifactPayload is the payload of an EventArtifact event.
type ArtifactPayload struct {
	ArtifactIndex int
	Part          a2atypes.Part
}

// Listener receives events emitted by the store. Listeners are invoked
// outside the per-task lock (SPEC_FULL.md §5) so a slow listener can't
// deadlock a concurrent mutation on the same task.
type Listener func(Event)
