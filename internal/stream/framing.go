package stream

import (
	"encoding/json"

	"github.com/xactions/a2a-runtime/internal/a2atypes"
	"github.com/xactions/a2a-runtime/internal/tasks"
)

// frame renders one SSE frame: "event: <type>\ndata: <json>\n\n" (spec.md
// §4.2).
func frame(eventName string, payload interface{}) []byte {
	body, err := json.Marshal(payload)
	if err != nil {
		body = []byte("{}")
	}
	out := make([]byte, 0, len(eventName)+len(body)+16)
	out = append(out, "event: "...)
	out = append(out, eventName...)
	out = append(out, "\ndata: "...)
	out = append(out, body...)
	out = append(out, "\n\n"...)
	return out
}

type statusPayload struct {
	TaskID        string         `json:"taskId"`
	State         a2atypes.State `json:"state"`
	PreviousState a2atypes.State `json:"previousState"`
	Message       string         `json:"message"`
	Timestamp     string         `json:"timestamp"`
}

type artifactPayload struct {
	TaskID        string        `json:"taskId"`
	ArtifactIndex int           `json:"artifactIndex"`
	Part          a2atypes.Part `json:"part"`
}

type messagePayload struct {
	TaskID string          `json:"taskId"`
	Role   a2atypes.Role   `json:"role"`
	Parts  []a2atypes.Part `json:"parts"`
}

type donePayload struct {
	TaskID     string         `json:"taskId"`
	FinalState a2atypes.State `json:"finalState"`
}

// frameEvent converts a tasks.Event into its SSE frame, per spec.md §4.2's
// per-kind payload shapes. Returns ok=false for an event kind this stream
// doesn't forward.
func frameEvent(ev tasks.Event) ([]byte, bool) {
	switch p := ev.Payload.(type) {
	case tasks.TransitionPayload:
		return frame("status", statusPayload{
			TaskID: ev.TaskID, State: p.State, PreviousState: p.PreviousState,
			Message: p.Message, Timestamp: ev.Timestamp.Format(timeFormat),
		}), true
	case tasks.ArtifactPayload:
		return frame("artifact", artifactPayload{
			TaskID: ev.TaskID, ArtifactIndex: p.ArtifactIndex, Part: p.Part,
		}), true
	case tasks.MessagePayload:
		return frame("message", messagePayload{
			TaskID: ev.TaskID, Role: p.Message.Role, Parts: p.Message.Parts,
		}), true
	default:
		return nil, false
	}
}

// frameDone returns the terminal "done" frame for a transition event that
// moved the task into a terminal state, per spec.md §4.2: "on terminal
// states additionally emit done with {taskId, finalState}".
func frameDone(ev tasks.Event) ([]byte, bool) {
	p, ok := ev.Payload.(tasks.TransitionPayload)
	if !ok || !a2atypes.IsTerminal(p.State) {
		return nil, false
	}
	return frame("done", donePayload{TaskID: ev.TaskID, FinalState: p.State}), true
}

const timeFormat = "2006-01-02T15:04:05.000Z07:00"
