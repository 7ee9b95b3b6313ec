package httpapi

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/xactions/a2a-runtime/internal/a2atypes"
	"github.com/xactions/a2a-runtime/internal/apperr"
	"github.com/xactions/a2a-runtime/internal/push"
	"github.com/xactions/a2a-runtime/internal/tasks"
)

// pushNotificationParams is the optional push-subscription request
// attached at task creation, per spec.md §4.3: "registered when a caller
// supplies a push callback on task creation".
type pushNotificationParams struct {
	URL string `json:"url"`
}

// sendTaskParams is the params object of tasks/send and tasks/sendSubscribe,
// per spec.md §4.9's route table and §4.3.
type sendTaskParams struct {
	Message          a2atypes.Message        `json:"message"`
	SkillID          string                  `json:"skillId"`
	Metadata         map[string]interface{}  `json:"metadata"`
	PushNotification *pushNotificationParams `json:"pushNotification,omitempty"`
}

// handleTasksRPC serves POST /a2a/tasks: a JSON-RPC envelope whose method
// is tasks/send (blocks until the task reaches a terminal state) or
// tasks/sendSubscribe (returns immediately; the caller is expected to
// attach to GET /a2a/tasks/:id/stream for progress), per spec.md §4.9.
func (s *Server) handleTasksRPC(w http.ResponseWriter, r *http.Request) {
	var req a2atypes.Request
	if err := decodeJSON(r, &req); err != nil {
		writeAppError(w, nil, err)
		return
	}

	switch req.Method {
	case "tasks/send":
		s.handleTasksSend(w, r, req, true)
	case "tasks/sendSubscribe":
		s.handleTasksSend(w, r, req, false)
	default:
		writeRPCError(w, http.StatusNotFound, req.ID, rpcMethodNotFound, "unknown method: "+req.Method)
	}
}

const rpcMethodNotFound = -32601

func (s *Server) handleTasksSend(w http.ResponseWriter, r *http.Request, req a2atypes.Request, sync bool) {
	var params sendTaskParams
	if err := decodeRPCParams(req, &params); err != nil {
		writeAppError(w, req.ID, err)
		return
	}
	if len(params.Message.Parts) == 0 {
		writeAppError(w, req.ID, apperr.New(apperr.ErrCodeInvalidParams, "message must carry at least one part", nil))
		return
	}

	task := s.store.Create(params.Message, params.Metadata)
	if s.metrics != nil {
		s.metrics.TasksCreated.WithLabelValues(params.SkillID).Inc()
	}

	if params.PushNotification != nil && params.PushNotification.URL != "" {
		s.subs.Subscribe(task.ID, params.PushNotification.URL)
		s.wirePushForwarding(task.ID)
	}

	if sync {
		s.executor.RunSync(r.Context(), task.ID, task.ContextID, params.SkillID, params.Message.Parts)
		final := s.store.Get(task.ID)
		writeRPCResult(w, req.ID, final)
		return
	}

	s.executor.Run(context.WithoutCancel(r.Context()), task.ID, task.ContextID, params.SkillID, params.Message.Parts)
	writeRPCResult(w, req.ID, task)
}

// wirePushForwarding subscribes a store listener that turns task events
// into push.Body notifications for taskID, per spec.md §4.1/§4.3: every
// state change emits an event that C8 posts to webhook subscribers. The
// unsubscribe is intentionally never called: SubscriptionManager.
// NotifySubscribers already retires the task's callback URLs after a
// terminal delivery, and a store listener firing for a task with no
// subscribers left is a harmless no-op lookup.
func (s *Server) wirePushForwarding(taskID string) {
	s.store.Subscribe(func(ev tasks.Event) {
		if ev.TaskID != taskID {
			return
		}
		body, terminal, ok := pushBodyForEvent(ev)
		if !ok {
			return
		}
		s.subs.NotifySubscribers(context.Background(), taskID, body, terminal)
		if s.metrics != nil {
			s.metrics.PushDeliveries.WithLabelValues(string(body.Type)).Inc()
		}
	})
}

// pushBodyForEvent projects a tasks.Event onto the push.Body the
// subscription manager delivers, per spec.md §4.3.
func pushBodyForEvent(ev tasks.Event) (push.Body, a2atypes.State, bool) {
	switch p := ev.Payload.(type) {
	case tasks.TransitionPayload:
		eventType := push.EventState
		if p.State == a2atypes.StateFailed {
			eventType = push.EventError
		} else if p.State == a2atypes.StateCompleted {
			eventType = push.EventResult
		}
		return push.Body{
			TaskID: ev.TaskID, Type: eventType,
			Payload:   map[string]interface{}{"state": p.State, "message": p.Message},
			Timestamp: ev.Timestamp,
		}, p.State, true
	case tasks.ArtifactPayload:
		return push.Body{
			TaskID: ev.TaskID, Type: push.EventProgress,
			Payload: p.Part, Timestamp: ev.Timestamp,
		}, "", true
	default:
		return push.Body{}, "", false
	}
}

func decodeRPCParams(req a2atypes.Request, v interface{}) error {
	if len(req.Params) == 0 {
		return apperr.New(apperr.ErrCodeInvalidParams, "params is required", nil)
	}
	if err := json.Unmarshal(req.Params, v); err != nil {
		return apperr.New(apperr.ErrCodeInvalidParams, "failed to decode params", err)
	}
	return nil
}

// handleGetTask serves GET /a2a/tasks/:id: a plain Task object (not a
// JSON-RPC envelope), matching the delegation client's expectation in
// internal/orchestrate's poll path.
func (s *Server) handleGetTask(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	task := s.store.Get(id)
	if task == nil {
		writeAppError(w, nil, apperr.New(apperr.ErrCodeTaskNotFound, "task not found: "+id, nil))
		return
	}
	writeJSON(w, http.StatusOK, task)
}

// handleCancelTask serves POST /a2a/tasks/:id/cancel: per spec.md §5,
// transitions the task to canceled and signals the executor's cooperative
// cancellation token, returning the updated task.
func (s *Server) handleCancelTask(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	task, err := s.store.Cancel(id)
	if err != nil {
		writeAppError(w, nil, err)
		return
	}
	s.executor.Cancel(id)
	writeJSON(w, http.StatusOK, task)
}

// handleStreamTask serves GET /a2a/tasks/:id/stream: an SSE feed of the
// task's events, per spec.md §4.2.
func (s *Server) handleStreamTask(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if s.store.Get(id) == nil {
		writeAppError(w, nil, apperr.New(apperr.ErrCodeTaskNotFound, "task not found: "+id, nil))
		return
	}
	if s.metrics != nil {
		s.metrics.SSEClients.Inc()
		defer s.metrics.SSEClients.Dec()
	}
	s.streams.ServeHTTP(w, r, id)
}

// handleInboundMessage serves POST /a2a/tasks/:id/message: a remote
// agent's inbound push, appended to the task's history, per spec.md
// §4.9's route table.
func (s *Server) handleInboundMessage(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	var msg a2atypes.Message
	if err := decodeJSON(r, &msg); err != nil {
		writeAppError(w, nil, err)
		return
	}
	if err := s.store.AppendMessage(id, msg); err != nil {
		writeAppError(w, nil, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// handlePushCallback serves POST /a2a/callbacks/:id?token=…: the inbound
// side of push notifications, used when a remote agent we delegated to
// pushes task progress back to us instead of waiting to be polled. The
// token is the HMAC this runtime minted when it handed out the callback
// URL, per spec.md §4.3.
func (s *Server) handlePushCallback(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	token := r.URL.Query().Get("token")
	if !push.VerifyToken(s.cfg.PushSecret, id, token) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid callback token"})
		return
	}

	var body push.Body
	if err := decodeJSON(r, &body); err != nil {
		writeAppError(w, nil, err)
		return
	}

	s.forwardPushCallback(id, body)
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// forwardPushCallback applies an inbound push notification to the local
// mirror of a delegated task, if one exists. A callback for an unknown
// task id is logged and dropped.
func (s *Server) forwardPushCallback(taskID string, body push.Body) {
	if s.store.Get(taskID) == nil {
		s.log.V(1).Info("push callback for unknown task", "task", taskID)
		return
	}

	switch body.Type {
	case push.EventState:
		state, message := decodeStatePayload(body.Payload)
		if state != "" {
			if _, err := s.store.Transition(taskID, state, message); err != nil {
				s.log.V(1).Info("push callback state transition rejected", "task", taskID, "error", err.Error())
			}
		}
	default:
		_ = s.store.AppendMessage(taskID, a2atypes.NewAgentMessage(a2atypes.NewDataPart(body.Payload, "application/json")))
	}
}

func decodeStatePayload(payload interface{}) (a2atypes.State, string) {
	m, ok := payload.(map[string]interface{})
	if !ok {
		return "", ""
	}
	state, _ := m["state"].(string)
	message, _ := m["message"].(string)
	return a2atypes.State(state), message
}
