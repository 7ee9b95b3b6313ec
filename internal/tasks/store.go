// Package tasks implements the task lifecycle engine (C5 of SPEC_FULL.md):
// in-memory storage, validated state transitions, event broadcast, and the
// execution driver that calls the bridge. Grounded on the teacher's
// pkg/adk/executor package (event-queue-per-run, apperr-wrapped failures,
// cooperative ctx cancellation) generalized from a single LLM-run loop into
// the spec's task state machine.
package tasks

import (
	"sort"
	"sync"
	"time"

	"github.com/go-logr/logr"
	"github.com/xactions/a2a-runtime/internal/a2atypes"
	"github.com/xactions/a2a-runtime/internal/apperr"
)

// DefaultCapacity is the minimum task retention SPEC_FULL.md §4.1 requires.
const DefaultCapacity = 10000

// entry wraps a Task with the mutex that serializes per-task mutation.
type entry struct {
	mu   sync.Mutex
	task *a2atypes.Task
}

// Store is the in-memory task store and event bus. All exported methods are
// safe for concurrent use.
type Store struct {
	log      logr.Logger
	capacity int
	now      func() time.Time

	mu        sync.RWMutex
	entries   map[string]*entry
	order     []string // insertion order, for capacity eviction

	listenersMu sync.RWMutex
	listeners   []Listener
}

// Option configures a Store at construction time.
type Option func(*Store)

// WithCapacity overrides DefaultCapacity.
func WithCapacity(n int) Option {
	return func(s *Store) { s.capacity = n }
}

// WithClock overrides the time source, for deterministic tests.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// NewStore constructs an empty Store.
func NewStore(log logr.Logger, opts ...Option) *Store {
	s := &Store{
		log:      log,
		capacity: DefaultCapacity,
		now:      func() time.Time { return time.Now().UTC() },
		entries:  make(map[string]*entry),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Subscribe registers an event listener and returns an unsubscribe func.
func (s *Store) Subscribe(fn Listener) func() {
	s.listenersMu.Lock()
	defer s.listenersMu.Unlock()
	s.listeners = append(s.listeners, fn)
	idx := len(s.listeners) - 1
	return func() {
		s.listenersMu.Lock()
		defer s.listenersMu.Unlock()
		if idx < len(s.listeners) {
			s.listeners[idx] = nil
		}
	}
}

func (s *Store) emit(ev Event) {
	s.listenersMu.RLock()
	fns := make([]Listener, len(s.listeners))
	copy(fns, s.listeners)
	s.listenersMu.RUnlock()

	for _, fn := range fns {
		if fn != nil {
			fn(ev)
		}
	}
}

// Create returns a new task in the submitted state.
func (s *Store) Create(message a2atypes.Message, metadata map[string]interface{}) *a2atypes.Task {
	return s.CreateWithIDs(a2atypes.NewTaskID(), a2atypes.NewContextID(), message, metadata)
}

// CreateWithIDs is Create with caller-supplied ids, used when a context id
// must group multiple tasks.
func (s *Store) CreateWithIDs(id, contextID string, message a2atypes.Message, metadata map[string]interface{}) *a2atypes.Task {
	now := s.now()
	task := a2atypes.NewTask(id, contextID, message, metadata, now)

	s.mu.Lock()
	s.entries[id] = &entry{task: task}
	s.order = append(s.order, id)
	s.mu.Unlock()

	s.evictIfNeeded()

	s.emit(Event{Kind: EventTransition, TaskID: id, Timestamp: now, Payload: TransitionPayload{
		State: a2atypes.StateSubmitted, Message: task.Status.Message,
	}})
	if len(task.Messages) > 0 {
		s.emit(Event{Kind: EventMessage, TaskID: id, Timestamp: now, Payload: MessagePayload{Message: message}})
	}

	return cloneTask(task)
}

// Get returns a deep-ish copy of the stored task, or nil if unknown.
func (s *Store) Get(id string) *a2atypes.Task {
	s.mu.RLock()
	e, ok := s.entries[id]
	s.mu.RUnlock()
	if !ok {
		return nil
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return cloneTask(e.task)
}

// Transition moves a task to newState, recording message in history. It
// fails with apperr.ErrCodeTaskNotFound or apperr.ErrCodeTaskInvalidState
// per SPEC_FULL.md §4.1.
func (s *Store) Transition(id string, newState a2atypes.State, message string) (*a2atypes.Task, error) {
	e, ok := s.lookup(id)
	if !ok {
		return nil, apperr.New(apperr.ErrCodeTaskNotFound, "task not found: "+id, nil)
	}

	e.mu.Lock()
	var ev Event
	var result *a2atypes.Task
	err := func() error {
		if a2atypes.IsTerminal(e.task.Status.State) {
			return apperr.New(apperr.ErrCodeTaskInvalidState,
				"task is in a terminal state: "+string(e.task.Status.State), nil)
		}
		if !a2atypes.CanTransition(e.task.Status.State, newState) {
			return apperr.New(apperr.ErrCodeTaskInvalidState,
				"invalid transition "+string(e.task.Status.State)+" -> "+string(newState), nil)
		}

		now := s.now()
		prev := e.task.Status.State
		e.task.Status = a2atypes.Status{State: newState, Message: message, Timestamp: now}
		e.task.History = append(e.task.History, a2atypes.HistoryEntry{
			State: newState, Message: message, Timestamp: now, Actor: "system",
		})

		ev = Event{Kind: EventTransition, TaskID: id, Timestamp: now, Payload: TransitionPayload{
			State: newState, PreviousState: prev, Message: message,
		}}
		result = cloneTask(e.task)
		return nil
	}()
	e.mu.Unlock()

	if err != nil {
		return nil, err
	}
	s.emit(ev)
	return result, nil
}

// AppendMessage appends to the conversation log and emits EventMessage.
func (s *Store) AppendMessage(id string, message a2atypes.Message) error {
	e, ok := s.lookup(id)
	if !ok {
		return apperr.New(apperr.ErrCodeTaskNotFound, "task not found: "+id, nil)
	}

	e.mu.Lock()
	if a2atypes.IsTerminal(e.task.Status.State) {
		e.mu.Unlock()
		return apperr.New(apperr.ErrCodeTaskInvalidState, "task is terminal: "+id, nil)
	}
	e.task.Messages = append(e.task.Messages, message)
	now := s.now()
	e.mu.Unlock()

	s.emit(Event{Kind: EventMessage, TaskID: id, Timestamp: now, Payload: MessagePayload{Message: message}})
	return nil
}

// AppendArtifact appends to artifacts and emits EventArtifact.
func (s *Store) AppendArtifact(id string, part a2atypes.Part) error {
	e, ok := s.lookup(id)
	if !ok {
		return apperr.New(apperr.ErrCodeTaskNotFound, "task not found: "+id, nil)
	}

	e.mu.Lock()
	if a2atypes.IsTerminal(e.task.Status.State) {
		e.mu.Unlock()
		return apperr.New(apperr.ErrCodeTaskInvalidState, "task is terminal: "+id, nil)
	}
	idx := len(e.task.Artifacts)
	e.task.Artifacts = append(e.task.Artifacts, a2atypes.Artifact{Index: idx, Part: part})
	now := s.now()
	e.mu.Unlock()

	s.emit(Event{Kind: EventArtifact, TaskID: id, Timestamp: now, Payload: ArtifactPayload{ArtifactIndex: idx, Part: part}})
	return nil
}

// Cancel transitions a task to canceled from any non-terminal state.
func (s *Store) Cancel(id string) (*a2atypes.Task, error) {
	e, ok := s.lookup(id)
	if !ok {
		return nil, apperr.New(apperr.ErrCodeTaskNotFound, "task not found: "+id, nil)
	}
	e.mu.Lock()
	if a2atypes.IsTerminal(e.task.Status.State) {
		e.mu.Unlock()
		return nil, apperr.New(apperr.ErrCodeTaskInvalidState,
			"cannot cancel a terminal task: "+string(e.task.Status.State), nil)
	}
	e.mu.Unlock()
	return s.Transition(id, a2atypes.StateCanceled, "canceled by request")
}

// Stats reports counts by state and the total task count.
type Stats struct {
	Counts map[a2atypes.State]int `json:"counts"`
	Total  int                    `json:"total"`
}

func (s *Store) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := Stats{Counts: make(map[a2atypes.State]int)}
	for _, e := range s.entries {
		e.mu.Lock()
		out.Counts[e.task.Status.State]++
		e.mu.Unlock()
		out.Total++
	}
	return out
}

func (s *Store) lookup(id string) (*entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[id]
	return e, ok
}

// evictIfNeeded drops the oldest terminal tasks once the store exceeds
// capacity, per SPEC_FULL.md §4.1's "evicts terminal tasks by age when over
// capacity".
func (s *Store) evictIfNeeded() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.order) <= s.capacity {
		return
	}

	type candidate struct {
		id string
		ts time.Time
	}
	var terminal []candidate
	for _, id := range s.order {
		e, ok := s.entries[id]
		if !ok {
			continue
		}
		e.mu.Lock()
		if a2atypes.IsTerminal(e.task.Status.State) {
			terminal = append(terminal, candidate{id: id, ts: e.task.Status.Timestamp})
		}
		e.mu.Unlock()
	}
	sort.Slice(terminal, func(i, j int) bool { return terminal[i].ts.Before(terminal[j].ts) })

	overflow := len(s.order) - s.capacity
	evicted := make(map[string]bool)
	for i := 0; i < overflow && i < len(terminal); i++ {
		delete(s.entries, terminal[i].id)
		evicted[terminal[i].id] = true
	}
	if len(evicted) == 0 {
		return
	}
	kept := s.order[:0:0]
	for _, id := range s.order {
		if !evicted[id] {
			kept = append(kept, id)
		}
	}
	s.order = kept
}

func cloneTask(t *a2atypes.Task) *a2atypes.Task {
	if t == nil {
		return nil
	}
	out := *t
	out.Messages = append([]a2atypes.Message(nil), t.Messages...)
	out.Artifacts = append([]a2atypes.Artifact(nil), t.Artifacts...)
	out.History = append([]a2atypes.HistoryEntry(nil), t.History...)
	return &out
}
