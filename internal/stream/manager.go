// Package stream implements the SSE Stream Manager (C7 of SPEC_FULL.md): a
// per-task event bus fed by tasks.Store events, fanned out to attached HTTP
// clients as SSE frames with a 30-second keep-alive. Grounded on the
// teacher's KeepAliveManager (internal/a2a/keepalive_manager.go): a
// ticker that resets on every forwarded event and otherwise injects a
// filler frame, generalized here from a single upstream channel wrapper
// into a multi-client broadcast per task.
package stream

import (
	"sync"
	"time"

	"github.com/go-logr/logr"
	"github.com/xactions/a2a-runtime/internal/tasks"
)

// KeepAliveInterval matches the teacher's KeepAliveManager constant,
// generalized to spec.md §4.2's "30-second keep-alive".
const KeepAliveInterval = 30 * time.Second

// Client is a single attached SSE consumer: a channel of pre-framed bytes,
// closed by the manager when the client is removed.
type Client struct {
	id     uint64
	frames chan []byte
	done   chan struct{}
}

// Frames returns the channel the HTTP handler should range over and write
// to the response.
func (c *Client) Frames() <-chan []byte { return c.frames }

// stream is the per-task broadcast state.
type stream struct {
	mu        sync.Mutex
	clients   map[uint64]*Client
	nextID    uint64
	unsubFn   func()
	lastTouch time.Time
}

// Manager owns one stream per task and bridges tasks.Store events into SSE
// frames for every attached client.
type Manager struct {
	log   logr.Logger
	store *tasks.Store

	mu      sync.Mutex
	streams map[string]*stream
}

// NewManager constructs a Manager bound to a task store. It does not
// subscribe globally — each stream subscribes lazily on first CreateStream
// so a task with no SSE clients never pays broadcast overhead.
func NewManager(log logr.Logger, store *tasks.Store) *Manager {
	return &Manager{log: log, store: store, streams: make(map[string]*stream)}
}

// CreateStream creates the stream for taskID (subscribing it to store
// events for that task) if it doesn't exist yet; an existing stream is
// left as it is.
func (m *Manager) CreateStream(taskID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.streams[taskID]; ok {
		return
	}

	s := &stream{clients: make(map[uint64]*Client), lastTouch: time.Now()}
	s.unsubFn = m.store.Subscribe(func(ev tasks.Event) {
		if ev.TaskID != taskID {
			return
		}
		m.broadcast(taskID, ev)
	})
	m.streams[taskID] = s
}

// AddClient attaches a new client to taskID's stream, creating the stream
// if needed, and starts that client's keep-alive ticker. It immediately
// emits a connection comment frame.
func (m *Manager) AddClient(taskID string) *Client {
	m.CreateStream(taskID)

	m.mu.Lock()
	s := m.streams[taskID]
	m.mu.Unlock()

	s.mu.Lock()
	id := s.nextID
	s.nextID++
	c := &Client{id: id, frames: make(chan []byte, 16), done: make(chan struct{})}
	s.clients[id] = c
	s.mu.Unlock()

	c.frames <- []byte(": connected\n\n")
	go m.keepAlive(taskID, c)
	return c
}

// RemoveClient detaches a client; closing the HTTP response should call
// this so no further writes are attempted (spec.md §4.2).
func (m *Manager) RemoveClient(taskID string, c *Client) {
	m.mu.Lock()
	s, ok := m.streams[taskID]
	m.mu.Unlock()
	if !ok {
		return
	}

	s.mu.Lock()
	if _, exists := s.clients[c.id]; exists {
		delete(s.clients, c.id)
		close(c.done)
		close(c.frames)
	}
	s.mu.Unlock()
}

// CloseStream ends all attached clients for taskID and unsubscribes from
// store events.
func (m *Manager) CloseStream(taskID string) {
	m.mu.Lock()
	s, ok := m.streams[taskID]
	if ok {
		delete(m.streams, taskID)
	}
	m.mu.Unlock()
	if !ok {
		return
	}

	s.unsubFn()
	s.mu.Lock()
	for id, c := range s.clients {
		close(c.done)
		close(c.frames)
		delete(s.clients, id)
	}
	s.mu.Unlock()
}

// CloseAll is the shutdown hook: closes every stream.
func (m *Manager) CloseAll() {
	m.mu.Lock()
	taskIDs := make([]string, 0, len(m.streams))
	for id := range m.streams {
		taskIDs = append(taskIDs, id)
	}
	m.mu.Unlock()

	for _, id := range taskIDs {
		m.CloseStream(id)
	}
}

func (m *Manager) broadcast(taskID string, ev tasks.Event) {
	frame, ok := frameEvent(ev)
	if !ok {
		return
	}

	m.mu.Lock()
	s, ok := m.streams[taskID]
	m.mu.Unlock()
	if !ok {
		return
	}

	s.mu.Lock()
	s.lastTouch = time.Now()
	clients := make([]*Client, 0, len(s.clients))
	for _, c := range s.clients {
		clients = append(clients, c)
	}
	s.mu.Unlock()

	for _, c := range clients {
		m.send(taskID, c, frame)
	}

	if term, ok := frameDone(ev); ok {
		for _, c := range clients {
			m.send(taskID, c, term)
		}
		// A terminal frame is the last thing any client will ever receive
		// for this task: close the stream so ServeHTTP's read loop and the
		// per-client keep-alive ticker both stop, per spec.md §4.2/§5's
		// "then the stream closes".
		m.CloseStream(taskID)
	}
}

// send writes a frame to a client without blocking indefinitely: a client
// that isn't draining its channel is dropped rather than stalling the
// broadcast for every other client (spec.md §4.2: "Write failures drop
// that client but do not fail other clients").
func (m *Manager) send(taskID string, c *Client, frame []byte) {
	select {
	case <-c.done:
		return
	default:
	}

	select {
	case c.frames <- frame:
	default:
		m.log.V(1).Info("dropping slow SSE client", "task", taskID)
		m.RemoveClient(taskID, c)
	}
}

func (m *Manager) keepAlive(taskID string, c *Client) {
	ticker := time.NewTicker(KeepAliveInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.done:
			return
		case <-ticker.C:
			m.send(taskID, c, []byte(": keepalive\n\n"))
		}
	}
}

