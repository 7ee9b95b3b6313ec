package discovery

import (
	"encoding/json"
	"os"
	"sync"
	"time"

	"github.com/go-logr/logr"
	"github.com/xactions/a2a-runtime/internal/apperr"
)

// maxEventsPerAgent caps the retained event history, per spec.md §4.7:
// "caps the list at 1000 per agent".
const maxEventsPerAgent = 1000

// EventType classifies a single trust-relevant interaction outcome.
type EventType string

const (
	EventSuccess EventType = "success"
	EventFailure EventType = "failure"
	EventTimeout EventType = "timeout"
)

// Event is one recorded interaction with a delegated agent.
type Event struct {
	Type      EventType     `json:"type"`
	Timestamp time.Time     `json:"timestamp"`
	Duration  time.Duration `json:"duration,omitempty"`
}

// neutralScore is returned for an agent with no recorded history, per
// spec.md §4.7.
const neutralScore = 50

// trustSnapshot is the on-disk shape of a TrustScorer's history, per
// spec.md §4.7/§9: "trust.json — trust event history".
type trustSnapshot struct {
	History   map[string][]Event   `json:"history"`
	FirstSeen map[string]time.Time `json:"firstSeen"`
}

// TrustScorer tracks per-agent interaction history and derives a [0,100]
// trust score from it. When constructed via NewPersistentTrustScorer, every
// Record also rewrites its snapshot to disk.
type TrustScorer struct {
	now func() time.Time
	log logr.Logger
	path string

	mu      sync.Mutex
	history map[string][]Event
	firstSeen map[string]time.Time
}

// NewTrustScorer constructs an empty, memory-only scorer.
func NewTrustScorer() *TrustScorer {
	return &TrustScorer{
		now:       func() time.Time { return time.Now().UTC() },
		history:   make(map[string][]Event),
		firstSeen: make(map[string]time.Time),
	}
}

// NewPersistentTrustScorer loads a TrustScorer's snapshot from path (if
// present) and persists it back after every Record, mirroring Registry's
// load-then-atomic-rewrite pattern (internal/discovery/persistence.go).
func NewPersistentTrustScorer(log logr.Logger, path string) (*TrustScorer, error) {
	t := NewTrustScorer()
	t.log = log
	t.path = path

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return t, nil
		}
		return nil, apperr.New(apperr.ErrCodeFileOperation, "failed to read trust file: "+path, err)
	}

	var snap trustSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, apperr.New(apperr.ErrCodeFileOperation, "failed to parse trust file: "+path, err)
	}
	if snap.History != nil {
		t.history = snap.History
	}
	if snap.FirstSeen != nil {
		t.firstSeen = snap.FirstSeen
	}
	return t, nil
}

// Record appends ev to url's history, capping it at maxEventsPerAgent by
// dropping the oldest entries first, then persists the snapshot if this
// scorer was constructed with a path.
func (t *TrustScorer) Record(url string, ev Event) {
	t.mu.Lock()

	if _, ok := t.firstSeen[url]; !ok {
		t.firstSeen[url] = t.now()
	}

	events := append(t.history[url], ev)
	if len(events) > maxEventsPerAgent {
		events = events[len(events)-maxEventsPerAgent:]
	}
	t.history[url] = events

	var snap trustSnapshot
	if t.path != "" {
		snap = trustSnapshot{History: t.history, FirstSeen: t.firstSeen}
	}
	path := t.path
	t.mu.Unlock()

	if path == "" {
		return
	}
	if err := writeJSONAtomic(path, snap); err != nil {
		t.log.V(1).Info("failed to persist trust snapshot", "error", err.Error())
	}
}

// Score computes url's trust score in [0,100], per spec.md §4.7's
// weighted formula. An agent with no recorded history returns the
// neutral 50.
func (t *TrustScorer) Score(url string) int {
	t.mu.Lock()
	events := t.history[url]
	firstSeen, seen := t.firstSeen[url]
	t.mu.Unlock()

	if len(events) == 0 || !seen {
		return neutralScore
	}

	total := len(events)
	successes := 0
	for _, e := range events {
		if e.Type == EventSuccess {
			successes++
		}
	}
	successRatio := 20.0
	if total > 0 {
		successRatio = (float64(successes) / float64(total)) * 40
	}

	days := t.now().Sub(firstSeen).Hours() / 24
	longevity := minFloat(days/30, 1) * 20

	cutoff := t.now().Add(-24 * time.Hour)
	recentTotal, recentSuccess := 0, 0
	for _, e := range events {
		if e.Timestamp.After(cutoff) {
			recentTotal++
			if e.Type == EventSuccess {
				recentSuccess++
			}
		}
	}
	recency := 10.0
	if recentTotal > 0 {
		recency = (float64(recentSuccess) / float64(recentTotal)) * 20
	}

	volume := minFloat(float64(total)/100, 1) * 20

	sum := successRatio + longevity + recency + volume
	if sum > 100 {
		sum = 100
	}
	if sum < 0 {
		sum = 0
	}
	return int(sum + 0.5)
}

func minFloat(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
