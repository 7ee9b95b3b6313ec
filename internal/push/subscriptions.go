package push

import (
	"context"
	"sync"

	"github.com/go-logr/logr"
	"github.com/xactions/a2a-runtime/internal/a2atypes"
)

// SubscriptionManager maintains taskId -> set<callback URL> and fans
// outbound notifications out concurrently, per spec.md §4.3. Per
// SPEC_FULL.md §13 decision 3, a task's subscriptions are auto-retired
// after the terminal-state delivery is attempted, bounding memory without
// dropping the terminal notification itself.
type SubscriptionManager struct {
	deliverer *Deliverer
	log       logr.Logger

	mu   sync.Mutex
	urls map[string]map[string]struct{}
}

// NewSubscriptionManager constructs an empty manager bound to a Deliverer.
func NewSubscriptionManager(deliverer *Deliverer, log logr.Logger) *SubscriptionManager {
	return &SubscriptionManager{deliverer: deliverer, log: log, urls: make(map[string]map[string]struct{})}
}

// Subscribe registers callbackURL for taskID, whether supplied at task
// creation or attached later.
func (m *SubscriptionManager) Subscribe(taskID, callbackURL string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.urls[taskID] == nil {
		m.urls[taskID] = make(map[string]struct{})
	}
	m.urls[taskID][callbackURL] = struct{}{}
}

// Unsubscribe removes all callback URLs for taskID.
func (m *SubscriptionManager) Unsubscribe(taskID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.urls, taskID)
}

// HasSubscribers reports whether taskID has at least one registered URL.
func (m *SubscriptionManager) HasSubscribers(taskID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.urls[taskID]) > 0
}

// NotifySubscribers posts body to every URL registered for taskID
// concurrently; one failing delivery never blocks or cancels another. When
// terminalState is a terminal state (whatever body.Type that event is sent
// as), the task's subscriptions are retired after delivery completes, per
// SPEC_FULL.md §13 decision 3.
func (m *SubscriptionManager) NotifySubscribers(ctx context.Context, taskID string, body Body, terminalState a2atypes.State) {
	m.mu.Lock()
	urlSet := m.urls[taskID]
	urls := make([]string, 0, len(urlSet))
	for u := range urlSet {
		urls = append(urls, u)
	}
	m.mu.Unlock()

	if len(urls) == 0 {
		return
	}

	var wg sync.WaitGroup
	for _, u := range urls {
		wg.Add(1)
		go func(url string) {
			defer wg.Done()
			if err := m.deliverer.Deliver(ctx, url, body); err != nil {
				m.log.V(0).Info("push notification delivery failed", "task", taskID, "url", url, "error", err.Error())
			}
		}(u)
	}
	wg.Wait()

	if a2atypes.IsTerminal(terminalState) {
		m.Unsubscribe(taskID)
	}
}
