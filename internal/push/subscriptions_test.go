package push

import (
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-logr/logr"
	"github.com/stretchr/testify/assert"
	"github.com/xactions/a2a-runtime/internal/a2atypes"
)

func TestSubscriptionManager_SubscribeAndNotify(t *testing.T) {
	var hits int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	d := NewDeliverer([]byte("secret-value-long-enough"), logr.Discard())
	d.sleep = noSleep
	m := NewSubscriptionManager(d, logr.Discard())

	m.Subscribe("task-1", ts.URL)
	assert.True(t, m.HasSubscribers("task-1"))

	m.NotifySubscribers(t.Context(), "task-1", Body{TaskID: "task-1", Type: EventProgress, Timestamp: time.Now()}, a2atypes.StateWorking)
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
	assert.True(t, m.HasSubscribers("task-1")) // non-terminal: still subscribed
}

func TestSubscriptionManager_AutoRetiresAfterTerminal(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	d := NewDeliverer([]byte("secret-value-long-enough"), logr.Discard())
	d.sleep = noSleep
	m := NewSubscriptionManager(d, logr.Discard())

	m.Subscribe("task-1", ts.URL)
	m.NotifySubscribers(t.Context(), "task-1", Body{TaskID: "task-1", Type: EventState, Timestamp: time.Now()}, a2atypes.StateCompleted)

	assert.False(t, m.HasSubscribers("task-1"))
}

func TestSubscriptionManager_OneFailureDoesNotBlockAnother(t *testing.T) {
	var goodHits int32
	bad := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer bad.Close()
	good := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&goodHits, 1)
		w.WriteHeader(http.StatusOK)
	}))
	defer good.Close()

	d := NewDeliverer([]byte("secret-value-long-enough"), logr.Discard())
	d.sleep = noSleep
	m := NewSubscriptionManager(d, logr.Discard())
	m.Subscribe("task-1", bad.URL)
	m.Subscribe("task-1", good.URL)

	m.NotifySubscribers(t.Context(), "task-1", Body{TaskID: "task-1", Type: EventProgress, Timestamp: time.Now()}, a2atypes.StateWorking)
	assert.Equal(t, int32(1), atomic.LoadInt32(&goodHits))
}

func TestSubscriptionManager_UnsubscribeRemovesAll(t *testing.T) {
	d := NewDeliverer([]byte("secret-value-long-enough"), logr.Discard())
	m := NewSubscriptionManager(d, logr.Discard())
	m.Subscribe("task-1", "https://a")
	m.Subscribe("task-1", "https://b")
	m.Unsubscribe("task-1")
	assert.False(t, m.HasSubscribers("task-1"))
}

func TestSubscriptionManager_NotifyNoSubscribersIsNoop(t *testing.T) {
	d := NewDeliverer([]byte("secret-value-long-enough"), logr.Discard())
	m := NewSubscriptionManager(d, logr.Discard())
	m.NotifySubscribers(t.Context(), "unknown-task", Body{Type: EventState}, a2atypes.StateCompleted)
}
