package stream

import (
	"testing"
	"time"

	"github.com/go-logr/logr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xactions/a2a-runtime/internal/a2atypes"
	"github.com/xactions/a2a-runtime/internal/tasks"
)

func newTestManager() (*Manager, *tasks.Store) {
	store := tasks.NewStore(logr.Discard())
	return NewManager(logr.Discard(), store), store
}

func readFrame(t *testing.T, c *Client) []byte {
	t.Helper()
	select {
	case f := <-c.Frames():
		return f
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for frame")
		return nil
	}
}

func TestManager_AddClient_SendsConnectedComment(t *testing.T) {
	m, _ := newTestManager()
	c := m.AddClient("task-1")
	f := readFrame(t, c)
	assert.Contains(t, string(f), ": connected")
}

func TestManager_BroadcastsTransition(t *testing.T) {
	m, store := newTestManager()
	task := store.Create(a2atypes.NewUserMessage("hi"), nil)
	c := m.AddClient(task.ID)
	readFrame(t, c) // connected comment

	_, err := store.Transition(task.ID, a2atypes.StateWorking, "starting")
	require.NoError(t, err)

	f := readFrame(t, c)
	assert.Contains(t, string(f), "event: status")
	assert.Contains(t, string(f), `"state":"working"`)
}

func TestManager_EmitsDoneOnTerminal(t *testing.T) {
	m, store := newTestManager()
	task := store.Create(a2atypes.NewUserMessage("hi"), nil)
	c := m.AddClient(task.ID)
	readFrame(t, c) // connected

	_, err := store.Cancel(task.ID)
	require.NoError(t, err)

	statusFrame := readFrame(t, c)
	assert.Contains(t, string(statusFrame), "event: status")
	doneFrame := readFrame(t, c)
	assert.Contains(t, string(doneFrame), "event: done")
	assert.Contains(t, string(doneFrame), `"finalState":"canceled"`)

	// The stream closes right after the done frame: no more frames ever
	// arrive, including keep-alives.
	select {
	case f, ok := <-c.Frames():
		if ok {
			t.Fatalf("expected stream to close after done frame, got frame: %s", f)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for stream to close")
	}
}

func TestManager_ArtifactAndMessageFrames(t *testing.T) {
	m, store := newTestManager()
	task := store.Create(a2atypes.NewUserMessage("hi"), nil)
	c := m.AddClient(task.ID)
	readFrame(t, c)

	require.NoError(t, store.AppendMessage(task.ID, a2atypes.NewAgentMessage(a2atypes.NewTextPart("reply"))))
	msgFrame := readFrame(t, c)
	assert.Contains(t, string(msgFrame), "event: message")

	require.NoError(t, store.AppendArtifact(task.ID, a2atypes.NewTextPart("out")))
	artFrame := readFrame(t, c)
	assert.Contains(t, string(artFrame), "event: artifact")
}

func TestManager_RemoveClient_ClosesChannel(t *testing.T) {
	m, _ := newTestManager()
	c := m.AddClient("task-1")
	readFrame(t, c)

	m.RemoveClient("task-1", c)
	_, ok := <-c.Frames()
	assert.False(t, ok)
}

func TestManager_CloseStream_RemovesAllClients(t *testing.T) {
	m, _ := newTestManager()
	c1 := m.AddClient("task-1")
	c2 := m.AddClient("task-1")
	readFrame(t, c1)
	readFrame(t, c2)

	m.CloseStream("task-1")

	_, ok1 := <-c1.Frames()
	_, ok2 := <-c2.Frames()
	assert.False(t, ok1)
	assert.False(t, ok2)
}

func TestManager_CloseAll(t *testing.T) {
	m, _ := newTestManager()
	c1 := m.AddClient("task-1")
	c2 := m.AddClient("task-2")
	readFrame(t, c1)
	readFrame(t, c2)

	m.CloseAll()

	_, ok1 := <-c1.Frames()
	_, ok2 := <-c2.Frames()
	assert.False(t, ok1)
	assert.False(t, ok2)
}

func TestManager_IndependentClientsDoNotBlockEachOther(t *testing.T) {
	m, store := newTestManager()
	task := store.Create(a2atypes.NewUserMessage("hi"), nil)

	fast := m.AddClient(task.ID)
	readFrame(t, fast)

	slow := m.AddClient(task.ID)
	readFrame(t, slow) // drain the connected comment but never drain further

	// Fill the slow client's buffer without draining it, then trigger
	// enough events that the slow client gets dropped — the fast client
	// must keep receiving regardless.
	for i := 0; i < 20; i++ {
		require.NoError(t, store.AppendArtifact(task.ID, a2atypes.NewTextPart("a")))
		readFrame(t, fast)
	}
}
