package tasks

import (
	"testing"
	"time"

	"github.com/go-logr/logr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xactions/a2a-runtime/internal/a2atypes"
	"github.com/xactions/a2a-runtime/internal/apperr"
)

func newTestStore() *Store {
	return NewStore(logr.Discard())
}

func TestStore_CreateGet_RoundTrip(t *testing.T) {
	s := newTestStore()
	msg := a2atypes.NewUserMessage("hello")
	created := s.Create(msg, map[string]interface{}{"skill": "xactions.x_get_profile"})

	fetched := s.Get(created.ID)
	require.NotNil(t, fetched)
	assert.Equal(t, created.ID, fetched.ID)
	assert.Equal(t, a2atypes.StateSubmitted, fetched.Status.State)
	assert.Len(t, fetched.History, 1)
}

func TestStore_Get_Unknown(t *testing.T) {
	s := newTestStore()
	assert.Nil(t, s.Get("does-not-exist"))
}

func TestStore_Transition_Valid(t *testing.T) {
	s := newTestStore()
	task := s.Create(a2atypes.NewUserMessage("x"), nil)

	updated, err := s.Transition(task.ID, a2atypes.StateWorking, "starting")
	require.NoError(t, err)
	assert.Equal(t, a2atypes.StateWorking, updated.Status.State)
	assert.Len(t, updated.History, 2)

	updated, err = s.Transition(task.ID, a2atypes.StateCompleted, "done")
	require.NoError(t, err)
	assert.Equal(t, a2atypes.StateCompleted, updated.Status.State)
}

func TestStore_Transition_InvalidTable(t *testing.T) {
	s := newTestStore()
	task := s.Create(a2atypes.NewUserMessage("x"), nil)

	_, err := s.Transition(task.ID, a2atypes.StateCompleted, "skip ahead")
	require.Error(t, err)
	ae, ok := err.(*apperr.AppError)
	require.True(t, ok)
	assert.Equal(t, apperr.ErrCodeTaskInvalidState, ae.Code)
}

func TestStore_Transition_TerminalIsAbsorbing(t *testing.T) {
	s := newTestStore()
	task := s.Create(a2atypes.NewUserMessage("x"), nil)
	_, err := s.Transition(task.ID, a2atypes.StateWorking, "")
	require.NoError(t, err)
	_, err = s.Transition(task.ID, a2atypes.StateCompleted, "")
	require.NoError(t, err)

	_, err = s.Transition(task.ID, a2atypes.StateWorking, "should fail")
	require.Error(t, err)
}

func TestStore_Transition_UnknownTask(t *testing.T) {
	s := newTestStore()
	_, err := s.Transition("nope", a2atypes.StateWorking, "")
	require.Error(t, err)
	ae := err.(*apperr.AppError)
	assert.Equal(t, apperr.ErrCodeTaskNotFound, ae.Code)
}

func TestStore_Cancel_FromAnyNonTerminalState(t *testing.T) {
	s := newTestStore()
	task := s.Create(a2atypes.NewUserMessage("x"), nil)
	updated, err := s.Cancel(task.ID)
	require.NoError(t, err)
	assert.Equal(t, a2atypes.StateCanceled, updated.Status.State)

	_, err = s.Cancel(task.ID)
	require.Error(t, err)
}

func TestStore_AppendArtifactAndMessage(t *testing.T) {
	s := newTestStore()
	task := s.Create(a2atypes.NewUserMessage("x"), nil)

	require.NoError(t, s.AppendMessage(task.ID, a2atypes.NewAgentMessage(a2atypes.NewTextPart("reply"))))
	require.NoError(t, s.AppendArtifact(task.ID, a2atypes.NewTextPart("artifact-1")))

	fetched := s.Get(task.ID)
	assert.Len(t, fetched.Messages, 2) // initial + appended
	assert.Len(t, fetched.Artifacts, 1)
	assert.Equal(t, 0, fetched.Artifacts[0].Index)
}

func TestStore_AppendAfterTerminal_Fails(t *testing.T) {
	s := newTestStore()
	task := s.Create(a2atypes.NewUserMessage("x"), nil)
	_, err := s.Cancel(task.ID)
	require.NoError(t, err)

	err = s.AppendArtifact(task.ID, a2atypes.NewTextPart("late"))
	assert.Error(t, err)
}

func TestStore_EventsEmittedInOrder(t *testing.T) {
	s := newTestStore()
	var kinds []EventKind
	s.Subscribe(func(ev Event) { kinds = append(kinds, ev.Kind) })

	task := s.Create(a2atypes.NewUserMessage("x"), nil)
	_, err := s.Transition(task.ID, a2atypes.StateWorking, "")
	require.NoError(t, err)
	require.NoError(t, s.AppendArtifact(task.ID, a2atypes.NewTextPart("a")))
	_, err = s.Transition(task.ID, a2atypes.StateCompleted, "")
	require.NoError(t, err)

	require.Equal(t, []EventKind{EventTransition, EventMessage, EventTransition, EventArtifact, EventTransition}, kinds)
}

func TestStore_Stats(t *testing.T) {
	s := newTestStore()
	a := s.Create(a2atypes.NewUserMessage("a"), nil)
	s.Create(a2atypes.NewUserMessage("b"), nil)
	_, err := s.Cancel(a.ID)
	require.NoError(t, err)

	stats := s.Stats()
	assert.Equal(t, 2, stats.Total)
	assert.Equal(t, 1, stats.Counts[a2atypes.StateCanceled])
	assert.Equal(t, 1, stats.Counts[a2atypes.StateSubmitted])
}

func TestStore_CapacityEvictsOldestTerminal(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	tick := 0
	s := NewStore(logr.Discard(), WithCapacity(2), WithClock(func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Second)
	}))

	t1 := s.Create(a2atypes.NewUserMessage("1"), nil)
	_, err := s.Cancel(t1.ID)
	require.NoError(t, err)

	s.Create(a2atypes.NewUserMessage("2"), nil)
	s.Create(a2atypes.NewUserMessage("3"), nil) // triggers eviction, t1 is oldest terminal

	assert.Nil(t, s.Get(t1.ID))
}
