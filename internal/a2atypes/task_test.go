package a2atypes

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition_TableDriven(t *testing.T) {
	tests := []struct {
		from State
		to   State
		want bool
	}{
		{StateSubmitted, StateWorking, true},
		{StateSubmitted, StateCanceled, true},
		{StateSubmitted, StateCompleted, false},
		{StateWorking, StateCompleted, true},
		{StateWorking, StateFailed, true},
		{StateWorking, StateCanceled, true},
		{StateWorking, StateInputRequired, true},
		{StateInputRequired, StateWorking, true},
		{StateInputRequired, StateCanceled, true},
		{StateInputRequired, StateCompleted, false},
		{StateCompleted, StateWorking, false},
		{StateFailed, StateCanceled, false},
		{StateCanceled, StateWorking, false},
	}

	for _, tt := range tests {
		got := CanTransition(tt.from, tt.to)
		assert.Equalf(t, tt.want, got, "%s -> %s", tt.from, tt.to)
	}
}

func TestIsTerminal(t *testing.T) {
	assert.True(t, IsTerminal(StateCompleted))
	assert.True(t, IsTerminal(StateFailed))
	assert.True(t, IsTerminal(StateCanceled))
	assert.False(t, IsTerminal(StateSubmitted))
	assert.False(t, IsTerminal(StateWorking))
	assert.False(t, IsTerminal(StateInputRequired))
}

func TestNewTask(t *testing.T) {
	now := time.Now().UTC()
	msg := NewUserMessage("hello")
	task := NewTask("T1", "C1", msg, map[string]interface{}{"skill": "xactions.x_get_profile"}, now)

	assert.Equal(t, "T1", task.ID)
	assert.Equal(t, "C1", task.ContextID)
	assert.Equal(t, StateSubmitted, task.Status.State)
	assert.Len(t, task.History, 1)
	assert.Equal(t, StateSubmitted, task.History[0].State)
	assert.Len(t, task.Messages, 1)
}

func TestPartValidate_File(t *testing.T) {
	bad := Part{Kind: PartKindFile, File: &FilePart{Name: "a", URI: "http://x", Bytes: []byte("y")}}
	assert.Error(t, bad.Validate())

	neither := Part{Kind: PartKindFile, File: &FilePart{Name: "a"}}
	assert.Error(t, neither.Validate())

	ok := Part{Kind: PartKindFile, File: &FilePart{Name: "a", URI: "http://x"}}
	assert.NoError(t, ok.Validate())
}

func TestPartValidate_Data(t *testing.T) {
	assert.Error(t, Part{Kind: PartKindData}.Validate())
	assert.NoError(t, Part{Kind: PartKindData, Data: map[string]string{"a": "b"}}.Validate())
}

func TestNewTaskID_Unique(t *testing.T) {
	a := NewTaskID()
	b := NewTaskID()
	assert.NotEqual(t, a, b)
	assert.Contains(t, a, "task_")
}
