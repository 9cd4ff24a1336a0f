package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewTask(t *testing.T) {
	task := NewTask("buy milk")

	assert.Equal(t, int64(0), task.ID, "unsaved task should have no ID")
	assert.Equal(t, "buy milk", task.Title)
	assert.False(t, task.Completed, "new task should not be completed")
}

func TestNewTask_EmptyTitleAccepted(t *testing.T) {
	task := NewTask("")
	assert.Equal(t, "", task.Title)
}

func TestTask_Toggled(t *testing.T) {
	original := Task{ID: 7, Title: "walk dog", Completed: false}

	once := original.Toggled()
	assert.True(t, once.Completed)
	assert.False(t, original.Completed, "Toggled must not mutate the receiver")

	twice := once.Toggled()
	assert.Equal(t, original, twice, "toggling twice restores the original value")
}

func TestValidationError(t *testing.T) {
	err := NewValidationError("id", "has invalid format", ErrInvalidID)

	assert.Equal(t, "id has invalid format", err.Error())
	assert.True(t, errors.Is(err, ErrInvalidID))
	assert.False(t, errors.Is(err, ErrValidation))
}
