package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTimer(t *testing.T) {
	timer, err := NewTimer("id-1", " Tea ", 5, "Kitchen", true)
	require.NoError(t, err)

	assert.Equal(t, "id-1", timer.ID)
	assert.Equal(t, "Tea", timer.Name)
	assert.Equal(t, 5, timer.Duration)
	assert.Equal(t, 5, timer.RemainingTime)
	assert.Equal(t, StatusPaused, timer.Status)
	assert.True(t, timer.HalfwayAlert)
	assert.NoError(t, timer.Validate())
}

func TestNewTimerRejectsInvalidInput(t *testing.T) {
	tests := []struct {
		name     string
		timer    string
		duration int
		category string
	}{
		{name: "empty name", timer: "", duration: 5, category: "Kitchen"},
		{name: "blank name", timer: "   ", duration: 5, category: "Kitchen"},
		{name: "empty category", timer: "Tea", duration: 5, category: ""},
		{name: "zero duration", timer: "Tea", duration: 0, category: "Kitchen"},
		{name: "negative duration", timer: "Tea", duration: -3, category: "Kitchen"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewTimer("id", tt.timer, tt.duration, tt.category, false)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestTimerValidate(t *testing.T) {
	valid := Timer{ID: "a", Name: "n", Category: "c", Duration: 10, RemainingTime: 4, Status: StatusRunning}
	assert.NoError(t, valid.Validate())

	overflow := valid
	overflow.RemainingTime = 11
	assert.ErrorIs(t, overflow.Validate(), ErrValidation)

	unknown := valid
	unknown.Status = "Stopped"
	assert.ErrorIs(t, unknown.Validate(), ErrValidation)

	completedWithTime := valid
	completedWithTime.Status = StatusCompleted
	assert.ErrorIs(t, completedWithTime.Validate(), ErrValidation)

	done := valid
	done.Status = StatusCompleted
	done.RemainingTime = 0
	assert.NoError(t, done.Validate())
}

func TestHalfwayPointRoundsDown(t *testing.T) {
	assert.Equal(t, 2, Timer{Duration: 5}.HalfwayPoint())
	assert.Equal(t, 5, Timer{Duration: 10}.HalfwayPoint())
	assert.Equal(t, 0, Timer{Duration: 1}.HalfwayPoint())
}
