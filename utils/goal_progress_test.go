package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGoalProgress(t *testing.T) {
	assert.Equal(t, 0.0, GoalProgress(0, 10))
	assert.Equal(t, 50.0, GoalProgress(5, 10))
	assert.Equal(t, 100.0, GoalProgress(10, 10))
	// overshoot clamps
	assert.Equal(t, 100.0, GoalProgress(20, 10))
}

func TestGoalProgress_BadGoal(t *testing.T) {
	assert.Equal(t, 0.0, GoalProgress(5, 0))
	assert.Equal(t, 0.0, GoalProgress(5, -1))
	assert.Equal(t, 0.0, GoalProgress(-3, 10))
}
