package quiz

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func completeStepOne(s *Session) {
	s.Size = "M"
	s.Height = 175
	s.Weight = 70
}

func TestSessionStartsAtSizeStep(t *testing.T) {
	s := NewSession()
	assert.Equal(t, StepSize, s.Step())
}

func TestNextRequiresCompleteStep(t *testing.T) {
	s := NewSession()

	// Nothing filled in yet.
	assert.ErrorIs(t, s.Next(), ErrIncompleteStep)

	s.Size = "M"
	s.Height = 175
	assert.ErrorIs(t, s.Next(), ErrIncompleteStep)

	s.Weight = 70
	require.NoError(t, s.Next())
	assert.Equal(t, StepGoals, s.Step())

	// Goals step requires at least one goal.
	assert.ErrorIs(t, s.Next(), ErrIncompleteStep)

	s.ToggleGoal("running")
	require.NoError(t, s.Next())
	assert.Equal(t, StepBudget, s.Step())
}

func TestBackPreservesData(t *testing.T) {
	s := NewSession()
	completeStepOne(s)
	require.NoError(t, s.Next())
	s.ToggleGoal("yoga")
	require.NoError(t, s.Next())

	s.Back()
	assert.Equal(t, StepGoals, s.Step())
	s.Back()
	assert.Equal(t, StepSize, s.Step())

	// Everything entered so far survives backward navigation.
	assert.Equal(t, "M", s.Size)
	assert.Equal(t, 175, s.Height)
	assert.Equal(t, 70, s.Weight)
	assert.Equal(t, []string{"yoga"}, s.Goals)

	// Back from the first step is a no-op.
	s.Back()
	assert.Equal(t, StepSize, s.Step())
}

func TestToggleGoal(t *testing.T) {
	s := NewSession()

	s.ToggleGoal("running")
	s.ToggleGoal("yoga")
	assert.Equal(t, []string{"running", "yoga"}, s.Goals)

	s.ToggleGoal("running")
	assert.Equal(t, []string{"yoga"}, s.Goals)
}

func TestSubmitOnlyFromCompleteFinalStep(t *testing.T) {
	s := NewSession()
	completeStepOne(s)

	// Still on step one.
	_, err := s.Submit("user-1")
	assert.ErrorIs(t, err, ErrIncompleteStep)

	require.NoError(t, s.Next())
	s.ToggleGoal("strength")
	require.NoError(t, s.Next())

	// At the budget step but nothing selected.
	_, err = s.Submit("user-1")
	assert.ErrorIs(t, err, ErrIncompleteStep)

	s.Budget = "10000"
	resp, err := s.Submit("user-1")
	require.NoError(t, err)

	assert.Equal(t, "user-1", resp.UserID)
	assert.Equal(t, "M", resp.Size)
	assert.Equal(t, 175, resp.Height)
	assert.Equal(t, 70, resp.Weight)
	assert.Equal(t, []string{"strength"}, resp.Goals)
	assert.Equal(t, "10000", resp.Budget)
	assert.Equal(t, Submitted, s.Step())

	// A submitted session cannot be reused.
	_, err = s.Submit("user-1")
	assert.ErrorIs(t, err, ErrAlreadySubmitted)
	assert.ErrorIs(t, s.Next(), ErrAlreadySubmitted)
}
