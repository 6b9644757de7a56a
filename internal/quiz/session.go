// Package quiz models the three-step preference capture flow.
package quiz

import (
	"errors"

	"kavara-store/internal/models"
)

// Step identifies the session's position in the flow.
type Step int

const (
	StepSize Step = iota + 1 // size, height and weight
	StepGoals
	StepBudget
	Submitted
)

var (
	ErrIncompleteStep   = errors.New("current step is incomplete")
	ErrAlreadySubmitted = errors.New("quiz already submitted")
	ErrSubmitRequired   = errors.New("final step completes via Submit")
)

// Session accumulates quiz answers across steps. Answers survive
// backward navigation; only a valid step may be advanced past.
type Session struct {
	step Step

	Size   string
	Height int
	Weight int
	Goals  []string
	Budget string
}

func NewSession() *Session {
	return &Session{step: StepSize}
}

func (s *Session) Step() Step {
	return s.step
}

// Next advances to the following step if the current one is complete.
func (s *Session) Next() error {
	switch s.step {
	case StepSize:
		if s.Size == "" || s.Height == 0 || s.Weight == 0 {
			return ErrIncompleteStep
		}
		s.step = StepGoals
	case StepGoals:
		if len(s.Goals) == 0 {
			return ErrIncompleteStep
		}
		s.step = StepBudget
	case StepBudget:
		return ErrSubmitRequired
	case Submitted:
		return ErrAlreadySubmitted
	}
	return nil
}

// Back moves to the previous step unconditionally, keeping entered
// data.
func (s *Session) Back() {
	switch s.step {
	case StepGoals:
		s.step = StepSize
	case StepBudget:
		s.step = StepGoals
	}
}

// ToggleGoal adds or removes a goal from the multi-select step.
func (s *Session) ToggleGoal(goal string) {
	for i, g := range s.Goals {
		if g == goal {
			s.Goals = append(s.Goals[:i], s.Goals[i+1:]...)
			return
		}
	}
	s.Goals = append(s.Goals, goal)
}

// Submit finalizes the session and returns the record to persist. It
// succeeds only from a complete budget step.
func (s *Session) Submit(userID string) (models.QuizResponse, error) {
	if s.step == Submitted {
		return models.QuizResponse{}, ErrAlreadySubmitted
	}
	if s.step != StepBudget || s.Budget == "" {
		return models.QuizResponse{}, ErrIncompleteStep
	}

	s.step = Submitted
	return models.QuizResponse{
		UserID: userID,
		Size:   s.Size,
		Height: s.Height,
		Weight: s.Weight,
		Goals:  s.Goals,
		Budget: s.Budget,
	}, nil
}
