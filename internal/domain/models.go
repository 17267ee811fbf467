package domain

import "fmt"

// Question is a single trivia question with one correct answer.
type Question struct {
	ID               string   `json:"id,omitempty" yaml:"id,omitempty"`
	Category         string   `json:"category,omitempty" yaml:"category,omitempty"`
	Difficulty       string   `json:"difficulty,omitempty" yaml:"difficulty,omitempty"`
	Text             string   `json:"text" yaml:"text"`
	CorrectAnswer    string   `json:"correctAnswer" yaml:"correctAnswer"`
	IncorrectAnswers []string `json:"incorrectAnswers" yaml:"incorrectAnswers"`
}

// Validate checks the question invariants.
func (q Question) Validate() error {
	if q.Text == "" {
		return fmt.Errorf("%w: empty text", ErrInvalidQuestion)
	}
	if q.CorrectAnswer == "" {
		return fmt.Errorf("%w: empty correct answer", ErrInvalidQuestion)
	}
	if len(q.IncorrectAnswers) == 0 {
		return fmt.Errorf("%w: no incorrect answers", ErrInvalidQuestion)
	}
	for _, a := range q.IncorrectAnswers {
		if a == q.CorrectAnswer {
			return fmt.Errorf("%w: correct answer %q listed as incorrect", ErrInvalidQuestion, a)
		}
	}
	return nil
}

// ValidateQuestions rejects an empty set or any invalid question.
func ValidateQuestions(questions []Question) error {
	if len(questions) == 0 {
		return ErrNoQuestions
	}
	for i, q := range questions {
		if err := q.Validate(); err != nil {
			return fmt.Errorf("question %d: %w", i+1, err)
		}
	}
	return nil
}

// Phase is the lifecycle stage of a quiz session.
type Phase string

const (
	PhaseLoading   Phase = "loading"
	PhaseAnswering Phase = "answering"
	PhaseComplete  Phase = "complete"
	PhaseFailed    Phase = "failed"
)

const (
	AdvanceNext   = "Next"
	AdvanceFinish = "Finish Quiz"
)

// View is the snapshot handed to presentation layers.
type View struct {
	Generation   uint64   `json:"generation"`
	Phase        Phase    `json:"phase"`
	Index        int      `json:"index,omitempty"` // 1-based
	Total        int      `json:"total"`
	Question     string   `json:"question,omitempty"`
	Category     string   `json:"category,omitempty"`
	Difficulty   string   `json:"difficulty,omitempty"`
	Choices      []string `json:"choices,omitempty"`
	Selected     string   `json:"selected,omitempty"`
	Score        int      `json:"score"`
	AdvanceLabel string   `json:"advanceLabel,omitempty"`
	Error        string   `json:"error,omitempty"`
}
