package memory

import (
	"context"
	"slices"

	"trivia-quiz/internal/domain"
)

// StaticSource serves a fixed question set (useful for tests/demos).
type StaticSource struct {
	questions []domain.Question
	err       error
}

func NewStaticSource(questions []domain.Question) *StaticSource {
	return &StaticSource{questions: questions}
}

// NewFailingSource always returns err, for exercising the failed phase.
func NewFailingSource(err error) *StaticSource {
	return &StaticSource{err: err}
}

func (s *StaticSource) FetchQuestions(ctx context.Context) ([]domain.Question, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.err != nil {
		return nil, s.err
	}
	return slices.Clone(s.questions), nil
}

// SampleQuestions is the built-in set used by the "sample" source.
func SampleQuestions() []domain.Question {
	return []domain.Question{
		{
			ID:               "sample-1",
			Category:         "science",
			Difficulty:       "easy",
			Text:             "What is the chemical symbol for gold?",
			CorrectAnswer:    "Au",
			IncorrectAnswers: []string{"Ag", "Gd", "Go"},
		},
		{
			ID:               "sample-2",
			Category:         "geography",
			Difficulty:       "easy",
			Text:             "Which river flows through Vienna?",
			CorrectAnswer:    "Danube",
			IncorrectAnswers: []string{"Rhine", "Elbe", "Vltava"},
		},
		{
			ID:               "sample-3",
			Category:         "history",
			Difficulty:       "medium",
			Text:             "In which year did the Berlin Wall fall?",
			CorrectAnswer:    "1989",
			IncorrectAnswers: []string{"1987", "1991", "1979"},
		},
	}
}
