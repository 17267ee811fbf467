package file

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"trivia-quiz/internal/domain"
)

// Source reads a question list from a YAML (or JSON) file on every fetch.
type Source struct {
	path string
}

func NewSource(path string) *Source {
	return &Source{path: path}
}

func (s *Source) FetchQuestions(ctx context.Context) ([]domain.Question, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("read question file: %w", err)
	}
	var questions []domain.Question
	if err := yaml.Unmarshal(data, &questions); err != nil {
		return nil, fmt.Errorf("decode question file %s: %w", s.path, err)
	}
	return questions, nil
}
