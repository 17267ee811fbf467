package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestSourceReadsYAML(t *testing.T) {
	path := writeFile(t, "questions.yaml", `
- text: What is the capital of Austria?
  category: geography
  correctAnswer: Vienna
  incorrectAnswers: [Salzburg, Graz]
- text: How many legs does a spider have?
  correctAnswer: "8"
  incorrectAnswers: ["6", "10"]
`)

	questions, err := NewSource(path).FetchQuestions(context.Background())
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(questions) != 2 {
		t.Fatalf("expected 2 questions, got %d", len(questions))
	}
	if questions[0].CorrectAnswer != "Vienna" || questions[0].Category != "geography" {
		t.Fatalf("unexpected question %+v", questions[0])
	}
	if questions[1].CorrectAnswer != "8" || len(questions[1].IncorrectAnswers) != 2 {
		t.Fatalf("unexpected question %+v", questions[1])
	}
}

func TestSourceReadsJSON(t *testing.T) {
	path := writeFile(t, "questions.json", `[{"text":"2+2?","correctAnswer":"4","incorrectAnswers":["3"]}]`)

	questions, err := NewSource(path).FetchQuestions(context.Background())
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(questions) != 1 || questions[0].Text != "2+2?" {
		t.Fatalf("unexpected questions %+v", questions)
	}
}

func TestSourceMissingFile(t *testing.T) {
	if _, err := NewSource(filepath.Join(t.TempDir(), "nope.yaml")).FetchQuestions(context.Background()); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write file: %v", err)
	}
	return path
}
