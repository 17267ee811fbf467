package terminal

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log"
	"strings"
	"sync"
	"testing"
	"time"

	"trivia-quiz/internal/app"
	"trivia-quiz/internal/domain"
	"trivia-quiz/internal/infra/memory"
)

func TestRunnerPlaysFullQuiz(t *testing.T) {
	// Identity shuffle: choices are the incorrect answers followed by the correct one.
	input := strings.Join([]string{
		"",  // advance without a selection
		"4", // q1 correct ("4")
		"",
		"1", // q2 wrong ("Saturn")
		"n",
		"2", // q3 correct ("Shakespeare")
		"",
		"r", // restart
		"q",
	}, "\n") + "\n"

	out := run(t, memory.NewStaticSource(questions()), input)

	for _, want := range []string{
		"Please select an answer!",
		"Question 1 of 3",
		"What is 2 + 2?",
		`press Enter for "Next"`,
		`press Enter for "Finish Quiz"`,
		"Quiz Completed!",
		"Your score: 2 / 3",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected output to contain %q, got:\n%s", want, out)
		}
	}
	if n := strings.Count(out, "Question 1 of 3"); n < 3 {
		t.Fatalf("expected restart to show question 1 again, saw it %d times", n)
	}
}

func TestRunnerMarksSelection(t *testing.T) {
	out := run(t, memory.NewStaticSource(questions()), "2\nq\n")
	if !strings.Contains(out, "* 2) 5") {
		t.Fatalf("expected selection marker, got:\n%s", out)
	}
}

func TestRunnerRejectsOutOfRangeInput(t *testing.T) {
	out := run(t, memory.NewStaticSource(questions()), "9\nq\n")
	if !strings.Contains(out, "Invalid input. Enter a number between 1 and 4.") {
		t.Fatalf("expected invalid input notice, got:\n%s", out)
	}
}

func TestRunnerShowsFailure(t *testing.T) {
	out := run(t, memory.NewFailingSource(errors.New("no route to host")), "q\n")
	if !strings.Contains(out, "Could not load questions") || !strings.Contains(out, "no route to host") {
		t.Fatalf("expected failure notice, got:\n%s", out)
	}
}

func TestRunnerStopsOnEOF(t *testing.T) {
	out := run(t, memory.NewStaticSource(questions()), "1")
	if !strings.Contains(out, "Question 1 of 3") {
		t.Fatalf("expected first question, got:\n%s", out)
	}
}

func TestRunnerStopsWhenContextCancelled(t *testing.T) {
	ctrl := app.NewController(memory.NewStaticSource(questions()),
		app.WithShuffler(app.NewShufflerFunc(func(n int) int { return n - 1 })),
		app.WithLogger(log.New(io.Discard, "", 0)),
	)
	defer ctrl.Close()

	pr, pw := io.Pipe()
	defer pw.Close()
	out := &lockedBuffer{}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errs := make(chan error, 1)
	go func() { errs <- NewRunner(ctrl, pr, out).Run(ctx) }()

	waitForOutput(t, out, "Question 1 of 3")
	cancel()

	select {
	case err := <-errs:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("runner kept waiting for input after cancellation")
	}

	// Input arriving after the runner stopped must not move the quiz.
	go func() { _, _ = pw.Write([]byte("4\n\n")) }()
	time.Sleep(50 * time.Millisecond)
	if strings.Contains(out.String(), "Question 2 of 3") {
		t.Fatalf("quiz advanced after cancellation:\n%s", out.String())
	}
	if v := ctrl.View(); v.Index != 1 || v.Selected != "" {
		t.Fatalf("expected untouched first question, got %+v", v)
	}
}

func TestRunnerLogsRejectedSelection(t *testing.T) {
	ctrl := app.NewController(memory.NewStaticSource(questions()),
		app.WithLogger(log.New(io.Discard, "", 0)),
	)
	defer ctrl.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	ctrl.Initialize(ctx)
	if _, err := ctrl.Await(ctx); err != nil {
		t.Fatalf("await: %v", err)
	}

	var logs bytes.Buffer
	r := NewRunner(ctrl, strings.NewReader("1\n"), io.Discard)
	r.logger = log.New(&logs, "", 0)
	defer r.stop()

	// A stale view offering a choice the controller no longer shows.
	stale := domain.View{Phase: domain.PhaseAnswering, Index: 1, Total: 3, Choices: []string{"42"}}
	if quit, err := r.answer(ctx, stale); quit || err != nil {
		t.Fatalf("answer: quit=%v err=%v", quit, err)
	}
	if !strings.Contains(logs.String(), domain.ErrUnknownChoice.Error()) {
		t.Fatalf("expected rejected selection to be logged, got %q", logs.String())
	}
	if v := ctrl.View(); v.Selected != "" {
		t.Fatalf("expected no selection, got %q", v.Selected)
	}
}

func run(t *testing.T, src app.QuestionSource, input string) string {
	t.Helper()
	ctrl := app.NewController(src,
		app.WithShuffler(app.NewShufflerFunc(func(n int) int { return n - 1 })),
		app.WithLogger(log.New(io.Discard, "", 0)),
	)
	defer ctrl.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var out bytes.Buffer
	if err := NewRunner(ctrl, strings.NewReader(input), &out).Run(ctx); err != nil {
		t.Fatalf("run: %v", err)
	}
	return out.String()
}

func questions() []domain.Question {
	return []domain.Question{
		{Text: "What is 2 + 2?", CorrectAnswer: "4", IncorrectAnswers: []string{"3", "5", "22"}},
		{Text: "Largest planet?", CorrectAnswer: "Jupiter", IncorrectAnswers: []string{"Saturn", "Earth"}},
		{Text: "Author of Hamlet?", CorrectAnswer: "Shakespeare", IncorrectAnswers: []string{"Marlowe"}},
	}
}

type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func waitForOutput(t *testing.T, out *lockedBuffer, want string) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for !strings.Contains(out.String(), want) {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %q, got:\n%s", want, out.String())
		}
		time.Sleep(10 * time.Millisecond)
	}
}
