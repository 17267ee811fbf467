package triviaapi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

const v2Body = `[
  {
    "category": "science",
    "id": "622a1c367cc59eab6f950256",
    "correctAnswer": "Au",
    "incorrectAnswers": ["Ag", "Fe", "Pb"],
    "question": {"text": "What is the chemical symbol for gold?"},
    "tags": ["science"],
    "type": "text_choice",
    "difficulty": "easy",
    "regions": [],
    "isNiche": false
  },
  {
    "category": "music",
    "id": "622a1c357cc59eab6f94fd1c",
    "correctAnswer": "Nirvana",
    "incorrectAnswers": ["Pearl Jam", "Soundgarden", "Alice in Chains"],
    "question": {"text": "Which band released 'Nevermind'?"},
    "difficulty": "medium"
  }
]`

func TestFetchQuestionsDecodesV2(t *testing.T) {
	var gotPath, gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(v2Body))
	}))
	defer server.Close()

	questions, err := NewClient(Options{BaseURL: server.URL}).FetchQuestions(context.Background())
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if gotPath != "/v2/questions" || gotQuery != "" {
		t.Fatalf("unexpected request %s?%s", gotPath, gotQuery)
	}
	if len(questions) != 2 {
		t.Fatalf("expected 2 questions, got %d", len(questions))
	}
	first := questions[0]
	if first.Text != "What is the chemical symbol for gold?" || first.CorrectAnswer != "Au" {
		t.Fatalf("unexpected first question %+v", first)
	}
	if len(first.IncorrectAnswers) != 3 || first.Category != "science" || first.Difficulty != "easy" {
		t.Fatalf("unexpected first question %+v", first)
	}
	if questions[1].CorrectAnswer != "Nirvana" {
		t.Fatalf("order not preserved: %+v", questions[1])
	}
}

func TestFetchQuestionsSendsFilters(t *testing.T) {
	var query map[string][]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.Query()
		_, _ = w.Write([]byte(`[]`))
	}))
	defer server.Close()

	client := NewClient(Options{
		BaseURL:      server.URL + "/",
		Limit:        5,
		Categories:   []string{"science", "history"},
		Difficulties: []string{"easy"},
	})
	if _, err := client.FetchQuestions(context.Background()); err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if query["limit"][0] != "5" || query["categories"][0] != "science,history" || query["difficulties"][0] != "easy" {
		t.Fatalf("unexpected query %v", query)
	}
}

func TestFetchQuestionsRejectsBadStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "slow down", http.StatusTooManyRequests)
	}))
	defer server.Close()

	_, err := NewClient(Options{BaseURL: server.URL}).FetchQuestions(context.Background())
	if !errors.Is(err, ErrUnexpectedStatus) {
		t.Fatalf("expected ErrUnexpectedStatus, got %v", err)
	}
}

func TestFetchQuestionsRejectsMalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"not": "a list"`))
	}))
	defer server.Close()

	if _, err := NewClient(Options{BaseURL: server.URL}).FetchQuestions(context.Background()); err == nil {
		t.Fatalf("expected decode error")
	}
}

func TestFetchQuestionsHonoursContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewClient(Options{BaseURL: server.URL}).FetchQuestions(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
