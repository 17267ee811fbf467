package triviaapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"trivia-quiz/internal/domain"
)

// DefaultBaseURL is the public Trivia API endpoint.
const DefaultBaseURL = "https://the-trivia-api.com"

// ErrUnexpectedStatus is returned for any non-2xx response.
var ErrUnexpectedStatus = errors.New("unexpected response status")

// Options tune the request; zero values send the bare default request.
type Options struct {
	BaseURL      string
	Limit        int
	Categories   []string
	Difficulties []string
	HTTPClient   *http.Client
}

// Client fetches question sets from the Trivia API v2.
type Client struct {
	endpoint string
	query    url.Values
	http     *http.Client
}

func NewClient(opts Options) *Client {
	base := strings.TrimRight(opts.BaseURL, "/")
	if base == "" {
		base = DefaultBaseURL
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	query := url.Values{}
	if opts.Limit > 0 {
		query.Set("limit", strconv.Itoa(opts.Limit))
	}
	if len(opts.Categories) > 0 {
		query.Set("categories", strings.Join(opts.Categories, ","))
	}
	if len(opts.Difficulties) > 0 {
		query.Set("difficulties", strings.Join(opts.Difficulties, ","))
	}

	return &Client{
		endpoint: base + "/v2/questions",
		query:    query,
		http:     httpClient,
	}
}

// apiQuestion mirrors the v2 wire shape.
type apiQuestion struct {
	ID               string   `json:"id"`
	Category         string   `json:"category"`
	Difficulty       string   `json:"difficulty"`
	CorrectAnswer    string   `json:"correctAnswer"`
	IncorrectAnswers []string `json:"incorrectAnswers"`
	Question         struct {
		Text string `json:"text"`
	} `json:"question"`
}

func (c *Client) FetchQuestions(ctx context.Context) ([]domain.Question, error) {
	target := c.endpoint
	if len(c.query) > 0 {
		target += "?" + c.query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request questions: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("%w: %s", ErrUnexpectedStatus, resp.Status)
	}

	var payload []apiQuestion
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode questions: %w", err)
	}

	questions := make([]domain.Question, 0, len(payload))
	for _, q := range payload {
		questions = append(questions, domain.Question{
			ID:               q.ID,
			Category:         q.Category,
			Difficulty:       q.Difficulty,
			Text:             q.Question.Text,
			CorrectAnswer:    q.CorrectAnswer,
			IncorrectAnswers: q.IncorrectAnswers,
		})
	}
	return questions, nil
}
