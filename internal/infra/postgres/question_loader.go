package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"

	"trivia-quiz/internal/domain"
)

// QuestionLoader loads a question set stored as JSONB in Postgres.
type QuestionLoader struct {
	pool  *pgxpool.Pool
	setID string
}

func NewQuestionLoader(pool *pgxpool.Pool, setID string) *QuestionLoader {
	return &QuestionLoader{pool: pool, setID: setID}
}

func (l *QuestionLoader) FetchQuestions(ctx context.Context) ([]domain.Question, error) {
	var raw []byte
	err := l.pool.QueryRow(ctx, `SELECT data FROM question_sets WHERE id=$1`, l.setID).Scan(&raw)
	if err != nil {
		return nil, fmt.Errorf("load question set %s: %w", l.setID, err)
	}
	var questions []domain.Question
	if err := json.Unmarshal(raw, &questions); err != nil {
		return nil, fmt.Errorf("unmarshal question set: %w", err)
	}
	return questions, nil
}
