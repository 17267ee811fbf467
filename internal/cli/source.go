package cli

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"

	"trivia-quiz/internal/app"
	"trivia-quiz/internal/config"
	"trivia-quiz/internal/infra/file"
	"trivia-quiz/internal/infra/memory"
	"trivia-quiz/internal/infra/postgres"
	"trivia-quiz/internal/infra/triviaapi"
)

// buildSource wires the configured question source. The returned func
// releases whatever the source holds open.
func buildSource(ctx context.Context, cfg config.Config) (app.QuestionSource, func(), error) {
	noop := func() {}

	switch cfg.Source.Kind {
	case config.SourceHTTP:
		return triviaapi.NewClient(triviaapi.Options{
			BaseURL:      cfg.TriviaAPI.BaseURL,
			Limit:        cfg.TriviaAPI.Limit,
			Categories:   cfg.TriviaAPI.Categories,
			Difficulties: cfg.TriviaAPI.Difficulties,
			HTTPClient:   &http.Client{Timeout: config.Duration(cfg.TriviaAPI.Timeout, 10*time.Second)},
		}), noop, nil

	case config.SourceFile:
		if cfg.File.Path == "" {
			return nil, nil, fmt.Errorf("file.path not configured")
		}
		return file.NewSource(cfg.File.Path), noop, nil

	case config.SourceSample:
		return memory.NewStaticSource(memory.SampleQuestions()), noop, nil

	case config.SourcePostgres:
		if cfg.Postgres.URL == "" {
			return nil, nil, fmt.Errorf("postgres url not configured")
		}
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
			return nil, nil, err
		}
		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return nil, nil, err
		}
		return postgres.NewQuestionLoader(pool, cfg.Postgres.QuestionSet), pool.Close, nil

	default:
		return nil, nil, fmt.Errorf("unknown question source %q", cfg.Source.Kind)
	}
}

// newControllerFactory returns a constructor for independent quiz controllers
// sharing one source and shuffler.
func newControllerFactory(src app.QuestionSource, cfg config.Config) func() *app.Controller {
	timeout := config.Duration(cfg.Source.FetchTimeout, app.DefaultFetchTimeout)
	shuffler := app.NewShuffler()
	return func() *app.Controller {
		return app.NewController(src,
			app.WithFetchTimeout(timeout),
			app.WithShuffler(shuffler),
		)
	}
}
