package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/migrate"

	"trivia-quiz/internal/domain"
	pgmigrations "trivia-quiz/internal/infra/postgres/migrations"
)

type questionSetRow struct {
	bun.BaseModel `bun:"table:question_sets"`

	ID   string            `bun:"id,pk"`
	Data []domain.Question `bun:"data,type:jsonb"`
}

// OpenDB returns a bun handle over pgdriver; the caller closes it.
func OpenDB(dsn string) *bun.DB {
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	return bun.NewDB(sqldb, pgdialect.New())
}

// Migrate applies all pending schema migrations.
func Migrate(ctx context.Context, db *bun.DB) error {
	migrator := migrate.NewMigrator(db, pgmigrations.Migrations)
	if err := migrator.Init(ctx); err != nil {
		return fmt.Errorf("init migrator: %w", err)
	}
	if _, err := migrator.Migrate(ctx); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

// SaveQuestionSet inserts or replaces a question set.
func SaveQuestionSet(ctx context.Context, db bun.IDB, id string, questions []domain.Question) error {
	if err := domain.ValidateQuestions(questions); err != nil {
		return err
	}
	row := &questionSetRow{ID: id, Data: questions}
	_, err := db.NewInsert().
		Model(row).
		On("CONFLICT (id) DO UPDATE").
		Set("data = EXCLUDED.data").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("save question set %s: %w", id, err)
	}
	return nil
}
