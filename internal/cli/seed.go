package cli

import (
	"context"
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"trivia-quiz/internal/config"
	"trivia-quiz/internal/infra/file"
	"trivia-quiz/internal/infra/postgres"
)

// NewSeedCmd imports a YAML/JSON question file into Postgres as a question set.
func NewSeedCmd(configPath *string) *cobra.Command {
	var setID string
	cmd := &cobra.Command{
		Use:   "seed <questions-file>",
		Short: "Import a question file into the Postgres question bank",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed(cmd.Context(), *configPath, setID, args[0])
		},
	}
	cmd.Flags().StringVar(&setID, "set", "", "question set id (defaults to postgres.question_set)")
	return cmd
}

func runSeed(ctx context.Context, configPath, setID, path string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if cfg.Postgres.URL == "" {
		return fmt.Errorf("postgres url not configured")
	}
	if setID == "" {
		setID = cfg.Postgres.QuestionSet
	}

	questions, err := file.NewSource(path).FetchQuestions(ctx)
	if err != nil {
		return err
	}

	db := postgres.OpenDB(cfg.Postgres.URL)
	defer db.Close()

	if err := postgres.Migrate(ctx, db); err != nil {
		return err
	}
	if err := postgres.SaveQuestionSet(ctx, db, setID, questions); err != nil {
		return err
	}
	log.Printf("seeded question set %q with %d questions", setID, len(questions))
	return nil
}
