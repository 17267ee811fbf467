package cli

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"trivia-quiz/internal/config"
)

var (
	port       string
	configPath string
	sourceKind string
)

// Execute runs the CLI.
func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	// .env is optional
	_ = godotenv.Load()

	envPort := os.Getenv("PORT")
	envConfig := os.Getenv("CONFIG_PATH")
	if envConfig == "" {
		envConfig = "config/config.yaml"
	}

	cmd := &cobra.Command{
		Use:          "trivia-quiz",
		Short:        "Single-player trivia quiz for the terminal and the browser",
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&port, "port", envPort, "port to listen on (serve)")
	cmd.PersistentFlags().StringVar(&configPath, "config", envConfig, "path to YAML config")
	cmd.PersistentFlags().StringVar(&sourceKind, "source", os.Getenv("QUIZ_SOURCE"), "question source: http, postgres, file or sample")
	cmd.AddCommand(NewPlayCmd(&configPath, &sourceKind))
	cmd.AddCommand(NewServeCmd(&configPath, &port, &sourceKind))
	cmd.AddCommand(NewMigrateCmd(&configPath))
	cmd.AddCommand(NewSeedCmd(&configPath))
	return cmd
}

// loadConfig reads the config file and applies the --source override.
func loadConfig(path, source string) (config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, err
	}
	if source != "" {
		cfg.Source.Kind = source
	}
	return cfg, nil
}
