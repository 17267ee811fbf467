package cli

import (
	"context"
	"errors"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"trivia-quiz/internal/transport/terminal"
)

// NewPlayCmd runs a quiz in the terminal.
func NewPlayCmd(configPath, source *string) *cobra.Command {
	return &cobra.Command{
		Use:   "play",
		Short: "Play a quiz in the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlay(cmd.Context(), *configPath, *source, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
}

func runPlay(ctx context.Context, configPath, source string, in io.Reader, out io.Writer) error {
	cfg, err := loadConfig(configPath, source)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	src, release, err := buildSource(ctx, cfg)
	if err != nil {
		return err
	}
	defer release()

	ctrl := newControllerFactory(src, cfg)()
	defer ctrl.Close()

	err = terminal.NewRunner(ctrl, in, out).Run(ctx)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
