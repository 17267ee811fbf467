package cli

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"trivia-quiz/internal/app"
	"trivia-quiz/internal/config"
	"trivia-quiz/internal/infra/memory"
	redissession "trivia-quiz/internal/infra/redis"
	transport "trivia-quiz/internal/transport/http"
)

// NewServeCmd builds the CLI subcommand to start the websocket server.
func NewServeCmd(configPath, port, source *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve quiz sessions over WebSocket",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port, *source)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag, source string) error {
	cfg, err := loadConfig(configPath, source)
	if err != nil {
		return err
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	src, release, err := buildSource(ctx, cfg)
	if err != nil {
		return err
	}
	defer release()

	var store app.SessionRepository = memory.NewSessionStore()
	if cfg.Redis.Addr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			// lets the store's per-call deadlines bound socket I/O
			ContextTimeoutEnabled: true,
		})
		defer redisClient.Close()
		store = redissession.NewSessionStore(redisClient, config.Duration(cfg.Redis.TTL, 10*time.Minute))
	}

	wsHandler := transport.NewWSHandler(store, newControllerFactory(src, cfg))

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	mux.HandleFunc("/ws", wsHandler.ServeWS)
	mux.HandleFunc("GET /sessions/{id}", wsHandler.ServeSession)

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Printf("starting trivia quiz server on :%s (source %s)", finalPort, cfg.Source.Kind)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Println("shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
