package cli

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"family-hub-service/internal/app"
	"family-hub-service/internal/config"
	memstore "family-hub-service/internal/infra/memory"
	pgstore "family-hub-service/internal/infra/postgres"
	redisstore "family-hub-service/internal/infra/redis"
	transport "family-hub-service/internal/transport/http"
)

// NewServeCmd builds the CLI subcommand that runs the HTTP server.
func NewServeCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the family hub server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
			return err
		}
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	// Store precedence: redis, then postgres, then in-memory. The memory
	// fallback keeps local development dependency-free.
	var store app.ProfileStore = memstore.NewProfileStore()
	switch {
	case cfg.Redis.Addr != "":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		store = redisstore.NewProfileStore(client)
		log.Printf("using redis profile store at %s", cfg.Redis.Addr)
	case cfg.Postgres.URL != "":
		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
		store = pgstore.NewProfileStore(pool)
		log.Printf("using postgres profile store")
	default:
		log.Printf("using in-memory profile store")
	}

	snapshotTTL := config.Duration(cfg.Snapshot.TTL, 30*time.Second)
	feedbackDelay := config.Duration(cfg.Trivia.FeedbackDelay, 2*time.Second)

	snapshot := app.NewChildSnapshot(store, snapshotTTL)
	profiles := app.NewProfileService(store, snapshot)
	trivia := app.NewTriviaService(snapshot, feedbackDelay)

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      transport.NewRouter(profiles, trivia),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Printf("starting family hub on :%s", finalPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("failed to start server: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Println("shutting down server...")
	case <-ctx.Done():
		log.Println("context canceled, shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
