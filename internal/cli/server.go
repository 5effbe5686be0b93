package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"ai-interview-service/internal/app"
	"ai-interview-service/internal/config"
	"ai-interview-service/internal/domain"
	"ai-interview-service/internal/infra/memory"
	pginfra "ai-interview-service/internal/infra/postgres"
	"ai-interview-service/internal/infra/snapshot"
	"ai-interview-service/internal/llm"
	"ai-interview-service/internal/logger"
	transport "ai-interview-service/internal/transport/http"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the interview server",
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

	log := logger.Setup(cfg.Log.Level, cfg.Log.Format)

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

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}

	var pool *pgxpool.Pool
	if cfg.Postgres.URL != "" {
		pool, err = pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
		defer pool.Close()
	}

	// Snapshot backend: redis when configured, local files otherwise.
	var store snapshot.Store
	if redisClient != nil {
		store = snapshot.NewRedisStore(redisClient, config.TTLDuration(cfg.Redis.TTL, 0))
	} else {
		dir := cfg.Snapshot.Dir
		if dir == "" {
			dir = "data"
		}
		store, err = snapshot.NewFileStore(dir)
		if err != nil {
			return err
		}
	}
	writer := snapshot.NewWriter(store, config.TTLDuration(cfg.Snapshot.Interval, time.Second), log)

	client := llm.New(llm.Config{
		BaseURL: cfg.Scoring.BaseURL,
		APIKey:  cfg.Scoring.APIKey,
		Model:   cfg.Scoring.Model,
	}, log)

	var archive app.Archiver
	if pool != nil {
		archive = pginfra.NewCandidateArchive(pool)
	}

	engine := app.NewEngine(app.EngineOptions{
		Scorer:      client,
		Persister:   writer,
		Archiver:    archive,
		Logger:      log,
		ServerTimer: cfg.ServerTimer(),
	})
	defer engine.Close()

	rehydrate(ctx, engine, store, log)

	var loader memory.QuestionSetLoader = memory.NewStaticQuestionSetLoader(sampleQuestionSets())
	if pool != nil {
		loader = pginfra.NewQuestionSetLoader(pool)
	}
	questionRepo := memory.NewQuestionRepository(loader, config.TTLDuration(cfg.Questions.TTL, 10*time.Minute))
	planner := app.NewQuestionPlanner(questionRepo, client, log)

	wsHandler := transport.NewWSHandler(engine, planner, client, !cfg.ServerTimer(), log)

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	mux.HandleFunc("/ws", wsHandler.ServeWS)

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Info().Str("port", finalPort).Msg("starting interview service")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("failed to start server")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Info().Msg("shutting down server")
	case <-ctx.Done():
		log.Info().Msg("context canceled, shutting down server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// rehydrate loads the persisted snapshots. An in-progress session surfaces a
// resume-or-restart decision through the session view; timers stay frozen
// until the client decides.
func rehydrate(ctx context.Context, engine *app.Engine, store snapshot.Store, log zerolog.Logger) {
	var sessionSnap *domain.SessionSnapshot
	snap, err := store.LoadSession(ctx)
	switch {
	case err == nil:
		sessionSnap = &snap
	case errors.Is(err, domain.ErrSnapshotNotFound):
	default:
		log.Warn().Err(err).Msg("session snapshot load failed")
	}

	candidates, err := store.LoadCandidates(ctx)
	if err != nil && !errors.Is(err, domain.ErrSnapshotNotFound) {
		log.Warn().Err(err).Msg("candidates snapshot load failed")
	}

	engine.Rehydrate(sessionSnap, candidates)
	if engine.ResumePending() {
		log.Info().Msg("found in-progress interview session, awaiting resume or restart")
	}
}

// sampleQuestionSets seeds the static loader for deployments without
// Postgres.
func sampleQuestionSets() map[string]domain.QuestionSet {
	return map[string]domain.QuestionSet{
		"default": {
			ID:        "default",
			Questions: app.FallbackQuestions(),
		},
	}
}
