package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"golang.org/x/sync/errgroup"

	"adept/adapters/llm"
	"adept/adapters/postgres"
	"adept/adapters/store"
	"adept/app"
	"adept/internal"
	"adept/internal/config"
	"adept/internal/errors"
	"adept/ports"
	"adept/ui"
)

// newProjectRepository selects the persistence backend: PostgreSQL when
// DATABASE_URL is set, a local JSON file otherwise.
func newProjectRepository(ctx context.Context, cfg *config.Config) (ports.ProjectRepository, func(), error) {
	if cfg.Store.DatabaseURL != "" {
		db, err := sqlx.Connect("postgres", cfg.Store.DatabaseURL)
		if err != nil {
			return nil, nil, errors.Wrap(err, "failed to connect to database")
		}
		if err := postgres.EnsureSchema(ctx, db); err != nil {
			db.Close()
			return nil, nil, err
		}
		log.Println("[Main] Using PostgreSQL project store")
		return postgres.NewProjectRepository(db), func() { db.Close() }, nil
	}

	js, err := store.NewJSONStore(cfg.Store.DataFile)
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to open project store")
	}
	log.Printf("[Main] Using JSON project store at %s", cfg.Store.DataFile)
	return js, func() {}, nil
}

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	gin.SetMode(cfg.Server.GinMode)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	repo, closeRepo, err := newProjectRepository(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize project store: %v", err)
	}
	defer closeRepo()

	logger := internal.NewDefaultLogger()
	planner := app.NewPlannerService(repo, logger)
	if err := planner.Load(ctx); err != nil {
		log.Fatalf("Failed to load project portfolio: %v", err)
	}

	refinery := llm.NewRefineryAdapter(llm.Config{
		APIKey:         cfg.AI.APIKey,
		BaseURL:        cfg.AI.BaseURL,
		FlashModel:     cfg.AI.FlashModel,
		ThinkingModel:  cfg.AI.ThinkingModel,
		ThinkingBudget: cfg.AI.ThinkingBudget,
		UseThinking:    cfg.AI.UseThinking,
		Language:       cfg.AI.Language,
		Timeout:        cfg.AI.Timeout,
	})
	if cfg.AI.APIKey == "" {
		log.Println("[Main] GEMINI_API_KEY is not set; refinement calls will fail until it is configured")
	}

	refiner := app.NewRefinerService(refinery, planner, logger)
	server := ui.NewServer(refiner, planner)

	httpServer := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: server.Router(),
	}

	group, ctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		log.Printf("Starting Adept on http://localhost:%s", cfg.Server.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	group.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	if err := group.Wait(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
	log.Println("[Main] Shutdown complete")
}
