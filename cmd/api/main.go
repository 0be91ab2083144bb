// api serves the skill-based member matching endpoint. It loads the embedding
// model configuration once at startup; profile embeddings are maintained
// separately by cmd/reindex.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	pgxvec "github.com/pgvector/pgvector-go/pgx"

	"github.com/Roundtableee/skillmatch/internal/api/handlers"
	"github.com/Roundtableee/skillmatch/internal/api/middleware"
	"github.com/Roundtableee/skillmatch/internal/config"
	"github.com/Roundtableee/skillmatch/internal/embeddings"
	"github.com/Roundtableee/skillmatch/internal/encoder"
	"github.com/Roundtableee/skillmatch/internal/observability"
	"github.com/Roundtableee/skillmatch/internal/repository"
	"github.com/Roundtableee/skillmatch/internal/service"
	"github.com/Roundtableee/skillmatch/pkg/database"
)

const queryCacheSize = 256

func main() {
	ctx := context.Background()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	setupLogging(cfg.LogLevel)

	// Initialize database connection with pgvector types registered per connection
	db, err := database.NewPostgresPool(ctx, cfg.DatabaseURL, database.WithAfterConnect(pgxvec.RegisterTypes))
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	embeddingClient := embeddings.NewOpenAIClient(cfg.EmbeddingBaseURL, cfg.EmbeddingAPIKey, cfg.EmbeddingModel)
	encoderService := encoder.NewService(embeddingClient, encoder.Config{
		Model:        cfg.EmbeddingModel,
		Normalize:    true,
		EmbedTimeout: cfg.EmbedTimeout,
	}, slog.Default())

	// Warm the model before the first request; a failure here is retained and
	// surfaces on every encode call until restart.
	go func() {
		if err := encoderService.Initialize(ctx); err != nil {
			slog.Error("Embedding model warm-up failed", "error", err)
		}
	}()

	queryCache, err := lru.New[string, []float32](queryCacheSize)
	if err != nil {
		slog.Error("Failed to create query cache", "error", err)
		os.Exit(1)
	}

	membersRepo := repository.NewMembersRepository(db)
	matchService := service.NewMatchService(service.MatchServiceParams{
		Encoder:       encoderService,
		Matcher:       membersRepo,
		Threshold:     cfg.MatchThreshold,
		DefaultCount:  cfg.MatchDefaultCount,
		SearchTimeout: cfg.SearchTimeout,
		QueryCache:    queryCache,
		Logger:        slog.Default(),
	})

	metrics := observability.NewMetrics()
	matchHandler := handlers.NewMatchHandler(matchService, cfg.MatchDefaultCount)
	healthHandler := handlers.NewHealthHandler()

	mux := http.NewServeMux()
	// OPTIONS pre-flight and method rejection happen inside the handler, so no
	// method qualifier here.
	mux.HandleFunc("/v1/match-members", matchHandler.MatchMembers)
	mux.HandleFunc("GET /health", healthHandler.Check)
	mux.Handle("GET /metrics", metrics.Handler())

	// Chain: RequestID -> Metrics -> Logging -> MaxBody -> mux
	var handler http.Handler = mux
	handler = middleware.MaxBody(cfg.MaxRequestBodyBytes)(handler)
	handler = middleware.Logging(handler)
	handler = middleware.Metrics(metrics)(handler)
	handler = middleware.RequestID(handler)

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("Starting server", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
	}

	slog.Info("Server exited")
}

// setupLogging configures slog with the specified log level and request-id
// injection from context.
func setupLogging(level string) {
	var logLevel slog.Level

	switch strings.ToLower(level) {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	inner := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})
	slog.SetDefault(slog.New(observability.NewRequestContextHandler(inner)))
}
