// reindex recomputes every member's profile embedding, then runs a fixed set of
// demonstration searches against the refreshed index. Per-member failures are
// logged and skipped; the process exits nonzero only when orchestration itself
// fails (configuration, connectivity, or the member listing).
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	pgxvec "github.com/pgvector/pgvector-go/pgx"
	"golang.org/x/time/rate"

	"github.com/Roundtableee/skillmatch/internal/config"
	"github.com/Roundtableee/skillmatch/internal/embeddings"
	"github.com/Roundtableee/skillmatch/internal/encoder"
	"github.com/Roundtableee/skillmatch/internal/observability"
	"github.com/Roundtableee/skillmatch/internal/repository"
	"github.com/Roundtableee/skillmatch/internal/service"
	"github.com/Roundtableee/skillmatch/pkg/database"
)

const (
	exitSuccess = 0
	exitFailure = 1
)

// demoTasks exercise the refreshed index after reindexing completes.
var demoTasks = []string{
	"analyse and predict chicken price",
	"need someone to query production data",
}

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)

		return exitFailure
	}

	ctx := context.Background()

	db, err := database.NewPostgresPool(ctx, cfg.DatabaseURL, database.WithAfterConnect(pgxvec.RegisterTypes))
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)

		return exitFailure
	}
	defer db.Close()

	embeddingClient := embeddings.NewOpenAIClient(cfg.EmbeddingBaseURL, cfg.EmbeddingAPIKey, cfg.EmbeddingModel)
	encoderService := encoder.NewService(embeddingClient, encoder.Config{
		Model:        cfg.EmbeddingModel,
		Normalize:    true,
		EmbedTimeout: cfg.EmbedTimeout,
	}, slog.Default())

	if err := encoderService.Initialize(ctx); err != nil {
		slog.Error("Embedding model failed to load", "error", err)

		return exitFailure
	}

	membersRepo := repository.NewMembersRepository(db)

	var limiter *rate.Limiter
	if cfg.EmbeddingRateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.EmbeddingRateLimit), 1)
	}

	indexer := service.NewIndexerService(service.IndexerServiceParams{
		Store:       membersRepo,
		Encoder:     encoderService,
		RateLimiter: limiter,
		Metrics:     observability.NewMetrics(),
		Logger:      slog.Default(),
	})

	summary, err := indexer.ReindexAll(ctx)
	if err != nil {
		slog.Error("Reindex failed", "error", err)

		return exitFailure
	}

	fmt.Printf("Reindexed %d member(s): %d updated, %d skipped, %d failed.\n",
		summary.Total, summary.Indexed, summary.Skipped, summary.Failed)

	matchService := service.NewMatchService(service.MatchServiceParams{
		Encoder:       encoderService,
		Matcher:       membersRepo,
		Threshold:     cfg.MatchThreshold,
		DefaultCount:  cfg.MatchDefaultCount,
		SearchTimeout: cfg.SearchTimeout,
		Logger:        slog.Default(),
	})

	for _, task := range demoTasks {
		runDemoSearch(ctx, matchService, task)
	}

	return exitSuccess
}

// runDemoSearch prints one task's ranked matches. A failing search is logged
// and treated as an empty result so one bad lookup does not sink the batch.
func runDemoSearch(ctx context.Context, matcher *service.MatchService, task string) {
	fmt.Printf("\nSearching for candidates matching: %q\n", task)

	matches, err := matcher.SearchByTask(ctx, task, 0)
	if err != nil {
		slog.Error("Search failed", "task", task, "error", err)

		return
	}

	if len(matches) == 0 {
		fmt.Println("No suitable matches found")

		return
	}

	fmt.Println("\nTOP MATCHES:")
	fmt.Println(strings.Repeat("=", 60))

	for i, m := range matches {
		skills := m.Skills.Join()
		if skills == "" {
			skills = "No skills listed"
		}

		description := m.Description
		if description == "" {
			description = "Not provided"
		}

		fmt.Printf("\n#%d: %s (%s match)\n", i+1, m.Name, m.Similarity)
		fmt.Printf("- Skills: %s\n", skills)
		fmt.Printf("- Description: %s\n", description)
		fmt.Printf("- Distance: %.4f\n", m.Distance)
	}

	fmt.Println(strings.Repeat("=", 60))
}
