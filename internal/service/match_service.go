package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"

	"github.com/Roundtableee/skillmatch/internal/matcherrors"
	"github.com/Roundtableee/skillmatch/internal/models"
)

const (
	// DefaultMatchCount is used when the caller does not specify one.
	DefaultMatchCount = 5

	// DefaultMatchThreshold is the similarity cutoff passed to the
	// match_members procedure. 0.2 is inherited tuning, kept low to let
	// borderline candidates through; override via MATCH_THRESHOLD.
	DefaultMatchThreshold = 0.2
)

// ErrEmptyTask is returned when the task description is empty after trimming.
var ErrEmptyTask = matcherrors.NewValidationError("task", "task description cannot be empty")

// MemberMatcher invokes the external similarity procedure.
type MemberMatcher interface {
	MatchMembers(ctx context.Context, queryEmbedding []float32, matchCount int, similarityThreshold float64) (
		[]models.MemberMatch, error)
}

// TaskEncoder encodes task descriptions with the query-side template.
type TaskEncoder interface {
	EncodeQuery(ctx context.Context, text string) ([]float32, error)
}

// MatchService turns a free-text task description into ranked candidate
// members. It is stateless apart from the shared encoder and an optional
// per-query embedding cache.
type MatchService struct {
	encoder       TaskEncoder
	matcher       MemberMatcher
	threshold     float64
	defaultCount  int
	searchTimeout time.Duration

	queryCache     *lru.Cache[string, []float32]
	queryLoadGroup singleflight.Group

	logger *slog.Logger
}

// MatchServiceParams configures MatchService. QueryCache may be nil (no
// caching); Threshold 0 and DefaultCount 0 fall back to the package defaults.
type MatchServiceParams struct {
	Encoder       TaskEncoder
	Matcher       MemberMatcher
	Threshold     float64
	DefaultCount  int
	SearchTimeout time.Duration
	QueryCache    *lru.Cache[string, []float32]
	Logger        *slog.Logger
}

// NewMatchService creates a MatchService.
func NewMatchService(p MatchServiceParams) *MatchService {
	logger := p.Logger
	if logger == nil {
		logger = slog.Default()
	}

	// Zero means unset; a negative threshold explicitly admits everything.
	threshold := p.Threshold
	if threshold == 0 {
		threshold = DefaultMatchThreshold
	}

	defaultCount := p.DefaultCount
	if defaultCount <= 0 {
		defaultCount = DefaultMatchCount
	}

	return &MatchService{
		encoder:       p.Encoder,
		matcher:       p.Matcher,
		threshold:     threshold,
		defaultCount:  defaultCount,
		searchTimeout: p.SearchTimeout,
		queryCache:    p.QueryCache,
		logger:        logger,
	}
}

// SearchByTask encodes the task with the query-side template and returns ranked
// candidates from the match_members procedure. matchCount <= 0 selects the
// configured default. Zero procedure rows yield an empty slice, not an error.
// Validation happens before any model or storage work.
func (s *MatchService) SearchByTask(ctx context.Context, task string, matchCount int) ([]models.MemberMatch, error) {
	task = strings.TrimSpace(task)
	if task == "" {
		return nil, ErrEmptyTask
	}

	if matchCount <= 0 {
		matchCount = s.defaultCount
	}

	embedding, err := s.queryEmbedding(ctx, task)
	if err != nil {
		s.logger.Error("search: query embedding failed", "task", task, "error", err)

		return nil, err
	}

	matchCtx := ctx

	if s.searchTimeout > 0 {
		var cancel context.CancelFunc

		matchCtx, cancel = context.WithTimeout(ctx, s.searchTimeout)
		defer cancel()
	}

	matches, err := s.matcher.MatchMembers(matchCtx, embedding, matchCount, s.threshold)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, matcherrors.NewTimeoutError("similarity procedure", err)
		}

		s.logger.Error("search: similarity procedure failed", "task", task, "error", err)

		return nil, matcherrors.NewSearchError("similarity search failed", err)
	}

	if len(matches) == 0 {
		s.logger.Info("search: no suitable matches found", "task", task)

		return []models.MemberMatch{}, nil
	}

	results := make([]models.MemberMatch, len(matches))
	for i, m := range matches {
		m.Similarity = FormatSimilarity(m.MatchScore)
		results[i] = m
	}

	return results, nil
}

// FormatSimilarity renders a match score as the percent display string shown to
// callers, e.g. 0.83 -> "83.0%".
func FormatSimilarity(score float64) string {
	return fmt.Sprintf("%.1f%%", score*100)
}

// queryEmbedding returns the encoded task, via the LRU cache when configured.
// Concurrent misses for the same task share one encode call.
func (s *MatchService) queryEmbedding(ctx context.Context, task string) ([]float32, error) {
	if s.queryCache == nil {
		return s.encoder.EncodeQuery(ctx, task)
	}

	if vec, ok := s.queryCache.Get(task); ok {
		return vec, nil
	}

	val, err, _ := s.queryLoadGroup.Do(task, func() (any, error) {
		vec, loadErr := s.encoder.EncodeQuery(ctx, task)
		if loadErr != nil {
			return nil, loadErr
		}

		s.queryCache.Add(task, vec)

		return vec, nil
	})
	if err != nil {
		return nil, err
	}

	return val.([]float32), nil
}
