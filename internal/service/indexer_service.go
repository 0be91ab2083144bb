package service

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/time/rate"

	"github.com/Roundtableee/skillmatch/internal/matcherrors"
	"github.com/Roundtableee/skillmatch/internal/models"
)

// MembersStore provides the member reads and the single embedding write path
// used by the batch indexer.
type MembersStore interface {
	ListMembers(ctx context.Context) ([]models.Member, error)
	UpdateEmbedding(ctx context.Context, memberID int64, embedding []float32) error
}

// ProfileEncoder encodes profile text blobs into fixed-width vectors.
type ProfileEncoder interface {
	EncodeProfile(ctx context.Context, text string) ([]float32, error)
}

// IndexerMetrics records per-member reindex outcomes. Nil disables recording.
type IndexerMetrics interface {
	RecordMemberIndexed()
	RecordMemberSkipped()
	RecordMemberFailed()
}

// IndexerService recomputes and persists embeddings for every member in
// storage. Members are processed strictly sequentially in storage order, which
// keeps log output deterministic and attributable to one member at a time.
type IndexerService struct {
	store   MembersStore
	encoder ProfileEncoder
	limiter *rate.Limiter
	metrics IndexerMetrics
	logger  *slog.Logger
}

// IndexerServiceParams configures IndexerService. RateLimiter and Metrics may
// be nil (no limiting, no recording).
type IndexerServiceParams struct {
	Store       MembersStore
	Encoder     ProfileEncoder
	RateLimiter *rate.Limiter
	Metrics     IndexerMetrics
	Logger      *slog.Logger
}

// NewIndexerService creates an IndexerService.
func NewIndexerService(p IndexerServiceParams) *IndexerService {
	logger := p.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &IndexerService{
		store:   p.Store,
		encoder: p.Encoder,
		limiter: p.RateLimiter,
		metrics: p.Metrics,
		logger:  logger,
	}
}

// ReindexSummary reports the outcome of one ReindexAll run.
type ReindexSummary struct {
	Total   int
	Indexed int
	Skipped int
	Failed  int
}

// ReindexAll recomputes the embedding of every member. A failure embedding or
// persisting one member is logged with the member id and does not abort the
// batch; the run succeeds when the iteration completes. Partial writes are not
// rolled back, and re-running with unchanged profiles rewrites the same
// vectors, so interrupted runs are safe to repeat.
func (s *IndexerService) ReindexAll(ctx context.Context) (ReindexSummary, error) {
	summary := ReindexSummary{}

	members, err := s.store.ListMembers(ctx)
	if err != nil {
		return summary, matcherrors.NewStorageError("fetching members for reindex failed", err)
	}

	summary.Total = len(members)
	if summary.Total == 0 {
		s.logger.Info("reindex: no members found")

		return summary, nil
	}

	s.logger.Info("reindex: starting", "members", summary.Total)

	for i, member := range members {
		text, ok := BuildProfileText(member)
		if !ok {
			s.logger.Info("reindex: skipping member, no searchable content", "member_id", member.ID)
			summary.Skipped++
			s.recordSkipped()

			continue
		}

		if s.limiter != nil {
			if err := s.limiter.Wait(ctx); err != nil {
				return summary, fmt.Errorf("rate limiter wait: %w", err)
			}
		}

		embedding, err := s.encoder.EncodeProfile(ctx, text)
		if err != nil {
			s.logger.Error("reindex: embedding failed", "member_id", member.ID, "error", err)
			summary.Failed++
			s.recordFailed()

			continue
		}

		if err := s.store.UpdateEmbedding(ctx, member.ID, embedding); err != nil {
			s.logger.Error("reindex: embedding write failed", "member_id", member.ID, "error", err)
			summary.Failed++
			s.recordFailed()

			continue
		}

		summary.Indexed++
		s.recordIndexed()
		s.logger.Info("reindex: member updated",
			"member_id", member.ID,
			"name", deref(member.Name),
			"progress", fmt.Sprintf("%d/%d", i+1, summary.Total),
		)
	}

	s.logger.Info("reindex: complete",
		"indexed", summary.Indexed,
		"skipped", summary.Skipped,
		"failed", summary.Failed,
	)

	return summary, nil
}

func (s *IndexerService) recordIndexed() {
	if s.metrics != nil {
		s.metrics.RecordMemberIndexed()
	}
}

func (s *IndexerService) recordSkipped() {
	if s.metrics != nil {
		s.metrics.RecordMemberSkipped()
	}
}

func (s *IndexerService) recordFailed() {
	if s.metrics != nil {
		s.metrics.RecordMemberFailed()
	}
}
