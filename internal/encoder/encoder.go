// Package encoder turns free text into fixed-width embedding vectors using one
// shared model configuration for both the indexing and the query path.
package encoder

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/Roundtableee/skillmatch/internal/embeddings"
	"github.com/Roundtableee/skillmatch/internal/matcherrors"
	"github.com/Roundtableee/skillmatch/pkg/vector"
)

// Dimensions is the fixed embedding width. It matches the vector(384) column
// consumed by the match_members procedure and must never vary.
const Dimensions = 384

// Profile-side template: repeats the content with three skill-framing phrases
// to bias the embedding toward skill semantics.
const profileTemplate = "Professional skills required: %s. " +
	"Candidate should have experience with: %s. " +
	"Looking for capabilities in: %s."

// Query-side template: the same repetition with need-framing phrases. Both
// templates must run through the identical model and pooling settings, or the
// resulting vectors stop being comparable.
const queryTemplate = "Seeking professionals with skills in: %s. " +
	"Requires experience with: %s. " +
	"Project needs capabilities in: %s."

// Config is the shared encoder configuration. The indexer and the match service
// hold the same Config through one Service instance, so the two sides cannot
// silently drift onto different models.
type Config struct {
	// Model is the sentence-transformer model identifier at the inference endpoint.
	Model string

	// Dimensions is the fixed output width; 0 means Dimensions (384).
	Dimensions int

	// Normalize applies local L2 normalization after fitting. Sentence models
	// normalize server-side; keeping it on makes cosine and dot-product ranking
	// agree even when the serving side is configured without it.
	Normalize bool

	// EmbedTimeout bounds each inference call; 0 means no deadline.
	EmbedTimeout time.Duration
}

// Service is the process-wide text encoder. The model endpoint is warmed up
// exactly once; a warm-up failure is retained and fails every later encode call
// until the process restarts.
type Service struct {
	client embeddings.Client
	cfg    Config
	logger *slog.Logger

	initGroup singleflight.Group

	mu          sync.Mutex
	initialized bool
	initErr     error
}

// NewService creates an encoder Service. logger may be nil (slog.Default).
func NewService(client embeddings.Client, cfg Config, logger *slog.Logger) *Service {
	if cfg.Dimensions <= 0 {
		cfg.Dimensions = Dimensions
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &Service{client: client, cfg: cfg, logger: logger}
}

// Config returns the shared encoder configuration.
func (s *Service) Config() Config {
	return s.cfg
}

// Initialize warms up the embedding endpoint exactly once. Concurrent callers
// share a single warm-up via singleflight; repeated calls after completion are
// no-ops. A failed warm-up poisons the service: every later Initialize and
// encode call returns the retained InitializationError.
func (s *Service) Initialize(ctx context.Context) error {
	s.mu.Lock()
	if s.initialized {
		err := s.initErr
		s.mu.Unlock()

		return err
	}
	s.mu.Unlock()

	_, err, _ := s.initGroup.Do("init", func() (any, error) {
		s.mu.Lock()
		if s.initialized {
			err := s.initErr
			s.mu.Unlock()

			return nil, err
		}
		s.mu.Unlock()

		s.logger.Info("loading embedding model", "model", s.cfg.Model)

		probeCtx, cancel := s.withTimeout(ctx)
		defer cancel()

		// One probe inference verifies the endpoint serves the configured model
		// before any profile or query text is sent.
		vec, probeErr := s.client.GetEmbedding(probeCtx, "embedding model warm-up probe")

		s.mu.Lock()
		defer s.mu.Unlock()

		s.initialized = true

		if probeErr != nil {
			if isDeadline(probeErr) {
				s.initErr = matcherrors.NewTimeoutError("embedding model load", probeErr)
			} else {
				s.initErr = matcherrors.NewInitializationError(
					fmt.Sprintf("embedding model %q failed to load", s.cfg.Model), probeErr)
			}

			s.logger.Error("embedding model load failed", "model", s.cfg.Model, "error", probeErr)

			return nil, s.initErr
		}

		s.logger.Info("embedding model loaded", "model", s.cfg.Model, "native_dimensions", len(vec))

		return nil, nil
	})

	return err
}

// EncodeProfile encodes a profile text blob with the skill-framing template.
func (s *Service) EncodeProfile(ctx context.Context, text string) ([]float32, error) {
	return s.encode(ctx, text, profileTemplate)
}

// EncodeQuery encodes a task description with the need-framing template.
func (s *Service) EncodeQuery(ctx context.Context, text string) ([]float32, error) {
	return s.encode(ctx, text, queryTemplate)
}

func (s *Service) encode(ctx context.Context, text, template string) ([]float32, error) {
	if err := s.Initialize(ctx); err != nil {
		return nil, err
	}

	processed := fmt.Sprintf(template, text, text, text)

	embedCtx, cancel := s.withTimeout(ctx)
	defer cancel()

	raw, err := s.client.GetEmbedding(embedCtx, processed)
	if err != nil {
		if isDeadline(err) {
			return nil, matcherrors.NewTimeoutError("embedding inference", err)
		}

		return nil, matcherrors.NewEncodingError("embedding generation failed", err)
	}

	vec := vector.Fit(raw, s.cfg.Dimensions)
	if s.cfg.Normalize {
		vector.NormalizeL2(vec)
	}

	return vec, nil
}

func (s *Service) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.cfg.EmbedTimeout <= 0 {
		return ctx, func() {}
	}

	return context.WithTimeout(ctx, s.cfg.EmbedTimeout)
}

func isDeadline(err error) bool {
	return errors.Is(err, context.DeadlineExceeded)
}
