package service

import (
	"context"
	"errors"
	"testing"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Roundtableee/skillmatch/internal/matcherrors"
	"github.com/Roundtableee/skillmatch/internal/models"
)

type mockTaskEncoder struct {
	calls      int
	encodeFunc func(ctx context.Context, text string) ([]float32, error)
}

func (m *mockTaskEncoder) EncodeQuery(ctx context.Context, text string) ([]float32, error) {
	m.calls++

	if m.encodeFunc != nil {
		return m.encodeFunc(ctx, text)
	}

	return []float32{0.1, 0.2}, nil
}

type mockMemberMatcher struct {
	matchFunc func(ctx context.Context, queryEmbedding []float32, matchCount int, similarityThreshold float64) (
		[]models.MemberMatch, error)
}

func (m *mockMemberMatcher) MatchMembers(
	ctx context.Context, queryEmbedding []float32, matchCount int, similarityThreshold float64,
) ([]models.MemberMatch, error) {
	if m.matchFunc != nil {
		return m.matchFunc(ctx, queryEmbedding, matchCount, similarityThreshold)
	}

	return nil, nil
}

func TestMatchService_SearchByTask(t *testing.T) {
	t.Run("empty task rejected before any encode or storage call", func(t *testing.T) {
		enc := &mockTaskEncoder{}
		matcherCalled := false
		svc := NewMatchService(MatchServiceParams{
			Encoder: enc,
			Matcher: &mockMemberMatcher{
				matchFunc: func(_ context.Context, _ []float32, _ int, _ float64) ([]models.MemberMatch, error) {
					matcherCalled = true

					return nil, nil
				},
			},
		})

		results, err := svc.SearchByTask(context.Background(), "   ", 5)
		assert.Nil(t, results)
		assert.ErrorIs(t, err, ErrEmptyTask)
		assert.ErrorIs(t, err, matcherrors.ErrValidation)
		assert.Zero(t, enc.calls)
		assert.False(t, matcherCalled)
	})

	t.Run("defaults match count and passes threshold through", func(t *testing.T) {
		svc := NewMatchService(MatchServiceParams{
			Encoder: &mockTaskEncoder{},
			Matcher: &mockMemberMatcher{
				matchFunc: func(_ context.Context, embedding []float32, matchCount int, threshold float64) (
					[]models.MemberMatch, error,
				) {
					assert.Equal(t, []float32{0.1, 0.2}, embedding)
					assert.Equal(t, DefaultMatchCount, matchCount)
					assert.InDelta(t, DefaultMatchThreshold, threshold, 1e-9)

					return nil, nil
				},
			},
		})

		results, err := svc.SearchByTask(context.Background(), "need someone to query production data", 0)
		require.NoError(t, err)
		assert.Empty(t, results)
		assert.NotNil(t, results)
	})

	t.Run("ranked rows get similarity display strings", func(t *testing.T) {
		svc := NewMatchService(MatchServiceParams{
			Encoder: &mockTaskEncoder{},
			Matcher: &mockMemberMatcher{
				matchFunc: func(_ context.Context, _ []float32, _ int, _ float64) ([]models.MemberMatch, error) {
					return []models.MemberMatch{
						{ID: 7, Name: "Asha", Skills: models.SkillList{"python", "sql"}, MatchScore: 0.83, Distance: 0.17},
						{ID: 2, Name: "Bo", MatchScore: 0.405, Distance: 0.595},
					}, nil
				},
			},
		})

		results, err := svc.SearchByTask(context.Background(), "need someone to query production data", 5)
		require.NoError(t, err)
		require.Len(t, results, 2)
		assert.Equal(t, int64(7), results[0].ID)
		assert.Equal(t, "83.0%", results[0].Similarity)
		assert.Equal(t, "40.5%", results[1].Similarity)
	})

	t.Run("procedure failure surfaces as SearchError", func(t *testing.T) {
		svc := NewMatchService(MatchServiceParams{
			Encoder: &mockTaskEncoder{},
			Matcher: &mockMemberMatcher{
				matchFunc: func(_ context.Context, _ []float32, _ int, _ float64) ([]models.MemberMatch, error) {
					return nil, errors.New("function match_members does not exist")
				},
			},
		})

		_, err := svc.SearchByTask(context.Background(), "frontend work", 5)
		assert.ErrorIs(t, err, matcherrors.ErrSearch)
	})

	t.Run("deadline expiry surfaces as TimeoutError", func(t *testing.T) {
		svc := NewMatchService(MatchServiceParams{
			Encoder: &mockTaskEncoder{},
			Matcher: &mockMemberMatcher{
				matchFunc: func(ctx context.Context, _ []float32, _ int, _ float64) ([]models.MemberMatch, error) {
					return nil, context.DeadlineExceeded
				},
			},
		})

		_, err := svc.SearchByTask(context.Background(), "frontend work", 5)
		assert.ErrorIs(t, err, matcherrors.ErrTimeout)
	})

	t.Run("encoder failure propagates untouched", func(t *testing.T) {
		svc := NewMatchService(MatchServiceParams{
			Encoder: &mockTaskEncoder{
				encodeFunc: func(_ context.Context, _ string) ([]float32, error) {
					return nil, matcherrors.NewEncodingError("inference failed", nil)
				},
			},
			Matcher: &mockMemberMatcher{},
		})

		_, err := svc.SearchByTask(context.Background(), "frontend work", 5)
		assert.ErrorIs(t, err, matcherrors.ErrEncoding)
	})

	t.Run("query cache avoids repeat encodes for the same task", func(t *testing.T) {
		cache, err := lru.New[string, []float32](8)
		require.NoError(t, err)

		enc := &mockTaskEncoder{}
		svc := NewMatchService(MatchServiceParams{
			Encoder:    enc,
			Matcher:    &mockMemberMatcher{},
			QueryCache: cache,
		})

		_, err = svc.SearchByTask(context.Background(), "data pipeline work", 5)
		require.NoError(t, err)
		_, err = svc.SearchByTask(context.Background(), "data pipeline work", 5)
		require.NoError(t, err)
		assert.Equal(t, 1, enc.calls)
	})
}

func TestFormatSimilarity(t *testing.T) {
	assert.Equal(t, "83.0%", FormatSimilarity(0.83))
	assert.Equal(t, "100.0%", FormatSimilarity(1))
	assert.Equal(t, "0.0%", FormatSimilarity(0))
}
