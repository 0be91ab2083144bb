package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Roundtableee/skillmatch/internal/matcherrors"
	"github.com/Roundtableee/skillmatch/internal/models"
)

type mockMembersStore struct {
	listFunc   func(ctx context.Context) ([]models.Member, error)
	updateFunc func(ctx context.Context, memberID int64, embedding []float32) error
}

func (m *mockMembersStore) ListMembers(ctx context.Context) ([]models.Member, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx)
	}

	return nil, nil
}

func (m *mockMembersStore) UpdateEmbedding(ctx context.Context, memberID int64, embedding []float32) error {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, memberID, embedding)
	}

	return nil
}

type mockProfileEncoder struct {
	encodeFunc func(ctx context.Context, text string) ([]float32, error)
}

func (m *mockProfileEncoder) EncodeProfile(ctx context.Context, text string) ([]float32, error) {
	if m.encodeFunc != nil {
		return m.encodeFunc(ctx, text)
	}

	return []float32{0.1}, nil
}

func namedMember(id int64, name string) models.Member {
	return models.Member{ID: id, Name: &name, Skills: models.SkillList{"golang"}}
}

func TestIndexerService_ReindexAll(t *testing.T) {
	t.Run("list failure aborts with StorageError", func(t *testing.T) {
		svc := NewIndexerService(IndexerServiceParams{
			Store: &mockMembersStore{
				listFunc: func(_ context.Context) ([]models.Member, error) {
					return nil, errors.New("connection refused")
				},
			},
			Encoder: &mockProfileEncoder{},
		})

		_, err := svc.ReindexAll(context.Background())
		assert.ErrorIs(t, err, matcherrors.ErrStorage)
	})

	t.Run("empty store completes with zero counts", func(t *testing.T) {
		svc := NewIndexerService(IndexerServiceParams{
			Store:   &mockMembersStore{},
			Encoder: &mockProfileEncoder{},
		})

		summary, err := svc.ReindexAll(context.Background())
		require.NoError(t, err)
		assert.Zero(t, summary.Total)
	})

	t.Run("one failing member does not abort the batch", func(t *testing.T) {
		var updated []int64

		svc := NewIndexerService(IndexerServiceParams{
			Store: &mockMembersStore{
				listFunc: func(_ context.Context) ([]models.Member, error) {
					return []models.Member{
						namedMember(1, "Asha"),
						namedMember(2, "Bo"),
						namedMember(3, "Cam"),
					}, nil
				},
				updateFunc: func(_ context.Context, memberID int64, _ []float32) error {
					updated = append(updated, memberID)

					return nil
				},
			},
			Encoder: &mockProfileEncoder{
				encodeFunc: func(_ context.Context, text string) ([]float32, error) {
					if text == "Professional: Bo\nSkills: golang\nDescription: No description provided\nLooking for candidates with these capabilities:" {
						return nil, matcherrors.NewEncodingError("inference failed", nil)
					}

					return []float32{0.5}, nil
				},
			},
		})

		summary, err := svc.ReindexAll(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 3, summary.Total)
		assert.Equal(t, 2, summary.Indexed)
		assert.Equal(t, 1, summary.Failed)
		assert.Equal(t, []int64{1, 3}, updated)
	})

	t.Run("failing write is isolated like a failing encode", func(t *testing.T) {
		svc := NewIndexerService(IndexerServiceParams{
			Store: &mockMembersStore{
				listFunc: func(_ context.Context) ([]models.Member, error) {
					return []models.Member{namedMember(1, "Asha"), namedMember(2, "Bo")}, nil
				},
				updateFunc: func(_ context.Context, memberID int64, _ []float32) error {
					if memberID == 1 {
						return errors.New("write conflict")
					}

					return nil
				},
			},
			Encoder: &mockProfileEncoder{},
		})

		summary, err := svc.ReindexAll(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 1, summary.Indexed)
		assert.Equal(t, 1, summary.Failed)
	})

	t.Run("member with no searchable content is skipped without encoding", func(t *testing.T) {
		encoded := 0

		svc := NewIndexerService(IndexerServiceParams{
			Store: &mockMembersStore{
				listFunc: func(_ context.Context) ([]models.Member, error) {
					return []models.Member{
						{ID: 1}, // empty name, skills, description
						namedMember(2, "Bo"),
					}, nil
				},
			},
			Encoder: &mockProfileEncoder{
				encodeFunc: func(_ context.Context, _ string) ([]float32, error) {
					encoded++

					return []float32{0.5}, nil
				},
			},
		})

		summary, err := svc.ReindexAll(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 1, summary.Skipped)
		assert.Equal(t, 1, summary.Indexed)
		assert.Equal(t, 1, encoded)
	})
}
