package service

import (
	"context"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Roundtableee/skillmatch/internal/embeddings"
	"github.com/Roundtableee/skillmatch/internal/encoder"
	"github.com/Roundtableee/skillmatch/internal/models"
)

// memoryMemberIndex backs both the indexer's store and the match service's
// similarity procedure, ranking by dot product over the vectors the indexer
// actually wrote.
type memoryMemberIndex struct {
	members    []models.Member
	embeddings map[int64][]float32
}

func newMemoryMemberIndex(members ...models.Member) *memoryMemberIndex {
	return &memoryMemberIndex{members: members, embeddings: map[int64][]float32{}}
}

func (s *memoryMemberIndex) ListMembers(_ context.Context) ([]models.Member, error) {
	return s.members, nil
}

func (s *memoryMemberIndex) UpdateEmbedding(_ context.Context, memberID int64, embedding []float32) error {
	s.embeddings[memberID] = embedding

	return nil
}

func (s *memoryMemberIndex) MatchMembers(
	_ context.Context, queryEmbedding []float32, matchCount int, similarityThreshold float64,
) ([]models.MemberMatch, error) {
	var matches []models.MemberMatch

	for _, m := range s.members {
		vec, ok := s.embeddings[m.ID]
		if !ok {
			continue
		}

		var score float64
		for i := range vec {
			score += float64(vec[i]) * float64(queryEmbedding[i])
		}

		if score < similarityThreshold {
			continue
		}

		var name, description string
		if m.Name != nil {
			name = *m.Name
		}

		if m.Description != nil {
			description = *m.Description
		}

		matches = append(matches, models.MemberMatch{
			ID:          m.ID,
			Name:        name,
			Description: description,
			Skills:      m.Skills,
			MatchScore:  score,
			Distance:    1 - score,
		})
	}

	sort.Slice(matches, func(i, j int) bool { return matches[i].MatchScore > matches[j].MatchScore })

	if len(matches) > matchCount {
		matches = matches[:matchCount]
	}

	return matches, nil
}

func TestIndexThenSearchFlow(t *testing.T) {
	ctx := context.Background()

	asha := models.Member{
		ID:          7,
		Name:        strPtr("Asha"),
		Description: strPtr("data analyst"),
		Skills:      models.SkillList{"python", "sql"},
	}
	blank := models.Member{ID: 8}

	index := newMemoryMemberIndex(asha, blank)
	enc := encoder.NewService(embeddings.NewMockClient(), encoder.Config{
		Model:     "test-model",
		Normalize: true,
	}, nil)

	indexer := NewIndexerService(IndexerServiceParams{Store: index, Encoder: enc})

	summary, err := indexer.ReindexAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Indexed)
	assert.Equal(t, 1, summary.Skipped)

	stored, ok := index.embeddings[asha.ID]
	require.True(t, ok, "indexed member should have a stored vector")
	assert.Len(t, stored, encoder.Dimensions)
	_, hasBlank := index.embeddings[blank.ID]
	assert.False(t, hasBlank, "empty member must not be embedded")

	matcher := NewMatchService(MatchServiceParams{
		Encoder:   enc,
		Matcher:   index,
		Threshold: -1.1, // admit any dot product so the ranking itself is under test
	})

	results, err := matcher.SearchByTask(ctx, "need someone to query production data", 5)
	require.NoError(t, err)
	require.Len(t, results, 1)

	got := results[0]
	assert.Equal(t, int64(7), got.ID)
	assert.Equal(t, "Asha", got.Name)
	assert.Equal(t, "data analyst", got.Description)
	assert.Equal(t, models.SkillList{"python", "sql"}, got.Skills)
	assert.Equal(t, FormatSimilarity(got.MatchScore), got.Similarity)
	assert.True(t, strings.HasSuffix(got.Similarity, "%"))
	assert.InDelta(t, 1-got.MatchScore, got.Distance, 1e-9)
}
