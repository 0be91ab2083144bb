package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Roundtableee/skillmatch/internal/models"
)

func strPtr(s string) *string { return &s }

func TestBuildProfileText(t *testing.T) {
	t.Run("renders labeled fields with closing prompt", func(t *testing.T) {
		text, ok := BuildProfileText(models.Member{
			ID:          7,
			Name:        strPtr("Asha"),
			Description: strPtr("data analyst"),
			Skills:      models.SkillList{"python", "sql"},
		})
		require.True(t, ok)
		assert.Equal(t,
			"Professional: Asha\nSkills: python, sql\nDescription: data analyst\nLooking for candidates with these capabilities:",
			text)
	})

	t.Run("applies fallbacks for nullable fields", func(t *testing.T) {
		text, ok := BuildProfileText(models.Member{
			ID:     3,
			Skills: models.SkillList{"golang"},
		})
		require.True(t, ok)
		assert.Contains(t, text, "Professional: Unnamed")
		assert.Contains(t, text, "Description: No description provided")
	})

	t.Run("signals skip when member has no searchable content", func(t *testing.T) {
		_, ok := BuildProfileText(models.Member{ID: 9})
		assert.False(t, ok)

		_, ok = BuildProfileText(models.Member{
			ID:          9,
			Name:        strPtr("   "),
			Description: strPtr(""),
			Skills:      models.SkillList{},
		})
		assert.False(t, ok)
	})

	t.Run("is deterministic", func(t *testing.T) {
		m := models.Member{ID: 1, Name: strPtr("Kim"), Skills: models.SkillList{"sql"}}

		a, _ := BuildProfileText(m)
		b, _ := BuildProfileText(m)
		assert.Equal(t, a, b)
	})
}
