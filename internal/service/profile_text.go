package service

import (
	"strings"

	"github.com/Roundtableee/skillmatch/internal/models"
)

// Fallback labels for nullable profile fields.
const (
	unnamedFallback       = "Unnamed"
	noDescriptionFallback = "No description provided"
)

// profileClosingPrompt nudges the encoder's attention the same direction as the
// query-side template.
const profileClosingPrompt = "Looking for candidates with these capabilities:"

// BuildProfileText renders a member record into the canonical text blob used as
// encoder input. The output is stable for unchanged input, which keeps repeated
// reindex runs idempotent.
//
// The second return value is false when the member has no searchable content
// (empty name, skills, and description); the indexer must not encode in that
// case, since a blob of bare labels would produce a degenerate embedding.
func BuildProfileText(m models.Member) (string, bool) {
	name := strings.TrimSpace(deref(m.Name))
	description := strings.TrimSpace(deref(m.Description))
	skills := m.Skills.Join()

	if name == "" && description == "" && skills == "" {
		return "", false
	}

	if name == "" {
		name = unnamedFallback
	}

	if description == "" {
		description = noDescriptionFallback
	}

	lines := []string{
		"Professional: " + name,
		"Skills: " + skills,
		"Description: " + description,
		profileClosingPrompt,
	}

	return strings.Join(lines, "\n"), true
}

func deref(s *string) string {
	if s == nil {
		return ""
	}

	return *s
}
