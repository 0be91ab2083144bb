package models

import (
	"encoding/json"
	"fmt"
	"strings"
)

// SkillList is a member's skills. Callers deliver skills either as a JSON array
// of strings or as a single delimited string; the canonical persisted form is a
// Postgres text[]. Normalization to a slice happens only at the boundary.
type SkillList []string

// UnmarshalJSON accepts both a JSON array of strings and a single comma- or
// semicolon-delimited string.
func (s *SkillList) UnmarshalJSON(data []byte) error {
	var arr []string
	if err := json.Unmarshal(data, &arr); err == nil {
		*s = trimNonEmpty(arr)

		return nil
	}

	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return fmt.Errorf("skills must be an array of strings or a delimited string: %w", err)
	}

	*s = SplitSkills(str)

	return nil
}

// SplitSkills parses a delimited skills string into a SkillList. Commas and
// semicolons are both accepted as delimiters.
func SplitSkills(s string) SkillList {
	parts := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ';'
	})

	return trimNonEmpty(parts)
}

// Join renders the list as a comma-joined string for display and for the
// encoder's profile text.
func (s SkillList) Join() string {
	return strings.Join(s, ", ")
}

func trimNonEmpty(parts []string) SkillList {
	out := make(SkillList, 0, len(parts))

	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}

	return out
}

// Member is a member record as read from the store. Name and Description are
// nullable; the record is read-only to this subsystem except for the embedding
// column.
type Member struct {
	ID          int64     `json:"id"`
	Name        *string   `json:"name"`
	Description *string   `json:"description"`
	Skills      SkillList `json:"skills"`
}

// MemberMatch is one ranked candidate from the match_members procedure, plus
// the locally derived Similarity display string.
type MemberMatch struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Skills      SkillList `json:"skills"`
	MatchScore  float64   `json:"match_score"`
	Distance    float64   `json:"distance"`
	Similarity  string    `json:"similarity"`
}
