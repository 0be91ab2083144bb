package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"

	"github.com/Roundtableee/skillmatch/internal/models"
)

// MembersRepository handles data access for the members table and the
// match_members similarity procedure. Member rows are owned by the surrounding
// team application; this subsystem only reads them and writes the embedding
// column.
type MembersRepository struct {
	db *pgxpool.Pool
}

// NewMembersRepository creates a new members repository.
func NewMembersRepository(db *pgxpool.Pool) *MembersRepository {
	return &MembersRepository{db: db}
}

// ListMembers returns all members (id, name, description, skills) in storage
// order. The batch indexer processes them in exactly this order.
func (r *MembersRepository) ListMembers(ctx context.Context) ([]models.Member, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, name, description, skills FROM members ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	defer rows.Close()

	var members []models.Member

	for rows.Next() {
		var (
			m      models.Member
			skills []string
		)

		if err := rows.Scan(&m.ID, &m.Name, &m.Description, &skills); err != nil {
			return nil, fmt.Errorf("scan member: %w", err)
		}

		m.Skills = models.SkillList(skills)
		members = append(members, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating members: %w", err)
	}

	return members, nil
}

// UpdateEmbedding overwrites the stored embedding for the given member. The
// embedding has no independent lifecycle; reindexing always recomputes it in
// place.
func (r *MembersRepository) UpdateEmbedding(ctx context.Context, memberID int64, embedding []float32) error {
	vec := pgvector.NewVector(embedding)

	_, err := r.db.Exec(ctx,
		`UPDATE members SET embedding = $1 WHERE id = $2`, vec, memberID)
	if err != nil {
		return fmt.Errorf("update member embedding: %w", err)
	}

	return nil
}

// MatchMembers invokes the server-side match_members procedure with the query
// vector. The procedure owns the ranking algorithm and applies the similarity
// threshold itself; rows come back ordered best-first with match_score (higher
// is better) and distance (lower is better).
func (r *MembersRepository) MatchMembers(
	ctx context.Context, queryEmbedding []float32, matchCount int, similarityThreshold float64,
) ([]models.MemberMatch, error) {
	queryVec := pgvector.NewVector(queryEmbedding)

	rows, err := r.db.Query(ctx, `
		SELECT id, name, description, skills, match_score, distance
		FROM match_members($1, $2, $3)`,
		queryVec, matchCount, similarityThreshold)
	if err != nil {
		return nil, fmt.Errorf("match members: %w", err)
	}
	defer rows.Close()

	var matches []models.MemberMatch

	for rows.Next() {
		var (
			m           models.MemberMatch
			name        *string
			description *string
			skills      []string
		)

		if err := rows.Scan(&m.ID, &name, &description, &skills, &m.MatchScore, &m.Distance); err != nil {
			return nil, fmt.Errorf("scan member match: %w", err)
		}

		if name != nil {
			m.Name = *name
		}

		if description != nil {
			m.Description = *description
		}

		m.Skills = models.SkillList(skills)
		matches = append(matches, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating matches: %w", err)
	}

	return matches, nil
}
