package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fixmate/fixmate/internal/domain"
)

// ProfileStore persists the per-user profile document and the owned-tools
// inventory. Reads never fail on absence; defaults apply instead.
type ProfileStore struct {
	db *pgxpool.Pool
}

func NewProfileStore(db *pgxpool.Pool) *ProfileStore {
	return &ProfileStore{db: db}
}

func (s *ProfileStore) GetProfile(ctx context.Context, userID string) (*domain.Profile, error) {
	row := s.db.QueryRow(ctx, `
SELECT user_id, skill_level, tool_preference, updated_at
FROM profiles WHERE user_id = $1`, userID)

	var p domain.Profile
	err := row.Scan(&p.UserID, &p.SkillLevel, &p.ToolPreference, &p.UpdatedAt)
	if err == pgx.ErrNoRows {
		return &domain.Profile{UserID: userID}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	return &p, nil
}

func (s *ProfileStore) PutProfile(ctx context.Context, p *domain.Profile) error {
	_, err := s.db.Exec(ctx, `
INSERT INTO profiles (user_id, skill_level, tool_preference, updated_at)
VALUES ($1, $2, $3, NOW())
ON CONFLICT (user_id)
DO UPDATE SET skill_level = EXCLUDED.skill_level,
  tool_preference = EXCLUDED.tool_preference,
  updated_at = NOW()`, p.UserID, p.SkillLevel, p.ToolPreference)
	if err != nil {
		return fmt.Errorf("put profile: %w", err)
	}
	return nil
}

func (s *ProfileStore) ListTools(ctx context.Context, userID string) ([]string, error) {
	rows, err := s.db.Query(ctx, `
SELECT tool FROM inventory WHERE user_id = $1 ORDER BY created_at`, userID)
	if err != nil {
		return nil, fmt.Errorf("list tools: %w", err)
	}
	defer rows.Close()

	var tools []string
	for rows.Next() {
		var tool string
		if err := rows.Scan(&tool); err != nil {
			return nil, fmt.Errorf("scan tool: %w", err)
		}
		tools = append(tools, tool)
	}
	return tools, rows.Err()
}

func (s *ProfileStore) AddTool(ctx context.Context, userID, tool string) error {
	_, err := s.db.Exec(ctx, `
INSERT INTO inventory (user_id, tool) VALUES ($1, $2)
ON CONFLICT (user_id, tool) DO NOTHING`, userID, tool)
	if err != nil {
		return fmt.Errorf("add tool: %w", err)
	}
	return nil
}

func (s *ProfileStore) RemoveTool(ctx context.Context, userID, tool string) error {
	_, err := s.db.Exec(ctx, `
DELETE FROM inventory WHERE user_id = $1 AND tool = $2`, userID, tool)
	if err != nil {
		return fmt.Errorf("remove tool: %w", err)
	}
	return nil
}
