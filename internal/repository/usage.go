package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fixmate/fixmate/internal/domain"
)

// UsageStore records one ledger row per completion-service call.
type UsageStore struct {
	db *pgxpool.Pool
}

func NewUsageStore(db *pgxpool.Pool) *UsageStore {
	return &UsageStore{db: db}
}

func (s *UsageStore) Insert(ctx context.Context, rec *domain.UsageRecord) error {
	_, err := s.db.Exec(ctx, `
INSERT INTO llm_usage (user_id, stage, model, prompt_tokens, completion_tokens, cost)
VALUES ($1, $2, $3, $4, $5, $6)`,
		rec.UserID, rec.Stage, rec.Model,
		rec.PromptTokens, rec.CompletionTokens, rec.Cost)
	if err != nil {
		return fmt.Errorf("insert usage: %w", err)
	}
	return nil
}
