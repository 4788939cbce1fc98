package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fixmate/fixmate/internal/domain"
)

// ResultStore is the append-only diagnosis archive. No update or delete path
// exists.
type ResultStore struct {
	db *pgxpool.Pool
}

func NewResultStore(db *pgxpool.Pool) *ResultStore {
	return &ResultStore{db: db}
}

func (s *ResultStore) Insert(ctx context.Context, rec *domain.DiagnosisRecord) error {
	links := rec.ToolLinks
	if links == nil {
		links = []domain.ToolLink{}
	}
	linksJSON, err := json.Marshal(links)
	if err != nil {
		return fmt.Errorf("marshal tool links: %w", err)
	}

	row := s.db.QueryRow(ctx, `
INSERT INTO problem_results (
  id, user_id, object, issue, likely_cause, task_type,
  raw_result, instructions, tool_suggestions, tool_links
)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
RETURNING created_at`,
		rec.ID, rec.RequesterID, rec.Object, rec.Issue, rec.LikelyCause,
		rec.TaskType, rec.RawResult, rec.Instructions, rec.ToolSuggestions,
		linksJSON)
	if err := row.Scan(&rec.CreatedAt); err != nil {
		return fmt.Errorf("insert result: %w", err)
	}
	return nil
}

func (s *ResultStore) ListByOwner(ctx context.Context, userID string, limit, offset int) ([]domain.DiagnosisRecord, error) {
	rows, err := s.db.Query(ctx, `
SELECT id, user_id, object, issue, likely_cause, task_type,
  raw_result, instructions, tool_suggestions, tool_links, created_at
FROM problem_results
WHERE user_id = $1
ORDER BY created_at DESC
LIMIT $2 OFFSET $3`, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list results: %w", err)
	}
	defer rows.Close()

	var records []domain.DiagnosisRecord
	for rows.Next() {
		var rec domain.DiagnosisRecord
		var linksJSON []byte
		if err := rows.Scan(
			&rec.ID, &rec.RequesterID, &rec.Object, &rec.Issue,
			&rec.LikelyCause, &rec.TaskType, &rec.RawResult,
			&rec.Instructions, &rec.ToolSuggestions, &linksJSON,
			&rec.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan result: %w", err)
		}
		if err := json.Unmarshal(linksJSON, &rec.ToolLinks); err != nil {
			return nil, fmt.Errorf("unmarshal tool links: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
