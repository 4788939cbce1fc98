package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fixmate/fixmate/internal/domain"
)

// SessionStore persists chat sessions. The transcript is written as a whole;
// the version column guards against lost updates under concurrent writers.
type SessionStore struct {
	db *pgxpool.Pool
}

func NewSessionStore(db *pgxpool.Pool) *SessionStore {
	return &SessionStore{db: db}
}

func (s *SessionStore) Create(ctx context.Context, session *domain.ChatSession) error {
	contextJSON, err := json.Marshal(session.Context)
	if err != nil {
		return fmt.Errorf("marshal session context: %w", err)
	}
	messagesJSON, err := json.Marshal(session.Messages)
	if err != nil {
		return fmt.Errorf("marshal session messages: %w", err)
	}

	row := s.db.QueryRow(ctx, `
INSERT INTO chat_sessions (id, owner_id, context, messages, version)
VALUES ($1, $2, $3, $4, 1)
RETURNING version, created_at, updated_at`,
		session.ID, session.OwnerID, contextJSON, messagesJSON)
	if err := row.Scan(&session.Version, &session.CreatedAt, &session.UpdatedAt); err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	return nil
}

func (s *SessionStore) Get(ctx context.Context, id string) (*domain.ChatSession, error) {
	row := s.db.QueryRow(ctx, `
SELECT id, owner_id, context, messages, version, created_at, updated_at
FROM chat_sessions WHERE id = $1`, id)

	var session domain.ChatSession
	var contextJSON, messagesJSON []byte
	err := row.Scan(
		&session.ID, &session.OwnerID, &contextJSON, &messagesJSON,
		&session.Version, &session.CreatedAt, &session.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, domain.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	if err := json.Unmarshal(contextJSON, &session.Context); err != nil {
		return nil, fmt.Errorf("unmarshal session context: %w", err)
	}
	if err := json.Unmarshal(messagesJSON, &session.Messages); err != nil {
		return nil, fmt.Errorf("unmarshal session messages: %w", err)
	}
	return &session, nil
}

// UpdateMessages overwrites the transcript iff the stored version still
// matches expectedVersion. Returns domain.ErrSessionConflict when another
// writer got there first.
func (s *SessionStore) UpdateMessages(ctx context.Context, id string, messages []domain.ChatMessage, expectedVersion int64) error {
	messagesJSON, err := json.Marshal(messages)
	if err != nil {
		return fmt.Errorf("marshal session messages: %w", err)
	}

	tag, err := s.db.Exec(ctx, `
UPDATE chat_sessions
SET messages = $2, version = version + 1, updated_at = NOW()
WHERE id = $1 AND version = $3`, id, messagesJSON, expectedVersion)
	if err != nil {
		return fmt.Errorf("update session: %w", err)
	}
	if tag.RowsAffected() == 0 {
		// Either the session vanished or the version moved. Distinguish so
		// callers can retry only on conflict.
		var exists bool
		if err := s.db.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM chat_sessions WHERE id = $1)`, id,
		).Scan(&exists); err != nil {
			return fmt.Errorf("check session: %w", err)
		}
		if !exists {
			return domain.ErrSessionNotFound
		}
		return domain.ErrSessionConflict
	}
	return nil
}
