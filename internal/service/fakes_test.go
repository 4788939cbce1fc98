package service

import (
	"context"
	"errors"
	"sync"

	"github.com/fixmate/fixmate/internal/domain"
)

// scriptedClient replays canned completions in call order.
type scriptedClient struct {
	mu      sync.Mutex
	script  []scriptedReply
	calls   [][]Message
	exhaust error
}

type scriptedReply struct {
	content string
	err     error
}

func (c *scriptedClient) Name() string { return "scripted" }

func (c *scriptedClient) Complete(_ context.Context, messages []Message) (*Completion, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	copied := append([]Message{}, messages...)
	c.calls = append(c.calls, copied)

	if len(c.script) == 0 {
		if c.exhaust != nil {
			return nil, c.exhaust
		}
		return nil, errors.New("scripted client exhausted")
	}
	reply := c.script[0]
	c.script = c.script[1:]
	if reply.err != nil {
		return nil, reply.err
	}
	return &Completion{Content: reply.content, Model: "scripted"}, nil
}

func (c *scriptedClient) callCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.calls)
}

// memSessionStore is an in-memory SessionStore with injectable failures and
// simulated write conflicts.
type memSessionStore struct {
	mu        sync.Mutex
	sessions  map[string]*domain.ChatSession
	createErr error
	updateErr error
	conflicts int
	// onConflict lets a test simulate the competing writer that caused the
	// conflict.
	onConflict func(store *memSessionStore)
	updates    int
}

func newMemSessionStore() *memSessionStore {
	return &memSessionStore{sessions: map[string]*domain.ChatSession{}}
}

func (s *memSessionStore) Create(_ context.Context, session *domain.ChatSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.createErr != nil {
		return s.createErr
	}
	session.Version = 1
	stored := *session
	stored.Messages = append([]domain.ChatMessage{}, session.Messages...)
	s.sessions[session.ID] = &stored
	return nil
}

func (s *memSessionStore) Get(_ context.Context, id string) (*domain.ChatSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.sessions[id]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	out := *stored
	out.Messages = append([]domain.ChatMessage{}, stored.Messages...)
	return &out, nil
}

func (s *memSessionStore) UpdateMessages(_ context.Context, id string, messages []domain.ChatMessage, expectedVersion int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.updateErr != nil {
		return s.updateErr
	}
	stored, ok := s.sessions[id]
	if !ok {
		return domain.ErrSessionNotFound
	}
	if s.conflicts > 0 {
		s.conflicts--
		if s.onConflict != nil {
			fn := s.onConflict
			s.mu.Unlock()
			fn(s)
			s.mu.Lock()
		}
		return domain.ErrSessionConflict
	}
	if stored.Version != expectedVersion {
		return domain.ErrSessionConflict
	}
	stored.Messages = append([]domain.ChatMessage{}, messages...)
	stored.Version++
	s.updates++
	return nil
}

// appendAsOtherWriter mimics a competing turn landing on the session.
func (s *memSessionStore) appendAsOtherWriter(id string, msgs ...domain.ChatMessage) {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := s.sessions[id]
	stored.Messages = append(stored.Messages, msgs...)
	stored.Version++
}

// memResultStore is an in-memory ResultStore.
type memResultStore struct {
	mu        sync.Mutex
	records   []domain.DiagnosisRecord
	insertErr error
}

func (s *memResultStore) Insert(_ context.Context, rec *domain.DiagnosisRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.insertErr != nil {
		return s.insertErr
	}
	s.records = append(s.records, *rec)
	return nil
}

func (s *memResultStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}
