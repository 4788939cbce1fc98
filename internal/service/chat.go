package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/fixmate/fixmate/internal/config"
	"github.com/fixmate/fixmate/internal/domain"
)

const stageChat = "chat"

type ChatService struct {
	llm      CompletionClient
	sessions SessionStore
	usage    *UsageService
}

func NewChatService(llm CompletionClient, sessions SessionStore, usage *UsageService) *ChatService {
	return &ChatService{llm: llm, sessions: sessions, usage: usage}
}

// Continue appends one user turn to the session, replays the entire
// transcript through the completion service and persists the transcript with
// the assistant reply appended. A failed completion leaves the session
// untouched: a chat turn with no reply has no useful partial result.
func (s *ChatService) Continue(ctx context.Context, sessionID, ownerID, userMessage string) (string, error) {
	if strings.TrimSpace(ownerID) == "" {
		return "", domain.ErrUnauthenticated
	}
	sessionID = strings.TrimSpace(sessionID)
	userMessage = strings.TrimSpace(userMessage)
	if sessionID == "" || userMessage == "" {
		return "", fmt.Errorf("%w: sessionId and userMessage are required", domain.ErrInvalidArgument)
	}

	session, err := s.loadOwned(ctx, sessionID, ownerID)
	if err != nil {
		return "", err
	}

	// Full transcript replay, no truncation or summarization.
	working := append(append([]domain.ChatMessage{}, session.Messages...),
		domain.ChatMessage{Role: domain.RoleUser, Content: userMessage})

	callCtx, cancel := context.WithTimeout(ctx, config.CompletionTimeout)
	defer cancel()

	completion, err := s.llm.Complete(callCtx, toCompletionMessages(working))
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrCompletionUnavailable, err)
	}
	if s.usage != nil {
		s.usage.Record(ctx, ownerID, stageChat, completion)
	}
	reply := completion.Content

	// Compare-and-swap persist. On conflict, re-read the winner's transcript
	// and re-append our pair so the transcript stays append-only.
	messages := append(working, domain.ChatMessage{Role: domain.RoleAssistant, Content: reply})
	version := session.Version
	for attempt := 0; ; attempt++ {
		err := s.sessions.UpdateMessages(ctx, sessionID, messages, version)
		if err == nil {
			return reply, nil
		}
		if !errors.Is(err, domain.ErrSessionConflict) || attempt >= config.SessionWriteRetries-1 {
			return "", fmt.Errorf("persist chat turn: %w", err)
		}
		latest, err2 := s.loadOwned(ctx, sessionID, ownerID)
		if err2 != nil {
			return "", err2
		}
		messages = append(append([]domain.ChatMessage{}, latest.Messages...),
			domain.ChatMessage{Role: domain.RoleUser, Content: userMessage},
			domain.ChatMessage{Role: domain.RoleAssistant, Content: reply},
		)
		version = latest.Version
	}
}

// loadOwned fetches the session and enforces ownership. A foreign session is
// reported as not found so its existence is not leaked.
func (s *ChatService) loadOwned(ctx context.Context, sessionID, ownerID string) (*domain.ChatSession, error) {
	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.OwnerID != ownerID {
		return nil, domain.ErrSessionNotFound
	}
	return session, nil
}

func toCompletionMessages(messages []domain.ChatMessage) []Message {
	out := make([]Message, 0, len(messages))
	for _, m := range messages {
		out = append(out, Message{Role: m.Role, Text: m.Content})
	}
	return out
}
