package service

import (
	"context"
	"log/slog"

	"github.com/fixmate/fixmate/internal/domain"
)

// ProfileReader is the read side of the profile and inventory documents.
type ProfileReader interface {
	GetProfile(ctx context.Context, userID string) (*domain.Profile, error)
	ListTools(ctx context.Context, userID string) ([]string, error)
}

// UserContextService builds the read-only personalization snapshot taken
// once at pipeline start.
type UserContextService struct {
	profiles ProfileReader
}

func NewUserContextService(profiles ProfileReader) *UserContextService {
	return &UserContextService{profiles: profiles}
}

// Snapshot never fails: a missing profile or a store error yields empty
// defaults so a diagnosis stays possible without personalization.
func (s *UserContextService) Snapshot(ctx context.Context, userID string) domain.UserContext {
	userCtx := domain.UserContext{}

	profile, err := s.profiles.GetProfile(ctx, userID)
	if err != nil {
		slog.Warn("profile read failed, using defaults", "user_id", userID, "error", err)
	} else {
		userCtx.SkillLevel = profile.SkillLevel
		userCtx.ToolPreference = profile.ToolPreference
	}

	tools, err := s.profiles.ListTools(ctx, userID)
	if err != nil {
		slog.Warn("inventory read failed, using defaults", "user_id", userID, "error", err)
	} else {
		userCtx.OwnedTools = tools
	}

	return userCtx
}
