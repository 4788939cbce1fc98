package handler

import (
	"context"

	"github.com/fixmate/fixmate/internal/alerts"
	"github.com/fixmate/fixmate/internal/domain"
	"github.com/fixmate/fixmate/internal/service"
)

// Diagnoser runs the diagnosis pipeline.
type Diagnoser interface {
	RunDiagnosis(ctx context.Context, req domain.DiagnosisRequest, userCtx domain.UserContext) (*service.DiagnosisOutcome, error)
}

// ChatContinuer runs one follow-up chat turn.
type ChatContinuer interface {
	Continue(ctx context.Context, sessionID, ownerID, userMessage string) (string, error)
}

// ContextSnapshotter builds the personalization snapshot.
type ContextSnapshotter interface {
	Snapshot(ctx context.Context, userID string) domain.UserContext
}

// ResultLister reads the diagnosis archive.
type ResultLister interface {
	ListByOwner(ctx context.Context, userID string, limit, offset int) ([]domain.DiagnosisRecord, error)
}

// ProfileAccess reads and writes the profile and inventory documents.
type ProfileAccess interface {
	GetProfile(ctx context.Context, userID string) (*domain.Profile, error)
	PutProfile(ctx context.Context, p *domain.Profile) error
	ListTools(ctx context.Context, userID string) ([]string, error)
	AddTool(ctx context.Context, userID, tool string) error
	RemoveTool(ctx context.Context, userID, tool string) error
}

// Handler holds all dependencies needed by the callable endpoints.
type Handler struct {
	diagnosis   Diagnoser
	chat        ChatContinuer
	userContext ContextSnapshotter
	results     ResultLister
	profiles    ProfileAccess
	alerter     alerts.Notifier
}

// Deps contains all dependencies required to construct a Handler.
type Deps struct {
	Diagnosis   Diagnoser
	Chat        ChatContinuer
	UserContext ContextSnapshotter
	Results     ResultLister
	Profiles    ProfileAccess
	Alerter     alerts.Notifier
}

// New creates a new Handler from the provided dependencies.
func New(deps Deps) *Handler {
	alerter := deps.Alerter
	if alerter == nil {
		alerter = alerts.Nop{}
	}
	return &Handler{
		diagnosis:   deps.Diagnosis,
		chat:        deps.Chat,
		userContext: deps.UserContext,
		results:     deps.Results,
		profiles:    deps.Profiles,
		alerter:     alerter,
	}
}
