package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/fixmate/fixmate/internal/config"
	"github.com/fixmate/fixmate/internal/domain"
)

// Pipeline stages. Understand is fatal on failure; the rest degrade softly.
const (
	StageUnderstand   = "understand"
	StageCause        = "cause"
	StageClassify     = "classify"
	StageInstructions = "instructions"
	StageTools        = "tools"
)

const (
	fallbackObject = "Unknown object"
	fallbackIssue  = "Unknown issue"
)

// SessionStore is the persistence surface the diagnosis and chat services
// need for chat sessions.
type SessionStore interface {
	Create(ctx context.Context, session *domain.ChatSession) error
	Get(ctx context.Context, id string) (*domain.ChatSession, error)
	UpdateMessages(ctx context.Context, id string, messages []domain.ChatMessage, expectedVersion int64) error
}

// ResultStore is the append-only diagnosis archive.
type ResultStore interface {
	Insert(ctx context.Context, rec *domain.DiagnosisRecord) error
}

// LinkResolver annotates tool suggestions with product-page titles.
type LinkResolver interface {
	Resolve(ctx context.Context, text string) []domain.ToolLink
}

// DiagnosisOutcome aggregates the pipeline result with the per-stage
// degradations and persistence warnings, so callers can see what was
// best-effort skipped without scraping logs.
type DiagnosisOutcome struct {
	Record    *domain.DiagnosisRecord
	SessionID string
	Degraded  []string
	Warnings  []string
}

type DiagnosisService struct {
	llm      CompletionClient
	sessions SessionStore
	results  ResultStore
	usage    *UsageService
	links    LinkResolver
}

func NewDiagnosisService(llm CompletionClient, sessions SessionStore, results ResultStore, usage *UsageService, links LinkResolver) *DiagnosisService {
	return &DiagnosisService{
		llm:      llm,
		sessions: sessions,
		results:  results,
		usage:    usage,
		links:    links,
	}
}

// RunDiagnosis executes the fixed stage sequence: understand, cause,
// classify, instructions, tool suggestions, then persists the session and
// the archive record. Only the understanding call is fatal; every later
// stage leaves its field at the default on failure and the run continues.
func (s *DiagnosisService) RunDiagnosis(ctx context.Context, req domain.DiagnosisRequest, userCtx domain.UserContext) (*DiagnosisOutcome, error) {
	text := strings.TrimSpace(req.TextDescription)
	if req.ImageBase64 == "" && text == "" {
		return nil, fmt.Errorf("%w: an image or text description is required", domain.ErrInvalidArgument)
	}

	outcome := &DiagnosisOutcome{}

	// Understand: the foundational call every later stage depends on.
	understanding, err := s.complete(ctx, StageUnderstand, req.RequesterID, understandMessages(req, text))
	if err != nil {
		return nil, fmt.Errorf("%w: understanding call failed: %v", domain.ErrCompletionUnavailable, err)
	}
	object, issue := ParseUnderstanding(understanding.Content)

	rec := &domain.DiagnosisRecord{
		ID:          uuid.NewString(),
		RequesterID: req.RequesterID,
		Object:      object,
		Issue:       issue,
		TaskType:    domain.TaskTypeUnknown,
		RawResult:   understanding.Content,
	}

	// Likely cause (best effort)
	if cause, err := s.complete(ctx, StageCause, req.RequesterID, promptMessages(causePrompt(object, issue))); err != nil {
		s.degrade(outcome, StageCause, err)
	} else {
		rec.LikelyCause = strings.TrimSpace(cause.Content)
	}

	// Task classification (best effort)
	if classified, err := s.complete(ctx, StageClassify, req.RequesterID, promptMessages(classifyPrompt(issue))); err != nil {
		s.degrade(outcome, StageClassify, err)
	} else {
		rec.TaskType = strings.ToLower(strings.TrimSpace(classified.Content))
	}

	// Instructions (best effort)
	if instr, err := s.complete(ctx, StageInstructions, req.RequesterID, promptMessages(instructionPrompt(rec.TaskType, object, issue))); err != nil {
		s.degrade(outcome, StageInstructions, err)
	} else {
		rec.Instructions = instr.Content
	}

	// Tool suggestions (best effort)
	if tools, err := s.complete(ctx, StageTools, req.RequesterID, promptMessages(toolPrompt(userCtx, issue, rec.Instructions))); err != nil {
		s.degrade(outcome, StageTools, err)
	} else {
		rec.ToolSuggestions = tools.Content
	}

	if s.links != nil && rec.ToolSuggestions != "" {
		rec.ToolLinks = s.links.Resolve(ctx, rec.ToolSuggestions)
	}

	// Seed the chat session: the original user input plus the generated
	// instructions, with a frozen personalization snapshot.
	seedText := text
	if seedText == "" {
		seedText = config.ImageOnlyPlaceholder
	}
	session := &domain.ChatSession{
		ID:      uuid.NewString(),
		OwnerID: req.RequesterID,
		Context: domain.DiagnosisContext{
			Object:         object,
			Issue:          issue,
			LikelyCause:    rec.LikelyCause,
			TaskType:       rec.TaskType,
			SkillLevel:     userCtx.SkillLevel,
			ToolPreference: userCtx.ToolPreference,
			OwnedTools:     userCtx.OwnedTools,
		},
		Messages: []domain.ChatMessage{
			{Role: domain.RoleUser, Content: seedText},
			{Role: domain.RoleAssistant, Content: rec.Instructions},
		},
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		outcome.Warnings = append(outcome.Warnings, "session")
		slog.Error("session create failed", "user_id", req.RequesterID, "error", err)
	} else {
		outcome.SessionID = session.ID
	}

	if err := s.results.Insert(ctx, rec); err != nil {
		outcome.Warnings = append(outcome.Warnings, "archive")
		slog.Error("archive write failed", "user_id", req.RequesterID, "error", err)
	}

	outcome.Record = rec
	return outcome, nil
}

func (s *DiagnosisService) degrade(outcome *DiagnosisOutcome, stage string, err error) {
	outcome.Degraded = append(outcome.Degraded, stage)
	slog.Warn("pipeline stage degraded", "stage", stage, "error", err)
}

// complete runs one completion call under the per-call deadline and records
// its usage best-effort.
func (s *DiagnosisService) complete(ctx context.Context, stage, userID string, messages []Message) (*Completion, error) {
	callCtx, cancel := context.WithTimeout(ctx, config.CompletionTimeout)
	defer cancel()

	completion, err := s.llm.Complete(callCtx, messages)
	if err != nil {
		return nil, err
	}
	if s.usage != nil {
		s.usage.Record(ctx, userID, stage, completion)
	}
	return completion, nil
}

// ParseUnderstanding extracts the object and issue lines from the
// understanding reply. Matching is case-insensitive and takes the first
// occurrence per prefix; missing lines fall back to fixed strings. It never
// fails.
func ParseUnderstanding(text string) (object, issue string) {
	object = fallbackObject
	issue = fallbackIssue
	haveObject, haveIssue := false, false

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		lower := strings.ToLower(line)
		switch {
		case !haveObject && strings.HasPrefix(lower, "object:"):
			if v := strings.TrimSpace(line[len("object:"):]); v != "" {
				object = v
				haveObject = true
			}
		case !haveIssue && strings.HasPrefix(lower, "issue or intent:"):
			if v := strings.TrimSpace(line[len("issue or intent:"):]); v != "" {
				issue = v
				haveIssue = true
			}
		case !haveIssue && strings.HasPrefix(lower, "issue:"):
			if v := strings.TrimSpace(line[len("issue:"):]); v != "" {
				issue = v
				haveIssue = true
			}
		}
	}
	return object, issue
}

func understandMessages(req domain.DiagnosisRequest, text string) []Message {
	msg := Message{Role: domain.RoleUser}
	if text != "" {
		msg.Text = fmt.Sprintf(
			"User's description: %s\n\nPlease identify the object and the issue or intent based on the user's input above. Respond in this format:\nObject: <...>\nIssue or Intent: <...>",
			text)
	}
	if req.HasImage() {
		msg.ImageBase64 = req.ImageBase64
	}
	return []Message{msg}
}

func promptMessages(prompt string) []Message {
	return []Message{{Role: domain.RoleUser, Text: prompt}}
}

func causePrompt(object, issue string) string {
	return fmt.Sprintf(
		"You are a repair diagnosis assistant.\n\nGiven:\n- Object: %s\n- Issue: %s\n\nInfer the most likely technical or physical cause of the issue.\nReturn it as a 1-2 sentence explanation.\nBe specific and practical.",
		object, issue)
}

func classifyPrompt(issue string) string {
	return fmt.Sprintf(
		"Is this task a repair issue or a DIY project intent?\n\nTask: %s\n\nRespond with 'repair' or 'DIY'.",
		issue)
}

func instructionPrompt(taskType, object, issue string) string {
	if taskType == domain.TaskTypeRepair {
		return fmt.Sprintf(
			"You are a step-by-step repair guide generator.\n\nObject: %s\nIssue: %s\n\nGenerate clear repair instructions. Include:\n- Step-by-step process\n- Required tools or materials\n- Estimated difficulty (Easy, Moderate, Hard)\n- Estimated repair time (in minutes)\n\nDo not use markdown formatting.",
			object, issue)
	}
	return fmt.Sprintf(
		"You are a repair assistant.\n\nObject: %s\nIssue: %s\n\nGenerate basic, clear, step-by-step instructions on how to fix the problem. Do not include tools or time estimates. Do not use markdown formatting.",
		object, issue)
}

func toolPrompt(userCtx domain.UserContext, issue, instructions string) string {
	skill := userCtx.SkillLevel
	if skill == "" {
		skill = "unset"
	}
	pref := userCtx.ToolPreference
	if pref == "" {
		pref = "no_preference"
	}
	owned := "none"
	if len(userCtx.OwnedTools) > 0 {
		owned = strings.Join(userCtx.OwnedTools, ", ")
	}
	return fmt.Sprintf(
		"You are a helpful product recommendation assistant for DIY and repair projects.\n\nUser skill level: %s\nTool preference: %s\nTools the user already owns: %s\n\nOnly recommend products the user may not already have. Never suggest tools from the owned list.\nAvoid suggesting common household tools like screwdrivers, scissors, duct tape, tape measure, or pliers.\n\nProject Context: %s\n\nInstructions: %s\n\nReturn a product suggestion for each specific tool or part needed, in this format:\n- [Tool Name]: [Suggested product or link]\n\nDo not use markdown formatting.",
		skill, pref, owned, issue, instructions)
}
