package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fixmate/fixmate/internal/domain"
)

func newTestPipeline(llm CompletionClient) (*DiagnosisService, *memSessionStore, *memResultStore) {
	sessions := newMemSessionStore()
	results := &memResultStore{}
	return NewDiagnosisService(llm, sessions, results, nil, nil), sessions, results
}

func TestRunDiagnosisRejectsEmptyInput(t *testing.T) {
	llm := &scriptedClient{}
	svc, sessions, results := newTestPipeline(llm)

	_, err := svc.RunDiagnosis(context.Background(), domain.DiagnosisRequest{
		RequesterID:     "u1",
		TextDescription: "   ",
	}, domain.UserContext{})

	require.ErrorIs(t, err, domain.ErrInvalidArgument)
	assert.Equal(t, 0, llm.callCount(), "no completion call may happen before validation")
	assert.Empty(t, sessions.sessions)
	assert.Equal(t, 0, results.count())
}

func TestRunDiagnosisUnderstandFailureIsFatal(t *testing.T) {
	llm := &scriptedClient{script: []scriptedReply{{err: errors.New("boom")}}}
	svc, sessions, results := newTestPipeline(llm)

	_, err := svc.RunDiagnosis(context.Background(), domain.DiagnosisRequest{
		RequesterID:     "u1",
		TextDescription: "My drill won't spin",
	}, domain.UserContext{})

	require.ErrorIs(t, err, domain.ErrCompletionUnavailable)
	assert.Equal(t, 1, llm.callCount())
	assert.Empty(t, sessions.sessions, "no session may be written")
	assert.Equal(t, 0, results.count(), "no record may be written")
}

func TestRunDiagnosisSoftDegradation(t *testing.T) {
	llm := &scriptedClient{script: []scriptedReply{
		{content: "Object: Drill\nIssue: Won't spin"},
		{err: errors.New("cause failed")},
		{err: errors.New("classify failed")},
		{err: errors.New("instructions failed")},
		{err: errors.New("tools failed")},
	}}
	svc, _, results := newTestPipeline(llm)

	outcome, err := svc.RunDiagnosis(context.Background(), domain.DiagnosisRequest{
		RequesterID:     "u1",
		TextDescription: "My drill won't spin",
	}, domain.UserContext{})

	require.NoError(t, err, "best-effort stages must not fail the run")
	rec := outcome.Record
	assert.Equal(t, "Drill", rec.Object)
	assert.Equal(t, "Won't spin", rec.Issue)
	assert.Equal(t, "", rec.LikelyCause)
	assert.Equal(t, domain.TaskTypeUnknown, rec.TaskType)
	assert.Equal(t, "", rec.Instructions)
	assert.Equal(t, "", rec.ToolSuggestions)
	assert.Equal(t, []string{StageCause, StageClassify, StageInstructions, StageTools}, outcome.Degraded)
	assert.Equal(t, 1, results.count(), "the partial diagnosis is still archived")
}

func TestRunDiagnosisFullSuccess(t *testing.T) {
	llm := &scriptedClient{script: []scriptedReply{
		{content: "Object: Drill\nIssue: Won't spin"},
		{content: "Worn motor brushes."},
		{content: "Repair"},
		{content: "1. Open the casing. 2. Replace the brushes."},
		{content: "- Brush set: generic 5mm carbon brushes"},
	}}
	svc, sessions, results := newTestPipeline(llm)

	outcome, err := svc.RunDiagnosis(context.Background(), domain.DiagnosisRequest{
		RequesterID:     "u1",
		TextDescription: "My drill won't spin",
		TextOnlyMode:    true,
	}, domain.UserContext{SkillLevel: "beginner", ToolPreference: "manual", OwnedTools: []string{"hammer"}})

	require.NoError(t, err)
	require.Empty(t, outcome.Degraded)
	require.Empty(t, outcome.Warnings)

	rec := outcome.Record
	assert.Equal(t, "Drill", rec.Object)
	assert.Equal(t, "Won't spin", rec.Issue)
	assert.Equal(t, "Worn motor brushes.", rec.LikelyCause)
	assert.Equal(t, domain.TaskTypeRepair, rec.TaskType, "classification is lower-cased and trimmed")
	assert.Equal(t, "Object: Drill\nIssue: Won't spin", rec.RawResult)
	assert.Equal(t, 1, results.count())

	// Session is seeded with the original input and the instructions, with a
	// frozen personalization snapshot.
	require.NotEmpty(t, outcome.SessionID)
	session, err := sessions.Get(context.Background(), outcome.SessionID)
	require.NoError(t, err)
	assert.Equal(t, "u1", session.OwnerID)
	require.Len(t, session.Messages, 2)
	assert.Equal(t, domain.RoleUser, session.Messages[0].Role)
	assert.Equal(t, "My drill won't spin", session.Messages[0].Content)
	assert.Equal(t, domain.RoleAssistant, session.Messages[1].Role)
	assert.Equal(t, "1. Open the casing. 2. Replace the brushes.", session.Messages[1].Content)
	assert.Equal(t, "beginner", session.Context.SkillLevel)
	assert.Equal(t, "manual", session.Context.ToolPreference)
	assert.Equal(t, []string{"hammer"}, session.Context.OwnedTools)
}

func TestRunDiagnosisImageOnlySeedsPlaceholder(t *testing.T) {
	llm := &scriptedClient{script: []scriptedReply{
		{content: "Object: Faucet\nIssue or Intent: Dripping"},
		{content: "Worn washer."},
		{content: "repair"},
		{content: "Replace the washer."},
		{content: "- Washer kit: assorted"},
	}}
	svc, sessions, _ := newTestPipeline(llm)

	outcome, err := svc.RunDiagnosis(context.Background(), domain.DiagnosisRequest{
		RequesterID: "u1",
		ImageBase64: "aGVsbG8=",
	}, domain.UserContext{})

	require.NoError(t, err)
	session, err := sessions.Get(context.Background(), outcome.SessionID)
	require.NoError(t, err)
	assert.Equal(t, "(image-based request)", session.Messages[0].Content)

	// The understanding call carried the image inline.
	require.NotEmpty(t, llm.calls)
	assert.Equal(t, "aGVsbG8=", llm.calls[0][0].ImageBase64)
}

func TestRunDiagnosisPersistFailuresAreNonFatal(t *testing.T) {
	llm := &scriptedClient{script: []scriptedReply{
		{content: "Object: Chair\nIssue: Wobbly leg"},
		{content: "Loose screws."},
		{content: "diy"},
		{content: "Tighten the screws."},
		{content: "- Wood glue: any PVA glue"},
	}}
	sessions := newMemSessionStore()
	sessions.createErr = errors.New("store down")
	results := &memResultStore{insertErr: errors.New("store down")}
	svc := NewDiagnosisService(llm, sessions, results, nil, nil)

	outcome, err := svc.RunDiagnosis(context.Background(), domain.DiagnosisRequest{
		RequesterID:     "u1",
		TextDescription: "wobbly chair",
	}, domain.UserContext{})

	require.NoError(t, err, "persistence failures still report success")
	assert.Empty(t, outcome.SessionID)
	assert.Equal(t, []string{"session", "archive"}, outcome.Warnings)
	assert.Equal(t, "Chair", outcome.Record.Object)
}

func TestParseUnderstanding(t *testing.T) {
	tests := []struct {
		name       string
		text       string
		wantObject string
		wantIssue  string
	}{
		{
			name:       "standard two lines",
			text:       "Object: Drill\nIssue: Won't spin",
			wantObject: "Drill",
			wantIssue:  "Won't spin",
		},
		{
			name:       "issue or intent variant",
			text:       "Object: Shelf\nIssue or Intent: Mount on a brick wall",
			wantObject: "Shelf",
			wantIssue:  "Mount on a brick wall",
		},
		{
			name:       "case insensitive with padding",
			text:       "  OBJECT:  Washing machine  \n  issue:  Leaks from the door  ",
			wantObject: "Washing machine",
			wantIssue:  "Leaks from the door",
		},
		{
			name:       "first match per prefix wins",
			text:       "Object: Lamp\nObject: Other\nIssue: Flickers\nIssue: Dead",
			wantObject: "Lamp",
			wantIssue:  "Flickers",
		},
		{
			name:       "surrounding chatter ignored",
			text:       "Sure! Here is what I found.\nObject: Bike\nIssue: Chain slips\nHope this helps.",
			wantObject: "Bike",
			wantIssue:  "Chain slips",
		},
		{
			name:       "no prefixes fall back",
			text:       "I could not tell what this is.",
			wantObject: "Unknown object",
			wantIssue:  "Unknown issue",
		},
		{
			name:       "empty input falls back",
			text:       "",
			wantObject: "Unknown object",
			wantIssue:  "Unknown issue",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			object, issue := ParseUnderstanding(tt.text)
			assert.Equal(t, tt.wantObject, object)
			assert.Equal(t, tt.wantIssue, issue)
		})
	}
}

func TestInstructionTemplateSelection(t *testing.T) {
	repair := instructionPrompt(domain.TaskTypeRepair, "Drill", "Won't spin")
	assert.Contains(t, repair, "Estimated difficulty")
	assert.Contains(t, repair, "Estimated repair time")

	for _, taskType := range []string{domain.TaskTypeDIY, domain.TaskTypeUnknown, "Repair!", "something else"} {
		bare := instructionPrompt(taskType, "Drill", "Won't spin")
		assert.NotContains(t, bare, "Estimated difficulty", "taskType %q must select the bare template", taskType)
		assert.Contains(t, bare, "Do not include tools or time estimates")
	}
}

func TestToolPromptEmbedsUserContext(t *testing.T) {
	prompt := toolPrompt(domain.UserContext{
		SkillLevel:     "expert",
		ToolPreference: "power",
		OwnedTools:     []string{"drill", "saw"},
	}, "Wobbly chair", "Tighten the screws.")

	assert.Contains(t, prompt, "expert")
	assert.Contains(t, prompt, "power")
	assert.Contains(t, prompt, "drill, saw")
	assert.Contains(t, prompt, "Wobbly chair")
	assert.Contains(t, prompt, "Tighten the screws.")

	unset := toolPrompt(domain.UserContext{}, "x", "y")
	assert.Contains(t, unset, "unset")
	assert.Contains(t, unset, "no_preference")
	assert.Contains(t, unset, "none")
}
