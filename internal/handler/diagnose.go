package handler

import (
	"net/http"

	"github.com/fixmate/fixmate/internal/domain"
	"github.com/fixmate/fixmate/internal/middleware"
)

type diagnoseRequest struct {
	Base64Image     string `json:"base64Image"`
	TextDescription string `json:"textDescription"`
	TextOnlyMode    bool   `json:"textOnlyMode"`
}

type diagnoseResponse struct {
	Success         bool              `json:"success"`
	Object          string            `json:"object"`
	Issue           string            `json:"issue"`
	LikelyCause     string            `json:"likelyCause"`
	TaskType        string            `json:"taskType"`
	Result          string            `json:"result"`
	Instructions    string            `json:"instructions"`
	ToolSuggestions string            `json:"toolSuggestions"`
	ToolLinks       []domain.ToolLink `json:"toolLinks,omitempty"`
	SessionID       string            `json:"sessionId,omitempty"`
}

// HandleDiagnose is the Diagnose callable: image and/or text in, structured
// diagnosis plus a session id out.
func (h *Handler) HandleDiagnose(w http.ResponseWriter, r *http.Request) {
	identity := middleware.GetIdentity(r.Context())
	if identity == nil {
		respondError(w, domain.ErrUnauthenticated)
		return
	}

	var body diagnoseRequest
	if err := decodeBody(r, &body); err != nil {
		respondError(w, err)
		return
	}

	req := domain.DiagnosisRequest{
		RequesterID:     identity.UserID,
		ImageBase64:     body.Base64Image,
		TextDescription: body.TextDescription,
		TextOnlyMode:    body.TextOnlyMode,
	}

	userCtx := h.userContext.Snapshot(r.Context(), identity.UserID)

	outcome, err := h.diagnosis.RunDiagnosis(r.Context(), req, userCtx)
	if err != nil {
		h.alerter.Error("diagnose", err)
		respondError(w, err)
		return
	}

	if len(outcome.Degraded) > 0 {
		h.alerter.Degraded(identity.UserID, outcome.Degraded)
	}
	if len(outcome.Warnings) > 0 {
		h.alerter.PersistenceWarning(identity.UserID, outcome.Warnings)
	}

	rec := outcome.Record
	respondJSON(w, http.StatusOK, diagnoseResponse{
		Success:         true,
		Object:          rec.Object,
		Issue:           rec.Issue,
		LikelyCause:     rec.LikelyCause,
		TaskType:        rec.TaskType,
		Result:          rec.RawResult,
		Instructions:    rec.Instructions,
		ToolSuggestions: rec.ToolSuggestions,
		ToolLinks:       rec.ToolLinks,
		SessionID:       outcome.SessionID,
	})
}
