package handler

import (
	"net/http"

	"github.com/fixmate/fixmate/internal/domain"
	"github.com/fixmate/fixmate/internal/middleware"
)

type continueChatRequest struct {
	SessionID   string `json:"sessionId"`
	UserMessage string `json:"userMessage"`
}

type continueChatResponse struct {
	Success bool   `json:"success"`
	Reply   string `json:"reply"`
}

// HandleContinueChat is the Continue Chat callable: one user message in, one
// assistant reply out, transcript persisted.
func (h *Handler) HandleContinueChat(w http.ResponseWriter, r *http.Request) {
	identity := middleware.GetIdentity(r.Context())
	if identity == nil {
		respondError(w, domain.ErrUnauthenticated)
		return
	}

	var body continueChatRequest
	if err := decodeBody(r, &body); err != nil {
		respondError(w, err)
		return
	}

	reply, err := h.chat.Continue(r.Context(), body.SessionID, identity.UserID, body.UserMessage)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, continueChatResponse{Success: true, Reply: reply})
}
